// Package project locates the root of a content project and recognises the
// static site generator that builds it.
package project

import (
	"os"
	"path/filepath"

	"github.com/dotcommander/geolint/internal/config"
)

// Generator names.
const (
	GeneratorUnknown    = "unknown"
	GeneratorHugo       = "hugo"
	GeneratorJekyll     = "jekyll"
	GeneratorAstro      = "astro"
	GeneratorDocusaurus = "docusaurus"
	GeneratorMkDocs     = "mkdocs"
)

// Info contains information about the detected project.
// Named 'Info' instead of 'ProjectInfo' to avoid stuttering (project.Info vs project.ProjectInfo).
type Info struct {
	Root      string
	HasGit    bool
	HasConfig bool
	Generator string

	// ContentDirs are the source directories that exist, relative to Root.
	ContentDirs []string

	// OutputDir is the generator's build directory, empty when unknown.
	OutputDir string
}

// rootMarkers identify a project root, in lookup order.
var rootMarkers = append(append([]string{}, config.ConfigFiles...), ".git", "package.json", "go.mod")

type generator struct {
	name        string
	markers     []string
	contentDirs []string
	outputDir   string
}

// generators are checked in order; the first with a marker present wins.
var generators = []generator{
	{GeneratorHugo, []string{"hugo.toml", "hugo.yaml", "hugo.json", "config.toml"}, []string{"content"}, "public"},
	{GeneratorJekyll, []string{"_config.yml", "_config.yaml"}, []string{"_posts", "_pages", "_drafts"}, "_site"},
	{GeneratorAstro, []string{"astro.config.mjs", "astro.config.ts", "astro.config.js"}, []string{"src/content", "src/pages"}, "dist"},
	{GeneratorDocusaurus, []string{"docusaurus.config.js", "docusaurus.config.ts"}, []string{"docs", "blog"}, "build"},
	{GeneratorMkDocs, []string{"mkdocs.yml", "mkdocs.yaml"}, []string{"docs"}, "site"},
}

// FindProjectRoot searches for a project root starting from the given path
// and climbing up the directory tree if needed.
func FindProjectRoot(startPath string) (string, error) {
	absPath, err := filepath.Abs(startPath)
	if err != nil {
		return "", err
	}

	currentDir := absPath
	for {
		if isProjectRoot(currentDir) {
			return currentDir, nil
		}

		parent := filepath.Dir(currentDir)
		if parent == currentDir {
			// Reached filesystem root
			break
		}
		currentDir = parent
	}

	// Default to the start directory if no project root found
	return absPath, nil
}

func isProjectRoot(path string) bool {
	for _, marker := range rootMarkers {
		if exists(filepath.Join(path, marker)) {
			return true
		}
	}
	return false
}

// Detect detects project information at the given path.
// Named 'Detect' instead of 'DetectProjectInfo' to avoid stuttering.
func Detect(rootPath string) (*Info, error) {
	if _, err := os.Stat(rootPath); err != nil {
		return nil, err
	}

	info := &Info{
		Root:      rootPath,
		HasGit:    exists(filepath.Join(rootPath, ".git")),
		Generator: GeneratorUnknown,
	}
	info.HasConfig = anyExists(rootPath, config.ConfigFiles)

	for _, g := range generators {
		if !anyExists(rootPath, g.markers) {
			continue
		}
		info.Generator = g.name
		info.OutputDir = g.outputDir
		for _, dir := range g.contentDirs {
			if isDir(filepath.Join(rootPath, dir)) {
				info.ContentDirs = append(info.ContentDirs, dir)
			}
		}
		break
	}

	return info, nil
}

// Include returns include patterns scoped to the content directories, or nil
// when none were found.
func (i *Info) Include(extensions []string) []string {
	var patterns []string
	for _, dir := range i.ContentDirs {
		for _, ext := range extensions {
			patterns = append(patterns, filepath.ToSlash(dir)+"/**/*"+ext)
		}
	}
	return patterns
}

func anyExists(dir string, names []string) bool {
	for _, name := range names {
		if exists(filepath.Join(dir, name)) {
			return true
		}
	}
	return false
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
