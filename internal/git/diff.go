// Package git lists the content files touched in a git working tree, so
// that pre-commit runs only analyse what changed.
package git

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/dotcommander/geolint/internal/discovery"
)

// GetStagedFiles returns absolute paths of content files in the git staging
// area under rootPath. Returns an empty slice if not in a git repository.
func GetStagedFiles(rootPath string) ([]string, error) {
	if !IsGitRepo(rootPath) {
		return []string{}, nil
	}

	// --relative limits the diff to rootPath and prints paths relative to it
	cmd := exec.Command("git", "diff", "--name-only", "--relative", "--staged")
	cmd.Dir = rootPath
	output, err := cmd.CombinedOutput()
	if err != nil {
		return nil, fmt.Errorf("git diff --staged failed: %w: %s", err, output)
	}

	return filterRelevantFiles(string(output), rootPath)
}

// GetChangedFiles returns absolute paths of content files with uncommitted
// changes (staged and unstaged) under rootPath. Returns an empty slice if not
// in a git repository.
func GetChangedFiles(rootPath string) ([]string, error) {
	if !IsGitRepo(rootPath) {
		return []string{}, nil
	}

	// Check if there are any commits
	checkCmd := exec.Command("git", "rev-parse", "HEAD")
	checkCmd.Dir = rootPath
	if err := checkCmd.Run(); err != nil {
		// No commits yet - use every tracked file
		cmd := exec.Command("git", "ls-files")
		cmd.Dir = rootPath
		output, err := cmd.CombinedOutput()
		if err != nil {
			return nil, fmt.Errorf("git ls-files failed: %w: %s", err, output)
		}
		return filterRelevantFiles(string(output), rootPath)
	}

	cmd := exec.Command("git", "diff", "--name-only", "--relative", "HEAD")
	cmd.Dir = rootPath
	output, err := cmd.CombinedOutput()
	if err != nil {
		return nil, fmt.Errorf("git diff HEAD failed: %w: %s", err, output)
	}

	return filterRelevantFiles(string(output), rootPath)
}

// IsGitRepo checks if the given directory is within a git repository.
func IsGitRepo(rootPath string) bool {
	cmd := exec.Command("git", "rev-parse", "--git-dir")
	cmd.Dir = rootPath
	cmd.Stderr = nil // Suppress error output
	err := cmd.Run()
	return err == nil
}

// filterRelevantFiles keeps the content files of git output whose paths are
// relative to rootPath. Deleted files are dropped. Returns absolute paths.
func filterRelevantFiles(gitOutput, rootPath string) ([]string, error) {
	files := []string{}
	for _, line := range strings.Split(strings.TrimSpace(gitOutput), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || !isRelevantFile(line) {
			continue
		}

		absPath := filepath.Join(rootPath, line)

		// git reports deletions too
		if _, err := os.Stat(absPath); os.IsNotExist(err) {
			continue
		}

		files = append(files, absPath)
	}
	return files, nil
}

// isRelevantFile reports whether a changed file is content geolint reads.
// Pages and .jsonld files always are; .json and .yaml files only when a path
// component mentions "schema".
func isRelevantFile(relPath string) bool {
	components := strings.Split(filepath.ToSlash(relPath), "/")
	for _, c := range components[:len(components)-1] {
		switch c {
		case "node_modules", "vendor", ".git":
			return false
		}
	}

	ft, err := discovery.DetectFileType(relPath)
	if err != nil {
		return false
	}
	if ft.IsPage() || strings.EqualFold(filepath.Ext(relPath), ".jsonld") {
		return true
	}

	for _, c := range components {
		if strings.Contains(strings.ToLower(c), "schema") {
			return true
		}
	}
	return false
}
