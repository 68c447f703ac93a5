package discovery

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// File represents a discovered file with its metadata
type File struct {
	Path     string
	RelPath  string
	Size     int64
	Type     FileType
	Contents string
}

// FileType categorizes discovered files
type FileType int

const (
	FileTypeUnknown FileType = iota
	FileTypeMarkdown
	FileTypeHTML
	FileTypeSchema
)

// String returns the human-readable name of the file type.
func (ft FileType) String() string {
	switch ft {
	case FileTypeMarkdown:
		return "markdown"
	case FileTypeHTML:
		return "html"
	case FileTypeSchema:
		return "schema"
	default:
		return "unknown"
	}
}

// IsPage reports whether files of this type hold page content.
func (ft FileType) IsPage() bool {
	return ft == FileTypeMarkdown || ft == FileTypeHTML
}

// extensionTypes maps lowercase file extensions to their type.
var extensionTypes = map[string]FileType{
	".md":       FileTypeMarkdown,
	".markdown": FileTypeMarkdown,
	".html":     FileTypeHTML,
	".htm":      FileTypeHTML,
	".json":     FileTypeSchema,
	".jsonld":   FileTypeSchema,
	".yaml":     FileTypeSchema,
	".yml":      FileTypeSchema,
}

// DetectFileType determines the input kind from a file's extension.
func DetectFileType(path string) (FileType, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ft, ok := extensionTypes[ext]; ok {
		return ft, nil
	}
	if ext == "" {
		return FileTypeUnknown, fmt.Errorf(
			"unsupported file: %s has no extension. geolint reads .md, .html, .json, .jsonld and .yaml files", filepath.Base(path))
	}
	return FileTypeUnknown, fmt.Errorf(
		"unsupported file type: %s. geolint reads .md, .html, .json, .jsonld and .yaml files", ext)
}

// ValidateFilePath checks that path is a readable, non-empty text file and
// returns its absolute path.
func ValidateFilePath(path string) (absPath string, err error) {
	absPath, err = filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("invalid path %q: %w", path, err)
	}

	info, err := os.Lstat(absPath) // Lstat to detect symlinks
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("file not found: %s", absPath)
		}
		if os.IsPermission(err) {
			return "", fmt.Errorf("permission denied: %s", absPath)
		}
		return "", fmt.Errorf("cannot access file: %s: %w", absPath, err)
	}

	if info.Mode()&os.ModeSymlink != 0 {
		realPath, evalErr := filepath.EvalSymlinks(absPath)
		if evalErr != nil {
			return "", fmt.Errorf("cannot resolve symlink %s: %w", absPath, evalErr)
		}
		absPath = realPath
		info, err = os.Stat(absPath)
		if err != nil {
			return "", fmt.Errorf("symlink target inaccessible: %s: %w", absPath, err)
		}
	}

	if info.IsDir() {
		return "", fmt.Errorf("path is a directory, not a file: %s", absPath)
	}
	if info.Size() == 0 {
		return "", fmt.Errorf("file is empty: %s", absPath)
	}

	f, err := os.Open(absPath)
	if err != nil {
		return "", fmt.Errorf("cannot read file: %s: %w", absPath, err)
	}
	defer f.Close()

	// Read first 512 bytes for binary detection
	buf := make([]byte, 512)
	n, err := f.Read(buf)
	if err != nil {
		return "", fmt.Errorf("cannot read file: %s: %w", absPath, err)
	}
	if bytes.Contains(buf[:n], []byte{0}) {
		return "", fmt.Errorf("file appears to be binary, not text: %s", absPath)
	}

	return absPath, nil
}

// FileDiscovery manages file discovery operations
type FileDiscovery struct {
	rootPath       string
	include        []string
	exclude        []string
	followSymlinks bool
}

// NewFileDiscovery creates a FileDiscovery rooted at rootPath. Include and
// exclude are doublestar patterns relative to the root.
func NewFileDiscovery(rootPath string, include, exclude []string) *FileDiscovery {
	return &FileDiscovery{
		rootPath: rootPath,
		include:  include,
		exclude:  exclude,
	}
}

// FollowSymlinks makes discovery follow symlinks that stay inside the root.
func (fd *FileDiscovery) FollowSymlinks(follow bool) *FileDiscovery {
	fd.followSymlinks = follow
	return fd
}

// DiscoverFiles finds every file matching the include patterns and none of
// the exclude patterns, sorted by relative path.
func (fd *FileDiscovery) DiscoverFiles() ([]File, error) {
	return fd.findFilesByPattern(fd.include)
}

// Resolve expands command-line arguments into files. Directories are
// searched with the include patterns, glob arguments are matched against the
// root, and plain paths are read directly. No arguments means the whole root.
func (fd *FileDiscovery) Resolve(args []string) ([]File, error) {
	if len(args) == 0 {
		return fd.DiscoverFiles()
	}

	seen := make(map[string]bool)
	var files []File
	add := func(fs []File) {
		for _, f := range fs {
			if !seen[f.Path] {
				seen[f.Path] = true
				files = append(files, f)
			}
		}
	}

	for _, arg := range args {
		switch {
		case strings.ContainsAny(arg, "*?[{"):
			found, err := fd.findFilesByPattern([]string{filepath.ToSlash(arg)})
			if err != nil {
				return nil, err
			}
			if len(found) == 0 {
				return nil, fmt.Errorf("no files match %s", arg)
			}
			add(found)
		case isDir(arg):
			sub, err := NewFileDiscovery(arg, fd.include, fd.exclude).FollowSymlinks(fd.followSymlinks).DiscoverFiles()
			if err != nil {
				return nil, err
			}
			add(sub)
		default:
			f, err := LoadFile(arg)
			if err != nil {
				return nil, err
			}
			add([]File{f})
		}
	}
	return files, nil
}

// Select reads the given paths, which must lie under the root, applying the
// exclude patterns. Paths that cannot be read are skipped.
func (fd *FileDiscovery) Select(paths []string) ([]File, error) {
	var files []File
	for _, p := range paths {
		rel, err := filepath.Rel(fd.rootPath, p)
		if err != nil || strings.HasPrefix(rel, "..") {
			return nil, fmt.Errorf("%s is outside %s", p, fd.rootPath)
		}
		rel = filepath.ToSlash(rel)
		if fd.excluded(rel) {
			continue
		}
		if f, ok := fd.processMatch(rel); ok {
			files = append(files, f)
		}
	}
	sort.Slice(files, func(i, j int) bool { return files[i].RelPath < files[j].RelPath })
	return files, nil
}

// LoadFile validates and reads a single file.
func LoadFile(path string) (File, error) {
	ft, err := DetectFileType(path)
	if err != nil {
		return File{}, err
	}
	absPath, err := ValidateFilePath(path)
	if err != nil {
		return File{}, err
	}
	contents, err := os.ReadFile(absPath)
	if err != nil {
		return File{}, fmt.Errorf("cannot read file: %s: %w", absPath, err)
	}
	return File{
		Path:     absPath,
		RelPath:  filepath.ToSlash(path),
		Size:     int64(len(contents)),
		Type:     ft,
		Contents: string(contents),
	}, nil
}

// findFilesByPattern finds files matching the given glob patterns
func (fd *FileDiscovery) findFilesByPattern(patterns []string) ([]File, error) {
	seen := make(map[string]bool)
	var files []File

	for _, pattern := range patterns {
		// Use doublestar for glob matching with ** patterns
		matches, err := doublestar.Glob(os.DirFS(fd.rootPath), pattern)
		if err != nil {
			return nil, fmt.Errorf("error evaluating pattern %s: %w", pattern, err)
		}

		for _, match := range matches {
			if seen[match] || fd.excluded(match) {
				continue
			}
			seen[match] = true
			if f, ok := fd.processMatch(match); ok {
				files = append(files, f)
			}
		}
	}

	sort.Slice(files, func(i, j int) bool { return files[i].RelPath < files[j].RelPath })
	return files, nil
}

func (fd *FileDiscovery) excluded(relPath string) bool {
	for _, pattern := range fd.exclude {
		if ok, err := doublestar.Match(pattern, relPath); err == nil && ok {
			return true
		}
	}
	return false
}

// processMatch converts a glob match into a File, returning false if the match should be skipped.
func (fd *FileDiscovery) processMatch(match string) (File, bool) {
	ft, err := DetectFileType(match)
	if err != nil {
		return File{}, false
	}
	fullPath := filepath.Join(fd.rootPath, match)

	info, err := os.Lstat(fullPath)
	if err != nil || info.IsDir() {
		return File{}, false
	}

	readPath := fullPath
	if info.Mode()&os.ModeSymlink != 0 {
		resolved, resolvedInfo, ok := fd.resolveSymlink(fullPath)
		if !ok || resolvedInfo.IsDir() {
			return File{}, false
		}
		readPath = resolved
		info = resolvedInfo
	}

	contents, err := os.ReadFile(readPath)
	if err != nil {
		return File{}, false
	}

	return File{
		Path:     fullPath,
		RelPath:  match,
		Size:     info.Size(),
		Type:     ft,
		Contents: string(contents),
	}, true
}

// resolveSymlink follows a symlink if configured, returning the resolved path and info.
// Returns false if the symlink should be skipped.
func (fd *FileDiscovery) resolveSymlink(fullPath string) (string, os.FileInfo, bool) {
	if !fd.followSymlinks {
		return "", nil, false
	}

	realPath, err := filepath.EvalSymlinks(fullPath)
	if err != nil {
		return "", nil, false
	}

	root, err := filepath.EvalSymlinks(fd.rootPath)
	if err != nil {
		return "", nil, false
	}
	if rel, err := filepath.Rel(root, realPath); err != nil || strings.HasPrefix(rel, "..") {
		return "", nil, false
	}

	info, err := os.Stat(realPath)
	if err != nil {
		return "", nil, false
	}

	return realPath, info, true
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
