// Package adapter contains the infrastructure adapters for the jlower CLI.
package adapter

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"

	m "jlower.dev/pkg/jlower/internal/model"
)

const (
	javaExt          = ".java"
	recursiveSuffix  = "/..."
	defaultDirPerm   = 0o750
	defaultWritePerm = 0o644
)

// SourceFSAdapter abstracts filesystem-specific operations that the domain layer
// relies on when scanning and writing Java sources. It hides direct `os`
// access so the workflow logic can be tested without touching the disk.
//
//nolint:interfacebloat // A richer interface keeps workflow logic decoupled from os/fs.
type SourceFSAdapter interface {
	// Get resolves path patterns into the Java files they cover. A trailing
	// "/..." scans recursively; exclude holds glob patterns.
	Get(roots []m.Path, exclude ...string) ([]m.Path, error)

	// Walk traverses the provided root path. When recursive is false the
	// implementation should limit itself to the root directory (no sub-dirs).
	Walk(root m.Path, recursive bool, fn FilepathWalkFunc) error

	// ReadFile loads a file from disk and returns its contents.
	ReadFile(path m.Path) ([]byte, error)

	// FileInfo returns metadata for a path so the domain can check existence or
	// distinguish between files and directories when necessary.
	FileInfo(path m.Path) (os.FileInfo, error)

	// Exists reports whether anything is present at path.
	Exists(path m.Path) (bool, error)

	// WriteFile writes content to a file, creating missing parent directories.
	WriteFile(path m.Path, content []byte, perm os.FileMode) error

	// RelPath returns the relative path from base to target.
	RelPath(base, target m.Path) (m.Path, error)

	// JoinPath joins path elements into a single path.
	JoinPath(elem ...string) m.Path
}

// FilepathWalkFunc mirrors the callback shape used by filepath.Walk. It is
// defined here to avoid leaking the standard-library type directly into the
// domain layer.
type FilepathWalkFunc func(path string, info os.FileInfo, err error) error

// LocalSourceFSAdapter is the os-backed SourceFSAdapter.
type LocalSourceFSAdapter struct{}

// NewLocalSourceFSAdapter constructs a LocalSourceFSAdapter instance ready to
// be wired into the workflow.
func NewLocalSourceFSAdapter() *LocalSourceFSAdapter {
	return &LocalSourceFSAdapter{}
}

// Get collects the .java files under roots, sorted and de-duplicated.
func (a *LocalSourceFSAdapter) Get(roots []m.Path, exclude ...string) ([]m.Path, error) {
	matchers, err := compileExcludes(exclude)
	if err != nil {
		return nil, err
	}

	if len(roots) == 0 {
		roots = []m.Path{"."}
	}

	seen := make(map[m.Path]struct{})

	var files []m.Path

	for _, root := range roots {
		dir, recursive := splitPattern(root)

		err := a.Walk(dir, recursive, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}

			if info.IsDir() || filepath.Ext(path) != javaExt || isExcluded(matchers, path) {
				return nil
			}

			if _, ok := seen[m.Path(path)]; ok {
				return nil
			}

			seen[m.Path(path)] = struct{}{}
			files = append(files, m.Path(path))

			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", root, err)
		}
	}

	sort.Slice(files, func(i, j int) bool { return files[i] < files[j] })

	return files, nil
}

func splitPattern(root m.Path) (m.Path, bool) {
	value := filepath.ToSlash(string(root))
	if value == "..." {
		return ".", true
	}

	if strings.HasSuffix(value, recursiveSuffix) {
		dir := strings.TrimSuffix(value, recursiveSuffix)
		if dir == "" {
			dir = "/"
		}

		return m.Path(filepath.FromSlash(dir)), true
	}

	return root, false
}

func compileExcludes(patterns []string) ([]glob.Glob, error) {
	matchers := make([]glob.Glob, 0, len(patterns))

	for _, pattern := range patterns {
		if strings.TrimSpace(pattern) == "" {
			continue
		}

		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", pattern, err)
		}

		matchers = append(matchers, g)
	}

	return matchers, nil
}

// isExcluded matches the slash-separated path and its base name.
func isExcluded(matchers []glob.Glob, path string) bool {
	slashed := filepath.ToSlash(path)
	base := filepath.Base(path)

	for _, g := range matchers {
		if g.Match(slashed) || g.Match(base) || g.Match(strings.TrimPrefix(slashed, "./")) {
			return true
		}
	}

	return false
}

// Walk iterates over files under root, optionally descending into subdirectories.
func (a *LocalSourceFSAdapter) Walk(root m.Path, recursive bool, fn FilepathWalkFunc) error {
	rootStr := string(root)

	return filepath.Walk(rootStr, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return fn(path, info, err)
		}

		if info.IsDir() && !recursive && path != rootStr {
			return filepath.SkipDir
		}

		return fn(path, info, nil)
	})
}

// ReadFile loads file contents from disk.
func (a *LocalSourceFSAdapter) ReadFile(path m.Path) ([]byte, error) {
	// #nosec G304 - path is a user-selected input file
	return os.ReadFile(string(path))
}

// FileInfo returns os.FileInfo metadata for the given path.
func (a *LocalSourceFSAdapter) FileInfo(path m.Path) (os.FileInfo, error) {
	return os.Stat(string(path))
}

// Exists reports whether path exists. Stat failures other than "not found"
// are returned as errors.
func (a *LocalSourceFSAdapter) Exists(path m.Path) (bool, error) {
	_, err := os.Lstat(string(path))
	if err == nil {
		return true, nil
	}

	if os.IsNotExist(err) {
		return false, nil
	}

	return false, err
}

// WriteFile writes content to a file with the given permissions.
func (a *LocalSourceFSAdapter) WriteFile(path m.Path, content []byte, perm os.FileMode) error {
	if perm == 0 {
		perm = defaultWritePerm
	}

	if err := os.MkdirAll(filepath.Dir(string(path)), defaultDirPerm); err != nil {
		return err
	}

	return os.WriteFile(string(path), content, perm)
}

// RelPath returns the relative path from base to target.
func (a *LocalSourceFSAdapter) RelPath(base, target m.Path) (m.Path, error) {
	rel, err := filepath.Rel(string(base), string(target))
	if err != nil {
		return "", err
	}

	return m.Path(rel), nil
}

// JoinPath joins path elements into a single path.
func (a *LocalSourceFSAdapter) JoinPath(elem ...string) m.Path {
	return m.Path(filepath.Join(elem...))
}
