package repository

import (
	"context"
	"fmt"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/viant/afs"
	"github.com/viant/afs/storage"
	"github.com/viant/buildprune/inspector/info"
	"io"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
)

// Scanner enumerates files under root directories in a deterministic order
type Scanner struct {
	fs       afs.Service
	excludes []string
}

// NewScanner creates a scanner; excludes are doublestar globs matched against root relative paths
func NewScanner(fs afs.Service, excludes ...string) *Scanner {
	if fs == nil {
		fs = afs.New()
	}
	return &Scanner{fs: fs, excludes: excludes}
}

// Scan returns files with one of the extensions found under roots.
// Roots are processed in the given order; within a root, a directory's files come first (sorted by name),
// followed by each sub directory (sorted by name).
func (s *Scanner) Scan(ctx context.Context, roots []string, extensions ...string) ([]*info.File, error) {
	var result []*info.File
	for _, root := range roots {
		files, err := s.scanRoot(ctx, root, extensions)
		if err != nil {
			return nil, err
		}
		result = append(result, files...)
	}
	return result, nil
}

func (s *Scanner) scanRoot(ctx context.Context, root string, extensions []string) ([]*info.File, error) {
	absPath, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}
	if err = s.ensureDir(ctx, absPath); err != nil {
		return nil, err
	}

	var files []*info.File
	var visitor storage.OnVisit = func(ctx context.Context, baseURL, parent string, fileInfo os.FileInfo, reader io.Reader) (bool, error) {
		if fileInfo.IsDir() {
			return true, nil
		}
		if !HasSuffix(fileInfo.Name(), extensions) {
			return true, nil
		}
		relative := strings.TrimPrefix(path.Join(filepath.ToSlash(parent), fileInfo.Name()), "/")
		if s.excluded(relative) {
			return true, nil
		}
		files = append(files, &info.File{
			Root:     absPath,
			Relative: relative,
			Path:     filepath.Join(absPath, filepath.FromSlash(relative)),
			ModTime:  fileInfo.ModTime(),
			Size:     fileInfo.Size(),
		})
		return true, nil
	}
	if err := s.fs.Walk(ctx, absPath, visitor); err != nil {
		return nil, fmt.Errorf("error walking %s: %w", absPath, err)
	}
	sort.SliceStable(files, func(i, j int) bool {
		return WalkOrderLess(files[i].Relative, files[j].Relative)
	})
	return files, nil
}

// EnsureRoots checks that every root is an existing directory
func (s *Scanner) EnsureRoots(ctx context.Context, roots []string) error {
	for _, root := range roots {
		absPath, err := filepath.Abs(root)
		if err != nil {
			return info.NewConfigError("root", root, err)
		}
		if err = s.ensureDir(ctx, absPath); err != nil {
			return err
		}
	}
	return nil
}

func (s *Scanner) ensureDir(ctx context.Context, dir string) error {
	exists, err := s.fs.Exists(ctx, dir)
	if err != nil {
		return info.NewConfigError("root", dir, err)
	}
	if !exists {
		return info.NewConfigError("root", dir+" does not exist", nil)
	}
	object, err := s.fs.Object(ctx, dir)
	if err != nil {
		return info.NewConfigError("root", dir, err)
	}
	if !object.IsDir() {
		return info.NewConfigError("root", dir+" is not a directory", nil)
	}
	return nil
}

func (s *Scanner) excluded(relative string) bool {
	for _, pattern := range s.excludes {
		if pattern == "" {
			continue
		}
		if ok, err := doublestar.Match(pattern, relative); err == nil && ok {
			return true
		}
	}
	return false
}

// HasSuffix returns true if the name extension equals one of the extensions
func HasSuffix(name string, extensions []string) bool {
	ext := filepath.Ext(name)
	for _, candidate := range extensions {
		if ext == candidate {
			return true
		}
	}
	return false
}

// WalkOrderLess compares slash separated relative paths in top-down walk order:
// at the first differing segment a file precedes a directory, otherwise names compare lexicographically
func WalkOrderLess(a, b string) bool {
	aSegments := strings.Split(a, "/")
	bSegments := strings.Split(b, "/")
	for i := 0; i < len(aSegments) && i < len(bSegments); i++ {
		if aSegments[i] == bSegments[i] {
			continue
		}
		aIsFile := i == len(aSegments)-1
		bIsFile := i == len(bSegments)-1
		if aIsFile != bIsFile {
			return aIsFile
		}
		return aSegments[i] < bSegments[i]
	}
	return len(aSegments) < len(bSegments)
}
