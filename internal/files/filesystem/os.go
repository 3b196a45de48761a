package filesystem

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

type osFile struct {
	absPath string
	relPath string
	info    fs.FileInfo
}

func (f *osFile) Path() string         { return f.absPath }
func (f *osFile) RelativePath() string { return f.relPath }
func (f *osFile) Info() FileInfo       { return f.info }

type osDirectory struct {
	absPath string
}

func (d *osDirectory) Path() string { return d.absPath }

// Walk visits entries in lexical order. A symlinked root is resolved before
// walking, and symlinked files report the info of their target. Paths are
// reported under the root as given, not under its resolved target.
func (d *osDirectory) Walk(ctx context.Context, fn func(File, error) error) error {
	walkRoot, err := filepath.EvalSymlinks(d.absPath)
	if err != nil {
		return fn(nil, fmt.Errorf("failed to resolve %s: %w", d.absPath, err))
	}

	return filepath.WalkDir(walkRoot, func(path string, entry fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		return safeCall(path, func() error {
			if walkErr != nil {
				return fn(nil, walkErr)
			}
			info, err := entryInfo(path, entry)
			if err != nil {
				return fn(nil, err)
			}
			rel, err := filepath.Rel(walkRoot, path)
			if err != nil {
				return fn(nil, fmt.Errorf("failed to get relative path: %w", err))
			}
			return fn(&osFile{absPath: filepath.Join(d.absPath, rel), relPath: filepath.ToSlash(rel), info: info}, nil)
		})
	})
}

// entryInfo follows a symlink entry to its target. A dangling link keeps its
// own Lstat info, so callers see it as a non-regular file.
func entryInfo(path string, entry fs.DirEntry) (fs.FileInfo, error) {
	if entry.Type()&fs.ModeSymlink != 0 {
		if info, err := os.Stat(path); err == nil {
			return info, nil
		}
	}
	return entry.Info()
}

// OSFileSystem reads from the local disk.
type OSFileSystem struct{}

func NewOSFileSystem() *OSFileSystem {
	return &OSFileSystem{}
}

func (p *OSFileSystem) Open(_ context.Context, path string) (Directory, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to access %s: %w", path, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory: %w", path, fs.ErrInvalid)
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}
	return &osDirectory{absPath: absPath}, nil
}

func (p *OSFileSystem) ReadFile(_ context.Context, path string) ([]byte, error) {
	return os.ReadFile(path)
}
