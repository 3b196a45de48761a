package filesystem

import (
	"context"
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

type memoryFileInfo struct {
	name    string
	size    int64
	modTime time.Time
}

func (f *memoryFileInfo) Name() string       { return f.name }
func (f *memoryFileInfo) Size() int64        { return f.size }
func (f *memoryFileInfo) Mode() fs.FileMode  { return 0644 }
func (f *memoryFileInfo) ModTime() time.Time { return f.modTime }
func (f *memoryFileInfo) IsDir() bool        { return false }
func (f *memoryFileInfo) Sys() interface{}   { return nil }

type memoryFile struct {
	absPath string
	relPath string
	info    *memoryFileInfo
}

func (f *memoryFile) Path() string         { return f.absPath }
func (f *memoryFile) RelativePath() string { return f.relPath }
func (f *memoryFile) Info() FileInfo       { return f.info }

type memoryDirectory struct {
	absPath string
	files   []*memoryFile
}

func (d *memoryDirectory) Path() string { return d.absPath }

func (d *memoryDirectory) Walk(ctx context.Context, fn func(File, error) error) error {
	for _, f := range d.files {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := safeCall(f.absPath, func() error { return fn(f, nil) }); err != nil {
			return err
		}
	}
	return nil
}

// MemoryFileSystem is an in-memory tree with forward-slash paths.
// Directories exist implicitly through the files below them; AddDir
// registers an empty one.
type MemoryFileSystem struct {
	mu      sync.RWMutex
	root    string
	files   map[string][]byte
	dirs    map[string]bool
	readErr map[string]error
}

// NewMemoryFileSystem creates a tree rooted at root. Relative paths given to
// other methods are resolved against it.
func NewMemoryFileSystem(root string) *MemoryFileSystem {
	return &MemoryFileSystem{
		root:    path.Clean(filepath.ToSlash(root)),
		files:   make(map[string][]byte),
		dirs:    make(map[string]bool),
		readErr: make(map[string]error),
	}
}

func (m *MemoryFileSystem) abs(p string) string {
	p = filepath.ToSlash(p)
	if p == "" || p == "." {
		return m.root
	}
	if !path.IsAbs(p) {
		p = path.Join(m.root, p)
	}
	return path.Clean(p)
}

func (m *MemoryFileSystem) AddFile(p, content string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[m.abs(p)] = []byte(content)
}

// AddDir registers a directory, which may stay empty.
func (m *MemoryFileSystem) AddDir(p string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dirs[m.abs(p)] = true
}

// FailRead makes ReadFile of p return err.
func (m *MemoryFileSystem) FailRead(p string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.readErr[m.abs(p)] = err
}

func (m *MemoryFileSystem) Open(_ context.Context, p string) (Directory, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	absPath := m.abs(p)
	if _, isFile := m.files[absPath]; isFile {
		return nil, fmt.Errorf("%s is not a directory: %w", p, fs.ErrInvalid)
	}

	prefix := strings.TrimSuffix(absPath, "/") + "/"
	var files []*memoryFile
	for filePath, content := range m.files {
		if !strings.HasPrefix(filePath, prefix) {
			continue
		}
		files = append(files, &memoryFile{
			absPath: filePath,
			relPath: strings.TrimPrefix(filePath, prefix),
			info:    &memoryFileInfo{name: path.Base(filePath), size: int64(len(content)), modTime: time.Unix(0, 0)},
		})
	}

	if len(files) == 0 && !m.hasDir(absPath) {
		return nil, &fs.PathError{Op: "open", Path: p, Err: fs.ErrNotExist}
	}

	sort.Slice(files, func(i, j int) bool { return files[i].absPath < files[j].absPath })
	return &memoryDirectory{absPath: absPath, files: files}, nil
}

func (m *MemoryFileSystem) hasDir(absPath string) bool {
	if absPath == m.root || m.dirs[absPath] {
		return true
	}
	prefix := absPath + "/"
	for dir := range m.dirs {
		if strings.HasPrefix(dir, prefix) {
			return true
		}
	}
	return false
}

func (m *MemoryFileSystem) ReadFile(_ context.Context, p string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	absPath := m.abs(p)
	if err := m.readErr[absPath]; err != nil {
		return nil, err
	}
	content, ok := m.files[absPath]
	if !ok {
		return nil, &fs.PathError{Op: "read", Path: p, Err: fs.ErrNotExist}
	}
	return append([]byte(nil), content...), nil
}
