package filesystem

import (
	"context"
	"fmt"
	"io/fs"
)

// FileInfo is an alias for fs.FileInfo.
type FileInfo = fs.FileInfo

// File is one entry met while walking a Directory.
type File interface {
	// Path returns the absolute path, or the full s3:// URL.
	Path() string

	// RelativePath returns the path relative to the walked root, with forward slashes.
	RelativePath() string

	Info() FileInfo
}

// Directory is a root that can be traversed.
type Directory interface {
	Path() string

	// Walk calls fn for every entry under the root in a deterministic order.
	// Walking stops at the first error fn returns or when ctx is done.
	Walk(ctx context.Context, fn func(File, error) error) error
}

// FileSystemProvider opens roots and reads files.
type FileSystemProvider interface {
	Open(ctx context.Context, path string) (Directory, error)
	ReadFile(ctx context.Context, path string) ([]byte, error)
}

// safeCall runs fn and converts a panic into an error, so one bad callback
// cannot take down a walk.
func safeCall(path string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("walk callback panicked at %s: %v", path, r)
		}
	}()
	return fn()
}
