package filesystem

import (
	"context"
	"sync"
)

// Router dispatches s3:// paths to an S3 provider and everything else to a
// local one. The S3 provider is built on first use so local runs never
// touch AWS configuration.
type Router struct {
	local FileSystemProvider

	newS3 func(ctx context.Context) (FileSystemProvider, error)
	once  sync.Once
	s3    FileSystemProvider
	s3Err error
}

// NewRouter routes local paths to local and s3:// paths to the provider newS3 returns.
func NewRouter(local FileSystemProvider, newS3 func(ctx context.Context) (FileSystemProvider, error)) *Router {
	if local == nil {
		panic("local provider cannot be nil")
	}
	return &Router{local: local, newS3: newS3}
}

// NewDefaultRouter reads the local disk and S3 with the default AWS credential chain.
func NewDefaultRouter() *Router {
	return NewRouter(NewOSFileSystem(), func(ctx context.Context) (FileSystemProvider, error) {
		return NewS3FileSystemFromEnv(ctx)
	})
}

func (r *Router) provider(ctx context.Context, p string) (FileSystemProvider, error) {
	if !IsS3Path(p) || r.newS3 == nil {
		return r.local, nil
	}
	r.once.Do(func() {
		r.s3, r.s3Err = r.newS3(ctx)
	})
	return r.s3, r.s3Err
}

func (r *Router) Open(ctx context.Context, p string) (Directory, error) {
	provider, err := r.provider(ctx, p)
	if err != nil {
		return nil, err
	}
	return provider.Open(ctx, p)
}

func (r *Router) ReadFile(ctx context.Context, p string) ([]byte, error) {
	provider, err := r.provider(ctx, p)
	if err != nil {
		return nil, err
	}
	return provider.ReadFile(ctx, p)
}

var (
	_ FileSystemProvider = (*OSFileSystem)(nil)
	_ FileSystemProvider = (*MemoryFileSystem)(nil)
	_ FileSystemProvider = (*S3FileSystem)(nil)
	_ FileSystemProvider = (*Router)(nil)
)
