// Package discovery finds dataset files under a root.
package discovery

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/vvka-141/sparkload/internal/files/filesystem"
	"github.com/vvka-141/sparkload/pkg/sparkload"
)

// Discoverer lists every regular file whose extension matches, case-insensitively.
// Safe for concurrent use if the provider is.
type Discoverer struct {
	provider  filesystem.FileSystemProvider
	extension string
}

// New returns a Discoverer for extension (".json" when empty).
// Panics if provider is nil.
func New(provider filesystem.FileSystemProvider, extension string) *Discoverer {
	if provider == nil {
		panic("provider cannot be nil")
	}
	if extension == "" {
		extension = sparkload.DefaultExtension
	}
	return &Discoverer{provider: provider, extension: strings.ToLower(extension)}
}

// Discover walks root. A missing root fails with sparkload.ErrSourceNotFound;
// a root without matching files returns an empty FileSet.
func (d *Discoverer) Discover(ctx context.Context, root string) (sparkload.FileSet, error) {
	dir, err := d.provider.Open(ctx, root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrInvalid) {
			return sparkload.FileSet{}, fmt.Errorf("dataset root %s: %w: %w", root, sparkload.ErrSourceNotFound, err)
		}
		return sparkload.FileSet{}, fmt.Errorf("failed to open dataset root %s: %w", root, err)
	}

	set := sparkload.FileSet{Root: root}
	err = dir.Walk(ctx, func(file filesystem.File, err error) error {
		if err != nil {
			return fmt.Errorf("error walking %s: %w", root, err)
		}
		if !file.Info().Mode().IsRegular() {
			return nil
		}
		if strings.ToLower(path.Ext(file.RelativePath())) != d.extension {
			return nil
		}
		set.Files = append(set.Files, file.Path())
		return nil
	})
	if err != nil {
		return sparkload.FileSet{}, err
	}
	return set, nil
}

// ReadFile reads a path produced by Discover.
func (d *Discoverer) ReadFile(ctx context.Context, p string) ([]byte, error) {
	return d.provider.ReadFile(ctx, p)
}

var _ sparkload.FileDiscoverer = (*Discoverer)(nil)
