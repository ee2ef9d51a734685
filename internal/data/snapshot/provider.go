package snapshot

import (
	"context"
	"sync"

	"tokenlint/internal/engine/document"
	"tokenlint/internal/engine/lint"
	"tokenlint/internal/engine/provenance"
)

// FileProvider serves the snapshot at a path and re-reads it on Reload. An optional library
// file replaces the library list embedded in the snapshot.
type FileProvider struct {
	path          string
	librariesPath string

	mu        sync.RWMutex
	src       *Source
	libraries []lint.Library
}

func NewFileProvider(path, librariesPath string) (*FileProvider, error) {
	p := &FileProvider{path: path, librariesPath: librariesPath}
	if err := p.Reload(); err != nil {
		return nil, err
	}
	return p, nil
}

// Reload reads both files again. On error the previously loaded snapshot stays in place.
func (p *FileProvider) Reload() error {
	src, err := Load(p.path)
	if err != nil {
		return err
	}
	var libs []lint.Library
	if p.librariesPath != "" {
		libs, err = LoadLibraries(p.librariesPath)
		if err != nil {
			return err
		}
	}

	p.mu.Lock()
	p.src = src
	p.libraries = libs
	p.mu.Unlock()
	return nil
}

// Paths lists the files the provider reads.
func (p *FileProvider) Paths() []string {
	if p.librariesPath == "" {
		return []string{p.path}
	}
	return []string{p.path, p.librariesPath}
}

func (p *FileProvider) current() (*Source, []lint.Library) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.src, p.libraries
}

func (p *FileProvider) Snapshot(ctx context.Context) (*document.Snapshot, error) {
	src, _ := p.current()
	return src.Snapshot(ctx)
}

func (p *FileProvider) Libraries(ctx context.Context) ([]lint.Library, error) {
	src, libs := p.current()
	if libs == nil {
		return src.Libraries(ctx)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]lint.Library, len(libs))
	copy(out, libs)
	return out, nil
}

func (p *FileProvider) Resolve(ctx context.Context, b document.Binding) (provenance.Resolution, bool, error) {
	src, _ := p.current()
	return src.Resolve(ctx, b)
}
