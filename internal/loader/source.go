package loader

import (
	"context"
	"io"
	"os"
)

// Source is a readable record source. Each Open returns a fresh reader
// that the caller must close.
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
	Name() string
}

// FileSource reads records from a file on disk.
type FileSource struct {
	Path string
}

// Open opens the file for reading.
func (s FileSource) Open(ctx context.Context) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return os.Open(s.Path)
}

// Name returns the file path.
func (s FileSource) Name() string {
	return s.Path
}
