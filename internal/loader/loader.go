// Package loader streams raw lines from a record source, polling a
// cancellation checkpoint before each line.
package loader

import (
	"bufio"
	"context"

	"github.com/rs/zerolog/log"
)

// DefaultMaxLineBytes bounds a single line in the record source.
const DefaultMaxLineBytes = 1 << 20

// Checkpoint is polled before each line is consumed.
type Checkpoint interface {
	Cancelled() bool
}

type contextCheckpoint struct {
	ctx context.Context
}

func (c contextCheckpoint) Cancelled() bool {
	return c.ctx.Err() != nil
}

func (c contextCheckpoint) Context() context.Context {
	return c.ctx
}

// ContextCheckpoint reports cancellation once ctx is done.
func ContextCheckpoint(ctx context.Context) Checkpoint {
	return contextCheckpoint{ctx: ctx}
}

// Options configures a Loader.
type Options struct {
	MaxLineBytes int
}

// Loader reads sources line by line.
type Loader struct {
	maxLineBytes int
}

// New creates a Loader.
func New(opts Options) *Loader {
	if opts.MaxLineBytes <= 0 {
		opts.MaxLineBytes = DefaultMaxLineBytes
	}
	return &Loader{maxLineBytes: opts.MaxLineBytes}
}

// Load reads src in order. When cp reports cancellation the lines read so
// far are returned with a nil error. Open and read failures return an
// *IOError and no lines.
func (l *Loader) Load(cp Checkpoint, src Source) ([]string, error) {
	ctx := context.Background()
	if c, ok := cp.(interface{ Context() context.Context }); ok {
		ctx = c.Context()
	}

	rc, err := src.Open(ctx)
	if err != nil {
		// A source that refuses to open because the operation was already
		// cancelled yields an empty result, not an IOError.
		if cp.Cancelled() {
			return nil, nil
		}
		return nil, &IOError{Source: src.Name(), Op: "open", Err: err}
	}
	defer rc.Close()

	scanner := bufio.NewScanner(rc)
	scanner.Buffer(make([]byte, 0, min(4096, l.maxLineBytes)), l.maxLineBytes)

	var lines []string
	for {
		if cp.Cancelled() {
			log.Debug().
				Str("source", src.Name()).
				Int("lines", len(lines)).
				Msg("load cancelled, returning partial result")
			return lines, nil
		}
		if !scanner.Scan() {
			break
		}
		lines = append(lines, scanner.Text())
	}

	if err := scanner.Err(); err != nil {
		return nil, &IOError{Source: src.Name(), Op: "read", Err: err}
	}
	return lines, nil
}
