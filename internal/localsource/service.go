// Package localsource serves ticker records from the record file.
package localsource

import (
	"context"

	"stockanalyzer/internal/loader"
	"stockanalyzer/internal/parser"
	"stockanalyzer/internal/stock"
)

// Service reads the whole record source for every fetch and keeps the
// requested ticker's records.
type Service struct {
	loader *loader.Loader
	source loader.Source
}

// New creates a Service reading src through l.
func New(l *loader.Loader, src loader.Source) *Service {
	return &Service{loader: l, source: src}
}

// Fetch loads, parses and filters the source for ticker. A load stopped by
// ctx is reported as ctx's error, since a partial read is not a complete
// result for a batch.
func (s *Service) Fetch(ctx context.Context, ticker string) ([]stock.Record, error) {
	lines, err := s.loader.Load(loader.ContextCheckpoint(ctx), s.source)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return parser.ParseAndFilter(lines, ticker)
}
