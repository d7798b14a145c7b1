package cli

import (
	"context"
	"io"

	"stockanalyzer/internal/app"
	"stockanalyzer/internal/cancellation"
	"stockanalyzer/internal/config"
	"stockanalyzer/internal/console"
	"stockanalyzer/internal/coordinator"
	"stockanalyzer/internal/fetcher"
	"stockanalyzer/internal/httpsource"
	"stockanalyzer/internal/loader"
	"stockanalyzer/internal/localsource"
	"stockanalyzer/internal/ratelimit"
	"stockanalyzer/internal/report"
)

// session is a wired App together with its terminal.
type session struct {
	app      *app.App
	terminal *console.Terminal
	closers  []func()
}

// close stops the app and releases everything the session opened.
func (s *session) close() {
	s.app.Close()
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}

// newSession builds the object graph described by cfg.
func newSession(ctx context.Context, cfg *config.Config, out io.Writer) *session {
	m := metrics()
	s := &session{terminal: console.NewTerminal(out)}

	l := loader.New(loader.Options{MaxLineBytes: cfg.MaxLineBytes})
	src := loader.FileSource{Path: cfg.SourcePath}

	var svc fetcher.Service
	if cfg.QuotesBaseURL != "" {
		hs := httpsource.New(httpsource.Options{
			BaseURL:    cfg.QuotesBaseURL,
			APIKey:     cfg.QuotesAPIKey,
			RetryCount: cfg.FetchRetryCount,
			Limiter:    ratelimit.New(cfg.RateLimit, cfg.RateBurst),
		})
		s.closers = append(s.closers, func() { _ = hs.Close() })
		svc = hs
	} else {
		svc = localsource.New(l, src)
	}
	svc = fetcher.NewLoggingService(svc)
	svc = fetcher.NewInstrumentingService(m.fetchCount, m.fetchDuration, svc)

	s.closers = append(s.closers, serveMetrics(cfg.MetricsAddr))

	s.app = app.New(
		cancellation.NewController(ctx),
		l,
		src,
		coordinator.New(svc, coordinator.WithDeadline(cfg.MultiDeadline)),
		report.NewAggregator(s.terminal.Sinks(), m.ops),
		app.Options{Workers: cfg.Workers},
	)
	return s
}
