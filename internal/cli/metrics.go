package cli

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	kitprometheus "github.com/go-kit/kit/metrics/prometheus"
	stdprometheus "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"stockanalyzer/internal/report"
)

// instruments are registered once per process with the default registry.
type instruments struct {
	fetchCount    *kitprometheus.Counter
	fetchDuration *kitprometheus.Summary
	ops           report.Metrics
}

var (
	instrumentsOnce sync.Once
	sharedMetrics   *instruments
)

func metrics() *instruments {
	instrumentsOnce.Do(func() {
		fetchLabels := []string{"ticker", "error"}
		opLabels := []string{"kind", "error"}

		sharedMetrics = &instruments{
			fetchCount: kitprometheus.NewCounterFrom(stdprometheus.CounterOpts{
				Namespace: "stockanalyzer",
				Subsystem: "fetch",
				Name:      "requests_total",
				Help:      "Number of per-ticker fetches.",
			}, fetchLabels),
			fetchDuration: kitprometheus.NewSummaryFrom(stdprometheus.SummaryOpts{
				Namespace: "stockanalyzer",
				Subsystem: "fetch",
				Name:      "duration_seconds",
				Help:      "Duration of per-ticker fetches in seconds.",
			}, fetchLabels),
			ops: report.Metrics{
				Operations: kitprometheus.NewCounterFrom(stdprometheus.CounterOpts{
					Namespace: "stockanalyzer",
					Subsystem: "operation",
					Name:      "total",
					Help:      "Number of finished search operations.",
				}, opLabels),
				Duration: kitprometheus.NewHistogramFrom(stdprometheus.HistogramOpts{
					Namespace: "stockanalyzer",
					Subsystem: "operation",
					Name:      "duration_seconds",
					Help:      "Wall-clock time from start to termination of a search.",
					Buckets:   stdprometheus.DefBuckets,
				}, opLabels),
			},
		}
	})
	return sharedMetrics
}

// serveMetrics exposes /metrics on addr until the returned stop func is
// called. An empty addr disables the endpoint.
func serveMetrics(addr string) (stop func()) {
	if addr == "" {
		return func() {}
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Str("addr", addr).Msg("metrics endpoint failed")
		}
	}()
	log.Info().Str("addr", addr).Msg("serving metrics")

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}
