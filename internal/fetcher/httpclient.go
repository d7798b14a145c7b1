package fetcher

import (
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"resty.dev/v3"
)

const (
	// Backoff bounds between transport retries
	defaultRetryWaitTime    = 100 * time.Millisecond
	defaultRetryMaxWaitTime = 1 * time.Second
)

// NewHTTPClient creates an HTTP client for record endpoints.
// retryCount is the number of transport-level retries with exponential
// backoff; zero disables retrying.
func NewHTTPClient(baseURL string, retryCount int) *resty.Client {
	client := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Accept", "text/csv, text/plain").
		SetRetryCount(retryCount).
		SetRetryWaitTime(defaultRetryWaitTime).
		SetRetryMaxWaitTime(defaultRetryMaxWaitTime).
		AddRetryConditions(retryCondition).
		AddRetryHooks(retryHook)

	return client
}

// retryCondition determines whether a request should be retried based on the response and error
func retryCondition(r *resty.Response, err error) bool {
	// Retry on network errors
	if err != nil {
		return true
	}

	switch code := r.StatusCode(); {
	case code >= http.StatusInternalServerError:
		return true
	case code == http.StatusTooManyRequests, code == http.StatusRequestTimeout:
		return true
	default:
		return false
	}
}

// retryHook logs retry attempts
func retryHook(r *resty.Response, err error) {
	if err != nil {
		log.Debug().
			Interface("url", r.Request.URL).
			Int("attempt", r.Request.Attempt).
			Err(err).
			Msg("retrying request due to error")
		return
	}

	log.Debug().
		Interface("url", r.Request.URL).
		Int("attempt", r.Request.Attempt).
		Int("status_code", r.StatusCode()).
		Msg("retrying request due to status code")
}
