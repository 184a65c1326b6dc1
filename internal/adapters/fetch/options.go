// Package fetch retrieves regional result sheets, serving them from a local
// download cache first and downloading them on a miss.
package fetch

import (
	"net/http"
	"time"

	"github.com/okian/zrinyi/pkg/logger"
	"golang.org/x/time/rate"
)

// Option applies a configuration option to the Fetcher.
type Option func(*Fetcher)

// WithBaseURL sets the prefix of the published sheets.
func WithBaseURL(baseURL string) Option {
	return func(f *Fetcher) {
		if baseURL != "" {
			f.baseURL = baseURL
		}
	}
}

// WithDownload enables or disables network retrieval on cache misses.
func WithDownload(allow bool) Option {
	return func(f *Fetcher) {
		f.allowDownload = allow
	}
}

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(f *Fetcher) {
		if c != nil {
			f.client = c
		}
	}
}

// WithTimeout sets the per-download timeout of the default client.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		if d > 0 {
			f.client.Timeout = d
		}
	}
}

// WithRateLimit throttles downloads to perSec with the given burst.
// Cache hits are never throttled.
func WithRateLimit(perSec float64, burst int) Option {
	return func(f *Fetcher) {
		if perSec > 0 && burst > 0 {
			f.limiter = rate.NewLimiter(rate.Limit(perSec), burst)
		}
	}
}

// WithLogger sets a custom logger for the fetcher.
func WithLogger(l logger.Logger) Option {
	return func(f *Fetcher) {
		if l != nil {
			f.logger = l
		}
	}
}
