package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/okian/zrinyi/pkg/logger"
	"github.com/okian/zrinyi/pkg/metrics"
	"golang.org/x/time/rate"
)

// Default fetcher configuration constants.
const (
	DefaultBaseURL = "http://www.mategye.hu/download/eredmenyek"

	defaultTimeout  = 30 * time.Second
	maxSheetBytes   = 16 << 20
	cacheDirPerm    = 0o755
	nanosPerMilli   = 1e6
	errKindStatus   = "status"
	errKindDownload = "download"
	errKindCache    = "cache"
	errKindMiss     = "not_cached"
)

// Fetcher implements region sheet retrieval with a local-cache-first policy.
// It is safe for concurrent use.
type Fetcher struct {
	baseURL       string
	dir           string
	allowDownload bool
	client        *http.Client
	limiter       *rate.Limiter
	logger        logger.Logger
}

// New creates a fetcher caching sheets in dir.
func New(dir string, opts ...Option) *Fetcher {
	f := &Fetcher{
		baseURL:       DefaultBaseURL,
		dir:           dir,
		allowDownload: true,
		client:        &http.Client{Timeout: defaultTimeout},
		limiter:       rate.NewLimiter(rate.Inf, 1),
		logger:        logger.Get().Named("fetch"),
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// URL returns the address of a region sheet.
func (f *Fetcher) URL(year, grade string, region int) string {
	return fmt.Sprintf("%s/%s/Z_%d_egyenieredmeny70_%s.txt", strings.TrimRight(f.baseURL, "/"), year, region, grade)
}

// CachePath returns where a region sheet is cached.
func (f *Fetcher) CachePath(year, grade string, region int) string {
	return filepath.Join(f.dir, path.Base(f.URL(year, grade, region)))
}

// FetchRegionText returns the verbatim bytes of a region sheet. A cached copy
// wins; otherwise the sheet is downloaded (when allowed) and cached. Only a
// 200 response is cached.
func (f *Fetcher) FetchRegionText(ctx context.Context, year, grade string, region int) ([]byte, error) {
	start := time.Now()
	defer func() {
		metrics.RecordFetchLatency(float64(time.Since(start).Nanoseconds()) / nanosPerMilli)
	}()

	cachePath := f.CachePath(year, grade, region)
	data, err := os.ReadFile(cachePath)
	switch {
	case err == nil:
		metrics.RecordRegionFetched(metrics.SourceCache)
		f.logger.Debug(ctx, "cache hit", logger.Int("region", region), logger.String("path", cachePath))
		return data, nil
	case !errors.Is(err, fs.ErrNotExist):
		metrics.RecordFetchError(errKindCache)
		return nil, fmt.Errorf("%w: %w", ErrCache, err)
	}

	if !f.allowDownload {
		metrics.RecordFetchError(errKindMiss)
		return nil, fmt.Errorf("%w: %s", ErrNotCached, cachePath)
	}

	data, err = f.download(ctx, f.URL(year, grade, region))
	if err != nil {
		return nil, err
	}
	metrics.RecordRegionFetched(metrics.SourceDownload)

	if err := f.store(cachePath, data); err != nil {
		// The sheet is still usable for this run.
		metrics.RecordFetchError(errKindCache)
		f.logger.Warn(ctx, "caching sheet failed", logger.String("path", cachePath), logger.Error(err))
	}
	return data, nil
}

func (f *Fetcher) download(ctx context.Context, url string) ([]byte, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: rate limit: %w", ErrDownload, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDownload, err)
	}

	f.logger.Info(ctx, "downloading sheet", logger.String("url", url))
	resp, err := f.client.Do(req)
	if err != nil {
		metrics.RecordFetchError(errKindDownload)
		return nil, fmt.Errorf("%w: %w", ErrDownload, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		metrics.RecordFetchError(errKindStatus)
		f.logger.Warn(ctx, "download rejected", logger.String("url", url), logger.Int("status", resp.StatusCode))
		return nil, fmt.Errorf("%w: %s returned %d", ErrUnexpectedStatus, url, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxSheetBytes))
	if err != nil {
		metrics.RecordFetchError(errKindDownload)
		return nil, fmt.Errorf("%w: read body: %w", ErrDownload, err)
	}
	return data, nil
}

// store writes data atomically so an interrupted run never leaves a partial
// sheet in the cache.
func (f *Fetcher) store(dst string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(dst), cacheDirPerm); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(dst), ".sheet-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), dst)
}
