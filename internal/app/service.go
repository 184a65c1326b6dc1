// Package service runs the result merge pipeline and serves its outcome to
// the HTTP API.
package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/encoding"

	"github.com/okian/zrinyi/internal/adapters/fetch"
	"github.com/okian/zrinyi/internal/adapters/report"
	"github.com/okian/zrinyi/internal/domain/model"
	"github.com/okian/zrinyi/internal/domain/ranking"
	"github.com/okian/zrinyi/internal/domain/sheet"
	"github.com/okian/zrinyi/pkg/logger"
	"github.com/okian/zrinyi/pkg/metrics"
)

// Default pipeline configuration constants.
const (
	DefaultFirstRegion = 10
	DefaultLastRegion  = 35
	DefaultEncoding    = "windows-1250"

	reasonEmpty = "empty sheet"
)

// Fetcher retrieves the raw bytes of one region sheet.
type Fetcher interface {
	FetchRegionText(ctx context.Context, year, grade string, region int) ([]byte, error)
}

// Result is the immutable outcome of one run.
type Result struct {
	RunID       string               `json:"run_id"`
	Year        string               `json:"year"`
	Grade       string               `json:"grade"`
	Leaderboard []model.RankedRecord `json:"leaderboard"`
	Schools     []model.RankedSchool `json:"schools"`
	Regions     []model.RegionStatus `json:"regions"`
	Missing     []int                `json:"missing"`
	Skipped     int                  `json:"skipped"`
	SchoolTopN  int                  `json:"school_top_n"`
	Duration    time.Duration        `json:"duration"`
}

// Service merges region sheets into the leaderboard and school ranking.
type Service struct {
	mu sync.RWMutex

	fetcher Fetcher

	firstRegion int
	lastRegion  int
	encoding    string
	strict      bool
	schoolTopN  int
	concurrency int

	last *Result

	logger logger.Logger
}

// New constructs a Service reading sheets through f.
func New(f Fetcher, opts ...Option) *Service {
	s := &Service{
		fetcher:     f,
		firstRegion: DefaultFirstRegion,
		lastRegion:  DefaultLastRegion,
		encoding:    DefaultEncoding,
		strict:      true,
		schoolTopN:  ranking.DefaultSchoolTopN,
		concurrency: 1,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = logger.Get().Named("merge")
	}
	return s
}

// fetched holds one region's retrieval outcome.
type fetched struct {
	data []byte
	err  error
}

// Run fetches every region in range, extracts and pools their records, and
// ranks competitors and schools. A region that cannot be retrieved or is
// empty is recorded as missing. In strict mode a malformed row fails the run.
func (s *Service) Run(ctx context.Context, year, grade string) (*Result, error) {
	start := time.Now()
	res := &Result{
		RunID:      uuid.NewString(),
		Year:       year,
		Grade:      grade,
		SchoolTopN: s.schoolTopN,
		Missing:    []int{},
	}
	log := s.logger.With(logger.String("run_id", res.RunID))

	enc, err := sheet.LookupEncoding(s.encoding)
	if err != nil {
		return nil, err
	}

	ids := s.regions()
	slots, err := s.fetchAll(ctx, year, grade, ids)
	if err != nil {
		return nil, err
	}

	var pool []model.CompetitorRecord
	for i, id := range ids {
		status := model.RegionStatus{ID: id}
		recs, skipped, err := s.region(ctx, log, id, slots[i], enc, &status)
		if err != nil {
			log.Error(ctx, "malformed sheet", logger.Int("region", id), logger.Error(err))
			return nil, err
		}
		if status.Missing {
			res.Missing = append(res.Missing, id)
			metrics.RecordRegionMissing()
			log.Warn(ctx, "region is missing", logger.Int("region", id), logger.String("reason", status.Reason))
		} else {
			log.Info(ctx, "region loaded",
				logger.Int("region", id),
				logger.String("name", status.Name),
				logger.Int("records", status.Records),
			)
		}
		res.Skipped += skipped
		res.Regions = append(res.Regions, status)
		pool = append(pool, recs...)
	}
	metrics.RecordRecordsExtracted(len(pool))

	res.Leaderboard = ranking.Rank(pool)
	res.Schools = ranking.Schools(res.Leaderboard, s.schoolTopN)
	res.Duration = time.Since(start)

	metrics.UpdateLeaderboardSize(len(res.Leaderboard))
	metrics.UpdateSchoolCount(len(res.Schools))
	metrics.RecordPipelineDuration(float64(res.Duration.Milliseconds()))

	log.Info(ctx, "merge complete",
		logger.Int("competitors", len(res.Leaderboard)),
		logger.Int("schools", len(res.Schools)),
		logger.Int("missing", len(res.Missing)),
		logger.Int("skipped", res.Skipped),
		logger.Duration("duration", res.Duration),
	)

	s.mu.Lock()
	s.last = res
	s.mu.Unlock()
	return res, nil
}

func (s *Service) regions() []int {
	if s.lastRegion < s.firstRegion {
		return nil
	}
	ids := make([]int, 0, s.lastRegion-s.firstRegion+1)
	for id := s.firstRegion; id <= s.lastRegion; id++ {
		ids = append(ids, id)
	}
	return ids
}

// fetchAll retrieves every region, at most s.concurrency at a time. Each
// goroutine writes only its own slot; a failed fetch is kept in the slot and
// never cancels the others.
func (s *Service) fetchAll(ctx context.Context, year, grade string, ids []int) ([]fetched, error) {
	slots := make([]fetched, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			data, err := s.fetcher.FetchRegionText(gctx, year, grade, id)
			slots[i] = fetched{data: data, err: err}
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("fetch regions: %w", err)
	}
	return slots, nil
}

// region turns one fetched sheet into records and fills status. It returns
// the number of rows skipped in lenient mode.
func (s *Service) region(ctx context.Context, log logger.Logger, id int, f fetched, enc encoding.Encoding, status *model.RegionStatus) ([]model.CompetitorRecord, int, error) {
	switch {
	case f.err != nil:
		status.Missing = true
		status.Reason = missingReason(f.err)
		return nil, 0, nil
	case len(f.data) == 0:
		status.Missing = true
		status.Reason = reasonEmpty
		return nil, 0, nil
	}

	text, err := sheet.Decode(f.data, enc)
	if err != nil {
		status.Missing = true
		status.Reason = err.Error()
		return nil, 0, nil
	}
	lines := sheet.Normalize(text)
	if len(lines) == 0 {
		status.Missing = true
		status.Reason = reasonEmpty
		return nil, 0, nil
	}

	sh, err := sheet.Extract(id, lines, sheet.WithLenient(!s.strict))
	if err != nil {
		metrics.RecordMalformedLine()
		return nil, 0, err
	}
	for _, skipped := range sh.Skipped {
		metrics.RecordMalformedLine()
		log.Warn(ctx, "skipping malformed line", logger.Int("region", id), logger.Error(skipped))
	}

	status.Name = sh.RegionName
	status.Records = len(sh.Records)
	return sh.Records, len(sh.Skipped), nil
}

func missingReason(err error) string {
	switch {
	case errors.Is(err, fetch.ErrNotCached):
		return "not cached"
	case errors.Is(err, fetch.ErrUnexpectedStatus):
		return "not published"
	case errors.Is(err, fetch.ErrCache):
		return "cache unreadable"
	default:
		return "download failed"
	}
}

// Last returns the most recent result, or nil before the first run.
func (s *Service) Last() *Result {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.last
}

func (s *Service) result() (*Result, error) {
	res := s.Last()
	if res == nil {
		return nil, ErrNoResult
	}
	return res, nil
}

// TopN returns the first n leaderboard entries.
func (s *Service) TopN(_ context.Context, n int) ([]model.RankedRecord, error) {
	res, err := s.result()
	if err != nil {
		return nil, err
	}
	return res.Leaderboard[:min(n, len(res.Leaderboard))], nil
}

// TopSchools returns the first n ranked schools.
func (s *Service) TopSchools(_ context.Context, n int) ([]model.RankedSchool, error) {
	res, err := s.result()
	if err != nil {
		return nil, err
	}
	return res.Schools[:min(n, len(res.Schools))], nil
}

// Regions returns the per-region status of the last run.
func (s *Service) Regions(_ context.Context) ([]model.RegionStatus, error) {
	res, err := s.result()
	if err != nil {
		return nil, err
	}
	return res.Regions, nil
}

// Report renders the text report of the last run.
func (s *Service) Report(_ context.Context) ([]byte, error) {
	res, err := s.result()
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := report.Write(&buf, res.Leaderboard, res.Schools, res.SchoolTopN); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// GetStats returns run statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	stats := map[string]interface{}{
		"firstRegion": s.firstRegion,
		"lastRegion":  s.lastRegion,
		"strict":      s.strict,
		"schoolTopN":  s.schoolTopN,
		"concurrency": s.concurrency,
		"completed":   false,
	}

	res := s.Last()
	if res == nil {
		return stats
	}
	stats["completed"] = true
	stats["runId"] = res.RunID
	stats["year"] = res.Year
	stats["grade"] = res.Grade
	stats["competitors"] = len(res.Leaderboard)
	stats["schools"] = len(res.Schools)
	stats["regions"] = len(res.Regions)
	stats["missing"] = res.Missing
	stats["skipped"] = res.Skipped
	stats["durationMs"] = res.Duration.Milliseconds()
	return stats
}
