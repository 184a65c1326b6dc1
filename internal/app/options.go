package service

import "github.com/okian/zrinyi/pkg/logger"

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithRegions sets the closed range of region identifiers to merge.
func WithRegions(first, last int) Option {
	return func(s *Service) {
		if first >= 0 && last >= first {
			s.firstRegion = first
			s.lastRegion = last
		}
	}
}

// WithEncoding sets the encoding name the sheets are published in.
func WithEncoding(name string) Option {
	return func(s *Service) {
		if name != "" {
			s.encoding = name
		}
	}
}

// WithStrict controls whether a malformed row fails the run (true) or is
// skipped and reported (false).
func WithStrict(strict bool) Option {
	return func(s *Service) {
		s.strict = strict
	}
}

// WithSchoolTopN sets how many competitors count toward a school total.
func WithSchoolTopN(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.schoolTopN = n
		}
	}
}

// WithFetchConcurrency sets how many regions are fetched at once.
func WithFetchConcurrency(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.concurrency = n
		}
	}
}
