// Package config defines process configuration structures and loading hooks.
//
// Conventions:
// - New() builds a Config with defaults; Load(ctx) layers file and env on top.
// - External errors are wrapped with this package's sentinel kinds.
package config

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level" validate:"omitempty,oneof=debug info warn warning error"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format" validate:"omitempty,oneof=text json"`

	// Addr configures the HTTP listen address used by `serve`, e.g. ":9080".
	Addr string `koanf:"addr" validate:"required"`

	// BaseURL is the prefix of the published result sheets.
	BaseURL string `koanf:"base_url" validate:"required,url"`

	// DownloadDir caches downloaded sheets; ReportDir receives report files.
	DownloadDir string `koanf:"download_dir" validate:"required"`
	ReportDir   string `koanf:"report_dir" validate:"required"`

	// AllowDownload permits network retrieval on cache misses.
	AllowDownload bool `koanf:"allow_download"`

	// FirstRegion and LastRegion bound the closed range of region ids.
	FirstRegion int `koanf:"first_region" validate:"gte=0"`
	LastRegion  int `koanf:"last_region" validate:"gtefield=FirstRegion"`

	// Encoding names the character set of the published sheets.
	Encoding string `koanf:"encoding" validate:"required"`

	// Strict aborts a run on the first malformed data line.
	Strict bool `koanf:"strict"`

	// SchoolTopN caps how many competitors count towards a school total.
	SchoolTopN int `koanf:"school_top_n" validate:"gte=1"`

	// FetchConcurrency bounds parallel region retrieval; 1 is sequential.
	FetchConcurrency int `koanf:"fetch_concurrency" validate:"gte=1"`

	// FetchRatePerSec and FetchBurst throttle downloads.
	FetchRatePerSec float64 `koanf:"fetch_rate_per_sec" validate:"gt=0"`
	FetchBurst      int     `koanf:"fetch_burst" validate:"gte=1"`

	// HTTPTimeoutMS bounds a single download.
	HTTPTimeoutMS int `koanf:"http_timeout_ms" validate:"gte=1"`

	// MaxLeaderboardLimit caps GET /leaderboard?limit and /schools?limit.
	MaxLeaderboardLimit int `koanf:"max_leaderboard_limit" validate:"gte=1"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:            "info",
		LogFormat:           "text",
		Addr:                ":9080",
		BaseURL:             "http://www.mategye.hu/download/eredmenyek",
		DownloadDir:         "./downloads",
		ReportDir:           ".",
		AllowDownload:       true,
		FirstRegion:         10,
		LastRegion:          35,
		Encoding:            "windows-1250",
		Strict:              true,
		SchoolTopN:          4,
		FetchConcurrency:    1,
		FetchRatePerSec:     4,
		FetchBurst:          1,
		HTTPTimeoutMS:       30_000,
		MaxLeaderboardLimit: 10_000,
	}
}
