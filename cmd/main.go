package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/okian/zrinyi/internal/adapters/fetch"
	"github.com/okian/zrinyi/internal/adapters/http/api"
	"github.com/okian/zrinyi/internal/adapters/http/swagger"
	"github.com/okian/zrinyi/internal/adapters/report"
	app "github.com/okian/zrinyi/internal/app"
	"github.com/okian/zrinyi/internal/config"
	"github.com/okian/zrinyi/pkg/logger"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 10 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second

	// legacyNoDownload is the single-dash spelling accepted after the
	// positional arguments.
	legacyNoDownload = "-no-download"
)

func main() {
	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	root := newRootCmd()
	root.SetArgs(normalizeArgs(os.Args[1:]))
	if err := root.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "zrinyi",
		Short:        "Merge regional Zrinyi competition results into one ranking",
		SilenceUsage: true,
	}
	root.AddCommand(newRunCmd(), newServeCmd())
	return root
}

// normalizeArgs rewrites the single-dash no-download switch so the flag
// parser accepts it.
func normalizeArgs(args []string) []string {
	out := make([]string, len(args))
	for i, a := range args {
		if a == legacyNoDownload {
			a = "-" + legacyNoDownload
		}
		out[i] = a
	}
	return out
}

func newRunCmd() *cobra.Command {
	var noDownload bool
	cmd := &cobra.Command{
		Use:   "run <year> <grade>",
		Short: "Merge all regions and write the report file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			year, grade := args[0], args[1]

			cfg, err := setup(cmd, noDownload)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Ev: %s, Osztaly: %s\n", year, grade)

			svc := newService(cfg)
			res, err := svc.Run(ctx, year, grade)
			if err != nil {
				logger.Get().Error(ctx, "merge failed", logger.Error(err))
				return err
			}

			path, err := report.Save(cfg.ReportDir, year, grade, cmd.OutOrStdout(), res.Leaderboard, res.Schools, res.SchoolTopN)
			if err != nil {
				logger.Get().Error(ctx, "writing report failed", logger.Error(err))
				return err
			}
			report.WriteSummary(cmd.ErrOrStderr(), res.Regions)
			logger.Get().Info(ctx, "report written",
				logger.String("path", path),
				logger.String("run_id", res.RunID),
			)
			return nil
		},
	}
	cmd.Flags().BoolVar(&noDownload, "no-download", false, "use only cached sheets")
	return cmd
}

func newServeCmd() *cobra.Command {
	var noDownload bool
	cmd := &cobra.Command{
		Use:   "serve <year> <grade>",
		Short: "Merge all regions once and serve the results over HTTP",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := setup(cmd, noDownload)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Ev: %s, Osztaly: %s\n", args[0], args[1])

			svc := newService(cfg)
			if _, err := svc.Run(ctx, args[0], args[1]); err != nil {
				logger.Get().Error(ctx, "merge failed", logger.Error(err))
				return err
			}
			return serve(ctx, cfg, svc)
		},
	}
	cmd.Flags().BoolVar(&noDownload, "no-download", false, "use only cached sheets")
	return cmd
}

// setup loads configuration and initializes logging on the command's
// diagnostics stream.
func setup(cmd *cobra.Command, noDownload bool) (*config.Config, error) {
	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(cmd.Context())
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "failed to load config: %v\n", err)
		return nil, err
	}
	if noDownload {
		cfg.AllowDownload = false
	}

	if err := logger.Init(logger.WithOutput(cmd.ErrOrStderr()), logger.WithFormat(cfg.LogFormat)); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "failed to initialize logging: %v\n", err)
		return nil, err
	}
	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		logger.Get().Warn(cmd.Context(), "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}
	return cfg, nil
}

func newService(cfg *config.Config) *app.Service {
	fetcher := fetch.New(cfg.DownloadDir,
		fetch.WithBaseURL(cfg.BaseURL),
		fetch.WithDownload(cfg.AllowDownload),
		fetch.WithTimeout(time.Duration(cfg.HTTPTimeoutMS)*time.Millisecond),
		fetch.WithRateLimit(cfg.FetchRatePerSec, cfg.FetchBurst),
		fetch.WithLogger(logger.Named("fetch")),
	)
	return app.New(fetcher,
		app.WithLogger(logger.Named("merge")),
		app.WithRegions(cfg.FirstRegion, cfg.LastRegion),
		app.WithEncoding(cfg.Encoding),
		app.WithStrict(cfg.Strict),
		app.WithSchoolTopN(cfg.SchoolTopN),
		app.WithFetchConcurrency(cfg.FetchConcurrency),
	)
}

// newMux registers the docs and business API routes.
func newMux(ctx context.Context, cfg *config.Config, svc *app.Service) *http.ServeMux {
	mux := http.NewServeMux()
	swagger.Register(ctx, mux)
	api.NewServer(svc, svc, cfg.MaxLeaderboardLimit).Register(ctx, mux)
	return mux
}

// serve runs the HTTP server until ctx is cancelled.
func serve(ctx context.Context, cfg *config.Config, svc *app.Service) error {
	log := logger.Get()
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newMux(ctx, cfg, svc),
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			log.Error(ctx, "HTTP server failed", logger.Error(err))
			return err
		}
	case <-ctx.Done():
	}
	log.Info(ctx, "shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
		return err
	}
	log.Info(ctx, "server stopped")
	return nil
}
