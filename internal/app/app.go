package app

import (
	"context"

	"github.com/rs/zerolog"

	"rx-solvency-snapshot/internal/config"
	"rx-solvency-snapshot/internal/edgar"
	"rx-solvency-snapshot/internal/service"
	"rx-solvency-snapshot/internal/snapshot"
	"rx-solvency-snapshot/internal/storage"
)

// App aggregates configuration and shared dependencies for the CLI commands.
type App struct {
	Config *config.Config
	Logger zerolog.Logger
}

// NewApp constructs a new application handle.
func NewApp(cfg *config.Config, logger zerolog.Logger) *App {
	return &App{Config: cfg, Logger: logger.With().Str("component", "app").Logger()}
}

func (a *App) newEdgarClient() *edgar.Client {
	return edgar.NewClient(edgar.Options{
		BaseURL:    a.Config.Edgar.BaseURL,
		UserAgent:  a.Config.Edgar.UserAgent,
		MaxRPS:     a.Config.Edgar.MaxRPS,
		Timeout:    a.Config.Edgar.RequestTimeout,
		MaxRetries: a.Config.Edgar.MaxRetries,
		CacheDir:   a.Config.Edgar.CacheDir,
	}, a.Logger)
}

func (a *App) newBuilder() (*snapshot.Builder, error) {
	return snapshot.NewBuilder(snapshot.Config{
		PreferredUnit:    a.Config.Snapshot.PreferredUnit,
		MaxReportAgeDays: a.Config.Snapshot.MaxReportAgeDays,
		QuarterlyForms:   a.Config.Snapshot.QuarterlyForms,
		AnnualForms:      a.Config.Snapshot.AnnualForms,
		Chains:           a.Config.Snapshot.Chains,
	})
}

func (a *App) newRunner(fetcher edgar.FactsFetcher, concurrency int) (*service.Runner, error) {
	builder, err := a.newBuilder()
	if err != nil {
		return nil, err
	}
	if concurrency <= 0 {
		concurrency = a.Config.Edgar.MaxConcurrency
	}
	return service.NewRunner(fetcher, builder, service.Options{
		Taxonomy:    a.Config.Snapshot.Taxonomy,
		Concurrency: concurrency,
	}, a.Logger), nil
}

func (a *App) openStore(ctx context.Context) (*storage.Store, func(), error) {
	if a.Config.Database.DSN == "" {
		return nil, nil, nil
	}

	pool, err := storage.NewPool(ctx, a.Config.Database)
	if err != nil {
		return nil, nil, err
	}

	store := storage.NewStore(pool)
	closer := func() {
		store.Close()
	}
	return store, closer, nil
}

// RunOptions configure a full batch run.
type RunOptions struct {
	InputPath   string
	Sheet       string
	OutputPath  string
	Concurrency int
	NoStore     bool
}

// SnapshotOptions configure a single-case snapshot.
type SnapshotOptions struct {
	CIK       string
	EventDate string
}

// DownloadOptions configure the cache prefetch job.
type DownloadOptions struct {
	InputPath string
	Sheet     string
	Workers   int
	Force     bool
}

// InspectOptions configure the raw-facts inspector.
type InspectOptions struct {
	CIK     string
	Concept string
	Limit   int
}

// ShowOptions configure the show command.
type ShowOptions struct {
	CIK   string
	Limit int
}

// ExportOptions configure the ratio-history export.
type ExportOptions struct {
	CIK       string
	CSVPath   string
	PNGPath   string
	MaxPoints int
}
