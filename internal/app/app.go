package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"gorm.io/gorm"

	"github.com/greenur/plantbasics/internal/data/db"
	"github.com/greenur/plantbasics/internal/data/graph"
	types "github.com/greenur/plantbasics/internal/domain"
	"github.com/greenur/plantbasics/internal/jobs/scrape"
	"github.com/greenur/plantbasics/internal/modules/plants"
	"github.com/greenur/plantbasics/internal/observability"
	"github.com/greenur/plantbasics/internal/platform/inaturalist"
	"github.com/greenur/plantbasics/internal/platform/logger"
	"github.com/greenur/plantbasics/internal/platform/wikidata"
)

var errNoDatabase = errors.New("app: database not wired")

type Options struct {
	ServiceName string
	// WithDB connects Postgres and the graph store. Diagnostic commands that
	// never persist leave it off.
	WithDB bool
	// Pacer overrides the delay between catalog entries.
	Pacer scrape.Pacer
}

type App struct {
	Log      *logger.Logger
	Cfg      Config
	Metrics  *observability.Metrics
	DB       *gorm.DB
	Backends Backends
	Repos    Repos

	Wikidata    wikidata.Client
	INaturalist inaturalist.Client
	Pipeline    *plants.Pipeline
	Runner      *scrape.Runner

	serviceName  string
	shutdownOTel func(context.Context) error
	closeOnce    sync.Once
}

func New(ctx context.Context, opts Options) (*App, error) {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	log.Info("Loading environment variables...")
	cfg := LoadConfig(log)
	a := &App{Log: log, Cfg: cfg, serviceName: opts.ServiceName}
	a.Metrics = observability.Init(log)
	a.shutdownOTel = observability.InitOTel(ctx, log, observability.OtelConfig{
		ServiceName: opts.ServiceName,
		Environment: cfg.Environment,
		Version:     cfg.Version,
	})

	wdCfg, err := wikidata.ResolveConfigFromEnv()
	if err != nil {
		a.Close()
		return nil, err
	}
	inatCfg, err := inaturalist.ResolveConfigFromEnv()
	if err != nil {
		a.Close()
		return nil, err
	}

	a.Backends, err = wireBackends(ctx, log, opts.WithDB)
	if err != nil {
		a.Close()
		return nil, err
	}

	if a.Wikidata, err = wikidata.New(wdCfg, cfg.kgOptions("wikidata", a.Backends.Cache, a)); err != nil {
		a.Close()
		return nil, fmt.Errorf("init wikidata client: %w", err)
	}
	if a.INaturalist, err = inaturalist.New(inatCfg, cfg.kgOptions("inaturalist", a.Backends.Cache, a)); err != nil {
		a.Close()
		return nil, fmt.Errorf("init inaturalist client: %w", err)
	}
	a.Pipeline = plants.NewPipeline(plants.PipelineDeps{
		Log:         log,
		Wikidata:    a.Wikidata,
		INaturalist: a.INaturalist,
		Metrics:     a.Metrics,
	})

	if !opts.WithDB {
		return a, nil
	}
	a.DB = a.Backends.Postgres.DB()
	if cfg.AutoMigrate {
		if err := db.AutoMigrateAll(a.DB); err != nil {
			a.Close()
			return nil, fmt.Errorf("postgres automigrate: %w", err)
		}
	}
	a.Repos = wireRepos(a.DB, log)

	pacer := opts.Pacer
	if pacer == nil {
		pacer = scrape.FixedDelay(cfg.ScrapeDelay)
	}
	a.Runner = scrape.NewRunner(scrape.RunnerDeps{
		Log:       log,
		Plants:    a.Repos.Plants,
		Runs:      a.Repos.Runs,
		Processor: a.Pipeline,
		Pacer:     pacer,
		Graph:     a.graphProjector(),
		Metrics:   a.Metrics,
	})
	return a, nil
}

func (a *App) graphProjector() scrape.GraphProjector {
	client := a.Backends.Graph
	if client == nil {
		return nil
	}
	return func(ctx context.Context, records []*types.PlantRecord) error {
		return graph.UpsertPlantTaxonomyGraph(ctx, client, a.Log, records)
	}
}

// Catalog returns the configured catalog file, or the built-in catalog.
func (a *App) Catalog(path string) ([]types.PlantQuery, error) {
	if path == "" {
		path = a.Cfg.CatalogFile
	}
	if path == "" {
		return types.DefaultCatalog(), nil
	}
	return types.LoadCatalog(path)
}

// PushMetrics sends batch metrics to the configured pushgateway, if any.
func (a *App) PushMetrics(ctx context.Context, job string) {
	if err := a.Metrics.Push(ctx, a.Cfg.PushgatewayURL, job); err != nil {
		a.Log.Warn("metrics push failed", "error", err)
	}
}

// Close releases backends and flushes telemetry. Only the first call does
// any work.
func (a *App) Close() {
	if a == nil {
		return
	}
	a.closeOnce.Do(func() {
		ctx := context.Background()
		a.Backends.Close(ctx)
		if a.shutdownOTel != nil {
			_ = a.shutdownOTel(ctx)
		}
		if a.Log != nil {
			a.Log.Sync()
		}
	})
}
