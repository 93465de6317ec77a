package app

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/greenur/plantbasics/internal/data/db"
	"github.com/greenur/plantbasics/internal/platform/logger"
	"github.com/greenur/plantbasics/internal/platform/neo4jdb"
	"github.com/greenur/plantbasics/internal/platform/rediscache"
)

type Backends struct {
	Postgres *db.PostgresService
	Cache    rediscache.ResponseCache
	Graph    *neo4jdb.Client
}

// wireBackends connects the stores concurrently. Postgres is required when
// withDB is set; the response cache and graph are optional and degrade to
// disabled on failure.
func wireBackends(ctx context.Context, log *logger.Logger, withDB bool) (Backends, error) {
	log.Info("Wiring backends...")
	var b Backends
	g, gctx := errgroup.WithContext(ctx)

	if withDB {
		g.Go(func() error {
			pg, err := db.NewPostgresService(gctx, log)
			if err != nil {
				return fmt.Errorf("init postgres: %w", err)
			}
			b.Postgres = pg
			return nil
		})
	}
	g.Go(func() error {
		cache, err := rediscache.NewResponseCache(gctx, log)
		if err != nil {
			log.Warn("response cache unavailable, continuing without it", "error", err)
			return nil
		}
		b.Cache = cache
		return nil
	})
	if withDB {
		g.Go(func() error {
			graph, err := neo4jdb.NewFromEnv(gctx, log)
			if err != nil {
				log.Warn("neo4j unavailable, graph projection disabled", "error", err)
				return nil
			}
			b.Graph = graph
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		b.Close(context.Background())
		return Backends{}, err
	}
	return b, nil
}

func (b Backends) Close(ctx context.Context) {
	if b.Cache != nil {
		_ = b.Cache.Close()
	}
	if b.Graph != nil {
		_ = b.Graph.Close(ctx)
	}
	if b.Postgres != nil {
		_ = b.Postgres.Close()
	}
}
