package neo4jdb

import (
	"context"
	"fmt"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/greenur/plantbasics/internal/platform/logger"
	"github.com/greenur/plantbasics/internal/utils"
)

type Client struct {
	Driver   neo4j.DriverWithContext
	Database string
	log      *logger.Logger
}

// NewFromEnv connects to NEO4J_URI. An unset URI disables the graph and
// yields nil, nil.
func NewFromEnv(ctx context.Context, log *logger.Logger) (*Client, error) {
	if log == nil {
		return nil, fmt.Errorf("neo4jdb: logger required")
	}
	uri := utils.GetEnv("NEO4J_URI", "", log)
	if uri == "" {
		return nil, nil
	}
	user := utils.GetEnv("NEO4J_USER", "neo4j", log)
	password := utils.GetEnv("NEO4J_PASSWORD", "", nil)
	database := utils.GetEnv("NEO4J_DATABASE", "", log)
	timeout := utils.GetEnvAsDuration("NEO4J_TIMEOUT_SECONDS", 10*time.Second, time.Second, log)
	maxPool := utils.GetEnvAsInt("NEO4J_MAX_POOL_SIZE", 10, log)

	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(user, password, ""), func(cfg *neo4j.Config) {
		cfg.MaxConnectionPoolSize = maxPool
		cfg.SocketConnectTimeout = timeout
	})
	if err != nil {
		return nil, fmt.Errorf("neo4jdb: init driver: %w", err)
	}

	verifyCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := driver.VerifyConnectivity(verifyCtx); err != nil {
		_ = driver.Close(verifyCtx)
		return nil, fmt.Errorf("neo4jdb: verify connectivity: %w", err)
	}
	log.Info("neo4j connected", "neo4j_uri", uri, "database", database)

	return &Client{
		Driver:   driver,
		Database: database,
		log:      log.With("client", "Neo4jDB"),
	}, nil
}

func (c *Client) Close(ctx context.Context) error {
	if c == nil || c.Driver == nil {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	err := c.Driver.Close(ctx)
	c.Driver = nil
	return err
}
