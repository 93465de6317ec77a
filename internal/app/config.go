package app

import (
	"time"

	"github.com/greenur/plantbasics/internal/jobs/scrape"
	"github.com/greenur/plantbasics/internal/platform/kghttp"
	"github.com/greenur/plantbasics/internal/platform/logger"
	"github.com/greenur/plantbasics/internal/utils"
)

type Config struct {
	Environment string
	Version     string
	Port        string

	UserAgent           string
	KGTimeout           time.Duration
	KGMaxRetries        int
	KGRequestsPerSecond float64

	ScrapeDelay    time.Duration
	CatalogFile    string
	PushgatewayURL string
	AutoMigrate    bool
}

func LoadConfig(log *logger.Logger) Config {
	return Config{
		Environment: utils.GetEnv("APP_ENV", "development", log),
		Version:     utils.GetEnv("APP_VERSION", "dev", log),
		Port:        utils.GetEnv("PORT", "8080", log),

		UserAgent:           utils.GetEnv("KG_USER_AGENT", kghttp.DefaultUserAgent, log),
		KGTimeout:           utils.GetEnvAsDuration("KG_TIMEOUT_SECONDS", kghttp.DefaultTimeout, time.Second, log),
		KGMaxRetries:        utils.GetEnvAsInt("KG_MAX_RETRIES", 2, log),
		KGRequestsPerSecond: utils.GetEnvAsFloat("KG_REQUESTS_PER_SECOND", 5, log),

		ScrapeDelay:    utils.GetEnvAsDuration("SCRAPE_DELAY_MS", scrape.DefaultDelay, time.Millisecond, log),
		CatalogFile:    utils.GetEnv("PLANT_CATALOG_FILE", "", log),
		PushgatewayURL: utils.GetEnv("PROMETHEUS_PUSHGATEWAY_URL", "", log),
		AutoMigrate:    utils.GetEnv("DB_AUTO_MIGRATE", "true", log) != "false",
	}
}

// kgOptions returns the shared transport settings for one knowledge graph service.
func (c Config) kgOptions(service string, cache kghttp.Cache, a *App) kghttp.Options {
	return kghttp.Options{
		Service:           service,
		UserAgent:         c.UserAgent,
		Timeout:           c.KGTimeout,
		MaxRetries:        c.KGMaxRetries,
		RequestsPerSecond: c.KGRequestsPerSecond,
		Cache:             cache,
		Metrics:           a.Metrics,
		Logger:            a.Log,
	}
}
