package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/greenur/plantbasics/internal/http/handlers"
	httpMW "github.com/greenur/plantbasics/internal/http/middleware"
	"github.com/greenur/plantbasics/internal/observability"
	"github.com/greenur/plantbasics/internal/platform/logger"
)

type RouterConfig struct {
	ServiceName string
	Log         *logger.Logger
	Metrics     *observability.Metrics

	PlantHandler  *httpH.PlantHandler
	HealthHandler *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware(serviceName(cfg.ServiceName)))
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS())

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	api := r.Group("/api")
	{
		if cfg.PlantHandler != nil {
			api.GET("/plants", cfg.PlantHandler.ListPlants)
			api.GET("/plants/:id", cfg.PlantHandler.GetPlant)
			api.GET("/plant-types", cfg.PlantHandler.ListPlantTypes)
			api.GET("/scrape-runs", cfg.PlantHandler.ListScrapeRuns)
		}
	}

	return r
}

func serviceName(name string) string {
	if name == "" {
		return "plantbasics-api"
	}
	return name
}
