package app

import (
	apphttp "github.com/greenur/plantbasics/internal/http"
	httpH "github.com/greenur/plantbasics/internal/http/handlers"
)

// NewServer builds the read-only plant API over the app's repositories.
func (a *App) NewServer() (*apphttp.Server, error) {
	if a == nil || a.DB == nil {
		return nil, errNoDatabase
	}
	sqlDB, err := a.DB.DB()
	if err != nil {
		return nil, err
	}
	return apphttp.NewServer(apphttp.RouterConfig{
		ServiceName:   a.serviceName,
		Log:           a.Log,
		Metrics:       a.Metrics,
		PlantHandler:  httpH.NewPlantHandler(a.Log, a.Repos.Plants, a.Repos.Runs),
		HealthHandler: httpH.NewHealthHandler(sqlDB),
	}), nil
}
