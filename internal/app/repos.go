package app

import (
	"gorm.io/gorm"

	"github.com/greenur/plantbasics/internal/data/repos"
	"github.com/greenur/plantbasics/internal/platform/logger"
)

type Repos struct {
	Plants repos.PlantBasicsRepo
	Runs   repos.ScrapeRunRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Plants: repos.NewPlantBasicsRepo(db, log),
		Runs:   repos.NewScrapeRunRepo(db, log),
	}
}
