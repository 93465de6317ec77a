package repos

import (
	"gorm.io/gorm"

	"github.com/greenur/plantbasics/internal/data/repos/plants"
	"github.com/greenur/plantbasics/internal/platform/logger"
)

type PlantBasicsRepo = plants.PlantBasicsRepo
type ScrapeRunRepo = plants.ScrapeRunRepo

type PlantListFilter = plants.ListFilter
type PlantUpsertResult = plants.UpsertResult

func NewPlantBasicsRepo(db *gorm.DB, baseLog *logger.Logger) PlantBasicsRepo {
	return plants.NewPlantBasicsRepo(db, baseLog)
}

func NewScrapeRunRepo(db *gorm.DB, baseLog *logger.Logger) ScrapeRunRepo {
	return plants.NewScrapeRunRepo(db, baseLog)
}
