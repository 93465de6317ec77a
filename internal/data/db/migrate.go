package db

import (
	"gorm.io/gorm"

	types "github.com/greenur/plantbasics/internal/domain"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(
		&types.PlantRecord{},
		&types.ScrapeRun{},
	)
}
