package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	types "github.com/greenur/plantbasics/internal/domain"
)

// SeedPlant inserts a stored record for id with the given type and family.
func SeedPlant(tb testing.TB, ctx context.Context, tx *gorm.DB, id int64, name string, pt types.PlantType, family string) *types.PlantRecord {
	tb.Helper()
	rec := &types.PlantRecord{
		ID:               id,
		CommonName:       name,
		PlantType:        pt,
		Family:           family,
		NamesInLanguages: map[string]string{},
		LastUpdated:      time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	if err := tx.WithContext(ctx).Create(rec).Error; err != nil {
		tb.Fatalf("seed plant: %v", err)
	}
	return rec
}

func SeedScrapeRun(tb testing.TB, ctx context.Context, tx *gorm.DB, added int, stats string) *types.ScrapeRun {
	tb.Helper()
	now := time.Now().UTC()
	run := &types.ScrapeRun{
		ID:         uuid.New(),
		StartedAt:  now.Add(-time.Minute),
		FinishedAt: now,
		Requested:  added,
		Added:      added,
	}
	if stats != "" {
		run.Stats = datatypes.JSON(stats)
	}
	if err := tx.WithContext(ctx).Create(run).Error; err != nil {
		tb.Fatalf("seed scrape run: %v", err)
	}
	return run
}
