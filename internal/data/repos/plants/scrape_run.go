package plants

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/greenur/plantbasics/internal/domain"
	"github.com/greenur/plantbasics/internal/platform/logger"
)

type ScrapeRunRepo interface {
	Create(ctx context.Context, tx *gorm.DB, run *types.ScrapeRun) error
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.ScrapeRun, error)
	Latest(ctx context.Context, tx *gorm.DB, limit int) ([]*types.ScrapeRun, error)
}

type scrapeRunRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewScrapeRunRepo(db *gorm.DB, baseLog *logger.Logger) ScrapeRunRepo {
	return &scrapeRunRepo{
		db:  db,
		log: baseLog.With("repo", "ScrapeRunRepo"),
	}
}

func (r *scrapeRunRepo) Create(ctx context.Context, tx *gorm.DB, run *types.ScrapeRun) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if run == nil {
		return nil
	}
	if run.ID == uuid.Nil {
		run.ID = uuid.New()
	}
	if run.FinishedAt.IsZero() {
		run.FinishedAt = time.Now().UTC()
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = run.FinishedAt
	}
	return t.WithContext(ctx).Create(run).Error
}

func (r *scrapeRunRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.ScrapeRun, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if id == uuid.Nil {
		return nil, nil
	}
	var out []*types.ScrapeRun
	if err := t.WithContext(ctx).Where("id = ?", id).Limit(1).Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *scrapeRunRepo) Latest(ctx context.Context, tx *gorm.DB, limit int) ([]*types.ScrapeRun, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if limit <= 0 {
		limit = 10
	}
	var out []*types.ScrapeRun
	if err := t.WithContext(ctx).Order("started_at DESC").Limit(limit).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
