package plants

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/greenur/plantbasics/internal/domain"
	"github.com/greenur/plantbasics/internal/platform/logger"
)

type UpsertResult struct {
	Added   int
	Updated int
}

type PlantBasicsRepo interface {
	ExistingIDs(ctx context.Context, tx *gorm.DB) (map[int64]struct{}, error)
	UpsertMany(ctx context.Context, tx *gorm.DB, rows []*types.PlantRecord) (UpsertResult, error)

	GetByIDs(ctx context.Context, tx *gorm.DB, ids []int64) ([]*types.PlantRecord, error)
	GetByID(ctx context.Context, tx *gorm.DB, id int64) (*types.PlantRecord, error)
	List(ctx context.Context, tx *gorm.DB, filter ListFilter) ([]*types.PlantRecord, error)
}

type ListFilter struct {
	PlantType types.PlantType
	Family    string
	Limit     int
	Offset    int
}

type plantBasicsRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPlantBasicsRepo(db *gorm.DB, baseLog *logger.Logger) PlantBasicsRepo {
	return &plantBasicsRepo{
		db:  db,
		log: baseLog.With("repo", "PlantBasicsRepo"),
	}
}

var plantUpsertColumns = []string{
	"common_name",
	"scientific_name",
	"plant_type",
	"names_in_languages",
	"default_image_url",
	"family",
	"last_updated",
}

func (r *plantBasicsRepo) ExistingIDs(ctx context.Context, tx *gorm.DB) (map[int64]struct{}, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var ids []int64
	if err := t.WithContext(ctx).Model(&types.PlantRecord{}).Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	out := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		out[id] = struct{}{}
	}
	return out, nil
}

// UpsertMany replaces every column of rows whose id already exists and
// inserts the rest, in one transaction.
func (r *plantBasicsRepo) UpsertMany(ctx context.Context, tx *gorm.DB, rows []*types.PlantRecord) (UpsertResult, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var res UpsertResult
	rows = compactRows(rows)
	if len(rows) == 0 {
		return res, nil
	}
	ids := make([]int64, 0, len(rows))
	for _, row := range rows {
		if row.NamesInLanguages == nil {
			row.NamesInLanguages = map[string]string{}
		}
		row.PlantType = row.PlantType.OrDefault()
		ids = append(ids, row.ID)
	}
	err := t.WithContext(ctx).Transaction(func(txx *gorm.DB) error {
		var existing int64
		if err := txx.Model(&types.PlantRecord{}).Where("id IN ?", ids).Count(&existing).Error; err != nil {
			return err
		}
		if err := txx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns(plantUpsertColumns),
		}).Create(&rows).Error; err != nil {
			return err
		}
		res.Updated = int(existing)
		res.Added = len(ids) - int(existing)
		return nil
	})
	if err != nil {
		return UpsertResult{}, err
	}
	r.log.Debug("plant records upserted", "added", res.Added, "updated", res.Updated)
	return res, nil
}

func compactRows(rows []*types.PlantRecord) []*types.PlantRecord {
	seen := make(map[int64]int, len(rows))
	out := make([]*types.PlantRecord, 0, len(rows))
	for _, row := range rows {
		if row == nil {
			continue
		}
		// Last write wins for duplicate ids within one batch.
		if i, ok := seen[row.ID]; ok {
			out[i] = row
			continue
		}
		seen[row.ID] = len(out)
		out = append(out, row)
	}
	return out
}

func (r *plantBasicsRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []int64) ([]*types.PlantRecord, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.PlantRecord
	if len(ids) == 0 {
		return out, nil
	}
	if err := t.WithContext(ctx).Where("id IN ?", ids).Order("id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *plantBasicsRepo) GetByID(ctx context.Context, tx *gorm.DB, id int64) (*types.PlantRecord, error) {
	if id <= 0 {
		return nil, nil
	}
	rows, err := r.GetByIDs(ctx, tx, []int64{id})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *plantBasicsRepo) List(ctx context.Context, tx *gorm.DB, filter ListFilter) ([]*types.PlantRecord, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	q := t.WithContext(ctx).Model(&types.PlantRecord{})
	if filter.PlantType != "" {
		q = q.Where("plant_type = ?", filter.PlantType)
	}
	if filter.Family != "" {
		q = q.Where("family = ?", filter.Family)
	}
	limit := filter.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	var out []*types.PlantRecord
	if err := q.Order("id ASC").Limit(limit).Offset(max(filter.Offset, 0)).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
