package plants

import (
	"context"
	"testing"
	"time"

	"github.com/greenur/plantbasics/internal/data/repos/testutil"
	types "github.com/greenur/plantbasics/internal/domain"
)

func record(id int64, name string, pt types.PlantType, at time.Time) *types.PlantRecord {
	return &types.PlantRecord{
		ID:               id,
		CommonName:       name,
		PlantType:        pt,
		NamesInLanguages: map[string]string{},
		LastUpdated:      at,
	}
}

func TestUpsertManyIsIdempotent(t *testing.T) {
	ctx := context.Background()
	repo := NewPlantBasicsRepo(testutil.DB(t), testutil.Logger(t))
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	tulsi := record(3, "Tulsi", types.PlantTypeHerb, at)
	tulsi.ScientificName = "Ocimum tenuiflorum"
	tulsi.Family = "Lamiaceae"
	tulsi.NamesInLanguages = map[string]string{"hi": "तुलसी"}
	rows := []*types.PlantRecord{tulsi, record(9, "Bamboo", types.PlantTypeGrass, at)}

	first, err := repo.UpsertMany(ctx, nil, rows)
	if err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	if first.Added != 2 || first.Updated != 0 {
		t.Fatalf("first upsert counts: got=%+v", first)
	}
	snapshot, err := repo.GetByIDs(ctx, nil, []int64{3, 9})
	if err != nil {
		t.Fatalf("GetByIDs: %v", err)
	}

	second, err := repo.UpsertMany(ctx, nil, rows)
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if second.Added != 0 || second.Updated != 2 {
		t.Fatalf("second upsert counts: got=%+v", second)
	}
	again, err := repo.GetByIDs(ctx, nil, []int64{3, 9})
	if err != nil {
		t.Fatalf("GetByIDs: %v", err)
	}
	if len(again) != len(snapshot) {
		t.Fatalf("row count changed: want=%d got=%d", len(snapshot), len(again))
	}
	for i := range again {
		a, b := snapshot[i], again[i]
		if a.ID != b.ID || a.CommonName != b.CommonName || a.ScientificName != b.ScientificName ||
			a.PlantType != b.PlantType || a.Family != b.Family || !a.LastUpdated.Equal(b.LastUpdated) ||
			len(a.NamesInLanguages) != len(b.NamesInLanguages) || a.NamesInLanguages["hi"] != b.NamesInLanguages["hi"] {
			t.Fatalf("row %d changed after identical upsert:\n first=%+v\nsecond=%+v", a.ID, a, b)
		}
	}
}

func TestUpsertManyReplacesAllFields(t *testing.T) {
	ctx := context.Background()
	repo := NewPlantBasicsRepo(testutil.DB(t), testutil.Logger(t))
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	old := record(1, "Tomato", types.PlantTypeFruitVegetable, at)
	old.DefaultImageURL = "https://example.org/old.jpg"
	old.NamesInLanguages = map[string]string{"hi": "टमाटर", "bn": "টমেটো"}
	if _, err := repo.UpsertMany(ctx, nil, []*types.PlantRecord{old}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	fresh := record(1, "Tomato", types.PlantTypePlant, at.Add(time.Hour))
	res, err := repo.UpsertMany(ctx, nil, []*types.PlantRecord{fresh, record(2, "Rose", types.PlantTypeFlowering, at)})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if res.Added != 1 || res.Updated != 1 {
		t.Fatalf("counts: got=%+v", res)
	}
	got, err := repo.GetByID(ctx, nil, 1)
	if err != nil || got == nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.PlantType != types.PlantTypePlant || got.DefaultImageURL != "" || len(got.NamesInLanguages) != 0 {
		t.Fatalf("fields not replaced: got=%+v", got)
	}
	if !got.LastUpdated.Equal(at.Add(time.Hour)) {
		t.Fatalf("last_updated: got=%v", got.LastUpdated)
	}
}

func TestExistingIDsAndList(t *testing.T) {
	ctx := context.Background()
	repo := NewPlantBasicsRepo(testutil.DB(t), testutil.Logger(t))
	at := time.Now().UTC()

	ids, err := repo.ExistingIDs(ctx, nil)
	if err != nil {
		t.Fatalf("ExistingIDs on empty table: %v", err)
	}
	if len(ids) != 0 {
		t.Fatalf("want no ids, got=%v", ids)
	}

	neem := record(4, "Neem", types.PlantTypeTree, at)
	neem.Family = "Meliaceae"
	rows := []*types.PlantRecord{
		neem,
		record(2, "Rose", types.PlantTypeFlowering, at),
		record(8, "Marigold", types.PlantTypeFlowering, at),
		record(8, "Marigold", types.PlantTypeFlowering, at),
	}
	res, err := repo.UpsertMany(ctx, nil, rows)
	if err != nil {
		t.Fatalf("UpsertMany: %v", err)
	}
	if res.Added != 3 {
		t.Fatalf("duplicate ids in one batch should count once: got=%+v", res)
	}

	ids, err = repo.ExistingIDs(ctx, nil)
	if err != nil {
		t.Fatalf("ExistingIDs: %v", err)
	}
	for _, id := range []int64{2, 4, 8} {
		if _, ok := ids[id]; !ok {
			t.Fatalf("missing id %d in %v", id, ids)
		}
	}

	flowering, err := repo.List(ctx, nil, ListFilter{PlantType: types.PlantTypeFlowering})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(flowering) != 2 || flowering[0].ID != 2 || flowering[1].ID != 8 {
		t.Fatalf("flowering: got=%d rows", len(flowering))
	}
	byFamily, err := repo.List(ctx, nil, ListFilter{Family: "Meliaceae"})
	if err != nil || len(byFamily) != 1 || byFamily[0].CommonName != "Neem" {
		t.Fatalf("family filter: rows=%d err=%v", len(byFamily), err)
	}
	if missing, err := repo.GetByID(ctx, nil, 77); err != nil || missing != nil {
		t.Fatalf("missing id: got=%v err=%v", missing, err)
	}
}
