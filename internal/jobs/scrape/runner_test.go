package scrape

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	plantrepos "github.com/greenur/plantbasics/internal/data/repos/plants"
	"github.com/greenur/plantbasics/internal/data/repos/testutil"
	types "github.com/greenur/plantbasics/internal/domain"
	"github.com/greenur/plantbasics/internal/modules/plants"
	"github.com/greenur/plantbasics/internal/pkg/ctxutil"
)

var fixedNow = time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)

type fakeProcessor struct {
	calls  []int64
	runIDs []uuid.UUID
	panics map[int64]bool
}

func (f *fakeProcessor) Process(ctx context.Context, q types.PlantQuery) (*types.PlantRecord, plants.Outcome) {
	f.calls = append(f.calls, q.ID)
	f.runIDs = append(f.runIDs, ctxutil.RunID(ctx))
	if f.panics[q.ID] {
		panic("boom")
	}
	if q.CommonName == "Unknownia" {
		return plants.NewDefaultRecord(q, fixedNow), plants.Outcome{
			Resolution: plants.Resolution{Step: plants.StepNotResolved},
			Source:     plants.SourceDefault,
		}
	}
	rec := plants.NewDefaultRecord(q, fixedNow)
	rec.PlantType = types.PlantTypeHerb
	rec.ScientificName = q.CommonName + " sp."
	return rec, plants.Outcome{
		Resolved:   true,
		EntityID:   "Q1",
		Resolution: plants.Resolution{EntityID: "Q1", Variant: q.CommonName, Step: plants.StepSearchExact},
		Source:     plants.SourceMembership,
	}
}

type countingPacer struct{ waits int }

func (p *countingPacer) Wait(context.Context) error {
	p.waits++
	return nil
}

type harness struct {
	runner *Runner
	proc   *fakeProcessor
	pacer  *countingPacer
	plants plantrepos.PlantBasicsRepo
	runs   plantrepos.ScrapeRunRepo
	graph  [][]*types.PlantRecord
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	gdb := testutil.DB(t)
	log := testutil.Logger(t)
	h := &harness{
		proc:   &fakeProcessor{panics: map[int64]bool{}},
		pacer:  &countingPacer{},
		plants: plantrepos.NewPlantBasicsRepo(gdb, log),
		runs:   plantrepos.NewScrapeRunRepo(gdb, log),
	}
	h.runner = NewRunner(RunnerDeps{
		Log:       log,
		Plants:    h.plants,
		Runs:      h.runs,
		Processor: h.proc,
		Pacer:     h.pacer,
		Graph: func(_ context.Context, recs []*types.PlantRecord) error {
			h.graph = append(h.graph, recs)
			return errors.New("graph down")
		},
		Now: func() time.Time { return fixedNow },
	})
	return h
}

func catalog() []types.PlantQuery {
	return []types.PlantQuery{
		{ID: 4, CommonName: "Neem"},
		{ID: 1, CommonName: "Tomato"},
		{ID: 7, CommonName: "Unknownia"},
	}
}

func TestRunProcessesCatalogInIDOrder(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	rep, err := h.runner.Run(ctx, Options{Catalog: catalog()})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if rep.Requested != 3 || rep.Added != 3 || rep.Updated != 0 || rep.Unresolved != 1 || rep.Failed != 0 {
		t.Fatalf("report: got=%+v", rep)
	}
	if got := h.proc.calls; len(got) != 3 || got[0] != 1 || got[1] != 4 || got[2] != 7 {
		t.Fatalf("processing order: got=%v", got)
	}
	if h.pacer.waits != 2 {
		t.Fatalf("pacer waits: want=2 got=%d", h.pacer.waits)
	}
	for i, id := range h.proc.runIDs {
		if id != rep.RunID {
			t.Fatalf("entry %d run id: want=%s got=%s", i, rep.RunID, id)
		}
	}
	if len(h.graph) != 1 || len(h.graph[0]) != 3 {
		t.Fatalf("graph projection: got=%v", h.graph)
	}

	rec, err := h.plants.GetByID(ctx, nil, 7)
	if err != nil || rec == nil {
		t.Fatalf("GetByID(7): rec=%v err=%v", rec, err)
	}
	if rec.PlantType != types.PlantTypePlant || rec.ScientificName != "" || rec.DefaultImageURL != "" {
		t.Fatalf("unresolved entry should be stored with defaults: got=%+v", rec)
	}

	runs, err := h.runs.Latest(ctx, nil, 5)
	if err != nil || len(runs) != 1 {
		t.Fatalf("audit rows: runs=%v err=%v", runs, err)
	}
	if runs[0].ID != rep.RunID || runs[0].Added != 3 || runs[0].Unresolved != 1 {
		t.Fatalf("audit row: got=%+v", runs[0])
	}
	var stats runStats
	if err := json.Unmarshal(runs[0].Stats, &stats); err != nil {
		t.Fatalf("decode stats: %v", err)
	}
	if stats.Sources["membership"] != 2 || stats.Sources["default"] != 1 || stats.ResolveSteps["not_resolved"] != 1 {
		t.Fatalf("stats: got=%+v", stats)
	}
}

func TestRunSkipsStoredEntriesUnlessForced(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	if _, err := h.runner.Run(ctx, Options{Catalog: catalog()}); err != nil {
		t.Fatalf("first run: %v", err)
	}

	h.proc.calls = nil
	rep, err := h.runner.Run(ctx, Options{Catalog: catalog()})
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if rep.Requested != 0 || len(h.proc.calls) != 0 {
		t.Fatalf("nothing should be reprocessed: report=%+v calls=%v", rep, h.proc.calls)
	}
	runs, _ := h.runs.Latest(ctx, nil, 5)
	if len(runs) != 1 {
		t.Fatalf("empty run must not write an audit row: got=%d", len(runs))
	}

	rep, err = h.runner.Run(ctx, Options{Catalog: catalog(), Force: true, IDs: []int64{4}})
	if err != nil {
		t.Fatalf("forced run: %v", err)
	}
	if rep.Requested != 1 || rep.Added != 0 || rep.Updated != 1 {
		t.Fatalf("forced run report: got=%+v", rep)
	}
	if got := h.proc.calls; len(got) != 1 || got[0] != 4 {
		t.Fatalf("forced run calls: got=%v", got)
	}
}

func TestRunRecoversPerEntryPanics(t *testing.T) {
	h := newHarness(t)
	h.proc.panics[4] = true
	ctx := context.Background()

	rep, err := h.runner.Run(ctx, Options{Catalog: catalog()})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if rep.Failed != 1 || rep.Added != 2 {
		t.Fatalf("report: got=%+v", rep)
	}
	if rec, _ := h.plants.GetByID(ctx, nil, 4); rec != nil {
		t.Fatalf("failed entry must not be stored: got=%+v", rec)
	}
}

func TestRunDryRunWritesNothing(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	rep, err := h.runner.Run(ctx, Options{Catalog: catalog(), DryRun: true})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !rep.DryRun || rep.Added != 3 || len(rep.Records) != 3 {
		t.Fatalf("report: got=%+v", rep)
	}
	ids, err := h.plants.ExistingIDs(ctx, nil)
	if err != nil || len(ids) != 0 {
		t.Fatalf("dry run stored rows: ids=%v err=%v", ids, err)
	}
	if len(h.graph) != 0 {
		t.Fatalf("dry run must not project the graph")
	}
}

type brokenRepo struct{ plantrepos.PlantBasicsRepo }

func (brokenRepo) ExistingIDs(context.Context, *gorm.DB) (map[int64]struct{}, error) {
	return nil, errors.New("relation plant_basics does not exist")
}

func TestRunFailsWhenExistingIDsCannotLoad(t *testing.T) {
	proc := &fakeProcessor{}
	r := NewRunner(RunnerDeps{Plants: brokenRepo{}, Processor: proc, Pacer: NoDelay()})
	if _, err := r.Run(context.Background(), Options{Catalog: catalog()}); err == nil {
		t.Fatalf("expected error")
	}
	if len(proc.calls) != 0 {
		t.Fatalf("no entries should be processed")
	}
}

func TestFixedDelayHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := FixedDelay(time.Hour).Wait(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("want context.Canceled, got=%v", err)
	}
	if err := FixedDelay(0).Wait(context.Background()); err != nil {
		t.Fatalf("zero delay: %v", err)
	}
}

func TestSelectWork(t *testing.T) {
	existing := map[int64]struct{}{1: {}}
	got := selectWork(catalog(), nil, existing, false)
	if len(got) != 2 || got[0].ID != 4 || got[1].ID != 7 {
		t.Fatalf("selectWork: got=%+v", got)
	}
	got = selectWork(catalog(), []int64{1, 99}, existing, true)
	if len(got) != 1 || got[0].ID != 1 {
		t.Fatalf("selectWork with ids: got=%+v", got)
	}
}
