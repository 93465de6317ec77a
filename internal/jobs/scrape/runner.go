package scrape

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/greenur/plantbasics/internal/data/db"
	plantrepos "github.com/greenur/plantbasics/internal/data/repos/plants"
	types "github.com/greenur/plantbasics/internal/domain"
	"github.com/greenur/plantbasics/internal/modules/plants"
	"github.com/greenur/plantbasics/internal/observability"
	"github.com/greenur/plantbasics/internal/pkg/ctxutil"
	pkgerrors "github.com/greenur/plantbasics/internal/pkg/errors"
	"github.com/greenur/plantbasics/internal/platform/logger"
)

// Processor enriches a single catalog entry.
type Processor interface {
	Process(ctx context.Context, q types.PlantQuery) (*types.PlantRecord, plants.Outcome)
}

// GraphProjector mirrors persisted records into a secondary store.
type GraphProjector func(ctx context.Context, records []*types.PlantRecord) error

type RunnerDeps struct {
	Log       *logger.Logger
	Plants    plantrepos.PlantBasicsRepo
	Runs      plantrepos.ScrapeRunRepo
	Processor Processor
	Pacer     Pacer
	Graph     GraphProjector
	Metrics   *observability.Metrics
	Now       func() time.Time
}

type Runner struct {
	log       *logger.Logger
	plants    plantrepos.PlantBasicsRepo
	runs      plantrepos.ScrapeRunRepo
	processor Processor
	pacer     Pacer
	graph     GraphProjector
	metrics   *observability.Metrics
	now       func() time.Time
}

func NewRunner(deps RunnerDeps) *Runner {
	log := deps.Log
	if log == nil {
		log = logger.NewNop()
	}
	pacer := deps.Pacer
	if pacer == nil {
		pacer = FixedDelay(DefaultDelay)
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &Runner{
		log:       log.With("component", "ScrapeRunner"),
		plants:    deps.Plants,
		runs:      deps.Runs,
		processor: deps.Processor,
		pacer:     pacer,
		graph:     deps.Graph,
		metrics:   deps.Metrics,
		now:       now,
	}
}

type Options struct {
	Catalog []types.PlantQuery
	// IDs restricts the batch to these catalog ids when non-empty.
	IDs []int64
	// Force reprocesses entries that are already stored.
	Force bool
	// DryRun processes entries without writing anything.
	DryRun bool
}

type Report struct {
	RunID      uuid.UUID `json:"run_id"`
	Requested  int       `json:"requested"`
	Added      int       `json:"added"`
	Updated    int       `json:"updated"`
	Failed     int       `json:"failed"`
	Unresolved int       `json:"unresolved"`
	DryRun     bool      `json:"dry_run,omitempty"`

	Records []*types.PlantRecord `json:"-"`
}

type runStats struct {
	Sources      map[string]int `json:"sources"`
	ResolveSteps map[string]int `json:"resolve_steps"`
	PlantTypes   map[string]int `json:"plant_types"`
	FailedIDs    []int64        `json:"failed_ids,omitempty"`
}

// Run processes the catalog once. Only a failure to reach the repository is
// returned as an error; per-entry problems are counted in the report.
func (r *Runner) Run(ctx context.Context, opts Options) (*Report, error) {
	started := r.now().UTC()
	report := &Report{RunID: uuid.New(), DryRun: opts.DryRun}
	ctx = ctxutil.WithRunID(ctx, report.RunID)
	log := r.log.With("run_id", report.RunID.String())

	existing, err := r.plants.ExistingIDs(ctx, nil)
	if err != nil {
		if db.IsConnectionError(err) {
			return nil, fmt.Errorf("load existing plant ids: %w: %w", pkgerrors.ErrUnavailable, err)
		}
		return nil, fmt.Errorf("load existing plant ids: %w", err)
	}

	work := selectWork(opts.Catalog, opts.IDs, existing, opts.Force)
	report.Requested = len(work)
	if len(work) == 0 {
		log.Info("no new plants", "catalog", len(opts.Catalog), "stored", len(existing))
		return report, nil
	}
	log.Info("scrape run started", "entries", len(work), "force", opts.Force, "dry_run", opts.DryRun)

	stats := runStats{
		Sources:      map[string]int{},
		ResolveSteps: map[string]int{},
		PlantTypes:   map[string]int{},
	}
	records := make([]*types.PlantRecord, 0, len(work))
	for i, q := range work {
		if i > 0 {
			if err := r.pacer.Wait(ctx); err != nil {
				log.Warn("scrape run interrupted", "processed", i, "error", err)
				break
			}
		}
		rec, out, err := r.processOne(ctx, q)
		if err != nil {
			report.Failed++
			stats.FailedIDs = append(stats.FailedIDs, q.ID)
			r.metrics.IncEntry("failed")
			log.Error("plant entry failed", "plant_id", q.ID, "common_name", q.CommonName, "error", err)
			continue
		}
		if !out.Resolved {
			report.Unresolved++
			r.metrics.IncEntry("unresolved")
		} else {
			r.metrics.IncEntry("resolved")
		}
		stats.Sources[string(out.Source)]++
		stats.ResolveSteps[string(out.Resolution.Step)]++
		stats.PlantTypes[string(rec.PlantType)]++
		records = append(records, rec)
	}
	report.Records = records

	if opts.DryRun {
		for _, rec := range records {
			if _, ok := existing[rec.ID]; ok {
				report.Updated++
			} else {
				report.Added++
			}
		}
		log.Info("dry run finished, nothing written", "added", report.Added, "updated", report.Updated, "failed", report.Failed)
		return report, nil
	}

	if len(records) > 0 {
		res, err := r.plants.UpsertMany(ctx, nil, records)
		if err != nil {
			if db.IsConnectionError(err) {
				return report, fmt.Errorf("persist plants: %w: %w", pkgerrors.ErrUnavailable, err)
			}
			return report, fmt.Errorf("persist plants: %w", err)
		}
		report.Added, report.Updated = res.Added, res.Updated
	}

	r.writeAudit(ctx, log, report, stats, started)

	if r.graph != nil && len(records) > 0 {
		if err := r.graph(ctx, records); err != nil {
			log.Warn("graph projection failed", "error", err)
		}
	}
	r.metrics.MarkRunFinished(r.now())
	log.Info("scrape run finished",
		"added", report.Added,
		"updated", report.Updated,
		"failed", report.Failed,
		"unresolved", report.Unresolved,
	)
	return report, nil
}

func (r *Runner) processOne(ctx context.Context, q types.PlantQuery) (rec *types.PlantRecord, out plants.Outcome, err error) {
	defer func() {
		if v := recover(); v != nil {
			rec, err = nil, fmt.Errorf("panic: %v", v)
		}
	}()
	rec, out = r.processor.Process(ctx, q)
	if rec == nil {
		return nil, out, fmt.Errorf("no record produced")
	}
	return rec, out, nil
}

func (r *Runner) writeAudit(ctx context.Context, log *logger.Logger, report *Report, stats runStats, started time.Time) {
	if r.runs == nil {
		return
	}
	raw, err := json.Marshal(stats)
	if err != nil {
		log.Warn("encode run stats failed", "error", err)
		raw = nil
	}
	run := &types.ScrapeRun{
		ID:         report.RunID,
		StartedAt:  started,
		FinishedAt: r.now().UTC(),
		Requested:  report.Requested,
		Added:      report.Added,
		Updated:    report.Updated,
		Failed:     report.Failed,
		Unresolved: report.Unresolved,
		Stats:      datatypes.JSON(raw),
	}
	if err := r.runs.Create(ctx, nil, run); err != nil {
		log.Warn("write scrape run audit failed", "error", err)
	}
}

// selectWork returns the catalog entries to process, ordered by id.
func selectWork(catalog []types.PlantQuery, ids []int64, existing map[int64]struct{}, force bool) []types.PlantQuery {
	var only map[int64]bool
	if len(ids) > 0 {
		only = make(map[int64]bool, len(ids))
		for _, id := range ids {
			only[id] = true
		}
	}
	out := make([]types.PlantQuery, 0, len(catalog))
	for _, q := range catalog {
		if only != nil && !only[q.ID] {
			continue
		}
		if _, stored := existing[q.ID]; stored && !force {
			continue
		}
		out = append(out, q)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
