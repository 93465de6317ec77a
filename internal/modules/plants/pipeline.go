package plants

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	domain "github.com/greenur/plantbasics/internal/domain/plants"
	"github.com/greenur/plantbasics/internal/observability"
	"github.com/greenur/plantbasics/internal/pkg/ctxutil"
	"github.com/greenur/plantbasics/internal/platform/inaturalist"
	"github.com/greenur/plantbasics/internal/platform/logger"
	"github.com/greenur/plantbasics/internal/platform/wikidata"
)

type PipelineDeps struct {
	Log         *logger.Logger
	Wikidata    wikidata.Client
	INaturalist inaturalist.Client
	Metrics     *observability.Metrics
	Now         func() time.Time
}

// Pipeline enriches one catalog entry at a time. It holds no per-entry state.
type Pipeline struct {
	log        *logger.Logger
	wd         wikidata.Client
	resolver   *Resolver
	families   *FamilyLookup
	classifier *Classifier
	metrics    *observability.Metrics
	now        func() time.Time
}

func NewPipeline(deps PipelineDeps) *Pipeline {
	log := deps.Log
	if log == nil {
		log = logger.NewNop()
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	families := NewFamilyLookup(deps.INaturalist, log)
	return &Pipeline{
		log:        log.With("component", "PlantPipeline"),
		wd:         deps.Wikidata,
		resolver:   NewResolver(deps.Wikidata, log),
		families:   families,
		classifier: NewClassifier(deps.Wikidata, families, log),
		metrics:    deps.Metrics,
		now:        now,
	}
}

type Outcome struct {
	Resolved   bool
	EntityID   string
	Resolution Resolution
	Source     ClassificationSource
}

// Process resolves, fetches, extracts and classifies one entry and returns a
// fully formed record. Lookup failures only degrade field values.
func (p *Pipeline) Process(ctx context.Context, q domain.PlantQuery) (rec *domain.PlantRecord, out Outcome) {
	ctx, span := observability.StartSpan(ctx, "plants.process",
		attribute.Int64("plant.id", q.ID),
		attribute.String("plant.common_name", q.CommonName),
	)
	defer func() {
		// rec is nil when a stage panicked; the panic keeps unwinding.
		if rec != nil {
			span.SetAttributes(attribute.String("plant.type", string(rec.PlantType)))
		}
		span.SetAttributes(
			attribute.Bool("plant.resolved", out.Resolved),
			attribute.String("plant.classification_source", string(out.Source)),
		)
		observability.EndSpan(span, nil)
	}()

	log := p.log.With("plant_id", q.ID, "common_name", q.CommonName)
	if runID := ctxutil.RunID(ctx); runID != uuid.Nil {
		log = log.With("run_id", runID.String())
		span.SetAttributes(attribute.String("scrape.run_id", runID.String()))
	}

	res := p.resolve(ctx, q.CommonName)
	out.Resolution = res
	p.metrics.IncResolution(res.Resolved())
	if !res.Resolved() {
		log.Info("plant not resolved, using defaults")
		out.Source = SourceDefault
		p.metrics.IncClassification(string(SourceDefault), string(domain.PlantTypePlant))
		return NewDefaultRecord(q, p.now()), out
	}
	out.Resolved, out.EntityID = true, res.EntityID

	entity := p.fetch(ctx, res.EntityID)
	enr := Enrichment{
		EntityID:       res.EntityID,
		ScientificName: ScientificName(entity),
		ImageURL:       ImageURL(entity),
		Translations:   Translations(entity),
	}
	families := &memoFamilies{lookup: p.families}
	enr.Classification = p.classify(ctx, families, res.EntityID, enr.ScientificName)
	out.Source = enr.Classification.Source
	p.metrics.IncClassification(string(out.Source), string(enr.Classification.Type))

	// The family is recorded whichever strategy decided the type.
	enr.Family = enr.Classification.Family
	if enr.Family == "" {
		enr.Family, _ = families.FamilyOf(ctx, enr.ScientificName)
	}

	rec = Assemble(q, enr, p.now())
	log.Info("plant enriched",
		"entity_id", res.EntityID,
		"resolve_step", string(res.Step),
		"scientific_name", rec.ScientificName,
		"plant_type", string(rec.PlantType),
		"family", rec.Family,
		"classification_source", string(out.Source),
		"translations", len(rec.NamesInLanguages),
	)
	return rec, out
}

func (p *Pipeline) resolve(ctx context.Context, name string) Resolution {
	ctx, span := observability.StartSpan(ctx, "plants.resolve")
	defer span.End()
	res := p.resolver.Trace(ctx, name)
	span.SetAttributes(attribute.String("plant.resolve_step", string(res.Step)))
	return res
}

func (p *Pipeline) fetch(ctx context.Context, entityID string) *wikidata.Entity {
	ctx, span := observability.StartSpan(ctx, "plants.fetch_entity", attribute.String("wikidata.entity_id", entityID))
	e, err := p.wd.GetEntity(ctx, entityID, EntityLanguages())
	observability.EndSpan(span, err)
	if err != nil {
		p.log.Warn("entity fetch failed", "entity_id", entityID, "error", err)
		return nil
	}
	return e
}

func (p *Pipeline) classify(ctx context.Context, families FamilyResolver, entityID, scientificName string) Classification {
	ctx, span := observability.StartSpan(ctx, "plants.classify", attribute.String("wikidata.entity_id", entityID))
	defer span.End()
	return p.classifier.withFamilies(families).Classify(ctx, entityID, scientificName)
}

// Explanation lays out every signal the pipeline considers for one name.
type Explanation struct {
	CommonName      string            `json:"common_name"`
	Resolution      Resolution        `json:"resolution"`
	ScientificName  string            `json:"scientific_name"`
	ImageURL        string            `json:"image_url"`
	Translations    map[string]string `json:"translations"`
	Membership      domain.PlantType  `json:"membership_type,omitempty"`
	Family          *FamilyInfo       `json:"family,omitempty"`
	FamilyType      domain.PlantType  `json:"family_type,omitempty"`
	DescriptionType domain.PlantType  `json:"description_type,omitempty"`
	HierarchyType   domain.PlantType  `json:"hierarchy_type,omitempty"`
	HierarchyLabels []string          `json:"hierarchy_labels,omitempty"`
	Classification  Classification    `json:"classification"`
}

// Explain runs every strategy independently instead of short-circuiting.
func (p *Pipeline) Explain(ctx context.Context, commonName string) Explanation {
	ex := Explanation{
		CommonName:     commonName,
		Translations:   map[string]string{},
		Classification: Classification{Type: domain.PlantTypePlant, Source: SourceDefault},
	}
	ex.Resolution = p.resolver.Trace(ctx, commonName)
	if !ex.Resolution.Resolved() {
		return ex
	}
	id := ex.Resolution.EntityID
	entity := p.fetch(ctx, id)
	ex.ScientificName = ScientificName(entity)
	ex.ImageURL = ImageURL(entity)
	ex.Translations = Translations(entity)

	ex.Membership, _ = p.classifier.ByMembership(ctx, id)
	if info, ok := p.families.Lookup(ctx, ex.ScientificName); ok {
		ex.Family = &info
		ex.FamilyType, _ = TypeForFamily(info.FamilyName)
	}
	ex.DescriptionType, _ = p.classifier.ByDescription(ctx, id)
	ex.HierarchyType, ex.HierarchyLabels, _ = p.classifier.HierarchyType(ctx, id)

	switch {
	case ex.Membership != "":
		ex.Classification = Classification{Type: ex.Membership, Source: SourceMembership}
	case ex.FamilyType != "":
		ex.Classification = Classification{Type: ex.FamilyType, Source: SourceFamily, Family: ex.Family.FamilyName}
	case ex.DescriptionType != "":
		ex.Classification = Classification{Type: ex.DescriptionType, Source: SourceDescription}
	}
	return ex
}
