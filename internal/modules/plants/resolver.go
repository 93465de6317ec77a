package plants

import (
	"context"
	"strings"

	"github.com/greenur/plantbasics/internal/platform/logger"
	"github.com/greenur/plantbasics/internal/platform/wikidata"
)

type ResolveStep string

const (
	StepSearchExact ResolveStep = "search_exact"
	StepSearchPlant ResolveStep = "search_plant"
	StepSPARQLExact ResolveStep = "sparql_exact"
	StepSPARQLBroad ResolveStep = "sparql_broad"
	StepNotResolved ResolveStep = "not_resolved"
)

// Resolution records which variant and step produced the entity id.
type Resolution struct {
	EntityID string      `json:"entity_id,omitempty"`
	Variant  string      `json:"variant,omitempty"`
	Step     ResolveStep `json:"step"`
}

func (r Resolution) Resolved() bool { return r.EntityID != "" }

type Resolver struct {
	wd  wikidata.Client
	log *logger.Logger
}

func NewResolver(wd wikidata.Client, log *logger.Logger) *Resolver {
	if log == nil {
		log = logger.NewNop()
	}
	return &Resolver{wd: wd, log: log.With("component", "NameResolver")}
}

// Resolve turns a common name into a Wikidata entity id. ok is false when
// every variant and the broad query come up empty.
func (r *Resolver) Resolve(ctx context.Context, commonName string) (string, bool) {
	res := r.Trace(ctx, commonName)
	return res.EntityID, res.Resolved()
}

// Trace runs the resolution cascade and reports how it ended.
func (r *Resolver) Trace(ctx context.Context, commonName string) Resolution {
	name := strings.TrimSpace(commonName)
	if name == "" {
		return Resolution{Step: StepNotResolved}
	}
	for _, variant := range SearchVariants(name) {
		if ctx.Err() != nil {
			return Resolution{Step: StepNotResolved}
		}
		if id, step := r.tryVariant(ctx, name, variant); id != "" {
			return Resolution{EntityID: id, Variant: variant, Step: step}
		}
	}
	if id := r.queryFirstItem(ctx, "broad", name, broadLabelQuery(name)); id != "" {
		return Resolution{EntityID: id, Variant: name, Step: StepSPARQLBroad}
	}
	return Resolution{Step: StepNotResolved}
}

func (r *Resolver) tryVariant(ctx context.Context, name, variant string) (string, ResolveStep) {
	hits, err := r.wd.SearchEntities(ctx, variant, wikidata.DefaultSearchLimit)
	if err != nil {
		r.log.Warn("entity search failed", "variant", variant, "error", err)
		return "", ""
	}
	// The exact label query only refines a search that found candidates.
	if len(hits) == 0 {
		return "", ""
	}
	if id := pickExactHit(hits, name); id != "" {
		return id, StepSearchExact
	}
	if id := pickPlantHit(hits); id != "" {
		return id, StepSearchPlant
	}
	if id := r.queryFirstItem(ctx, "exact", variant, exactLabelQuery(variant)); id != "" {
		return id, StepSPARQLExact
	}
	return "", ""
}

func (r *Resolver) queryFirstItem(ctx context.Context, kind, text, query string) string {
	res, err := r.wd.Query(ctx, query)
	if err != nil {
		r.log.Warn("label query failed", "query_kind", kind, "variant", text, "error", err)
		return ""
	}
	item, ok := res.First("item")
	if !ok {
		return ""
	}
	return wikidata.EntityIDFromURI(item)
}

// pickExactHit returns the first plant-described hit whose label equals name.
func pickExactHit(hits []wikidata.SearchHit, name string) string {
	for _, h := range hits {
		if hasPlantKeyword(h.Description) && strings.EqualFold(strings.TrimSpace(h.Label), name) {
			return h.ID
		}
	}
	return ""
}

func pickPlantHit(hits []wikidata.SearchHit) string {
	for _, h := range hits {
		if hasPlantKeyword(h.Description) {
			return h.ID
		}
	}
	return ""
}
