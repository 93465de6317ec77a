package plants

import (
	"context"

	domain "github.com/greenur/plantbasics/internal/domain/plants"
	"github.com/greenur/plantbasics/internal/platform/logger"
	"github.com/greenur/plantbasics/internal/platform/wikidata"
)

type ClassificationSource string

const (
	SourceMembership  ClassificationSource = "membership"
	SourceFamily      ClassificationSource = "family"
	SourceDescription ClassificationSource = "description"
	SourceDefault     ClassificationSource = "default"
)

// Classification is the winning category plus where it came from. Family is
// set whenever the family strategy ran and found a family, mapped or not.
type Classification struct {
	Type   domain.PlantType     `json:"plant_type"`
	Source ClassificationSource `json:"source"`
	Family string               `json:"family,omitempty"`
}

type Classifier struct {
	wd       wikidata.Client
	families FamilyResolver
	log      *logger.Logger
}

func NewClassifier(wd wikidata.Client, families FamilyResolver, log *logger.Logger) *Classifier {
	if log == nil {
		log = logger.NewNop()
	}
	return &Classifier{wd: wd, families: families, log: log.With("component", "TaxonomyClassifier")}
}

// withFamilies returns a copy of c that resolves families through f.
func (c *Classifier) withFamilies(f FamilyResolver) *Classifier {
	cp := *c
	cp.families = f
	return &cp
}

// Classify runs membership, family and description strategies in that order
// and stops at the first hit. It always returns a valid category.
func (c *Classifier) Classify(ctx context.Context, entityID, scientificName string) Classification {
	if t, ok := c.ByMembership(ctx, entityID); ok {
		return Classification{Type: t, Source: SourceMembership}
	}
	t, family, ok := c.ByFamily(ctx, scientificName)
	if ok {
		return Classification{Type: t, Source: SourceFamily, Family: family}
	}
	if t, ok := c.ByDescription(ctx, entityID); ok {
		return Classification{Type: t, Source: SourceDescription, Family: family}
	}
	return Classification{Type: domain.PlantTypePlant, Source: SourceDefault, Family: family}
}

// ByMembership checks whether the entity is an instance of a subclass of one
// of the fixed category nodes.
func (c *Classifier) ByMembership(ctx context.Context, entityID string) (domain.PlantType, bool) {
	if !validEntityID(entityID) {
		return "", false
	}
	res, err := c.wd.Query(ctx, membershipQuery(entityID))
	if err != nil {
		c.log.Warn("membership query failed", "entity_id", entityID, "error", err)
		return "", false
	}
	uri, ok := res.First("type")
	if !ok {
		return "", false
	}
	qid := wikidata.EntityIDFromURI(uri)
	for _, n := range membershipNodes {
		if n.QID == qid {
			return n.Type, true
		}
	}
	return "", false
}

// ByFamily maps the scientific name's family through the family table. The
// family is returned even when it has no category.
func (c *Classifier) ByFamily(ctx context.Context, scientificName string) (domain.PlantType, string, bool) {
	if scientificName == "" || c.families == nil {
		return "", "", false
	}
	family, ok := c.families.FamilyOf(ctx, scientificName)
	if !ok {
		return "", "", false
	}
	t, ok := TypeForFamily(family)
	return t, family, ok
}

// ByDescription reads the English descriptions of the entity's P31 targets.
func (c *Classifier) ByDescription(ctx context.Context, entityID string) (domain.PlantType, bool) {
	if !validEntityID(entityID) {
		return "", false
	}
	claims, err := c.wd.GetClaims(ctx, entityID, "P31")
	if err != nil {
		c.log.Warn("instance-of claims failed", "entity_id", entityID, "error", err)
		return "", false
	}
	for _, st := range claims["P31"] {
		target, ok := st.MainSnak.EntityID()
		if !ok {
			continue
		}
		ents, err := c.wd.GetEntities(ctx, []string{target}, []string{"en"}, []string{"labels", "descriptions"})
		if err != nil {
			c.log.Warn("type entity fetch failed", "entity_id", entityID, "type_id", target, "error", err)
			continue
		}
		if t, ok := TypeForDescription(ents[target].Description("en")); ok {
			return t, true
		}
	}
	return "", false
}

// HierarchyType ranks every category node reachable through the wide
// hierarchy query. It is diagnostic and never consulted by Classify.
func (c *Classifier) HierarchyType(ctx context.Context, entityID string) (domain.PlantType, []string, bool) {
	if !validEntityID(entityID) {
		return "", nil, false
	}
	res, err := c.wd.Query(ctx, hierarchyQuery(entityID))
	if err != nil {
		c.log.Warn("hierarchy query failed", "entity_id", entityID, "error", err)
		return "", nil, false
	}
	labels := res.Values("typeLabel")
	t, ok := RankTypeLabels(labels)
	return t, labels, ok
}
