package plants

import (
	"context"
	"strings"

	"github.com/greenur/plantbasics/internal/platform/inaturalist"
	"github.com/greenur/plantbasics/internal/platform/logger"
)

type FamilyInfo struct {
	FamilyName       string   `json:"family_name"`
	FamilyCommonName string   `json:"family_common_name,omitempty"`
	TaxonomicRank    string   `json:"taxonomic_rank,omitempty"`
	CompleteName     string   `json:"complete_name,omitempty"`
	CommonNames      []string `json:"common_names,omitempty"`
}

// FamilyResolver finds the botanical family of a scientific name.
type FamilyResolver interface {
	FamilyOf(ctx context.Context, scientificName string) (string, bool)
}

// memoFamilies answers repeated FamilyOf calls for the same name from one
// Lookup. It is scoped to a single entry.
type memoFamilies struct {
	lookup *FamilyLookup

	name string
	info FamilyInfo
	ok   bool
	done bool
}

func (m *memoFamilies) FamilyOf(ctx context.Context, scientificName string) (string, bool) {
	name := strings.TrimSpace(scientificName)
	if !m.done || m.name != name {
		m.info, m.ok = m.lookup.Lookup(ctx, name)
		m.name, m.done = name, true
	}
	if !m.ok {
		return "", false
	}
	return m.info.FamilyName, true
}

var searchRanks = []string{"species", "genus"}

type FamilyLookup struct {
	inat inaturalist.Client
	log  *logger.Logger
}

func NewFamilyLookup(inat inaturalist.Client, log *logger.Logger) *FamilyLookup {
	if log == nil {
		log = logger.NewNop()
	}
	return &FamilyLookup{inat: inat, log: log.With("component", "FamilyLookup")}
}

func (f *FamilyLookup) FamilyOf(ctx context.Context, scientificName string) (string, bool) {
	info, ok := f.Lookup(ctx, scientificName)
	if !ok {
		return "", false
	}
	return info.FamilyName, true
}

// Lookup searches iNaturalist for the top species/genus match and walks its
// ancestors to the first family.
func (f *FamilyLookup) Lookup(ctx context.Context, scientificName string) (FamilyInfo, bool) {
	name := strings.TrimSpace(scientificName)
	if name == "" || f == nil || f.inat == nil {
		return FamilyInfo{}, false
	}
	taxa, err := f.inat.SearchTaxa(ctx, name, searchRanks, 1)
	if err != nil {
		f.log.Warn("taxon search failed", "scientific_name", name, "error", err)
		return FamilyInfo{}, false
	}
	if len(taxa) == 0 {
		return FamilyInfo{}, false
	}
	taxon, err := f.inat.GetTaxon(ctx, taxa[0].ID)
	if err != nil {
		f.log.Warn("taxon fetch failed", "scientific_name", name, "taxon_id", taxa[0].ID, "error", err)
		return FamilyInfo{}, false
	}
	fam, ok := taxon.Ancestor("family")
	if !ok || strings.TrimSpace(fam.Name) == "" {
		return FamilyInfo{}, false
	}
	info := FamilyInfo{
		FamilyName:       strings.TrimSpace(fam.Name),
		FamilyCommonName: fam.PreferredCommonName,
		TaxonomicRank:    taxon.Rank,
		CompleteName:     taxon.Name,
	}
	for _, n := range taxon.Names {
		if s := strings.TrimSpace(n.Name); s != "" {
			info.CommonNames = append(info.CommonNames, s)
		}
	}
	return info, true
}
