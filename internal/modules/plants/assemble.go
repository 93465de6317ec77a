package plants

import (
	"time"

	domain "github.com/greenur/plantbasics/internal/domain/plants"
)

// Enrichment is everything the pipeline learned about one entry. The zero
// value means nothing was found.
type Enrichment struct {
	EntityID       string
	ScientificName string
	ImageURL       string
	Translations   map[string]string
	Family         string
	Classification Classification
}

// NewDefaultRecord is the baseline every record starts from.
func NewDefaultRecord(q domain.PlantQuery, now time.Time) *domain.PlantRecord {
	return &domain.PlantRecord{
		ID:               q.ID,
		CommonName:       q.CommonName,
		ScientificName:   "",
		PlantType:        domain.PlantTypePlant,
		NamesInLanguages: map[string]string{},
		DefaultImageURL:  "",
		Family:           "",
		LastUpdated:      now.UTC(),
	}
}

// Assemble merges an enrichment onto the default record for q.
func Assemble(q domain.PlantQuery, e Enrichment, now time.Time) *domain.PlantRecord {
	rec := NewDefaultRecord(q, now)
	if e.EntityID == "" {
		return rec
	}
	rec.ScientificName = e.ScientificName
	rec.DefaultImageURL = e.ImageURL
	rec.PlantType = e.Classification.Type.OrDefault()
	rec.Family = e.Family
	if rec.Family == "" {
		rec.Family = e.Classification.Family
	}
	for code, v := range e.Translations {
		if domain.IsTranslationCode(code) && v != "" {
			rec.NamesInLanguages[code] = v
		}
	}
	return rec
}
