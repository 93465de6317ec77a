package plants

import (
	"net/url"
	"strings"

	domain "github.com/greenur/plantbasics/internal/domain/plants"
	"github.com/greenur/plantbasics/internal/platform/wikidata"
)

const (
	propTaxonName = "P225"
	propImage     = "P18"

	imageBaseURL = "https://commons.wikimedia.org/wiki/Special:FilePath/"
	imageWidth   = "300"
)

// EntityLanguages is the label language list used for the single entity
// fetch: English, Latin, then the translation codes.
func EntityLanguages() []string {
	return append([]string{"en", "la"}, domain.TranslationCodes()...)
}

// ScientificName prefers the P225 value, then the Latin label, then a P225
// value cited inside a P225 reference.
func ScientificName(e *wikidata.Entity) string {
	if e == nil {
		return ""
	}
	statements := e.Statements(propTaxonName)
	for _, st := range statements {
		if v, ok := st.MainSnak.StringValue(); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	if la := e.Label("la"); la != "" {
		return la
	}
	for _, st := range statements {
		for _, ref := range st.References {
			for _, snak := range ref.Snaks[propTaxonName] {
				if v, ok := snak.StringValue(); ok && strings.TrimSpace(v) != "" {
					return strings.TrimSpace(v)
				}
			}
		}
	}
	return ""
}

// ImageURL renders the first P18 file as a 300px Commons thumbnail URL.
func ImageURL(e *wikidata.Entity) string {
	if e == nil {
		return ""
	}
	for _, st := range e.Statements(propImage) {
		file, ok := st.MainSnak.StringValue()
		file = strings.TrimSpace(file)
		if !ok || file == "" {
			continue
		}
		return imageBaseURL + url.PathEscape(strings.ReplaceAll(file, " ", "_")) + "?width=" + imageWidth
	}
	return ""
}

// Translations returns labels for the fixed translation codes. Codes without
// a label are left out.
func Translations(e *wikidata.Entity) map[string]string {
	out := map[string]string{}
	if e == nil {
		return out
	}
	for _, code := range domain.TranslationCodes() {
		if v := e.Label(code); v != "" {
			out[code] = v
		}
	}
	return out
}
