package plants

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

var defaultCatalog = [...]PlantQuery{
	{ID: 1, CommonName: "Tomato"},
	{ID: 2, CommonName: "Rose"},
	{ID: 3, CommonName: "Tulsi"},
	{ID: 4, CommonName: "Neem"},
	{ID: 5, CommonName: "Aloe Vera"},
	{ID: 6, CommonName: "Mint"},
	{ID: 7, CommonName: "Marigold"},
	{ID: 8, CommonName: "Jasmine"},
	{ID: 9, CommonName: "Bamboo"},
	{ID: 10, CommonName: "Money Plant"},
	{ID: 11, CommonName: "Petunia"},
}

// DefaultCatalog returns the built-in catalog ordered by id.
func DefaultCatalog() []PlantQuery {
	out := make([]PlantQuery, len(defaultCatalog))
	copy(out, defaultCatalog[:])
	return out
}

type catalogFile struct {
	Plants []PlantQuery `yaml:"plants"`
}

// LoadCatalog reads a YAML catalog of the form
//
//	plants:
//	  - id: 1
//	    name: Tomato
func LoadCatalog(path string) ([]PlantQuery, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return ParseCatalog(raw)
}

// ParseCatalog decodes and validates a YAML catalog. Entries are returned ordered by id.
func ParseCatalog(raw []byte) ([]PlantQuery, error) {
	var f catalogFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if len(f.Plants) == 0 {
		return nil, fmt.Errorf("catalog has no plants")
	}
	seen := make(map[int64]bool, len(f.Plants))
	out := make([]PlantQuery, 0, len(f.Plants))
	for i, p := range f.Plants {
		p.CommonName = strings.TrimSpace(p.CommonName)
		if p.ID <= 0 {
			return nil, fmt.Errorf("catalog entry %d: id must be positive", i)
		}
		if p.CommonName == "" {
			return nil, fmt.Errorf("catalog entry %d (id=%d): name required", i, p.ID)
		}
		if seen[p.ID] {
			return nil, fmt.Errorf("catalog entry %d: duplicate id %d", i, p.ID)
		}
		seen[p.ID] = true
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
