package plants

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultCatalog(t *testing.T) {
	c := DefaultCatalog()
	if len(c) != 11 {
		t.Fatalf("len: want=11 got=%d", len(c))
	}
	if c[2].ID != 3 || c[2].CommonName != "Tulsi" {
		t.Fatalf("entry 3: got=%+v", c[2])
	}
	c[0].CommonName = "mutated"
	if DefaultCatalog()[0].CommonName != "Tomato" {
		t.Fatalf("DefaultCatalog must return a copy")
	}
}

func TestParseCatalogSortsAndTrims(t *testing.T) {
	raw := []byte(`
plants:
  - id: 9
    name: "  Bamboo "
  - id: 3
    name: Tulsi
`)
	got, err := ParseCatalog(raw)
	if err != nil {
		t.Fatalf("ParseCatalog: %v", err)
	}
	if len(got) != 2 || got[0].ID != 3 || got[1].CommonName != "Bamboo" {
		t.Fatalf("unexpected catalog: %+v", got)
	}
}

func TestParseCatalogRejectsBadEntries(t *testing.T) {
	cases := map[string]string{
		"empty":     "plants: []\n",
		"zero id":   "plants:\n  - id: 0\n    name: Rose\n",
		"no name":   "plants:\n  - id: 1\n    name: ''\n",
		"duplicate": "plants:\n  - id: 1\n    name: Rose\n  - id: 1\n    name: Mint\n",
		"not yaml":  "plants: [",
	}
	for name, raw := range cases {
		if _, err := ParseCatalog([]byte(raw)); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestLoadCatalogFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	if err := os.WriteFile(path, []byte("plants:\n  - id: 42\n    name: Curry Leaf\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := LoadCatalog(path)
	if err != nil {
		t.Fatalf("LoadCatalog: %v", err)
	}
	if len(got) != 1 || got[0].ID != 42 {
		t.Fatalf("unexpected: %+v", got)
	}
	if _, err := LoadCatalog(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
