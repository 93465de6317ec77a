package plants

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/greenur/plantbasics/internal/platform/inaturalist"
	"github.com/greenur/plantbasics/internal/platform/wikidata"
)

var errUpstream = errors.New("upstream unavailable")

type fakeWikidata struct {
	search    map[string][]wikidata.SearchHit
	searchErr error
	query     func(q string) (*wikidata.SPARQLResult, error)
	entities  map[string]*wikidata.Entity
	claims    map[string]map[string][]wikidata.Statement

	searched []string
	queries  []string
}

func (f *fakeWikidata) SearchEntities(_ context.Context, text string, _ int) ([]wikidata.SearchHit, error) {
	f.searched = append(f.searched, text)
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return f.search[text], nil
}

func (f *fakeWikidata) GetEntities(_ context.Context, ids, _, _ []string) (map[string]*wikidata.Entity, error) {
	out := map[string]*wikidata.Entity{}
	for _, id := range ids {
		if e, ok := f.entities[id]; ok {
			out[id] = e
		}
	}
	return out, nil
}

func (f *fakeWikidata) GetEntity(ctx context.Context, id string, langs []string) (*wikidata.Entity, error) {
	ents, _ := f.GetEntities(ctx, []string{id}, langs, nil)
	if e, ok := ents[id]; ok {
		return e, nil
	}
	return nil, wikidata.ErrEntityNotFound
}

func (f *fakeWikidata) GetClaims(_ context.Context, id, property string) (map[string][]wikidata.Statement, error) {
	c, ok := f.claims[id]
	if !ok {
		return nil, errUpstream
	}
	return map[string][]wikidata.Statement{property: c[property]}, nil
}

func (f *fakeWikidata) Query(_ context.Context, q string) (*wikidata.SPARQLResult, error) {
	f.queries = append(f.queries, q)
	if f.query == nil {
		return nil, errUpstream
	}
	return f.query(q)
}

func (f *fakeWikidata) queriesContaining(sub string) int {
	n := 0
	for _, q := range f.queries {
		if strings.Contains(q, sub) {
			n++
		}
	}
	return n
}

type fakeINat struct {
	byName map[string]inaturalist.Taxon
	taxa   map[int64]*inaturalist.Taxon
	err    error
	calls  int
}

func (f *fakeINat) SearchTaxa(_ context.Context, q string, _ []string, _ int) ([]inaturalist.Taxon, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if t, ok := f.byName[q]; ok {
		return []inaturalist.Taxon{t}, nil
	}
	return nil, nil
}

func (f *fakeINat) GetTaxon(_ context.Context, id int64) (*inaturalist.Taxon, error) {
	if t, ok := f.taxa[id]; ok {
		return t, nil
	}
	return nil, inaturalist.ErrTaxonNotFound
}

// newINat builds a fake where every species sits under the given family.
func newINat(species map[string]string) *fakeINat {
	f := &fakeINat{byName: map[string]inaturalist.Taxon{}, taxa: map[int64]*inaturalist.Taxon{}}
	var id int64
	for name, family := range species {
		id++
		f.byName[name] = inaturalist.Taxon{ID: id, Name: name, Rank: "species"}
		f.taxa[id] = &inaturalist.Taxon{
			ID:   id,
			Name: name,
			Rank: "species",
			Ancestors: []inaturalist.Taxon{
				{Name: "Plantae", Rank: "kingdom"},
				{Name: family, Rank: "family", PreferredCommonName: family + " family"},
				{Name: strings.Fields(name)[0], Rank: "genus"},
			},
		}
	}
	return f
}

type staticFamilies map[string]string

func (s staticFamilies) FamilyOf(_ context.Context, name string) (string, bool) {
	f, ok := s[name]
	return f, ok
}

func rows(name string, values ...string) *wikidata.SPARQLResult {
	res := &wikidata.SPARQLResult{}
	res.Head.Vars = []string{name}
	for _, v := range values {
		res.Results.Bindings = append(res.Results.Bindings, map[string]wikidata.Binding{
			name: {Type: "uri", Value: v},
		})
	}
	return res
}

func entityURI(qid string) string { return "http://www.wikidata.org/entity/" + qid }

func rawJSON(v any) json.RawMessage {
	b, _ := json.Marshal(v)
	return b
}

func stringSnak(prop, v string) wikidata.Snak {
	return wikidata.Snak{SnakType: "value", Property: prop, DataValue: &wikidata.DataValue{Type: "string", Value: rawJSON(v)}}
}

func itemSnak(prop, qid string) wikidata.Snak {
	return wikidata.Snak{SnakType: "value", Property: prop, DataValue: &wikidata.DataValue{
		Type:  "wikibase-entityid",
		Value: rawJSON(map[string]any{"entity-type": "item", "id": qid}),
	}}
}

func labels(kv ...string) map[string]wikidata.LangValue {
	out := map[string]wikidata.LangValue{}
	for i := 0; i+1 < len(kv); i += 2 {
		out[kv[i]] = wikidata.LangValue{Language: kv[i], Value: kv[i+1]}
	}
	return out
}
