package wikidata

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"testing"

	pkgerrors "github.com/greenur/plantbasics/internal/pkg/errors"
	"github.com/greenur/plantbasics/internal/platform/kghttp"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) { return f(req) }

func jsonResponse(body string) *http.Response {
	return &http.Response{
		StatusCode: http.StatusOK,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(bytes.NewBufferString(body)),
	}
}

func newTestClient(t *testing.T, rt roundTripFunc) Client {
	t.Helper()
	c, err := New(Config{
		APIURL:    "http://wd.test/w/api.php",
		SPARQLURL: "http://wd.test/sparql",
	}, kghttp.Options{HTTPClient: &http.Client{Transport: rt}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

const tulsiEntity = `{"entities":{"Q156495":{
  "id":"Q156495","type":"item",
  "labels":{"en":{"language":"en","value":"holy basil"},"hi":{"language":"hi","value":"तुलसी"}},
  "descriptions":{"en":{"language":"en","value":"species of plant"}},
  "claims":{
    "P225":[{"mainsnak":{"snaktype":"value","property":"P225","datavalue":{"type":"string","value":"Ocimum tenuiflorum"}}}],
    "P31":[{"mainsnak":{"snaktype":"value","property":"P31","datavalue":{"type":"wikibase-entityid","value":{"entity-type":"item","numeric-id":16521,"id":"Q16521"}}}}],
    "P18":[{"mainsnak":{"snaktype":"novalue","property":"P18"}}]
  }}}}`

func TestSearchEntitiesParams(t *testing.T) {
	c := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		q := req.URL.Query()
		if q.Get("action") != "wbsearchentities" || q.Get("language") != "en" || q.Get("limit") != "20" || q.Get("search") != "Tulsi plant" {
			t.Fatalf("unexpected query: %s", req.URL.RawQuery)
		}
		return jsonResponse(`{"search":[{"id":"Q156495","label":"holy basil","description":"species of plant"}]}`), nil
	})
	hits, err := c.SearchEntities(context.Background(), "Tulsi plant", 0)
	if err != nil {
		t.Fatalf("SearchEntities: %v", err)
	}
	if len(hits) != 1 || hits[0].ID != "Q156495" || hits[0].Description != "species of plant" {
		t.Fatalf("hits: got=%+v", hits)
	}
}

func TestGetEntityDecodesClaims(t *testing.T) {
	c := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		q := req.URL.Query()
		if q.Get("props") != "claims|labels|descriptions" || q.Get("languages") != "en|la|hi" {
			t.Fatalf("unexpected query: %s", req.URL.RawQuery)
		}
		return jsonResponse(tulsiEntity), nil
	})
	e, err := c.GetEntity(context.Background(), "Q156495", []string{"en", "la", "hi"})
	if err != nil {
		t.Fatalf("GetEntity: %v", err)
	}
	if got := e.Label("hi"); got != "तुलसी" {
		t.Fatalf("hi label: got=%q", got)
	}
	if got, ok := e.Statements("P225")[0].MainSnak.StringValue(); !ok || got != "Ocimum tenuiflorum" {
		t.Fatalf("P225: got=%q ok=%v", got, ok)
	}
	if got, ok := e.Statements("P31")[0].MainSnak.EntityID(); !ok || got != "Q16521" {
		t.Fatalf("P31: got=%q ok=%v", got, ok)
	}
	if _, ok := e.Statements("P18")[0].MainSnak.StringValue(); ok {
		t.Fatalf("novalue snak should not yield a value")
	}
}

func TestGetEntityMissing(t *testing.T) {
	c := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		return jsonResponse(`{"entities":{"Q0":{"id":"Q0","missing":""}}}`), nil
	})
	if _, err := c.GetEntity(context.Background(), "Q0", nil); !errors.Is(err, ErrEntityNotFound) {
		t.Fatalf("want ErrEntityNotFound, got %v", err)
	}

	c = newTestClient(t, func(req *http.Request) (*http.Response, error) {
		return jsonResponse(`{"error":{"code":"no-such-entity","info":"Could not find an entity with the ID \"Qx\"."}}`), nil
	})
	if _, err := c.GetEntity(context.Background(), "Qx", nil); !errors.Is(err, ErrEntityNotFound) {
		t.Fatalf("api error: want ErrEntityNotFound, got %v", err)
	}
}

func TestGetClaims(t *testing.T) {
	c := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		q := req.URL.Query()
		if q.Get("action") != "wbgetclaims" || q.Get("entity") != "Q1" || q.Get("property") != "P31" {
			t.Fatalf("unexpected query: %s", req.URL.RawQuery)
		}
		return jsonResponse(`{"claims":{"P31":[{"mainsnak":{"snaktype":"value","property":"P31","datavalue":{"type":"wikibase-entityid","value":{"numeric-id":16521}}}}]}}`), nil
	})
	claims, err := c.GetClaims(context.Background(), "Q1", "P31")
	if err != nil {
		t.Fatalf("GetClaims: %v", err)
	}
	if id, ok := claims["P31"][0].MainSnak.EntityID(); !ok || id != "Q16521" {
		t.Fatalf("numeric-id fallback: got=%q ok=%v", id, ok)
	}
}

func TestQuery(t *testing.T) {
	c := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		if req.URL.Path != "/sparql" || req.URL.Query().Get("format") != "json" {
			t.Fatalf("unexpected request: %s", req.URL.String())
		}
		return jsonResponse(`{"head":{"vars":["item","typeLabel"]},"results":{"bindings":[
			{"item":{"type":"uri","value":"http://www.wikidata.org/entity/Q42"},"typeLabel":{"type":"literal","value":"herb","xml:lang":"en"}},
			{"item":{"type":"uri","value":"http://www.wikidata.org/entity/Q43"}}]}}`), nil
	})
	res, err := c.Query(context.Background(), "SELECT ?item WHERE {}")
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	item, ok := res.First("item")
	if !ok || EntityIDFromURI(item) != "Q42" {
		t.Fatalf("first item: got=%q", item)
	}
	if got := res.Values("typeLabel"); len(got) != 1 || got[0] != "herb" {
		t.Fatalf("typeLabel values: got=%v", got)
	}
	if res.Results.Bindings[0]["typeLabel"].Lang != "en" {
		t.Fatalf("xml:lang not decoded")
	}
}

func TestEscapeLiteral(t *testing.T) {
	cases := map[string]string{
		`Money Plant`: `Money Plant`,
		`O"Brien`:     `O\"Brien`,
		`back\slash`:  `back\\slash`,
		"line\nbreak": `line\nbreak`,
		`it's`:        `it\'s`,
	}
	for in, want := range cases {
		if got := EscapeLiteral(in); got != want {
			t.Fatalf("EscapeLiteral(%q): want=%q got=%q", in, want, got)
		}
	}
}

func TestResolveConfigFromEnv(t *testing.T) {
	t.Setenv("WIKIDATA_API_URL", "")
	t.Setenv("WIKIDATA_SPARQL_URL", "")
	cfg, err := ResolveConfigFromEnv()
	if err != nil {
		t.Fatalf("defaults: %v", err)
	}
	if cfg.APIURL != DefaultAPIURL || cfg.SPARQLURL != DefaultSPARQLURL {
		t.Fatalf("defaults: got=%+v", cfg)
	}
	t.Setenv("WIKIDATA_SPARQL_URL", "query.wikidata.org/sparql")
	_, err = ResolveConfigFromEnv()
	var ce *ConfigError
	if !errors.As(err, &ce) || ce.Code != ConfigErrorInvalidSPARQLURL {
		t.Fatalf("want invalid_sparql_url, got %v", err)
	}
	if !errors.Is(err, pkgerrors.ErrInvalidArgument) {
		t.Fatalf("config errors should match ErrInvalidArgument")
	}
	if !errors.Is(ErrEntityNotFound, pkgerrors.ErrNotFound) {
		t.Fatalf("ErrEntityNotFound should match ErrNotFound")
	}
}
