package wikidata

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	pkgerrors "github.com/greenur/plantbasics/internal/pkg/errors"
	"github.com/greenur/plantbasics/internal/platform/kghttp"
)

var ErrEntityNotFound = fmt.Errorf("wikidata: entity %w", pkgerrors.ErrNotFound)

const DefaultSearchLimit = 20

type Client interface {
	SearchEntities(ctx context.Context, text string, limit int) ([]SearchHit, error)
	GetEntities(ctx context.Context, ids, languages, props []string) (map[string]*Entity, error)
	GetEntity(ctx context.Context, id string, languages []string) (*Entity, error)
	GetClaims(ctx context.Context, id, property string) (map[string][]Statement, error)
	Query(ctx context.Context, sparql string) (*SPARQLResult, error)
}

type client struct {
	cfg  Config
	http *kghttp.Client
}

func New(cfg Config, opts kghttp.Options) (Client, error) {
	cfg, err := cfg.normalize()
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(opts.Service) == "" {
		opts.Service = "wikidata"
	}
	return &client{cfg: cfg, http: kghttp.New(opts)}, nil
}

type apiError struct {
	Code string `json:"code"`
	Info string `json:"info"`
}

func (c *client) apiErr(op string, e *apiError) error {
	if e != nil && e.Code == "no-such-entity" {
		return fmt.Errorf("%s: %w", op, ErrEntityNotFound)
	}
	msg := ""
	if e != nil {
		msg = e.Code + ": " + e.Info
	}
	return &kghttp.OperationError{
		Service:    c.http.Service(),
		Code:       kghttp.OperationErrorAPI,
		Operation:  op,
		StatusCode: 200,
		Message:    msg,
	}
}

func (c *client) apiURL(params url.Values) string {
	params.Set("format", "json")
	return c.cfg.APIURL + "?" + params.Encode()
}

func (c *client) SearchEntities(ctx context.Context, text string, limit int) ([]SearchHit, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}
	if limit <= 0 || limit > 50 {
		limit = DefaultSearchLimit
	}
	params := url.Values{}
	params.Set("action", "wbsearchentities")
	params.Set("search", text)
	params.Set("language", "en")
	params.Set("uselang", "en")
	params.Set("type", "item")
	params.Set("limit", strconv.Itoa(limit))

	var resp struct {
		Search []SearchHit `json:"search"`
		Error  *apiError   `json:"error"`
	}
	if err := c.http.GetJSON(ctx, "wbsearchentities", c.apiURL(params), &resp); err != nil {
		return nil, err
	}
	if resp.Error != nil {
		return nil, c.apiErr("wbsearchentities", resp.Error)
	}
	return resp.Search, nil
}

func (c *client) GetEntities(ctx context.Context, ids, languages, props []string) (map[string]*Entity, error) {
	ids = compact(ids)
	if len(ids) == 0 {
		return map[string]*Entity{}, nil
	}
	params := url.Values{}
	params.Set("action", "wbgetentities")
	params.Set("ids", strings.Join(ids, "|"))
	if langs := compact(languages); len(langs) > 0 {
		params.Set("languages", strings.Join(langs, "|"))
	}
	if p := compact(props); len(p) > 0 {
		params.Set("props", strings.Join(p, "|"))
	}

	var resp struct {
		Entities map[string]*Entity `json:"entities"`
		Error    *apiError          `json:"error"`
	}
	if err := c.http.GetJSON(ctx, "wbgetentities", c.apiURL(params), &resp); err != nil {
		return nil, err
	}
	if resp.Error != nil {
		return nil, c.apiErr("wbgetentities", resp.Error)
	}
	out := make(map[string]*Entity, len(resp.Entities))
	for id, e := range resp.Entities {
		if e.IsMissing() {
			continue
		}
		out[id] = e
	}
	return out, nil
}

func (c *client) GetEntity(ctx context.Context, id string, languages []string) (*Entity, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("wbgetentities: empty id: %w", ErrEntityNotFound)
	}
	entities, err := c.GetEntities(ctx, []string{id}, languages, []string{"claims", "labels", "descriptions"})
	if err != nil {
		return nil, err
	}
	e, ok := entities[id]
	if !ok {
		return nil, fmt.Errorf("wbgetentities %s: %w", id, ErrEntityNotFound)
	}
	return e, nil
}

func (c *client) GetClaims(ctx context.Context, id, property string) (map[string][]Statement, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("wbgetclaims: empty id: %w", ErrEntityNotFound)
	}
	params := url.Values{}
	params.Set("action", "wbgetclaims")
	params.Set("entity", id)
	if p := strings.TrimSpace(property); p != "" {
		params.Set("property", p)
	}

	var resp struct {
		Claims map[string][]Statement `json:"claims"`
		Error  *apiError              `json:"error"`
	}
	if err := c.http.GetJSON(ctx, "wbgetclaims", c.apiURL(params), &resp); err != nil {
		return nil, err
	}
	if resp.Error != nil {
		return nil, c.apiErr("wbgetclaims", resp.Error)
	}
	if resp.Claims == nil {
		resp.Claims = map[string][]Statement{}
	}
	return resp.Claims, nil
}

// Query runs sparql against the query service. GET keeps responses cacheable.
func (c *client) Query(ctx context.Context, sparql string) (*SPARQLResult, error) {
	params := url.Values{}
	params.Set("query", sparql)
	params.Set("format", "json")
	var out SPARQLResult
	if err := c.http.GetJSON(ctx, "sparql", c.cfg.SPARQLURL+"?"+params.Encode(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func compact(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
