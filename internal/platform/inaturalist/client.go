package inaturalist

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	pkgerrors "github.com/greenur/plantbasics/internal/pkg/errors"
	"github.com/greenur/plantbasics/internal/platform/kghttp"
)

var ErrTaxonNotFound = fmt.Errorf("inaturalist: taxon %w", pkgerrors.ErrNotFound)

type TaxonName struct {
	Name     string `json:"name"`
	Locale   string `json:"locale,omitempty"`
	Lexicon  string `json:"lexicon,omitempty"`
	Position int    `json:"position,omitempty"`
}

type Taxon struct {
	ID                  int64       `json:"id"`
	Name                string      `json:"name"`
	Rank                string      `json:"rank"`
	PreferredCommonName string      `json:"preferred_common_name,omitempty"`
	AncestorIDs         []int64     `json:"ancestor_ids,omitempty"`
	Ancestors           []Taxon     `json:"ancestors,omitempty"`
	Names               []TaxonName `json:"names,omitempty"`
}

// Ancestor returns the first ancestor with the given rank.
func (t *Taxon) Ancestor(rank string) (Taxon, bool) {
	if t == nil {
		return Taxon{}, false
	}
	for _, a := range t.Ancestors {
		if strings.EqualFold(a.Rank, rank) {
			return a, true
		}
	}
	return Taxon{}, false
}

type Client interface {
	SearchTaxa(ctx context.Context, q string, ranks []string, perPage int) ([]Taxon, error)
	GetTaxon(ctx context.Context, id int64) (*Taxon, error)
}

type client struct {
	baseURL string
	http    *kghttp.Client
}

func New(cfg Config, opts kghttp.Options) (Client, error) {
	cfg, err := cfg.normalize()
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(opts.Service) == "" {
		opts.Service = "inaturalist"
	}
	return &client{baseURL: cfg.BaseURL, http: kghttp.New(opts)}, nil
}

type taxaResponse struct {
	TotalResults int     `json:"total_results"`
	Results      []Taxon `json:"results"`
}

func (c *client) SearchTaxa(ctx context.Context, q string, ranks []string, perPage int) ([]Taxon, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, nil
	}
	if perPage <= 0 {
		perPage = 1
	}
	params := url.Values{}
	params.Set("q", q)
	if len(ranks) > 0 {
		params.Set("rank", strings.Join(ranks, ","))
	}
	params.Set("per_page", strconv.Itoa(perPage))

	var resp taxaResponse
	if err := c.http.GetJSON(ctx, "taxa.search", c.baseURL+"/taxa?"+params.Encode(), &resp); err != nil {
		return nil, err
	}
	return resp.Results, nil
}

func (c *client) GetTaxon(ctx context.Context, id int64) (*Taxon, error) {
	if id <= 0 {
		return nil, fmt.Errorf("taxa.get %d: %w", id, ErrTaxonNotFound)
	}
	var resp taxaResponse
	err := c.http.GetJSON(ctx, "taxa.get", c.baseURL+"/taxa/"+strconv.FormatInt(id, 10), &resp)
	if err != nil {
		var oe *kghttp.OperationError
		if errors.As(err, &oe) && oe.StatusCode == 404 {
			return nil, fmt.Errorf("taxa.get %d: %w", id, ErrTaxonNotFound)
		}
		return nil, err
	}
	if len(resp.Results) == 0 {
		return nil, fmt.Errorf("taxa.get %d: %w", id, ErrTaxonNotFound)
	}
	t := resp.Results[0]
	return &t, nil
}
