package wikidata

import (
	"encoding/json"
	"strconv"
	"strings"
)

type LangValue struct {
	Language string `json:"language"`
	Value    string `json:"value"`
}

// DataValue keeps Value raw: its shape depends on Type (string,
// wikibase-entityid, time, quantity, monolingualtext, ...).
type DataValue struct {
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value"`
}

type Snak struct {
	SnakType  string     `json:"snaktype"`
	Property  string     `json:"property"`
	DataType  string     `json:"datatype,omitempty"`
	DataValue *DataValue `json:"datavalue,omitempty"`
}

func (s Snak) hasValue() bool {
	return s.SnakType == "value" && s.DataValue != nil && len(s.DataValue.Value) > 0
}

// StringValue returns the value of a string-typed snak. Monolingual text
// values yield their text.
func (s Snak) StringValue() (string, bool) {
	if !s.hasValue() {
		return "", false
	}
	switch s.DataValue.Type {
	case "string":
		var v string
		if err := json.Unmarshal(s.DataValue.Value, &v); err != nil {
			return "", false
		}
		return v, true
	case "monolingualtext":
		var v struct {
			Text string `json:"text"`
		}
		if err := json.Unmarshal(s.DataValue.Value, &v); err != nil {
			return "", false
		}
		return v.Text, true
	}
	return "", false
}

// EntityID returns the Q-id of a wikibase-entityid snak.
func (s Snak) EntityID() (string, bool) {
	if !s.hasValue() || s.DataValue.Type != "wikibase-entityid" {
		return "", false
	}
	var v struct {
		ID        string `json:"id"`
		NumericID int64  `json:"numeric-id"`
	}
	if err := json.Unmarshal(s.DataValue.Value, &v); err != nil {
		return "", false
	}
	if v.ID != "" {
		return v.ID, true
	}
	if v.NumericID > 0 {
		return "Q" + strconv.FormatInt(v.NumericID, 10), true
	}
	return "", false
}

type Reference struct {
	Hash  string            `json:"hash,omitempty"`
	Snaks map[string][]Snak `json:"snaks"`
}

type Statement struct {
	ID         string      `json:"id,omitempty"`
	Rank       string      `json:"rank,omitempty"`
	MainSnak   Snak        `json:"mainsnak"`
	References []Reference `json:"references,omitempty"`
}

type Entity struct {
	ID           string                 `json:"id"`
	Type         string                 `json:"type,omitempty"`
	Labels       map[string]LangValue   `json:"labels,omitempty"`
	Descriptions map[string]LangValue   `json:"descriptions,omitempty"`
	Claims       map[string][]Statement `json:"claims,omitempty"`
	Missing      *string                `json:"missing,omitempty"`
}

func (e *Entity) IsMissing() bool {
	return e == nil || e.Missing != nil
}

func (e *Entity) Label(lang string) string {
	if e == nil {
		return ""
	}
	return strings.TrimSpace(e.Labels[lang].Value)
}

func (e *Entity) Description(lang string) string {
	if e == nil {
		return ""
	}
	return strings.TrimSpace(e.Descriptions[lang].Value)
}

// Statements returns the claims for property, or nil.
func (e *Entity) Statements(property string) []Statement {
	if e == nil {
		return nil
	}
	return e.Claims[property]
}

type SearchHit struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Description string `json:"description"`
	Match       struct {
		Type     string `json:"type"`
		Language string `json:"language"`
		Text     string `json:"text"`
	} `json:"match"`
}

type Binding struct {
	Type     string `json:"type"`
	Value    string `json:"value"`
	Lang     string `json:"xml:lang,omitempty"`
	DataType string `json:"datatype,omitempty"`
}

type SPARQLResult struct {
	Head struct {
		Vars []string `json:"vars"`
	} `json:"head"`
	Results struct {
		Bindings []map[string]Binding `json:"bindings"`
	} `json:"results"`
}

// Values returns the non-empty values bound to name, in row order.
func (r *SPARQLResult) Values(name string) []string {
	if r == nil {
		return nil
	}
	out := make([]string, 0, len(r.Results.Bindings))
	for _, row := range r.Results.Bindings {
		if b, ok := row[name]; ok && b.Value != "" {
			out = append(out, b.Value)
		}
	}
	return out
}

// First returns the value bound to name in the first row.
func (r *SPARQLResult) First(name string) (string, bool) {
	vals := r.Values(name)
	if len(vals) == 0 {
		return "", false
	}
	return vals[0], true
}

// EntityIDFromURI turns http://www.wikidata.org/entity/Q123 into Q123.
func EntityIDFromURI(uri string) string {
	uri = strings.TrimSpace(uri)
	if i := strings.LastIndex(uri, "/"); i >= 0 {
		return uri[i+1:]
	}
	return uri
}

// EscapeLiteral escapes s for use inside a double-quoted SPARQL string.
func EscapeLiteral(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\'':
			b.WriteString(`\'`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
