package wikidata

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	pkgerrors "github.com/greenur/plantbasics/internal/pkg/errors"
)

const (
	DefaultAPIURL    = "https://www.wikidata.org/w/api.php"
	DefaultSPARQLURL = "https://query.wikidata.org/sparql"
)

type Config struct {
	APIURL    string
	SPARQLURL string
}

type ConfigErrorCode string

const (
	ConfigErrorInvalidAPIURL    ConfigErrorCode = "invalid_api_url"
	ConfigErrorInvalidSPARQLURL ConfigErrorCode = "invalid_sparql_url"
)

type ConfigError struct {
	Code  ConfigErrorCode
	Value string
	Cause error
}

func (e *ConfigError) Error() string {
	if e == nil {
		return "invalid wikidata config"
	}
	switch e.Code {
	case ConfigErrorInvalidAPIURL:
		return fmt.Sprintf("invalid WIKIDATA_API_URL=%q; expected absolute URL like %s", e.Value, DefaultAPIURL)
	case ConfigErrorInvalidSPARQLURL:
		return fmt.Sprintf("invalid WIKIDATA_SPARQL_URL=%q; expected absolute URL like %s", e.Value, DefaultSPARQLURL)
	default:
		return "invalid wikidata config"
	}
}

func (e *ConfigError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// ResolveConfigFromEnv reads WIKIDATA_API_URL and WIKIDATA_SPARQL_URL,
// falling back to the public endpoints.
func ResolveConfigFromEnv() (Config, error) {
	cfg := Config{
		APIURL:    strings.TrimSpace(os.Getenv("WIKIDATA_API_URL")),
		SPARQLURL: strings.TrimSpace(os.Getenv("WIKIDATA_SPARQL_URL")),
	}
	return cfg.normalize()
}

func (c Config) normalize() (Config, error) {
	if c.APIURL == "" {
		c.APIURL = DefaultAPIURL
	}
	if c.SPARQLURL == "" {
		c.SPARQLURL = DefaultSPARQLURL
	}
	if err := checkAbsURL(c.APIURL); err != nil {
		return Config{}, &ConfigError{Code: ConfigErrorInvalidAPIURL, Value: c.APIURL, Cause: err}
	}
	if err := checkAbsURL(c.SPARQLURL); err != nil {
		return Config{}, &ConfigError{Code: ConfigErrorInvalidSPARQLURL, Value: c.SPARQLURL, Cause: err}
	}
	return c, nil
}

func checkAbsURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("missing host")
	}
	return nil
}

// Is lets callers match any config problem with errors.Is(err, ErrInvalidArgument).
func (e *ConfigError) Is(target error) bool {
	return target == pkgerrors.ErrInvalidArgument
}
