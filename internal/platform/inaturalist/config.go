package inaturalist

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	pkgerrors "github.com/greenur/plantbasics/internal/pkg/errors"
)

const DefaultBaseURL = "https://api.inaturalist.org/v1"

type Config struct {
	BaseURL string
}

type ConfigError struct {
	Value string
	Cause error
}

func (e *ConfigError) Error() string {
	if e == nil {
		return "invalid inaturalist config"
	}
	return fmt.Sprintf("invalid INATURALIST_API_URL=%q; expected absolute URL like %s", e.Value, DefaultBaseURL)
}

func (e *ConfigError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func ResolveConfigFromEnv() (Config, error) {
	return Config{BaseURL: strings.TrimSpace(os.Getenv("INATURALIST_API_URL"))}.normalize()
}

func (c Config) normalize() (Config, error) {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return Config{}, &ConfigError{Value: c.BaseURL, Cause: err}
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return Config{}, &ConfigError{Value: c.BaseURL}
	}
	return c, nil
}

// Is lets callers match any config problem with errors.Is(err, ErrInvalidArgument).
func (e *ConfigError) Is(target error) bool {
	return target == pkgerrors.ErrInvalidArgument
}
