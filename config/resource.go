package config

import (
	"fmt"
	"os"
	"regexp"
)

// DefaultGreeting is the text served on GET /.
const DefaultGreeting = "Greetings! You've reached the blog server on the root route!"

var endpointPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// reservedEndpoints are served by the router itself.
var reservedEndpoints = map[string]bool{"health": true}

// StoreConfig selects the collection backend.
type StoreConfig struct {
	Backend string `toml:"backend"`
}

// Finalize applies defaults, loads environment overrides, and validates the store configuration.
func (c *StoreConfig) Finalize() error {
	if c.Backend == "" {
		c.Backend = "memory"
	}
	if v := os.Getenv(EnvStoreBackend); v != "" {
		c.Backend = v
	}
	switch c.Backend {
	case "memory", "sqlite":
		return nil
	default:
		return fmt.Errorf("invalid backend: %s (must be memory or sqlite)", c.Backend)
	}
}

// ResourceConfig names the served collection.
type ResourceConfig struct {
	// Endpoint is the first path segment, e.g. "blogs" for /blogs.
	Endpoint string `toml:"endpoint"`
	// Label is the singular name used in response messages, e.g. "Blog".
	Label    string `toml:"label"`
	Greeting string `toml:"greeting"`
}

// Finalize applies defaults, loads environment overrides, and validates the resource configuration.
func (c *ResourceConfig) Finalize() error {
	if c.Endpoint == "" {
		c.Endpoint = "blogs"
	}
	if c.Label == "" {
		c.Label = "Blog"
	}
	if c.Greeting == "" {
		c.Greeting = DefaultGreeting
	}
	if v := os.Getenv(EnvEndpoint); v != "" {
		c.Endpoint = v
	}
	if v := os.Getenv(EnvLabel); v != "" {
		c.Label = v
	}
	if v := os.Getenv(EnvGreeting); v != "" {
		c.Greeting = v
	}

	if !endpointPattern.MatchString(c.Endpoint) {
		return fmt.Errorf("invalid endpoint %q: must be a single path segment of letters, digits, '-' or '_'", c.Endpoint)
	}
	if reservedEndpoints[c.Endpoint] {
		return fmt.Errorf("endpoint %q is reserved", c.Endpoint)
	}
	return nil
}

// ValidationConfig lists the fields required on create and replace.
// A nil list means the default; an empty list disables the check.
type ValidationConfig struct {
	RequiredFields []string `toml:"required_fields"`
}

// Finalize applies defaults and environment overrides.
func (c *ValidationConfig) Finalize() {
	if c.RequiredFields == nil {
		c.RequiredFields = []string{"title", "content"}
	}
	if v, ok := os.LookupEnv(EnvRequiredFields); ok {
		c.RequiredFields = splitList(v)
	}
}

// CORSConfig lists the origins allowed to call the API. "*" allows all.
type CORSConfig struct {
	Origins []string `toml:"origins"`
}

// Finalize applies defaults and environment overrides.
func (c *CORSConfig) Finalize() {
	if len(c.Origins) == 0 {
		c.Origins = []string{"*"}
	}
	if v := os.Getenv(EnvAllowedOrigins); v != "" {
		c.Origins = splitList(v)
	}
}
