package tenants

import (
	"errors"
	"fmt"
	"os"

	"callvista/internal/costs"
	"callvista/internal/normalize"

	"gopkg.in/yaml.v3"
)

var ErrNoTenants = errors.New("tenants: at least one tenant is required")

// Config is the static configuration of one tenant: its schema quirks,
// vocabulary quirks, cost tables, and store coordinates. Loaded once at
// process start and read-only thereafter.
type Config struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`

	// FieldMapping overrides canonical→source field names. Partial maps are
	// allowed; unlisted fields go through autodetection.
	FieldMapping normalize.FieldMapping `yaml:"field_mapping"`

	// Vocabulary overrides raw→canonical value entries per category,
	// merged over the built-in base vocabulary.
	Vocabulary normalize.Vocabulary `yaml:"vocabulary"`

	Rates costs.TenantRates `yaml:"rates"`

	Store StoreConfig `yaml:"store"`
}

// StoreConfig locates a tenant's backing store.
type StoreConfig struct {
	// DSN must not be logged; it contains credentials.
	DSN         string `yaml:"dsn"`
	CallsTable  string `yaml:"calls_table"`
	AgentsTable string `yaml:"agents_table"`
}

// Registry resolves tenant configuration with a fixed default fallback.
// Constructed once at startup wiring; safe for concurrent reads.
type Registry struct {
	byID      map[string]Config
	defaultID string
}

func NewRegistry(defaultID string, cfgs []Config) (*Registry, error) {
	if len(cfgs) == 0 {
		return nil, ErrNoTenants
	}
	byID := make(map[string]Config, len(cfgs))
	for _, c := range cfgs {
		if c.ID == "" {
			return nil, errors.New("tenants: tenant id is required")
		}
		if _, dup := byID[c.ID]; dup {
			return nil, fmt.Errorf("tenants: duplicate tenant %q", c.ID)
		}
		if c.Store.CallsTable == "" {
			c.Store.CallsTable = "calls"
		}
		if c.Store.AgentsTable == "" {
			c.Store.AgentsTable = "agents"
		}
		byID[c.ID] = c
	}
	if _, ok := byID[defaultID]; !ok {
		return nil, fmt.Errorf("tenants: default tenant %q not configured", defaultID)
	}
	return &Registry{byID: byID, defaultID: defaultID}, nil
}

// Resolve returns the tenant's configuration, falling back to the default
// tenant for unknown ids. An unknown tenant is a configuration gap, not an
// error: the pipeline still runs with default mappings and rates.
func (r *Registry) Resolve(tenantID string) Config {
	if c, ok := r.byID[tenantID]; ok {
		return c
	}
	return r.byID[r.defaultID]
}

// Known reports whether the tenant has its own configuration.
func (r *Registry) Known(tenantID string) bool {
	_, ok := r.byID[tenantID]
	return ok
}

func (r *Registry) Default() Config { return r.byID[r.defaultID] }

// IDs returns all configured tenant ids (unordered).
func (r *Registry) IDs() []string {
	out := make([]string, 0, len(r.byID))
	for id := range r.byID {
		out = append(out, id)
	}
	return out
}

type fileSchema struct {
	Tenants []Config `yaml:"tenants"`
}

// LoadFile reads tenant configurations from a YAML file. The result is
// overlaid on the built-in defaults by Merge: file entries replace built-in
// entries with the same id.
func LoadFile(path string) ([]Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("tenants: read %s: %w", path, err)
	}
	var f fileSchema
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("tenants: parse %s: %w", path, err)
	}
	return f.Tenants, nil
}

// Merge overlays extra tenants on base, replacing by id.
func Merge(base, extra []Config) []Config {
	out := make([]Config, 0, len(base)+len(extra))
	replaced := make(map[string]int, len(base))
	for _, c := range base {
		replaced[c.ID] = len(out)
		out = append(out, c)
	}
	for _, c := range extra {
		if i, ok := replaced[c.ID]; ok {
			out[i] = c
			continue
		}
		out = append(out, c)
	}
	return out
}
