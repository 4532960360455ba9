package tarmac

import (
	"context"
	"fmt"

	"github.com/viant/afs"
	"github.com/viant/afs/storage"
	"gopkg.in/yaml.v3"

	"github.com/viant/tarmac/internal/expand"
	"github.com/viant/tarmac/policy"
	"github.com/viant/tarmac/service/journal"
	"github.com/viant/tarmac/service/loader"
	"github.com/viant/tarmac/service/report"
	"github.com/viant/tarmac/service/scheduler"
)

// Config is a serialisable representation of the tower configuration. It can
// be populated from JSON or YAML; the zero-value is useful, all nested fields
// inherit their package defaults.
type Config struct {
	Scheduler scheduler.Config `json:"scheduler" yaml:"scheduler"`
	Loader    loader.Config    `json:"loader" yaml:"loader"`
	Journal   journal.Config   `json:"journal" yaml:"journal"`
	Report    report.Config    `json:"report" yaml:"report"`
	Policy    policy.Config    `json:"policy" yaml:"policy"`
}

// DefaultConfig returns a Config populated with the same defaults the
// individual package constructors use.
func DefaultConfig() *Config {
	return &Config{
		Scheduler: scheduler.DefaultConfig(),
		Loader:    loader.DefaultConfig(),
		Journal:   journal.DefaultConfig(),
		Report:    report.DefaultConfig(),
		Policy:    policy.Config{TieBreak: policy.TieBreakDescending},
	}
}

// Validate returns an error describing invalid settings or nil.
func (c *Config) Validate() error {
	if c == nil {
		return nil
	}
	if c.Scheduler.TickInterval <= 0 {
		return fmt.Errorf("scheduler.tickInterval must be > 0")
	}
	if c.Scheduler.StopTimeout <= 0 {
		return fmt.Errorf("scheduler.stopTimeout must be > 0")
	}
	if c.Loader.FlightsFile == "" || c.Loader.RunwaysFile == "" {
		return fmt.Errorf("loader.flightsFile and loader.runwaysFile are required")
	}
	switch c.Policy.TieBreak {
	case "", policy.TieBreakAscending, policy.TieBreakDescending:
	default:
		return fmt.Errorf("policy.tieBreak must be %q or %q", policy.TieBreakAscending, policy.TieBreakDescending)
	}
	return nil
}

// LoadConfig reads a YAML configuration from the given location, expanding
// ${env.KEY} references before decoding.
func LoadConfig(ctx context.Context, URL string, options ...storage.Option) (*Config, error) {
	fs := afs.New()
	data, err := fs.DownloadWithURL(ctx, URL, options...)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", URL, err)
	}
	config := DefaultConfig()
	if err := yaml.Unmarshal([]byte(expand.Env(string(data))), config); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", URL, err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}
