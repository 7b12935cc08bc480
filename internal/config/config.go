// Package config holds the generator settings loaded from YAML.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"alma.local/iogen/classify"
)

const (
	DefaultSamples         = 10000
	ExtendedFactor         = 100
	DefaultMaxBuildSteps   = 8
	DefaultSeedProbability = 0.7
	DefaultOutDir          = "out"
)

// Config is the generator configuration. Zero-valued keys in a YAML file keep
// their defaults.
type Config struct {
	// Samples is the exact number of samples exported per operation.
	Samples int `yaml:"samples"`

	// Extended multiplies Samples by ExtendedFactor and marks export files
	// with the ".extended" suffix.
	Extended bool `yaml:"extended,omitempty"`

	// MaxBuildSteps bounds the random mutators applied before the target.
	MaxBuildSteps int `yaml:"max_build_steps"`

	// SeedProbability is the chance a fresh collection or map is pre-populated.
	SeedProbability float64 `yaml:"seed_probability"`

	// Seed for the shared random stream. 0 picks a time-based seed.
	Seed int64 `yaml:"seed,omitempty"`

	// TimeBudget stops the run at the next operation boundary once exceeded.
	// 0 means unlimited.
	TimeBudget time.Duration `yaml:"time_budget,omitempty"`

	OutDir string `yaml:"out_dir"`

	// IndexFile overrides <out_dir>/methods_in_scope.json.
	IndexFile string `yaml:"index_file,omitempty"`

	// IndexDB is an optional sqlite file receiving a copy of the index.
	IndexDB string `yaml:"index_db,omitempty"`

	// MetricsFile is an optional prometheus text-format output.
	MetricsFile string `yaml:"metrics_file,omitempty"`

	// Catalog is the YAML catalog of target types. Empty means every
	// registered type.
	Catalog string `yaml:"catalog,omitempty"`

	// Blocklist replaces the default list of excluded operation names.
	Blocklist []string `yaml:"blocklist,omitempty"`

	// MutatorPolicy is "verbs" (default) or "shape".
	MutatorPolicy string `yaml:"mutator_policy,omitempty"`

	// MutatorVerbs replaces the default verb allow-list for the verbs policy.
	MutatorVerbs []string `yaml:"mutator_verbs,omitempty"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Samples:         DefaultSamples,
		MaxBuildSteps:   DefaultMaxBuildSteps,
		SeedProbability: DefaultSeedProbability,
		OutDir:          DefaultOutDir,
		MutatorPolicy:   string(classify.PolicyVerbs),
	}
}

// Load reads a YAML file on top of the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	return Parse(data, path)
}

// Parse decodes YAML on top of the defaults and validates the result.
// Relative paths are resolved against the directory of path.
func Parse(data []byte, path string) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if path != "" {
		dir, err := filepath.Abs(filepath.Dir(path))
		if err != nil {
			return nil, fmt.Errorf("resolving %s: %w", path, err)
		}
		for _, p := range []*string{&cfg.OutDir, &cfg.IndexFile, &cfg.IndexDB, &cfg.MetricsFile, &cfg.Catalog} {
			if *p != "" && !filepath.IsAbs(*p) {
				*p = filepath.Join(dir, *p)
			}
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects settings the generator cannot run with.
func (c *Config) Validate() error {
	if c.Samples <= 0 {
		return fmt.Errorf("samples must be positive, got %d", c.Samples)
	}
	if c.MaxBuildSteps < 0 {
		return fmt.Errorf("max_build_steps must not be negative, got %d", c.MaxBuildSteps)
	}
	if c.SeedProbability < 0 || c.SeedProbability > 1 {
		return fmt.Errorf("seed_probability must be in [0,1], got %v", c.SeedProbability)
	}
	if c.TimeBudget < 0 {
		return fmt.Errorf("time_budget must not be negative, got %s", c.TimeBudget)
	}
	if c.OutDir == "" {
		return fmt.Errorf("out_dir is required")
	}
	if _, err := classify.ParsePolicy(c.MutatorPolicy); err != nil {
		return err
	}
	return nil
}

// EffectiveSamples is the per-operation target after extended mode.
func (c *Config) EffectiveSamples() int {
	if c.Extended {
		return c.Samples * ExtendedFactor
	}
	return c.Samples
}

// Classifier builds the operation classifier the configuration describes.
func (c *Config) Classifier() (*classify.Classifier, error) {
	policy, err := classify.ParsePolicy(c.MutatorPolicy)
	if err != nil {
		return nil, err
	}
	blocklist := c.Blocklist
	if blocklist == nil {
		blocklist = classify.DefaultBlocklist
	}
	return classify.New(blocklist, policy, c.MutatorVerbs), nil
}
