package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alma.local/iogen/classify"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 10000, cfg.EffectiveSamples())
	cfg.Extended = true
	assert.Equal(t, 1000000, cfg.EffectiveSamples())
}

func TestParseKeepsDefaults(t *testing.T) {
	cfg, err := Parse([]byte("samples: 50\nseed: 7\ntime_budget: 90s\n"), "")
	require.NoError(t, err)
	assert.Equal(t, 50, cfg.Samples)
	assert.Equal(t, 90*time.Second, cfg.TimeBudget)
	assert.Equal(t, int64(7), cfg.Seed)
	assert.Equal(t, DefaultMaxBuildSteps, cfg.MaxBuildSteps)
	assert.Equal(t, DefaultSeedProbability, cfg.SeedProbability)
	assert.Equal(t, "verbs", cfg.MutatorPolicy)
}

func TestLoadResolvesRelativePaths(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "iogen.yaml")
	body := "out_dir: data\ncatalog: types.yaml\nindex_db: /abs/index.db\nmutator_policy: shape\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "data"), cfg.OutDir)
	assert.Equal(t, filepath.Join(dir, "types.yaml"), cfg.Catalog)
	assert.Equal(t, "/abs/index.db", cfg.IndexDB)

	cls, err := cfg.Classifier()
	require.NoError(t, err)
	assert.Equal(t, classify.PolicyShape, cls.Policy())
	assert.True(t, cls.Blocked("sort"))
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"zero samples", "samples: 0"},
		{"negative build steps", "max_build_steps: -2"},
		{"probability above one", "seed_probability: 1.5"},
		{"unknown policy", "mutator_policy: random"},
		{"bad yaml", "samples: [1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml), "")
			assert.Error(t, err)
		})
	}
}

func TestCustomBlocklist(t *testing.T) {
	cfg, err := Parse([]byte("blocklist: [size]\nmutator_verbs: [add]\n"), "")
	require.NoError(t, err)
	cls, err := cfg.Classifier()
	require.NoError(t, err)
	assert.True(t, cls.Blocked("size"))
	assert.False(t, cls.Blocked("sort"))
}
