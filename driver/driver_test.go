package driver

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alma.local/iogen/catalog"
	"alma.local/iogen/hostlib"
	"alma.local/iogen/internal/config"
	"alma.local/iogen/internal/indexdb"
	"alma.local/iogen/recorder"
)

func testConfig(t *testing.T) *config.Config {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Samples = 20
	cfg.Seed = 7
	cfg.OutDir = filepath.Join(dir, "out")
	cfg.IndexDB = filepath.Join(dir, "index.db")
	cfg.MetricsFile = filepath.Join(dir, "metrics", "iogen.prom")
	return cfg
}

func testTargets(t *testing.T) []catalog.Target {
	f := &catalog.File{Types: []catalog.Entry{
		{Name: "int64", Operations: []string{"compare"}},
		{Name: "math", Operations: []string{"sqrt", "random"}},
		{Name: "list", Operations: []string{"size"}},
	}}
	targets, warnings, err := catalog.Discover(hostlib.NewRegistry(), f)
	require.NoError(t, err)
	require.Empty(t, warnings)
	return targets
}

func TestRunExportsCompleteBatches(t *testing.T) {
	cfg := testConfig(t)
	log, hook := logtest.NewNullLogger()
	d, err := New(cfg, log)
	require.NoError(t, err)
	defer d.Close()

	sum, err := d.Run(context.Background(), testTargets(t))
	require.NoError(t, err)
	assert.Equal(t, 3, sum.Types)
	assert.Equal(t, 3, sum.Eligible, "math.random takes no arguments")
	assert.Equal(t, 2, sum.Exported)
	assert.Equal(t, 1, sum.Dropped, "sqrt of negative arguments is NaN and rejected")
	assert.Equal(t, 0, sum.Abandoned)
	assert.Equal(t, int64(7), sum.Seed)
	assert.Positive(t, sum.Totals.Rejected["non_finite"])

	require.NoError(t, d.Finish(context.Background()))

	raw, err := os.ReadFile(filepath.Join(cfg.OutDir, recorder.DefaultIndexRel))
	require.NoError(t, err)
	var index map[string]recorder.IndexEntry
	require.NoError(t, json.Unmarshal(raw, &index))
	assert.Len(t, index, 2)
	for file, e := range index {
		assert.FileExists(t, filepath.Join(cfg.OutDir, recorder.TrainingDir, filepath.FromSlash(file)))
		assert.Equal(t, 20, e.Samples)
	}

	db, err := indexdb.Open(cfg.IndexDB)
	require.NoError(t, err)
	defer db.Close()
	run, err := db.LatestRun(context.Background())
	require.NoError(t, err)
	assert.Equal(t, sum.RunID.String(), run.ID)
	assert.Equal(t, 2, run.Exported)
	owners, err := db.Owners(context.Background(), run.ID)
	require.NoError(t, err)
	assert.Len(t, owners, 2)

	metrics, err := os.ReadFile(cfg.MetricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(metrics), "iogen_operations_exported_total 2")

	report, err := d.Stats().Report()
	require.NoError(t, err)
	assert.Contains(t, report, "Operations in scope: 2")

	var methods int
	for _, e := range hook.AllEntries() {
		if e.Data["op"] != nil && len(e.Message) > 8 && e.Message[:8] == "Method: " {
			methods++
		}
	}
	assert.Equal(t, 3, methods)
}

func TestSameSeedSameExport(t *testing.T) {
	read := func() []byte {
		cfg := testConfig(t)
		cfg.IndexDB = ""
		log, _ := logtest.NewNullLogger()
		d, err := New(cfg, log)
		require.NoError(t, err)
		targets := testTargets(t)
		res := d.RunOperation(targets[2].Type, targets[2].Operations[0])
		require.NoError(t, res.Err)
		raw, err := os.ReadFile(res.Export.Path)
		require.NoError(t, err)
		return raw
	}
	assert.Equal(t, read(), read())
}

func TestRunStopsAtOperationBoundary(t *testing.T) {
	cfg := testConfig(t)
	cfg.IndexDB = ""
	log, _ := logtest.NewNullLogger()
	d, err := New(cfg, log)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	sum, err := d.Run(ctx, testTargets(t))
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, 0, sum.Eligible)

	cfg.TimeBudget = time.Nanosecond
	d, err = New(cfg, log)
	require.NoError(t, err)
	_, err = d.Run(context.Background(), testTargets(t))
	assert.ErrorIs(t, err, ErrBudgetExceeded)

	require.NoError(t, d.Finish(context.Background()), "an interrupted run still writes its index")
	assert.FileExists(t, filepath.Join(cfg.OutDir, recorder.DefaultIndexRel))
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Samples = 0
	_, err := New(cfg, nil)
	assert.Error(t, err)
}
