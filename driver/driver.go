// Package driver walks the resolved catalog and runs the sampler over every
// eligible operation, exporting batches and collecting run statistics.
package driver

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"alma.local/iogen/catalog"
	"alma.local/iogen/classify"
	"alma.local/iogen/concretizer"
	"alma.local/iogen/feedback"
	"alma.local/iogen/hostlib"
	"alma.local/iogen/internal/analyzer"
	"alma.local/iogen/internal/config"
	"alma.local/iogen/internal/indexdb"
	"alma.local/iogen/internal/stats"
	"alma.local/iogen/recorder"
	"alma.local/iogen/sampler"
)

// ErrBudgetExceeded indicates the run hit the wall-clock budget before every
// operation was visited.
var ErrBudgetExceeded = errors.New("time budget exceeded")

// OpResult is the outcome of one operation.
type OpResult struct {
	Op        *catalog.Operation
	Signature feedback.Signature
	Export    *recorder.ExportResult
	Score     analyzer.Score
	Duration  time.Duration
	Err       error
}

// Summary is the outcome of a run.
type Summary struct {
	RunID     uuid.UUID
	Seed      int64
	Types     int
	Eligible  int
	Exported  int
	Dropped   int
	Abandoned int
	Totals    feedback.Signature
	Duration  time.Duration
}

// Driver owns every per-run component. It is single-threaded.
type Driver struct {
	cfg     *config.Config
	cls     *classify.Classifier
	smp     *sampler.Sampler
	rec     *recorder.Recorder
	stats   *stats.Stats
	an      *analyzer.Analyzer
	db      *indexdb.DB
	log     logrus.FieldLogger
	seed    int64
	started time.Time
	ops     []indexdb.Operation
}

// New wires a driver from cfg. A zero seed is replaced by a time-based one.
func New(cfg *config.Config, log logrus.FieldLogger) (*Driver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	cls, err := cfg.Classifier()
	if err != nil {
		return nil, err
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rec, err := recorder.New(recorder.Options{
		OutDir:   cfg.OutDir,
		Target:   cfg.EffectiveSamples(),
		Extended: cfg.Extended,
	})
	if err != nil {
		return nil, err
	}

	d := &Driver{
		cfg:   cfg,
		cls:   cls,
		rec:   rec,
		stats: stats.New(cfg.EffectiveSamples()),
		an:    analyzer.NewAnalyzer(),
		log:   log.WithField("run", rec.RunID().String()),
		seed:  seed,
	}
	conc := concretizer.New(rand.New(rand.NewSource(seed)), hostlib.Factory{})
	d.smp = sampler.New(conc, cls, sampler.Options{
		MaxBuildSteps:   cfg.MaxBuildSteps,
		SeedProbability: cfg.SeedProbability,
	}, d.log)

	if cfg.IndexDB != "" {
		if d.db, err = indexdb.Open(cfg.IndexDB); err != nil {
			return nil, err
		}
	}
	return d, nil
}

func (d *Driver) Recorder() *recorder.Recorder { return d.rec }
func (d *Driver) Stats() *stats.Stats          { return d.stats }
func (d *Driver) Seed() int64                  { return d.seed }

// Close releases the index database.
func (d *Driver) Close() error {
	if d.db == nil {
		return nil
	}
	return d.db.Close()
}

// Run visits targets in order. Cancellation and the time budget are checked
// between operations; the summary covers everything finished so far.
func (d *Driver) Run(ctx context.Context, targets []catalog.Target) (Summary, error) {
	d.started = time.Now()
	sum := Summary{RunID: d.rec.RunID(), Seed: d.seed, Totals: feedback.NewSignature()}
	if err := d.saveRun(ctx, time.Time{}, 0); err != nil {
		return sum, err
	}
	d.log.WithFields(logrus.Fields{
		"seed":    d.seed,
		"samples": d.rec.Target(),
		"types":   len(targets),
	}).Info("Starting generation")

	var runErr error
loop:
	for _, target := range targets {
		sum.Types++
		d.stats.Types.Inc()
		d.stats.Candidates.Add(float64(len(target.Operations)))

		stateful := classify.IsStateful(target.Type)
		for _, op := range target.Operations {
			if !d.cls.Eligible(op, stateful) {
				continue
			}
			if err := ctx.Err(); err != nil {
				runErr = err
				break loop
			}
			if d.cfg.TimeBudget > 0 && time.Since(d.started) > d.cfg.TimeBudget {
				runErr = ErrBudgetExceeded
				break loop
			}
			sum.Eligible++
			d.stats.Eligible.Inc()

			res := d.RunOperation(target.Type, op)
			sum.Totals.Merge(res.Signature)
			switch {
			case res.Export != nil:
				sum.Exported++
			case errors.Is(res.Err, recorder.ErrInsufficientSamples):
				sum.Dropped++
			default:
				sum.Abandoned++
			}
		}
	}
	sum.Duration = time.Since(d.started)
	if runErr != nil {
		d.log.WithError(runErr).Warn("Run stopped early")
	}
	return sum, runErr
}

// RunOperation samples one operation and exports its batch when complete.
func (d *Driver) RunOperation(t *catalog.TypeInfo, op *catalog.Operation) OpResult {
	log := d.log.WithFields(logrus.Fields{"type": t.Name, "op": op.Name})
	log.WithFields(logrus.Fields{
		"params": op.ParamNames(),
		"result": op.Result.Name,
	}).Infof("Method: %s", op.Signature())

	start := time.Now()
	res := OpResult{Op: op}
	res.Signature, res.Err = d.smp.Run(t, op, d.rec)
	d.stats.Observe(res.Signature)
	if res.Err != nil {
		res.Duration = time.Since(start)
		d.stats.Abandoned.Inc()
		log.WithError(res.Err).Error("Abandoned operation")
		return res
	}

	var samples []recorder.Sample
	if b, ok := d.rec.Batch(op); ok {
		samples = b.Samples
	}
	export, err := d.rec.Finalize(op)
	res.Duration = time.Since(start)
	if err != nil {
		res.Err = err
		if errors.Is(err, recorder.ErrInsufficientSamples) {
			d.stats.Dropped.Inc()
			log.WithField("signature", res.Signature.String()).Info("Not enough samples, skipping")
		} else {
			d.stats.Abandoned.Inc()
			log.WithError(err).Error("Export failed")
		}
		return res
	}

	res.Export = &export
	res.Score = d.an.ScoreSamples(samples, true)
	d.stats.ObserveExport(res.Duration)
	index := d.rec.Index()
	d.ops = append(d.ops, indexdb.Operation{
		IndexEntry: index[len(index)-1],
		Seconds:    res.Duration.Seconds(),
		Entropy:    res.Score.Entropy,
		KL:         res.Score.KL,
	})
	log.WithFields(logrus.Fields{
		"file":    export.File,
		"samples": export.Samples,
		"bytes":   export.Bytes,
		"entropy": fmt.Sprintf("%.3f", res.Score.Entropy),
		"kl":      fmt.Sprintf("%.4f", res.Score.KL),
		"elapsed": res.Duration.Round(time.Millisecond),
	}).Info("Writing training data")
	return res
}

// Finish writes the summary index, the sqlite copy and the metrics file.
func (d *Driver) Finish(ctx context.Context) error {
	path, err := d.rec.WriteIndex(d.cfg.IndexFile)
	if err != nil {
		return err
	}
	d.log.WithField("path", path).Info("Wrote index")

	if d.db != nil {
		if err := d.db.InsertOperations(ctx, d.ops); err != nil {
			return err
		}
		if err := d.saveRun(ctx, time.Now(), len(d.ops)); err != nil {
			return err
		}
	}
	if d.cfg.MetricsFile != "" {
		if err := os.MkdirAll(filepath.Dir(d.cfg.MetricsFile), 0o755); err != nil {
			return fmt.Errorf("create metrics dir: %w", err)
		}
		if err := d.stats.WriteTextfile(d.cfg.MetricsFile); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
	}
	return nil
}

func (d *Driver) saveRun(ctx context.Context, finished time.Time, exported int) error {
	if d.db == nil {
		return nil
	}
	return d.db.SaveRun(ctx, indexdb.Run{
		ID:         d.rec.RunID().String(),
		StartedAt:  d.started,
		FinishedAt: finished,
		Seed:       d.seed,
		Samples:    d.rec.Target(),
		Extended:   d.cfg.Extended,
		Exported:   exported,
	})
}
