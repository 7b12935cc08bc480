package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"alma.local/iogen/catalog"
	"alma.local/iogen/driver"
	"alma.local/iogen/hostlib"
	"alma.local/iogen/internal/config"
	"alma.local/iogen/internal/logging"
)

func main() {
	var (
		configPath  = flag.String("config", "", "YAML configuration file")
		catalogPath = flag.String("catalog", "", "YAML catalog of target types (default: every registered type)")
		outDir      = flag.String("out", "", "output directory")
		samples     = flag.Int("samples", 0, "samples per operation")
		seed        = flag.Int64("seed", 0, "random seed (0 = time based)")
		extended    = flag.Bool("extended", false, "extended mode: 100x samples, .extended file suffix")
		types       = flag.String("types", "", "comma separated type names to keep")
		indexDB     = flag.String("index-db", "", "sqlite file receiving a copy of the index")
		metrics     = flag.String("metrics", "", "prometheus text-format metrics file")
		logFormat   = flag.String("log-format", logging.FormatText, "log format: text or json")
		logLevel    = flag.String("log-level", "info", "log level")
	)
	flag.Parse()

	log, err := logging.New(*logFormat, *logLevel, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "iogen: %v\n", err)
		os.Exit(2)
	}

	cfg := config.Default()
	if *configPath != "" {
		if cfg, err = config.Load(*configPath); err != nil {
			log.Fatalf("Loading config: %v", err)
		}
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "catalog":
			cfg.Catalog = *catalogPath
		case "out":
			cfg.OutDir = *outDir
		case "samples":
			cfg.Samples = *samples
		case "seed":
			cfg.Seed = *seed
		case "extended":
			cfg.Extended = *extended
		case "index-db":
			cfg.IndexDB = *indexDB
		case "metrics":
			cfg.MetricsFile = *metrics
		}
	})
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	reg := hostlib.NewRegistry()
	cat := catalog.All(reg)
	if cfg.Catalog != "" {
		if cat, err = catalog.LoadFile(cfg.Catalog); err != nil {
			log.Fatalf("Loading catalog: %v", err)
		}
	}
	if *types != "" {
		cat = cat.Filter(strings.Split(*types, ","))
	}
	targets, warnings, err := catalog.Discover(reg, cat)
	for _, w := range warnings {
		log.Warn(w)
	}
	if err != nil {
		log.Fatalf("Resolving catalog: %v", err)
	}

	if err := run(log, cfg, targets); err != nil {
		log.Fatal(err)
	}
}

func run(log *logrus.Logger, cfg *config.Config, targets []catalog.Target) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	d, err := driver.New(cfg, log)
	if err != nil {
		return err
	}
	defer d.Close()

	sum, runErr := d.Run(ctx, targets)
	if runErr != nil && !errors.Is(runErr, context.Canceled) && !errors.Is(runErr, driver.ErrBudgetExceeded) {
		return runErr
	}
	// Exports written before an interrupt are still indexed.
	if err := d.Finish(context.Background()); err != nil {
		return err
	}

	report, err := d.Stats().Report()
	if err != nil {
		return err
	}
	fmt.Print(report)
	log.WithFields(logrus.Fields{
		"run":      sum.RunID.String(),
		"seed":     sum.Seed,
		"exported": sum.Exported,
		"dropped":  sum.Dropped,
		"duration": sum.Duration.Round(time.Millisecond),
	}).Info("Generation finished")
	return runErr
}
