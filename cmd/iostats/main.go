package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strings"

	"alma.local/iogen/internal/indexdb"
)

func main() {
	var (
		dbPath = flag.String("db", "index.db", "sqlite index written by iogen")
		runID  = flag.String("run", "", "run id (default: latest)")
		top    = flag.Int("top", 10, "number of slowest operations to list")
	)
	flag.Parse()

	ctx := context.Background()
	db, err := indexdb.Open(*dbPath)
	if err != nil {
		log.Fatalf("Failed to open %s: %v", *dbPath, err)
	}
	defer db.Close()

	if *runID == "" {
		run, err := db.LatestRun(ctx)
		if err != nil {
			log.Fatalf("No runs in %s: %v", *dbPath, err)
		}
		*runID = run.ID
		fmt.Printf("Run %s (seed %d, %d samples, %d exported)\n", run.ID, run.Seed, run.Samples, run.Exported)
	}

	owners, err := db.Owners(ctx, *runID)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println("--- Exported operations by type ---")
	for _, oc := range owners {
		fmt.Printf("  %-15s %d\n", oc.Owner, oc.Count)
	}

	slow, err := db.Slowest(ctx, *runID, *top)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println("--- Slowest operations ---")
	for _, op := range slow {
		fmt.Printf("  %8.3fs  H=%.3f  KL=%.4f  %s.%s(%s)\n",
			op.Seconds, op.Entropy, op.KL, op.Owner, op.Name, strings.Join(op.ParamTypes, ", "))
	}
}
