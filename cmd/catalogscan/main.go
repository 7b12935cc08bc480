package main

import (
	"flag"
	"log"
	"os"

	"alma.local/iogen/catalog"
)

func main() {
	var (
		file = flag.String("file", "", "Go source file to scan")
		out  = flag.String("out", "", "catalog output path (default: stdout)")
	)
	flag.Parse()
	if *file == "" {
		log.Fatal("-file is required")
	}

	log.Printf("Scanning file: %s", *file)
	cat, err := catalog.ScanFile(*file)
	if err != nil {
		log.Fatalf("Error scanning %s: %v", *file, err)
	}
	data, err := cat.Marshal()
	if err != nil {
		log.Fatalf("Failed to encode catalog: %v", err)
	}

	if *out == "" {
		os.Stdout.Write(data)
		return
	}
	if err := os.WriteFile(*out, data, 0o644); err != nil {
		log.Fatalf("Failed to write catalog: %v", err)
	}
	log.Printf("Saved %d types to %s", len(cat.Types), *out)
}
