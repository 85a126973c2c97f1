// Command lexcheck loads and validates a lexical corpus without starting the
// service. It exits non-zero if the corpus cannot be loaded, which makes it
// usable as a pre-deployment gate for new corpus drops.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/tnguyen91/lexigraph/internal/lexicon"
	"github.com/tnguyen91/lexigraph/internal/lexicon/index"
	"github.com/tnguyen91/lexigraph/pkg/config"
)

func main() {
	configPath := flag.String("config", "configs/development.yaml", "path to config file")
	dataDir := flag.String("data-dir", "", "override corpus.dataDir from the config")
	omwDir := flag.String("omw-dir", "", "override corpus.omwDir from the config")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *dataDir != "" {
		cfg.Corpus.DataDir = *dataDir
	}
	if *omwDir != "" {
		cfg.Corpus.OMWDir = *omwDir
	}

	fmt.Printf("Validating corpus in %s", cfg.Corpus.DataDir)
	if cfg.Corpus.OMWDir != "" {
		fmt.Printf(" (OMW: %s)", cfg.Corpus.OMWDir)
	}
	fmt.Println()

	start := time.Now()
	graph, err := lexicon.Load(cfg.Corpus)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FAIL: %v\n", err)
		os.Exit(1)
	}

	if _, err := index.Build(graph); err != nil {
		fmt.Fprintf(os.Stderr, "FAIL: indexing: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("OK")
	fmt.Printf("  Synsets:    %d\n", graph.SynsetCount())
	fmt.Printf("  Lemmas:     %d\n", graph.LemmaCount())
	fmt.Printf("  Relations:  %d\n", graph.RelationCount())
	fmt.Printf("  Languages:  %s\n", strings.Join(graph.Languages(), ", "))
	fmt.Printf("  Load time:  %s\n", time.Since(start).Round(time.Millisecond))
}
