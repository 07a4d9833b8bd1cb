package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/marcelsud/library-catalog/book"
	"github.com/marcelsud/library-catalog/config"
	"github.com/marcelsud/library-catalog/internal/storage"
	"github.com/marcelsud/library-catalog/seed"
)

/* seed - carrega um catálogo inicial a partir de um YAML
 * Uso: go run ./cmd/seed [-validate] [books.yaml]
 * Sem argumento usa SEED_FILE. Exit codes: 0 = ok, 1 = erro
 */

func main() {
	validateOnly := flag.Bool("validate", false, "only check the seed file")
	flag.Parse()

	cfg, err := config.GetConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	seedFile := cfg.SeedFile
	if flag.NArg() > 0 {
		seedFile = flag.Arg(0)
	}
	policy := book.NewYearPolicy(cfg.YearPolicy)

	fmt.Printf("Reading seed file: %s (year policy: %s)\n", seedFile, policy)
	loader := seed.NewLoader(policy)
	if err := loader.Load(seedFile); err != nil {
		fmt.Fprintf(os.Stderr, "VALIDATION FAILED\n\nError: %v\n", err)
		os.Exit(1)
	}
	entries := loader.List()
	fmt.Printf("%d book(s) are valid\n", len(entries))
	if *validateOnly {
		for i, e := range entries {
			fmt.Printf("%3d. %s by %s\n", i+1, e.Title, e.Author)
		}
		return
	}

	ctx := context.Background()
	repo, err := storage.Open(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening %s store: %v\n", cfg.Store, err)
		os.Exit(1)
	}
	defer repo.Close(ctx)

	created, err := loader.Apply(ctx, book.NewService(repo, policy))
	for _, b := range created {
		fmt.Printf("   [%d] %s by %s\n", b.ID, b.Title, b.Author)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error seeding: %v\n", err)
		repo.Close(ctx)
		os.Exit(1)
	}
	fmt.Printf("Seeded %d book(s) into the %s store\n", len(created), cfg.Store)
}
