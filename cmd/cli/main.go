package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/marcelsud/library-catalog/book"
	"github.com/marcelsud/library-catalog/config"
	"github.com/marcelsud/library-catalog/internal/storage"
)

/*
CLI - consulta o catálogo direto no armazenamento configurado (STORE)

Uso:
  go run ./cmd/cli list [page]
  go run ./cmd/cli search <term> [page]
  go run ./cmd/cli show <id>
  go run ./cmd/cli delete <id>
*/

const usage = `usage: cli list [page] | search <term> [page] | show <id> | delete <id>`

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) == 0 {
		return errors.New(usage)
	}
	cfg, err := config.GetConfig()
	if err != nil {
		return err
	}
	ctx := context.Background()
	repo, err := storage.Open(ctx, cfg)
	if err != nil {
		return fmt.Errorf("opening %s store: %w", cfg.Store, err)
	}
	defer repo.Close(ctx)
	s := book.NewService(repo, book.NewYearPolicy(cfg.YearPolicy))

	switch args[0] {
	case "list":
		p, err := s.List(ctx, pageArg(args, 1))
		if err != nil {
			return err
		}
		printPage(p)
	case "search":
		if len(args) < 2 || args[1] == "" {
			return errors.New(usage)
		}
		p, err := s.Search(ctx, args[1], pageArg(args, 2))
		if err != nil {
			return err
		}
		if p.Total == 0 {
			fmt.Printf("No books match %q\n", args[1])
			return nil
		}
		printPage(p)
	case "show":
		id, err := idArg(args)
		if err != nil {
			return err
		}
		b, err := s.Get(ctx, id)
		if err != nil {
			return err
		}
		fmt.Printf("ID:     %d\nTitle:  %s\nAuthor: %s\nGenre:  %s\nYear:   %s\n", b.ID, b.Title, b.Author, b.Genre, b.Year)
	case "delete":
		id, err := idArg(args)
		if err != nil {
			return err
		}
		if err := s.Delete(ctx, id); err != nil {
			return err
		}
		fmt.Printf("Book %d deleted\n", id)
	default:
		return errors.New(usage)
	}
	return nil
}

func printPage(p book.Page) {
	for _, b := range p.Books {
		fmt.Printf("[%d] %s by %s (%s, %s)\n", b.ID, b.Title, b.Author, b.Genre, b.Year)
	}
	fmt.Printf("page %d of %d, %d book(s)\n", p.Number, p.NumOfPages, p.Total)
}

func pageArg(args []string, i int) int {
	if len(args) <= i {
		return 1
	}
	page, err := strconv.Atoi(args[i])
	if err != nil {
		return 1
	}
	return page
}

func idArg(args []string) (int64, error) {
	if len(args) < 2 {
		return 0, errors.New(usage)
	}
	id, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q", args[1])
	}
	return id, nil
}
