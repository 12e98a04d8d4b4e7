package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/career-roadmap-api/internal/bootstrap"
	"github.com/noah-isme/career-roadmap-api/internal/dto"
	"github.com/noah-isme/career-roadmap-api/internal/repository"
	"github.com/noah-isme/career-roadmap-api/internal/service"
	"github.com/noah-isme/career-roadmap-api/pkg/config"
	appErrors "github.com/noah-isme/career-roadmap-api/pkg/errors"
	"github.com/noah-isme/career-roadmap-api/pkg/logger"
)

const usage = `usage: rosterctl <command> [flags]

commands:
  import -file roster.csv   replace the roster with the rows of a CSV file
  export -out roster.csv    write the roster as CSV ("-" for stdout)
  reset                     restore the default roster`

type rosterOps interface {
	Import(ctx context.Context, data []byte) (dto.ImportResult, error)
	Export(ctx context.Context) ([]byte, error)
	Reset(ctx context.Context) error
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	store := bootstrap.OpenStore(ctx, cfg, logr)
	defer store.Close() //nolint:errcheck
	if !store.Available() {
		logr.Fatal("document store unavailable", zap.String("driver", cfg.Store.Driver))
	}

	roster := service.NewRosterService(
		repository.NewRosterRepository(store, logr),
		repository.NewPhotoRepository(store, logr),
		service.NewRosterCSV(cfg.CSV.ConfirmedMode),
		nil,
		logr,
	)
	if err := run(ctx, os.Args[1:], roster, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, roster rosterOps, stdout io.Writer) error {
	if len(args) == 0 {
		return errors.New(usage)
	}
	switch args[0] {
	case "import":
		fs := flag.NewFlagSet("import", flag.ContinueOnError)
		path := fs.String("file", "", "CSV file to import")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		if *path == "" {
			return errors.New("import: -file is required")
		}
		data, err := os.ReadFile(*path)
		if err != nil {
			return fmt.Errorf("import: %w", err)
		}
		result, err := roster.Import(ctx, data)
		if err != nil {
			if errors.Is(err, appErrors.ErrCSVInvalid) {
				for _, d := range result.Diagnostics {
					fmt.Fprintln(stdout, d.String())
				}
			}
			return fmt.Errorf("import: %w", err)
		}
		fmt.Fprintf(stdout, "imported %d students\n", result.Imported)
		return nil
	case "export":
		fs := flag.NewFlagSet("export", flag.ContinueOnError)
		out := fs.String("out", "-", "destination file, - for stdout")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		data, err := roster.Export(ctx)
		if err != nil {
			return fmt.Errorf("export: %w", err)
		}
		if *out == "-" {
			_, err = stdout.Write(data)
			return err
		}
		if err := os.WriteFile(*out, data, 0o644); err != nil {
			return fmt.Errorf("export: %w", err)
		}
		fmt.Fprintf(stdout, "wrote %s\n", *out)
		return nil
	case "reset":
		if err := roster.Reset(ctx); err != nil {
			return fmt.Errorf("reset: %w", err)
		}
		fmt.Fprintln(stdout, "roster reset to defaults")
		return nil
	default:
		return fmt.Errorf("unknown command %q\n%s", args[0], usage)
	}
}
