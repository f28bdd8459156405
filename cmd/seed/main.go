package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"storefront/internal/catalogseed"
	"storefront/internal/config"
	"storefront/internal/database"
	"storefront/internal/repository"
)

const defaultFixture = "data/catalog/products.csv.gz"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [fixture.csv.gz ...]\n\n", os.Args[0])
		fmt.Fprintf(flag.CommandLine.Output(), "Upserts products from gzipped CSV fixtures. Later files override earlier ones.\n")
		fmt.Fprintf(flag.CommandLine.Output(), "With S3_ENABLED=true paths are read from S3_BUCKET under S3_PREFIX first.\n")
	}
	flag.Parse()

	paths := flag.Args()
	if len(paths) == 0 {
		paths = []string{defaultFixture}
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := config.NewLogger(cfg.Logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Database.Migrate {
		if err := database.Migrate(cfg.Database.ConnectionString(), logger); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	// S3 first when enabled, local file system otherwise
	var s3Loader catalogseed.Loader
	if cfg.S3.Enabled {
		s3Loader, err = catalogseed.NewS3Loader(ctx, cfg.S3.Bucket, cfg.S3.Region, logger)
		if err != nil {
			logger.Warn().
				Err(err).
				Msg("failed to initialise S3 loader, falling back to local file system only")
		}
	}
	loader := catalogseed.NewFallbackLoader(s3Loader, catalogseed.NewFileLoader(logger), cfg.S3.Prefix, cfg.S3.Enabled, logger)

	importer := catalogseed.NewImporter(loader, repository.NewProductRepository(pool, logger), logger)

	count, err := importer.Import(ctx, paths)
	if err != nil {
		return fmt.Errorf("failed to seed catalogue: %w", err)
	}

	logger.Info().Int("products", count).Strs("files", paths).Msg("catalogue seeded")

	return nil
}
