package catalogseed

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"storefront/internal/model"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// ProductWriter persists seeded products.
type ProductWriter interface {
	Upsert(ctx context.Context, products []model.Product) error
}

// Importer loads fixtures concurrently and upserts the merged catalogue.
type Importer struct {
	loader Loader
	writer ProductWriter
	logger zerolog.Logger
}

// NewImporter creates a new catalogue importer.
func NewImporter(loader Loader, writer ProductWriter, logger zerolog.Logger) *Importer {
	return &Importer{
		loader: loader,
		writer: writer,
		logger: logger.With().Str("component", "catalog-importer").Logger(),
	}
}

// Import loads every path and upserts the union of their products. When two
// files carry the same id, the one listed later wins. It returns the number
// of distinct products written.
func (imp *Importer) Import(ctx context.Context, paths []string) (int, error) {
	imp.logger.Info().Int("file_count", len(paths)).Msg("importing catalogue fixtures")

	results := make([][]model.Product, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	for i, path := range paths {
		g.Go(func() error {
			products, err := imp.loader.Load(gctx, path)
			if err != nil {
				return fmt.Errorf("failed to load fixture %s: %w", path, err)
			}
			results[i] = products
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		imp.logger.Error().Err(err).Msg("catalogue import aborted")
		return 0, err
	}

	merged := merge(results)
	if len(merged) == 0 {
		imp.logger.Warn().Msg("no products found in fixtures")
		return 0, nil
	}

	if err := imp.writer.Upsert(ctx, merged); err != nil {
		imp.logger.Error().Err(err).Msg("failed to upsert products")
		return 0, fmt.Errorf("failed to upsert products: %w", err)
	}

	imp.logger.Info().Int("products", len(merged)).Msg("catalogue imported")

	return len(merged), nil
}

// merge flattens batches in order, letting later batches override earlier
// products with the same id. The result is sorted by id.
func merge(batches [][]model.Product) []model.Product {
	byID := make(map[string]model.Product)
	for _, batch := range batches {
		for _, p := range batch {
			byID[p.ID] = p
		}
	}

	merged := make([]model.Product, 0, len(byID))
	for _, p := range byID {
		merged = append(merged, p)
	}
	slices.SortFunc(merged, func(a, b model.Product) int {
		return strings.Compare(a.ID, b.ID)
	})
	return merged
}
