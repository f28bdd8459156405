// Package catalogseed loads product fixtures from gzipped CSV files and
// upserts them into the catalogue.
package catalogseed

import (
	"compress/gzip"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"storefront/internal/model"

	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"
)

// Loader defines the interface for loading catalogue fixture files.
type Loader interface {
	// Load reads a gzipped CSV fixture and returns its products.
	Load(ctx context.Context, path string) ([]model.Product, error)
}

// Column order of a fixture row. description and featured are optional.
const (
	colID = iota
	colSlug
	colName
	colCategory
	colPrice
	colStock
	colActive
	colDescription
	colFeatured
)

const minColumns = colActive + 1

// ErrMalformedRow is returned for a fixture row that cannot become a product.
var ErrMalformedRow = errors.New("malformed fixture row")

// readProducts decompresses r and parses every CSV row into a product.
// A first row whose id column reads "id" is treated as a header.
func readProducts(ctx context.Context, r io.Reader) ([]model.Product, error) {
	gzipReader, err := gzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer gzipReader.Close()

	reader := csv.NewReader(gzipReader)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var products []model.Product
	for n := 0; ; n++ {
		if n%1000 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read fixture: %w", err)
		}

		if n == 0 && strings.EqualFold(strings.TrimSpace(record[colID]), "id") {
			continue
		}
		if len(record) == 1 && strings.TrimSpace(record[0]) == "" {
			continue
		}

		p, err := parseRow(record)
		if err != nil {
			line, _ := reader.FieldPos(0)
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		products = append(products, p)
	}

	return products, nil
}

func parseRow(record []string) (model.Product, error) {
	if len(record) < minColumns {
		return model.Product{}, fmt.Errorf("%w: want at least %d columns, got %d", ErrMalformedRow, minColumns, len(record))
	}

	for i := range record {
		record[i] = strings.TrimSpace(record[i])
	}

	p := model.Product{
		ID:       record[colID],
		Slug:     record[colSlug],
		Name:     record[colName],
		Category: record[colCategory],
	}
	if p.ID == "" {
		return model.Product{}, fmt.Errorf("%w: empty id", ErrMalformedRow)
	}
	if p.Name == "" {
		return model.Product{}, fmt.Errorf("%w: product %s has no name", ErrMalformedRow, p.ID)
	}
	if p.Slug == "" {
		p.Slug = slug.Make(p.Name)
	}
	if len(record) > colDescription {
		p.Description = record[colDescription]
	}

	price, err := decimal.NewFromString(record[colPrice])
	if err != nil || price.IsNegative() {
		return model.Product{}, fmt.Errorf("%w: product %s has invalid price %q", ErrMalformedRow, p.ID, record[colPrice])
	}
	p.Price = price.Round(2)

	stock, err := strconv.Atoi(record[colStock])
	if err != nil || stock < 0 {
		return model.Product{}, fmt.Errorf("%w: product %s has invalid stock %q", ErrMalformedRow, p.ID, record[colStock])
	}
	p.Stock = stock

	active, err := strconv.ParseBool(record[colActive])
	if err != nil {
		return model.Product{}, fmt.Errorf("%w: product %s has invalid active flag %q", ErrMalformedRow, p.ID, record[colActive])
	}
	p.IsActive = active

	if len(record) > colFeatured && record[colFeatured] != "" {
		featured, err := strconv.ParseBool(record[colFeatured])
		if err != nil {
			return model.Product{}, fmt.Errorf("%w: product %s has invalid featured flag %q", ErrMalformedRow, p.ID, record[colFeatured])
		}
		p.Featured = featured
	}

	return p, nil
}
