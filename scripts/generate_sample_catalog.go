//go:build ignore

package main

import (
	"compress/gzip"
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"path/filepath"
)

// generateSampleCatalog creates sample catalogue fixtures for local development.
// products.csv.gz holds the base catalogue; overrides.csv.gz reprices P003,
// restocks P005 and adds P009. Run cmd/seed with both files, base first.
func main() {
	dataDir := "data/catalog"

	// Create directory if it doesn't exist
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		log.Fatalf("Failed to create directory: %v", err)
	}

	header := []string{"id", "slug", "name", "category", "price", "stock", "active", "description", "featured"}

	fixtures := map[string][][]string{
		"products.csv.gz": {
			{"P001", "", "Walnut Desk", "furniture", "249.00", "5", "true", "Solid walnut writing desk", "true"},
			{"P002", "", "Oak Bookshelf", "furniture", "179.50", "3", "true", "Five shelves, oiled oak", "false"},
			{"P003", "", "Brass Desk Lamp", "lighting", "39.99", "12", "true", "Adjustable arm, warm white bulb", "true"},
			{"P004", "", "Linen Floor Cushion", "textiles", "24.00", "20", "true", "", "false"},
			{"P005", "", "Stoneware Mug", "kitchen", "12.00", "0", "true", "Sold out until next firing", "false"},
			{"P006", "", "Wool Throw", "textiles", "65.00", "7", "true", "Undyed merino", "true"},
			{"P007", "", "Pendant Light", "lighting", "89.00", "1", "true", "Last one in stock", "false"},
			{"P008", "retired-stool", "Retired Stool", "furniture", "45.00", "9", "false", "No longer sold", "false"},
		},
		"overrides.csv.gz": {
			{"P003", "", "Brass Desk Lamp", "lighting", "34.99", "12", "true", "Adjustable arm, warm white bulb", "true"},
			{"P005", "", "Stoneware Mug", "kitchen", "12.00", "30", "true", "Back in stock", "false"},
			{"P009", "", "Ceramic Planter", "garden", "18.25", "15", "true", "Drainage hole and saucer", "true"},
		},
	}

	for filename, rows := range fixtures {
		filePath := filepath.Join(dataDir, filename)

		if err := createFixture(filePath, header, rows); err != nil {
			log.Fatalf("Failed to create %s: %v", filename, err)
		}

		fmt.Printf("Created %s with %d products\n", filePath, len(rows))
	}

	fmt.Println("\nSample catalogue fixtures created successfully!")
	fmt.Println("\nSeed with:")
	fmt.Println("  go run ./cmd/seed data/catalog/products.csv.gz data/catalog/overrides.csv.gz")
}

func createFixture(filePath string, header []string, rows [][]string) error {
	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	gzipWriter := gzip.NewWriter(file)
	defer gzipWriter.Close()

	writer := csv.NewWriter(gzipWriter)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if err := writer.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write rows: %w", err)
	}

	return nil
}
