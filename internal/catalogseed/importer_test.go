package catalogseed

import (
	"context"
	"errors"
	"sync"
	"testing"

	"storefront/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockProductWriter is a mock implementation of ProductWriter.
type MockProductWriter struct {
	mock.Mock
}

func (m *MockProductWriter) Upsert(ctx context.Context, products []model.Product) error {
	args := m.Called(ctx, products)
	return args.Error(0)
}

// mapLoader serves fixed product batches by path.
type mapLoader struct {
	mu      sync.Mutex
	batches map[string][]model.Product
	errs    map[string]error
	loaded  []string
}

func (l *mapLoader) Load(ctx context.Context, path string) ([]model.Product, error) {
	l.mu.Lock()
	l.loaded = append(l.loaded, path)
	l.mu.Unlock()

	if err := l.errs[path]; err != nil {
		return nil, err
	}
	return l.batches[path], nil
}

func TestImporter_Import(t *testing.T) {
	loader := &mapLoader{batches: map[string][]model.Product{
		"base.csv.gz": {
			{ID: "P002", Name: "Chair", Stock: 4},
			{ID: "P001", Name: "Desk", Stock: 1},
		},
		"override.csv.gz": {
			{ID: "P002", Name: "Chair v2", Stock: 9},
			{ID: "P003", Name: "Lamp", Stock: 2},
		},
	}}
	writer := new(MockProductWriter)

	writer.On("Upsert", mock.Anything, mock.MatchedBy(func(products []model.Product) bool {
		if len(products) != 3 {
			return false
		}
		return products[0].ID == "P001" &&
			products[1].ID == "P002" && products[1].Name == "Chair v2" && products[1].Stock == 9 &&
			products[2].ID == "P003"
	})).Return(nil)

	importer := NewImporter(loader, writer, zerolog.Nop())

	n, err := importer.Import(context.Background(), []string{"base.csv.gz", "override.csv.gz"})
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.ElementsMatch(t, []string{"base.csv.gz", "override.csv.gz"}, loader.loaded)
	writer.AssertExpectations(t)
}

func TestImporter_Import_LaterFileWinsRegardlessOfLoadOrder(t *testing.T) {
	loader := &mapLoader{batches: map[string][]model.Product{
		"a.csv.gz": {{ID: "P001", Name: "first"}},
		"b.csv.gz": {{ID: "P001", Name: "second"}},
		"c.csv.gz": {{ID: "P001", Name: "third"}},
	}}
	writer := new(MockProductWriter)

	var written []model.Product
	writer.On("Upsert", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { written = args.Get(1).([]model.Product) }).
		Return(nil)

	importer := NewImporter(loader, writer, zerolog.Nop())

	_, err := importer.Import(context.Background(), []string{"c.csv.gz", "a.csv.gz", "b.csv.gz"})
	require.NoError(t, err)
	require.Len(t, written, 1)
	assert.Equal(t, "second", written[0].Name)
}

func TestImporter_Import_LoadError(t *testing.T) {
	loader := &mapLoader{
		batches: map[string][]model.Product{"good.csv.gz": {{ID: "P001"}}},
		errs:    map[string]error{"bad.csv.gz": errors.New("corrupt archive")},
	}
	writer := new(MockProductWriter)

	importer := NewImporter(loader, writer, zerolog.Nop())

	n, err := importer.Import(context.Background(), []string{"good.csv.gz", "bad.csv.gz"})
	require.Error(t, err)
	assert.Zero(t, n)
	assert.Contains(t, err.Error(), "bad.csv.gz")
	assert.Contains(t, err.Error(), "corrupt archive")
	writer.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestImporter_Import_UpsertError(t *testing.T) {
	loader := &mapLoader{batches: map[string][]model.Product{"base.csv.gz": {{ID: "P001"}}}}
	writer := new(MockProductWriter)
	writer.On("Upsert", mock.Anything, mock.Anything).Return(errors.New("duplicate slug"))

	importer := NewImporter(loader, writer, zerolog.Nop())

	n, err := importer.Import(context.Background(), []string{"base.csv.gz"})
	require.Error(t, err)
	assert.Zero(t, n)
	assert.Contains(t, err.Error(), "failed to upsert products")
}

func TestImporter_Import_Empty(t *testing.T) {
	loader := &mapLoader{batches: map[string][]model.Product{"empty.csv.gz": nil}}
	writer := new(MockProductWriter)

	importer := NewImporter(loader, writer, zerolog.Nop())

	n, err := importer.Import(context.Background(), []string{"empty.csv.gz"})
	require.NoError(t, err)
	assert.Zero(t, n)
	writer.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}
