package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"storefront/internal/database"
	"storefront/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupTestDB creates a migrated PostgreSQL testcontainer and returns a connection pool.
func setupTestDB(t *testing.T) (*pgxpool.Pool, func()) {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}

	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	require.NoError(t, database.Migrate(connStr, zerolog.Nop()))

	pool, err := database.Open(ctx, connStr, nil)
	require.NoError(t, err)

	cleanup := func() {
		pool.Close()
		_ = pgContainer.Terminate(ctx)
	}

	return pool, cleanup
}

func price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// seedProducts inserts test products into the database.
func seedProducts(t *testing.T, pool *pgxpool.Pool, products []model.Product) {
	t.Helper()

	ctx := context.Background()

	query := `
		INSERT INTO products (id, slug, name, description, category, price, stock, is_active, featured, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10)
	`

	for _, p := range products {
		if p.Slug == "" {
			p.Slug = p.ID
		}
		if p.CreatedAt.IsZero() {
			p.CreatedAt = time.Now()
		}
		_, err := pool.Exec(ctx, query, p.ID, p.Slug, p.Name, p.Description, p.Category, p.Price, p.Stock, p.IsActive, p.Featured, p.CreatedAt)
		require.NoError(t, err)
	}
}

func stockOf(t *testing.T, pool *pgxpool.Pool, id string) int {
	t.Helper()

	var stock int
	err := pool.QueryRow(context.Background(), `SELECT stock FROM products WHERE id = $1`, id).Scan(&stock)
	require.NoError(t, err)
	return stock
}

func productIDs(products []model.Product) []string {
	ids := make([]string, len(products))
	for i, p := range products {
		ids[i] = p.ID
	}
	return ids
}

func TestProductRepository_List(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewProductRepository(pool, zerolog.Nop())

	base := time.Now().Add(-time.Hour)
	seedProducts(t, pool, []model.Product{
		{ID: "P001", Name: "Red Mug", Description: "ceramic", Price: price("8.00"), Category: "kitchen", Stock: 5, IsActive: true, CreatedAt: base},
		{ID: "P002", Name: "Blue Mug", Description: "enamel", Price: price("12.50"), Category: "kitchen", Stock: 5, IsActive: true, CreatedAt: base.Add(time.Minute)},
		{ID: "P003", Name: "Desk Lamp", Description: "brass", Price: price("45.00"), Category: "office", Stock: 2, IsActive: true, CreatedAt: base.Add(2 * time.Minute)},
		{ID: "P004", Name: "Notebook", Description: "dotted mug print", Price: price("4.00"), Category: "office", Stock: 0, IsActive: true, CreatedAt: base.Add(3 * time.Minute)},
		{ID: "P005", Name: "Retired Mug", Description: "old", Price: price("1.00"), Category: "kitchen", Stock: 9, IsActive: false, CreatedAt: base.Add(4 * time.Minute)},
	})

	minPrice := price("5.00")
	maxPrice := price("20.00")

	tests := []struct {
		name          string
		filter        model.ProductFilter
		expectedIDs   []string
		expectedTotal int
	}{
		{
			name:          "Default sort is newest first and hides inactive",
			filter:        model.ProductFilter{Page: 1, PerPage: 10},
			expectedIDs:   []string{"P004", "P003", "P002", "P001"},
			expectedTotal: 4,
		},
		{
			name:          "Query matches name or description",
			filter:        model.ProductFilter{Query: "mug", Sort: model.SortNameAsc, Page: 1, PerPage: 10},
			expectedIDs:   []string{"P002", "P004", "P001"},
			expectedTotal: 3,
		},
		{
			name:          "Category filter",
			filter:        model.ProductFilter{Category: "office", Sort: model.SortOldest, Page: 1, PerPage: 10},
			expectedIDs:   []string{"P003", "P004"},
			expectedTotal: 2,
		},
		{
			name:          "Price range",
			filter:        model.ProductFilter{MinPrice: &minPrice, MaxPrice: &maxPrice, Sort: model.SortPriceDesc, Page: 1, PerPage: 10},
			expectedIDs:   []string{"P002", "P001"},
			expectedTotal: 2,
		},
		{
			name:          "Second page",
			filter:        model.ProductFilter{Sort: model.SortPriceAsc, Page: 2, PerPage: 2},
			expectedIDs:   []string{"P002", "P003"},
			expectedTotal: 4,
		},
		{
			name:          "Page past the end",
			filter:        model.ProductFilter{Page: 9, PerPage: 10},
			expectedIDs:   []string{},
			expectedTotal: 4,
		},
		{
			name:          "Unknown sort falls back to newest",
			filter:        model.ProductFilter{Sort: "bogus", Page: 1, PerPage: 1},
			expectedIDs:   []string{"P004"},
			expectedTotal: 4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			products, total, err := repo.List(context.Background(), tt.filter)

			require.NoError(t, err)
			assert.Equal(t, tt.expectedTotal, total)
			assert.Equal(t, tt.expectedIDs, productIDs(products))
		})
	}
}

func TestProductRepository_ListFeatured(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewProductRepository(pool, zerolog.Nop())
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	var products []model.Product
	for i := 0; i < 10; i++ {
		products = append(products, model.Product{
			ID:        fmt.Sprintf("F%02d", i),
			Name:      fmt.Sprintf("Featured %d", i),
			Price:     price("1.00"),
			Category:  "misc",
			IsActive:  true,
			Featured:  true,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
	}
	products = append(products,
		model.Product{ID: "X01", Name: "Hidden", Price: price("1.00"), Category: "misc", Featured: true, CreatedAt: base.Add(time.Hour)},
		model.Product{ID: "X02", Name: "Plain", Price: price("1.00"), Category: "misc", IsActive: true, CreatedAt: base.Add(time.Hour)},
	)
	seedProducts(t, pool, products)

	featured, err := repo.ListFeatured(ctx, 8)
	require.NoError(t, err)
	assert.Equal(t, []string{"F09", "F08", "F07", "F06", "F05", "F04", "F03", "F02"}, productIDs(featured))

	none, err := repo.ListFeatured(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestProductRepository_ListCategories(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewProductRepository(pool, zerolog.Nop())
	ctx := context.Background()

	categories, err := repo.ListCategories(ctx)
	require.NoError(t, err)
	assert.Empty(t, categories)

	seedProducts(t, pool, []model.Product{
		{ID: "P001", Name: "Lamp", Price: price("1.00"), Category: "lighting", IsActive: true},
		{ID: "P002", Name: "Desk", Price: price("1.00"), Category: "furniture", IsActive: true},
		{ID: "P003", Name: "Chair", Price: price("1.00"), Category: "furniture", IsActive: true},
		{ID: "P004", Name: "Loose", Price: price("1.00"), Category: "", IsActive: true},
	})

	categories, err = repo.ListCategories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"furniture", "lighting"}, categories)
}

func TestProductRepository_GetByIDAndSlug(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewProductRepository(pool, zerolog.Nop())
	ctx := context.Background()

	seedProducts(t, pool, []model.Product{
		{ID: "P001", Slug: "red-mug", Name: "Red Mug", Price: price("8.00"), Category: "kitchen", Stock: 5, IsActive: true},
		{ID: "P002", Slug: "old-mug", Name: "Old Mug", Price: price("2.00"), Category: "kitchen", Stock: 1, IsActive: false},
	})

	t.Run("By ID", func(t *testing.T) {
		p, err := repo.GetByID(ctx, "P001")
		require.NoError(t, err)
		require.NotNil(t, p)
		assert.Equal(t, "Red Mug", p.Name)
		assert.True(t, price("8.00").Equal(p.Price))
		assert.Equal(t, 5, p.Stock)
	})

	t.Run("Inactive products are still readable", func(t *testing.T) {
		p, err := repo.GetByID(ctx, "P002")
		require.NoError(t, err)
		require.NotNil(t, p)
		assert.False(t, p.IsActive)
	})

	t.Run("By slug", func(t *testing.T) {
		p, err := repo.GetBySlug(ctx, "red-mug")
		require.NoError(t, err)
		require.NotNil(t, p)
		assert.Equal(t, "P001", p.ID)
	})

	t.Run("Not found", func(t *testing.T) {
		p, err := repo.GetByID(ctx, "NOPE")
		require.NoError(t, err)
		assert.Nil(t, p)

		p, err = repo.GetBySlug(ctx, "nope")
		require.NoError(t, err)
		assert.Nil(t, p)
	})
}

func TestProductRepository_GetByIDs(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewProductRepository(pool, zerolog.Nop())

	seedProducts(t, pool, []model.Product{
		{ID: "P001", Name: "A", Price: price("1.00"), Category: "c", Stock: 1, IsActive: true},
		{ID: "P002", Name: "B", Price: price("2.00"), Category: "c", Stock: 1, IsActive: false},
		{ID: "P003", Name: "C", Price: price("3.00"), Category: "c", Stock: 1, IsActive: true},
	})

	tests := []struct {
		name     string
		ids      []string
		expected []string
	}{
		{name: "All found", ids: []string{"P003", "P001"}, expected: []string{"P001", "P003"}},
		{name: "Inactive included", ids: []string{"P002"}, expected: []string{"P002"}},
		{name: "Unknown IDs dropped", ids: []string{"P001", "P404"}, expected: []string{"P001"}},
		{name: "Empty input", ids: []string{}, expected: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			products, err := repo.GetByIDs(context.Background(), tt.ids)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, productIDs(products))
		})
	}
}

func TestProductRepository_LockAndDecrementStock(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewProductRepository(pool, zerolog.Nop())
	ctx := context.Background()

	seedProducts(t, pool, []model.Product{
		{ID: "A", Name: "A", Price: price("10.00"), Category: "c", Stock: 5, IsActive: true},
		{ID: "B", Name: "B", Price: price("5.00"), Category: "c", Stock: 1, IsActive: true},
	})

	t.Run("Decrements within the transaction", func(t *testing.T) {
		tx, err := pool.Begin(ctx)
		require.NoError(t, err)
		defer tx.Rollback(ctx)

		locked, err := repo.LockForCheckout(ctx, tx, []string{"B", "A"})
		require.NoError(t, err)
		assert.Equal(t, []string{"A", "B"}, productIDs(locked))

		err = repo.DecrementStock(ctx, tx, []model.OrderItem{
			{ProductID: "A", Quantity: 2},
			{ProductID: "B", Quantity: 1},
		})
		require.NoError(t, err)
		require.NoError(t, tx.Commit(ctx))

		assert.Equal(t, 3, stockOf(t, pool, "A"))
		assert.Equal(t, 0, stockOf(t, pool, "B"))
	})

	t.Run("Insufficient stock affects no row", func(t *testing.T) {
		tx, err := pool.Begin(ctx)
		require.NoError(t, err)
		defer tx.Rollback(ctx)

		err = repo.DecrementStock(ctx, tx, []model.OrderItem{
			{ProductID: "A", Quantity: 1},
			{ProductID: "B", Quantity: 1},
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, model.ErrInsufficientStock)

		var domainErr *model.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "B", domainErr.ProductID)

		require.NoError(t, tx.Rollback(ctx))
		assert.Equal(t, 3, stockOf(t, pool, "A"))
		assert.Equal(t, 0, stockOf(t, pool, "B"))
	})

	t.Run("Empty inputs are no-ops", func(t *testing.T) {
		tx, err := pool.Begin(ctx)
		require.NoError(t, err)
		defer tx.Rollback(ctx)

		locked, err := repo.LockForCheckout(ctx, tx, nil)
		require.NoError(t, err)
		assert.Empty(t, locked)
		assert.NoError(t, repo.DecrementStock(ctx, tx, nil))
	})
}

func TestProductRepository_Upsert(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewProductRepository(pool, zerolog.Nop())
	ctx := context.Background()

	err := repo.Upsert(ctx, []model.Product{
		{ID: "P001", Slug: "lamp", Name: "Lamp", Category: "office", Price: price("20.00"), Stock: 3, IsActive: true},
	})
	require.NoError(t, err)

	err = repo.Upsert(ctx, []model.Product{
		{ID: "P001", Slug: "lamp", Name: "Brass Lamp", Category: "office", Price: price("25.00"), Stock: 7, IsActive: true, Featured: true},
		{ID: "P002", Slug: "pen", Name: "Pen", Category: "office", Price: price("1.50"), Stock: 100, IsActive: true},
	})
	require.NoError(t, err)

	p, err := repo.GetByID(ctx, "P001")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "Brass Lamp", p.Name)
	assert.True(t, price("25.00").Equal(p.Price))
	assert.Equal(t, 7, p.Stock)
	assert.True(t, p.Featured)

	products, total, err := repo.List(ctx, model.ProductFilter{Page: 1, PerPage: 10})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, products, 2)

	assert.NoError(t, repo.Upsert(ctx, nil))
}

func TestProductRepository_ErrorPaths(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewProductRepository(pool, zerolog.Nop())
	ctx := context.Background()

	pool.Close()

	t.Run("List with closed pool", func(t *testing.T) {
		products, total, err := repo.List(ctx, model.ProductFilter{Page: 1, PerPage: 10})
		require.Error(t, err)
		assert.Nil(t, products)
		assert.Zero(t, total)
	})

	t.Run("GetByID with closed pool", func(t *testing.T) {
		p, err := repo.GetByID(ctx, "P001")
		require.Error(t, err)
		assert.Nil(t, p)
	})

	t.Run("GetByIDs with closed pool", func(t *testing.T) {
		products, err := repo.GetByIDs(ctx, []string{uuid.NewString()})
		require.Error(t, err)
		assert.Nil(t, products)
	})
}
