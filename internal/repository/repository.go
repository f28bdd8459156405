package repository

import (
	"context"

	"storefront/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ProductRepository defines the interface for product data access operations.
type ProductRepository interface {
	// List retrieves one page of active products matching filter and the
	// total number of matches.
	List(ctx context.Context, filter model.ProductFilter) ([]model.Product, int, error)

	// ListFeatured retrieves up to limit active featured products, newest first.
	ListFeatured(ctx context.Context, limit int) ([]model.Product, error)

	// ListCategories retrieves the distinct non-empty categories in
	// alphabetical order.
	ListCategories(ctx context.Context) ([]string, error)

	// GetByID retrieves a single product by its ID, active or not.
	// Returns nil when no product exists.
	GetByID(ctx context.Context, id string) (*model.Product, error)

	// GetBySlug retrieves a single product by its slug.
	GetBySlug(ctx context.Context, slug string) (*model.Product, error)

	// GetByIDs retrieves multiple products by their IDs. Unknown IDs are absent
	// from the result.
	GetByIDs(ctx context.Context, ids []string) ([]model.Product, error)

	// LockForCheckout reads the products with ids inside tx and holds their row
	// locks until tx ends. Rows are locked in id order.
	LockForCheckout(ctx context.Context, tx pgx.Tx, ids []string) ([]model.Product, error)

	// DecrementStock removes each item's quantity from its product's stock.
	// Fails with ErrInsufficientStock when a product cannot cover its item.
	DecrementStock(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error

	// Upsert inserts products or replaces existing ones with the same ID.
	Upsert(ctx context.Context, products []model.Product) error
}

// OrderRepository defines the interface for order data access operations.
type OrderRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// CreateOrder inserts a new order within the provided transaction.
	CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error

	// CreateOrderItems inserts multiple order items within the provided transaction.
	CreateOrderItems(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error

	// GetByID retrieves an order by its ID along with its items.
	// Returns nil when no order exists.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, []model.OrderItem, error)

	// ListByUser retrieves the orders placed by userID, newest first.
	ListByUser(ctx context.Context, userID string) ([]model.OrderSummary, error)

	// List retrieves all orders, newest first, optionally narrowed to status.
	List(ctx context.Context, status model.OrderStatus) ([]model.OrderSummary, error)

	// UpdateStatus moves an order from one status to another. Returns nil when
	// the order does not exist or is no longer in status from.
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to model.OrderStatus) (*model.Order, error)
}
