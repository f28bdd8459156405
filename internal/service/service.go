package service

import (
	"context"

	"storefront/internal/model"

	"github.com/google/uuid"
)

// ProductService defines catalogue browsing operations.
type ProductService interface {
	// List retrieves one page of active products.
	List(ctx context.Context, filter model.ProductFilter) (*model.ProductPage, error)

	// Get retrieves an active product by ID or, failing that, by slug.
	Get(ctx context.Context, ref string) (*model.Product, error)

	// Featured retrieves the active featured products, newest first.
	Featured(ctx context.Context) ([]model.Product, error)

	// Categories retrieves the catalogue's categories in alphabetical order.
	Categories(ctx context.Context) ([]string, error)
}

// CartService defines operations on a session's cart.
type CartService interface {
	// Get materialises the session's cart against the current catalogue.
	Get(ctx context.Context, sessionID string) (*model.CartView, error)

	// AddItem adds quantity units of productID to the cart.
	AddItem(ctx context.Context, sessionID, productID string, quantity int) (*model.CartView, error)

	// UpdateItem sets the quantity of productID. A quantity below 1 removes it.
	UpdateItem(ctx context.Context, sessionID, productID string, quantity int) (*model.CartView, error)

	// RemoveItem removes productID from the cart.
	RemoveItem(ctx context.Context, sessionID, productID string) (*model.CartView, error)

	// Clear empties the cart.
	Clear(ctx context.Context, sessionID string) error
}

// CheckoutService turns a session's cart into an order.
type CheckoutService interface {
	// Checkout places an order for userID from the cart of sessionID. Either
	// the order, its items and the stock decrements are all persisted and the
	// cart is emptied, or nothing changes.
	Checkout(ctx context.Context, userID, sessionID string, req *model.CheckoutRequest) (*model.OrderResponse, error)
}

// OrderService defines read and fulfilment operations on placed orders.
type OrderService interface {
	// GetForUser retrieves one of userID's orders.
	GetForUser(ctx context.Context, userID string, id uuid.UUID) (*model.OrderResponse, error)

	// ListForUser retrieves userID's orders, newest first.
	ListForUser(ctx context.Context, userID string) ([]model.OrderSummary, error)

	// Get retrieves any order by its ID.
	Get(ctx context.Context, id uuid.UUID) (*model.OrderResponse, error)

	// List retrieves all orders, optionally narrowed to status.
	List(ctx context.Context, status model.OrderStatus) ([]model.OrderSummary, error)

	// UpdateStatus moves an order to status if the transition is allowed.
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.OrderStatus) (*model.OrderResponse, error)
}
