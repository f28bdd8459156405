package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus is the fulfilment state of an order.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:    {OrderStatusProcessing, OrderStatusCancelled},
	OrderStatusProcessing: {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:    {OrderStatusDelivered},
}

// Valid reports whether s is a known status.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo reports whether an order in status s may move to next.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Order represents a placed customer order.
type Order struct {
	ID               uuid.UUID   `json:"id" db:"id"`
	UserID           string      `json:"userId" db:"user_id"`
	FirstName        string      `json:"firstName" db:"first_name"`
	LastName         string      `json:"lastName" db:"last_name"`
	Email            string      `json:"email" db:"email"`
	Address          string      `json:"address" db:"address"`
	City             string      `json:"city" db:"city"`
	PostalCode       string      `json:"postalCode" db:"postal_code"`
	PaymentReference string      `json:"paymentReference" db:"payment_reference"`
	Status           OrderStatus `json:"status" db:"status"`
	CreatedAt        time.Time   `json:"createdAt" db:"created_at"`
	UpdatedAt        time.Time   `json:"updatedAt" db:"updated_at"`
}

// OrderItem represents a line item in an order. Price is frozen at order time.
type OrderItem struct {
	ID        uuid.UUID       `json:"id" db:"id"`
	OrderID   uuid.UUID       `json:"-" db:"order_id"`
	ProductID string          `json:"productId" db:"product_id"`
	Price     decimal.Decimal `json:"price" db:"price"`
	Quantity  int             `json:"quantity" db:"quantity"`
}

// LineTotal returns price times quantity.
func (i OrderItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// TotalCost sums the line totals of items.
func TotalCost(items []OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.LineTotal())
	}
	return total
}

// CheckoutRequest carries the shipping and contact details for a checkout.
type CheckoutRequest struct {
	FirstName        string `json:"firstName"`
	LastName         string `json:"lastName"`
	Email            string `json:"email"`
	Address          string `json:"address"`
	City             string `json:"city"`
	PostalCode       string `json:"postalCode"`
	PaymentReference string `json:"paymentReference"`
}

// OrderResponse is an order together with its items and derived total.
type OrderResponse struct {
	Order
	Items     []OrderItem     `json:"items"`
	TotalCost decimal.Decimal `json:"totalCost"`
}

// NewOrderResponse builds the response for order and its items.
func NewOrderResponse(order Order, items []OrderItem) *OrderResponse {
	return &OrderResponse{
		Order:     order,
		Items:     items,
		TotalCost: TotalCost(items),
	}
}

// OrderSummary is a row of an order listing.
type OrderSummary struct {
	Order
	ItemCount int             `json:"itemCount"`
	TotalCost decimal.Decimal `json:"totalCost"`
}

// OrderStatusRequest is the payload for an admin status change.
type OrderStatusRequest struct {
	Status OrderStatus `json:"status"`
}
