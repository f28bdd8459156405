package model

import "github.com/shopspring/decimal"

// CartEntry is one product held in a session cart.
type CartEntry struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// CartLineItem is a cart entry priced against the current catalogue.
type CartLineItem struct {
	Product   Product         `json:"product"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	LineTotal decimal.Decimal `json:"lineTotal"`
}

// NewCartLineItem prices quantity units of p at its current price.
func NewCartLineItem(p Product, quantity int) CartLineItem {
	return CartLineItem{
		Product:   p,
		Quantity:  quantity,
		UnitPrice: p.Price,
		LineTotal: p.Price.Mul(decimal.NewFromInt(int64(quantity))),
	}
}

// CartView is the materialised cart returned to clients.
type CartView struct {
	Items []CartLineItem  `json:"items"`
	Total decimal.Decimal `json:"total"`
	Count int             `json:"count"`
}

// CartItemRequest is the payload for adding or updating a cart line.
type CartItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  *int   `json:"quantity,omitempty"`
}
