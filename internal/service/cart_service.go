package service

import (
	"context"
	"fmt"

	"storefront/internal/cart"
	"storefront/internal/model"
	"storefront/internal/repository"

	"github.com/rs/zerolog"
)

// cartService implements CartService.
type cartService struct {
	store           cart.Store
	productRepo     repository.ProductRepository
	maxLineQuantity int
	logger          zerolog.Logger
}

// NewCartService creates a new cart service. No cart line may hold more than
// maxLineQuantity units.
func NewCartService(
	store cart.Store,
	productRepo repository.ProductRepository,
	maxLineQuantity int,
	logger zerolog.Logger,
) CartService {
	return &cartService{
		store:           store,
		productRepo:     productRepo,
		maxLineQuantity: maxLineQuantity,
		logger:          logger.With().Str("service", "cart").Logger(),
	}
}

// Get materialises the session's cart.
func (s *cartService) Get(ctx context.Context, sessionID string) (*model.CartView, error) {
	c, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, c)
}

// AddItem adds quantity units of productID, at least one.
func (s *cartService) AddItem(ctx context.Context, sessionID, productID string, quantity int) (*model.CartView, error) {
	if productID == "" {
		return nil, model.NewMissingFieldError("productId")
	}

	c, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	quantity = max(1, quantity)
	if err := s.checkProduct(ctx, productID, c.Quantity(productID), quantity); err != nil {
		return nil, err
	}

	c.Add(productID, quantity, cart.ModeIncrement)
	if err := s.save(ctx, sessionID, c); err != nil {
		return nil, err
	}

	s.logger.Debug().
		Str("session_id", sessionID).
		Str("product_id", productID).
		Int("quantity", c.Quantity(productID)).
		Msg("item added to cart")

	return s.view(ctx, c)
}

// UpdateItem sets the quantity of productID.
func (s *cartService) UpdateItem(ctx context.Context, sessionID, productID string, quantity int) (*model.CartView, error) {
	if productID == "" {
		return nil, model.NewMissingFieldError("productId")
	}

	c, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if quantity >= 1 {
		if err := s.checkProduct(ctx, productID, 0, quantity); err != nil {
			return nil, err
		}
	}

	c.Add(productID, quantity, cart.ModeReplace)
	if err := s.save(ctx, sessionID, c); err != nil {
		return nil, err
	}

	s.logger.Debug().
		Str("session_id", sessionID).
		Str("product_id", productID).
		Int("quantity", c.Quantity(productID)).
		Msg("cart item updated")

	return s.view(ctx, c)
}

// RemoveItem removes productID from the cart. Removing an absent product is
// not an error.
func (s *cartService) RemoveItem(ctx context.Context, sessionID, productID string) (*model.CartView, error) {
	c, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	c.Remove(productID)
	if err := s.save(ctx, sessionID, c); err != nil {
		return nil, err
	}

	return s.view(ctx, c)
}

// Clear empties the cart.
func (s *cartService) Clear(ctx context.Context, sessionID string) error {
	return s.save(ctx, sessionID, cart.New())
}

// checkProduct verifies that productID can be held at quantity units.
// checkProduct verifies productID can take quantity more units on top of the
// held units already in the cart.
func (s *cartService) checkProduct(ctx context.Context, productID string, held, quantity int) error {
	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		s.logger.Error().Err(err).Str("product_id", productID).Msg("failed to get product")
		return fmt.Errorf("failed to get product: %w", err)
	}

	if product == nil || !product.IsActive {
		return model.NewProductUnavailableError(productID, "")
	}
	if product.Stock <= 0 {
		return model.NewInsufficientStockError(product.ID, product.Name)
	}
	if quantity > s.maxLineQuantity-held {
		s.logger.Debug().
			Str("product_id", productID).
			Int("held", held).
			Int("quantity", quantity).
			Int("max", s.maxLineQuantity).
			Msg("cart line quantity over limit")
		return model.ErrInvalidQuantity
	}

	return nil
}

func (s *cartService) load(ctx context.Context, sessionID string) (*cart.Cart, error) {
	c, err := s.store.Load(ctx, sessionID)
	if err != nil {
		s.logger.Error().Err(err).Str("session_id", sessionID).Msg("failed to load cart")
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	return c, nil
}

func (s *cartService) save(ctx context.Context, sessionID string, c *cart.Cart) error {
	if err := s.store.Save(ctx, sessionID, c); err != nil {
		s.logger.Error().Err(err).Str("session_id", sessionID).Msg("failed to save cart")
		return fmt.Errorf("failed to save cart: %w", err)
	}
	return nil
}

func (s *cartService) view(ctx context.Context, c *cart.Cart) (*model.CartView, error) {
	lines, err := c.Lines(ctx, s.productRepo)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to materialise cart")
		return nil, err
	}

	v := &model.CartView{Items: lines}
	for _, line := range lines {
		v.Total = v.Total.Add(line.LineTotal)
		v.Count += line.Quantity
	}
	return v, nil
}
