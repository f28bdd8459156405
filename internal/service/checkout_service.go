package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"storefront/internal/cart"
	"storefront/internal/model"
	"storefront/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// checkoutState is a step of a single checkout attempt.
type checkoutState int

const (
	checkoutValidating checkoutState = iota
	checkoutReserving
	checkoutCommitting
	checkoutDone
	checkoutAborted
)

func (s checkoutState) String() string {
	switch s {
	case checkoutValidating:
		return "validating"
	case checkoutReserving:
		return "reserving"
	case checkoutCommitting:
		return "committing"
	case checkoutDone:
		return "done"
	case checkoutAborted:
		return "aborted"
	}
	return fmt.Sprintf("checkoutState(%d)", int(s))
}

// checkoutService implements CheckoutService.
type checkoutService struct {
	orderRepo     repository.OrderRepository
	productRepo   repository.ProductRepository
	carts         cart.Store
	commitTimeout time.Duration
	now           func() time.Time
	logger        zerolog.Logger
}

// NewCheckoutService creates a new checkout service. Once writing has begun a
// checkout ignores caller cancellation and is bounded by commitTimeout instead.
func NewCheckoutService(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	carts cart.Store,
	commitTimeout time.Duration,
	logger zerolog.Logger,
) CheckoutService {
	return &checkoutService{
		orderRepo:     orderRepo,
		productRepo:   productRepo,
		carts:         carts,
		commitTimeout: commitTimeout,
		now:           time.Now,
		logger:        logger.With().Str("service", "checkout").Logger(),
	}
}

// checkout tracks one attempt through its states.
type checkout struct {
	state  checkoutState
	logger zerolog.Logger
}

func (c *checkout) enter(next checkoutState) {
	c.logger.Debug().
		Stringer("from", c.state).
		Stringer("to", next).
		Msg("checkout transition")
	c.state = next
}

func (c *checkout) abort(err error) (*model.OrderResponse, error) {
	c.logger.Warn().
		Err(err).
		Stringer("state", c.state).
		Msg("checkout aborted")
	c.state = checkoutAborted
	return nil, err
}

// Checkout places an order from the session's cart.
func (s *checkoutService) Checkout(ctx context.Context, userID, sessionID string, req *model.CheckoutRequest) (*model.OrderResponse, error) {
	co := &checkout{
		state: checkoutValidating,
		logger: s.logger.With().
			Str("user_id", userID).
			Str("session_id", sessionID).
			Logger(),
	}

	c, lines, err := s.validate(ctx, userID, sessionID, req)
	if err != nil {
		return co.abort(err)
	}

	co.enter(checkoutReserving)
	if err := ctx.Err(); err != nil {
		return co.abort(fmt.Errorf("checkout cancelled: %w", err))
	}

	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		return co.abort(s.reserveError(ctx, err))
	}

	committed := false
	defer func() {
		if committed {
			return
		}
		if rbErr := tx.Rollback(context.WithoutCancel(ctx)); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			co.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
		}
	}()

	if err := s.reserve(ctx, tx, lines); err != nil {
		return co.abort(err)
	}

	co.enter(checkoutCommitting)
	commitCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.commitTimeout)
	defer cancel()

	order, items, err := s.commit(commitCtx, tx, userID, req, lines)
	if err != nil {
		return co.abort(err)
	}
	committed = true

	co.enter(checkoutDone)
	c.Clear()
	if err := s.carts.Save(context.WithoutCancel(ctx), sessionID, c); err != nil {
		co.logger.Error().
			Err(err).
			Str("order_id", order.ID.String()).
			Msg("failed to clear cart after checkout")
	}

	resp := model.NewOrderResponse(*order, items)

	co.logger.Info().
		Str("order_id", order.ID.String()).
		Int("item_count", len(items)).
		Str("total_cost", resp.TotalCost.StringFixed(2)).
		Msg("order placed")

	return resp, nil
}

// validate checks the request and prices the cart against the current catalogue.
func (s *checkoutService) validate(ctx context.Context, userID, sessionID string, req *model.CheckoutRequest) (*cart.Cart, []model.CartLineItem, error) {
	if userID == "" {
		return nil, nil, model.ErrAuthenticationRequired
	}

	c, err := s.carts.Load(ctx, sessionID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load cart: %w", err)
	}
	if c.IsEmpty() {
		return nil, nil, model.ErrEmptyCart
	}

	lines, err := c.Lines(ctx, s.productRepo)
	if err != nil {
		return nil, nil, err
	}
	if len(lines) == 0 {
		return nil, nil, model.ErrEmptyCart
	}

	if err := validateCheckoutRequest(req); err != nil {
		return nil, nil, err
	}

	for _, line := range lines {
		if !line.Product.IsActive {
			return nil, nil, model.NewProductUnavailableError(line.Product.ID, line.Product.Name)
		}
	}

	return c, lines, nil
}

// reserve locks every product of the cart and checks it can cover its line.
func (s *checkoutService) reserve(ctx context.Context, tx pgx.Tx, lines []model.CartLineItem) error {
	ids := make([]string, len(lines))
	for i, line := range lines {
		ids[i] = line.Product.ID
	}

	locked, err := s.productRepo.LockForCheckout(ctx, tx, ids)
	if err != nil {
		return s.reserveError(ctx, err)
	}

	byID := make(map[string]model.Product, len(locked))
	for _, p := range locked {
		byID[p.ID] = p
	}

	for _, line := range lines {
		p, ok := byID[line.Product.ID]
		if !ok || !p.IsActive {
			return model.NewProductUnavailableError(line.Product.ID, line.Product.Name)
		}
		if p.Stock < line.Quantity {
			return model.NewInsufficientStockError(p.ID, p.Name)
		}
	}

	return nil
}

// reserveError reports a failure before any write. Caller cancellation is
// passed through; anything else is a storage failure.
func (s *checkoutService) reserveError(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("checkout cancelled: %w", ctxErr)
	}
	return model.NewCommitFailedError(err)
}

// commit writes the order, its items and the stock decrements, then commits tx.
func (s *checkoutService) commit(
	ctx context.Context,
	tx pgx.Tx,
	userID string,
	req *model.CheckoutRequest,
	lines []model.CartLineItem,
) (*model.Order, []model.OrderItem, error) {
	now := s.now().UTC()
	order := &model.Order{
		ID:               uuid.New(),
		UserID:           userID,
		FirstName:        strings.TrimSpace(req.FirstName),
		LastName:         strings.TrimSpace(req.LastName),
		Email:            strings.TrimSpace(req.Email),
		Address:          strings.TrimSpace(req.Address),
		City:             strings.TrimSpace(req.City),
		PostalCode:       strings.TrimSpace(req.PostalCode),
		PaymentReference: strings.TrimSpace(req.PaymentReference),
		Status:           model.OrderStatusPending,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	items := make([]model.OrderItem, len(lines))
	for i, line := range lines {
		items[i] = model.OrderItem{
			ID:        uuid.New(),
			OrderID:   order.ID,
			ProductID: line.Product.ID,
			Price:     line.UnitPrice,
			Quantity:  line.Quantity,
		}
	}

	if err := s.orderRepo.CreateOrder(ctx, tx, order); err != nil {
		return nil, nil, model.NewCommitFailedError(err)
	}

	if err := s.orderRepo.CreateOrderItems(ctx, tx, items); err != nil {
		return nil, nil, model.NewCommitFailedError(err)
	}

	if err := s.productRepo.DecrementStock(ctx, tx, items); err != nil {
		if errors.Is(err, model.ErrInsufficientStock) {
			return nil, nil, err
		}
		return nil, nil, model.NewCommitFailedError(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, model.NewCommitFailedError(err)
	}

	return order, items, nil
}

func validateCheckoutRequest(req *model.CheckoutRequest) error {
	if req == nil {
		req = &model.CheckoutRequest{}
	}

	required := []struct {
		field string
		value string
	}{
		{"firstName", req.FirstName},
		{"lastName", req.LastName},
		{"email", req.Email},
		{"address", req.Address},
		{"city", req.City},
		{"postalCode", req.PostalCode},
	}

	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return model.NewMissingFieldError(r.field)
		}
	}

	return nil
}
