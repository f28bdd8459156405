package service

import (
	"context"
	"fmt"

	"storefront/internal/model"
	"storefront/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// orderService implements OrderService.
type orderService struct {
	orderRepo repository.OrderRepository
	logger    zerolog.Logger
}

// NewOrderService creates a new order service.
func NewOrderService(orderRepo repository.OrderRepository, logger zerolog.Logger) OrderService {
	return &orderService{
		orderRepo: orderRepo,
		logger:    logger.With().Str("service", "order").Logger(),
	}
}

// GetForUser retrieves one of userID's orders. Orders of other users read as
// not found.
func (s *orderService) GetForUser(ctx context.Context, userID string, id uuid.UUID) (*model.OrderResponse, error) {
	if userID == "" {
		return nil, model.ErrAuthenticationRequired
	}

	order, items, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	if order.UserID != userID {
		s.logger.Warn().
			Str("order_id", id.String()).
			Str("user_id", userID).
			Msg("order requested by another user")
		return nil, model.ErrOrderNotFound
	}

	return model.NewOrderResponse(*order, items), nil
}

// ListForUser retrieves userID's orders.
func (s *orderService) ListForUser(ctx context.Context, userID string) ([]model.OrderSummary, error) {
	if userID == "" {
		return nil, model.ErrAuthenticationRequired
	}

	orders, err := s.orderRepo.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("failed to list orders")
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	return orders, nil
}

// Get retrieves any order by its ID.
func (s *orderService) Get(ctx context.Context, id uuid.UUID) (*model.OrderResponse, error) {
	order, items, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return model.NewOrderResponse(*order, items), nil
}

// List retrieves all orders, optionally narrowed to status.
func (s *orderService) List(ctx context.Context, status model.OrderStatus) ([]model.OrderSummary, error) {
	if status != "" && !status.Valid() {
		return nil, model.ErrInvalidStatus
	}

	orders, err := s.orderRepo.List(ctx, status)
	if err != nil {
		s.logger.Error().Err(err).Str("status", string(status)).Msg("failed to list orders")
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	return orders, nil
}

// UpdateStatus moves an order to status.
func (s *orderService) UpdateStatus(ctx context.Context, id uuid.UUID, status model.OrderStatus) (*model.OrderResponse, error) {
	if !status.Valid() {
		return nil, model.ErrInvalidStatus
	}

	order, items, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	if !order.Status.CanTransitionTo(status) {
		s.logger.Warn().
			Str("order_id", id.String()).
			Str("from", string(order.Status)).
			Str("to", string(status)).
			Msg("rejected order status transition")
		return nil, model.ErrInvalidStatusTransition
	}

	updated, err := s.orderRepo.UpdateStatus(ctx, id, order.Status, status)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to update order status")
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	// The order moved on between the read and the update.
	if updated == nil {
		return nil, model.ErrInvalidStatusTransition
	}

	return model.NewOrderResponse(*updated, items), nil
}

func (s *orderService) get(ctx context.Context, id uuid.UUID) (*model.Order, []model.OrderItem, error) {
	order, items, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to get order")
		return nil, nil, fmt.Errorf("failed to get order: %w", err)
	}

	if order == nil {
		s.logger.Debug().Str("order_id", id.String()).Msg("order not found")
		return nil, nil, model.ErrOrderNotFound
	}

	return order, items, nil
}
