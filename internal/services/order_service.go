package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"stature-backend/internal/catalog"
	"stature-backend/internal/events"
	"stature-backend/internal/models"
	"stature-backend/internal/supabase"
)

type OrderStore interface {
	CreateOrderWithCredits(ctx context.Context, order *models.Order) (*models.Order, bool, error)
	GetOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	ListOrders(ctx context.Context) ([]models.Order, error)
	ListOrdersByUser(ctx context.Context, uid string) ([]models.Order, error)
	CancelOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
}

// AccountProvisioner makes sure the buyer has an account before credits are granted.
type AccountProvisioner interface {
	EnsureUser(ctx context.Context, uid, email string) (*models.User, error)
}

type CreateOrderInput struct {
	UID         string `validate:"required"`
	Email       string
	PackageType string `validate:"required"`
	PaymentID   string `validate:"required,max=255"`
}

type CreateOrderResult struct {
	Order *models.Order
	// Duplicate is set when the payment reference had already been recorded.
	Duplicate bool
}

type OrderService struct {
	store     OrderStore
	accounts  AccountProvisioner
	publisher events.Publisher
	validate  *validator.Validate
	logger    zerolog.Logger
}

func NewOrderService(store OrderStore, accounts AccountProvisioner, publisher events.Publisher, logger zerolog.Logger) *OrderService {
	return &OrderService{
		store:     store,
		accounts:  accounts,
		publisher: publisher,
		validate:  newValidator(),
		logger:    logger.With().Str("service", "OrderService").Logger(),
	}
}

// CreateOrder records a paid package and grants its credits exactly once per
// payment reference.
func (s *OrderService) CreateOrder(ctx context.Context, in CreateOrderInput) (*CreateOrderResult, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, validationError(err)
	}

	pkg, ok := catalog.LookupPackage(in.PackageType)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPackage, in.PackageType)
	}

	if _, err := s.accounts.EnsureUser(ctx, in.UID, in.Email); err != nil {
		return nil, fmt.Errorf("provisioning buyer: %w", err)
	}

	order, created, err := s.store.CreateOrderWithCredits(ctx, &models.Order{
		ID:          uuid.New(),
		UID:         in.UID,
		Package:     pkg.Type,
		AmountCents: pkg.PriceCents,
		Credits:     pkg.Credits,
		Status:      models.OrderStatusCompleted,
		PaymentID:   in.PaymentID,
	})
	if errors.Is(err, supabase.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", in.UID).Str("payment_id", in.PaymentID).Msg("Failed to create order")
		return nil, err
	}

	if !created {
		if order.UID != in.UID {
			s.logger.Warn().Str("user_id", in.UID).Str("payment_id", in.PaymentID).Msg("payment reference replayed by another account")
			return nil, ErrPaymentReused
		}
		s.logger.Info().Str("order_id", order.ID.String()).Str("payment_id", in.PaymentID).Msg("duplicate payment reference, no credits granted")
		return &CreateOrderResult{Order: order, Duplicate: true}, nil
	}

	s.logger.Info().
		Str("order_id", order.ID.String()).
		Str("user_id", order.UID).
		Str("package", order.Package).
		Int("credits", order.Credits).
		Msg("order created")
	s.publish(ctx, events.OrderCompleted, orderPayload(order))
	return &CreateOrderResult{Order: order}, nil
}

func (s *OrderService) ListOrders(ctx context.Context) ([]models.Order, error) {
	return s.store.ListOrders(ctx)
}

func (s *OrderService) ListUserOrders(ctx context.Context, uid string) ([]models.Order, error) {
	if uid == "" {
		return nil, invalid("uid is required")
	}
	return s.store.ListOrdersByUser(ctx, uid)
}

// CancelOrder marks an order cancelled. Granted credits are kept.
func (s *OrderService) CancelOrder(ctx context.Context, orderID string) (*models.Order, error) {
	id, err := uuid.Parse(orderID)
	if err != nil {
		return nil, invalid("orderId must be a valid UUID")
	}

	order, err := s.store.CancelOrder(ctx, id)
	switch {
	case errors.Is(err, supabase.ErrNotFound):
		return nil, ErrOrderNotFound
	case errors.Is(err, supabase.ErrConflict):
		return nil, ErrOrderAlreadyCancelled
	case err != nil:
		s.logger.Error().Err(err).Str("order_id", orderID).Msg("Failed to cancel order")
		return nil, err
	}

	s.logger.Info().Str("order_id", orderID).Msg("order cancelled")
	s.publish(ctx, events.OrderCancelled, orderPayload(order))
	return order, nil
}

func orderPayload(o *models.Order) events.OrderPayload {
	return events.OrderPayload{
		OrderID:     o.ID.String(),
		UID:         o.UID,
		Package:     o.Package,
		Credits:     o.Credits,
		AmountCents: o.AmountCents,
		PaymentID:   o.PaymentID,
	}
}

func (s *OrderService) publish(ctx context.Context, event events.Event, payload any) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event, payload); err != nil {
		s.logger.Warn().Err(err).Str("event", string(event)).Msg("Failed to publish event")
	}
}
