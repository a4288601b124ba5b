package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"finanp2p/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrNotFound          = errors.New("order not found")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrNoActiveProfile   = errors.New("no active payment profile")
)

var walletAddressPattern = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)

// OrderStore is the durable order storage the lifecycle manager needs.
// UpdateOrderStatus must apply the expected-status guard and the write as one
// atomic operation and return nil when the guard does not hold.
type OrderStore interface {
	CreateOrder(ctx context.Context, order *models.Order) error
	GetOrder(ctx context.Context, orderID string) (*models.Order, error)
	UpdateOrderStatus(ctx context.Context, orderID string, expected []models.OrderStatus, next models.OrderStatus, txHash *string) (*models.Order, error)
	ListOrders(ctx context.Context, offset, limit int) ([]*models.Order, int64, error)
	ListOrdersByStatus(ctx context.Context, status models.OrderStatus) ([]*models.Order, error)
}

// ProfileReader supplies the active payment profile at order creation time.
type ProfileReader interface {
	ActiveProfile(ctx context.Context) (*models.PaymentProfile, error)
}

type OrderService struct {
	Orders   OrderStore
	Profiles ProfileReader
	Logger   *zap.Logger
}

// CreatedOrder pairs a new order with the bank transfer instructions rendered
// from the profile that was active when it was created.
type CreatedOrder struct {
	Order        *models.Order
	Instructions models.PaymentInstructions
}

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

func (s *OrderService) CreateOrder(ctx context.Context, walletAddress string, amount decimal.Decimal) (*CreatedOrder, error) {
	if amount.Sign() <= 0 {
		return nil, fmt.Errorf("%w: amount must be greater than zero", ErrInvalidInput)
	}
	if !walletAddressPattern.MatchString(walletAddress) {
		return nil, fmt.Errorf("%w: malformed wallet address", ErrInvalidInput)
	}

	profile, err := s.Profiles.ActiveProfile(ctx)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, ErrNoActiveProfile
	}

	now := time.Now().UTC()
	order := &models.Order{
		ID:            uuid.NewString(),
		WalletAddress: walletAddress,
		Amount:        amount,
		Status:        models.OrderPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.Orders.CreateOrder(ctx, order); err != nil {
		return nil, err
	}

	s.Logger.Info("order created",
		zap.String("order_id", order.ID),
		zap.String("amount", amount.String()),
		zap.String("wallet_address", walletAddress))

	return &CreatedOrder{
		Order: order,
		Instructions: models.PaymentInstructions{
			BankName:      profile.BankName,
			AccountNumber: profile.AccountNumber,
			AccountHolder: profile.AccountHolder,
			QRImageURL:    profile.QRImageURL,
			Note:          fmt.Sprintf("P2P Order #%s - %s USDT", order.ID, amount.String()),
		},
	}, nil
}

// MarkPaid records the buyer's claim that the bank transfer was sent.
func (s *OrderService) MarkPaid(ctx context.Context, orderID string) (*models.Order, error) {
	return s.transition(ctx, orderID, []models.OrderStatus{models.OrderPending}, models.OrderPaid, nil)
}

// ConfirmOrder settles a paid order, optionally attaching the on-chain
// transfer hash supplied by the admin.
func (s *OrderService) ConfirmOrder(ctx context.Context, orderID string, txHash *string) (*models.Order, error) {
	return s.transition(ctx, orderID, []models.OrderStatus{models.OrderPaid}, models.OrderConfirmed, txHash)
}

// CancelOrder cancels any order that has not been confirmed yet. Cancelling a
// paid order is allowed.
func (s *OrderService) CancelOrder(ctx context.Context, orderID string) (*models.Order, error) {
	return s.transition(ctx, orderID, []models.OrderStatus{models.OrderPending, models.OrderPaid}, models.OrderCancelled, nil)
}

func (s *OrderService) GetOrder(ctx context.Context, orderID string) (*models.Order, error) {
	order, err := s.Orders.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrNotFound
	}
	return order, nil
}

// ListOrders returns a page of orders, most recent first, together with the
// total count. Page defaults to 1, page size to 20, capped at 100.
func (s *OrderService) ListOrders(ctx context.Context, page, pageSize int) ([]*models.Order, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return s.Orders.ListOrders(ctx, (page-1)*pageSize, pageSize)
}

func (s *OrderService) ListOrdersByStatus(ctx context.Context, status models.OrderStatus) ([]*models.Order, error) {
	switch status {
	case models.OrderPending, models.OrderPaid, models.OrderConfirmed, models.OrderCancelled:
	default:
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, status)
	}
	return s.Orders.ListOrdersByStatus(ctx, status)
}

func (s *OrderService) transition(ctx context.Context, orderID string, expected []models.OrderStatus, next models.OrderStatus, txHash *string) (*models.Order, error) {
	updated, err := s.Orders.UpdateOrderStatus(ctx, orderID, expected, next, txHash)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		// The guard did not hold. Re-read to tell a missing order apart
		// from one in the wrong state (including lost races).
		existing, err := s.Orders.GetOrder(ctx, orderID)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: %s order cannot become %s", ErrInvalidTransition, existing.Status, next)
	}

	s.Logger.Info("order status updated",
		zap.String("order_id", updated.ID),
		zap.String("status", string(updated.Status)))
	return updated, nil
}
