package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"restaurant-pos/internal/domain"
	"restaurant-pos/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	ErrEmptyOrder      = errors.New("order must contain at least one line")
	ErrInvalidQuantity = errors.New("quantity must be a positive integer")
)

// ProductNotFoundError identifies the product that made a submission fail.
// It matches repository.ErrProductNotFound with errors.Is.
type ProductNotFoundError struct {
	ProductID uuid.UUID
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product with ID %s not found", e.ProductID)
}

func (e *ProductNotFoundError) Unwrap() error {
	return repository.ErrProductNotFound
}

// LineRequest is one requested product on a new order. Prices are never
// taken from the caller.
type LineRequest struct {
	ProductID uuid.UUID
	Quantity  int
	Comment   *string
}

// SubmitOrderInput holds a new order as received from a client
type SubmitOrderInput struct {
	CustomerName string
	Address      string
	Lines        []LineRequest
	Channel      domain.Channel
	Phone        string
	Waiter       string
	Comment      string
	EnteredBy    string
}

// OrderService defines the interface for order business logic
type OrderService interface {
	Submit(ctx context.Context, in SubmitOrderInput) (*domain.Order, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	List(ctx context.Context, channel *domain.ChannelKind) ([]*domain.Order, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type orderService struct {
	orderRepo repository.OrderRepository
	logger    *zap.Logger
	now       func() time.Time
}

// NewOrderService creates a new instance of OrderService
func NewOrderService(orderRepo repository.OrderRepository, logger *zap.Logger) OrderService {
	return &orderService{
		orderRepo: orderRepo,
		logger:    logger,
		now:       time.Now,
	}
}

// Submit prices the order from the catalog and stores header, lines and
// channel metadata atomically. Every product is looked up before anything
// is written, and the price read is the one summed and snapshotted.
func (s *orderService) Submit(ctx context.Context, in SubmitOrderInput) (*domain.Order, error) {
	if len(in.Lines) == 0 {
		return nil, ErrEmptyOrder
	}
	for i, line := range in.Lines {
		if line.Quantity <= 0 {
			return nil, fmt.Errorf("line %d: %w", i+1, ErrInvalidQuantity)
		}
	}

	channel := in.Channel
	if channel == nil {
		channel = domain.Unset{}
	}

	order := &domain.Order{
		ID:           uuid.New(),
		CustomerName: in.CustomerName,
		Address:      in.Address,
		CreatedAt:    s.now().UTC(),
		Phone:        in.Phone,
		Waiter:       in.Waiter,
		Comment:      in.Comment,
		EnteredBy:    in.EnteredBy,
		Channel:      channel,
	}

	err := s.orderRepo.WithinTx(ctx, func(ctx context.Context, tx repository.OrderTx) error {
		prices := make(map[uuid.UUID]decimal.Decimal, len(in.Lines))
		for _, line := range in.Lines {
			if _, seen := prices[line.ProductID]; seen {
				continue
			}
			price, err := tx.ProductPrice(ctx, line.ProductID)
			if err != nil {
				if errors.Is(err, repository.ErrProductNotFound) {
					return &ProductNotFoundError{ProductID: line.ProductID}
				}
				return err
			}
			prices[line.ProductID] = price
		}

		total := decimal.Zero
		lines := make([]domain.OrderLine, 0, len(in.Lines))
		for _, req := range in.Lines {
			line := domain.OrderLine{
				ProductID: req.ProductID,
				Quantity:  req.Quantity,
				UnitPrice: prices[req.ProductID],
				Comment:   nonEmpty(req.Comment),
			}
			total = total.Add(line.Subtotal())
			lines = append(lines, line)
		}
		order.Total = total
		order.Lines = lines

		return tx.Create(ctx, order)
	})
	if err != nil {
		var notFound *ProductNotFoundError
		if errors.As(err, &notFound) {
			s.logger.Debug("Order rejected, unknown product", zap.String("product_id", notFound.ProductID.String()))
			return nil, err
		}
		s.logger.Error("Failed to submit order", zap.Error(err))
		return nil, fmt.Errorf("failed to submit order: %w", err)
	}

	s.logger.Info("Order submitted",
		zap.String("order_id", order.ID.String()),
		zap.String("channel", string(order.Origin())),
		zap.String("total", order.Total.StringFixed(2)),
		zap.Int("lines", len(order.Lines)),
	)

	return order, nil
}

// Get retrieves one enriched order
func (s *orderService) Get(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return order, nil
}

// List returns enriched orders newest first, optionally for one channel
func (s *orderService) List(ctx context.Context, channel *domain.ChannelKind) ([]*domain.Order, error) {
	orders, err := s.orderRepo.List(ctx, channel)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

// Delete removes an order with its lines and channel metadata
func (s *orderService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.orderRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return err
		}
		s.logger.Error("Failed to delete order", zap.String("order_id", id.String()), zap.Error(err))
		return fmt.Errorf("failed to delete order: %w", err)
	}

	s.logger.Info("Order deleted", zap.String("order_id", id.String()))
	return nil
}

// nonEmpty returns nil for a missing or blank string
func nonEmpty(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
