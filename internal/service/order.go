package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/vkotelnikov/shop-backend/internal/events"
	"github.com/vkotelnikov/shop-backend/internal/models"
	"github.com/vkotelnikov/shop-backend/internal/repo"
	"github.com/vkotelnikov/shop-backend/internal/transport"
	"github.com/vkotelnikov/shop-backend/pkg/logging"
)

// orderNumberAttempts bounds the regenerate-and-retry loop on an
// order_number unique-index collision.
const orderNumberAttempts = 3

type OrderService struct {
	Repo   *repo.GormRepo
	Events *events.Producer

	// GenerateNumber overrides the order number source; nil means
	// GenerateOrderNumber.
	GenerateNumber func() string
}

func (s *OrderService) number() string {
	if s.GenerateNumber != nil {
		return s.GenerateNumber()
	}
	return GenerateOrderNumber()
}

type orderLine struct {
	ProductID uint
	Quantity  uint
}

// CreateOrderFromCart turns the user's cart into a PENDING order: every cart
// line becomes an order line with the product's current price snapshotted,
// stock is decremented per line, the cart is cleared, all inside one
// transaction. Any failure leaves stock, cart and orders untouched.
func (s *OrderService) CreateOrderFromCart(ctx context.Context, userID uint, req transport.CreateOrderRequest) (*models.Order, error) {
	var order *models.Order
	err := s.withNumberRetry(ctx, func(tx *repo.GormRepo, number string) error {
		user, err := tx.GetUser(ctx, userID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: user %d", ErrNotFound, userID)
		}
		if err != nil {
			return err
		}

		items, err := tx.GetCartItems(ctx, userID)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			return fmt.Errorf("%w: cart is empty", ErrInvalidState)
		}

		lines := make([]orderLine, 0, len(items))
		for _, it := range items {
			lines = append(lines, orderLine{ProductID: it.ProductID, Quantity: it.Quantity})
		}

		o, err := s.assemble(ctx, tx, user, number, req.ShippingAddress, lines)
		if err != nil {
			return err
		}

		if err := tx.ClearCart(ctx, userID); err != nil {
			return err
		}
		order = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, "order_created", order)
	return order, nil
}

// CreateDirectOrder assembles an order from an explicit item list, skipping
// the cart entirely.
func (s *OrderService) CreateDirectOrder(ctx context.Context, userID uint, req transport.CreateDirectOrderRequest) (*models.Order, error) {
	if len(req.Items) == 0 {
		return nil, fmt.Errorf("%w: no items", ErrInvalidState)
	}

	var order *models.Order
	err := s.withNumberRetry(ctx, func(tx *repo.GormRepo, number string) error {
		user, err := tx.GetUser(ctx, userID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: user %d", ErrNotFound, userID)
		}
		if err != nil {
			return err
		}

		lines := make([]orderLine, 0, len(req.Items))
		for _, it := range req.Items {
			lines = append(lines, orderLine{ProductID: it.ProductID, Quantity: it.Quantity})
		}

		o, err := s.assemble(ctx, tx, user, number, req.ShippingAddress, lines)
		if err != nil {
			return err
		}
		order = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, "order_created", order)
	return order, nil
}

// assemble builds and persists the order inside the caller's transaction.
// Price and stock are read from the same product row in the same
// transaction, so the price charged matches the stock snapshot checked.
func (s *OrderService) assemble(ctx context.Context, tx *repo.GormRepo, user *models.User, number, shippingAddress string, lines []orderLine) (*models.Order, error) {
	order := &models.Order{
		OrderNumber:     number,
		Status:          models.OrderStatusPending,
		ShippingAddress: shippingAddress,
		ShippingPhone:   user.Phone,
		UserID:          user.ID,
	}

	for _, line := range lines {
		if line.Quantity == 0 {
			return nil, fmt.Errorf("%w: quantity must be > 0", ErrValidation)
		}

		product, err := tx.GetProduct(ctx, line.ProductID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: product %d", ErrNotFound, line.ProductID)
		}
		if err != nil {
			return nil, err
		}

		if product.StockQuantity < line.Quantity {
			return nil, &StockError{
				Product:   product.Name,
				Requested: line.Quantity,
				Available: product.StockQuantity,
			}
		}

		ok, err := tx.DecrementStock(ctx, product.ID, line.Quantity)
		if err != nil {
			return nil, err
		}
		if !ok {
			// A concurrent order consumed the stock between our read and the
			// conditional decrement; re-read for an accurate count.
			if fresh, rerr := tx.GetProduct(ctx, product.ID); rerr == nil {
				product = fresh
			}
			return nil, &StockError{
				Product:   product.Name,
				Requested: line.Quantity,
				Available: product.StockQuantity,
			}
		}

		order.Items = append(order.Items, models.OrderItem{
			ProductID: product.ID,
			Quantity:  line.Quantity,
			Price:     product.Price,
		})
	}

	order.TotalAmount = order.CalculateTotal()

	if err := tx.CreateOrder(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

// withNumberRetry runs fn in a transaction with a freshly generated order
// number, restarting the whole transaction when persistence hits the
// order_number unique index.
func (s *OrderService) withNumberRetry(ctx context.Context, fn func(tx *repo.GormRepo, number string) error) error {
	for attempt := 0; attempt < orderNumberAttempts; attempt++ {
		number := s.number()
		err := s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
			return fn(tx, number)
		})
		if repo.IsDuplicate(err) {
			continue
		}
		return err
	}
	return fmt.Errorf("%w: order number collision", ErrConflict)
}

// ChangeStatus moves an order along the transition table. Moving into
// CANCELLED restores every line's stock in the same transaction as the
// status write; no other transition touches inventory.
func (s *OrderService) ChangeStatus(ctx context.Context, orderID uint, next models.OrderStatus) (*models.Order, error) {
	if !next.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, next)
	}

	var order *models.Order
	err := s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		o, err := tx.GetOrder(ctx, orderID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: order %d", ErrNotFound, orderID)
		}
		if err != nil {
			return err
		}

		if !o.Status.CanTransitionTo(next) {
			return &TransitionError{From: o.Status, To: next}
		}

		if next == models.OrderStatusCancelled {
			for _, item := range o.Items {
				if err := tx.IncrementStock(ctx, item.ProductID, item.Quantity); err != nil {
					return err
				}
			}
		}

		if err := tx.UpdateOrderStatus(ctx, o, next); err != nil {
			return err
		}
		order = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	eventType := "order_status_changed"
	if next == models.OrderStatusCancelled {
		eventType = "order_cancelled"
	}
	s.publish(ctx, eventType, order)
	return order, nil
}

// CancelOrder is shorthand for ChangeStatus into CANCELLED.
func (s *OrderService) CancelOrder(ctx context.Context, orderID uint) (*models.Order, error) {
	return s.ChangeStatus(ctx, orderID, models.OrderStatusCancelled)
}

func (s *OrderService) GetOrder(ctx context.Context, orderID uint) (*models.Order, error) {
	order, err := s.Repo.GetOrder(ctx, orderID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: order %d", ErrNotFound, orderID)
	}
	if err != nil {
		return nil, err
	}
	return order, nil
}

// GetOrderByNumber looks an order up by its externally visible number.
func (s *OrderService) GetOrderByNumber(ctx context.Context, number string) (*models.Order, error) {
	order, err := s.Repo.GetOrderByNumber(ctx, number)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: order %s", ErrNotFound, number)
	}
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (s *OrderService) ListUserOrders(ctx context.Context, userID uint) ([]models.Order, error) {
	return s.Repo.ListUserOrders(ctx, userID)
}

func (s *OrderService) ListOrders(ctx context.Context) ([]models.Order, error) {
	return s.Repo.ListOrders(ctx)
}

func (s *OrderService) ListOrdersByStatus(ctx context.Context, status models.OrderStatus) ([]models.Order, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, status)
	}
	return s.Repo.ListOrdersByStatus(ctx, status)
}

// publish sends a domain event after the transaction committed. Event
// delivery is best-effort and never fails the operation.
func (s *OrderService) publish(ctx context.Context, eventType string, order *models.Order) {
	event := map[string]any{
		"type":         eventType,
		"order_id":     order.ID,
		"order_number": order.OrderNumber,
		"user_id":      order.UserID,
		"status":       order.Status,
		"total":        order.TotalAmount,
	}
	if err := s.Events.Publish(ctx, order.OrderNumber, event); err != nil {
		logging.FromContext(ctx).Error("event publish failed", "type", eventType, "error", err)
	}
}
