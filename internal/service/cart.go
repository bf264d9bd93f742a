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

type CartService struct {
	Repo   *repo.GormRepo
	Events *events.Producer
}

func (s *CartService) GetCart(ctx context.Context, userID uint) ([]models.CartItem, error) {
	return s.Repo.GetCartItems(ctx, userID)
}

// AddToCart merges into an existing line for the same product: the requested
// quantity is added to the current one and the combined quantity is checked
// against current stock. On failure the existing line is left untouched.
func (s *CartService) AddToCart(ctx context.Context, userID uint, req transport.AddToCartRequest) (*models.CartItem, error) {
	if req.Quantity == 0 {
		return nil, fmt.Errorf("%w: quantity must be > 0", ErrValidation)
	}

	var item *models.CartItem
	err := s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		product, err := tx.GetProduct(ctx, req.ProductID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: product %d", ErrNotFound, req.ProductID)
		}
		if err != nil {
			return err
		}
		if !product.IsActive {
			return fmt.Errorf("%w: product %q is not active", ErrValidation, product.Name)
		}

		existing, err := tx.GetCartItem(ctx, userID, req.ProductID)
		switch {
		case err == nil:
			combined := existing.Quantity + req.Quantity
			if product.StockQuantity < combined {
				return &StockError{
					Product:   product.Name,
					Requested: combined,
					Available: product.StockQuantity,
				}
			}
			existing.Quantity = combined
			if err := tx.SaveCartItem(ctx, existing); err != nil {
				return err
			}
			item = existing
			return nil
		case errors.Is(err, gorm.ErrRecordNotFound):
			if product.StockQuantity < req.Quantity {
				return &StockError{
					Product:   product.Name,
					Requested: req.Quantity,
					Available: product.StockQuantity,
				}
			}
			created := &models.CartItem{
				UserID:    userID,
				ProductID: req.ProductID,
				Quantity:  req.Quantity,
			}
			if err := tx.CreateCartItem(ctx, created); err != nil {
				return err
			}
			item = created
			return nil
		default:
			return err
		}
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, userID, map[string]any{
		"type":       "cart_item_added",
		"user_id":    userID,
		"product_id": item.ProductID,
		"quantity":   item.Quantity,
	})
	return item, nil
}

// UpdateItem replaces the line's quantity. The acting user must own the line.
func (s *CartService) UpdateItem(ctx context.Context, userID, itemID uint, req transport.UpdateCartItemRequest) (*models.CartItem, error) {
	if req.Quantity == 0 {
		return nil, fmt.Errorf("%w: quantity must be > 0", ErrValidation)
	}

	var item *models.CartItem
	err := s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		found, err := tx.GetCartItemByID(ctx, itemID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: cart item %d", ErrNotFound, itemID)
		}
		if err != nil {
			return err
		}
		if found.UserID != userID {
			return fmt.Errorf("%w: cart item %d does not belong to user %d", ErrForbidden, itemID, userID)
		}

		product, err := tx.GetProduct(ctx, found.ProductID)
		if err != nil {
			return err
		}
		if product.StockQuantity < req.Quantity {
			return &StockError{
				Product:   product.Name,
				Requested: req.Quantity,
				Available: product.StockQuantity,
			}
		}

		found.Quantity = req.Quantity
		if err := tx.SaveCartItem(ctx, found); err != nil {
			return err
		}
		item = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (s *CartService) RemoveItem(ctx context.Context, userID, itemID uint) error {
	item, err := s.Repo.GetCartItemByID(ctx, itemID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: cart item %d", ErrNotFound, itemID)
	}
	if err != nil {
		return err
	}
	if item.UserID != userID {
		return fmt.Errorf("%w: cart item %d does not belong to user %d", ErrForbidden, itemID, userID)
	}

	if err := s.Repo.DeleteCartItem(ctx, item); err != nil {
		return err
	}

	s.publish(ctx, userID, map[string]any{
		"type":       "cart_item_removed",
		"user_id":    userID,
		"product_id": item.ProductID,
	})
	return nil
}

func (s *CartService) ClearCart(ctx context.Context, userID uint) error {
	if err := s.Repo.ClearCart(ctx, userID); err != nil {
		return err
	}

	s.publish(ctx, userID, map[string]any{
		"type":    "cart_cleared",
		"user_id": userID,
	})
	return nil
}

func (s *CartService) CountItems(ctx context.Context, userID uint) (int64, error) {
	return s.Repo.CountCartItems(ctx, userID)
}

func (s *CartService) Contains(ctx context.Context, userID, productID uint) (bool, error) {
	_, err := s.Repo.GetCartItem(ctx, userID, productID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *CartService) publish(ctx context.Context, userID uint, event map[string]any) {
	if err := s.Events.Publish(ctx, fmt.Sprint(userID), event); err != nil {
		logging.FromContext(ctx).Error("event publish failed", "type", event["type"], "error", err)
	}
}
