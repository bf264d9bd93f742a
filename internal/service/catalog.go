package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/vkotelnikov/shop-backend/internal/models"
	"github.com/vkotelnikov/shop-backend/internal/repo"
	"github.com/vkotelnikov/shop-backend/internal/search"
	"github.com/vkotelnikov/shop-backend/internal/transport"
	"github.com/vkotelnikov/shop-backend/pkg/logging"
)

// CatalogService is the product-side collaborator of the order core: lookup,
// simple mutation glue, manual stock adjustments and index-backed search.
type CatalogService struct {
	Repo   *repo.GormRepo
	Search *search.Client
}

func (s *CatalogService) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	product, err := s.Repo.GetProduct(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: product %d", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return product, nil
}

func (s *CatalogService) CreateProduct(ctx context.Context, req transport.CreateProductRequest) (*models.Product, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("%w: name required", ErrValidation)
	}
	price, err := parsePrice(req.Price)
	if err != nil {
		return nil, err
	}

	product := &models.Product{
		Name:          req.Name,
		Description:   req.Description,
		Price:         price,
		StockQuantity: req.StockQuantity,
		IsActive:      true,
	}
	if err := s.Repo.CreateProduct(ctx, product); err != nil {
		return nil, err
	}

	s.reindex(ctx, product)
	return product, nil
}

func (s *CatalogService) PatchProduct(ctx context.Context, id uint, req transport.PatchProductRequest) (*models.Product, error) {
	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Price != nil {
		price, err := parsePrice(*req.Price)
		if err != nil {
			return nil, err
		}
		product.Price = price
	}
	if req.StockQuantity != nil {
		product.StockQuantity = *req.StockQuantity
	}
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}

	if err := s.Repo.SaveProduct(ctx, product); err != nil {
		return nil, err
	}

	s.reindex(ctx, product)
	return product, nil
}

// IncreaseStock is the manual restock operation.
func (s *CatalogService) IncreaseStock(ctx context.Context, id uint, qty uint) (*models.Product, error) {
	if qty == 0 {
		return nil, fmt.Errorf("%w: quantity must be > 0", ErrValidation)
	}

	err := s.Repo.IncrementStock(ctx, id, qty)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: product %d", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return s.GetProduct(ctx, id)
}

// DecreaseStock is the manual write-off operation. It goes through the same
// conditional decrement as order assembly, so it can never drive stock
// negative.
func (s *CatalogService) DecreaseStock(ctx context.Context, id uint, qty uint) (*models.Product, error) {
	if qty == 0 {
		return nil, fmt.Errorf("%w: quantity must be > 0", ErrValidation)
	}

	var product *models.Product
	err := s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		p, err := tx.GetProduct(ctx, id)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: product %d", ErrNotFound, id)
		}
		if err != nil {
			return err
		}

		ok, err := tx.DecrementStock(ctx, id, qty)
		if err != nil {
			return err
		}
		if !ok {
			return &StockError{Product: p.Name, Requested: qty, Available: p.StockQuantity}
		}

		p.StockQuantity -= qty
		product = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return product, nil
}

func (s *CatalogService) SearchProducts(ctx context.Context, query string, from, size int) (int64, []models.Product, error) {
	if query == "" {
		return 0, nil, fmt.Errorf("%w: query required", ErrValidation)
	}
	return s.Search.Search(ctx, query, from, size)
}

func (s *CatalogService) reindex(ctx context.Context, product *models.Product) {
	if err := s.Search.IndexProduct(ctx, product); err != nil {
		logging.FromContext(ctx).Error("product index failed", "product_id", product.ID, "error", err)
	}
}

func parsePrice(raw string) (decimal.Decimal, error) {
	price, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: invalid price %q", ErrValidation, raw)
	}
	if price.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: price must be >= 0", ErrValidation)
	}
	return price, nil
}
