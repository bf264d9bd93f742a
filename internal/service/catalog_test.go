package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/vkotelnikov/shop-backend/internal/transport"
)

func TestCreateProduct(t *testing.T) {
	r := newTestRepo(t)
	svc := &CatalogService{Repo: r}
	ctx := context.Background()

	product, err := svc.CreateProduct(ctx, transport.CreateProductRequest{
		Name:          "Keyboard",
		Description:   "Clicky",
		Price:         "49.90",
		StockQuantity: 12,
	})
	require.NoError(t, err)
	require.NotZero(t, product.ID)
	require.True(t, product.IsActive)
	require.True(t, product.Price.Equal(decimal.RequireFromString("49.90")))

	found, err := svc.GetProduct(ctx, product.ID)
	require.NoError(t, err)
	require.Equal(t, "Keyboard", found.Name)
	require.Equal(t, uint(12), found.StockQuantity)
}

func TestCreateProductValidation(t *testing.T) {
	r := newTestRepo(t)
	svc := &CatalogService{Repo: r}
	ctx := context.Background()

	_, err := svc.CreateProduct(ctx, transport.CreateProductRequest{Name: "", Price: "1.00"})
	require.ErrorIs(t, err, ErrValidation)

	_, err = svc.CreateProduct(ctx, transport.CreateProductRequest{Name: "Keyboard", Price: "not-a-price"})
	require.ErrorIs(t, err, ErrValidation)

	_, err = svc.CreateProduct(ctx, transport.CreateProductRequest{Name: "Keyboard", Price: "-1.00"})
	require.ErrorIs(t, err, ErrValidation)
}

func TestPatchProduct(t *testing.T) {
	r := newTestRepo(t)
	svc := &CatalogService{Repo: r}
	ctx := context.Background()

	p := seedProduct(t, r, "Keyboard", "9.99", 10)

	newPrice := "12.50"
	inactive := false
	patched, err := svc.PatchProduct(ctx, p.ID, transport.PatchProductRequest{
		Price:    &newPrice,
		IsActive: &inactive,
	})
	require.NoError(t, err)
	require.True(t, patched.Price.Equal(decimal.RequireFromString("12.50")))
	require.False(t, patched.IsActive)

	// Fields not present in the patch are untouched.
	require.Equal(t, "Keyboard", patched.Name)
	require.Equal(t, uint(10), patched.StockQuantity)

	badPrice := "free"
	_, err = svc.PatchProduct(ctx, p.ID, transport.PatchProductRequest{Price: &badPrice})
	require.ErrorIs(t, err, ErrValidation)

	_, err = svc.PatchProduct(ctx, 999, transport.PatchProductRequest{})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestIncreaseStock(t *testing.T) {
	r := newTestRepo(t)
	svc := &CatalogService{Repo: r}
	ctx := context.Background()

	p := seedProduct(t, r, "Keyboard", "9.99", 10)

	product, err := svc.IncreaseStock(ctx, p.ID, 5)
	require.NoError(t, err)
	require.Equal(t, uint(15), product.StockQuantity)

	_, err = svc.IncreaseStock(ctx, p.ID, 0)
	require.ErrorIs(t, err, ErrValidation)

	_, err = svc.IncreaseStock(ctx, 999, 1)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDecreaseStock(t *testing.T) {
	r := newTestRepo(t)
	svc := &CatalogService{Repo: r}
	ctx := context.Background()

	p := seedProduct(t, r, "Keyboard", "9.99", 10)

	product, err := svc.DecreaseStock(ctx, p.ID, 4)
	require.NoError(t, err)
	require.Equal(t, uint(6), product.StockQuantity)
	require.Equal(t, uint(6), stockOf(t, r, p.ID))

	_, err = svc.DecreaseStock(ctx, p.ID, 7)
	require.ErrorIs(t, err, ErrInsufficientStock)

	var stockErr *StockError
	require.ErrorAs(t, err, &stockErr)
	require.Equal(t, uint(7), stockErr.Requested)
	require.Equal(t, uint(6), stockErr.Available)
	require.Equal(t, uint(6), stockOf(t, r, p.ID))

	_, err = svc.DecreaseStock(ctx, p.ID, 0)
	require.ErrorIs(t, err, ErrValidation)

	_, err = svc.DecreaseStock(ctx, 999, 1)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestSearchProducts(t *testing.T) {
	r := newTestRepo(t)
	svc := &CatalogService{Repo: r}
	ctx := context.Background()

	_, _, err := svc.SearchProducts(ctx, "", 0, 10)
	require.ErrorIs(t, err, ErrValidation)

	// Without a configured index the search degrades to empty results.
	total, hits, err := svc.SearchProducts(ctx, "keyboard", 0, 10)
	require.NoError(t, err)
	require.Zero(t, total)
	require.Empty(t, hits)
}
