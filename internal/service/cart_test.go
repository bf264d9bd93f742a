package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/vkotelnikov/shop-backend/internal/models"
	"github.com/vkotelnikov/shop-backend/internal/transport"
)

func TestAddToCartCreatesLine(t *testing.T) {
	r := newTestRepo(t)
	svc := &CartService{Repo: r}
	ctx := context.Background()

	user := seedUser(t, r)
	p := seedProduct(t, r, "Keyboard", "9.99", 10)

	item, err := svc.AddToCart(ctx, user.ID, transport.AddToCartRequest{ProductID: p.ID, Quantity: 5})
	require.NoError(t, err)
	require.Equal(t, uint(5), item.Quantity)
	require.Equal(t, p.ID, item.ProductID)

	// Adding the product does not touch stock, only the cart.
	require.Equal(t, uint(10), stockOf(t, r, p.ID))
	require.Equal(t, 1, cartSizeOf(t, r, user.ID))
}

func TestAddToCartMergesExistingLine(t *testing.T) {
	r := newTestRepo(t)
	svc := &CartService{Repo: r}
	ctx := context.Background()

	user := seedUser(t, r)
	p := seedProduct(t, r, "Keyboard", "9.99", 10)

	_, err := svc.AddToCart(ctx, user.ID, transport.AddToCartRequest{ProductID: p.ID, Quantity: 5})
	require.NoError(t, err)

	item, err := svc.AddToCart(ctx, user.ID, transport.AddToCartRequest{ProductID: p.ID, Quantity: 3})
	require.NoError(t, err)
	require.Equal(t, uint(8), item.Quantity)

	require.Equal(t, 1, cartSizeOf(t, r, user.ID))
}

func TestAddToCartMergeChecksCombinedQuantity(t *testing.T) {
	r := newTestRepo(t)
	svc := &CartService{Repo: r}
	ctx := context.Background()

	user := seedUser(t, r)
	p := seedProduct(t, r, "Keyboard", "9.99", 7)

	_, err := svc.AddToCart(ctx, user.ID, transport.AddToCartRequest{ProductID: p.ID, Quantity: 5})
	require.NoError(t, err)

	_, err = svc.AddToCart(ctx, user.ID, transport.AddToCartRequest{ProductID: p.ID, Quantity: 3})
	require.ErrorIs(t, err, ErrInsufficientStock)

	var stockErr *StockError
	require.ErrorAs(t, err, &stockErr)
	require.Equal(t, uint(8), stockErr.Requested)
	require.Equal(t, uint(7), stockErr.Available)

	// The existing line survives the failed merge.
	items, err := svc.GetCart(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, uint(5), items[0].Quantity)
}

func TestAddToCartInactiveProduct(t *testing.T) {
	r := newTestRepo(t)
	svc := &CartService{Repo: r}

	user := seedUser(t, r)
	p := seedProduct(t, r, "Keyboard", "9.99", 10)
	require.NoError(t, r.DB.Model(&models.Product{}).
		Where("id = ?", p.ID).
		Update("is_active", false).Error)

	_, err := svc.AddToCart(context.Background(), user.ID, transport.AddToCartRequest{ProductID: p.ID, Quantity: 1})
	require.ErrorIs(t, err, ErrValidation)
	require.Equal(t, 0, cartSizeOf(t, r, user.ID))
}

func TestAddToCartUnknownProduct(t *testing.T) {
	r := newTestRepo(t)
	svc := &CartService{Repo: r}

	user := seedUser(t, r)

	_, err := svc.AddToCart(context.Background(), user.ID, transport.AddToCartRequest{ProductID: 999, Quantity: 1})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestAddToCartZeroQuantity(t *testing.T) {
	r := newTestRepo(t)
	svc := &CartService{Repo: r}

	user := seedUser(t, r)
	p := seedProduct(t, r, "Keyboard", "9.99", 10)

	_, err := svc.AddToCart(context.Background(), user.ID, transport.AddToCartRequest{ProductID: p.ID, Quantity: 0})
	require.ErrorIs(t, err, ErrValidation)
}

func TestUpdateItem(t *testing.T) {
	r := newTestRepo(t)
	svc := &CartService{Repo: r}
	ctx := context.Background()

	user := seedUser(t, r)
	p := seedProduct(t, r, "Keyboard", "9.99", 10)
	line := seedCartItem(t, r, user.ID, p.ID, 2, time.Now())

	item, err := svc.UpdateItem(ctx, user.ID, line.ID, transport.UpdateCartItemRequest{Quantity: 7})
	require.NoError(t, err)
	require.Equal(t, uint(7), item.Quantity)

	_, err = svc.UpdateItem(ctx, user.ID, line.ID, transport.UpdateCartItemRequest{Quantity: 11})
	require.ErrorIs(t, err, ErrInsufficientStock)

	_, err = svc.UpdateItem(ctx, user.ID, line.ID, transport.UpdateCartItemRequest{Quantity: 0})
	require.ErrorIs(t, err, ErrValidation)

	_, err = svc.UpdateItem(ctx, user.ID, 999, transport.UpdateCartItemRequest{Quantity: 1})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestCartOwnershipEnforced(t *testing.T) {
	r := newTestRepo(t)
	svc := &CartService{Repo: r}
	ctx := context.Background()

	owner := seedUser(t, r)
	intruder := seedUser(t, r)
	p := seedProduct(t, r, "Keyboard", "9.99", 10)
	line := seedCartItem(t, r, owner.ID, p.ID, 2, time.Now())

	_, err := svc.UpdateItem(ctx, intruder.ID, line.ID, transport.UpdateCartItemRequest{Quantity: 1})
	require.ErrorIs(t, err, ErrForbidden)

	err = svc.RemoveItem(ctx, intruder.ID, line.ID)
	require.ErrorIs(t, err, ErrForbidden)

	require.Equal(t, 1, cartSizeOf(t, r, owner.ID))
}

func TestRemoveItemAndClearCart(t *testing.T) {
	r := newTestRepo(t)
	svc := &CartService{Repo: r}
	ctx := context.Background()

	user := seedUser(t, r)
	p := seedProduct(t, r, "Keyboard", "9.99", 10)
	q := seedProduct(t, r, "Mouse", "2.50", 5)

	now := time.Now()
	line := seedCartItem(t, r, user.ID, p.ID, 2, now.Add(-time.Minute))
	seedCartItem(t, r, user.ID, q.ID, 1, now)

	require.NoError(t, svc.RemoveItem(ctx, user.ID, line.ID))
	require.Equal(t, 1, cartSizeOf(t, r, user.ID))

	err := svc.RemoveItem(ctx, user.ID, line.ID)
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, svc.ClearCart(ctx, user.ID))
	require.Equal(t, 0, cartSizeOf(t, r, user.ID))
}

func TestCountItemsAndContains(t *testing.T) {
	r := newTestRepo(t)
	svc := &CartService{Repo: r}
	ctx := context.Background()

	user := seedUser(t, r)
	p := seedProduct(t, r, "Keyboard", "9.99", 10)
	q := seedProduct(t, r, "Mouse", "2.50", 5)

	count, err := svc.CountItems(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, int64(0), count)

	now := time.Now()
	seedCartItem(t, r, user.ID, p.ID, 2, now.Add(-time.Minute))
	seedCartItem(t, r, user.ID, q.ID, 1, now)

	count, err = svc.CountItems(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, int64(2), count)

	ok, err := svc.Contains(ctx, user.ID, p.ID)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = svc.Contains(ctx, user.ID, 999)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestGetCartMostRecentFirst(t *testing.T) {
	r := newTestRepo(t)
	svc := &CartService{Repo: r}
	ctx := context.Background()

	user := seedUser(t, r)
	p := seedProduct(t, r, "Keyboard", "9.99", 10)
	q := seedProduct(t, r, "Mouse", "2.50", 5)

	now := time.Now()
	seedCartItem(t, r, user.ID, p.ID, 2, now.Add(-time.Minute))
	seedCartItem(t, r, user.ID, q.ID, 1, now)

	items, err := svc.GetCart(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.Equal(t, q.ID, items[0].ProductID)
	require.Equal(t, p.ID, items[1].ProductID)
}
