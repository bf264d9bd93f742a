package service

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/vkotelnikov/shop-backend/internal/models"
	"github.com/vkotelnikov/shop-backend/internal/repo"
)

func newTestRepo(t *testing.T) *repo.GormRepo {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
	))

	return &repo.GormRepo{DB: db}
}

func seedUser(t *testing.T, r *repo.GormRepo) *models.User {
	t.Helper()

	var existing int64
	require.NoError(t, r.DB.Model(&models.User{}).Count(&existing).Error)

	user := &models.User{
		Email:    fmt.Sprintf("%s.%d@example.com", strings.ToLower(strings.ReplaceAll(t.Name(), "/", ".")), existing+1),
		Name:     "Test User",
		Phone:    "010-1234-5678",
		Address:  "1 Main Street",
		IsActive: true,
	}
	require.NoError(t, r.DB.Create(user).Error)
	return user
}

func seedProduct(t *testing.T, r *repo.GormRepo, name, price string, stock uint) *models.Product {
	t.Helper()

	product := &models.Product{
		Name:          name,
		Description:   name + " description",
		Price:         decimal.RequireFromString(price),
		StockQuantity: stock,
		IsActive:      true,
	}
	require.NoError(t, r.DB.Create(product).Error)
	return product
}

// seedCartItem sets CreatedAt explicitly so recency ordering is
// deterministic in assertions.
func seedCartItem(t *testing.T, r *repo.GormRepo, userID, productID, qty uint, createdAt time.Time) *models.CartItem {
	t.Helper()

	item := &models.CartItem{
		UserID:    userID,
		ProductID: productID,
		Quantity:  qty,
		CreatedAt: createdAt,
	}
	require.NoError(t, r.DB.Create(item).Error)
	return item
}

func stockOf(t *testing.T, r *repo.GormRepo, productID uint) uint {
	t.Helper()

	product, err := r.GetProduct(context.Background(), productID)
	require.NoError(t, err)
	return product.StockQuantity
}

func cartSizeOf(t *testing.T, r *repo.GormRepo, userID uint) int {
	t.Helper()

	items, err := r.GetCartItems(context.Background(), userID)
	require.NoError(t, err)
	return len(items)
}

func orderCount(t *testing.T, r *repo.GormRepo) int64 {
	t.Helper()

	var count int64
	require.NoError(t, r.DB.Model(&models.Order{}).Count(&count).Error)
	return count
}
