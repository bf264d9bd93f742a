package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID            uint            `gorm:"primaryKey;autoIncrement"     json:"id"`
	Name          string          `gorm:"not null;size:100"            json:"name"`
	Description   string          `gorm:"size:1000"                    json:"description"`
	Price         decimal.Decimal `gorm:"type:numeric(10,2);not null"  json:"price"`
	StockQuantity uint            `gorm:"not null;default:0"           json:"stock_quantity"`
	IsActive      bool            `gorm:"not null;default:true"        json:"is_active"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

type User struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"     json:"id"`
	Email     string    `gorm:"uniqueIndex;not null;size:50" json:"email"`
	Name      string    `gorm:"not null;size:30"             json:"name"`
	Phone     string    `gorm:"size:20"                      json:"phone"`
	Address   string    `gorm:"size:100"                     json:"address"`
	IsActive  bool      `gorm:"not null;default:true"        json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CartItem struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"              json:"id"`
	UserID    uint      `gorm:"uniqueIndex:idx_user_product;not null" json:"user_id"`
	ProductID uint      `gorm:"uniqueIndex:idx_user_product;not null" json:"product_id"`
	Quantity  uint      `gorm:"not null;default:1;check:quantity>0"   json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (CartItem) TableName() string { return "cart_items" }

type Order struct {
	ID              uint            `gorm:"primaryKey;autoIncrement"        json:"id"`
	OrderNumber     string          `gorm:"uniqueIndex;not null;size:50"    json:"order_number"`
	TotalAmount     decimal.Decimal `gorm:"type:numeric(10,2);not null"     json:"total_amount"`
	Status          OrderStatus     `gorm:"type:varchar(20);not null;index" json:"status"`
	ShippingAddress string          `gorm:"size:100"                        json:"shipping_address"`
	ShippingPhone   string          `gorm:"size:20"                         json:"shipping_phone"`
	UserID          uint            `gorm:"index;not null"                  json:"user_id"`
	Items           []OrderItem     `gorm:"constraint:OnDelete:CASCADE"     json:"items"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

type OrderItem struct {
	ID        uint            `gorm:"primaryKey;autoIncrement"    json:"id"`
	OrderID   uint            `gorm:"index;not null"              json:"order_id"`
	ProductID uint            `gorm:"not null"                    json:"product_id"`
	Quantity  uint            `gorm:"not null;check:quantity>0"   json:"quantity"`
	Price     decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"price"`
	CreatedAt time.Time       `json:"created_at"`
}

func (OrderItem) TableName() string { return "order_items" }

// LineTotal is the price snapshot taken at order time multiplied by the
// quantity. The product's current price is never consulted here, so old
// orders are immune to later price changes.
func (i OrderItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// CalculateTotal sums line totals. The stored TotalAmount must always equal
// this value.
func (o *Order) CalculateTotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.LineTotal())
	}
	return total
}
