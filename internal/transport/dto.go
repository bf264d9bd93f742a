package transport

import "github.com/vkotelnikov/shop-backend/internal/models"

type OrderItemRequest struct {
	ProductID uint `json:"product_id"`
	Quantity  uint `json:"quantity"`
}

type CreateOrderRequest struct {
	ShippingAddress string `json:"shipping_address"`
}

type CreateDirectOrderRequest struct {
	ShippingAddress string             `json:"shipping_address"`
	Items           []OrderItemRequest `json:"items"`
}

type UpdateOrderStatusRequest struct {
	Status models.OrderStatus `json:"status"`
}

type AddToCartRequest struct {
	ProductID uint `json:"product_id"`
	Quantity  uint `json:"quantity"`
}

type UpdateCartItemRequest struct {
	Quantity uint `json:"quantity"`
}

type CreateProductRequest struct {
	Name          string `json:"name"`
	Description   string `json:"description"`
	Price         string `json:"price"`
	StockQuantity uint   `json:"stock_quantity"`
}

type PatchProductRequest struct {
	Name          *string `json:"name"`
	Description   *string `json:"description"`
	Price         *string `json:"price"`
	StockQuantity *uint   `json:"stock_quantity"`
	IsActive      *bool   `json:"is_active"`
}

type AdjustStockRequest struct {
	Quantity uint `json:"quantity"`
}
