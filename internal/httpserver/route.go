package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type Deps struct {
	OrderHandler   *OrderHTTP
	CartHandler    *CartHTTP
	ProductHandler *ProductHTTP
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	orders := e.Group("/orders")
	orders.GET("", d.OrderHandler.ListMyOrders)
	orders.POST("", d.OrderHandler.CreateDirectOrder)
	orders.POST("/from-cart", d.OrderHandler.CreateOrderFromCart)
	orders.GET("/number/:number", d.OrderHandler.GetOrderByNumber)
	orders.GET("/:id", d.OrderHandler.GetOrder)
	orders.PATCH("/:id/status", d.OrderHandler.ChangeStatus)
	orders.POST("/:id/cancel", d.OrderHandler.CancelOrder)

	cart := e.Group("/cart")
	cart.GET("", d.CartHandler.GetCart)
	cart.POST("", d.CartHandler.AddToCart)
	cart.GET("/count", d.CartHandler.CountItems)
	cart.PATCH("/:id", d.CartHandler.UpdateItem)
	cart.DELETE("/:id", d.CartHandler.RemoveItem)
	cart.DELETE("", d.CartHandler.ClearCart)

	products := e.Group("/products")
	products.GET("/search", d.ProductHandler.SearchProducts)
	products.GET("/:id", d.ProductHandler.GetProduct)
	products.POST("", d.ProductHandler.CreateProduct)
	products.PATCH("/:id", d.ProductHandler.PatchProduct)
	products.POST("/:id/stock/increase", d.ProductHandler.IncreaseStock)
	products.POST("/:id/stock/decrease", d.ProductHandler.DecreaseStock)

	admin := e.Group("/admin")
	admin.GET("/orders", d.OrderHandler.ListOrders)
}
