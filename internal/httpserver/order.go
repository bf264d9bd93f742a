package httpserver

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/vkotelnikov/shop-backend/internal/models"
	"github.com/vkotelnikov/shop-backend/internal/service"
	"github.com/vkotelnikov/shop-backend/internal/transport"
	"github.com/vkotelnikov/shop-backend/pkg/logging"
)

type OrderHTTP struct {
	Svc       *service.OrderService
	JWTSecret []byte
}

func (h *OrderHTTP) CreateOrderFromCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.create_from_cart")

	userID, err := GetID(c, h.JWTSecret)
	if err != nil {
		return err
	}

	var req transport.CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("create_from_cart_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	order, err := h.Svc.CreateOrderFromCart(ctx, userID, req)
	if err != nil {
		return serviceError(l, "create_from_cart", err)
	}

	l.Info("order created", "order_number", order.OrderNumber, "total", order.TotalAmount)
	return c.JSON(http.StatusCreated, order)
}

func (h *OrderHTTP) CreateDirectOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.create_direct")

	userID, err := GetID(c, h.JWTSecret)
	if err != nil {
		return err
	}

	var req transport.CreateDirectOrderRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("create_direct_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	order, err := h.Svc.CreateDirectOrder(ctx, userID, req)
	if err != nil {
		return serviceError(l, "create_direct", err)
	}

	l.Info("order created", "order_number", order.OrderNumber, "total", order.TotalAmount)
	return c.JSON(http.StatusCreated, order)
}

func (h *OrderHTTP) GetOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.get")

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	order, err := h.Svc.GetOrder(ctx, uint(id))
	if err != nil {
		return serviceError(l, "get_order", err)
	}
	return c.JSON(http.StatusOK, order)
}

func (h *OrderHTTP) GetOrderByNumber(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.get_by_number")

	number := c.Param("number")
	if number == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "number required")
	}

	order, err := h.Svc.GetOrderByNumber(ctx, number)
	if err != nil {
		return serviceError(l, "get_order_by_number", err)
	}
	return c.JSON(http.StatusOK, order)
}

func (h *OrderHTTP) ListMyOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.list_my")

	userID, err := GetID(c, h.JWTSecret)
	if err != nil {
		return err
	}

	orders, err := h.Svc.ListUserOrders(ctx, userID)
	if err != nil {
		return serviceError(l, "list_my_orders", err)
	}
	return c.JSON(http.StatusOK, orders)
}

func (h *OrderHTTP) ListOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.list")

	if raw := c.QueryParam("status"); raw != "" {
		orders, err := h.Svc.ListOrdersByStatus(ctx, models.OrderStatus(raw))
		if err != nil {
			return serviceError(l, "list_orders", err)
		}
		return c.JSON(http.StatusOK, orders)
	}

	orders, err := h.Svc.ListOrders(ctx)
	if err != nil {
		return serviceError(l, "list_orders", err)
	}
	return c.JSON(http.StatusOK, orders)
}

func (h *OrderHTTP) ChangeStatus(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.change_status")

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var req transport.UpdateOrderStatusRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("change_status_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	order, err := h.Svc.ChangeStatus(ctx, uint(id), req.Status)
	if err != nil {
		return serviceError(l, "change_status", err)
	}

	l.Info("order status changed", "order_number", order.OrderNumber, "status", order.Status)
	return c.JSON(http.StatusOK, order)
}

func (h *OrderHTTP) CancelOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.cancel")

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	order, err := h.Svc.CancelOrder(ctx, uint(id))
	if err != nil {
		return serviceError(l, "cancel_order", err)
	}

	l.Info("order cancelled", "order_number", order.OrderNumber)
	return c.JSON(http.StatusOK, order)
}
