package httpserver

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/vkotelnikov/shop-backend/internal/service"
	"github.com/vkotelnikov/shop-backend/internal/transport"
	"github.com/vkotelnikov/shop-backend/pkg/logging"
)

type CartHTTP struct {
	Svc       *service.CartService
	JWTSecret []byte
}

func (h *CartHTTP) GetCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.get")

	userID, err := GetID(c, h.JWTSecret)
	if err != nil {
		return err
	}

	items, err := h.Svc.GetCart(ctx, userID)
	if err != nil {
		return serviceError(l, "get_cart", err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *CartHTTP) AddToCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.add")

	userID, err := GetID(c, h.JWTSecret)
	if err != nil {
		return err
	}

	var req transport.AddToCartRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("add_to_cart_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	item, err := h.Svc.AddToCart(ctx, userID, req)
	if err != nil {
		return serviceError(l, "add_to_cart", err)
	}

	l.Info("cart item added", "product_id", item.ProductID, "quantity", item.Quantity)
	return c.JSON(http.StatusCreated, item)
}

func (h *CartHTTP) UpdateItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.update")

	userID, err := GetID(c, h.JWTSecret)
	if err != nil {
		return err
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var req transport.UpdateCartItemRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("update_cart_item_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	item, err := h.Svc.UpdateItem(ctx, userID, uint(id), req)
	if err != nil {
		return serviceError(l, "update_cart_item", err)
	}
	return c.JSON(http.StatusOK, item)
}

func (h *CartHTTP) RemoveItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.remove")

	userID, err := GetID(c, h.JWTSecret)
	if err != nil {
		return err
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	if err := h.Svc.RemoveItem(ctx, userID, uint(id)); err != nil {
		return serviceError(l, "remove_cart_item", err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *CartHTTP) ClearCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.clear")

	userID, err := GetID(c, h.JWTSecret)
	if err != nil {
		return err
	}

	if err := h.Svc.ClearCart(ctx, userID); err != nil {
		return serviceError(l, "clear_cart", err)
	}

	l.Info("cart cleared")
	return c.NoContent(http.StatusNoContent)
}

func (h *CartHTTP) CountItems(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.count")

	userID, err := GetID(c, h.JWTSecret)
	if err != nil {
		return err
	}

	count, err := h.Svc.CountItems(ctx, userID)
	if err != nil {
		return serviceError(l, "count_cart_items", err)
	}
	return c.JSON(http.StatusOK, map[string]int64{"count": count})
}
