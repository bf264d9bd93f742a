package httpserver

import (
	"context"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/vkotelnikov/shop-backend/internal/models"
	"github.com/vkotelnikov/shop-backend/internal/service"
	"github.com/vkotelnikov/shop-backend/internal/transport"
	"github.com/vkotelnikov/shop-backend/pkg/logging"
)

type ProductHTTP struct {
	Svc *service.CatalogService
}

func (h *ProductHTTP) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get")

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	product, err := h.Svc.GetProduct(ctx, uint(id))
	if err != nil {
		return serviceError(l, "get_product", err)
	}
	return c.JSON(http.StatusOK, product)
}

func (h *ProductHTTP) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.create")

	var req transport.CreateProductRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("create_product_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	product, err := h.Svc.CreateProduct(ctx, req)
	if err != nil {
		return serviceError(l, "create_product", err)
	}

	l.Info("product created", "product_id", product.ID)
	return c.JSON(http.StatusCreated, product)
}

func (h *ProductHTTP) PatchProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.patch")

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var req transport.PatchProductRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("patch_product_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	product, err := h.Svc.PatchProduct(ctx, uint(id), req)
	if err != nil {
		return serviceError(l, "patch_product", err)
	}
	return c.JSON(http.StatusOK, product)
}

func (h *ProductHTTP) IncreaseStock(c echo.Context) error {
	return h.adjustStock(c, "increase_stock", h.Svc.IncreaseStock)
}

func (h *ProductHTTP) DecreaseStock(c echo.Context) error {
	return h.adjustStock(c, "decrease_stock", h.Svc.DecreaseStock)
}

func (h *ProductHTTP) adjustStock(c echo.Context, op string, fn func(ctx context.Context, id, qty uint) (*models.Product, error)) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product."+op)

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var req transport.AdjustStockRequest
	if err := c.Bind(&req); err != nil {
		l.Warn(op+"_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	product, err := fn(ctx, uint(id), req.Quantity)
	if err != nil {
		return serviceError(l, op, err)
	}

	l.Info("stock adjusted", "product_id", product.ID, "stock_quantity", product.StockQuantity)
	return c.JSON(http.StatusOK, product)
}

func (h *ProductHTTP) SearchProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.search")

	query := c.QueryParam("q")
	from, _ := strconv.Atoi(c.QueryParam("from"))
	size, err := strconv.Atoi(c.QueryParam("size"))
	if err != nil || size <= 0 || size > 100 {
		size = 20
	}

	total, products, err := h.Svc.SearchProducts(ctx, query, from, size)
	if err != nil {
		return serviceError(l, "search_products", err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"total": total,
		"items": products,
	})
}
