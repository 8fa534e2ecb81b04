package handler

import (
	"strconv"
	"strings"

	"bookstore/internal/middleware"
	"bookstore/internal/usecase"

	"github.com/labstack/echo/v4"
)

const confirmOrdersPath = "/admin/confirm_orders"

// 出版社への発注の一覧・作成・確定
type AdminOrderHandler struct {
	uc *usecase.PublisherOrderUsecase
}

func NewAdminOrderHandler(uc *usecase.PublisherOrderUsecase) *AdminOrderHandler {
	return &AdminOrderHandler{uc: uc}
}

func (h *AdminOrderHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/confirm_orders", h.list)
	g.POST("/publisher_orders", h.create)
	g.POST("/confirm_order/:id", h.confirm)
}

func (h *AdminOrderHandler) list(c echo.Context) error {
	board, err := h.uc.List(c.Request().Context(), middleware.IdentityFrom(c), usecase.ParseStatusFilter(c.QueryParam("status")))
	if err != nil {
		return fail(c, err, "/admin/dashboard")
	}
	return render(c, "confirm_orders", "Publisher orders", board)
}

// isbn / quantity は同じ順で複数送れる
func (h *AdminOrderHandler) create(c echo.Context) error {
	publisherID, ok := strictInt(c, "publisher_id")
	if !ok {
		return invalid(c, "Unknown publisher", confirmOrdersPath)
	}

	isbns := formValues(c, "isbn")
	qtys := formValues(c, "quantity")
	lines := make([]usecase.PublisherOrderLine, 0, len(isbns))
	for i, isbn := range isbns {
		if strings.TrimSpace(isbn) == "" {
			continue
		}
		var qty int64
		if i < len(qtys) {
			n, err := strconv.ParseInt(strings.TrimSpace(qtys[i]), 10, 64)
			if err != nil {
				return invalid(c, "Each line needs an ISBN and a quantity of at least 1", confirmOrdersPath)
			}
			qty = n
		}
		lines = append(lines, usecase.PublisherOrderLine{ISBN: isbn, Quantity: qty})
	}

	_, err := h.uc.Create(c.Request().Context(), middleware.IdentityFrom(c), usecase.CreatePublisherOrderInput{
		PublisherID: publisherID,
		Lines:       lines,
	})
	if err != nil {
		return fail(c, err, confirmOrdersPath)
	}
	return success(c, confirmOrdersPath, "Publisher order created.")
}

func (h *AdminOrderHandler) confirm(c echo.Context) error {
	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || orderID <= 0 {
		return invalid(c, "Publisher order not found", confirmOrdersPath)
	}

	if _, err := h.uc.Confirm(c.Request().Context(), middleware.IdentityFrom(c), orderID); err != nil {
		return fail(c, err, confirmOrdersPath)
	}
	return success(c, confirmOrdersPath, "Order confirmed! Stock has been updated.")
}
