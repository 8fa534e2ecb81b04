package handler

import (
	"log/slog"

	"bookstore/internal/middleware"
	"bookstore/internal/usecase"

	"github.com/labstack/echo/v4"
)

// チェックアウトと注文履歴
type OrderHandler struct {
	uc *usecase.CheckoutUsecase
}

func NewOrderHandler(uc *usecase.CheckoutUsecase) *OrderHandler {
	return &OrderHandler{uc: uc}
}

func (h *OrderHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/checkout", h.checkout)
	e.POST("/process_checkout", h.placeOrder)
	e.GET("/my_orders", h.myOrders)
}

func (h *OrderHandler) checkout(c echo.Context) error {
	preview, err := h.uc.Preview(c.Request().Context(), middleware.IdentityFrom(c))
	if err != nil {
		return fail(c, err, "/cart")
	}
	return render(c, "checkout", "Checkout", preview)
}

func (h *OrderHandler) placeOrder(c echo.Context) error {
	out, err := h.uc.PlaceOrder(c.Request().Context(), middleware.IdentityFrom(c), usecase.PlaceOrderInput{
		CardNumber: c.FormValue("cc_number"),
		CardExpiry: c.FormValue("cc_expiration"),
		Token:      c.FormValue("checkout_token"),
	})
	if err != nil {
		//在庫不足・空カートはカートへ、入力ミスはチェックアウトへ戻す
		if ae, ok := usecase.AsAppError(err); ok && ae.Kind == usecase.KindBusinessRule {
			return fail(c, err, "/cart")
		}
		return fail(c, err, "/checkout")
	}

	if out.Replayed {
		slog.InfoContext(c.Request().Context(), "checkout replayed", "transaction_id", out.Transaction.ID)
	}
	return success(c, "/my_orders", "Order placed successfully!")
}

func (h *OrderHandler) myOrders(c echo.Context) error {
	orders, err := h.uc.ListMyOrders(c.Request().Context(), middleware.IdentityFrom(c))
	if err != nil {
		return fail(c, err, "/")
	}
	return render(c, "my_orders", "My orders", orders)
}
