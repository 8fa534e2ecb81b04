package handler

import (
	"net/url"
	"strings"

	"bookstore/internal/middleware"
	"bookstore/internal/usecase"
	"bookstore/internal/web"

	"github.com/labstack/echo/v4"
)

// カート画面と明細操作（顧客のみ）
type CartHandler struct {
	uc *usecase.CartUsecase
}

// DI
func NewCartHandler(uc *usecase.CartUsecase) *CartHandler {
	return &CartHandler{uc: uc}
}

func (h *CartHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/cart", h.getCart)
	e.POST("/add_to_cart", h.addToCart)
	e.POST("/update_cart_quantity", h.updateQuantity)
	e.POST("/remove_from_cart", h.removeItem)
}

func (h *CartHandler) getCart(c echo.Context) error {
	view, err := h.uc.GetCart(c.Request().Context(), middleware.IdentityFrom(c))
	if err != nil {
		return fail(c, err, "/")
	}
	return render(c, "cart", "Cart", view)
}

func (h *CartHandler) addToCart(c echo.Context) error {
	isbn := strings.TrimSpace(c.FormValue("isbn"))
	back := "/"
	if isbn != "" {
		back = "/book/" + url.PathEscape(isbn)
	}

	err := h.uc.AddToCart(c.Request().Context(), middleware.IdentityFrom(c), isbn, formInt64(c, "quantity", 1))
	if err != nil {
		return fail(c, err, back)
	}
	return success(c, back, "Book added to cart!")
}

func (h *CartHandler) updateQuantity(c echo.Context) error {
	change, err := h.uc.ChangeQuantity(
		c.Request().Context(),
		middleware.IdentityFrom(c),
		c.FormValue("isbn"),
		usecase.QuantityAction(c.FormValue("action")),
	)
	if err != nil {
		return fail(c, err, "/cart")
	}

	if change == usecase.CartItemRemoved {
		web.AddFlash(c, web.LevelInfo, "Item removed from cart")
	}
	return redirect(c, "/cart")
}

func (h *CartHandler) removeItem(c echo.Context) error {
	if err := h.uc.RemoveItem(c.Request().Context(), middleware.IdentityFrom(c), c.FormValue("isbn")); err != nil {
		return fail(c, err, "/cart")
	}
	web.AddFlash(c, web.LevelInfo, "Item removed from cart")
	return redirect(c, "/cart")
}
