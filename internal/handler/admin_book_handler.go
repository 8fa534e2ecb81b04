package handler

import (
	"strconv"
	"strings"

	"bookstore/internal/middleware"
	"bookstore/internal/usecase"
	"bookstore/internal/web"

	"github.com/labstack/echo/v4"
)

const manageBooksPath = "/admin/manage_books"

// 管理者の本の登録・在庫/価格更新
type AdminBookHandler struct {
	uc *usecase.AdminBookUsecase
}

func NewAdminBookHandler(uc *usecase.AdminBookUsecase) *AdminBookHandler {
	return &AdminBookHandler{uc: uc}
}

func (h *AdminBookHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/manage_books", h.manageBooks)
	g.POST("/add_book", h.addBook)
	g.POST("/update_book", h.updateBook)
}

func (h *AdminBookHandler) manageBooks(c echo.Context) error {
	view, err := h.uc.ListBooks(
		c.Request().Context(),
		middleware.IdentityFrom(c),
		c.QueryParam("search_type"),
		c.QueryParam("search_query"),
	)
	if err != nil {
		return fail(c, err, "/admin/dashboard")
	}
	return render(c, "manage_books", "Manage books", view)
}

func (h *AdminBookHandler) addBook(c echo.Context) error {
	year, ok := strictInt(c, "year")
	if !ok {
		return invalid(c, "Invalid publication year", manageBooksPath)
	}
	publisherID, ok := strictInt(c, "publisher_id")
	if !ok {
		return invalid(c, "Unknown publisher", manageBooksPath)
	}
	stock, ok := strictIntDefault(c, "stock", 0)
	if !ok {
		return invalid(c, "Invalid stock quantity", manageBooksPath)
	}
	threshold, ok := strictIntDefault(c, "threshold", 0)
	if !ok {
		return invalid(c, "Invalid stock threshold", manageBooksPath)
	}

	var authorIDs []int64
	for _, v := range formValues(c, "author_ids") {
		id, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return invalid(c, "Unknown author selected", manageBooksPath)
		}
		authorIDs = append(authorIDs, id)
	}

	_, err := h.uc.AddBook(c.Request().Context(), middleware.IdentityFrom(c), usecase.AddBookInput{
		ISBN:            c.FormValue("isbn"),
		Title:           c.FormValue("title"),
		Category:        c.FormValue("category"),
		PublicationYear: int(year),
		PublisherID:     publisherID,
		Price:           c.FormValue("price"),
		Stock:           stock,
		Threshold:       threshold,
		AuthorIDs:       authorIDs,
	})
	if err != nil {
		return fail(c, err, manageBooksPath)
	}
	return success(c, manageBooksPath, "Book and author(s) added successfully!")
}

func (h *AdminBookHandler) updateBook(c echo.Context) error {
	stock, ok := strictInt(c, "stock")
	if !ok {
		return invalid(c, "Invalid stock quantity", manageBooksPath)
	}

	err := h.uc.UpdateBook(c.Request().Context(), middleware.IdentityFrom(c), usecase.UpdateBookInput{
		ISBN:   c.FormValue("isbn"),
		Stock:  stock,
		Price:  c.FormValue("price"),
		Reason: c.FormValue("reason"),
	})
	if err != nil {
		return fail(c, err, manageBooksPath)
	}
	return success(c, manageBooksPath, "Book updated successfully!")
}

func invalid(c echo.Context, notice, to string) error {
	web.AddFlash(c, web.LevelDanger, notice)
	return redirect(c, to)
}

func strictInt(c echo.Context, name string) (int64, bool) {
	n, err := strconv.ParseInt(strings.TrimSpace(c.FormValue(name)), 10, 64)
	return n, err == nil
}

// 空ならdef、数字でなければNG
func strictIntDefault(c echo.Context, name string, def int64) (int64, bool) {
	if strings.TrimSpace(c.FormValue(name)) == "" {
		return def, true
	}
	return strictInt(c, name)
}
