package handler

import (
	"net/http"

	"bookstore/internal/domain/model"
	"bookstore/internal/repository"
	"bookstore/internal/usecase"
	"bookstore/internal/web"

	"github.com/labstack/echo/v4"
)

// 誰でも見られる本の一覧・検索・詳細
type CatalogHandler struct {
	uc *usecase.CatalogUsecase
}

func NewCatalogHandler(uc *usecase.CatalogUsecase) *CatalogHandler {
	return &CatalogHandler{uc: uc}
}

func (h *CatalogHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/", h.index)
	e.GET("/search", h.search)
	e.GET("/book/:isbn", h.book)
}

type searchView struct {
	Type  repository.SearchType
	Types []repository.SearchType
	Query string
	Books []model.Book
}

var searchTypes = []repository.SearchType{
	repository.SearchByTitle,
	repository.SearchByISBN,
	repository.SearchByAuthor,
	repository.SearchByPublisher,
	repository.SearchByCategory,
}

func (h *CatalogHandler) index(c echo.Context) error {
	books, err := h.uc.NewArrivals(c.Request().Context())
	if err != nil {
		//トップはリダイレクト先が無いのでその場で出す
		web.AddFlash(c, web.LevelDanger, noticeOf(err))
	}
	return render(c, "index", "Home", books)
}

func (h *CatalogHandler) search(c echo.Context) error {
	view := searchView{
		Type:  repository.SearchType(c.QueryParam("search_type")),
		Types: searchTypes,
		Query: c.QueryParam("query"),
	}
	if !view.Type.Valid() {
		view.Type = repository.SearchByTitle
	}

	//検索語なしは全件（タイトル順）
	books, err := h.uc.Search(c.Request().Context(), string(view.Type), view.Query)
	if err != nil {
		web.AddFlash(c, web.LevelDanger, noticeOf(err))
	}
	view.Books = books
	return render(c, "search", "Search", view)
}

func (h *CatalogHandler) book(c echo.Context) error {
	b, err := h.uc.BookDetails(c.Request().Context(), c.Param("isbn"))
	if err != nil {
		return fail(c, err, "/")
	}
	return render(c, "book", b.Title, b)
}

func noticeOf(err error) string {
	if ae, ok := usecase.AsAppError(err); ok {
		return ae.Notice
	}
	return noticeUnexpected
}

// ロードバランサ用
func Healthz(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}
