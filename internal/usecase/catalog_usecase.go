package usecase

import (
	"context"
	"errors"
	"strings"

	"bookstore/internal/domain/model"
	repo "bookstore/internal/repository"
)

// トップに出す新着の件数
const NewArrivalsLimit = 4

// 誰でも見られる書籍の読み取り
type CatalogUsecase struct {
	books repo.BookRepository
	cache CatalogCache
}

// DI
func NewCatalogUsecase(books repo.BookRepository, cache CatalogCache) *CatalogUsecase {
	return &CatalogUsecase{books: books, cache: cache}
}

// 在庫ありの新着4件
func (u *CatalogUsecase) NewArrivals(ctx context.Context) ([]model.Book, error) {
	books, err := u.cache.NewArrivals(ctx, func(ctx context.Context) ([]model.Book, error) {
		return u.books.ListNewArrivals(ctx, NewArrivalsLimit)
	})
	if err != nil {
		return nil, PersistenceError(ctx, "Could not load books. Please try again.", err)
	}
	return books, nil
}

// 検索。種類が不明ならタイトル検索にする
func (u *CatalogUsecase) Search(ctx context.Context, searchType string, query string) ([]model.Book, error) {
	t := repo.SearchType(strings.ToLower(strings.TrimSpace(searchType)))
	if !t.Valid() {
		t = repo.SearchByTitle
	}

	books, err := u.books.Search(ctx, repo.BookSearch{Type: t, Query: query})
	if err != nil {
		return nil, PersistenceError(ctx, "Search failed. Please try again.", err)
	}
	return books, nil
}

func (u *CatalogUsecase) BookDetails(ctx context.Context, isbn string) (model.Book, error) {
	isbn = strings.TrimSpace(isbn)
	if isbn == "" {
		return model.Book{}, NewAppError(KindNotFound, "Book not found")
	}

	b, err := u.books.FindByISBN(ctx, isbn)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Book{}, NewAppError(KindNotFound, "Book not found")
	}
	if err != nil {
		return model.Book{}, PersistenceError(ctx, "Could not load book. Please try again.", err)
	}
	return b, nil
}
