package repository

import (
	"bookstore/internal/domain/model"
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("duplicate")
)

// 検索の種類
type SearchType string

const (
	SearchByTitle     SearchType = "title"
	SearchByISBN      SearchType = "isbn"
	SearchByAuthor    SearchType = "author"
	SearchByPublisher SearchType = "publisher"
	SearchByCategory  SearchType = "category"
)

func (t SearchType) Valid() bool {
	switch t {
	case SearchByTitle, SearchByISBN, SearchByAuthor, SearchByPublisher, SearchByCategory:
		return true
	}
	return false
}

// Query が空なら全件（タイトル順）
type BookSearch struct {
	Type  SearchType
	Query string
}

// 書籍の保存・取得。著者は別テーブルから読み込んで Authors に詰める
type BookRepository interface {
	ListNewArrivals(ctx context.Context, limit int) ([]model.Book, error)
	Search(ctx context.Context, s BookSearch) ([]model.Book, error)
	FindByISBN(ctx context.Context, isbn string) (model.Book, error)
	//書籍と著者の関連を作る（同じTxで呼ぶ）
	Create(ctx context.Context, b model.Book, authorIDs []int64) (model.Book, error)
	UpdatePrice(ctx context.Context, isbn string, price decimal.Decimal) error
}

type AuthorRepository interface {
	ListAll(ctx context.Context) ([]model.Author, error)
	CountByIDs(ctx context.Context, ids []int64) (int64, error)
}

type PublisherRepository interface {
	ListAll(ctx context.Context) ([]model.Publisher, error)
	FindByID(ctx context.Context, id int64) (model.Publisher, error)
}
