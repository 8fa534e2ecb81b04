package repository

import (
	"context"
	"strings"
	"time"

	"bookstore/internal/domain/model"
	repo "bookstore/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type BookGormRepository struct {
	db *gorm.DB
}

// DI
func NewBookGormRepository(db *gorm.DB) *BookGormRepository {
	return &BookGormRepository{db: db}
}

// 在庫ありの新着（ISBN降順）
func (r *BookGormRepository) ListNewArrivals(ctx context.Context, limit int) ([]model.Book, error) {
	var books []model.Book

	err := r.db.WithContext(ctx).
		Preload("Publisher").
		Where("stock_quantity > ?", 0).
		Order("isbn desc").
		Limit(limit).
		Find(&books).Error
	if err != nil {
		return []model.Book{}, err
	}

	return r.withAuthors(ctx, books)
}

// 検索語は部分一致（大文字小文字を区別しない）。ISBNとカテゴリは完全一致
func (r *BookGormRepository) Search(ctx context.Context, s repo.BookSearch) ([]model.Book, error) {
	tx := r.db.WithContext(ctx).Model(&model.Book{}).Preload("Publisher")

	q := strings.TrimSpace(s.Query)
	if q != "" {
		like := "%" + strings.ToLower(q) + "%"

		switch s.Type {
		case repo.SearchByISBN:
			tx = tx.Where("books.isbn = ?", q)
		case repo.SearchByCategory:
			tx = tx.Where("books.category = ?", q)
		case repo.SearchByAuthor:
			tx = tx.Where(`books.isbn IN (
				SELECT ba.isbn FROM book_authors ba
				JOIN authors a ON a.id = ba.author_id
				WHERE LOWER(a.first_name || ' ' || a.last_name) LIKE ?)`, like)
		case repo.SearchByPublisher:
			tx = tx.Where("books.publisher_id IN (SELECT p.id FROM publishers p WHERE LOWER(p.name) LIKE ?)", like)
		default:
			tx = tx.Where("LOWER(books.title) LIKE ?", like)
		}
	}

	var books []model.Book
	if err := tx.Order("books.title asc").Order("books.isbn asc").Find(&books).Error; err != nil {
		return []model.Book{}, err
	}

	return r.withAuthors(ctx, books)
}

func (r *BookGormRepository) FindByISBN(ctx context.Context, isbn string) (model.Book, error) {
	var b model.Book

	err := r.db.WithContext(ctx).
		Preload("Publisher").
		Where("isbn = ?", isbn).
		First(&b).Error
	if err != nil {
		return model.Book{}, translate(err)
	}

	books, err := r.withAuthors(ctx, []model.Book{b})
	if err != nil {
		return model.Book{}, err
	}
	return books[0], nil
}

// 書籍と著者の関連を作成
func (r *BookGormRepository) Create(ctx context.Context, b model.Book, authorIDs []int64) (model.Book, error) {
	now := time.Now().UTC()
	if b.CreatedAt.IsZero() {
		b.CreatedAt = now
	}
	b.UpdatedAt = b.CreatedAt

	db := r.db.WithContext(ctx)
	if err := db.Omit("Publisher").Create(&b).Error; err != nil {
		return model.Book{}, translate(err)
	}

	links := make([]model.BookAuthor, 0, len(authorIDs))
	for _, id := range authorIDs {
		links = append(links, model.BookAuthor{ISBN: b.ISBN, AuthorID: id})
	}
	if len(links) > 0 {
		if err := db.Create(&links).Error; err != nil {
			return model.Book{}, translate(err)
		}
	}

	return b, nil
}

func (r *BookGormRepository) UpdatePrice(ctx context.Context, isbn string, price decimal.Decimal) error {
	res := r.db.WithContext(ctx).
		Model(&model.Book{}).
		Where("isbn = ?", isbn).
		Updates(map[string]any{"price": price, "updated_at": time.Now().UTC()})

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

type bookAuthorRow struct {
	ISBN      string
	AuthorID  int64
	FirstName string
	LastName  string
}

// 著者をまとめて1クエリで読む
func (r *BookGormRepository) withAuthors(ctx context.Context, books []model.Book) ([]model.Book, error) {
	if len(books) == 0 {
		return books, nil
	}

	isbns := make([]string, 0, len(books))
	for _, b := range books {
		isbns = append(isbns, b.ISBN)
	}

	var rows []bookAuthorRow
	err := r.db.WithContext(ctx).
		Table("book_authors ba").
		Select("ba.isbn AS isbn, a.id AS author_id, a.first_name AS first_name, a.last_name AS last_name").
		Joins("JOIN authors a ON a.id = ba.author_id").
		Where("ba.isbn IN ?", isbns).
		Order("a.last_name asc").Order("a.first_name asc").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	byISBN := make(map[string][]model.Author, len(books))
	for _, row := range rows {
		byISBN[row.ISBN] = append(byISBN[row.ISBN], model.Author{
			ID:        row.AuthorID,
			FirstName: row.FirstName,
			LastName:  row.LastName,
		})
	}
	for i := range books {
		books[i].Authors = byISBN[books[i].ISBN]
	}
	return books, nil
}
