package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"bookstore/internal/domain/model"
	repo "bookstore/internal/repository"

	"github.com/shopspring/decimal"
)

// 管理者の書籍・在庫管理
type AdminBookUsecase struct {
	tx         repo.TransactionManager
	books      repo.BookRepository
	authors    repo.AuthorRepository
	publishers repo.PublisherRepository
	audits     repo.AuditLogRepository
	clock      Clock
	cache      CatalogCache
}

// 管理画面に出す最近の書籍変更の件数
const recentChangesLimit = 10

// DI
func NewAdminBookUsecase(
	tx repo.TransactionManager,
	books repo.BookRepository,
	authors repo.AuthorRepository,
	publishers repo.PublisherRepository,
	audits repo.AuditLogRepository,
	clock Clock,
	cache CatalogCache,
) *AdminBookUsecase {
	return &AdminBookUsecase{
		tx:         tx,
		books:      books,
		authors:    authors,
		publishers: publishers,
		audits:     audits,
		clock:      clock,
		cache:      cache,
	}
}

// 書籍管理画面
type ManageBooksView struct {
	Books      []model.Book
	Authors    []model.Author
	Publishers []model.Publisher
	Categories []model.BookCategory
	// 書籍の追加・更新履歴（新しい順）
	RecentChanges []model.AuditLog
}

type AddBookInput struct {
	ISBN            string
	Title           string
	Category        string
	PublicationYear int
	PublisherID     int64
	Price           string
	Stock           int64
	Threshold       int64
	AuthorIDs       []int64
}

type UpdateBookInput struct {
	ISBN   string
	Stock  int64
	Price  string
	Reason string
}

// isbn（完全一致）かtitle（部分一致）で検索
func (u *AdminBookUsecase) ListBooks(ctx context.Context, id model.Identity, searchType string, query string) (ManageBooksView, error) {
	if err := Authorize(id, model.CanAdminister); err != nil {
		return ManageBooksView{}, err
	}

	t := repo.SearchByTitle
	if strings.EqualFold(strings.TrimSpace(searchType), string(repo.SearchByISBN)) {
		t = repo.SearchByISBN
	}

	books, err := u.books.Search(ctx, repo.BookSearch{Type: t, Query: query})
	if err != nil {
		return ManageBooksView{}, PersistenceError(ctx, "Could not load books. Please try again.", err)
	}
	authors, err := u.authors.ListAll(ctx)
	if err != nil {
		return ManageBooksView{}, PersistenceError(ctx, "Could not load authors. Please try again.", err)
	}
	pubs, err := u.publishers.ListAll(ctx)
	if err != nil {
		return ManageBooksView{}, PersistenceError(ctx, "Could not load publishers. Please try again.", err)
	}
	changes, err := u.audits.List(ctx, repo.AuditLogFilter{ResourceType: model.AuditResourceBook, Limit: recentChangesLimit})
	if err != nil {
		return ManageBooksView{}, PersistenceError(ctx, "Could not load recent changes. Please try again.", err)
	}

	return ManageBooksView{
		Books:         books,
		Authors:       authors,
		Publishers:    pubs,
		Categories:    model.BookCategories,
		RecentChanges: changes,
	}, nil
}

// 書籍と著者の関連を同じTxで作る。著者なしは不可
func (u *AdminBookUsecase) AddBook(ctx context.Context, id model.Identity, in AddBookInput) (model.Book, error) {
	if err := Authorize(id, model.CanAdminister); err != nil {
		return model.Book{}, err
	}

	authorIDs := uniqueIDs(in.AuthorIDs)
	if len(authorIDs) == 0 {
		return model.Book{}, NewAppError(KindValidation, "Error: At least one author must be selected")
	}

	isbn := strings.TrimSpace(in.ISBN)
	title := strings.TrimSpace(in.Title)
	if isbn == "" || len(isbn) > 20 {
		return model.Book{}, NewAppError(KindValidation, "ISBN is required (max 20 characters)")
	}
	if title == "" {
		return model.Book{}, NewAppError(KindValidation, "Title is required")
	}
	category := model.BookCategory(strings.TrimSpace(in.Category))
	if !category.Valid() {
		return model.Book{}, NewAppError(KindValidation, "Invalid category")
	}
	now := u.clock.Now()
	if in.PublicationYear < 1000 || in.PublicationYear > now.Year()+1 {
		return model.Book{}, NewAppError(KindValidation, "Invalid publication year")
	}
	price, err := parsePrice(in.Price)
	if err != nil {
		return model.Book{}, err
	}
	if in.Stock < 0 || in.Threshold < 0 {
		return model.Book{}, NewAppError(KindValidation, "Stock and threshold must not be negative")
	}

	if _, err := u.publishers.FindByID(ctx, in.PublisherID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return model.Book{}, NewAppError(KindValidation, "Unknown publisher")
		}
		return model.Book{}, PersistenceError(ctx, "Error adding book. Please try again.", err)
	}
	n, err := u.authors.CountByIDs(ctx, authorIDs)
	if err != nil {
		return model.Book{}, PersistenceError(ctx, "Error adding book. Please try again.", err)
	}
	if n != int64(len(authorIDs)) {
		return model.Book{}, NewAppError(KindValidation, "Unknown author selected")
	}

	var created model.Book
	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		b, err := r.Books().Create(ctx, model.Book{
			ISBN:            isbn,
			Title:           title,
			PublicationYear: in.PublicationYear,
			Price:           price,
			Category:        category,
			PublisherID:     in.PublisherID,
			StockQuantity:   in.Stock,
			StockThreshold:  in.Threshold,
			CreatedAt:       now,
		}, authorIDs)
		if errors.Is(err, repo.ErrDuplicate) {
			return NewAppError(KindValidation, "A book with this ISBN already exists")
		}
		if err != nil {
			return err
		}

		if in.Stock > 0 {
			if err := r.Inventory().CreateAdjustment(ctx, model.InventoryAdjustment{
				ISBN:        isbn,
				AdminUserID: id.UserID,
				Delta:       in.Stock,
				Reason:      "initial stock",
				CreatedAt:   now,
			}); err != nil {
				return err
			}
		}

		//監査ログ（CREATE_BOOK）
		if err := r.AuditLogs().Create(ctx, model.AuditLog{
			ActorUserID:  id.UserID,
			Action:       model.AuditActionCreateBook,
			ResourceType: model.AuditResourceBook,
			ResourceID:   isbn,
			BeforeJSON:   "{}",
			AfterJSON:    bookStateJSON(in.Stock, price),
			CreatedAt:    now,
		}); err != nil {
			return err
		}

		created = b
		return nil
	})
	if err != nil {
		return model.Book{}, PersistenceError(ctx, "Error adding book. Please try again.", err)
	}

	invalidateCatalog(ctx, u.cache)
	return created, nil
}

// 在庫と価格の更新。差分は在庫調整履歴に残す
func (u *AdminBookUsecase) UpdateBook(ctx context.Context, id model.Identity, in UpdateBookInput) error {
	if err := Authorize(id, model.CanAdminister); err != nil {
		return err
	}

	isbn := strings.TrimSpace(in.ISBN)
	if in.Stock < 0 {
		return NewAppError(KindValidation, "Stock must not be negative")
	}
	price, err := parsePrice(in.Price)
	if err != nil {
		return err
	}
	reason := strings.TrimSpace(in.Reason)
	if reason == "" {
		reason = "manual update"
	}
	if len(reason) > 255 {
		return NewAppError(KindValidation, "Reason is too long")
	}

	now := u.clock.Now()
	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		//変更前（before）
		before, err := r.Books().FindByISBN(ctx, isbn)
		if errors.Is(err, repo.ErrNotFound) {
			return NewAppError(KindNotFound, "Book not found")
		}
		if err != nil {
			return err
		}

		if err := r.Inventory().SetStock(ctx, isbn, in.Stock); err != nil {
			return err
		}
		if err := r.Books().UpdatePrice(ctx, isbn, price); err != nil {
			return err
		}

		//履歴を作成（差分）
		if delta := in.Stock - before.StockQuantity; delta != 0 {
			if err := r.Inventory().CreateAdjustment(ctx, model.InventoryAdjustment{
				ISBN:        isbn,
				AdminUserID: id.UserID,
				Delta:       delta,
				Reason:      reason,
				CreatedAt:   now,
			}); err != nil {
				return err
			}
		}

		//「誰が」「何を」「どの対象に」「どう変えたか」を残す
		return r.AuditLogs().Create(ctx, model.AuditLog{
			ActorUserID:  id.UserID,
			Action:       model.AuditActionUpdateBook,
			ResourceType: model.AuditResourceBook,
			ResourceID:   isbn,
			BeforeJSON:   bookStateJSON(before.StockQuantity, before.Price),
			AfterJSON:    bookStateJSON(in.Stock, price),
			CreatedAt:    now,
		})
	})
	if err != nil {
		return PersistenceError(ctx, "Error updating book. Please try again.", err)
	}

	invalidateCatalog(ctx, u.cache)
	return nil
}

// 0以上、小数2桁まで
func parsePrice(s string) (decimal.Decimal, error) {
	p, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, NewAppError(KindValidation, "Invalid price")
	}
	if p.IsNegative() {
		return decimal.Zero, NewAppError(KindValidation, "Price must not be negative")
	}
	if !p.Equal(p.Round(2)) {
		return decimal.Zero, NewAppError(KindValidation, "Price must have at most 2 decimal places")
	}
	return p.Round(2), nil
}

func bookStateJSON(stock int64, price decimal.Decimal) string {
	return fmt.Sprintf(`{"stock_quantity":%d,"price":"%s"}`, stock, price.StringFixed(2))
}

func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if id <= 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
