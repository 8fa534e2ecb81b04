package repository

import (
	"context"
	"time"

	"bookstore/internal/domain/model"
	repo "bookstore/internal/repository"

	"gorm.io/gorm"
)

type PublisherOrderGormRepository struct {
	db *gorm.DB
}

func NewPublisherOrderGormRepository(db *gorm.DB) *PublisherOrderGormRepository {
	return &PublisherOrderGormRepository{db: db}
}

// ヘッダ→明細の順に作成
func (r *PublisherOrderGormRepository) Create(ctx context.Context, order *model.PublisherOrder) error {
	db := r.db.WithContext(ctx)

	items := order.Items
	if err := db.Omit("Items", "Publisher").Create(order).Error; err != nil {
		return translate(err)
	}

	for i := range items {
		items[i].OrderID = order.ID
	}
	if len(items) > 0 {
		if err := db.Create(&items).Error; err != nil {
			return translate(err)
		}
	}
	order.Items = items
	return nil
}

func (r *PublisherOrderGormRepository) FindByID(ctx context.Context, orderID int64) (model.PublisherOrder, error) {
	var o model.PublisherOrder
	err := r.withDetails(r.db.WithContext(ctx)).
		Where("id = ?", orderID).
		First(&o).Error
	if err != nil {
		return model.PublisherOrder{}, translate(err)
	}

	list, err := r.withBooks(ctx, []model.PublisherOrder{o})
	if err != nil {
		return model.PublisherOrder{}, err
	}
	return list[0], nil
}

// 新しい順
func (r *PublisherOrderGormRepository) List(ctx context.Context, f repo.PublisherOrderFilter) ([]model.PublisherOrder, error) {
	q := r.withDetails(r.db.WithContext(ctx)).Model(&model.PublisherOrder{})

	//status 絞り込み
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}

	var list []model.PublisherOrder
	if err := q.Order("order_date desc").Order("id desc").Find(&list).Error; err != nil {
		return []model.PublisherOrder{}, err
	}
	return r.withBooks(ctx, list)
}

// Pendingのときだけ更新
func (r *PublisherOrderGormRepository) ConfirmIfPending(ctx context.Context, orderID int64, confirmedAt time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&model.PublisherOrder{}).
		Where("id = ? AND status = ?", orderID, model.PublisherOrderPending).
		Updates(map[string]any{"status": model.PublisherOrderConfirmed, "confirmed_at": confirmedAt})

	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *PublisherOrderGormRepository) HasPendingForISBN(ctx context.Context, isbn string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Table("publisher_order_items oi").
		Joins("JOIN publisher_orders po ON po.id = oi.order_id").
		Where("oi.isbn = ? AND po.status = ?", isbn, model.PublisherOrderPending).
		Count(&n).Error
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *PublisherOrderGormRepository) CountPending(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&model.PublisherOrder{}).
		Where("status = ?", model.PublisherOrderPending).
		Count(&n).Error
	return n, err
}

func (r *PublisherOrderGormRepository) withDetails(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Publisher").
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id asc") })
}

// 明細の書籍をまとめて1クエリで読む
func (r *PublisherOrderGormRepository) withBooks(ctx context.Context, orders []model.PublisherOrder) ([]model.PublisherOrder, error) {
	var isbns []string
	for _, o := range orders {
		for _, it := range o.Items {
			isbns = append(isbns, it.ISBN)
		}
	}
	if len(isbns) == 0 {
		return orders, nil
	}

	var books []model.Book
	if err := r.db.WithContext(ctx).Where("isbn IN ?", isbns).Find(&books).Error; err != nil {
		return nil, err
	}
	byISBN := make(map[string]model.Book, len(books))
	for _, b := range books {
		byISBN[b.ISBN] = b
	}

	for i := range orders {
		for j := range orders[i].Items {
			orders[i].Items[j].Book = byISBN[orders[i].Items[j].ISBN]
		}
	}
	return orders, nil
}
