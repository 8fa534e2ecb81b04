package repository

import (
	"context"

	"bookstore/internal/domain/model"

	"gorm.io/gorm"
)

type SalesGormRepository struct {
	db *gorm.DB
}

func NewSalesGormRepository(db *gorm.DB) *SalesGormRepository {
	return &SalesGormRepository{db: db}
}

// ヘッダと明細を作成。IDは引数に書き戻す
func (r *SalesGormRepository) Create(ctx context.Context, st *model.SalesTransaction) error {
	if err := r.db.WithContext(ctx).Create(st).Error; err != nil {
		return translate(err)
	}
	return nil
}

func (r *SalesGormRepository) FindByIdempotencyKey(ctx context.Context, customerID int64, key string) (model.SalesTransaction, bool, error) {
	var st model.SalesTransaction
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id asc") }).
		Where("customer_id = ? AND idempotency_key = ?", customerID, key).
		First(&st).Error

	if isNotFound(err) {
		return model.SalesTransaction{}, false, nil
	}
	if err != nil {
		return model.SalesTransaction{}, false, err
	}
	return st, true, nil
}

// 新しい順
func (r *SalesGormRepository) ListByCustomerID(ctx context.Context, customerID int64) ([]model.SalesTransaction, error) {
	var list []model.SalesTransaction
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id asc") }).
		Where("customer_id = ?", customerID).
		Order("transaction_date desc").
		Order("id desc").
		Find(&list).Error
	if err != nil {
		return []model.SalesTransaction{}, err
	}
	return list, nil
}
