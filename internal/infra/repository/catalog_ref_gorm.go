package repository

import (
	"context"

	"bookstore/internal/domain/model"

	"gorm.io/gorm"
)

type AuthorGormRepository struct {
	db *gorm.DB
}

func NewAuthorGormRepository(db *gorm.DB) *AuthorGormRepository {
	return &AuthorGormRepository{db: db}
}

// 姓・名の順
func (r *AuthorGormRepository) ListAll(ctx context.Context) ([]model.Author, error) {
	var authors []model.Author
	if err := r.db.WithContext(ctx).Order("last_name asc").Order("first_name asc").Find(&authors).Error; err != nil {
		return []model.Author{}, err
	}
	return authors, nil
}

func (r *AuthorGormRepository) CountByIDs(ctx context.Context, ids []int64) (int64, error) {
	var n int64
	if len(ids) == 0 {
		return 0, nil
	}
	err := r.db.WithContext(ctx).Model(&model.Author{}).Where("id IN ?", ids).Count(&n).Error
	return n, err
}

type PublisherGormRepository struct {
	db *gorm.DB
}

func NewPublisherGormRepository(db *gorm.DB) *PublisherGormRepository {
	return &PublisherGormRepository{db: db}
}

func (r *PublisherGormRepository) ListAll(ctx context.Context) ([]model.Publisher, error) {
	var pubs []model.Publisher
	if err := r.db.WithContext(ctx).Order("name asc").Find(&pubs).Error; err != nil {
		return []model.Publisher{}, err
	}
	return pubs, nil
}

func (r *PublisherGormRepository) FindByID(ctx context.Context, id int64) (model.Publisher, error) {
	var p model.Publisher
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		return model.Publisher{}, translate(err)
	}
	return p, nil
}
