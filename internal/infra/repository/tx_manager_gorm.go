package repository

import (
	"context"

	repo "bookstore/internal/repository"

	"gorm.io/gorm"
)

type txReposGorm struct {
	users           repo.UserRepository
	books           repo.BookRepository
	carts           repo.CartRepository
	cartItems       repo.CartItemRepository
	inventory       repo.InventoryRepository
	sales           repo.SalesRepository
	publisherOrders repo.PublisherOrderRepository
	auditLogs       repo.AuditLogRepository
}

func (r *txReposGorm) Users() repo.UserRepository                     { return r.users }
func (r *txReposGorm) Books() repo.BookRepository                     { return r.books }
func (r *txReposGorm) Carts() repo.CartRepository                     { return r.carts }
func (r *txReposGorm) CartItems() repo.CartItemRepository             { return r.cartItems }
func (r *txReposGorm) Inventory() repo.InventoryRepository            { return r.inventory }
func (r *txReposGorm) Sales() repo.SalesRepository                    { return r.sales }
func (r *txReposGorm) PublisherOrders() repo.PublisherOrderRepository { return r.publisherOrders }
func (r *txReposGorm) AuditLogs() repo.AuditLogRepository             { return r.auditLogs }

type TxManagerGorm struct {
	db *gorm.DB
}

func NewTxManagerGorm(db *gorm.DB) *TxManagerGorm {
	return &TxManagerGorm{db: db}
}

// gormのTransactionはerror/panicでrollbackする
func (tm *TxManagerGorm) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return tm.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		//repoはtxを持ったDBで作り直す
		cart := NewCartGormRepository(tx)
		r := &txReposGorm{
			users:           NewUserGormRepository(tx),
			books:           NewBookGormRepository(tx),
			carts:           cart,
			cartItems:       cart,
			inventory:       NewInventoryGormRepository(tx),
			sales:           NewSalesGormRepository(tx),
			publisherOrders: NewPublisherOrderGormRepository(tx),
			auditLogs:       NewAuditLogGormRepository(tx),
		}
		return fn(r)
	})
}
