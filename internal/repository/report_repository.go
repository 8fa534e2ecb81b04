package repository

import (
	"context"
	"time"

	"bookstore/internal/domain/model"

	"github.com/shopspring/decimal"
)

// 期間は [From, To)
type Period struct {
	From time.Time
	To   time.Time
}

// 集計クエリ。期間はusecase側で計算して渡す
type ReportRepository interface {
	SalesTotal(ctx context.Context, p Period) (decimal.Decimal, error)
	TopCustomers(ctx context.Context, p Period, limit int) ([]model.CustomerSpend, error)
	TopBooks(ctx context.Context, p Period, limit int) ([]model.BookSales, error)
	Replenishments(ctx context.Context) ([]model.Replenishment, error)
}
