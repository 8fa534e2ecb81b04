package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"bookstore/internal/domain/model"
	repo "bookstore/internal/repository"

	"github.com/shopspring/decimal"
)

const (
	topCustomersLimit = 5
	topBooksLimit     = 10
)

// 期間は全部ここで計算してSQLに渡す（DB方言の日付関数を使わない）
type ReportUsecase struct {
	reports   repo.ReportRepository
	orders    repo.PublisherOrderRepository
	inventory repo.InventoryRepository
	clock     Clock
}

func NewReportUsecase(
	reports repo.ReportRepository,
	orders repo.PublisherOrderRepository,
	inventory repo.InventoryRepository,
	clock Clock,
) *ReportUsecase {
	return &ReportUsecase{reports: reports, orders: orders, inventory: inventory, clock: clock}
}

type Dashboard struct {
	MonthlySales  decimal.Decimal
	PendingOrders int64
	LowStockCount int64
}

type Reports struct {
	LastMonthSales decimal.Decimal
	TopCustomers   []model.CustomerSpend
	TopBooks       []model.BookSales
	Replenishments []model.Replenishment
}

type DailySales struct {
	Date  time.Time
	Total decimal.Decimal
}

// 画面の通知文
func (d DailySales) Notice() string {
	return fmt.Sprintf("Sales for %s: $%s", d.Date.Format(time.DateOnly), d.Total.StringFixed(2))
}

func (u *ReportUsecase) Dashboard(ctx context.Context, id model.Identity) (Dashboard, error) {
	if err := Authorize(id, model.CanAdminister); err != nil {
		return Dashboard{}, err
	}

	sales, err := u.reports.SalesTotal(ctx, CurrentMonth(u.clock.Now()))
	if err != nil {
		return Dashboard{}, PersistenceError(ctx, "Could not load dashboard. Please try again.", err)
	}
	pending, err := u.orders.CountPending(ctx)
	if err != nil {
		return Dashboard{}, PersistenceError(ctx, "Could not load dashboard. Please try again.", err)
	}
	low, err := u.inventory.CountLowStock(ctx)
	if err != nil {
		return Dashboard{}, PersistenceError(ctx, "Could not load dashboard. Please try again.", err)
	}

	return Dashboard{MonthlySales: sales, PendingOrders: pending, LowStockCount: low}, nil
}

func (u *ReportUsecase) Reports(ctx context.Context, id model.Identity) (Reports, error) {
	if err := Authorize(id, model.CanAdminister); err != nil {
		return Reports{}, err
	}

	now := u.clock.Now()
	var out Reports
	var err error

	if out.LastMonthSales, err = u.reports.SalesTotal(ctx, LastMonths(now, 1)); err != nil {
		return Reports{}, PersistenceError(ctx, "Could not load reports. Please try again.", err)
	}
	if out.TopCustomers, err = u.reports.TopCustomers(ctx, LastMonths(now, 3), topCustomersLimit); err != nil {
		return Reports{}, PersistenceError(ctx, "Could not load reports. Please try again.", err)
	}
	if out.TopBooks, err = u.reports.TopBooks(ctx, LastMonths(now, 3), topBooksLimit); err != nil {
		return Reports{}, PersistenceError(ctx, "Could not load reports. Please try again.", err)
	}
	if out.Replenishments, err = u.reports.Replenishments(ctx); err != nil {
		return Reports{}, PersistenceError(ctx, "Could not load reports. Please try again.", err)
	}
	return out, nil
}

// date は YYYY-MM-DD
func (u *ReportUsecase) DailySales(ctx context.Context, id model.Identity, date string) (DailySales, error) {
	if err := Authorize(id, model.CanAdminister); err != nil {
		return DailySales{}, err
	}

	day, err := time.ParseInLocation(time.DateOnly, strings.TrimSpace(date), time.UTC)
	if err != nil {
		return DailySales{}, NewAppError(KindValidation, "Invalid date (use YYYY-MM-DD)")
	}

	total, err := u.reports.SalesTotal(ctx, repo.Period{From: day, To: day.AddDate(0, 0, 1)})
	if err != nil {
		return DailySales{}, PersistenceError(ctx, "Could not load daily sales. Please try again.", err)
	}
	return DailySales{Date: day, Total: total}, nil
}

// 今月1日〜来月1日
func CurrentMonth(now time.Time) repo.Period {
	now = now.UTC()
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	return repo.Period{From: from, To: from.AddDate(0, 1, 0)}
}

// 今日のnか月前の0時〜明日0時
func LastMonths(now time.Time, n int) repo.Period {
	now = now.UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return repo.Period{From: today.AddDate(0, -n, 0), To: today.AddDate(0, 0, 1)}
}
