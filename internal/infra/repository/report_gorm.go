package repository

import (
	"context"
	"fmt"
	"time"

	"bookstore/internal/domain/model"
	repo "bookstore/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ReportGormRepository struct {
	db *gorm.DB
}

func NewReportGormRepository(db *gorm.DB) *ReportGormRepository {
	return &ReportGormRepository{db: db}
}

// 期間内の売上合計
func (r *ReportGormRepository) SalesTotal(ctx context.Context, p repo.Period) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	err := r.db.WithContext(ctx).
		Model(&model.SalesTransaction{}).
		Select("SUM(total_amount)").
		Where("transaction_date >= ? AND transaction_date < ?", p.From, p.To).
		Row().Scan(&total)
	if err != nil {
		return decimal.Zero, err
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal.Round(2), nil
}

// 購入額の多い顧客
func (r *ReportGormRepository) TopCustomers(ctx context.Context, p repo.Period, limit int) ([]model.CustomerSpend, error) {
	var rows []model.CustomerSpend
	err := r.db.WithContext(ctx).
		Table("sales_transactions st").
		Select("u.username AS username, u.first_name AS first_name, u.last_name AS last_name, SUM(st.total_amount) AS total_spent").
		Joins("JOIN users u ON u.id = st.customer_id").
		Where("st.transaction_date >= ? AND st.transaction_date < ?", p.From, p.To).
		Group("u.id, u.username, u.first_name, u.last_name").
		Order("total_spent desc").
		Order("u.username asc").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return []model.CustomerSpend{}, err
	}

	for i := range rows {
		rows[i].Rank = i + 1
		rows[i].TotalSpent = rows[i].TotalSpent.Round(2)
	}
	return rows, nil
}

// 販売冊数の多い書籍
func (r *ReportGormRepository) TopBooks(ctx context.Context, p repo.Period, limit int) ([]model.BookSales, error) {
	var rows []model.BookSales
	err := r.db.WithContext(ctx).
		Table("sale_items si").
		Select("si.isbn AS isbn, b.title AS title, SUM(si.quantity_sold) AS copies_sold").
		Joins("JOIN sales_transactions st ON st.id = si.transaction_id").
		Joins("JOIN books b ON b.isbn = si.isbn").
		Where("st.transaction_date >= ? AND st.transaction_date < ?", p.From, p.To).
		Group("si.isbn, b.title").
		Order("copies_sold desc").
		Order("si.isbn asc").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return []model.BookSales{}, err
	}
	return rows, nil
}

// MAX(日付)はドライバで型が変わる。pgxはtime.Time、sqliteはTEXT
var orderDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02T15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

func parseOrderDate(raw string) (time.Time, error) {
	var lastErr error
	for _, layout := range orderDateLayouts {
		t, err := time.Parse(layout, raw)
		if err == nil {
			return t.UTC(), nil
		}
		lastErr = err
	}
	return time.Time{}, fmt.Errorf("parse order date %q: %w", raw, lastErr)
}

// 発注実績のある書籍。回数は発注書単位で数える
func (r *ReportGormRepository) Replenishments(ctx context.Context) ([]model.Replenishment, error) {
	rows, err := r.db.WithContext(ctx).
		Table("publisher_order_items oi").
		Select("b.isbn, b.title, COUNT(DISTINCT po.id) AS times_ordered, MAX(po.order_date) AS last_order_date").
		Joins("JOIN publisher_orders po ON po.id = oi.order_id").
		Joins("JOIN books b ON b.isbn = oi.isbn").
		Group("b.isbn, b.title").
		Order("times_ordered desc").
		Order("b.isbn asc").
		Rows()
	if err != nil {
		return []model.Replenishment{}, err
	}
	defer rows.Close()

	out := []model.Replenishment{}
	for rows.Next() {
		var (
			rep  model.Replenishment
			last string
		)
		// *stringへのScanはtime.TimeならRFC3339Nanoで入る
		if err := rows.Scan(&rep.ISBN, &rep.Title, &rep.TimesOrdered, &last); err != nil {
			return []model.Replenishment{}, err
		}
		if rep.LastOrderDate, err = parseOrderDate(last); err != nil {
			return []model.Replenishment{}, err
		}
		out = append(out, rep)
	}
	if err := rows.Err(); err != nil {
		return []model.Replenishment{}, err
	}
	return out, nil
}
