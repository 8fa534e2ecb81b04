package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 集計結果（読み取り専用）

type CustomerSpend struct {
	Rank       int
	Username   string
	FirstName  string
	LastName   string
	TotalSpent decimal.Decimal
}

func (c CustomerSpend) Name() string {
	return c.FirstName + " " + c.LastName
}

type BookSales struct {
	ISBN       string
	Title      string
	CopiesSold int64
}

type Replenishment struct {
	ISBN          string
	Title         string
	TimesOrdered  int64
	LastOrderDate time.Time
}
