package testutil

import (
	"path/filepath"
	"testing"
	"time"

	"bookstore/internal/domain/model"
	"bookstore/internal/infra/db"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// テスト毎に一時ディレクトリにsqliteを作ってマイグレーションする
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	gdb, err := db.OpenSQLite(path, &gorm.Config{
		Logger:  logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))

	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return gdb
}

func SeedPublisher(t *testing.T, gdb *gorm.DB, name string) model.Publisher {
	t.Helper()
	p := model.Publisher{Name: name, Address: "1 Main St", Phone: "555-0100"}
	require.NoError(t, gdb.Create(&p).Error)
	return p
}

func SeedAuthor(t *testing.T, gdb *gorm.DB, first, last string) model.Author {
	t.Helper()
	a := model.Author{FirstName: first, LastName: last}
	require.NoError(t, gdb.Create(&a).Error)
	return a
}

// price は "12.50" のような文字列
func SeedBook(t *testing.T, gdb *gorm.DB, isbn, title, price string, stock, threshold int64, pub model.Publisher, authors ...model.Author) model.Book {
	t.Helper()
	now := time.Now().UTC()
	b := model.Book{
		ISBN:            isbn,
		Title:           title,
		PublicationYear: 2020,
		Price:           decimal.RequireFromString(price),
		Category:        model.CategoryScience,
		PublisherID:     pub.ID,
		StockQuantity:   stock,
		StockThreshold:  threshold,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	require.NoError(t, gdb.Omit("Publisher").Create(&b).Error)
	for _, a := range authors {
		require.NoError(t, gdb.Create(&model.BookAuthor{ISBN: isbn, AuthorID: a.ID}).Error)
	}
	return b
}

// 顧客（user + customer + cart）
func SeedCustomer(t *testing.T, gdb *gorm.DB, username string) model.User {
	t.Helper()
	u := model.User{
		Username:     username,
		PasswordHash: "x",
		FirstName:    "First" + username,
		LastName:     "Last",
		Email:        username + "@example.com",
		Role:         model.RoleCustomer,
	}
	require.NoError(t, gdb.Create(&u).Error)
	require.NoError(t, gdb.Create(&model.Customer{UserID: u.ID, CreatedAt: time.Now().UTC()}).Error)
	now := time.Now().UTC()
	require.NoError(t, gdb.Create(&model.Cart{CustomerID: u.ID, CreatedAt: now, UpdatedAt: now}).Error)
	return u
}

func SeedAdmin(t *testing.T, gdb *gorm.DB, username string) model.User {
	t.Helper()
	u := model.User{
		Username:     username,
		PasswordHash: "x",
		FirstName:    "Admin",
		LastName:     username,
		Email:        username + "@example.com",
		Role:         model.RoleAdmin,
	}
	require.NoError(t, gdb.Create(&u).Error)
	return u
}

func IdentityOf(u model.User) model.Identity {
	return model.Identity{UserID: u.ID, Username: u.Username, Role: u.Role, TokenVersion: u.TokenVersion}
}

// 固定時刻の時計
type FixedClock struct {
	T time.Time
}

func (c *FixedClock) Now() time.Time { return c.T }
