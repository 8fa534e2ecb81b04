package usecase_test

import (
	"context"
	"strconv"
	"testing"

	"bookstore/internal/domain/model"
	"bookstore/internal/testutil"
	"bookstore/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validBook(pub model.Publisher, authors ...model.Author) usecase.AddBookInput {
	in := usecase.AddBookInput{
		ISBN:            "9780140449136",
		Title:           "The Odyssey",
		Category:        "History",
		PublicationYear: 1999,
		PublisherID:     pub.ID,
		Price:           "14.95",
		Stock:           7,
		Threshold:       2,
	}
	for _, a := range authors {
		in.AuthorIDs = append(in.AuthorIDs, a.ID)
	}
	return in
}

func TestAddBook(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	pub := testutil.SeedPublisher(t, e.db, "Penguin")
	homer := testutil.SeedAuthor(t, e.db, "Homer", "")
	fagles := testutil.SeedAuthor(t, e.db, "Robert", "Fagles")
	admin := testutil.IdentityOf(testutil.SeedAdmin(t, e.db, "root"))

	in := validBook(pub, homer, fagles, homer)
	b, err := e.adminBook.AddBook(ctx, admin, in)
	require.NoError(t, err)
	assert.Equal(t, "14.95", b.Price.StringFixed(2))

	book, err := e.catalog.BookDetails(ctx, "9780140449136")
	require.NoError(t, err)
	assert.Len(t, book.Authors, 2)
	assert.Equal(t, "Penguin", book.Publisher.Name)

	var adj []model.InventoryAdjustment
	require.NoError(t, e.db.Find(&adj).Error)
	require.Len(t, adj, 1)
	assert.Equal(t, int64(7), adj[0].Delta)

	var logs []model.AuditLog
	require.NoError(t, e.db.Find(&logs).Error)
	require.Len(t, logs, 1)
	assert.Equal(t, model.AuditActionCreateBook, logs[0].Action)
	assert.Equal(t, 1, e.cache.invalidated)

	_, err = e.adminBook.AddBook(ctx, admin, in)
	assert.Equal(t, "A book with this ISBN already exists", noticeOf(err))
}

func TestAddBook_NeedsAnAuthor(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	pub := testutil.SeedPublisher(t, e.db, "Penguin")
	admin := testutil.IdentityOf(testutil.SeedAdmin(t, e.db, "root"))

	_, err := e.adminBook.AddBook(ctx, admin, validBook(pub))
	assert.Equal(t, usecase.KindValidation, kindOf(err))
	assert.Equal(t, "Error: At least one author must be selected", noticeOf(err))

	var n int64
	require.NoError(t, e.db.Model(&model.Book{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestAddBook_Validation(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	pub := testutil.SeedPublisher(t, e.db, "Penguin")
	homer := testutil.SeedAuthor(t, e.db, "Homer", "")
	admin := testutil.IdentityOf(testutil.SeedAdmin(t, e.db, "root"))

	cases := []struct {
		name   string
		mutate func(*usecase.AddBookInput)
		notice string
	}{
		{"category", func(in *usecase.AddBookInput) { in.Category = "Cooking" }, "Invalid category"},
		{"year", func(in *usecase.AddBookInput) { in.PublicationYear = 3000 }, "Invalid publication year"},
		{"price text", func(in *usecase.AddBookInput) { in.Price = "abc" }, "Invalid price"},
		{"negative price", func(in *usecase.AddBookInput) { in.Price = "-1" }, "Price must not be negative"},
		{"price precision", func(in *usecase.AddBookInput) { in.Price = "1.999" }, "Price must have at most 2 decimal places"},
		{"publisher", func(in *usecase.AddBookInput) { in.PublisherID = 999 }, "Unknown publisher"},
		{"author", func(in *usecase.AddBookInput) { in.AuthorIDs = append(in.AuthorIDs, 999) }, "Unknown author selected"},
		{"title", func(in *usecase.AddBookInput) { in.Title = " " }, "Title is required"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validBook(pub, homer)
			tc.mutate(&in)
			_, err := e.adminBook.AddBook(ctx, admin, in)
			assert.Equal(t, tc.notice, noticeOf(err))
		})
	}
}

func TestUpdateBook(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	pub := testutil.SeedPublisher(t, e.db, "Penguin")
	testutil.SeedBook(t, e.db, "978-1", "Physics", "20.00", 10, 2, pub)
	admin := testutil.IdentityOf(testutil.SeedAdmin(t, e.db, "root"))

	require.NoError(t, e.adminBook.UpdateBook(ctx, admin, usecase.UpdateBookInput{ISBN: "978-1", Stock: 4, Price: "22.50", Reason: "damaged copies"}))

	var b model.Book
	require.NoError(t, e.db.First(&b, "isbn = ?", "978-1").Error)
	assert.Equal(t, int64(4), b.StockQuantity)
	assert.Equal(t, "22.50", b.Price.StringFixed(2))

	var adj model.InventoryAdjustment
	require.NoError(t, e.db.First(&adj).Error)
	assert.Equal(t, int64(-6), adj.Delta)
	assert.Equal(t, "damaged copies", adj.Reason)
	assert.Equal(t, admin.UserID, adj.AdminUserID)

	var log model.AuditLog
	require.NoError(t, e.db.First(&log).Error)
	assert.Equal(t, model.AuditActionUpdateBook, log.Action)
	assert.JSONEq(t, `{"stock_quantity":10,"price":"20.00"}`, log.BeforeJSON)
	assert.JSONEq(t, `{"stock_quantity":4,"price":"22.50"}`, log.AfterJSON)

	// 管理画面の最近の変更に出る
	view, err := e.adminBook.ListBooks(ctx, admin, "", "")
	require.NoError(t, err)
	require.Len(t, view.RecentChanges, 1)
	assert.Equal(t, "978-1", view.RecentChanges[0].ResourceID)
	assert.Equal(t, model.AuditActionUpdateBook, view.RecentChanges[0].Action)

	err = e.adminBook.UpdateBook(ctx, admin, usecase.UpdateBookInput{ISBN: "nope", Stock: 1, Price: "1.00"})
	assert.Equal(t, usecase.KindNotFound, kindOf(err))

	err = e.adminBook.UpdateBook(ctx, admin, usecase.UpdateBookInput{ISBN: "978-1", Stock: -1, Price: "1.00"})
	assert.Equal(t, usecase.KindValidation, kindOf(err))
}

func TestListBooks(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	pub := testutil.SeedPublisher(t, e.db, "Penguin")
	for i := 1; i <= 3; i++ {
		testutil.SeedBook(t, e.db, "978-"+strconv.Itoa(i), "Book "+strconv.Itoa(i), "10.00", 1, 0, pub)
	}
	testutil.SeedAuthor(t, e.db, "Homer", "")
	admin := testutil.IdentityOf(testutil.SeedAdmin(t, e.db, "root"))

	view, err := e.adminBook.ListBooks(ctx, admin, "", "")
	require.NoError(t, err)
	assert.Len(t, view.Books, 3)
	assert.Len(t, view.Authors, 1)
	assert.Len(t, view.Publishers, 1)
	assert.Len(t, view.Categories, len(model.BookCategories))
	assert.Empty(t, view.RecentChanges)

	view, err = e.adminBook.ListBooks(ctx, admin, "isbn", "978-2")
	require.NoError(t, err)
	require.Len(t, view.Books, 1)
	assert.Equal(t, "Book 2", view.Books[0].Title)

	cust := testutil.IdentityOf(testutil.SeedCustomer(t, e.db, "alice"))
	_, err = e.adminBook.ListBooks(ctx, cust, "", "")
	assert.Equal(t, usecase.KindForbidden, kindOf(err))
}
