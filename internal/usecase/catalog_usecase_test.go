package usecase_test

import (
	"context"
	"testing"

	"bookstore/internal/testutil"
	"bookstore/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewArrivals_InStockOnlyAndLimited(t *testing.T) {
	e := newEnv(t)
	pub := testutil.SeedPublisher(t, e.db, "Pub")
	for _, isbn := range []string{"978-1", "978-2", "978-3", "978-4", "978-5"} {
		testutil.SeedBook(t, e.db, isbn, "Title "+isbn, "10.00", 1, 0, pub)
	}
	testutil.SeedBook(t, e.db, "978-9", "Sold out", "10.00", 0, 0, pub)

	books, err := e.catalog.NewArrivals(context.Background())
	require.NoError(t, err)

	require.Len(t, books, usecase.NewArrivalsLimit)
	for _, b := range books {
		assert.NotEqual(t, "978-9", b.ISBN)
		assert.Positive(t, b.StockQuantity)
	}
}

func TestSearch(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	penguin := testutil.SeedPublisher(t, e.db, "Penguin Books")
	oreilly := testutil.SeedPublisher(t, e.db, "O'Reilly")
	sagan := testutil.SeedAuthor(t, e.db, "Carl", "Sagan")
	knuth := testutil.SeedAuthor(t, e.db, "Donald", "Knuth")
	testutil.SeedBook(t, e.db, "978-1", "Cosmos", "18.00", 3, 0, penguin, sagan)
	testutil.SeedBook(t, e.db, "978-2", "The Art of Computer Programming", "190.00", 1, 0, oreilly, knuth)

	cases := []struct {
		name  string
		typ   string
		query string
		want  []string
	}{
		{"title is case-insensitive", "title", "COSM", []string{"978-1"}},
		{"isbn is exact", "isbn", "978-2", []string{"978-2"}},
		{"isbn partial finds nothing", "isbn", "978", nil},
		{"author full name", "author", "donald knuth", []string{"978-2"}},
		{"publisher", "publisher", "penguin", []string{"978-1"}},
		{"category", "category", "Science", []string{"978-1", "978-2"}},
		{"unknown type falls back to title", "colour", "art of", []string{"978-2"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			books, err := e.catalog.Search(ctx, tc.typ, tc.query)
			require.NoError(t, err)

			var got []string
			for _, b := range books {
				got = append(got, b.ISBN)
			}
			assert.ElementsMatch(t, tc.want, got)
		})
	}
}

func TestBookDetails(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	pub := testutil.SeedPublisher(t, e.db, "Penguin")
	sagan := testutil.SeedAuthor(t, e.db, "Carl", "Sagan")
	testutil.SeedBook(t, e.db, "978-1", "Cosmos", "18.00", 3, 0, pub, sagan)

	b, err := e.catalog.BookDetails(ctx, "978-1")
	require.NoError(t, err)
	assert.Equal(t, "Carl Sagan", b.AuthorNames())

	_, err = e.catalog.BookDetails(ctx, "978-404")
	assert.Equal(t, usecase.KindNotFound, kindOf(err))
	assert.Equal(t, "Book not found", noticeOf(err))
}
