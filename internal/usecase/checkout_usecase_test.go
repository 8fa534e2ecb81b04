package usecase_test

import (
	"context"
	"sync"
	"testing"

	"bookstore/internal/domain/model"
	"bookstore/internal/testutil"
	"bookstore/internal/usecase"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func card(token string) usecase.PlaceOrderInput {
	return usecase.PlaceOrderInput{CardNumber: "4111-1111-1111-1234", CardExpiry: "12/30", Token: token}
}

func stockOf(t *testing.T, e *env, isbn string) int64 {
	t.Helper()
	var b model.Book
	require.NoError(t, e.db.First(&b, "isbn = ?", isbn).Error)
	return b.StockQuantity
}

func TestPlaceOrder_TotalsAndClearsCart(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	pub := testutil.SeedPublisher(t, e.db, "Pub")
	testutil.SeedBook(t, e.db, "978-1", "Physics", "120.00", 10, 0, pub)
	testutil.SeedBook(t, e.db, "978-2", "Chemistry", "85.50", 10, 0, pub)
	cust := testutil.IdentityOf(testutil.SeedCustomer(t, e.db, "alice"))

	require.NoError(t, e.cart.AddToCart(ctx, cust, "978-1", 2))
	require.NoError(t, e.cart.AddToCart(ctx, cust, "978-2", 1))

	out, err := e.checkout.PlaceOrder(ctx, cust, card("tok-1"))
	require.NoError(t, err)

	assert.True(t, decimal.RequireFromString("325.50").Equal(out.Transaction.TotalAmount))
	assert.Equal(t, "**** **** **** 1234", out.Transaction.PaymentReference)
	assert.Len(t, out.Transaction.Items, 2)
	assert.False(t, out.Replayed)

	// 明細金額の合計 = 取引合計
	sum := decimal.Zero
	for _, it := range out.Transaction.Items {
		sum = sum.Add(it.Amount())
	}
	assert.True(t, sum.Equal(out.Transaction.TotalAmount), "lines %s total %s", sum, out.Transaction.TotalAmount)

	view, err := e.cart.GetCart(ctx, cust)
	require.NoError(t, err)
	assert.True(t, view.IsEmpty())

	assert.Equal(t, int64(8), stockOf(t, e, "978-1"))
	assert.Equal(t, int64(9), stockOf(t, e, "978-2"))

	assert.Equal(t, []string{usecase.EventSaleCompleted}, e.events.types())
	assert.Equal(t, 1, e.cache.invalidated)
}

func TestPlaceOrder_PriceIsFrozenAtSale(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	pub := testutil.SeedPublisher(t, e.db, "Pub")
	testutil.SeedBook(t, e.db, "978-1", "Physics", "20.00", 10, 0, pub)
	cust := testutil.IdentityOf(testutil.SeedCustomer(t, e.db, "alice"))
	admin := testutil.IdentityOf(testutil.SeedAdmin(t, e.db, "root"))

	require.NoError(t, e.cart.AddToCart(ctx, cust, "978-1", 1))
	_, err := e.checkout.PlaceOrder(ctx, cust, card("tok-1"))
	require.NoError(t, err)

	require.NoError(t, e.adminBook.UpdateBook(ctx, admin, usecase.UpdateBookInput{ISBN: "978-1", Stock: 9, Price: "25.00"}))

	orders, err := e.checkout.ListMyOrders(ctx, cust)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	require.Len(t, orders[0].Items, 1)
	assert.Equal(t, "20.00", orders[0].Items[0].PriceAtSale.StringFixed(2))
	assert.Equal(t, "Physics", orders[0].Items[0].TitleSnapshot)
}

func TestPlaceOrder_SameTokenIsReplayed(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	pub := testutil.SeedPublisher(t, e.db, "Pub")
	testutil.SeedBook(t, e.db, "978-1", "Physics", "20.00", 10, 0, pub)
	cust := testutil.IdentityOf(testutil.SeedCustomer(t, e.db, "alice"))

	require.NoError(t, e.cart.AddToCart(ctx, cust, "978-1", 3))
	first, err := e.checkout.PlaceOrder(ctx, cust, card("tok-1"))
	require.NoError(t, err)

	second, err := e.checkout.PlaceOrder(ctx, cust, card("tok-1"))
	require.NoError(t, err)

	assert.True(t, second.Replayed)
	assert.Equal(t, first.Transaction.ID, second.Transaction.ID)
	assert.Equal(t, int64(7), stockOf(t, e, "978-1"))

	var n int64
	require.NoError(t, e.db.Model(&model.SalesTransaction{}).Count(&n).Error)
	assert.Equal(t, int64(1), n)
}

func TestPlaceOrder_InsufficientStockChangesNothing(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	pub := testutil.SeedPublisher(t, e.db, "Pub")
	testutil.SeedBook(t, e.db, "978-1", "Physics", "20.00", 5, 0, pub)
	testutil.SeedBook(t, e.db, "978-2", "Chemistry", "10.00", 5, 0, pub)
	cust := testutil.IdentityOf(testutil.SeedCustomer(t, e.db, "alice"))

	require.NoError(t, e.cart.AddToCart(ctx, cust, "978-1", 1))
	require.NoError(t, e.cart.AddToCart(ctx, cust, "978-2", 4))
	//他の客が先に買った
	require.NoError(t, e.db.Model(&model.Book{}).Where("isbn = ?", "978-2").Update("stock_quantity", 2).Error)

	_, err := e.checkout.PlaceOrder(ctx, cust, card("tok-1"))
	require.Error(t, err)
	assert.Equal(t, usecase.KindBusinessRule, kindOf(err))
	assert.Equal(t, "Insufficient stock for 978-2", noticeOf(err))

	assert.Equal(t, int64(5), stockOf(t, e, "978-1"))
	view, err := e.cart.GetCart(ctx, cust)
	require.NoError(t, err)
	assert.Equal(t, 2, len(view.Lines))

	var n int64
	require.NoError(t, e.db.Model(&model.SalesTransaction{}).Count(&n).Error)
	assert.Zero(t, n)
	assert.Empty(t, e.events.types())
}

func TestPlaceOrder_ConcurrentCheckoutsNeverOversell(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	pub := testutil.SeedPublisher(t, e.db, "Pub")
	testutil.SeedBook(t, e.db, "978-1", "Last copy", "20.00", 1, 0, pub)

	const buyers = 4
	ids := make([]model.Identity, buyers)
	for i := range ids {
		ids[i] = testutil.IdentityOf(testutil.SeedCustomer(t, e.db, string(rune('a'+i))+"-buyer"))
		require.NoError(t, e.cart.AddToCart(ctx, ids[i], "978-1", 1))
	}

	var wg sync.WaitGroup
	errs := make([]error, buyers)
	for i := range ids {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = e.checkout.PlaceOrder(ctx, ids[i], card("tok-"+string(rune('a'+i))))
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.Equal(t, usecase.KindBusinessRule, kindOf(err), err)
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, int64(0), stockOf(t, e, "978-1"))
}

func TestPlaceOrder_ReordersLowStockOnce(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	pub := testutil.SeedPublisher(t, e.db, "Pub")
	testutil.SeedBook(t, e.db, "978-1", "Physics", "20.00", 6, 5, pub)
	cust := testutil.IdentityOf(testutil.SeedCustomer(t, e.db, "alice"))

	require.NoError(t, e.cart.AddToCart(ctx, cust, "978-1", 2))
	out, err := e.checkout.PlaceOrder(ctx, cust, card("tok-1"))
	require.NoError(t, err)

	require.Len(t, out.Reorders, 1)
	assert.Equal(t, model.PublisherOrderPending, out.Reorders[0].Status)
	require.Len(t, out.Reorders[0].Items, 1)
	assert.Equal(t, int64(20), out.Reorders[0].Items[0].QuantityOrdered)
	assert.Equal(t, []string{usecase.EventSaleCompleted, usecase.EventPublisherOrderCreated}, e.events.types())

	//Pendingがあるうちは重ねて発注しない
	require.NoError(t, e.cart.AddToCart(ctx, cust, "978-1", 1))
	out, err = e.checkout.PlaceOrder(ctx, cust, card("tok-2"))
	require.NoError(t, err)
	assert.Empty(t, out.Reorders)

	var n int64
	require.NoError(t, e.db.Model(&model.PublisherOrder{}).Count(&n).Error)
	assert.Equal(t, int64(1), n)
}

func TestPlaceOrder_AtThresholdDoesNotReorder(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	pub := testutil.SeedPublisher(t, e.db, "Pub")
	testutil.SeedBook(t, e.db, "978-1", "Physics", "20.00", 6, 5, pub)
	cust := testutil.IdentityOf(testutil.SeedCustomer(t, e.db, "alice"))

	require.NoError(t, e.cart.AddToCart(ctx, cust, "978-1", 1))
	out, err := e.checkout.PlaceOrder(ctx, cust, card("tok-1"))
	require.NoError(t, err)
	assert.Empty(t, out.Reorders)
}

func TestPlaceOrder_Validation(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	cust := testutil.IdentityOf(testutil.SeedCustomer(t, e.db, "alice"))

	cases := []struct {
		name   string
		in     usecase.PlaceOrderInput
		notice string
	}{
		{"short card", usecase.PlaceOrderInput{CardNumber: "4111", CardExpiry: "12/30", Token: "t"}, "Invalid credit card number"},
		{"letters in card", usecase.PlaceOrderInput{CardNumber: "4111-abcd-1111-1111", CardExpiry: "12/30", Token: "t"}, "Invalid credit card number"},
		{"bad month", usecase.PlaceOrderInput{CardNumber: "4111111111111111", CardExpiry: "13/30", Token: "t"}, "Invalid card expiration date"},
		{"no token", usecase.PlaceOrderInput{CardNumber: "4111111111111111", CardExpiry: "2030-12", Token: " "}, "Checkout session expired. Please try again."},
		{"empty cart", usecase.PlaceOrderInput{CardNumber: "4111111111111111", CardExpiry: "2030-12", Token: "t"}, "Your cart is empty"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := e.checkout.PlaceOrder(ctx, cust, tc.in)
			assert.Equal(t, tc.notice, noticeOf(err))
		})
	}
}

func TestCheckout_RequiresCustomer(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	admin := testutil.IdentityOf(testutil.SeedAdmin(t, e.db, "root"))

	_, err := e.checkout.Preview(ctx, model.Anonymous())
	assert.Equal(t, usecase.KindUnauthorized, kindOf(err))

	_, err = e.checkout.Preview(ctx, admin)
	assert.Equal(t, usecase.KindForbidden, kindOf(err))
	assert.Equal(t, "Access denied. Customer account required.", noticeOf(err))
}

func TestPreview_IssuesToken(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	pub := testutil.SeedPublisher(t, e.db, "Pub")
	testutil.SeedBook(t, e.db, "978-1", "Physics", "20.00", 6, 0, pub)
	cust := testutil.IdentityOf(testutil.SeedCustomer(t, e.db, "alice"))

	_, err := e.checkout.Preview(ctx, cust)
	assert.Equal(t, "Your cart is empty", noticeOf(err))

	require.NoError(t, e.cart.AddToCart(ctx, cust, "978-1", 2))
	p, err := e.checkout.Preview(ctx, cust)
	require.NoError(t, err)
	assert.NotEmpty(t, p.Token)
	assert.Equal(t, "40.00", p.Total.StringFixed(2))
	assert.Equal(t, 1, p.ItemCount)
}
