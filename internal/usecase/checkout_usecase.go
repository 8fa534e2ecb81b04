package usecase

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"bookstore/internal/domain/model"
	repo "bookstore/internal/repository"
)

// 自動発注のデフォルト冊数
const DefaultReorderQuantity int64 = 20

type CheckoutUsecase struct {
	tx         repo.TransactionManager
	carts      repo.CartRepository
	items      repo.CartItemRepository
	sales      repo.SalesRepository
	ids        IDGenerator
	clock      Clock
	events     EventPublisher
	cache      CatalogCache
	reorderQty int64
}

func NewCheckoutUsecase(
	tx repo.TransactionManager,
	carts repo.CartRepository,
	items repo.CartItemRepository,
	sales repo.SalesRepository,
	ids IDGenerator,
	clock Clock,
	events EventPublisher,
	cache CatalogCache,
	reorderQty int64,
) *CheckoutUsecase {
	if reorderQty <= 0 {
		reorderQty = DefaultReorderQuantity
	}
	return &CheckoutUsecase{
		tx:         tx,
		carts:      carts,
		items:      items,
		sales:      sales,
		ids:        ids,
		clock:      clock,
		events:     events,
		cache:      cache,
		reorderQty: reorderQty,
	}
}

// 確認画面。Token は二重送信防止のキー
type CheckoutPreview struct {
	CartView
	Token string
}

type PlaceOrderInput struct {
	CardNumber string
	CardExpiry string
	Token      string
}

type PlaceOrderOutput struct {
	Transaction model.SalesTransaction
	// 同じTokenの再送だった
	Replayed bool
	Reorders []model.PublisherOrder
}

var (
	cardExpiryMMYY    = regexp.MustCompile(`^(0[1-9]|1[0-2])/[0-9]{2}$`)
	cardExpiryYYYYMM  = regexp.MustCompile(`^[0-9]{4}-(0[1-9]|1[0-2])$`)
	cardNumberPattern = regexp.MustCompile(`^[0-9]{12,19}$`)
)

func (u *CheckoutUsecase) Preview(ctx context.Context, id model.Identity) (CheckoutPreview, error) {
	if err := Authorize(id, model.CanShop); err != nil {
		return CheckoutPreview{}, err
	}

	view, err := u.loadCart(ctx, id.UserID)
	if err != nil {
		return CheckoutPreview{}, err
	}
	if view.IsEmpty() {
		return CheckoutPreview{}, NewAppError(KindBusinessRule, "Your cart is empty")
	}

	return CheckoutPreview{CartView: view, Token: u.ids.NewID()}, nil
}

// 注文確定。全部1トランザクション
func (u *CheckoutUsecase) PlaceOrder(ctx context.Context, id model.Identity, in PlaceOrderInput) (PlaceOrderOutput, error) {
	if err := Authorize(id, model.CanShop); err != nil {
		return PlaceOrderOutput{}, err
	}

	//スペースとハイフンを除く
	card := strings.NewReplacer(" ", "", "-", "").Replace(in.CardNumber)
	if !cardNumberPattern.MatchString(card) {
		return PlaceOrderOutput{}, NewAppError(KindValidation, "Invalid credit card number")
	}
	expiry := strings.TrimSpace(in.CardExpiry)
	if !cardExpiryMMYY.MatchString(expiry) && !cardExpiryYYYYMM.MatchString(expiry) {
		return PlaceOrderOutput{}, NewAppError(KindValidation, "Invalid card expiration date")
	}
	token := strings.TrimSpace(in.Token)
	if token == "" || len(token) > 64 {
		return PlaceOrderOutput{}, NewAppError(KindValidation, "Checkout session expired. Please try again.")
	}

	var out PlaceOrderOutput
	now := u.clock.Now()

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		// 同じキーなら同じ結果
		existing, found, err := r.Sales().FindByIdempotencyKey(ctx, id.UserID, token)
		if err != nil {
			return err
		}
		if found {
			out = PlaceOrderOutput{Transaction: existing, Replayed: true}
			return nil
		}

		cart, err := r.Carts().FindByCustomerID(ctx, id.UserID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewAppError(KindBusinessRule, "Your cart is empty")
		}
		if err != nil {
			return err
		}

		lines, err := r.CartItems().ListLines(ctx, cart.ID)
		if err != nil {
			return err
		}
		if len(lines) == 0 {
			return NewAppError(KindBusinessRule, "Your cart is empty")
		}

		for _, l := range lines {
			if l.Quantity > l.StockQuantity {
				return insufficientStock(l.ISBN)
			}
		}

		st := model.SalesTransaction{
			CustomerID:       id.UserID,
			TransactionDate:  now,
			TotalAmount:      newCartView(lines).Total,
			PaymentReference: maskCardNumber(card),
			CardExpiry:       expiry,
			IdempotencyKey:   token,
			Items:            make([]model.SaleItem, 0, len(lines)),
		}
		for _, l := range lines {
			//価格は販売時点で固定
			st.Items = append(st.Items, model.SaleItem{
				ISBN:          l.ISBN,
				TitleSnapshot: l.Title,
				QuantitySold:  l.Quantity,
				PriceAtSale:   l.Price,
			})
		}
		if err := r.Sales().Create(ctx, &st); err != nil {
			if errors.Is(err, repo.ErrDuplicate) {
				return NewAppError(KindBusinessRule, "This order has already been placed.")
			}
			return err
		}

		//在庫を確定時に再チェックして減らす
		for _, l := range lines {
			ok, err := r.Inventory().DecreaseStockIfEnough(ctx, l.ISBN, l.Quantity)
			if err != nil {
				return err
			}
			if !ok {
				return insufficientStock(l.ISBN)
			}
		}

		reorders, err := u.reorderLowStock(ctx, r, lines, now)
		if err != nil {
			return err
		}

		if err := r.Carts().Clear(ctx, cart.ID); err != nil {
			return err
		}

		out = PlaceOrderOutput{Transaction: st, Reorders: reorders}
		return nil
	})
	if err != nil {
		return PlaceOrderOutput{}, PersistenceError(ctx, "Error processing order. Please try again.", err)
	}

	if !out.Replayed {
		evs := []Event{u.saleCompletedEvent(out.Transaction, now)}
		for _, po := range out.Reorders {
			evs = append(evs, publisherOrderEvent(u.ids.NewID(), EventPublisherOrderCreated, po, now))
		}
		publishAll(ctx, u.events, evs...)
		invalidateCatalog(ctx, u.cache)
	}

	return out, nil
}

// 在庫がしきい値を下回り、Pendingの発注が無ければ出版社に発注する
func (u *CheckoutUsecase) reorderLowStock(ctx context.Context, r repo.TxRepos, lines []model.CartLine, now time.Time) ([]model.PublisherOrder, error) {
	var created []model.PublisherOrder

	for _, l := range lines {
		book, err := r.Books().FindByISBN(ctx, l.ISBN)
		if err != nil {
			return nil, err
		}
		if book.StockQuantity >= book.StockThreshold {
			continue
		}

		pending, err := r.PublisherOrders().HasPendingForISBN(ctx, l.ISBN)
		if err != nil {
			return nil, err
		}
		if pending {
			continue
		}

		po := model.PublisherOrder{
			PublisherID: book.PublisherID,
			OrderDate:   now,
			Status:      model.PublisherOrderPending,
			Items: []model.PublisherOrderItem{
				{ISBN: l.ISBN, QuantityOrdered: u.reorderQty},
			},
		}
		if err := r.PublisherOrders().Create(ctx, &po); err != nil {
			return nil, err
		}
		created = append(created, po)
	}
	return created, nil
}

// 注文履歴（新しい順）
func (u *CheckoutUsecase) ListMyOrders(ctx context.Context, id model.Identity) ([]model.SalesTransaction, error) {
	if err := Authorize(id, model.CanShop); err != nil {
		return nil, err
	}

	list, err := u.sales.ListByCustomerID(ctx, id.UserID)
	if err != nil {
		return nil, PersistenceError(ctx, "Could not load orders. Please try again.", err)
	}
	return list, nil
}

func (u *CheckoutUsecase) loadCart(ctx context.Context, customerID int64) (CartView, error) {
	cart, err := u.carts.FindByCustomerID(ctx, customerID)
	if errors.Is(err, repo.ErrNotFound) {
		return newCartView(nil), nil
	}
	if err != nil {
		return CartView{}, PersistenceError(ctx, "Could not load cart. Please try again.", err)
	}

	lines, err := u.items.ListLines(ctx, cart.ID)
	if err != nil {
		return CartView{}, PersistenceError(ctx, "Could not load cart. Please try again.", err)
	}
	return newCartView(lines), nil
}

func (u *CheckoutUsecase) saleCompletedEvent(st model.SalesTransaction, now time.Time) Event {
	p := SaleCompletedPayload{
		TransactionID: st.ID,
		CustomerID:    st.CustomerID,
		Total:         st.TotalAmount.StringFixed(2),
	}
	for _, it := range st.Items {
		p.Items = append(p.Items, SaleLinePayload{ISBN: it.ISBN, Quantity: it.QuantitySold, Price: it.PriceAtSale.StringFixed(2)})
	}
	return Event{ID: u.ids.NewID(), Type: EventSaleCompleted, OccurredAt: now, Payload: p}
}

func insufficientStock(isbn string) error {
	return NewAppError(KindBusinessRule, fmt.Sprintf("Insufficient stock for %s", isbn))
}

// 下4桁だけ残す
func maskCardNumber(card string) string {
	if len(card) < 4 {
		return "****"
	}
	return "**** **** **** " + card[len(card)-4:]
}
