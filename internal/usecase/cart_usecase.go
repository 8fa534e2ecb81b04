package usecase

import (
	"context"
	"errors"
	"strings"

	"bookstore/internal/domain/model"
	repo "bookstore/internal/repository"

	"github.com/shopspring/decimal"
)

// 在庫超過の通知
const noticeStockExceeded = "Cannot add more items than available in stock"

// CartUsecase は /cart の業務ロジックです。
type CartUsecase struct {
	tx    repo.TransactionManager
	carts repo.CartRepository
	items repo.CartItemRepository
}

func NewCartUsecase(
	tx repo.TransactionManager,
	carts repo.CartRepository,
	items repo.CartItemRepository,
) *CartUsecase {
	return &CartUsecase{
		tx:    tx,
		carts: carts,
		items: items,
	}
}

// 数量変更の種類
type QuantityAction string

const (
	QuantityIncrease QuantityAction = "increase"
	QuantityDecrease QuantityAction = "decrease"
)

// 数量変更の結果
type CartChange string

const (
	CartQuantityUpdated CartChange = "updated"
	CartItemRemoved     CartChange = "removed"
)

// 画面表示用
type CartView struct {
	Lines     []model.CartLine
	Total     decimal.Decimal
	ItemCount int
}

func (v CartView) IsEmpty() bool {
	return len(v.Lines) == 0
}

func newCartView(lines []model.CartLine) CartView {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Subtotal())
	}
	return CartView{Lines: lines, Total: total, ItemCount: len(lines)}
}

// カート取得（無ければ空）
func (u *CartUsecase) GetCart(ctx context.Context, id model.Identity) (CartView, error) {
	if err := Authorize(id, model.CanShop); err != nil {
		return CartView{}, err
	}

	cart, err := u.carts.FindByCustomerID(ctx, id.UserID)
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

// カートに追加（同じ本は数量加算）。合計が在庫を超えるなら変更しない
func (u *CartUsecase) AddToCart(ctx context.Context, id model.Identity, isbn string, qty int64) error {
	if err := Authorize(id, model.CanShop); err != nil {
		return err
	}
	isbn = strings.TrimSpace(isbn)
	if isbn == "" {
		return NewAppError(KindValidation, "Please choose a book.")
	}
	if qty < 1 {
		return NewAppError(KindValidation, "Quantity must be at least 1")
	}

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		book, err := r.Books().FindByISBN(ctx, isbn)
		if errors.Is(err, repo.ErrNotFound) {
			return NewAppError(KindNotFound, "Book not found")
		}
		if err != nil {
			return err
		}

		//カートが無ければここで作る
		cart, err := r.Carts().GetOrCreateByCustomerID(ctx, id.UserID)
		if err != nil {
			return err
		}

		item, err := r.CartItems().FindByCartAndISBN(ctx, cart.ID, isbn)
		switch {
		case err == nil:
			newQty := item.Quantity + qty
			if newQty > book.StockQuantity {
				return NewAppError(KindBusinessRule, noticeStockExceeded)
			}
			return r.CartItems().UpdateQuantity(ctx, cart.ID, isbn, newQty)
		case errors.Is(err, repo.ErrNotFound):
			if qty > book.StockQuantity {
				return NewAppError(KindBusinessRule, noticeStockExceeded)
			}
			return r.CartItems().Insert(ctx, model.CartItem{CartID: cart.ID, ISBN: isbn, Quantity: qty})
		default:
			return err
		}
	})
	if err != nil {
		return PersistenceError(ctx, "Error adding to cart. Please try again.", err)
	}
	return nil
}

// +1 / -1。1未満になったら明細を消す
func (u *CartUsecase) ChangeQuantity(ctx context.Context, id model.Identity, isbn string, action QuantityAction) (CartChange, error) {
	if err := Authorize(id, model.CanShop); err != nil {
		return "", err
	}
	if action != QuantityIncrease && action != QuantityDecrease {
		return "", NewAppError(KindValidation, "Invalid cart action")
	}
	isbn = strings.TrimSpace(isbn)

	var change CartChange
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		cart, err := r.Carts().FindByCustomerID(ctx, id.UserID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewAppError(KindNotFound, "Item not found in cart")
		}
		if err != nil {
			return err
		}

		item, err := r.CartItems().FindByCartAndISBN(ctx, cart.ID, isbn)
		if errors.Is(err, repo.ErrNotFound) {
			return NewAppError(KindNotFound, "Item not found in cart")
		}
		if err != nil {
			return err
		}

		if action == QuantityDecrease {
			if item.Quantity-1 < 1 {
				change = CartItemRemoved
				return r.CartItems().Delete(ctx, cart.ID, isbn)
			}
			change = CartQuantityUpdated
			return r.CartItems().UpdateQuantity(ctx, cart.ID, isbn, item.Quantity-1)
		}

		book, err := r.Books().FindByISBN(ctx, isbn)
		if err != nil {
			return err
		}
		if item.Quantity+1 > book.StockQuantity {
			return NewAppError(KindBusinessRule, noticeStockExceeded)
		}
		change = CartQuantityUpdated
		return r.CartItems().UpdateQuantity(ctx, cart.ID, isbn, item.Quantity+1)
	})
	if err != nil {
		return "", PersistenceError(ctx, "Error updating cart. Please try again.", err)
	}
	return change, nil
}

// 明細削除。無くてもエラーにしない
func (u *CartUsecase) RemoveItem(ctx context.Context, id model.Identity, isbn string) error {
	if err := Authorize(id, model.CanShop); err != nil {
		return err
	}

	cart, err := u.carts.FindByCustomerID(ctx, id.UserID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil
	}
	if err != nil {
		return PersistenceError(ctx, "Error updating cart. Please try again.", err)
	}

	err = u.items.Delete(ctx, cart.ID, strings.TrimSpace(isbn))
	if err != nil && !errors.Is(err, repo.ErrNotFound) {
		return PersistenceError(ctx, "Error updating cart. Please try again.", err)
	}
	return nil
}
