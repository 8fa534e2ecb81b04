package auth

import (
	"context"
	"errors"
	"strings"

	"bookstore/internal/domain/model"
	"bookstore/internal/repository"
	"bookstore/internal/usecase"
)

// 会員登録の入力
type RegisterUserInput struct {
	Username  string
	Password  string
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Address   string
}

// 会員登録の出力
type RegisterUserOutput struct {
	User model.User
}

// RegisterUserUsecaseは会員登録の処理。
type RegisterUserUsecase struct {
	tx        repository.TransactionManager
	validator Validator
	hasher    PasswordHasher
	clock     usecase.Clock
}

// DI
func NewRegisterUserUsecase(
	tx repository.TransactionManager,
	validator Validator,
	hasher PasswordHasher,
	clock usecase.Clock,
) *RegisterUserUsecase {
	return &RegisterUserUsecase{
		tx:        tx,
		validator: validator,
		hasher:    hasher,
		clock:     clock,
	}
}

// 会員登録実行。ユーザー・顧客・カートを1Txで作る
func (u *RegisterUserUsecase) Execute(ctx context.Context, in RegisterUserInput) (RegisterUserOutput, error) {
	var out RegisterUserOutput

	if err := u.validator.ValidateRegister(ctx, in); err != nil {
		return out, wrapErr(ctx, err, "Error creating account. Please try again.")
	}

	user, err := u.newUser(in, model.RoleCustomer)
	if err != nil {
		return out, wrapErr(ctx, err, "Error creating account. Please try again.")
	}

	err = u.tx.WithinTx(ctx, func(r repository.TxRepos) error {
		if err := r.Users().Create(ctx, &user); err != nil {
			return err
		}
		if err := r.Users().CreateCustomer(ctx, user.ID); err != nil {
			return err
		}
		_, err := r.Carts().Create(ctx, user.ID)
		return err
	})
	if errors.Is(err, repository.ErrDuplicate) {
		//検証と保存の間に取られた
		return out, usecase.NewAppError(usecase.KindValidation, "Username or email already registered.")
	}
	if err != nil {
		return out, wrapErr(ctx, err, "Error creating account. Please try again.")
	}

	// 返すときは password を空にして漏洩防止
	user.PasswordHash = ""
	out.User = user
	return out, nil
}

// 管理者を作る（CLI用）。顧客行とカートは作らない
func (u *RegisterUserUsecase) CreateAdmin(ctx context.Context, in RegisterUserInput) (RegisterUserOutput, error) {
	var out RegisterUserOutput

	if err := u.validator.ValidateRegister(ctx, in); err != nil {
		return out, wrapErr(ctx, err, "Error creating admin. Please try again.")
	}

	user, err := u.newUser(in, model.RoleAdmin)
	if err != nil {
		return out, wrapErr(ctx, err, "Error creating admin. Please try again.")
	}

	err = u.tx.WithinTx(ctx, func(r repository.TxRepos) error {
		return r.Users().Create(ctx, &user)
	})
	if errors.Is(err, repository.ErrDuplicate) {
		return out, usecase.NewAppError(usecase.KindValidation, "Username or email already registered.")
	}
	if err != nil {
		return out, wrapErr(ctx, err, "Error creating admin. Please try again.")
	}

	user.PasswordHash = ""
	out.User = user
	return out, nil
}

func (u *RegisterUserUsecase) newUser(in RegisterUserInput, role model.Role) (model.User, error) {
	// パスワードをハッシュ化
	hashed, err := u.hasher.Hash(in.Password)
	if err != nil {
		return model.User{}, err
	}

	now := u.clock.Now()
	return model.User{
		Username:        strings.TrimSpace(in.Username),
		PasswordHash:    hashed, // ハッシュを保存（平文は保存しない）
		FirstName:       strings.TrimSpace(in.FirstName),
		LastName:        strings.TrimSpace(in.LastName),
		Email:           strings.TrimSpace(in.Email),
		Phone:           strings.TrimSpace(in.Phone),
		ShippingAddress: strings.TrimSpace(in.Address),
		Role:            role,
		TokenVersion:    0,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

// AppErrorはそのまま、それ以外はログに残して汎用の文言
func wrapErr(ctx context.Context, err error, notice string) error {
	if _, ok := usecase.AsAppError(err); ok {
		return err
	}
	return usecase.PersistenceError(ctx, notice, err)
}
