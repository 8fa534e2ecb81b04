package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"bookstore/internal/domain/model"
	"bookstore/internal/repository"
	"bookstore/internal/usecase"
)

type UpdateProfileInput struct {
	FirstName   string
	LastName    string
	Email       string
	Phone       string
	Address     string
	NewPassword string // 空なら変更しない
}

type UpdateProfileOutput struct {
	User model.User
	// パスワード変更時は他のセッションを無効にして、今のセッションだけ発行し直す
	PasswordChanged bool
	Token           string
	ExpiresAt       time.Time
}

type ProfileUsecase struct {
	tx        repository.TransactionManager
	userRepo  repository.UserRepository
	validator Validator
	hasher    PasswordHasher
	issuer    SessionIssuer
	clock     usecase.Clock
}

func NewProfileUsecase(
	tx repository.TransactionManager,
	userRepo repository.UserRepository,
	validator Validator,
	hasher PasswordHasher,
	issuer SessionIssuer,
	clock usecase.Clock,
) *ProfileUsecase {
	return &ProfileUsecase{
		tx:        tx,
		userRepo:  userRepo,
		validator: validator,
		hasher:    hasher,
		issuer:    issuer,
		clock:     clock,
	}
}

func (u *ProfileUsecase) Get(ctx context.Context, id model.Identity) (model.User, error) {
	if err := usecase.Authorize(id, model.CanSignedIn); err != nil {
		return model.User{}, err
	}

	user, err := u.userRepo.FindByID(ctx, id.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		return model.User{}, usecase.NewAppError(usecase.KindUnauthorized, model.CanSignedIn.Denied)
	}
	if err != nil {
		return model.User{}, wrapErr(ctx, err, "Could not load profile. Please try again.")
	}

	user.PasswordHash = ""
	return user, nil
}

func (u *ProfileUsecase) Update(ctx context.Context, id model.Identity, in UpdateProfileInput) (UpdateProfileOutput, error) {
	var out UpdateProfileOutput

	if err := usecase.Authorize(id, model.CanSignedIn); err != nil {
		return out, err
	}
	if err := u.validator.ValidateProfile(ctx, id.UserID, in); err != nil {
		return out, wrapErr(ctx, err, "Error updating profile. Please try again.")
	}

	var hashed string
	if in.NewPassword != "" {
		h, err := u.hasher.Hash(in.NewPassword)
		if err != nil {
			return out, wrapErr(ctx, err, "Error updating profile. Please try again.")
		}
		hashed = h
	}

	var updated model.User
	err := u.tx.WithinTx(ctx, func(r repository.TxRepos) error {
		user, err := r.Users().FindByID(ctx, id.UserID)
		if err != nil {
			return err
		}

		user.FirstName = strings.TrimSpace(in.FirstName)
		user.LastName = strings.TrimSpace(in.LastName)
		user.Email = strings.TrimSpace(in.Email)
		user.Phone = strings.TrimSpace(in.Phone)
		user.ShippingAddress = strings.TrimSpace(in.Address)
		if hashed != "" {
			user.PasswordHash = hashed
		}
		if err := r.Users().Update(ctx, user); err != nil {
			return err
		}

		//トークンのバージョンを＋１（他の端末はログアウト）
		if hashed != "" {
			if err := r.Users().IncrementTokenVersion(ctx, user.ID); err != nil {
				return err
			}
			user.TokenVersion++
		}
		updated = user
		return nil
	})
	if errors.Is(err, repository.ErrDuplicate) {
		return out, usecase.NewAppError(usecase.KindValidation, "Email already registered.")
	}
	if err != nil {
		return out, wrapErr(ctx, err, "Error updating profile. Please try again.")
	}

	if hashed != "" {
		token, exp, err := u.issuer.Issue(updated, u.clock.Now())
		if err != nil {
			return out, wrapErr(ctx, err, "Error updating profile. Please try again.")
		}
		out.PasswordChanged = true
		out.Token = token
		out.ExpiresAt = exp
	}

	updated.PasswordHash = ""
	out.User = updated
	return out, nil
}
