package auth

import (
	"context"
	"time"

	"bookstore/internal/domain/model"
)

// 平文パスワードからハッシュへ。
type PasswordHasher interface {
	Hash(plain string) (string, error)
}

// 入力パスワードと保存したハッシュを比べる約束
type PasswordVerifier interface {
	Verify(plain string, hashed string) bool
}

// セッショントークンを発行する約束
type SessionIssuer interface {
	Issue(user model.User, now time.Time) (token string, expiresAt time.Time, err error)
}

// フォームの検証（重複チェックはDBを見る）
type Validator interface {
	ValidateRegister(ctx context.Context, in RegisterUserInput) error
	ValidateProfile(ctx context.Context, userID int64, in UpdateProfileInput) error
	ValidateLogin(ctx context.Context, username string, password string) error
}
