package validator

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"bookstore/internal/repository"
	"bookstore/internal/usecase"
	auth "bookstore/internal/usecase/auth_usecase"
)

var (
	// 簡易メール形式
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	// 英数字と . _ -
	usernamePattern = regexp.MustCompile(`^[A-Za-z0-9._-]{3,50}$`)
)

const minPasswordLen = 8

type authValidator struct {
	users repository.UserRepository
}

// Usecaseは interface を依存注入
func NewAuthValidator(users repository.UserRepository) auth.Validator {
	return &authValidator{users: users}
}

// サインアップの入力を検証
func (v *authValidator) ValidateRegister(ctx context.Context, in auth.RegisterUserInput) error {
	username := strings.TrimSpace(in.Username)
	email := strings.TrimSpace(in.Email)

	// 必須チェック
	if username == "" || in.Password == "" || email == "" ||
		strings.TrimSpace(in.FirstName) == "" || strings.TrimSpace(in.LastName) == "" {
		return invalid("Please fill in all required fields.")
	}
	if !usernamePattern.MatchString(username) {
		return invalid("Username must be 3-50 letters, digits, dots, dashes or underscores.")
	}
	if !isEmailLike(email) {
		return invalid("Please enter a valid email address.")
	}
	if err := checkPassword(in.Password); err != nil {
		return err
	}

	// username重複チェック（DBが必要）
	if _, err := v.users.FindByUsername(ctx, username); err == nil {
		return invalid("Username already exists. Please choose another.")
	} else if !errors.Is(err, repository.ErrNotFound) {
		return err
	}

	// email重複チェック
	if _, err := v.users.FindByEmail(ctx, email); err == nil {
		return invalid("Email already registered.")
	} else if !errors.Is(err, repository.ErrNotFound) {
		return err
	}

	return nil
}

// プロフィール更新の入力を検証。パスワードは空なら変更しない
func (v *authValidator) ValidateProfile(ctx context.Context, userID int64, in auth.UpdateProfileInput) error {
	email := strings.TrimSpace(in.Email)

	if strings.TrimSpace(in.FirstName) == "" || strings.TrimSpace(in.LastName) == "" || email == "" {
		return invalid("Please fill in all required fields.")
	}
	if !isEmailLike(email) {
		return invalid("Please enter a valid email address.")
	}
	if in.NewPassword != "" {
		if err := checkPassword(in.NewPassword); err != nil {
			return err
		}
	}

	// 他人が使っているemailは不可
	other, err := v.users.FindByEmail(ctx, email)
	if err == nil && other.ID != userID {
		return invalid("Email already registered.")
	}
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return err
	}
	return nil
}

// ログインの入力を検証
func (v *authValidator) ValidateLogin(ctx context.Context, username string, password string) error {
	// 必須チェック
	if strings.TrimSpace(username) == "" || password == "" {
		return invalid("Invalid username or password")
	}
	return nil
}

func checkPassword(p string) error {
	// パスワード最低文字数（8）
	if len(p) < minPasswordLen {
		return invalid("Password must be at least 8 characters.")
	}
	// よくある弱いパスワードの拒否
	if isWeakPassword(p) {
		return invalid("Password is too common. Please choose another.")
	}
	return nil
}

func invalid(notice string) error {
	return usecase.NewAppError(usecase.KindValidation, notice)
}

// 簡易メール形式をチェック
func isEmailLike(s string) bool {
	return emailPattern.MatchString(s)
}

// パスワードのよくある弱いパスワード
func isWeakPassword(password string) bool {
	normalized := strings.ToLower(strings.TrimSpace(password))

	weak := map[string]struct{}{
		"password":     {},
		"password123":  {},
		"123456789012": {},
		"1234567890":   {},
		"12345678":     {},
		"qwertyuiop":   {},
		"letmein1":     {},
		"admin123":     {},
		"bookstore":    {},
	}

	_, ok := weak[normalized]
	return ok
}
