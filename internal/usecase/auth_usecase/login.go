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

// handlerからusecaseに渡す入力
type LoginInput struct {
	Username string
	Password string
}

// handlerがCookieに詰める
type LoginOutput struct {
	User      model.User
	Token     string
	ExpiresAt time.Time
}

// ユーザー名かパスワードが違う（どちらかは教えない）
const noticeInvalidCredentials = "Invalid username or password"

type LoginUsecase struct {
	userRepo  repository.UserRepository
	validator Validator
	verifier  PasswordVerifier
	issuer    SessionIssuer
	clock     usecase.Clock
}

func NewLoginUsecase(
	userRepo repository.UserRepository,
	validator Validator,
	verifier PasswordVerifier,
	issuer SessionIssuer,
	clock usecase.Clock,
) *LoginUsecase {
	return &LoginUsecase{
		userRepo:  userRepo,
		validator: validator,
		verifier:  verifier,
		issuer:    issuer,
		clock:     clock,
	}
}

// ログイン処理を実行する
func (u *LoginUsecase) Execute(ctx context.Context, in LoginInput) (LoginOutput, error) {
	var out LoginOutput

	if err := u.validator.ValidateLogin(ctx, in.Username, in.Password); err != nil {
		return out, wrapErr(ctx, err, noticeInvalidCredentials)
	}

	//usernameでユーザー取得
	user, err := u.userRepo.FindByUsername(ctx, strings.TrimSpace(in.Username))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return out, usecase.NewAppError(usecase.KindValidation, noticeInvalidCredentials)
		}
		return out, wrapErr(ctx, err, "Login failed. Please try again.")
	}

	//パスワード照合
	if ok := u.verifier.Verify(in.Password, user.PasswordHash); !ok {
		return out, usecase.NewAppError(usecase.KindValidation, noticeInvalidCredentials)
	}

	token, exp, err := u.issuer.Issue(user, u.clock.Now())
	if err != nil {
		return out, wrapErr(ctx, err, "Login failed. Please try again.")
	}

	//出力（passwordは返さない）
	user.PasswordHash = ""
	out.User = user
	out.Token = token
	out.ExpiresAt = exp
	return out, nil
}

// ログイン後の遷移先。管理者はダッシュボード
func LandingPath(role model.Role) string {
	if role == model.RoleAdmin {
		return "/admin/dashboard"
	}
	return "/"
}
