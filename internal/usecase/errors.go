package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"bookstore/internal/domain/model"
)

// エラーの種類。handlerが通知の色とリダイレクト先を決めるのに使う
type ErrorKind string

const (
	KindNotFound     ErrorKind = "not_found"
	KindValidation   ErrorKind = "validation"
	KindBusinessRule ErrorKind = "business_rule"
	KindPersistence  ErrorKind = "persistence"
	KindUnauthorized ErrorKind = "unauthorized"
	KindForbidden    ErrorKind = "forbidden"
)

// Notice はそのまま画面に出せる文言
type AppError struct {
	Kind   ErrorKind
	Notice string
	Err    error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Notice, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Notice)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewAppError(kind ErrorKind, notice string) error {
	return &AppError{Kind: kind, Notice: notice}
}

func AsAppError(err error) (*AppError, bool) {
	var ae *AppError
	ok := errors.As(err, &ae)
	return ae, ok
}

// DB障害はログに残して汎用の文言にする
func PersistenceError(ctx context.Context, notice string, err error) error {
	if ae, ok := AsAppError(err); ok {
		return ae
	}
	slog.ErrorContext(ctx, "persistence failure", "notice", notice, "err", err)
	return &AppError{Kind: KindPersistence, Notice: notice, Err: err}
}

// 各操作の先頭で呼ぶ権限チェック
func Authorize(id model.Identity, c model.Capability) error {
	if !id.IsAuthenticated() {
		return NewAppError(KindUnauthorized, model.CanSignedIn.Denied)
	}
	if !c.Allow(id) {
		return NewAppError(KindForbidden, c.Denied)
	}
	return nil
}
