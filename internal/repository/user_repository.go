package repository

import (
	"bookstore/internal/domain/model"
	"context"
)

// 保存・取得を約束
type UserRepository interface {
	//新規ユーザー作成。username/email重複は ErrDuplicate
	Create(ctx context.Context, user *model.User) error
	//顧客行の作成
	CreateCustomer(ctx context.Context, userID int64) error
	// IDからユーザーを1件取得する。
	FindByID(ctx context.Context, userID int64) (model.User, error)
	FindByUsername(ctx context.Context, username string) (model.User, error)
	//メールからユーザーを一件取得する。
	FindByEmail(ctx context.Context, email string) (model.User, error)
	// プロフィール・パスワードの更新
	Update(ctx context.Context, user model.User) error
	//トークンのバージョンを＋１
	IncrementTokenVersion(ctx context.Context, userID int64) error
}
