package repository

import (
	"context"

	"bookstore/internal/domain/model"
)

// 管理画面の「最近の変更」用の絞り込み。空の項目は条件にしない
type AuditLogFilter struct {
	ResourceType model.AuditResourceType
	ResourceID   string
	Limit        int
}

type AuditLogRepository interface {
	//監査ログを1件保存
	Create(ctx context.Context, log model.AuditLog) error
	// 新しい順
	List(ctx context.Context, filter AuditLogFilter) ([]model.AuditLog, error)
}
