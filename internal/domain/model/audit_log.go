package model

import "time"

// 書籍更新、発注確定など。
type AuditAction string

const (
	//書籍を追加した操作。
	AuditActionCreateBook AuditAction = "CREATE_BOOK"
	//在庫・価格を更新した操作。
	AuditActionUpdateBook AuditAction = "UPDATE_BOOK"
	//補充発注を作成した操作。
	AuditActionCreatePublisherOrder AuditAction = "CREATE_PUBLISHER_ORDER"
	//補充発注を確定した操作。
	AuditActionConfirmPublisherOrder AuditAction = "CONFIRM_PUBLISHER_ORDER"
)

// 何に対する操作か
type AuditResourceType string

const (
	AuditResourceBook           AuditResourceType = "book"
	AuditResourcePublisherOrder AuditResourceType = "publisher_order"
)

// 監査ログ（管理者操作ログ）。
// 「誰が」「何を」「どの対象に」「どう変えたか」を残す。
type AuditLog struct {
	ID           int64             `gorm:"primaryKey;autoIncrement" json:"id"`
	ActorUserID  int64             `gorm:"not null;index" json:"actor_user_id"`
	Action       AuditAction       `gorm:"type:varchar(50);not null;index" json:"action"`
	ResourceType AuditResourceType `gorm:"type:varchar(50);not null;index" json:"resource_type"`
	//ISBNか発注ID
	ResourceID string    `gorm:"type:varchar(64);not null;index" json:"resource_id"`
	BeforeJSON string    `gorm:"type:text" json:"before_json"`
	AfterJSON  string    `gorm:"type:text" json:"after_json"`
	CreatedAt  time.Time `gorm:"not null;index" json:"created_at"`
}
