package model

import "time"

// 管理者操作の種類
type AuditAction string

const (
	AuditActionCreateBook  AuditAction = "CREATE_BOOK"
	AuditActionUpdatePrice AuditAction = "UPDATE_PRICE"
	AuditActionRestock     AuditAction = "RESTOCK"
)

type AuditResourceType string

const (
	AuditResourceBook AuditResourceType = "book"
)

// 監査ログ。
// 「誰が」「何を」「どの対象に」「どう変えたか」を残す。
type AuditLog struct {
	ID           int64             `gorm:"primaryKey;autoIncrement" json:"id"`
	ActorUserID  int64             `gorm:"not null;index" json:"actor_user_id"`
	Action       AuditAction       `gorm:"type:varchar(50);not null;index" json:"action"`
	ResourceType AuditResourceType `gorm:"type:varchar(50);not null;index" json:"resource_type"`
	ResourceID   int64             `gorm:"not null;index" json:"resource_id"`
	//JSON文字列
	BeforeJSON string    `gorm:"type:text" json:"before_json"`
	AfterJSON  string    `gorm:"type:text" json:"after_json"`
	CreatedAt  time.Time `gorm:"not null;index" json:"created_at"`
}
