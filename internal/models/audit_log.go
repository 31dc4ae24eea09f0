package models

import "time"

// AuditLog 实体审计日志表
// 说明：记录 CRUD 层面的实体变更（区别于库存流水），支持按实体与操作人检索。
type AuditLog struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	EntityType string    `gorm:"type:varchar(40);index:idx_audit_entity,priority:1;not null" json:"entity_type"`
	EntityID   uint      `gorm:"index:idx_audit_entity,priority:2;not null" json:"entity_id"`
	Action     string    `gorm:"type:varchar(40);index;not null" json:"action"`
	OldData    JSON      `gorm:"type:json" json:"old_data,omitempty"`
	NewData    JSON      `gorm:"type:json" json:"new_data,omitempty"`
	ChangedBy  uint      `gorm:"index;not null" json:"changed_by"`
	RequestID  string    `gorm:"type:varchar(64);index;not null;default:''" json:"request_id"`
	Note       string    `gorm:"type:varchar(500);not null;default:''" json:"note"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
}

// TableName 指定表名
func (AuditLog) TableName() string {
	return "audit_logs"
}
