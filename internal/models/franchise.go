package models

import (
	"time"

	"gorm.io/gorm"
)

// Franchise 加盟门店表
type Franchise struct {
	ID        uint           `gorm:"primarykey" json:"id"`                                  // 主键
	Code      string         `gorm:"type:varchar(40);uniqueIndex;not null" json:"code"`     // 门店编码（全局唯一）
	Name      string         `gorm:"type:varchar(160);not null" json:"name"`                // 门店名称
	Hotline   string         `gorm:"type:varchar(32);not null;default:''" json:"hotline"`   // 客服电话
	LogoURL   string         `gorm:"type:varchar(500);not null;default:''" json:"logo_url"` // Logo 地址
	Address   string         `gorm:"type:varchar(500);not null;default:''" json:"address"`  // 门店地址
	OpenedAt  string         `gorm:"type:varchar(10);not null;default:''" json:"opened_at"` // 营业开始时间（HH:mm）
	ClosedAt  string         `gorm:"type:varchar(10);not null;default:''" json:"closed_at"` // 营业结束时间（HH:mm）
	IsActive  bool           `gorm:"default:true;index" json:"is_active"`                   // 是否启用
	CreatedAt time.Time      `gorm:"index" json:"created_at"`                               // 创建时间
	UpdatedAt time.Time      `json:"updated_at"`                                            // 更新时间
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`                                        // 软删除时间
}

// TableName 指定表名
func (Franchise) TableName() string {
	return "franchises"
}
