package models

import (
	"time"

	"gorm.io/gorm"
)

// Inventory 库存记录表（每个门店在售单品至多一条）
// 不变量：0 <= reserved_quantity <= quantity，任何写入都不得破坏。
type Inventory struct {
	ID                 uint           `gorm:"primarykey" json:"id"`                               // 主键
	ProductFranchiseID uint           `gorm:"not null;index" json:"product_franchise_id"`         // 门店在售单品ID（未删除记录中唯一，业务层保证）
	Quantity           int            `gorm:"not null;default:0" json:"quantity"`                 // 在库总量
	ReservedQuantity   int            `gorm:"not null;default:0" json:"reserved_quantity"`        // 订单预占量
	AlertThreshold     int            `gorm:"not null;default:10" json:"alert_threshold"`         // 低库存告警阈值（可售 <= 阈值时触发）
	IsActive           bool           `gorm:"default:true;index" json:"is_active"`                // 是否启用
	CreatedAt          time.Time      `gorm:"index" json:"created_at"`                            // 创建时间
	UpdatedAt          time.Time      `json:"updated_at"`                                         // 更新时间
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`                                     // 软删除时间

	ProductFranchise *ProductFranchise `gorm:"foreignKey:ProductFranchiseID" json:"product_franchise,omitempty"` // 关联在售单品
}

// TableName 指定表名
func (Inventory) TableName() string {
	return "inventories"
}

// Available 可售数量
func (i Inventory) Available() int {
	return i.Quantity - i.ReservedQuantity
}
