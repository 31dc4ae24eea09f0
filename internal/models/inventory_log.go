package models

import "time"

// InventoryLog 库存流水表（仅追加，禁止更新与删除）
// 库存引擎是唯一写入方；聚合各条 change 可对账出当前库存量。
type InventoryLog struct {
	ID                 uint      `gorm:"primarykey" json:"id"`                                                       // 主键
	InventoryID        uint      `gorm:"not null;index:idx_inventory_log_created,priority:1" json:"inventory_id"`   // 库存记录ID
	ProductFranchiseID uint      `gorm:"not null;index" json:"product_franchise_id"`                                 // 门店在售单品ID（冗余，便于按单品检索）
	Change             int       `gorm:"not null" json:"change"`                                                     // 本次变化量（正负号含义见 type）
	Type               string    `gorm:"type:varchar(20);index;not null" json:"type"`                                // 流水类型（RESERVE/RELEASE/DEDUCT/ADJUST）
	ReferenceType      string    `gorm:"type:varchar(20);not null;index:idx_inventory_log_reference,priority:1" json:"reference_type"` // 来源类型（ORDER/MANUAL/IMPORT/REFUND）
	ReferenceID        string    `gorm:"type:varchar(64);not null;default:'';index:idx_inventory_log_reference,priority:2" json:"reference_id"` // 外部关联单号（ORDER 来源必填）
	Reason             string    `gorm:"type:varchar(500);not null;default:''" json:"reason"`                        // 调整原因（主要用于 ADJUST）
	CreatedBy          uint      `gorm:"index;not null" json:"created_by"`                                           // 操作人
	CreatedAt          time.Time `gorm:"index:idx_inventory_log_created,priority:2" json:"created_at"`               // 创建时间（不可变）
}

// TableName 指定表名
func (InventoryLog) TableName() string {
	return "inventory_logs"
}
