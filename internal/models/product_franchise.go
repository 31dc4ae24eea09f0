package models

import (
	"time"

	"gorm.io/gorm"
)

// ProductFranchise 门店在售单品表（商品 × 门店 × 规格）
type ProductFranchise struct {
	ID          uint           `gorm:"primarykey" json:"id"`                                                              // 主键
	ProductID   uint           `gorm:"not null;index;uniqueIndex:idx_product_franchise_size" json:"product_id"`           // 商品ID
	FranchiseID uint           `gorm:"not null;index;uniqueIndex:idx_product_franchise_size" json:"franchise_id"`         // 门店ID
	Size        string         `gorm:"type:varchar(20);not null;uniqueIndex:idx_product_franchise_size" json:"size"`      // 规格（同商品同门店内唯一）
	PriceBase   Money          `gorm:"type:decimal(20,2);not null;default:0" json:"price_base"`                           // 门店售价（须落在商品价格区间内）
	IsActive    bool           `gorm:"default:true;index" json:"is_active"`                                               // 是否上架
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`                                                           // 创建时间
	UpdatedAt   time.Time      `json:"updated_at"`                                                                        // 更新时间
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`                                                                    // 软删除时间

	Product   *Product   `gorm:"foreignKey:ProductID" json:"product,omitempty"`     // 关联商品
	Franchise *Franchise `gorm:"foreignKey:FranchiseID" json:"franchise,omitempty"` // 关联门店
}

// TableName 指定表名
func (ProductFranchise) TableName() string {
	return "product_franchises"
}
