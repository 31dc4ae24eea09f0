package models

import (
	"time"

	"gorm.io/gorm"
)

// Product 商品主档表（总部维护，门店通过 ProductFranchise 上架）
type Product struct {
	ID          uint           `gorm:"primarykey" json:"id"`                                     // 主键
	CategoryID  uint           `gorm:"not null;index" json:"category_id"`                        // 所属分类
	Name        string         `gorm:"type:varchar(160);index;not null" json:"name"`             // 商品名称
	Description string         `gorm:"type:text" json:"description"`                             // 商品描述
	ImageURL    string         `gorm:"type:varchar(500);not null;default:''" json:"image_url"`   // 商品图片
	MinPrice    Money          `gorm:"type:decimal(20,2);not null;default:0" json:"min_price"`   // 门店售价下限
	MaxPrice    Money          `gorm:"type:decimal(20,2);not null;default:0" json:"max_price"`   // 门店售价上限
	IsActive    bool           `gorm:"default:true;index" json:"is_active"`                      // 是否启用
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`                                  // 创建时间
	UpdatedAt   time.Time      `json:"updated_at"`                                               // 更新时间
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`                                           // 软删除时间

	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"` // 关联分类
}

// TableName 指定表名
func (Product) TableName() string {
	return "products"
}
