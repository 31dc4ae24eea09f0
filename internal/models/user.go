package models

import (
	"time"

	"gorm.io/gorm"
)

// User 后台账号表（总部与门店员工共用）
type User struct {
	ID                 uint           `gorm:"primarykey" json:"id"`                                    // 主键
	Email              string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`     // 登录邮箱
	PasswordHash       string         `gorm:"type:varchar(255);not null" json:"-"`                     // 密码哈希
	FullName           string         `gorm:"type:varchar(120);not null;default:''" json:"full_name"`  // 姓名
	Phone              string         `gorm:"type:varchar(32);not null;default:''" json:"phone"`       // 联系电话
	Role               string         `gorm:"type:varchar(40);index;not null" json:"role"`             // 角色（system_admin/franchise_manager/franchise_staff）
	FranchiseID        *uint          `gorm:"index" json:"franchise_id,omitempty"`                     // 所属门店（总部账号为空）
	Status             string         `gorm:"type:varchar(20);index;default:'active'" json:"status"`   // 账号状态
	TokenVersion       uint64         `gorm:"not null;default:0" json:"-"`                             // Token 版本号（改密/锁定后递增以吊销旧 token）
	TokenInvalidBefore *time.Time     `json:"-"`                                                       // 此时间之前签发的 token 一律无效
	IsActive           bool           `gorm:"default:true;index" json:"is_active"`                     // 是否启用
	CreatedAt          time.Time      `gorm:"index" json:"created_at"`                                 // 创建时间
	UpdatedAt          time.Time      `json:"updated_at"`                                              // 更新时间
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`                                          // 软删除时间

	Franchise *Franchise `gorm:"foreignKey:FranchiseID" json:"franchise,omitempty"` // 关联门店
}

// TableName 指定表名
func (User) TableName() string {
	return "users"
}
