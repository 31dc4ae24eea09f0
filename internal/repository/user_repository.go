package repository

import (
	"errors"

	"github.com/franchise-next/internal/models"

	"gorm.io/gorm"
)

// UserRepository 用户数据访问接口
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	FindByEmail(email string) (*models.User, error)
	List(filter UserListFilter) ([]models.User, int64, error)
	Update(user *models.User) error
	UpdateFields(id uint, fields map[string]interface{}) error
	BumpTokenVersion(id uint) error
	SoftDelete(id uint) error
	WithTx(tx *gorm.DB) UserRepository
}

// GormUserRepository GORM 实现
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository 创建用户仓库
func NewUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// WithTx 绑定事务
func (r *GormUserRepository) WithTx(tx *gorm.DB) UserRepository {
	if tx == nil {
		return r
	}
	return &GormUserRepository{db: tx}
}

// Create 创建用户
func (r *GormUserRepository) Create(user *models.User) error {
	if user == nil {
		return errors.New("user is nil")
	}
	return r.db.Create(user).Error
}

// GetByID 根据 ID 获取用户
func (r *GormUserRepository) GetByID(id uint) (*models.User, error) {
	if id == 0 {
		return nil, errors.New("invalid user id")
	}
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// FindByEmail 根据邮箱获取用户
func (r *GormUserRepository) FindByEmail(email string) (*models.User, error) {
	if email == "" {
		return nil, errors.New("email is empty")
	}
	var user models.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// List 分页查询用户列表
func (r *GormUserRepository) List(filter UserListFilter) ([]models.User, int64, error) {
	query := r.db.Model(&models.User{})
	if filter.Role != "" {
		query = query.Where("role = ?", filter.Role)
	}
	if filter.FranchiseID != 0 {
		query = query.Where("franchise_id = ?", filter.FranchiseID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Keyword != "" {
		like := "%" + filter.Keyword + "%"
		query = query.Where("email LIKE ? OR full_name LIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	users := make([]models.User, 0)
	if err := applyPagination(query, filter.Page, filter.PageSize).
		Order("created_at DESC, id DESC").
		Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// Update 保存用户
func (r *GormUserRepository) Update(user *models.User) error {
	if user == nil || user.ID == 0 {
		return errors.New("invalid user")
	}
	return r.db.Save(user).Error
}

// UpdateFields 更新指定字段
func (r *GormUserRepository) UpdateFields(id uint, fields map[string]interface{}) error {
	if id == 0 {
		return errors.New("invalid user id")
	}
	if len(fields) == 0 {
		return nil
	}
	return r.db.Model(&models.User{}).Where("id = ?", id).Updates(fields).Error
}

// BumpTokenVersion 令牌版本自增（使该用户既有 JWT 全部失效）
func (r *GormUserRepository) BumpTokenVersion(id uint) error {
	if id == 0 {
		return errors.New("invalid user id")
	}
	return r.db.Model(&models.User{}).Where("id = ?", id).
		Update("token_version", gorm.Expr("token_version + 1")).Error
}

// SoftDelete 软删除用户
func (r *GormUserRepository) SoftDelete(id uint) error {
	if id == 0 {
		return errors.New("invalid user id")
	}
	return r.db.Delete(&models.User{}, id).Error
}
