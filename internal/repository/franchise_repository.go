package repository

import (
	"errors"

	"github.com/franchise-next/internal/models"

	"gorm.io/gorm"
)

// FranchiseRepository 门店数据访问接口
type FranchiseRepository interface {
	Create(franchise *models.Franchise) error
	GetByID(id uint) (*models.Franchise, error)
	FindByCode(code string) (*models.Franchise, error)
	List(filter FranchiseListFilter) ([]models.Franchise, int64, error)
	Update(franchise *models.Franchise) error
	SoftDelete(id uint) error
	WithTx(tx *gorm.DB) FranchiseRepository
}

// GormFranchiseRepository GORM 实现
type GormFranchiseRepository struct {
	db *gorm.DB
}

// NewFranchiseRepository 创建门店仓库
func NewFranchiseRepository(db *gorm.DB) *GormFranchiseRepository {
	return &GormFranchiseRepository{db: db}
}

// WithTx 绑定事务
func (r *GormFranchiseRepository) WithTx(tx *gorm.DB) FranchiseRepository {
	if tx == nil {
		return r
	}
	return &GormFranchiseRepository{db: tx}
}

// Create 创建门店
func (r *GormFranchiseRepository) Create(franchise *models.Franchise) error {
	if franchise == nil {
		return errors.New("franchise is nil")
	}
	return r.db.Create(franchise).Error
}

// GetByID 根据 ID 获取门店
func (r *GormFranchiseRepository) GetByID(id uint) (*models.Franchise, error) {
	if id == 0 {
		return nil, errors.New("invalid franchise id")
	}
	var franchise models.Franchise
	if err := r.db.First(&franchise, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &franchise, nil
}

// FindByCode 根据编码获取门店
func (r *GormFranchiseRepository) FindByCode(code string) (*models.Franchise, error) {
	if code == "" {
		return nil, errors.New("code is empty")
	}
	var franchise models.Franchise
	if err := r.db.Where("code = ?", code).First(&franchise).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &franchise, nil
}

// List 分页查询门店列表
func (r *GormFranchiseRepository) List(filter FranchiseListFilter) ([]models.Franchise, int64, error) {
	query := r.db.Model(&models.Franchise{})
	if filter.OnlyActive {
		query = query.Where("is_active = ?", true)
	}
	if filter.Keyword != "" {
		like := "%" + filter.Keyword + "%"
		query = query.Where("name LIKE ? OR code LIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	franchises := make([]models.Franchise, 0)
	if err := applyPagination(query, filter.Page, filter.PageSize).
		Order("created_at DESC, id DESC").
		Find(&franchises).Error; err != nil {
		return nil, 0, err
	}
	return franchises, total, nil
}

// Update 保存门店
func (r *GormFranchiseRepository) Update(franchise *models.Franchise) error {
	if franchise == nil || franchise.ID == 0 {
		return errors.New("invalid franchise")
	}
	return r.db.Save(franchise).Error
}

// SoftDelete 软删除门店
func (r *GormFranchiseRepository) SoftDelete(id uint) error {
	if id == 0 {
		return errors.New("invalid franchise id")
	}
	return r.db.Delete(&models.Franchise{}, id).Error
}
