package repository

import (
	"errors"

	"github.com/franchise-next/internal/models"

	"gorm.io/gorm"
)

// CategoryRepository 商品品类数据访问接口
type CategoryRepository interface {
	Create(category *models.Category) error
	GetByID(id uint) (*models.Category, error)
	FindByName(name string) (*models.Category, error)
	List(filter CategoryListFilter) ([]models.Category, int64, error)
	Update(category *models.Category) error
	SoftDelete(id uint) error
	CountProducts(categoryID uint) (int64, error)
	WithTx(tx *gorm.DB) CategoryRepository
}

// GormCategoryRepository GORM 实现
type GormCategoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository 创建品类仓库
func NewCategoryRepository(db *gorm.DB) *GormCategoryRepository {
	return &GormCategoryRepository{db: db}
}

// WithTx 绑定事务
func (r *GormCategoryRepository) WithTx(tx *gorm.DB) CategoryRepository {
	if tx == nil {
		return r
	}
	return &GormCategoryRepository{db: tx}
}

// Create 创建品类
func (r *GormCategoryRepository) Create(category *models.Category) error {
	if category == nil {
		return errors.New("category is nil")
	}
	return r.db.Create(category).Error
}

// GetByID 根据 ID 获取品类
func (r *GormCategoryRepository) GetByID(id uint) (*models.Category, error) {
	if id == 0 {
		return nil, errors.New("invalid category id")
	}
	var category models.Category
	if err := r.db.First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &category, nil
}

// FindByName 根据名称获取品类
func (r *GormCategoryRepository) FindByName(name string) (*models.Category, error) {
	if name == "" {
		return nil, errors.New("name is empty")
	}
	var category models.Category
	if err := r.db.Where("name = ?", name).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &category, nil
}

// List 分页查询品类列表
func (r *GormCategoryRepository) List(filter CategoryListFilter) ([]models.Category, int64, error) {
	query := r.db.Model(&models.Category{})
	if filter.OnlyActive {
		query = query.Where("is_active = ?", true)
	}
	if filter.Keyword != "" {
		query = query.Where("name LIKE ?", "%"+filter.Keyword+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	categories := make([]models.Category, 0)
	if err := applyPagination(query, filter.Page, filter.PageSize).
		Order("sort_order ASC, id ASC").
		Find(&categories).Error; err != nil {
		return nil, 0, err
	}
	return categories, total, nil
}

// Update 保存品类
func (r *GormCategoryRepository) Update(category *models.Category) error {
	if category == nil || category.ID == 0 {
		return errors.New("invalid category")
	}
	return r.db.Save(category).Error
}

// SoftDelete 软删除品类
func (r *GormCategoryRepository) SoftDelete(id uint) error {
	if id == 0 {
		return errors.New("invalid category id")
	}
	return r.db.Delete(&models.Category{}, id).Error
}

// CountProducts 统计挂在该品类下的未删除商品数量
func (r *GormCategoryRepository) CountProducts(categoryID uint) (int64, error) {
	if categoryID == 0 {
		return 0, errors.New("invalid category id")
	}
	var count int64
	if err := r.db.Model(&models.Product{}).
		Where("category_id = ?", categoryID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
