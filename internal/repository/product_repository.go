package repository

import (
	"errors"

	"github.com/franchise-next/internal/models"

	"gorm.io/gorm"
)

// ProductRepository 商品数据访问接口
type ProductRepository interface {
	Create(product *models.Product) error
	GetByID(id uint) (*models.Product, error)
	GetByIDWithCategory(id uint) (*models.Product, error)
	List(filter ProductListFilter) ([]models.Product, int64, error)
	Update(product *models.Product) error
	SoftDelete(id uint) error
	CountListings(productID uint) (int64, error)
	WithTx(tx *gorm.DB) ProductRepository
}

// GormProductRepository GORM 实现
type GormProductRepository struct {
	db *gorm.DB
}

// NewProductRepository 创建商品仓库
func NewProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// WithTx 绑定事务
func (r *GormProductRepository) WithTx(tx *gorm.DB) ProductRepository {
	if tx == nil {
		return r
	}
	return &GormProductRepository{db: tx}
}

// Create 创建商品
func (r *GormProductRepository) Create(product *models.Product) error {
	if product == nil {
		return errors.New("product is nil")
	}
	return r.db.Create(product).Error
}

// GetByID 根据 ID 获取商品
func (r *GormProductRepository) GetByID(id uint) (*models.Product, error) {
	if id == 0 {
		return nil, errors.New("invalid product id")
	}
	var product models.Product
	if err := r.db.First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

// GetByIDWithCategory 获取商品并预载分类
func (r *GormProductRepository) GetByIDWithCategory(id uint) (*models.Product, error) {
	if id == 0 {
		return nil, errors.New("invalid product id")
	}
	var product models.Product
	if err := r.db.Preload("Category").First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

// List 分页查询商品列表
func (r *GormProductRepository) List(filter ProductListFilter) ([]models.Product, int64, error) {
	query := r.db.Model(&models.Product{})
	if filter.CategoryID != 0 {
		query = query.Where("category_id = ?", filter.CategoryID)
	}
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

	products := make([]models.Product, 0)
	if err := applyPagination(query, filter.Page, filter.PageSize).
		Preload("Category").
		Order("created_at DESC, id DESC").
		Find(&products).Error; err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// Update 保存商品
func (r *GormProductRepository) Update(product *models.Product) error {
	if product == nil || product.ID == 0 {
		return errors.New("invalid product")
	}
	return r.db.Save(product).Error
}

// SoftDelete 软删除商品
func (r *GormProductRepository) SoftDelete(id uint) error {
	if id == 0 {
		return errors.New("invalid product id")
	}
	return r.db.Delete(&models.Product{}, id).Error
}

// CountListings 统计该商品在各门店的未删除上架数量
func (r *GormProductRepository) CountListings(productID uint) (int64, error) {
	if productID == 0 {
		return 0, errors.New("invalid product id")
	}
	var count int64
	if err := r.db.Model(&models.ProductFranchise{}).
		Where("product_id = ?", productID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
