package repository

import (
	"errors"

	"github.com/franchise-next/internal/models"

	"gorm.io/gorm"
)

// ProductFranchiseRepository 门店在售单品数据访问接口
type ProductFranchiseRepository interface {
	Create(item *models.ProductFranchise) error
	GetByID(id uint) (*models.ProductFranchise, error)
	GetByIDWithRelations(id uint) (*models.ProductFranchise, error)
	FindByTriple(productID, franchiseID uint, size string) (*models.ProductFranchise, error)
	List(filter ProductFranchiseListFilter) ([]models.ProductFranchise, int64, error)
	Update(item *models.ProductFranchise) error
	SoftDelete(id uint) error
	WithTx(tx *gorm.DB) ProductFranchiseRepository
}

// GormProductFranchiseRepository GORM 实现
type GormProductFranchiseRepository struct {
	db *gorm.DB
}

// NewProductFranchiseRepository 创建在售单品仓库
func NewProductFranchiseRepository(db *gorm.DB) *GormProductFranchiseRepository {
	return &GormProductFranchiseRepository{db: db}
}

// WithTx 绑定事务
func (r *GormProductFranchiseRepository) WithTx(tx *gorm.DB) ProductFranchiseRepository {
	if tx == nil {
		return r
	}
	return &GormProductFranchiseRepository{db: tx}
}

// Create 创建在售单品
func (r *GormProductFranchiseRepository) Create(item *models.ProductFranchise) error {
	if item == nil {
		return errors.New("product franchise is nil")
	}
	return r.db.Create(item).Error
}

// GetByID 根据 ID 获取在售单品
func (r *GormProductFranchiseRepository) GetByID(id uint) (*models.ProductFranchise, error) {
	if id == 0 {
		return nil, errors.New("invalid product franchise id")
	}
	var item models.ProductFranchise
	if err := r.db.First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

// GetByIDWithRelations 获取在售单品并预载商品与门店
func (r *GormProductFranchiseRepository) GetByIDWithRelations(id uint) (*models.ProductFranchise, error) {
	if id == 0 {
		return nil, errors.New("invalid product franchise id")
	}
	var item models.ProductFranchise
	if err := r.db.Preload("Product").Preload("Franchise").First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

// FindByTriple 按（商品, 门店, 规格）三元组获取在售单品
func (r *GormProductFranchiseRepository) FindByTriple(productID, franchiseID uint, size string) (*models.ProductFranchise, error) {
	if productID == 0 || franchiseID == 0 || size == "" {
		return nil, errors.New("invalid product franchise triple")
	}
	var item models.ProductFranchise
	if err := r.db.Where("product_id = ? AND franchise_id = ? AND size = ?", productID, franchiseID, size).
		First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

// List 分页查询在售单品列表
func (r *GormProductFranchiseRepository) List(filter ProductFranchiseListFilter) ([]models.ProductFranchise, int64, error) {
	query := r.db.Model(&models.ProductFranchise{})
	if filter.ProductID != 0 {
		query = query.Where("product_id = ?", filter.ProductID)
	}
	if filter.FranchiseID != 0 {
		query = query.Where("franchise_id = ?", filter.FranchiseID)
	}
	if filter.Size != "" {
		query = query.Where("size = ?", filter.Size)
	}
	if filter.OnlyActive {
		query = query.Where("is_active = ?", true)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	items := make([]models.ProductFranchise, 0)
	if err := applyPagination(query, filter.Page, filter.PageSize).
		Preload("Product").
		Preload("Franchise").
		Order("created_at DESC, id DESC").
		Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// Update 保存在售单品
func (r *GormProductFranchiseRepository) Update(item *models.ProductFranchise) error {
	if item == nil || item.ID == 0 {
		return errors.New("invalid product franchise")
	}
	return r.db.Save(item).Error
}

// SoftDelete 软删除在售单品
func (r *GormProductFranchiseRepository) SoftDelete(id uint) error {
	if id == 0 {
		return errors.New("invalid product franchise id")
	}
	return r.db.Delete(&models.ProductFranchise{}, id).Error
}
