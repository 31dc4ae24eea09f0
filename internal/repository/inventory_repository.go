package repository

import (
	"errors"

	"github.com/franchise-next/internal/models"

	"gorm.io/gorm"
)

// LowStockItem 低库存报表行（联表冗余字段）
type LowStockItem struct {
	InventoryID        uint   `json:"inventory_id"`
	ProductFranchiseID uint   `json:"product_franchise_id"`
	ProductID          uint   `json:"product_id"`
	ProductName        string `json:"product_name"`
	FranchiseID        uint   `json:"franchise_id"`
	FranchiseName      string `json:"franchise_name"`
	Size               string `json:"size"`
	Quantity           int    `json:"quantity"`
	ReservedQuantity   int    `json:"reserved_quantity"`
	Available          int    `json:"available"`
	AlertThreshold     int    `json:"alert_threshold"`
}

// InventoryItem 库存列表行（联表冗余字段）
type InventoryItem struct {
	models.Inventory
	ProductID     uint   `json:"product_id"`
	ProductName   string `json:"product_name"`
	FranchiseID   uint   `json:"franchise_id"`
	FranchiseName string `json:"franchise_name"`
	Size          string `json:"size"`
}

// InventoryRepository 库存数据访问接口
// 四个条件更新必须是单条带守卫的 UPDATE，并发下不允许两次都通过守卫。
type InventoryRepository interface {
	Create(item *models.Inventory) error
	GetByID(id uint) (*models.Inventory, error)
	FindByProductFranchiseID(productFranchiseID uint) (*models.Inventory, error)
	List(filter InventoryListFilter) ([]InventoryItem, int64, error)
	SoftDelete(id uint) error
	Restore(id uint) error
	ReserveStock(productFranchiseID uint, quantity int) (int64, error)
	ReleaseStock(productFranchiseID uint, quantity int) (int64, error)
	DeductStock(productFranchiseID uint, quantity int) (int64, error)
	AdjustStock(productFranchiseID uint, change int) (int64, error)
	FindLowStock(franchiseID uint) ([]LowStockItem, error)
	WithTx(tx *gorm.DB) InventoryRepository
}

// GormInventoryRepository GORM 实现
type GormInventoryRepository struct {
	db *gorm.DB
}

// NewInventoryRepository 创建库存仓库
func NewInventoryRepository(db *gorm.DB) *GormInventoryRepository {
	return &GormInventoryRepository{db: db}
}

// WithTx 绑定事务
func (r *GormInventoryRepository) WithTx(tx *gorm.DB) InventoryRepository {
	if tx == nil {
		return r
	}
	return &GormInventoryRepository{db: tx}
}

// Create 创建库存记录（同一在售单品若已有未删除记录则拒绝）
func (r *GormInventoryRepository) Create(item *models.Inventory) error {
	if item == nil {
		return errors.New("inventory is nil")
	}
	if item.ProductFranchiseID == 0 {
		return errors.New("invalid product franchise id")
	}
	var count int64
	if err := r.db.Model(&models.Inventory{}).
		Where("product_franchise_id = ?", item.ProductFranchiseID).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return gorm.ErrDuplicatedKey
	}
	return r.db.Create(item).Error
}

// GetByID 根据 ID 获取库存记录
func (r *GormInventoryRepository) GetByID(id uint) (*models.Inventory, error) {
	if id == 0 {
		return nil, errors.New("invalid inventory id")
	}
	var item models.Inventory
	if err := r.db.First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

// FindByProductFranchiseID 按在售单品获取库存记录
func (r *GormInventoryRepository) FindByProductFranchiseID(productFranchiseID uint) (*models.Inventory, error) {
	if productFranchiseID == 0 {
		return nil, errors.New("invalid product franchise id")
	}
	var item models.Inventory
	if err := r.db.Where("product_franchise_id = ?", productFranchiseID).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

// List 分页查询库存列表（联表带出商品与门店名称）
func (r *GormInventoryRepository) List(filter InventoryListFilter) ([]InventoryItem, int64, error) {
	query := r.db.Model(&models.Inventory{}).
		Joins("JOIN product_franchises pf ON pf.id = inventories.product_franchise_id").
		Joins("JOIN products p ON p.id = pf.product_id").
		Joins("JOIN franchises f ON f.id = pf.franchise_id")
	if filter.IncludeDeleted {
		query = query.Unscoped().Where("1 = 1")
	}
	if filter.ProductFranchiseID != 0 {
		query = query.Where("inventories.product_franchise_id = ?", filter.ProductFranchiseID)
	}
	if filter.FranchiseID != 0 {
		query = query.Where("pf.franchise_id = ?", filter.FranchiseID)
	}
	if filter.ProductID != 0 {
		query = query.Where("pf.product_id = ?", filter.ProductID)
	}
	if filter.OnlyActive {
		query = query.Where("inventories.is_active = ?", true)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	items := make([]InventoryItem, 0)
	if err := applyPagination(query, filter.Page, filter.PageSize).
		Select("inventories.*, pf.product_id AS product_id, p.name AS product_name, pf.franchise_id AS franchise_id, f.name AS franchise_name, pf.size AS size").
		Order("inventories.created_at DESC, inventories.id DESC").
		Scan(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// SoftDelete 软删除库存记录
func (r *GormInventoryRepository) SoftDelete(id uint) error {
	if id == 0 {
		return errors.New("invalid inventory id")
	}
	return r.db.Delete(&models.Inventory{}, id).Error
}

// Restore 恢复软删除的库存记录（同一在售单品已有未删除记录时拒绝）
func (r *GormInventoryRepository) Restore(id uint) error {
	if id == 0 {
		return errors.New("invalid inventory id")
	}
	var item models.Inventory
	if err := r.db.Unscoped().First(&item, id).Error; err != nil {
		return err
	}
	var count int64
	if err := r.db.Model(&models.Inventory{}).
		Where("product_franchise_id = ? AND id <> ?", item.ProductFranchiseID, id).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return gorm.ErrDuplicatedKey
	}
	return r.db.Unscoped().Model(&models.Inventory{}).
		Where("id = ?", id).
		Update("deleted_at", nil).Error
}

// ReserveStock 预占库存
// 守卫与自增在同一条 UPDATE 内完成，可售不足时零行命中。
func (r *GormInventoryRepository) ReserveStock(productFranchiseID uint, quantity int) (int64, error) {
	if productFranchiseID == 0 || quantity <= 0 {
		return 0, errors.New("invalid stock reserve params")
	}
	result := r.db.Model(&models.Inventory{}).
		Where("product_franchise_id = ? AND quantity - reserved_quantity >= ?", productFranchiseID, quantity).
		Updates(map[string]interface{}{
			"reserved_quantity": gorm.Expr("reserved_quantity + ?", quantity),
		})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// ReleaseStock 释放预占库存（预占不足时零行命中，不报错）
func (r *GormInventoryRepository) ReleaseStock(productFranchiseID uint, quantity int) (int64, error) {
	if productFranchiseID == 0 || quantity <= 0 {
		return 0, errors.New("invalid stock release params")
	}
	result := r.db.Model(&models.Inventory{}).
		Where("product_franchise_id = ? AND reserved_quantity >= ?", productFranchiseID, quantity).
		Updates(map[string]interface{}{
			"reserved_quantity": gorm.Expr("reserved_quantity - ?", quantity),
		})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// DeductStock 扣减库存（订单完成，预占转实扣，两个字段同时减）
func (r *GormInventoryRepository) DeductStock(productFranchiseID uint, quantity int) (int64, error) {
	if productFranchiseID == 0 || quantity <= 0 {
		return 0, errors.New("invalid stock deduct params")
	}
	result := r.db.Model(&models.Inventory{}).
		Where("product_franchise_id = ? AND quantity >= ? AND reserved_quantity >= ?", productFranchiseID, quantity, quantity).
		Updates(map[string]interface{}{
			"quantity":          gorm.Expr("quantity - ?", quantity),
			"reserved_quantity": gorm.Expr("reserved_quantity - ?", quantity),
		})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// AdjustStock 手动调整在库总量（负向调整要求现量足够）
func (r *GormInventoryRepository) AdjustStock(productFranchiseID uint, change int) (int64, error) {
	if productFranchiseID == 0 || change == 0 {
		return 0, errors.New("invalid stock adjust params")
	}
	query := r.db.Model(&models.Inventory{}).
		Where("product_franchise_id = ?", productFranchiseID)
	if change < 0 {
		query = query.Where("quantity >= ?", -change)
	}
	result := query.Updates(map[string]interface{}{
		"quantity": gorm.Expr("quantity + ?", change),
	})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// FindLowStock 查询低库存单品（可售 <= 告警阈值），可按门店过滤
func (r *GormInventoryRepository) FindLowStock(franchiseID uint) ([]LowStockItem, error) {
	query := r.db.Model(&models.Inventory{}).
		Joins("JOIN product_franchises pf ON pf.id = inventories.product_franchise_id").
		Joins("JOIN products p ON p.id = pf.product_id").
		Joins("JOIN franchises f ON f.id = pf.franchise_id").
		Where("inventories.quantity - inventories.reserved_quantity <= inventories.alert_threshold").
		Where("inventories.is_active = ?", true)
	if franchiseID != 0 {
		query = query.Where("pf.franchise_id = ?", franchiseID)
	}

	items := make([]LowStockItem, 0)
	if err := query.
		Select("inventories.id AS inventory_id, inventories.product_franchise_id, pf.product_id AS product_id, p.name AS product_name, pf.franchise_id AS franchise_id, f.name AS franchise_name, pf.size AS size, inventories.quantity, inventories.reserved_quantity, inventories.quantity - inventories.reserved_quantity AS available, inventories.alert_threshold").
		Order("available ASC, inventories.id ASC").
		Scan(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}
