package repository

import (
	"errors"

	"github.com/franchise-next/internal/models"

	"gorm.io/gorm"
)

// InventoryLogRepository 库存流水数据访问接口（只追加，不提供更新删除）
type InventoryLogRepository interface {
	Create(entry *models.InventoryLog) error
	ListByInventory(inventoryID uint, page, pageSize int) ([]models.InventoryLog, int64, error)
	ListByReference(referenceType, referenceID string) ([]models.InventoryLog, error)
	WithTx(tx *gorm.DB) InventoryLogRepository
}

// GormInventoryLogRepository GORM 实现
type GormInventoryLogRepository struct {
	db *gorm.DB
}

// NewInventoryLogRepository 创建库存流水仓库
func NewInventoryLogRepository(db *gorm.DB) *GormInventoryLogRepository {
	return &GormInventoryLogRepository{db: db}
}

// WithTx 绑定事务
func (r *GormInventoryLogRepository) WithTx(tx *gorm.DB) InventoryLogRepository {
	if tx == nil {
		return r
	}
	return &GormInventoryLogRepository{db: tx}
}

// Create 追加一条流水
func (r *GormInventoryLogRepository) Create(entry *models.InventoryLog) error {
	if entry == nil {
		return errors.New("inventory log is nil")
	}
	if entry.InventoryID == 0 {
		return errors.New("invalid inventory id")
	}
	if entry.Change == 0 {
		return errors.New("inventory log change is zero")
	}
	return r.db.Create(entry).Error
}

// ListByInventory 按库存记录分页查询流水（新在前）
func (r *GormInventoryLogRepository) ListByInventory(inventoryID uint, page, pageSize int) ([]models.InventoryLog, int64, error) {
	if inventoryID == 0 {
		return nil, 0, errors.New("invalid inventory id")
	}
	query := r.db.Model(&models.InventoryLog{}).Where("inventory_id = ?", inventoryID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	entries := make([]models.InventoryLog, 0)
	if err := applyPagination(query, page, pageSize).
		Order("created_at DESC, id DESC").
		Find(&entries).Error; err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

// ListByReference 按业务引用查询流水（如某订单的全部库存变动）
func (r *GormInventoryLogRepository) ListByReference(referenceType, referenceID string) ([]models.InventoryLog, error) {
	if referenceType == "" || referenceID == "" {
		return nil, errors.New("invalid reference")
	}
	entries := make([]models.InventoryLog, 0)
	if err := r.db.Where("reference_type = ? AND reference_id = ?", referenceType, referenceID).
		Order("created_at ASC, id ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
