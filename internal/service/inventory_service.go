package service

import (
	"errors"
	"strings"

	"github.com/franchise-next/internal/constants"
	"github.com/franchise-next/internal/logger"
	"github.com/franchise-next/internal/models"
	"github.com/franchise-next/internal/queue"
	"github.com/franchise-next/internal/repository"

	"gorm.io/gorm"
)

// InventoryService 库存业务服务
// 所有库存量变更都经由带守卫的条件更新完成，且与流水追加同事务提交。
type InventoryService struct {
	db      *gorm.DB
	repo    repository.InventoryRepository
	logRepo repository.InventoryLogRepository
	pfRepo  repository.ProductFranchiseRepository
	queue   *queue.Client
	audit   *AuditService
}

// NewInventoryService 创建库存服务
func NewInventoryService(
	db *gorm.DB,
	repo repository.InventoryRepository,
	logRepo repository.InventoryLogRepository,
	pfRepo repository.ProductFranchiseRepository,
	queueClient *queue.Client,
	audit *AuditService,
) *InventoryService {
	return &InventoryService{
		db:      db,
		repo:    repo,
		logRepo: logRepo,
		pfRepo:  pfRepo,
		queue:   queueClient,
		audit:   audit,
	}
}

// CreateInventoryInput 创建库存记录输入
type CreateInventoryInput struct {
	ProductFranchiseID uint
	Quantity           int
	AlertThreshold     int
	OperatorID         uint
	RequestID          string
}

// StockOpInput 订单驱动库存操作输入（预占/释放/扣减）
type StockOpInput struct {
	ProductFranchiseID uint
	Quantity           int
	ReferenceID        string
	OperatorID         uint
}

// AdjustStockInput 手动调整库存输入
type AdjustStockInput struct {
	ProductFranchiseID uint
	Change             int
	Reason             string
	ReferenceType      string
	ReferenceID        string
	OperatorID         uint
}

// Create 创建库存记录（初始量 > 0 时追加一条 IMPORT 流水）
func (s *InventoryService) Create(input CreateInventoryInput) (*models.Inventory, error) {
	if input.ProductFranchiseID == 0 || input.Quantity < 0 {
		return nil, ErrInvalidInput
	}
	pf, err := s.pfRepo.GetByID(input.ProductFranchiseID)
	if err != nil {
		return nil, err
	}
	if pf == nil {
		return nil, ErrNotFound
	}

	threshold := input.AlertThreshold
	if threshold <= 0 {
		threshold = constants.DefaultAlertThreshold
	}
	item := models.Inventory{
		ProductFranchiseID: input.ProductFranchiseID,
		Quantity:           input.Quantity,
		AlertThreshold:     threshold,
		IsActive:           true,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).Create(&item); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrItemExists
			}
			return err
		}
		if input.Quantity > 0 {
			return s.logRepo.WithTx(tx).Create(&models.InventoryLog{
				InventoryID:        item.ID,
				ProductFranchiseID: item.ProductFranchiseID,
				Change:             input.Quantity,
				Type:               constants.InventoryTypeAdjust,
				ReferenceType:      constants.InventoryReferenceImport,
				Reason:             "initial stock",
				CreatedBy:          input.OperatorID,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	_ = s.audit.Record(RecordAuditInput{
		EntityType: constants.AuditEntityInventory,
		EntityID:   item.ID,
		Action:     constants.AuditActionCreate,
		NewData:    item,
		ChangedBy:  input.OperatorID,
		RequestID:  input.RequestID,
	})
	return &item, nil
}

// Get 获取库存记录
func (s *InventoryService) Get(id uint) (*models.Inventory, error) {
	item, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrNotFound
	}
	return item, nil
}

// GetByProductFranchise 按在售单品获取库存记录
func (s *InventoryService) GetByProductFranchise(productFranchiseID uint) (*models.Inventory, error) {
	item, err := s.repo.FindByProductFranchiseID(productFranchiseID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrNotFound
	}
	return item, nil
}

// List 分页查询库存列表
func (s *InventoryService) List(filter repository.InventoryListFilter) ([]repository.InventoryItem, int64, error) {
	return s.repo.List(filter)
}

// UpdateThreshold 更新低库存告警阈值
func (s *InventoryService) UpdateThreshold(id uint, threshold int) (*models.Inventory, error) {
	if threshold < 0 {
		return nil, ErrInvalidInput
	}
	item, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	item.AlertThreshold = threshold
	if err := s.db.Model(&models.Inventory{}).Where("id = ?", id).
		Update("alert_threshold", threshold).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// SetActive 启用/停用库存记录
func (s *InventoryService) SetActive(id uint, active bool) (*models.Inventory, error) {
	item, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	item.IsActive = active
	if err := s.db.Model(&models.Inventory{}).Where("id = ?", id).
		Update("is_active", active).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// Delete 软删除库存记录（尚有预占时拒绝）
func (s *InventoryService) Delete(id uint, operatorID uint, requestID string) error {
	item, err := s.Get(id)
	if err != nil {
		return err
	}
	if item.ReservedQuantity > 0 {
		return ErrInventoryReserved
	}
	if err := s.repo.SoftDelete(id); err != nil {
		return err
	}
	_ = s.audit.Record(RecordAuditInput{
		EntityType: constants.AuditEntityInventory,
		EntityID:   id,
		Action:     constants.AuditActionSoftDelete,
		OldData:    *item,
		ChangedBy:  operatorID,
		RequestID:  requestID,
	})
	return nil
}

// Restore 恢复软删除的库存记录
// 同一在售单品若已有未删除记录则拒绝，否则守卫更新会同时命中两行。
func (s *InventoryService) Restore(id uint, operatorID uint, requestID string) error {
	if err := s.repo.Restore(id); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrItemExists
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	item, err := s.Get(id)
	if err != nil {
		return err
	}
	_ = s.audit.Record(RecordAuditInput{
		EntityType: constants.AuditEntityInventory,
		EntityID:   id,
		Action:     constants.AuditActionRestore,
		NewData:    *item,
		ChangedBy:  operatorID,
		RequestID:  requestID,
	})
	return nil
}

// Reserve 预占库存（下单占位，计入 reserved_quantity）
func (s *InventoryService) Reserve(input StockOpInput) (*models.Inventory, error) {
	if err := validateStockOp(input); err != nil {
		return nil, err
	}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		inv, err := s.mustGetForUpdate(tx, input.ProductFranchiseID)
		if err != nil {
			return err
		}
		rows, err := s.repo.WithTx(tx).ReserveStock(input.ProductFranchiseID, input.Quantity)
		if err != nil {
			return err
		}
		if rows == 0 {
			return ErrInsufficientStock
		}
		return s.logRepo.WithTx(tx).Create(&models.InventoryLog{
			InventoryID:        inv.ID,
			ProductFranchiseID: input.ProductFranchiseID,
			Change:             input.Quantity,
			Type:               constants.InventoryTypeReserve,
			ReferenceType:      constants.InventoryReferenceOrder,
			ReferenceID:        input.ReferenceID,
			CreatedBy:          input.OperatorID,
		})
	})
	if err != nil {
		return nil, err
	}
	return s.afterStockChange(input.ProductFranchiseID)
}

// Release 释放预占（订单取消/退款）
// 预占不足时不回滚也不报错：仅记一条告警日志，不产生流水。
func (s *InventoryService) Release(input StockOpInput) (*models.Inventory, error) {
	if err := validateStockOp(input); err != nil {
		return nil, err
	}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		inv, err := s.mustGetForUpdate(tx, input.ProductFranchiseID)
		if err != nil {
			return err
		}
		rows, err := s.repo.WithTx(tx).ReleaseStock(input.ProductFranchiseID, input.Quantity)
		if err != nil {
			return err
		}
		if rows == 0 {
			logger.Warnw("stock_release_noop",
				"product_franchise_id", input.ProductFranchiseID,
				"quantity", input.Quantity,
				"reserved", inv.ReservedQuantity,
				"reference_id", input.ReferenceID,
			)
			return nil
		}
		return s.logRepo.WithTx(tx).Create(&models.InventoryLog{
			InventoryID:        inv.ID,
			ProductFranchiseID: input.ProductFranchiseID,
			Change:             -input.Quantity,
			Type:               constants.InventoryTypeRelease,
			ReferenceType:      constants.InventoryReferenceOrder,
			ReferenceID:        input.ReferenceID,
			CreatedBy:          input.OperatorID,
		})
	})
	if err != nil {
		return nil, err
	}
	return s.GetByProductFranchise(input.ProductFranchiseID)
}

// Deduct 扣减库存（订单完成，预占转出库）
func (s *InventoryService) Deduct(input StockOpInput) (*models.Inventory, error) {
	if err := validateStockOp(input); err != nil {
		return nil, err
	}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		inv, err := s.mustGetForUpdate(tx, input.ProductFranchiseID)
		if err != nil {
			return err
		}
		rows, err := s.repo.WithTx(tx).DeductStock(input.ProductFranchiseID, input.Quantity)
		if err != nil {
			return err
		}
		if rows == 0 {
			if inv.ReservedQuantity < input.Quantity {
				return ErrInsufficientHold
			}
			return ErrInsufficientStock
		}
		return s.logRepo.WithTx(tx).Create(&models.InventoryLog{
			InventoryID:        inv.ID,
			ProductFranchiseID: input.ProductFranchiseID,
			Change:             -input.Quantity,
			Type:               constants.InventoryTypeDeduct,
			ReferenceType:      constants.InventoryReferenceOrder,
			ReferenceID:        input.ReferenceID,
			CreatedBy:          input.OperatorID,
		})
	})
	if err != nil {
		return nil, err
	}
	return s.afterStockChange(input.ProductFranchiseID)
}

// Adjust 手动调整在库总量（盘点/报损/进货）
func (s *InventoryService) Adjust(input AdjustStockInput) (*models.Inventory, error) {
	if input.ProductFranchiseID == 0 {
		return nil, ErrInvalidInput
	}
	if input.Change == 0 {
		return nil, ErrInvalidAdjustment
	}
	if strings.TrimSpace(input.Reason) == "" {
		return nil, ErrInvalidInput
	}
	referenceType := strings.ToUpper(strings.TrimSpace(input.ReferenceType))
	if referenceType == "" {
		referenceType = constants.InventoryReferenceManual
	}
	if !validReferenceType(referenceType) {
		return nil, ErrInvalidInput
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		inv, err := s.mustGetForUpdate(tx, input.ProductFranchiseID)
		if err != nil {
			return err
		}
		rows, err := s.repo.WithTx(tx).AdjustStock(input.ProductFranchiseID, input.Change)
		if err != nil {
			return err
		}
		if rows == 0 {
			// 记录存在（上面已解析），零行命中只能是负向调整超过现量
			return ErrInvalidAdjustment
		}
		return s.logRepo.WithTx(tx).Create(&models.InventoryLog{
			InventoryID:        inv.ID,
			ProductFranchiseID: input.ProductFranchiseID,
			Change:             input.Change,
			Type:               constants.InventoryTypeAdjust,
			ReferenceType:      referenceType,
			ReferenceID:        input.ReferenceID,
			Reason:             input.Reason,
			CreatedBy:          input.OperatorID,
		})
	})
	if err != nil {
		return nil, err
	}
	if input.Change < 0 {
		return s.afterStockChange(input.ProductFranchiseID)
	}
	return s.GetByProductFranchise(input.ProductFranchiseID)
}

// ListLogs 分页查询某库存记录的流水（新在前）
func (s *InventoryService) ListLogs(inventoryID uint, page, pageSize int) ([]models.InventoryLog, int64, error) {
	if _, err := s.Get(inventoryID); err != nil {
		return nil, 0, err
	}
	return s.logRepo.ListByInventory(inventoryID, page, pageSize)
}

// ListLogsByReference 按业务引用查询流水
func (s *InventoryService) ListLogsByReference(referenceType, referenceID string) ([]models.InventoryLog, error) {
	referenceType = strings.ToUpper(strings.TrimSpace(referenceType))
	if !validReferenceType(referenceType) || strings.TrimSpace(referenceID) == "" {
		return nil, ErrInvalidInput
	}
	return s.logRepo.ListByReference(referenceType, referenceID)
}

// LowStock 查询低库存单品（可售 <= 告警阈值）
func (s *InventoryService) LowStock(franchiseID uint) ([]repository.LowStockItem, error) {
	return s.repo.FindLowStock(franchiseID)
}

// mustGetForUpdate 解析库存记录，缺失时返回 ErrNotFound
func (s *InventoryService) mustGetForUpdate(tx *gorm.DB, productFranchiseID uint) (*models.Inventory, error) {
	inv, err := s.repo.WithTx(tx).FindByProductFranchiseID(productFranchiseID)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, ErrNotFound
	}
	return inv, nil
}

// afterStockChange 可售量下降后的收尾：回读最新状态并按阈值触发告警
func (s *InventoryService) afterStockChange(productFranchiseID uint) (*models.Inventory, error) {
	inv, err := s.GetByProductFranchise(productFranchiseID)
	if err != nil {
		return nil, err
	}
	if inv.IsActive && inv.Available() <= inv.AlertThreshold {
		payload := queue.LowStockAlertPayload{
			InventoryID:        inv.ID,
			ProductFranchiseID: inv.ProductFranchiseID,
			Available:          inv.Available(),
			AlertThreshold:     inv.AlertThreshold,
		}
		if err := s.queue.EnqueueLowStockAlert(payload); err != nil {
			logger.Warnw("low_stock_alert_enqueue_failed",
				"inventory_id", inv.ID,
				"error", err,
			)
		}
	}
	return inv, nil
}

func validateStockOp(input StockOpInput) error {
	if input.ProductFranchiseID == 0 || strings.TrimSpace(input.ReferenceID) == "" {
		return ErrInvalidInput
	}
	if input.Quantity <= 0 {
		return ErrInvalidInput
	}
	return nil
}

func validReferenceType(referenceType string) bool {
	for _, t := range constants.InventoryReferenceTypes {
		if t == referenceType {
			return true
		}
	}
	return false
}
