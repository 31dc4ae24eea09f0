package repository

import (
	"errors"

	"github.com/franchise-next/internal/models"

	"gorm.io/gorm"
)

// AuditLogRepository 审计日志数据访问接口（只追加）
type AuditLogRepository interface {
	Create(entry *models.AuditLog) error
	List(filter AuditLogListFilter) ([]models.AuditLog, int64, error)
	ListByEntity(entityType string, entityID uint) ([]models.AuditLog, error)
	WithTx(tx *gorm.DB) AuditLogRepository
}

// GormAuditLogRepository GORM 实现
type GormAuditLogRepository struct {
	db *gorm.DB
}

// NewAuditLogRepository 创建审计日志仓库
func NewAuditLogRepository(db *gorm.DB) *GormAuditLogRepository {
	return &GormAuditLogRepository{db: db}
}

// WithTx 绑定事务
func (r *GormAuditLogRepository) WithTx(tx *gorm.DB) AuditLogRepository {
	if tx == nil {
		return r
	}
	return &GormAuditLogRepository{db: tx}
}

// Create 追加一条审计记录
func (r *GormAuditLogRepository) Create(entry *models.AuditLog) error {
	if entry == nil {
		return errors.New("audit log is nil")
	}
	if entry.EntityType == "" || entry.Action == "" {
		return errors.New("invalid audit log entry")
	}
	return r.db.Create(entry).Error
}

// List 分页查询审计日志
func (r *GormAuditLogRepository) List(filter AuditLogListFilter) ([]models.AuditLog, int64, error) {
	query := r.db.Model(&models.AuditLog{})
	if filter.EntityType != "" {
		query = query.Where("entity_type = ?", filter.EntityType)
	}
	if filter.EntityID != 0 {
		query = query.Where("entity_id = ?", filter.EntityID)
	}
	if filter.Action != "" {
		query = query.Where("action = ?", filter.Action)
	}
	if filter.ChangedBy != 0 {
		query = query.Where("changed_by = ?", filter.ChangedBy)
	}
	if filter.CreatedFrom != nil {
		query = query.Where("created_at >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		query = query.Where("created_at <= ?", *filter.CreatedTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	entries := make([]models.AuditLog, 0)
	if err := applyPagination(query, filter.Page, filter.PageSize).
		Order("created_at DESC, id DESC").
		Find(&entries).Error; err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

// ListByEntity 查询某实体的全部变更历史（旧在前）
func (r *GormAuditLogRepository) ListByEntity(entityType string, entityID uint) ([]models.AuditLog, error) {
	if entityType == "" || entityID == 0 {
		return nil, errors.New("invalid entity")
	}
	entries := make([]models.AuditLog, 0)
	if err := r.db.Where("entity_type = ? AND entity_id = ?", entityType, entityID).
		Order("created_at ASC, id ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
