package service

import (
	"encoding/json"

	"github.com/franchise-next/internal/logger"
	"github.com/franchise-next/internal/models"
	"github.com/franchise-next/internal/repository"

	"gorm.io/gorm"
)

// AuditService 审计日志服务
// 记录实体变更前后的字段快照；审计失败不阻断主流程，由调用方降级为告警日志。
type AuditService struct {
	repo repository.AuditLogRepository
}

// NewAuditService 创建审计服务
func NewAuditService(repo repository.AuditLogRepository) *AuditService {
	return &AuditService{repo: repo}
}

// RecordAuditInput 审计记录输入
type RecordAuditInput struct {
	EntityType string
	EntityID   uint
	Action     string
	OldData    interface{}
	NewData    interface{}
	ChangedBy  uint
	RequestID  string
	Note       string
}

// Record 追加一条审计记录
func (s *AuditService) Record(input RecordAuditInput) error {
	return s.record(nil, input)
}

// RecordTx 在既有事务内追加一条审计记录
func (s *AuditService) RecordTx(tx *gorm.DB, input RecordAuditInput) error {
	return s.record(tx, input)
}

func (s *AuditService) record(tx *gorm.DB, input RecordAuditInput) error {
	if s == nil || s.repo == nil {
		return nil
	}
	entry := models.AuditLog{
		EntityType: input.EntityType,
		EntityID:   input.EntityID,
		Action:     input.Action,
		OldData:    snapshot(input.OldData),
		NewData:    snapshot(input.NewData),
		ChangedBy:  input.ChangedBy,
		RequestID:  input.RequestID,
		Note:       input.Note,
	}
	repo := s.repo
	if tx != nil {
		repo = repo.WithTx(tx)
	}
	if err := repo.Create(&entry); err != nil {
		logger.Warnw("audit_record_failed",
			"entity_type", input.EntityType,
			"entity_id", input.EntityID,
			"action", input.Action,
			"error", err,
		)
		return err
	}
	return nil
}

// List 分页查询审计日志
func (s *AuditService) List(filter repository.AuditLogListFilter) ([]models.AuditLog, int64, error) {
	return s.repo.List(filter)
}

// History 查询某实体的全部变更历史
func (s *AuditService) History(entityType string, entityID uint) ([]models.AuditLog, error) {
	entries, err := s.repo.ListByEntity(entityType, entityID)
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// snapshot 将实体序列化为字段快照，nil 输入得到 nil 快照
func snapshot(v interface{}) models.JSON {
	if v == nil {
		return nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		logger.Warnw("audit_snapshot_failed", "error", err)
		return nil
	}
	var data map[string]interface{}
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil
	}
	return models.JSON(data)
}
