package service

import (
	"strings"

	"github.com/franchise-next/internal/constants"
	"github.com/franchise-next/internal/models"
	"github.com/franchise-next/internal/repository"
)

// FranchiseService 门店业务服务
type FranchiseService struct {
	repo  repository.FranchiseRepository
	audit *AuditService
}

// NewFranchiseService 创建门店服务
func NewFranchiseService(repo repository.FranchiseRepository, audit *AuditService) *FranchiseService {
	return &FranchiseService{repo: repo, audit: audit}
}

// FranchiseInput 创建/更新门店输入
type FranchiseInput struct {
	Code       string
	Name       string
	Hotline    string
	LogoURL    string
	Address    string
	OpenedAt   string
	ClosedAt   string
	OperatorID uint
	RequestID  string
}

// Create 创建门店（编码唯一）
func (s *FranchiseService) Create(input FranchiseInput) (*models.Franchise, error) {
	code := strings.TrimSpace(input.Code)
	name := strings.TrimSpace(input.Name)
	if code == "" || name == "" {
		return nil, ErrInvalidInput
	}
	existing, err := s.repo.FindByCode(code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrItemExists
	}

	franchise := models.Franchise{
		Code:     code,
		Name:     name,
		Hotline:  strings.TrimSpace(input.Hotline),
		LogoURL:  strings.TrimSpace(input.LogoURL),
		Address:  strings.TrimSpace(input.Address),
		OpenedAt: strings.TrimSpace(input.OpenedAt),
		ClosedAt: strings.TrimSpace(input.ClosedAt),
		IsActive: true,
	}
	if err := s.repo.Create(&franchise); err != nil {
		return nil, err
	}
	_ = s.audit.Record(RecordAuditInput{
		EntityType: constants.AuditEntityFranchise,
		EntityID:   franchise.ID,
		Action:     constants.AuditActionCreate,
		NewData:    franchise,
		ChangedBy:  input.OperatorID,
		RequestID:  input.RequestID,
	})
	return &franchise, nil
}

// Get 获取门店
func (s *FranchiseService) Get(id uint) (*models.Franchise, error) {
	franchise, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if franchise == nil {
		return nil, ErrNotFound
	}
	return franchise, nil
}

// List 分页查询门店列表
func (s *FranchiseService) List(filter repository.FranchiseListFilter) ([]models.Franchise, int64, error) {
	return s.repo.List(filter)
}

// Update 更新门店（编码唯一性对其它门店校验）
func (s *FranchiseService) Update(id uint, input FranchiseInput) (*models.Franchise, error) {
	franchise, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	code := strings.TrimSpace(input.Code)
	name := strings.TrimSpace(input.Name)
	if code == "" || name == "" {
		return nil, ErrInvalidInput
	}
	if code != franchise.Code {
		existing, err := s.repo.FindByCode(code)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != id {
			return nil, ErrItemExists
		}
	}

	before := *franchise
	franchise.Code = code
	franchise.Name = name
	franchise.Hotline = strings.TrimSpace(input.Hotline)
	franchise.LogoURL = strings.TrimSpace(input.LogoURL)
	franchise.Address = strings.TrimSpace(input.Address)
	franchise.OpenedAt = strings.TrimSpace(input.OpenedAt)
	franchise.ClosedAt = strings.TrimSpace(input.ClosedAt)
	if err := s.repo.Update(franchise); err != nil {
		return nil, err
	}
	_ = s.audit.Record(RecordAuditInput{
		EntityType: constants.AuditEntityFranchise,
		EntityID:   franchise.ID,
		Action:     constants.AuditActionUpdate,
		OldData:    before,
		NewData:    *franchise,
		ChangedBy:  input.OperatorID,
		RequestID:  input.RequestID,
	})
	return franchise, nil
}

// SetActive 启用/停用门店
func (s *FranchiseService) SetActive(id uint, active bool, operatorID uint, requestID string) (*models.Franchise, error) {
	franchise, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	before := *franchise
	franchise.IsActive = active
	if err := s.repo.Update(franchise); err != nil {
		return nil, err
	}
	_ = s.audit.Record(RecordAuditInput{
		EntityType: constants.AuditEntityFranchise,
		EntityID:   franchise.ID,
		Action:     constants.AuditActionChangeStatus,
		OldData:    before,
		NewData:    *franchise,
		ChangedBy:  operatorID,
		RequestID:  requestID,
	})
	return franchise, nil
}

// Delete 软删除门店
func (s *FranchiseService) Delete(id uint, operatorID uint, requestID string) error {
	franchise, err := s.Get(id)
	if err != nil {
		return err
	}
	if err := s.repo.SoftDelete(id); err != nil {
		return err
	}
	_ = s.audit.Record(RecordAuditInput{
		EntityType: constants.AuditEntityFranchise,
		EntityID:   id,
		Action:     constants.AuditActionSoftDelete,
		OldData:    *franchise,
		ChangedBy:  operatorID,
		RequestID:  requestID,
	})
	return nil
}
