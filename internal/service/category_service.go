package service

import (
	"strings"

	"github.com/franchise-next/internal/constants"
	"github.com/franchise-next/internal/models"
	"github.com/franchise-next/internal/repository"
)

// CategoryService 商品分类业务服务
type CategoryService struct {
	repo  repository.CategoryRepository
	audit *AuditService
}

// NewCategoryService 创建分类服务
func NewCategoryService(repo repository.CategoryRepository, audit *AuditService) *CategoryService {
	return &CategoryService{repo: repo, audit: audit}
}

// CategoryInput 创建/更新分类输入
type CategoryInput struct {
	Name        string
	Description string
	SortOrder   int
	OperatorID  uint
	RequestID   string
}

// Create 创建分类（名称唯一）
func (s *CategoryService) Create(input CategoryInput) (*models.Category, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrInvalidInput
	}
	existing, err := s.repo.FindByName(name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrItemExists
	}

	category := models.Category{
		Name:        name,
		Description: strings.TrimSpace(input.Description),
		SortOrder:   input.SortOrder,
		IsActive:    true,
	}
	if err := s.repo.Create(&category); err != nil {
		return nil, err
	}
	_ = s.audit.Record(RecordAuditInput{
		EntityType: constants.AuditEntityCategory,
		EntityID:   category.ID,
		Action:     constants.AuditActionCreate,
		NewData:    category,
		ChangedBy:  input.OperatorID,
		RequestID:  input.RequestID,
	})
	return &category, nil
}

// Get 获取分类
func (s *CategoryService) Get(id uint) (*models.Category, error) {
	category, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, ErrNotFound
	}
	return category, nil
}

// List 分页查询分类列表
func (s *CategoryService) List(filter repository.CategoryListFilter) ([]models.Category, int64, error) {
	return s.repo.List(filter)
}

// Update 更新分类
func (s *CategoryService) Update(id uint, input CategoryInput) (*models.Category, error) {
	category, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrInvalidInput
	}
	if name != category.Name {
		existing, err := s.repo.FindByName(name)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != id {
			return nil, ErrItemExists
		}
	}

	before := *category
	category.Name = name
	category.Description = strings.TrimSpace(input.Description)
	category.SortOrder = input.SortOrder
	if err := s.repo.Update(category); err != nil {
		return nil, err
	}
	_ = s.audit.Record(RecordAuditInput{
		EntityType: constants.AuditEntityCategory,
		EntityID:   category.ID,
		Action:     constants.AuditActionUpdate,
		OldData:    before,
		NewData:    *category,
		ChangedBy:  input.OperatorID,
		RequestID:  input.RequestID,
	})
	return category, nil
}

// Delete 软删除分类（下挂商品时拒绝）
func (s *CategoryService) Delete(id uint, operatorID uint, requestID string) error {
	category, err := s.Get(id)
	if err != nil {
		return err
	}
	count, err := s.repo.CountProducts(id)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrCategoryInUse
	}
	if err := s.repo.SoftDelete(id); err != nil {
		return err
	}
	_ = s.audit.Record(RecordAuditInput{
		EntityType: constants.AuditEntityCategory,
		EntityID:   id,
		Action:     constants.AuditActionSoftDelete,
		OldData:    *category,
		ChangedBy:  operatorID,
		RequestID:  requestID,
	})
	return nil
}
