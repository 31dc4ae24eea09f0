package service

import (
	"strings"

	"github.com/franchise-next/internal/constants"
	"github.com/franchise-next/internal/models"
	"github.com/franchise-next/internal/repository"
)

// ProductService 商品业务服务
type ProductService struct {
	repo         repository.ProductRepository
	categoryRepo repository.CategoryRepository
	audit        *AuditService
}

// NewProductService 创建商品服务
func NewProductService(repo repository.ProductRepository, categoryRepo repository.CategoryRepository, audit *AuditService) *ProductService {
	return &ProductService{repo: repo, categoryRepo: categoryRepo, audit: audit}
}

// ProductInput 创建/更新商品输入
type ProductInput struct {
	CategoryID  uint
	Name        string
	Description string
	ImageURL    string
	MinPrice    models.Money
	MaxPrice    models.Money
	OperatorID  uint
	RequestID   string
}

func (input ProductInput) validate() error {
	if input.CategoryID == 0 || strings.TrimSpace(input.Name) == "" {
		return ErrInvalidInput
	}
	if input.MinPrice.IsNegative() || input.MaxPrice.LessThan(input.MinPrice.Decimal) {
		return ErrInvalidInput
	}
	return nil
}

// Create 创建商品（价格区间须合法，分类须存在）
func (s *ProductService) Create(input ProductInput) (*models.Product, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}
	category, err := s.categoryRepo.GetByID(input.CategoryID)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, ErrNotFound
	}

	product := models.Product{
		CategoryID:  input.CategoryID,
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
		ImageURL:    strings.TrimSpace(input.ImageURL),
		MinPrice:    input.MinPrice,
		MaxPrice:    input.MaxPrice,
		IsActive:    true,
	}
	if err := s.repo.Create(&product); err != nil {
		return nil, err
	}
	_ = s.audit.Record(RecordAuditInput{
		EntityType: constants.AuditEntityProduct,
		EntityID:   product.ID,
		Action:     constants.AuditActionCreate,
		NewData:    product,
		ChangedBy:  input.OperatorID,
		RequestID:  input.RequestID,
	})
	return &product, nil
}

// Get 获取商品（含分类）
func (s *ProductService) Get(id uint) (*models.Product, error) {
	product, err := s.repo.GetByIDWithCategory(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrNotFound
	}
	return product, nil
}

// List 分页查询商品列表
func (s *ProductService) List(filter repository.ProductListFilter) ([]models.Product, int64, error) {
	return s.repo.List(filter)
}

// Update 更新商品
func (s *ProductService) Update(id uint, input ProductInput) (*models.Product, error) {
	product, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrNotFound
	}
	if err := input.validate(); err != nil {
		return nil, err
	}
	if input.CategoryID != product.CategoryID {
		category, err := s.categoryRepo.GetByID(input.CategoryID)
		if err != nil {
			return nil, err
		}
		if category == nil {
			return nil, ErrNotFound
		}
	}

	before := *product
	product.CategoryID = input.CategoryID
	product.Name = strings.TrimSpace(input.Name)
	product.Description = input.Description
	product.ImageURL = strings.TrimSpace(input.ImageURL)
	product.MinPrice = input.MinPrice
	product.MaxPrice = input.MaxPrice
	if err := s.repo.Update(product); err != nil {
		return nil, err
	}
	_ = s.audit.Record(RecordAuditInput{
		EntityType: constants.AuditEntityProduct,
		EntityID:   product.ID,
		Action:     constants.AuditActionUpdate,
		OldData:    before,
		NewData:    *product,
		ChangedBy:  input.OperatorID,
		RequestID:  input.RequestID,
	})
	return product, nil
}

// SetActive 上架/下架商品
func (s *ProductService) SetActive(id uint, active bool, operatorID uint, requestID string) (*models.Product, error) {
	product, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrNotFound
	}
	before := *product
	product.IsActive = active
	if err := s.repo.Update(product); err != nil {
		return nil, err
	}
	_ = s.audit.Record(RecordAuditInput{
		EntityType: constants.AuditEntityProduct,
		EntityID:   product.ID,
		Action:     constants.AuditActionChangeStatus,
		OldData:    before,
		NewData:    *product,
		ChangedBy:  operatorID,
		RequestID:  requestID,
	})
	return product, nil
}

// Delete 软删除商品（仍有门店上架时拒绝）
func (s *ProductService) Delete(id uint, operatorID uint, requestID string) error {
	product, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if product == nil {
		return ErrNotFound
	}
	count, err := s.repo.CountListings(id)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrProductInUse
	}
	if err := s.repo.SoftDelete(id); err != nil {
		return err
	}
	_ = s.audit.Record(RecordAuditInput{
		EntityType: constants.AuditEntityProduct,
		EntityID:   id,
		Action:     constants.AuditActionSoftDelete,
		OldData:    *product,
		ChangedBy:  operatorID,
		RequestID:  requestID,
	})
	return nil
}
