package service

import (
	"strings"

	"github.com/franchise-next/internal/constants"
	"github.com/franchise-next/internal/models"
	"github.com/franchise-next/internal/repository"
)

// ProductFranchiseService 门店在售单品业务服务
// 门店售价必须落在商品主档的 [min_price, max_price] 区间内。
type ProductFranchiseService struct {
	repo          repository.ProductFranchiseRepository
	productRepo   repository.ProductRepository
	franchiseRepo repository.FranchiseRepository
	audit         *AuditService
}

// NewProductFranchiseService 创建在售单品服务
func NewProductFranchiseService(
	repo repository.ProductFranchiseRepository,
	productRepo repository.ProductRepository,
	franchiseRepo repository.FranchiseRepository,
	audit *AuditService,
) *ProductFranchiseService {
	return &ProductFranchiseService{
		repo:          repo,
		productRepo:   productRepo,
		franchiseRepo: franchiseRepo,
		audit:         audit,
	}
}

// ProductFranchiseInput 创建在售单品输入
type ProductFranchiseInput struct {
	ProductID   uint
	FranchiseID uint
	Size        string
	PriceBase   models.Money
	OperatorID  uint
	RequestID   string
}

// UpdateListingInput 更新在售单品输入（商品/门店绑定不可变）
type UpdateListingInput struct {
	Size       string
	PriceBase  models.Money
	OperatorID uint
	RequestID  string
}

// Create 上架在售单品（商品×门店×规格 唯一）
func (s *ProductFranchiseService) Create(input ProductFranchiseInput) (*models.ProductFranchise, error) {
	size := normalizeSize(input.Size)
	if input.ProductID == 0 || input.FranchiseID == 0 || size == "" {
		return nil, ErrInvalidInput
	}

	product, err := s.productRepo.GetByID(input.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrNotFound
	}
	franchise, err := s.franchiseRepo.GetByID(input.FranchiseID)
	if err != nil {
		return nil, err
	}
	if franchise == nil {
		return nil, ErrNotFound
	}
	if !input.PriceBase.Between(product.MinPrice, product.MaxPrice) {
		return nil, ErrPriceOutOfRange
	}

	existing, err := s.repo.FindByTriple(input.ProductID, input.FranchiseID, size)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrItemExists
	}

	item := models.ProductFranchise{
		ProductID:   input.ProductID,
		FranchiseID: input.FranchiseID,
		Size:        size,
		PriceBase:   input.PriceBase,
		IsActive:    true,
	}
	if err := s.repo.Create(&item); err != nil {
		return nil, err
	}
	_ = s.audit.Record(RecordAuditInput{
		EntityType: constants.AuditEntityProductFranchise,
		EntityID:   item.ID,
		Action:     constants.AuditActionCreate,
		NewData:    item,
		ChangedBy:  input.OperatorID,
		RequestID:  input.RequestID,
	})
	return &item, nil
}

// Get 获取在售单品（含商品与门店）
func (s *ProductFranchiseService) Get(id uint) (*models.ProductFranchise, error) {
	item, err := s.repo.GetByIDWithRelations(id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrNotFound
	}
	return item, nil
}

// List 分页查询在售单品列表
func (s *ProductFranchiseService) List(filter repository.ProductFranchiseListFilter) ([]models.ProductFranchise, int64, error) {
	return s.repo.List(filter)
}

// Update 更新在售单品的规格与售价
func (s *ProductFranchiseService) Update(id uint, input UpdateListingInput) (*models.ProductFranchise, error) {
	item, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrNotFound
	}
	size := normalizeSize(input.Size)
	if size == "" {
		return nil, ErrInvalidInput
	}

	product, err := s.productRepo.GetByID(item.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrNotFound
	}
	if !input.PriceBase.Between(product.MinPrice, product.MaxPrice) {
		return nil, ErrPriceOutOfRange
	}
	if size != item.Size {
		existing, err := s.repo.FindByTriple(item.ProductID, item.FranchiseID, size)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != id {
			return nil, ErrItemExists
		}
	}

	before := *item
	item.Size = size
	item.PriceBase = input.PriceBase
	if err := s.repo.Update(item); err != nil {
		return nil, err
	}
	_ = s.audit.Record(RecordAuditInput{
		EntityType: constants.AuditEntityProductFranchise,
		EntityID:   item.ID,
		Action:     constants.AuditActionUpdate,
		OldData:    before,
		NewData:    *item,
		ChangedBy:  input.OperatorID,
		RequestID:  input.RequestID,
	})
	return item, nil
}

// SetActive 上架/下架在售单品
func (s *ProductFranchiseService) SetActive(id uint, active bool, operatorID uint, requestID string) (*models.ProductFranchise, error) {
	item, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrNotFound
	}
	before := *item
	item.IsActive = active
	if err := s.repo.Update(item); err != nil {
		return nil, err
	}
	_ = s.audit.Record(RecordAuditInput{
		EntityType: constants.AuditEntityProductFranchise,
		EntityID:   item.ID,
		Action:     constants.AuditActionChangeStatus,
		OldData:    before,
		NewData:    *item,
		ChangedBy:  operatorID,
		RequestID:  requestID,
	})
	return item, nil
}

// Delete 软删除在售单品
func (s *ProductFranchiseService) Delete(id uint, operatorID uint, requestID string) error {
	item, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if item == nil {
		return ErrNotFound
	}
	if err := s.repo.SoftDelete(id); err != nil {
		return err
	}
	_ = s.audit.Record(RecordAuditInput{
		EntityType: constants.AuditEntityProductFranchise,
		EntityID:   id,
		Action:     constants.AuditActionSoftDelete,
		OldData:    *item,
		ChangedBy:  operatorID,
		RequestID:  requestID,
	})
	return nil
}

// normalizeSize 规格统一大写去空白
func normalizeSize(size string) string {
	return strings.ToUpper(strings.TrimSpace(size))
}
