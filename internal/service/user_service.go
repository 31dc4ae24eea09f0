package service

import (
	"context"
	"strings"
	"time"

	"github.com/franchise-next/internal/cache"
	"github.com/franchise-next/internal/constants"
	"github.com/franchise-next/internal/models"
	"github.com/franchise-next/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

// UserService 账号业务服务
type UserService struct {
	repo          repository.UserRepository
	franchiseRepo repository.FranchiseRepository
	audit         *AuditService
}

// NewUserService 创建账号服务
func NewUserService(repo repository.UserRepository, franchiseRepo repository.FranchiseRepository, audit *AuditService) *UserService {
	return &UserService{repo: repo, franchiseRepo: franchiseRepo, audit: audit}
}

// CreateUserInput 创建账号输入
type CreateUserInput struct {
	Email       string
	Password    string
	FullName    string
	Phone       string
	Role        string
	FranchiseID *uint
	OperatorID  uint
	RequestID   string
}

// UpdateUserInput 更新账号输入
type UpdateUserInput struct {
	FullName    string
	Phone       string
	Role        string
	FranchiseID *uint
	OperatorID  uint
	RequestID   string
}

// Create 创建账号
func (s *UserService) Create(input CreateUserInput) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" || len(input.Password) < 8 {
		return nil, ErrInvalidInput
	}
	if !validRole(input.Role) {
		return nil, ErrInvalidInput
	}
	if err := s.checkFranchiseBinding(input.Role, input.FranchiseID); err != nil {
		return nil, err
	}

	existing, err := s.repo.FindByEmail(email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrItemExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := models.User{
		Email:        email,
		PasswordHash: string(hash),
		FullName:     strings.TrimSpace(input.FullName),
		Phone:        strings.TrimSpace(input.Phone),
		Role:         input.Role,
		FranchiseID:  input.FranchiseID,
		Status:       constants.UserStatusActive,
		IsActive:     true,
	}
	if err := s.repo.Create(&user); err != nil {
		return nil, err
	}
	_ = s.audit.Record(RecordAuditInput{
		EntityType: constants.AuditEntityUser,
		EntityID:   user.ID,
		Action:     constants.AuditActionCreate,
		NewData:    user,
		ChangedBy:  input.OperatorID,
		RequestID:  input.RequestID,
	})
	return &user, nil
}

// Get 获取账号
func (s *UserService) Get(id uint) (*models.User, error) {
	user, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}
	return user, nil
}

// List 分页查询账号列表
func (s *UserService) List(filter repository.UserListFilter) ([]models.User, int64, error) {
	return s.repo.List(filter)
}

// Update 更新账号资料与角色
func (s *UserService) Update(id uint, input UpdateUserInput) (*models.User, error) {
	user, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if !validRole(input.Role) {
		return nil, ErrInvalidInput
	}
	if err := s.checkFranchiseBinding(input.Role, input.FranchiseID); err != nil {
		return nil, err
	}

	before := *user
	user.FullName = strings.TrimSpace(input.FullName)
	user.Phone = strings.TrimSpace(input.Phone)
	user.Role = input.Role
	user.FranchiseID = input.FranchiseID
	if err := s.repo.Update(user); err != nil {
		return nil, err
	}
	_ = cache.DelUserAuthState(context.Background(), user.ID)
	_ = s.audit.Record(RecordAuditInput{
		EntityType: constants.AuditEntityUser,
		EntityID:   user.ID,
		Action:     constants.AuditActionUpdate,
		OldData:    before,
		NewData:    *user,
		ChangedBy:  input.OperatorID,
		RequestID:  input.RequestID,
	})
	return user, nil
}

// SetStatus 锁定/解锁账号（锁定时吊销既有 token）
func (s *UserService) SetStatus(id uint, status string, operatorID uint, requestID string) (*models.User, error) {
	if status != constants.UserStatusActive && status != constants.UserStatusLocked {
		return nil, ErrInvalidInput
	}
	user, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	before := *user
	user.Status = status
	if status == constants.UserStatusLocked {
		now := time.Now()
		user.TokenVersion++
		user.TokenInvalidBefore = &now
	}
	if err := s.repo.Update(user); err != nil {
		return nil, err
	}
	_ = cache.SetUserAuthState(context.Background(), cache.BuildUserAuthState(user))
	_ = s.audit.Record(RecordAuditInput{
		EntityType: constants.AuditEntityUser,
		EntityID:   user.ID,
		Action:     constants.AuditActionChangeStatus,
		OldData:    before,
		NewData:    *user,
		ChangedBy:  operatorID,
		RequestID:  requestID,
	})
	return user, nil
}

// Delete 软删除账号并吊销既有 token
func (s *UserService) Delete(id uint, operatorID uint, requestID string) error {
	user, err := s.Get(id)
	if err != nil {
		return err
	}
	if err := s.repo.BumpTokenVersion(id); err != nil {
		return err
	}
	if err := s.repo.SoftDelete(id); err != nil {
		return err
	}
	_ = cache.DelUserAuthState(context.Background(), id)
	_ = s.audit.Record(RecordAuditInput{
		EntityType: constants.AuditEntityUser,
		EntityID:   id,
		Action:     constants.AuditActionSoftDelete,
		OldData:    *user,
		ChangedBy:  operatorID,
		RequestID:  requestID,
	})
	return nil
}

// checkFranchiseBinding 门店级角色必须绑定且绑定到存在的门店
func (s *UserService) checkFranchiseBinding(role string, franchiseID *uint) error {
	if role == constants.RoleSystemAdmin {
		return nil
	}
	if franchiseID == nil || *franchiseID == 0 {
		return ErrInvalidInput
	}
	franchise, err := s.franchiseRepo.GetByID(*franchiseID)
	if err != nil {
		return err
	}
	if franchise == nil {
		return ErrNotFound
	}
	return nil
}

func validRole(role string) bool {
	switch role {
	case constants.RoleSystemAdmin, constants.RoleFranchiseManager, constants.RoleFranchiseStaff:
		return true
	}
	return false
}
