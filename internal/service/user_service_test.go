package service

import (
	"errors"
	"fmt"
	"testing"

	"github.com/franchise-next/internal/constants"
	"github.com/franchise-next/internal/models"
	"github.com/franchise-next/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupUserServiceTest(t *testing.T) (*UserService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Franchise{}, &models.AuditLog{}); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	svc := NewUserService(
		repository.NewUserRepository(db),
		repository.NewFranchiseRepository(db),
		NewAuditService(repository.NewAuditLogRepository(db)),
	)
	return svc, db
}

func createTestFranchise(t *testing.T, db *gorm.DB, code string) *models.Franchise {
	t.Helper()
	franchise := models.Franchise{
		Code:     code,
		Name:     "门店 " + code,
		IsActive: true,
	}
	if err := db.Create(&franchise).Error; err != nil {
		t.Fatalf("create franchise failed: %v", err)
	}
	return &franchise
}

func TestUserCreateValidation(t *testing.T) {
	svc, db := setupUserServiceTest(t)
	franchise := createTestFranchise(t, db, "SH001")

	cases := []struct {
		name  string
		input CreateUserInput
		want  error
	}{
		{
			name:  "empty email",
			input: CreateUserInput{Password: "password123", Role: constants.RoleSystemAdmin},
			want:  ErrInvalidInput,
		},
		{
			name:  "short password",
			input: CreateUserInput{Email: "a@example.com", Password: "short", Role: constants.RoleSystemAdmin},
			want:  ErrInvalidInput,
		},
		{
			name:  "unknown role",
			input: CreateUserInput{Email: "a@example.com", Password: "password123", Role: "superuser"},
			want:  ErrInvalidInput,
		},
		{
			name:  "staff without franchise",
			input: CreateUserInput{Email: "a@example.com", Password: "password123", Role: constants.RoleFranchiseStaff},
			want:  ErrInvalidInput,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Create(tc.input); !errors.Is(err, tc.want) {
				t.Fatalf("want %v got %v", tc.want, err)
			}
		})
	}

	missing := uint(franchise.ID + 100)
	if _, err := svc.Create(CreateUserInput{
		Email:       "a@example.com",
		Password:    "password123",
		Role:        constants.RoleFranchiseStaff,
		FranchiseID: &missing,
	}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing franchise want ErrNotFound got %v", err)
	}
}

func TestUserCreateNormalizesEmailAndRejectsDuplicate(t *testing.T) {
	svc, db := setupUserServiceTest(t)
	franchise := createTestFranchise(t, db, "SH001")

	user, err := svc.Create(CreateUserInput{
		Email:       " Manager@Example.com ",
		Password:    "password123",
		FullName:    " 王经理 ",
		Role:        constants.RoleFranchiseManager,
		FranchiseID: &franchise.ID,
		OperatorID:  1,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if user.Email != "manager@example.com" {
		t.Fatalf("email want manager@example.com got %s", user.Email)
	}
	if user.FullName != "王经理" {
		t.Fatalf("full name want 王经理 got %q", user.FullName)
	}
	if user.Status != constants.UserStatusActive || !user.IsActive {
		t.Fatalf("new user should be active: %+v", user)
	}

	if _, err := svc.Create(CreateUserInput{
		Email:       "manager@example.com",
		Password:    "password123",
		Role:        constants.RoleFranchiseManager,
		FranchiseID: &franchise.ID,
	}); !errors.Is(err, ErrItemExists) {
		t.Fatalf("duplicate email want ErrItemExists got %v", err)
	}

	var auditCount int64
	if err := db.Model(&models.AuditLog{}).
		Where("entity_type = ? AND entity_id = ?", constants.AuditEntityUser, user.ID).
		Count(&auditCount).Error; err != nil {
		t.Fatalf("count audit logs failed: %v", err)
	}
	if auditCount != 1 {
		t.Fatalf("audit logs want 1 got %d", auditCount)
	}
}

func TestUserSetStatusLockedBumpsTokenVersion(t *testing.T) {
	svc, db := setupUserServiceTest(t)
	franchise := createTestFranchise(t, db, "SH001")

	user, err := svc.Create(CreateUserInput{
		Email:       "staff@example.com",
		Password:    "password123",
		Role:        constants.RoleFranchiseStaff,
		FranchiseID: &franchise.ID,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if _, err := svc.SetStatus(user.ID, "suspended", 1, ""); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("unknown status want ErrInvalidInput got %v", err)
	}

	locked, err := svc.SetStatus(user.ID, constants.UserStatusLocked, 1, "req-9")
	if err != nil {
		t.Fatalf("lock failed: %v", err)
	}
	if locked.Status != constants.UserStatusLocked {
		t.Fatalf("status want locked got %s", locked.Status)
	}
	if locked.TokenVersion != user.TokenVersion+1 {
		t.Fatalf("token version want %d got %d", user.TokenVersion+1, locked.TokenVersion)
	}
	if locked.TokenInvalidBefore == nil {
		t.Fatalf("token invalid before should be set on lock")
	}

	unlocked, err := svc.SetStatus(user.ID, constants.UserStatusActive, 1, "")
	if err != nil {
		t.Fatalf("unlock failed: %v", err)
	}
	if unlocked.TokenVersion != locked.TokenVersion {
		t.Fatalf("unlock should not bump token version, want %d got %d", locked.TokenVersion, unlocked.TokenVersion)
	}
}

func TestUserDeleteRevokesAndHides(t *testing.T) {
	svc, db := setupUserServiceTest(t)
	franchise := createTestFranchise(t, db, "SH001")

	user, err := svc.Create(CreateUserInput{
		Email:       "staff@example.com",
		Password:    "password123",
		Role:        constants.RoleFranchiseStaff,
		FranchiseID: &franchise.ID,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if err := svc.Delete(user.ID, 1, "req-1"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := svc.Get(user.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("deleted user want ErrNotFound got %v", err)
	}
	if err := svc.Delete(user.ID, 1, ""); !errors.Is(err, ErrNotFound) {
		t.Fatalf("double delete want ErrNotFound got %v", err)
	}

	var stored models.User
	if err := db.Unscoped().First(&stored, user.ID).Error; err != nil {
		t.Fatalf("load deleted row failed: %v", err)
	}
	if stored.TokenVersion != user.TokenVersion+1 {
		t.Fatalf("delete should bump token version, want %d got %d", user.TokenVersion+1, stored.TokenVersion)
	}
	if !stored.DeletedAt.Valid {
		t.Fatalf("deleted_at should be set")
	}
}

func TestUserListFilters(t *testing.T) {
	svc, db := setupUserServiceTest(t)
	franchise := createTestFranchise(t, db, "SH001")
	other := createTestFranchise(t, db, "BJ001")

	seeds := []CreateUserInput{
		{Email: "admin@example.com", Password: "password123", FullName: "总部管理员", Role: constants.RoleSystemAdmin},
		{Email: "manager@example.com", Password: "password123", FullName: "王经理", Role: constants.RoleFranchiseManager, FranchiseID: &franchise.ID},
		{Email: "staff@example.com", Password: "password123", FullName: "李店员", Role: constants.RoleFranchiseStaff, FranchiseID: &other.ID},
	}
	for i, seed := range seeds {
		if _, err := svc.Create(seed); err != nil {
			t.Fatalf("create seed %d failed: %v", i, err)
		}
	}

	users, total, err := svc.List(repository.UserListFilter{Page: 1, PageSize: 20, Role: constants.RoleFranchiseManager})
	if err != nil {
		t.Fatalf("list by role failed: %v", err)
	}
	if total != 1 || len(users) != 1 || users[0].Email != "manager@example.com" {
		t.Fatalf("role filter want manager, got total=%d users=%v", total, users)
	}

	users, total, err = svc.List(repository.UserListFilter{Page: 1, PageSize: 20, FranchiseID: other.ID})
	if err != nil {
		t.Fatalf("list by franchise failed: %v", err)
	}
	if total != 1 || users[0].Email != "staff@example.com" {
		t.Fatalf("franchise filter want staff, got total=%d", total)
	}

	_, total, err = svc.List(repository.UserListFilter{Page: 1, PageSize: 20, Keyword: "经理"})
	if err != nil {
		t.Fatalf("list by keyword failed: %v", err)
	}
	if total != 1 {
		t.Fatalf("keyword filter want 1 got %d", total)
	}
}
