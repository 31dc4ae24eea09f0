package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/franchise-next/internal/config"
	"github.com/franchise-next/internal/constants"
	"github.com/franchise-next/internal/models"
	"github.com/franchise-next/internal/repository"

	"github.com/glebarez/sqlite"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func setupAuthServiceTest(t *testing.T) (*AuthService, repository.UserRepository) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Franchise{}); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	cfg := &config.Config{}
	cfg.JWT.SecretKey = "0123456789abcdef0123456789abcdef"
	cfg.JWT.ExpireHours = 24
	repo := repository.NewUserRepository(db)
	return NewAuthService(cfg, repo), repo
}

func createAuthTestUser(t *testing.T, repo repository.UserRepository, email, password, status string) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("hash password failed: %v", err)
	}
	user := models.User{
		Email:        email,
		PasswordHash: string(hash),
		FullName:     "测试账号",
		Role:         constants.RoleSystemAdmin,
		Status:       status,
		IsActive:     status == constants.UserStatusActive,
	}
	if err := repo.Create(&user); err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	return &user
}

func TestLoginAndParseJWT(t *testing.T) {
	svc, repo := setupAuthServiceTest(t)
	created := createAuthTestUser(t, repo, "admin@example.com", "password123", constants.UserStatusActive)

	user, token, expiresAt, err := svc.Login("admin@example.com", "password123")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if user.ID != created.ID {
		t.Fatalf("user id want %d got %d", created.ID, user.ID)
	}
	if token == "" {
		t.Fatalf("token should not be empty")
	}
	if !expiresAt.After(time.Now()) {
		t.Fatalf("expires_at should be in the future, got %v", expiresAt)
	}

	claims, err := svc.ParseJWT(token)
	if err != nil {
		t.Fatalf("parse jwt failed: %v", err)
	}
	if claims.UserID != created.ID || claims.Email != "admin@example.com" || claims.Role != constants.RoleSystemAdmin {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, repo := setupAuthServiceTest(t)
	createAuthTestUser(t, repo, "admin@example.com", "password123", constants.UserStatusActive)

	if _, _, _, err := svc.Login("admin@example.com", "wrong-password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("want ErrInvalidCredentials got %v", err)
	}
	if _, _, _, err := svc.Login("nobody@example.com", "password123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown email want ErrInvalidCredentials got %v", err)
	}
}

func TestLoginRejectsLockedUser(t *testing.T) {
	svc, repo := setupAuthServiceTest(t)
	createAuthTestUser(t, repo, "locked@example.com", "password123", constants.UserStatusLocked)

	if _, _, _, err := svc.Login("locked@example.com", "password123"); !errors.Is(err, ErrUserLocked) {
		t.Fatalf("want ErrUserLocked got %v", err)
	}
}

func TestChangePasswordRevokesOldToken(t *testing.T) {
	svc, repo := setupAuthServiceTest(t)
	created := createAuthTestUser(t, repo, "admin@example.com", "password123", constants.UserStatusActive)

	_, token, _, err := svc.Login("admin@example.com", "password123")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	claims, err := svc.ParseJWT(token)
	if err != nil {
		t.Fatalf("parse jwt failed: %v", err)
	}

	if err := svc.ChangePassword(created.ID, "wrong-old", "newpassword123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong old password want ErrInvalidCredentials got %v", err)
	}
	if err := svc.ChangePassword(created.ID, "password123", "short"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("short password want ErrInvalidInput got %v", err)
	}
	if err := svc.ChangePassword(created.ID, "password123", "newpassword123"); err != nil {
		t.Fatalf("change password failed: %v", err)
	}

	// 旧 token 的版本号已过期
	if _, err := svc.ValidateClaims(context.Background(), claims); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("stale claims want ErrInvalidCredentials got %v", err)
	}

	if _, _, _, err := svc.Login("admin@example.com", "password123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("old password should no longer work, got %v", err)
	}
	if _, _, _, err := svc.Login("admin@example.com", "newpassword123"); err != nil {
		t.Fatalf("login with new password failed: %v", err)
	}
}

func TestValidateClaimsChecksStatus(t *testing.T) {
	svc, repo := setupAuthServiceTest(t)
	created := createAuthTestUser(t, repo, "staff@example.com", "password123", constants.UserStatusActive)

	_, token, _, err := svc.Login("staff@example.com", "password123")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	claims, err := svc.ParseJWT(token)
	if err != nil {
		t.Fatalf("parse jwt failed: %v", err)
	}
	if _, err := svc.ValidateClaims(context.Background(), claims); err != nil {
		t.Fatalf("validate fresh claims failed: %v", err)
	}

	created.Status = constants.UserStatusLocked
	if err := repo.Update(created); err != nil {
		t.Fatalf("lock user failed: %v", err)
	}
	if _, err := svc.ValidateClaims(context.Background(), claims); !errors.Is(err, ErrUserLocked) {
		t.Fatalf("locked user want ErrUserLocked got %v", err)
	}
}
