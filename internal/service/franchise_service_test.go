package service

import (
	"errors"
	"fmt"
	"testing"

	"github.com/franchise-next/internal/models"
	"github.com/franchise-next/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupFranchiseServiceTest(t *testing.T) *FranchiseService {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Franchise{}, &models.AuditLog{}); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	return NewFranchiseService(
		repository.NewFranchiseRepository(db),
		NewAuditService(repository.NewAuditLogRepository(db)),
	)
}

func TestFranchiseCreateRejectsDuplicateCode(t *testing.T) {
	svc := setupFranchiseServiceTest(t)

	if _, err := svc.Create(FranchiseInput{Code: "SH001"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("missing name want ErrInvalidInput got %v", err)
	}

	created, err := svc.Create(FranchiseInput{
		Code:     " SH001 ",
		Name:     " 上海一店 ",
		Hotline:  "021-12345678",
		OpenedAt: "09:00",
		ClosedAt: "22:00",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if created.Code != "SH001" || created.Name != "上海一店" {
		t.Fatalf("fields should be trimmed: %+v", created)
	}
	if !created.IsActive {
		t.Fatalf("new franchise should be active")
	}

	if _, err := svc.Create(FranchiseInput{Code: "SH001", Name: "另一家"}); !errors.Is(err, ErrItemExists) {
		t.Fatalf("duplicate code want ErrItemExists got %v", err)
	}
}

func TestFranchiseUpdateChecksCodeCollision(t *testing.T) {
	svc := setupFranchiseServiceTest(t)

	first, err := svc.Create(FranchiseInput{Code: "SH001", Name: "上海一店"})
	if err != nil {
		t.Fatalf("create first failed: %v", err)
	}
	second, err := svc.Create(FranchiseInput{Code: "BJ001", Name: "北京一店"})
	if err != nil {
		t.Fatalf("create second failed: %v", err)
	}

	if _, err := svc.Update(second.ID, FranchiseInput{Code: "SH001", Name: "北京一店"}); !errors.Is(err, ErrItemExists) {
		t.Fatalf("code collision want ErrItemExists got %v", err)
	}

	updated, err := svc.Update(first.ID, FranchiseInput{Code: "SH001", Name: "上海旗舰店", Address: "南京路 100 号"})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Name != "上海旗舰店" || updated.Address != "南京路 100 号" {
		t.Fatalf("unexpected update result: %+v", updated)
	}
}

func TestFranchiseSetActiveAndDelete(t *testing.T) {
	svc := setupFranchiseServiceTest(t)

	created, err := svc.Create(FranchiseInput{Code: "SH001", Name: "上海一店"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	updated, err := svc.SetActive(created.ID, false, 1, "")
	if err != nil {
		t.Fatalf("deactivate failed: %v", err)
	}
	if updated.IsActive {
		t.Fatalf("franchise should be inactive")
	}

	if err := svc.Delete(created.ID, 1, ""); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := svc.Get(created.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("deleted franchise want ErrNotFound got %v", err)
	}
	if err := svc.Delete(created.ID, 1, ""); !errors.Is(err, ErrNotFound) {
		t.Fatalf("double delete want ErrNotFound got %v", err)
	}
}
