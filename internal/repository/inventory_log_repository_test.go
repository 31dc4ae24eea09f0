package repository

import (
	"fmt"
	"testing"

	"github.com/franchise-next/internal/constants"
	"github.com/franchise-next/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupInventoryLogRepositoryTest(t *testing.T) *GormInventoryLogRepository {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.InventoryLog{}); err != nil {
		t.Fatalf("migrate inventory log failed: %v", err)
	}
	return NewInventoryLogRepository(db)
}

func TestInventoryLogCreateValidation(t *testing.T) {
	repo := setupInventoryLogRepositoryTest(t)

	if err := repo.Create(nil); err == nil {
		t.Fatalf("nil log should be rejected")
	}
	if err := repo.Create(&models.InventoryLog{Change: 1}); err == nil {
		t.Fatalf("log without inventory id should be rejected")
	}
	if err := repo.Create(&models.InventoryLog{InventoryID: 1}); err == nil {
		t.Fatalf("log with zero change should be rejected")
	}
	if err := repo.Create(&models.InventoryLog{
		InventoryID:        1,
		ProductFranchiseID: 1,
		Change:             3,
		Type:               constants.InventoryTypeReserve,
		ReferenceType:      constants.InventoryReferenceOrder,
		ReferenceID:        "ORD-1",
	}); err != nil {
		t.Fatalf("valid log create failed: %v", err)
	}
}

func TestInventoryLogListByInventoryOrder(t *testing.T) {
	repo := setupInventoryLogRepositoryTest(t)

	for i := 1; i <= 3; i++ {
		if err := repo.Create(&models.InventoryLog{
			InventoryID:        7,
			ProductFranchiseID: 7,
			Change:             i,
			Type:               constants.InventoryTypeAdjust,
			ReferenceType:      constants.InventoryReferenceManual,
		}); err != nil {
			t.Fatalf("create log failed: %v", err)
		}
	}

	logs, total, err := repo.ListByInventory(7, 1, 10)
	if err != nil {
		t.Fatalf("list logs failed: %v", err)
	}
	if total != 3 || len(logs) != 3 {
		t.Fatalf("logs want 3 got total=%d len=%d", total, len(logs))
	}
	// 新在前
	if logs[0].Change != 3 || logs[2].Change != 1 {
		t.Fatalf("logs order want newest first got %d,%d,%d", logs[0].Change, logs[1].Change, logs[2].Change)
	}
}

func TestInventoryLogListByReference(t *testing.T) {
	repo := setupInventoryLogRepositoryTest(t)

	entries := []models.InventoryLog{
		{InventoryID: 1, ProductFranchiseID: 1, Change: 2, Type: constants.InventoryTypeReserve, ReferenceType: constants.InventoryReferenceOrder, ReferenceID: "ORD-100"},
		{InventoryID: 1, ProductFranchiseID: 1, Change: -2, Type: constants.InventoryTypeDeduct, ReferenceType: constants.InventoryReferenceOrder, ReferenceID: "ORD-100"},
		{InventoryID: 1, ProductFranchiseID: 1, Change: 5, Type: constants.InventoryTypeReserve, ReferenceType: constants.InventoryReferenceOrder, ReferenceID: "ORD-200"},
	}
	for i := range entries {
		if err := repo.Create(&entries[i]); err != nil {
			t.Fatalf("create log failed: %v", err)
		}
	}

	logs, err := repo.ListByReference(constants.InventoryReferenceOrder, "ORD-100")
	if err != nil {
		t.Fatalf("list by reference failed: %v", err)
	}
	if len(logs) != 2 {
		t.Fatalf("reference logs want 2 got %d", len(logs))
	}
	// 旧在前
	if logs[0].Change != 2 || logs[1].Change != -2 {
		t.Fatalf("reference logs order want oldest first got %d,%d", logs[0].Change, logs[1].Change)
	}
}
