package service

import (
	"errors"
	"fmt"
	"testing"

	"github.com/franchise-next/internal/constants"
	"github.com/franchise-next/internal/models"
	"github.com/franchise-next/internal/queue"
	"github.com/franchise-next/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupInventoryServiceTest(t *testing.T) (*InventoryService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Category{},
		&models.Product{},
		&models.Franchise{},
		&models.ProductFranchise{},
		&models.Inventory{},
		&models.InventoryLog{},
		&models.AuditLog{},
	); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	queueClient, err := queue.NewClient(nil)
	if err != nil {
		t.Fatalf("create queue client failed: %v", err)
	}
	svc := NewInventoryService(
		db,
		repository.NewInventoryRepository(db),
		repository.NewInventoryLogRepository(db),
		repository.NewProductFranchiseRepository(db),
		queueClient,
		NewAuditService(repository.NewAuditLogRepository(db)),
	)
	return svc, db
}

func countAuditRows(t *testing.T, db *gorm.DB, entityID uint, action string) int64 {
	t.Helper()
	var count int64
	if err := db.Model(&models.AuditLog{}).
		Where("entity_type = ? AND entity_id = ? AND action = ?", constants.AuditEntityInventory, entityID, action).
		Count(&count).Error; err != nil {
		t.Fatalf("count audit rows failed: %v", err)
	}
	return count
}

func createServiceTestListing(t *testing.T, db *gorm.DB) *models.ProductFranchise {
	t.Helper()
	franchise := &models.Franchise{Code: "SH001", Name: "上海南京路店", IsActive: true}
	if err := db.Create(franchise).Error; err != nil {
		t.Fatalf("create franchise failed: %v", err)
	}
	product := &models.Product{
		CategoryID: 1,
		Name:       "珍珠奶茶",
		MinPrice:   models.NewMoneyFromDecimal(decimal.NewFromInt(10)),
		MaxPrice:   models.NewMoneyFromDecimal(decimal.NewFromInt(30)),
		IsActive:   true,
	}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	listing := &models.ProductFranchise{
		ProductID:   product.ID,
		FranchiseID: franchise.ID,
		Size:        "M",
		PriceBase:   models.NewMoneyFromDecimal(decimal.NewFromInt(15)),
		IsActive:    true,
	}
	if err := db.Create(listing).Error; err != nil {
		t.Fatalf("create listing failed: %v", err)
	}
	return listing
}

func countLogs(t *testing.T, db *gorm.DB, inventoryID uint) int64 {
	t.Helper()
	var count int64
	if err := db.Model(&models.InventoryLog{}).Where("inventory_id = ?", inventoryID).Count(&count).Error; err != nil {
		t.Fatalf("count logs failed: %v", err)
	}
	return count
}

func TestInventoryCreateWritesImportLog(t *testing.T) {
	svc, db := setupInventoryServiceTest(t)
	listing := createServiceTestListing(t, db)

	item, err := svc.Create(CreateInventoryInput{ProductFranchiseID: listing.ID, Quantity: 50, AlertThreshold: 8, OperatorID: 1})
	if err != nil {
		t.Fatalf("create inventory failed: %v", err)
	}
	if item.Quantity != 50 || item.AlertThreshold != 8 {
		t.Fatalf("inventory want quantity 50 threshold 8 got %d/%d", item.Quantity, item.AlertThreshold)
	}

	var entry models.InventoryLog
	if err := db.Where("inventory_id = ?", item.ID).First(&entry).Error; err != nil {
		t.Fatalf("load import log failed: %v", err)
	}
	if entry.Type != constants.InventoryTypeAdjust || entry.ReferenceType != constants.InventoryReferenceImport {
		t.Fatalf("import log want ADJUST/IMPORT got %s/%s", entry.Type, entry.ReferenceType)
	}
	if entry.Change != 50 {
		t.Fatalf("import log change want 50 got %d", entry.Change)
	}

	// 同一单品重复建档拒绝
	if _, err := svc.Create(CreateInventoryInput{ProductFranchiseID: listing.ID, Quantity: 1}); !errors.Is(err, ErrItemExists) {
		t.Fatalf("duplicate create want ErrItemExists got %v", err)
	}
}

func TestInventoryCreateZeroQuantitySkipsLog(t *testing.T) {
	svc, db := setupInventoryServiceTest(t)
	listing := createServiceTestListing(t, db)

	item, err := svc.Create(CreateInventoryInput{ProductFranchiseID: listing.ID, Quantity: 0})
	if err != nil {
		t.Fatalf("create inventory failed: %v", err)
	}
	if item.AlertThreshold != constants.DefaultAlertThreshold {
		t.Fatalf("threshold want default %d got %d", constants.DefaultAlertThreshold, item.AlertThreshold)
	}
	if got := countLogs(t, db, item.ID); got != 0 {
		t.Fatalf("zero quantity create logs want 0 got %d", got)
	}
}

func TestReserveLifecycle(t *testing.T) {
	svc, db := setupInventoryServiceTest(t)
	listing := createServiceTestListing(t, db)
	created, err := svc.Create(CreateInventoryInput{ProductFranchiseID: listing.ID, Quantity: 10, AlertThreshold: 2})
	if err != nil {
		t.Fatalf("create inventory failed: %v", err)
	}

	item, err := svc.Reserve(StockOpInput{ProductFranchiseID: listing.ID, Quantity: 4, ReferenceID: "ORD-1", OperatorID: 9})
	if err != nil {
		t.Fatalf("reserve failed: %v", err)
	}
	if item.ReservedQuantity != 4 || item.Available() != 6 {
		t.Fatalf("after reserve want reserved 4 available 6 got %d/%d", item.ReservedQuantity, item.Available())
	}

	// 超售预占整体失败，不产生流水
	if _, err := svc.Reserve(StockOpInput{ProductFranchiseID: listing.ID, Quantity: 7, ReferenceID: "ORD-2"}); !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("oversell reserve want ErrInsufficientStock got %v", err)
	}
	if got := countLogs(t, db, created.ID); got != 2 {
		t.Fatalf("logs want 2 (import + reserve) got %d", got)
	}

	var entry models.InventoryLog
	if err := db.Where("inventory_id = ? AND type = ?", created.ID, constants.InventoryTypeReserve).First(&entry).Error; err != nil {
		t.Fatalf("load reserve log failed: %v", err)
	}
	if entry.Change != 4 || entry.ReferenceType != constants.InventoryReferenceOrder || entry.ReferenceID != "ORD-1" || entry.CreatedBy != 9 {
		t.Fatalf("reserve log mismatch: %+v", entry)
	}
}

func TestReleaseNoopKeepsLedgerClean(t *testing.T) {
	svc, db := setupInventoryServiceTest(t)
	listing := createServiceTestListing(t, db)
	created, err := svc.Create(CreateInventoryInput{ProductFranchiseID: listing.ID, Quantity: 10})
	if err != nil {
		t.Fatalf("create inventory failed: %v", err)
	}
	if _, err := svc.Reserve(StockOpInput{ProductFranchiseID: listing.ID, Quantity: 2, ReferenceID: "ORD-1"}); err != nil {
		t.Fatalf("reserve failed: %v", err)
	}
	logsBefore := countLogs(t, db, created.ID)

	// 释放量超过预占：不报错、不产生流水、预占不变
	item, err := svc.Release(StockOpInput{ProductFranchiseID: listing.ID, Quantity: 5, ReferenceID: "ORD-1"})
	if err != nil {
		t.Fatalf("release noop should not error: %v", err)
	}
	if item.ReservedQuantity != 2 {
		t.Fatalf("release noop reserved want 2 got %d", item.ReservedQuantity)
	}
	if got := countLogs(t, db, created.ID); got != logsBefore {
		t.Fatalf("release noop logs want %d got %d", logsBefore, got)
	}

	// 正常释放产生负向流水
	item, err = svc.Release(StockOpInput{ProductFranchiseID: listing.ID, Quantity: 2, ReferenceID: "ORD-1"})
	if err != nil {
		t.Fatalf("release failed: %v", err)
	}
	if item.ReservedQuantity != 0 {
		t.Fatalf("after release reserved want 0 got %d", item.ReservedQuantity)
	}
	var entry models.InventoryLog
	if err := db.Where("inventory_id = ? AND type = ?", created.ID, constants.InventoryTypeRelease).First(&entry).Error; err != nil {
		t.Fatalf("load release log failed: %v", err)
	}
	if entry.Change != -2 {
		t.Fatalf("release log change want -2 got %d", entry.Change)
	}
}

func TestDeductRequiresHold(t *testing.T) {
	svc, db := setupInventoryServiceTest(t)
	listing := createServiceTestListing(t, db)
	created, err := svc.Create(CreateInventoryInput{ProductFranchiseID: listing.ID, Quantity: 10})
	if err != nil {
		t.Fatalf("create inventory failed: %v", err)
	}

	// 未预占直接扣减拒绝
	if _, err := svc.Deduct(StockOpInput{ProductFranchiseID: listing.ID, Quantity: 3, ReferenceID: "ORD-1"}); !errors.Is(err, ErrInsufficientHold) {
		t.Fatalf("deduct without hold want ErrInsufficientHold got %v", err)
	}

	if _, err := svc.Reserve(StockOpInput{ProductFranchiseID: listing.ID, Quantity: 3, ReferenceID: "ORD-1"}); err != nil {
		t.Fatalf("reserve failed: %v", err)
	}
	item, err := svc.Deduct(StockOpInput{ProductFranchiseID: listing.ID, Quantity: 3, ReferenceID: "ORD-1"})
	if err != nil {
		t.Fatalf("deduct failed: %v", err)
	}
	if item.Quantity != 7 || item.ReservedQuantity != 0 {
		t.Fatalf("after deduct want quantity 7 reserved 0 got %d/%d", item.Quantity, item.ReservedQuantity)
	}

	var entry models.InventoryLog
	if err := db.Where("inventory_id = ? AND type = ?", created.ID, constants.InventoryTypeDeduct).First(&entry).Error; err != nil {
		t.Fatalf("load deduct log failed: %v", err)
	}
	if entry.Change != -3 {
		t.Fatalf("deduct log change want -3 got %d", entry.Change)
	}
}

func TestAdjustValidationAndLedger(t *testing.T) {
	svc, db := setupInventoryServiceTest(t)
	listing := createServiceTestListing(t, db)
	created, err := svc.Create(CreateInventoryInput{ProductFranchiseID: listing.ID, Quantity: 10})
	if err != nil {
		t.Fatalf("create inventory failed: %v", err)
	}

	if _, err := svc.Adjust(AdjustStockInput{ProductFranchiseID: listing.ID, Change: 0, Reason: "盘点"}); !errors.Is(err, ErrInvalidAdjustment) {
		t.Fatalf("zero change want ErrInvalidAdjustment got %v", err)
	}
	if _, err := svc.Adjust(AdjustStockInput{ProductFranchiseID: listing.ID, Change: 5}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("missing reason want ErrInvalidInput got %v", err)
	}
	if _, err := svc.Adjust(AdjustStockInput{ProductFranchiseID: listing.ID, Change: 5, Reason: "盘点", ReferenceType: "UNKNOWN"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("bad reference type want ErrInvalidInput got %v", err)
	}

	// 负向调整超过现量属于非法调整，与可售不足是两类错误
	if _, err := svc.Adjust(AdjustStockInput{ProductFranchiseID: listing.ID, Change: -11, Reason: "报损"}); !errors.Is(err, ErrInvalidAdjustment) {
		t.Fatalf("over adjust want ErrInvalidAdjustment got %v", err)
	}

	item, err := svc.Adjust(AdjustStockInput{ProductFranchiseID: listing.ID, Change: -4, Reason: "报损", OperatorID: 2})
	if err != nil {
		t.Fatalf("adjust failed: %v", err)
	}
	if item.Quantity != 6 {
		t.Fatalf("after adjust quantity want 6 got %d", item.Quantity)
	}

	var entry models.InventoryLog
	if err := db.Where("inventory_id = ? AND type = ? AND reference_type = ?", created.ID, constants.InventoryTypeAdjust, constants.InventoryReferenceManual).First(&entry).Error; err != nil {
		t.Fatalf("load adjust log failed: %v", err)
	}
	if entry.Change != -4 || entry.Reason != "报损" {
		t.Fatalf("adjust log mismatch: %+v", entry)
	}
}

func TestDeleteBlockedByReservation(t *testing.T) {
	svc, db := setupInventoryServiceTest(t)
	listing := createServiceTestListing(t, db)
	created, err := svc.Create(CreateInventoryInput{ProductFranchiseID: listing.ID, Quantity: 10})
	if err != nil {
		t.Fatalf("create inventory failed: %v", err)
	}
	if _, err := svc.Reserve(StockOpInput{ProductFranchiseID: listing.ID, Quantity: 1, ReferenceID: "ORD-1"}); err != nil {
		t.Fatalf("reserve failed: %v", err)
	}

	if err := svc.Delete(created.ID, 1, ""); !errors.Is(err, ErrInventoryReserved) {
		t.Fatalf("delete with hold want ErrInventoryReserved got %v", err)
	}

	if _, err := svc.Release(StockOpInput{ProductFranchiseID: listing.ID, Quantity: 1, ReferenceID: "ORD-1"}); err != nil {
		t.Fatalf("release failed: %v", err)
	}
	if err := svc.Delete(created.ID, 1, ""); err != nil {
		t.Fatalf("delete after release failed: %v", err)
	}
	if _, err := svc.Get(created.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("get deleted want ErrNotFound got %v", err)
	}
}

func TestRestoreRejectsLiveDuplicate(t *testing.T) {
	svc, db := setupInventoryServiceTest(t)
	listing := createServiceTestListing(t, db)
	first, err := svc.Create(CreateInventoryInput{ProductFranchiseID: listing.ID, Quantity: 10})
	if err != nil {
		t.Fatalf("create inventory failed: %v", err)
	}
	if err := svc.Delete(first.ID, 1, ""); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	second, err := svc.Create(CreateInventoryInput{ProductFranchiseID: listing.ID, Quantity: 5})
	if err != nil {
		t.Fatalf("recreate after delete failed: %v", err)
	}

	// 新记录在世时恢复旧记录会破坏单品唯一性，拒绝
	if err := svc.Restore(first.ID, 1, ""); !errors.Is(err, ErrItemExists) {
		t.Fatalf("restore with live duplicate want ErrItemExists got %v", err)
	}
	var live int64
	if err := db.Model(&models.Inventory{}).Where("product_franchise_id = ?", listing.ID).Count(&live).Error; err != nil {
		t.Fatalf("count live records failed: %v", err)
	}
	if live != 1 {
		t.Fatalf("live records for one listing want 1 got %d", live)
	}

	// 新记录删除后恢复旧记录可行
	if err := svc.Delete(second.ID, 1, ""); err != nil {
		t.Fatalf("delete second failed: %v", err)
	}
	if err := svc.Restore(first.ID, 1, ""); err != nil {
		t.Fatalf("restore after collision cleared failed: %v", err)
	}
	item, err := svc.Get(first.ID)
	if err != nil {
		t.Fatalf("get restored failed: %v", err)
	}
	if item.Quantity != 10 {
		t.Fatalf("restored quantity want 10 got %d", item.Quantity)
	}

	if err := svc.Restore(9999, 1, ""); !errors.Is(err, ErrNotFound) {
		t.Fatalf("restore missing id want ErrNotFound got %v", err)
	}
}

func TestInventoryAuditTrail(t *testing.T) {
	svc, db := setupInventoryServiceTest(t)
	listing := createServiceTestListing(t, db)

	created, err := svc.Create(CreateInventoryInput{ProductFranchiseID: listing.ID, Quantity: 10, OperatorID: 7, RequestID: "req-1"})
	if err != nil {
		t.Fatalf("create inventory failed: %v", err)
	}
	if got := countAuditRows(t, db, created.ID, constants.AuditActionCreate); got != 1 {
		t.Fatalf("create audit rows want 1 got %d", got)
	}

	if err := svc.Delete(created.ID, 7, "req-2"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if got := countAuditRows(t, db, created.ID, constants.AuditActionSoftDelete); got != 1 {
		t.Fatalf("soft delete audit rows want 1 got %d", got)
	}

	if err := svc.Restore(created.ID, 7, "req-3"); err != nil {
		t.Fatalf("restore failed: %v", err)
	}
	if got := countAuditRows(t, db, created.ID, constants.AuditActionRestore); got != 1 {
		t.Fatalf("restore audit rows want 1 got %d", got)
	}

	var entry models.AuditLog
	if err := db.Where("entity_type = ? AND entity_id = ? AND action = ?",
		constants.AuditEntityInventory, created.ID, constants.AuditActionSoftDelete).First(&entry).Error; err != nil {
		t.Fatalf("load soft delete audit failed: %v", err)
	}
	if entry.ChangedBy != 7 || entry.RequestID != "req-2" {
		t.Fatalf("audit row want changed_by 7 request req-2 got %d/%s", entry.ChangedBy, entry.RequestID)
	}
	if len(entry.OldData) == 0 {
		t.Fatalf("soft delete audit should snapshot old data")
	}
}

func TestListLogsByReferenceValidation(t *testing.T) {
	svc, db := setupInventoryServiceTest(t)
	listing := createServiceTestListing(t, db)
	if _, err := svc.Create(CreateInventoryInput{ProductFranchiseID: listing.ID, Quantity: 10}); err != nil {
		t.Fatalf("create inventory failed: %v", err)
	}
	if _, err := svc.Reserve(StockOpInput{ProductFranchiseID: listing.ID, Quantity: 2, ReferenceID: "ORD-9"}); err != nil {
		t.Fatalf("reserve failed: %v", err)
	}

	if _, err := svc.ListLogsByReference("BOGUS", "ORD-9"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("bad reference type want ErrInvalidInput got %v", err)
	}
	logs, err := svc.ListLogsByReference("order", "ORD-9")
	if err != nil {
		t.Fatalf("list by reference failed: %v", err)
	}
	if len(logs) != 1 || logs[0].ReferenceID != "ORD-9" {
		t.Fatalf("reference logs want 1 row for ORD-9 got %+v", logs)
	}
}
