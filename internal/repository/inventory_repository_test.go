package repository

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/franchise-next/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupInventoryRepositoryTest(t *testing.T) (*GormInventoryRepository, *gorm.DB) {
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
	); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	return NewInventoryRepository(db), db
}

func createTestListing(t *testing.T, db *gorm.DB, franchiseCode, size string) *models.ProductFranchise {
	t.Helper()
	franchise := &models.Franchise{Code: franchiseCode, Name: "门店 " + franchiseCode, IsActive: true}
	if err := db.Create(franchise).Error; err != nil {
		t.Fatalf("create franchise failed: %v", err)
	}
	product := &models.Product{
		CategoryID: 1,
		Name:       "测试商品 " + franchiseCode + size,
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
		Size:        size,
		PriceBase:   models.NewMoneyFromDecimal(decimal.NewFromInt(15)),
		IsActive:    true,
	}
	if err := db.Create(listing).Error; err != nil {
		t.Fatalf("create listing failed: %v", err)
	}
	return listing
}

func createTestInventory(t *testing.T, repo *GormInventoryRepository, listingID uint, quantity, reserved, threshold int) *models.Inventory {
	t.Helper()
	item := &models.Inventory{
		ProductFranchiseID: listingID,
		Quantity:           quantity,
		ReservedQuantity:   reserved,
		AlertThreshold:     threshold,
		IsActive:           true,
	}
	if err := repo.Create(item); err != nil {
		t.Fatalf("create inventory failed: %v", err)
	}
	return item
}

func TestInventoryCreateRejectsDuplicate(t *testing.T) {
	repo, db := setupInventoryRepositoryTest(t)
	listing := createTestListing(t, db, "SH001", "M")
	createTestInventory(t, repo, listing.ID, 10, 0, 5)

	err := repo.Create(&models.Inventory{ProductFranchiseID: listing.ID, Quantity: 3})
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Fatalf("duplicate create want ErrDuplicatedKey got %v", err)
	}
}

func TestReserveStockGuard(t *testing.T) {
	repo, db := setupInventoryRepositoryTest(t)
	listing := createTestListing(t, db, "SH001", "M")
	createTestInventory(t, repo, listing.ID, 10, 4, 5)

	// 可售 6，预占 6 应命中
	rows, err := repo.ReserveStock(listing.ID, 6)
	if err != nil {
		t.Fatalf("reserve failed: %v", err)
	}
	if rows != 1 {
		t.Fatalf("reserve rows want 1 got %d", rows)
	}

	// 可售归零，再预占 1 应零行命中
	rows, err = repo.ReserveStock(listing.ID, 1)
	if err != nil {
		t.Fatalf("reserve failed: %v", err)
	}
	if rows != 0 {
		t.Fatalf("reserve over stock rows want 0 got %d", rows)
	}

	item, err := repo.FindByProductFranchiseID(listing.ID)
	if err != nil {
		t.Fatalf("find inventory failed: %v", err)
	}
	if item.Quantity != 10 || item.ReservedQuantity != 10 {
		t.Fatalf("inventory want quantity 10 reserved 10 got %d/%d", item.Quantity, item.ReservedQuantity)
	}
}

func TestReserveStockConcurrentSingleWinner(t *testing.T) {
	repo, db := setupInventoryRepositoryTest(t)
	listing := createTestListing(t, db, "SH001", "M")
	createTestInventory(t, repo, listing.ID, 10, 0, 5)

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap sql db failed: %v", err)
	}
	// 单连接让两笔写入在驱动层排队，避开共享缓存内存库的表锁
	sqlDB.SetMaxOpenConns(1)

	var wg sync.WaitGroup
	hits := make([]int64, 2)
	errs := make([]error, 2)
	for i := range hits {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			hits[i], errs[i] = repo.ReserveStock(listing.ID, 6)
		}(i)
	}
	wg.Wait()

	// 可售 10，两笔各要 6：守卫只允许其中一笔通过
	var winners int64
	for i := range hits {
		if errs[i] != nil {
			t.Fatalf("concurrent reserve failed: %v", errs[i])
		}
		winners += hits[i]
	}
	if winners != 1 {
		t.Fatalf("concurrent reserve winners want 1 got %d", winners)
	}

	item, err := repo.FindByProductFranchiseID(listing.ID)
	if err != nil {
		t.Fatalf("find inventory failed: %v", err)
	}
	if item.Quantity != 10 || item.ReservedQuantity != 6 {
		t.Fatalf("inventory after race want quantity 10 reserved 6 got %d/%d", item.Quantity, item.ReservedQuantity)
	}
}

func TestReleaseStockGuard(t *testing.T) {
	repo, db := setupInventoryRepositoryTest(t)
	listing := createTestListing(t, db, "SH001", "M")
	createTestInventory(t, repo, listing.ID, 10, 3, 5)

	rows, err := repo.ReleaseStock(listing.ID, 3)
	if err != nil {
		t.Fatalf("release failed: %v", err)
	}
	if rows != 1 {
		t.Fatalf("release rows want 1 got %d", rows)
	}

	// 预占已清零，再释放应零行命中
	rows, err = repo.ReleaseStock(listing.ID, 1)
	if err != nil {
		t.Fatalf("release failed: %v", err)
	}
	if rows != 0 {
		t.Fatalf("release over hold rows want 0 got %d", rows)
	}
}

func TestDeductStockGuard(t *testing.T) {
	repo, db := setupInventoryRepositoryTest(t)
	listing := createTestListing(t, db, "SH001", "M")
	createTestInventory(t, repo, listing.ID, 10, 4, 5)

	rows, err := repo.DeductStock(listing.ID, 4)
	if err != nil {
		t.Fatalf("deduct failed: %v", err)
	}
	if rows != 1 {
		t.Fatalf("deduct rows want 1 got %d", rows)
	}

	item, err := repo.FindByProductFranchiseID(listing.ID)
	if err != nil {
		t.Fatalf("find inventory failed: %v", err)
	}
	if item.Quantity != 6 || item.ReservedQuantity != 0 {
		t.Fatalf("inventory want quantity 6 reserved 0 got %d/%d", item.Quantity, item.ReservedQuantity)
	}

	// 预占不足时不得扣减
	rows, err = repo.DeductStock(listing.ID, 1)
	if err != nil {
		t.Fatalf("deduct failed: %v", err)
	}
	if rows != 0 {
		t.Fatalf("deduct without hold rows want 0 got %d", rows)
	}
}

func TestAdjustStockGuard(t *testing.T) {
	repo, db := setupInventoryRepositoryTest(t)
	listing := createTestListing(t, db, "SH001", "M")
	createTestInventory(t, repo, listing.ID, 10, 0, 5)

	rows, err := repo.AdjustStock(listing.ID, 5)
	if err != nil {
		t.Fatalf("adjust failed: %v", err)
	}
	if rows != 1 {
		t.Fatalf("adjust rows want 1 got %d", rows)
	}

	rows, err = repo.AdjustStock(listing.ID, -15)
	if err != nil {
		t.Fatalf("adjust failed: %v", err)
	}
	if rows != 1 {
		t.Fatalf("adjust down rows want 1 got %d", rows)
	}

	// 现量为 0，继续负向调整应零行命中
	rows, err = repo.AdjustStock(listing.ID, -1)
	if err != nil {
		t.Fatalf("adjust failed: %v", err)
	}
	if rows != 0 {
		t.Fatalf("adjust below zero rows want 0 got %d", rows)
	}
}

func TestFindLowStockFiltersAndOrder(t *testing.T) {
	repo, db := setupInventoryRepositoryTest(t)

	low := createTestListing(t, db, "SH001", "M")
	lower := createTestListing(t, db, "BJ001", "L")
	healthy := createTestListing(t, db, "GZ001", "M")
	inactive := createTestListing(t, db, "SZ001", "M")

	createTestInventory(t, repo, low.ID, 10, 5, 5)       // 可售 5 == 阈值
	createTestInventory(t, repo, lower.ID, 4, 2, 5)      // 可售 2
	createTestInventory(t, repo, healthy.ID, 100, 0, 5)  // 可售充足
	item := createTestInventory(t, repo, inactive.ID, 1, 0, 5)
	if err := db.Model(&models.Inventory{}).Where("id = ?", item.ID).Update("is_active", false).Error; err != nil {
		t.Fatalf("deactivate inventory failed: %v", err)
	}

	items, err := repo.FindLowStock(0)
	if err != nil {
		t.Fatalf("find low stock failed: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("low stock count want 2 got %d", len(items))
	}
	if items[0].ProductFranchiseID != lower.ID {
		t.Fatalf("low stock order want listing %d first got %d", lower.ID, items[0].ProductFranchiseID)
	}
	if items[0].Available != 2 || items[1].Available != 5 {
		t.Fatalf("low stock available want 2,5 got %d,%d", items[0].Available, items[1].Available)
	}
	if items[1].FranchiseName == "" || items[1].ProductName == "" || items[1].Size != "M" {
		t.Fatalf("low stock row misses joined fields: %+v", items[1])
	}

	// 按门店过滤
	items, err = repo.FindLowStock(lower.FranchiseID)
	if err != nil {
		t.Fatalf("find low stock by franchise failed: %v", err)
	}
	if len(items) != 1 || items[0].ProductFranchiseID != lower.ID {
		t.Fatalf("low stock by franchise want only listing %d got %+v", lower.ID, items)
	}
}

func TestSoftDeleteAndRestore(t *testing.T) {
	repo, db := setupInventoryRepositoryTest(t)
	listing := createTestListing(t, db, "SH001", "M")
	item := createTestInventory(t, repo, listing.ID, 10, 0, 5)

	if err := repo.SoftDelete(item.ID); err != nil {
		t.Fatalf("soft delete failed: %v", err)
	}
	got, err := repo.GetByID(item.ID)
	if err != nil {
		t.Fatalf("get after delete failed: %v", err)
	}
	if got != nil {
		t.Fatalf("deleted inventory should not be visible, got %+v", got)
	}

	// 删除后同一单品可重新建档
	replacement := &models.Inventory{ProductFranchiseID: listing.ID, Quantity: 1}
	if err := repo.Create(replacement); err != nil {
		t.Fatalf("recreate after delete failed: %v", err)
	}

	// 新档未删除时恢复旧档会造成同一单品两行并存，拒绝
	if err := repo.Restore(item.ID); !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Fatalf("restore with live duplicate want ErrDuplicatedKey got %v", err)
	}

	if err := repo.SoftDelete(replacement.ID); err != nil {
		t.Fatalf("soft delete replacement failed: %v", err)
	}
	if err := repo.Restore(item.ID); err != nil {
		t.Fatalf("restore failed: %v", err)
	}
	got, err = repo.GetByID(item.ID)
	if err != nil {
		t.Fatalf("get after restore failed: %v", err)
	}
	if got == nil {
		t.Fatalf("restored inventory should be visible")
	}
}

func TestInventoryListJoinsAndFilters(t *testing.T) {
	repo, db := setupInventoryRepositoryTest(t)
	first := createTestListing(t, db, "SH001", "M")
	second := createTestListing(t, db, "BJ001", "L")
	createTestInventory(t, repo, first.ID, 10, 0, 5)
	createTestInventory(t, repo, second.ID, 20, 0, 5)

	items, total, err := repo.List(InventoryListFilter{Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 2 || len(items) != 2 {
		t.Fatalf("list want 2 rows got total=%d len=%d", total, len(items))
	}
	for _, item := range items {
		if item.ProductName == "" || item.FranchiseName == "" || item.Size == "" {
			t.Fatalf("list row misses joined fields: %+v", item)
		}
	}

	items, total, err = repo.List(InventoryListFilter{Page: 1, PageSize: 10, FranchiseID: second.FranchiseID})
	if err != nil {
		t.Fatalf("list by franchise failed: %v", err)
	}
	if total != 1 || len(items) != 1 || items[0].ProductFranchiseID != second.ID {
		t.Fatalf("list by franchise want only listing %d got total=%d %+v", second.ID, total, items)
	}
}
