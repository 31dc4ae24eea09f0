package service

import (
	"errors"
	"fmt"
	"testing"

	"github.com/franchise-next/internal/models"
	"github.com/franchise-next/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupProductServiceTest(t *testing.T) (*ProductService, *gorm.DB) {
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
		&models.AuditLog{},
	); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	svc := NewProductService(
		repository.NewProductRepository(db),
		repository.NewCategoryRepository(db),
		NewAuditService(repository.NewAuditLogRepository(db)),
	)
	return svc, db
}

func seedProductCategory(t *testing.T, db *gorm.DB) *models.Category {
	t.Helper()
	category := models.Category{Name: "奶茶", IsActive: true}
	if err := db.Create(&category).Error; err != nil {
		t.Fatalf("create category failed: %v", err)
	}
	return &category
}

func TestProductCreateValidatesPriceRange(t *testing.T) {
	svc, db := setupProductServiceTest(t)
	category := seedProductCategory(t, db)

	if _, err := svc.Create(ProductInput{
		CategoryID: category.ID,
		Name:       "珍珠奶茶",
		MinPrice:   models.NewMoneyFromDecimal(decimal.NewFromInt(20)),
		MaxPrice:   models.NewMoneyFromDecimal(decimal.NewFromInt(15)),
	}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("inverted range want ErrInvalidInput got %v", err)
	}

	if _, err := svc.Create(ProductInput{
		CategoryID: category.ID,
		Name:       "珍珠奶茶",
		MinPrice:   models.NewMoneyFromDecimal(decimal.NewFromInt(-1)),
		MaxPrice:   models.NewMoneyFromDecimal(decimal.NewFromInt(15)),
	}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("negative min want ErrInvalidInput got %v", err)
	}

	if _, err := svc.Create(ProductInput{
		CategoryID: category.ID + 100,
		Name:       "珍珠奶茶",
		MinPrice:   models.NewMoneyFromDecimal(decimal.NewFromInt(15)),
		MaxPrice:   models.NewMoneyFromDecimal(decimal.NewFromInt(20)),
	}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing category want ErrNotFound got %v", err)
	}

	product, err := svc.Create(ProductInput{
		CategoryID: category.ID,
		Name:       " 珍珠奶茶 ",
		MinPrice:   models.NewMoneyFromDecimal(decimal.NewFromInt(15)),
		MaxPrice:   models.NewMoneyFromDecimal(decimal.NewFromInt(20)),
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if product.Name != "珍珠奶茶" {
		t.Fatalf("name should be trimmed, got %q", product.Name)
	}
	if !product.IsActive {
		t.Fatalf("new product should be active")
	}
}

func TestProductGetPreloadsCategory(t *testing.T) {
	svc, db := setupProductServiceTest(t)
	category := seedProductCategory(t, db)

	created, err := svc.Create(ProductInput{
		CategoryID: category.ID,
		Name:       "满杯百香果",
		MinPrice:   models.NewMoneyFromDecimal(decimal.NewFromInt(14)),
		MaxPrice:   models.NewMoneyFromDecimal(decimal.NewFromInt(22)),
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	got, err := svc.Get(created.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.Category == nil || got.Category.Name != "奶茶" {
		t.Fatalf("category should be preloaded, got %+v", got.Category)
	}
}

func TestProductSetActiveToggles(t *testing.T) {
	svc, db := setupProductServiceTest(t)
	category := seedProductCategory(t, db)

	created, err := svc.Create(ProductInput{
		CategoryID: category.ID,
		Name:       "生椰拿铁",
		MinPrice:   models.NewMoneyFromDecimal(decimal.NewFromInt(18)),
		MaxPrice:   models.NewMoneyFromDecimal(decimal.NewFromInt(24)),
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	updated, err := svc.SetActive(created.ID, false, 1, "")
	if err != nil {
		t.Fatalf("deactivate failed: %v", err)
	}
	if updated.IsActive {
		t.Fatalf("product should be inactive")
	}

	if _, err := svc.SetActive(created.ID+100, false, 1, ""); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing product want ErrNotFound got %v", err)
	}
}

func TestProductDeleteBlockedByListings(t *testing.T) {
	svc, db := setupProductServiceTest(t)
	category := seedProductCategory(t, db)

	created, err := svc.Create(ProductInput{
		CategoryID: category.ID,
		Name:       "珍珠奶茶",
		MinPrice:   models.NewMoneyFromDecimal(decimal.NewFromInt(15)),
		MaxPrice:   models.NewMoneyFromDecimal(decimal.NewFromInt(20)),
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	franchise := models.Franchise{Code: "SH001", Name: "上海一店", IsActive: true}
	if err := db.Create(&franchise).Error; err != nil {
		t.Fatalf("create franchise failed: %v", err)
	}
	listing := models.ProductFranchise{
		ProductID:   created.ID,
		FranchiseID: franchise.ID,
		Size:        "M",
		PriceBase:   models.NewMoneyFromDecimal(decimal.NewFromInt(16)),
		IsActive:    true,
	}
	if err := db.Create(&listing).Error; err != nil {
		t.Fatalf("create listing failed: %v", err)
	}

	if err := svc.Delete(created.ID, 1, ""); !errors.Is(err, ErrProductInUse) {
		t.Fatalf("delete with listings want ErrProductInUse got %v", err)
	}

	if err := db.Delete(&listing).Error; err != nil {
		t.Fatalf("remove listing failed: %v", err)
	}
	if err := svc.Delete(created.ID, 1, ""); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := svc.Get(created.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("deleted product want ErrNotFound got %v", err)
	}
}
