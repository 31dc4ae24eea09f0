package main

import (
	"github.com/franchise-next/internal/config"
	"github.com/franchise-next/internal/logger"
	"github.com/franchise-next/internal/models"

	"github.com/shopspring/decimal"
)

func main() {
	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	// 分类
	categories := []models.Category{
		{Name: "奶茶", Description: "经典奶茶系列", SortOrder: 1, IsActive: true},
		{Name: "果茶", Description: "新鲜水果茶系列", SortOrder: 2, IsActive: true},
		{Name: "咖啡", Description: "现磨咖啡系列", SortOrder: 3, IsActive: true},
	}
	for _, cat := range categories {
		var existing models.Category
		if err := models.DB.Where("name = ?", cat.Name).First(&existing).Error; err != nil {
			if err := models.DB.Create(&cat).Error; err != nil {
				stdLog.Printf("Failed to create category %s: %v", cat.Name, err)
			} else {
				stdLog.Printf("Created category: %s", cat.Name)
			}
		} else {
			stdLog.Printf("Category already exists: %s", cat.Name)
		}
	}

	categoryIDs := map[string]uint{}
	var categoryList []models.Category
	if err := models.DB.Where("name IN ?", []string{"奶茶", "果茶", "咖啡"}).Find(&categoryList).Error; err != nil {
		stdLog.Printf("Failed to load categories: %v", err)
	}
	for _, cat := range categoryList {
		categoryIDs[cat.Name] = cat.ID
	}

	// 门店
	franchises := []models.Franchise{
		{Code: "SH001", Name: "上海南京路店", Hotline: "021-60001234", Address: "上海市黄浦区南京东路 100 号", OpenedAt: "09:00", ClosedAt: "22:00", IsActive: true},
		{Code: "BJ001", Name: "北京王府井店", Hotline: "010-65005678", Address: "北京市东城区王府井大街 88 号", OpenedAt: "09:30", ClosedAt: "21:30", IsActive: true},
	}
	for _, fr := range franchises {
		var existing models.Franchise
		if err := models.DB.Where("code = ?", fr.Code).First(&existing).Error; err != nil {
			if err := models.DB.Create(&fr).Error; err != nil {
				stdLog.Printf("Failed to create franchise %s: %v", fr.Code, err)
			} else {
				stdLog.Printf("Created franchise: %s", fr.Code)
			}
		} else {
			stdLog.Printf("Franchise already exists: %s", fr.Code)
		}
	}

	franchiseIDs := map[string]uint{}
	var franchiseList []models.Franchise
	if err := models.DB.Where("code IN ?", []string{"SH001", "BJ001"}).Find(&franchiseList).Error; err != nil {
		stdLog.Printf("Failed to load franchises: %v", err)
	}
	for _, fr := range franchiseList {
		franchiseIDs[fr.Code] = fr.ID
	}

	// 商品
	products := []models.Product{
		{
			CategoryID:  categoryIDs["奶茶"],
			Name:        "珍珠奶茶",
			Description: "经典珍珠奶茶，香浓丝滑",
			MinPrice:    models.NewMoneyFromDecimal(decimal.NewFromFloat(12.00)),
			MaxPrice:    models.NewMoneyFromDecimal(decimal.NewFromFloat(22.00)),
			IsActive:    true,
		},
		{
			CategoryID:  categoryIDs["果茶"],
			Name:        "满杯百香果",
			Description: "新鲜百香果与茉莉绿茶",
			MinPrice:    models.NewMoneyFromDecimal(decimal.NewFromFloat(15.00)),
			MaxPrice:    models.NewMoneyFromDecimal(decimal.NewFromFloat(26.00)),
			IsActive:    true,
		},
		{
			CategoryID:  categoryIDs["咖啡"],
			Name:        "生椰拿铁",
			Description: "现磨浓缩与厚椰乳",
			MinPrice:    models.NewMoneyFromDecimal(decimal.NewFromFloat(16.00)),
			MaxPrice:    models.NewMoneyFromDecimal(decimal.NewFromFloat(28.00)),
			IsActive:    true,
		},
	}
	for _, p := range products {
		if p.CategoryID == 0 {
			continue
		}
		var existing models.Product
		if err := models.DB.Where("name = ?", p.Name).First(&existing).Error; err != nil {
			if err := models.DB.Create(&p).Error; err != nil {
				stdLog.Printf("Failed to create product %s: %v", p.Name, err)
			} else {
				stdLog.Printf("Created product: %s", p.Name)
			}
		} else {
			stdLog.Printf("Product already exists: %s", p.Name)
		}
	}

	productIDs := map[string]uint{}
	var productList []models.Product
	if err := models.DB.Where("name IN ?", []string{"珍珠奶茶", "满杯百香果", "生椰拿铁"}).Find(&productList).Error; err != nil {
		stdLog.Printf("Failed to load products: %v", err)
	}
	for _, p := range productList {
		productIDs[p.Name] = p.ID
	}

	// 门店在售单品 + 初始库存
	type listingSeed struct {
		product   string
		franchise string
		size      string
		price     float64
		quantity  int
		threshold int
	}
	listings := []listingSeed{
		{product: "珍珠奶茶", franchise: "SH001", size: "M", price: 15.00, quantity: 120, threshold: 20},
		{product: "珍珠奶茶", franchise: "SH001", size: "L", price: 18.00, quantity: 80, threshold: 15},
		{product: "珍珠奶茶", franchise: "BJ001", size: "M", price: 14.00, quantity: 100, threshold: 20},
		{product: "满杯百香果", franchise: "SH001", size: "L", price: 22.00, quantity: 60, threshold: 10},
		{product: "生椰拿铁", franchise: "BJ001", size: "M", price: 19.00, quantity: 90, threshold: 15},
	}
	for _, seed := range listings {
		productID := productIDs[seed.product]
		franchiseID := franchiseIDs[seed.franchise]
		if productID == 0 || franchiseID == 0 {
			continue
		}

		var listing models.ProductFranchise
		err := models.DB.Where("product_id = ? AND franchise_id = ? AND size = ?", productID, franchiseID, seed.size).First(&listing).Error
		if err != nil {
			listing = models.ProductFranchise{
				ProductID:   productID,
				FranchiseID: franchiseID,
				Size:        seed.size,
				PriceBase:   models.NewMoneyFromDecimal(decimal.NewFromFloat(seed.price)),
				IsActive:    true,
			}
			if err := models.DB.Create(&listing).Error; err != nil {
				stdLog.Printf("Failed to create listing %s/%s/%s: %v", seed.product, seed.franchise, seed.size, err)
				continue
			}
			stdLog.Printf("Created listing: %s/%s/%s", seed.product, seed.franchise, seed.size)
		}

		var inventory models.Inventory
		if err := models.DB.Where("product_franchise_id = ?", listing.ID).First(&inventory).Error; err != nil {
			inventory = models.Inventory{
				ProductFranchiseID: listing.ID,
				Quantity:           seed.quantity,
				AlertThreshold:     seed.threshold,
				IsActive:           true,
			}
			if err := models.DB.Create(&inventory).Error; err != nil {
				stdLog.Printf("Failed to create inventory for listing %d: %v", listing.ID, err)
			} else {
				stdLog.Printf("Created inventory for listing %d (qty=%d)", listing.ID, seed.quantity)
			}
		}
	}

	stdLog.Printf("Seed finished")
}
