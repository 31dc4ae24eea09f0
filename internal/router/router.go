package router

import (
	"fmt"
	"strings"

	"github.com/franchise-next/internal/cache"
	"github.com/franchise-next/internal/config"
	apihandlers "github.com/franchise-next/internal/http/handlers/api"
	"github.com/franchise-next/internal/logger"
	"github.com/franchise-next/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	handler := apihandlers.New(c)

	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "fn"
	}
	loginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		BlockSeconds:  cfg.Security.LoginRateLimit.BlockSeconds,
	}

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	apiV1 := r.Group("/api/v1")
	{
		// 认证接口（无需鉴权）
		auth := apiV1.Group("/auth")
		{
			auth.POST("/login", RateLimitMiddleware(cache.Client(), loginRule, KeyByIPAndJSONField("email")), handler.Login)
			auth.GET("/captcha/image", handler.GetCaptchaImage)
		}

		// 当前用户接口（仅需登录）
		me := apiV1.Group("/auth")
		me.Use(JWTAuthMiddleware(cfg.JWT.SecretKey, c.UserRepo))
		{
			me.GET("/me", handler.Me)
			me.PUT("/password", handler.UpdatePassword)
		}

		// 业务接口（登录 + RBAC）
		api := apiV1.Group("")
		api.Use(JWTAuthMiddleware(cfg.JWT.SecretKey, c.UserRepo))
		api.Use(RBACMiddleware(c.AuthzService))
		{
			// 账号管理（仅系统管理员放行）
			api.GET("/users", handler.GetUsers)
			api.GET("/users/:id", handler.GetUser)
			api.POST("/users", handler.CreateUser)
			api.PUT("/users/:id", handler.UpdateUser)
			api.PUT("/users/:id/status", handler.SetUserStatus)
			api.DELETE("/users/:id", handler.DeleteUser)

			// 门店
			api.GET("/franchises", handler.GetFranchises)
			api.GET("/franchises/:id", handler.GetFranchise)
			api.POST("/franchises", handler.CreateFranchise)
			api.PUT("/franchises/:id", handler.UpdateFranchise)
			api.PUT("/franchises/:id/status", handler.SetFranchiseActive)
			api.DELETE("/franchises/:id", handler.DeleteFranchise)

			// 分类
			api.GET("/categories", handler.GetCategories)
			api.GET("/categories/:id", handler.GetCategory)
			api.POST("/categories", handler.CreateCategory)
			api.PUT("/categories/:id", handler.UpdateCategory)
			api.DELETE("/categories/:id", handler.DeleteCategory)

			// 商品
			api.GET("/products", handler.GetProducts)
			api.GET("/products/:id", handler.GetProduct)
			api.POST("/products", handler.CreateProduct)
			api.PUT("/products/:id", handler.UpdateProduct)
			api.PUT("/products/:id/status", handler.SetProductActive)
			api.DELETE("/products/:id", handler.DeleteProduct)

			// 门店在售单品
			api.GET("/product-franchises", handler.GetProductFranchises)
			api.GET("/product-franchises/:id", handler.GetProductFranchise)
			api.POST("/product-franchises", handler.CreateProductFranchise)
			api.PUT("/product-franchises/:id", handler.UpdateProductFranchise)
			api.PUT("/product-franchises/:id/status", handler.SetProductFranchiseActive)
			api.DELETE("/product-franchises/:id", handler.DeleteProductFranchise)

			// 库存
			api.GET("/inventories", handler.GetInventories)
			api.GET("/inventories/low-stock", handler.GetLowStock)
			api.GET("/inventories/logs", handler.GetInventoryLogsByReference)
			api.GET("/inventories/:id", handler.GetInventory)
			api.GET("/inventories/:id/logs", handler.GetInventoryLogs)
			api.POST("/inventories", handler.CreateInventory)
			api.PUT("/inventories/:id", handler.UpdateInventory)
			api.DELETE("/inventories/:id", handler.DeleteInventory)
			api.POST("/inventories/:id/restore", handler.RestoreInventory)

			// 库存台账操作
			api.POST("/inventories/stock/reserve", handler.ReserveStock)
			api.POST("/inventories/stock/release", handler.ReleaseStock)
			api.POST("/inventories/stock/deduct", handler.DeductStock)
			api.POST("/inventories/stock/adjust", handler.AdjustStock)

			// 审计日志
			api.GET("/audit-logs", handler.GetAuditLogs)
			api.GET("/audit-logs/:entity_type/:entity_id", handler.GetEntityHistory)
		}
	}

	return r
}
