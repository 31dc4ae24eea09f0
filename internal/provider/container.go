package provider

import (
	"github.com/franchise-next/internal/authz"
	"github.com/franchise-next/internal/cache"
	"github.com/franchise-next/internal/config"
	"github.com/franchise-next/internal/logger"
	"github.com/franchise-next/internal/models"
	"github.com/franchise-next/internal/queue"
	"github.com/franchise-next/internal/repository"
	"github.com/franchise-next/internal/service"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	UserRepo             repository.UserRepository
	FranchiseRepo        repository.FranchiseRepository
	CategoryRepo         repository.CategoryRepository
	ProductRepo          repository.ProductRepository
	ProductFranchiseRepo repository.ProductFranchiseRepository
	InventoryRepo        repository.InventoryRepository
	InventoryLogRepo     repository.InventoryLogRepository
	AuditLogRepo         repository.AuditLogRepository

	// Services
	AuthzService            *authz.Service
	AuthService             *service.AuthService
	UserService             *service.UserService
	FranchiseService        *service.FranchiseService
	CategoryService         *service.CategoryService
	ProductService          *service.ProductService
	ProductFranchiseService *service.ProductFranchiseService
	InventoryService        *service.InventoryService
	AuditService            *service.AuditService
	EmailService            *service.EmailService
	CaptchaService          *service.CaptchaService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端
	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}

	c.initRepositories()
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.UserRepo = repository.NewUserRepository(db)
	c.FranchiseRepo = repository.NewFranchiseRepository(db)
	c.CategoryRepo = repository.NewCategoryRepository(db)
	c.ProductRepo = repository.NewProductRepository(db)
	c.ProductFranchiseRepo = repository.NewProductFranchiseRepository(db)
	c.InventoryRepo = repository.NewInventoryRepository(db)
	c.InventoryLogRepo = repository.NewInventoryLogRepository(db)
	c.AuditLogRepo = repository.NewAuditLogRepository(db)
}

func (c *Container) initServices() {
	authzService, err := authz.NewService(models.DB)
	if err != nil {
		logger.Errorw("provider_init_authz_failed", "error", err)
		panic(err)
	}
	c.AuthzService = authzService
	if err := c.AuthzService.BootstrapBuiltinRoles(); err != nil {
		logger.Errorw("provider_bootstrap_builtin_roles_failed", "error", err)
		panic(err)
	}

	c.AuditService = service.NewAuditService(c.AuditLogRepo)
	c.EmailService = service.NewEmailService(&c.Config.Email)
	c.CaptchaService = service.NewCaptchaService(c.Config.Captcha)
	c.AuthService = service.NewAuthService(c.Config, c.UserRepo)
	c.UserService = service.NewUserService(c.UserRepo, c.FranchiseRepo, c.AuditService)
	c.FranchiseService = service.NewFranchiseService(c.FranchiseRepo, c.AuditService)
	c.CategoryService = service.NewCategoryService(c.CategoryRepo, c.AuditService)
	c.ProductService = service.NewProductService(c.ProductRepo, c.CategoryRepo, c.AuditService)
	c.ProductFranchiseService = service.NewProductFranchiseService(c.ProductFranchiseRepo, c.ProductRepo, c.FranchiseRepo, c.AuditService)
	c.InventoryService = service.NewInventoryService(models.DB, c.InventoryRepo, c.InventoryLogRepo, c.ProductFranchiseRepo, c.QueueClient, c.AuditService)
}
