package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"resale_erp_202601/internal/controller"
	"resale_erp_202601/internal/middleware"
	"resale_erp_202601/internal/model"
	"resale_erp_202601/internal/repository"
	"resale_erp_202601/internal/router"
	"resale_erp_202601/internal/service"
	"resale_erp_202601/internal/task"
	"resale_erp_202601/pkg/cache"
	"resale_erp_202601/pkg/database"
)

func main() {
	// 0. 加载 .env（不存在则跳过，线上用真实环境变量）
	if err := godotenv.Load(); err != nil {
		log.Println("未找到 .env 文件，使用系统环境变量")
	}

	// 1. 初始化数据库
	db := initDatabase()

	// 2. JWT 密钥
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		cfg := middleware.DefaultJWTConfig()
		cfg.SecretKey = secret
		middleware.SetJWTConfig(cfg)
	}

	// 3. 初始化依赖
	deps := initDependencies(db)

	// 4. 首启建默认管理员
	seedAdmin(deps.Services.Auth)

	// 5. 启动定时任务
	initTasks(deps)

	// 6. 初始化路由
	r := router.SetupRouter(deps.Controllers)

	// 7. 启动服务
	startServer(r)
}

// ==================== 依赖容器 ====================

// Dependencies 依赖容器
type Dependencies struct {
	DB          *gorm.DB
	Repos       *Repositories
	Services    *Services
	Controllers *router.Controllers
	Cache       *cache.TagCache
}

// Repositories 仓库集合
type Repositories struct {
	Item      repository.ItemRepository
	Txn       repository.TransactionRepository
	Warehouse repository.WarehouseRepository
	Toy       repository.ToyRepository
	Stock     repository.StockAdjustmentRepository
	User      repository.UserRepository
}

// Services 服务集合
type Services struct {
	Item      *service.ItemService
	Import    *service.ImportService
	Txn       *service.TransactionService
	Warehouse *service.WarehouseService
	Toy       *service.ToyService
	Stock     *service.StockService
	Pricing   *service.PricingService
	Rate      *service.RateService
	Auth      *service.AuthService
	Storage   service.StorageProvider
}

// ==================== 初始化函数 ====================

// initDatabase 初始化数据库
func initDatabase() *gorm.DB {
	dsn := getEnv("DATABASE_URL", fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=Asia/Shanghai",
		getEnv("DB_HOST", "localhost"),
		getEnv("DB_USER", "postgres"),
		getEnv("DB_PASSWORD", "postgres"),
		getEnv("DB_NAME", "resale_erp"),
		getEnv("DB_PORT", "5432"),
	))

	return database.InitDB(dsn,
		// 商品与交易
		&model.Item{}, &model.Transaction{},
		// 仓库
		&model.Warehouse{}, &model.WarehousePosition{},
		// 潮玩分类
		&model.ToyBrand{}, &model.ToySeries{}, &model.ToyCharacter{},
		// 库存审计
		&model.StockAdjustment{},
		// 用户
		&model.Store{}, &model.SysUser{},
	)
}

// initDependencies 初始化所有依赖
func initDependencies(db *gorm.DB) *Dependencies {
	// -------- Repo 层 --------
	repos := &Repositories{
		Item:      repository.NewItemRepository(db),
		Txn:       repository.NewTransactionRepository(db),
		Warehouse: repository.NewWarehouseRepository(db),
		Toy:       repository.NewToyRepository(db),
		Stock:     repository.NewStockAdjustmentRepository(db),
		User:      repository.NewUserRepository(db),
	}

	// -------- 读缓存 --------
	tagCache := cache.New(5 * time.Minute)

	// -------- 存储 --------
	storage := initStorage()

	// -------- Service 层 --------
	rateSvc := service.NewRateService(getEnv("RATE_API_URL", ""))
	services := &Services{
		Item:      service.NewItemService(db, repos.Item, repos.Txn, repos.Warehouse, tagCache),
		Import:    service.NewImportService(db, repos.Item, repos.Txn, repos.Warehouse, tagCache),
		Txn:       service.NewTransactionService(repos.Item, repos.Txn, tagCache),
		Warehouse: service.NewWarehouseService(db, repos.Warehouse, repos.Item, tagCache),
		Toy:       service.NewToyService(repos.Toy, tagCache),
		Stock:     service.NewStockService(repos.Item, repos.Stock, tagCache),
		Pricing:   service.NewPricingService(repos.Txn, rateSvc),
		Rate:      rateSvc,
		Auth:      service.NewAuthService(repos.User),
		Storage:   storage,
	}

	// -------- Controller 层 --------
	controllers := &router.Controllers{
		Auth:        controller.NewAuthController(services.Auth),
		Item:        controller.NewItemController(services.Item, services.Import, services.Pricing),
		Transaction: controller.NewTransactionController(services.Txn),
		Warehouse:   controller.NewWarehouseController(services.Warehouse),
		Toy:         controller.NewToyController(services.Toy),
		Stock:       controller.NewStockController(services.Stock),
		Upload:      controller.NewUploadController(services.Storage),
		Cache:       controller.NewCacheController(tagCache),
	}

	return &Dependencies{
		DB:          db,
		Repos:       repos,
		Services:    services,
		Controllers: controllers,
		Cache:       tagCache,
	}
}

// initStorage 初始化图片存储
func initStorage() service.StorageProvider {
	storage, err := service.NewStorageProvider(&service.StorageConfig{
		Provider:  getEnv("STORAGE_PROVIDER", "local"),
		Bucket:    getEnv("AWS_BUCKET", ""),
		Region:    getEnv("AWS_REGION", ""),
		AccessKey: getEnv("AWS_ACCESS_KEY_ID", ""),
		SecretKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
		CDNDomain: getEnv("AWS_CDN_DOMAIN", ""),
		BasePath:  getEnv("STORAGE_BASE_PATH", ""),
		BaseURL:   getEnv("STORAGE_BASE_URL", ""),
	})
	if err != nil {
		log.Fatalf("存储服务初始化失败: %v", err)
	}
	return storage
}

// seedAdmin 首次启动创建默认管理员
func seedAdmin(authSvc *service.AuthService) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	username := getEnv("ADMIN_USERNAME", "admin")
	password := getEnv("ADMIN_PASSWORD", "admin123")
	if err := authSvc.EnsureAdmin(ctx, username, password); err != nil {
		log.Printf("警告: 默认管理员初始化失败: %v", err)
	}
}

// ==================== 定时任务 ====================

// initTasks 初始化定时任务
func initTasks(deps *Dependencies) {
	// 汇率刷新
	rateTask := task.NewRateTask(deps.Services.Rate)
	rateTask.Start()

	// 缓存预热
	warmTask := task.NewCacheWarmTask(deps.Services.Item, deps.Services.Warehouse)
	warmTask.Start()

	log.Println("定时任务已启动")
}

// ==================== 服务启动 ====================

// startServer 启动服务
func startServer(r *gin.Engine) {
	port := getEnv("SERVER_PORT", "8080")

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	// 异步启动服务
	go func() {
		log.Printf("服务启动在 :%s", port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("服务启动失败: %v", err)
		}
	}()

	// 等待退出信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("正在关闭服务...")

	// 优雅关闭
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("服务强制关闭: %v", err)
	}

	log.Println("服务已退出")
}

// ==================== 工具函数 ====================

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
