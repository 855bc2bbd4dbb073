package task

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"resale_erp_202601/internal/service"
)

// CacheWarmTask 定时预热重读接口的缓存，避免失效后的首个请求扛全量计算
type CacheWarmTask struct {
	ItemService      *service.ItemService
	WarehouseService *service.WarehouseService
	Cron             *cron.Cron
}

func NewCacheWarmTask(itemService *service.ItemService, warehouseService *service.WarehouseService) *CacheWarmTask {
	return &CacheWarmTask{
		ItemService:      itemService,
		WarehouseService: warehouseService,
		Cron:             cron.New(cron.WithSeconds()),
	}
}

// Start 启动定时任务
func (t *CacheWarmTask) Start() {
	// 每 10 分钟预热一轮
	_, err := t.Cron.AddFunc("0 0/10 * * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
		defer cancel()
		t.warmJob(ctx)
	})
	if err != nil {
		log.Fatalf("无法启动缓存预热任务: %v", err)
	}

	t.Cron.Start()
	log.Println("缓存预热任务已启动 (每10分钟一次)")
}

func (t *CacheWarmTask) warmJob(ctx context.Context) {
	if _, err := t.ItemService.Stats(ctx); err != nil {
		log.Printf("[Cron] 商品统计预热失败: %v", err)
	}
	if _, err := t.ItemService.Months(ctx); err != nil {
		log.Printf("[Cron] 月份列表预热失败: %v", err)
	}
	if _, err := t.WarehouseService.Stats(ctx); err != nil {
		log.Printf("[Cron] 仓库统计预热失败: %v", err)
	}
}
