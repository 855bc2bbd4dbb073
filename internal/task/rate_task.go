package task

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"resale_erp_202601/internal/service"
)

// RateTask 定时刷新日元汇率快照
type RateTask struct {
	RateService *service.RateService
	Cron        *cron.Cron
}

func NewRateTask(rateService *service.RateService) *RateTask {
	return &RateTask{
		RateService: rateService,
		Cron:        cron.New(cron.WithSeconds()),
	}
}

// Start 启动定时任务
func (t *RateTask) Start() {
	// 首次执行
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		log.Println("[Task] 服务启动，正在拉取首次汇率...")
		t.refreshJob(ctx)
	}()

	// 每小时整点刷新
	_, err := t.Cron.AddFunc("0 0 * * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		t.refreshJob(ctx)
	})
	if err != nil {
		log.Fatalf("无法启动汇率定时任务: %v", err)
	}

	t.Cron.Start()
	log.Println("汇率刷新任务已启动 (每小时一次)")
}

func (t *RateTask) refreshJob(ctx context.Context) {
	if err := t.RateService.Refresh(ctx); err != nil {
		// 拉取失败继续用上一次快照或兜底值
		log.Printf("[Cron] 汇率刷新失败: %v", err)
	}
}
