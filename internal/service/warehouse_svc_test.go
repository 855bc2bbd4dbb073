package service

import (
	"context"
	"testing"
	"time"

	"gorm.io/gorm"

	"resale_erp_202601/internal/api/dto"
	"resale_erp_202601/internal/model"
	"resale_erp_202601/internal/repository"
	"resale_erp_202601/pkg/cache"
)

func newWarehouseService(db *gorm.DB) *WarehouseService {
	return NewWarehouseService(
		db,
		repository.NewWarehouseRepository(db),
		repository.NewItemRepository(db),
		cache.New(time.Minute),
	)
}

func TestWarehouseService_CreateAndDuplicate(t *testing.T) {
	db := setupTestDB(t)
	svc := newWarehouseService(db)
	ctx := context.Background()

	wh, err := svc.Create(ctx, &dto.WarehouseRequest{Name: "一号仓"})
	if err != nil {
		t.Fatalf("创建失败: %v", err)
	}
	// 描述缺省回退为仓库名
	if wh.Description != "一号仓" {
		t.Errorf("描述 = %q, want 一号仓", wh.Description)
	}

	if _, err := svc.Create(ctx, &dto.WarehouseRequest{Name: "一号仓"}); err == nil {
		t.Error("重名仓库应被拒绝")
	}
}

func TestWarehouseService_DeleteInUse(t *testing.T) {
	db := setupTestDB(t)
	svc := newWarehouseService(db)
	ctx := context.Background()

	pos := seedPosition(t, db, "A-01", 5)
	db.Create(&itemTable{ItemID: "FZ1", ItemName: "外套", WarehousePositionID: &pos.ID})

	if err := svc.Delete(ctx, pos.WarehouseID); err != ErrWarehouseInUse {
		t.Errorf("err = %v, want ErrWarehouseInUse", err)
	}

	// 商品挪走后允许删除
	db.Model(&itemTable{}).Where("item_id = ?", "FZ1").Update("warehouse_position_id", nil)
	if err := svc.Delete(ctx, pos.WarehouseID); err != nil {
		t.Fatalf("删除失败: %v", err)
	}
	if err := svc.Delete(ctx, pos.WarehouseID); err != ErrWarehouseNotFound {
		t.Errorf("二次删除 err = %v, want ErrWarehouseNotFound", err)
	}
}

func TestWarehouseService_CreatePosition(t *testing.T) {
	db := setupTestDB(t)
	svc := newWarehouseService(db)
	ctx := context.Background()

	wh, _ := svc.Create(ctx, &dto.WarehouseRequest{Name: "一号仓"})

	pos, err := svc.CreatePosition(ctx, &dto.PositionRequest{WarehouseID: wh.ID, Name: "A-01"})
	if err != nil {
		t.Fatalf("创建仓位失败: %v", err)
	}
	if pos.Capacity != model.DefaultPositionCapacity {
		t.Errorf("默认容量 = %d", pos.Capacity)
	}

	if _, err := svc.CreatePosition(ctx, &dto.PositionRequest{WarehouseID: wh.ID, Name: "A-01"}); err == nil {
		t.Error("同仓库内重名仓位应被拒绝")
	}
	if _, err := svc.CreatePosition(ctx, &dto.PositionRequest{WarehouseID: 9999, Name: "B-01"}); err != ErrWarehouseNotFound {
		t.Errorf("err = %v, want ErrWarehouseNotFound", err)
	}
}

func TestWarehouseService_UpdatePosition_CapacityBelowUsed(t *testing.T) {
	db := setupTestDB(t)
	svc := newWarehouseService(db)
	ctx := context.Background()

	pos := seedPosition(t, db, "A-01", 5)
	db.Model(pos).Update("used", 3)

	if _, err := svc.UpdatePosition(ctx, pos.ID, &dto.PositionRequest{
		WarehouseID: pos.WarehouseID, Name: "A-01", Capacity: 2,
	}); err == nil {
		t.Error("容量小于占用应被拒绝")
	}

	updated, err := svc.UpdatePosition(ctx, pos.ID, &dto.PositionRequest{
		WarehouseID: pos.WarehouseID, Name: "A-01", Capacity: 10,
	})
	if err != nil {
		t.Fatalf("更新失败: %v", err)
	}
	if updated.Capacity != 10 {
		t.Errorf("容量 = %d, want 10", updated.Capacity)
	}
}

func TestWarehouseService_AdjustUsage(t *testing.T) {
	db := setupTestDB(t)
	svc := newWarehouseService(db)
	ctx := context.Background()

	pos := seedPosition(t, db, "A-01", 3)

	// count 缺省按 1 处理
	updated, err := svc.AdjustUsage(ctx, pos.ID, &dto.PositionUsageRequest{Action: "add"})
	if err != nil {
		t.Fatalf("加占用失败: %v", err)
	}
	if updated.Used != 1 {
		t.Errorf("used = %d, want 1", updated.Used)
	}

	if _, err := svc.AdjustUsage(ctx, pos.ID, &dto.PositionUsageRequest{Action: "add", Count: 3}); err == nil {
		t.Error("超容量应被拒绝")
	}
	if _, err := svc.AdjustUsage(ctx, pos.ID, &dto.PositionUsageRequest{Action: "remove", Count: 2}); err == nil {
		t.Error("减到负数应被拒绝")
	}
	if _, err := svc.AdjustUsage(ctx, pos.ID, &dto.PositionUsageRequest{Action: "flush"}); err == nil {
		t.Error("未知操作应被拒绝")
	}

	updated, err = svc.AdjustUsage(ctx, pos.ID, &dto.PositionUsageRequest{Action: "remove", Count: 1})
	if err != nil {
		t.Fatalf("减占用失败: %v", err)
	}
	if updated.Used != 0 {
		t.Errorf("used = %d, want 0", updated.Used)
	}
}

func TestWarehouseService_OccupyConcurrencyGuard(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewWarehouseRepository(db)
	ctx := context.Background()

	pos := seedPosition(t, db, "A-01", 2)

	for i := 0; i < 2; i++ {
		if err := repo.OccupyPosition(ctx, pos.ID); err != nil {
			t.Fatalf("第 %d 次占用失败: %v", i+1, err)
		}
	}
	// 条件自增在满位时 0 行命中
	if err := repo.OccupyPosition(ctx, pos.ID); err != repository.ErrPositionFull {
		t.Errorf("err = %v, want ErrPositionFull", err)
	}
	if positionUsed(t, db, pos.ID) != 2 {
		t.Error("满位后占用数不应再增长")
	}

	// 释放不会减到负数
	for i := 0; i < 3; i++ {
		if err := repo.ReleasePosition(ctx, pos.ID); err != nil {
			t.Fatalf("释放失败: %v", err)
		}
	}
	if positionUsed(t, db, pos.ID) != 0 {
		t.Error("释放不应出现负占用")
	}
}

func TestWarehouseService_Stats(t *testing.T) {
	db := setupTestDB(t)
	svc := newWarehouseService(db)
	ctx := context.Background()

	pos1 := seedPosition(t, db, "A-01", 4)
	pos2 := seedPosition(t, db, "B-01", 6)
	db.Model(pos1).Update("used", 4)
	db.Model(pos2).Update("used", 1)

	stats, err := svc.Stats(ctx)
	if err != nil {
		t.Fatalf("统计失败: %v", err)
	}
	if stats.TotalWarehouses != 2 || stats.TotalPositions != 2 {
		t.Errorf("stats = %+v", stats)
	}
	if stats.TotalCapacity != 10 || stats.TotalUsed != 5 {
		t.Errorf("容量聚合 = %+v", stats)
	}
	if stats.FullPositions != 1 {
		t.Errorf("满位数 = %d, want 1", stats.FullPositions)
	}
	if stats.UsageRate != 50 {
		t.Errorf("使用率 = %v, want 50", stats.UsageRate)
	}
}
