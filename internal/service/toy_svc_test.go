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

func newToyService(db *gorm.DB) *ToyService {
	return NewToyService(repository.NewToyRepository(db), cache.New(time.Minute))
}

func TestToyService_CreateHierarchyLevels(t *testing.T) {
	db := setupTestDB(t)
	svc := newToyService(db)
	ctx := context.Background()

	brand, err := svc.CreateBrand(ctx, &dto.ToyBrandRequest{Name: "泡泡玛特"})
	if err != nil {
		t.Fatalf("创建品牌失败: %v", err)
	}
	if !brand.IsActive {
		t.Error("新品牌应默认启用")
	}
	if _, err := svc.CreateBrand(ctx, &dto.ToyBrandRequest{Name: "泡泡玛特"}); err == nil {
		t.Error("重名品牌应被拒绝")
	}

	series, err := svc.CreateSeries(ctx, &dto.ToySeriesRequest{
		BrandID: brand.ID, Name: "Labubu", ReleaseDate: "2024-05-01",
	})
	if err != nil {
		t.Fatalf("创建系列失败: %v", err)
	}
	if series.ReleaseDate == nil || series.ReleaseDate.Format("2006-01-02") != "2024-05-01" {
		t.Errorf("发售日期 = %v", series.ReleaseDate)
	}
	if _, err := svc.CreateSeries(ctx, &dto.ToySeriesRequest{BrandID: brand.ID, Name: "Labubu"}); err == nil {
		t.Error("同品牌下重名系列应被拒绝")
	}
	if _, err := svc.CreateSeries(ctx, &dto.ToySeriesRequest{BrandID: 9999, Name: "幽灵系列"}); err == nil {
		t.Error("品牌不存在应被拒绝")
	}

	ch, err := svc.CreateCharacter(ctx, &dto.ToyCharacterRequest{
		SeriesID: series.ID, Name: "坐坐派对",
	})
	if err != nil {
		t.Fatalf("创建角色失败: %v", err)
	}
	if _, err := svc.CreateCharacter(ctx, &dto.ToyCharacterRequest{SeriesID: series.ID, Name: "坐坐派对"}); err == nil {
		t.Error("同系列下重名角色应被拒绝")
	}

	// 不同系列允许同名角色
	series2, _ := svc.CreateSeries(ctx, &dto.ToySeriesRequest{BrandID: brand.ID, Name: "心动马卡龙"})
	if _, err := svc.CreateCharacter(ctx, &dto.ToyCharacterRequest{SeriesID: series2.ID, Name: ch.Name}); err != nil {
		t.Errorf("跨系列同名角色应允许: %v", err)
	}
}

func TestToyService_Hierarchy(t *testing.T) {
	db := setupTestDB(t)
	svc := newToyService(db)
	ctx := context.Background()

	brand, _ := svc.CreateBrand(ctx, &dto.ToyBrandRequest{Name: "泡泡玛特"})
	series, _ := svc.CreateSeries(ctx, &dto.ToySeriesRequest{BrandID: brand.ID, Name: "Labubu"})
	ch1, _ := svc.CreateCharacter(ctx, &dto.ToyCharacterRequest{SeriesID: series.ID, Name: "坐坐派对"})
	ch2, _ := svc.CreateCharacter(ctx, &dto.ToyCharacterRequest{SeriesID: series.ID, Name: "前方高能"})

	// 两件挂角色1，一件挂角色2
	db.Create(&itemTable{ItemID: "CW1", ItemName: "坐坐派对 隐藏款", ItemType: model.ItemTypeToy, ToyCharacterID: &ch1.ID})
	db.Create(&itemTable{ItemID: "CW2", ItemName: "坐坐派对 常规款", ItemType: model.ItemTypeToy, ToyCharacterID: &ch1.ID})
	db.Create(&itemTable{ItemID: "CW3", ItemName: "前方高能", ItemType: model.ItemTypeToy, ToyCharacterID: &ch2.ID})

	tree, err := svc.Hierarchy(ctx)
	if err != nil {
		t.Fatalf("层级查询失败: %v", err)
	}
	if len(tree) != 1 {
		t.Fatalf("品牌数 = %d, want 1", len(tree))
	}

	brandNode := tree[0]
	if brandNode.ItemCount != 3 {
		t.Errorf("品牌商品数 = %d, want 3", brandNode.ItemCount)
	}
	if len(brandNode.Children) != 1 {
		t.Fatalf("系列数 = %d, want 1", len(brandNode.Children))
	}

	seriesNode := brandNode.Children[0]
	if seriesNode.ItemCount != 3 || len(seriesNode.Children) != 2 {
		t.Errorf("系列节点 = %+v", seriesNode)
	}

	counts := map[string]int{}
	for _, c := range seriesNode.Children {
		counts[c.Name] = c.ItemCount
	}
	if counts["坐坐派对"] != 2 || counts["前方高能"] != 1 {
		t.Errorf("角色商品数 = %v", counts)
	}
}
