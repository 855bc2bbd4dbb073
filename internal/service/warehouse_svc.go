package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"resale_erp_202601/internal/api/dto"
	"resale_erp_202601/internal/model"
	"resale_erp_202601/internal/repository"
	"resale_erp_202601/pkg/cache"
)

var (
	ErrWarehouseNotFound = errors.New("仓库不存在")
	ErrPositionNotFound  = errors.New("仓位不存在")
	ErrWarehouseInUse    = errors.New("仓库下仍有商品，无法删除")
	ErrPositionInUse     = errors.New("仓位下仍有商品，无法删除")
)

// WarehouseService 仓库与仓位管理
type WarehouseService struct {
	db       *gorm.DB
	whRepo   repository.WarehouseRepository
	itemRepo repository.ItemRepository
	cache    *cache.TagCache
}

// NewWarehouseService 创建仓库服务
func NewWarehouseService(
	db *gorm.DB,
	whRepo repository.WarehouseRepository,
	itemRepo repository.ItemRepository,
	tagCache *cache.TagCache,
) *WarehouseService {
	return &WarehouseService{db: db, whRepo: whRepo, itemRepo: itemRepo, cache: tagCache}
}

// ==================== 仓库 ====================

// List 仓库列表（带仓位和在库商品）
func (s *WarehouseService) List(ctx context.Context) ([]model.Warehouse, error) {
	cached, err := s.cache.GetOrLoad("warehouses:list", func() (interface{}, error) {
		return s.whRepo.ListWarehouses(ctx)
	}, cache.TagWarehouses)
	if err != nil {
		return nil, err
	}
	return cached.([]model.Warehouse), nil
}

// Create 创建仓库，名称唯一
func (s *WarehouseService) Create(ctx context.Context, req *dto.WarehouseRequest) (*model.Warehouse, error) {
	if _, err := s.whRepo.GetWarehouseByName(ctx, req.Name); err == nil {
		return nil, fmt.Errorf("仓库 %s 已存在", req.Name)
	} else if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	wh := &model.Warehouse{
		Name:        req.Name,
		Description: defaultStr(req.Description, req.Name),
	}
	if err := s.whRepo.CreateWarehouse(ctx, wh); err != nil {
		return nil, fmt.Errorf("创建仓库失败: %v", err)
	}

	s.invalidate()
	return wh, nil
}

// Update 更新仓库
func (s *WarehouseService) Update(ctx context.Context, id int64, req *dto.WarehouseRequest) (*model.Warehouse, error) {
	wh, err := s.whRepo.GetWarehouse(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrWarehouseNotFound
		}
		return nil, err
	}

	wh.Name = req.Name
	if req.Description != "" {
		wh.Description = req.Description
	}
	if err := s.whRepo.UpdateWarehouse(ctx, wh); err != nil {
		return nil, err
	}

	s.invalidate()
	return wh, nil
}

// Delete 删除仓库：任一仓位下还有商品就拒绝
func (s *WarehouseService) Delete(ctx context.Context, id int64) error {
	wh, err := s.whRepo.GetWarehouse(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return ErrWarehouseNotFound
		}
		return err
	}

	for _, pos := range wh.Positions {
		if len(pos.Items) > 0 {
			return ErrWarehouseInUse
		}
	}

	if err := s.whRepo.DeleteWarehouse(ctx, id); err != nil {
		return err
	}
	s.invalidate()
	return nil
}

// ==================== 仓位 ====================

// CreatePosition 创建仓位，同仓库内名称唯一
func (s *WarehouseService) CreatePosition(ctx context.Context, req *dto.PositionRequest) (*model.WarehousePosition, error) {
	if _, err := s.whRepo.GetWarehouse(ctx, req.WarehouseID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrWarehouseNotFound
		}
		return nil, err
	}
	if _, err := s.whRepo.GetPositionByName(ctx, req.WarehouseID, req.Name); err == nil {
		return nil, fmt.Errorf("仓位 %s 已存在", req.Name)
	} else if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	capacity := req.Capacity
	if capacity <= 0 {
		capacity = model.DefaultPositionCapacity
	}

	pos := &model.WarehousePosition{
		WarehouseID: req.WarehouseID,
		Name:        req.Name,
		Capacity:    capacity,
	}
	if err := s.whRepo.CreatePosition(ctx, pos); err != nil {
		return nil, fmt.Errorf("创建仓位失败: %v", err)
	}

	s.invalidate()
	return pos, nil
}

// UpdatePosition 更新仓位，容量不允许小于当前占用
func (s *WarehouseService) UpdatePosition(ctx context.Context, id int64, req *dto.PositionRequest) (*model.WarehousePosition, error) {
	pos, err := s.whRepo.GetPosition(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrPositionNotFound
		}
		return nil, err
	}

	if req.Capacity > 0 && req.Capacity < pos.Used {
		return nil, fmt.Errorf("容量 %d 小于当前占用 %d", req.Capacity, pos.Used)
	}

	pos.Name = req.Name
	if req.Capacity > 0 {
		pos.Capacity = req.Capacity
	}
	if err := s.whRepo.UpdatePosition(ctx, pos); err != nil {
		return nil, err
	}

	s.invalidate()
	return pos, nil
}

// DeletePosition 删除仓位：下面还有商品就拒绝
func (s *WarehouseService) DeletePosition(ctx context.Context, id int64) error {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&model.Item{}).
		Where("warehouse_position_id = ?", id).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrPositionInUse
	}

	if err := s.whRepo.DeletePosition(ctx, id); err != nil {
		return err
	}
	s.invalidate()
	return nil
}

// AdjustUsage 手动加减仓位占用，越界拒绝
func (s *WarehouseService) AdjustUsage(ctx context.Context, id int64, req *dto.PositionUsageRequest) (*model.WarehousePosition, error) {
	count := req.Count
	if count <= 0 {
		count = 1
	}

	pos, err := s.whRepo.GetPosition(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrPositionNotFound
		}
		return nil, err
	}

	switch req.Action {
	case "add":
		if pos.Used+count > pos.Capacity {
			return nil, fmt.Errorf("超出容量上限 %d", pos.Capacity)
		}
		pos.Used += count
	case "remove":
		if pos.Used-count < 0 {
			return nil, errors.New("占用数量不能为负")
		}
		pos.Used -= count
	default:
		return nil, fmt.Errorf("无效的操作: %q，应为 add 或 remove", req.Action)
	}

	if err := s.whRepo.UpdatePosition(ctx, pos); err != nil {
		return nil, err
	}

	s.invalidate()
	return pos, nil
}

// Stats 容量聚合
func (s *WarehouseService) Stats(ctx context.Context) (*repository.WarehouseStats, error) {
	cached, err := s.cache.GetOrLoad("warehouses:stats", func() (interface{}, error) {
		return s.whRepo.Stats(ctx)
	}, cache.TagWarehouses, cache.TagStats)
	if err != nil {
		return nil, err
	}
	return cached.(*repository.WarehouseStats), nil
}

func (s *WarehouseService) invalidate() {
	if s.cache != nil {
		s.cache.Invalidate(cache.TagWarehouses, cache.TagStats)
	}
}
