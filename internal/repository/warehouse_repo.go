package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"resale_erp_202601/internal/model"
)

// ErrPositionFull 仓位已满，条件自增未命中任何行
var ErrPositionFull = errors.New("仓位已满")

// ==================== 接口定义 ====================

// WarehouseRepository 仓库/仓位仓储接口
type WarehouseRepository interface {
	// 仓库
	CreateWarehouse(ctx context.Context, wh *model.Warehouse) error
	GetWarehouse(ctx context.Context, id int64) (*model.Warehouse, error)
	GetWarehouseByName(ctx context.Context, name string) (*model.Warehouse, error)
	ListWarehouses(ctx context.Context) ([]model.Warehouse, error)
	UpdateWarehouse(ctx context.Context, wh *model.Warehouse) error
	DeleteWarehouse(ctx context.Context, id int64) error

	// 仓位
	CreatePosition(ctx context.Context, pos *model.WarehousePosition) error
	GetPosition(ctx context.Context, id int64) (*model.WarehousePosition, error)
	GetPositionByName(ctx context.Context, warehouseID int64, name string) (*model.WarehousePosition, error)
	UpdatePosition(ctx context.Context, pos *model.WarehousePosition) error
	DeletePosition(ctx context.Context, id int64) error

	// 容量记账：占用是条件自增，满位返回 ErrPositionFull
	OccupyPosition(ctx context.Context, id int64) error
	ReleasePosition(ctx context.Context, id int64) error

	// 统计
	Stats(ctx context.Context) (*WarehouseStats, error)

	// 事务
	WithTx(tx *gorm.DB) WarehouseRepository
}

// WarehouseStats 仓库容量聚合
type WarehouseStats struct {
	TotalWarehouses int64   `json:"totalWarehouses"`
	TotalPositions  int64   `json:"totalPositions"`
	TotalCapacity   int64   `json:"totalCapacity"`
	TotalUsed       int64   `json:"totalUsed"`
	FullPositions   int64   `json:"fullPositions"`
	UsageRate       float64 `json:"usageRate"`
}

// ==================== 仓储实现 ====================

type warehouseRepo struct {
	db *gorm.DB
}

// NewWarehouseRepository 创建仓库仓储
func NewWarehouseRepository(db *gorm.DB) WarehouseRepository {
	return &warehouseRepo{db: db}
}

func (r *warehouseRepo) CreateWarehouse(ctx context.Context, wh *model.Warehouse) error {
	return r.db.WithContext(ctx).Create(wh).Error
}

func (r *warehouseRepo) GetWarehouse(ctx context.Context, id int64) (*model.Warehouse, error) {
	var wh model.Warehouse
	err := r.db.WithContext(ctx).
		Preload("Positions").
		Preload("Positions.Items").
		First(&wh, id).Error
	if err != nil {
		return nil, err
	}
	return &wh, nil
}

func (r *warehouseRepo) GetWarehouseByName(ctx context.Context, name string) (*model.Warehouse, error) {
	var wh model.Warehouse
	err := r.db.WithContext(ctx).
		Where("name = ?", name).
		First(&wh).Error
	if err != nil {
		return nil, err
	}
	return &wh, nil
}

func (r *warehouseRepo) ListWarehouses(ctx context.Context) ([]model.Warehouse, error) {
	var whs []model.Warehouse
	err := r.db.WithContext(ctx).
		Preload("Positions").
		Preload("Positions.Items").
		Order("created_at DESC").
		Find(&whs).Error
	return whs, err
}

func (r *warehouseRepo) UpdateWarehouse(ctx context.Context, wh *model.Warehouse) error {
	return r.db.WithContext(ctx).Save(wh).Error
}

func (r *warehouseRepo) DeleteWarehouse(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Select("Positions").Delete(&model.Warehouse{BaseModel: model.BaseModel{ID: id}}).Error
}

func (r *warehouseRepo) CreatePosition(ctx context.Context, pos *model.WarehousePosition) error {
	return r.db.WithContext(ctx).Create(pos).Error
}

func (r *warehouseRepo) GetPosition(ctx context.Context, id int64) (*model.WarehousePosition, error) {
	var pos model.WarehousePosition
	err := r.db.WithContext(ctx).
		Preload("Warehouse").
		First(&pos, id).Error
	if err != nil {
		return nil, err
	}
	return &pos, nil
}

func (r *warehouseRepo) GetPositionByName(ctx context.Context, warehouseID int64, name string) (*model.WarehousePosition, error) {
	var pos model.WarehousePosition
	err := r.db.WithContext(ctx).
		Where("warehouse_id = ? AND name = ?", warehouseID, name).
		First(&pos).Error
	if err != nil {
		return nil, err
	}
	return &pos, nil
}

func (r *warehouseRepo) UpdatePosition(ctx context.Context, pos *model.WarehousePosition) error {
	return r.db.WithContext(ctx).Save(pos).Error
}

func (r *warehouseRepo) DeletePosition(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&model.WarehousePosition{}, id).Error
}

// OccupyPosition 条件自增：检查和写入是同一条 UPDATE，并发下不会超卖容量
func (r *warehouseRepo) OccupyPosition(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).
		Model(&model.WarehousePosition{}).
		Where("id = ? AND used < capacity", id).
		UpdateColumn("used", gorm.Expr("used + 1"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrPositionFull
	}
	return nil
}

// ReleasePosition 释放一个占用，不允许减到负数
func (r *warehouseRepo) ReleasePosition(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).
		Model(&model.WarehousePosition{}).
		Where("id = ? AND used > 0", id).
		UpdateColumn("used", gorm.Expr("used - 1")).Error
}

func (r *warehouseRepo) Stats(ctx context.Context) (*WarehouseStats, error) {
	var stats WarehouseStats

	if err := r.db.WithContext(ctx).Model(&model.Warehouse{}).Count(&stats.TotalWarehouses).Error; err != nil {
		return nil, err
	}

	type posAgg struct {
		Count     int64
		Capacity  int64
		Used      int64
		FullCount int64
	}
	var agg posAgg
	err := r.db.WithContext(ctx).
		Model(&model.WarehousePosition{}).
		Select("COUNT(*) as count, COALESCE(SUM(capacity),0) as capacity, COALESCE(SUM(used),0) as used, COALESCE(SUM(CASE WHEN used >= capacity THEN 1 ELSE 0 END),0) as full_count").
		Scan(&agg).Error
	if err != nil {
		return nil, err
	}

	stats.TotalPositions = agg.Count
	stats.TotalCapacity = agg.Capacity
	stats.TotalUsed = agg.Used
	stats.FullPositions = agg.FullCount
	if stats.TotalCapacity > 0 {
		stats.UsageRate = float64(stats.TotalUsed) / float64(stats.TotalCapacity) * 100
	}
	return &stats, nil
}

func (r *warehouseRepo) WithTx(tx *gorm.DB) WarehouseRepository {
	return &warehouseRepo{db: tx}
}
