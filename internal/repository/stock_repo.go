package repository

import (
	"context"

	"gorm.io/gorm"

	"resale_erp_202601/internal/model"
)

// StockAdjustmentRepository 库存调整审计仓储
type StockAdjustmentRepository interface {
	Create(ctx context.Context, adj *model.StockAdjustment) error
	ListByItemID(ctx context.Context, itemID string) ([]model.StockAdjustment, error)
	WithTx(tx *gorm.DB) StockAdjustmentRepository
}

type stockAdjustmentRepo struct {
	db *gorm.DB
}

// NewStockAdjustmentRepository 创建库存调整仓储
func NewStockAdjustmentRepository(db *gorm.DB) StockAdjustmentRepository {
	return &stockAdjustmentRepo{db: db}
}

func (r *stockAdjustmentRepo) Create(ctx context.Context, adj *model.StockAdjustment) error {
	return r.db.WithContext(ctx).Create(adj).Error
}

func (r *stockAdjustmentRepo) ListByItemID(ctx context.Context, itemID string) ([]model.StockAdjustment, error) {
	var adjs []model.StockAdjustment
	err := r.db.WithContext(ctx).
		Where("item_id = ?", itemID).
		Order("created_at DESC, id DESC").
		Find(&adjs).Error
	return adjs, err
}

func (r *stockAdjustmentRepo) WithTx(tx *gorm.DB) StockAdjustmentRepository {
	return &stockAdjustmentRepo{db: tx}
}
