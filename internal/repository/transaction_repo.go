package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"resale_erp_202601/internal/model"
)

// ==================== 接口定义 ====================

// TransactionRepository 交易仓储接口
type TransactionRepository interface {
	Create(ctx context.Context, txn *model.Transaction) error
	GetByID(ctx context.Context, id int64) (*model.Transaction, error)
	GetLatestByItemID(ctx context.Context, itemID string) (*model.Transaction, error)
	Update(ctx context.Context, txn *model.Transaction) error
	UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error
	CountByItemID(ctx context.Context, itemID string) (int64, error)
	DeleteByItemID(ctx context.Context, itemID string) error

	// 统计查询
	PurchaseDates(ctx context.Context) ([]time.Time, error)
	ListSoldByItemNumber(ctx context.Context, itemNumber string, limit int) ([]model.Transaction, error)

	// 事务
	WithTx(tx *gorm.DB) TransactionRepository
}

// ==================== 仓储实现 ====================

type transactionRepo struct {
	db *gorm.DB
}

// NewTransactionRepository 创建交易仓储
func NewTransactionRepository(db *gorm.DB) TransactionRepository {
	return &transactionRepo{db: db}
}

func (r *transactionRepo) Create(ctx context.Context, txn *model.Transaction) error {
	return r.db.WithContext(ctx).Create(txn).Error
}

func (r *transactionRepo) GetByID(ctx context.Context, id int64) (*model.Transaction, error) {
	var txn model.Transaction
	if err := r.db.WithContext(ctx).First(&txn, id).Error; err != nil {
		return nil, err
	}
	return &txn, nil
}

func (r *transactionRepo) GetLatestByItemID(ctx context.Context, itemID string) (*model.Transaction, error) {
	var txn model.Transaction
	err := r.db.WithContext(ctx).
		Where("item_id = ?", itemID).
		Order("created_at DESC, id DESC").
		First(&txn).Error
	if err != nil {
		return nil, err
	}
	return &txn, nil
}

func (r *transactionRepo) Update(ctx context.Context, txn *model.Transaction) error {
	return r.db.WithContext(ctx).Save(txn).Error
}

func (r *transactionRepo) UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).
		Model(&model.Transaction{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (r *transactionRepo) CountByItemID(ctx context.Context, itemID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Transaction{}).
		Where("item_id = ?", itemID).
		Count(&count).Error
	return count, err
}

func (r *transactionRepo) DeleteByItemID(ctx context.Context, itemID string) error {
	return r.db.WithContext(ctx).
		Where("item_id = ?", itemID).
		Delete(&model.Transaction{}).Error
}

// PurchaseDates 所有在册商品的购入日期，用于月份聚合
func (r *transactionRepo) PurchaseDates(ctx context.Context) ([]time.Time, error) {
	var dates []time.Time
	err := r.db.WithContext(ctx).
		Model(&model.Transaction{}).
		Joins("JOIN items ON items.item_id = transactions.item_id AND items.deleted_at IS NULL").
		Pluck("transactions.purchase_date", &dates).Error
	return dates, err
}

// ListSoldByItemNumber 同货号已售记录，价格预测的参考样本
func (r *transactionRepo) ListSoldByItemNumber(ctx context.Context, itemNumber string, limit int) ([]model.Transaction, error) {
	var txns []model.Transaction
	err := r.db.WithContext(ctx).
		Joins("JOIN items ON items.item_id = transactions.item_id AND items.deleted_at IS NULL").
		Where("items.item_number = ?", itemNumber).
		Where("transactions.sold_price IS NOT NULL AND transactions.sold_price <> '' AND transactions.sold_price <> '0'").
		Order("transactions.sold_date DESC").
		Limit(limit).
		Find(&txns).Error
	return txns, err
}

func (r *transactionRepo) WithTx(tx *gorm.DB) TransactionRepository {
	return &transactionRepo{db: tx}
}
