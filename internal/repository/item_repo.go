package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"resale_erp_202601/internal/model"
)

// ==================== 接口定义 ====================

// ItemRepository 商品仓储接口
type ItemRepository interface {
	// 基础 CRUD
	Create(ctx context.Context, item *model.Item) error
	GetByItemID(ctx context.Context, itemID string) (*model.Item, error)
	GetWithTransactions(ctx context.Context, itemID string) (*model.Item, error)
	ExistsByItemID(ctx context.Context, itemID string) (bool, error)
	Update(ctx context.Context, item *model.Item) error
	UpdateFields(ctx context.Context, itemID string, fields map[string]interface{}) error
	SoftDelete(ctx context.Context, itemID string) error

	// 列表查询
	ListAll(ctx context.Context) ([]model.Item, error)
	List(ctx context.Context, filter ItemFilter) ([]model.Item, int64, error)
	ListByItemNumber(ctx context.Context, itemNumber string) ([]model.Item, error)
	DistinctTypes(ctx context.Context) ([]string, error)

	// 批量操作
	BatchUpdateStatus(ctx context.Context, itemIDs []string, status string) (int64, error)

	// 事务
	WithTx(tx *gorm.DB) ItemRepository
	Transaction(ctx context.Context, fn func(txRepo ItemRepository) error) error
}

// ==================== 过滤条件 ====================

// ItemFilter 商品过滤条件（列表接口的查询参数）
// Status/Platform/日期区间落在 transactions 表，查询时 JOIN
type ItemFilter struct {
	Search    string
	ItemType  string
	Size      string
	Status    string
	Platform  string
	StartDate *time.Time
	EndDate   *time.Time
	SortBy    string // purchase_date | sold_date | purchase_price | sold_price | storage_duration
	SortOrder string // asc | desc
	Page      int
	PageSize  int
}

// 列表排序字段白名单，防注入
var itemSortColumns = map[string]string{
	"purchase_date":    "transactions.purchase_date",
	"sold_date":        "transactions.sold_date",
	"purchase_price":   "transactions.purchase_price",
	"sold_price":       "transactions.sold_price",
	"storage_duration": "transactions.storage_duration",
}

// ==================== 仓储实现 ====================

type itemRepo struct {
	db *gorm.DB
}

// NewItemRepository 创建商品仓储
func NewItemRepository(db *gorm.DB) ItemRepository {
	return &itemRepo{db: db}
}

func (r *itemRepo) Create(ctx context.Context, item *model.Item) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *itemRepo) GetByItemID(ctx context.Context, itemID string) (*model.Item, error) {
	var item model.Item
	err := r.db.WithContext(ctx).
		Where("item_id = ?", itemID).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *itemRepo) GetWithTransactions(ctx context.Context, itemID string) (*model.Item, error) {
	var item model.Item
	err := r.db.WithContext(ctx).
		Preload("Transactions", func(db *gorm.DB) *gorm.DB {
			return db.Order("purchase_date DESC")
		}).
		Preload("WarehousePosition").
		Preload("WarehousePosition.Warehouse").
		Where("item_id = ?", itemID).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *itemRepo) ExistsByItemID(ctx context.Context, itemID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Item{}).
		Where("item_id = ?", itemID).
		Count(&count).Error
	return count > 0, err
}

func (r *itemRepo) Update(ctx context.Context, item *model.Item) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *itemRepo) UpdateFields(ctx context.Context, itemID string, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).
		Model(&model.Item{}).
		Where("item_id = ?", itemID).
		Updates(fields).Error
}

func (r *itemRepo) SoftDelete(ctx context.Context, itemID string) error {
	return r.db.WithContext(ctx).
		Where("item_id = ?", itemID).
		Delete(&model.Item{}).Error
}

func (r *itemRepo) ListAll(ctx context.Context) ([]model.Item, error) {
	var items []model.Item
	err := r.db.WithContext(ctx).
		Preload("Transactions", func(db *gorm.DB) *gorm.DB {
			return db.Order("purchase_date DESC")
		}).
		Preload("WarehousePosition").
		Preload("WarehousePosition.Warehouse").
		Find(&items).Error
	return items, err
}

func (r *itemRepo) List(ctx context.Context, filter ItemFilter) ([]model.Item, int64, error) {
	var items []model.Item
	var total int64

	query := r.db.WithContext(ctx).Model(&model.Item{})

	needJoin := filter.Status != "" || filter.Platform != "" ||
		filter.StartDate != nil || filter.EndDate != nil ||
		itemSortColumns[filter.SortBy] != ""
	if needJoin {
		query = query.
			Joins("JOIN transactions ON transactions.item_id = items.item_id").
			Where("transactions.deleted_at IS NULL")
	}

	if filter.ItemType != "" {
		query = query.Where("items.item_type = ?", filter.ItemType)
	}
	if filter.Size != "" {
		query = query.Where("items.item_size = ?", filter.Size)
	}
	if filter.Status != "" {
		query = query.Where("transactions.order_status = ?", filter.Status)
	}
	if filter.Platform != "" {
		query = query.Where(
			"transactions.purchase_platform = ? OR transactions.sold_platform = ?",
			filter.Platform, filter.Platform,
		)
	}
	if filter.StartDate != nil {
		query = query.Where("transactions.purchase_date >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		query = query.Where("transactions.purchase_date <= ?", *filter.EndDate)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where(
			"items.item_name LIKE ? OR items.item_id LIKE ? OR items.item_brand LIKE ? OR items.item_type LIKE ? OR items.item_size LIKE ?",
			like, like, like, like, like,
		)
	}

	if err := query.Distinct("items.id").Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	order := "items.created_at DESC"
	if col, ok := itemSortColumns[filter.SortBy]; ok {
		dir := "DESC"
		if filter.SortOrder == "asc" {
			dir = "ASC"
		}
		order = col + " " + dir
	}

	offset := (filter.Page - 1) * filter.PageSize
	err := query.
		Preload("Transactions", func(db *gorm.DB) *gorm.DB {
			return db.Order("purchase_date DESC")
		}).
		Preload("WarehousePosition").
		Preload("WarehousePosition.Warehouse").
		Order(order).
		Limit(filter.PageSize).
		Offset(offset).
		Find(&items).Error

	return items, total, err
}

func (r *itemRepo) ListByItemNumber(ctx context.Context, itemNumber string) ([]model.Item, error) {
	var items []model.Item
	err := r.db.WithContext(ctx).
		Preload("Transactions").
		Where("item_number = ?", itemNumber).
		Find(&items).Error
	return items, err
}

func (r *itemRepo) DistinctTypes(ctx context.Context) ([]string, error) {
	var types []string
	err := r.db.WithContext(ctx).
		Model(&model.Item{}).
		Distinct("item_type").
		Where("item_type <> ''").
		Order("item_type").
		Pluck("item_type", &types).Error
	return types, err
}

func (r *itemRepo) BatchUpdateStatus(ctx context.Context, itemIDs []string, status string) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&model.Transaction{}).
		Where("item_id IN ?", itemIDs).
		Update("order_status", status)
	return res.RowsAffected, res.Error
}

func (r *itemRepo) WithTx(tx *gorm.DB) ItemRepository {
	return &itemRepo{db: tx}
}

func (r *itemRepo) Transaction(ctx context.Context, fn func(txRepo ItemRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(r.WithTx(tx))
	})
}
