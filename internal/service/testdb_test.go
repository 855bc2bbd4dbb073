package service

import (
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"resale_erp_202601/internal/model"
)

// ==================== 测试表结构 ====================

// items 和 transactions 的数组列（text[]）SQLite 建不出来，
// 用同名表的镜像结构建表，数组列退化为 TEXT；
// pq.StringArray 的 Value/Scan 走字符串，读写不受影响。

type itemTable struct {
	ID        int64 `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`

	ItemID        string `gorm:"uniqueIndex"`
	ItemName      string
	ItemType      string
	ItemBrand     string
	ItemNumber    string
	ItemCondition string
	ItemColor     string
	ItemSize      string
	ItemMfgDate   string
	ItemRemarks   string
	Photos        string

	Position            *string
	WarehousePositionID *int64
	Accessories         *string

	ToyCharacterID *int64
	ToyVariant     *string
	ToyCondition   *string
}

func (itemTable) TableName() string { return "items" }

type transactionTable struct {
	ID        int64 `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`

	ItemID      string `gorm:"index"`
	OrderStatus string

	PurchaseDate time.Time
	LaunchDate   *time.Time
	SoldDate     *time.Time

	PurchasePlatform string
	SoldPlatform     *string
	ListingPlatforms string

	PurchasePrice             string
	PurchasePriceCurrency     string
	PurchasePriceExchangeRate string
	SoldPrice                 *string
	SoldPriceCurrency         *string
	SoldPriceExchangeRate     *string

	Shipping                    *string
	DomesticShipping            *string
	InternationalShipping       *string
	DomesticTrackingNumber      *string
	InternationalTrackingNumber *string

	OtherFees string

	ItemGrossProfit *string
	ItemNetProfit   *string

	IsReturn  bool
	ReturnFee *string

	StorageDuration *string
}

func (transactionTable) TableName() string { return "transactions" }

// ==================== 测试数据库 ====================

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("连接测试数据库失败: %v", err)
	}

	if err := db.AutoMigrate(
		&itemTable{}, &transactionTable{},
		&model.Warehouse{}, &model.WarehousePosition{},
		&model.ToyBrand{}, &model.ToySeries{}, &model.ToyCharacter{},
		&model.StockAdjustment{},
		&model.Store{}, &model.SysUser{},
	); err != nil {
		t.Fatalf("建表失败: %v", err)
	}
	return db
}

// ==================== 通用辅助 ====================

func strp(s string) *string { return &s }

func seedPosition(t *testing.T, db *gorm.DB, name string, capacity int) *model.WarehousePosition {
	t.Helper()

	wh := &model.Warehouse{Name: "一号仓-" + name, Description: "测试仓库"}
	if err := db.Create(wh).Error; err != nil {
		t.Fatalf("建仓库失败: %v", err)
	}
	pos := &model.WarehousePosition{WarehouseID: wh.ID, Name: name, Capacity: capacity}
	if err := db.Create(pos).Error; err != nil {
		t.Fatalf("建仓位失败: %v", err)
	}
	return pos
}

func positionUsed(t *testing.T, db *gorm.DB, id int64) int {
	t.Helper()

	var pos model.WarehousePosition
	if err := db.First(&pos, id).Error; err != nil {
		t.Fatalf("查仓位失败: %v", err)
	}
	return pos.Used
}
