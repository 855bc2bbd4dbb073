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

func newTransactionService(db *gorm.DB) *TransactionService {
	return NewTransactionService(
		repository.NewItemRepository(db),
		repository.NewTransactionRepository(db),
		cache.New(time.Minute),
	)
}

func TestTransactionService_CreatePurchase(t *testing.T) {
	db := setupTestDB(t)
	itemSvc := newItemService(db)
	svc := newTransactionService(db)
	ctx := context.Background()

	if _, err := itemSvc.CreateSKU(ctx, &dto.SKURequest{
		ItemID: "FZ1", ItemName: "外套", ItemType: "服装类", ItemBrand: "优衣库",
	}); err != nil {
		t.Fatalf("创建 SKU 失败: %v", err)
	}

	txn, err := svc.Create(ctx, &dto.TransactionCreateRequest{
		ItemID:        "FZ1",
		Type:          "purchase",
		PurchaseDate:  "2024-01-15",
		PurchasePrice: "200",
	})
	if err != nil {
		t.Fatalf("补录购入失败: %v", err)
	}
	if txn.OrderStatus != model.StatusInTransitDomestic {
		t.Errorf("购入默认状态 = %s", txn.OrderStatus)
	}
	if txn.PurchasePriceCurrency != "CNY" || txn.PurchasePriceExchangeRate != "1" {
		t.Errorf("币种默认值: %+v", txn)
	}
}

func TestTransactionService_CreatePurchase_RequiresDate(t *testing.T) {
	db := setupTestDB(t)
	itemSvc := newItemService(db)
	svc := newTransactionService(db)
	ctx := context.Background()

	itemSvc.CreateSKU(ctx, &dto.SKURequest{
		ItemID: "FZ1", ItemName: "外套", ItemType: "服装类", ItemBrand: "优衣库",
	})

	if _, err := svc.Create(ctx, &dto.TransactionCreateRequest{
		ItemID: "FZ1", Type: "purchase",
	}); err == nil {
		t.Error("购入单缺购买日期应被拒绝")
	}
}

func TestTransactionService_CreateSale(t *testing.T) {
	db := setupTestDB(t)
	itemSvc := newItemService(db)
	svc := newTransactionService(db)
	ctx := context.Background()

	if _, err := itemSvc.Create(ctx, baseSaveRequest("FZ1")); err != nil {
		t.Fatalf("创建失败: %v", err)
	}

	// 售出单不填购买日期时沿用已有记录
	txn, err := svc.Create(ctx, &dto.TransactionCreateRequest{
		ItemID:            "FZ1",
		Type:              "sale",
		SoldDate:          "2024-03-01",
		SoldPrice:         strp("500"),
		SoldPriceCurrency: strp("CNY"),
		PurchasePrice:     "200",
	})
	if err != nil {
		t.Fatalf("录入售出失败: %v", err)
	}
	if txn.OrderStatus != model.StatusSoldUnsettled {
		t.Errorf("售出默认状态 = %s", txn.OrderStatus)
	}
	if txn.PurchaseDate.Format("2006-01-02") != "2024-01-15" {
		t.Errorf("购买日期应沿用: %s", txn.PurchaseDate.Format("2006-01-02"))
	}
	if txn.ItemNetProfit == nil || *txn.ItemNetProfit != "300.00" {
		t.Errorf("净利 = %v, want 300.00", txn.ItemNetProfit)
	}
	if txn.StorageDuration == nil || *txn.StorageDuration != "46" {
		t.Errorf("在库时长 = %v, want 46", txn.StorageDuration)
	}
}

func TestTransactionService_CreateSale_RequiresPrice(t *testing.T) {
	db := setupTestDB(t)
	itemSvc := newItemService(db)
	svc := newTransactionService(db)
	ctx := context.Background()

	if _, err := itemSvc.Create(ctx, baseSaveRequest("FZ1")); err != nil {
		t.Fatalf("创建失败: %v", err)
	}

	if _, err := svc.Create(ctx, &dto.TransactionCreateRequest{
		ItemID: "FZ1", Type: "sale",
	}); err == nil {
		t.Error("售出单缺销售价格应被拒绝")
	}
}

func TestTransactionService_Create_Validation(t *testing.T) {
	db := setupTestDB(t)
	svc := newTransactionService(db)
	ctx := context.Background()

	if _, err := svc.Create(ctx, &dto.TransactionCreateRequest{
		ItemID: "不存在", Type: "purchase", PurchaseDate: "2024-01-15",
	}); err != ErrItemNotFound {
		t.Errorf("err = %v, want ErrItemNotFound", err)
	}

	if _, err := svc.Create(ctx, &dto.TransactionCreateRequest{
		ItemID: "FZ1", Type: "rent",
	}); err == nil {
		t.Error("未知交易类型应被拒绝")
	}
}
