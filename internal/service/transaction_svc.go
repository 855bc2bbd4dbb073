package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"resale_erp_202601/internal/api/dto"
	"resale_erp_202601/internal/model"
	"resale_erp_202601/internal/repository"
	"resale_erp_202601/pkg/cache"
)

// TransactionService 给已有商品追加交易记录（SKU 补录购入、二次售出等）
type TransactionService struct {
	itemRepo repository.ItemRepository
	txnRepo  repository.TransactionRepository
	cache    *cache.TagCache
}

// NewTransactionService 创建交易服务
func NewTransactionService(
	itemRepo repository.ItemRepository,
	txnRepo repository.TransactionRepository,
	tagCache *cache.TagCache,
) *TransactionService {
	return &TransactionService{itemRepo: itemRepo, txnRepo: txnRepo, cache: tagCache}
}

// Create 追加交易记录，type 决定是购入单还是售出单
func (s *TransactionService) Create(ctx context.Context, req *dto.TransactionCreateRequest) (*model.Transaction, error) {
	if req.Type != "purchase" && req.Type != "sale" {
		return nil, fmt.Errorf("无效的交易类型: %q，应为 purchase 或 sale", req.Type)
	}

	if _, err := s.itemRepo.GetByItemID(ctx, req.ItemID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrItemNotFound
		}
		return nil, err
	}

	var purchaseDate time.Time
	if req.PurchaseDate != "" {
		d, ok := ParseFlexibleDate(req.PurchaseDate)
		if !ok {
			return nil, fmt.Errorf("无效的购买日期格式: %q", req.PurchaseDate)
		}
		purchaseDate = d
	} else if req.Type == "purchase" {
		return nil, errors.New("购入记录缺少购买日期")
	} else {
		// 售出单沿用商品已有的购入日期
		prev, err := s.txnRepo.GetLatestByItemID(ctx, req.ItemID)
		if err != nil {
			return nil, errors.New("商品没有购入记录，无法录入售出")
		}
		purchaseDate = prev.PurchaseDate
	}

	status := req.OrderStatus
	if status == "" {
		if req.Type == "sale" {
			status = model.StatusSoldUnsettled
		} else {
			status = model.StatusInTransitDomestic
		}
	}
	if !validStatuses[status] {
		return nil, ErrInvalidStatus
	}
	if req.Type == "sale" && (req.SoldPrice == nil || *req.SoldPrice == "") {
		return nil, errors.New("售出记录缺少销售价格")
	}

	txn := &model.Transaction{
		ItemID:       req.ItemID,
		OrderStatus:  status,
		PurchaseDate: purchaseDate,
		LaunchDate:   datePtr(req.LaunchDate),
		SoldDate:     datePtr(req.SoldDate),

		PurchasePlatform: req.PurchasePlatform,
		SoldPlatform:     req.SoldPlatform,
		ListingPlatforms: pq.StringArray(req.ListingPlatforms),

		PurchasePrice:             defaultStr(req.PurchasePrice, "0"),
		PurchasePriceCurrency:     defaultStr(req.PurchasePriceCurrency, "CNY"),
		PurchasePriceExchangeRate: defaultStr(req.PurchasePriceExchangeRate, "1"),
		SoldPrice:                 req.SoldPrice,
		SoldPriceCurrency:         req.SoldPriceCurrency,
		SoldPriceExchangeRate:     req.SoldPriceExchangeRate,

		DomesticShipping:            req.DomesticShipping,
		InternationalShipping:       req.InternationalShipping,
		DomesticTrackingNumber:      req.DomesticTrackingNumber,
		InternationalTrackingNumber: req.InternationalTrackingNumber,

		IsReturn:  req.IsReturn,
		ReturnFee: req.ReturnFee,
	}

	if len(req.OtherFees) > 0 {
		data, err := json.Marshal(req.OtherFees)
		if err != nil {
			return nil, fmt.Errorf("序列化其他费用失败: %v", err)
		}
		txn.OtherFees = data
	}

	applyProfit(txn, req.OtherFees)
	applyStorageDuration(txn)

	if err := s.txnRepo.Create(ctx, txn); err != nil {
		return nil, fmt.Errorf("创建交易记录失败: %v", err)
	}

	if s.cache != nil {
		s.cache.Invalidate(cache.TagItems, cache.TagStats, cache.TagMonths)
	}
	return txn, nil
}
