package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"strconv"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"resale_erp_202601/internal/api/dto"
	"resale_erp_202601/internal/model"
	"resale_erp_202601/internal/repository"
	"resale_erp_202601/pkg/cache"
)

// 业务错误
var (
	ErrItemExists      = errors.New("商品编号已存在")
	ErrItemNotFound    = errors.New("商品不存在")
	ErrHasTransactions = errors.New("商品存在交易记录，无法删除")
	ErrInvalidStatus   = errors.New("无效的订单状态")
)

// 状态词汇表校验用
var validStatuses = map[string]bool{
	model.StatusInTransitDomestic: true,
	model.StatusInTransitJapan:    true,
	model.StatusNotListed:         true,
	model.StatusListed:            true,
	model.StatusInTransaction:     true,
	model.StatusSoldUnsettled:     true,
	model.StatusReturning:         true,
	model.StatusCompleted:         true,
}

// ==================== ItemService ====================

// ItemService 商品主业务：CRUD、SKU、批量操作、统计
type ItemService struct {
	db       *gorm.DB
	itemRepo repository.ItemRepository
	txnRepo  repository.TransactionRepository
	whRepo   repository.WarehouseRepository
	cache    *cache.TagCache
}

// NewItemService 创建商品服务
func NewItemService(
	db *gorm.DB,
	itemRepo repository.ItemRepository,
	txnRepo repository.TransactionRepository,
	whRepo repository.WarehouseRepository,
	tagCache *cache.TagCache,
) *ItemService {
	return &ItemService{
		db:       db,
		itemRepo: itemRepo,
		txnRepo:  txnRepo,
		whRepo:   whRepo,
		cache:    tagCache,
	}
}

// ==================== 编号生成 ====================

// 类目前缀，未知类目统一 SP（商品）
var itemIDPrefixes = map[string]string{
	"服装类": "FZ",
	"鞋类":  "XL",
	"包类":  "BL",
	"潮玩类": "CW",
	"配饰类": "PS",
}

// GenerateItemID 生成形如 FZ260828xxx 的编号，冲突时重试
func (s *ItemService) GenerateItemID(ctx context.Context, itemType string) (string, error) {
	prefix, ok := itemIDPrefixes[itemType]
	if !ok {
		prefix = "SP"
	}
	for i := 0; i < 5; i++ {
		id := fmt.Sprintf("%s%s%03d", prefix, time.Now().Format("060102"), rand.Intn(1000))
		exists, err := s.itemRepo.ExistsByItemID(ctx, id)
		if err != nil {
			return "", err
		}
		if !exists {
			return id, nil
		}
	}
	return "", errors.New("商品编号生成失败，请重试")
}

// ==================== 创建 ====================

// Create 创建商品和首条交易记录，仓位占用与写入同一事务
func (s *ItemService) Create(ctx context.Context, req *dto.ItemSaveRequest) (*model.Item, error) {
	purchaseDate, ok := ParseFlexibleDate(req.PurchaseDate)
	if !ok {
		return nil, fmt.Errorf("无效的购买日期格式: %q", req.PurchaseDate)
	}
	if req.OrderStatus != "" && !validStatuses[req.OrderStatus] {
		return nil, ErrInvalidStatus
	}

	itemID := req.ItemID
	if itemID == "" {
		generated, err := s.GenerateItemID(ctx, req.ItemType)
		if err != nil {
			return nil, err
		}
		itemID = generated
	}

	var item *model.Item
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		exists, err := s.itemRepo.WithTx(tx).ExistsByItemID(ctx, itemID)
		if err != nil {
			return err
		}
		if exists {
			return ErrItemExists
		}

		status := defaultStr(req.OrderStatus, model.StatusInTransitDomestic)
		if req.WarehousePositionID != nil && !model.IsOutStatus(status) {
			if err := s.whRepo.WithTx(tx).OccupyPosition(ctx, *req.WarehousePositionID); err != nil {
				return err
			}
		}

		item = s.itemFromRequest(itemID, req)
		if err := s.itemRepo.WithTx(tx).Create(ctx, item); err != nil {
			return fmt.Errorf("创建商品失败: %v", err)
		}

		txn, err := s.transactionFromRequest(itemID, status, purchaseDate, req)
		if err != nil {
			return err
		}
		if err := s.txnRepo.WithTx(tx).Create(ctx, txn); err != nil {
			return fmt.Errorf("创建交易记录失败: %v", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidate()
	return item, nil
}

// ==================== 更新 ====================

// Update 更新商品与最新交易记录：仓位变更和状态出入库都会调整占用计数
func (s *ItemService) Update(ctx context.Context, req *dto.ItemSaveRequest) (*model.Item, error) {
	if req.ItemID == "" {
		return nil, errors.New("缺少商品编号")
	}
	purchaseDate, ok := ParseFlexibleDate(req.PurchaseDate)
	if !ok {
		return nil, fmt.Errorf("无效的购买日期格式: %q", req.PurchaseDate)
	}
	if req.OrderStatus != "" && !validStatuses[req.OrderStatus] {
		return nil, ErrInvalidStatus
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		itemRepo := s.itemRepo.WithTx(tx)
		txnRepo := s.txnRepo.WithTx(tx)
		whRepo := s.whRepo.WithTx(tx)

		item, err := itemRepo.GetByItemID(ctx, req.ItemID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrItemNotFound
			}
			return err
		}
		txn, err := txnRepo.GetLatestByItemID(ctx, req.ItemID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return errors.New("商品缺少交易记录")
			}
			return err
		}

		newStatus := defaultStr(req.OrderStatus, txn.OrderStatus)
		if err := s.adjustOccupancy(ctx, whRepo,
			item.WarehousePositionID, txn.OrderStatus,
			req.WarehousePositionID, newStatus); err != nil {
			return err
		}

		// 商品字段
		item.ItemName = req.ItemName
		item.ItemType = req.ItemType
		item.ItemBrand = req.ItemBrand
		item.ItemNumber = req.ItemNumber
		item.ItemCondition = defaultStr(req.ItemCondition, item.ItemCondition)
		item.ItemColor = defaultStr(req.ItemColor, item.ItemColor)
		item.ItemSize = defaultStr(req.ItemSize, item.ItemSize)
		item.ItemMfgDate = defaultStr(req.ItemMfgDate, item.ItemMfgDate)
		item.ItemRemarks = req.ItemRemarks
		if req.Photos != nil {
			item.Photos = pq.StringArray(req.Photos)
		}
		item.Position = req.Position
		item.WarehousePositionID = req.WarehousePositionID
		item.Accessories = req.Accessories
		item.ToyCharacterID = req.ToyCharacterID
		item.ToyVariant = req.ToyVariant
		item.ToyCondition = req.ToyCondition
		if err := itemRepo.Update(ctx, item); err != nil {
			return fmt.Errorf("更新商品失败: %v", err)
		}

		// 交易字段
		txn.OrderStatus = newStatus
		txn.PurchaseDate = purchaseDate
		txn.LaunchDate = datePtr(req.LaunchDate)
		txn.SoldDate = datePtr(req.SoldDate)
		txn.PurchasePlatform = req.PurchasePlatform
		txn.SoldPlatform = req.SoldPlatform
		if req.ListingPlatforms != nil {
			txn.ListingPlatforms = pq.StringArray(req.ListingPlatforms)
		}
		txn.PurchasePrice = defaultStr(req.PurchasePrice, txn.PurchasePrice)
		txn.PurchasePriceCurrency = defaultStr(req.PurchasePriceCurrency, txn.PurchasePriceCurrency)
		txn.PurchasePriceExchangeRate = defaultStr(req.PurchasePriceExchangeRate, txn.PurchasePriceExchangeRate)
		txn.SoldPrice = req.SoldPrice
		txn.SoldPriceCurrency = req.SoldPriceCurrency
		txn.SoldPriceExchangeRate = req.SoldPriceExchangeRate
		txn.Shipping = req.Shipping
		txn.DomesticShipping = req.DomesticShipping
		txn.InternationalShipping = req.InternationalShipping
		txn.DomesticTrackingNumber = req.DomesticTrackingNumber
		txn.InternationalTrackingNumber = req.InternationalTrackingNumber
		txn.IsReturn = req.IsReturn
		txn.StorageDuration = req.StorageDuration

		if req.OtherFees != nil {
			data, err := json.Marshal(req.OtherFees)
			if err != nil {
				return fmt.Errorf("序列化其他费用失败: %v", err)
			}
			txn.OtherFees = data
		}

		applyProfit(txn, req.OtherFees)
		applyStorageDuration(txn)

		if err := txnRepo.Update(ctx, txn); err != nil {
			return fmt.Errorf("更新交易记录失败: %v", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidate()
	return s.itemRepo.GetWithTransactions(ctx, req.ItemID)
}

// adjustOccupancy 旧仓位/新仓位 + 出库状态变化的占用记账
func (s *ItemService) adjustOccupancy(
	ctx context.Context,
	whRepo repository.WarehouseRepository,
	oldPos *int64, oldStatus string,
	newPos *int64, newStatus string,
) error {
	oldOccupies := oldPos != nil && !model.IsOutStatus(oldStatus)
	newOccupies := newPos != nil && !model.IsOutStatus(newStatus)

	samePos := oldPos != nil && newPos != nil && *oldPos == *newPos
	if oldOccupies && newOccupies && samePos {
		return nil
	}

	if oldOccupies {
		if err := whRepo.ReleasePosition(ctx, *oldPos); err != nil {
			return err
		}
	}
	if newOccupies {
		if err := whRepo.OccupyPosition(ctx, *newPos); err != nil {
			return err
		}
	}
	return nil
}

// ==================== 删除 ====================

// Delete 软删除商品及其交易记录，释放占用的仓位
func (s *ItemService) Delete(ctx context.Context, itemID string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		itemRepo := s.itemRepo.WithTx(tx)
		txnRepo := s.txnRepo.WithTx(tx)

		item, err := itemRepo.GetByItemID(ctx, itemID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrItemNotFound
			}
			return err
		}

		if item.WarehousePositionID != nil {
			txn, err := txnRepo.GetLatestByItemID(ctx, itemID)
			occupies := err == nil && !model.IsOutStatus(txn.OrderStatus)
			if err != nil && err != gorm.ErrRecordNotFound {
				return err
			}
			if occupies {
				if err := s.whRepo.WithTx(tx).ReleasePosition(ctx, *item.WarehousePositionID); err != nil {
					return err
				}
			}
		}

		if err := txnRepo.DeleteByItemID(ctx, itemID); err != nil {
			return err
		}
		return itemRepo.SoftDelete(ctx, itemID)
	})
	if err != nil {
		return err
	}

	s.invalidate()
	return nil
}

// ==================== 复制 ====================

// Copy 复制商品：生成新编号，基础信息照搬，交易记录重置为一条空白购入
// 购入日期沿用原商品，价格、平台、售出信息全部清零
// 仓位绑定不继承，占用计数只认真实入库的那一件
func (s *ItemService) Copy(ctx context.Context, itemID string) (*model.Item, error) {
	src, err := s.itemRepo.GetWithTransactions(ctx, itemID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrItemNotFound
		}
		return nil, err
	}

	newID, err := s.GenerateItemID(ctx, src.ItemType)
	if err != nil {
		return nil, err
	}

	purchaseDate := time.Now()
	if len(src.Transactions) > 0 {
		purchaseDate = src.Transactions[0].PurchaseDate
	}

	dup := &model.Item{
		ItemID:         newID,
		ItemName:       src.ItemName,
		ItemType:       src.ItemType,
		ItemBrand:      src.ItemBrand,
		ItemNumber:     src.ItemNumber,
		ItemCondition:  src.ItemCondition,
		ItemColor:      src.ItemColor,
		ItemSize:       src.ItemSize,
		ItemMfgDate:    src.ItemMfgDate,
		ItemRemarks:    src.ItemRemarks,
		Photos:         src.Photos,
		Position:       src.Position,
		Accessories:    src.Accessories,
		ToyCharacterID: src.ToyCharacterID,
		ToyVariant:     src.ToyVariant,
		ToyCondition:   src.ToyCondition,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.itemRepo.WithTx(tx).Create(ctx, dup); err != nil {
			return fmt.Errorf("复制商品失败: %v", err)
		}
		txn := &model.Transaction{
			ItemID:                    newID,
			OrderStatus:               model.StatusInTransitDomestic,
			PurchaseDate:              purchaseDate,
			PurchasePrice:             "0",
			PurchasePriceCurrency:     "CNY",
			PurchasePriceExchangeRate: "1",
		}
		if err := s.txnRepo.WithTx(tx).Create(ctx, txn); err != nil {
			return fmt.Errorf("创建交易记录失败: %v", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidate()
	return dup, nil
}

// ==================== SKU ====================

// CreateSKU 创建不带交易记录的裸商品
func (s *ItemService) CreateSKU(ctx context.Context, req *dto.SKURequest) (*model.Item, error) {
	itemID := req.ItemID
	if itemID == "" {
		generated, err := s.GenerateItemID(ctx, req.ItemType)
		if err != nil {
			return nil, err
		}
		itemID = generated
	}

	exists, err := s.itemRepo.ExistsByItemID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrItemExists
	}

	item := &model.Item{
		ItemID:        itemID,
		ItemName:      req.ItemName,
		ItemType:      req.ItemType,
		ItemBrand:     req.ItemBrand,
		ItemNumber:    req.ItemNumber,
		ItemCondition: defaultStr(req.ItemCondition, "全新"),
		ItemColor:     defaultStr(req.ItemColor, "黑色"),
		ItemSize:      defaultStr(req.ItemSize, "均码"),
		ItemMfgDate:   defaultStr(req.ItemMfgDate, "未知"),
		ItemRemarks:   req.ItemRemarks,
		Photos:        pq.StringArray(req.Photos),
		Accessories:   req.Accessories,
	}
	if err := s.itemRepo.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("创建SKU失败: %v", err)
	}

	s.invalidate()
	return item, nil
}

// UpdateSKU 更新 SKU 基础字段，不触碰交易记录
func (s *ItemService) UpdateSKU(ctx context.Context, req *dto.SKURequest) (*model.Item, error) {
	if req.ItemID == "" {
		return nil, errors.New("缺少商品编号")
	}
	item, err := s.itemRepo.GetByItemID(ctx, req.ItemID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrItemNotFound
		}
		return nil, err
	}

	item.ItemName = req.ItemName
	item.ItemType = req.ItemType
	item.ItemBrand = req.ItemBrand
	item.ItemNumber = req.ItemNumber
	item.ItemCondition = defaultStr(req.ItemCondition, item.ItemCondition)
	item.ItemColor = defaultStr(req.ItemColor, item.ItemColor)
	item.ItemSize = defaultStr(req.ItemSize, item.ItemSize)
	item.ItemMfgDate = defaultStr(req.ItemMfgDate, item.ItemMfgDate)
	item.ItemRemarks = req.ItemRemarks
	if req.Photos != nil {
		item.Photos = pq.StringArray(req.Photos)
	}
	item.Accessories = req.Accessories

	if err := s.itemRepo.Update(ctx, item); err != nil {
		return nil, err
	}

	s.invalidate()
	return item, nil
}

// DeleteSKU 删除 SKU：存在交易记录时拒绝，防止交易数据失去归属
func (s *ItemService) DeleteSKU(ctx context.Context, itemID string) error {
	_, err := s.itemRepo.GetByItemID(ctx, itemID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return ErrItemNotFound
		}
		return err
	}

	count, err := s.txnRepo.CountByItemID(ctx, itemID)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrHasTransactions
	}

	if err := s.itemRepo.SoftDelete(ctx, itemID); err != nil {
		return err
	}
	s.invalidate()
	return nil
}

// ==================== 查询 ====================

// Get 商品详情（带交易记录和仓位）
func (s *ItemService) Get(ctx context.Context, itemID string) (*model.Item, error) {
	item, err := s.itemRepo.GetWithTransactions(ctx, itemID)
	if err == gorm.ErrRecordNotFound {
		return nil, ErrItemNotFound
	}
	return item, err
}

// List 商品列表，过滤条件见 ItemFilter
func (s *ItemService) List(ctx context.Context, filter repository.ItemFilter) ([]model.Item, int64, error) {
	type listResult struct {
		Items []model.Item
		Total int64
	}
	key := fmt.Sprintf("items:list:%+v", filter)
	cached, err := s.cache.GetOrLoad(key, func() (interface{}, error) {
		items, total, err := s.itemRepo.List(ctx, filter)
		if err != nil {
			return nil, err
		}
		return &listResult{Items: items, Total: total}, nil
	}, cache.TagItems)
	if err != nil {
		return nil, 0, err
	}
	res := cached.(*listResult)
	return res.Items, res.Total, nil
}

// Categories 在册商品类目
func (s *ItemService) Categories(ctx context.Context) ([]string, error) {
	cached, err := s.cache.GetOrLoad("items:categories", func() (interface{}, error) {
		return s.itemRepo.DistinctTypes(ctx)
	}, cache.TagItems)
	if err != nil {
		return nil, err
	}
	return cached.([]string), nil
}

// Months 有购入记录的月份，倒序
func (s *ItemService) Months(ctx context.Context) ([]string, error) {
	cached, err := s.cache.GetOrLoad("items:months", func() (interface{}, error) {
		dates, err := s.txnRepo.PurchaseDates(ctx)
		if err != nil {
			return nil, err
		}
		seen := make(map[string]bool)
		months := make([]string, 0)
		for _, d := range dates {
			m := d.Format("2006-01")
			if !seen[m] {
				seen[m] = true
				months = append(months, m)
			}
		}
		sort.Sort(sort.Reverse(sort.StringSlice(months)))
		return months, nil
	}, cache.TagMonths)
	if err != nil {
		return nil, err
	}
	return cached.([]string), nil
}

// Stats 总览统计：库存、已售、成本、营收、平均利润率，全部折算人民币
func (s *ItemService) Stats(ctx context.Context) (*dto.ItemStats, error) {
	cached, err := s.cache.GetOrLoad("items:stats", func() (interface{}, error) {
		items, err := s.itemRepo.ListAll(ctx)
		if err != nil {
			return nil, err
		}

		stats := &dto.ItemStats{TotalItems: int64(len(items))}
		var profitRateSum float64
		var profitRateCount int64

		for _, item := range items {
			if len(item.Transactions) == 0 {
				stats.InStockCount++
				continue
			}
			txn := item.Transactions[0]

			cost := ConvertToCNY(txn.PurchasePrice, txn.PurchasePriceCurrency, txn.PurchasePriceExchangeRate)
			stats.TotalCost += cost

			if txn.OrderStatus == model.StatusCompleted || txn.OrderStatus == model.StatusSoldUnsettled {
				stats.SoldCount++
				if txn.SoldPrice != nil {
					revenue := ConvertToCNY(*txn.SoldPrice, strVal(txn.SoldPriceCurrency), strVal(txn.SoldPriceExchangeRate))
					stats.TotalRevenue += revenue
					if txn.ItemNetProfit != nil {
						net := parseAmount(*txn.ItemNetProfit)
						stats.TotalNetProfit += net
						if revenue > 0 {
							profitRateSum += net / revenue * 100
							profitRateCount++
						}
					}
				}
			} else {
				stats.InStockCount++
			}
		}

		if profitRateCount > 0 {
			stats.AverageProfitRate = round1(profitRateSum / float64(profitRateCount))
		}
		stats.TotalCost = round2(stats.TotalCost)
		stats.TotalRevenue = round2(stats.TotalRevenue)
		stats.TotalNetProfit = round2(stats.TotalNetProfit)
		return stats, nil
	}, cache.TagStats)
	if err != nil {
		return nil, err
	}
	return cached.(*dto.ItemStats), nil
}

// ==================== 批量操作 ====================

// BatchUpdateStatus 批量改订单状态，出入库变化同步调整仓位占用
func (s *ItemService) BatchUpdateStatus(ctx context.Context, req *dto.BatchUpdateStatusRequest) (*dto.BatchResult, error) {
	if !validStatuses[req.Status] {
		return nil, ErrInvalidStatus
	}

	result := &dto.BatchResult{}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		itemRepo := s.itemRepo.WithTx(tx)
		txnRepo := s.txnRepo.WithTx(tx)
		whRepo := s.whRepo.WithTx(tx)

		for _, itemID := range req.ItemIDs {
			item, err := itemRepo.GetByItemID(ctx, itemID)
			if err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("%s: 商品不存在", itemID))
				continue
			}
			txn, err := txnRepo.GetLatestByItemID(ctx, itemID)
			if err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("%s: 缺少交易记录", itemID))
				continue
			}

			if err := s.adjustOccupancy(ctx, whRepo,
				item.WarehousePositionID, txn.OrderStatus,
				item.WarehousePositionID, req.Status); err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", itemID, err))
				continue
			}

			if err := txnRepo.UpdateFields(ctx, txn.ID, map[string]interface{}{
				"order_status": req.Status,
			}); err != nil {
				return err
			}
			result.UpdatedCount++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidate()
	return result, nil
}

// BatchSettlement 批量结算：已售出未结算的商品按给定日元汇率重算利润并转已完成
func (s *ItemService) BatchSettlement(ctx context.Context, req *dto.BatchSettlementRequest) (*dto.BatchResult, error) {
	if _, err := strconv.ParseFloat(req.ExchangeRate, 64); err != nil {
		return nil, fmt.Errorf("无效的结算汇率: %q", req.ExchangeRate)
	}

	result := &dto.BatchResult{}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txnRepo := s.txnRepo.WithTx(tx)

		for _, itemID := range req.ItemIDs {
			txn, err := txnRepo.GetLatestByItemID(ctx, itemID)
			if err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("%s: 缺少交易记录", itemID))
				continue
			}
			if txn.OrderStatus != model.StatusSoldUnsettled {
				result.Errors = append(result.Errors, fmt.Sprintf("%s: 状态不是已售出未结算", itemID))
				continue
			}

			// 日元售出的按结算汇率重算，人民币售出的汇率保持 1
			if txn.SoldPriceCurrency != nil && *txn.SoldPriceCurrency == "JPY" {
				rate := req.ExchangeRate
				txn.SoldPriceExchangeRate = &rate
			}
			txn.OrderStatus = model.StatusCompleted

			var fees []model.OtherFee
			if len(txn.OtherFees) > 0 {
				if err := json.Unmarshal(txn.OtherFees, &fees); err != nil {
					result.Errors = append(result.Errors, fmt.Sprintf("%s: 其他费用解析失败", itemID))
					continue
				}
			}
			applyProfit(txn, fees)
			applyStorageDuration(txn)

			if err := txnRepo.Update(ctx, txn); err != nil {
				return err
			}
			result.UpdatedCount++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidate()
	return result, nil
}

// ==================== 构造辅助 ====================

func (s *ItemService) itemFromRequest(itemID string, req *dto.ItemSaveRequest) *model.Item {
	return &model.Item{
		ItemID:              itemID,
		ItemName:            req.ItemName,
		ItemType:            req.ItemType,
		ItemBrand:           req.ItemBrand,
		ItemNumber:          req.ItemNumber,
		ItemCondition:       defaultStr(req.ItemCondition, "全新"),
		ItemColor:           defaultStr(req.ItemColor, "黑色"),
		ItemSize:            defaultStr(req.ItemSize, "均码"),
		ItemMfgDate:         defaultStr(req.ItemMfgDate, "未知"),
		ItemRemarks:         req.ItemRemarks,
		Photos:              pq.StringArray(req.Photos),
		Position:            req.Position,
		WarehousePositionID: req.WarehousePositionID,
		Accessories:         req.Accessories,
		ToyCharacterID:      req.ToyCharacterID,
		ToyVariant:          req.ToyVariant,
		ToyCondition:        req.ToyCondition,
	}
}

func (s *ItemService) transactionFromRequest(itemID, status string, purchaseDate time.Time, req *dto.ItemSaveRequest) (*model.Transaction, error) {
	txn := &model.Transaction{
		ItemID:       itemID,
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

		Shipping:                    req.Shipping,
		DomesticShipping:            req.DomesticShipping,
		InternationalShipping:       req.InternationalShipping,
		DomesticTrackingNumber:      req.DomesticTrackingNumber,
		InternationalTrackingNumber: req.InternationalTrackingNumber,

		IsReturn:        req.IsReturn,
		StorageDuration: req.StorageDuration,
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
	return txn, nil
}

// applyProfit 售价齐全时重算毛利/净利落库，否则清空
func applyProfit(txn *model.Transaction, fees []model.OtherFee) {
	if txn.SoldPrice == nil || *txn.SoldPrice == "" || *txn.SoldPrice == "0" {
		txn.ItemGrossProfit = nil
		txn.ItemNetProfit = nil
		return
	}
	result := CalculateProfit(ProfitParams{
		SoldPrice:                 *txn.SoldPrice,
		SoldPriceCurrency:         strVal(txn.SoldPriceCurrency),
		SoldPriceExchangeRate:     strVal(txn.SoldPriceExchangeRate),
		PurchasePrice:             txn.PurchasePrice,
		PurchasePriceCurrency:     txn.PurchasePriceCurrency,
		PurchasePriceExchangeRate: txn.PurchasePriceExchangeRate,
		DomesticShipping:          strVal(txn.DomesticShipping),
		InternationalShipping:     strVal(txn.InternationalShipping),
		OtherFees:                 fees,
	})
	gross := FormatAmount(result.GrossProfitCNY)
	net := FormatAmount(result.NetProfitCNY)
	txn.ItemGrossProfit = &gross
	txn.ItemNetProfit = &net
}

// applyStorageDuration 售出日期齐全且未手填时长时，按天数补齐
func applyStorageDuration(txn *model.Transaction) {
	if txn.SoldDate == nil {
		return
	}
	if txn.StorageDuration != nil && *txn.StorageDuration != "" {
		return
	}
	days := int(txn.SoldDate.Sub(txn.PurchaseDate).Hours() / 24)
	if days < 0 {
		days = 0
	}
	d := strconv.Itoa(days)
	txn.StorageDuration = &d
}

func strVal(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func (s *ItemService) invalidate() {
	if s.cache != nil {
		s.cache.Invalidate(cache.TagItems, cache.TagStats, cache.TagMonths, cache.TagWarehouses)
	}
}
