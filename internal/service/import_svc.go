package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"strconv"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"resale_erp_202601/internal/api/dto"
	"resale_erp_202601/internal/model"
	"resale_erp_202601/internal/repository"
	"resale_erp_202601/pkg/cache"
)

// ==================== ImportService ====================

// ImportService CSV 批量导入
// 整个导入跑在一个外层事务里；行级失败走嵌套事务（savepoint）回滚本行写入，
// 不影响已成功的兄弟行。只有事务基础设施本身出错才整单失败。
type ImportService struct {
	db       *gorm.DB
	itemRepo repository.ItemRepository
	txnRepo  repository.TransactionRepository
	whRepo   repository.WarehouseRepository
	cache    *cache.TagCache
}

// NewImportService 创建导入服务
func NewImportService(
	db *gorm.DB,
	itemRepo repository.ItemRepository,
	txnRepo repository.TransactionRepository,
	whRepo repository.WarehouseRepository,
	tagCache *cache.TagCache,
) *ImportService {
	return &ImportService{
		db:       db,
		itemRepo: itemRepo,
		txnRepo:  txnRepo,
		whRepo:   whRepo,
		cache:    tagCache,
	}
}

// Import 执行一次导入：解析失败整单报错；行按顺序处理，后面的行能看到
// 前面行在同一事务里的写入（重复编号、仓位容量都以此为准）
func (s *ImportService) Import(ctx context.Context, r io.Reader) (*dto.ImportResult, error) {
	rows, err := ParseImportRows(r)
	if err != nil {
		return nil, err
	}

	result := &dto.ImportResult{
		Errors: make([]dto.ImportRowError, 0),
		Summary: dto.ImportSummary{
			TotalRows: len(rows),
		},
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, row := range rows {
			if rowErr := s.importRow(ctx, tx, row); rowErr != nil {
				result.Errors = append(result.Errors, dto.ImportRowError{
					Row:   row.Number,
					Error: rowErr.Error(),
					Data:  row.Raw,
				})
				result.Summary.ErrorCount++
				continue
			}
			result.ImportedCount++
			result.Summary.SuccessCount++
		}
		return nil
	})
	if err != nil {
		// 事务基础设施失败（连接断开、死锁等），整单回滚
		return nil, fmt.Errorf("导入事务失败: %w", err)
	}

	result.Success = result.Summary.ErrorCount == 0

	if s.cache != nil {
		s.cache.Invalidate(cache.TagItems, cache.TagStats, cache.TagMonths, cache.TagWarehouses)
	}
	return result, nil
}

// importRow 处理一行：校验 → 解析仓位 → 写入
// 写入阶段包在 savepoint 里，本行任何持久化失败只回滚本行
func (s *ImportService) importRow(ctx context.Context, tx *gorm.DB, row ImportRow) error {
	if err := s.validateRow(ctx, tx, row); err != nil {
		return err
	}

	return tx.Transaction(func(rtx *gorm.DB) error {
		positionID, err := s.resolvePosition(ctx, rtx, row)
		if err != nil {
			return err
		}
		return s.writeRow(ctx, rtx, row, positionID)
	})
}

// ==================== 行校验 ====================

// validateRow 必填字段、日期、数字、重复编号
func (s *ImportService) validateRow(ctx context.Context, tx *gorm.DB, row ImportRow) error {
	required := []struct {
		name  string
		value string
	}{
		{"itemId", row.ItemID},
		{"itemName", row.ItemName},
		{"itemType", row.ItemType},
		{"itemBrand", row.ItemBrand},
	}
	for _, f := range required {
		if f.value == "" {
			return fmt.Errorf("必填字段 %s 不能为空", f.name)
		}
	}

	if _, ok := ParseFlexibleDate(row.PurchaseDate); !ok {
		return fmt.Errorf("无效的购买日期格式: %q，请使用 YYYY-MM-DD 格式", row.PurchaseDate)
	}
	if row.SoldDate != "" {
		if _, ok := ParseFlexibleDate(row.SoldDate); !ok {
			return fmt.Errorf("无效的售出日期格式: %q", row.SoldDate)
		}
	}
	if row.LaunchDate != "" {
		if _, ok := ParseFlexibleDate(row.LaunchDate); !ok {
			return fmt.Errorf("无效的上架日期格式: %q", row.LaunchDate)
		}
	}

	numeric := []struct {
		name  string
		value string
	}{
		{"购买价格", row.PurchasePrice},
		{"销售价格", row.SoldPrice},
		{"购买汇率", row.PurchasePriceExchangeRate},
		{"销售汇率", row.SoldPriceExchangeRate},
	}
	for _, f := range numeric {
		if f.value == "" {
			continue
		}
		if _, err := strconv.ParseFloat(f.value, 64); err != nil {
			return fmt.Errorf("无效的%s: %q", f.name, f.value)
		}
	}

	// 重复编号：查询走当前事务，能看到本次导入里前面行刚写入的编号
	exists, err := s.itemRepo.WithTx(tx).ExistsByItemID(ctx, row.ItemID)
	if err != nil {
		return fmt.Errorf("查询商品编号失败: %v", err)
	}
	if exists {
		return fmt.Errorf("商品编号 %s 已存在", row.ItemID)
	}
	return nil
}

// ==================== 仓位解析 ====================

// resolvePosition 按名称找或建仓库/仓位，返回仓位 ID；未提供仓库字段返回 nil
// 这里只做容量预检，不改 used；占用由写入阶段的条件自增完成，
// 避免后续校验失败时重复占用
func (s *ImportService) resolvePosition(ctx context.Context, tx *gorm.DB, row ImportRow) (*int64, error) {
	if row.WarehouseName == "" {
		return nil, nil
	}

	whRepo := s.whRepo.WithTx(tx)

	wh, err := whRepo.GetWarehouseByName(ctx, row.WarehouseName)
	if err == gorm.ErrRecordNotFound {
		wh = &model.Warehouse{
			Name:        row.WarehouseName,
			Description: row.WarehouseDescription,
		}
		if wh.Description == "" {
			wh.Description = row.WarehouseName
		}
		if err := whRepo.CreateWarehouse(ctx, wh); err != nil {
			return nil, fmt.Errorf("创建仓库失败: %v", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("查询仓库失败: %v", err)
	}

	if row.PositionName == "" {
		return nil, nil
	}

	pos, err := whRepo.GetPositionByName(ctx, wh.ID, row.PositionName)
	if err == gorm.ErrRecordNotFound {
		capacity := model.DefaultPositionCapacity
		if c, convErr := strconv.Atoi(row.PositionCapacity); convErr == nil && c > 0 {
			capacity = c
		}
		pos = &model.WarehousePosition{
			WarehouseID: wh.ID,
			Name:        row.PositionName,
			Capacity:    capacity,
		}
		if err := whRepo.CreatePosition(ctx, pos); err != nil {
			return nil, fmt.Errorf("创建仓位失败: %v", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("查询仓位失败: %v", err)
	}

	// 已出库的行不占容量，满位也允许挂靠
	status := defaultStr(row.OrderStatus, model.StatusInTransitDomestic)
	if pos.Used >= pos.Capacity && !model.IsOutStatus(status) {
		return nil, fmt.Errorf("仓位 %s 已满", pos.Name)
	}
	return &pos.ID, nil
}

// ==================== 实体写入 ====================

// writeRow 占用仓位并持久化 Item + Transaction，三者在同一 savepoint 里
func (s *ImportService) writeRow(ctx context.Context, tx *gorm.DB, row ImportRow, positionID *int64) error {
	status := defaultStr(row.OrderStatus, model.StatusInTransitDomestic)
	if positionID != nil && !model.IsOutStatus(status) {
		// 条件自增，满位时 0 行命中 → 整行回滚
		// 已出库状态（已完成、已售出未结算、交易中）只记录仓位不占容量
		if err := s.whRepo.WithTx(tx).OccupyPosition(ctx, *positionID); err != nil {
			if err == repository.ErrPositionFull {
				return fmt.Errorf("仓位已满")
			}
			return err
		}
	}

	item := s.buildItem(row, positionID)
	if err := s.itemRepo.WithTx(tx).Create(ctx, item); err != nil {
		return fmt.Errorf("创建商品失败: %v", err)
	}

	txn, err := s.buildTransaction(row)
	if err != nil {
		return err
	}
	if err := s.txnRepo.WithTx(tx).Create(ctx, txn); err != nil {
		return fmt.Errorf("创建交易记录失败: %v", err)
	}
	return nil
}

func (s *ImportService) buildItem(row ImportRow, positionID *int64) *model.Item {
	return &model.Item{
		ItemID:              row.ItemID,
		ItemName:            row.ItemName,
		ItemType:            row.ItemType,
		ItemBrand:           row.ItemBrand,
		ItemNumber:          row.ItemNumber,
		ItemCondition:       defaultStr(row.ItemCondition, "全新"),
		ItemColor:           defaultStr(row.ItemColor, "黑色"),
		ItemSize:            defaultStr(row.ItemSize, "均码"),
		ItemMfgDate:         defaultStr(row.ItemMfgDate, "未知"),
		ItemRemarks:         row.ItemRemarks,
		Photos:              pq.StringArray(SplitList(row.Photos, ";")),
		Position:            strPtr(row.Position),
		WarehousePositionID: positionID,
		Accessories:         strPtr(row.Accessories),
	}
}

func (s *ImportService) buildTransaction(row ImportRow) (*model.Transaction, error) {
	purchaseDate, _ := ParseFlexibleDate(row.PurchaseDate) // 校验阶段已确认有效

	feeResult := ParseOtherFees(row.OtherFees)
	for _, bad := range feeResult.Malformed {
		log.Printf("[Import] 行 %d 其他费用条目格式错误，已忽略: %q", row.Number, bad)
	}

	var otherFees []byte
	if len(feeResult.Fees) > 0 {
		data, err := json.Marshal(feeResult.Fees)
		if err != nil {
			return nil, fmt.Errorf("序列化其他费用失败: %v", err)
		}
		otherFees = data
	}

	txn := &model.Transaction{
		ItemID:       row.ItemID,
		OrderStatus:  defaultStr(row.OrderStatus, model.StatusInTransitDomestic),
		PurchaseDate: purchaseDate,
		LaunchDate:   datePtr(row.LaunchDate),
		SoldDate:     datePtr(row.SoldDate),

		PurchasePlatform: row.PurchasePlatform,
		SoldPlatform:     strPtr(row.SoldPlatform),
		ListingPlatforms: pq.StringArray(SplitList(row.ListingPlatforms, ",")),

		PurchasePrice:             defaultStr(row.PurchasePrice, "0"),
		PurchasePriceCurrency:     defaultStr(row.PurchasePriceCurrency, "CNY"),
		PurchasePriceExchangeRate: defaultStr(row.PurchasePriceExchangeRate, "1"),
		SoldPrice:                 strPtr(row.SoldPrice),
		SoldPriceCurrency:         strPtr(row.SoldPriceCurrency),
		SoldPriceExchangeRate:     strPtr(row.SoldPriceExchangeRate),

		Shipping:                    strPtr(row.Shipping),
		DomesticShipping:            strPtr(row.DomesticShipping),
		InternationalShipping:       strPtr(row.InternationalShipping),
		DomesticTrackingNumber:      strPtr(row.DomesticTrackingNumber),
		InternationalTrackingNumber: strPtr(row.InternationalTrackingNumber),

		OtherFees: otherFees,

		ItemGrossProfit: strPtr(row.ItemGrossProfit),
		ItemNetProfit:   strPtr(row.ItemNetProfit),
		IsReturn:        row.IsReturn == "yes" || row.IsReturn == "true",
		StorageDuration: strPtr(row.StorageDuration),
	}
	return txn, nil
}

// ==================== 辅助 ====================

func defaultStr(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func datePtr(s string) *time.Time {
	if t, ok := ParseFlexibleDate(s); ok {
		return &t
	}
	return nil
}
