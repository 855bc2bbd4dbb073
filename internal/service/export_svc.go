package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"resale_erp_202601/internal/model"
)

// ==================== CSV 导出 ====================

// Export 导出商品数据为 CSV，表头与导入一致，导出的文件可以原样再导入
// month 形如 "2024-01" 按购入月份筛选，为空导出全部
// 返回文件内容和建议的下载文件名
func (s *ImportService) Export(ctx context.Context, month string) ([]byte, string, error) {
	items, err := s.itemRepo.ListAll(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("查询商品失败: %v", err)
	}

	var buf bytes.Buffer
	// Excel 直接打开需要 BOM，导入侧会剥掉
	buf.WriteString("\uFEFF")

	w := csv.NewWriter(&buf)
	if err := w.Write(importColumns); err != nil {
		return nil, "", fmt.Errorf("写入表头失败: %v", err)
	}

	count := 0
	for _, item := range items {
		var txn *model.Transaction
		if len(item.Transactions) > 0 {
			// Preload 按购入日期倒序，首条即最新
			txn = &item.Transactions[0]
		}

		if month != "" {
			if txn == nil || txn.PurchaseDate.Format("2006-01") != month {
				continue
			}
		}

		if err := w.Write(exportRecord(&item, txn)); err != nil {
			return nil, "", fmt.Errorf("写入数据行失败: %v", err)
		}
		count++
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, "", fmt.Errorf("生成 CSV 失败: %v", err)
	}

	label := "全部数据"
	if month != "" {
		label = month
	}
	filename := fmt.Sprintf("商品数据_%s_%s.csv", label, time.Now().Format("20060102-150405"))
	return buf.Bytes(), filename, nil
}

// exportRecord 按 importColumns 的顺序组装一行
func exportRecord(item *model.Item, txn *model.Transaction) []string {
	warehouseName := ""
	warehouseDescription := ""
	positionName := ""
	positionCapacity := ""
	if item.WarehousePosition != nil {
		positionName = item.WarehousePosition.Name
		positionCapacity = strconv.Itoa(item.WarehousePosition.Capacity)
		if item.WarehousePosition.Warehouse != nil {
			warehouseName = item.WarehousePosition.Warehouse.Name
			warehouseDescription = item.WarehousePosition.Warehouse.Description
		}
	}

	values := map[string]string{
		"itemId":        item.ItemID,
		"itemName":      item.ItemName,
		"itemType":      item.ItemType,
		"itemBrand":     item.ItemBrand,
		"itemNumber":    item.ItemNumber,
		"itemCondition": item.ItemCondition,
		"itemColor":     item.ItemColor,
		"itemSize":      item.ItemSize,
		"itemMfgDate":   item.ItemMfgDate,
		"itemRemarks":   item.ItemRemarks,
		"photos":        strings.Join(item.Photos, ";"),
		"position":      strVal(item.Position),
		"accessories":   strVal(item.Accessories),

		"warehouseName":        warehouseName,
		"warehouseDescription": warehouseDescription,
		"positionName":         positionName,
		"positionCapacity":     positionCapacity,
	}

	if txn != nil {
		values["orderStatus"] = txn.OrderStatus
		values["purchaseDate"] = txn.PurchaseDate.Format("2006-01-02")
		values["launchDate"] = formatDatePtr(txn.LaunchDate)
		values["soldDate"] = formatDatePtr(txn.SoldDate)
		values["purchasePlatform"] = txn.PurchasePlatform
		values["soldPlatform"] = strVal(txn.SoldPlatform)
		values["listingPlatforms"] = strings.Join(txn.ListingPlatforms, ",")
		values["otherFees"] = formatOtherFees(txn.OtherFees)
		values["purchasePrice"] = txn.PurchasePrice
		values["purchasePriceCurrency"] = txn.PurchasePriceCurrency
		values["purchasePriceExchangeRate"] = txn.PurchasePriceExchangeRate
		values["soldPrice"] = strVal(txn.SoldPrice)
		values["soldPriceCurrency"] = strVal(txn.SoldPriceCurrency)
		values["soldPriceExchangeRate"] = strVal(txn.SoldPriceExchangeRate)
		values["itemGrossProfit"] = strVal(txn.ItemGrossProfit)
		values["itemNetProfit"] = strVal(txn.ItemNetProfit)
		values["shipping"] = strVal(txn.Shipping)
		values["domesticShipping"] = strVal(txn.DomesticShipping)
		values["internationalShipping"] = strVal(txn.InternationalShipping)
		values["domesticTrackingNumber"] = strVal(txn.DomesticTrackingNumber)
		values["internationalTrackingNumber"] = strVal(txn.InternationalTrackingNumber)
		if txn.IsReturn {
			values["isReturn"] = "true"
		}
		values["storageDuration"] = strVal(txn.StorageDuration)
	}

	record := make([]string, len(importColumns))
	for i, col := range importColumns {
		record[i] = values[col]
	}
	return record
}

// formatOtherFees 还原为导入语法 `类型:金额:币种:描述`，多条逗号分隔
func formatOtherFees(raw []byte) string {
	if len(raw) == 0 {
		return ""
	}
	var fees []model.OtherFee
	if err := json.Unmarshal(raw, &fees); err != nil {
		return ""
	}
	parts := make([]string, 0, len(fees))
	for _, fee := range fees {
		parts = append(parts, fmt.Sprintf("%s:%s:%s:%s", fee.Type, fee.Amount, fee.Currency, fee.Description))
	}
	return strings.Join(parts, ",")
}

func formatDatePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}
