package service

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"resale_erp_202601/internal/model"
)

// ==================== 行结构 ====================

// ImportRow CSV 的一行，解析后即为强类型字段集合
// 所有值保持字符串，类型转换推迟到写入阶段；Raw 保留原始键值用于错误回显
type ImportRow struct {
	Number int // 报错用行号：首个数据行为 2（第 1 行是表头）
	Raw    map[string]string

	ItemID        string
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
	Position      string
	Accessories   string

	WarehouseName        string
	WarehouseDescription string
	PositionName         string
	PositionCapacity     string

	OrderStatus                 string
	PurchaseDate                string
	LaunchDate                  string
	SoldDate                    string
	PurchasePlatform            string
	SoldPlatform                string
	ListingPlatforms            string
	OtherFees                   string
	PurchasePrice               string
	PurchasePriceCurrency       string
	PurchasePriceExchangeRate   string
	SoldPrice                   string
	SoldPriceCurrency           string
	SoldPriceExchangeRate       string
	ItemGrossProfit             string
	ItemNetProfit               string
	Shipping                    string
	DomesticShipping            string
	InternationalShipping       string
	DomesticTrackingNumber      string
	InternationalTrackingNumber string
	IsReturn                    string
	StorageDuration             string
}

// ==================== CSV 解析 ====================

// importColumns 列的规范顺序，导出沿用同一套表头保证导出文件可以原样再导入
var importColumns = []string{
	"itemId",
	"itemName",
	"itemType",
	"itemBrand",
	"itemNumber",
	"itemCondition",
	"itemColor",
	"itemSize",
	"itemMfgDate",
	"itemRemarks",
	"photos",
	"position",
	"accessories",
	"warehouseName",
	"warehouseDescription",
	"positionName",
	"positionCapacity",
	"orderStatus",
	"purchaseDate",
	"launchDate",
	"soldDate",
	"purchasePlatform",
	"soldPlatform",
	"listingPlatforms",
	"otherFees",
	"purchasePrice",
	"purchasePriceCurrency",
	"purchasePriceExchangeRate",
	"soldPrice",
	"soldPriceCurrency",
	"soldPriceExchangeRate",
	"itemGrossProfit",
	"itemNetProfit",
	"shipping",
	"domesticShipping",
	"internationalShipping",
	"domesticTrackingNumber",
	"internationalTrackingNumber",
	"isReturn",
	"storageDuration",
}

// ErrUnreadableCSV 文件整体不可解析，整单失败
var ErrUnreadableCSV = errors.New("CSV 文件不可解析")

// ParseImportRows 解析上传的 CSV；表头行定义列，短行按缺列处理，空行跳过
// 任何读取失败都是整单失败，不会产出部分行
func ParseImportRows(r io.Reader) ([]ImportRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadableCSV, err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("%w: 至少需要标题行和一行数据", ErrUnreadableCSV)
	}

	headers := make([]string, len(records[0]))
	for i, h := range records[0] {
		headers[i] = strings.TrimSpace(h)
	}
	// Excel 导出的 CSV 带 UTF-8 BOM，会粘在第一个表头上
	headers[0] = strings.TrimPrefix(headers[0], "\uFEFF")

	rows := make([]ImportRow, 0, len(records)-1)
	for i, record := range records[1:] {
		raw := make(map[string]string, len(headers))
		empty := true
		for j, header := range headers {
			val := ""
			if j < len(record) {
				val = strings.TrimSpace(record[j])
			}
			raw[header] = val
			if val != "" {
				empty = false
			}
		}
		if empty {
			continue
		}

		row := rowFromRecord(raw)
		row.Number = i + 2 // 表头占第 1 行
		row.Raw = raw
		rows = append(rows, row)
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: 没有有效数据行", ErrUnreadableCSV)
	}
	return rows, nil
}

func rowFromRecord(raw map[string]string) ImportRow {
	return ImportRow{
		ItemID:        raw["itemId"],
		ItemName:      raw["itemName"],
		ItemType:      raw["itemType"],
		ItemBrand:     raw["itemBrand"],
		ItemNumber:    raw["itemNumber"],
		ItemCondition: raw["itemCondition"],
		ItemColor:     raw["itemColor"],
		ItemSize:      raw["itemSize"],
		ItemMfgDate:   raw["itemMfgDate"],
		ItemRemarks:   raw["itemRemarks"],
		Photos:        raw["photos"],
		Position:      raw["position"],
		Accessories:   raw["accessories"],

		WarehouseName:        raw["warehouseName"],
		WarehouseDescription: raw["warehouseDescription"],
		PositionName:         raw["positionName"],
		PositionCapacity:     raw["positionCapacity"],

		OrderStatus:                 raw["orderStatus"],
		PurchaseDate:                raw["purchaseDate"],
		LaunchDate:                  raw["launchDate"],
		SoldDate:                    raw["soldDate"],
		PurchasePlatform:            raw["purchasePlatform"],
		SoldPlatform:                raw["soldPlatform"],
		ListingPlatforms:            raw["listingPlatforms"],
		OtherFees:                   raw["otherFees"],
		PurchasePrice:               raw["purchasePrice"],
		PurchasePriceCurrency:       raw["purchasePriceCurrency"],
		PurchasePriceExchangeRate:   raw["purchasePriceExchangeRate"],
		SoldPrice:                   raw["soldPrice"],
		SoldPriceCurrency:           raw["soldPriceCurrency"],
		SoldPriceExchangeRate:       raw["soldPriceExchangeRate"],
		ItemGrossProfit:             raw["itemGrossProfit"],
		ItemNetProfit:               raw["itemNetProfit"],
		Shipping:                    raw["shipping"],
		DomesticShipping:            raw["domesticShipping"],
		InternationalShipping:       raw["internationalShipping"],
		DomesticTrackingNumber:      raw["domesticTrackingNumber"],
		InternationalTrackingNumber: raw["internationalTrackingNumber"],
		IsReturn:                    raw["isReturn"],
		StorageDuration:             raw["storageDuration"],
	}
}

// ==================== 日期解析 ====================

var cnDatePattern = regexp.MustCompile(`^(\d{4})年(\d{1,2})月(\d{1,2})日$`)

var dateLayouts = []string{
	"2006-01-02",
	"2006-1-2",
	"2006/01/02",
	"2006/1/2",
	"2006.01.02",
	"2006.1.2",
}

// ParseFlexibleDate 支持表格里常见的几种日期写法
func ParseFlexibleDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	if m := cnDatePattern.FindStringSubmatch(s); m != nil {
		s = fmt.Sprintf("%s-%s-%s", m[1], m[2], m[3])
		if t, err := time.Parse("2006-1-2", s); err == nil {
			return t, true
		}
		return time.Time{}, false
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ==================== 其他费用解析 ====================

// FeeParseResult 其他费用子字段的解析结果
// 畸形条目不让整行失败，但保留原文，宽松策略是显式、可测试的
type FeeParseResult struct {
	Fees      []model.OtherFee
	Malformed []string
}

// ParseOtherFees 解析 `类型:金额:币种:描述` 语法，多条用逗号分隔
// 前三段必填，描述缺省回退为类型名
func ParseOtherFees(s string) FeeParseResult {
	var result FeeParseResult
	s = strings.TrimSpace(s)
	if s == "" {
		return result
	}

	for _, entry := range strings.Split(s, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		parts := strings.Split(entry, ":")
		if len(parts) < 3 {
			result.Malformed = append(result.Malformed, entry)
			continue
		}

		fee := model.OtherFee{
			Type:     strings.TrimSpace(parts[0]),
			Amount:   strings.TrimSpace(parts[1]),
			Currency: strings.TrimSpace(parts[2]),
		}
		if len(parts) >= 4 && strings.TrimSpace(parts[3]) != "" {
			fee.Description = strings.TrimSpace(parts[3])
		} else {
			fee.Description = fee.Type
		}
		result.Fees = append(result.Fees, fee)
	}
	return result
}

// SplitList 逗号/分号列表拆分并去空白，photos 用分号、上架平台用逗号
func SplitList(s string, sep string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	parts := strings.Split(s, sep)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
