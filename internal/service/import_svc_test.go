package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"gorm.io/gorm"

	"resale_erp_202601/internal/model"
	"resale_erp_202601/internal/repository"
	"resale_erp_202601/pkg/cache"
)

func newImportService(db *gorm.DB) *ImportService {
	return NewImportService(
		db,
		repository.NewItemRepository(db),
		repository.NewTransactionRepository(db),
		repository.NewWarehouseRepository(db),
		cache.New(time.Minute),
	)
}

const importHeader = "itemId,itemName,itemType,itemBrand,purchaseDate,orderStatus," +
	"warehouseName,positionName,positionCapacity,purchasePrice,soldPrice,otherFees,photos\n"

func TestImportService_MixedRows(t *testing.T) {
	db := setupTestDB(t)
	svc := newImportService(db)

	csv := importHeader +
		"AB123456,优衣库外套,服装类,优衣库,2024-01-15,,一号仓,A-01,5,200,,包装费:5:CNY:包装材料费用,a.jpg;b.jpg\n" +
		"CD789012,,服装类,无印良品,2024-02-01,,,,,,,,\n" + // 缺 itemName
		"AB123456,重复编号,服装类,优衣库,2024-03-01,,,,,,,,\n" // 与第 2 行重复

	result, err := svc.Import(context.Background(), strings.NewReader(csv))
	if err != nil {
		t.Fatalf("导入失败: %v", err)
	}

	if result.ImportedCount != 1 {
		t.Errorf("importedCount = %d, want 1", result.ImportedCount)
	}
	if result.Summary.TotalRows != 3 || result.Summary.SuccessCount != 1 || result.Summary.ErrorCount != 2 {
		t.Errorf("summary = %+v", result.Summary)
	}
	if result.Success {
		t.Error("有行级错误时 success 应为 false")
	}
	if len(result.Errors) != 2 {
		t.Fatalf("errors = %d, want 2", len(result.Errors))
	}
	if result.Errors[0].Row != 3 || result.Errors[1].Row != 4 {
		t.Errorf("错误行号 = %d/%d, want 3/4", result.Errors[0].Row, result.Errors[1].Row)
	}
	if result.Errors[1].Data["itemId"] != "AB123456" {
		t.Errorf("错误回执应回显原始行: %v", result.Errors[1].Data)
	}

	// 成功行落库：商品 + 交易记录 + 仓库/仓位
	var item model.Item
	if err := db.Where("item_id = ?", "AB123456").First(&item).Error; err != nil {
		t.Fatalf("商品未落库: %v", err)
	}
	if item.ItemCondition != "全新" || item.ItemSize != "均码" {
		t.Errorf("省略字段应取默认值: condition=%s size=%s", item.ItemCondition, item.ItemSize)
	}
	if len(item.Photos) != 2 || item.Photos[0] != "a.jpg" {
		t.Errorf("photos = %v", item.Photos)
	}

	var txn model.Transaction
	if err := db.Where("item_id = ?", "AB123456").First(&txn).Error; err != nil {
		t.Fatalf("交易记录未落库: %v", err)
	}
	if txn.OrderStatus != model.StatusInTransitDomestic {
		t.Errorf("默认状态 = %s, want %s", txn.OrderStatus, model.StatusInTransitDomestic)
	}
	if txn.PurchaseDate.Format("2006-01-02") != "2024-01-15" {
		t.Errorf("购买日期 = %s", txn.PurchaseDate.Format("2006-01-02"))
	}

	var fees []model.OtherFee
	if err := json.Unmarshal(txn.OtherFees, &fees); err != nil {
		t.Fatalf("其他费用反序列化失败: %v", err)
	}
	if len(fees) != 1 || fees[0].Description != "包装材料费用" {
		t.Errorf("其他费用 = %+v", fees)
	}

	// 失败行不留痕
	var itemCount int64
	db.Model(&itemTable{}).Count(&itemCount)
	if itemCount != 1 {
		t.Errorf("商品数 = %d, want 1", itemCount)
	}
}

func TestImportService_UnreadableCSV(t *testing.T) {
	db := setupTestDB(t)
	svc := newImportService(db)

	_, err := svc.Import(context.Background(), strings.NewReader("itemId\n"))
	if !errors.Is(err, ErrUnreadableCSV) {
		t.Errorf("err = %v, want ErrUnreadableCSV", err)
	}
}

func TestImportService_LazyWarehouseCreation(t *testing.T) {
	db := setupTestDB(t)
	svc := newImportService(db)

	// 两行同仓同位：仓库和仓位只建一次，占用记两次
	csv := importHeader +
		"AB1,外套,服装类,优衣库,2024-01-15,,一号仓,A-01,5,,,,\n" +
		"AB2,裤子,服装类,优衣库,2024-01-16,,一号仓,A-01,5,,,,\n"

	result, err := svc.Import(context.Background(), strings.NewReader(csv))
	if err != nil {
		t.Fatalf("导入失败: %v", err)
	}
	if result.ImportedCount != 2 {
		t.Fatalf("importedCount = %d, want 2, errors: %+v", result.ImportedCount, result.Errors)
	}

	var whCount, posCount int64
	db.Model(&model.Warehouse{}).Count(&whCount)
	db.Model(&model.WarehousePosition{}).Count(&posCount)
	if whCount != 1 || posCount != 1 {
		t.Errorf("仓库/仓位数 = %d/%d, want 1/1", whCount, posCount)
	}

	var pos model.WarehousePosition
	db.First(&pos)
	if pos.Capacity != 5 || pos.Used != 2 {
		t.Errorf("仓位 capacity/used = %d/%d, want 5/2", pos.Capacity, pos.Used)
	}

	var wh model.Warehouse
	db.First(&wh)
	// 描述缺省回退为仓库名
	if wh.Description != "一号仓" {
		t.Errorf("仓库描述 = %q, want 一号仓", wh.Description)
	}
}

func TestImportService_DefaultPositionCapacity(t *testing.T) {
	db := setupTestDB(t)
	svc := newImportService(db)

	csv := importHeader +
		"AB1,外套,服装类,优衣库,2024-01-15,,一号仓,A-01,,,,,\n"

	if _, err := svc.Import(context.Background(), strings.NewReader(csv)); err != nil {
		t.Fatalf("导入失败: %v", err)
	}

	var pos model.WarehousePosition
	db.First(&pos)
	if pos.Capacity != model.DefaultPositionCapacity {
		t.Errorf("默认容量 = %d, want %d", pos.Capacity, model.DefaultPositionCapacity)
	}
}

func TestImportService_PositionFull(t *testing.T) {
	db := setupTestDB(t)
	svc := newImportService(db)

	// 容量 1，第二行满位被拒，第一行不受影响
	csv := importHeader +
		"AB1,外套,服装类,优衣库,2024-01-15,,一号仓,A-01,1,,,,\n" +
		"AB2,裤子,服装类,优衣库,2024-01-16,,一号仓,A-01,1,,,,\n"

	result, err := svc.Import(context.Background(), strings.NewReader(csv))
	if err != nil {
		t.Fatalf("导入失败: %v", err)
	}
	if result.ImportedCount != 1 || len(result.Errors) != 1 {
		t.Fatalf("result = %+v", result.Summary)
	}
	if result.Errors[0].Row != 3 {
		t.Errorf("错误行号 = %d, want 3", result.Errors[0].Row)
	}

	var pos model.WarehousePosition
	db.First(&pos)
	if pos.Used != 1 {
		t.Errorf("used = %d, want 1", pos.Used)
	}

	// 被拒行的商品和交易都不应落库
	var count int64
	db.Model(&itemTable{}).Where("item_id = ?", "AB2").Count(&count)
	if count != 0 {
		t.Error("满位行的商品不应落库")
	}
}

func TestImportService_OutStatusSkipsOccupancy(t *testing.T) {
	db := setupTestDB(t)
	svc := newImportService(db)

	// 已出库状态：挂靠仓位但不占容量，满位也允许
	csv := importHeader +
		"AB1,外套,服装类,优衣库,2024-01-15,,一号仓,A-01,1,,,,\n" +
		"AB2,裤子,服装类,优衣库,2024-01-16,已完成,一号仓,A-01,1,,,,\n" +
		"AB3,帽子,服装类,优衣库,2024-01-17,已售出未结算,一号仓,A-01,1,,,,\n"

	result, err := svc.Import(context.Background(), strings.NewReader(csv))
	if err != nil {
		t.Fatalf("导入失败: %v", err)
	}
	if result.ImportedCount != 3 {
		t.Fatalf("importedCount = %d, want 3, errors: %+v", result.ImportedCount, result.Errors)
	}

	var pos model.WarehousePosition
	db.First(&pos)
	if pos.Used != 1 {
		t.Errorf("used = %d, want 1（出库状态不占容量）", pos.Used)
	}

	// 仓位关联仍然记录
	var item model.Item
	db.Where("item_id = ?", "AB2").First(&item)
	if item.WarehousePositionID == nil || *item.WarehousePositionID != pos.ID {
		t.Error("出库行也应挂靠仓位")
	}
}

func TestImportService_DuplicateAgainstExisting(t *testing.T) {
	db := setupTestDB(t)
	svc := newImportService(db)

	csv := importHeader +
		"AB1,外套,服装类,优衣库,2024-01-15,,,,,,,,\n"
	if _, err := svc.Import(context.Background(), strings.NewReader(csv)); err != nil {
		t.Fatalf("首次导入失败: %v", err)
	}

	// 重跑同一文件：全部行被重复编号拒掉
	result, err := svc.Import(context.Background(), strings.NewReader(csv))
	if err != nil {
		t.Fatalf("二次导入失败: %v", err)
	}
	if result.ImportedCount != 0 || len(result.Errors) != 1 {
		t.Errorf("重跑应全部被拒: %+v", result.Summary)
	}
	if !strings.Contains(result.Errors[0].Error, "已存在") {
		t.Errorf("错误信息 = %q", result.Errors[0].Error)
	}
}

func TestImportService_InvalidDateAndNumber(t *testing.T) {
	db := setupTestDB(t)
	svc := newImportService(db)

	csv := importHeader +
		"AB1,外套,服装类,优衣库,不是日期,,,,,,,,\n" +
		"AB2,裤子,服装类,优衣库,2024-01-15,,,,,abc,,,\n"

	result, err := svc.Import(context.Background(), strings.NewReader(csv))
	if err != nil {
		t.Fatalf("导入失败: %v", err)
	}
	if result.ImportedCount != 0 || len(result.Errors) != 2 {
		t.Errorf("result = %+v", result.Summary)
	}
	if !strings.Contains(result.Errors[0].Error, "购买日期") {
		t.Errorf("日期错误信息 = %q", result.Errors[0].Error)
	}
	if !strings.Contains(result.Errors[1].Error, "购买价格") {
		t.Errorf("价格错误信息 = %q", result.Errors[1].Error)
	}
}

func TestImportService_MalformedFeeDoesNotFailRow(t *testing.T) {
	db := setupTestDB(t)
	svc := newImportService(db)

	csv := importHeader +
		"AB1,外套,服装类,优衣库,2024-01-15,,,,,,,badfee,\n"

	result, err := svc.Import(context.Background(), strings.NewReader(csv))
	if err != nil {
		t.Fatalf("导入失败: %v", err)
	}
	if result.ImportedCount != 1 {
		t.Fatalf("畸形费用不应整行失败: %+v", result.Errors)
	}

	var txn model.Transaction
	db.Where("item_id = ?", "AB1").First(&txn)
	if len(txn.OtherFees) != 0 {
		t.Errorf("畸形条目不应落库: %s", txn.OtherFees)
	}
}

func TestImportService_ExcelBOMHeader(t *testing.T) {
	db := setupTestDB(t)
	svc := newImportService(db)

	// Excel 导出的文件整体带 BOM，每行数据都必须正常导入
	csv := "\uFEFF" + importHeader +
		"AB123456,优衣库外套,服装类,优衣库,2024-01-15,,,,,200,,,\n"

	result, err := svc.Import(context.Background(), strings.NewReader(csv))
	if err != nil {
		t.Fatalf("导入失败: %v", err)
	}
	if result.ImportedCount != 1 {
		t.Fatalf("importedCount = %d, want 1, errors = %+v", result.ImportedCount, result.Errors)
	}

	var item model.Item
	if err := db.Where("item_id = ?", "AB123456").First(&item).Error; err != nil {
		t.Fatalf("商品未落库: %v", err)
	}
}
