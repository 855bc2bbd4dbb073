package service

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestImportService_ExportRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	svc := newImportService(db)

	csv := importHeader +
		"AB123456,优衣库外套,服装类,优衣库,2024-01-15,,一号仓,A-01,5,200,,包装费:5:CNY:包装材料费用,a.jpg;b.jpg\n" +
		"CD789012,无印良品衬衫,服装类,无印良品,2024-03-01,,,,,150,,,\n"
	result, err := svc.Import(context.Background(), strings.NewReader(csv))
	if err != nil || result.ImportedCount != 2 {
		t.Fatalf("准备数据失败: err=%v result=%+v", err, result)
	}

	data, filename, err := svc.Export(context.Background(), "")
	if err != nil {
		t.Fatalf("导出失败: %v", err)
	}
	if !strings.HasPrefix(filename, "商品数据_全部数据_") || !strings.HasSuffix(filename, ".csv") {
		t.Errorf("filename = %q", filename)
	}
	if !bytes.HasPrefix(data, []byte("\uFEFF")) {
		t.Error("导出文件应带 BOM，供 Excel 直接打开")
	}

	// 导出文件应可以被导入解析器原样读回
	rows, err := ParseImportRows(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("导出文件解析失败: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}

	byID := make(map[string]ImportRow, len(rows))
	for _, row := range rows {
		byID[row.ItemID] = row
	}
	first, ok := byID["AB123456"]
	if !ok {
		t.Fatalf("缺少 AB123456: %+v", rows)
	}
	if first.WarehouseName != "一号仓" || first.PositionName != "A-01" || first.PositionCapacity != "5" {
		t.Errorf("仓库字段 = %q/%q/%q", first.WarehouseName, first.PositionName, first.PositionCapacity)
	}
	if first.OtherFees != "包装费:5:CNY:包装材料费用" {
		t.Errorf("otherFees = %q", first.OtherFees)
	}
	if first.Photos != "a.jpg;b.jpg" {
		t.Errorf("photos = %q", first.Photos)
	}
	if first.PurchaseDate != "2024-01-15" {
		t.Errorf("purchaseDate = %q", first.PurchaseDate)
	}

	// 完整闭环：导出文件在另一个库里再导入，每一行都成功
	db2 := setupTestDB(t)
	svc2 := newImportService(db2)
	reimport, err := svc2.Import(context.Background(), bytes.NewReader(data))
	if err != nil {
		t.Fatalf("再导入失败: %v", err)
	}
	if reimport.ImportedCount != 2 || len(reimport.Errors) != 0 {
		t.Errorf("再导入 = %+v", reimport)
	}
}

func TestImportService_ExportMonthFilter(t *testing.T) {
	db := setupTestDB(t)
	svc := newImportService(db)

	csv := importHeader +
		"AB123456,优衣库外套,服装类,优衣库,2024-01-15,,,,,200,,,\n" +
		"CD789012,无印良品衬衫,服装类,无印良品,2024-03-01,,,,,150,,,\n"
	if _, err := svc.Import(context.Background(), strings.NewReader(csv)); err != nil {
		t.Fatalf("准备数据失败: %v", err)
	}

	data, filename, err := svc.Export(context.Background(), "2024-03")
	if err != nil {
		t.Fatalf("导出失败: %v", err)
	}
	if !strings.Contains(filename, "2024-03") {
		t.Errorf("filename = %q", filename)
	}

	rows, err := ParseImportRows(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("导出文件解析失败: %v", err)
	}
	if len(rows) != 1 || rows[0].ItemID != "CD789012" {
		t.Errorf("按月筛选结果 = %+v", rows)
	}
}
