package service

import (
	"testing"

	"resale_erp_202601/internal/model"
)

func TestConvertToCNY(t *testing.T) {
	if got := ConvertToCNY("100", "CNY", ""); got != 100 {
		t.Errorf("CNY 原样返回 = %v, want 100", got)
	}
	if got := ConvertToCNY("1000", "JPY", "0.05"); got != 50 {
		t.Errorf("JPY 折算 = %v, want 50", got)
	}
	// 缺汇率时无法折算，按 0 处理
	if got := ConvertToCNY("1000", "JPY", ""); got != 0 {
		t.Errorf("无汇率 = %v, want 0", got)
	}
	if got := ConvertToCNY("abc", "CNY", ""); got != 0 {
		t.Errorf("非数字 = %v, want 0", got)
	}
}

func TestCalculateProfit_CNY(t *testing.T) {
	result := CalculateProfit(ProfitParams{
		SoldPrice:             "500",
		SoldPriceCurrency:     "CNY",
		PurchasePrice:         "200",
		PurchasePriceCurrency: "CNY",
		DomesticShipping:      "10",
		InternationalShipping: "40",
	})

	if result.TotalCostCNY != 250 {
		t.Errorf("成本 = %v, want 250", result.TotalCostCNY)
	}
	if result.GrossProfitCNY != 250 {
		t.Errorf("毛利 = %v, want 250", result.GrossProfitCNY)
	}
	if result.NetProfitCNY != result.GrossProfitCNY {
		t.Errorf("净利应等于毛利: %v != %v", result.NetProfitCNY, result.GrossProfitCNY)
	}
	if result.ProfitMarginPercent != 50 {
		t.Errorf("利润率 = %v, want 50", result.ProfitMarginPercent)
	}
	if result.ReturnOnCostPercent != 100 {
		t.Errorf("成本回报率 = %v, want 100", result.ReturnOnCostPercent)
	}
}

func TestCalculateProfit_JPYWithFees(t *testing.T) {
	result := CalculateProfit(ProfitParams{
		SoldPrice:             "10000",
		SoldPriceCurrency:     "JPY",
		SoldPriceExchangeRate: "0.05",
		PurchasePrice:         "200",
		PurchasePriceCurrency: "CNY",
		OtherFees: []model.OtherFee{
			{Type: "包装费", Amount: "5", Currency: "CNY"},
			{Type: "手续费", Amount: "300", Currency: "JPY"},
		},
	})

	// 售价 10000*0.05=500；成本 200+5+300*0.05=220
	if result.SoldPriceCNY != 500 {
		t.Errorf("售价 = %v, want 500", result.SoldPriceCNY)
	}
	if result.TotalCostCNY != 220 {
		t.Errorf("成本 = %v, want 220", result.TotalCostCNY)
	}
	if result.GrossProfitCNY != 280 {
		t.Errorf("毛利 = %v, want 280", result.GrossProfitCNY)
	}
	if result.ProfitMarginPercent != 56 {
		t.Errorf("利润率 = %v, want 56", result.ProfitMarginPercent)
	}
}

func TestCalculateProfit_ZeroGuards(t *testing.T) {
	result := CalculateProfit(ProfitParams{})
	if result.ProfitMarginPercent != 0 || result.ReturnOnCostPercent != 0 {
		t.Errorf("零输入不应出现除零: %+v", result)
	}
}

func TestFormatAmount(t *testing.T) {
	if got := FormatAmount(280); got != "280.00" {
		t.Errorf("FormatAmount = %q, want 280.00", got)
	}
	if got := FormatAmount(56.1); got != "56.10" {
		t.Errorf("FormatAmount = %q, want 56.10", got)
	}
}
