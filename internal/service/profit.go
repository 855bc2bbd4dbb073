package service

import (
	"math"
	"strconv"

	"resale_erp_202601/internal/model"
)

// ==================== 利润计算 ====================

// ProfitParams 利润计算输入，金额保持字符串（与存储格式一致）
type ProfitParams struct {
	SoldPrice                 string
	SoldPriceCurrency         string
	SoldPriceExchangeRate     string
	PurchasePrice             string
	PurchasePriceCurrency     string
	PurchasePriceExchangeRate string
	DomesticShipping          string
	InternationalShipping     string
	OtherFees                 []model.OtherFee
}

// ProfitResult 利润计算结果，全部折算为人民币
type ProfitResult struct {
	GrossProfitCNY      float64 `json:"grossProfitCNY"`
	NetProfitCNY        float64 `json:"netProfitCNY"`
	TotalCostCNY        float64 `json:"totalCostCNY"`
	SoldPriceCNY        float64 `json:"soldPriceCNY"`
	ProfitMarginPercent float64 `json:"profitMarginPercent"` // 利润 / 售价
	ReturnOnCostPercent float64 `json:"returnOnCostPercent"` // 利润 / 成本
}

func parseAmount(s string) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}

// ConvertToCNY 按汇率把金额折算成人民币，人民币原样返回
func ConvertToCNY(amount, currency, exchangeRate string) float64 {
	amt := parseAmount(amount)
	if currency == "" || currency == "CNY" {
		return amt
	}
	rate := parseAmount(exchangeRate)
	if rate == 0 {
		return 0
	}
	return amt * rate
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}

func round1(f float64) float64 {
	return math.Round(f*10) / 10
}

// CalculateProfit 统一的利润计算：售价、购入价、运费、其他费用全部折算人民币
// 净利润目前等于毛利润（不计税费），与历史口径保持一致
func CalculateProfit(p ProfitParams) ProfitResult {
	soldCNY := ConvertToCNY(p.SoldPrice, p.SoldPriceCurrency, p.SoldPriceExchangeRate)
	purchaseCNY := ConvertToCNY(p.PurchasePrice, p.PurchasePriceCurrency, p.PurchasePriceExchangeRate)

	// 运费默认人民币
	shippingCNY := parseAmount(p.DomesticShipping) + parseAmount(p.InternationalShipping)

	// 其他费用：日元按售价汇率折算，其余按人民币处理
	var feesCNY float64
	for _, fee := range p.OtherFees {
		if fee.Currency == "JPY" {
			feesCNY += ConvertToCNY(fee.Amount, "JPY", p.SoldPriceExchangeRate)
		} else {
			feesCNY += parseAmount(fee.Amount)
		}
	}

	totalCost := purchaseCNY + shippingCNY + feesCNY
	gross := soldCNY - totalCost
	net := gross

	var margin, roc float64
	if soldCNY > 0 {
		margin = net / soldCNY * 100
	}
	if totalCost > 0 {
		roc = net / totalCost * 100
	}

	return ProfitResult{
		GrossProfitCNY:      round2(gross),
		NetProfitCNY:        round2(net),
		TotalCostCNY:        round2(totalCost),
		SoldPriceCNY:        round2(soldCNY),
		ProfitMarginPercent: round1(margin),
		ReturnOnCostPercent: round1(roc),
	}
}

// FormatAmount 金额转回存储用的十进制字符串
func FormatAmount(f float64) string {
	return strconv.FormatFloat(f, 'f', 2, 64)
}
