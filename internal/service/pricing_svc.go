package service

import (
	"context"
	"strconv"

	"resale_erp_202601/internal/api/dto"
	"resale_erp_202601/internal/repository"
)

// 平台手续费率
const (
	feeRateMercari   = 0.10 // 煤炉
	feeRateSnkrdunk  = 0.08
	feeRateDefault   = 0.05
	japanShippingJPY = 800 // 日本境内运费
)

// PricingService 定价预测：成本拆解 + 目标利润率反推售价 + 同款历史参考
type PricingService struct {
	txnRepo repository.TransactionRepository
	rateSvc *RateService
}

// NewPricingService 创建定价服务
func NewPricingService(txnRepo repository.TransactionRepository, rateSvc *RateService) *PricingService {
	return &PricingService{txnRepo: txnRepo, rateSvc: rateSvc}
}

func platformFeeRate(platform string) float64 {
	switch platform {
	case "煤炉":
		return feeRateMercari
	case "SNKRDUNK":
		return feeRateSnkrdunk
	default:
		return feeRateDefault
	}
}

// Predict 计算建议售价
// 定价公式：售价 * (1 - 手续费率) = 总成本 + 日本运费 + 目标利润
func (s *PricingService) Predict(ctx context.Context, req *dto.PricePredictionRequest) (*dto.PricePrediction, error) {
	jpyRate := s.rateSvc.JPYToCNY()
	if req.ExchangeRate != "" {
		if r, err := strconv.ParseFloat(req.ExchangeRate, 64); err == nil && r > 0 {
			jpyRate = r
		}
	}

	costCNY := ConvertToCNY(req.PurchasePrice, defaultStr(req.PurchaseCurrency, "CNY"), req.ExchangeRate)
	if req.PurchaseCurrency == "JPY" && req.ExchangeRate == "" {
		costCNY = parseAmount(req.PurchasePrice) * jpyRate
	}
	costCNY += parseAmount(req.DomesticShipping)

	feeRate := platformFeeRate(req.TargetPlatform)
	japanShippingCNY := japanShippingJPY * jpyRate

	profitRate := 0.20
	if r, err := strconv.ParseFloat(req.TargetProfitRate, 64); err == nil && r > 0 {
		profitRate = r / 100
	}

	targetProfit := costCNY * profitRate
	suggestedCNY := (costCNY + japanShippingCNY + targetProfit) / (1 - feeRate)

	prediction := &dto.PricePrediction{
		TotalCostCNY:      round2(costCNY),
		PlatformFeeRate:   feeRate,
		JapanShippingJPY:  japanShippingJPY,
		SuggestedPriceCNY: round2(suggestedCNY),
		SuggestedPriceJPY: round2(suggestedCNY / jpyRate),
		ExpectedProfitCNY: round2(targetProfit),
	}

	if req.ItemNumber != "" {
		similar, err := s.similarSales(ctx, req.ItemNumber)
		if err != nil {
			return nil, err
		}
		prediction.SimilarSales = similar
	}
	return prediction, nil
}

// similarSales 同货号历史售出统计，折算人民币
func (s *PricingService) similarSales(ctx context.Context, itemNumber string) (*dto.SimilarSalesStats, error) {
	txns, err := s.txnRepo.ListSoldByItemNumber(ctx, itemNumber, 10)
	if err != nil {
		return nil, err
	}
	if len(txns) == 0 {
		return &dto.SimilarSalesStats{}, nil
	}

	stats := &dto.SimilarSalesStats{Count: len(txns)}
	var sum float64
	for i, txn := range txns {
		price := ConvertToCNY(strVal(txn.SoldPrice), strVal(txn.SoldPriceCurrency), strVal(txn.SoldPriceExchangeRate))
		sum += price
		if i == 0 || price < stats.MinPrice {
			stats.MinPrice = price
		}
		if price > stats.MaxPrice {
			stats.MaxPrice = price
		}

		soldDate := ""
		if txn.SoldDate != nil {
			soldDate = txn.SoldDate.Format("2006-01-02")
		}
		stats.RecentPrices = append(stats.RecentPrices, struct {
			ItemID    string  `json:"itemId"`
			SoldPrice float64 `json:"soldPrice"`
			SoldDate  string  `json:"soldDate"`
		}{ItemID: txn.ItemID, SoldPrice: round2(price), SoldDate: soldDate})
	}
	stats.AveragePrice = round2(sum / float64(len(txns)))
	stats.MinPrice = round2(stats.MinPrice)
	stats.MaxPrice = round2(stats.MaxPrice)
	return stats, nil
}
