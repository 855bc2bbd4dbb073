package dto

import "resale_erp_202601/internal/model"

// ==================== 商品创建 / 更新 ====================

// ItemSaveRequest 创建或更新商品（含首条交易记录字段）
// 创建时 itemId 可缺省，由服务端生成
type ItemSaveRequest struct {
	ItemID        string   `json:"itemId"`
	ItemName      string   `json:"itemName" binding:"required"`
	ItemType      string   `json:"itemType" binding:"required"`
	ItemBrand     string   `json:"itemBrand" binding:"required"`
	ItemNumber    string   `json:"itemNumber"`
	ItemCondition string   `json:"itemCondition"`
	ItemColor     string   `json:"itemColor"`
	ItemSize      string   `json:"itemSize"`
	ItemMfgDate   string   `json:"itemMfgDate"`
	ItemRemarks   string   `json:"itemRemarks"`
	Photos        []string `json:"photos"`
	Accessories   *string  `json:"accessories"`

	Position            *string `json:"position"`
	WarehousePositionID *int64  `json:"warehousePositionId"`

	ToyCharacterID *int64  `json:"toyCharacterId"`
	ToyVariant     *string `json:"toyVariant"`
	ToyCondition   *string `json:"toyCondition"`

	OrderStatus  string `json:"orderStatus"`
	PurchaseDate string `json:"purchaseDate" binding:"required"`
	LaunchDate   string `json:"launchDate"`
	SoldDate     string `json:"soldDate"`

	PurchasePlatform string   `json:"purchasePlatform"`
	SoldPlatform     *string  `json:"soldPlatform"`
	ListingPlatforms []string `json:"listingPlatforms"`

	PurchasePrice             string  `json:"purchasePrice"`
	PurchasePriceCurrency     string  `json:"purchasePriceCurrency"`
	PurchasePriceExchangeRate string  `json:"purchasePriceExchangeRate"`
	SoldPrice                 *string `json:"soldPrice"`
	SoldPriceCurrency         *string `json:"soldPriceCurrency"`
	SoldPriceExchangeRate     *string `json:"soldPriceExchangeRate"`

	Shipping                    *string `json:"shipping"`
	DomesticShipping            *string `json:"domesticShipping"`
	InternationalShipping       *string `json:"internationalShipping"`
	DomesticTrackingNumber      *string `json:"domesticTrackingNumber"`
	InternationalTrackingNumber *string `json:"internationalTrackingNumber"`

	OtherFees []model.OtherFee `json:"otherFees"`

	IsReturn        bool    `json:"isReturn"`
	StorageDuration *string `json:"storageDuration"`
}

// SKURequest SKU 裸商品（不带交易记录）
type SKURequest struct {
	ItemID        string   `json:"itemId"`
	ItemName      string   `json:"itemName" binding:"required"`
	ItemType      string   `json:"itemType" binding:"required"`
	ItemBrand     string   `json:"itemBrand" binding:"required"`
	ItemNumber    string   `json:"itemNumber"`
	ItemCondition string   `json:"itemCondition"`
	ItemColor     string   `json:"itemColor"`
	ItemSize      string   `json:"itemSize"`
	ItemMfgDate   string   `json:"itemMfgDate"`
	ItemRemarks   string   `json:"itemRemarks"`
	Photos        []string `json:"photos"`
	Accessories   *string  `json:"accessories"`
}

// ==================== 批量操作 ====================

// BatchUpdateStatusRequest 批量改状态
type BatchUpdateStatusRequest struct {
	ItemIDs []string `json:"itemIds" binding:"required"`
	Status  string   `json:"status" binding:"required"`
}

// BatchSettlementRequest 批量结算：已售出未结算 → 已完成
type BatchSettlementRequest struct {
	ItemIDs      []string `json:"itemIds" binding:"required"`
	ExchangeRate string   `json:"exchangeRate" binding:"required"` // 日元结算汇率
}

// BatchResult 批量操作结果
type BatchResult struct {
	UpdatedCount int64    `json:"updatedCount"`
	Errors       []string `json:"errors,omitempty"`
}

// ==================== 统计 ====================

// ItemStats 商品总览统计
type ItemStats struct {
	TotalItems        int64   `json:"totalItems"`
	InStockCount      int64   `json:"inStockCount"`
	SoldCount         int64   `json:"soldCount"`
	TotalCost         float64 `json:"totalCost"`
	TotalRevenue      float64 `json:"totalRevenue"`
	TotalNetProfit    float64 `json:"totalNetProfit"`
	AverageProfitRate float64 `json:"averageProfitRate"`
}

// ==================== 价格预测 ====================

// PricePredictionRequest 价格预测入参
type PricePredictionRequest struct {
	ItemNumber       string `json:"itemNumber"`
	PurchasePrice    string `json:"purchasePrice" binding:"required"`
	PurchaseCurrency string `json:"purchaseCurrency"`
	ExchangeRate     string `json:"exchangeRate"`
	DomesticShipping string `json:"domesticShipping"`
	TargetPlatform   string `json:"targetPlatform"` // 煤炉 | SNKRDUNK | 其他
	TargetProfitRate string `json:"targetProfitRate"`
}

// SimilarSalesStats 同款历史销售统计
type SimilarSalesStats struct {
	Count        int     `json:"count"`
	AveragePrice float64 `json:"averagePrice"`
	MinPrice     float64 `json:"minPrice"`
	MaxPrice     float64 `json:"maxPrice"`
	RecentPrices []struct {
		ItemID    string  `json:"itemId"`
		SoldPrice float64 `json:"soldPrice"`
		SoldDate  string  `json:"soldDate"`
	} `json:"recentPrices"`
}

// PricePrediction 价格预测结果
type PricePrediction struct {
	TotalCostCNY      float64            `json:"totalCostCny"`
	PlatformFeeRate   float64            `json:"platformFeeRate"`
	JapanShippingJPY  float64            `json:"japanShippingJpy"`
	SuggestedPriceCNY float64            `json:"suggestedPriceCny"`
	SuggestedPriceJPY float64            `json:"suggestedPriceJpy"`
	ExpectedProfitCNY float64            `json:"expectedProfitCny"`
	SimilarSales      *SimilarSalesStats `json:"similarSales,omitempty"`
}

// ==================== 分页响应 ====================

// PageResult 分页响应
type PageResult struct {
	List     interface{} `json:"list"`
	Total    int64       `json:"total"`
	Page     int         `json:"page"`
	PageSize int         `json:"pageSize"`
}

// ==================== 货号聚合 ====================

// GroupedSize 同货号下按尺码的数量统计
type GroupedSize struct {
	Size    string `json:"size"`
	Count   int    `json:"count"`
	InStock int    `json:"inStock"`
	Sold    int    `json:"sold"`
}

// GroupedItem 按货号聚合的同款商品
type GroupedItem struct {
	ItemNumber         string        `json:"itemNumber"`
	ItemName           string        `json:"itemName"`
	ItemBrand          string        `json:"itemBrand"`
	ItemType           string        `json:"itemType"`
	TotalItems         int           `json:"totalItems"`
	InStockCount       int           `json:"inStockCount"`
	SoldCount          int           `json:"soldCount"`
	TotalPurchaseValue float64       `json:"totalPurchaseValue"`
	TotalSoldValue     float64       `json:"totalSoldValue"`
	TotalProfit        float64       `json:"totalProfit"`
	AverageProfitRate  float64       `json:"averageProfitRate"`
	Sizes              []GroupedSize `json:"sizes"`
	Photos             []string      `json:"photos"`
	LatestPurchaseDate string        `json:"latestPurchaseDate"`
	OldestPurchaseDate string        `json:"oldestPurchaseDate"`
}

// ==================== 输入联想 ====================

// AutocompleteSuggestion 商品名/货号联想候选
type AutocompleteSuggestion struct {
	Type          string `json:"type"`
	ItemName      string `json:"itemName"`
	ItemNumber    string `json:"itemNumber"`
	ItemBrand     string `json:"itemBrand"`
	ItemType      string `json:"itemType"`
	Count         int    `json:"count"`
	DisplayText   string `json:"displayText"`
	SecondaryText string `json:"secondaryText"`
}

// ==================== 复制 ====================

// CopyItemRequest 复制商品
type CopyItemRequest struct {
	ItemID string `json:"itemId" binding:"required"`
}
