package dto

import "resale_erp_202601/internal/model"

// TransactionCreateRequest 给已有商品追加一条购入/售出记录
type TransactionCreateRequest struct {
	ItemID string `json:"itemId" binding:"required"`
	Type   string `json:"type" binding:"required"` // purchase | sale

	OrderStatus  string `json:"orderStatus"`
	PurchaseDate string `json:"purchaseDate"`
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

	DomesticShipping            *string `json:"domesticShipping"`
	InternationalShipping       *string `json:"internationalShipping"`
	DomesticTrackingNumber      *string `json:"domesticTrackingNumber"`
	InternationalTrackingNumber *string `json:"internationalTrackingNumber"`

	OtherFees []model.OtherFee `json:"otherFees"`

	IsReturn  bool    `json:"isReturn"`
	ReturnFee *string `json:"returnFee"`
}
