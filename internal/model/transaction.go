package model

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/datatypes"
)

// 订单状态词汇表（自由文本字段，但取值来自这里）
const (
	StatusInTransitDomestic = "在途（国内）"
	StatusInTransitJapan    = "在途（日本）"
	StatusNotListed         = "未上架"
	StatusListed            = "已上架"
	StatusInTransaction     = "交易中"
	StatusSoldUnsettled     = "已售出未结算"
	StatusReturning         = "退货中"
	StatusCompleted         = "已完成"
)

// OutStatuses 出库状态：商品处于这些状态时不占用仓位
var OutStatuses = []string{StatusCompleted, StatusSoldUnsettled, StatusInTransaction}

// IsOutStatus 判断状态是否为出库状态
func IsOutStatus(status string) bool {
	for _, s := range OutStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// OtherFee 一笔附加费用，序列化进 Transaction.OtherFees (jsonb)
type OtherFee struct {
	Type        string `json:"type"`
	Amount      string `json:"amount"`
	Currency    string `json:"currency"`
	Description string `json:"description"`
}

// Transaction 一条购入/售出记录，通过 ItemID（外部编号）挂在商品上
// 金额字段保留十进制字符串存储，避免浮点误差在存储层放大
type Transaction struct {
	BaseModel

	ItemID string `gorm:"size:50;index;not null" json:"itemId"`

	// --- 状态 ---
	OrderStatus string `gorm:"size:50;index" json:"orderStatus"`

	// --- 生命周期时间 ---
	PurchaseDate time.Time  `gorm:"index" json:"purchaseDate"`
	LaunchDate   *time.Time `json:"launchDate"`
	SoldDate     *time.Time `gorm:"index" json:"soldDate"`

	// --- 平台 ---
	PurchasePlatform string         `gorm:"size:100" json:"purchasePlatform"`
	SoldPlatform     *string        `gorm:"size:100" json:"soldPlatform"`
	ListingPlatforms pq.StringArray `gorm:"type:text[]" json:"listingPlatforms"`

	// --- 购入价 ---
	PurchasePrice             string `gorm:"size:50;default:'0'" json:"purchasePrice"`
	PurchasePriceCurrency     string `gorm:"size:10;default:'CNY'" json:"purchasePriceCurrency"`
	PurchasePriceExchangeRate string `gorm:"size:50;default:'1'" json:"purchasePriceExchangeRate"`

	// --- 售价 ---
	SoldPrice             *string `gorm:"size:50" json:"soldPrice"`
	SoldPriceCurrency     *string `gorm:"size:10" json:"soldPriceCurrency"`
	SoldPriceExchangeRate *string `gorm:"size:50" json:"soldPriceExchangeRate"`

	// --- 运费与单号 ---
	Shipping                    *string `gorm:"size:50" json:"shipping"`
	DomesticShipping            *string `gorm:"size:50" json:"domesticShipping"`
	InternationalShipping       *string `gorm:"size:50" json:"internationalShipping"`
	DomesticTrackingNumber      *string `gorm:"size:100" json:"domesticTrackingNumber"`
	InternationalTrackingNumber *string `gorm:"size:100" json:"internationalTrackingNumber"`

	// --- 其他费用 (jsonb: []OtherFee) ---
	OtherFees datatypes.JSON `gorm:"type:jsonb" json:"otherFees"`

	// --- 利润（写入时计算后落库，读取不再推导） ---
	ItemGrossProfit *string `gorm:"size:50" json:"itemGrossProfit"`
	ItemNetProfit   *string `gorm:"size:50" json:"itemNetProfit"`

	// --- 退货 ---
	IsReturn  bool    `gorm:"default:false" json:"isReturn"`
	ReturnFee *string `gorm:"size:50" json:"returnFee"`

	// --- 在库时长（天，自由文本沿用历史数据） ---
	StorageDuration *string `gorm:"size:50" json:"storageDuration"`
}

func (Transaction) TableName() string {
	return "transactions"
}
