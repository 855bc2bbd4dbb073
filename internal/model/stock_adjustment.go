package model

// 库存调整类型
const (
	AdjustmentSet      = "set"
	AdjustmentAdd      = "add"
	AdjustmentSubtract = "subtract"
)

// StockAdjustment 一次手动库存调整的审计记录
type StockAdjustment struct {
	BaseModel

	ItemID         string `gorm:"size:50;index;not null" json:"itemId"`
	AdjustmentType string `gorm:"size:20;not null" json:"adjustmentType"`
	Quantity       int    `gorm:"not null" json:"quantity"`
	PreviousStock  int    `json:"previousStock"`
	NewStock       int    `json:"newStock"`
	Reason         string `gorm:"size:255" json:"reason"`
	Remarks        string `gorm:"type:text" json:"remarks"`
}

func (StockAdjustment) TableName() string {
	return "stock_adjustments"
}
