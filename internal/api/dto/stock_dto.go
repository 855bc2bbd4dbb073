package dto

// StockAdjustRequest 手动库存调整
type StockAdjustRequest struct {
	ItemID         string `json:"itemId" binding:"required"`
	AdjustmentType string `json:"adjustmentType" binding:"required"` // set | add | subtract
	Quantity       int    `json:"quantity" binding:"required"`
	Reason         string `json:"reason"`
	Remarks        string `json:"remarks"`
}
