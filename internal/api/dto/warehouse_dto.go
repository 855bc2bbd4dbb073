package dto

// WarehouseRequest 仓库创建/更新
type WarehouseRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// PositionRequest 仓位创建/更新
type PositionRequest struct {
	WarehouseID int64  `json:"warehouseId" binding:"required"`
	Name        string `json:"name" binding:"required"`
	Capacity    int    `json:"capacity"`
}

// PositionUsageRequest 仓位占用手动加减
type PositionUsageRequest struct {
	Action string `json:"action" binding:"required"` // add | remove
	Count  int    `json:"count"`
}
