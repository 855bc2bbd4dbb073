package model

// Warehouse 仓库
type Warehouse struct {
	BaseModel

	Name        string `gorm:"size:100;uniqueIndex;not null" json:"name"`
	Description string `gorm:"size:255" json:"description"`

	Positions []WarehousePosition `gorm:"foreignKey:WarehouseID" json:"positions,omitempty"`
}

func (Warehouse) TableName() string {
	return "warehouses"
}

// DefaultPositionCapacity 导入时未提供容量（或容量不可解析）的默认仓位容量
const DefaultPositionCapacity = 30

// WarehousePosition 仓位
// used <= capacity 的约束通过条件自增（used = used + 1 WHERE used < capacity）
// 在写入侧强制，见 WarehouseRepository.OccupyPosition
type WarehousePosition struct {
	BaseModel

	WarehouseID int64      `gorm:"index:idx_wh_pos,unique;not null" json:"warehouseId"`
	Warehouse   *Warehouse `gorm:"foreignKey:WarehouseID" json:"warehouse,omitempty"`

	Name     string `gorm:"size:100;index:idx_wh_pos,unique;not null" json:"name"`
	Capacity int    `gorm:"not null" json:"capacity"`
	Used     int    `gorm:"default:0" json:"used"`

	Items []Item `gorm:"foreignKey:WarehousePositionID" json:"items,omitempty"`
}

func (WarehousePosition) TableName() string {
	return "warehouse_positions"
}
