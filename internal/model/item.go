package model

import (
	"github.com/lib/pq"
)

// Item 一件转卖库存商品
// ItemID 是用户/导入提供的外部编号（如 "AB123456"），全局唯一
type Item struct {
	BaseModel

	// --- 核心身份 ---
	ItemID   string `gorm:"size:50;uniqueIndex;not null" json:"itemId"`
	ItemName string `gorm:"size:255;index" json:"itemName"`

	// --- 分类与属性 ---
	ItemType      string `gorm:"size:50;index" json:"itemType"`
	ItemBrand     string `gorm:"size:100;index" json:"itemBrand"`
	ItemNumber    string `gorm:"size:100;index" json:"itemNumber"` // 货号，用于同款分组（SKU 分组）
	ItemCondition string `gorm:"size:50" json:"itemCondition"`
	ItemColor     string `gorm:"size:50" json:"itemColor"`
	ItemSize      string `gorm:"size:50;index" json:"itemSize"`
	ItemMfgDate   string `gorm:"size:50" json:"itemMfgDate"` // 自由文本，如 "2023年" / "未知"
	ItemRemarks   string `gorm:"type:text" json:"itemRemarks"`

	// --- 图片 (Postgres Array) ---
	Photos pq.StringArray `gorm:"type:text[]" json:"photos"`

	// --- 存放位置 ---
	Position            *string            `gorm:"size:255" json:"position"` // 自由文本位置描述
	WarehousePositionID *int64             `gorm:"index" json:"warehousePositionId"`
	WarehousePosition   *WarehousePosition `gorm:"foreignKey:WarehousePositionID" json:"warehousePosition,omitempty"`

	// --- 配件 ---
	Accessories *string `gorm:"type:text" json:"accessories"`

	// --- 潮玩类商品的角色归属 ---
	ToyCharacterID *int64        `gorm:"index" json:"toyCharacterId"`
	ToyCharacter   *ToyCharacter `gorm:"foreignKey:ToyCharacterID" json:"toyCharacter,omitempty"`
	ToyVariant     *string       `gorm:"size:100" json:"toyVariant"`
	ToyCondition   *string       `gorm:"size:50" json:"toyCondition"`

	// --- 关联关系 ---
	Transactions []Transaction `gorm:"foreignKey:ItemID;references:ItemID" json:"transactions,omitempty"`
}

func (Item) TableName() string {
	return "items"
}

// ItemTypeToy 潮玩分类标签，三级品牌/系列/角色层级只对该分类生效
const ItemTypeToy = "潮玩类"
