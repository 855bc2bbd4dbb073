package model

import "time"

// ToyBrand 潮玩品牌（层级第一级）
type ToyBrand struct {
	BaseModel

	Name        string `gorm:"size:100;uniqueIndex;not null" json:"name"`
	Description string `gorm:"size:255" json:"description"`
	Logo        string `gorm:"size:512" json:"logo"`
	IsActive    bool   `gorm:"default:true;index" json:"isActive"`

	Series []ToySeries `gorm:"foreignKey:BrandID" json:"series,omitempty"`
}

func (ToyBrand) TableName() string {
	return "toy_brands"
}

// ToySeries 潮玩系列（层级第二级），同一品牌下名称唯一
type ToySeries struct {
	BaseModel

	BrandID int64     `gorm:"index:idx_brand_series,unique;not null" json:"brandId"`
	Brand   *ToyBrand `gorm:"foreignKey:BrandID" json:"brand,omitempty"`

	Name        string     `gorm:"size:100;index:idx_brand_series,unique;not null" json:"name"`
	Description string     `gorm:"size:255" json:"description"`
	Image       string     `gorm:"size:512" json:"image"`
	ReleaseDate *time.Time `json:"releaseDate"`
	IsActive    bool       `gorm:"default:true;index" json:"isActive"`

	Characters []ToyCharacter `gorm:"foreignKey:SeriesID" json:"characters,omitempty"`
}

func (ToySeries) TableName() string {
	return "toy_series"
}

// ToyCharacter 潮玩角色/款式（层级第三级）
type ToyCharacter struct {
	BaseModel

	SeriesID int64      `gorm:"index:idx_series_char,unique;not null" json:"seriesId"`
	Series   *ToySeries `gorm:"foreignKey:SeriesID" json:"series,omitempty"`

	Name        string `gorm:"size:100;index:idx_series_char,unique;not null" json:"name"`
	Description string `gorm:"size:255" json:"description"`
	Image       string `gorm:"size:512" json:"image"`
	IsActive    bool   `gorm:"default:true;index" json:"isActive"`

	Items []Item `gorm:"foreignKey:ToyCharacterID" json:"items,omitempty"`
}

func (ToyCharacter) TableName() string {
	return "toy_characters"
}
