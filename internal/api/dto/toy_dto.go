package dto

// ToyBrandRequest 潮玩品牌
type ToyBrandRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Logo        string `json:"logo"`
}

// ToySeriesRequest 潮玩系列，挂在品牌下
type ToySeriesRequest struct {
	BrandID     int64  `json:"brandId" binding:"required"`
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Image       string `json:"image"`
	ReleaseDate string `json:"releaseDate"`
}

// ToyCharacterRequest 潮玩角色，挂在系列下
type ToyCharacterRequest struct {
	SeriesID    int64  `json:"seriesId" binding:"required"`
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Image       string `json:"image"`
}

// ToyHierarchyNode 层级树节点，itemCount 只统计潮玩类商品
type ToyHierarchyNode struct {
	ID        int64              `json:"id"`
	Name      string             `json:"name"`
	Image     string             `json:"image,omitempty"`
	ItemCount int                `json:"itemCount"`
	Children  []ToyHierarchyNode `json:"children,omitempty"`
}
