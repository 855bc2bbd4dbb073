package model

import (
	"time"

	"gorm.io/gorm"
)

// BaseModel 所有表共用的主键和时间戳字段，软删除统一走 DeletedAt
type BaseModel struct {
	ID        int64          `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
