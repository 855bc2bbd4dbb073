package model

// 用户角色
const (
	RoleAdmin  = "ADMIN"
	RoleUser   = "USER"
	RoleViewer = "VIEWER"
)

// Store 店铺，所有业务数据按店铺归属
type Store struct {
	BaseModel

	Name        string `gorm:"size:50;uniqueIndex;not null" json:"name"`
	DisplayName string `gorm:"size:100" json:"displayName"`
	Description string `gorm:"size:255" json:"description"`
	IsActive    bool   `gorm:"default:true" json:"isActive"`

	Users []SysUser `gorm:"foreignKey:StoreID" json:"users,omitempty"`
}

func (Store) TableName() string {
	return "stores"
}

// SysUser 系统用户，密码为 bcrypt 哈希
type SysUser struct {
	BaseModel

	Username string `gorm:"size:50;uniqueIndex;not null" json:"username"`
	Password string `gorm:"size:100;not null" json:"-"`
	Email    string `gorm:"size:100" json:"email"`
	Name     string `gorm:"size:100" json:"name"`
	Role     string `gorm:"size:20;default:'USER'" json:"role"`
	IsActive bool   `gorm:"default:true" json:"isActive"`

	StoreID int64  `gorm:"index" json:"storeId"`
	Store   *Store `gorm:"foreignKey:StoreID" json:"store,omitempty"`
}

func (SysUser) TableName() string {
	return "sys_users"
}
