package dto

// LoginRequest 登录
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse 登录成功返回 Token 对和用户信息
type LoginResponse struct {
	AccessToken  string   `json:"accessToken"`
	RefreshToken string   `json:"refreshToken"`
	User         UserInfo `json:"user"`
}

// UserInfo 脱敏的用户信息
type UserInfo struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	StoreID  int64  `json:"storeId"`
}

// RefreshRequest 刷新 Token
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}
