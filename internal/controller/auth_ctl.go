package controller

import (
	"errors"

	"github.com/gin-gonic/gin"

	"resale_erp_202601/internal/api/dto"
	"resale_erp_202601/internal/service"
)

type AuthController struct {
	authService *service.AuthService
}

func NewAuthController(authService *service.AuthService) *AuthController {
	return &AuthController{authService: authService}
}

// Login 登录
// @Summary 用户名密码登录，返回 Token 对
// @Tags Auth
// @Param body body dto.LoginRequest true "登录信息"
// @Success 200 {object} dto.LoginResponse
// @Router /api/auth/login [post]
func (ctrl *AuthController) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"code": 400, "message": "参数错误: " + err.Error()})
		return
	}

	resp, err := ctrl.authService.Login(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(401, gin.H{"code": 401, "message": err.Error()})
			return
		}
		c.JSON(500, gin.H{"code": 500, "message": "登录失败: " + err.Error()})
		return
	}
	c.JSON(200, gin.H{"code": 0, "message": "success", "data": resp})
}

// Refresh 刷新 Token
// @Summary 用 Refresh Token 换新 Token 对
// @Tags Auth
// @Param body body dto.RefreshRequest true "刷新信息"
// @Success 200 {object} dto.LoginResponse
// @Router /api/auth/refresh [post]
func (ctrl *AuthController) Refresh(c *gin.Context) {
	var req dto.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"code": 400, "message": "参数错误: " + err.Error()})
		return
	}

	resp, err := ctrl.authService.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		c.JSON(401, gin.H{"code": 401, "message": err.Error()})
		return
	}
	c.JSON(200, gin.H{"code": 0, "message": "success", "data": resp})
}

// Logout 登出
// @Summary 登出（无状态 Token，前端丢弃即可）
// @Tags Auth
// @Success 200 {object} gin.H
// @Router /api/auth/logout [post]
func (ctrl *AuthController) Logout(c *gin.Context) {
	c.JSON(200, gin.H{"code": 0, "message": "success"})
}
