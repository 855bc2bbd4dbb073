package service

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"resale_erp_202601/internal/api/dto"
	"resale_erp_202601/internal/middleware"
	"resale_erp_202601/internal/model"
	"resale_erp_202601/internal/repository"
)

// ErrInvalidCredentials 用户名或密码错误，对外不区分具体原因
var ErrInvalidCredentials = errors.New("用户名或密码错误")

// AuthService 登录与 Token 签发
type AuthService struct {
	userRepo repository.UserRepository
}

// NewAuthService 创建认证服务
func NewAuthService(userRepo repository.UserRepository) *AuthService {
	return &AuthService{userRepo: userRepo}
}

// Login bcrypt 校验后签发 Access/Refresh Token 对
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.userRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	access, refresh, err := middleware.GenerateTokenPair(user.ID, user.Username, user.Role, user.StoreID)
	if err != nil {
		return nil, err
	}

	return &dto.LoginResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		User: dto.UserInfo{
			ID:       user.ID,
			Username: user.Username,
			Name:     user.Name,
			Role:     user.Role,
			StoreID:  user.StoreID,
		},
	}, nil
}

// Refresh 用 Refresh Token 换新的 Token 对
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error) {
	claims, err := middleware.ParseToken(refreshToken)
	if err != nil || claims.Subject != "refresh" {
		return nil, errors.New("Refresh Token 无效或已过期")
	}

	user, err := s.userRepo.GetByUsername(ctx, claims.Username)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	access, refresh, err := middleware.GenerateTokenPair(user.ID, user.Username, user.Role, user.StoreID)
	if err != nil {
		return nil, err
	}

	return &dto.LoginResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		User: dto.UserInfo{
			ID:       user.ID,
			Username: user.Username,
			Name:     user.Name,
			Role:     user.Role,
			StoreID:  user.StoreID,
		},
	}, nil
}

// EnsureAdmin 首次启动没有任何用户时创建默认管理员
func (s *AuthService) EnsureAdmin(ctx context.Context, username, password string) error {
	count, err := s.userRepo.CountAll(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	return s.userRepo.Create(ctx, &model.SysUser{
		Username: username,
		Password: string(hash),
		Name:     "管理员",
		Role:     model.RoleAdmin,
		IsActive: true,
	})
}
