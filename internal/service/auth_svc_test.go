package service

import (
	"context"
	"testing"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"resale_erp_202601/internal/api/dto"
	"resale_erp_202601/internal/middleware"
	"resale_erp_202601/internal/model"
	"resale_erp_202601/internal/repository"
)

func newAuthService(db *gorm.DB) *AuthService {
	return NewAuthService(repository.NewUserRepository(db))
}

func TestAuthService_EnsureAdmin(t *testing.T) {
	db := setupTestDB(t)
	svc := newAuthService(db)
	ctx := context.Background()

	if err := svc.EnsureAdmin(ctx, "admin", "admin123"); err != nil {
		t.Fatalf("初始化管理员失败: %v", err)
	}

	var user model.SysUser
	if err := db.Where("username = ?", "admin").First(&user).Error; err != nil {
		t.Fatalf("管理员未创建: %v", err)
	}
	if user.Role != model.RoleAdmin {
		t.Errorf("角色 = %s, want ADMIN", user.Role)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("admin123")); err != nil {
		t.Error("密码应为 bcrypt 哈希")
	}

	// 已有用户时不再重复创建
	if err := svc.EnsureAdmin(ctx, "admin2", "other"); err != nil {
		t.Fatalf("二次调用失败: %v", err)
	}
	var count int64
	db.Model(&model.SysUser{}).Count(&count)
	if count != 1 {
		t.Errorf("用户数 = %d, want 1", count)
	}
}

func TestAuthService_Login(t *testing.T) {
	db := setupTestDB(t)
	svc := newAuthService(db)
	ctx := context.Background()

	if err := svc.EnsureAdmin(ctx, "admin", "admin123"); err != nil {
		t.Fatalf("初始化管理员失败: %v", err)
	}

	resp, err := svc.Login(ctx, &dto.LoginRequest{Username: "admin", Password: "admin123"})
	if err != nil {
		t.Fatalf("登录失败: %v", err)
	}
	if resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Error("应签发 Token 对")
	}
	if resp.User.Username != "admin" || resp.User.Role != model.RoleAdmin {
		t.Errorf("用户信息 = %+v", resp.User)
	}

	claims, err := middleware.ParseToken(resp.AccessToken)
	if err != nil {
		t.Fatalf("Access Token 解析失败: %v", err)
	}
	if claims.Subject != "access" || claims.Username != "admin" {
		t.Errorf("claims = %+v", claims)
	}
}

func TestAuthService_Login_Rejections(t *testing.T) {
	db := setupTestDB(t)
	svc := newAuthService(db)
	ctx := context.Background()

	svc.EnsureAdmin(ctx, "admin", "admin123")

	// 用户不存在和密码错误对外是同一个错误
	if _, err := svc.Login(ctx, &dto.LoginRequest{Username: "ghost", Password: "x"}); err != ErrInvalidCredentials {
		t.Errorf("err = %v, want ErrInvalidCredentials", err)
	}
	if _, err := svc.Login(ctx, &dto.LoginRequest{Username: "admin", Password: "wrong"}); err != ErrInvalidCredentials {
		t.Errorf("err = %v, want ErrInvalidCredentials", err)
	}
}

func TestAuthService_Refresh(t *testing.T) {
	db := setupTestDB(t)
	svc := newAuthService(db)
	ctx := context.Background()

	svc.EnsureAdmin(ctx, "admin", "admin123")
	resp, err := svc.Login(ctx, &dto.LoginRequest{Username: "admin", Password: "admin123"})
	if err != nil {
		t.Fatalf("登录失败: %v", err)
	}

	refreshed, err := svc.Refresh(ctx, resp.RefreshToken)
	if err != nil {
		t.Fatalf("刷新失败: %v", err)
	}
	if refreshed.AccessToken == "" {
		t.Error("刷新应签发新 Token 对")
	}

	// Access Token 不能当 Refresh Token 用
	if _, err := svc.Refresh(ctx, resp.AccessToken); err == nil {
		t.Error("Access Token 刷新应被拒绝")
	}
	if _, err := svc.Refresh(ctx, "not-a-token"); err == nil {
		t.Error("乱码 Token 应被拒绝")
	}
}
