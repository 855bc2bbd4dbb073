package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func protectedRouter() *gin.Engine {
	r := gin.New()
	r.GET("/protected", JWTAuth(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"code":     0,
			"user_id":  GetUserID(c),
			"username": GetUsername(c),
			"role":     GetUserRole(c),
		})
	})
	r.GET("/admin", JWTAuth(), RequireRole("ADMIN"), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"code": 0})
	})
	return r
}

func doGet(r http.Handler, path, authHeader string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(http.MethodGet, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestGenerateAndParseToken(t *testing.T) {
	access, refresh, err := GenerateTokenPair(1, "admin", "ADMIN", 10)
	if err != nil {
		t.Fatalf("生成 Token 对失败: %v", err)
	}

	claims, err := ParseToken(access)
	if err != nil {
		t.Fatalf("解析失败: %v", err)
	}
	if claims.UserID != 1 || claims.Username != "admin" || claims.Role != "ADMIN" || claims.StoreID != 10 {
		t.Errorf("claims = %+v", claims)
	}
	if claims.Subject != "access" || claims.Issuer != "resale-erp" {
		t.Errorf("注册声明 = %+v", claims.RegisteredClaims)
	}

	refreshClaims, err := ParseToken(refresh)
	if err != nil {
		t.Fatalf("解析 Refresh Token 失败: %v", err)
	}
	if refreshClaims.Subject != "refresh" {
		t.Errorf("subject = %s, want refresh", refreshClaims.Subject)
	}
}

func TestParseToken_Expired(t *testing.T) {
	old := GetJWTConfig()
	SetJWTConfig(&JWTConfig{
		SecretKey:       old.SecretKey,
		AccessTokenTTL:  -time.Minute,
		RefreshTokenTTL: old.RefreshTokenTTL,
		Issuer:          old.Issuer,
	})
	defer SetJWTConfig(old)

	token, err := GenerateAccessToken(1, "admin", "ADMIN", 0)
	if err != nil {
		t.Fatalf("生成失败: %v", err)
	}
	if _, err := ParseToken(token); err == nil {
		t.Error("过期 Token 应解析失败")
	}
}

func TestJWTAuth(t *testing.T) {
	r := protectedRouter()
	access, _, err := GenerateTokenPair(1, "admin", "ADMIN", 0)
	if err != nil {
		t.Fatalf("生成失败: %v", err)
	}

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{"无认证头", "", http.StatusUnauthorized},
		{"格式错误", "Token abc", http.StatusUnauthorized},
		{"乱码 Token", "Bearer not-a-token", http.StatusUnauthorized},
		{"正常访问", "Bearer " + access, http.StatusOK},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := doGet(r, "/protected", tc.header)
			if w.Code != tc.wantStatus {
				t.Errorf("status = %d, want %d, body = %s", w.Code, tc.wantStatus, w.Body.String())
			}
		})
	}
}

func TestJWTAuth_RefreshTokenRejected(t *testing.T) {
	r := protectedRouter()
	_, refresh, err := GenerateTokenPair(1, "admin", "ADMIN", 0)
	if err != nil {
		t.Fatalf("生成失败: %v", err)
	}

	// Refresh Token 不能访问业务接口
	w := doGet(r, "/protected", "Bearer "+refresh)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestRequireRole(t *testing.T) {
	r := protectedRouter()

	adminToken, _, _ := GenerateTokenPair(1, "admin", "ADMIN", 0)
	userToken, _, _ := GenerateTokenPair(2, "zhang", "USER", 0)

	if w := doGet(r, "/admin", "Bearer "+adminToken); w.Code != http.StatusOK {
		t.Errorf("管理员访问 status = %d, want 200", w.Code)
	}
	if w := doGet(r, "/admin", "Bearer "+userToken); w.Code != http.StatusForbidden {
		t.Errorf("普通用户访问 status = %d, want 403", w.Code)
	}
}
