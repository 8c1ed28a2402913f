package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/AlineIradukunda/dusangire-backend/config"
	"github.com/AlineIradukunda/dusangire-backend/internal/dto"
	"github.com/AlineIradukunda/dusangire-backend/internal/model"
	"github.com/AlineIradukunda/dusangire-backend/pkg/jwt"
)

func newTestAuthService(t *testing.T) (AuthService, *mockUserRepo, *jwt.Manager) {
	t.Helper()

	repo, _, _, _, _, users := newMockRepository()
	cfg := &config.Config{Auth: config.AuthConfig{
		JWTSecret:       "test-secret-at-least-16-chars",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 7 * 24 * time.Hour,
	}}
	jwtMgr := jwt.NewManager(&cfg.Auth)
	return NewAuthService(cfg, repo, jwtMgr, nil, zap.NewNop()), users, jwtMgr
}

func seedUser(t *testing.T, users *mockUserRepo, username, password string, superuser, staff bool) *model.AdminUser {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	user := &model.AdminUser{
		UserID:       "user-" + username,
		Username:     username,
		PasswordHash: string(hash),
		IsSuperuser:  superuser,
		IsStaff:      staff,
	}
	users.add(user)
	return user
}

func TestLoginResolvesRoleFromFlags(t *testing.T) {
	svc, users, jwtMgr := newTestAuthService(t)
	ctx := context.Background()

	cases := []struct {
		username         string
		superuser, staff bool
		wantRole         string
	}{
		{"root", true, true, jwt.RoleSuperuser},
		{"staffer", false, true, jwt.RoleAdmin},
		{"viewer", false, false, jwt.RoleUser},
	}
	for _, tc := range cases {
		seedUser(t, users, tc.username, "secret123", tc.superuser, tc.staff)

		tokens, err := svc.Login(ctx, &dto.LoginRequest{Username: tc.username, Password: "secret123"})
		if err != nil {
			t.Fatalf("%s: Login: %v", tc.username, err)
		}
		if tokens.User.Role != tc.wantRole {
			t.Errorf("%s: role = %q, want %q", tc.username, tokens.User.Role, tc.wantRole)
		}

		// The role travels in the token claims.
		claims, err := jwtMgr.ParseToken(tokens.AccessToken)
		if err != nil {
			t.Fatalf("%s: parse access token: %v", tc.username, err)
		}
		if claims.Role != tc.wantRole {
			t.Errorf("%s: claim role = %q, want %q", tc.username, claims.Role, tc.wantRole)
		}
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, users, _ := newTestAuthService(t)
	ctx := context.Background()

	seedUser(t, users, "alice", "correct-horse", false, true)

	if _, err := svc.Login(ctx, &dto.LoginRequest{Username: "alice", Password: "wrong"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password: err = %v, want ErrInvalidCredentials", err)
	}
	if _, err := svc.Login(ctx, &dto.LoginRequest{Username: "nobody", Password: "whatever"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown user: err = %v, want ErrInvalidCredentials", err)
	}
}

func TestRefreshPicksUpRoleChange(t *testing.T) {
	svc, users, _ := newTestAuthService(t)
	ctx := context.Background()

	user := seedUser(t, users, "alice", "secret123", false, true)

	tokens, err := svc.Login(ctx, &dto.LoginRequest{Username: "alice", Password: "secret123"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	// Promote the account; the next refresh must carry the new role.
	user.IsSuperuser = true

	refreshed, err := svc.Refresh(ctx, tokens.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if refreshed.User.Role != jwt.RoleSuperuser {
		t.Errorf("role after refresh = %q, want superuser", refreshed.User.Role)
	}
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	svc, users, _ := newTestAuthService(t)
	ctx := context.Background()

	seedUser(t, users, "alice", "secret123", false, true)

	tokens, err := svc.Login(ctx, &dto.LoginRequest{Username: "alice", Password: "secret123"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	if _, err := svc.Refresh(ctx, tokens.AccessToken); !errors.Is(err, ErrInvalidTokenType) {
		t.Errorf("err = %v, want ErrInvalidTokenType", err)
	}
}

func TestLogoutWithoutRedisIsNoOp(t *testing.T) {
	svc, _, _ := newTestAuthService(t)

	if err := svc.Logout(context.Background(), "some-jti", time.Now().Add(time.Hour)); err != nil {
		t.Errorf("Logout: %v", err)
	}
}

func TestGetCurrentUser(t *testing.T) {
	svc, users, _ := newTestAuthService(t)
	ctx := context.Background()

	seedUser(t, users, "alice", "secret123", true, false)

	user, err := svc.GetCurrentUser(ctx, "user-alice")
	if err != nil {
		t.Fatalf("GetCurrentUser: %v", err)
	}
	if user.Username != "alice" || user.Role != jwt.RoleSuperuser {
		t.Errorf("user = %+v, want alice as superuser", user)
	}

	if _, err := svc.GetCurrentUser(ctx, "missing"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("err = %v, want ErrUserNotFound", err)
	}
}
