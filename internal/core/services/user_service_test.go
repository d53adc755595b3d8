package services

import (
	"context"
	"errors"
	"testing"

	"nfc-cooperative/internal/config"
	"nfc-cooperative/internal/core/domain"
	"nfc-cooperative/internal/pkg/pagination"
)

func testConfig() *config.Config {
	return &config.Config{
		AppMode: "dev",
		JWT: config.JWTConfig{
			Secret:           "test-secret",
			RefreshSecret:    "test-refresh-secret",
			AccessTokenMins:  15,
			RefreshTokenDays: 7,
		},
	}
}

func TestUserCreateAppliesRolePermissions(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	svc := NewUserService(store)

	user, err := svc.CreateUser(ctx, testActor, &CreateUserInput{
		Username: "teller1",
		Password: "teller1234",
		FullName: "Front Desk",
		Role:     string(domain.RoleOperator),
	})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if !user.CanOperate || user.CanEdit || user.CanMaintain || user.CanViewReports {
		t.Errorf("operator permissions = %+v", user)
	}

	tests := []struct {
		name  string
		input CreateUserInput
		want  error
	}{
		{"duplicate", CreateUserInput{Username: "teller1", Password: "teller1234", Role: "Operator"}, ErrUsernameAlreadyExists},
		{"short username", CreateUserInput{Username: "ab", Password: "teller1234", Role: "Operator"}, ErrInvalidUsername},
		{"weak password", CreateUserInput{Username: "teller2", Password: "password", Role: "Operator"}, ErrWeakPassword},
		{"unknown role", CreateUserInput{Username: "teller2", Password: "teller1234", Role: "Clerk"}, domain.ErrInvalidRole},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := tt.input
			if _, err := svc.CreateUser(ctx, testActor, &input); !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}

	users, total, err := svc.ListUsers(ctx, &pagination.Params{Page: 1, Limit: 20})
	if err != nil {
		t.Fatalf("ListUsers: %v", err)
	}
	if total != 2 || len(users) != 2 {
		t.Errorf("users = %d of %d, want 2 of 2", len(users), total)
	}
}

func TestUserLastAdminGuard(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	svc := NewUserService(store)

	admin, err := store.Users.GetByUsername(ctx, "admin")
	if err != nil {
		t.Fatalf("seeded admin: %v", err)
	}
	manager, err := svc.CreateUser(ctx, testActor, &CreateUserInput{Username: "manager", Password: "manager123", Role: "Manager"})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	managerActor := Actor{UserID: manager.ID, Username: manager.Username}

	operator := string(domain.RoleOperator)
	if _, err := svc.UpdateUser(ctx, managerActor, admin.ID, &UpdateUserInput{Role: &operator}); !errors.Is(err, ErrLastAdmin) {
		t.Errorf("demote last admin: got %v, want ErrLastAdmin", err)
	}
	if err := svc.DeactivateUser(ctx, managerActor, admin.ID); !errors.Is(err, ErrLastAdmin) {
		t.Errorf("deactivate last admin: got %v, want ErrLastAdmin", err)
	}

	adminActor := Actor{UserID: admin.ID, Username: admin.Username}
	if err := svc.DeactivateUser(ctx, adminActor, admin.ID); !errors.Is(err, ErrCannotDeactivateSelf) {
		t.Errorf("deactivate self: got %v", err)
	}

	adminRole := string(domain.RoleAdmin)
	promoted, err := svc.UpdateUser(ctx, adminActor, manager.ID, &UpdateUserInput{Role: &adminRole})
	if err != nil {
		t.Fatalf("promote manager: %v", err)
	}
	if !promoted.CanMaintain {
		t.Error("promoted user lacks maintain permission")
	}

	// With a second admin the first may be demoted
	if _, err := svc.UpdateUser(ctx, Actor{UserID: manager.ID, Username: "manager"}, admin.ID, &UpdateUserInput{Role: &operator}); err != nil {
		t.Errorf("demote with second admin: %v", err)
	}
}

func TestAuthLoginRefreshLogout(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	auth := NewAuthService(store, testConfig())

	if _, err := auth.Login(ctx, &LoginInput{Username: "admin", Password: "wrong-pass1"}, "127.0.0.1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password: got %v", err)
	}
	if _, err := auth.Login(ctx, &LoginInput{Username: "ghost", Password: "admin123456"}, "127.0.0.1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown user: got %v", err)
	}

	res, err := auth.Login(ctx, &LoginInput{Username: "admin", Password: "admin123456"}, "127.0.0.1")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if res.AccessToken == "" || res.RefreshToken == "" {
		t.Fatal("missing tokens")
	}

	claims, err := auth.ValidateAccessToken(res.AccessToken)
	if err != nil {
		t.Fatalf("ValidateAccessToken: %v", err)
	}
	if domain.Permission(claims.Permissions) != domain.RoleAdmin.Permissions() {
		t.Errorf("permissions claim = %d", claims.Permissions)
	}

	rotated, err := auth.RefreshToken(ctx, res.RefreshToken)
	if err != nil {
		t.Fatalf("RefreshToken: %v", err)
	}
	if _, err := auth.RefreshToken(ctx, res.RefreshToken); !errors.Is(err, ErrTokenRevoked) {
		t.Errorf("reuse of rotated token: got %v, want ErrTokenRevoked", err)
	}
	// reuse ends the whole session family, including the newest token
	if _, err := auth.RefreshToken(ctx, rotated.RefreshToken); !errors.Is(err, ErrTokenRevoked) {
		t.Errorf("refresh after reuse: got %v, want ErrTokenRevoked", err)
	}

	again, err := auth.Login(ctx, &LoginInput{Username: "admin", Password: "admin123456"}, "127.0.0.1")
	if err != nil {
		t.Fatalf("second Login: %v", err)
	}
	actor := Actor{UserID: again.User.ID, Username: again.User.Username}
	if err := auth.Logout(ctx, actor, again.RefreshToken); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if _, err := auth.RefreshToken(ctx, again.RefreshToken); !errors.Is(err, ErrTokenRevoked) {
		t.Errorf("refresh after logout: got %v", err)
	}
	if _, err := auth.RefreshToken(ctx, "not-a-token"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("garbage token: got %v", err)
	}
}

func TestChangePasswordRevokesSessions(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	auth := NewAuthService(store, testConfig())
	users := NewUserService(store)

	res, err := auth.Login(ctx, &LoginInput{Username: "admin", Password: "admin123456"}, "")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	actor := Actor{UserID: res.User.ID, Username: "admin"}

	if err := users.ChangePassword(ctx, actor, &ChangePasswordInput{OldPassword: "nope", NewPassword: "newpass123"}); !errors.Is(err, ErrOldPasswordWrong) {
		t.Errorf("wrong old password: got %v", err)
	}
	if err := users.ChangePassword(ctx, actor, &ChangePasswordInput{OldPassword: "admin123456", NewPassword: "short"}); !errors.Is(err, ErrWeakPassword) {
		t.Errorf("weak password: got %v", err)
	}
	if err := users.ChangePassword(ctx, actor, &ChangePasswordInput{OldPassword: "admin123456", NewPassword: "newpass123"}); err != nil {
		t.Fatalf("ChangePassword: %v", err)
	}

	if _, err := auth.RefreshToken(ctx, res.RefreshToken); !errors.Is(err, ErrTokenRevoked) {
		t.Errorf("old session refresh: got %v, want ErrTokenRevoked", err)
	}
	if _, err := auth.Login(ctx, &LoginInput{Username: "admin", Password: "newpass123"}, ""); err != nil {
		t.Errorf("login with new password: %v", err)
	}
}
