package usecase

import (
	"context"
	"testing"

	"cinema-tickets/internal/dto/request"
	"cinema-tickets/pkg/utils"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

func TestLoginIssuesTokenWithRoles(t *testing.T) {
	svc := newTestService(newFakeStore())
	ctx := context.Background()

	alice := register(t, svc, "alice_login", "password1")
	if err := svc.Account.GrantRole(ctx, alice.ID, "staff"); err != nil {
		t.Fatalf("grant staff: %v", err)
	}

	resp, err := svc.Auth.Login(ctx, &request.LoginRequest{
		Login:    "alice_login",
		Password: "password1",
	})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if resp.Account.ID != alice.ID {
		t.Errorf("account id = %s, want %s", resp.Account.ID, alice.ID)
	}

	token, err := jwt.Parse(resp.Token, func(*jwt.Token) (interface{}, error) {
		return []byte("test-auth-secret"), nil
	})
	if err != nil || !token.Valid {
		t.Fatalf("parse issued token: %v", err)
	}
	claims := token.Claims.(jwt.MapClaims)
	if claims["sub"] != alice.ID {
		t.Errorf("sub = %v, want %s", claims["sub"], alice.ID)
	}

	rawRoles, ok := claims["roles"].([]interface{})
	if !ok {
		t.Fatalf("roles claim = %T, want array", claims["roles"])
	}
	roles := make(map[string]bool, len(rawRoles))
	for _, r := range rawRoles {
		roles[r.(string)] = true
	}
	if !roles["client"] || !roles["staff"] {
		t.Errorf("roles = %v, want client and staff", rawRoles)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc := newTestService(newFakeStore())
	ctx := context.Background()

	alice := register(t, svc, "alice_login", "password1")

	if _, err := svc.Auth.Login(ctx, &request.LoginRequest{
		Login:    "alice_login",
		Password: "wrongpass1",
	}); err == nil {
		t.Fatal("login with wrong password succeeded")
	}

	if _, err := svc.Auth.Login(ctx, &request.LoginRequest{
		Login:    "nobody_here",
		Password: "password1",
	}); err == nil {
		t.Fatal("login with unknown login succeeded")
	}

	if err := svc.Account.SetActive(ctx, alice.ID, false); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	if _, err := svc.Auth.Login(ctx, &request.LoginRequest{
		Login:    "alice_login",
		Password: "password1",
	}); err == nil {
		t.Fatal("login with deactivated account succeeded")
	}
}

func TestSelfResolvesCaller(t *testing.T) {
	svc := newTestService(newFakeStore())

	alice := register(t, svc, "alice_login", "password1")
	accountID, err := uuid.Parse(alice.ID)
	if err != nil {
		t.Fatalf("parse account id: %v", err)
	}

	ctx := utils.SetCallerContext(context.Background(), accountID, []string{"client"})
	self, err := svc.Auth.Self(ctx)
	if err != nil {
		t.Fatalf("Self: %v", err)
	}
	if self.Login != "alice_login" {
		t.Errorf("login = %q, want alice_login", self.Login)
	}

	if _, err := svc.Auth.Self(context.Background()); err == nil {
		t.Fatal("Self without caller context succeeded")
	}
}
