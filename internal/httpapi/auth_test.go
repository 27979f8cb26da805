package httpapi

import (
	"context"
	"testing"
	"time"

	"netobebidas/backend/internal/domain"
	"netobebidas/backend/internal/store/memory"
)

func newTestAuth(t *testing.T) *AuthManager {
	t.Helper()
	t.Setenv("SEED_ADMIN_PASSWORD", "segredo123")
	return NewAuthManager("test-secret-key", time.Hour, memory.NewSeeded())
}

func TestLoginAndParseToken(t *testing.T) {
	auth := newTestAuth(t)

	resp, err := auth.Login(domain.LoginRequest{Username: "neto", Password: "segredo123"})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if resp.AccessToken == "" {
		t.Fatalf("expected access token")
	}

	actor, err := auth.ParseToken(resp.AccessToken)
	if err != nil {
		t.Fatalf("parse token failed: %v", err)
	}
	if actor.Username != "neto" {
		t.Fatalf("expected subject neto, got %s", actor.Username)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	auth := newTestAuth(t)

	if _, err := auth.Login(domain.LoginRequest{Username: "neto", Password: "errada"}); err == nil {
		t.Fatalf("expected login to fail with wrong password")
	}
	if _, err := auth.Login(domain.LoginRequest{Username: "ninguem", Password: "segredo123"}); err == nil {
		t.Fatalf("expected login to fail for unknown user")
	}
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	auth := newTestAuth(t)

	if _, err := auth.ParseToken("not.a.token"); err == nil {
		t.Fatalf("expected parse to fail")
	}
}

func TestParseTokenRejectsForeignSecret(t *testing.T) {
	t.Setenv("SEED_ADMIN_PASSWORD", "segredo123")
	repo := memory.NewSeeded()
	signer := NewAuthManager("secret-a", time.Hour, repo)
	verifier := NewAuthManager("secret-b", time.Hour, repo)

	resp, err := signer.Login(domain.LoginRequest{Username: "neto", Password: "segredo123"})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if _, err := verifier.ParseToken(resp.AccessToken); err == nil {
		t.Fatalf("expected token signed with another secret to be rejected")
	}
}

func TestRegisterThenLogin(t *testing.T) {
	auth := newTestAuth(t)

	actor, err := auth.Register(domain.UserCreateRequest{Username: "Balconista", Password: "senha-forte"})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if actor.Username != "balconista" {
		t.Fatalf("expected lowercased username, got %s", actor.Username)
	}

	if _, err := auth.Login(domain.LoginRequest{Username: "balconista", Password: "senha-forte"}); err != nil {
		t.Fatalf("login with new account failed: %v", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	auth := newTestAuth(t)

	cases := []domain.UserCreateRequest{
		{Username: "ab", Password: "senha-forte"},
		{Username: "com espaco", Password: "senha-forte"},
		{Username: "valido", Password: "curta"},
		{Username: "neto", Password: "senha-forte"},
	}
	for _, req := range cases {
		if _, err := auth.Register(req); err == nil {
			t.Fatalf("expected register to fail for %+v", req)
		}
	}
}

func TestBootstrapUpgradesPlainTextPasswords(t *testing.T) {
	repo := memory.New()
	if err := repo.CreateUser(context.Background(), domain.UserAccount{
		Username:  "legado",
		Password:  "senha-antiga",
		Active:    true,
		CreatedAt: time.Now().UTC(),
	}); err != nil {
		t.Fatalf("create user failed: %v", err)
	}

	auth := NewAuthManager("test-secret-key", time.Hour, repo)
	if _, err := auth.Login(domain.LoginRequest{Username: "legado", Password: "senha-antiga"}); err != nil {
		t.Fatalf("expected legacy password to work after upgrade: %v", err)
	}

	users, err := repo.ListUsers(context.Background())
	if err != nil {
		t.Fatalf("list users failed: %v", err)
	}
	for _, user := range users {
		if user.Username == "legado" && !isPasswordHash(user.Password) {
			t.Fatalf("expected stored password upgraded to a hash")
		}
	}
}
