package auth

import (
	"errors"
	"testing"
	"time"

	"callvista/internal/config"

	"github.com/golang-jwt/jwt/v5"
)

func testManager(t *testing.T, cfg config.AuthConfig) *Manager {
	t.Helper()
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "test-secret"
	}
	if cfg.TokenTTL == 0 {
		cfg.TokenTTL = time.Hour
	}
	m, err := NewManager(cfg)
	if err != nil {
		t.Fatalf("manager: %v", err)
	}
	return m
}

func TestNewManager_RequiresSecret(t *testing.T) {
	if _, err := NewManager(config.AuthConfig{}); err == nil {
		t.Fatalf("expected error for empty secret")
	}
}

func TestIssueAndVerify(t *testing.T) {
	m := testManager(t, config.AuthConfig{JWTIssuer: "callvista", JWTAudience: "callvista-api"})

	now := time.Now()
	token, err := m.Issue(now, "u-1", "latamtel")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	claims, err := m.Verify(token, now)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.UserID != "u-1" || claims.TenantID != "latamtel" {
		t.Fatalf("claims: %+v", claims)
	}
	if claims.Issuer != "callvista" {
		t.Fatalf("issuer: %q", claims.Issuer)
	}
}

func TestIssue_RequiresIdentity(t *testing.T) {
	m := testManager(t, config.AuthConfig{})
	if _, err := m.Issue(time.Now(), "", "latamtel"); err == nil {
		t.Fatalf("expected error for empty user")
	}
	if _, err := m.Issue(time.Now(), "u-1", ""); err == nil {
		t.Fatalf("expected error for empty tenant")
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	issuer := testManager(t, config.AuthConfig{JWTSecret: "secret-a"})
	verifier := testManager(t, config.AuthConfig{JWTSecret: "secret-b"})

	token, err := issuer.Issue(time.Now(), "u-1", "latamtel")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := verifier.Verify(token, time.Now()); err == nil {
		t.Fatalf("expected signature error")
	}
}

func TestVerify_ExpiredToken(t *testing.T) {
	m := testManager(t, config.AuthConfig{})

	token, err := m.Issue(time.Now().Add(-2*time.Hour), "u-1", "latamtel")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := m.Verify(token, time.Now()); !errors.Is(err, jwt.ErrTokenExpired) {
		t.Fatalf("expected expiry error, got %v", err)
	}
}

func TestVerify_MissingTenantClaim(t *testing.T) {
	m := testManager(t, config.AuthConfig{})

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		UserID: "u-1",
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := m.Verify(token, time.Now()); err == nil {
		t.Fatalf("expected tenant claim error")
	}
}

func TestVerify_IssuerMismatch(t *testing.T) {
	issuer := testManager(t, config.AuthConfig{})
	verifier := testManager(t, config.AuthConfig{JWTIssuer: "callvista"})

	token, err := issuer.Issue(time.Now(), "u-1", "latamtel")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := verifier.Verify(token, time.Now()); err == nil {
		t.Fatalf("expected issuer error")
	}
}
