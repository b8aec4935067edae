package auth

import (
	"testing"
	"time"

	"github.com/coffeebase/coffeebase-api/internal/apperr"
)

func TestTokens_RoundTrip(t *testing.T) {
	t.Parallel()

	tokens := NewTokens("secret", time.Hour)
	signed, err := tokens.Generate("u-1", RoleCustomer)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	claims, err := tokens.Validate(signed)
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if claims.UserID != "u-1" || claims.Role != RoleCustomer {
		t.Fatalf("claims=%+v", claims)
	}
}

func TestTokens_Expired(t *testing.T) {
	t.Parallel()

	tokens := NewTokens("secret", -time.Minute)
	signed, err := tokens.Generate("u-1", RoleCustomer)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	_, err = tokens.Validate(signed)
	if apperr.KindOf(err) != apperr.KindAuthentication {
		t.Fatalf("expected authentication error, got %v", err)
	}
}

func TestTokens_WrongSecret(t *testing.T) {
	t.Parallel()

	signed, err := NewTokens("secret-a", time.Hour).Generate("u-1", RoleAdmin)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	_, err = NewTokens("secret-b", time.Hour).Validate(signed)
	if apperr.KindOf(err) != apperr.KindAuthentication {
		t.Fatalf("expected authentication error, got %v", err)
	}
}

func TestTokens_Malformed(t *testing.T) {
	t.Parallel()

	_, err := NewTokens("secret", time.Hour).Validate("not.a.token")
	if apperr.KindOf(err) != apperr.KindAuthentication {
		t.Fatalf("expected authentication error, got %v", err)
	}
}
