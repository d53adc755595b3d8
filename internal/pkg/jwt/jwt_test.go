package jwt

import (
	"errors"
	"testing"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	token, err := GenerateAccessToken(7, "clerk", "Operator", 2, "secret", 5)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	claims, err := ValidateAccessToken(token, "secret")
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.UserID != 7 || claims.Username != "clerk" || claims.Role != "Operator" || claims.Permissions != 2 {
		t.Errorf("claims = %+v", claims)
	}
}

func TestAccessTokenWrongSecret(t *testing.T) {
	token, _ := GenerateAccessToken(1, "admin", "Admin", 15, "secret", 5)
	if _, err := ValidateAccessToken(token, "other"); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("err = %v, want ErrTokenInvalid", err)
	}
}

func TestAccessTokenExpired(t *testing.T) {
	token, _ := GenerateAccessToken(1, "admin", "Admin", 15, "secret", -1)
	if _, err := ValidateAccessToken(token, "secret"); !errors.Is(err, ErrTokenExpired) {
		t.Errorf("err = %v, want ErrTokenExpired", err)
	}
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	token, err := GenerateRefreshToken(3, "tid-1", "refresh", 1)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	claims, err := ValidateRefreshToken(token, "refresh")
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.UserID != 3 || claims.TokenID != "tid-1" {
		t.Errorf("claims = %+v", claims)
	}

	// An access-token secret must not validate a refresh token
	if _, err := ValidateRefreshToken(token, "secret"); err == nil {
		t.Error("refresh token accepted with the wrong secret")
	}
}
