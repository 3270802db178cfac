package service

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestJWTService_IssueVerifyRoundtrip(t *testing.T) {
	svc := NewJWTService("secret", time.Hour)

	token, err := svc.IssueToken("user@example.com")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	if token == "" {
		t.Fatalf("expected token")
	}

	subject, err := svc.VerifyToken(token)
	if err != nil {
		t.Fatalf("verify token: %v", err)
	}
	if subject != "user@example.com" {
		t.Fatalf("unexpected subject: %q", subject)
	}
}

func TestJWTService_ExpiredToken(t *testing.T) {
	svc := NewJWTService("secret", time.Hour)

	// Token firmado con la misma clave pero exp en el pasado: siempre
	// debe fallar como vencido, nunca como otro tipo de error.
	claims := jwt.RegisteredClaims{
		Subject:   "user@example.com",
		ExpiresAt: jwt.NewNumericDate(time.Now().UTC().Add(-time.Minute)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := svc.VerifyToken(signed); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestJWTService_MissingSubject(t *testing.T) {
	svc := NewJWTService("secret", time.Hour)

	claims := jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().UTC().Add(time.Hour)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := svc.VerifyToken(signed); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestJWTService_WrongKey(t *testing.T) {
	svc := NewJWTService("secret", time.Hour)
	other := NewJWTService("other-secret", time.Hour)

	token, err := other.IssueToken("user@example.com")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	if _, err := svc.VerifyToken(token); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestJWTService_RejectsEmptySecret(t *testing.T) {
	svc := NewJWTService("", time.Hour)

	if _, err := svc.IssueToken("user@example.com"); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid on empty secret, got %v", err)
	}
}

func TestJWTService_RejectsEmptyToken(t *testing.T) {
	svc := NewJWTService("secret", time.Hour)

	if _, err := svc.VerifyToken("   "); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}
