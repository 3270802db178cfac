package service

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// JWTService emite y valida bearer tokens firmados con HS256.
// El token es autocontenido: claims {sub: email, exp}; no hay estado de
// sesión del lado del servidor ni lista de revocación.
type JWTService struct {
	secret []byte
	ttl    time.Duration
}

var (
	ErrTokenInvalid = errors.New("token invalid")
	ErrTokenExpired = errors.New("token expired")
)

// AccessTokenTTL es la vigencia fija de cada token emitido.
const AccessTokenTTL = 60 * time.Minute

func NewJWTService(secret string, ttl time.Duration) *JWTService {
	if ttl <= 0 {
		ttl = AccessTokenTTL
	}
	return &JWTService{
		secret: []byte(secret),
		ttl:    ttl,
	}
}

// IssueToken firma un token con subject y expiración now + ttl.
func (s *JWTService) IssueToken(subject string) (string, error) {
	if len(s.secret) == 0 {
		return "", ErrTokenInvalid
	}
	now := time.Now().UTC()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// VerifyToken valida firma y expiración y devuelve el subject (email).
// Un token vencido siempre produce ErrTokenExpired; cualquier otro defecto
// (firma, formato, subject ausente) produce ErrTokenInvalid.
func (s *JWTService) VerifyToken(tokenString string) (string, error) {
	if len(s.secret) == 0 {
		return "", ErrTokenInvalid
	}
	if strings.TrimSpace(tokenString) == "" {
		return "", ErrTokenInvalid
	}

	var claims jwt.RegisteredClaims
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	_, err := parser.ParseWithClaims(tokenString, &claims, func(_ *jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrTokenExpired
		}
		return "", ErrTokenInvalid
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return "", ErrTokenInvalid
	}
	return claims.Subject, nil
}
