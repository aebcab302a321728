package jwtinfra

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/otp-dashboard/internal/config"
	"github.com/otp-dashboard/internal/pkg/id"
)

// Claims holds the session token payload.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Provider signs and verifies HS256 session tokens.
type Provider struct {
	secret []byte
	expiry time.Duration
	now    func() time.Time
}

func NewProvider(cfg *config.Config) (*Provider, error) {
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is not set")
	}
	return &Provider{secret: []byte(cfg.JWTSecret), expiry: cfg.JWTExpiry, now: time.Now}, nil
}

// Sign issues a token for email and returns it with its expiry time.
func (p *Provider) Sign(email string) (string, time.Time, error) {
	now := p.now()
	exp := now.Add(p.expiry)
	claims := Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			ID:        id.New(),
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(p.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

func (p *Provider) Verify(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return p.secret, nil
	}, jwt.WithTimeFunc(p.now))
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Email == "" {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}
