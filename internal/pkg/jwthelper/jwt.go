package jwthelper

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

type CustomClaims struct {
	jwt.RegisteredClaims
	Role      string `json:"role"`
	MSSV      string `json:"mssv,omitempty"`
	UserAgent string `json:"user_agent"`
}

// Email is the subject of the token.
func (c *CustomClaims) Email() string {
	return c.Subject
}

type TokenParams struct {
	Email     string
	Role      string
	MSSV      string
	UserAgent string
	TTL       time.Duration
}

func GenerateToken(key []byte, params TokenParams) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(params.TTL)

	claims := CustomClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   params.Email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Role:      params.Role,
		MSSV:      params.MSSV,
		UserAgent: params.UserAgent,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(key)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("token.SignedString -> %w", err)
	}

	return signed, expiresAt, nil
}

func ParseToken(key []byte, tokenString string) (*CustomClaims, error) {
	claims := &CustomClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("jwt.ParseWithClaims -> %w", err)
	}
	if !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
