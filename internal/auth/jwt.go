// Package auth implements bearer-token authentication and the tenancy claims
// every request must carry.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/kevtech-systems/maziwa/internal/shared"
)

// ErrInvalidToken indicates a missing, expired or malformed token.
var ErrInvalidToken = errors.New("auth: invalid token")

// Claims is the JWT payload. CompanyID scopes every downstream query; only the
// SuperAdmin role may omit it.
type Claims struct {
	jwt.RegisteredClaims
	UserID    int64  `json:"uid"`
	Role      string `json:"role"`
	CompanyID int64  `json:"company_id"`
}

// TokenService signs and verifies access tokens.
type TokenService struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

// NewTokenService constructs a TokenService.
func NewTokenService(secret string, ttl time.Duration) *TokenService {
	return &TokenService{secret: []byte(secret), issuer: "maziwa", ttl: ttl}
}

// Issue generates a signed access token for the given identity.
func (s *TokenService) Issue(userID int64, role string, companyID int64) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(s.ttl)
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   fmt.Sprint(userID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		UserID:    userID,
		Role:      role,
		CompanyID: companyID,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("auth: sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// Verify parses a token string and returns the tenancy claims.
func (s *TokenService) Verify(tokenString string) (*shared.Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("auth: unexpected signing method %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, ErrInvalidToken
	}
	return &shared.Claims{UserID: claims.UserID, Role: claims.Role, CompanyID: claims.CompanyID}, nil
}
