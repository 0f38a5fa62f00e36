package auth

import (
	"errors"
	"fmt"
	"time"

	"job-board-backend/internal/domain"

	"github.com/golang-jwt/jwt/v5"
)

const issuer = "job-board-backend"

var ErrTokenIssuingDisabled = errors.New("token issuing disabled: JWT secret not configured")

// Claims is the payload of tokens minted by this service
type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// TokenService issues HS256 tokens and verifies HS256 or JWKS-backed RS256 tokens
type TokenService struct {
	secret []byte
	expiry time.Duration
	jwks   *KeySet
	now    func() time.Time
}

// NewTokenService builds the service. jwks may be nil when no external identity provider is configured.
func NewTokenService(secret string, expiry time.Duration, jwks *KeySet) *TokenService {
	return &TokenService{
		secret: []byte(secret),
		expiry: expiry,
		jwks:   jwks,
		now:    time.Now,
	}
}

func (s *TokenService) Issue(user *domain.User) (string, error) {
	if len(s.secret) == 0 {
		return "", ErrTokenIssuingDisabled
	}
	now := s.now()
	claims := Claims{
		Email: user.Email,
		Role:  string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Parse validates tokenString and returns its claims. The role claim is informational only.
func (s *TokenService) Parse(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, s.keyFunc, jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.Subject == "" {
		return nil, errors.New("token has no subject")
	}
	return claims, nil
}

// Verify parses tokenString and returns the user id it was issued for
func (s *TokenService) Verify(tokenString string) (string, error) {
	claims, err := s.Parse(tokenString)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

func (s *TokenService) keyFunc(token *jwt.Token) (interface{}, error) {
	switch token.Method.(type) {
	case *jwt.SigningMethodHMAC:
		if len(s.secret) == 0 {
			return nil, errors.New("HS256 token received but JWT_SECRET is not configured")
		}
		return s.secret, nil
	case *jwt.SigningMethodRSA:
		if s.jwks == nil {
			return nil, errors.New("RS256 token received but JWKS_URL is not configured")
		}
		return s.jwks.Keyfunc(token)
	}
	return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
}
