package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type UserRole string

const RoleAdminConsole UserRole = "ADMIN_CONSOLE"

const serviceTokenTTL = 5 * time.Minute

type Claims struct {
	Role UserRole `json:"role"`
	jwt.RegisteredClaims
}

// TokenSource signs short-lived service tokens for calls to the orders backend.
type TokenSource struct {
	secret  []byte
	subject string
	now     func() time.Time
}

func NewTokenSource(secret, subject string) *TokenSource {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return nil
	}
	return &TokenSource{secret: []byte(secret), subject: strings.TrimSpace(subject), now: time.Now}
}

func (s *TokenSource) Token() (string, error) {
	if s == nil {
		return "", errors.New("token source not configured")
	}
	now := s.now()
	claims := Claims{
		Role: RoleAdminConsole,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   s.subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(serviceTokenTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// AuthorizationHeader returns the header value, or "" when no secret is configured.
func (s *TokenSource) AuthorizationHeader() (string, error) {
	if s == nil {
		return "", nil
	}
	token, err := s.Token()
	if err != nil {
		return "", err
	}
	return "Bearer " + token, nil
}

func ParseBearerToken(authHeader string) string {
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
