// Package security issues and verifies the signed tokens embedded in report
// edit links sent back to reporters.
package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid report token")
	ErrTokenExpired = errors.New("report token expired")
)

const reportEditScope = "report:edit"

type reportClaims struct {
	Scope string `json:"scope"`
	jwt.RegisteredClaims
}

// TokenManager signs report edit tokens with an HMAC secret.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{secret: []byte(secret), ttl: ttl}
}

// IssueReportToken returns a signed token granting edit access to one report.
func (m *TokenManager) IssueReportToken(reportID string) (string, error) {
	now := time.Now()
	claims := reportClaims{
		Scope: reportEditScope,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   reportID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign report token: %w", err)
	}
	return signed, nil
}

// VerifyReportToken checks the signature, expiry and scope, and returns the
// report id the token grants access to.
func (m *TokenManager) VerifyReportToken(tokenString string) (string, error) {
	var claims reportClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrTokenExpired
		}
		return "", ErrInvalidToken
	}
	if !token.Valid || claims.Scope != reportEditScope || claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}
