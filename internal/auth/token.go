package auth

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrMissingSecret indicates no signing secret was configured
	ErrMissingSecret = errors.New("token secret not configured")

	// ErrInvalidToken indicates a malformed token or a bad signature
	ErrInvalidToken = errors.New("invalid token")

	// ErrTokenExpired indicates the token's exp claim has passed
	ErrTokenExpired = errors.New("token has expired")
)

// Claims are the bearer token claims. Subject carries the viewer id in decimal.
type Claims struct {
	Username string `json:"username,omitempty"`
	jwt.RegisteredClaims
}

// ViewerID parses the numeric viewer id from the subject claim.
func (c *Claims) ViewerID() (int64, error) {
	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: subject %q is not a viewer id", ErrInvalidToken, c.Subject)
	}
	return id, nil
}

// IssueToken signs an HS256 token for the viewer, valid for ttl.
func IssueToken(secret []byte, viewerID int64, username string, ttl time.Duration) (string, error) {
	if len(secret) == 0 {
		return "", ErrMissingSecret
	}

	now := time.Now()
	claims := Claims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(viewerID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// VerifyToken checks the signature and expiry of an HS256 token.
// A "Bearer " prefix is tolerated.
func VerifyToken(secret []byte, tokenString string) (*Claims, error) {
	if len(secret) == 0 {
		return nil, ErrMissingSecret
	}

	token, err := jwt.ParseWithClaims(stripBearerPrefix(tokenString), &Claims{},
		func(token *jwt.Token) (interface{}, error) {
			return secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if _, err := claims.ViewerID(); err != nil {
		return nil, err
	}
	return claims, nil
}

// ParseToken reads the claims of a token without verifying its signature.
// Clients use it to learn who they are; servers must use VerifyToken.
func ParseToken(tokenString string) (*Claims, error) {
	parser := jwt.NewParser(jwt.WithoutClaimsValidation())
	token, _, err := parser.ParseUnverified(stripBearerPrefix(tokenString), &Claims{})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, ErrInvalidToken
	}
	if _, err := claims.ViewerID(); err != nil {
		return nil, err
	}
	return claims, nil
}

// stripBearerPrefix removes the "Bearer " prefix from a token string
func stripBearerPrefix(tokenString string) string {
	tokenString = strings.TrimPrefix(tokenString, "Bearer ")
	return strings.TrimSpace(tokenString)
}
