package utils

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrNotJWT is returned by ParseSessionClaims when the bearer token is not a
// JWT (for example an opaque session token).
var ErrNotJWT = errors.New("token is not a JWT")

// SessionClaims is the subset of registered JWT claims the client reads from
// its bearer token.
type SessionClaims struct {
	UserID    int64
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// ParseBearerToken extracts the token from an Authorization header value of
// the form "Bearer <token>".
func ParseBearerToken(authorizationHeader string) (string, error) {
	parts := strings.Fields(authorizationHeader)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", errors.New("invalid authorization header")
	}
	return parts[1], nil
}

// ParseSessionClaims reads sub, iat and exp from tokenString without
// verifying the signature. The client never holds the signing key; the
// server stays authoritative and rejects forged tokens with 401.
//
// Missing iat or exp leave the corresponding field zero. A missing or
// non-numeric sub is an error.
func ParseSessionClaims(tokenString string) (SessionClaims, error) {
	token, _, err := jwt.NewParser().ParseUnverified(tokenString, jwt.MapClaims{})
	if err != nil {
		return SessionClaims{}, fmt.Errorf("%w: %w", ErrNotJWT, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return SessionClaims{}, errors.New("invalid token claims")
	}

	sub, err := claims.GetSubject()
	if err != nil {
		return SessionClaims{}, fmt.Errorf("error occurred during getting subject from token: %w", err)
	}
	if sub == "" {
		return SessionClaims{}, errors.New("empty subject error")
	}

	userID, err := strconv.ParseInt(sub, 10, 64)
	if err != nil {
		return SessionClaims{}, fmt.Errorf("error occurred during converting subject to user id: %w", err)
	}

	result := SessionClaims{UserID: userID}
	if iat, err := claims.GetIssuedAt(); err == nil && iat != nil {
		result.IssuedAt = iat.Time
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		result.ExpiresAt = exp.Time
	}

	return result, nil
}
