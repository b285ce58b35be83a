package cache

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const tokenIssuer = "elev"

var errBadToken = errors.New("invalid session token")

func newSecret(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return nil, err
	}
	out := make([]byte, base64.RawURLEncoding.EncodedLen(n))
	base64.RawURLEncoding.Encode(out, b)
	return out, nil
}

func signSession(secret []byte, key string, grantedAt time.Time) (string, error) {
	claims := jwt.RegisteredClaims{
		Issuer:   tokenIssuer,
		Subject:  key,
		IssuedAt: jwt.NewNumericDate(grantedAt),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString(secret)
}

// parseSession verifies the signature and returns the grant time. The
// token must carry the expected subject so one identity's record can
// never be replayed for another.
func parseSession(secret []byte, tokenString, key string) (time.Time, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errBadToken
		}
		return secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}), jwt.WithIssuer(tokenIssuer))
	if err != nil {
		return time.Time{}, err
	}
	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || !parsed.Valid {
		return time.Time{}, errBadToken
	}
	if claims.Subject != key || claims.IssuedAt == nil {
		return time.Time{}, errBadToken
	}
	return claims.IssuedAt.Time, nil
}
