package auth

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid session token")

// sessionClaims wraps a session id (jti) in a signed envelope. The session store stays
// the source of truth; the signature only rejects forged or mangled tokens early.
type sessionClaims struct {
	Username string `json:"usr"`
	jwt.RegisteredClaims
}

// SignSessionToken signs session token.
func SignSessionToken(secret []byte, session Session) (string, error) {
	claims := sessionClaims{
		Username: session.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        session.ID,
			Subject:   strconv.FormatInt(session.UserID, 10),
			IssuedAt:  jwt.NewNumericDate(session.CreatedAt),
			ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// ParseSessionToken returns the session id carried by tokenString. Expired tokens fail
// with ErrSessionExpired unless allowExpired is set.
func ParseSessionToken(secret []byte, tokenString string, now time.Time, allowExpired bool) (string, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(func() time.Time { return now }),
	}
	if allowExpired {
		opts = append(opts, jwt.WithoutClaimsValidation())
	}
	parsed, err := jwt.ParseWithClaims(tokenString, &sessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		return secret, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrSessionExpired
		}
		return "", ErrInvalidToken
	}
	claims, ok := parsed.Claims.(*sessionClaims)
	if !ok || !parsed.Valid || claims.ID == "" {
		return "", ErrInvalidToken
	}
	return claims.ID, nil
}
