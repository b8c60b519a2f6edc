package session

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token is a signed session token along with its expiry. The token string
// is presented by the client in the Authorization header on subsequent
// session operations.
type Token struct {
	Value string    `json:"token"`
	Exp   time.Time `json:"expires"`
}

// NewToken builds and signs an HS256 JWT carrying the session id as its
// subject. The TTL matches the session store TTL so a token never outlives
// its session by much.
func NewToken(secret, sessionID string, ttl time.Duration) (Token, error) {
	exp := time.Now().UTC().Add(ttl)
	claims := jwt.MapClaims{
		"sub": sessionID,
		"exp": exp.Unix(),
		"iat": time.Now().UTC().Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return Token{}, err
	}
	return Token{Value: signed, Exp: exp}, nil
}

// ParseToken validates a session token and returns the session id it
// carries. Tokens signed with a different method or secret, expired
// tokens and tokens without a subject are rejected.
func ParseToken(secret, raw string) (string, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return "", errors.New("session: invalid token")
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return "", errors.New("session: invalid claims")
	}
	sid, _ := claims["sub"].(string)
	if sid == "" {
		return "", errors.New("session: missing subject")
	}
	return sid, nil
}
