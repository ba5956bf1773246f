// Package tokens issues and verifies the signed, expiring claim set handed
// out at login.
package tokens

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/nutricoach/backend/internal/models"
)

// ErrInvalidToken covers every verification failure: bad signature, expired
// claim, malformed structure, unexpected algorithm.
var ErrInvalidToken = errors.New("invalid or expired token")

// Claims is the decoded payload of a verified token.
type Claims struct {
	UserID int64
	Role   models.Role
}

// Issuer signs and validates HS256 tokens with a process-wide secret.
type Issuer struct {
	secret []byte
	ttl    time.Duration
}

func NewIssuer(secret string, ttl time.Duration) *Issuer {
	return &Issuer{secret: []byte(secret), ttl: ttl}
}

// Issue creates a signed token embedding the subject id and role, expiring
// after the configured TTL.
func (i *Issuer) Issue(userID int64, role models.Role) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  strconv.FormatInt(userID, 10),
		"role": role.String(),
		"iat":  now.Unix(),
		"exp":  now.Add(i.ttl).Unix(),
	}
	jt := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return jt.SignedString(i.secret)
}

// Verify validates the raw token and returns its claims. Any failure,
// including an out-of-enum role, maps to ErrInvalidToken.
func (i *Issuer) Verify(raw string) (*Claims, error) {
	parsed, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return i.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	mc, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	sub, _ := mc["sub"].(string)
	id, err := strconv.ParseInt(sub, 10, 64)
	if err != nil {
		return nil, ErrInvalidToken
	}
	roleStr, _ := mc["role"].(string)
	role, err := models.ParseRole(roleStr)
	if err != nil {
		return nil, ErrInvalidToken
	}
	return &Claims{UserID: id, Role: role}, nil
}
