package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

var ErrInvalidToken = errors.New("invalid or expired token")

// BearerVerifier validates HS256 access tokens whose subject is the user ID.
type BearerVerifier struct {
	secret []byte
	log    *zap.Logger
}

func NewBearerVerifier(secret string, logger *zap.Logger) (*BearerVerifier, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is empty")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BearerVerifier{secret: []byte(secret), log: logger}, nil
}

// Verify parses tokenString and returns its subject.
func (v *BearerVerifier) Verify(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return v.secret, nil
	})
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}

// Issue signs a token for userID valid for ttl. Used by seeding tools and tests.
func (v *BearerVerifier) Issue(userID string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Middleware identifies requests carrying "Authorization: Bearer <token>".
// A bad token leaves the request anonymous.
func (v *BearerVerifier) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if alreadyIdentified(r) {
			next.ServeHTTP(w, r)
			return
		}
		h := r.Header.Get("Authorization")
		if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
			sub, err := v.Verify(strings.TrimSpace(h[7:]))
			if err != nil {
				v.log.Debug("rejected bearer token",
					zap.String("path", r.URL.Path),
					zap.Error(err))
			} else {
				r = r.WithContext(WithUserID(r.Context(), sub))
			}
		}
		next.ServeHTTP(w, r)
	})
}
