package middleware

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/emilythestrangee/querynet/backend/internal/models"
	"github.com/emilythestrangee/querynet/backend/internal/qa"
	"github.com/emilythestrangee/querynet/backend/internal/response"
)

const (
	actorKey = "actor"
	// TokenCookie is the cookie the login handler sets alongside the JSON token.
	TokenCookie = "token"
)

// Claims are the JWT claims issued at login.
type Claims struct {
	UserID string      `json:"id"`
	Role   models.Role `json:"role"`
	jwt.RegisteredClaims
}

// IssueToken signs an HS256 token for u that expires after ttl.
func IssueToken(secret []byte, u *models.User, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: u.ID,
		Role:   u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// ParseToken validates signature, algorithm and expiry.
func ParseToken(secret []byte, tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	if !token.Valid || claims.UserID == "" {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

func tokenFrom(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	if cookie, err := c.Cookie(TokenCookie); err == nil {
		return cookie
	}
	return ""
}

// RequireAuth rejects requests without a valid token.
func RequireAuth(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := tokenFrom(c)
		if tokenString == "" {
			response.Error(c, qa.ErrUnauthenticated)
			return
		}
		claims, err := ParseToken(secret, tokenString)
		if err != nil {
			response.Error(c, qa.ErrUnauthenticated)
			return
		}
		c.Set(actorKey, qa.Actor{ID: claims.UserID, Role: claims.Role})
		c.Next()
	}
}

// OptionalAuth attaches the caller when a valid token is present and lets
// anonymous requests through.
func OptionalAuth(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenString := tokenFrom(c); tokenString != "" {
			if claims, err := ParseToken(secret, tokenString); err == nil {
				c.Set(actorKey, qa.Actor{ID: claims.UserID, Role: claims.Role})
			}
		}
		c.Next()
	}
}

// CurrentActor returns the authenticated caller, if any.
func CurrentActor(c *gin.Context) (qa.Actor, bool) {
	v, ok := c.Get(actorKey)
	if !ok {
		return qa.Actor{}, false
	}
	a, ok := v.(qa.Actor)
	return a, ok
}

// ViewerID is the caller's id or "" for anonymous requests.
func ViewerID(c *gin.Context) string {
	a, _ := CurrentActor(c)
	return a.ID
}
