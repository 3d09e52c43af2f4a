package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/srgjo27/house_rental/internal/core/domain"
)

const principalKey = "principal"

// Claims carries the caller identity. Tokens are issued elsewhere; the id may
// arrive as "sub" or as "id".
type Claims struct {
	UserID string `json:"id,omitempty"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

func (c *Claims) principal() (domain.Principal, error) {
	raw := c.Subject
	if raw == "" {
		raw = c.UserID
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		return domain.Principal{}, errors.New("token subject is not a valid id")
	}

	role := domain.Role(c.Role)
	if !role.IsValid() || role == domain.RoleSystem {
		return domain.Principal{}, errors.New("token carries an unknown role")
	}

	return domain.Principal{ID: id, Role: role}, nil
}

// NewToken signs an HS256 token for p. Used by tooling and tests.
func NewToken(secret string, p domain.Principal, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		Role: string(p.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

func Auth(secret string) gin.HandlerFunc {
	key := []byte(secret)

	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid Authorization header"})
			return
		}

		claims := &Claims{}
		token, err := jwt.ParseWithClaims(strings.TrimPrefix(header, "Bearer "), claims, func(t *jwt.Token) (interface{}, error) {
			return key, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		p, err := claims.principal()
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}

		c.Set(principalKey, p)
		c.Next()
	}
}

// RequireRole admits only callers holding one of roles.
func RequireRole(roles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := principalFrom(c)
		for _, r := range roles {
			if p.Role == r {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"code":  domain.CodeUnauthorized,
			"error": "role " + string(p.Role) + " is not allowed here",
		})
	}
}

func principalFrom(c *gin.Context) domain.Principal {
	if v, ok := c.Get(principalKey); ok {
		if p, ok := v.(domain.Principal); ok {
			return p
		}
	}
	return domain.Principal{}
}
