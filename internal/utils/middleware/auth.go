package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	// AuthorizationHeader is the header key for authorization.
	AuthorizationHeader = "Authorization"
	// BearerPrefix is the prefix for bearer tokens.
	BearerPrefix = "Bearer "
	// AdminSubjectKey is the context key for the authenticated admin subject.
	AdminSubjectKey = "admin_subject"

	adminRole = "admin"
)

// AdminClaims are the JWT claims required on admin tokens.
type AdminClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// AdminAuth returns a middleware that validates admin JWT tokens
// signed with the shared HMAC secret.
func AdminAuth(secret string) gin.HandlerFunc {
	keyFunc := func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	}

	return func(c *gin.Context) {
		token := extractBearerToken(c)
		if token == "" {
			abortUnauthorized(c, "UNAUTHORIZED", "Authorization header required")
			return
		}

		claims := &AdminClaims{}
		parsed, err := jwt.ParseWithClaims(token, claims, keyFunc,
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil || !parsed.Valid {
			abortUnauthorized(c, "INVALID_TOKEN", "Invalid or expired token")
			return
		}

		if claims.Role != adminRole {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": gin.H{
					"code":    "FORBIDDEN",
					"message": "Admin role required",
				},
			})
			return
		}

		c.Set(AdminSubjectKey, claims.Subject)
		c.Next()
	}
}

// GetAdminSubject returns the authenticated admin subject from context.
func GetAdminSubject(c *gin.Context) string {
	if val, exists := c.Get(AdminSubjectKey); exists {
		if subject, ok := val.(string); ok {
			return subject
		}
	}
	return ""
}

func extractBearerToken(c *gin.Context) string {
	authHeader := c.GetHeader(AuthorizationHeader)
	if strings.HasPrefix(authHeader, BearerPrefix) {
		return strings.TrimPrefix(authHeader, BearerPrefix)
	}
	return ""
}

func abortUnauthorized(c *gin.Context, code, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}
