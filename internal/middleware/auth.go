package middleware

import (
	"strings"
	"time"

	"github.com/academix/records/internal/token"
	apperrors "github.com/academix/records/pkg/errors"
	"github.com/gin-gonic/gin"
)

const (
	claimsKey    = "claims"
	bearerPrefix = "Bearer "
)

// TokenVerifier verifies a session token as of a given instant
type TokenVerifier interface {
	Verify(tokenString string, now time.Time) (*token.Claims, error)
}

// Auth creates an authentication middleware. Every rejection, whatever
// its cause, produces the same 401 response.
func Auth(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := BearerToken(c.GetHeader("Authorization"))
		if !ok {
			RecordTokenVerification("failure")
			abortUnauthenticated(c)
			return
		}

		claims, err := verifier.Verify(tokenString, time.Now())
		if err != nil {
			RecordTokenVerification("failure")
			abortUnauthenticated(c)
			return
		}
		RecordTokenVerification("success")

		c.Set(claimsKey, claims)
		c.Next()
	}
}

// RequireRole allows the request through only if the authenticated
// principal holds one of the given roles. It must run after Auth.
func RequireRole(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}

	return func(c *gin.Context) {
		claims, ok := ClaimsFrom(c)
		if !ok {
			abortUnauthenticated(c)
			return
		}
		if _, ok := allowed[claims.Role]; !ok {
			abortWithError(c, apperrors.ErrForbidden)
			return
		}
		c.Next()
	}
}

// ClaimsFrom returns the claims stored by Auth
func ClaimsFrom(c *gin.Context) (*token.Claims, bool) {
	value, exists := c.Get(claimsKey)
	if !exists {
		return nil, false
	}
	claims, ok := value.(*token.Claims)
	return claims, ok && claims != nil
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" value
func BearerToken(header string) (string, bool) {
	if !strings.HasPrefix(header, bearerPrefix) {
		return "", false
	}
	tokenString := header[len(bearerPrefix):]
	if tokenString == "" {
		return "", false
	}
	return tokenString, true
}

func abortUnauthenticated(c *gin.Context) {
	abortWithError(c, apperrors.ErrUnauthorized)
}

// abortWithError stops the chain with the standard error envelope
func abortWithError(c *gin.Context, err *apperrors.AppError) {
	c.AbortWithStatusJSON(err.Status, gin.H{
		"success": false,
		"error": gin.H{
			"code":    err.Code,
			"message": err.Message,
		},
	})
}
