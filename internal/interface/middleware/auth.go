package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/letmerecall/server/pkg/helpers"
	"github.com/letmerecall/server/pkg/response"
)

// Context keys set by Auth for downstream handlers.
const (
	CtxUserIDKey    = "userID"
	CtxUserEmailKey = "userEmail"
)

// TokenFromRequest returns the identity token from the "token" cookie or,
// if absent, from the Authorization header (second space-delimited segment,
// bearer style). Empty string means no token was presented.
func TokenFromRequest(c *gin.Context) string {
	if tok, err := c.Cookie(helpers.TokenCookieName); err == nil && tok != "" {
		return tok
	}
	parts := strings.Split(c.GetHeader("Authorization"), " ")
	if len(parts) == 2 {
		return parts[1]
	}
	return ""
}

// Auth gatekeeps protected routes. A missing token is 401; a token that is
// present but invalid or expired is 403 — the two cases stay distinct. On
// success the decoded claims become the request's identity context.
func Auth(jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := TokenFromRequest(c)
		if token == "" {
			response.Error(c, http.StatusUnauthorized, "unauthorized: no token provided", nil)
			c.Abort()
			return
		}

		claims, err := jwt.Verify(token)
		if err != nil {
			response.Error(c, http.StatusForbidden, "invalid or expired token", nil)
			c.Abort()
			return
		}

		c.Set(CtxUserIDKey, claims.UserID)
		c.Set(CtxUserEmailKey, claims.Email)
		c.Next()
	}
}
