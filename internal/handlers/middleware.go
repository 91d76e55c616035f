package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	authorizationHeader = "Authorization"
	bearerScheme        = "Bearer"

	// Gin context key the user id is stored under for downstream handlers.
	userCtxKey = "userId"
)

// userIdMiddleware guards the operator routes: it requires a Bearer JWT,
// resolves it to a user id and stores the id in the request context.
func (h *Handler) userIdMiddleware(c *gin.Context) {
	token, ok := bearerToken(c.GetHeader(authorizationHeader))
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "missing or malformed Authorization header",
		})
		return
	}

	userID, err := h.services.ParseToken(token)
	if err != nil {
		if h.log != nil {
			h.log.Infow("auth_token_rejected", "err", err)
		}
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "invalid or expired token",
		})
		return
	}

	c.Set(userCtxKey, userID)
	c.Next()
}

// bearerToken extracts the token from a "Bearer <token>" header value.
func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || scheme != bearerScheme || token == "" {
		return "", false
	}
	return token, true
}
