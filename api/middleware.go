package api

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// APIKey accepts requests carrying key in the X-API-Key header or as a bearer token.
// An empty key disables the check.
func APIKey(key string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if key == "" {
			ctx.Next()
			return
		}

		given := ctx.GetHeader("X-API-Key")
		if given == "" {
			given = strings.TrimPrefix(ctx.GetHeader("Authorization"), "Bearer ")
		}
		if subtle.ConstantTimeCompare([]byte(given), []byte(key)) != 1 {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid api key"})
			return
		}
		ctx.Next()
	}
}
