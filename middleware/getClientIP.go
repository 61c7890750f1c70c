package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// getClientIP extracts the caller's IP, honoring the first entry of a
// forwarded-for chain when a proxy sits in front.
func getClientIP(c *gin.Context) string {
	if forwarded := c.GetHeader("X-Forwarded-For"); forwarded != "" {
		parts := strings.Split(forwarded, ",")
		return strings.TrimSpace(parts[0])
	}
	return c.ClientIP()
}
