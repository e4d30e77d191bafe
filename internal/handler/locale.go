package handler

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// requestLocale prefers ?lang= over the Accept-Language header. An empty
// result lets the translator fall back to the default locale.
func requestLocale(c *gin.Context) string {
	if lang := strings.TrimSpace(c.Query("lang")); lang != "" {
		return lang
	}
	return strings.TrimSpace(c.GetHeader("Accept-Language"))
}
