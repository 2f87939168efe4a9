package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/SscSPs/hifzmaal_backend/internal/utils"
	"github.com/gin-gonic/gin"
)

// untrackedRoutes are infrastructure endpoints, never product usage.
var untrackedRoutes = map[string]bool{
	"/health":  true,
	"/metrics": true,
}

// PosthogMiddleware records one analytics event per successful authenticated API call.
// Events are named after the route pattern ("POST /api/v1/families/:familyID/transactions")
// and grouped by family so usage can be broken down per household.
func PosthogMiddleware(posthogClient *utils.PosthogClientWrapper) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !posthogClient.IsInitialized() || untrackedRoutes[c.Request.URL.Path] || strings.HasPrefix(c.Request.URL.Path, "/swagger") {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" || len(c.Errors) > 0 || c.Writer.Status() >= http.StatusBadRequest {
			return
		}
		userID, ok := GetUserIDFromContext(c)
		if !ok {
			return
		}

		props := map[string]any{
			"route":       route,
			"method":      c.Request.Method,
			"status_code": c.Writer.Status(),
			"duration_ms": time.Since(start).Milliseconds(),
		}
		for _, p := range c.Params {
			// Only ids are forwarded, never free text.
			if strings.HasSuffix(p.Key, "ID") {
				props[p.Key] = p.Value
			}
		}

		posthogClient.Enqueue(userID, c.Request.Method+" "+route, c.Param("familyID"), props)
	}
}
