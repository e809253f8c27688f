package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// MaintenanceMiddleware returns 503 for every request while the maintenance
// switch is on, so the ledger can be backed up or migrated without writes.
func MaintenanceMiddleware(enabled bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if enabled {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "Service in maintenance, please retry shortly."})
			return
		}
		c.Next()
	}
}
