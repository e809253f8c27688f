package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hbuk-xyz/hbuk-server/internal/journal"
)

// respondError maps the journal error taxonomy onto HTTP statuses. Storage
// failures surface as 503 so callers can distinguish them from negative
// integrity results, which are 200 bodies.
func respondError(c *gin.Context, err error) {
	var storageErr *journal.StorageError
	switch {
	case errors.Is(err, journal.ErrValidation), errors.Is(err, journal.ErrFormat):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, journal.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case errors.As(err, &storageErr):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Storage unavailable"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// ownerID returns the authenticated account id set by the auth middleware.
func ownerID(c *gin.Context) (string, bool) {
	uid, exists := c.Get("uid")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return "", false
	}
	owner, ok := uid.(string)
	if !ok || owner == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Invalid user context"})
		return "", false
	}
	return owner, true
}
