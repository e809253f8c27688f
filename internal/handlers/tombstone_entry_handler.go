package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	tombstonemodels "github.com/hbuk-xyz/hbuk-server/internal/models/tombstone_entry"
)

// TombstoneEntry records a logical deletion. The original entry is never
// mutated; a new tombstone row simply marks it deleted for list queries.
func (h *EntryHandler) TombstoneEntry(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Entry ID is required"})
		return
	}

	owner, ok := ownerID(c)
	if !ok {
		return
	}

	tombstoneID, err := h.journal.Tombstone(c.Request.Context(), id, owner)
	if err != nil {
		h.logError(c, err, "tombstone failed", "entry_id", id)
		respondError(c, err)
		return
	}
	h.counters.IncTombstones()

	c.JSON(http.StatusCreated, tombstonemodels.TombstoneEntryResponse{TombstoneID: tombstoneID})
}
