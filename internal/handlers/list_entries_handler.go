package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	listmodels "github.com/hbuk-xyz/hbuk-server/internal/models/list_entries"
)

// ListEntries pages the caller's entries newest first. Tombstoned entries
// stay in the listing with isDeleted set; history is never rewritten.
func (h *EntryHandler) ListEntries(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}

	limit := 20
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
			return
		}
		limit = parsed
	}

	page, err := h.journal.List(c.Request.Context(), owner, c.Query("cursor"), limit)
	if err != nil {
		h.logError(c, err, "list entries failed")
		respondError(c, err)
		return
	}

	response := listmodels.ListEntriesResponse{Entries: make([]listmodels.EntryItem, 0, len(page.Entries))}
	for _, item := range page.Entries {
		dto := listmodels.EntryItem{
			ID:        item.ID,
			Content:   item.Content,
			CreatedAt: item.CreatedAt,
			Digest:    item.Digest,
			Signature: item.Signature,
			SigAlg:    item.SigAlg,
			SigKid:    item.SigKid,
			IsDeleted: item.IsDeleted,
		}
		if item.Location != nil {
			dto.Latitude = &item.Location.Latitude
			dto.Longitude = &item.Location.Longitude
			dto.LocationName = item.Location.Name
		}
		response.Entries = append(response.Entries, dto)
	}
	if page.NextCursor != "" {
		response.NextCursor = &page.NextCursor
	}

	c.JSON(http.StatusOK, response)
}
