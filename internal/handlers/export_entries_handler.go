package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	exportmodels "github.com/hbuk-xyz/hbuk-server/internal/models/export_entries"
)

// ExportEntries returns the caller's complete append-only history as a JSON
// attachment, tombstones included, so it can be re-verified offline.
func (h *EntryHandler) ExportEntries(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}

	records, err := h.journal.Export(c.Request.Context(), owner)
	if err != nil {
		h.logError(c, err, "export failed")
		respondError(c, err)
		return
	}

	response := exportmodels.ExportEntriesResponse{
		User:       owner,
		ExportedAt: time.Now().UTC(),
		Entries:    make([]exportmodels.ExportItem, 0, len(records)),
	}
	for _, rec := range records {
		item := exportmodels.ExportItem{
			Type:           rec.Type,
			Content:        rec.Content,
			CreatedAt:      rec.CreatedAt,
			Digest:         rec.Digest,
			Signature:      rec.Signature,
			SigAlg:         rec.SigAlg,
			SigKid:         rec.SigKid,
			OriginalID:     rec.OriginalID,
			OriginalDigest: rec.OriginalDigest,
		}
		if rec.Location != nil {
			item.Latitude = &rec.Location.Latitude
			item.Longitude = &rec.Location.Longitude
			item.LocationName = rec.Location.Name
		}
		response.Entries = append(response.Entries, item)
	}

	c.Header("Content-Disposition", `attachment; filename="hbuk-export.json"`)
	c.JSON(http.StatusOK, response)
}
