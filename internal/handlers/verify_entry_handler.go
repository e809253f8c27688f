package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	verifymodels "github.com/hbuk-xyz/hbuk-server/internal/models/verify_entry"
)

// VerifyEntry is the public tamper check: anyone holding an id and a digest
// can ask whether they still match, no authentication required. A mismatch
// is a 200 with ok=false, not an error.
func (h *EntryHandler) VerifyEntry(c *gin.Context) {
	id := c.Param("id")
	digest := c.Param("digest")

	ok, err := h.journal.Verify(c.Request.Context(), id, digest)
	if err != nil {
		respondError(c, err)
		return
	}
	h.counters.IncVerifies()

	c.JSON(http.StatusOK, verifymodels.VerifyEntryResponse{OK: ok})
}
