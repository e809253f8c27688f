package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/hbuk-xyz/hbuk-server/internal/journal"
	"github.com/hbuk-xyz/hbuk-server/internal/ledger"
	"github.com/hbuk-xyz/hbuk-server/internal/metrics"
	commitmodels "github.com/hbuk-xyz/hbuk-server/internal/models/commit_entry"
)

type EntryHandler struct {
	journal  *journal.Service
	counters *metrics.Counters
	logger   *zap.SugaredLogger
}

// NewEntryHandler creates a new entry handler
func NewEntryHandler(svc *journal.Service, counters *metrics.Counters, logger *zap.SugaredLogger) *EntryHandler {
	return &EntryHandler{
		journal:  svc,
		counters: counters,
		logger:   logger,
	}
}

// CommitEntry persists a new immutable journal entry with its digest and
// witness signature.
func (h *EntryHandler) CommitEntry(c *gin.Context) {
	var req commitmodels.CommitEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	owner, ok := ownerID(c)
	if !ok {
		return
	}

	// Coordinates travel as a pair; a lone latitude or longitude is a
	// malformed location, not an absent one.
	if (req.Latitude == nil) != (req.Longitude == nil) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "latitude and longitude must be provided together"})
		return
	}
	var loc *ledger.Location
	if req.Latitude != nil {
		loc = &ledger.Location{
			Latitude:  *req.Latitude,
			Longitude: *req.Longitude,
			Name:      req.LocationName,
		}
	}

	entry, err := h.journal.Commit(c.Request.Context(), owner, req.Content, loc)
	if err != nil {
		h.logError(c, err, "commit failed")
		respondError(c, err)
		return
	}
	h.counters.IncCommits()

	response := commitmodels.CommitEntryResponse{
		ID:        entry.ID,
		Content:   entry.Content,
		CreatedAt: entry.CreatedAt,
		Digest:    entry.Digest,
		Signature: entry.Signature,
		SigAlg:    entry.SigAlg,
		SigKid:    entry.SigKid,
	}
	if entry.Location != nil {
		response.Latitude = &entry.Location.Latitude
		response.Longitude = &entry.Location.Longitude
		response.LocationName = entry.Location.Name
	}

	c.JSON(http.StatusCreated, response)
}
