package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/hbuk-xyz/hbuk-server/internal/journal"
	"github.com/hbuk-xyz/hbuk-server/internal/metrics"
	anchormodels "github.com/hbuk-xyz/hbuk-server/internal/models/anchors"
)

type AnchorHandler struct {
	journal  *journal.Service
	counters *metrics.Counters
	logger   *zap.SugaredLogger
}

// NewAnchorHandler creates a new anchor handler
func NewAnchorHandler(svc *journal.Service, counters *metrics.Counters, logger *zap.SugaredLogger) *AnchorHandler {
	return &AnchorHandler{
		journal:  svc,
		counters: counters,
		logger:   logger,
	}
}

// AnchorForToday returns the Merkle anchor over today's UTC commits. The
// root can keep moving until the day closes, so the response is only cached
// briefly.
func (h *AnchorHandler) AnchorForToday(c *gin.Context) {
	h.respondAnchor(c, time.Now().UTC())
}

// AnchorForDate returns the anchor for one UTC calendar day.
func (h *AnchorHandler) AnchorForDate(c *gin.Context) {
	date, err := time.Parse("2006-01-02", c.Param("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date, want YYYY-MM-DD"})
		return
	}
	h.respondAnchor(c, date)
}

func (h *AnchorHandler) respondAnchor(c *gin.Context, at time.Time) {
	anchor, err := h.journal.AnchorForDay(c.Request.Context(), at)
	if err != nil {
		logWithContext(h.logger, c, "error", "anchor failed", "error", err)
		respondError(c, err)
		return
	}
	h.counters.IncAnchorHits()

	c.Header("Cache-Control", "public, max-age=60")
	c.JSON(http.StatusOK, anchormodels.AnchorResponse{
		Date:  anchor.Date,
		Count: anchor.Count,
		Root:  anchor.Root,
	})
}

// Proof returns the inclusion proof tying one of the caller's entries to its
// day's anchor. Valid for the leaf set at query time; roots for a still-open
// day may move as commits land.
func (h *AnchorHandler) Proof(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}

	proof, err := h.journal.Proof(c.Request.Context(), c.Param("id"), owner)
	if err != nil {
		logWithContext(h.logger, c, "error", "proof failed", "error", err, "entry_id", c.Param("id"))
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, anchormodels.ProofResponse{
		Date:   proof.Date,
		Digest: proof.Digest,
		Root:   proof.Root,
		Count:  proof.Count,
		Proof:  proof.Proof,
	})
}
