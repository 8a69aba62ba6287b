package handlers

import (
	"context"
	"net/http"

	"github.com/Varun5711/deeplinks/internal/events"
	"github.com/Varun5711/deeplinks/internal/logger"
	"github.com/Varun5711/deeplinks/internal/service"
)

type VisitStatsReader interface {
	Get(ctx context.Context, shortCode string) (*events.VisitStats, error)
}

// StatsHandler serves the visit counters maintained by visit-worker.
type StatsHandler struct {
	links *LinkHandler
	stats VisitStatsReader
	log   *logger.Logger
}

func NewStatsHandler(links *service.LinkService, stats VisitStatsReader) *StatsHandler {
	return &StatsHandler{
		links: NewLinkHandler(links),
		stats: stats,
		log:   logger.New("stats-handler"),
	}
}

func (h *StatsHandler) LinkStats(w http.ResponseWriter, r *http.Request) {
	link, ok := h.links.lookup(w, r)
	if !ok {
		return
	}

	stats, err := h.stats.Get(r.Context(), link.ShortCode)
	if err != nil {
		h.log.Error("Failed to read stats for %s: %v", link.ShortCode, err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondJSON(w, http.StatusOK, stats)
}
