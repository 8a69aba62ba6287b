package handlers

import (
	"net/http"
	"time"

	"github.com/Varun5711/deeplinks/internal/config"
	"github.com/Varun5711/deeplinks/internal/logger"
	"github.com/Varun5711/deeplinks/internal/models"
	"github.com/Varun5711/deeplinks/internal/service"
)

type StatusHandler struct {
	links *service.LinkService
	page  statusPageData
	log   *logger.Logger
}

func NewStatusHandler(links *service.LinkService, cfg *config.Config) *StatusHandler {
	return &StatusHandler{
		links: links,
		page: statusPageData{
			Domain:         cfg.Server.Domain,
			IOSAppID:       cfg.App.IOSAppID,
			AndroidPackage: cfg.App.AndroidPackage,
		},
		log: logger.New("status"),
	}
}

func (h *StatusHandler) Home(w http.ResponseWriter, r *http.Request) {
	renderHTML(w, http.StatusOK, statusTemplate, h.page)
}

func (h *StatusHandler) Health(w http.ResponseWriter, r *http.Request) {
	count, err := h.links.Count(r.Context())
	if err != nil {
		h.log.Error("Health check failed: %v", err)
		respondJSON(w, http.StatusServiceUnavailable, models.HealthResponse{
			Status:    "unavailable",
			Timestamp: time.Now().UnixMilli(),
		})
		return
	}

	respondJSON(w, http.StatusOK, models.HealthResponse{
		Status:     "ok",
		Timestamp:  time.Now().UnixMilli(),
		LinksCount: count,
	})
}
