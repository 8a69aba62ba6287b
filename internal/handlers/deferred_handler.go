package handlers

import (
	"errors"
	"net/http"

	"github.com/Varun5711/deeplinks/internal/fingerprint"
	"github.com/Varun5711/deeplinks/internal/logger"
	"github.com/Varun5711/deeplinks/internal/models"
	"github.com/Varun5711/deeplinks/internal/service"
)

type DeferredHandler struct {
	deferred *service.DeferredService
	log      *logger.Logger
}

func NewDeferredHandler(deferred *service.DeferredService) *DeferredHandler {
	return &DeferredHandler{
		deferred: deferred,
		log:      logger.New("deferred-handler"),
	}
}

// Lookup resolves /api/deferred/{key}, where key is a link id or a
// fingerprint.
func (h *DeferredHandler) Lookup(w http.ResponseWriter, r *http.Request) {
	h.lookup(w, r, r.PathValue("key"))
}

// LookupSelf derives the fingerprint from the caller's own request, for apps
// that open a web view on first launch.
func (h *DeferredHandler) LookupSelf(w http.ResponseWriter, r *http.Request) {
	h.lookup(w, r, fingerprint.FromRequest(r))
}

func (h *DeferredHandler) lookup(w http.ResponseWriter, r *http.Request, key string) {
	resp, err := h.deferred.Lookup(r.Context(), key)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrLinkNotFound):
			respondJSON(w, http.StatusNotFound, models.DeferredResponse{Found: false, Error: "Link not found"})
		case errors.Is(err, service.ErrDeferredNotFound):
			respondJSON(w, http.StatusNotFound, models.DeferredResponse{Found: false, Error: "Deferred link not found"})
		default:
			h.log.Error("Failed to look up deferred link: %v", err)
			respondError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	respondJSON(w, http.StatusOK, resp)
}
