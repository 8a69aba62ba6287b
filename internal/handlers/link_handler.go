package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Varun5711/deeplinks/internal/logger"
	"github.com/Varun5711/deeplinks/internal/middleware"
	"github.com/Varun5711/deeplinks/internal/models"
	"github.com/Varun5711/deeplinks/internal/qrcode"
	"github.com/Varun5711/deeplinks/internal/service"
)

type LinkHandler struct {
	links *service.LinkService
	log   *logger.Logger
}

func NewLinkHandler(links *service.LinkService) *LinkHandler {
	return &LinkHandler{
		links: links,
		log:   logger.New("link-handler"),
	}
}

func (h *LinkHandler) CreateLink(w http.ResponseWriter, r *http.Request) {
	var req models.CreateLinkRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.links.Create(r.Context(), &req)
	if err != nil {
		var verr *service.ValidationError
		switch {
		case errors.As(err, &verr):
			respondError(w, http.StatusBadRequest, verr.Message)
		case errors.Is(err, service.ErrCodeTaken):
			respondError(w, http.StatusConflict, "Custom code is already in use")
		default:
			h.log.Error("Failed to create link: %v", err)
			respondError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	if client := middleware.GetClient(r.Context()); client != "" {
		h.log.Info("Link %s created by client %s", resp.ShortCode, client)
	}

	respondJSON(w, http.StatusOK, resp)
}

func (h *LinkHandler) GetLink(w http.ResponseWriter, r *http.Request) {
	link, ok := h.lookup(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, link)
}

func (h *LinkHandler) ListLinks(w http.ResponseWriter, r *http.Request) {
	links, err := h.links.List(r.Context())
	if err != nil {
		h.log.Error("Failed to list links: %v", err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	respondJSON(w, http.StatusOK, links)
}

func (h *LinkHandler) DeleteLink(w http.ResponseWriter, r *http.Request) {
	shortCode := r.PathValue("shortCode")

	if err := h.links.Delete(r.Context(), shortCode); err != nil {
		if errors.Is(err, service.ErrLinkNotFound) {
			respondError(w, http.StatusNotFound, "Link not found")
			return
		}
		h.log.Error("Failed to delete link %s: %v", shortCode, err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// QRCode renders the link's short URL as a PNG. ?size= is clamped.
func (h *LinkHandler) QRCode(w http.ResponseWriter, r *http.Request) {
	link, ok := h.lookup(w, r)
	if !ok {
		return
	}

	size, _ := strconv.Atoi(r.URL.Query().Get("size"))
	png, err := qrcode.GeneratePNG(h.links.ShortURL(link.ShortCode), size)
	if err != nil {
		h.log.Error("Failed to render QR code for %s: %v", link.ShortCode, err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(png)))
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

func (h *LinkHandler) lookup(w http.ResponseWriter, r *http.Request) (*models.Link, bool) {
	shortCode := r.PathValue("shortCode")

	link, err := h.links.Get(r.Context(), shortCode)
	if err != nil {
		if errors.Is(err, service.ErrLinkNotFound) {
			respondError(w, http.StatusNotFound, "Link not found")
			return nil, false
		}
		h.log.Error("Failed to get link %s: %v", shortCode, err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return nil, false
	}

	return link, true
}
