package handlers

import (
	"bytes"
	"context"
	"errors"
	"html/template"
	"net/http"
	"time"

	"github.com/Varun5711/deeplinks/internal/config"
	"github.com/Varun5711/deeplinks/internal/enrichment"
	"github.com/Varun5711/deeplinks/internal/events"
	"github.com/Varun5711/deeplinks/internal/fingerprint"
	"github.com/Varun5711/deeplinks/internal/logger"
	"github.com/Varun5711/deeplinks/internal/models"
	"github.com/Varun5711/deeplinks/internal/service"
)

const (
	initialOpenDelay   = 100 * time.Millisecond
	sideEffectDeadline = 2 * time.Second
)

type RedirectHandler struct {
	links          *service.LinkService
	deferred       *service.DeferredService
	publisher      events.Publisher
	appName        string
	appOpenTimeout time.Duration
	log            *logger.Logger
	now            func() time.Time
}

// NewRedirectHandler builds the responder. publisher may be nil.
func NewRedirectHandler(links *service.LinkService, deferred *service.DeferredService, publisher events.Publisher, cfg *config.Config) *RedirectHandler {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}

	return &RedirectHandler{
		links:          links,
		deferred:       deferred,
		publisher:      publisher,
		appName:        cfg.App.Name,
		appOpenTimeout: cfg.Responder.AppOpenTimeout,
		log:            logger.New("redirect"),
		now:            time.Now,
	}
}

func (h *RedirectHandler) HandleRedirect(w http.ResponseWriter, r *http.Request) {
	shortCode := r.PathValue("shortCode")

	link, err := h.links.Get(r.Context(), shortCode)
	if err != nil {
		if errors.Is(err, service.ErrLinkNotFound) {
			renderHTML(w, http.StatusNotFound, notFoundTemplate, nil)
			return
		}
		h.log.Error("Failed to get link %s: %v", shortCode, err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	uaInfo := enrichment.ParseUserAgent(r.UserAgent())
	platform := uaInfo.Platform

	h.log.Info("Link accessed: %s from %s", shortCode, platform)

	now := h.now()
	data := link.DeepLinkData(now)

	// Link-preview crawlers unfurl links without a human behind them.
	if !uaInfo.IsBot() {
		h.recordDeferred(r, link, data, platform)
		h.publishVisit(r, link, uaInfo, now)
	}

	if !platform.HasApp() {
		http.Redirect(w, r, link.WebURL, http.StatusFound)
		return
	}

	appURL, storeURL := link.IOSURL, link.IOSFallback
	if platform == enrichment.PlatformAndroid {
		appURL, storeURL = link.AndroidURL, link.AndroidFallback
	}

	deepLinkURL, err := appendParams(appURL, data)
	if err != nil {
		h.log.Error("Failed to build deep link for %s: %v", shortCode, err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	fallback, err := fallbackURL(storeURL, link.ID, data)
	if err != nil {
		h.log.Error("Failed to build fallback URL for %s: %v", shortCode, err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	page := appPageData{
		Title:       link.Title,
		Description: link.Description,
		Image:       link.Image,
		ShortURL:    h.links.ShortURL(link.ShortCode),
		AppName:     h.appName,
		Platform:    string(platform),
		// App URLs are scheme-checked at creation; custom schemes would
		// otherwise be rewritten to #ZgotmplZ.
		AppURL:      template.URL(deepLinkURL),
		FallbackURL: fallback,
		Data:        data,
		InitialMs:   initialOpenDelay.Milliseconds(),
		TimeoutMs:   h.appOpenTimeout.Milliseconds(),
	}

	w.Header().Set("Cache-Control", "no-store")
	renderHTML(w, http.StatusOK, appPageTemplate, page)
}

// recordDeferred is best effort; the visitor still gets a response.
func (h *RedirectHandler) recordDeferred(r *http.Request, link *models.Link, data map[string]interface{}, platform enrichment.Platform) {
	if h.deferred == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), sideEffectDeadline)
	defer cancel()

	key := fingerprint.FromRequest(r)
	if _, err := h.deferred.Record(ctx, key, link, data, string(platform)); err != nil {
		h.log.Warn("Failed to store deferred link for %s: %v", link.ShortCode, err)
	}
}

func (h *RedirectHandler) publishVisit(r *http.Request, link *models.Link, uaInfo *enrichment.UAInfo, now time.Time) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), sideEffectDeadline)
	defer cancel()

	visit := &events.VisitEvent{
		ShortCode: link.ShortCode,
		LinkID:    link.ID,
		Platform:  string(uaInfo.Platform),
		Browser:   uaInfo.Browser,
		OS:        uaInfo.OS,
		Timestamp: now.UnixMilli(),
		IP:        fingerprint.ClientIP(r),
		UserAgent: r.UserAgent(),
		Referer:   r.Referer(),
	}
	if err := h.publisher.Publish(ctx, visit); err != nil {
		h.log.Warn("Failed to publish visit event: %v", err)
	}
}

func renderHTML(w http.ResponseWriter, status int, tmpl *template.Template, data interface{}) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}
