package handlers

import (
	"net/http"

	"github.com/Varun5711/deeplinks/internal/middleware"
)

type Router struct {
	Links     *LinkHandler
	Redirect  *RedirectHandler
	Deferred  *DeferredHandler
	WellKnown *WellKnownHandler
	Status    *StatusHandler
	Stats     *StatsHandler
	Docs      *SwaggerHandler
	Auth      *middleware.AuthMiddleware
}

// Routes registers every endpoint. Management routes go through Auth, which
// is a pass-through when no token secret is configured.
func (rt *Router) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/create-link", rt.Auth.RequireToken(rt.Links.CreateLink))
	mux.HandleFunc("GET /api/links", rt.Auth.RequireToken(rt.Links.ListLinks))
	mux.HandleFunc("GET /api/link/{shortCode}", rt.Links.GetLink)
	mux.HandleFunc("DELETE /api/link/{shortCode}", rt.Auth.RequireToken(rt.Links.DeleteLink))
	mux.HandleFunc("GET /api/link/{shortCode}/qr", rt.Links.QRCode)
	if rt.Stats != nil {
		mux.HandleFunc("GET /api/link/{shortCode}/stats", rt.Auth.RequireToken(rt.Stats.LinkStats))
	}

	mux.HandleFunc("GET /api/deferred/{key}", rt.Deferred.Lookup)
	mux.HandleFunc("GET /api/deferred", rt.Deferred.LookupSelf)

	mux.HandleFunc("GET /.well-known/apple-app-site-association", rt.WellKnown.AppleAppSiteAssociation)
	mux.HandleFunc("GET /.well-known/assetlinks.json", rt.WellKnown.AssetLinks)

	if rt.Docs != nil {
		mux.HandleFunc("GET /docs", rt.Docs.ServeSwaggerUI)
		mux.HandleFunc("GET /docs/openapi.yaml", rt.Docs.ServeSpec)
	}

	mux.HandleFunc("GET /health", rt.Status.Health)
	mux.HandleFunc("GET /{$}", rt.Status.Home)
	mux.HandleFunc("GET /{shortCode}", rt.Redirect.HandleRedirect)

	mux.HandleFunc("/", NotFound)

	return mux
}
