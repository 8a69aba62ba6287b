package handlers

import (
	"net/http"

	"github.com/Varun5711/deeplinks/internal/config"
)

type appleAppSiteAssociation struct {
	Applinks appLinks `json:"applinks"`
}

type appLinks struct {
	Apps    []string        `json:"apps"`
	Details []appLinkDetail `json:"details"`
}

type appLinkDetail struct {
	AppID string   `json:"appID"`
	Paths []string `json:"paths"`
}

type assetLink struct {
	Relation []string        `json:"relation"`
	Target   assetLinkTarget `json:"target"`
}

type assetLinkTarget struct {
	Namespace              string   `json:"namespace"`
	PackageName            string   `json:"package_name"`
	SHA256CertFingerprints []string `json:"sha256_cert_fingerprints"`
}

// WellKnownHandler serves the association files iOS and Android fetch to
// verify that this domain may open the app directly.
type WellKnownHandler struct {
	aasa       appleAppSiteAssociation
	assetLinks []assetLink
}

func NewWellKnownHandler(app config.AppConfig) *WellKnownHandler {
	appID := app.IOSBundleID
	if app.IOSTeamID != "" {
		appID = app.IOSTeamID + "." + app.IOSBundleID
	}

	fingerprints := app.AndroidCertSHA256
	if fingerprints == nil {
		fingerprints = []string{}
	}

	return &WellKnownHandler{
		aasa: appleAppSiteAssociation{
			Applinks: appLinks{
				Apps: []string{},
				Details: []appLinkDetail{
					{AppID: appID, Paths: []string{"*"}},
				},
			},
		},
		assetLinks: []assetLink{
			{
				Relation: []string{"delegate_permission/common.handle_all_urls"},
				Target: assetLinkTarget{
					Namespace:              "android_app",
					PackageName:            app.AndroidPackage,
					SHA256CertFingerprints: fingerprints,
				},
			},
		},
	}
}

func (h *WellKnownHandler) AppleAppSiteAssociation(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.aasa)
}

func (h *WellKnownHandler) AssetLinks(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.assetLinks)
}
