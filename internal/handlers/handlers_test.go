package handlers

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"html"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/Varun5711/deeplinks/internal/cache"
	"github.com/Varun5711/deeplinks/internal/config"
	"github.com/Varun5711/deeplinks/internal/fingerprint"
	"github.com/Varun5711/deeplinks/internal/middleware"
	"github.com/Varun5711/deeplinks/internal/models"
	"github.com/Varun5711/deeplinks/internal/service"
	"github.com/Varun5711/deeplinks/internal/storage"
)

const (
	iPhoneUA  = "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1"
	androidUA = "Mozilla/5.0 (Linux; Android 14; Pixel 8) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Mobile Safari/537.36"
	desktopUA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	mobileUA  = "Mozilla/5.0 (Mobile; rv:115.0) Gecko/115.0 Firefox/115.0"
	botUA     = "Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)"
)

func testConfig() *config.Config {
	return &config.Config{
		Env: "development",
		Server: config.ServerConfig{
			Port:    "3000",
			Domain:  "links.example.com",
			BaseURL: "https://links.example.com",
		},
		App: config.AppConfig{
			Name:              "ZuAI",
			IOSAppID:          "id1609941536",
			IOSTeamID:         "TEAM123",
			IOSBundleID:       "in.zupay.app",
			AndroidPackage:    "in.zupay.app",
			AndroidCertSHA256: []string{"AA:BB"},
			DefaultIOSURL:     "zuaiapp://zuai.co/",
			DefaultAndroidURL: "zuaiapp://zuai.co/",
			IOSStoreURL:       "https://apps.apple.com/app/id1609941536",
			AndroidStoreURL:   "https://play.google.com/store/apps/details?id=in.zupay.app",
			DefaultTitle:      "Open in App?",
			DefaultImage:      "https://cdn.example.com/og.png",
		},
		Responder: config.ResponderConfig{
			AppOpenTimeout:  3 * time.Second,
			DeferredTTL:     24 * time.Hour,
			ShortCodeLength: 8,
		},
	}
}

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	cfg := testConfig()

	links := service.NewLinkService(storage.NewMemoryStorage(), cache.NewLinkCache(100, nil, time.Hour), cfg)
	deferred := service.NewDeferredService(storage.NewMemoryDeferredStore(), links, cfg.Responder.DeferredTTL)

	rt := &Router{
		Links:     NewLinkHandler(links),
		Redirect:  NewRedirectHandler(links, deferred, nil, cfg),
		Deferred:  NewDeferredHandler(deferred),
		WellKnown: NewWellKnownHandler(cfg.App),
		Status:    NewStatusHandler(links, cfg),
		Docs:      NewSwaggerHandler(),
		Auth:      middleware.NewAuthMiddleware(nil),
	}
	return rt.Routes()
}

func do(t *testing.T, h http.Handler, method, target string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, target, reader)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func createLink(t *testing.T, h http.Handler, req models.CreateLinkRequest) models.CreateLinkResponse {
	t.Helper()

	rec := do(t, h, http.MethodPost, "/api/create-link", req, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("create-link: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp models.CreateLinkResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode create response: %v", err)
	}
	return resp
}

func appLinkRequest() models.CreateLinkRequest {
	return models.CreateLinkRequest{
		OriginalURL:     "https://example.com/promo",
		Title:           "Spring Sale",
		IOSURL:          "myapp-ios://open/path",
		AndroidURL:      "myapp-android://open/path",
		IOSFallback:     "https://apps.apple.com/app/id42",
		AndroidFallback: "https://play.google.com/store/apps/details?id=com.example",
		CustomParams:    map[string]interface{}{"campaign": "spring"},
	}
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body models.ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode error body: %v", err)
	}
	return body.Error
}

func TestCreateLink(t *testing.T) {
	h := newTestServer(t)

	resp := createLink(t, h, models.CreateLinkRequest{OriginalURL: "https://example.com"})

	if resp.ShortCode == "" {
		t.Fatal("expected short code")
	}
	if resp.ShortURL != "https://links.example.com/"+resp.ShortCode {
		t.Errorf("unexpected short URL: %s", resp.ShortURL)
	}
	if resp.LinkID != "link_"+resp.ShortCode {
		t.Errorf("unexpected link id: %s", resp.LinkID)
	}
	if resp.OriginalURL != "https://example.com" {
		t.Errorf("unexpected original URL: %s", resp.OriginalURL)
	}
	if resp.CreatedAt == 0 {
		t.Error("expected createdAt")
	}
}

func TestCreateLink_Errors(t *testing.T) {
	h := newTestServer(t)

	tests := []struct {
		name    string
		body    interface{}
		status  int
		message string
	}{
		{"missing destination", map[string]string{"title": "x"}, http.StatusBadRequest, "originalUrl or webUrl is required"},
		{"invalid json", "{not json", http.StatusBadRequest, "Invalid JSON body"},
		{"bad scheme", map[string]string{"originalUrl": "ftp://example.com"}, http.StatusBadRequest, "originalUrl must use http or https"},
		{"local app scheme", map[string]string{"originalUrl": "https://example.com", "iosUrl": "file:///etc/passwd"}, http.StatusBadRequest, "iosUrl uses a forbidden scheme"},
		{"blob app scheme", map[string]string{"originalUrl": "https://example.com", "androidUrl": "blob:https://example.com/x"}, http.StatusBadRequest, "androidUrl uses a forbidden scheme"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/api/create-link", tt.body, nil)
			if rec.Code != tt.status {
				t.Fatalf("expected %d, got %d", tt.status, rec.Code)
			}
			if msg := errorMessage(t, rec); msg != tt.message {
				t.Errorf("expected message %q, got %q", tt.message, msg)
			}
		})
	}
}

func TestCreateLink_DuplicateCustomCode(t *testing.T) {
	h := newTestServer(t)

	createLink(t, h, models.CreateLinkRequest{OriginalURL: "https://example.com", CustomCode: "promo-2026"})

	rec := do(t, h, http.MethodPost, "/api/create-link",
		models.CreateLinkRequest{OriginalURL: "https://example.com", CustomCode: "promo-2026"}, nil)
	if rec.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", rec.Code)
	}
}

func TestGetLink(t *testing.T) {
	h := newTestServer(t)
	created := createLink(t, h, appLinkRequest())

	rec := do(t, h, http.MethodGet, "/api/link/"+created.ShortCode, nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var link models.Link
	if err := json.NewDecoder(rec.Body).Decode(&link); err != nil {
		t.Fatalf("failed to decode link: %v", err)
	}
	if link.ID != created.LinkID || link.IOSURL != "myapp-ios://open/path" || link.Title != "Spring Sale" {
		t.Errorf("unexpected link record: %+v", link)
	}
	if link.CustomParams["campaign"] != "spring" {
		t.Errorf("expected custom params, got %v", link.CustomParams)
	}

	missing := do(t, h, http.MethodGet, "/api/link/nope1234", nil, nil)
	if missing.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", missing.Code)
	}
	if msg := errorMessage(t, missing); msg != "Link not found" {
		t.Errorf("unexpected message: %q", msg)
	}
}

func TestListLinks(t *testing.T) {
	h := newTestServer(t)

	empty := do(t, h, http.MethodGet, "/api/links", nil, nil)
	if strings.TrimSpace(empty.Body.String()) != "[]" {
		t.Errorf("expected empty array, got %s", empty.Body.String())
	}

	var created []models.CreateLinkResponse
	for i := 0; i < 3; i++ {
		created = append(created, createLink(t, h, models.CreateLinkRequest{OriginalURL: "https://example.com"}))
	}

	rec := do(t, h, http.MethodGet, "/api/links", nil, nil)
	var list []models.LinkSummary
	if err := json.NewDecoder(rec.Body).Decode(&list); err != nil {
		t.Fatalf("failed to decode list: %v", err)
	}

	if len(list) != len(created) {
		t.Fatalf("expected %d entries, got %d", len(created), len(list))
	}
	for i := range created {
		if list[i].ShortCode != created[i].ShortCode || list[i].CreatedAt != created[i].CreatedAt {
			t.Errorf("entry %d does not match creation: %+v vs %+v", i, list[i], created[i])
		}
		if list[i].Title != "Open in App?" {
			t.Errorf("expected default title, got %q", list[i].Title)
		}
	}
}

func TestDeleteLink(t *testing.T) {
	h := newTestServer(t)
	created := createLink(t, h, models.CreateLinkRequest{OriginalURL: "https://example.com"})

	if rec := do(t, h, http.MethodDelete, "/api/link/"+created.ShortCode, nil, nil); rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if rec := do(t, h, http.MethodGet, "/api/link/"+created.ShortCode, nil, nil); rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 after delete, got %d", rec.Code)
	}
	if rec := do(t, h, http.MethodDelete, "/api/link/"+created.ShortCode, nil, nil); rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 on second delete, got %d", rec.Code)
	}
}

func TestRedirect_IOS(t *testing.T) {
	h := newTestServer(t)
	created := createLink(t, h, appLinkRequest())

	rec := do(t, h, http.MethodGet, "/"+created.ShortCode, nil, map[string]string{"User-Agent": iPhoneUA})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	body := rec.Body.String()
	if !strings.Contains(body, `href="myapp-ios://open/path?`) {
		t.Error("expected page to reference the iOS app URL")
	}
	if !strings.Contains(body, `href="https://apps.apple.com/app/id42?dl_data=`) {
		t.Error("expected page to reference the iOS fallback with deep link data")
	}
	if strings.Contains(body, "myapp-android") {
		t.Error("iOS page must not reference the Android app URL")
	}
	if !strings.Contains(body, `<meta property="og:title" content="Spring Sale">`) {
		t.Error("expected Open Graph title")
	}
	if got := rec.Header().Get("Cache-Control"); got != "no-store" {
		t.Errorf("expected Cache-Control no-store, got %q", got)
	}
	if !strings.HasPrefix(rec.Header().Get("Content-Type"), "text/html") {
		t.Errorf("expected HTML content type, got %q", rec.Header().Get("Content-Type"))
	}
}

var storeHref = regexp.MustCompile(`id="open-store" class="store" href="([^"]+)"`)

func TestRedirect_FallbackCarriesDeepLinkData(t *testing.T) {
	h := newTestServer(t)
	created := createLink(t, h, appLinkRequest())

	rec := do(t, h, http.MethodGet, "/"+created.ShortCode, nil, map[string]string{"User-Agent": iPhoneUA})
	m := storeHref.FindStringSubmatch(rec.Body.String())
	if m == nil {
		t.Fatalf("store link not found in page: %s", rec.Body.String())
	}

	fallback, err := url.Parse(html.UnescapeString(m[1]))
	if err != nil {
		t.Fatalf("failed to parse fallback URL: %v", err)
	}
	if fallback.Host != "apps.apple.com" || fallback.Path != "/app/id42" {
		t.Errorf("unexpected fallback base: %s", fallback)
	}
	if got := fallback.Query().Get("link_id"); got != created.LinkID {
		t.Errorf("expected link_id %s, got %q", created.LinkID, got)
	}

	raw, err := base64.StdEncoding.DecodeString(fallback.Query().Get("dl_data"))
	if err != nil {
		t.Fatalf("dl_data is not base64: %v", err)
	}
	var data map[string]interface{}
	if err := json.Unmarshal(raw, &data); err != nil {
		t.Fatalf("dl_data is not JSON: %v", err)
	}

	if data["originalUrl"] != "https://example.com/promo" {
		t.Errorf("expected originalUrl, got %v", data["originalUrl"])
	}
	if data["linkId"] != created.LinkID {
		t.Errorf("expected linkId %s, got %v", created.LinkID, data["linkId"])
	}
	if data["campaign"] != "spring" {
		t.Errorf("expected campaign param, got %v", data["campaign"])
	}
	if ts, ok := data["timestamp"].(float64); !ok || ts <= 0 {
		t.Errorf("expected millisecond timestamp, got %v", data["timestamp"])
	}
}

func TestRedirect_CrawlerLeavesNoDeferredEntry(t *testing.T) {
	h := newTestServer(t)
	created := createLink(t, h, appLinkRequest())

	headers := map[string]string{"User-Agent": botUA, "Accept-Language": "en-US"}
	rec := do(t, h, http.MethodGet, "/"+created.ShortCode, nil, headers)
	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302 for crawler, got %d", rec.Code)
	}

	if rec := do(t, h, http.MethodGet, "/api/deferred", nil, headers); rec.Code != http.StatusNotFound {
		t.Errorf("expected no deferred entry for crawler, got %d", rec.Code)
	}
}

func TestRedirect_Android(t *testing.T) {
	h := newTestServer(t)
	created := createLink(t, h, appLinkRequest())

	rec := do(t, h, http.MethodGet, "/"+created.ShortCode, nil, map[string]string{"User-Agent": androidUA})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	body := rec.Body.String()
	if !strings.Contains(body, `href="myapp-android://open/path?`) {
		t.Error("expected page to reference the Android app URL")
	}
	if !strings.Contains(body, `href="https://play.google.com/store/apps/details?`) {
		t.Error("expected page to reference the Android fallback")
	}
	if strings.Contains(body, "myapp-ios") {
		t.Error("Android page must not reference the iOS app URL")
	}
}

func TestRedirect_WebPlatforms(t *testing.T) {
	h := newTestServer(t)
	req := appLinkRequest()
	req.WebURL = "https://example.com/web"
	created := createLink(t, h, req)

	for _, ua := range []string{desktopUA, mobileUA, ""} {
		rec := do(t, h, http.MethodGet, "/"+created.ShortCode, nil, map[string]string{"User-Agent": ua})
		if rec.Code != http.StatusFound {
			t.Fatalf("UA %q: expected 302, got %d", ua, rec.Code)
		}
		if loc := rec.Header().Get("Location"); loc != "https://example.com/web" {
			t.Errorf("UA %q: expected redirect to web URL, got %q", ua, loc)
		}
	}
}

func TestRedirect_UnknownCode(t *testing.T) {
	h := newTestServer(t)

	rec := do(t, h, http.MethodGet, "/doesnotexist", nil, map[string]string{"User-Agent": iPhoneUA})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Link Not Found") {
		t.Error("expected Link Not Found page")
	}
}

func TestRedirect_EscapesCallerValues(t *testing.T) {
	h := newTestServer(t)
	req := appLinkRequest()
	req.CustomParams = map[string]interface{}{"payload": `</script><script>alert(1)</script>`}
	created := createLink(t, h, req)

	rec := do(t, h, http.MethodGet, "/"+created.ShortCode, nil, map[string]string{"User-Agent": iPhoneUA})
	body := rec.Body.String()

	if strings.Contains(body, "<script>alert(1)") || strings.Contains(body, "</script><script>") {
		t.Error("caller-supplied value reached the page unescaped")
	}
}

func TestDeferred_FingerprintSingleUse(t *testing.T) {
	h := newTestServer(t)
	created := createLink(t, h, appLinkRequest())

	headers := map[string]string{
		"User-Agent":      iPhoneUA,
		"Accept-Language": "en-US",
		"X-Forwarded-For": "203.0.113.7",
	}

	do(t, h, http.MethodGet, "/"+created.ShortCode, nil, headers)

	visit := httptest.NewRequest(http.MethodGet, "/", nil)
	for k, v := range headers {
		visit.Header.Set(k, v)
	}
	key := fingerprint.FromRequest(visit)

	rec := do(t, h, http.MethodGet, "/api/deferred/"+key, nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp models.DeferredResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}
	if !resp.Found || resp.URL != "https://example.com/promo" || resp.LinkID != created.LinkID {
		t.Errorf("unexpected deferred response: %+v", resp)
	}
	if resp.Params["campaign"] != "spring" || resp.Params["linkId"] != created.LinkID {
		t.Errorf("expected deep link data in params, got %v", resp.Params)
	}
	if resp.Platform != "ios" {
		t.Errorf("expected platform ios, got %q", resp.Platform)
	}

	again := do(t, h, http.MethodGet, "/api/deferred/"+key, nil, nil)
	if again.Code != http.StatusNotFound {
		t.Fatalf("expected 404 on second lookup, got %d", again.Code)
	}
	var miss models.DeferredResponse
	json.NewDecoder(again.Body).Decode(&miss)
	if miss.Found || miss.Error == "" {
		t.Errorf("expected found=false with error, got %+v", miss)
	}
}

func TestDeferred_SelfLookup(t *testing.T) {
	h := newTestServer(t)
	created := createLink(t, h, appLinkRequest())

	headers := map[string]string{"User-Agent": androidUA, "Accept-Language": "de-DE"}
	do(t, h, http.MethodGet, "/"+created.ShortCode, nil, headers)

	rec := do(t, h, http.MethodGet, "/api/deferred", nil, headers)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	if rec := do(t, h, http.MethodGet, "/api/deferred", nil, headers); rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 after consumption, got %d", rec.Code)
	}
}

func TestDeferred_ByLinkID(t *testing.T) {
	h := newTestServer(t)
	created := createLink(t, h, appLinkRequest())

	for i := 0; i < 2; i++ {
		rec := do(t, h, http.MethodGet, "/api/deferred/"+created.LinkID, nil, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("lookup %d: expected 200, got %d", i+1, rec.Code)
		}
		var resp models.DeferredResponse
		json.NewDecoder(rec.Body).Decode(&resp)
		if resp.Title != "Spring Sale" || resp.URL != "https://example.com/promo" {
			t.Errorf("lookup %d: unexpected response %+v", i+1, resp)
		}
	}

	for _, key := range []string{"link_missing", "0000000000000000"} {
		rec := do(t, h, http.MethodGet, "/api/deferred/"+key, nil, nil)
		if rec.Code != http.StatusNotFound {
			t.Errorf("key %s: expected 404, got %d", key, rec.Code)
		}
	}
}

func TestWellKnown(t *testing.T) {
	h := newTestServer(t)

	aasa := do(t, h, http.MethodGet, "/.well-known/apple-app-site-association", nil, nil)
	if aasa.Code != http.StatusOK || aasa.Header().Get("Content-Type") != "application/json" {
		t.Fatalf("unexpected AASA response: %d %s", aasa.Code, aasa.Header().Get("Content-Type"))
	}
	var assoc appleAppSiteAssociation
	json.NewDecoder(aasa.Body).Decode(&assoc)
	if len(assoc.Applinks.Details) != 1 || assoc.Applinks.Details[0].AppID != "TEAM123.in.zupay.app" {
		t.Errorf("unexpected AASA body: %+v", assoc)
	}

	rec := do(t, h, http.MethodGet, "/.well-known/assetlinks.json", nil, nil)
	var links []assetLink
	json.NewDecoder(rec.Body).Decode(&links)
	if len(links) != 1 || links[0].Target.PackageName != "in.zupay.app" || links[0].Target.SHA256CertFingerprints[0] != "AA:BB" {
		t.Errorf("unexpected assetlinks body: %+v", links)
	}
}

func TestHealthAndHome(t *testing.T) {
	h := newTestServer(t)
	createLink(t, h, models.CreateLinkRequest{OriginalURL: "https://example.com"})

	rec := do(t, h, http.MethodGet, "/health", nil, nil)
	var health models.HealthResponse
	json.NewDecoder(rec.Body).Decode(&health)
	if health.Status != "ok" || health.LinksCount != 1 || health.Timestamp == 0 {
		t.Errorf("unexpected health response: %+v", health)
	}

	home := do(t, h, http.MethodGet, "/", nil, nil)
	if home.Code != http.StatusOK || !strings.Contains(home.Body.String(), "links.example.com") {
		t.Errorf("unexpected status page: %d", home.Code)
	}
}

func TestQRCode(t *testing.T) {
	h := newTestServer(t)
	created := createLink(t, h, models.CreateLinkRequest{OriginalURL: "https://example.com"})

	rec := do(t, h, http.MethodGet, "/api/link/"+created.ShortCode+"/qr?size=200", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Header().Get("Content-Type") != "image/png" {
		t.Errorf("expected image/png, got %q", rec.Header().Get("Content-Type"))
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("\x89PNG")) {
		t.Error("expected PNG signature")
	}

	if rec := do(t, h, http.MethodGet, "/api/link/missing1/qr", nil, nil); rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown code, got %d", rec.Code)
	}
}

func TestDocs(t *testing.T) {
	h := newTestServer(t)

	rec := do(t, h, http.MethodGet, "/docs/openapi.yaml", nil, nil)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "/api/create-link") {
		t.Errorf("expected OpenAPI document, got %d", rec.Code)
	}
}

func TestUnknownRoute(t *testing.T) {
	h := newTestServer(t)

	for _, tt := range []struct{ method, path string }{
		{http.MethodGet, "/api/unknown"},
		{http.MethodPost, "/abc123"},
		{http.MethodGet, "/a/b/c"},
	} {
		rec := do(t, h, tt.method, tt.path, nil, nil)
		if rec.Code != http.StatusNotFound {
			t.Errorf("%s %s: expected 404, got %d", tt.method, tt.path, rec.Code)
			continue
		}
		if msg := errorMessage(t, rec); msg != "Route not found" {
			t.Errorf("%s %s: unexpected message %q", tt.method, tt.path, msg)
		}
	}
}
