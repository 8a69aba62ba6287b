package models

import "time"

type Link struct {
	ID              string                 `json:"id"`
	ShortCode       string                 `json:"shortCode"`
	OriginalURL     string                 `json:"originalUrl"`
	Title           string                 `json:"title"`
	Description     string                 `json:"description"`
	Image           string                 `json:"image"`
	IOSURL          string                 `json:"iosUrl"`
	AndroidURL      string                 `json:"androidUrl"`
	WebURL          string                 `json:"webUrl"`
	IOSFallback     string                 `json:"iosFallback"`
	AndroidFallback string                 `json:"androidFallback"`
	CustomParams    map[string]interface{} `json:"customParams"`
	CreatedAt       int64                  `json:"createdAt"`
}

// LinkIDPrefix marks link identifiers; the remainder is the short code.
const LinkIDPrefix = "link_"

func LinkID(shortCode string) string {
	return LinkIDPrefix + shortCode
}

// DeepLinkData is the payload handed to the app: the caller's custom
// params overlaid with originalUrl, linkId and a millisecond timestamp.
func (l *Link) DeepLinkData(now time.Time) map[string]interface{} {
	data := make(map[string]interface{}, len(l.CustomParams)+3)
	for k, v := range l.CustomParams {
		data[k] = v
	}
	data["originalUrl"] = l.OriginalURL
	data["linkId"] = l.ID
	data["timestamp"] = now.UnixMilli()
	return data
}

func (l *Link) Summary() LinkSummary {
	return LinkSummary{
		ShortCode:   l.ShortCode,
		Title:       l.Title,
		OriginalURL: l.OriginalURL,
		CreatedAt:   l.CreatedAt,
	}
}

type CreateLinkRequest struct {
	OriginalURL     string                 `json:"originalUrl"`
	WebURL          string                 `json:"webUrl"`
	Title           string                 `json:"title"`
	Description     string                 `json:"description"`
	Image           string                 `json:"image"`
	IOSURL          string                 `json:"iosUrl"`
	AndroidURL      string                 `json:"androidUrl"`
	IOSFallback     string                 `json:"iosFallback"`
	AndroidFallback string                 `json:"androidFallback"`
	CustomParams    map[string]interface{} `json:"customParams"`
	CustomCode      string                 `json:"customCode,omitempty"`
}

type CreateLinkResponse struct {
	ShortURL    string `json:"shortUrl"`
	ShortCode   string `json:"shortCode"`
	LinkID      string `json:"linkId"`
	OriginalURL string `json:"originalUrl"`
	CreatedAt   int64  `json:"createdAt"`
}

type LinkSummary struct {
	ShortCode   string `json:"shortCode"`
	Title       string `json:"title"`
	OriginalURL string `json:"originalUrl"`
	CreatedAt   int64  `json:"createdAt"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type HealthResponse struct {
	Status     string `json:"status"`
	Timestamp  int64  `json:"timestamp"`
	LinksCount int64  `json:"linksCount"`
}
