package models

import "time"

// DeferredEntry remembers where a visitor was headed before being sent to
// an app store, so the freshly installed app can pick it up once.
type DeferredEntry struct {
	Key       string                 `json:"key"`
	LinkID    string                 `json:"linkId"`
	URL       string                 `json:"url"`
	Params    map[string]interface{} `json:"params,omitempty"`
	Platform  string                 `json:"platform"`
	CreatedAt int64                  `json:"createdAt"`
	ExpiresAt int64                  `json:"expiresAt"`
}

func (e *DeferredEntry) Expired(now time.Time) bool {
	return now.UnixMilli() >= e.ExpiresAt
}

type DeferredResponse struct {
	Found       bool                   `json:"found"`
	URL         string                 `json:"url,omitempty"`
	Params      map[string]interface{} `json:"params,omitempty"`
	LinkID      string                 `json:"linkId,omitempty"`
	Title       string                 `json:"title,omitempty"`
	Description string                 `json:"description,omitempty"`
	Platform    string                 `json:"platform,omitempty"`
	CreatedAt   int64                  `json:"createdAt,omitempty"`
	Error       string                 `json:"error,omitempty"`
}
