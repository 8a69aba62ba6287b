package events

import "context"

type VisitEvent struct {
	ShortCode string
	LinkID    string
	Platform  string
	Browser   string
	OS        string
	Timestamp int64
	IP        string
	UserAgent string
	Referer   string
}

type Publisher interface {
	Publish(ctx context.Context, event *VisitEvent) error
}

// NoopPublisher drops events; used when redis is not configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(ctx context.Context, event *VisitEvent) error {
	return nil
}
