package events

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// VisitProducer appends visit events to a redis stream for downstream
// consumers.
type VisitProducer struct {
	client     *redis.Client
	streamName string
	maxLen     int64
}

func NewVisitProducer(client *redis.Client, streamName string) *VisitProducer {
	return &VisitProducer{
		client:     client,
		streamName: streamName,
		maxLen:     100000,
	}
}

func (p *VisitProducer) Publish(ctx context.Context, event *VisitEvent) error {
	result := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.streamName,
		MaxLen: p.maxLen,
		Approx: true,
		Values: eventFields(event),
	})

	if err := result.Err(); err != nil {
		return fmt.Errorf("failed to publish visit event: %w", err)
	}

	return nil
}

func eventFields(event *VisitEvent) map[string]interface{} {
	fields := map[string]interface{}{
		"short_code": event.ShortCode,
		"link_id":    event.LinkID,
		"platform":   event.Platform,
		"timestamp":  event.Timestamp,
	}

	optional := map[string]string{
		"browser":    event.Browser,
		"os":         event.OS,
		"ip":         event.IP,
		"user_agent": event.UserAgent,
		"referer":    event.Referer,
	}
	for key, value := range optional {
		if value != "" {
			fields[key] = value
		}
	}

	return fields
}
