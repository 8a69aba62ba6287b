package events

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Varun5711/deeplinks/internal/logger"
	"github.com/redis/go-redis/v9"
)

const retryDelay = time.Second

// VisitConsumer reads the visit stream as part of a consumer group and folds
// each batch into the per-link counters read by StatsReader.
type VisitConsumer struct {
	client    *redis.Client
	stream    string
	group     string
	consumer  string
	batchSize int64
	block     time.Duration
	log       *logger.Logger
}

func NewVisitConsumer(client *redis.Client, stream, group, consumer string, batchSize int, block time.Duration) *VisitConsumer {
	if batchSize <= 0 {
		batchSize = 100
	}
	return &VisitConsumer{
		client:    client,
		stream:    stream,
		group:     group,
		consumer:  consumer,
		batchSize: int64(batchSize),
		block:     block,
		log:       logger.New("visit-consumer"),
	}
}

// EnsureGroup creates the consumer group (and the stream) if missing.
func (c *VisitConsumer) EnsureGroup(ctx context.Context) error {
	err := c.client.XGroupCreateMkStream(ctx, c.stream, c.group, "0").Err()
	if err != nil && !strings.HasPrefix(err.Error(), "BUSYGROUP") {
		return fmt.Errorf("failed to create consumer group: %w", err)
	}
	return nil
}

// Run consumes until ctx is cancelled.
func (c *VisitConsumer) Run(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			return nil
		}

		n, err := c.ProcessBatch(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			c.log.Error("Failed to process visit batch: %v", err)

			select {
			case <-ctx.Done():
				return nil
			case <-time.After(retryDelay):
			}
			continue
		}

		if n > 0 {
			c.log.Debug("Processed %d visit events", n)
		}
	}
}

// ProcessBatch reads at most one batch, applies it and acknowledges it. It
// returns the number of messages handled.
func (c *VisitConsumer) ProcessBatch(ctx context.Context) (int, error) {
	streams, err := c.client.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    c.group,
		Consumer: c.consumer,
		Streams:  []string{c.stream, ">"},
		Count:    c.batchSize,
		Block:    c.block,
	}).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read from stream: %w", err)
	}

	handled := 0
	for _, stream := range streams {
		if len(stream.Messages) == 0 {
			continue
		}

		counts, ids := tallyVisits(stream.Messages)
		for _, id := range ids.malformed {
			c.log.Warn("Invalid visit message format: %s", id)
		}

		if err := c.apply(ctx, counts); err != nil {
			return handled, err
		}

		all := append(ids.valid, ids.malformed...)
		if err := c.client.XAck(ctx, c.stream, c.group, all...).Err(); err != nil {
			return handled, fmt.Errorf("failed to acknowledge messages: %w", err)
		}
		handled += len(all)
	}

	return handled, nil
}

func (c *VisitConsumer) apply(ctx context.Context, counts map[string]map[string]int64) error {
	if len(counts) == 0 {
		return nil
	}

	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for shortCode, platforms := range counts {
			key := StatsKey(shortCode)
			for field, n := range platforms {
				pipe.HIncrBy(ctx, key, field, n)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to update visit counters: %w", err)
	}
	return nil
}

type messageIDs struct {
	valid     []string
	malformed []string
}

// tallyVisits groups messages by short code, counting the total and each
// platform.
func tallyVisits(messages []redis.XMessage) (map[string]map[string]int64, messageIDs) {
	counts := make(map[string]map[string]int64)
	var ids messageIDs

	for _, msg := range messages {
		shortCode, ok := msg.Values["short_code"].(string)
		if !ok || shortCode == "" {
			ids.malformed = append(ids.malformed, msg.ID)
			continue
		}

		fields, exists := counts[shortCode]
		if !exists {
			fields = make(map[string]int64)
			counts[shortCode] = fields
		}
		fields[totalField]++

		if platform, ok := msg.Values["platform"].(string); ok && platform != "" {
			fields[platform]++
		}

		ids.valid = append(ids.valid, msg.ID)
	}

	return counts, ids
}
