package events

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
)

const totalField = "total"

func StatsKey(shortCode string) string {
	return "visits:" + shortCode
}

type VisitStats struct {
	ShortCode string           `json:"shortCode"`
	Total     int64            `json:"total"`
	Platforms map[string]int64 `json:"platforms"`
}

type StatsReader struct {
	client *redis.Client
}

func NewStatsReader(client *redis.Client) *StatsReader {
	return &StatsReader{client: client}
}

// Get returns zero counts for links that have not been visited yet.
func (r *StatsReader) Get(ctx context.Context, shortCode string) (*VisitStats, error) {
	values, err := r.client.HGetAll(ctx, StatsKey(shortCode)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read visit stats: %w", err)
	}
	return parseStats(shortCode, values), nil
}

func parseStats(shortCode string, values map[string]string) *VisitStats {
	stats := &VisitStats{
		ShortCode: shortCode,
		Platforms: make(map[string]int64),
	}

	for field, raw := range values {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			continue
		}
		if field == totalField {
			stats.Total = n
		} else {
			stats.Platforms[field] = n
		}
	}

	return stats
}
