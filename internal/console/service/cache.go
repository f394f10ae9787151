package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"lead_console_backend/internal/console/transport"
	"lead_console_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ViewCache keeps composed lead views per organization for a short TTL.
// Every method degrades to a no-op on redis failure so composition never
// depends on the cache being up.
type ViewCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *logger.Logger
}

func NewViewCache(client *redis.Client, ttl time.Duration, log *logger.Logger) *ViewCache {
	if client == nil || ttl <= 0 {
		return nil
	}
	return &ViewCache{client: client, ttl: ttl, log: log}
}

func cacheKey(organizationID uuid.UUID) string {
	return fmt.Sprintf("console:lead-views:%s", organizationID)
}

func (c *ViewCache) Get(ctx context.Context, organizationID uuid.UUID) ([]transport.LeadViewResponse, bool) {
	data, err := c.client.Get(ctx, cacheKey(organizationID)).Bytes()
	if err != nil {
		if err != redis.Nil && c.log != nil {
			c.log.Warn("lead view cache read failed", "error", err)
		}
		return nil, false
	}

	var views []transport.LeadViewResponse
	if err := json.Unmarshal(data, &views); err != nil {
		return nil, false
	}
	return views, true
}

func (c *ViewCache) Set(ctx context.Context, organizationID uuid.UUID, views []transport.LeadViewResponse) {
	data, err := json.Marshal(views)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, cacheKey(organizationID), data, c.ttl).Err(); err != nil && c.log != nil {
		c.log.Warn("lead view cache write failed", "error", err)
	}
}

func (c *ViewCache) Invalidate(ctx context.Context, organizationID uuid.UUID) {
	if err := c.client.Del(ctx, cacheKey(organizationID)).Err(); err != nil && c.log != nil {
		c.log.Warn("lead view cache invalidation failed", "error", err)
	}
}
