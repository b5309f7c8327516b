package search

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"ai-legalchat-be/pkg/store"

	"github.com/redis/go-redis/v9"
)

const cacheTTL = 10 * time.Minute

// CachedSearcher fronts a Searcher with a Redis read-through cache keyed by
// query text and k. Cache failures never fail the search.
type CachedSearcher struct {
	inner  Searcher
	client *redis.Client
	logger *log.Logger
}

var _ Searcher = &CachedSearcher{}

func NewCachedSearcher(inner Searcher, client *redis.Client, logger *log.Logger) *CachedSearcher {
	return &CachedSearcher{
		inner:  inner,
		client: client,
		logger: logger,
	}
}

func (c *CachedSearcher) Search(ctx context.Context, query string, k int) ([]store.Document, error) {
	key := cacheKey(query, k)

	if cached, err := c.client.Get(ctx, key).Result(); err == nil {
		var documents []store.Document
		if err := json.Unmarshal([]byte(cached), &documents); err == nil {
			c.logger.Printf("[CACHE] Hit for key %s (%d documents)", key, len(documents))
			return documents, nil
		}
		c.logger.Printf("[CACHE] Corrupt entry for key %s, refetching", key)
	} else if err != redis.Nil {
		c.logger.Printf("[CACHE] Read failed: %v", err)
	}

	documents, err := c.inner.Search(ctx, query, k)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(documents); err == nil {
		if err := c.client.Set(ctx, key, payload, cacheTTL).Err(); err != nil {
			c.logger.Printf("[CACHE] Write failed: %v", err)
		}
	}

	return documents, nil
}

func cacheKey(query string, k int) string {
	sum := sha256.Sum256([]byte(query))
	return fmt.Sprintf("search:%s:%d", hex.EncodeToString(sum[:8]), k)
}
