// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package websearch

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
)

// Cache persists search results between sessions. Implemented by the
// store's snippet cache.
type Cache interface {
	CacheGet(ctx context.Context, key string) (string, bool, error)
	CachePut(ctx context.Context, key, content string) error
}

// CachedSource wraps a Source and serves repeated searches from a
// Cache. Search APIs are metered, so every hit saved matters.
type CachedSource struct {
	src   Source
	cache Cache
}

// NewCachedSource wraps src with cache.
func NewCachedSource(src Source, cache Cache) *CachedSource {
	return &CachedSource{src: src, cache: cache}
}

func (c *CachedSource) Snippets(ctx context.Context, queries []string) ([]string, error) {
	key := "snippets:" + ORQuery(queries)
	if content, ok, err := c.cache.CacheGet(ctx, key); err != nil {
		return nil, err
	} else if ok {
		var snippets []string
		if err := json.Unmarshal([]byte(content), &snippets); err != nil {
			return nil, fmt.Errorf("decoding cached snippets: %w", err)
		}
		return snippets, nil
	}

	snippets, err := c.src.Snippets(ctx, queries)
	if err != nil {
		return nil, err
	}
	content, err := json.Marshal(snippets)
	if err != nil {
		return nil, fmt.Errorf("encoding snippets: %w", err)
	}
	if err := c.cache.CachePut(ctx, key, string(content)); err != nil {
		return nil, err
	}
	return snippets, nil
}

func (c *CachedSource) Titles(ctx context.Context, query string, min int) ([]string, error) {
	key := fmt.Sprintf("titles:%d:%s", min, query)
	if content, ok, err := c.cache.CacheGet(ctx, key); err != nil {
		return nil, err
	} else if ok {
		var titles []string
		if err := json.Unmarshal([]byte(content), &titles); err != nil {
			return nil, fmt.Errorf("decoding cached titles: %w", err)
		}
		return titles, nil
	}

	titles, err := c.src.Titles(ctx, query, min)
	if err != nil {
		return nil, err
	}
	content, err := json.Marshal(titles)
	if err != nil {
		return nil, fmt.Errorf("encoding titles: %w", err)
	}
	if err := c.cache.CachePut(ctx, key, string(content)); err != nil {
		return nil, err
	}
	return titles, nil
}

func (c *CachedSource) HitCount(ctx context.Context, query string) (int64, error) {
	key := "count:" + query
	if content, ok, err := c.cache.CacheGet(ctx, key); err != nil {
		return 0, err
	} else if ok {
		count, err := strconv.ParseInt(content, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("decoding cached count: %w", err)
		}
		return count, nil
	}

	count, err := c.src.HitCount(ctx, query)
	if err != nil {
		return 0, err
	}
	if err := c.cache.CachePut(ctx, key, strconv.FormatInt(count, 10)); err != nil {
		return 0, err
	}
	return count, nil
}
