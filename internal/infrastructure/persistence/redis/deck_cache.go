package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"

	"slidegen-ai-api/internal/domain/entity"
)

var cacheTracer = otel.Tracer("redis.deck_cache")

const deckKeyPrefix = "deck:"

// DeckCache 演示文稿记录的 Read-Through 缓存
type DeckCache struct {
	client *Client
	ttl    time.Duration
	group  singleflight.Group
}

// NewDeckCache 创建缓存；ttl <= 0 时默认 10 分钟
func NewDeckCache(client *Client, ttl time.Duration) *DeckCache {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &DeckCache{client: client, ttl: ttl}
}

// GetOrLoad 读取缓存的 DeckRecord，未命中时经 singleflight 合并回源。
// 缓存回写失败不影响返回结果。
func (c *DeckCache) GetOrLoad(ctx context.Context, deckID string, loader func() (*entity.DeckRecord, error)) (*entity.DeckRecord, error) {
	if c == nil || c.client == nil {
		return loader()
	}
	key := deckKeyPrefix + deckID

	ctx, span := cacheTracer.Start(ctx, "deck_cache.GetOrLoad",
		trace.WithAttributes(attribute.String("cache.key", key)))
	defer span.End()

	if raw, err := c.client.rdb.Get(ctx, key).Bytes(); err == nil {
		span.SetAttributes(attribute.Bool("cache.hit", true))
		return decodeRecord(raw)
	} else if err != redis.Nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetAttributes(attribute.Bool("cache.hit", false))

	result, err, _ := c.group.Do(key, func() (interface{}, error) {
		// 可能已被并发请求回填
		if raw, err := c.client.rdb.Get(ctx, key).Bytes(); err == nil {
			return decodeRecord(raw)
		}

		record, err := loader()
		if err != nil {
			return nil, err
		}

		raw, err := json.Marshal(record)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal deck record: %w", err)
		}
		if err := c.client.rdb.Set(ctx, key, raw, c.ttl).Err(); err != nil {
			span.RecordError(err)
		}
		return record, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*entity.DeckRecord), nil
}

// Store 主动写入缓存，生成完成后立即可读
func (c *DeckCache) Store(ctx context.Context, record *entity.DeckRecord) error {
	if c == nil || c.client == nil || record == nil {
		return nil
	}
	raw, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal deck record: %w", err)
	}
	return c.client.Set(ctx, deckKeyPrefix+record.ID, raw, c.ttl)
}

// Invalidate 删除缓存条目
func (c *DeckCache) Invalidate(ctx context.Context, deckID string) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Del(ctx, deckKeyPrefix+deckID)
}

func decodeRecord(raw []byte) (*entity.DeckRecord, error) {
	var record entity.DeckRecord
	if err := json.Unmarshal(raw, &record); err != nil {
		return nil, fmt.Errorf("failed to decode cached deck record: %w", err)
	}
	return &record, nil
}
