package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/xiebiao/litshop/internal/domain/book"
	"github.com/xiebiao/litshop/pkg/logger"
)

const statsKey = keyPrefix + "stats:inventory"

// StatsCache 库存统计缓存
// 设计说明:
// 1. 统计是只读聚合,允许短暂过期(TTL由cache.stats_ttl配置)
// 2. 交易提交、图书增删改后由应用层调用Invalidate
// 3. client为nil时所有方法都是空操作,相当于不缓存
// 4. 缓存故障只记日志,不影响主流程
type StatsCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStatsCache 创建统计缓存
func NewStatsCache(client *redis.Client, ttl time.Duration) *StatsCache {
	return &StatsCache{client: client, ttl: ttl}
}

// Get 读取缓存,未命中返回(nil, false)
func (c *StatsCache) Get(ctx context.Context) (*book.Stats, bool) {
	if c.client == nil || c.ttl <= 0 {
		return nil, false
	}

	raw, err := c.client.Get(ctx, statsKey).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.FromContext(ctx).Warn().Err(err).Msg("读取统计缓存失败")
		}
		return nil, false
	}

	var stats book.Stats
	if err := json.Unmarshal(raw, &stats); err != nil {
		logger.FromContext(ctx).Warn().Err(err).Msg("统计缓存内容损坏")
		return nil, false
	}
	return &stats, true
}

// Set 写入缓存
func (c *StatsCache) Set(ctx context.Context, stats *book.Stats) {
	if c.client == nil || c.ttl <= 0 || stats == nil {
		return
	}
	raw, err := json.Marshal(stats)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, statsKey, raw, c.ttl).Err(); err != nil {
		logger.FromContext(ctx).Warn().Err(err).Msg("写入统计缓存失败")
	}
}

// Invalidate 删除缓存
func (c *StatsCache) Invalidate(ctx context.Context) {
	if c.client == nil {
		return
	}
	if err := c.client.Del(ctx, statsKey).Err(); err != nil {
		logger.FromContext(ctx).Warn().Err(err).Msg("清除统计缓存失败")
	}
}
