package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RateLimiter 限流器接口
type RateLimiter interface {
	// Allow 判断请求是否允许通过
	Allow(ctx context.Context) (bool, error)
}

// TokenBucketRateLimiter 基于Redis的令牌桶限流器
type TokenBucketRateLimiter struct {
	client *redis.Client
	key    string
	rate   int // 每秒生成的令牌数量
	burst  int // 令牌桶最大容量
}

// NewTokenBucketRateLimiter 创建新的令牌桶限流器
func NewTokenBucketRateLimiter(client *redis.Client, key string, rate, burst int) *TokenBucketRateLimiter {
	return &TokenBucketRateLimiter{
		client: client,
		key:    fmt.Sprintf("rate_limit:%s", key),
		rate:   rate,
		burst:  burst,
	}
}

// 令牌桶算法的Lua脚本，读改写在Redis内原子完成
const tokenBucketScript = `
local key = KEYS[1]
local now = tonumber(ARGV[1])
local rate = tonumber(ARGV[2])
local burst = tonumber(ARGV[3])
local period = 1

local tokens_key = key .. ":tokens"
local timestamp_key = key .. ":ts"

local tokens = tonumber(redis.call("get", tokens_key) or burst)
local last_update = tonumber(redis.call("get", timestamp_key) or 0)

local elapsed = math.max(0, now - last_update)
local new_tokens = math.min(burst, tokens + elapsed * rate)

if new_tokens < 1 then
	return 0
end

new_tokens = new_tokens - 1

redis.call("setex", tokens_key, period * 2, new_tokens)
redis.call("setex", timestamp_key, period * 2, now)

return 1
`

// Allow 判断请求是否允许通过
func (l *TokenBucketRateLimiter) Allow(ctx context.Context) (bool, error) {
	if l.client == nil {
		return false, ErrRedisNotAvailable
	}

	now := time.Now().Unix()
	result, err := l.client.Eval(ctx, tokenBucketScript, []string{l.key}, now, l.rate, l.burst).Result()
	if err != nil {
		return false, err
	}

	return result.(int64) == 1, nil
}

// SlidingWindowRateLimiter 滑动窗口限流器
type SlidingWindowRateLimiter struct {
	client     *redis.Client
	key        string
	windowSize time.Duration // 窗口大小
	limit      int           // 窗口内允许的最大请求数
}

// NewSlidingWindowRateLimiter 创建新的滑动窗口限流器
func NewSlidingWindowRateLimiter(client *redis.Client, key string, windowSize time.Duration, limit int) *SlidingWindowRateLimiter {
	return &SlidingWindowRateLimiter{
		client:     client,
		key:        fmt.Sprintf("sliding_window:%s", key),
		windowSize: windowSize,
		limit:      limit,
	}
}

// Allow 判断请求是否允许通过
func (l *SlidingWindowRateLimiter) Allow(ctx context.Context) (bool, error) {
	if l.client == nil {
		return false, ErrRedisNotAvailable
	}

	now := time.Now().UnixNano() / int64(time.Millisecond)
	windowStart := now - int64(l.windowSize/time.Millisecond)
	requestID := uuid.New().String()

	// 使用有序集合记录请求
	pipe := l.client.Pipeline()
	pipe.ZAdd(ctx, l.key, redis.Z{Score: float64(now), Member: requestID})
	pipe.ZRemRangeByScore(ctx, l.key, "0", strconv.FormatInt(windowStart, 10))
	pipe.ZCard(ctx, l.key)
	pipe.Expire(ctx, l.key, l.windowSize*2) // 设置过期时间，避免集合无限增长

	cmds, err := pipe.Exec(ctx)
	if err != nil {
		return false, err
	}

	count := cmds[2].(*redis.IntCmd).Val()

	// 超过限制时移除当前请求
	if count > int64(l.limit) {
		l.client.ZRem(ctx, l.key, requestID)
		return false, nil
	}

	return true, nil
}
