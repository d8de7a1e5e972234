package cache

import (
	"time"

	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/redis/go-redis/v9"
)

// LockService 基于Redsync的分布式锁服务
type LockService struct {
	rs *redsync.Redsync
}

// NewLockService 创建分布式锁服务，client为nil时返回nil
func NewLockService(client *redis.Client) *LockService {
	if client == nil {
		return nil
	}
	pool := goredis.NewPool(client)
	return &LockService{rs: redsync.New(pool)}
}

// WithLock 持锁执行action，结束后释放
func (s *LockService) WithLock(lockName string, expiry time.Duration, action func() error) error {
	mutex := s.rs.NewMutex(lockName,
		redsync.WithExpiry(expiry),
		redsync.WithTries(5),                        // 最大重试次数
		redsync.WithRetryDelay(50*time.Millisecond), // 重试延迟
		redsync.WithDriftFactor(0.01),               // 时钟漂移因子
	)

	if err := mutex.Lock(); err != nil {
		return ErrLockNotAcquired
	}
	defer func() {
		_, _ = mutex.Unlock()
	}()

	return action()
}
