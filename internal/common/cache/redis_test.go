// Package cache Redis 缓存模块单元测试
package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dumeirei/dorm-admin-backend/internal/common/config"
)

// setupMiniRedis 创建 miniredis 测试实例和客户端
func setupMiniRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	s, err := miniredis.Run()
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: s.Addr()})
	t.Cleanup(func() {
		_ = client.Close()
		s.Close()
	})
	return s, client
}

func TestInit_Success(t *testing.T) {
	s, _ := setupMiniRedis(t)

	client, err := Init(&config.RedisConfig{
		Host:        s.Host(),
		Port:        s.Server().Addr().Port,
		PoolSize:    5,
		DialTimeout: 5,
	})
	require.NoError(t, err)
	assert.Same(t, client, GetClient())
	t.Cleanup(func() {
		_ = Close()
		rdb = nil
	})
}

func TestInit_ConnectionFailed(t *testing.T) {
	client, err := Init(&config.RedisConfig{Host: "127.0.0.1", Port: 1, DialTimeout: 1})
	assert.Error(t, err)
	assert.Nil(t, client)
	assert.Contains(t, err.Error(), "failed to connect redis")
}

func TestBuildKey(t *testing.T) {
	assert.Equal(t, "lock:payment:order:SO1", BuildKey(KeyPrefixPayment, "order", "SO1"))
	assert.Equal(t, "lock:payment:contract:C1:2024-03", BuildKey(KeyPrefixPayment, "contract", "C1", "2024-03"))
	assert.Equal(t, "lock", BuildKey(KeyPrefixLock))
}

func TestLocker(t *testing.T) {
	s, client := setupMiniRedis(t)
	ctx := context.Background()
	locker := NewLocker(client, 5*time.Second)
	key := BuildKey(KeyPrefixPayment, "order", "SO1")

	t.Run("首次获取成功", func(t *testing.T) {
		lock, ok, err := locker.Acquire(ctx, key)
		require.NoError(t, err)
		require.True(t, ok)

		_, again, err := locker.Acquire(ctx, key)
		require.NoError(t, err)
		assert.False(t, again)

		assert.Equal(t, 5*time.Second, s.TTL(key))

		require.NoError(t, locker.Release(ctx, lock))
		assert.False(t, s.Exists(key))
	})

	t.Run("过期后可再次获取", func(t *testing.T) {
		_, ok, err := locker.Acquire(ctx, key)
		require.NoError(t, err)
		require.True(t, ok)

		s.FastForward(6 * time.Second)

		_, ok, err = locker.Acquire(ctx, key)
		require.NoError(t, err)
		assert.True(t, ok)
		s.Del(key)
	})

	t.Run("不释放他人持有的锁", func(t *testing.T) {
		stale, ok, err := locker.Acquire(ctx, key)
		require.NoError(t, err)
		require.True(t, ok)

		s.FastForward(6 * time.Second)
		_, ok, err = locker.Acquire(ctx, key)
		require.NoError(t, err)
		require.True(t, ok)

		require.NoError(t, locker.Release(ctx, stale))
		assert.True(t, s.Exists(key))
	})

	t.Run("释放空锁", func(t *testing.T) {
		assert.NoError(t, locker.Release(ctx, nil))
	})
}

func TestNewLocker_DefaultTTL(t *testing.T) {
	_, client := setupMiniRedis(t)
	assert.Equal(t, 10*time.Second, NewLocker(client, 0).ttl)
}
