package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/dumeirei/dorm-admin-backend/internal/common/cache"
	"github.com/dumeirei/dorm-admin-backend/internal/common/response"
)

// RateLimit 管理后台按管理员限流，窗口内超过 limit 次返回 429
// 未认证的请求按 IP 计数，Redis 出错时不拦截
func RateLimit(client redis.Cmdable, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		subject := GetAdminID(c)
		if subject == "" {
			subject = "ip:" + c.ClientIP()
		}
		key := cache.BuildKey(cache.KeyPrefixRateLimit, subject, c.FullPath())
		ctx := c.Request.Context()

		pipe := client.TxPipeline()
		incr := pipe.Incr(ctx, key)
		pipe.ExpireNX(ctx, key, window)
		ttl := pipe.TTL(ctx, key)
		if _, err := pipe.Exec(ctx); err != nil {
			c.Next()
			return
		}

		used := int(incr.Val())
		c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
		if used > limit {
			c.Header("X-RateLimit-Remaining", "0")
			c.Header("Retry-After", strconv.Itoa(int(ttl.Val().Seconds())))
			response.TooManyRequests(c, "操作过于频繁，请稍后再试")
			c.Abort()
			return
		}
		c.Header("X-RateLimit-Remaining", strconv.Itoa(limit-used))
		c.Next()
	}
}
