package main

import (
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/dumeirei/dorm-admin-backend/internal/common/response"
	adminHandler "github.com/dumeirei/dorm-admin-backend/internal/handler/admin"
	"github.com/dumeirei/dorm-admin-backend/internal/middleware"
)

// 请求限制
const (
	maxRequestBody  = 12 << 20
	rateLimitPerMin = 600
)

// setupRouter 设置路由
func setupRouter(r *gin.Engine, c *components) {
	cfg := c.cfg

	// 全局中间件
	r.Use(middleware.Recovery(c.log))
	r.Use(middleware.RequestID())
	r.Use(middleware.Tracing(cfg.Tracing.ServiceName, "/health", cfg.Metrics.Path))
	r.Use(middleware.CORS(&cfg.CORS))
	r.Use(middleware.AccessLog(c.log, "/health", "/ready", cfg.Metrics.Path))
	r.Use(middleware.RequestSizeLimiter(maxRequestBody))
	r.Use(middleware.Notifications())
	if c.metrics != nil {
		r.Use(c.metrics.Middleware(cfg.Metrics.Path))
		r.GET(cfg.Metrics.Path, c.metrics.Handler())
	}

	// 健康检查（不需要认证）
	r.GET("/health", healthHandler)
	r.GET("/ping", pingHandler)
	r.GET("/ready", readyHandler(c.db, c.redis))

	// Swagger 文档
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// 管理后台 API
	admin := r.Group("/api/admin")
	admin.Use(middleware.AdminAuth(c.jwt))
	if c.redis != nil {
		admin.Use(middleware.RateLimit(c.redis, rateLimitPerMin, time.Minute))
	}
	{
		names := cfg.Collections
		adminHandler.NewPaymentHandler(c.payments).RegisterRoutes(admin)
		adminHandler.NewRoomHandler(c.rooms).RegisterRoutes(admin)
		adminHandler.NewServiceOrderHandler(c.orders).RegisterRoutes(admin)
		adminHandler.NewReferenceHandler(c.loader,
			names.Users, names.Contracts, names.Rooms, names.Services,
			names.ServiceOrders, names.FoodOrders,
		).RegisterRoutes(admin)
	}

	r.NoRoute(func(ctx *gin.Context) {
		response.NotFound(ctx, "接口不存在")
	})
}
