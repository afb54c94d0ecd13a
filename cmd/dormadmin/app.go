package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/dumeirei/dorm-admin-backend/internal/common/cache"
	"github.com/dumeirei/dorm-admin-backend/internal/common/config"
	"github.com/dumeirei/dorm-admin-backend/internal/common/database"
	"github.com/dumeirei/dorm-admin-backend/internal/common/jwt"
	"github.com/dumeirei/dorm-admin-backend/internal/common/logger"
	"github.com/dumeirei/dorm-admin-backend/internal/common/metrics"
	"github.com/dumeirei/dorm-admin-backend/internal/common/tracing"
	"github.com/dumeirei/dorm-admin-backend/internal/docstore"
	"github.com/dumeirei/dorm-admin-backend/internal/notify"
	"github.com/dumeirei/dorm-admin-backend/internal/repository"
	"github.com/dumeirei/dorm-admin-backend/internal/scheduler"
	paymentService "github.com/dumeirei/dorm-admin-backend/internal/service/payment"
	"github.com/dumeirei/dorm-admin-backend/internal/service/reference"
	roomService "github.com/dumeirei/dorm-admin-backend/internal/service/room"
	serviceOrderService "github.com/dumeirei/dorm-admin-backend/internal/service/serviceorder"
	"github.com/dumeirei/dorm-admin-backend/internal/service/validation"
	"github.com/dumeirei/dorm-admin-backend/pkg/mqtt"
	"github.com/dumeirei/dorm-admin-backend/pkg/oss"
	"github.com/dumeirei/dorm-admin-backend/pkg/sms"
)

// components 组装好的服务与基础设施
type components struct {
	cfg      *config.Config
	log      *zap.Logger
	db       *gorm.DB
	redis    *redis.Client
	metrics  *metrics.Metrics
	jwt      *jwt.Manager
	notifier notify.Notifier

	repos    *repository.Repositories
	loader   *reference.Loader
	payments *paymentService.PaymentService
	rooms    *roomService.RoomService
	orders   *serviceOrderService.ServiceOrderService
	tasks    *scheduler.TaskHandler
}

// buildComponents 组装服务，redisClient 与 publisher 可为 nil
func buildComponents(cfg *config.Config, log *zap.Logger, db *gorm.DB, redisClient *redis.Client, publisher notify.Publisher) (*components, error) {
	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New(cfg.Metrics.Namespace)
	}

	base := notify.Multi{notify.NewLogNotifier(log, m)}
	if publisher != nil {
		base = append(base, notify.NewMQTTNotifier(publisher, cfg.MQTT.TopicPrefix, log, m))
	}
	notifier := notify.Contextual{Base: base}

	uploader, err := newUploader(&cfg.OSS)
	if err != nil {
		return nil, err
	}

	var locker *cache.Locker
	var reminders redis.Cmdable
	if redisClient != nil {
		locker = cache.NewLocker(redisClient, cfg.Business.LockDuration())
		reminders = redisClient
	}

	store := docstore.NewGormStore(db, cfg.Collections.DatabaseID)
	repos := repository.New(store, &cfg.Collections)
	loader := reference.NewLoader(store, &cfg.Reference, notifier, m)
	validator := validation.New(cfg.Business.Buildings)

	payments := paymentService.NewPaymentService(repos, loader, validator, notifier, locker, uploader, m)

	tasks := scheduler.NewTaskHandler(payments, notifier, reminders, m)
	if cfg.SMS.Enabled {
		sender, err := newSMSSender(&cfg.SMS)
		if err != nil {
			return nil, err
		}
		tasks.WithSMS(sender, repos.Users, cfg.SMS.ReminderTemplate)
	}

	return &components{
		cfg:      cfg,
		log:      log,
		db:       db,
		redis:    redisClient,
		metrics:  m,
		jwt:      jwt.NewManager(cfg.JWT.Secret, cfg.JWT.Issuer),
		notifier: notifier,
		repos:    repos,
		loader:   loader,
		payments: payments,
		rooms:    roomService.NewRoomService(repos, loader, validator, notifier, uploader),
		orders:   serviceOrderService.NewServiceOrderService(repos, loader, validator, notifier),
		tasks:    tasks,
	}, nil
}

// newUploader 按配置选择对象存储，默认使用内存实现
func newUploader(cfg *config.OSSConfig) (oss.Uploader, error) {
	if cfg.Provider != "aliyun" {
		return oss.NewMockUploader(), nil
	}
	uploader, err := oss.NewAliyunUploader(&oss.AliyunConfig{
		Endpoint:        cfg.Endpoint,
		AccessKeyID:     cfg.AccessKeyID,
		AccessKeySecret: cfg.AccessKeySecret,
		BucketName:      cfg.Bucket,
		Domain:          cfg.CustomDomain,
		BasePath:        cfg.UploadDir,
	})
	if err != nil {
		return nil, fmt.Errorf("init oss: %w", err)
	}
	return uploader, nil
}

// newSMSSender 按配置选择短信通道，默认只记录
func newSMSSender(cfg *config.SMSConfig) (sms.Sender, error) {
	if cfg.Provider != "aliyun" {
		return sms.NewMockSender(), nil
	}
	sender, err := sms.NewAliyunSender(&sms.AliyunConfig{
		AccessKeyID:     cfg.AccessKeyID,
		AccessKeySecret: cfg.AccessKeySecret,
		SignName:        cfg.SignName,
		Endpoint:        cfg.Endpoint,
	})
	if err != nil {
		return nil, fmt.Errorf("init sms: %w", err)
	}
	return sender, nil
}

// connectMQTT 连接面板通知使用的 MQTT Broker
func connectMQTT(cfg *config.MQTTConfig, log *zap.Logger) (*mqtt.Client, error) {
	client := mqtt.NewClient(&mqtt.Config{
		Broker:        cfg.Broker,
		Port:          cfg.Port,
		ClientID:      fmt.Sprintf("%s%d", cfg.ClientIDPrefix, os.Getpid()),
		Username:      cfg.Username,
		Password:      cfg.Password,
		QoS:           cfg.QoS,
		KeepAlive:     cfg.KeepAlive,
		AutoReconnect: cfg.AutoReconnect,
	}, log)
	if err := client.Connect(); err != nil {
		return nil, err
	}
	return client, nil
}

func runServe(cfg *config.Config) error {
	log := logger.GetLogger()
	log.Info("Starting Dorm Admin Backend",
		zap.String("version", version),
		zap.String("env", cfg.Server.Mode),
	)

	tracer, err := tracing.Init(&cfg.Tracing, version)
	if err != nil {
		return err
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = tracer.Shutdown(ctx)
	}()

	db, err := database.Init(&cfg.Database)
	if err != nil {
		return err
	}
	defer func() { _ = database.Close() }()
	if err := docstore.NewGormStore(db, cfg.Collections.DatabaseID).Migrate(context.Background()); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	log.Info("Database connected successfully", zap.String("driver", cfg.Database.Driver))

	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = cache.Init(&cfg.Redis)
		if err != nil {
			return err
		}
		defer func() { _ = cache.Close() }()
		log.Info("Redis connected successfully")
	}

	var publisher notify.Publisher
	if cfg.MQTT.Enabled {
		client, err := connectMQTT(&cfg.MQTT, log)
		if err != nil {
			return err
		}
		defer client.Disconnect()
		publisher = client
		log.Info("MQTT connected successfully")
	}

	comps, err := buildComponents(cfg, log, db, redisClient, publisher)
	if err != nil {
		return err
	}

	switch cfg.Server.Mode {
	case "production", "release":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}
	engine := gin.New()
	setupRouter(engine, comps)

	sched := scheduler.NewScheduler()
	sched.AddTask(scheduler.TaskPaymentDueReminder, cfg.Business.ReminderDuration(), comps.tasks.RemindOverdue)
	sched.Start()
	defer sched.Stop()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("HTTP server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	}

	log.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited")
	return nil
}
