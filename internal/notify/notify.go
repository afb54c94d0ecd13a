// Package notify 操作结果通知
// 服务层通过注入的 Notifier 报告成功、失败和降级，不依赖全局状态
package notify

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/dumeirei/dorm-admin-backend/internal/common/metrics"
)

// 通知级别
const (
	LevelSuccess = "success"
	LevelError   = "error"
	LevelWarning = "warning"
)

// Notifier 通知接口，调用方不依赖返回结果
type Notifier interface {
	Success(ctx context.Context, msg string)
	Error(ctx context.Context, msg string)
	Warning(ctx context.Context, msg string)
}

// Message 一条通知
type Message struct {
	Level   string    `json:"level"`
	Message string    `json:"message"`
	Time    time.Time `json:"time"`
}

// Nop 丢弃所有通知
type Nop struct{}

func (Nop) Success(context.Context, string) {}
func (Nop) Error(context.Context, string)   {}
func (Nop) Warning(context.Context, string) {}

// LogNotifier 将通知写入日志
type LogNotifier struct {
	log     *zap.Logger
	metrics *metrics.Metrics
}

// NewLogNotifier 创建日志通知器
func NewLogNotifier(log *zap.Logger, m *metrics.Metrics) *LogNotifier {
	return &LogNotifier{log: log.Named("notify"), metrics: m}
}

// Success 成功
func (n *LogNotifier) Success(_ context.Context, msg string) {
	n.metrics.RecordNotification(LevelSuccess)
	n.log.Info(msg, zap.String("level", LevelSuccess))
}

// Error 失败
func (n *LogNotifier) Error(_ context.Context, msg string) {
	n.metrics.RecordNotification(LevelError)
	n.log.Error(msg, zap.String("level", LevelError))
}

// Warning 警告
func (n *LogNotifier) Warning(_ context.Context, msg string) {
	n.metrics.RecordNotification(LevelWarning)
	n.log.Warn(msg, zap.String("level", LevelWarning))
}

// Collector 缓存一次请求内的通知，随响应返回给面板
type Collector struct {
	mu       sync.Mutex
	messages []Message
}

// NewCollector 创建收集器
func NewCollector() *Collector {
	return &Collector{}
}

func (c *Collector) add(level, msg string) {
	c.mu.Lock()
	c.messages = append(c.messages, Message{Level: level, Message: msg, Time: time.Now()})
	c.mu.Unlock()
}

// Success 成功
func (c *Collector) Success(_ context.Context, msg string) { c.add(LevelSuccess, msg) }

// Error 失败
func (c *Collector) Error(_ context.Context, msg string) { c.add(LevelError, msg) }

// Warning 警告
func (c *Collector) Warning(_ context.Context, msg string) { c.add(LevelWarning, msg) }

// Messages 返回已收集通知的副本
func (c *Collector) Messages() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// Multi 扇出到多个通知器
type Multi []Notifier

// Success 成功
func (m Multi) Success(ctx context.Context, msg string) {
	for _, n := range m {
		n.Success(ctx, msg)
	}
}

// Error 失败
func (m Multi) Error(ctx context.Context, msg string) {
	for _, n := range m {
		n.Error(ctx, msg)
	}
}

// Warning 警告
func (m Multi) Warning(ctx context.Context, msg string) {
	for _, n := range m {
		n.Warning(ctx, msg)
	}
}

type collectorKey struct{}

// WithCollector 将请求级收集器放入 context
func WithCollector(ctx context.Context, c *Collector) context.Context {
	return context.WithValue(ctx, collectorKey{}, c)
}

// CollectorFrom 取出请求级收集器
func CollectorFrom(ctx context.Context) (*Collector, bool) {
	c, ok := ctx.Value(collectorKey{}).(*Collector)
	return c, ok
}

// Contextual 先写入基础通知器，再写入 context 中的请求级收集器（如有）
type Contextual struct {
	Base Notifier
}

func (n Contextual) each(ctx context.Context, fn func(Notifier)) {
	if n.Base != nil {
		fn(n.Base)
	}
	if c, ok := CollectorFrom(ctx); ok {
		fn(c)
	}
}

// Success 成功
func (n Contextual) Success(ctx context.Context, msg string) {
	n.each(ctx, func(x Notifier) { x.Success(ctx, msg) })
}

// Error 失败
func (n Contextual) Error(ctx context.Context, msg string) {
	n.each(ctx, func(x Notifier) { x.Error(ctx, msg) })
}

// Warning 警告
func (n Contextual) Warning(ctx context.Context, msg string) {
	n.each(ctx, func(x Notifier) { x.Warning(ctx, msg) })
}
