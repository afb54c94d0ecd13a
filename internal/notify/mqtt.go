package notify

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/dumeirei/dorm-admin-backend/internal/common/metrics"
)

// Publisher MQTT 发布接口，由 pkg/mqtt.Client 实现
type Publisher interface {
	Publish(ctx context.Context, topic string, payload interface{}) error
}

// publishTimeout 单条通知的发布等待时间
const publishTimeout = 3 * time.Second

// MQTTNotifier 将通知推送到 <prefix>toasts 主题，在线面板订阅后弹出提示
type MQTTNotifier struct {
	publisher Publisher
	topic     string
	log       *zap.Logger
	metrics   *metrics.Metrics
}

// NewMQTTNotifier 创建 MQTT 通知器
func NewMQTTNotifier(publisher Publisher, topicPrefix string, log *zap.Logger, m *metrics.Metrics) *MQTTNotifier {
	return &MQTTNotifier{
		publisher: publisher,
		topic:     topicPrefix + "toasts",
		log:       log.Named("notify.mqtt"),
		metrics:   m,
	}
}

func (n *MQTTNotifier) publish(ctx context.Context, level, msg string) {
	// 请求结束后通知仍需送达
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	err := n.publisher.Publish(ctx, n.topic, Message{Level: level, Message: msg, Time: time.Now()})
	if err != nil {
		n.log.Warn("publish toast failed", zap.String("level", level), zap.Error(err))
		return
	}
	n.metrics.RecordMQTTMessage(n.topic, "out")
}

// Success 成功
func (n *MQTTNotifier) Success(ctx context.Context, msg string) { n.publish(ctx, LevelSuccess, msg) }

// Error 失败
func (n *MQTTNotifier) Error(ctx context.Context, msg string) { n.publish(ctx, LevelError, msg) }

// Warning 警告
func (n *MQTTNotifier) Warning(ctx context.Context, msg string) { n.publish(ctx, LevelWarning, msg) }
