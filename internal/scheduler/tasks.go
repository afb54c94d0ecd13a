package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/dumeirei/dorm-admin-backend/internal/common/cache"
	"github.com/dumeirei/dorm-admin-backend/internal/common/logger"
	"github.com/dumeirei/dorm-admin-backend/internal/common/metrics"
	"github.com/dumeirei/dorm-admin-backend/internal/models"
	"github.com/dumeirei/dorm-admin-backend/internal/notify"
	"github.com/dumeirei/dorm-admin-backend/pkg/sms"
)

// 任务名称
const (
	TaskPaymentDueReminder = "payment_due_reminder"
)

// reminderTTL 同一笔逾期支付每天最多提醒一次
const reminderTTL = 24 * time.Hour

// OverdueSource 逾期支付来源
type OverdueSource interface {
	Overdue(ctx context.Context, now time.Time) ([]models.Payment, error)
}

// ContactSource 学生联系方式来源
type ContactSource interface {
	Get(ctx context.Context, id string) (models.User, error)
}

// TaskHandler 任务处理器
type TaskHandler struct {
	payments OverdueSource
	notifier notify.Notifier
	redis    redis.Cmdable
	metrics  *metrics.Metrics
	log      *zap.Logger
	now      func() time.Time

	sms      sms.Sender
	contacts ContactSource
	template string
}

// NewTaskHandler 创建任务处理器，redisClient 为 nil 时每轮都提醒全部逾期支付
func NewTaskHandler(payments OverdueSource, notifier notify.Notifier, redisClient redis.Cmdable, m *metrics.Metrics) *TaskHandler {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	return &TaskHandler{
		payments: payments,
		notifier: notifier,
		redis:    redisClient,
		metrics:  m,
		log:      logger.Named("task"),
		now:      time.Now,
	}
}

// WithSMS 新逾期的支付同时短信提醒学生本人
func (h *TaskHandler) WithSMS(sender sms.Sender, contacts ContactSource, templateCode string) *TaskHandler {
	h.sms = sender
	h.contacts = contacts
	h.template = templateCode
	return h
}

// RemindOverdue 统计逾期待支付记录并发出提醒
func (h *TaskHandler) RemindOverdue(ctx context.Context) error {
	now := h.now().UTC()
	overdue, err := h.payments.Overdue(ctx, now)
	if err != nil {
		return err
	}
	h.metrics.SetPaymentsOverdue(len(overdue))
	if len(overdue) == 0 {
		return nil
	}

	fresh := make([]models.Payment, 0, len(overdue))
	for _, p := range overdue {
		first, err := h.firstReminder(ctx, p.ID, now)
		if err != nil {
			h.log.Warn("reminder dedupe failed", logger.PaymentID(p.ID), logger.Err(err))
			first = true
		}
		if first {
			fresh = append(fresh, p)
		}
	}
	if len(fresh) == 0 {
		return nil
	}

	h.log.Info("overdue payments found", zap.Int("total", len(overdue)), zap.Int("new", len(fresh)))
	h.notifier.Warning(ctx, fmt.Sprintf("有 %d 笔支付已逾期未付", len(fresh)))
	if h.sms != nil && h.contacts != nil {
		for _, p := range fresh {
			h.textStudent(ctx, p)
		}
	}
	return nil
}

// textStudent 短信失败只记录，不影响本轮其他提醒
func (h *TaskHandler) textStudent(ctx context.Context, p models.Payment) {
	if p.UserID == "" {
		h.metrics.RecordSMS("skipped")
		return
	}
	user, err := h.contacts.Get(ctx, p.UserID)
	if err != nil {
		h.log.Warn("load student contact failed", logger.PaymentID(p.ID), logger.Err(err))
		h.metrics.RecordSMS("skipped")
		return
	}
	if !sms.ValidPhone(user.Phone) {
		h.metrics.RecordSMS("skipped")
		return
	}

	params := map[string]string{
		"name":   user.Name,
		"amount": fmt.Sprintf("%.2f", p.FinalAmount),
	}
	if p.DueDate.Valid() {
		params["due"] = p.DueDate.UTC().Format("2006-01-02")
	}
	if err := h.sms.Send(ctx, user.Phone, h.template, params); err != nil {
		h.log.Warn("send reminder sms failed", logger.PaymentID(p.ID), logger.Err(err))
		h.metrics.RecordSMS("failed")
		return
	}
	h.metrics.RecordSMS("sent")
}

// firstReminder 当天是否首次提醒该支付
func (h *TaskHandler) firstReminder(ctx context.Context, paymentID string, now time.Time) (bool, error) {
	if h.redis == nil {
		return true, nil
	}
	key := cache.BuildKey(cache.KeyPrefixReminders, now.Format("2006-01-02"), paymentID)
	return h.redis.SetNX(ctx, key, 1, reminderTTL).Result()
}
