// Package metrics 提供 Prometheus 指标收集
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics 指标收集器
// 所有方法允许 nil 接收者，未启用监控时直接传 nil
type Metrics struct {
	registry *prometheus.Registry

	httpRequestsTotal      *prometheus.CounterVec
	httpRequestDuration    *prometheus.HistogramVec
	httpRequestsInFlight   prometheus.Gauge
	referenceFetchFailures *prometheus.CounterVec
	referencePagesTotal    *prometheus.CounterVec
	guardRejectionsTotal   *prometheus.CounterVec
	paymentsTotal          *prometheus.CounterVec
	paymentsOverdue        prometheus.Gauge
	notificationsTotal     *prometheus.CounterVec
	mqttMessagesTotal      *prometheus.CounterVec
	smsTotal               *prometheus.CounterVec
}

// New 创建指标收集器，每个实例使用独立的 Registry
func New(namespace string) *Metrics {
	if namespace == "" {
		namespace = "dorm_admin"
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		httpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		httpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		httpRequestsInFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "http_requests_in_flight",
				Help:      "Current number of HTTP requests being processed",
			},
		),
		referenceFetchFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "reference_fetch_failures_total",
				Help:      "Total number of reference collections that failed to load",
			},
			[]string{"collection"},
		),
		referencePagesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "reference_pages_total",
				Help:      "Total number of page requests issued by the reference loader",
			},
			[]string{"collection"},
		),
		guardRejectionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "payment_guard_rejections_total",
				Help:      "Total number of payment creations rejected as duplicates",
			},
			[]string{"reason"},
		),
		paymentsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "payments_total",
				Help:      "Total number of payment state changes",
			},
			[]string{"type", "status"},
		),
		paymentsOverdue: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "payments_overdue",
				Help:      "Number of pending payments past their due date",
			},
		),
		notificationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "notifications_total",
				Help:      "Total number of operator notifications",
			},
			[]string{"level"},
		),
		mqttMessagesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "mqtt_messages_total",
				Help:      "Total number of MQTT messages",
			},
			[]string{"topic", "direction"},
		),
		smsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "sms_total",
				Help:      "Total number of reminder SMS attempts",
			},
			[]string{"result"},
		),
	}
}

// Registry 返回底层 Registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Middleware 返回 Gin 中间件
func (m *Metrics) Middleware(metricsPath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil || c.Request.URL.Path == metricsPath {
			c.Next()
			return
		}

		start := time.Now()
		m.httpRequestsInFlight.Inc()

		c.Next()

		m.httpRequestsInFlight.Dec()
		status := strconv.Itoa(c.Writer.Status())
		path := c.FullPath()
		if path == "" {
			path = "unknown"
		}

		m.httpRequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		m.httpRequestDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}

// Handler 返回 Prometheus HTTP 处理器
func (m *Metrics) Handler() gin.HandlerFunc {
	h := promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}

// RecordReferenceFailure 记录关联集合加载失败
func (m *Metrics) RecordReferenceFailure(collection string) {
	if m == nil {
		return
	}
	m.referenceFetchFailures.WithLabelValues(collection).Inc()
}

// RecordReferencePage 记录一次分页请求
func (m *Metrics) RecordReferencePage(collection string) {
	if m == nil {
		return
	}
	m.referencePagesTotal.WithLabelValues(collection).Inc()
}

// RecordGuardRejection 记录重复支付拦截
func (m *Metrics) RecordGuardRejection(reason string) {
	if m == nil {
		return
	}
	m.guardRejectionsTotal.WithLabelValues(reason).Inc()
}

// RecordPayment 记录支付状态变化
func (m *Metrics) RecordPayment(paymentType, status string) {
	if m == nil {
		return
	}
	m.paymentsTotal.WithLabelValues(paymentType, status).Inc()
}

// SetPaymentsOverdue 设置逾期未支付数量
func (m *Metrics) SetPaymentsOverdue(count int) {
	if m == nil {
		return
	}
	m.paymentsOverdue.Set(float64(count))
}

// RecordNotification 记录通知
func (m *Metrics) RecordNotification(level string) {
	if m == nil {
		return
	}
	m.notificationsTotal.WithLabelValues(level).Inc()
}

// RecordMQTTMessage 记录 MQTT 消息
func (m *Metrics) RecordMQTTMessage(topic, direction string) {
	if m == nil {
		return
	}
	m.mqttMessagesTotal.WithLabelValues(topic, direction).Inc()
}

// RecordSMS 记录短信发送结果
func (m *Metrics) RecordSMS(result string) {
	if m == nil {
		return
	}
	m.smsTotal.WithLabelValues(result).Inc()
}
