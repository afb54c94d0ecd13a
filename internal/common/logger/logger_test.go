// Package logger 日志模块单元测试
package logger

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/dumeirei/dorm-admin-backend/internal/common/config"
)

func TestInit_Formats(t *testing.T) {
	for _, format := range []string{"console", "json"} {
		t.Run(format, func(t *testing.T) {
			err := Init(&config.LoggerConfig{Level: "debug", Format: format, Output: "stdout", Caller: true})
			require.NoError(t, err)
			assert.NotNil(t, GetLogger())
			assert.NotNil(t, GetSugar())
		})
	}
}

func TestInit_FileOutput(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "app.log")

	err := Init(&config.LoggerConfig{
		Level:      "info",
		Format:     "json",
		Output:     "file",
		FilePath:   logFile,
		MaxSize:    1,
		MaxBackups: 1,
		MaxAge:     1,
	})
	require.NoError(t, err)

	Info("payment created", PaymentID("p-1"))
	_ = Sync()

	_, err = os.Stat(logFile)
	assert.NoError(t, err)
}

func TestGetLogLevel(t *testing.T) {
	tests := []struct {
		level    string
		expected zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"info", zapcore.InfoLevel},
		{"warn", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"", zapcore.InfoLevel},
		{"verbose", zapcore.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			assert.Equal(t, tt.expected, getLogLevel(tt.level))
		})
	}
}

func TestGetLogger_LazyInit(t *testing.T) {
	log = nil
	sugar = nil

	l := GetLogger()
	assert.NotNil(t, l)
	assert.Same(t, l, GetLogger())
	assert.NotNil(t, GetSugar())
}

func TestSetLogger_Observer(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	SetLogger(zap.New(core))

	Warn("reference fetch failed", Collection("services"), Err(assert.AnError))

	entries := logs.FilterMessage("reference fetch failed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	assert.Equal(t, "services", entries[0].ContextMap()["collection"])
}

func TestFieldConstructors(t *testing.T) {
	tests := []struct {
		field zap.Field
		key   string
		value string
	}{
		{RequestID("req-1"), "request_id", "req-1"},
		{AdminID("admin-1"), "admin_id", "admin-1"},
		{Collection("payments"), "collection", "payments"},
		{DocumentID("doc-1"), "document_id", "doc-1"},
		{PaymentID("pay-1"), "payment_id", "pay-1"},
		{OrderID("so-1"), "order_id", "so-1"},
		{ContractID("c-1"), "contract_id", "c-1"},
		{Module("payment"), "module", "payment"},
		{Action("refund"), "action", "refund"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			assert.Equal(t, tt.key, tt.field.Key)
			assert.Equal(t, tt.value, tt.field.String)
		})
	}

	assert.Equal(t, "latency", Latency(time.Second).Key)
}
