// Package qrcode 生成支付二维码，学生扫码后按付款参考号转账
package qrcode

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/skip2/go-qrcode"
)

// RecoveryLevel 纠错级别
type RecoveryLevel int

const (
	// Low 7% 纠错
	Low RecoveryLevel = iota
	// Medium 15% 纠错
	Medium
	// High 25% 纠错
	High
)

// Generator 二维码生成器
type Generator struct {
	size          int
	recoveryLevel RecoveryLevel
}

// Option 生成器选项
type Option func(*Generator)

// WithSize 设置二维码尺寸（像素）
func WithSize(size int) Option {
	return func(g *Generator) {
		g.size = size
	}
}

// WithRecoveryLevel 设置纠错级别
func WithRecoveryLevel(level RecoveryLevel) Option {
	return func(g *Generator) {
		g.recoveryLevel = level
	}
}

// NewGenerator 创建二维码生成器
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{
		size:          256,
		recoveryLevel: Medium,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Generator) level() qrcode.RecoveryLevel {
	switch g.recoveryLevel {
	case Low:
		return qrcode.Low
	case High:
		return qrcode.High
	default:
		return qrcode.Medium
	}
}

// PNG 生成 PNG 格式二维码
func (g *Generator) PNG(content string) ([]byte, error) {
	data, err := qrcode.Encode(content, g.level(), g.size)
	if err != nil {
		return nil, fmt.Errorf("创建二维码失败: %w", err)
	}
	return data, nil
}

// DataURL 生成可直接嵌入页面的 Data URL
func (g *Generator) DataURL(content string) (string, error) {
	data, err := g.PNG(content)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(data), nil
}

// paymentScheme 支付二维码内容前缀
const paymentScheme = "DORMPAY1"

// ErrInvalidPayload 二维码内容不是支付信息
var ErrInvalidPayload = errors.New("invalid payment payload")

// PaymentPayload 支付二维码携带的信息
// Reference 是转账备注中填写的付款参考号
type PaymentPayload struct {
	PaymentID string
	Amount    float64
	Reference string
}

// EncodePayment 编码为二维码内容，字段以 | 分隔
func EncodePayment(p PaymentPayload) string {
	return strings.Join([]string{
		paymentScheme,
		p.PaymentID,
		strconv.FormatFloat(p.Amount, 'f', 2, 64),
		p.Reference,
	}, "|")
}

// DecodePayment 解析扫码得到的内容
func DecodePayment(content string) (PaymentPayload, error) {
	parts := strings.Split(content, "|")
	if len(parts) != 4 || parts[0] != paymentScheme || parts[1] == "" {
		return PaymentPayload{}, ErrInvalidPayload
	}
	amount, err := strconv.ParseFloat(parts[2], 64)
	if err != nil {
		return PaymentPayload{}, fmt.Errorf("%w: amount %q", ErrInvalidPayload, parts[2])
	}
	return PaymentPayload{PaymentID: parts[1], Amount: amount, Reference: parts[3]}, nil
}
