// Package errors 定义业务错误码和错误处理
package errors

import (
	stderrors "errors"
	"fmt"
)

// AppError 应用错误
// Key 是面板多语言提示使用的原因标识，Fields 为逐字段的校验信息
type AppError struct {
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Key     string            `json:"key,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
	Err     error             `json:"-"`
}

// Error 实现 error 接口
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap 实现 errors.Unwrap
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is 按错误码比较，便于 errors.Is(err, ErrOrderAlreadyPaid)
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// New 创建新的应用错误
func New(code int, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// NewWithKey 创建带原因标识的应用错误
func NewWithKey(code int, key, message string) *AppError {
	return &AppError{Code: code, Key: key, Message: message}
}

// Wrap 包装错误
func Wrap(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func (e *AppError) clone() *AppError {
	c := *e
	return &c
}

// WithMessage 修改错误消息
func (e *AppError) WithMessage(message string) *AppError {
	c := e.clone()
	c.Message = message
	return c
}

// WithError 添加原始错误
func (e *AppError) WithError(err error) *AppError {
	c := e.clone()
	c.Err = err
	return c
}

// WithFields 附加逐字段错误
func (e *AppError) WithFields(fields map[string]string) *AppError {
	c := e.clone()
	c.Fields = fields
	return c
}

// UserMessage 面向用户的提示，写入错误时带上底层原因
func (e *AppError) UserMessage() string {
	if e.Err != nil && e.Code == ErrWriteFailed.Code {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// 通用错误码 (1000-1999)
var (
	ErrUnknown         = New(1000, "未知错误")
	ErrInvalidParams   = NewWithKey(1001, "validationFailed", "参数错误")
	ErrNotFound        = New(1002, "资源不存在")
	ErrDatabaseError   = New(1003, "数据库错误")
	ErrWriteFailed     = NewWithKey(1004, "writeFailed", "写入失败")
	ErrFetchFailed     = NewWithKey(1005, "fetchFailed", "读取失败")
	ErrCacheError      = New(1006, "缓存错误")
	ErrInternalError   = New(1007, "内部错误")
	ErrExternalService = New(1008, "外部服务错误")
	ErrUploadFailed    = NewWithKey(1009, "uploadFailed", "文件上传失败")
)

// 认证错误码 (2000-2999)
var (
	ErrUnauthorized     = New(2000, "未登录")
	ErrTokenExpired     = New(2001, "登录已过期")
	ErrTokenInvalid     = New(2002, "无效的令牌")
	ErrPermissionDenied = New(2004, "权限不足")
)

// 用户错误码 (3000-3999)
var (
	ErrUserNotFound = New(3000, "用户不存在")
)

// 支付错误码 (6000-6099)
var (
	ErrPaymentNotFound         = New(6000, "支付记录不存在")
	ErrPaymentStatusTransition = NewWithKey(6001, "invalidStatusTransition", "当前状态不允许该操作")
	ErrRefundReasonRequired    = NewWithKey(6002, "refundReasonRequired", "退款原因不能为空")
	ErrPaymentBusy             = NewWithKey(6003, "paymentInProgress", "该账单正在处理中，请稍后重试")
)

// 重复支付拦截 (6100-6199)
var (
	ErrOrderAlreadyPaid     = NewWithKey(6101, "orderAlreadyPaid", "该订单已支付")
	ErrMonthlyPaymentExists = NewWithKey(6102, "monthlyPaymentExists", "该合同本月已有支付记录")
)

// 房间错误码 (8000-8099)
var (
	ErrRoomNotFound = New(8000, "房间不存在")
)

// 服务订单错误码 (8100-8199)
var (
	ErrServiceOrderNotFound = New(8100, "服务订单不存在")
	ErrServiceNotFound      = New(8101, "服务不存在")
)

// IsAppError 判断是否为应用错误
func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// GetAppError 获取应用错误
func GetAppError(err error) *AppError {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}
	return ErrUnknown.WithError(err)
}
