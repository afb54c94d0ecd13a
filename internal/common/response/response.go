// Package response 提供统一的 API 响应格式
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dumeirei/dorm-admin-backend/internal/notify"
)

// Response API 统一响应结构
// Key 为失败原因标识，Fields 为逐字段校验信息，Notifications 为本次请求产生的提示
type Response struct {
	Code          int               `json:"code"`
	Message       string            `json:"message"`
	Key           string            `json:"key,omitempty"`
	Fields        map[string]string `json:"fields,omitempty"`
	Data          interface{}       `json:"data,omitempty"`
	Notifications []notify.Message  `json:"notifications,omitempty"`
}

// notifications 取出请求级收集器中的提示
func notifications(c *gin.Context) []notify.Message {
	if c.Request == nil {
		return nil
	}
	if col, ok := notify.CollectorFrom(c.Request.Context()); ok {
		return col.Messages()
	}
	return nil
}

// Success 成功响应
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:          0,
		Message:       "success",
		Data:          data,
		Notifications: notifications(c),
	})
}

// SuccessWithMessage 成功响应（带消息）
func SuccessWithMessage(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:          0,
		Message:       message,
		Data:          data,
		Notifications: notifications(c),
	})
}

// Error 业务错误响应，HTTP 状态码保持 200
func Error(c *gin.Context, code int, message string) {
	c.JSON(http.StatusOK, Response{
		Code:    code,
		Message: message,
	})
}

// ErrorDetail 带原因标识和字段错误的业务错误响应
func ErrorDetail(c *gin.Context, code int, key, message string, fields map[string]string) {
	c.JSON(http.StatusOK, Response{
		Code:          code,
		Message:       message,
		Key:           key,
		Fields:        fields,
		Notifications: notifications(c),
	})
}

// BadRequest 请求参数错误
func BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, Response{
		Code:    400,
		Message: message,
	})
}

// Unauthorized 未授权
func Unauthorized(c *gin.Context, message string) {
	if message == "" {
		message = "unauthorized"
	}
	c.JSON(http.StatusUnauthorized, Response{
		Code:    401,
		Message: message,
	})
}

// Forbidden 禁止访问
func Forbidden(c *gin.Context, message string) {
	if message == "" {
		message = "forbidden"
	}
	c.JSON(http.StatusForbidden, Response{
		Code:    403,
		Message: message,
	})
}

// NotFound 资源不存在
func NotFound(c *gin.Context, message string) {
	if message == "" {
		message = "not found"
	}
	c.JSON(http.StatusNotFound, Response{
		Code:    404,
		Message: message,
	})
}

// InternalError 服务器内部错误
func InternalError(c *gin.Context, message string) {
	if message == "" {
		message = "internal server error"
	}
	c.JSON(http.StatusInternalServerError, Response{
		Code:    500,
		Message: message,
	})
}

// TooManyRequests 请求过于频繁
func TooManyRequests(c *gin.Context, message string) {
	if message == "" {
		message = "too many requests"
	}
	c.JSON(http.StatusTooManyRequests, Response{
		Code:    429,
		Message: message,
	})
}
