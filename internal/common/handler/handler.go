// Package handler 提供 API Handler 的通用辅助函数
// 统一错误处理、认证检查、参数解析等操作
package handler

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dumeirei/dorm-admin-backend/internal/common/errors"
	"github.com/dumeirei/dorm-admin-backend/internal/common/response"
	"github.com/dumeirei/dorm-admin-backend/internal/common/utils"
	"github.com/dumeirei/dorm-admin-backend/internal/middleware"
)

// HandleError 处理错误并发送适当的响应
// err 为 nil 时返回 false；否则写入响应并返回 true，调用方应直接 return
func HandleError(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}
	if errors.IsAppError(err) {
		appErr := errors.GetAppError(err)
		_ = c.Error(err)
		response.ErrorDetail(c, appErr.Code, appErr.Key, appErr.UserMessage(), appErr.Fields)
		return true
	}
	_ = c.Error(err)
	response.InternalError(c, err.Error())
	return true
}

// MustSucceed 有错误则返回错误响应，否则返回成功响应
func MustSucceed(c *gin.Context, err error, data interface{}) {
	if HandleError(c, err) {
		return
	}
	response.Success(c, data)
}

// MustSucceedWithMessage 带自定义成功消息
func MustSucceedWithMessage(c *gin.Context, err error, message string, data interface{}) {
	if HandleError(c, err) {
		return
	}
	response.SuccessWithMessage(c, message, data)
}

// RequireAdminID 获取当前管理员ID，未登录时返回401响应
func RequireAdminID(c *gin.Context) (string, bool) {
	adminID := middleware.GetAdminID(c)
	if adminID == "" {
		response.Unauthorized(c, "请先登录")
		return "", false
	}
	return adminID, true
}

// ParseID 读取路径参数 "id"，文档ID为不透明字符串
func ParseID(c *gin.Context, resourceName string) (string, bool) {
	return ParseParamID(c, "id", resourceName)
}

// ParseParamID 读取指定路径参数
func ParseParamID(c *gin.Context, paramName, resourceName string) (string, bool) {
	id := strings.TrimSpace(c.Param(paramName))
	if id == "" {
		response.BadRequest(c, "无效的"+resourceName+"ID")
		return "", false
	}
	return id, true
}

// 时间格式常量
const (
	DateFormat  = "2006-01-02"
	MonthFormat = utils.MonthKeyLayout
)

// ParseQueryMonth 从查询参数解析月份 (YYYY-MM)，按 UTC 解释，与存储中的日期一致
// 参数为空时返回当前时间
func ParseQueryMonth(c *gin.Context, paramName string) (time.Time, bool) {
	s := c.Query(paramName)
	if s == "" {
		return time.Now().UTC(), true
	}
	t, err := time.Parse(MonthFormat, s)
	if err != nil {
		response.BadRequest(c, "无效的月份格式，应为 YYYY-MM")
		return time.Time{}, false
	}
	return t, true
}

// BindPagination 从查询参数绑定并规范化分页参数
// 默认 page=1, pageSize=10, 最大 pageSize=100
func BindPagination(c *gin.Context) utils.Pagination {
	var p utils.Pagination
	p.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	p.PageSize, _ = strconv.Atoi(c.DefaultQuery("page_size", "10"))
	p.Normalize()
	return p
}
