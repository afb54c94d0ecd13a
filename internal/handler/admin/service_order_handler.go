package admin

import (
	"github.com/gin-gonic/gin"

	"github.com/dumeirei/dorm-admin-backend/internal/common/handler"
	"github.com/dumeirei/dorm-admin-backend/internal/common/jwt"
	"github.com/dumeirei/dorm-admin-backend/internal/common/response"
	"github.com/dumeirei/dorm-admin-backend/internal/middleware"
	serviceOrderService "github.com/dumeirei/dorm-admin-backend/internal/service/serviceorder"
	"github.com/dumeirei/dorm-admin-backend/internal/service/validation"
)

// ServiceOrderHandler 服务订单处理器
type ServiceOrderHandler struct {
	orderService *serviceOrderService.ServiceOrderService
}

// NewServiceOrderHandler 创建服务订单处理器
func NewServiceOrderHandler(orderSvc *serviceOrderService.ServiceOrderService) *ServiceOrderHandler {
	return &ServiceOrderHandler{
		orderService: orderSvc,
	}
}

// UpdateStatusRequest 修改状态请求
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// Create 创建服务订单
// @Summary 创建服务订单
// @Tags 服务订单
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body validation.ServiceOrderForm true "订单表单"
// @Success 200 {object} response.Response{data=models.ServiceOrder}
// @Router /api/admin/service-orders [post]
func (h *ServiceOrderHandler) Create(c *gin.Context) {
	adminID, ok := handler.RequireAdminID(c)
	if !ok {
		return
	}

	var form validation.ServiceOrderForm
	if err := c.ShouldBindJSON(&form); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	order, err := h.orderService.Create(c.Request.Context(), adminID, &form)
	handler.MustSucceedWithMessage(c, err, "服务订单已创建", order)
}

// List 服务订单列表
// @Summary 服务订单列表
// @Tags 服务订单
// @Produce json
// @Security Bearer
// @Param status query string false "状态"
// @Param userId query string false "学生ID"
// @Param q query string false "备注搜索"
// @Success 200 {object} response.Response{data=serviceOrderService.ListResult}
// @Router /api/admin/service-orders [get]
func (h *ServiceOrderHandler) List(c *gin.Context) {
	result, err := h.orderService.List(c.Request.Context(), serviceOrderService.ListFilter{
		Status: c.Query("status"),
		UserID: c.Query("userId"),
		Query:  c.Query("q"),
	})
	handler.MustSucceed(c, err, result)
}

// UpdateStatus 修改订单状态
// @Summary 修改订单状态
// @Tags 服务订单
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "订单ID"
// @Param request body UpdateStatusRequest true "目标状态"
// @Success 200 {object} response.Response{data=models.ServiceOrder}
// @Router /api/admin/service-orders/{id}/status [put]
func (h *ServiceOrderHandler) UpdateStatus(c *gin.Context) {
	adminID, ok := handler.RequireAdminID(c)
	if !ok {
		return
	}
	id, ok := handler.ParseID(c, "订单")
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	order, err := h.orderService.UpdateStatus(c.Request.Context(), adminID, id, req.Status)
	handler.MustSucceed(c, err, order)
}

// Delete 删除服务订单
// @Summary 删除服务订单
// @Description 仅 admin 角色可操作
// @Tags 服务订单
// @Produce json
// @Security Bearer
// @Param id path string true "订单ID"
// @Success 200 {object} response.Response
// @Router /api/admin/service-orders/{id} [delete]
func (h *ServiceOrderHandler) Delete(c *gin.Context) {
	adminID, ok := handler.RequireAdminID(c)
	if !ok {
		return
	}
	id, ok := handler.ParseID(c, "订单")
	if !ok {
		return
	}

	err := h.orderService.Delete(c.Request.Context(), adminID, id)
	handler.MustSucceedWithMessage(c, err, "服务订单已删除", nil)
}

// Services 服务目录
// @Summary 服务目录
// @Tags 服务订单
// @Produce json
// @Security Bearer
// @Success 200 {object} response.Response{data=[]models.Service}
// @Router /api/admin/services [get]
func (h *ServiceOrderHandler) Services(c *gin.Context) {
	services, err := h.orderService.Services(c.Request.Context())
	handler.MustSucceed(c, err, services)
}

// RegisterRoutes 注册路由
func (h *ServiceOrderHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/services", h.Services)

	orders := r.Group("/service-orders")
	{
		orders.GET("", h.List)
		orders.POST("", h.Create)
		orders.PUT("/:id/status", h.UpdateStatus)
		orders.DELETE("/:id", middleware.RequireRole(jwt.RoleAdmin), h.Delete)
	}
}
