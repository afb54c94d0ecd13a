// Package admin 提供宿舍管理后台的 HTTP Handler
package admin

import (
	"github.com/gin-gonic/gin"

	"github.com/dumeirei/dorm-admin-backend/internal/common/handler"
	"github.com/dumeirei/dorm-admin-backend/internal/common/jwt"
	"github.com/dumeirei/dorm-admin-backend/internal/common/response"
	"github.com/dumeirei/dorm-admin-backend/internal/middleware"
	paymentService "github.com/dumeirei/dorm-admin-backend/internal/service/payment"
	"github.com/dumeirei/dorm-admin-backend/internal/service/validation"
)

// PaymentHandler 支付管理处理器
type PaymentHandler struct {
	paymentService *paymentService.PaymentService
}

// NewPaymentHandler 创建支付管理处理器
func NewPaymentHandler(paymentSvc *paymentService.PaymentService) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentSvc,
	}
}

// RefundRequest 退款请求
type RefundRequest struct {
	Reason string `json:"reason"`
}

// Create 创建支付
// @Summary 创建支付
// @Description 创建前校验表单并拦截重复支付（订单已支付或合同当月已有支付）
// @Tags 支付管理
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body validation.PaymentForm true "支付表单"
// @Success 200 {object} response.Response{data=models.Payment}
// @Router /api/admin/payments [post]
func (h *PaymentHandler) Create(c *gin.Context) {
	adminID, ok := handler.RequireAdminID(c)
	if !ok {
		return
	}

	var form validation.PaymentForm
	if err := c.ShouldBindJSON(&form); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	payment, err := h.paymentService.Create(c.Request.Context(), adminID, &form)
	handler.MustSucceedWithMessage(c, err, "支付记录已创建", payment)
}

// List 支付列表
// @Summary 支付列表
// @Description 返回带学生姓名与账单描述的支付列表，关联数据加载失败时降级并在 warnings 中说明
// @Tags 支付管理
// @Produce json
// @Security Bearer
// @Param status query string false "状态"
// @Param paymentType query string false "类型"
// @Param userId query string false "学生ID"
// @Param q query string false "搜索"
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(10)
// @Success 200 {object} response.Response{data=paymentService.ListResult}
// @Router /api/admin/payments [get]
func (h *PaymentHandler) List(c *gin.Context) {
	result, err := h.paymentService.List(c.Request.Context(), paymentService.ListFilter{
		Status:      c.Query("status"),
		PaymentType: c.Query("paymentType"),
		UserID:      c.Query("userId"),
		Query:       c.Query("q"),
		Page:        handler.BindPagination(c),
	})
	handler.MustSucceed(c, err, result)
}

// Get 支付详情
// @Summary 支付详情
// @Tags 支付管理
// @Produce json
// @Security Bearer
// @Param id path string true "支付ID"
// @Success 200 {object} response.Response{data=models.Payment}
// @Router /api/admin/payments/{id} [get]
func (h *PaymentHandler) Get(c *gin.Context) {
	id, ok := handler.ParseID(c, "支付")
	if !ok {
		return
	}

	payment, err := h.paymentService.Get(c.Request.Context(), id)
	handler.MustSucceed(c, err, payment)
}

// MarkPaid 标记已支付
// @Summary 标记已支付
// @Tags 支付管理
// @Produce json
// @Security Bearer
// @Param id path string true "支付ID"
// @Success 200 {object} response.Response{data=models.Payment}
// @Router /api/admin/payments/{id}/paid [post]
func (h *PaymentHandler) MarkPaid(c *gin.Context) {
	adminID, ok := handler.RequireAdminID(c)
	if !ok {
		return
	}
	id, ok := handler.ParseID(c, "支付")
	if !ok {
		return
	}

	payment, err := h.paymentService.MarkPaid(c.Request.Context(), adminID, id)
	handler.MustSucceed(c, err, payment)
}

// MarkFailed 标记支付失败
// @Summary 标记支付失败
// @Tags 支付管理
// @Produce json
// @Security Bearer
// @Param id path string true "支付ID"
// @Success 200 {object} response.Response{data=models.Payment}
// @Router /api/admin/payments/{id}/failed [post]
func (h *PaymentHandler) MarkFailed(c *gin.Context) {
	adminID, ok := handler.RequireAdminID(c)
	if !ok {
		return
	}
	id, ok := handler.ParseID(c, "支付")
	if !ok {
		return
	}

	payment, err := h.paymentService.MarkFailed(c.Request.Context(), adminID, id)
	handler.MustSucceed(c, err, payment)
}

// Refund 退款
// @Summary 退款
// @Description 仅 admin 角色可操作，仅已支付的记录可退款，退款原因必填
// @Tags 支付管理
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "支付ID"
// @Param request body RefundRequest true "退款原因"
// @Success 200 {object} response.Response{data=models.Payment}
// @Router /api/admin/payments/{id}/refund [post]
func (h *PaymentHandler) Refund(c *gin.Context) {
	adminID, ok := handler.RequireAdminID(c)
	if !ok {
		return
	}
	id, ok := handler.ParseID(c, "支付")
	if !ok {
		return
	}

	var req RefundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	payment, err := h.paymentService.Refund(c.Request.Context(), adminID, id, req.Reason)
	handler.MustSucceed(c, err, payment)
}

// CheckOrder 查询订单是否已支付
// @Summary 查询订单是否已支付
// @Tags 支付管理
// @Produce json
// @Security Bearer
// @Param orderId path string true "服务订单或餐饮订单ID"
// @Success 200 {object} response.Response
// @Router /api/admin/payments/check/order/{orderId} [get]
func (h *PaymentHandler) CheckOrder(c *gin.Context) {
	orderID, ok := handler.ParseParamID(c, "orderId", "订单")
	if !ok {
		return
	}

	paid, err := h.paymentService.CheckOrder(c.Request.Context(), orderID)
	handler.MustSucceed(c, err, gin.H{"orderId": orderID, "isPaid": paid})
}

// CheckContractMonth 查询合同某月是否已有支付
// @Summary 查询合同某月是否已有支付
// @Tags 支付管理
// @Produce json
// @Security Bearer
// @Param contractId path string true "合同ID"
// @Param month query string false "月份 YYYY-MM，默认当月"
// @Success 200 {object} response.Response{data=paymentService.MonthCheck}
// @Router /api/admin/payments/check/contract/{contractId} [get]
func (h *PaymentHandler) CheckContractMonth(c *gin.Context) {
	contractID, ok := handler.ParseParamID(c, "contractId", "合同")
	if !ok {
		return
	}
	month, ok := handler.ParseQueryMonth(c, "month")
	if !ok {
		return
	}

	result, err := h.paymentService.CheckContractMonth(c.Request.Context(), contractID, month)
	handler.MustSucceed(c, err, result)
}

// UploadReceipt 上传支付凭证
// @Summary 上传支付凭证
// @Description 支持图片或 PDF，最大 10MB
// @Tags 支付管理
// @Accept multipart/form-data
// @Produce json
// @Security Bearer
// @Param id path string true "支付ID"
// @Param file formData file true "凭证文件"
// @Success 200 {object} response.Response{data=models.Payment}
// @Router /api/admin/payments/{id}/receipt [post]
func (h *PaymentHandler) UploadReceipt(c *gin.Context) {
	adminID, ok := handler.RequireAdminID(c)
	if !ok {
		return
	}
	id, ok := handler.ParseID(c, "支付")
	if !ok {
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "请选择要上传的文件")
		return
	}
	src, err := file.Open()
	if err != nil {
		response.BadRequest(c, "无法读取上传的文件")
		return
	}
	defer src.Close()

	payment, err := h.paymentService.AttachReceipt(c.Request.Context(), adminID, id, file.Filename, file.Size, src)
	handler.MustSucceed(c, err, payment)
}

// QRCode 付款二维码
// @Summary 付款二维码
// @Description 仅待支付的记录可生成，image 为 PNG Data URL
// @Tags 支付管理
// @Produce json
// @Security Bearer
// @Param id path string true "支付ID"
// @Success 200 {object} response.Response{data=paymentService.PaymentQR}
// @Router /api/admin/payments/{id}/qrcode [get]
func (h *PaymentHandler) QRCode(c *gin.Context) {
	id, ok := handler.ParseID(c, "支付")
	if !ok {
		return
	}

	qr, err := h.paymentService.QRCode(c.Request.Context(), id)
	handler.MustSucceed(c, err, qr)
}

// RegisterRoutes 注册路由
func (h *PaymentHandler) RegisterRoutes(r *gin.RouterGroup) {
	payments := r.Group("/payments")
	{
		payments.GET("", h.List)
		payments.POST("", h.Create)
		payments.GET("/check/order/:orderId", h.CheckOrder)
		payments.GET("/check/contract/:contractId", h.CheckContractMonth)
		payments.GET("/:id", h.Get)
		payments.POST("/:id/paid", h.MarkPaid)
		payments.POST("/:id/failed", h.MarkFailed)
		payments.POST("/:id/refund", middleware.RequireRole(jwt.RoleAdmin), h.Refund)
		payments.POST("/:id/receipt", h.UploadReceipt)
		payments.GET("/:id/qrcode", h.QRCode)
	}
}
