package admin

import (
	"github.com/gin-gonic/gin"

	"github.com/dumeirei/dorm-admin-backend/internal/common/handler"
	"github.com/dumeirei/dorm-admin-backend/internal/common/jwt"
	"github.com/dumeirei/dorm-admin-backend/internal/common/response"
	"github.com/dumeirei/dorm-admin-backend/internal/middleware"
	roomService "github.com/dumeirei/dorm-admin-backend/internal/service/room"
	"github.com/dumeirei/dorm-admin-backend/internal/service/validation"
)

// RoomHandler 房间管理处理器
type RoomHandler struct {
	roomService *roomService.RoomService
}

// NewRoomHandler 创建房间管理处理器
func NewRoomHandler(roomSvc *roomService.RoomService) *RoomHandler {
	return &RoomHandler{
		roomService: roomSvc,
	}
}

// Create 创建房间
// @Summary 创建房间
// @Tags 房间管理
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body validation.RoomForm true "房间表单"
// @Success 200 {object} response.Response{data=models.Room}
// @Router /api/admin/rooms [post]
func (h *RoomHandler) Create(c *gin.Context) {
	adminID, ok := handler.RequireAdminID(c)
	if !ok {
		return
	}

	var form validation.RoomForm
	if err := c.ShouldBindJSON(&form); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	room, err := h.roomService.Create(c.Request.Context(), adminID, &form)
	handler.MustSucceedWithMessage(c, err, "房间已创建", room)
}

// List 房间列表
// @Summary 房间列表
// @Tags 房间管理
// @Produce json
// @Security Bearer
// @Param building query string false "楼栋"
// @Param status query string false "状态"
// @Param type query string false "房型"
// @Param q query string false "房间号搜索"
// @Success 200 {object} response.Response{data=[]models.Room}
// @Router /api/admin/rooms [get]
func (h *RoomHandler) List(c *gin.Context) {
	rooms, err := h.roomService.List(c.Request.Context(), roomService.ListFilter{
		Building: c.Query("building"),
		Status:   c.Query("status"),
		Type:     c.Query("type"),
		Query:    c.Query("q"),
	})
	handler.MustSucceed(c, err, rooms)
}

// Get 房间详情
// @Summary 房间详情
// @Tags 房间管理
// @Produce json
// @Security Bearer
// @Param id path string true "房间ID"
// @Success 200 {object} response.Response{data=models.Room}
// @Router /api/admin/rooms/{id} [get]
func (h *RoomHandler) Get(c *gin.Context) {
	id, ok := handler.ParseID(c, "房间")
	if !ok {
		return
	}

	room, err := h.roomService.Get(c.Request.Context(), id)
	handler.MustSucceed(c, err, room)
}

// Update 更新房间
// @Summary 更新房间
// @Tags 房间管理
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "房间ID"
// @Param request body validation.RoomForm true "房间表单"
// @Success 200 {object} response.Response{data=models.Room}
// @Router /api/admin/rooms/{id} [put]
func (h *RoomHandler) Update(c *gin.Context) {
	adminID, ok := handler.RequireAdminID(c)
	if !ok {
		return
	}
	id, ok := handler.ParseID(c, "房间")
	if !ok {
		return
	}

	var form validation.RoomForm
	if err := c.ShouldBindJSON(&form); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	room, err := h.roomService.Update(c.Request.Context(), adminID, id, &form)
	handler.MustSucceed(c, err, room)
}

// Delete 删除房间
// @Summary 删除房间
// @Description 仅 admin 角色可操作
// @Tags 房间管理
// @Produce json
// @Security Bearer
// @Param id path string true "房间ID"
// @Success 200 {object} response.Response
// @Router /api/admin/rooms/{id} [delete]
func (h *RoomHandler) Delete(c *gin.Context) {
	adminID, ok := handler.RequireAdminID(c)
	if !ok {
		return
	}
	id, ok := handler.ParseID(c, "房间")
	if !ok {
		return
	}

	err := h.roomService.Delete(c.Request.Context(), adminID, id)
	handler.MustSucceedWithMessage(c, err, "房间已删除", nil)
}

// History 房间变更历史
// @Summary 房间变更历史
// @Tags 房间管理
// @Produce json
// @Security Bearer
// @Param id path string true "房间ID"
// @Success 200 {object} response.Response{data=[]models.RoomHistory}
// @Router /api/admin/rooms/{id}/history [get]
func (h *RoomHandler) History(c *gin.Context) {
	id, ok := handler.ParseID(c, "房间")
	if !ok {
		return
	}

	history, err := h.roomService.History(c.Request.Context(), id)
	handler.MustSucceed(c, err, history)
}

// UploadPhoto 上传房间照片
// @Summary 上传房间照片
// @Description 支持 jpg/jpeg/png/gif/webp 格式，最大 5MB
// @Tags 房间管理
// @Accept multipart/form-data
// @Produce json
// @Security Bearer
// @Param id path string true "房间ID"
// @Param file formData file true "图片文件"
// @Success 200 {object} response.Response{data=models.Room}
// @Router /api/admin/rooms/{id}/photo [post]
func (h *RoomHandler) UploadPhoto(c *gin.Context) {
	adminID, ok := handler.RequireAdminID(c)
	if !ok {
		return
	}
	id, ok := handler.ParseID(c, "房间")
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

	room, err := h.roomService.UploadPhoto(c.Request.Context(), adminID, id, file.Filename, file.Size, src)
	handler.MustSucceed(c, err, room)
}

// RegisterRoutes 注册路由
func (h *RoomHandler) RegisterRoutes(r *gin.RouterGroup) {
	rooms := r.Group("/rooms")
	{
		rooms.GET("", h.List)
		rooms.POST("", h.Create)
		rooms.GET("/:id", h.Get)
		rooms.PUT("/:id", h.Update)
		rooms.DELETE("/:id", middleware.RequireRole(jwt.RoleAdmin), h.Delete)
		rooms.GET("/:id/history", h.History)
		rooms.POST("/:id/photo", h.UploadPhoto)
	}
}
