package admin

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/dumeirei/dorm-admin-backend/internal/common/handler"
	"github.com/dumeirei/dorm-admin-backend/internal/common/response"
	"github.com/dumeirei/dorm-admin-backend/internal/common/utils"
	"github.com/dumeirei/dorm-admin-backend/internal/docstore"
	"github.com/dumeirei/dorm-admin-backend/internal/service/reference"
)

// ReferenceHandler 面板下拉框等使用的关联数据
type ReferenceHandler struct {
	loader      *reference.Loader
	collections []string
}

// NewReferenceHandler 创建关联数据处理器，collections 为允许读取的集合
func NewReferenceHandler(loader *reference.Loader, collections ...string) *ReferenceHandler {
	return &ReferenceHandler{
		loader:      loader,
		collections: collections,
	}
}

// ReferenceResult 关联数据
type ReferenceResult struct {
	Collections map[string][]docstore.Document `json:"collections"`
	Warnings    []reference.Warning            `json:"warnings"`
}

// Load 一次加载多个集合
// @Summary 加载关联数据
// @Description 并发加载多个集合的全部文档，单个集合失败时返回空列表并在 warnings 中说明
// @Tags 关联数据
// @Produce json
// @Security Bearer
// @Param collections query string true "逗号分隔的集合名"
// @Success 200 {object} response.Response{data=ReferenceResult}
// @Router /api/admin/reference [get]
func (h *ReferenceHandler) Load(c *gin.Context) {
	var names []string
	for _, name := range strings.Split(c.Query("collections"), ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if !utils.Contains(h.collections, name) {
			response.BadRequest(c, "不支持的集合: "+name)
			return
		}
		names = append(names, name)
	}
	names = utils.Unique(names)
	if len(names) == 0 {
		response.BadRequest(c, "请指定要加载的集合")
		return
	}

	reqs := make([]reference.Request, 0, len(names))
	for _, name := range names {
		reqs = append(reqs, reference.For(name))
	}
	snap, err := h.loader.LoadSet(c.Request.Context(), reqs...)
	if handler.HandleError(c, err) {
		return
	}

	result := ReferenceResult{
		Collections: make(map[string][]docstore.Document, len(names)),
		Warnings:    snap.Warnings(),
	}
	for _, name := range names {
		result.Collections[name] = snap.Documents(name)
	}
	response.Success(c, result)
}

// RegisterRoutes 注册路由
func (h *ReferenceHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/reference", h.Load)
}
