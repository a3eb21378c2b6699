package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"caseflow/backend/internal/dto"
	"caseflow/backend/internal/service"
	"caseflow/backend/pkg/response"
)

// TemplateHandler Diary 模板模块 HTTP 处理器
type TemplateHandler struct {
	templateSvc service.TemplateService
}

// NewTemplateHandler 创建 TemplateHandler
func NewTemplateHandler(templateSvc service.TemplateService) *TemplateHandler {
	return &TemplateHandler{templateSvc: templateSvc}
}

// templateListQuery 模板列表查询参数
type templateListQuery struct {
	dto.PaginationRequest
	CaseType string `form:"case_type"`
}

// CreateTemplate 创建模板
// POST /api/v1/templates
func (h *TemplateHandler) CreateTemplate(c *gin.Context) {
	var req dto.CreateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.templateSvc.Create(c.Request.Context(), &req, userID)
	if err != nil {
		h.handleTemplateError(c, err)
		return
	}

	response.Created(c, result)
}

// GetTemplate 获取模板详情（含条目）
// GET /api/v1/templates/:id
func (h *TemplateHandler) GetTemplate(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "模板ID不能为空")
		return
	}

	result, err := h.templateSvc.Get(c.Request.Context(), id)
	if err != nil {
		h.handleTemplateError(c, err)
		return
	}

	response.OK(c, result)
}

// UpdateTemplate 更新模板
// PUT /api/v1/templates/:id
func (h *TemplateHandler) UpdateTemplate(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "模板ID不能为空")
		return
	}

	var req dto.UpdateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.templateSvc.Update(c.Request.Context(), id, &req, userID)
	if err != nil {
		h.handleTemplateError(c, err)
		return
	}

	response.OK(c, result)
}

// DeleteTemplate 删除模板
// DELETE /api/v1/templates/:id
func (h *TemplateHandler) DeleteTemplate(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "模板ID不能为空")
		return
	}

	if err := h.templateSvc.Delete(c.Request.Context(), id); err != nil {
		h.handleTemplateError(c, err)
		return
	}

	response.OK(c, nil)
}

// ListTemplates 模板列表
// GET /api/v1/templates
func (h *TemplateHandler) ListTemplates(c *gin.Context) {
	var q templateListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	templates, total, err := h.templateSvc.List(c.Request.Context(), q.CaseType, q.GetPage(), q.GetPageSize())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, templates, total, q.GetPage(), q.GetPageSize())
}

// AddEntry 向模板添加条目
// POST /api/v1/templates/:id/entries
func (h *TemplateHandler) AddEntry(c *gin.Context) {
	templateID := c.Param("id")
	if templateID == "" {
		response.BadRequest(c, 10001, "模板ID不能为空")
		return
	}

	var req dto.CreateTemplateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.templateSvc.AddEntry(c.Request.Context(), templateID, &req, userID)
	if err != nil {
		h.handleTemplateError(c, err)
		return
	}

	response.Created(c, result)
}

// UpdateEntry 更新模板条目
// PUT /api/v1/template-entries/:id
func (h *TemplateHandler) UpdateEntry(c *gin.Context) {
	entryID := c.Param("id")
	if entryID == "" {
		response.BadRequest(c, 10001, "条目ID不能为空")
		return
	}

	var req dto.UpdateTemplateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.templateSvc.UpdateEntry(c.Request.Context(), entryID, &req, userID)
	if err != nil {
		h.handleTemplateError(c, err)
		return
	}

	response.OK(c, result)
}

// DeleteEntry 删除模板条目
// DELETE /api/v1/template-entries/:id
func (h *TemplateHandler) DeleteEntry(c *gin.Context) {
	entryID := c.Param("id")
	if entryID == "" {
		response.BadRequest(c, 10001, "条目ID不能为空")
		return
	}

	if err := h.templateSvc.DeleteEntry(c.Request.Context(), entryID); err != nil {
		h.handleTemplateError(c, err)
		return
	}

	response.OK(c, nil)
}

func (h *TemplateHandler) handleTemplateError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrTemplateNotFound):
		response.NotFound(c, 14001, "模板不存在")
	case errors.Is(err, service.ErrTemplateEntryNotFound):
		response.NotFound(c, 14002, "模板条目不存在")
	case errors.Is(err, service.ErrInvalidCaseType):
		response.BadRequest(c, 14003, "案件类型无效")
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/template_handler.go
