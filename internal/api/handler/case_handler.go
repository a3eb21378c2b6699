package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"caseflow/backend/internal/dto"
	"caseflow/backend/internal/repository"
	"caseflow/backend/internal/service"
	pkgerrors "caseflow/backend/pkg/errors"
	"caseflow/backend/pkg/response"
)

// CaseHandler 案件模块 HTTP 处理器
type CaseHandler struct {
	caseSvc service.CaseService
}

// NewCaseHandler 创建 CaseHandler
func NewCaseHandler(caseSvc service.CaseService) *CaseHandler {
	return &CaseHandler{caseSvc: caseSvc}
}

// caseListQuery 案件列表查询参数
type caseListQuery struct {
	dto.PaginationRequest
	Status         string `form:"status"          binding:"omitempty,oneof=open closed"`
	CaseType       string `form:"case_type"`
	PractitionerID string `form:"practitioner_id"`
	Search         string `form:"search"          binding:"omitempty,max=100"`
}

// CreateCase 创建案件
// POST /api/v1/cases
func (h *CaseHandler) CreateCase(c *gin.Context) {
	var req dto.CreateCaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.caseSvc.Create(c.Request.Context(), &req, userID)
	if err != nil {
		h.handleCaseError(c, err)
		return
	}

	response.Created(c, result)
}

// GetCase 获取案件详情
// GET /api/v1/cases/:id
func (h *CaseHandler) GetCase(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "案件ID不能为空")
		return
	}

	result, err := h.caseSvc.Get(c.Request.Context(), id)
	if err != nil {
		h.handleCaseError(c, err)
		return
	}

	response.OK(c, result)
}

// UpdateCase 更新案件（含参考点日期维护）
// PUT /api/v1/cases/:id
func (h *CaseHandler) UpdateCase(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "案件ID不能为空")
		return
	}

	var req dto.UpdateCaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.caseSvc.Update(c.Request.Context(), id, &req, userID)
	if err != nil {
		h.handleCaseError(c, err)
		return
	}

	response.OK(c, result)
}

// DeleteCase 删除案件
// DELETE /api/v1/cases/:id
func (h *CaseHandler) DeleteCase(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "案件ID不能为空")
		return
	}

	if err := h.caseSvc.Delete(c.Request.Context(), id); err != nil {
		h.handleCaseError(c, err)
		return
	}

	response.OK(c, nil)
}

// ListCases 案件列表
// GET /api/v1/cases
func (h *CaseHandler) ListCases(c *gin.Context) {
	var q caseListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	cases, total, err := h.caseSvc.List(c.Request.Context(), repository.CaseFilter{
		Status:         q.Status,
		CaseType:       q.CaseType,
		PractitionerID: q.PractitionerID,
		Search:         q.Search,
		Offset:         q.GetOffset(),
		Limit:          q.GetPageSize(),
	})
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, cases, total, q.GetPage(), q.GetPageSize())
}

// SetDiaryLock 手工锁定 / 解锁案件 Diary 生成（管理员）
// PUT /api/v1/cases/:id/diary-lock
func (h *CaseHandler) SetDiaryLock(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "案件ID不能为空")
		return
	}

	var req dto.SetDiaryLockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	if err := h.caseSvc.SetDiaryLocked(c.Request.Context(), id, *req.Locked); err != nil {
		h.handleCaseError(c, err)
		return
	}

	response.OK(c, nil)
}

func (h *CaseHandler) handleCaseError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrCaseNotFound):
		response.NotFound(c, 13001, "案件不存在")
	case errors.Is(err, service.ErrInvalidCaseType):
		response.BadRequest(c, 13002, "案件类型无效")
	case errors.Is(err, service.ErrInvalidDate):
		response.BadRequest(c, 13003, "日期格式应为 YYYY-MM-DD")
	case errors.Is(err, pkgerrors.ErrOptimisticLock):
		response.Error(c, http.StatusConflict, 13004, "数据已被他人修改，请刷新后重试")
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/case_handler.go
