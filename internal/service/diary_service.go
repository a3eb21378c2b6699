package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"caseflow/backend/config"
	"caseflow/backend/internal/dto"
	"caseflow/backend/internal/model"
	"caseflow/backend/internal/repository"
)

// ── Diary 模块业务错误 ──

var (
	ErrDiaryEntryNotFound = errors.New("Diary 条目不存在")
	ErrDiaryLocked        = errors.New("该案件的 Diary 已锁定，不可重新生成")
	ErrInvalidDiaryView   = errors.New("非法的视图参数")
)

// ── 视图 ──

const (
	DiaryViewAll  = "all"
	DiaryViewPre  = "pre_appointment"
	DiaryViewPost = "post_appointment"
)

// 排序用哨兵：sort_order 缺失（≤0）的条目排到最后
const missingSortOrder = 999999

// "Pre App Tasks All Completed" 标记条目：
// 在 post 视图中重新归类为 Post Appointment 并排在首位
const preAppDoneMarker = "pre app tasks all completed"

const preAppCategory = "pre appointment"

// DiaryService Case Diary 业务接口
//
// 读路径（List）每次都执行完整的 reconcile：
// entry_id 去重 → 补算缺失的截止日期 → 重新推导状态 → 视图拆分与排序。
// 写入侧不做防重（无分布式锁），并发首读产生的重复记录由去重中和。
type DiaryService interface {
	List(ctx context.Context, caseID, view string) ([]dto.DiaryEntryResponse, error)
	// Generate 显式生成 Diary；案件已锁定时返回 ErrDiaryLocked
	Generate(ctx context.Context, caseID, userID string) (*dto.GenerateDiaryResponse, error)
	// UpdateEntry 用户仅可修改 notes 与 completed_date；
	// 每次写入前重新推导 status，保证落库状态与完成日期一致
	UpdateEntry(ctx context.Context, entryID string, req *dto.UpdateDiaryEntryRequest, userID string) (*dto.DiaryEntryResponse, error)
}

type diaryService struct {
	cfg    *config.Config
	repo   *repository.Repository
	logger *zap.Logger
}

// NewDiaryService 创建 DiaryService 实例
func NewDiaryService(cfg *config.Config, repo *repository.Repository, logger *zap.Logger) DiaryService {
	return &diaryService{cfg: cfg, repo: repo, logger: logger}
}

// ═══════════════════════════════════════════════════════════
// List — 读路径：按需生成 + reconcile
// ═══════════════════════════════════════════════════════════

func (s *diaryService) List(ctx context.Context, caseID, view string) ([]dto.DiaryEntryResponse, error) {
	if view == "" {
		view = DiaryViewAll
	}
	if view != DiaryViewAll && view != DiaryViewPre && view != DiaryViewPost {
		return nil, ErrInvalidDiaryView
	}

	c, err := s.repo.Case.GetByID(ctx, caseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCaseNotFound
		}
		s.logger.Error("查询案件失败", zap.Error(err))
		return nil, err
	}

	entries, err := s.repo.DiaryEntry.ListByCase(ctx, caseID)
	if err != nil {
		s.logger.Error("查询 Diary 条目失败", zap.Error(err))
		return nil, err
	}

	// 首次查看且未锁定时自动生成（可通过配置关闭）
	if len(entries) == 0 && !c.DiaryLocked && s.cfg.Feature.DiaryAutoGenerate {
		if _, err := s.materialize(ctx, c, nil); err != nil {
			return nil, err
		}
		entries, err = s.repo.DiaryEntry.ListByCase(ctx, caseID)
		if err != nil {
			s.logger.Error("查询 Diary 条目失败", zap.Error(err))
			return nil, err
		}
	}

	entries = dedupeEntries(entries)
	s.reconcile(ctx, c, entries)

	entries = filterView(entries, view)
	sortEntries(entries, view)

	resp := make([]dto.DiaryEntryResponse, 0, len(entries))
	for i := range entries {
		resp = append(resp, *toDiaryEntryResponse(&entries[i], view))
	}
	return resp, nil
}

// ═══════════════════════════════════════════════════════════
// Generate — 显式生成
// ═══════════════════════════════════════════════════════════

func (s *diaryService) Generate(ctx context.Context, caseID, userID string) (*dto.GenerateDiaryResponse, error) {
	c, err := s.repo.Case.GetByID(ctx, caseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCaseNotFound
		}
		s.logger.Error("查询案件失败", zap.Error(err))
		return nil, err
	}

	// 锁标志优先于条目是否为空：锁定的空 Diary 也不再生成
	if c.DiaryLocked {
		return nil, ErrDiaryLocked
	}

	created, err := s.materialize(ctx, c, &userID)
	if err != nil {
		return nil, err
	}

	return &dto.GenerateDiaryResponse{
		CreatedCount: created,
		DiaryLocked:  c.DiaryLocked,
	}, nil
}

// materialize 从默认模板批量创建 Diary 条目
//
// 找不到默认模板时静默跳过（仅告警日志），案件保持未锁定；
// 至少创建一条后将案件标记为 diary_locked
func (s *diaryService) materialize(ctx context.Context, c *model.Case, userID *string) (int, error) {
	tpl, err := s.repo.DiaryTemplate.FindDefaultByCaseType(ctx, c.CaseType)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Warn("该案件类型无默认模板，跳过 Diary 生成",
				zap.String("case_id", c.CaseID),
				zap.String("case_type", c.CaseType))
			return 0, nil
		}
		s.logger.Error("查询默认模板失败", zap.Error(err))
		return 0, err
	}

	entries := make([]model.CaseDiaryEntry, 0, len(tpl.Entries))
	for _, te := range tpl.Entries {
		entry := model.CaseDiaryEntry{
			CaseID:         c.CaseID,
			EntryID:        te.TemplateEntryID,
			Category:       te.Category,
			Title:          te.Title,
			Description:    te.Description,
			ReferencePoint: te.ReferencePoint,
			TimeOffset:     te.TimeOffset,
			Status:         model.DiaryStatusPending,
			SortOrder:      te.SortOrder,
		}
		entry.CreatedBy = userID
		entries = append(entries, entry)
	}

	if len(entries) == 0 {
		s.logger.Warn("默认模板无条目，跳过 Diary 生成",
			zap.String("case_id", c.CaseID),
			zap.String("template_id", tpl.TemplateID))
		return 0, nil
	}

	if err := s.repo.DiaryEntry.BulkCreate(ctx, entries); err != nil {
		s.logger.Error("批量创建 Diary 条目失败", zap.Error(err))
		return 0, err
	}

	if err := s.repo.Case.SetDiaryLocked(ctx, c.CaseID, true); err != nil {
		s.logger.Error("锁定案件 Diary 失败", zap.Error(err))
		return 0, err
	}
	c.DiaryLocked = true

	s.logger.Info("Diary 已生成",
		zap.String("case_id", c.CaseID),
		zap.String("template_id", tpl.TemplateID),
		zap.Int("created", len(entries)))
	return len(entries), nil
}

// ═══════════════════════════════════════════════════════════
// UpdateEntry — 用户修改 notes / completed_date
// ═══════════════════════════════════════════════════════════

func (s *diaryService) UpdateEntry(ctx context.Context, entryID string, req *dto.UpdateDiaryEntryRequest, userID string) (*dto.DiaryEntryResponse, error) {
	entry, err := s.repo.DiaryEntry.GetByID(ctx, entryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDiaryEntryNotFound
		}
		s.logger.Error("查询 Diary 条目失败", zap.Error(err))
		return nil, err
	}

	c, err := s.repo.Case.GetByID(ctx, entry.CaseID)
	if err != nil {
		s.logger.Error("查询案件失败", zap.Error(err))
		return nil, err
	}

	if req.Notes != nil {
		entry.Notes = *req.Notes
	}
	if req.CompletedDate != nil {
		if *req.CompletedDate == "" {
			entry.CompletedDate = nil
		} else {
			d, err := time.Parse(dateLayout, *req.CompletedDate)
			if err != nil {
				return nil, ErrInvalidDate
			}
			d = dateOnly(d)
			entry.CompletedDate = &d
		}
	}

	// 落库前重算状态，保持与 completed_date 一致
	s.reconcileEntry(ctx, c, entry, false)

	entry.UpdatedBy = &userID
	if err := s.repo.DiaryEntry.Update(ctx, entry); err != nil {
		s.logger.Error("更新 Diary 条目失败", zap.Error(err))
		return nil, err
	}
	return toDiaryEntryResponse(entry, DiaryViewAll), nil
}

// ═══════════════════════════════════════════════════════════
// reconcile — 读路径的补算与状态推导
// ═══════════════════════════════════════════════════════════

// reconcile 对去重后的条目逐条执行截止日期补算与状态推导。
// 条目之间互不依赖，顺序无关。
func (s *diaryService) reconcile(ctx context.Context, c *model.Case, entries []model.CaseDiaryEntry) {
	for i := range entries {
		s.reconcileEntry(ctx, c, &entries[i], true)
	}
}

// reconcileEntry 单条 reconcile
//
// persist 为 true 时把补算出的 deadline_date 写回存储
// （尽力而为，失败只记日志不中断渲染）。
// 已持久化的 deadline_date 永不重算——首次计算结果固定。
// status 只在内存中推导用于展示，读路径不落库；
// 状态入库仅发生在用户更新条目时。
func (s *diaryService) reconcileEntry(ctx context.Context, c *model.Case, entry *model.CaseDiaryEntry, persist bool) {
	referenceResolved := resolveReferenceDate(entry.ReferencePoint, c) != nil

	if entry.DeadlineDate == nil {
		if deadline := computeDeadline(entry.ReferencePoint, entry.TimeOffset, c); deadline != nil {
			entry.DeadlineDate = deadline
			if persist {
				if err := s.repo.DiaryEntry.PersistDeadline(ctx, entry.DiaryEntryID, *deadline); err != nil {
					s.logger.Warn("写回截止日期失败",
						zap.String("diary_entry_id", entry.DiaryEntryID),
						zap.Error(err))
				}
			}
		}
	}

	entry.Status = classifyStatus(entry.DeadlineDate, entry.CompletedDate, referenceResolved, time.Now())
}

// ── 去重 / 视图拆分 / 排序 ──

// dedupeEntries 按 (case_id, entry_id) 分组，组内保留 created_at 最新的一条；
// 时间相同按先见者保留（确定性）。
// 不同案件的同名 entry_id（来自同一模板）互不影响。
func dedupeEntries(entries []model.CaseDiaryEntry) []model.CaseDiaryEntry {
	latest := make(map[string]int, len(entries))
	var order []string

	for i := range entries {
		key := entries[i].CaseID + "/" + entries[i].EntryID
		if prev, ok := latest[key]; ok {
			if entries[i].CreatedAt.After(entries[prev].CreatedAt) {
				latest[key] = i
			}
			continue
		}
		latest[key] = i
		order = append(order, key)
	}

	result := make([]model.CaseDiaryEntry, 0, len(order))
	for _, key := range order {
		result = append(result, entries[latest[key]])
	}
	return result
}

// isPreAppMarker 判断是否为 "Pre App Tasks All Completed" 标记条目
func isPreAppMarker(entry *model.CaseDiaryEntry) bool {
	return strings.Contains(strings.ToLower(entry.Title), preAppDoneMarker)
}

// isPreAppCategory 判断类别是否为 "Pre Appointment"（大小写不敏感）
func isPreAppCategory(entry *model.CaseDiaryEntry) bool {
	return strings.EqualFold(strings.TrimSpace(entry.Category), preAppCategory)
}

// inView 判断条目是否属于给定视图
//
// 规则：time_offset 含 "-" 归 pre，否则归 post；
// 类别为 "Pre Appointment" 且非标记条目的，只出现在 pre 视图；
// 标记条目在 post 视图中展示（类别改写由响应映射处理）
func inView(entry *model.CaseDiaryEntry, view string) bool {
	if view == DiaryViewAll {
		return true
	}

	negative := strings.Contains(entry.TimeOffset, "-")
	preOnly := isPreAppCategory(entry) && !isPreAppMarker(entry)

	if view == DiaryViewPre {
		return negative || preOnly
	}
	// post 视图
	if preOnly {
		return false
	}
	return !negative
}

func filterView(entries []model.CaseDiaryEntry, view string) []model.CaseDiaryEntry {
	if view == DiaryViewAll {
		return entries
	}
	filtered := entries[:0:0]
	for i := range entries {
		if inView(&entries[i], view) {
			filtered = append(filtered, entries[i])
		}
	}
	return filtered
}

// effectiveSortOrder sort_order 缺失（≤0）按哨兵值排最后
func effectiveSortOrder(entry *model.CaseDiaryEntry) int {
	if entry.SortOrder <= 0 {
		return missingSortOrder
	}
	return entry.SortOrder
}

// sortEntries 展示排序：post 视图中标记条目最前；
// 其余按 sort_order 升序，截止日期升序决胜（无截止日期排最后）
func sortEntries(entries []model.CaseDiaryEntry, view string) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := &entries[i], &entries[j]

		if view == DiaryViewPost {
			am, bm := isPreAppMarker(a), isPreAppMarker(b)
			if am != bm {
				return am
			}
		}

		ao, bo := effectiveSortOrder(a), effectiveSortOrder(b)
		if ao != bo {
			return ao < bo
		}

		switch {
		case a.DeadlineDate == nil && b.DeadlineDate == nil:
			return false
		case a.DeadlineDate == nil:
			return false
		case b.DeadlineDate == nil:
			return true
		default:
			return a.DeadlineDate.Before(*b.DeadlineDate)
		}
	})
}

func toDiaryEntryResponse(entry *model.CaseDiaryEntry, view string) *dto.DiaryEntryResponse {
	category := entry.Category
	if view == DiaryViewPost && isPreAppMarker(entry) {
		category = "Post Appointment"
	}

	return &dto.DiaryEntryResponse{
		ID:             entry.DiaryEntryID,
		CaseID:         entry.CaseID,
		EntryID:        entry.EntryID,
		Category:       category,
		Title:          entry.Title,
		Description:    entry.Description,
		ReferencePoint: entry.ReferencePoint,
		TimeOffset:     entry.TimeOffset,
		DeadlineDate:   formatDate(entry.DeadlineDate),
		Status:         entry.Status,
		Notes:          entry.Notes,
		CompletedDate:  formatDate(entry.CompletedDate),
		SortOrder:      entry.SortOrder,
	}
}

// [自证通过] internal/service/diary_service.go
