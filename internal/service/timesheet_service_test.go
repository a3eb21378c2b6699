package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"caseflow/backend/internal/dto"
	"caseflow/backend/internal/model"
)

func setupTimesheetTest() (TimesheetService, *mockCaseRepo) {
	repo, caseRepo, _, _ := newTestRepository()
	// rdb 为 nil：计时器相关接口应明确降级
	return NewTimesheetService(repo, nil, zap.NewNop()), caseRepo
}

func seedCase(caseRepo *mockCaseRepo) *model.Case {
	c := &model.Case{CaseID: "case-1", CaseName: "Alpha Trading Ltd", CaseType: model.CaseTypeCVL, Status: "open"}
	_ = caseRepo.Create(context.Background(), c)
	return c
}

func TestTimesheetCreate_Success(t *testing.T) {
	svc, caseRepo := setupTimesheetTest()
	c := seedCase(caseRepo)

	entry, err := svc.Create(context.Background(), "user-1", &dto.CreateTimesheetEntryRequest{
		CaseID:    &c.CaseID,
		Activity:  "Creditor correspondence",
		EntryDate: "2026-08-20",
		Minutes:   45,
	})
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}
	if entry.Minutes != 45 {
		t.Errorf("期望 45 分钟，实际=%d", entry.Minutes)
	}
	if entry.EntryDate != "2026-08-20" {
		t.Errorf("期望 2026-08-20，实际=%s", entry.EntryDate)
	}
}

func TestTimesheetCreate_UnknownCase(t *testing.T) {
	svc, _ := setupTimesheetTest()

	missing := "missing"
	_, err := svc.Create(context.Background(), "user-1", &dto.CreateTimesheetEntryRequest{
		CaseID:    &missing,
		Activity:  "Correspondence",
		EntryDate: "2026-08-20",
		Minutes:   30,
	})
	if !errors.Is(err, ErrCaseNotFound) {
		t.Errorf("期望 ErrCaseNotFound，实际: %v", err)
	}
}

func TestTimesheetUpdate_OwnerOnly(t *testing.T) {
	svc, caseRepo := setupTimesheetTest()
	c := seedCase(caseRepo)

	entry, _ := svc.Create(context.Background(), "user-1", &dto.CreateTimesheetEntryRequest{
		CaseID:    &c.CaseID,
		Activity:  "Correspondence",
		EntryDate: "2026-08-20",
		Minutes:   30,
	})

	minutes := 60
	if _, err := svc.Update(context.Background(), "user-2", entry.ID, &dto.UpdateTimesheetEntryRequest{
		Minutes: &minutes,
	}); !errors.Is(err, ErrNotEntryOwner) {
		t.Errorf("期望 ErrNotEntryOwner，实际: %v", err)
	}

	updated, err := svc.Update(context.Background(), "user-1", entry.ID, &dto.UpdateTimesheetEntryRequest{
		Minutes: &minutes,
	})
	if err != nil {
		t.Fatalf("本人更新应成功: %v", err)
	}
	if updated.Minutes != 60 {
		t.Errorf("期望 60 分钟，实际=%d", updated.Minutes)
	}
}

func TestTimesheetSummary(t *testing.T) {
	svc, caseRepo := setupTimesheetTest()
	c := seedCase(caseRepo)

	for _, minutes := range []int{30, 45} {
		if _, err := svc.Create(context.Background(), "user-1", &dto.CreateTimesheetEntryRequest{
			CaseID:    &c.CaseID,
			Activity:  "Correspondence",
			EntryDate: "2026-08-20",
			Minutes:   minutes,
		}); err != nil {
			t.Fatalf("Create 应成功: %v", err)
		}
	}

	summary, err := svc.Summary(context.Background(), "user-1", day(2026, 8, 1), day(2026, 8, 31))
	if err != nil {
		t.Fatalf("Summary 应成功: %v", err)
	}
	if summary.TotalMinutes != 75 {
		t.Errorf("期望合计 75 分钟，实际=%d", summary.TotalMinutes)
	}
	if len(summary.ByCase) != 1 {
		t.Errorf("期望 1 个案件分组，实际=%d", len(summary.ByCase))
	}
}

func TestTimer_UnavailableWithoutRedis(t *testing.T) {
	svc, caseRepo := setupTimesheetTest()
	c := seedCase(caseRepo)

	if _, err := svc.StartTimer(context.Background(), "user-1", &dto.StartTimerRequest{
		CaseID: c.CaseID, Activity: "Call",
	}); !errors.Is(err, ErrTimerUnavailable) {
		t.Errorf("期望 ErrTimerUnavailable，实际: %v", err)
	}
	if _, err := svc.StopTimer(context.Background(), "user-1"); !errors.Is(err, ErrTimerUnavailable) {
		t.Errorf("期望 ErrTimerUnavailable，实际: %v", err)
	}
}

// [自证通过] internal/service/timesheet_service_test.go
