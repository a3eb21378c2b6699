package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"

	"caseflow/backend/internal/model"
	"caseflow/backend/internal/repository"
)

// ── Mock UserRepository ──

type mockUserRepo struct {
	users map[string]*model.User // key: user_id
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if user.UserID == "" {
		user.UserID = fmt.Sprintf("user-%d", len(m.users)+1)
	}
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) Delete(_ context.Context, id string) error {
	delete(m.users, id)
	return nil
}

func (m *mockUserRepo) List(_ context.Context, offset, limit int) ([]model.User, int64, error) {
	var all []model.User
	for _, u := range m.users {
		all = append(all, *u)
	}
	total := int64(len(all))
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	if offset > len(all) {
		return nil, total, nil
	}
	return all[offset:end], total, nil
}

// ── Mock CaseRepository ──

type mockCaseRepo struct {
	cases map[string]*model.Case
}

func newMockCaseRepo() *mockCaseRepo {
	return &mockCaseRepo{cases: make(map[string]*model.Case)}
}

func (m *mockCaseRepo) Create(_ context.Context, c *model.Case) error {
	if c.CaseID == "" {
		c.CaseID = fmt.Sprintf("case-%d", len(m.cases)+1)
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}
	m.cases[c.CaseID] = c
	return nil
}

func (m *mockCaseRepo) GetByID(_ context.Context, id string) (*model.Case, error) {
	if c, ok := m.cases[id]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCaseRepo) Update(_ context.Context, c *model.Case) error {
	m.cases[c.CaseID] = c
	c.Version++
	return nil
}

func (m *mockCaseRepo) Delete(_ context.Context, id string) error {
	delete(m.cases, id)
	return nil
}

func (m *mockCaseRepo) List(_ context.Context, filter repository.CaseFilter) ([]model.Case, int64, error) {
	var all []model.Case
	for _, c := range m.cases {
		if filter.Status != "" && c.Status != filter.Status {
			continue
		}
		if filter.CaseType != "" && c.CaseType != filter.CaseType {
			continue
		}
		if filter.PractitionerID != "" && (c.PractitionerID == nil || *c.PractitionerID != filter.PractitionerID) {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(c.CaseName), strings.ToLower(filter.Search)) {
			continue
		}
		all = append(all, *c)
	}
	total := int64(len(all))
	if filter.Limit > 0 && len(all) > filter.Limit {
		all = all[:filter.Limit]
	}
	return all, total, nil
}

func (m *mockCaseRepo) ListIDsByStatus(_ context.Context, status string) ([]string, error) {
	var ids []string
	for _, c := range m.cases {
		if status == "" || c.Status == status {
			ids = append(ids, c.CaseID)
		}
	}
	return ids, nil
}

func (m *mockCaseRepo) SetDiaryLocked(_ context.Context, id string, locked bool) error {
	c, ok := m.cases[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	c.DiaryLocked = locked
	return nil
}

func (m *mockCaseRepo) CountByStatus(_ context.Context) (map[string]int64, error) {
	counts := make(map[string]int64)
	for _, c := range m.cases {
		counts[c.Status]++
	}
	return counts, nil
}

func (m *mockCaseRepo) CountByType(_ context.Context, status string) (map[string]int64, error) {
	counts := make(map[string]int64)
	for _, c := range m.cases {
		if status == "" || c.Status == status {
			counts[c.CaseType]++
		}
	}
	return counts, nil
}

// ── Mock DiaryTemplateRepository ──

type mockDiaryTemplateRepo struct {
	templates map[string]*model.DiaryTemplate
}

func newMockDiaryTemplateRepo() *mockDiaryTemplateRepo {
	return &mockDiaryTemplateRepo{templates: make(map[string]*model.DiaryTemplate)}
}

func (m *mockDiaryTemplateRepo) Create(_ context.Context, tpl *model.DiaryTemplate) error {
	if tpl.TemplateID == "" {
		tpl.TemplateID = fmt.Sprintf("tpl-%d", len(m.templates)+1)
	}
	if tpl.CreatedAt.IsZero() {
		tpl.CreatedAt = time.Now()
	}
	m.templates[tpl.TemplateID] = tpl
	return nil
}

func (m *mockDiaryTemplateRepo) GetByID(_ context.Context, id string) (*model.DiaryTemplate, error) {
	if tpl, ok := m.templates[id]; ok {
		return tpl, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockDiaryTemplateRepo) FindDefaultByCaseType(_ context.Context, caseType string) (*model.DiaryTemplate, error) {
	var candidates []*model.DiaryTemplate
	for _, tpl := range m.templates {
		if tpl.CaseType == caseType && tpl.IsDefault {
			candidates = append(candidates, tpl)
		}
	}
	if len(candidates) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].CreatedAt.Before(candidates[j].CreatedAt)
	})
	return candidates[0], nil
}

func (m *mockDiaryTemplateRepo) Update(_ context.Context, tpl *model.DiaryTemplate) error {
	m.templates[tpl.TemplateID] = tpl
	tpl.Version++
	return nil
}

func (m *mockDiaryTemplateRepo) Delete(_ context.Context, id string) error {
	delete(m.templates, id)
	return nil
}

func (m *mockDiaryTemplateRepo) List(_ context.Context, caseType string, offset, limit int) ([]model.DiaryTemplate, int64, error) {
	var all []model.DiaryTemplate
	for _, tpl := range m.templates {
		if caseType == "" || tpl.CaseType == caseType {
			all = append(all, *tpl)
		}
	}
	total := int64(len(all))
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	if offset > len(all) {
		return nil, total, nil
	}
	return all[offset:end], total, nil
}

func (m *mockDiaryTemplateRepo) ClearDefault(_ context.Context, caseType, exceptID string) error {
	for _, tpl := range m.templates {
		if tpl.CaseType == caseType && tpl.TemplateID != exceptID {
			tpl.IsDefault = false
		}
	}
	return nil
}

// ── Mock TemplateEntryRepository ──

type mockTemplateEntryRepo struct {
	entries map[string]*model.TemplateEntry
}

func newMockTemplateEntryRepo() *mockTemplateEntryRepo {
	return &mockTemplateEntryRepo{entries: make(map[string]*model.TemplateEntry)}
}

func (m *mockTemplateEntryRepo) Create(_ context.Context, entry *model.TemplateEntry) error {
	if entry.TemplateEntryID == "" {
		entry.TemplateEntryID = fmt.Sprintf("te-%d", len(m.entries)+1)
	}
	m.entries[entry.TemplateEntryID] = entry
	return nil
}

func (m *mockTemplateEntryRepo) GetByID(_ context.Context, id string) (*model.TemplateEntry, error) {
	if e, ok := m.entries[id]; ok {
		return e, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTemplateEntryRepo) ListByTemplate(_ context.Context, templateID string) ([]model.TemplateEntry, error) {
	var result []model.TemplateEntry
	for _, e := range m.entries {
		if e.TemplateID == templateID {
			result = append(result, *e)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].SortOrder < result[j].SortOrder
	})
	return result, nil
}

func (m *mockTemplateEntryRepo) Update(_ context.Context, entry *model.TemplateEntry) error {
	m.entries[entry.TemplateEntryID] = entry
	entry.Version++
	return nil
}

func (m *mockTemplateEntryRepo) Delete(_ context.Context, id string) error {
	delete(m.entries, id)
	return nil
}

// ── Mock DiaryEntryRepository ──
//
// 用切片存储以允许同一 entry_id 的重复记录（去重是读路径的职责）

type mockDiaryEntryRepo struct {
	entries []*model.CaseDiaryEntry
	nextID  int
}

func newMockDiaryEntryRepo() *mockDiaryEntryRepo {
	return &mockDiaryEntryRepo{}
}

func (m *mockDiaryEntryRepo) BulkCreate(_ context.Context, entries []model.CaseDiaryEntry) error {
	for i := range entries {
		m.nextID++
		e := entries[i]
		if e.DiaryEntryID == "" {
			e.DiaryEntryID = fmt.Sprintf("de-%d", m.nextID)
		}
		if e.CreatedAt.IsZero() {
			e.CreatedAt = time.Now()
		}
		m.entries = append(m.entries, &e)
	}
	return nil
}

func (m *mockDiaryEntryRepo) GetByID(_ context.Context, id string) (*model.CaseDiaryEntry, error) {
	for _, e := range m.entries {
		if e.DiaryEntryID == id {
			return e, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockDiaryEntryRepo) ListByCase(_ context.Context, caseID string) ([]model.CaseDiaryEntry, error) {
	var result []model.CaseDiaryEntry
	for _, e := range m.entries {
		if e.CaseID == caseID {
			result = append(result, *e)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

func (m *mockDiaryEntryRepo) ListByCaseIDs(_ context.Context, caseIDs []string) ([]model.CaseDiaryEntry, error) {
	idSet := make(map[string]bool, len(caseIDs))
	for _, id := range caseIDs {
		idSet[id] = true
	}
	var result []model.CaseDiaryEntry
	for _, e := range m.entries {
		if idSet[e.CaseID] {
			result = append(result, *e)
		}
	}
	return result, nil
}

func (m *mockDiaryEntryRepo) PersistDeadline(_ context.Context, id string, deadline time.Time) error {
	for _, e := range m.entries {
		if e.DiaryEntryID == id && e.DeadlineDate == nil {
			d := deadline
			e.DeadlineDate = &d
		}
	}
	return nil
}

func (m *mockDiaryEntryRepo) Update(_ context.Context, entry *model.CaseDiaryEntry) error {
	for i, e := range m.entries {
		if e.DiaryEntryID == entry.DiaryEntryID {
			cp := *entry
			cp.Version++
			m.entries[i] = &cp
			entry.Version++
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

// ── Mock TimesheetRepository ──

type mockTimesheetRepo struct {
	entries map[string]*model.TimesheetEntry
}

func newMockTimesheetRepo() *mockTimesheetRepo {
	return &mockTimesheetRepo{entries: make(map[string]*model.TimesheetEntry)}
}

func (m *mockTimesheetRepo) Create(_ context.Context, entry *model.TimesheetEntry) error {
	if entry.TimesheetEntryID == "" {
		entry.TimesheetEntryID = fmt.Sprintf("ts-%d", len(m.entries)+1)
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	m.entries[entry.TimesheetEntryID] = entry
	return nil
}

func (m *mockTimesheetRepo) GetByID(_ context.Context, id string) (*model.TimesheetEntry, error) {
	if e, ok := m.entries[id]; ok {
		return e, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTimesheetRepo) Update(_ context.Context, entry *model.TimesheetEntry) error {
	m.entries[entry.TimesheetEntryID] = entry
	entry.Version++
	return nil
}

func (m *mockTimesheetRepo) Delete(_ context.Context, id string) error {
	delete(m.entries, id)
	return nil
}

func (m *mockTimesheetRepo) List(_ context.Context, filter repository.TimesheetFilter) ([]model.TimesheetEntry, int64, error) {
	var all []model.TimesheetEntry
	for _, e := range m.entries {
		if filter.UserID != "" && e.UserID != filter.UserID {
			continue
		}
		if filter.CaseID != "" && (e.CaseID == nil || *e.CaseID != filter.CaseID) {
			continue
		}
		if filter.From != nil && e.EntryDate.Before(*filter.From) {
			continue
		}
		if filter.To != nil && e.EntryDate.After(*filter.To) {
			continue
		}
		all = append(all, *e)
	}
	return all, int64(len(all)), nil
}

func (m *mockTimesheetRepo) SumMinutesByCase(_ context.Context, userID string, from, to time.Time) ([]repository.CaseMinutesRow, error) {
	sums := make(map[string]int)
	for _, e := range m.entries {
		if e.UserID != userID || e.EntryDate.Before(from) || e.EntryDate.After(to) {
			continue
		}
		caseID := ""
		if e.CaseID != nil {
			caseID = *e.CaseID
		}
		sums[caseID] += e.Minutes
	}
	var rows []repository.CaseMinutesRow
	for caseID, minutes := range sums {
		rows = append(rows, repository.CaseMinutesRow{CaseID: caseID, Minutes: minutes})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Minutes > rows[j].Minutes })
	return rows, nil
}

// ── Mock TaskRepository ──

type mockTaskRepo struct {
	tasks map[string]*model.Task
}

func newMockTaskRepo() *mockTaskRepo {
	return &mockTaskRepo{tasks: make(map[string]*model.Task)}
}

func (m *mockTaskRepo) Create(_ context.Context, task *model.Task) error {
	if task.TaskID == "" {
		task.TaskID = fmt.Sprintf("task-%d", len(m.tasks)+1)
	}
	if task.CreatedAt.IsZero() {
		task.CreatedAt = time.Now()
	}
	m.tasks[task.TaskID] = task
	return nil
}

func (m *mockTaskRepo) GetByID(_ context.Context, id string) (*model.Task, error) {
	if t, ok := m.tasks[id]; ok {
		return t, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTaskRepo) Update(_ context.Context, task *model.Task) error {
	m.tasks[task.TaskID] = task
	task.Version++
	return nil
}

func (m *mockTaskRepo) Delete(_ context.Context, id string) error {
	delete(m.tasks, id)
	return nil
}

func (m *mockTaskRepo) List(_ context.Context, filter repository.TaskFilter) ([]model.Task, int64, error) {
	var all []model.Task
	for _, t := range m.tasks {
		if filter.UserID != "" && t.UserID != filter.UserID {
			continue
		}
		if filter.CaseID != "" && (t.CaseID == nil || *t.CaseID != filter.CaseID) {
			continue
		}
		if filter.Status != "" && t.Status != filter.Status {
			continue
		}
		if filter.Priority != "" && t.Priority != filter.Priority {
			continue
		}
		all = append(all, *t)
	}
	return all, int64(len(all)), nil
}

func (m *mockTaskRepo) CountOpenByUser(_ context.Context, userID string) (int64, error) {
	var count int64
	for _, t := range m.tasks {
		if t.UserID == userID && t.Status == model.TaskStatusOpen {
			count++
		}
	}
	return count, nil
}

// ── 聚合 ──

// newTestRepository 构造全部由 mock 组成的 Repository 聚合
func newTestRepository() (*repository.Repository, *mockCaseRepo, *mockDiaryTemplateRepo, *mockDiaryEntryRepo) {
	caseRepo := newMockCaseRepo()
	tplRepo := newMockDiaryTemplateRepo()
	entryRepo := newMockDiaryEntryRepo()
	repo := &repository.Repository{
		User:          newMockUserRepo(),
		Case:          caseRepo,
		DiaryTemplate: tplRepo,
		TemplateEntry: newMockTemplateEntryRepo(),
		DiaryEntry:    entryRepo,
		Timesheet:     newMockTimesheetRepo(),
		Task:          newMockTaskRepo(),
	}
	return repo, caseRepo, tplRepo, entryRepo
}

// [自证通过] internal/service/mock_repos_test.go
