package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"audit-service/internal/models"
	"audit-service/internal/repository"
)

// MockAuditRepository is a mock implementation of AuditRepositoryInterface
type MockAuditRepository struct {
	mock.Mock
}

// Ensure MockAuditRepository implements the interface
var _ repository.AuditRepositoryInterface = (*MockAuditRepository)(nil)

// WithTransaction executes the callback with the mock itself, simulating a
// transaction so business logic can be tested without a real database.
func (m *MockAuditRepository) WithTransaction(ctx context.Context, fn func(txRepo repository.AuditRepositoryInterface) error) error {
	return fn(m)
}

func (m *MockAuditRepository) CreateUser(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	if args.Error(0) == nil && user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *MockAuditRepository) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockAuditRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockAuditRepository) ListUsers(ctx context.Context) ([]models.User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockAuditRepository) CreateSite(ctx context.Context, site *models.Site) error {
	args := m.Called(ctx, site)
	if args.Error(0) == nil && site.ID == uuid.Nil {
		site.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *MockAuditRepository) GetSiteByID(ctx context.Context, id uuid.UUID) (*models.Site, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Site), args.Error(1)
}

func (m *MockAuditRepository) ListSites(ctx context.Context) ([]models.Site, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Site), args.Error(1)
}

func (m *MockAuditRepository) ListTemplates(ctx context.Context) ([]models.ChecklistTemplate, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.ChecklistTemplate), args.Error(1)
}

func (m *MockAuditRepository) CreateAudit(ctx context.Context, audit *models.Audit) error {
	args := m.Called(ctx, audit)
	if args.Error(0) == nil && audit.ID == uuid.Nil {
		audit.ID = uuid.New()
		audit.CreatedAt = time.Now()
	}
	return args.Error(0)
}

func (m *MockAuditRepository) GetAuditByID(ctx context.Context, id uuid.UUID) (*models.Audit, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Audit), args.Error(1)
}

func (m *MockAuditRepository) ListAudits(ctx context.Context, filter repository.AuditFilter, limit, offset int) ([]models.Audit, int64, error) {
	args := m.Called(ctx, filter, limit, offset)
	return args.Get(0).([]models.Audit), args.Get(1).(int64), args.Error(2)
}

func (m *MockAuditRepository) SaveAudit(ctx context.Context, audit *models.Audit) error {
	args := m.Called(ctx, audit)
	return args.Error(0)
}

func (m *MockAuditRepository) CreateAuditItems(ctx context.Context, items []models.AuditItem) error {
	args := m.Called(ctx, items)
	return args.Error(0)
}

func (m *MockAuditRepository) ListAuditItems(ctx context.Context, auditID uuid.UUID) ([]models.AuditItem, error) {
	args := m.Called(ctx, auditID)
	return args.Get(0).([]models.AuditItem), args.Error(1)
}

func (m *MockAuditRepository) GetAuditItemByID(ctx context.Context, id uuid.UUID) (*models.AuditItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AuditItem), args.Error(1)
}

func (m *MockAuditRepository) SaveAuditItem(ctx context.Context, item *models.AuditItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockAuditRepository) CreateAction(ctx context.Context, action *models.CorrectiveAction) error {
	args := m.Called(ctx, action)
	if args.Error(0) == nil && action.ID == uuid.Nil {
		action.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *MockAuditRepository) GetActionByID(ctx context.Context, id uuid.UUID) (*models.CorrectiveAction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CorrectiveAction), args.Error(1)
}

func (m *MockAuditRepository) ListActions(ctx context.Context, filter repository.ActionFilter, limit, offset int) ([]models.CorrectiveAction, int64, error) {
	args := m.Called(ctx, filter, limit, offset)
	return args.Get(0).([]models.CorrectiveAction), args.Get(1).(int64), args.Error(2)
}

func (m *MockAuditRepository) SaveAction(ctx context.Context, action *models.CorrectiveAction) error {
	args := m.Called(ctx, action)
	return args.Error(0)
}

func (m *MockAuditRepository) RefreshOverdueFlags(ctx context.Context, now time.Time) (int64, int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Get(1).(int64), args.Error(2)
}

func (m *MockAuditRepository) CreateApproval(ctx context.Context, approval *models.AuditApproval) error {
	args := m.Called(ctx, approval)
	if args.Error(0) == nil && approval.ID == uuid.Nil {
		approval.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *MockAuditRepository) ListApprovalsByAudit(ctx context.Context, auditID uuid.UUID) ([]models.AuditApproval, error) {
	args := m.Called(ctx, auditID)
	return args.Get(0).([]models.AuditApproval), args.Error(1)
}

func (m *MockAuditRepository) CountAudits(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAuditRepository) CompletedAuditScores(ctx context.Context) ([]int, error) {
	args := m.Called(ctx)
	return args.Get(0).([]int), args.Error(1)
}

func (m *MockAuditRepository) CountActionsByStatus(ctx context.Context, status string) (int64, error) {
	args := m.Called(ctx, status)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAuditRepository) CountOverdueActions(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAuditRepository) RecentAudits(ctx context.Context, limit int) ([]models.Audit, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]models.Audit), args.Error(1)
}
