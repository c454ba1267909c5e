package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"audit-service/internal/models"
)

// AuditFilter narrows audit list queries. Nil/empty fields are ignored.
type AuditFilter struct {
	AuditorID *uuid.UUID
	SiteID    *uuid.UUID
	Status    string
}

// ActionFilter narrows corrective action list queries.
type ActionFilter struct {
	Status      string
	AssigneeID  *uuid.UUID
	OverdueOnly bool
}

// AuditRepositoryInterface defines the storage contract so services can be
// tested against mocks
type AuditRepositoryInterface interface {
	WithTransaction(ctx context.Context, fn func(txRepo AuditRepositoryInterface) error) error

	// Users
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)

	// Sites
	CreateSite(ctx context.Context, site *models.Site) error
	GetSiteByID(ctx context.Context, id uuid.UUID) (*models.Site, error)
	ListSites(ctx context.Context) ([]models.Site, error)

	// Checklist templates
	ListTemplates(ctx context.Context) ([]models.ChecklistTemplate, error)

	// Audits
	CreateAudit(ctx context.Context, audit *models.Audit) error
	GetAuditByID(ctx context.Context, id uuid.UUID) (*models.Audit, error)
	ListAudits(ctx context.Context, filter AuditFilter, limit, offset int) ([]models.Audit, int64, error)
	SaveAudit(ctx context.Context, audit *models.Audit) error

	// Audit items
	CreateAuditItems(ctx context.Context, items []models.AuditItem) error
	ListAuditItems(ctx context.Context, auditID uuid.UUID) ([]models.AuditItem, error)
	GetAuditItemByID(ctx context.Context, id uuid.UUID) (*models.AuditItem, error)
	SaveAuditItem(ctx context.Context, item *models.AuditItem) error

	// Corrective actions
	CreateAction(ctx context.Context, action *models.CorrectiveAction) error
	GetActionByID(ctx context.Context, id uuid.UUID) (*models.CorrectiveAction, error)
	ListActions(ctx context.Context, filter ActionFilter, limit, offset int) ([]models.CorrectiveAction, int64, error)
	SaveAction(ctx context.Context, action *models.CorrectiveAction) error
	RefreshOverdueFlags(ctx context.Context, now time.Time) (flagged, cleared int64, err error)

	// Approvals
	CreateApproval(ctx context.Context, approval *models.AuditApproval) error
	ListApprovalsByAudit(ctx context.Context, auditID uuid.UUID) ([]models.AuditApproval, error)

	// Dashboard aggregates
	CountAudits(ctx context.Context) (int64, error)
	CompletedAuditScores(ctx context.Context) ([]int, error)
	CountActionsByStatus(ctx context.Context, status string) (int64, error)
	CountOverdueActions(ctx context.Context, now time.Time) (int64, error)
	RecentAudits(ctx context.Context, limit int) ([]models.Audit, error)
}
