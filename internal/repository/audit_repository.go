package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"audit-service/internal/models"
)

var (
	ErrNotFound = errors.New("not found")
)

// AuditRepository handles database operations for the audit domain
type AuditRepository struct {
	db *gorm.DB
}

// NewAuditRepository creates a new AuditRepository
func NewAuditRepository(db *gorm.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

var _ AuditRepositoryInterface = (*AuditRepository)(nil)

// WithTransaction runs fn against a transaction-scoped repository. Audit
// creation uses this so the audit row and its items commit or roll back
// together.
func (r *AuditRepository) WithTransaction(ctx context.Context, fn func(txRepo AuditRepositoryInterface) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&AuditRepository{db: tx})
	})
}

// --- Template Methods ---

// ListTemplates returns the full catalog ordered by (category, item number).
func (r *AuditRepository) ListTemplates(ctx context.Context) ([]models.ChecklistTemplate, error) {
	var templates []models.ChecklistTemplate
	err := r.db.WithContext(ctx).
		Order("category ASC, item_number ASC").
		Find(&templates).Error
	return templates, err
}

// --- Audit Methods ---

// CreateAudit creates a new audit row
func (r *AuditRepository) CreateAudit(ctx context.Context, audit *models.Audit) error {
	return r.db.WithContext(ctx).Create(audit).Error
}

// GetAuditByID retrieves an audit with its site, auditor and items, each item
// carrying its template and actions
func (r *AuditRepository) GetAuditByID(ctx context.Context, id uuid.UUID) (*models.Audit, error) {
	var audit models.Audit
	err := r.db.WithContext(ctx).
		Preload("Site").
		Preload("Auditor").
		Preload("Items.Template").
		Preload("Items.CorrectiveActions").
		Where("id = ?", id).
		First(&audit).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &audit, nil
}

// ListAudits retrieves audits matching the filter, newest inspection first
func (r *AuditRepository) ListAudits(ctx context.Context, filter AuditFilter, limit, offset int) ([]models.Audit, int64, error) {
	var audits []models.Audit
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Audit{})
	if filter.AuditorID != nil {
		query = query.Where("auditor_id = ?", *filter.AuditorID)
	}
	if filter.SiteID != nil {
		query = query.Where("site_id = ?", *filter.SiteID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Preload("Site").
		Preload("Auditor").
		Order("date DESC").
		Limit(limit).
		Offset(offset).
		Find(&audits).Error

	return audits, total, err
}

// SaveAudit persists the audit row. Associations are never written through
// this path; items and approvals have their own methods.
func (r *AuditRepository) SaveAudit(ctx context.Context, audit *models.Audit) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(audit).Error
}

// --- Audit Item Methods ---

// CreateAuditItems bulk-inserts the item snapshot for a new audit
func (r *AuditRepository) CreateAuditItems(ctx context.Context, items []models.AuditItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

// ListAuditItems retrieves all items of an audit with their templates
func (r *AuditRepository) ListAuditItems(ctx context.Context, auditID uuid.UUID) ([]models.AuditItem, error) {
	var items []models.AuditItem
	err := r.db.WithContext(ctx).
		Preload("Template").
		Where("audit_id = ?", auditID).
		Find(&items).Error
	return items, err
}

// GetAuditItemByID retrieves a single item
func (r *AuditRepository) GetAuditItemByID(ctx context.Context, id uuid.UUID) (*models.AuditItem, error) {
	var item models.AuditItem
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// SaveAuditItem persists an item after a merge. Last write wins; the domain
// has no concurrent writers on one in-progress audit.
func (r *AuditRepository) SaveAuditItem(ctx context.Context, item *models.AuditItem) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(item).Error
}

// --- Approval Methods ---

// CreateApproval records a review decision
func (r *AuditRepository) CreateApproval(ctx context.Context, approval *models.AuditApproval) error {
	return r.db.WithContext(ctx).Create(approval).Error
}

// ListApprovalsByAudit retrieves the review history of an audit
func (r *AuditRepository) ListApprovalsByAudit(ctx context.Context, auditID uuid.UUID) ([]models.AuditApproval, error) {
	var approvals []models.AuditApproval
	err := r.db.WithContext(ctx).
		Where("audit_id = ?", auditID).
		Order("decided_at ASC").
		Find(&approvals).Error
	return approvals, err
}
