package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"audit-service/internal/models"
)

// --- Corrective Action Methods ---

// CreateAction creates a new corrective action
func (r *AuditRepository) CreateAction(ctx context.Context, action *models.CorrectiveAction) error {
	return r.db.WithContext(ctx).Create(action).Error
}

// GetActionByID retrieves an action with its audit item
func (r *AuditRepository) GetActionByID(ctx context.Context, id uuid.UUID) (*models.CorrectiveAction, error) {
	var action models.CorrectiveAction
	err := r.db.WithContext(ctx).
		Preload("AuditItem").
		Preload("Assignee").
		Where("id = ?", id).
		First(&action).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &action, nil
}

// ListActions retrieves actions matching the filter, soonest due first.
// OverdueOnly filters on the live predicate, not the cached flag.
func (r *AuditRepository) ListActions(ctx context.Context, filter ActionFilter, limit, offset int) ([]models.CorrectiveAction, int64, error) {
	var actions []models.CorrectiveAction
	var total int64

	query := r.db.WithContext(ctx).Model(&models.CorrectiveAction{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.AssigneeID != nil {
		query = query.Where("assignee_id = ?", *filter.AssigneeID)
	}
	if filter.OverdueOnly {
		query = query.
			Where("status NOT IN ?", closedActionStatuses).
			Where("due_date < ?", time.Now())
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Preload("AuditItem").
		Preload("Assignee").
		Order("due_date ASC").
		Limit(limit).
		Offset(offset).
		Find(&actions).Error

	return actions, total, err
}

// SaveAction persists an action after a merge
func (r *AuditRepository) SaveAction(ctx context.Context, action *models.CorrectiveAction) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(action).Error
}

var closedActionStatuses = []string{
	models.ActionStatusCompleted,
	models.ActionStatusVerified,
	models.ActionStatusCancelled,
}

// RefreshOverdueFlags rewrites the cached is_overdue flag to match the
// predicate at time now. Stats never read the flag, so a stale cache only
// affects list filtering until the next pass.
func (r *AuditRepository) RefreshOverdueFlags(ctx context.Context, now time.Time) (flagged, cleared int64, err error) {
	set := r.db.WithContext(ctx).Model(&models.CorrectiveAction{}).
		Where("is_overdue = ? AND status NOT IN ? AND due_date < ?", false, closedActionStatuses, now).
		Update("is_overdue", true)
	if set.Error != nil {
		return 0, 0, set.Error
	}

	clear := r.db.WithContext(ctx).Model(&models.CorrectiveAction{}).
		Where("is_overdue = ? AND (status IN ? OR due_date >= ?)", true, closedActionStatuses, now).
		Update("is_overdue", false)
	if clear.Error != nil {
		return set.RowsAffected, 0, clear.Error
	}

	return set.RowsAffected, clear.RowsAffected, nil
}
