package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"audit-service/internal/models"
)

// --- User Methods ---

// CreateUser creates a new user
func (r *AuditRepository) CreateUser(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// GetUserByID retrieves a user by ID
func (r *AuditRepository) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// GetUserByUsername retrieves a user by username
func (r *AuditRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// ListUsers retrieves all users
func (r *AuditRepository) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).Order("username ASC").Find(&users).Error
	return users, err
}

// --- Site Methods ---

// CreateSite creates a new site
func (r *AuditRepository) CreateSite(ctx context.Context, site *models.Site) error {
	return r.db.WithContext(ctx).Create(site).Error
}

// GetSiteByID retrieves a site by ID
func (r *AuditRepository) GetSiteByID(ctx context.Context, id uuid.UUID) (*models.Site, error) {
	var site models.Site
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&site).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &site, nil
}

// ListSites retrieves all sites
func (r *AuditRepository) ListSites(ctx context.Context) ([]models.Site, error) {
	var sites []models.Site
	err := r.db.WithContext(ctx).Order("name ASC").Find(&sites).Error
	return sites, err
}

// --- Dashboard Aggregates ---

// CountAudits counts all audit rows regardless of status
func (r *AuditRepository) CountAudits(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Audit{}).Count(&count).Error
	return count, err
}

// CompletedAuditScores returns the cached scores of completed, scored audits
func (r *AuditRepository) CompletedAuditScores(ctx context.Context) ([]int, error) {
	var scores []int
	err := r.db.WithContext(ctx).Model(&models.Audit{}).
		Where("status = ? AND score IS NOT NULL", models.AuditStatusCompleted).
		Pluck("score", &scores).Error
	return scores, err
}

// CountActionsByStatus counts corrective actions in a given status
func (r *AuditRepository) CountActionsByStatus(ctx context.Context, status string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.CorrectiveAction{}).
		Where("status = ?", status).
		Count(&count).Error
	return count, err
}

// CountOverdueActions counts open actions whose due date has passed,
// evaluating the predicate live rather than trusting the cached flag
func (r *AuditRepository) CountOverdueActions(ctx context.Context, now time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.CorrectiveAction{}).
		Where("status NOT IN ? AND due_date < ?", closedActionStatuses, now).
		Count(&count).Error
	return count, err
}

// RecentAudits returns the most recent audits for the dashboard
func (r *AuditRepository) RecentAudits(ctx context.Context, limit int) ([]models.Audit, error) {
	var audits []models.Audit
	err := r.db.WithContext(ctx).
		Preload("Site").
		Preload("Auditor").
		Order("created_at DESC").
		Limit(limit).
		Find(&audits).Error
	return audits, err
}
