package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"audit-service/internal/models"
	"audit-service/internal/repository"
)

var (
	ErrAuditNotFound     = errors.New("audit not found")
	ErrSiteNotFound      = errors.New("site not found")
	ErrAuditorNotFound   = errors.New("auditor not found")
	ErrItemNotFound      = errors.New("audit item not found")
	ErrAuditFinalized    = errors.New("audit has been completed and can no longer be modified")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrNotAwaitingReview = errors.New("audit is not awaiting review")
	ErrInvalidItemStatus = errors.New("invalid audit item status")
)

// AuditService handles audit business logic
type AuditService struct {
	repo repository.AuditRepositoryInterface
}

// NewAuditService creates a new AuditService
func NewAuditService(repo repository.AuditRepositoryInterface) *AuditService {
	return &AuditService{repo: repo}
}

// CreateAuditInput represents input for creating an audit
type CreateAuditInput struct {
	SiteID    uuid.UUID  `json:"siteId" binding:"required"`
	AuditorID uuid.UUID  `json:"auditorId" binding:"required"`
	Date      *time.Time `json:"date,omitempty"`
	Type      string     `json:"type" binding:"required,oneof=Routine Follow-up Incident"`
}

// CreateAudit allocates an audit number, persists the audit and snapshots the
// full current template catalog into pending items. The audit row and its
// items commit atomically: when item instantiation fails no audit exists.
func (s *AuditService) CreateAudit(ctx context.Context, input CreateAuditInput) (*models.Audit, error) {
	if _, err := s.repo.GetSiteByID(ctx, input.SiteID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSiteNotFound
		}
		return nil, err
	}
	if _, err := s.repo.GetUserByID(ctx, input.AuditorID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAuditorNotFound
		}
		return nil, err
	}

	date := time.Now()
	if input.Date != nil {
		date = *input.Date
	}

	audit := &models.Audit{
		AuditNumber: generateAuditNumber(time.Now()),
		SiteID:      input.SiteID,
		AuditorID:   input.AuditorID,
		Date:        date,
		Type:        input.Type,
		Status:      models.AuditStatusDraft,
	}

	err := s.repo.WithTransaction(ctx, func(txRepo repository.AuditRepositoryInterface) error {
		if err := txRepo.CreateAudit(ctx, audit); err != nil {
			return fmt.Errorf("failed to create audit: %w", err)
		}

		templates, err := txRepo.ListTemplates(ctx)
		if err != nil {
			return fmt.Errorf("failed to read template catalog: %w", err)
		}

		items := make([]models.AuditItem, 0, len(templates))
		for _, t := range templates {
			items = append(items, models.AuditItem{
				AuditID:    audit.ID,
				TemplateID: t.ID,
				Status:     models.ItemStatusPending,
			})
		}
		if err := txRepo.CreateAuditItems(ctx, items); err != nil {
			return fmt.Errorf("failed to instantiate audit items: %w", err)
		}
		audit.Items = items
		return nil
	})
	if err != nil {
		return nil, err
	}

	return audit, nil
}

// GetAudit retrieves an audit with its full detail tree
func (s *AuditService) GetAudit(ctx context.Context, auditID uuid.UUID) (*models.Audit, error) {
	audit, err := s.repo.GetAuditByID(ctx, auditID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAuditNotFound
		}
		return nil, err
	}
	return audit, nil
}

// ListAudits lists audits matching the filter
func (s *AuditService) ListAudits(ctx context.Context, filter repository.AuditFilter, limit, offset int) ([]models.Audit, int64, error) {
	return s.repo.ListAudits(ctx, filter, limit, offset)
}

// UpdateAuditInput enumerates the audit fields that stay mutable after
// creation. Site, auditor and audit number are fixed at creation.
type UpdateAuditInput struct {
	Date          *time.Time `json:"date,omitempty"`
	Type          *string    `json:"type,omitempty" binding:"omitempty,oneof=Routine Follow-up Incident"`
	Status        *string    `json:"status,omitempty"`
	ApprovalNotes *string    `json:"approvalNotes,omitempty"`
}

// auditTransitions lists the allowed status moves. Completion through a patch
// is allowed from in_progress and pending_approval; the approval path reaches
// completed through SubmitApproval instead.
var auditTransitions = map[string][]string{
	models.AuditStatusDraft:           {models.AuditStatusInProgress},
	models.AuditStatusInProgress:      {models.AuditStatusPendingApproval, models.AuditStatusCompleted},
	models.AuditStatusPendingApproval: {models.AuditStatusInProgress, models.AuditStatusCompleted},
}

func auditCanTransition(from, to string) bool {
	for _, next := range auditTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// UpdateAudit merges the patch into the audit. Moving the status to completed
// computes and caches the compliance score as part of the same write.
func (s *AuditService) UpdateAudit(ctx context.Context, auditID uuid.UUID, input UpdateAuditInput) (*models.Audit, error) {
	audit, err := s.GetAudit(ctx, auditID)
	if err != nil {
		return nil, err
	}
	if audit.IsTerminal() {
		return nil, ErrAuditFinalized
	}

	if input.Date != nil {
		audit.Date = *input.Date
	}
	if input.Type != nil {
		audit.Type = *input.Type
	}
	if input.ApprovalNotes != nil {
		audit.ApprovalNotes = *input.ApprovalNotes
	}
	if input.Status != nil && *input.Status != audit.Status {
		if !auditCanTransition(audit.Status, *input.Status) {
			return nil, ErrInvalidTransition
		}
		audit.Status = *input.Status
		if audit.Status == models.AuditStatusCompleted {
			score, _ := ComputeScore(audit.Items)
			audit.Score = &score
		}
	}

	if err := s.repo.SaveAudit(ctx, audit); err != nil {
		return nil, fmt.Errorf("failed to update audit: %w", err)
	}
	return audit, nil
}

// SaveDraft stores the auto-saved form state as an opaque versioned payload
func (s *AuditService) SaveDraft(ctx context.Context, auditID uuid.UUID, payload models.DraftPayload) (*models.Audit, error) {
	audit, err := s.GetAudit(ctx, auditID)
	if err != nil {
		return nil, err
	}
	if audit.IsTerminal() {
		return nil, ErrAuditFinalized
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal draft payload: %w", err)
	}
	audit.Draft = datatypes.JSON(raw)

	if err := s.repo.SaveAudit(ctx, audit); err != nil {
		return nil, fmt.Errorf("failed to save draft: %w", err)
	}
	return audit, nil
}

// UpdateItemInput enumerates the item fields that are mutable after creation
type UpdateItemInput struct {
	Status         *string        `json:"status,omitempty"`
	Notes          *string        `json:"notes,omitempty"`
	PhotoURLs      *[]string      `json:"photoUrls,omitempty"`
	RiskAssessment datatypes.JSON `json:"riskAssessment,omitempty"`
}

// UpdateAuditItem merges the patch into an item. The parent audit must not be
// completed. The audit's cached score is deliberately left untouched: scoring
// is pull-based and happens on an explicit calculate or on completion, so the
// cached value may be stale between edits and the next scoring pass.
func (s *AuditService) UpdateAuditItem(ctx context.Context, itemID uuid.UUID, input UpdateItemInput) (*models.AuditItem, error) {
	item, err := s.repo.GetAuditItemByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}

	audit, err := s.GetAudit(ctx, item.AuditID)
	if err != nil {
		return nil, err
	}
	if audit.IsTerminal() {
		return nil, ErrAuditFinalized
	}

	if input.Status != nil {
		if !models.ValidItemStatus(*input.Status) {
			return nil, ErrInvalidItemStatus
		}
		item.Status = *input.Status
	}
	if input.Notes != nil {
		item.Notes = *input.Notes
	}
	if input.PhotoURLs != nil {
		item.PhotoURLs = *input.PhotoURLs
	}
	if len(input.RiskAssessment) > 0 {
		item.RiskAssessment = input.RiskAssessment
	}

	if err := s.repo.SaveAuditItem(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to update audit item: %w", err)
	}

	// First answered item moves a draft audit into in_progress. Notes-only
	// and photo-only edits leave the audit where it is.
	if input.Status != nil && audit.Status == models.AuditStatusDraft {
		audit.Status = models.AuditStatusInProgress
		if err := s.repo.SaveAudit(ctx, audit); err != nil {
			return nil, fmt.Errorf("failed to advance audit status: %w", err)
		}
	}

	return item, nil
}

// CalculateScore recomputes the compliance score from the audit's items and
// writes it back as the cached value. This is the explicit scoring trigger;
// item edits never recompute implicitly.
func (s *AuditService) CalculateScore(ctx context.Context, auditID uuid.UUID) (*models.Audit, int, error) {
	audit, err := s.GetAudit(ctx, auditID)
	if err != nil {
		return nil, 0, err
	}

	items, err := s.repo.ListAuditItems(ctx, auditID)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list audit items: %w", err)
	}

	score, scored := ComputeScore(items)
	audit.Score = &score
	if err := s.repo.SaveAudit(ctx, audit); err != nil {
		return nil, 0, fmt.Errorf("failed to cache score: %w", err)
	}
	return audit, scored, nil
}

// SubmitApprovalInput represents a review decision on an audit
type SubmitApprovalInput struct {
	Status   string `json:"status" binding:"required,oneof=approved rejected"`
	Comments string `json:"comments,omitempty"`
}

// SubmitApproval records a review decision. Approval completes the audit and
// caches its score; rejection sends it back to in_progress. Both entities are
// written in one transaction so the cascade is atomic and visible in code
// rather than hidden in a trigger.
func (s *AuditService) SubmitApproval(ctx context.Context, auditID, reviewerID uuid.UUID, input SubmitApprovalInput) (*models.Audit, error) {
	audit, err := s.GetAudit(ctx, auditID)
	if err != nil {
		return nil, err
	}
	if audit.Status != models.AuditStatusPendingApproval {
		return nil, ErrNotAwaitingReview
	}
	if _, err := s.repo.GetUserByID(ctx, reviewerID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAuditorNotFound
		}
		return nil, err
	}

	err = s.repo.WithTransaction(ctx, func(txRepo repository.AuditRepositoryInterface) error {
		approval := &models.AuditApproval{
			AuditID:    auditID,
			ReviewerID: reviewerID,
			Status:     input.Status,
			Comments:   input.Comments,
		}
		if err := txRepo.CreateApproval(ctx, approval); err != nil {
			return fmt.Errorf("failed to record approval: %w", err)
		}

		switch input.Status {
		case models.ApprovalStatusApproved:
			score, _ := ComputeScore(audit.Items)
			audit.Score = &score
			audit.Status = models.AuditStatusCompleted
		case models.ApprovalStatusRejected:
			audit.Status = models.AuditStatusInProgress
		}
		audit.ApproverID = &reviewerID
		audit.ApprovalNotes = input.Comments

		if err := txRepo.SaveAudit(ctx, audit); err != nil {
			return fmt.Errorf("failed to apply review decision: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return audit, nil
}

// GetApprovalHistory retrieves the review history of an audit
func (s *AuditService) GetApprovalHistory(ctx context.Context, auditID uuid.UUID) ([]models.AuditApproval, error) {
	if _, err := s.GetAudit(ctx, auditID); err != nil {
		return nil, err
	}
	return s.repo.ListApprovalsByAudit(ctx, auditID)
}

// generateAuditNumber builds the human-facing audit number. The timestamp
// keeps numbers roughly sortable; the random suffix keeps audits created in
// the same millisecond from colliding.
func generateAuditNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:6])
	return fmt.Sprintf("AUD-%d-%s", now.UnixMilli(), suffix)
}
