package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"audit-service/internal/models"
	"audit-service/internal/repository"
)

var (
	ErrActionNotFound   = errors.New("corrective action not found")
	ErrAssigneeNotFound = errors.New("assignee not found")
	ErrActionClosed     = errors.New("corrective action is closed")
	ErrVerifierRequired = errors.New("a verifier is required to mark an action verified")
)

// ActionService handles corrective action business logic
type ActionService struct {
	repo repository.AuditRepositoryInterface
}

// NewActionService creates a new ActionService
func NewActionService(repo repository.AuditRepositoryInterface) *ActionService {
	return &ActionService{repo: repo}
}

// CreateActionInput represents input for raising a corrective action
type CreateActionInput struct {
	AuditItemID uuid.UUID `json:"auditItemId" binding:"required"`
	Description string    `json:"description" binding:"required"`
	RiskLevel   string    `json:"riskLevel" binding:"required,oneof=low medium high critical"`
	AssigneeID  uuid.UUID `json:"assigneeId" binding:"required"`
	DueDate     time.Time `json:"dueDate" binding:"required"`
}

// CreateAction raises a corrective action against an audit item. A dangling
// item reference is an error, never silently dropped.
func (s *ActionService) CreateAction(ctx context.Context, input CreateActionInput) (*models.CorrectiveAction, error) {
	if _, err := s.repo.GetAuditItemByID(ctx, input.AuditItemID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}
	if _, err := s.repo.GetUserByID(ctx, input.AssigneeID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAssigneeNotFound
		}
		return nil, err
	}

	action := &models.CorrectiveAction{
		AuditItemID: input.AuditItemID,
		Description: input.Description,
		RiskLevel:   input.RiskLevel,
		AssigneeID:  input.AssigneeID,
		DueDate:     input.DueDate,
		Status:      models.ActionStatusPending,
	}
	if err := s.repo.CreateAction(ctx, action); err != nil {
		return nil, fmt.Errorf("failed to create corrective action: %w", err)
	}
	return action, nil
}

// GetAction retrieves an action by ID
func (s *ActionService) GetAction(ctx context.Context, actionID uuid.UUID) (*models.CorrectiveAction, error) {
	action, err := s.repo.GetActionByID(ctx, actionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrActionNotFound
		}
		return nil, err
	}
	return action, nil
}

// ListActions lists actions matching the filter
func (s *ActionService) ListActions(ctx context.Context, filter repository.ActionFilter, limit, offset int) ([]models.CorrectiveAction, int64, error) {
	return s.repo.ListActions(ctx, filter, limit, offset)
}

// UpdateActionInput enumerates the action fields that are mutable after
// creation. Overdue is never settable: it is derived from the due date.
type UpdateActionInput struct {
	Description *string    `json:"description,omitempty"`
	RiskLevel   *string    `json:"riskLevel,omitempty" binding:"omitempty,oneof=low medium high critical"`
	AssigneeID  *uuid.UUID `json:"assigneeId,omitempty"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	Status      *string    `json:"status,omitempty"`
	VerifiedBy  *uuid.UUID `json:"verifiedBy,omitempty"`
}

// actionTransitions lists the allowed lifecycle moves. Cancellation is open
// to any non-terminal state; verified and cancelled are terminal.
var actionTransitions = map[string][]string{
	models.ActionStatusPending:    {models.ActionStatusInProgress, models.ActionStatusCompleted, models.ActionStatusCancelled},
	models.ActionStatusInProgress: {models.ActionStatusCompleted, models.ActionStatusCancelled},
	models.ActionStatusCompleted:  {models.ActionStatusVerified},
}

func actionCanTransition(from, to string) bool {
	for _, next := range actionTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// UpdateAction merges the patch into an action, enforcing the lifecycle.
// actorID is the authenticated user and becomes the verifier when the caller
// marks the action verified without naming one.
func (s *ActionService) UpdateAction(ctx context.Context, actionID uuid.UUID, input UpdateActionInput, actorID uuid.UUID) (*models.CorrectiveAction, error) {
	action, err := s.GetAction(ctx, actionID)
	if err != nil {
		return nil, err
	}

	if input.Status != nil && *input.Status != action.Status {
		if !actionCanTransition(action.Status, *input.Status) {
			return nil, ErrInvalidTransition
		}
		switch *input.Status {
		case models.ActionStatusCompleted:
			now := time.Now()
			action.CompletedAt = &now
		case models.ActionStatusVerified:
			verifier := actorID
			if input.VerifiedBy != nil {
				verifier = *input.VerifiedBy
			}
			if verifier == uuid.Nil {
				return nil, ErrVerifierRequired
			}
			action.VerifiedBy = &verifier
		}
		action.Status = *input.Status
		if action.IsClosed() {
			action.IsOverdue = false
		}
	} else if action.IsClosed() && (input.Description != nil || input.RiskLevel != nil || input.AssigneeID != nil || input.DueDate != nil) {
		return nil, ErrActionClosed
	}

	if input.Description != nil {
		action.Description = *input.Description
	}
	if input.RiskLevel != nil {
		action.RiskLevel = *input.RiskLevel
	}
	if input.AssigneeID != nil {
		if _, err := s.repo.GetUserByID(ctx, *input.AssigneeID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrAssigneeNotFound
			}
			return nil, err
		}
		action.AssigneeID = *input.AssigneeID
	}
	if input.DueDate != nil {
		action.DueDate = *input.DueDate
	}

	if err := s.repo.SaveAction(ctx, action); err != nil {
		return nil, fmt.Errorf("failed to update corrective action: %w", err)
	}
	return action, nil
}

// CancelAction cancels an open action
func (s *ActionService) CancelAction(ctx context.Context, actionID uuid.UUID) (*models.CorrectiveAction, error) {
	action, err := s.GetAction(ctx, actionID)
	if err != nil {
		return nil, err
	}
	if action.IsClosed() {
		return nil, ErrActionClosed
	}

	action.Status = models.ActionStatusCancelled
	action.IsOverdue = false
	if err := s.repo.SaveAction(ctx, action); err != nil {
		return nil, fmt.Errorf("failed to cancel corrective action: %w", err)
	}
	return action, nil
}
