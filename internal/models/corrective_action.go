package models

import (
	"time"

	"github.com/google/uuid"
)

// CorrectiveAction is a remediation task raised against a non-compliant
// audit item. It cannot outlive its item.
type CorrectiveAction struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	AuditItemID uuid.UUID  `gorm:"type:uuid;not null;index" json:"auditItemId"`
	Description string     `gorm:"type:text;not null" json:"description"`
	RiskLevel   string     `gorm:"type:varchar(20);not null" json:"riskLevel"`
	AssigneeID  uuid.UUID  `gorm:"type:uuid;not null;index" json:"assigneeId"`
	DueDate     time.Time  `gorm:"not null" json:"dueDate"`
	Status      string     `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	VerifiedBy  *uuid.UUID `gorm:"type:uuid" json:"verifiedBy,omitempty"`

	// IsOverdue is a cached copy of the overdue predicate, refreshed by the
	// periodic job for cheap list filtering. Stats always evaluate the live
	// predicate, so the cache and the predicate can disagree for at most one
	// refresh pass.
	IsOverdue bool `gorm:"not null;default:false" json:"isOverdue"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`

	// Relations
	AuditItem *AuditItem `gorm:"foreignKey:AuditItemID" json:"auditItem,omitempty"`
	Assignee  *User      `gorm:"foreignKey:AssigneeID" json:"assignee,omitempty"`
}

// TableName returns the table name for CorrectiveAction
func (CorrectiveAction) TableName() string {
	return "corrective_actions"
}

// Corrective action status constants. Overdue is not a stored status: it is
// derived from the due date while the action is still open.
const (
	ActionStatusPending    = "pending"
	ActionStatusInProgress = "in_progress"
	ActionStatusCompleted  = "completed"
	ActionStatusVerified   = "verified"
	ActionStatusCancelled  = "cancelled"
)

// IsClosed returns true when the action can no longer become overdue.
func (a *CorrectiveAction) IsClosed() bool {
	return a.Status == ActionStatusCompleted ||
		a.Status == ActionStatusVerified ||
		a.Status == ActionStatusCancelled
}

// OverdueAt evaluates the overdue predicate at time t.
func (a *CorrectiveAction) OverdueAt(t time.Time) bool {
	return !a.IsClosed() && a.DueDate.Before(t)
}
