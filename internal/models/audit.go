package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Audit represents one inspection visit to a site by one auditor. Its items
// are instantiated from the template catalog when the audit is created and
// share its lifetime.
type Audit struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	AuditNumber string    `gorm:"type:varchar(40);not null;uniqueIndex" json:"auditNumber"`
	SiteID      uuid.UUID `gorm:"type:uuid;not null;index" json:"siteId"`
	AuditorID   uuid.UUID `gorm:"type:uuid;not null;index" json:"auditorId"`
	Date        time.Time `gorm:"not null" json:"date"`
	Type        string    `gorm:"type:varchar(20);not null" json:"type"`
	Status      string    `gorm:"type:varchar(30);not null;default:'draft';index" json:"status"`

	// Score is a cached derived value. It stays nil until an explicit scoring
	// pass writes it; it is never kept in sync with item edits automatically.
	Score *int `json:"score"`

	// Draft holds the auto-saved form state as an opaque versioned payload.
	Draft datatypes.JSON `gorm:"type:jsonb" json:"draft,omitempty"`

	ApproverID    *uuid.UUID `gorm:"type:uuid" json:"approverId,omitempty"`
	ApprovalNotes string     `gorm:"type:text" json:"approvalNotes,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`

	// Relations
	Site    *Site       `gorm:"foreignKey:SiteID" json:"site,omitempty"`
	Auditor *User       `gorm:"foreignKey:AuditorID" json:"auditor,omitempty"`
	Items   []AuditItem `gorm:"foreignKey:AuditID" json:"items,omitempty"`
}

// TableName returns the table name for Audit
func (Audit) TableName() string {
	return "audits"
}

// Audit status constants
const (
	AuditStatusDraft           = "draft"
	AuditStatusInProgress      = "in_progress"
	AuditStatusPendingApproval = "pending_approval"
	AuditStatusCompleted       = "completed"
)

// Audit type constants
const (
	AuditTypeRoutine  = "Routine"
	AuditTypeFollowUp = "Follow-up"
	AuditTypeIncident = "Incident"
)

// IsTerminal returns true once the audit has reached its final state.
// Item edits against a terminal audit are rejected.
func (a *Audit) IsTerminal() bool {
	return a.Status == AuditStatusCompleted
}

// DraftPayload is the versioned envelope for the auto-saved form state.
// Data is opaque to the service; SchemaVersion lets clients evolve the blob.
type DraftPayload struct {
	SchemaVersion int            `json:"schemaVersion" binding:"required,min=1"`
	Data          map[string]any `json:"data" binding:"required"`
}
