package models

import (
	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/datatypes"
)

// AuditItem is one checklist question instantiated for one audit. Items are
// created in bulk when the audit is created, start out pending, and live for
// the lifetime of their audit.
type AuditItem struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	AuditID    uuid.UUID `gorm:"type:uuid;not null;index" json:"auditId"`
	TemplateID uuid.UUID `gorm:"type:uuid;not null;index" json:"templateId"`
	Status     string    `gorm:"type:varchar(30);not null;default:'pending'" json:"status"`
	Notes      string    `gorm:"type:text" json:"notes,omitempty"`

	// PhotoURLs are opaque references into whatever object store the caller
	// uses; the service never dereferences them.
	PhotoURLs pq.StringArray `gorm:"type:text[]" json:"photoUrls,omitempty"`

	// RiskAssessment is an optional structured blob captured in the field.
	RiskAssessment datatypes.JSON `gorm:"type:jsonb" json:"riskAssessment,omitempty"`

	// Relations
	Template          *ChecklistTemplate `gorm:"foreignKey:TemplateID" json:"template,omitempty"`
	CorrectiveActions []CorrectiveAction `gorm:"foreignKey:AuditItemID" json:"correctiveActions,omitempty"`
}

// TableName returns the table name for AuditItem
func (AuditItem) TableName() string {
	return "audit_items"
}

// Audit item status constants
const (
	ItemStatusPending         = "pending"
	ItemStatusCompliant       = "compliant"
	ItemStatusNonCompliant    = "non_compliant"
	ItemStatusNotApplicable   = "n/a"
	ItemStatusObservation     = "observation"
	ItemStatusCorrectedOnSite = "corrected_on_site"
)

// ValidItemStatus reports whether s is one of the recognised item statuses.
func ValidItemStatus(s string) bool {
	switch s {
	case ItemStatusPending, ItemStatusCompliant, ItemStatusNonCompliant,
		ItemStatusNotApplicable, ItemStatusObservation, ItemStatusCorrectedOnSite:
		return true
	}
	return false
}

// IsScored reports whether the item counts toward the compliance score.
// Pending items are unfinished work and n/a items cannot be held against a
// site, so both are excluded from numerator and denominator.
func (i *AuditItem) IsScored() bool {
	return i.Status != ItemStatusPending && i.Status != ItemStatusNotApplicable
}
