package models

import (
	"time"

	"github.com/google/uuid"
)

// AuditApproval is a review record for an audit in pending_approval. An
// approved decision is side-effecting: it completes the parent audit.
type AuditApproval struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	AuditID    uuid.UUID `gorm:"type:uuid;not null;index" json:"auditId"`
	ReviewerID uuid.UUID `gorm:"type:uuid;not null;index" json:"reviewerId"`
	Status     string    `gorm:"type:varchar(20);not null" json:"status"`
	Comments   string    `gorm:"type:text" json:"comments,omitempty"`
	DecidedAt  time.Time `gorm:"autoCreateTime" json:"decidedAt"`
}

// TableName returns the table name for AuditApproval
func (AuditApproval) TableName() string {
	return "audit_approvals"
}

// Approval status constants
const (
	ApprovalStatusPending  = "pending"
	ApprovalStatusApproved = "approved"
	ApprovalStatusRejected = "rejected"
)
