package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// ChecklistTemplate is a reusable compliance question. Templates are seeded
// once at startup and never mutated by the audit flow; audits snapshot the
// catalog into items at creation time.
type ChecklistTemplate struct {
	ID                   uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Category             string         `gorm:"type:varchar(100);not null;index" json:"category"`
	Legislation          string         `gorm:"type:varchar(20);not null" json:"legislation"`
	ItemNumber           string         `gorm:"type:varchar(20);not null" json:"itemNumber"`
	Description          string         `gorm:"type:text;not null" json:"description"`
	RegulationReference  string         `gorm:"type:text;not null" json:"regulationReference"`
	RiskLevel            string         `gorm:"type:varchar(20);not null;default:'medium'" json:"riskLevel"`
	ApplicableIndustries pq.StringArray `gorm:"type:text[]" json:"applicableIndustries"`
	CreatedAt            time.Time      `gorm:"autoCreateTime" json:"createdAt"`
}

// TableName returns the table name for ChecklistTemplate
func (ChecklistTemplate) TableName() string {
	return "checklist_templates"
}

// Legislation constants
const (
	LegislationOHSA = "OHSA"
	LegislationNEMA = "NEMA"
	LegislationMHSA = "MHSA"
)
