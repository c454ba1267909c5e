package models

import (
	"time"

	"github.com/google/uuid"
)

// Site is an organization location that gets audited.
type Site struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name        string    `gorm:"type:varchar(255);not null" json:"name"`
	Location    string    `gorm:"type:varchar(255);not null" json:"location"`
	Industry    string    `gorm:"type:varchar(100);not null" json:"industry"`
	RiskProfile string    `gorm:"type:varchar(20);not null;default:'medium'" json:"riskProfile"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// TableName returns the table name for Site
func (Site) TableName() string {
	return "sites"
}

// Risk level constants, shared by sites, templates and corrective actions
const (
	RiskLow      = "low"
	RiskMedium   = "medium"
	RiskHigh     = "high"
	RiskCritical = "critical"
)
