package models

import (
	"time"

	"github.com/google/uuid"
)

// User is an auditor, assignee or reviewer referenced by audits and actions.
type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Username  string    `gorm:"type:varchar(100);not null;uniqueIndex" json:"username"`
	Email     string    `gorm:"type:varchar(255)" json:"email,omitempty"`
	Name      string    `gorm:"type:varchar(255)" json:"name,omitempty"`
	Role      string    `gorm:"type:varchar(30);not null;default:'auditor'" json:"role"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

// TableName returns the table name for User
func (User) TableName() string {
	return "users"
}

// Role constants
const (
	RoleAuditor = "auditor"
	RoleManager = "manager"
	RoleAdmin   = "admin"
)
