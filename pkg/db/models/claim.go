package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/kylethumm90/solar-review-hub-sub000/pkg/enums"
)

// Claim is a user's assertion of representing a company, subject to admin
// approval.
type Claim struct {
	ID           uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID       uuid.UUID         `gorm:"column:user_id;type:uuid;not null"`
	CompanyID    uuid.UUID         `gorm:"column:company_id;type:uuid;not null"`
	FullName     string            `gorm:"column:full_name;not null"`
	JobTitle     string            `gorm:"column:job_title;not null"`
	CompanyEmail string            `gorm:"column:company_email;not null"`
	Status       enums.ClaimStatus `gorm:"column:status;type:claim_status;not null;default:'pending'"`
	DecidedBy    *uuid.UUID        `gorm:"column:decided_by;type:uuid"`
	DecidedAt    *time.Time        `gorm:"column:decided_at"`
	CreatedAt    time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
