package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// ReviewQuestion is static reference data: one ratable category prompt with a
// numeric weight, scoped to the company types it applies to.
type ReviewQuestion struct {
	ID           uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Category     string         `gorm:"column:category;not null"`
	Prompt       string         `gorm:"column:prompt;not null"`
	CompanyTypes pq.StringArray `gorm:"column:company_types;type:text[];not null"`
	Weight       float64        `gorm:"column:weight;not null;default:1"`
	Active       bool           `gorm:"column:active;not null;default:true"`
	CreatedAt    time.Time      `gorm:"column:created_at;autoCreateTime"`
}
