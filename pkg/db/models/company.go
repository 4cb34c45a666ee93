package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/kylethumm90/solar-review-hub-sub000/pkg/enums"
	"github.com/kylethumm90/solar-review-hub-sub000/pkg/types"
)

// Company represents a listed solar business in the directory.
type Company struct {
	ID              uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name            string               `gorm:"column:name;not null"`
	Description     *string              `gorm:"column:description"`
	Website         *string              `gorm:"column:website"`
	Type            enums.CompanyType    `gorm:"column:type;type:company_type;not null"`
	LogoURL         *string              `gorm:"column:logo_url"`
	IsVerified      bool                 `gorm:"column:is_verified;not null;default:false"`
	Status          enums.CompanyStatus  `gorm:"column:status;type:company_status;not null;default:'unclaimed'"`
	Grade           enums.Grade          `gorm:"column:grade;type:text;not null;default:'NR'"`
	AvgScore        *float64             `gorm:"column:avg_score"`
	CategoryScores  types.CategoryScores `gorm:"column:category_scores;type:jsonb"`
	ReviewCount     int                  `gorm:"column:review_count;not null;default:0"`
	LastVerified    *time.Time           `gorm:"column:last_verified"`
	OperatingStates pq.StringArray       `gorm:"column:operating_states;type:text[]"`
	CreatedAt       time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}
