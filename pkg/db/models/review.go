package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/kylethumm90/solar-review-hub-sub000/pkg/enums"
)

// Review is a user's structured rating of a company. AverageScore is the
// weighted aggregate of the review's answers, computed at submission time.
type Review struct {
	ID           uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CompanyID    uuid.UUID          `gorm:"column:company_id;type:uuid;not null"`
	UserID       uuid.UUID          `gorm:"column:user_id;type:uuid;not null"`
	Title        string             `gorm:"column:title;not null"`
	TextFeedback *string            `gorm:"column:text_feedback"`
	AverageScore float64            `gorm:"column:average_score;not null"`
	Status       enums.ReviewStatus `gorm:"column:status;type:review_status;not null;default:'pending'"`
	IsAnonymous  bool               `gorm:"column:is_anonymous;not null;default:false"`
	AttachmentID *uuid.UUID         `gorm:"column:attachment_id;type:uuid"`

	// EPC-only metadata.
	InstallCount   *int       `gorm:"column:install_count"`
	InstallStart   *time.Time `gorm:"column:install_start"`
	InstallEnd     *time.Time `gorm:"column:install_end"`
	WouldRecommend *bool      `gorm:"column:would_recommend"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// ReviewAnswer is one per-question rating owned by its parent review.
type ReviewAnswer struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ReviewID   uuid.UUID `gorm:"column:review_id;type:uuid;not null"`
	QuestionID uuid.UUID `gorm:"column:question_id;type:uuid;not null"`
	Rating     int       `gorm:"column:rating;not null"`
	Notes      *string   `gorm:"column:notes"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
}
