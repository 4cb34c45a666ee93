package claims

import (
	"time"

	"github.com/google/uuid"

	"github.com/kylethumm90/solar-review-hub-sub000/pkg/db/models"
	"github.com/kylethumm90/solar-review-hub-sub000/pkg/enums"
	"github.com/kylethumm90/solar-review-hub-sub000/pkg/pagination"
)

// SubmitInput is the payload for claiming a company.
type SubmitInput struct {
	CompanyID    uuid.UUID `json:"company_id" validate:"required"`
	FullName     string    `json:"full_name" validate:"required,max=200"`
	JobTitle     string    `json:"job_title" validate:"required,max=200"`
	CompanyEmail string    `json:"company_email" validate:"required,email"`
}

// ClaimDTO is the public shape of a claim.
type ClaimDTO struct {
	ID           uuid.UUID         `json:"id"`
	UserID       uuid.UUID         `json:"user_id"`
	CompanyID    uuid.UUID         `json:"company_id"`
	FullName     string            `json:"full_name"`
	JobTitle     string            `json:"job_title"`
	CompanyEmail string            `json:"company_email"`
	Status       enums.ClaimStatus `json:"status"`
	DecidedBy    *uuid.UUID        `json:"decided_by,omitempty"`
	DecidedAt    *time.Time        `json:"decided_at,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

// ListResult is one page of claims plus the next cursor.
type ListResult struct {
	Claims     []ClaimDTO `json:"claims"`
	NextCursor string     `json:"next_cursor,omitempty"`
}

// AdminListFilters narrow the moderation queue view.
type AdminListFilters struct {
	Status *enums.ClaimStatus `json:"status,omitempty"`
	Query  string             `json:"q,omitempty"`
}

// AdminListInput pages the moderation queue.
type AdminListInput struct {
	Filters    AdminListFilters
	Pagination pagination.Params
}

// TransitionResult reports whether a status transition was applied or the
// claim already sat in the requested state.
type TransitionResult struct {
	Claim          *ClaimDTO `json:"claim"`
	Applied        bool      `json:"applied"`
	AlreadyInState bool      `json:"already_in_state"`
}

// FromModel maps a persistence row onto the API shape.
func FromModel(c *models.Claim) *ClaimDTO {
	return &ClaimDTO{
		ID:           c.ID,
		UserID:       c.UserID,
		CompanyID:    c.CompanyID,
		FullName:     c.FullName,
		JobTitle:     c.JobTitle,
		CompanyEmail: c.CompanyEmail,
		Status:       c.Status,
		DecidedBy:    c.DecidedBy,
		DecidedAt:    c.DecidedAt,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}
