package companies

import (
	"time"

	"github.com/google/uuid"

	"github.com/kylethumm90/solar-review-hub-sub000/pkg/db/models"
	"github.com/kylethumm90/solar-review-hub-sub000/pkg/enums"
	"github.com/kylethumm90/solar-review-hub-sub000/pkg/pagination"
	"github.com/kylethumm90/solar-review-hub-sub000/pkg/types"
)

// CompanyDTO is the full public shape of a directory listing.
type CompanyDTO struct {
	ID              uuid.UUID            `json:"id"`
	Name            string               `json:"name"`
	Description     *string              `json:"description,omitempty"`
	Website         *string              `json:"website,omitempty"`
	Type            enums.CompanyType    `json:"type"`
	LogoURL         *string              `json:"logo_url,omitempty"`
	IsVerified      bool                 `json:"is_verified"`
	Status          enums.CompanyStatus  `json:"status"`
	Grade           enums.Grade          `json:"grade"`
	AvgScore        *float64             `json:"avg_score,omitempty"`
	CategoryScores  types.CategoryScores `json:"category_scores,omitempty"`
	ReviewCount     int                  `json:"review_count"`
	LastVerified    *time.Time           `json:"last_verified,omitempty"`
	OperatingStates []string             `json:"operating_states"`
	CreatedAt       time.Time            `json:"created_at"`
	UpdatedAt       time.Time            `json:"updated_at"`
}

// CompanySummary is the lighter shape used by the browse endpoint.
type CompanySummary struct {
	ID          uuid.UUID           `json:"id"`
	Name        string              `json:"name"`
	Type        enums.CompanyType   `json:"type"`
	LogoURL     *string             `json:"logo_url,omitempty"`
	IsVerified  bool                `json:"is_verified"`
	Status      enums.CompanyStatus `json:"status"`
	Grade       enums.Grade         `json:"grade"`
	AvgScore    *float64            `json:"avg_score,omitempty"`
	ReviewCount int                 `json:"review_count"`
	CreatedAt   time.Time           `json:"created_at"`
}

// ListFilters describe the supported filter knobs for the browse endpoint.
type ListFilters struct {
	Type   *enums.CompanyType   `json:"type,omitempty"`
	State  string               `json:"state,omitempty"`
	Status *enums.CompanyStatus `json:"status,omitempty"`
	Grade  *enums.Grade         `json:"grade,omitempty"`
	Query  string               `json:"q,omitempty"`
}

// ListInput captures the inputs needed to paginate and filter the directory.
type ListInput struct {
	Filters    ListFilters
	Pagination pagination.Params
}

// ListResult is one page of company summaries plus the next cursor.
type ListResult struct {
	Companies  []CompanySummary `json:"companies"`
	NextCursor string           `json:"next_cursor,omitempty"`
}

// UpdateProfileInput lists the profile fields a verified rep may edit. Nil
// fields are left untouched.
type UpdateProfileInput struct {
	Description     *string  `json:"description,omitempty"`
	Website         *string  `json:"website,omitempty"`
	LogoURL         *string  `json:"logo_url,omitempty"`
	OperatingStates []string `json:"operating_states,omitempty"`
}

// FromModel maps a persistence row onto the full API shape.
func FromModel(c *models.Company) *CompanyDTO {
	return &CompanyDTO{
		ID:              c.ID,
		Name:            c.Name,
		Description:     c.Description,
		Website:         c.Website,
		Type:            c.Type,
		LogoURL:         c.LogoURL,
		IsVerified:      c.IsVerified,
		Status:          c.Status,
		Grade:           c.Grade,
		AvgScore:        c.AvgScore,
		CategoryScores:  c.CategoryScores,
		ReviewCount:     c.ReviewCount,
		LastVerified:    c.LastVerified,
		OperatingStates: append([]string(nil), c.OperatingStates...),
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}
}
