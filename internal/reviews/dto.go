package reviews

import (
	"time"

	"github.com/google/uuid"

	"github.com/kylethumm90/solar-review-hub-sub000/pkg/db/models"
	"github.com/kylethumm90/solar-review-hub-sub000/pkg/enums"
	"github.com/kylethumm90/solar-review-hub-sub000/pkg/pagination"
)

// AnswerInput is one per-question rating in a submission.
type AnswerInput struct {
	QuestionID uuid.UUID `json:"question_id" validate:"required"`
	Rating     int       `json:"rating" validate:"required,min=1,max=5"`
	Notes      *string   `json:"notes,omitempty"`
}

// SubmitInput is the full review submission payload.
type SubmitInput struct {
	CompanyID    uuid.UUID     `json:"company_id" validate:"required"`
	Title        string        `json:"title" validate:"required,max=200"`
	TextFeedback *string       `json:"text_feedback,omitempty"`
	IsAnonymous  bool          `json:"is_anonymous"`
	AttachmentID *uuid.UUID    `json:"attachment_id,omitempty"`
	Answers      []AnswerInput `json:"answers" validate:"required,min=1,dive"`

	// EPC-only project metadata.
	InstallCount   *int       `json:"install_count,omitempty"`
	InstallStart   *time.Time `json:"install_start,omitempty"`
	InstallEnd     *time.Time `json:"install_end,omitempty"`
	WouldRecommend *bool      `json:"would_recommend,omitempty"`
}

// AnswerDTO is the public shape of a stored answer.
type AnswerDTO struct {
	QuestionID uuid.UUID `json:"question_id"`
	Category   string    `json:"category,omitempty"`
	Rating     int       `json:"rating"`
	Notes      *string   `json:"notes,omitempty"`
}

// ReviewDTO is the public shape of a review. The author is omitted for
// anonymous reviews on public read paths.
type ReviewDTO struct {
	ID           uuid.UUID          `json:"id"`
	CompanyID    uuid.UUID          `json:"company_id"`
	UserID       *uuid.UUID         `json:"user_id,omitempty"`
	Title        string             `json:"title"`
	TextFeedback *string            `json:"text_feedback,omitempty"`
	AverageScore float64            `json:"average_score"`
	Status       enums.ReviewStatus `json:"status"`
	IsAnonymous  bool               `json:"is_anonymous"`
	Answers      []AnswerDTO        `json:"answers,omitempty"`

	InstallCount   *int       `json:"install_count,omitempty"`
	InstallStart   *time.Time `json:"install_start,omitempty"`
	InstallEnd     *time.Time `json:"install_end,omitempty"`
	WouldRecommend *bool      `json:"would_recommend,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ListResult is one page of reviews plus the next cursor.
type ListResult struct {
	Reviews    []ReviewDTO `json:"reviews"`
	NextCursor string      `json:"next_cursor,omitempty"`
}

// AdminListFilters narrow the moderation queue view.
type AdminListFilters struct {
	Status *enums.ReviewStatus `json:"status,omitempty"`
	Query  string              `json:"q,omitempty"`
}

// AdminListInput pages the moderation queue.
type AdminListInput struct {
	Filters    AdminListFilters
	Pagination pagination.Params
}

// ModerationResult reports whether a status transition was applied or the
// review already sat in the requested state.
type ModerationResult struct {
	Review         *ReviewDTO `json:"review"`
	Applied        bool       `json:"applied"`
	AlreadyInState bool       `json:"already_in_state"`
}

// FromModel maps a persistence row onto the API shape. When hideAuthor is set
// the user reference is withheld.
func FromModel(r *models.Review, hideAuthor bool) *ReviewDTO {
	dto := &ReviewDTO{
		ID:             r.ID,
		CompanyID:      r.CompanyID,
		Title:          r.Title,
		TextFeedback:   r.TextFeedback,
		AverageScore:   r.AverageScore,
		Status:         r.Status,
		IsAnonymous:    r.IsAnonymous,
		InstallCount:   r.InstallCount,
		InstallStart:   r.InstallStart,
		InstallEnd:     r.InstallEnd,
		WouldRecommend: r.WouldRecommend,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
	if !hideAuthor {
		userID := r.UserID
		dto.UserID = &userID
	}
	return dto
}
