package questions

import (
	"github.com/google/uuid"

	"github.com/kylethumm90/solar-review-hub-sub000/pkg/db/models"
)

// QuestionDTO is the public shape of a review question.
type QuestionDTO struct {
	ID           uuid.UUID `json:"id"`
	Category     string    `json:"category"`
	Prompt       string    `json:"prompt"`
	CompanyTypes []string  `json:"company_types"`
	Weight       float64   `json:"weight"`
}

// FromModel maps the persistence row onto the API shape.
func FromModel(q *models.ReviewQuestion) QuestionDTO {
	return QuestionDTO{
		ID:           q.ID,
		Category:     q.Category,
		Prompt:       q.Prompt,
		CompanyTypes: append([]string(nil), q.CompanyTypes...),
		Weight:       q.Weight,
	}
}

// FromModels maps a slice of rows.
func FromModels(rows []models.ReviewQuestion) []QuestionDTO {
	out := make([]QuestionDTO, 0, len(rows))
	for i := range rows {
		out = append(out, FromModel(&rows[i]))
	}
	return out
}
