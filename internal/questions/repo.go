package questions

import (
	"context"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/kylethumm90/solar-review-hub-sub000/pkg/db/models"
	"github.com/kylethumm90/solar-review-hub-sub000/pkg/enums"
)

// Repository reads the review question reference data.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListActiveForCompanyType returns the active questions that apply to the
// provided company type, ordered by category for a stable form layout.
func (r *Repository) ListActiveForCompanyType(ctx context.Context, companyType enums.CompanyType) ([]models.ReviewQuestion, error) {
	var rows []models.ReviewQuestion
	err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Where("company_types @> ?", pq.StringArray{companyType.String()}).
		Order("category ASC").
		Find(&rows).
		Error
	return rows, err
}
