package companies

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/kylethumm90/solar-review-hub-sub000/pkg/db/models"
	"github.com/kylethumm90/solar-review-hub-sub000/pkg/enums"
	"github.com/kylethumm90/solar-review-hub-sub000/pkg/pagination"
	"github.com/kylethumm90/solar-review-hub-sub000/pkg/types"
)

// Repository handles company persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to company operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Create persists a new company row.
func (r *Repository) Create(ctx context.Context, company *models.Company) (*models.Company, error) {
	if err := r.db.WithContext(ctx).Create(company).Error; err != nil {
		return nil, err
	}
	return company, nil
}

// FindByID loads a company by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Company, error) {
	var company models.Company
	if err := r.db.WithContext(ctx).First(&company, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &company, nil
}

// Update saves the provided company.
func (r *Repository) Update(ctx context.Context, company *models.Company) error {
	return r.db.WithContext(ctx).Save(company).Error
}

// Aggregates is the derived scoring block recomputed on moderation.
type Aggregates struct {
	Grade          enums.Grade
	AvgScore       *float64
	CategoryScores types.CategoryScores
	ReviewCount    int
}

// UpdateAggregates overwrites the derived scoring columns in one statement.
func (r *Repository) UpdateAggregates(ctx context.Context, companyID uuid.UUID, agg Aggregates) error {
	return r.db.WithContext(ctx).
		Model(&models.Company{}).
		Where("id = ?", companyID).
		Updates(map[string]any{
			"grade":           agg.Grade,
			"avg_score":       agg.AvgScore,
			"category_scores": agg.CategoryScores,
			"review_count":    agg.ReviewCount,
		}).Error
}

// SetVerification flips the claim-derived verification columns.
func (r *Repository) SetVerification(ctx context.Context, companyID uuid.UUID, verified bool, status enums.CompanyStatus, lastVerified *time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.Company{}).
		Where("id = ?", companyID).
		Updates(map[string]any{
			"is_verified":   verified,
			"status":        status,
			"last_verified": lastVerified,
		}).Error
}

type listQuery struct {
	Filters    ListFilters
	Pagination pagination.Params
}

// ListSummaries pages through the directory newest-first with keyset cursors.
func (r *Repository) ListSummaries(ctx context.Context, query listQuery) (*ListResult, error) {
	pageSize := pagination.NormalizeLimit(query.Pagination.Limit)
	limitWithBuffer := pagination.LimitWithBuffer(query.Pagination.Limit)

	cursor, err := pagination.ParseCursor(query.Pagination.Cursor)
	if err != nil {
		return nil, err
	}

	qb := r.db.WithContext(ctx).Model(&models.Company{})

	filter := query.Filters
	if filter.Type != nil {
		qb = qb.Where("type = ?", *filter.Type)
	}
	if filter.Status != nil {
		qb = qb.Where("status = ?", *filter.Status)
	}
	if filter.Grade != nil {
		qb = qb.Where("grade = ?", *filter.Grade)
	}
	if state := strings.TrimSpace(filter.State); state != "" {
		qb = qb.Where("operating_states @> ?", pq.StringArray{strings.ToUpper(state)})
	}
	if search := strings.TrimSpace(filter.Query); search != "" {
		qb = qb.Where("name ILIKE ?", "%"+search+"%")
	}

	if cursor != nil {
		qb = qb.Where("(created_at < ?) OR (created_at = ? AND id < ?)", cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}

	var rows []models.Company
	if err := qb.Order("created_at DESC").Order("id DESC").Limit(limitWithBuffer).Find(&rows).Error; err != nil {
		return nil, err
	}

	nextCursor := ""
	if len(rows) > pageSize {
		rows = rows[:pageSize]
		last := rows[len(rows)-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}

	summaries := make([]CompanySummary, 0, len(rows))
	for i := range rows {
		summaries = append(summaries, toSummary(&rows[i]))
	}

	return &ListResult{Companies: summaries, NextCursor: nextCursor}, nil
}

func toSummary(c *models.Company) CompanySummary {
	return CompanySummary{
		ID:          c.ID,
		Name:        c.Name,
		Type:        c.Type,
		LogoURL:     c.LogoURL,
		IsVerified:  c.IsVerified,
		Status:      c.Status,
		Grade:       c.Grade,
		AvgScore:    c.AvgScore,
		ReviewCount: c.ReviewCount,
		CreatedAt:   c.CreatedAt,
	}
}
