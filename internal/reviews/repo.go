package reviews

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kylethumm90/solar-review-hub-sub000/pkg/db/models"
	"github.com/kylethumm90/solar-review-hub-sub000/pkg/enums"
	"github.com/kylethumm90/solar-review-hub-sub000/pkg/pagination"
	"github.com/kylethumm90/solar-review-hub-sub000/pkg/types"
)

// Repository handles review and answer persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to review operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// CreateReview inserts the review row.
func (r *Repository) CreateReview(ctx context.Context, review *models.Review) (*models.Review, error) {
	if err := r.db.WithContext(ctx).Create(review).Error; err != nil {
		return nil, err
	}
	return review, nil
}

// CreateAnswers inserts the per-question answer rows in one statement.
func (r *Repository) CreateAnswers(ctx context.Context, answers []models.ReviewAnswer) error {
	if len(answers) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&answers).Error
}

// FindByID loads a review without its answers.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Review, error) {
	var review models.Review
	if err := r.db.WithContext(ctx).First(&review, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

// ListAnswers returns the answers for one review.
func (r *Repository) ListAnswers(ctx context.Context, reviewID uuid.UUID) ([]models.ReviewAnswer, error) {
	var rows []models.ReviewAnswer
	err := r.db.WithContext(ctx).
		Where("review_id = ?", reviewID).
		Order("created_at ASC").
		Find(&rows).
		Error
	return rows, err
}

// HasReviewByUser reports whether the user already reviewed the company.
func (r *Repository) HasReviewByUser(ctx context.Context, userID, companyID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Review{}).
		Where("user_id = ? AND company_id = ? AND status <> ?", userID, companyID, enums.ReviewStatusRejected).
		Count(&count).
		Error
	return count > 0, err
}

// HasOtherLiveReview reports whether the user holds a non-rejected review of
// the company besides the given one.
func (r *Repository) HasOtherLiveReview(ctx context.Context, userID, companyID, excludeID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Review{}).
		Where("user_id = ? AND company_id = ? AND id <> ? AND status <> ?",
			userID, companyID, excludeID, enums.ReviewStatusRejected).
		Count(&count).
		Error
	return count > 0, err
}

// UpdateStatus flips the moderation status.
func (r *Repository) UpdateStatus(ctx context.Context, reviewID uuid.UUID, status enums.ReviewStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.Review{}).
		Where("id = ?", reviewID).
		UpdateColumn("status", status).Error
}

// ApprovedAverages returns the per-review average scores of the company's
// approved reviews, the inputs for the company grade.
func (r *Repository) ApprovedAverages(ctx context.Context, companyID uuid.UUID) ([]float64, error) {
	var averages []float64
	err := r.db.WithContext(ctx).
		Model(&models.Review{}).
		Where("company_id = ? AND status = ?", companyID, enums.ReviewStatusApproved).
		Pluck("average_score", &averages).
		Error
	return averages, err
}

// CategoryAverages computes the per-category mean rating across the company's
// approved reviews.
func (r *Repository) CategoryAverages(ctx context.Context, companyID uuid.UUID) (types.CategoryScores, error) {
	type categoryRow struct {
		Category string
		Avg      float64
	}
	var rows []categoryRow
	err := r.db.WithContext(ctx).
		Table("review_answers a").
		Select("q.category AS category, AVG(a.rating) AS avg").
		Joins("JOIN review_questions q ON q.id = a.question_id").
		Joins("JOIN reviews r ON r.id = a.review_id").
		Where("r.company_id = ? AND r.status = ?", companyID, enums.ReviewStatusApproved).
		Group("q.category").
		Scan(&rows).
		Error
	if err != nil {
		return nil, err
	}

	scores := make(types.CategoryScores, len(rows))
	for _, row := range rows {
		scores[row.Category] = row.Avg
	}
	return scores, nil
}

type listQuery struct {
	CompanyID  *uuid.UUID
	UserID     *uuid.UUID
	Status     *enums.ReviewStatus
	Search     string
	Pagination pagination.Params
}

type listPage struct {
	Reviews    []models.Review
	NextCursor string
}

// list pages reviews newest-first with keyset cursors.
func (r *Repository) list(ctx context.Context, query listQuery) (*listPage, error) {
	pageSize := pagination.NormalizeLimit(query.Pagination.Limit)
	limitWithBuffer := pagination.LimitWithBuffer(query.Pagination.Limit)

	cursor, err := pagination.ParseCursor(query.Pagination.Cursor)
	if err != nil {
		return nil, err
	}

	qb := r.db.WithContext(ctx).Model(&models.Review{})
	if query.CompanyID != nil {
		qb = qb.Where("company_id = ?", *query.CompanyID)
	}
	if query.UserID != nil {
		qb = qb.Where("user_id = ?", *query.UserID)
	}
	if query.Status != nil {
		qb = qb.Where("status = ?", *query.Status)
	}
	if search := strings.TrimSpace(query.Search); search != "" {
		qb = qb.Where("title ILIKE ?", "%"+search+"%")
	}
	if cursor != nil {
		qb = qb.Where("(created_at < ?) OR (created_at = ? AND id < ?)", cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}

	var rows []models.Review
	if err := qb.Order("created_at DESC").Order("id DESC").Limit(limitWithBuffer).Find(&rows).Error; err != nil {
		return nil, err
	}

	nextCursor := ""
	if len(rows) > pageSize {
		rows = rows[:pageSize]
		last := rows[len(rows)-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}

	return &listPage{Reviews: rows, NextCursor: nextCursor}, nil
}
