package claims

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kylethumm90/solar-review-hub-sub000/pkg/db/models"
	"github.com/kylethumm90/solar-review-hub-sub000/pkg/enums"
	"github.com/kylethumm90/solar-review-hub-sub000/pkg/pagination"
)

// Repository handles claim persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to claim operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Create inserts a new claim row.
func (r *Repository) Create(ctx context.Context, claim *models.Claim) (*models.Claim, error) {
	if err := r.db.WithContext(ctx).Create(claim).Error; err != nil {
		return nil, err
	}
	return claim, nil
}

// FindByID loads a claim by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Claim, error) {
	var claim models.Claim
	if err := r.db.WithContext(ctx).First(&claim, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &claim, nil
}

// Update saves the provided claim.
func (r *Repository) Update(ctx context.Context, claim *models.Claim) error {
	return r.db.WithContext(ctx).Save(claim).Error
}

// HasApprovedClaim reports whether the user holds an approved claim on the
// company. Companies profile edits gate on this.
func (r *Repository) HasApprovedClaim(ctx context.Context, userID, companyID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Claim{}).
		Where("user_id = ? AND company_id = ? AND status = ?", userID, companyID, enums.ClaimStatusApproved).
		Count(&count).
		Error
	return count > 0, err
}

// HasOpenClaim reports whether the user already has a pending or approved
// claim on the company.
func (r *Repository) HasOpenClaim(ctx context.Context, userID, companyID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Claim{}).
		Where("user_id = ? AND company_id = ? AND status IN ?", userID, companyID,
			[]enums.ClaimStatus{enums.ClaimStatusPending, enums.ClaimStatusApproved}).
		Count(&count).
		Error
	return count > 0, err
}

// ListApprovedForCompany returns the approved claims on a company, excluding
// the provided claim ID when non-nil.
func (r *Repository) ListApprovedForCompany(ctx context.Context, companyID uuid.UUID, exclude *uuid.UUID) ([]models.Claim, error) {
	qb := r.db.WithContext(ctx).
		Where("company_id = ? AND status = ?", companyID, enums.ClaimStatusApproved)
	if exclude != nil {
		qb = qb.Where("id <> ?", *exclude)
	}
	var rows []models.Claim
	err := qb.Find(&rows).Error
	return rows, err
}

// CountApprovedForUser counts the user's approved claims, excluding the
// provided claim ID when non-nil. Used to decide role demotion.
func (r *Repository) CountApprovedForUser(ctx context.Context, userID uuid.UUID, exclude *uuid.UUID) (int64, error) {
	qb := r.db.WithContext(ctx).
		Model(&models.Claim{}).
		Where("user_id = ? AND status = ?", userID, enums.ClaimStatusApproved)
	if exclude != nil {
		qb = qb.Where("id <> ?", *exclude)
	}
	var count int64
	err := qb.Count(&count).Error
	return count, err
}

type listQuery struct {
	UserID     *uuid.UUID
	Status     *enums.ClaimStatus
	Search     string
	Pagination pagination.Params
}

type listPage struct {
	Claims     []models.Claim
	NextCursor string
}

// list pages claims newest-first with keyset cursors.
func (r *Repository) list(ctx context.Context, query listQuery) (*listPage, error) {
	pageSize := pagination.NormalizeLimit(query.Pagination.Limit)
	limitWithBuffer := pagination.LimitWithBuffer(query.Pagination.Limit)

	cursor, err := pagination.ParseCursor(query.Pagination.Cursor)
	if err != nil {
		return nil, err
	}

	qb := r.db.WithContext(ctx).Model(&models.Claim{})
	if query.UserID != nil {
		qb = qb.Where("user_id = ?", *query.UserID)
	}
	if query.Status != nil {
		qb = qb.Where("status = ?", *query.Status)
	}
	if search := strings.TrimSpace(query.Search); search != "" {
		pattern := "%" + search + "%"
		qb = qb.Where("(full_name ILIKE ? OR company_email ILIKE ?)", pattern, pattern)
	}
	if cursor != nil {
		qb = qb.Where("(created_at < ?) OR (created_at = ? AND id < ?)", cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}

	var rows []models.Claim
	if err := qb.Order("created_at DESC").Order("id DESC").Limit(limitWithBuffer).Find(&rows).Error; err != nil {
		return nil, err
	}

	nextCursor := ""
	if len(rows) > pageSize {
		rows = rows[:pageSize]
		last := rows[len(rows)-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}

	return &listPage{Claims: rows, NextCursor: nextCursor}, nil
}
