package auditlog

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kylethumm90/solar-review-hub-sub000/pkg/db/models"
	"github.com/kylethumm90/solar-review-hub-sub000/pkg/enums"
	pkgerrors "github.com/kylethumm90/solar-review-hub-sub000/pkg/errors"
	"github.com/kylethumm90/solar-review-hub-sub000/pkg/pagination"
)

// Repository appends and reads the moderation audit trail.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to audit log operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Entry captures one audit write.
type Entry struct {
	Action   enums.AuditAction
	Entity   string
	EntityID uuid.UUID
	ActorID  uuid.UUID
	Details  any
}

// Record appends an immutable audit row. Details are marshalled to JSONB.
func (r *Repository) Record(ctx context.Context, entry Entry) error {
	if !entry.Action.IsValid() {
		return pkgerrors.New(pkgerrors.CodeInternal, "invalid audit action")
	}

	var details json.RawMessage
	if entry.Details != nil {
		raw, err := json.Marshal(entry.Details)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "marshal audit details")
		}
		details = raw
	}

	row := models.AuditLog{
		ID:       uuid.New(),
		Action:   entry.Action,
		Entity:   entry.Entity,
		EntityID: entry.EntityID,
		ActorID:  entry.ActorID,
		Details:  details,
	}
	return r.db.WithContext(ctx).Create(&row).Error
}

// ListQuery filters the admin audit trail view.
type ListQuery struct {
	Action     *enums.AuditAction
	Entity     string
	ActorID    *uuid.UUID
	Pagination pagination.Params
}

// ListResult is one page of audit rows plus the cursor for the next page.
type ListResult struct {
	Entries    []models.AuditLog
	NextCursor string
}

// List returns audit rows newest-first with cursor pagination.
func (r *Repository) List(ctx context.Context, query ListQuery) (*ListResult, error) {
	pageSize := pagination.NormalizeLimit(query.Pagination.Limit)
	limitWithBuffer := pagination.LimitWithBuffer(query.Pagination.Limit)

	cursor, err := pagination.ParseCursor(query.Pagination.Cursor)
	if err != nil {
		return nil, err
	}

	qb := r.db.WithContext(ctx).Model(&models.AuditLog{})
	if query.Action != nil {
		qb = qb.Where("action = ?", *query.Action)
	}
	if query.Entity != "" {
		qb = qb.Where("entity = ?", query.Entity)
	}
	if query.ActorID != nil {
		qb = qb.Where("actor_id = ?", *query.ActorID)
	}
	if cursor != nil {
		qb = qb.Where("(created_at < ?) OR (created_at = ? AND id < ?)", cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}

	var rows []models.AuditLog
	if err := qb.Order("created_at DESC").Order("id DESC").Limit(limitWithBuffer).Find(&rows).Error; err != nil {
		return nil, err
	}

	nextCursor := ""
	if len(rows) > pageSize {
		rows = rows[:pageSize]
		last := rows[len(rows)-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}

	return &ListResult{Entries: rows, NextCursor: nextCursor}, nil
}
