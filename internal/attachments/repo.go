package attachments

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kylethumm90/solar-review-hub-sub000/pkg/db/models"
	"github.com/kylethumm90/solar-review-hub-sub000/pkg/enums"
)

// Repository handles attachment persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to attachment operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new attachment row.
func (r *Repository) Create(ctx context.Context, attachment *models.Attachment) (*models.Attachment, error) {
	if err := r.db.WithContext(ctx).Create(attachment).Error; err != nil {
		return nil, err
	}
	return attachment, nil
}

// FindByID loads an attachment by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Attachment, error) {
	var attachment models.Attachment
	if err := r.db.WithContext(ctx).First(&attachment, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &attachment, nil
}

// MarkUploaded flips the attachment to uploaded once the object landed.
func (r *Repository) MarkUploaded(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.Attachment{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":      enums.AttachmentStatusUploaded,
			"uploaded_at": at,
		}).Error
}
