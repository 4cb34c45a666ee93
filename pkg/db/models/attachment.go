package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/kylethumm90/solar-review-hub-sub000/pkg/enums"
)

// Attachment captures an object-storage document owned by a user, such as the
// verification document required for anonymous reviews.
type Attachment struct {
	ID         uuid.UUID              `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID     uuid.UUID              `gorm:"column:user_id;type:uuid;not null"`
	Kind       enums.AttachmentKind   `gorm:"column:kind;type:attachment_kind;not null"`
	ObjectKey  string                 `gorm:"column:object_key;not null"`
	MimeType   string                 `gorm:"column:mime_type;not null"`
	SizeBytes  int64                  `gorm:"column:size_bytes;not null"`
	Status     enums.AttachmentStatus `gorm:"column:status;type:attachment_status;not null;default:'pending'"`
	UploadedAt *time.Time             `gorm:"column:uploaded_at"`
	CreatedAt  time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}
