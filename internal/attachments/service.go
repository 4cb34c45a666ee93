package attachments

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kylethumm90/solar-review-hub-sub000/pkg/config"
	"github.com/kylethumm90/solar-review-hub-sub000/pkg/db/models"
	"github.com/kylethumm90/solar-review-hub-sub000/pkg/enums"
	pkgerrors "github.com/kylethumm90/solar-review-hub-sub000/pkg/errors"
)

// allowedMimeTypes maps the accepted document types to object key extensions.
var allowedMimeTypes = map[string]string{
	"application/pdf": "pdf",
	"image/jpeg":      "jpg",
	"image/png":       "png",
}

type urlSigner interface {
	SignedURL(bucket, object, contentType string, expires time.Duration) (string, error)
	ObjectExists(ctx context.Context, bucket, object string) (bool, error)
}

// PresignInput describes the upload the client wants to perform.
type PresignInput struct {
	Kind      enums.AttachmentKind `json:"kind" validate:"required"`
	MimeType  string               `json:"mime_type" validate:"required"`
	SizeBytes int64                `json:"size_bytes" validate:"required,min=1"`
}

// PresignResult carries the signed PUT URL and the attachment record.
type PresignResult struct {
	AttachmentID uuid.UUID `json:"attachment_id"`
	UploadURL    string    `json:"upload_url"`
	ObjectKey    string    `json:"object_key"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// AttachmentDTO is the public shape of an attachment.
type AttachmentDTO struct {
	ID         uuid.UUID              `json:"id"`
	Kind       enums.AttachmentKind   `json:"kind"`
	MimeType   string                 `json:"mime_type"`
	SizeBytes  int64                  `json:"size_bytes"`
	Status     enums.AttachmentStatus `json:"status"`
	UploadedAt *time.Time             `json:"uploaded_at,omitempty"`
	CreatedAt  time.Time              `json:"created_at"`
}

// Service exposes the presign/finalize upload flow.
type Service interface {
	Presign(ctx context.Context, userID uuid.UUID, input PresignInput) (*PresignResult, error)
	Finalize(ctx context.Context, userID, attachmentID uuid.UUID) (*AttachmentDTO, error)
	VerifyForReview(ctx context.Context, attachmentID, userID uuid.UUID) error
}

// ServiceParams packages the dependencies for the attachments service.
type ServiceParams struct {
	Repo        *Repository
	Signer      urlSigner
	GCS         config.GCSConfig
	Attachments config.AttachmentsConfig
}

type service struct {
	repo     *Repository
	signer   urlSigner
	gcsCfg   config.GCSConfig
	maxBytes int64
	expiry   time.Duration
}

// NewService validates dependencies and returns the attachments service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "attachments repository required")
	}
	if params.Signer == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "url signer required")
	}
	if params.GCS.BucketName == "" {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "gcs bucket name required")
	}
	expiry := params.GCS.UploadURLExpiry
	if expiry <= 0 {
		expiry = 15 * time.Minute
	}
	return &service{
		repo:     params.Repo,
		signer:   params.Signer,
		gcsCfg:   params.GCS,
		maxBytes: params.Attachments.MaxUploadBytes(),
		expiry:   expiry,
	}, nil
}

func (s *service) Presign(ctx context.Context, userID uuid.UUID, input PresignInput) (*PresignResult, error) {
	if !input.Kind.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid attachment kind")
	}
	mime := strings.ToLower(strings.TrimSpace(input.MimeType))
	ext, ok := allowedMimeTypes[mime]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "only PDF, JPEG, and PNG documents are accepted")
	}
	if input.SizeBytes <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "size_bytes must be positive")
	}
	if input.SizeBytes > s.maxBytes {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("documents must be at most %d bytes", s.maxBytes))
	}

	attachment := &models.Attachment{
		ID:        uuid.New(),
		UserID:    userID,
		Kind:      input.Kind,
		MimeType:  mime,
		SizeBytes: input.SizeBytes,
		Status:    enums.AttachmentStatusPending,
	}
	attachment.ObjectKey = objectKey(attachment.Kind, userID, attachment.ID, ext)

	if _, err := s.repo.Create(ctx, attachment); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create attachment")
	}

	uploadURL, err := s.signer.SignedURL(s.gcsCfg.BucketName, attachment.ObjectKey, mime, s.expiry)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sign upload url")
	}

	return &PresignResult{
		AttachmentID: attachment.ID,
		UploadURL:    uploadURL,
		ObjectKey:    attachment.ObjectKey,
		ExpiresAt:    time.Now().UTC().Add(s.expiry),
	}, nil
}

// Finalize confirms the object landed in the bucket and marks the attachment
// uploaded.
func (s *service) Finalize(ctx context.Context, userID, attachmentID uuid.UUID) (*AttachmentDTO, error) {
	attachment, err := s.repo.FindByID(ctx, attachmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "attachment not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load attachment")
	}
	if attachment.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "attachment belongs to another user")
	}
	if attachment.Status == enums.AttachmentStatusUploaded {
		return toDTO(attachment), nil
	}

	exists, err := s.signer.ObjectExists(ctx, s.gcsCfg.BucketName, attachment.ObjectKey)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check object")
	}
	if !exists {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "object has not been uploaded yet")
	}

	now := time.Now().UTC()
	if err := s.repo.MarkUploaded(ctx, attachment.ID, now); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark attachment uploaded")
	}
	attachment.Status = enums.AttachmentStatusUploaded
	attachment.UploadedAt = &now
	return toDTO(attachment), nil
}

// VerifyForReview enforces the rules for a verification document referenced
// by a review: owned by the submitter, the right kind, fully uploaded, and
// within the accepted type and size limits.
func (s *service) VerifyForReview(ctx context.Context, attachmentID, userID uuid.UUID) error {
	attachment, err := s.repo.FindByID(ctx, attachmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeValidation, "verification document not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load attachment")
	}
	if attachment.UserID != userID {
		return pkgerrors.New(pkgerrors.CodeForbidden, "verification document belongs to another user")
	}
	if attachment.Kind != enums.AttachmentKindVerificationDoc {
		return pkgerrors.New(pkgerrors.CodeValidation, "attachment is not a verification document")
	}
	if attachment.Status != enums.AttachmentStatusUploaded {
		return pkgerrors.New(pkgerrors.CodeValidation, "verification document has not been uploaded")
	}
	if _, ok := allowedMimeTypes[attachment.MimeType]; !ok {
		return pkgerrors.New(pkgerrors.CodeValidation, "verification document must be PDF, JPEG, or PNG")
	}
	if attachment.SizeBytes > s.maxBytes {
		return pkgerrors.New(pkgerrors.CodeValidation, "verification document exceeds the size limit")
	}
	return nil
}

func objectKey(kind enums.AttachmentKind, userID, attachmentID uuid.UUID, ext string) string {
	folder := "verification"
	if kind == enums.AttachmentKindCompanyLogo {
		folder = "logos"
	}
	return path.Join("attachments", folder, userID.String(), fmt.Sprintf("%s.%s", attachmentID, ext))
}

func toDTO(a *models.Attachment) *AttachmentDTO {
	return &AttachmentDTO{
		ID:         a.ID,
		Kind:       a.Kind,
		MimeType:   a.MimeType,
		SizeBytes:  a.SizeBytes,
		Status:     a.Status,
		UploadedAt: a.UploadedAt,
		CreatedAt:  a.CreatedAt,
	}
}
