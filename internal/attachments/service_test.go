package attachments

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/kylethumm90/solar-review-hub-sub000/pkg/config"
	"github.com/kylethumm90/solar-review-hub-sub000/pkg/enums"
	pkgerrors "github.com/kylethumm90/solar-review-hub-sub000/pkg/errors"
)

func setupAttachmentsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	attachments := `
CREATE TABLE IF NOT EXISTS attachments (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  kind TEXT NOT NULL,
  object_key TEXT NOT NULL,
  mime_type TEXT NOT NULL,
  size_bytes INTEGER NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending',
  uploaded_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, conn.Exec(attachments).Error)
	return conn
}

type fakeSigner struct {
	exists    bool
	existsErr error
	signed    []string
}

func (f *fakeSigner) SignedURL(bucket, object, contentType string, expires time.Duration) (string, error) {
	url := "https://storage.example/" + bucket + "/" + object
	f.signed = append(f.signed, url)
	return url, nil
}

func (f *fakeSigner) ObjectExists(context.Context, string, string) (bool, error) {
	return f.exists, f.existsErr
}

func newAttachmentsService(t *testing.T, conn *gorm.DB, signer *fakeSigner) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		Repo:   NewRepository(conn),
		Signer: signer,
		GCS: config.GCSConfig{
			BucketName:      "solargrade-uploads",
			UploadURLExpiry: 15 * time.Minute,
		},
		Attachments: config.AttachmentsConfig{MaxUploadMB: 5},
	})
	require.NoError(t, err)
	return svc
}

func TestPresignCreatesPendingAttachment(t *testing.T) {
	conn := setupAttachmentsTestDB(t)
	signer := &fakeSigner{}
	svc := newAttachmentsService(t, conn, signer)

	userID := uuid.New()
	result, err := svc.Presign(context.Background(), userID, PresignInput{
		Kind:      enums.AttachmentKindVerificationDoc,
		MimeType:  "application/pdf",
		SizeBytes: 1024,
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, result.AttachmentID)
	assert.Contains(t, result.UploadURL, "solargrade-uploads")
	assert.True(t, strings.HasPrefix(result.ObjectKey, "attachments/verification/"))
	assert.True(t, strings.HasSuffix(result.ObjectKey, ".pdf"))
	require.Len(t, signer.signed, 1)
}

func TestPresignRejectsDisallowedMime(t *testing.T) {
	conn := setupAttachmentsTestDB(t)
	svc := newAttachmentsService(t, conn, &fakeSigner{})

	_, err := svc.Presign(context.Background(), uuid.New(), PresignInput{
		Kind:      enums.AttachmentKindVerificationDoc,
		MimeType:  "image/gif",
		SizeBytes: 1024,
	})
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())
}

func TestPresignRejectsOversizedUpload(t *testing.T) {
	conn := setupAttachmentsTestDB(t)
	svc := newAttachmentsService(t, conn, &fakeSigner{})

	_, err := svc.Presign(context.Background(), uuid.New(), PresignInput{
		Kind:      enums.AttachmentKindVerificationDoc,
		MimeType:  "application/pdf",
		SizeBytes: 6 * 1024 * 1024,
	})
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())
}

func TestFinalizeMarksUploaded(t *testing.T) {
	conn := setupAttachmentsTestDB(t)
	signer := &fakeSigner{exists: true}
	svc := newAttachmentsService(t, conn, signer)

	userID := uuid.New()
	presigned, err := svc.Presign(context.Background(), userID, PresignInput{
		Kind:      enums.AttachmentKindVerificationDoc,
		MimeType:  "image/png",
		SizeBytes: 2048,
	})
	require.NoError(t, err)

	finalized, err := svc.Finalize(context.Background(), userID, presigned.AttachmentID)
	require.NoError(t, err)
	assert.Equal(t, enums.AttachmentStatusUploaded, finalized.Status)
	require.NotNil(t, finalized.UploadedAt)

	// Finalizing again is a no-op read of the uploaded row.
	again, err := svc.Finalize(context.Background(), userID, presigned.AttachmentID)
	require.NoError(t, err)
	assert.Equal(t, enums.AttachmentStatusUploaded, again.Status)
}

func TestFinalizeRequiresUploadedObject(t *testing.T) {
	conn := setupAttachmentsTestDB(t)
	signer := &fakeSigner{exists: false}
	svc := newAttachmentsService(t, conn, signer)

	userID := uuid.New()
	presigned, err := svc.Presign(context.Background(), userID, PresignInput{
		Kind:      enums.AttachmentKindVerificationDoc,
		MimeType:  "image/jpeg",
		SizeBytes: 2048,
	})
	require.NoError(t, err)

	_, err = svc.Finalize(context.Background(), userID, presigned.AttachmentID)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeStateConflict, appErr.Code())
}

func TestFinalizeRejectsForeignAttachment(t *testing.T) {
	conn := setupAttachmentsTestDB(t)
	signer := &fakeSigner{exists: true}
	svc := newAttachmentsService(t, conn, signer)

	presigned, err := svc.Presign(context.Background(), uuid.New(), PresignInput{
		Kind:      enums.AttachmentKindVerificationDoc,
		MimeType:  "application/pdf",
		SizeBytes: 2048,
	})
	require.NoError(t, err)

	_, err = svc.Finalize(context.Background(), uuid.New(), presigned.AttachmentID)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeForbidden, appErr.Code())
}

func TestVerifyForReview(t *testing.T) {
	conn := setupAttachmentsTestDB(t)
	signer := &fakeSigner{exists: true}
	svc := newAttachmentsService(t, conn, signer)

	userID := uuid.New()
	presigned, err := svc.Presign(context.Background(), userID, PresignInput{
		Kind:      enums.AttachmentKindVerificationDoc,
		MimeType:  "application/pdf",
		SizeBytes: 2048,
	})
	require.NoError(t, err)

	// Pending documents are not acceptable yet.
	err = svc.VerifyForReview(context.Background(), presigned.AttachmentID, userID)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())

	_, err = svc.Finalize(context.Background(), userID, presigned.AttachmentID)
	require.NoError(t, err)

	require.NoError(t, svc.VerifyForReview(context.Background(), presigned.AttachmentID, userID))

	err = svc.VerifyForReview(context.Background(), presigned.AttachmentID, uuid.New())
	appErr = pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeForbidden, appErr.Code())
}
