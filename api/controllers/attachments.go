package controllers

import (
	"net/http"
	"strings"

	"github.com/kylethumm90/solar-review-hub-sub000/api/responses"
	"github.com/kylethumm90/solar-review-hub-sub000/api/validators"
	attachmentsvc "github.com/kylethumm90/solar-review-hub-sub000/internal/attachments"
	"github.com/kylethumm90/solar-review-hub-sub000/pkg/enums"
	pkgerrors "github.com/kylethumm90/solar-review-hub-sub000/pkg/errors"
	"github.com/kylethumm90/solar-review-hub-sub000/pkg/logger"
)

type presignRequest struct {
	Kind      string `json:"kind" validate:"required"`
	MimeType  string `json:"mime_type" validate:"required"`
	SizeBytes int64  `json:"size_bytes" validate:"required,min=1"`
}

// AttachmentPresign issues a signed PUT URL for a pending attachment.
func AttachmentPresign(svc attachmentsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "attachment service unavailable"))
			return
		}

		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body presignRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		kind, err := enums.ParseAttachmentKind(strings.TrimSpace(body.Kind))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid attachment kind"))
			return
		}

		result, err := svc.Presign(r.Context(), userID, attachmentsvc.PresignInput{
			Kind:      kind,
			MimeType:  strings.TrimSpace(body.MimeType),
			SizeBytes: body.SizeBytes,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

// AttachmentFinalize confirms the client finished uploading to the signed URL.
func AttachmentFinalize(svc attachmentsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "attachment service unavailable"))
			return
		}

		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		attachmentID, err := pathUUID(r, "attachmentId", "attachment id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		attachment, err := svc.Finalize(r.Context(), userID, attachmentID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, attachment)
	}
}
