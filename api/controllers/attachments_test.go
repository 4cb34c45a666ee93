package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	attachmentsvc "github.com/kylethumm90/solar-review-hub-sub000/internal/attachments"
	"github.com/kylethumm90/solar-review-hub-sub000/pkg/enums"
)

type testAttachmentService struct {
	presignFn  func(ctx context.Context, userID uuid.UUID, input attachmentsvc.PresignInput) (*attachmentsvc.PresignResult, error)
	finalizeFn func(ctx context.Context, userID, attachmentID uuid.UUID) (*attachmentsvc.AttachmentDTO, error)
}

func (s *testAttachmentService) Presign(ctx context.Context, userID uuid.UUID, input attachmentsvc.PresignInput) (*attachmentsvc.PresignResult, error) {
	if s.presignFn != nil {
		return s.presignFn(ctx, userID, input)
	}
	return &attachmentsvc.PresignResult{}, nil
}

func (s *testAttachmentService) Finalize(ctx context.Context, userID, attachmentID uuid.UUID) (*attachmentsvc.AttachmentDTO, error) {
	if s.finalizeFn != nil {
		return s.finalizeFn(ctx, userID, attachmentID)
	}
	return &attachmentsvc.AttachmentDTO{}, nil
}

func (s *testAttachmentService) VerifyForReview(ctx context.Context, attachmentID, userID uuid.UUID) error {
	return nil
}

func TestAttachmentPresignParsesKind(t *testing.T) {
	userID := uuid.New()
	var got attachmentsvc.PresignInput
	svc := &testAttachmentService{
		presignFn: func(ctx context.Context, uid uuid.UUID, input attachmentsvc.PresignInput) (*attachmentsvc.PresignResult, error) {
			if uid != userID {
				t.Fatalf("unexpected user %s", uid)
			}
			got = input
			return &attachmentsvc.PresignResult{}, nil
		},
	}

	body := `{"kind":"verification_doc","mime_type":"application/pdf","size_bytes":2048}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/attachments/presign", strings.NewReader(body))
	req = asUser(req, userID.String())
	resp := httptest.NewRecorder()
	AttachmentPresign(svc, testLogger())(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", resp.Code)
	}
	if got.Kind != enums.AttachmentKindVerificationDoc || got.SizeBytes != 2048 {
		t.Fatalf("input not forwarded: %+v", got)
	}
}

func TestAttachmentPresignRejectsUnknownKind(t *testing.T) {
	body := `{"kind":"selfie","mime_type":"image/png","size_bytes":100}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/attachments/presign", strings.NewReader(body))
	req = asUser(req, uuid.NewString())
	resp := httptest.NewRecorder()
	AttachmentPresign(&testAttachmentService{}, testLogger())(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestAttachmentFinalizeForwardsIDs(t *testing.T) {
	userID := uuid.New()
	attachmentID := uuid.New()
	called := false
	svc := &testAttachmentService{
		finalizeFn: func(ctx context.Context, uid, aid uuid.UUID) (*attachmentsvc.AttachmentDTO, error) {
			called = true
			if uid != userID || aid != attachmentID {
				t.Fatalf("unexpected ids %s %s", uid, aid)
			}
			return &attachmentsvc.AttachmentDTO{}, nil
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/attachments/"+attachmentID.String()+"/finalize", nil)
	req = asUser(req, userID.String())
	req = addRouteParam(req, "attachmentId", attachmentID.String())
	resp := httptest.NewRecorder()
	AttachmentFinalize(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.Code)
	}
	if !called {
		t.Fatal("expected finalize called")
	}
}
