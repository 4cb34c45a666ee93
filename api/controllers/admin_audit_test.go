package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/kylethumm90/solar-review-hub-sub000/internal/auditlog"
	"github.com/kylethumm90/solar-review-hub-sub000/pkg/enums"
)

type testAuditLister struct {
	listFn func(ctx context.Context, query auditlog.ListQuery) (*auditlog.ListResult, error)
}

func (s *testAuditLister) List(ctx context.Context, query auditlog.ListQuery) (*auditlog.ListResult, error) {
	if s.listFn != nil {
		return s.listFn(ctx, query)
	}
	return &auditlog.ListResult{}, nil
}

func TestAdminAuditLogForwardsFilters(t *testing.T) {
	actorID := uuid.New()
	var got auditlog.ListQuery
	repo := &testAuditLister{
		listFn: func(ctx context.Context, query auditlog.ListQuery) (*auditlog.ListResult, error) {
			got = query
			return &auditlog.ListResult{}, nil
		},
	}

	url := "/api/admin/v1/audit-log?action=claim_approved&entity=claim&actor_id=" + actorID.String() + "&limit=10"
	req := httptest.NewRequest(http.MethodGet, url, nil)
	resp := httptest.NewRecorder()
	AdminAuditLog(repo, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.Code)
	}
	if got.Action == nil || *got.Action != enums.AuditActionClaimApproved {
		t.Fatalf("action filter not forwarded: %+v", got)
	}
	if got.ActorID == nil || *got.ActorID != actorID {
		t.Fatalf("actor filter not forwarded: %+v", got)
	}
	if got.Entity != "claim" || got.Pagination.Limit != 10 {
		t.Fatalf("entity/limit not forwarded: %+v", got)
	}
}

func TestAdminAuditLogRejectsUnknownAction(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/admin/v1/audit-log?action=user_deleted", nil)
	resp := httptest.NewRecorder()
	AdminAuditLog(&testAuditLister{}, testLogger())(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}
