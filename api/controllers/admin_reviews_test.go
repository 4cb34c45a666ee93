package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	reviewsvc "github.com/kylethumm90/solar-review-hub-sub000/internal/reviews"
	"github.com/kylethumm90/solar-review-hub-sub000/pkg/enums"
)

func TestAdminReviewModerationTargets(t *testing.T) {
	cases := []struct {
		name  string
		build func(svc reviewsvc.Service) http.HandlerFunc
		want  enums.ReviewStatus
	}{
		{name: "approve", build: func(svc reviewsvc.Service) http.HandlerFunc { return AdminApproveReview(svc, testLogger()) }, want: enums.ReviewStatusApproved},
		{name: "reject", build: func(svc reviewsvc.Service) http.HandlerFunc { return AdminRejectReview(svc, testLogger()) }, want: enums.ReviewStatusRejected},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			adminID := uuid.New()
			reviewID := uuid.New()
			var gotTarget enums.ReviewStatus
			svc := &testReviewService{
				moderateFn: func(ctx context.Context, aid, rid uuid.UUID, target enums.ReviewStatus) (*reviewsvc.ModerationResult, error) {
					if aid != adminID || rid != reviewID {
						t.Fatalf("unexpected ids %s %s", aid, rid)
					}
					gotTarget = target
					return &reviewsvc.ModerationResult{Applied: true}, nil
				},
			}

			req := httptest.NewRequest(http.MethodPost, "/api/admin/v1/reviews/"+reviewID.String()+"/"+tc.name, nil)
			req = asUser(req, adminID.String())
			req = addRouteParam(req, "reviewId", reviewID.String())
			resp := httptest.NewRecorder()
			tc.build(svc)(resp, req)

			if resp.Code != http.StatusOK {
				t.Fatalf("unexpected status %d", resp.Code)
			}
			if gotTarget != tc.want {
				t.Fatalf("expected target %s got %s", tc.want, gotTarget)
			}
		})
	}
}

func TestAdminListReviewsStatusFilter(t *testing.T) {
	var got reviewsvc.AdminListInput
	svc := &testReviewService{
		adminListFn: func(ctx context.Context, input reviewsvc.AdminListInput) (*reviewsvc.ListResult, error) {
			got = input
			return &reviewsvc.ListResult{}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/admin/v1/reviews?status=pending&limit=50", nil)
	resp := httptest.NewRecorder()
	AdminListReviews(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.Code)
	}
	if got.Filters.Status == nil || *got.Filters.Status != enums.ReviewStatusPending {
		t.Fatalf("status filter not forwarded: %+v", got.Filters)
	}
	if got.Pagination.Limit != 50 {
		t.Fatalf("limit not forwarded: %d", got.Pagination.Limit)
	}
}

func TestAdminReviewModerationRequiresAdminContext(t *testing.T) {
	reviewID := uuid.NewString()
	req := httptest.NewRequest(http.MethodPost, "/api/admin/v1/reviews/"+reviewID+"/approve", nil)
	req = addRouteParam(req, "reviewId", reviewID)
	resp := httptest.NewRecorder()
	AdminApproveReview(&testReviewService{}, testLogger())(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}
