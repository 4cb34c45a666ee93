package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	reviewsvc "github.com/kylethumm90/solar-review-hub-sub000/internal/reviews"
	"github.com/kylethumm90/solar-review-hub-sub000/pkg/enums"
	"github.com/kylethumm90/solar-review-hub-sub000/pkg/pagination"
)

type testReviewService struct {
	submitFn    func(ctx context.Context, userID uuid.UUID, input reviewsvc.SubmitInput) (*reviewsvc.ReviewDTO, error)
	companyFn   func(ctx context.Context, companyID uuid.UUID, params pagination.Params) (*reviewsvc.ListResult, error)
	mineFn      func(ctx context.Context, userID uuid.UUID, params pagination.Params) (*reviewsvc.ListResult, error)
	adminListFn func(ctx context.Context, input reviewsvc.AdminListInput) (*reviewsvc.ListResult, error)
	moderateFn  func(ctx context.Context, adminID, reviewID uuid.UUID, target enums.ReviewStatus) (*reviewsvc.ModerationResult, error)
}

func (s *testReviewService) Submit(ctx context.Context, userID uuid.UUID, input reviewsvc.SubmitInput) (*reviewsvc.ReviewDTO, error) {
	if s.submitFn != nil {
		return s.submitFn(ctx, userID, input)
	}
	return &reviewsvc.ReviewDTO{}, nil
}

func (s *testReviewService) ListApprovedForCompany(ctx context.Context, companyID uuid.UUID, params pagination.Params) (*reviewsvc.ListResult, error) {
	if s.companyFn != nil {
		return s.companyFn(ctx, companyID, params)
	}
	return &reviewsvc.ListResult{}, nil
}

func (s *testReviewService) ListMine(ctx context.Context, userID uuid.UUID, params pagination.Params) (*reviewsvc.ListResult, error) {
	if s.mineFn != nil {
		return s.mineFn(ctx, userID, params)
	}
	return &reviewsvc.ListResult{}, nil
}

func (s *testReviewService) AdminList(ctx context.Context, input reviewsvc.AdminListInput) (*reviewsvc.ListResult, error) {
	if s.adminListFn != nil {
		return s.adminListFn(ctx, input)
	}
	return &reviewsvc.ListResult{}, nil
}

func (s *testReviewService) Moderate(ctx context.Context, adminID, reviewID uuid.UUID, target enums.ReviewStatus) (*reviewsvc.ModerationResult, error) {
	if s.moderateFn != nil {
		return s.moderateFn(ctx, adminID, reviewID, target)
	}
	return &reviewsvc.ModerationResult{}, nil
}

func TestSubmitReviewForwardsUserAndBody(t *testing.T) {
	userID := uuid.New()
	companyID := uuid.New()
	questionID := uuid.New()
	var got reviewsvc.SubmitInput
	svc := &testReviewService{
		submitFn: func(ctx context.Context, uid uuid.UUID, input reviewsvc.SubmitInput) (*reviewsvc.ReviewDTO, error) {
			if uid != userID {
				t.Fatalf("unexpected user %s", uid)
			}
			got = input
			return &reviewsvc.ReviewDTO{}, nil
		},
	}

	body := `{"company_id":"` + companyID.String() + `","title":"Great crew","answers":[{"question_id":"` + questionID.String() + `","rating":5}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/reviews", strings.NewReader(body))
	req = asUser(req, userID.String())
	resp := httptest.NewRecorder()
	SubmitReview(svc, testLogger())(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", resp.Code)
	}
	if got.CompanyID != companyID || len(got.Answers) != 1 || got.Answers[0].Rating != 5 {
		t.Fatalf("body not forwarded: %+v", got)
	}
}

func TestSubmitReviewRequiresUser(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/reviews", strings.NewReader(`{}`))
	resp := httptest.NewRecorder()
	SubmitReview(&testReviewService{}, testLogger())(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestCompanyReviewsForwardsPagination(t *testing.T) {
	companyID := uuid.New()
	svc := &testReviewService{
		companyFn: func(ctx context.Context, cid uuid.UUID, params pagination.Params) (*reviewsvc.ListResult, error) {
			if cid != companyID {
				t.Fatalf("unexpected company %s", cid)
			}
			if params.Limit != 5 || params.Cursor != "abc" {
				t.Fatalf("pagination not forwarded: %+v", params)
			}
			return &reviewsvc.ListResult{}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/companies/"+companyID.String()+"/reviews?limit=5&cursor=abc", nil)
	req = addRouteParam(req, "companyId", companyID.String())
	resp := httptest.NewRecorder()
	CompanyReviews(svc, testLogger())(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.Code)
	}
}

func TestMyReviewsUsesCaller(t *testing.T) {
	userID := uuid.New()
	called := false
	svc := &testReviewService{
		mineFn: func(ctx context.Context, uid uuid.UUID, params pagination.Params) (*reviewsvc.ListResult, error) {
			called = true
			if uid != userID {
				t.Fatalf("unexpected user %s", uid)
			}
			return &reviewsvc.ListResult{}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/reviews/mine", nil)
	req = asUser(req, userID.String())
	resp := httptest.NewRecorder()
	MyReviews(svc, testLogger())(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.Code)
	}
	if !called {
		t.Fatal("expected service called")
	}
}
