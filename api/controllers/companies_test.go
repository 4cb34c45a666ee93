package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	companysvc "github.com/kylethumm90/solar-review-hub-sub000/internal/companies"
	"github.com/kylethumm90/solar-review-hub-sub000/pkg/enums"
)

type testCompanyService struct {
	listFn    func(ctx context.Context, input companysvc.ListInput) (*companysvc.ListResult, error)
	getFn     func(ctx context.Context, id uuid.UUID) (*companysvc.CompanyDTO, error)
	updateFn  func(ctx context.Context, actorID, companyID uuid.UUID, input companysvc.UpdateProfileInput) (*companysvc.CompanyDTO, error)
	certifyFn func(ctx context.Context, actorID, companyID uuid.UUID) (*companysvc.CompanyDTO, error)
}

func (s *testCompanyService) List(ctx context.Context, input companysvc.ListInput) (*companysvc.ListResult, error) {
	if s.listFn != nil {
		return s.listFn(ctx, input)
	}
	return &companysvc.ListResult{}, nil
}

func (s *testCompanyService) Get(ctx context.Context, id uuid.UUID) (*companysvc.CompanyDTO, error) {
	if s.getFn != nil {
		return s.getFn(ctx, id)
	}
	return &companysvc.CompanyDTO{}, nil
}

func (s *testCompanyService) UpdateProfile(ctx context.Context, actorID, companyID uuid.UUID, input companysvc.UpdateProfileInput) (*companysvc.CompanyDTO, error) {
	if s.updateFn != nil {
		return s.updateFn(ctx, actorID, companyID, input)
	}
	return &companysvc.CompanyDTO{}, nil
}

func (s *testCompanyService) Certify(ctx context.Context, actorID, companyID uuid.UUID) (*companysvc.CompanyDTO, error) {
	if s.certifyFn != nil {
		return s.certifyFn(ctx, actorID, companyID)
	}
	return &companysvc.CompanyDTO{}, nil
}

func TestListCompaniesPassesFilters(t *testing.T) {
	var got companysvc.ListInput
	svc := &testCompanyService{
		listFn: func(ctx context.Context, input companysvc.ListInput) (*companysvc.ListResult, error) {
			got = input
			return &companysvc.ListResult{}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/companies?type=installer&grade=A-&state=AZ&q=sun&limit=10", nil)
	resp := httptest.NewRecorder()
	ListCompanies(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.Code)
	}
	if got.Filters.Type == nil || *got.Filters.Type != enums.CompanyTypeInstaller {
		t.Fatalf("type filter not forwarded: %+v", got.Filters)
	}
	if got.Filters.Grade == nil || *got.Filters.Grade != enums.GradeAMinus {
		t.Fatalf("grade filter not forwarded: %+v", got.Filters)
	}
	if got.Filters.State != "AZ" || got.Filters.Query != "sun" {
		t.Fatalf("state/query not forwarded: %+v", got.Filters)
	}
	if got.Pagination.Limit != 10 {
		t.Fatalf("unexpected limit %d", got.Pagination.Limit)
	}
}

func TestListCompaniesRejectsUnknownType(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/companies?type=plumber", nil)
	resp := httptest.NewRecorder()
	ListCompanies(&testCompanyService{}, testLogger())(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestGetCompanyRejectsBadID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/companies/not-a-uuid", nil)
	req = addRouteParam(req, "companyId", "not-a-uuid")
	resp := httptest.NewRecorder()
	GetCompany(&testCompanyService{}, testLogger())(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestUpdateCompanyRequiresUser(t *testing.T) {
	companyID := uuid.New()
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/companies/"+companyID.String(), strings.NewReader(`{}`))
	req = addRouteParam(req, "companyId", companyID.String())
	resp := httptest.NewRecorder()
	UpdateCompany(&testCompanyService{}, testLogger())(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestUpdateCompanyForwardsFields(t *testing.T) {
	userID := uuid.New()
	companyID := uuid.New()
	var got companysvc.UpdateProfileInput
	svc := &testCompanyService{
		updateFn: func(ctx context.Context, actorID, cid uuid.UUID, input companysvc.UpdateProfileInput) (*companysvc.CompanyDTO, error) {
			if actorID != userID || cid != companyID {
				t.Fatalf("unexpected ids %s %s", actorID, cid)
			}
			got = input
			return &companysvc.CompanyDTO{}, nil
		},
	}

	body := `{"description":"Residential installs","operating_states":["az","NV"]}`
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/companies/"+companyID.String(), strings.NewReader(body))
	req = asUser(req, userID.String())
	req = addRouteParam(req, "companyId", companyID.String())
	resp := httptest.NewRecorder()
	UpdateCompany(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.Code)
	}
	if got.Description == nil || *got.Description != "Residential installs" {
		t.Fatalf("description not forwarded: %+v", got)
	}
	if len(got.OperatingStates) != 2 {
		t.Fatalf("operating states not forwarded: %+v", got.OperatingStates)
	}
	if got.Website != nil {
		t.Fatal("expected untouched website to stay nil")
	}
}
