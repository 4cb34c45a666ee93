package controllers

import (
	"net/http"
	"strings"

	"github.com/kylethumm90/solar-review-hub-sub000/api/responses"
	"github.com/kylethumm90/solar-review-hub-sub000/api/validators"
	companysvc "github.com/kylethumm90/solar-review-hub-sub000/internal/companies"
	"github.com/kylethumm90/solar-review-hub-sub000/pkg/enums"
	pkgerrors "github.com/kylethumm90/solar-review-hub-sub000/pkg/errors"
	"github.com/kylethumm90/solar-review-hub-sub000/pkg/logger"
)

const searchQueryMaxLen = 120

// ListCompanies serves the public directory with filters and cursor pagination.
func ListCompanies(svc companysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "company service unavailable"))
			return
		}

		params, err := queryPagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filters, err := parseCompanyFilters(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.List(r.Context(), companysvc.ListInput{Filters: filters, Pagination: params})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func parseCompanyFilters(r *http.Request) (companysvc.ListFilters, error) {
	var filters companysvc.ListFilters
	query := r.URL.Query()

	if raw := strings.TrimSpace(query.Get("type")); raw != "" {
		parsed, err := enums.ParseCompanyType(raw)
		if err != nil {
			return filters, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid company type")
		}
		filters.Type = &parsed
	}
	if raw := strings.TrimSpace(query.Get("status")); raw != "" {
		parsed, err := enums.ParseCompanyStatus(raw)
		if err != nil {
			return filters, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid company status")
		}
		filters.Status = &parsed
	}
	if raw := strings.TrimSpace(query.Get("grade")); raw != "" {
		parsed, err := enums.ParseGrade(raw)
		if err != nil {
			return filters, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid grade")
		}
		filters.Grade = &parsed
	}
	filters.State = strings.TrimSpace(query.Get("state"))
	filters.Query = validators.SanitizeString(query.Get("q"), searchQueryMaxLen)

	return filters, nil
}

// GetCompany returns one company profile with its grade and category scores.
func GetCompany(svc companysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "company service unavailable"))
			return
		}

		companyID, err := pathUUID(r, "companyId", "company id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		company, err := svc.Get(r.Context(), companyID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, company)
	}
}

type companyUpdateRequest struct {
	Description     *string  `json:"description,omitempty"`
	Website         *string  `json:"website,omitempty"`
	LogoURL         *string  `json:"logo_url,omitempty"`
	OperatingStates []string `json:"operating_states,omitempty"`
}

// UpdateCompany lets the verified rep holding the approved claim edit the
// profile fields. Grade and verification fields are never client-writable.
func UpdateCompany(svc companysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "company service unavailable"))
			return
		}

		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		companyID, err := pathUUID(r, "companyId", "company id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload companyUpdateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		company, err := svc.UpdateProfile(r.Context(), userID, companyID, companysvc.UpdateProfileInput{
			Description:     payload.Description,
			Website:         payload.Website,
			LogoURL:         payload.LogoURL,
			OperatingStates: payload.OperatingStates,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, company)
	}
}
