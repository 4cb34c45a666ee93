package controllers

import (
	"net/http"
	"strings"

	"github.com/kylethumm90/solar-review-hub-sub000/api/responses"
	"github.com/kylethumm90/solar-review-hub-sub000/api/validators"
	claimsvc "github.com/kylethumm90/solar-review-hub-sub000/internal/claims"
	"github.com/kylethumm90/solar-review-hub-sub000/pkg/enums"
	pkgerrors "github.com/kylethumm90/solar-review-hub-sub000/pkg/errors"
	"github.com/kylethumm90/solar-review-hub-sub000/pkg/logger"
)

// AdminListClaims pages the claim moderation queue with optional filters.
func AdminListClaims(svc claimsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "claim service unavailable"))
			return
		}

		params, err := queryPagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var filters claimsvc.AdminListFilters
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			parsed, err := enums.ParseClaimStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid claim status"))
				return
			}
			filters.Status = &parsed
		}
		filters.Query = validators.SanitizeString(r.URL.Query().Get("q"), searchQueryMaxLen)

		result, err := svc.AdminList(r.Context(), claimsvc.AdminListInput{Filters: filters, Pagination: params})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// AdminApproveClaim grants company ownership to the claimant.
func AdminApproveClaim(svc claimsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return adminClaimTransition(svc, logg, enums.ClaimStatusApproved)
}

// AdminRejectClaim declines a claim. Rejecting an approved claim also clears
// the company verification it granted.
func AdminRejectClaim(svc claimsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return adminClaimTransition(svc, logg, enums.ClaimStatusRejected)
}

// AdminRevokeClaim withdraws a previously approved claim.
func AdminRevokeClaim(svc claimsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return adminClaimTransition(svc, logg, enums.ClaimStatusRevoked)
}

func adminClaimTransition(svc claimsvc.Service, logg *logger.Logger, target enums.ClaimStatus) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "claim service unavailable"))
			return
		}

		adminID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		claimID, err := pathUUID(r, "claimId", "claim id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Transition(r.Context(), adminID, claimID, target)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
