package controllers

import (
	"net/http"
	"strings"

	"github.com/kylethumm90/solar-review-hub-sub000/api/responses"
	"github.com/kylethumm90/solar-review-hub-sub000/api/validators"
	reviewsvc "github.com/kylethumm90/solar-review-hub-sub000/internal/reviews"
	"github.com/kylethumm90/solar-review-hub-sub000/pkg/enums"
	pkgerrors "github.com/kylethumm90/solar-review-hub-sub000/pkg/errors"
	"github.com/kylethumm90/solar-review-hub-sub000/pkg/logger"
)

// AdminListReviews pages the review moderation queue with optional filters.
func AdminListReviews(svc reviewsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "review service unavailable"))
			return
		}

		params, err := queryPagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var filters reviewsvc.AdminListFilters
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			parsed, err := enums.ParseReviewStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid review status"))
				return
			}
			filters.Status = &parsed
		}
		filters.Query = validators.SanitizeString(r.URL.Query().Get("q"), searchQueryMaxLen)

		result, err := svc.AdminList(r.Context(), reviewsvc.AdminListInput{Filters: filters, Pagination: params})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// AdminApproveReview publishes a review and refreshes the company grade.
func AdminApproveReview(svc reviewsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return adminReviewModeration(svc, logg, enums.ReviewStatusApproved)
}

// AdminRejectReview hides a review and refreshes the company grade.
func AdminRejectReview(svc reviewsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return adminReviewModeration(svc, logg, enums.ReviewStatusRejected)
}

func adminReviewModeration(svc reviewsvc.Service, logg *logger.Logger, target enums.ReviewStatus) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "review service unavailable"))
			return
		}

		adminID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		reviewID, err := pathUUID(r, "reviewId", "review id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Moderate(r.Context(), adminID, reviewID, target)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
