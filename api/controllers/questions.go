package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/kylethumm90/solar-review-hub-sub000/api/responses"
	"github.com/kylethumm90/solar-review-hub-sub000/internal/questions"
	"github.com/kylethumm90/solar-review-hub-sub000/pkg/db/models"
	"github.com/kylethumm90/solar-review-hub-sub000/pkg/enums"
	pkgerrors "github.com/kylethumm90/solar-review-hub-sub000/pkg/errors"
	"github.com/kylethumm90/solar-review-hub-sub000/pkg/logger"
)

type questionLister interface {
	ListActiveForCompanyType(ctx context.Context, companyType enums.CompanyType) ([]models.ReviewQuestion, error)
}

// ListQuestions returns the active question set for one company type, ordered
// by category so clients can render the review form directly.
func ListQuestions(repo questionLister, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if repo == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "questions repository unavailable"))
			return
		}

		raw := strings.TrimSpace(r.URL.Query().Get("company_type"))
		if raw == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "company_type is required"))
			return
		}
		companyType, err := enums.ParseCompanyType(raw)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid company type"))
			return
		}

		rows, err := repo.ListActiveForCompanyType(r.Context(), companyType)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list questions"))
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"questions": questions.FromModels(rows),
		})
	}
}
