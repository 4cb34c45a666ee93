package controllers

import (
	"net/http"

	"github.com/kylethumm90/solar-review-hub-sub000/api/responses"
	companysvc "github.com/kylethumm90/solar-review-hub-sub000/internal/companies"
	pkgerrors "github.com/kylethumm90/solar-review-hub-sub000/pkg/errors"
	"github.com/kylethumm90/solar-review-hub-sub000/pkg/logger"
)

// AdminCertifyCompany grants the certified badge. Certification survives later
// claim reversals, so only admins can set or clear it.
func AdminCertifyCompany(svc companysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "company service unavailable"))
			return
		}

		adminID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		companyID, err := pathUUID(r, "companyId", "company id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		company, err := svc.Certify(r.Context(), adminID, companyID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, company)
	}
}
