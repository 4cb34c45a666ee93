package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/kylethumm90/solar-review-hub-sub000/api/responses"
	"github.com/kylethumm90/solar-review-hub-sub000/internal/auditlog"
	"github.com/kylethumm90/solar-review-hub-sub000/pkg/enums"
	pkgerrors "github.com/kylethumm90/solar-review-hub-sub000/pkg/errors"
	"github.com/kylethumm90/solar-review-hub-sub000/pkg/logger"
)

type auditLister interface {
	List(ctx context.Context, query auditlog.ListQuery) (*auditlog.ListResult, error)
}

// AdminAuditLog pages the moderation audit trail, newest first.
func AdminAuditLog(repo auditLister, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if repo == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "audit log unavailable"))
			return
		}

		params, err := queryPagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		query := auditlog.ListQuery{Pagination: params}
		values := r.URL.Query()

		if raw := strings.TrimSpace(values.Get("action")); raw != "" {
			parsed, err := enums.ParseAuditAction(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid audit action"))
				return
			}
			query.Action = &parsed
		}
		if raw := strings.TrimSpace(values.Get("actor_id")); raw != "" {
			actorID, err := uuid.Parse(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid actor id"))
				return
			}
			query.ActorID = &actorID
		}
		query.Entity = strings.TrimSpace(values.Get("entity"))

		result, err := repo.List(r.Context(), query)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list audit log"))
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"entries":     result.Entries,
			"next_cursor": result.NextCursor,
		})
	}
}
