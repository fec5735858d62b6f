package controllers

import (
	"net/http"

	"github.com/atelierliu/renoquote-backend/api/middleware"
	"github.com/atelierliu/renoquote-backend/api/responses"
	"github.com/atelierliu/renoquote-backend/api/validators"
	"github.com/atelierliu/renoquote-backend/internal/acceptance"
	"github.com/atelierliu/renoquote-backend/internal/access"
	"github.com/atelierliu/renoquote-backend/internal/quotes"
	"github.com/atelierliu/renoquote-backend/pkg/enums"
	pkgerrors "github.com/atelierliu/renoquote-backend/pkg/errors"
	"github.com/atelierliu/renoquote-backend/pkg/logger"
)

// AcceptancePresignBatch requests upload URLs for completion photos on a
// quote the caller can write to.
func AcceptancePresignBatch(svc acceptance.Service, quoteSvc quotes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "acceptance service unavailable"))
			return
		}

		userID, err := authenticatedUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		quote, err := loadGatedQuote(r, quoteSvc, access.ActionWrite)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body acceptance.PresignBatchInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		results, err := svc.PresignBatch(r.Context(), userID, quote.ID, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, results)
	}
}

// AcceptanceList returns the completion photo set for a readable quote.
func AcceptanceList(svc acceptance.Service, quoteSvc quotes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "acceptance service unavailable"))
			return
		}

		quote, err := loadGatedQuote(r, quoteSvc, access.ActionRead)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, err := svc.ListByQuote(r.Context(), quote.ID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, acceptance.ToResponses(rows))
	}
}

// AcceptanceDelete removes one completion photo and its blob.
func AcceptanceDelete(svc acceptance.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "acceptance service unavailable"))
			return
		}

		userID, err := authenticatedUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		id, err := uuidParam(r, "photoID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		role := enums.Role(middleware.RoleFromContext(r.Context()))
		if err := svc.Delete(r.Context(), userID, role, id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
