package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/atelierliu/renoquote-backend/api/middleware"
	"github.com/atelierliu/renoquote-backend/api/responses"
	"github.com/atelierliu/renoquote-backend/api/validators"
	"github.com/atelierliu/renoquote-backend/internal/attachments"
	"github.com/atelierliu/renoquote-backend/pkg/db/models"
	"github.com/atelierliu/renoquote-backend/pkg/enums"
	pkgerrors "github.com/atelierliu/renoquote-backend/pkg/errors"
	"github.com/atelierliu/renoquote-backend/pkg/logger"
)

// AttachmentPresignBatch requests signed upload URLs for a batch of files.
// Each entry succeeds or fails on its own; the response mirrors the batch
// order with per-item results.
func AttachmentPresignBatch(svc attachments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "attachments service unavailable"))
			return
		}

		userID, err := authenticatedUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body attachments.PresignBatchInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		results, err := svc.PresignBatch(r.Context(), userID, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, results)
	}
}

// AttachmentList returns the caller's attachments, optionally filtered to a
// single quote via ?quote_id=. ?limit= caps the page size.
func AttachmentList(svc attachments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "attachments service unavailable"))
			return
		}

		userID, err := authenticatedUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", 100, 1, 500)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var rows []models.Attachment
		if raw := strings.TrimSpace(r.URL.Query().Get("quote_id")); raw != "" {
			quoteID, err := uuid.Parse(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid quote_id"))
				return
			}
			rows, err = svc.ListByQuote(r.Context(), quoteID)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		} else {
			rows, err = svc.ListByUser(r.Context(), userID)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}
		if len(rows) > limit {
			rows = rows[:limit]
		}

		responses.WriteSuccess(w, attachments.ToResponses(rows))
	}
}

// AttachmentUpdate patches note, category, or sort position.
func AttachmentUpdate(svc attachments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "attachments service unavailable"))
			return
		}

		userID, err := authenticatedUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		id, err := uuidParam(r, "attachmentID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body attachments.UpdateInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		role := enums.Role(middleware.RoleFromContext(r.Context()))
		if err := svc.Update(r.Context(), userID, role, id, body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "updated"})
	}
}

// AttachmentDelete removes the stored blob and the metadata row.
func AttachmentDelete(svc attachments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "attachments service unavailable"))
			return
		}

		userID, err := authenticatedUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		id, err := uuidParam(r, "attachmentID")
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
