package controllers

import (
	"net/http"
	"time"

	"github.com/atelierliu/renoquote-backend/api/responses"
	"github.com/atelierliu/renoquote-backend/api/validators"
	"github.com/atelierliu/renoquote-backend/internal/quotes"
	"github.com/atelierliu/renoquote-backend/pkg/db/models"
	pkgerrors "github.com/atelierliu/renoquote-backend/pkg/errors"
	"github.com/atelierliu/renoquote-backend/pkg/logger"
)

// PublicQuoteDetail serves the guest preview. Opening it flips the quote to
// viewed, which is what arms the confirm step.
func PublicQuoteDetail(svc quotes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		quote, err := loadSharedQuote(r, svc)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.MarkViewed(r.Context(), quote.ID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		quote.Viewed = true

		responses.WriteSuccess(w, quotes.ToResponse(quote, time.Now().UTC()))
	}
}

// PublicQuoteConfirm lets the guest accept the quote. The share capability
// itself authorizes the write; the access gate keeps guests read-only
// everywhere else.
func PublicQuoteConfirm(svc quotes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		quote, err := loadSharedQuote(r, svc)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Confirm(r.Context(), quote.ID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		updated, err := svc.Get(r.Context(), quote.ID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, quotes.ToResponse(updated, time.Now().UTC()))
	}
}

// PublicQuoteSignaturePresign hands the guest a signed PUT URL for their
// signature image.
func PublicQuoteSignaturePresign(svc quotes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		quote, err := loadSharedQuote(r, svc)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body signaturePresignRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		presign, err := svc.PresignSignature(r.Context(), quote.ID, body.MimeType)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, presign)
	}
}

// PublicQuoteSignatureAttach records the uploaded signature URL for the guest.
func PublicQuoteSignatureAttach(svc quotes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		quote, err := loadSharedQuote(r, svc)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body signatureAttachRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.AttachSignature(r.Context(), quote.ID, body.SignatureURL); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		updated, err := svc.Get(r.Context(), quote.ID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, quotes.ToResponse(updated, time.Now().UTC()))
	}
}

// loadSharedQuote resolves the path quote and checks it is exactly the one
// the share token grants.
func loadSharedQuote(r *http.Request, svc quotes.Service) (*models.Quote, error) {
	if svc == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "quotes service unavailable")
	}

	actor, err := actorFromContext(r)
	if err != nil {
		return nil, err
	}

	id, err := uuidParam(r, "quoteID")
	if err != nil {
		return nil, err
	}
	if actor.SharedQuoteID != id {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "access denied")
	}

	return svc.Get(r.Context(), id)
}
