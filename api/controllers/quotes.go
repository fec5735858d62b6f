package controllers

import (
	"net/http"
	"time"

	"github.com/atelierliu/renoquote-backend/api/responses"
	"github.com/atelierliu/renoquote-backend/api/validators"
	"github.com/atelierliu/renoquote-backend/internal/access"
	"github.com/atelierliu/renoquote-backend/internal/quotes"
	"github.com/atelierliu/renoquote-backend/pkg/db/models"
	"github.com/atelierliu/renoquote-backend/pkg/enums"
	pkgerrors "github.com/atelierliu/renoquote-backend/pkg/errors"
	"github.com/atelierliu/renoquote-backend/pkg/logger"
)

// QuoteCreate creates an empty quote owned by the caller.
func QuoteCreate(svc quotes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID, err := authenticatedUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body quotes.CreateQuoteInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		quote, err := svc.Create(r.Context(), ownerID, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, quotes.ToResponse(quote, time.Now().UTC()))
	}
}

// QuoteList returns the caller's quotes; admins see everything.
func QuoteList(svc quotes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var list []quotes.QuoteSummary
		if actor.Role == enums.RoleAdmin {
			rows, err := svc.List(r.Context())
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			list = quotes.ToSummaries(rows, time.Now().UTC())
		} else {
			rows, err := svc.ListByOwner(r.Context(), actor.UserID)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			list = quotes.ToSummaries(rows, time.Now().UTC())
		}

		responses.WriteSuccess(w, list)
	}
}

// QuoteDetail loads one quote after the access gate clears the actor.
func QuoteDetail(svc quotes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		quote, err := loadGatedQuote(r, svc, access.ActionRead)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, quotes.ToResponse(quote, time.Now().UTC()))
	}
}

// QuoteUpdateItems replaces the line item set and recomputes the total.
func QuoteUpdateItems(svc quotes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		quote, err := loadGatedQuote(r, svc, access.ActionWrite)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body quotes.UpdateItemsInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		updated, err := svc.UpdateItems(r.Context(), quote.ID, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, quotes.ToResponse(updated, time.Now().UTC()))
	}
}

// QuoteUpdateDetails mutates the live title and due date.
func QuoteUpdateDetails(svc quotes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		quote, err := loadGatedQuote(r, svc, access.ActionWrite)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body quotes.UpdateDetailsInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.UpdateDetails(r.Context(), quote.ID, body); err != nil {
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

// QuoteDelete removes the quote, its stored files, and its history.
// Guests and plain users never pass the gate here; deletion is admin-only.
func QuoteDelete(svc quotes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		quote, err := loadGatedQuote(r, svc, access.ActionDelete)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), quote.ID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// QuoteSaveVersion snapshots the current title and due date into history.
func QuoteSaveVersion(svc quotes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		quote, err := loadGatedQuote(r, svc, access.ActionWrite)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body quotes.SaveVersionInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		versionID, err := svc.SaveVersion(r.Context(), quote.ID, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]string{"version_id": versionID.String()})
	}
}

// QuoteVersions lists the snapshot history oldest first.
func QuoteVersions(svc quotes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		quote, err := loadGatedQuote(r, svc, access.ActionRead)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		versions, err := svc.ListVersions(r.Context(), quote.ID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, quotes.ToVersionResponses(versions))
	}
}

// QuoteRestoreVersion copies a snapshot's fields back onto the live quote.
func QuoteRestoreVersion(svc quotes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		quote, err := loadGatedQuote(r, svc, access.ActionWrite)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		versionID, err := uuidParam(r, "versionID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.RestoreVersion(r.Context(), quote.ID, versionID); err != nil {
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

// QuoteConfirm flips the quote to confirmed on behalf of the owner.
func QuoteConfirm(svc quotes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		quote, err := loadGatedQuote(r, svc, access.ActionWrite)
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

type signaturePresignRequest struct {
	MimeType string `json:"mime_type" validate:"required"`
}

type signatureAttachRequest struct {
	SignatureURL string `json:"signature_url" validate:"required,url"`
}

// QuoteSignaturePresign returns a signed PUT URL for the signature image.
func QuoteSignaturePresign(svc quotes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		quote, err := loadGatedQuote(r, svc, access.ActionWrite)
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

// QuoteSignatureAttach stores the uploaded signature's public URL.
func QuoteSignatureAttach(svc quotes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		quote, err := loadGatedQuote(r, svc, access.ActionWrite)
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

// QuoteShareCreate mints a guest share link for the quote.
func QuoteShareCreate(svc quotes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		quote, err := loadGatedQuote(r, svc, access.ActionWrite)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		link, err := svc.MintShareLink(r.Context(), quote.ID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, link)
	}
}

type shareRevokeRequest struct {
	Token string `json:"token" validate:"required"`
}

// QuoteShareRevoke kills a previously minted share link. The token must
// belong to the quote in the path, so one owner cannot revoke another's link.
func QuoteShareRevoke(svc quotes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		quote, err := loadGatedQuote(r, svc, access.ActionWrite)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body shareRevokeRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		resolved, err := svc.ResolveShareToken(r.Context(), body.Token)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if resolved != quote.ID {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "token does not belong to this quote"))
			return
		}

		if err := svc.RevokeShareLink(r.Context(), body.Token); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "revoked"})
	}
}

func loadGatedQuote(r *http.Request, svc quotes.Service, action access.Action) (*models.Quote, error) {
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

	quote, err := svc.Get(r.Context(), id)
	if err != nil {
		return nil, err
	}

	if err := access.Require(actor, quote, action); err != nil {
		return nil, err
	}
	return quote, nil
}
