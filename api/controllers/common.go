package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/atelierliu/renoquote-backend/api/middleware"
	"github.com/atelierliu/renoquote-backend/internal/access"
	"github.com/atelierliu/renoquote-backend/pkg/enums"
	pkgerrors "github.com/atelierliu/renoquote-backend/pkg/errors"
)

func uuidParam(r *http.Request, name string) (uuid.UUID, error) {
	raw := chi.URLParam(r, name)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid id").
			WithDetails(map[string]any{"param": name})
	}
	return id, nil
}

// actorFromContext rebuilds the access-gate actor from whatever the auth or
// share middleware seeded.
func actorFromContext(r *http.Request) (access.Actor, error) {
	ctx := r.Context()
	actor := access.Actor{Role: enums.Role(middleware.RoleFromContext(ctx))}

	if raw := middleware.UserIDFromContext(ctx); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return access.Actor{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid user context")
		}
		actor.UserID = id
	}
	if raw := middleware.ShareQuoteIDFromContext(ctx); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return access.Actor{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid share context")
		}
		actor.SharedQuoteID = id
	}
	return actor, nil
}

func authenticatedUserID(r *http.Request) (uuid.UUID, error) {
	raw := middleware.UserIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid user context")
	}
	return id, nil
}
