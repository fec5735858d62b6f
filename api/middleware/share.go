package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/atelierliu/renoquote-backend/api/responses"
	"github.com/atelierliu/renoquote-backend/pkg/enums"
	pkgerrors "github.com/atelierliu/renoquote-backend/pkg/errors"
	"github.com/atelierliu/renoquote-backend/pkg/logger"
)

type shareTokenResolver interface {
	ResolveShareToken(ctx context.Context, token string) (uuid.UUID, error)
}

const shareTokenHeader = "X-Share-Token"

// ShareAccess authenticates guest requests carrying a share token. The token
// resolves to exactly one quote id, which becomes the guest's whole world.
func ShareAccess(resolver shareTokenResolver, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := strings.TrimSpace(r.Header.Get(shareTokenHeader))
			if token == "" {
				token = strings.TrimSpace(r.URL.Query().Get("share_token"))
			}
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "share token required"))
				return
			}

			quoteID, err := resolver.ResolveShareToken(r.Context(), token)
			if err != nil {
				typed := pkgerrors.As(err)
				if typed != nil && typed.Code() == pkgerrors.CodeNotFound {
					responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid share token"))
					return
				}
				responses.WriteError(r.Context(), logg, w, err)
				return
			}

			ctx := context.WithValue(r.Context(), ctxRole, string(enums.RoleGuest))
			ctx = context.WithValue(ctx, ctxShareQuoteID, quoteID.String())

			if logg != nil {
				ctx = logg.WithFields(ctx, map[string]any{
					"actor_role":     string(enums.RoleGuest),
					"share_quote_id": quoteID.String(),
				})
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
