package quotes

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	pkgerrors "github.com/atelierliu/renoquote-backend/pkg/errors"
)

const shareTokenBytes = 32

// MintShareLink creates a random guest capability for a quote. The token is
// opaque; possession of it grants read access until the TTL lapses or the
// link is revoked.
func (s *service) MintShareLink(ctx context.Context, id uuid.UUID) (*ShareLink, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}

	token, err := newShareToken()
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generating share token")
	}

	if err := s.shares.StoreShareToken(ctx, token, id.String(), s.shareTTL); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "storing share token")
	}

	s.logg.Info(s.logg.WithQuoteID(ctx, id.String()), "share link minted")
	return &ShareLink{Token: token, ExpiresAt: time.Now().Add(s.shareTTL)}, nil
}

// ResolveShareToken maps a presented token back to its quote id. Unknown and
// expired tokens are indistinguishable from never-issued ones.
func (s *service) ResolveShareToken(ctx context.Context, token string) (uuid.UUID, error) {
	if token == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeNotFound, "share link not found")
	}
	raw, err := s.shares.GetShareToken(ctx, token)
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return uuid.Nil, pkgerrors.New(pkgerrors.CodeNotFound, "share link not found")
		}
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolving share token")
	}
	quoteID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "corrupt share token mapping")
	}
	return quoteID, nil
}

// RevokeShareLink drops a capability ahead of its TTL.
func (s *service) RevokeShareLink(ctx context.Context, token string) error {
	if token == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "share token is required")
	}
	if err := s.shares.RevokeShareToken(ctx, token); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revoking share token")
	}
	return nil
}

func newShareToken() (string, error) {
	buf := make([]byte, shareTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("reading random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
