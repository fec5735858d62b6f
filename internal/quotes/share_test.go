package quotes

import (
	"context"
	"testing"

	"github.com/google/uuid"

	pkgerrors "github.com/atelierliu/renoquote-backend/pkg/errors"
)

func TestShareLinkLifecycle(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	quote := mustCreate(t, f, "Shared")

	link, err := f.svc.MintShareLink(ctx, quote.ID)
	if err != nil {
		t.Fatalf("MintShareLink: %v", err)
	}
	if link.Token == "" {
		t.Fatal("token must not be empty")
	}

	resolved, err := f.svc.ResolveShareToken(ctx, link.Token)
	if err != nil {
		t.Fatalf("ResolveShareToken: %v", err)
	}
	if resolved != quote.ID {
		t.Fatalf("resolved = %s, want %s", resolved, quote.ID)
	}

	if err := f.svc.RevokeShareLink(ctx, link.Token); err != nil {
		t.Fatalf("RevokeShareLink: %v", err)
	}

	_, err = f.svc.ResolveShareToken(ctx, link.Token)
	assertCode(t, err, pkgerrors.CodeNotFound)
}

func TestShareLinkUnknownInputs(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	_, err := f.svc.MintShareLink(ctx, uuid.New())
	assertCode(t, err, pkgerrors.CodeNotFound)

	_, err = f.svc.ResolveShareToken(ctx, "never-issued")
	assertCode(t, err, pkgerrors.CodeNotFound)

	_, err = f.svc.ResolveShareToken(ctx, "")
	assertCode(t, err, pkgerrors.CodeNotFound)

	err = f.svc.RevokeShareLink(ctx, "")
	assertCode(t, err, pkgerrors.CodeValidation)
}

func TestMintedTokensAreUnique(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	quote := mustCreate(t, f, "Shared twice")

	a, err := f.svc.MintShareLink(ctx, quote.ID)
	if err != nil {
		t.Fatalf("MintShareLink: %v", err)
	}
	b, err := f.svc.MintShareLink(ctx, quote.ID)
	if err != nil {
		t.Fatalf("MintShareLink: %v", err)
	}
	if a.Token == b.Token {
		t.Fatal("tokens must be unique per mint")
	}
}
