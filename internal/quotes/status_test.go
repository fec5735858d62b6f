package quotes

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	pkgerrors "github.com/atelierliu/renoquote-backend/pkg/errors"
)

func TestDueLabelFor(t *testing.T) {
	now := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

	overdue := now.Add(-time.Hour)
	laterToday := now.Add(6 * time.Hour)
	fiveDays := now.Add(5*24*time.Hour + 2*time.Hour)
	exactlyNow := now

	cases := []struct {
		name string
		due  *time.Time
		want DueLabel
	}{
		{name: "no due date", due: nil, want: DueLabel{Status: DueStatusNone}},
		{name: "overdue", due: &overdue, want: DueLabel{Status: DueStatusOverdue}},
		{name: "later today is zero days", due: &laterToday, want: DueLabel{Status: DueStatusRemaining, DaysRemaining: 0}},
		{name: "five days out truncates", due: &fiveDays, want: DueLabel{Status: DueStatusRemaining, DaysRemaining: 5}},
		{name: "due this instant", due: &exactlyNow, want: DueLabel{Status: DueStatusRemaining, DaysRemaining: 0}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := DueLabelFor(tc.due, now); got != tc.want {
				t.Fatalf("DueLabelFor = %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestMarkViewedIdempotent(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	quote := mustCreate(t, f, "Viewing")

	if err := f.svc.MarkViewed(ctx, quote.ID); err != nil {
		t.Fatalf("MarkViewed: %v", err)
	}
	if err := f.svc.MarkViewed(ctx, quote.ID); err != nil {
		t.Fatalf("second MarkViewed: %v", err)
	}

	got, err := f.svc.Get(ctx, quote.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !got.Viewed {
		t.Fatal("viewed must be true")
	}

	err = f.svc.MarkViewed(ctx, uuid.New())
	assertCode(t, err, pkgerrors.CodeNotFound)
}

func TestConfirmRequiresViewed(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	quote := mustCreate(t, f, "Confirming")

	err := f.svc.Confirm(ctx, quote.ID)
	assertCode(t, err, pkgerrors.CodeStateConflict)

	if err := f.svc.MarkViewed(ctx, quote.ID); err != nil {
		t.Fatalf("MarkViewed: %v", err)
	}
	if err := f.svc.Confirm(ctx, quote.ID); err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	// repeat confirm is a no-op
	if err := f.svc.Confirm(ctx, quote.ID); err != nil {
		t.Fatalf("second Confirm: %v", err)
	}

	got, err := f.svc.Get(ctx, quote.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !got.Confirmed {
		t.Fatal("confirmed must be true")
	}
}

func TestAttachSignatureLifecycle(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	quote := mustCreate(t, f, "Signing")

	err := f.svc.AttachSignature(ctx, quote.ID, "  ")
	assertCode(t, err, pkgerrors.CodeValidation)

	if err := f.svc.AttachSignature(ctx, quote.ID, "https://storage.example/sig-1.png"); err != nil {
		t.Fatalf("AttachSignature: %v", err)
	}
	// re-signing overwrites while the quote is open
	if err := f.svc.AttachSignature(ctx, quote.ID, "https://storage.example/sig-2.png"); err != nil {
		t.Fatalf("second AttachSignature: %v", err)
	}

	got, err := f.svc.Get(ctx, quote.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.SignatureURL == nil || *got.SignatureURL != "https://storage.example/sig-2.png" {
		t.Fatal("latest signature must win before confirmation")
	}

	if err := f.svc.MarkViewed(ctx, quote.ID); err != nil {
		t.Fatalf("MarkViewed: %v", err)
	}
	if err := f.svc.Confirm(ctx, quote.ID); err != nil {
		t.Fatalf("Confirm: %v", err)
	}

	err = f.svc.AttachSignature(ctx, quote.ID, "https://storage.example/sig-3.png")
	assertCode(t, err, pkgerrors.CodeStateConflict)

	got, err = f.svc.Get(ctx, quote.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if *got.SignatureURL != "https://storage.example/sig-2.png" {
		t.Fatal("confirmed signature must stay frozen")
	}
}

func TestPresignSignature(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	quote := mustCreate(t, f, "Presigning")

	_, err := f.svc.PresignSignature(ctx, quote.ID, "application/zip")
	assertCode(t, err, pkgerrors.CodeValidation)

	grant, err := f.svc.PresignSignature(ctx, quote.ID, "image/png")
	if err != nil {
		t.Fatalf("PresignSignature: %v", err)
	}
	if grant.SignedPUTURL == "" || grant.PublicURL == "" {
		t.Fatal("presign must return both urls")
	}
	if grant.ContentType != "image/png" {
		t.Fatalf("content type = %q", grant.ContentType)
	}

	if err := f.svc.MarkViewed(ctx, quote.ID); err != nil {
		t.Fatalf("MarkViewed: %v", err)
	}
	if err := f.svc.Confirm(ctx, quote.ID); err != nil {
		t.Fatalf("Confirm: %v", err)
	}

	_, err = f.svc.PresignSignature(ctx, quote.ID, "image/png")
	assertCode(t, err, pkgerrors.CodeStateConflict)
}
