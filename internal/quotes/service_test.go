package quotes

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/atelierliu/renoquote-backend/pkg/db/models"
	pkgerrors "github.com/atelierliu/renoquote-backend/pkg/errors"
	"github.com/atelierliu/renoquote-backend/pkg/logger"
)

type stubRepository struct {
	quotes   map[uuid.UUID]*models.Quote
	versions map[uuid.UUID]*models.QuoteVersion
	deleted  []uuid.UUID
}

func newStubRepository() *stubRepository {
	return &stubRepository{
		quotes:   map[uuid.UUID]*models.Quote{},
		versions: map[uuid.UUID]*models.QuoteVersion{},
	}
}

func (r *stubRepository) WithTx(tx *gorm.DB) Repository { return r }

func (r *stubRepository) Create(ctx context.Context, quote *models.Quote) (*models.Quote, error) {
	copied := *quote
	copied.CreatedAt = time.Now()
	r.quotes[quote.ID] = &copied
	return &copied, nil
}

func (r *stubRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Quote, error) {
	quote, ok := r.quotes[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *quote
	return &copied, nil
}

func (r *stubRepository) ListAll(ctx context.Context) ([]models.Quote, error) {
	out := make([]models.Quote, 0, len(r.quotes))
	for _, q := range r.quotes {
		out = append(out, *q)
	}
	return out, nil
}

func (r *stubRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Quote, error) {
	var out []models.Quote
	for _, q := range r.quotes {
		if q.CreatedBy == ownerID {
			out = append(out, *q)
		}
	}
	return out, nil
}

func (r *stubRepository) ReplaceItems(ctx context.Context, quoteID uuid.UUID, items []models.LineItem, totalCents int64) error {
	quote, ok := r.quotes[quoteID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	quote.Items = items
	quote.TotalCents = totalCents
	return nil
}

func (r *stubRepository) UpdateDetails(ctx context.Context, quoteID uuid.UUID, title string, dueDate *time.Time) error {
	quote, ok := r.quotes[quoteID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	quote.Title = title
	quote.DueDate = dueDate
	return nil
}

func (r *stubRepository) UpdateStatus(ctx context.Context, quoteID uuid.UUID, updates map[string]any) error {
	quote, ok := r.quotes[quoteID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if v, ok := updates["viewed"]; ok {
		quote.Viewed = v.(bool)
	}
	if v, ok := updates["confirmed"]; ok {
		quote.Confirmed = v.(bool)
	}
	if v, ok := updates["signature_url"]; ok {
		url := v.(string)
		quote.SignatureURL = &url
	}
	return nil
}

func (r *stubRepository) Delete(ctx context.Context, quoteID uuid.UUID) error {
	if _, ok := r.quotes[quoteID]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.quotes, quoteID)
	for id, v := range r.versions {
		if v.QuoteID == quoteID {
			delete(r.versions, id)
		}
	}
	r.deleted = append(r.deleted, quoteID)
	return nil
}

func (r *stubRepository) CreateVersion(ctx context.Context, version *models.QuoteVersion) (*models.QuoteVersion, error) {
	copied := *version
	if copied.SavedAt.IsZero() {
		copied.SavedAt = time.Now()
	}
	r.versions[version.ID] = &copied
	return &copied, nil
}

func (r *stubRepository) ListVersions(ctx context.Context, quoteID uuid.UUID) ([]models.QuoteVersion, error) {
	var out []models.QuoteVersion
	for _, v := range r.versions {
		if v.QuoteID == quoteID {
			out = append(out, *v)
		}
	}
	return out, nil
}

func (r *stubRepository) FindVersion(ctx context.Context, quoteID, versionID uuid.UUID) (*models.QuoteVersion, error) {
	v, ok := r.versions[versionID]
	if !ok || v.QuoteID != quoteID {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *v
	return &copied, nil
}

type stubCleaner struct {
	removed []uuid.UUID
	err     error
}

func (c *stubCleaner) RemoveQuoteFiles(ctx context.Context, quoteID uuid.UUID) error {
	if c.err != nil {
		return c.err
	}
	c.removed = append(c.removed, quoteID)
	return nil
}

type stubShareStore struct {
	tokens map[string]string
}

func newStubShareStore() *stubShareStore {
	return &stubShareStore{tokens: map[string]string{}}
}

func (s *stubShareStore) StoreShareToken(ctx context.Context, token, quoteID string, ttl time.Duration) error {
	s.tokens[token] = quoteID
	return nil
}

func (s *stubShareStore) GetShareToken(ctx context.Context, token string) (string, error) {
	quoteID, ok := s.tokens[token]
	if !ok {
		return "", goredis.Nil
	}
	return quoteID, nil
}

func (s *stubShareStore) RevokeShareToken(ctx context.Context, token string) error {
	delete(s.tokens, token)
	return nil
}

type stubBlobStore struct {
	deleted []string
}

func (b *stubBlobStore) SignedURL(bucket, object, contentType string, expires time.Duration) (string, error) {
	return "https://storage.example/" + bucket + "/" + object + "?signed=1", nil
}

func (b *stubBlobStore) PublicURL(bucket, object string) string {
	return "https://storage.example/" + bucket + "/" + object
}

func (b *stubBlobStore) DeleteObject(ctx context.Context, bucket, object string) error {
	b.deleted = append(b.deleted, object)
	return nil
}

type serviceFixture struct {
	svc     Service
	repo    *stubRepository
	cleaner *stubCleaner
	shares  *stubShareStore
	blobs   *stubBlobStore
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()

	repo := newStubRepository()
	cleaner := &stubCleaner{}
	shares := newStubShareStore()
	blobs := &stubBlobStore{}
	svc, err := NewService(repo, cleaner, shares, blobs, "renoquote-test", 15*time.Minute, time.Hour, logger.New(logger.Options{ServiceName: "test"}))
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return &serviceFixture{svc: svc, repo: repo, cleaner: cleaner, shares: shares, blobs: blobs}
}

func mustCreate(t *testing.T, f *serviceFixture, title string) *models.Quote {
	t.Helper()

	quote, err := f.svc.Create(context.Background(), uuid.New(), CreateQuoteInput{Title: title})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	return quote
}

func assertCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()

	if err == nil {
		t.Fatalf("expected %s error, got nil", code)
	}
	typed := pkgerrors.As(err)
	if typed == nil {
		t.Fatalf("expected typed error, got %T: %v", err, err)
	}
	if typed.Code() != code {
		t.Fatalf("code = %s, want %s", typed.Code(), code)
	}
}

func TestCreateValidation(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, uuid.New(), CreateQuoteInput{Title: "   "})
	assertCode(t, err, pkgerrors.CodeValidation)

	_, err = f.svc.Create(ctx, uuid.Nil, CreateQuoteInput{Title: "Deck"})
	assertCode(t, err, pkgerrors.CodeValidation)

	quote := mustCreate(t, f, "Deck Build")
	if quote.Viewed || quote.Confirmed {
		t.Fatal("new quote must start with both flags false")
	}
	if quote.TotalCents != 0 {
		t.Fatalf("new quote total = %d, want 0", quote.TotalCents)
	}
}

func TestGetNotFound(t *testing.T) {
	f := newServiceFixture(t)

	_, err := f.svc.Get(context.Background(), uuid.New())
	assertCode(t, err, pkgerrors.CodeNotFound)
}

func TestUpdateItemsRecomputesTotal(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	quote := mustCreate(t, f, "Kitchen Remodel")

	input := UpdateItemsInput{Items: []LineItemInput{
		{Name: "Demolition", Quantity: decimal.NewFromInt(1), PriceCents: 5000},
		{Name: "Tiling", Unit: "sqm", Category: "masonry", Quantity: decimal.RequireFromString("3.1"), PriceCents: 2000},
	}}

	updated, err := f.svc.UpdateItems(ctx, quote.ID, input)
	if err != nil {
		t.Fatalf("UpdateItems: %v", err)
	}
	if updated.TotalCents != 11200 {
		t.Fatalf("total = %d, want 11200", updated.TotalCents)
	}
	if len(updated.Items) != 2 {
		t.Fatalf("items = %d, want 2", len(updated.Items))
	}
	if updated.Items[1].SubtotalCents != 6200 {
		t.Fatalf("tiling subtotal = %d, want 6200", updated.Items[1].SubtotalCents)
	}
	if updated.Items[0].Position != 0 || updated.Items[1].Position != 1 {
		t.Fatal("positions must follow submission order")
	}

	// emptying the item set zeroes the total
	cleared, err := f.svc.UpdateItems(ctx, quote.ID, UpdateItemsInput{})
	if err != nil {
		t.Fatalf("UpdateItems empty: %v", err)
	}
	if cleared.TotalCents != 0 || len(cleared.Items) != 0 {
		t.Fatalf("cleared quote total = %d items = %d", cleared.TotalCents, len(cleared.Items))
	}
}

func TestUpdateItemsValidation(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	quote := mustCreate(t, f, "Validation")

	cases := []struct {
		name  string
		items []LineItemInput
	}{
		{name: "blank name", items: []LineItemInput{{Name: " ", Quantity: decimal.NewFromInt(1), PriceCents: 100}}},
		{name: "negative quantity", items: []LineItemInput{{Name: "Row", Quantity: decimal.NewFromInt(-1), PriceCents: 100}}},
		{name: "negative price", items: []LineItemInput{{Name: "Row", Quantity: decimal.NewFromInt(1), PriceCents: -100}}},
		{name: "unknown category", items: []LineItemInput{{Name: "Row", Category: "landscaping", Quantity: decimal.NewFromInt(1), PriceCents: 100}}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.UpdateItems(ctx, quote.ID, UpdateItemsInput{Items: tc.items})
			assertCode(t, err, pkgerrors.CodeValidation)
		})
	}

	_, err := f.svc.UpdateItems(ctx, uuid.New(), UpdateItemsInput{})
	assertCode(t, err, pkgerrors.CodeNotFound)
}

func TestSaveAndRestoreVersion(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	quote := mustCreate(t, f, "Original Title")

	due := time.Now().Add(72 * time.Hour)
	versionID, err := f.svc.SaveVersion(ctx, quote.ID, SaveVersionInput{Title: "Checkpoint", DueDate: &due})
	if err != nil {
		t.Fatalf("SaveVersion: %v", err)
	}

	// live quote untouched by the snapshot
	live, err := f.svc.Get(ctx, quote.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if live.Title != "Original Title" {
		t.Fatalf("live title = %q, want unchanged", live.Title)
	}

	if err := f.svc.RestoreVersion(ctx, quote.ID, versionID); err != nil {
		t.Fatalf("RestoreVersion: %v", err)
	}

	restored, err := f.svc.Get(ctx, quote.ID)
	if err != nil {
		t.Fatalf("Get after restore: %v", err)
	}
	if restored.Title != "Checkpoint" {
		t.Fatalf("restored title = %q, want Checkpoint", restored.Title)
	}
	if restored.DueDate == nil || !restored.DueDate.Equal(due) {
		t.Fatal("restored due date must match the snapshot")
	}

	// history preserved after restore
	versions, err := f.svc.ListVersions(ctx, quote.ID)
	if err != nil {
		t.Fatalf("ListVersions: %v", err)
	}
	if len(versions) != 1 {
		t.Fatalf("versions = %d, want 1", len(versions))
	}

	err = f.svc.RestoreVersion(ctx, quote.ID, uuid.New())
	assertCode(t, err, pkgerrors.CodeNotFound)

	err = f.svc.RestoreVersion(ctx, uuid.New(), versionID)
	assertCode(t, err, pkgerrors.CodeNotFound)
}

func TestDeleteRemovesFilesBeforeRows(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	quote := mustCreate(t, f, "Doomed")

	if err := f.svc.Delete(ctx, quote.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(f.cleaner.removed) != 1 || f.cleaner.removed[0] != quote.ID {
		t.Fatal("blob cleanup must run for the deleted quote")
	}
	if len(f.repo.deleted) != 1 {
		t.Fatal("quote row must be deleted")
	}
	if len(f.blobs.deleted) != 1 || f.blobs.deleted[0] != "signatures/"+quote.ID.String() {
		t.Fatal("signature blob must be removed")
	}

	_, err := f.svc.Get(ctx, quote.ID)
	assertCode(t, err, pkgerrors.CodeNotFound)

	err = f.svc.Delete(ctx, uuid.New())
	assertCode(t, err, pkgerrors.CodeNotFound)
}

func TestDeleteAbortsWhenCleanupFails(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	quote := mustCreate(t, f, "Sticky")
	f.cleaner.err = context.DeadlineExceeded

	err := f.svc.Delete(ctx, quote.ID)
	assertCode(t, err, pkgerrors.CodeDependency)

	// rows stay when blob cleanup failed
	if _, getErr := f.svc.Get(ctx, quote.ID); getErr != nil {
		t.Fatalf("quote must survive failed cleanup: %v", getErr)
	}
}
