package acceptance

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/atelierliu/renoquote-backend/pkg/db/models"
	"github.com/atelierliu/renoquote-backend/pkg/enums"
	pkgerrors "github.com/atelierliu/renoquote-backend/pkg/errors"
	"github.com/atelierliu/renoquote-backend/pkg/logger"
)

type stubRepo struct {
	rows map[uuid.UUID]*models.AcceptancePhoto
}

func newStubRepo() *stubRepo {
	return &stubRepo{rows: map[uuid.UUID]*models.AcceptancePhoto{}}
}

func (r *stubRepo) Create(ctx context.Context, photo *models.AcceptancePhoto) (*models.AcceptancePhoto, error) {
	copied := *photo
	copied.CreatedAt = time.Now()
	r.rows[photo.ID] = &copied
	return &copied, nil
}

func (r *stubRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.AcceptancePhoto, error) {
	row, ok := r.rows[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *row
	return &copied, nil
}

func (r *stubRepo) ListByQuote(ctx context.Context, quoteID uuid.UUID) ([]models.AcceptancePhoto, error) {
	var out []models.AcceptancePhoto
	for _, row := range r.rows {
		if row.QuoteID == quoteID {
			out = append(out, *row)
		}
	}
	return out, nil
}

func (r *stubRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(r.rows, id)
	return nil
}

type stubGCS struct {
	deleted []string
}

func (g *stubGCS) SignedURL(bucket, object, contentType string, expires time.Duration) (string, error) {
	return "https://storage.example/" + bucket + "/" + object + "?signed=1", nil
}

func (g *stubGCS) PublicURL(bucket, object string) string {
	return "https://storage.example/" + bucket + "/" + object
}

func (g *stubGCS) DeleteObject(ctx context.Context, bucket, object string) error {
	g.deleted = append(g.deleted, object)
	return nil
}

func newTestService(t *testing.T, repo *stubRepo, gcs *stubGCS) Service {
	t.Helper()

	svc, err := NewService(repo, gcs, "renoquote-test", 15*time.Minute, 20*1024*1024, 20, logger.New(logger.Options{ServiceName: "test"}))
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestPresignBatchPhotoResults(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(t, repo, &stubGCS{})
	ctx := context.Background()
	userID := uuid.New()
	quoteID := uuid.New()

	results, err := svc.PresignBatch(ctx, userID, quoteID, PresignBatchInput{Items: []PresignPhotoInput{
		{FileName: "after.jpg", MimeType: "image/jpeg", SizeBytes: 2048, Note: "kitchen done"},
		{FileName: "clip.mp4", MimeType: "video/mp4", SizeBytes: 2048},
		{FileName: "detail.png", MimeType: "image/png", SizeBytes: 30 * 1024 * 1024},
	}})
	if err != nil {
		t.Fatalf("PresignBatch: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("results = %d, want 3", len(results))
	}
	if !results[0].OK || results[1].OK || results[2].OK {
		t.Fatalf("unexpected result mix: %+v", results)
	}
	if results[0].SignedPUTURL == "" || results[0].PublicURL == "" {
		t.Fatal("successful entry must carry both urls")
	}
	if len(repo.rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(repo.rows))
	}
	for _, row := range repo.rows {
		if row.Note != "kitchen done" || row.QuoteID != quoteID {
			t.Fatalf("row = %+v", row)
		}
	}

	_, err = svc.PresignBatch(ctx, userID, uuid.Nil, PresignBatchInput{Items: []PresignPhotoInput{{FileName: "a.png", MimeType: "image/png", SizeBytes: 1}}})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("missing quote id: %v", err)
	}
}

func TestDeleteOwnership(t *testing.T) {
	repo := newStubRepo()
	gcs := &stubGCS{}
	svc := newTestService(t, repo, gcs)
	ctx := context.Background()

	owner := uuid.New()
	row := &models.AcceptancePhoto{ID: uuid.New(), QuoteID: uuid.New(), UserID: owner, FileName: "a.jpg", GCSKey: "acceptance/a", MimeType: "image/jpeg", SizeBytes: 10}
	repo.rows[row.ID] = row

	err := svc.Delete(ctx, uuid.New(), enums.RoleUser, row.ID)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("stranger delete: %v", err)
	}

	if err := svc.Delete(ctx, owner, enums.RoleUser, row.ID); err != nil {
		t.Fatalf("owner delete: %v", err)
	}
	if len(gcs.deleted) != 1 || gcs.deleted[0] != "acceptance/a" {
		t.Fatal("blob must be deleted")
	}

	err = svc.Delete(ctx, owner, enums.RoleUser, row.ID)
	typed = pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("repeat delete: %v", err)
	}
}

func TestRemoveQuoteFiles(t *testing.T) {
	repo := newStubRepo()
	gcs := &stubGCS{}
	svc := newTestService(t, repo, gcs)
	ctx := context.Background()

	quoteID := uuid.New()
	for i := 0; i < 3; i++ {
		row := &models.AcceptancePhoto{ID: uuid.New(), QuoteID: quoteID, UserID: uuid.New(), FileName: "f.png", GCSKey: uuid.New().String(), MimeType: "image/png", SizeBytes: 1}
		repo.rows[row.ID] = row
	}
	keep := &models.AcceptancePhoto{ID: uuid.New(), QuoteID: uuid.New(), UserID: uuid.New(), FileName: "k.png", GCSKey: "keep", MimeType: "image/png", SizeBytes: 1}
	repo.rows[keep.ID] = keep

	if err := svc.RemoveQuoteFiles(ctx, quoteID); err != nil {
		t.Fatalf("RemoveQuoteFiles: %v", err)
	}
	if len(gcs.deleted) != 3 {
		t.Fatalf("deleted = %d, want 3", len(gcs.deleted))
	}
	if _, ok := repo.rows[keep.ID]; !ok {
		t.Fatal("other quote's photo must survive")
	}
	if len(repo.rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(repo.rows))
	}
}
