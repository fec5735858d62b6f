package clients

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/atelierliu/renoquote-backend/pkg/db/models"
	pkgerrors "github.com/atelierliu/renoquote-backend/pkg/errors"
	"github.com/atelierliu/renoquote-backend/pkg/logger"
)

type stubRepo struct {
	rows map[uuid.UUID]*models.Client
}

func newStubRepo() *stubRepo {
	return &stubRepo{rows: map[uuid.UUID]*models.Client{}}
}

func (r *stubRepo) Create(ctx context.Context, client *models.Client) (*models.Client, error) {
	copied := *client
	copied.CreatedAt = time.Now()
	r.rows[client.ID] = &copied
	return &copied, nil
}

func (r *stubRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Client, error) {
	row, ok := r.rows[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *row
	return &copied, nil
}

func (r *stubRepo) List(ctx context.Context) ([]models.Client, error) {
	out := make([]models.Client, 0, len(r.rows))
	for _, row := range r.rows {
		out = append(out, *row)
	}
	return out, nil
}

func (r *stubRepo) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	row, ok := r.rows[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if v, ok := updates["name"]; ok {
		row.Name = v.(string)
	}
	if v, ok := updates["phone"]; ok {
		row.Phone = v.(string)
	}
	if v, ok := updates["notes"]; ok {
		row.Notes = v.(string)
	}
	return nil
}

func (r *stubRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(r.rows, id)
	return nil
}

func newTestService(t *testing.T) (Service, *stubRepo) {
	t.Helper()

	repo := newStubRepo()
	svc, err := NewService(repo, logger.New(logger.Options{ServiceName: "test"}))
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc, repo
}

func TestClientLifecycle(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, Input{Name: "  "})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("blank name: %v", err)
	}

	client, err := svc.Create(ctx, Input{Name: "Chen Residence", Phone: "0912-345-678", ContactPerson: "Mr. Chen"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := svc.Get(ctx, client.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.ContactPerson != "Mr. Chen" {
		t.Fatalf("contact person = %q", got.ContactPerson)
	}

	if err := svc.Update(ctx, client.ID, Input{Name: "Chen Residence", Notes: "prefers weekday calls"}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if repo.rows[client.ID].Notes != "prefers weekday calls" {
		t.Fatal("notes must be updated")
	}

	if err := svc.Delete(ctx, client.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	_, err = svc.Get(ctx, client.ID)
	typed = pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("deleted client: %v", err)
	}

	err = svc.Update(ctx, uuid.New(), Input{Name: "Ghost"})
	typed = pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("missing client update: %v", err)
	}
}
