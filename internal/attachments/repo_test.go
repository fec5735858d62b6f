package attachments

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/atelierliu/renoquote-backend/pkg/db/models"
	"github.com/atelierliu/renoquote-backend/pkg/enums"
)

func setupAttachmentsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	schema := `
CREATE TABLE IF NOT EXISTS attachments (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  quote_id TEXT,
  file_name TEXT NOT NULL,
  gcs_key TEXT NOT NULL UNIQUE,
  url TEXT,
  mime_type TEXT NOT NULL,
  size_bytes INTEGER NOT NULL,
  note TEXT,
  category TEXT NOT NULL DEFAULT 'other',
  sort_index INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME
);`
	require.NoError(t, db.Exec(schema).Error)

	return db
}

func TestRepositoryListByUserOrdersBySortIndex(t *testing.T) {
	db := setupAttachmentsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	for i, name := range []string{"third.png", "first.png", "second.png"} {
		sort := []int64{2, 0, 1}[i]
		_, err := repo.Create(ctx, &models.Attachment{
			ID:        uuid.New(),
			UserID:    userID,
			FileName:  name,
			GCSKey:    uuid.New().String(),
			MimeType:  "image/png",
			SizeBytes: 10,
			Category:  enums.AttachmentCategoryOther,
			SortIndex: sort,
		})
		require.NoError(t, err)
	}

	rows, err := repo.ListByUser(ctx, userID)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	require.Equal(t, "first.png", rows[0].FileName)
	require.Equal(t, "second.png", rows[1].FileName)
	require.Equal(t, "third.png", rows[2].FileName)
}

func TestRepositoryUpdateAndDelete(t *testing.T) {
	db := setupAttachmentsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	row := &models.Attachment{
		ID:        uuid.New(),
		UserID:    uuid.New(),
		FileName:  "plan.pdf",
		GCSKey:    uuid.New().String(),
		MimeType:  "application/pdf",
		SizeBytes: 2048,
		Category:  enums.AttachmentCategoryFloorPlan,
	}
	_, err := repo.Create(ctx, row)
	require.NoError(t, err)

	require.NoError(t, repo.Update(ctx, row.ID, map[string]any{"note": "approved", "sort_index": int64(7)}))

	found, err := repo.FindByID(ctx, row.ID)
	require.NoError(t, err)
	require.Equal(t, "approved", found.Note)
	require.EqualValues(t, 7, found.SortIndex)

	require.NoError(t, repo.Delete(ctx, row.ID))
	_, err = repo.FindByID(ctx, row.ID)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
