package attachment

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iyunix/go-chatnest/internal/database"
	"github.com/iyunix/go-chatnest/internal/domain"
)

func newRepo(t *testing.T) AttachmentRepository {
	t.Helper()
	db, err := database.Open("sqlite", filepath.Join(t.TempDir(), "att.db"))
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return NewAttachmentRepository(db)
}

func TestAttachmentRepository_Lifecycle(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)

	base := time.Now().Add(-time.Hour)
	var ids []uint
	for i := 0; i < 3; i++ {
		a, err := repo.Create(ctx, &domain.Attachment{
			UserID:     4,
			Filename:   "f.txt",
			StorageKey: "4/key",
			URL:        "http://s3/4/key",
			CreatedAt:  base.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
		ids = append(ids, a.ID)
	}

	list, err := repo.FindByUserID(ctx, 4, 10)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, ids[2], list[0].ID)

	oldest, err := repo.FindOldestByUserID(ctx, 4)
	require.NoError(t, err)
	assert.Equal(t, ids[0], oldest.ID)

	assert.ErrorIs(t, repo.Delete(ctx, ids[0], 5), ErrAttachmentNotFound)
	require.NoError(t, repo.Delete(ctx, ids[0], 4))

	n, err := repo.CountByUserID(ctx, 4)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	_, err = repo.FindByID(ctx, ids[0])
	assert.ErrorIs(t, err, ErrAttachmentNotFound)
}

func TestAttachmentRepository_CreateValidation(t *testing.T) {
	repo := newRepo(t)

	_, err := repo.Create(context.Background(), &domain.Attachment{UserID: 1, Filename: "a"})
	assert.ErrorContains(t, err, "storage key is required")

	_, err = repo.Create(context.Background(), &domain.Attachment{StorageKey: "k", Filename: "a"})
	assert.ErrorContains(t, err, "user ID is required")
}
