package attachment

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/iyunix/go-chatnest/internal/database"
	"github.com/iyunix/go-chatnest/internal/domain"
	attachmentrepo "github.com/iyunix/go-chatnest/internal/repository/attachment"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Warn(string, ...interface{})  {}

type mockBlobs struct{ mock.Mock }

func (m *mockBlobs) Put(ctx context.Context, key, contentType string, data []byte) error {
	return m.Called(ctx, key, contentType, data).Error(0)
}

func (m *mockBlobs) URL(key string) string {
	return "http://s3.test/bucket/" + key
}

func newService(t *testing.T) (*Service, attachmentrepo.AttachmentRepository, *mockBlobs) {
	t.Helper()
	db, err := database.Open("sqlite", filepath.Join(t.TempDir(), "att.db"))
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	repo := attachmentrepo.NewAttachmentRepository(db)
	blobs := new(mockBlobs)
	svc, err := NewService(DefaultConfig(), repo, blobs, nopLogger{})
	require.NoError(t, err)
	return svc, repo, blobs
}

func TestUpload_StoresBlobThenMetadata(t *testing.T) {
	svc, repo, blobs := newService(t)
	svc.now = func() time.Time { return time.UnixMilli(1700000000123) }

	blobs.On("Put", mock.Anything, "5/1700000000123-notes.txt", "text/plain", []byte("hello")).Return(nil).Once()

	att, err := svc.Upload(context.Background(), UploadRequest{UserID: 5, Filename: "notes.txt", ContentType: "text/plain", Data: []byte("hello")})
	require.NoError(t, err)

	assert.Equal(t, "notes.txt", att.Filename)
	assert.Equal(t, "5/1700000000123-notes.txt", att.StorageKey)
	assert.Equal(t, "http://s3.test/bucket/5/1700000000123-notes.txt", att.URL)

	stored, err := repo.FindByID(context.Background(), att.ID)
	require.NoError(t, err)
	assert.Equal(t, uint(5), stored.UserID)
	blobs.AssertExpectations(t)
}

func TestUpload_StorageFailureWritesNoMetadata(t *testing.T) {
	svc, repo, blobs := newService(t)
	blobs.On("Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("bucket unavailable"))

	_, err := svc.Upload(context.Background(), UploadRequest{UserID: 5, Filename: "a.txt", Data: []byte("x")})
	assert.ErrorIs(t, err, domain.ErrDownstream)

	n, err := repo.CountByUserID(context.Background(), 5)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestUpload_EvictsOldestRecordBeyondTen(t *testing.T) {
	ctx := context.Background()
	svc, repo, blobs := newService(t)
	blobs.On("Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	clock := time.Now().Add(-time.Hour)
	svc.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}

	var ids []uint
	for i := 0; i < 11; i++ {
		att, err := svc.Upload(ctx, UploadRequest{UserID: 1, Filename: "f.txt", Data: []byte("x")})
		require.NoError(t, err)
		ids = append(ids, att.ID)
	}

	n, err := repo.CountByUserID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(10), n)

	_, err = repo.FindByID(ctx, ids[0])
	assert.ErrorIs(t, err, attachmentrepo.ErrAttachmentNotFound)

	list, err := svc.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, list, 10)
	assert.Equal(t, ids[10], list[0].ID, "newest first")

	// Eviction removes metadata only; no blob delete is ever issued.
	blobs.AssertNumberOfCalls(t, "Put", 11)
}

func TestUpload_StoresEmptyFile(t *testing.T) {
	svc, repo, blobs := newService(t)
	blobs.On("Put", mock.Anything, mock.Anything, "text/plain", []byte(nil)).Return(nil).Once()

	att, err := svc.Upload(context.Background(), UploadRequest{UserID: 3, Filename: "empty.txt", ContentType: "text/plain"})
	require.NoError(t, err)

	stored, err := repo.FindByID(context.Background(), att.ID)
	require.NoError(t, err)
	assert.Equal(t, "empty.txt", stored.Filename)
	blobs.AssertExpectations(t)
}

func TestUpload_Validation(t *testing.T) {
	svc, _, blobs := newService(t)

	tests := []struct {
		name    string
		req     UploadRequest
		wantErr error
	}{
		{"no user", UploadRequest{Filename: "a", Data: []byte("x")}, domain.ErrUnauthorized},
		{"no filename", UploadRequest{UserID: 1, Data: []byte("x")}, domain.ErrValidation},
		{"dot filename", UploadRequest{UserID: 1, Filename: "..", Data: []byte("x")}, domain.ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Upload(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
	blobs.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSanitizeFilename(t *testing.T) {
	svc, _, _ := newService(t)

	assert.Equal(t, "passwd", svc.sanitizeFilename("../../etc/passwd"))
	assert.Equal(t, "report.pdf", svc.sanitizeFilename(`C:\Users\me\report.pdf`))
	assert.Equal(t, "ab.txt", svc.sanitizeFilename("a\x00b.txt"))

	long := strings.Repeat("x", 300) + ".txt"
	got := svc.sanitizeFilename(long)
	assert.Len(t, got, 200)
	assert.True(t, strings.HasSuffix(got, ".txt"))
}

func TestStorageKey(t *testing.T) {
	assert.Equal(t, "42/1000-a b.png", StorageKey(42, time.UnixMilli(1000), "a b.png"))
}
