// File: internal/services/attachment/service.go
package attachment

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"
	"unicode"

	"github.com/iyunix/go-chatnest/internal/domain"
	"github.com/iyunix/go-chatnest/internal/metrics"
	attachmentrepo "github.com/iyunix/go-chatnest/internal/repository/attachment"
)

// Service stores uploaded files and keeps each user's attachment list bounded.
type Service struct {
	config *Config
	repo   attachmentrepo.AttachmentRepository
	blobs  BlobWriter
	logger Logger
	now    func() time.Time
}

func NewService(config *Config, repo attachmentrepo.AttachmentRepository, blobs BlobWriter, logger Logger) (*Service, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, &AttachmentError{Type: ErrTypeConfig, Operation: "config", Message: err.Error()}
	}
	switch {
	case repo == nil:
		return nil, NewValidationError("constructor", "attachment repository is required")
	case blobs == nil:
		return nil, NewValidationError("constructor", "blob writer is required")
	case logger == nil:
		return nil, NewValidationError("constructor", "logger is required")
	}

	return &Service{config: config, repo: repo, blobs: blobs, logger: logger, now: time.Now}, nil
}

// Upload writes the blob, records its metadata and evicts the user's oldest
// record beyond the cap. A failed blob write leaves no metadata behind; a
// failed metadata write leaves the blob orphaned. Eviction never touches the
// blob.
func (s *Service) Upload(ctx context.Context, req UploadRequest) (*domain.Attachment, error) {
	if req.UserID == 0 {
		return nil, &AttachmentError{Type: ErrTypeUnauthorized, Operation: "upload", Message: "no authenticated user"}
	}
	filename := s.sanitizeFilename(req.Filename)
	if filename == "" {
		return nil, NewValidationError("upload", "filename is required")
	}

	key := StorageKey(req.UserID, s.now(), filename)
	if err := s.blobs.Put(ctx, key, req.ContentType, req.Data); err != nil {
		return nil, NewDownstreamError("upload", "failed to store file", req.UserID, err)
	}

	created, err := s.repo.Create(ctx, &domain.Attachment{
		UserID:      req.UserID,
		Filename:    filename,
		ContentType: req.ContentType,
		StorageKey:  key,
		URL:         s.blobs.URL(key),
	})
	if err != nil {
		s.logger.Error("attachment metadata write failed, blob orphaned", "user_id", req.UserID, "key", key, "error", err)
		return nil, NewDownstreamError("upload", "failed to record attachment", req.UserID, err)
	}

	s.logger.Info("attachment uploaded", "user_id", req.UserID, "attachment_id", created.ID, "bytes", len(req.Data))
	s.evictOldest(ctx, req.UserID)
	return created, nil
}

// List returns the user's attachments, newest first.
func (s *Service) List(ctx context.Context, userID uint) ([]domain.Attachment, error) {
	if userID == 0 {
		return nil, &AttachmentError{Type: ErrTypeUnauthorized, Operation: "list", Message: "no authenticated user"}
	}

	attachments, err := s.repo.FindByUserID(ctx, userID, s.config.MaxAttachmentsPerUser)
	if err != nil {
		return nil, NewDownstreamError("list", "failed to list attachments", userID, err)
	}
	return attachments, nil
}

func (s *Service) evictOldest(ctx context.Context, userID uint) {
	count, err := s.repo.CountByUserID(ctx, userID)
	if err != nil {
		s.logger.Warn("attachment retention count failed", "user_id", userID, "error", err)
		return
	}
	if count <= int64(s.config.MaxAttachmentsPerUser) {
		return
	}

	oldest, err := s.repo.FindOldestByUserID(ctx, userID)
	if err != nil {
		s.logger.Warn("attachment retention lookup failed", "user_id", userID, "error", err)
		return
	}
	// Metadata only; the blob stays in the bucket.
	if err := s.repo.Delete(ctx, oldest.ID, userID); err != nil {
		s.logger.Warn("attachment retention delete failed", "user_id", userID, "attachment_id", oldest.ID, "error", err)
		return
	}

	metrics.AttachmentsEvicted.Inc()
	s.logger.Info("evicted oldest attachment", "user_id", userID, "attachment_id", oldest.ID, "count", count)
}

// StorageKey namespaces a blob by user and upload time.
func StorageKey(userID uint, at time.Time, filename string) string {
	return fmt.Sprintf("%d/%d-%s", userID, at.UnixMilli(), filename)
}

// sanitizeFilename keeps the base name and drops control characters and
// path separators.
func (s *Service) sanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = path.Base(strings.TrimSpace(name))
	if name == "." || name == "/" || name == ".." {
		return ""
	}

	name = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, name)

	runes := []rune(name)
	if len(runes) > s.config.MaxFilenameLength {
		runes = runes[len(runes)-s.config.MaxFilenameLength:]
	}
	return strings.TrimSpace(string(runes))
}
