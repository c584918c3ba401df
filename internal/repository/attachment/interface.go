package attachment

import (
	"context"

	"github.com/iyunix/go-chatnest/internal/domain"
)

// AttachmentRepository handles attachment metadata. Blobs live in object
// storage and are never touched here.
type AttachmentRepository interface {
	Create(ctx context.Context, attachment *domain.Attachment) (*domain.Attachment, error)
	FindByID(ctx context.Context, id uint) (*domain.Attachment, error)
	FindByUserID(ctx context.Context, userID uint, limit int) ([]domain.Attachment, error)
	FindOldestByUserID(ctx context.Context, userID uint) (*domain.Attachment, error)
	CountByUserID(ctx context.Context, userID uint) (int64, error)
	Delete(ctx context.Context, id, userID uint) error
}
