// File: internal/repository/attachment/attachment_repository.go
package attachment

import (
	"context"
	"errors"
	"fmt"
	"log"

	"gorm.io/gorm"

	"github.com/iyunix/go-chatnest/internal/domain"
)

var ErrAttachmentNotFound = errors.New("attachment not found")

type gormAttachmentRepository struct {
	db *gorm.DB
}

func NewAttachmentRepository(db *gorm.DB) AttachmentRepository {
	return &gormAttachmentRepository{db: db}
}

func (r *gormAttachmentRepository) Create(ctx context.Context, attachment *domain.Attachment) (*domain.Attachment, error) {
	if err := r.validateAttachmentInput(attachment); err != nil {
		log.Printf("[AttachmentRepository] Validation failed: %v", err)
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if err := r.db.WithContext(ctx).Create(attachment).Error; err != nil {
		log.Printf("[AttachmentRepository] Database error creating attachment for user ID %d: %v", attachment.UserID, err)
		return nil, errors.New("database error creating attachment")
	}

	log.Printf("[AttachmentRepository] Attachment created with ID: %d for user: %d", attachment.ID, attachment.UserID)
	return attachment, nil
}

func (r *gormAttachmentRepository) FindByID(ctx context.Context, id uint) (*domain.Attachment, error) {
	if id == 0 {
		return nil, ErrAttachmentNotFound
	}

	var attachment domain.Attachment
	err := r.db.WithContext(ctx).First(&attachment, id).Error
	return r.handleFindError(err, &attachment, "FindByID")
}

func (r *gormAttachmentRepository) FindByUserID(ctx context.Context, userID uint, limit int) ([]domain.Attachment, error) {
	if userID == 0 {
		return nil, errors.New("invalid user ID")
	}
	if limit <= 0 || limit > 1000 {
		limit = 100
	}

	var attachments []domain.Attachment
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&attachments).Error
	if err != nil {
		log.Printf("[AttachmentRepository] Database error listing attachments for user ID %d: %v", userID, err)
		return nil, errors.New("database error fetching attachments")
	}

	return attachments, nil
}

func (r *gormAttachmentRepository) FindOldestByUserID(ctx context.Context, userID uint) (*domain.Attachment, error) {
	if userID == 0 {
		return nil, errors.New("invalid user ID")
	}

	var attachment domain.Attachment
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC, id ASC").
		First(&attachment).Error
	return r.handleFindError(err, &attachment, "FindOldestByUserID")
}

func (r *gormAttachmentRepository) CountByUserID(ctx context.Context, userID uint) (int64, error) {
	if userID == 0 {
		return 0, errors.New("invalid user ID")
	}

	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Attachment{}).Where("user_id = ?", userID).Count(&count).Error
	if err != nil {
		log.Printf("[AttachmentRepository] Database error counting attachments for user ID %d: %v", userID, err)
		return 0, errors.New("database error counting attachments")
	}

	return count, nil
}

// Delete removes the metadata row only.
func (r *gormAttachmentRepository) Delete(ctx context.Context, id, userID uint) error {
	if id == 0 || userID == 0 {
		return ErrAttachmentNotFound
	}

	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&domain.Attachment{})
	if result.Error != nil {
		log.Printf("[AttachmentRepository] Database error deleting attachment ID %d for user ID %d: %v", id, userID, result.Error)
		return errors.New("database error deleting attachment")
	}
	if result.RowsAffected == 0 {
		return ErrAttachmentNotFound
	}

	return nil
}

func (r *gormAttachmentRepository) validateAttachmentInput(attachment *domain.Attachment) error {
	if attachment == nil {
		return errors.New("attachment cannot be nil")
	}
	if attachment.UserID == 0 {
		return errors.New("user ID is required")
	}
	if attachment.Filename == "" {
		return errors.New("filename is required")
	}
	if attachment.StorageKey == "" {
		return errors.New("storage key is required")
	}
	return nil
}

func (r *gormAttachmentRepository) handleFindError(err error, attachment *domain.Attachment, operation string) (*domain.Attachment, error) {
	if err == nil {
		return attachment, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrAttachmentNotFound
	}

	log.Printf("[AttachmentRepository] %s database error: %v", operation, err)
	return nil, errors.New("database query failed")
}
