// File: internal/repository/chat/chat_repository.go
package chat

import (
	"context"
	"errors"
	"fmt"
	"log"

	"gorm.io/gorm"

	"github.com/iyunix/go-chatnest/internal/domain"
)

var ErrChatNotFound = errors.New("chat not found")

const maxNameLength = 200

type gormChatRepository struct {
	db *gorm.DB
}

func NewChatRepository(db *gorm.DB) ChatRepository {
	return &gormChatRepository{db: db}
}

// Create - validates ownership and name length before inserting
func (r *gormChatRepository) Create(ctx context.Context, chat *domain.Chat) (*domain.Chat, error) {
	if err := r.validateChatInput(chat); err != nil {
		log.Printf("[ChatRepository] Validation failed: %v", err)
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if err := r.db.WithContext(ctx).Create(chat).Error; err != nil {
		log.Printf("[ChatRepository] Database error during chat creation for user ID %d: %v", chat.UserID, err)
		return nil, errors.New("database error creating chat")
	}

	log.Printf("[ChatRepository] Chat created successfully with ID: %d for user: %d", chat.ID, chat.UserID)
	return chat, nil
}

func (r *gormChatRepository) FindByID(ctx context.Context, chatID uint) (*domain.Chat, error) {
	if chatID == 0 {
		return nil, ErrChatNotFound
	}

	var chat domain.Chat
	err := r.db.WithContext(ctx).First(&chat, chatID).Error
	return r.handleFindError(err, &chat, "FindByID")
}

// FindByUserID returns the user's chats, newest first.
func (r *gormChatRepository) FindByUserID(ctx context.Context, userID uint, limit int) ([]domain.Chat, error) {
	if userID == 0 {
		return nil, errors.New("invalid user ID")
	}
	if limit <= 0 || limit > 1000 {
		limit = 100
	}

	var chats []domain.Chat
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&chats).Error
	if err != nil {
		log.Printf("[ChatRepository] Database error finding chats for user ID %d: %v", userID, err)
		return nil, errors.New("database error fetching chats")
	}

	return chats, nil
}

// FindOldestByUserID returns the chat with the earliest creation time. Ties
// on created_at fall back to insertion order.
func (r *gormChatRepository) FindOldestByUserID(ctx context.Context, userID uint) (*domain.Chat, error) {
	if userID == 0 {
		return nil, errors.New("invalid user ID")
	}

	var chat domain.Chat
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC, id ASC").
		First(&chat).Error
	return r.handleFindError(err, &chat, "FindOldestByUserID")
}

func (r *gormChatRepository) CountByUserID(ctx context.Context, userID uint) (int64, error) {
	if userID == 0 {
		return 0, errors.New("invalid user ID")
	}

	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Chat{}).Where("user_id = ?", userID).Count(&count).Error
	if err != nil {
		log.Printf("[ChatRepository] Database error counting chats for user ID %d: %v", userID, err)
		return 0, errors.New("database error counting user chats")
	}

	return count, nil
}

func (r *gormChatRepository) UpdateName(ctx context.Context, chatID uint, name string) error {
	if chatID == 0 {
		return ErrChatNotFound
	}
	if len(name) > maxNameLength {
		return fmt.Errorf("validation failed: name must be %d bytes or less", maxNameLength)
	}

	result := r.db.WithContext(ctx).
		Model(&domain.Chat{}).
		Where("id = ?", chatID).
		Update("name", name)
	if result.Error != nil {
		log.Printf("[ChatRepository] Database error renaming chat ID %d: %v", chatID, result.Error)
		return errors.New("database error renaming chat")
	}
	if result.RowsAffected == 0 {
		return ErrChatNotFound
	}

	return nil
}

// Delete removes the chat and all of its messages in one transaction.
func (r *gormChatRepository) Delete(ctx context.Context, chatID, userID uint) error {
	if chatID == 0 || userID == 0 {
		return ErrChatNotFound
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("chat_id = ?", chatID).Delete(&domain.Message{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ? AND user_id = ?", chatID, userID).Delete(&domain.Chat{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrChatNotFound
		}
		return nil
	})

	if errors.Is(err, ErrChatNotFound) {
		return ErrChatNotFound
	}
	if err != nil {
		log.Printf("[ChatRepository] Database error deleting chat ID %d for user ID %d: %v", chatID, userID, err)
		return errors.New("database error deleting chat")
	}

	log.Printf("[ChatRepository] Chat deleted successfully: ID %d for user %d", chatID, userID)
	return nil
}

func (r *gormChatRepository) validateChatInput(chat *domain.Chat) error {
	if chat == nil {
		return errors.New("chat cannot be nil")
	}
	if chat.UserID == 0 {
		return errors.New("user ID is required")
	}
	if len(chat.Name) > maxNameLength {
		return fmt.Errorf("name must be %d bytes or less", maxNameLength)
	}
	return nil
}

// handleFindError - Secure error handling without data leakage
func (r *gormChatRepository) handleFindError(err error, chat *domain.Chat, operation string) (*domain.Chat, error) {
	if err == nil {
		return chat, nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrChatNotFound
	}

	log.Printf("[ChatRepository] %s database error: %v", operation, err)
	return nil, errors.New("database query failed")
}
