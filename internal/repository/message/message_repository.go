package message

import (
	"context"
	"errors"
	"fmt"
	"log"

	"gorm.io/gorm"

	"github.com/iyunix/go-chatnest/internal/domain"
)

type gormMessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &gormMessageRepository{db: db}
}

func (r *gormMessageRepository) Create(ctx context.Context, message *domain.Message) (*domain.Message, error) {
	if err := r.validateMessageInput(message); err != nil {
		log.Printf("[MessageRepository] Validation failed: %v", err)
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if err := r.db.WithContext(ctx).Create(message).Error; err != nil {
		// message content stays out of the log
		log.Printf("[MessageRepository] Database error during message creation for chat ID %d: %v", message.ChatID, err)
		return nil, errors.New("database error creating message")
	}

	log.Printf("[MessageRepository] Message created successfully with ID: %d for chat: %d", message.ID, message.ChatID)
	return message, nil
}

// FindByChatID returns the full history of a chat, oldest first. The id
// tiebreak keeps messages created within the same clock tick in insertion
// order.
func (r *gormMessageRepository) FindByChatID(ctx context.Context, chatID uint) ([]domain.Message, error) {
	if chatID == 0 {
		return nil, errors.New("invalid chat ID")
	}

	var messages []domain.Message
	err := r.db.WithContext(ctx).
		Where("chat_id = ?", chatID).
		Order("created_at ASC, id ASC").
		Find(&messages).Error
	if err != nil {
		log.Printf("[MessageRepository] Database error finding messages for chat ID %d: %v", chatID, err)
		return nil, errors.New("database error fetching messages")
	}

	return messages, nil
}

func (r *gormMessageRepository) validateMessageInput(message *domain.Message) error {
	if message == nil {
		return errors.New("message cannot be nil")
	}
	if message.ChatID == 0 {
		return errors.New("chat ID is required")
	}
	if !domain.IsValidRole(message.Role) {
		return fmt.Errorf("invalid role %q", message.Role)
	}
	return nil
}
