package chat

import (
	"context"

	"github.com/iyunix/go-chatnest/internal/domain"
)

// ChatRepository handles chat data operations.
type ChatRepository interface {
	Create(ctx context.Context, chat *domain.Chat) (*domain.Chat, error)
	FindByID(ctx context.Context, id uint) (*domain.Chat, error)
	FindByUserID(ctx context.Context, userID uint, limit int) ([]domain.Chat, error)
	FindOldestByUserID(ctx context.Context, userID uint) (*domain.Chat, error)
	CountByUserID(ctx context.Context, userID uint) (int64, error)
	UpdateName(ctx context.Context, chatID uint, name string) error
	Delete(ctx context.Context, chatID uint, userID uint) error
}
