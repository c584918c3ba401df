// File: internal/services/chat/interface.go
package chat

import (
	"context"

	"github.com/iyunix/go-chatnest/internal/domain"
)

// ChatProvider handles chat lifecycle operations
type ChatProvider interface {
	CreateChat(ctx context.Context, userID uint) (*domain.Chat, error)
	ListChats(ctx context.Context, userID uint) ([]domain.Chat, error)
	DeleteChat(ctx context.Context, userID, chatID uint) error
}

// MessageProvider handles the conversation inside a chat
type MessageProvider interface {
	ListMessages(ctx context.Context, userID, chatID uint) ([]domain.Message, error)
	SendMessage(ctx context.Context, req SendMessageRequest) (*domain.Message, error)
}

// Orchestrator combines all chat capabilities
type Orchestrator interface {
	ChatProvider
	MessageProvider
}

var _ Orchestrator = (*Service)(nil)
