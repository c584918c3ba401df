// File: internal/services/chat/service.go
package chat

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/iyunix/go-chatnest/internal/domain"
	"github.com/iyunix/go-chatnest/internal/metrics"
	attachmentrepo "github.com/iyunix/go-chatnest/internal/repository/attachment"
	chatrepo "github.com/iyunix/go-chatnest/internal/repository/chat"
	"github.com/iyunix/go-chatnest/internal/repository/message"
	"github.com/iyunix/go-chatnest/internal/services/ai"
)

// Service orchestrates chats, their history and the completion round trip.
type Service struct {
	config         *Config
	chatRepo       chatrepo.ChatRepository
	messageRepo    message.MessageRepository
	attachmentRepo attachmentrepo.AttachmentRepository
	blobs          BlobReader
	completion     ai.CompletionProvider
	logger         Logger
}

func NewService(
	config *Config,
	chatRepo chatrepo.ChatRepository,
	messageRepo message.MessageRepository,
	attachmentRepo attachmentrepo.AttachmentRepository,
	blobs BlobReader,
	completion ai.CompletionProvider,
	logger Logger,
) (*Service, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, &ChatError{Type: ErrTypeConfig, Operation: "config", Message: err.Error()}
	}
	switch {
	case chatRepo == nil:
		return nil, NewValidationError("constructor", "chat repository is required")
	case messageRepo == nil:
		return nil, NewValidationError("constructor", "message repository is required")
	case attachmentRepo == nil:
		return nil, NewValidationError("constructor", "attachment repository is required")
	case blobs == nil:
		return nil, NewValidationError("constructor", "blob reader is required")
	case completion == nil:
		return nil, NewValidationError("constructor", "completion provider is required")
	case logger == nil:
		return nil, NewValidationError("constructor", "logger is required")
	}

	return &Service{
		config:         config,
		chatRepo:       chatRepo,
		messageRepo:    messageRepo,
		attachmentRepo: attachmentRepo,
		blobs:          blobs,
		completion:     completion,
		logger:         logger,
	}, nil
}

// CreateChat creates a chat with the placeholder name and default model, then
// evicts the user's oldest chat if the cap is exceeded. Eviction failures are
// logged and never fail the create.
func (s *Service) CreateChat(ctx context.Context, userID uint) (*domain.Chat, error) {
	if userID == 0 {
		return nil, NewUnauthorizedError("create_chat")
	}

	created, err := s.chatRepo.Create(ctx, &domain.Chat{
		UserID: userID,
		Name:   s.config.PlaceholderName,
		Model:  s.config.DefaultModel,
	})
	if err != nil {
		return nil, NewDownstreamError("create_chat", "failed to create chat", err)
	}

	s.logger.Info("chat created", "user_id", userID, "chat_id", created.ID)
	s.evictOldestChat(ctx, userID)
	return created, nil
}

func (s *Service) evictOldestChat(ctx context.Context, userID uint) {
	count, err := s.chatRepo.CountByUserID(ctx, userID)
	if err != nil {
		s.logger.Warn("chat retention count failed", "user_id", userID, "error", err)
		return
	}
	if count <= int64(s.config.MaxChatsPerUser) {
		return
	}

	oldest, err := s.chatRepo.FindOldestByUserID(ctx, userID)
	if err != nil {
		s.logger.Warn("chat retention lookup failed", "user_id", userID, "error", err)
		return
	}
	if err := s.chatRepo.Delete(ctx, oldest.ID, userID); err != nil {
		s.logger.Warn("chat retention delete failed", "user_id", userID, "chat_id", oldest.ID, "error", err)
		return
	}

	metrics.ChatsEvicted.Inc()
	s.logger.Info("evicted oldest chat", "user_id", userID, "chat_id", oldest.ID, "count", count)
}

// ListChats returns the user's chats, newest first.
func (s *Service) ListChats(ctx context.Context, userID uint) ([]domain.Chat, error) {
	if userID == 0 {
		return nil, NewUnauthorizedError("list_chats")
	}

	chats, err := s.chatRepo.FindByUserID(ctx, userID, s.config.MaxChatsPerUser)
	if err != nil {
		return nil, NewDownstreamError("list_chats", "failed to list chats", err)
	}
	return chats, nil
}

// DeleteChat removes an owned chat together with its messages.
func (s *Service) DeleteChat(ctx context.Context, userID, chatID uint) error {
	if userID == 0 {
		return NewUnauthorizedError("delete_chat")
	}
	if _, err := s.ownedChat(ctx, "delete_chat", userID, chatID); err != nil {
		return err
	}

	if err := s.chatRepo.Delete(ctx, chatID, userID); err != nil {
		if errors.Is(err, chatrepo.ErrChatNotFound) {
			return NewNotFoundError("delete_chat", userID, chatID)
		}
		return NewDownstreamError("delete_chat", "failed to delete chat", err)
	}

	s.logger.Info("chat deleted", "user_id", userID, "chat_id", chatID)
	return nil
}

// ListMessages returns the full history of an owned chat, oldest first.
func (s *Service) ListMessages(ctx context.Context, userID, chatID uint) ([]domain.Message, error) {
	if userID == 0 {
		return nil, NewUnauthorizedError("list_messages")
	}
	if _, err := s.ownedChat(ctx, "list_messages", userID, chatID); err != nil {
		return nil, err
	}

	messages, err := s.messageRepo.FindByChatID(ctx, chatID)
	if err != nil {
		return nil, NewDownstreamError("list_messages", "failed to load messages", err)
	}
	return messages, nil
}

// SendMessage stores the user turn, asks the completion provider for a reply
// and stores that too. The first reply in a chat also names the chat. A
// failure after the user turn is stored leaves it in place.
func (s *Service) SendMessage(ctx context.Context, req SendMessageRequest) (*domain.Message, error) {
	if req.UserID == 0 {
		return nil, NewUnauthorizedError("send_message")
	}
	if strings.TrimSpace(req.Content) == "" {
		return nil, NewValidationError("send_message", "message is required")
	}

	chat, err := s.ownedChat(ctx, "send_message", req.UserID, req.ChatID)
	if err != nil {
		return nil, err
	}

	history, err := s.messageRepo.FindByChatID(ctx, chat.ID)
	if err != nil {
		return nil, NewDownstreamError("send_message", "failed to load history", err)
	}
	firstExchange := len(history) == 0

	userMsg, err := s.messageRepo.Create(ctx, &domain.Message{
		ChatID:  chat.ID,
		Role:    domain.RoleUser,
		Content: req.Content,
	})
	if err != nil {
		return nil, NewDownstreamError("send_message", "failed to save user message", err)
	}

	files, err := s.collectAttachments(ctx, req.UserID, req.AttachmentIDs)
	if err != nil {
		return nil, err
	}

	model := req.Model
	if model == "" {
		model = chat.Model
	}

	reply, err := s.complete(ctx, model, append(history, *userMsg), files)
	if err != nil {
		s.logger.Error("completion failed", "chat_id", chat.ID, "model", model, "error", err)
		return nil, NewDownstreamError("send_message", "completion failed", err)
	}

	assistantMsg, err := s.messageRepo.Create(ctx, &domain.Message{
		ChatID:  chat.ID,
		Role:    domain.RoleAssistant,
		Content: reply.Content,
	})
	if err != nil {
		return nil, NewDownstreamError("send_message", "failed to save assistant message", err)
	}

	if firstExchange {
		name := NameFromReply(reply.Content, s.config.NameLength, s.config.NameSuffix)
		if err := s.chatRepo.UpdateName(ctx, chat.ID, name); err != nil {
			return nil, NewDownstreamError("send_message", "failed to rename chat", err)
		}
	}

	s.logger.Info("message exchanged",
		"chat_id", chat.ID,
		"model", model,
		"attachments", len(files),
		"first_exchange", firstExchange)
	return assistantMsg, nil
}

func (s *Service) complete(ctx context.Context, model string, history []domain.Message, files []ai.File) (*ai.Completion, error) {
	messages := make([]ai.Message, 0, len(history))
	for _, m := range history {
		messages = append(messages, ai.Message{Role: m.Role, Content: m.Content})
	}

	callCtx, cancel := context.WithTimeout(ctx, s.config.CompletionTimeout)
	defer cancel()

	start := time.Now()
	reply, err := s.completion.GetCompletion(callCtx, model, messages, files)
	metrics.CompletionDuration.Observe(time.Since(start).Seconds())
	metrics.Completions.WithLabelValues(metrics.Outcome(err)).Inc()
	return reply, err
}

// collectAttachments resolves ids in order. Missing or foreign ids are
// skipped without error; storage and database failures abort.
func (s *Service) collectAttachments(ctx context.Context, userID uint, ids []uint) ([]ai.File, error) {
	files := make([]ai.File, 0, len(ids))
	for _, id := range ids {
		att, err := s.attachmentRepo.FindByID(ctx, id)
		if errors.Is(err, attachmentrepo.ErrAttachmentNotFound) || (err == nil && !att.OwnedBy(userID)) {
			metrics.AttachmentsSkipped.Inc()
			s.logger.Debug("skipping unresolvable attachment", "user_id", userID, "attachment_id", id)
			continue
		}
		if err != nil {
			return nil, NewDownstreamError("send_message", "failed to resolve attachment", err)
		}

		data, err := s.blobs.Get(ctx, att.StorageKey)
		if err != nil {
			return nil, NewDownstreamError("send_message", "failed to fetch attachment", err)
		}

		files = append(files, ai.File{
			Filename:    att.Filename,
			ContentType: att.ContentType,
			Data:        data,
		})
	}
	return files, nil
}

// ownedChat loads a chat and checks ownership. Absent and foreign chats are
// reported the same way.
func (s *Service) ownedChat(ctx context.Context, operation string, userID, chatID uint) (*domain.Chat, error) {
	chat, err := s.chatRepo.FindByID(ctx, chatID)
	if errors.Is(err, chatrepo.ErrChatNotFound) {
		return nil, NewNotFoundError(operation, userID, chatID)
	}
	if err != nil {
		return nil, NewDownstreamError(operation, "failed to load chat", err)
	}
	if !chat.OwnedBy(userID) {
		s.logger.Warn("chat ownership check failed", "user_id", userID, "chat_id", chatID)
		return nil, NewNotFoundError(operation, userID, chatID)
	}
	return chat, nil
}
