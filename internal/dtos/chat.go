// File: internal/dtos/chat.go
package dtos

import (
	"time"

	"github.com/iyunix/go-chatnest/internal/domain"
	"github.com/iyunix/go-chatnest/internal/services/ai"
)

// SendMessageRequestDTO is the body of POST /api/chats/{id}/messages.
type SendMessageRequestDTO struct {
	Message       string `json:"message" validate:"required"`
	Model         string `json:"model" validate:"omitempty,max=200"`
	AttachmentIDs []uint `json:"attachmentIds"`
}

type ChatResponseDTO struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	Model     string `json:"model"`
	CreatedAt string `json:"createdAt"`
}

type MessageResponseDTO struct {
	ID        uint   `json:"id"`
	ChatID    uint   `json:"chatId"`
	Role      string `json:"role"`
	Content   string `json:"content"`
	CreatedAt string `json:"createdAt"`
}

type AttachmentResponseDTO struct {
	ID          uint   `json:"id"`
	Filename    string `json:"filename"`
	ContentType string `json:"contentType,omitempty"`
	URL         string `json:"url"`
	CreatedAt   string `json:"createdAt,omitempty"`
}

// UploadResponseDTO is the body returned by POST /api/upload.
type UploadResponseDTO struct {
	ID       uint   `json:"id"`
	Filename string `json:"filename"`
	URL      string `json:"url"`
}

type ModelResponseDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// MessageDTO is a plain acknowledgement body, e.g. after a delete.
type MessageDTO struct {
	Message string `json:"message"`
}

func ToChatResponseDTO(chat *domain.Chat) ChatResponseDTO {
	return ChatResponseDTO{
		ID:        chat.ID,
		Name:      chat.Name,
		Model:     chat.Model,
		CreatedAt: chat.CreatedAt.Format(time.RFC3339),
	}
}

func ToChatResponseDTOs(chats []domain.Chat) []ChatResponseDTO {
	out := make([]ChatResponseDTO, 0, len(chats))
	for i := range chats {
		out = append(out, ToChatResponseDTO(&chats[i]))
	}
	return out
}

func ToMessageResponseDTO(msg *domain.Message) MessageResponseDTO {
	return MessageResponseDTO{
		ID:        msg.ID,
		ChatID:    msg.ChatID,
		Role:      msg.Role,
		Content:   msg.Content,
		CreatedAt: msg.CreatedAt.Format(time.RFC3339),
	}
}

func ToMessageResponseDTOs(msgs []domain.Message) []MessageResponseDTO {
	out := make([]MessageResponseDTO, 0, len(msgs))
	for i := range msgs {
		out = append(out, ToMessageResponseDTO(&msgs[i]))
	}
	return out
}

func ToAttachmentResponseDTO(att *domain.Attachment) AttachmentResponseDTO {
	return AttachmentResponseDTO{
		ID:          att.ID,
		Filename:    att.Filename,
		ContentType: att.ContentType,
		URL:         att.URL,
		CreatedAt:   att.CreatedAt.Format(time.RFC3339),
	}
}

func ToUploadResponseDTO(att *domain.Attachment) UploadResponseDTO {
	return UploadResponseDTO{ID: att.ID, Filename: att.Filename, URL: att.URL}
}

func ToAttachmentResponseDTOs(atts []domain.Attachment) []AttachmentResponseDTO {
	out := make([]AttachmentResponseDTO, 0, len(atts))
	for i := range atts {
		out = append(out, ToAttachmentResponseDTO(&atts[i]))
	}
	return out
}

func ToModelResponseDTOs(models []ai.Model) []ModelResponseDTO {
	out := make([]ModelResponseDTO, 0, len(models))
	for _, m := range models {
		out = append(out, ModelResponseDTO{ID: m.ID, Name: m.Name})
	}
	return out
}
