package handlers

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/iyunix/go-chatnest/internal/domain"
	"github.com/iyunix/go-chatnest/internal/services"
	"github.com/iyunix/go-chatnest/internal/services/ai"
	"github.com/iyunix/go-chatnest/internal/services/attachment"
	"github.com/iyunix/go-chatnest/internal/services/chat"
)

var testLogger = &services.NoOpLogger{}

type mockChats struct{ mock.Mock }

func (m *mockChats) CreateChat(ctx context.Context, userID uint) (*domain.Chat, error) {
	args := m.Called(ctx, userID)
	c, _ := args.Get(0).(*domain.Chat)
	return c, args.Error(1)
}

func (m *mockChats) ListChats(ctx context.Context, userID uint) ([]domain.Chat, error) {
	args := m.Called(ctx, userID)
	c, _ := args.Get(0).([]domain.Chat)
	return c, args.Error(1)
}

func (m *mockChats) DeleteChat(ctx context.Context, userID, chatID uint) error {
	return m.Called(ctx, userID, chatID).Error(0)
}

func (m *mockChats) ListMessages(ctx context.Context, userID, chatID uint) ([]domain.Message, error) {
	args := m.Called(ctx, userID, chatID)
	msgs, _ := args.Get(0).([]domain.Message)
	return msgs, args.Error(1)
}

func (m *mockChats) SendMessage(ctx context.Context, req chat.SendMessageRequest) (*domain.Message, error) {
	args := m.Called(ctx, req)
	msg, _ := args.Get(0).(*domain.Message)
	return msg, args.Error(1)
}

type mockAuth struct{ mock.Mock }

func (m *mockAuth) Register(ctx context.Context, email, password string) (*domain.User, error) {
	args := m.Called(ctx, email, password)
	u, _ := args.Get(0).(*domain.User)
	return u, args.Error(1)
}

func (m *mockAuth) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	args := m.Called(ctx, email, password)
	u, _ := args.Get(0).(*domain.User)
	return u, args.String(1), args.Error(2)
}

type mockUploads struct{ mock.Mock }

func (m *mockUploads) Upload(ctx context.Context, req attachment.UploadRequest) (*domain.Attachment, error) {
	args := m.Called(ctx, req)
	a, _ := args.Get(0).(*domain.Attachment)
	return a, args.Error(1)
}

func (m *mockUploads) List(ctx context.Context, userID uint) ([]domain.Attachment, error) {
	args := m.Called(ctx, userID)
	a, _ := args.Get(0).([]domain.Attachment)
	return a, args.Error(1)
}

type mockModels struct{ mock.Mock }

func (m *mockModels) ListModels(ctx context.Context) ([]ai.Model, error) {
	args := m.Called(ctx)
	models, _ := args.Get(0).([]ai.Model)
	return models, args.Error(1)
}
