package message

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iyunix/go-chatnest/internal/database"
	"github.com/iyunix/go-chatnest/internal/domain"
)

func TestMessageRepository_HistoryOrder(t *testing.T) {
	ctx := context.Background()
	db, err := database.Open("sqlite", filepath.Join(t.TempDir(), "msg.db"))
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	repo := NewMessageRepository(db)

	same := time.Now().Truncate(time.Second)
	contents := []string{"one", "two", "three"}
	for i, c := range contents {
		role := domain.RoleUser
		if i%2 == 1 {
			role = domain.RoleAssistant
		}
		_, err := repo.Create(ctx, &domain.Message{ChatID: 1, Role: role, Content: c, CreatedAt: same})
		require.NoError(t, err)
	}
	_, err = repo.Create(ctx, &domain.Message{ChatID: 2, Role: domain.RoleUser, Content: "elsewhere"})
	require.NoError(t, err)

	history, err := repo.FindByChatID(ctx, 1)
	require.NoError(t, err)
	require.Len(t, history, 3)
	for i, m := range history {
		assert.Equal(t, contents[i], m.Content)
	}
}

func TestMessageRepository_Validation(t *testing.T) {
	db, err := database.Open("sqlite", filepath.Join(t.TempDir(), "msg.db"))
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	repo := NewMessageRepository(db)

	tests := []struct {
		name string
		msg  *domain.Message
	}{
		{"nil message", nil},
		{"missing chat", &domain.Message{Role: domain.RoleUser, Content: "x"}},
		{"bad role", &domain.Message{ChatID: 1, Role: "system", Content: "x"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := repo.Create(context.Background(), tt.msg)
			assert.ErrorContains(t, err, "validation failed")
		})
	}
}
