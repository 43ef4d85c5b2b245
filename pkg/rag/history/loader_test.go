package history

import (
	"context"
	"testing"
	"time"

	"book-chatbot-be/internal/constant"
	"book-chatbot-be/internal/entity"
	"book-chatbot-be/internal/repository/memory"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedThread(t *testing.T, factory *memory.Factory, userId uuid.UUID, threadId string, turns int) {
	t.Helper()
	base := time.Now().Add(-time.Hour)
	for i := 0; i < turns; i++ {
		require.NoError(t, factory.Chats.Create(context.Background(), &entity.ChatMessage{
			UserId:    userId,
			ThreadId:  threadId,
			Role:      constant.ChatMessageRoleUser,
			Content:   "question " + string(rune('a'+i)),
			CreatedAt: base.Add(time.Duration(2*i) * time.Minute),
		}))
		require.NoError(t, factory.Chats.Create(context.Background(), &entity.ChatMessage{
			UserId:    userId,
			ThreadId:  threadId,
			Role:      constant.ChatMessageRoleAssistant,
			Content:   "answer " + string(rune('a'+i)),
			CreatedAt: base.Add(time.Duration(2*i+1) * time.Minute),
		}))
	}
}

func TestLoadThreadHistoryChronologicalOrder(t *testing.T) {
	factory := memory.NewFactory()
	userId := uuid.New()
	seedThread(t, factory, userId, "thread-1", 4)

	loader := NewLoader(factory)
	messages, err := loader.LoadThreadHistory(context.Background(), userId, "thread-1", 5, 0)

	require.NoError(t, err)
	require.Len(t, messages, 5)
	// The five newest messages, oldest of those five first.
	assert.Equal(t, "answer b", messages[0].Content)
	assert.Equal(t, "question c", messages[1].Content)
	assert.Equal(t, "answer d", messages[4].Content)
	assert.Equal(t, "assistant", messages[0].Role)
	assert.Equal(t, "user", messages[1].Role)
}

func TestLoadThreadHistoryOffsetSkipsNewest(t *testing.T) {
	factory := memory.NewFactory()
	userId := uuid.New()
	seedThread(t, factory, userId, "thread-1", 2)

	loader := NewLoader(factory)
	messages, err := loader.LoadThreadHistory(context.Background(), userId, "thread-1", 10, 1)

	require.NoError(t, err)
	require.Len(t, messages, 3)
	// Newest message (answer b) skipped; the remainder stays chronological.
	assert.Equal(t, "question a", messages[0].Content)
	assert.Equal(t, "question b", messages[2].Content)
}

func TestLoadThreadHistoryScopedToUser(t *testing.T) {
	factory := memory.NewFactory()
	owner := uuid.New()
	other := uuid.New()
	seedThread(t, factory, owner, "thread-1", 1)

	loader := NewLoader(factory)
	messages, err := loader.LoadThreadHistory(context.Background(), other, "thread-1", 10, 0)

	require.NoError(t, err)
	assert.Empty(t, messages)
}
