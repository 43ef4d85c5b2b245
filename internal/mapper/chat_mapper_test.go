package mapper

import (
	"testing"
	"time"

	"book-chatbot-be/internal/entity"
	"book-chatbot-be/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatMapperRoundTrip(t *testing.T) {
	mapper := NewChatMapper()

	msg := &entity.ChatMessage{
		Id:       uuid.New(),
		UserId:   uuid.New(),
		ThreadId: "thread-1",
		Role:     "assistant",
		Content:  "a grounded answer",
		Metadata: map[string]interface{}{
			"model_used": "test-model",
		},
		CreatedAt: time.Now(),
	}

	back := mapper.ToEntity(mapper.ToModel(msg))
	assert.Equal(t, msg, back)
}

func TestChatMapperNilMetadataBecomesEmptyMap(t *testing.T) {
	mapper := NewChatMapper()

	m := mapper.ToModel(&entity.ChatMessage{Id: uuid.New()})
	require.NotNil(t, m.Metadata)
	assert.Empty(t, m.Metadata)
}

func TestChatMapperToEntitiesPreservesOrder(t *testing.T) {
	mapper := NewChatMapper()

	models := []*model.ChatMessage{
		{Id: uuid.New(), Content: "first"},
		{Id: uuid.New(), Content: "second"},
	}

	entities := mapper.ToEntities(models)
	require.Len(t, entities, 2)
	assert.Equal(t, "first", entities[0].Content)
	assert.Equal(t, "second", entities[1].Content)
}
