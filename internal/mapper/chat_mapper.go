package mapper

import (
	"book-chatbot-be/internal/entity"
	"book-chatbot-be/internal/model"

	"gorm.io/datatypes"
)

type ChatMapper struct{}

func NewChatMapper() *ChatMapper {
	return &ChatMapper{}
}

func (m *ChatMapper) ToEntity(msg *model.ChatMessage) *entity.ChatMessage {
	if msg == nil {
		return nil
	}
	return &entity.ChatMessage{
		Id:        msg.Id,
		UserId:    msg.UserId,
		ThreadId:  msg.ThreadId,
		Role:      msg.Role,
		Content:   msg.Content,
		Metadata:  map[string]interface{}(msg.Metadata),
		CreatedAt: msg.CreatedAt,
	}
}

func (m *ChatMapper) ToModel(msg *entity.ChatMessage) *model.ChatMessage {
	if msg == nil {
		return nil
	}
	metadata := msg.Metadata
	if metadata == nil {
		metadata = map[string]interface{}{}
	}
	return &model.ChatMessage{
		Id:        msg.Id,
		UserId:    msg.UserId,
		ThreadId:  msg.ThreadId,
		Role:      msg.Role,
		Content:   msg.Content,
		Metadata:  datatypes.JSONMap(metadata),
		CreatedAt: msg.CreatedAt,
	}
}

func (m *ChatMapper) ToEntities(msgs []*model.ChatMessage) []*entity.ChatMessage {
	entities := make([]*entity.ChatMessage, len(msgs))
	for i, msg := range msgs {
		entities[i] = m.ToEntity(msg)
	}
	return entities
}
