package dto

import (
	"time"

	"github.com/google/uuid"
)

type SendMessageRequest struct {
	Message      string `json:"message" validate:"required,min=1,max=10000"`
	ThreadId     string `json:"thread_id,omitempty" validate:"omitempty,max=255,thread_id"`
	QueryMode    string `json:"query_mode,omitempty" validate:"omitempty,oneof=full_book selection"`
	SelectedText string `json:"selected_text,omitempty" validate:"omitempty,max=5000"`
}

type ChatMessageDTO struct {
	Id        uuid.UUID              `json:"id"`
	ThreadId  string                 `json:"thread_id"`
	Role      string                 `json:"role"`
	Content   string                 `json:"content"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
}

type SendMessageResponse struct {
	UserMessage      *ChatMessageDTO `json:"user_message"`
	AssistantMessage *ChatMessageDTO `json:"assistant_message"`
	ThreadId         string          `json:"thread_id"`
}

type GetHistoryRequest struct {
	ThreadId string `query:"thread_id" validate:"required,max=255,thread_id"`
	Limit    int    `query:"limit" validate:"omitempty,min=1,max=100"`
	Offset   int    `query:"offset" validate:"omitempty,min=0"`
}

type GetHistoryResponse struct {
	Messages []*ChatMessageDTO `json:"messages"`
	Total    int64             `json:"total"`
	ThreadId string            `json:"thread_id"`
}

type ThreadSummaryDTO struct {
	ThreadId      string    `json:"thread_id"`
	LastMessageAt time.Time `json:"last_message_at"`
	MessageCount  int64     `json:"message_count"`
}
