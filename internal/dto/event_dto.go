package dto

import "github.com/google/uuid"

// ChatTurnCompletedMessage is the payload published after a successful
// chat turn. The consumer increments the user's daily usage counter.
type ChatTurnCompletedMessage struct {
	UserId   uuid.UUID `json:"user_id"`
	ThreadId string    `json:"thread_id"`
}
