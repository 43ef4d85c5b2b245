package serverutils

import (
	"errors"
	"strings"
	"testing"

	"book-chatbot-be/internal/dto"
	"book-chatbot-be/internal/service"

	"github.com/stretchr/testify/assert"
)

func TestValidateSendMessageRequest(t *testing.T) {
	tests := []struct {
		name    string
		req     dto.SendMessageRequest
		wantErr bool
	}{
		{
			name: "minimal valid request",
			req:  dto.SendMessageRequest{Message: "what is osmosis?"},
		},
		{
			name: "valid thread id",
			req:  dto.SendMessageRequest{Message: "hi", ThreadId: "b0a8e7ec-4f7d-4a59-a9dd-2f54c6a3c001"},
		},
		{
			name:    "empty message",
			req:     dto.SendMessageRequest{Message: ""},
			wantErr: true,
		},
		{
			name:    "message over limit",
			req:     dto.SendMessageRequest{Message: strings.Repeat("a", 10001)},
			wantErr: true,
		},
		{
			name:    "thread id with path traversal",
			req:     dto.SendMessageRequest{Message: "hi", ThreadId: "../etc/passwd"},
			wantErr: true,
		},
		{
			name:    "unknown query mode",
			req:     dto.SendMessageRequest{Message: "hi", QueryMode: "chapter"},
			wantErr: true,
		},
		{
			name: "selection mode accepted",
			req:  dto.SendMessageRequest{Message: "hi", QueryMode: "selection", SelectedText: "the mitochondria"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(&tt.req)
			if tt.wantErr {
				assert.ErrorIs(t, err, service.ErrValidation)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidationErrorNamesField(t *testing.T) {
	err := ValidateStruct(&dto.GetHistoryRequest{ThreadId: ""})
	assert.ErrorIs(t, err, service.ErrValidation)

	var vErr *service.ValidationError
	assert.True(t, errors.As(err, &vErr))
	assert.Contains(t, vErr.Detail, "ThreadId")
}
