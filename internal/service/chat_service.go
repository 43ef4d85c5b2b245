package service

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"time"

	"book-chatbot-be/internal/constant"
	"book-chatbot-be/internal/dto"
	"book-chatbot-be/internal/entity"
	"book-chatbot-be/internal/pkg/logger"
	"book-chatbot-be/internal/repository/specification"
	"book-chatbot-be/internal/repository/unitofwork"
	"book-chatbot-be/pkg/llm"
	"book-chatbot-be/pkg/rag/history"
	"book-chatbot-be/pkg/rag/response"
	"book-chatbot-be/pkg/rag/search"
	"book-chatbot-be/pkg/sanitize"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

var threadIdPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,255}$`)

type IChatService interface {
	SendMessage(ctx context.Context, user *entity.User, req *dto.SendMessageRequest) (*dto.SendMessageResponse, error)
	GetHistory(ctx context.Context, user *entity.User, req *dto.GetHistoryRequest) (*dto.GetHistoryResponse, error)
	ListThreads(ctx context.Context, user *entity.User) ([]*dto.ThreadSummaryDTO, error)
}

type chatService struct {
	uowFactory       unitofwork.RepositoryFactory
	searcher         *search.Searcher
	historyLoader    *history.Loader
	generator        *response.Generator
	publisherService IPublisherService
	efSearch         int
	logger           logger.ILogger
}

func NewChatService(
	uowFactory unitofwork.RepositoryFactory,
	searcher *search.Searcher,
	historyLoader *history.Loader,
	generator *response.Generator,
	publisherService IPublisherService,
	efSearch int,
	log logger.ILogger,
) IChatService {
	return &chatService{
		uowFactory:       uowFactory,
		searcher:         searcher,
		historyLoader:    historyLoader,
		generator:        generator,
		publisherService: publisherService,
		efSearch:         efSearch,
		logger:           log,
	}
}

// SendMessage runs one chat turn: validate, persist the question, gather
// retrieval and history concurrently, generate, persist the answer. The
// user's message is saved before generation and never rolled back, so a
// failed turn still leaves the question recorded.
func (s *chatService) SendMessage(ctx context.Context, user *entity.User, req *dto.SendMessageRequest) (*dto.SendMessageResponse, error) {
	started := time.Now()

	queryMode := req.QueryMode
	if queryMode == "" {
		queryMode = constant.QueryModeFullBook
	}

	message := sanitize.Text(req.Message)
	selectedText := sanitize.Text(req.SelectedText)

	if message == "" {
		return nil, NewValidationError("message must not be empty")
	}
	if len(message) > constant.MaxMessageLength {
		return nil, NewValidationError("message exceeds the maximum length")
	}
	if len(selectedText) > constant.MaxSelectedTextLength {
		return nil, NewValidationError("selected_text exceeds the maximum length")
	}
	// Gate before any retrieval or generation work is attempted.
	if queryMode == constant.QueryModeSelection && selectedText == "" {
		return nil, NewValidationError("selected_text is required in selection mode")
	}

	threadId := req.ThreadId
	if threadId == "" {
		// The only point where thread identity is minted.
		threadId = uuid.New().String()
	} else if !threadIdPattern.MatchString(threadId) {
		return nil, NewValidationError("thread_id contains invalid characters")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	userMetadata := map[string]interface{}{
		"query_mode": queryMode,
	}
	if queryMode == constant.QueryModeSelection {
		userMetadata["selected_text"] = selectedText
	}

	userMessage := &entity.ChatMessage{
		Id:        uuid.New(),
		UserId:    user.Id,
		ThreadId:  threadId,
		Role:      constant.ChatMessageRoleUser,
		Content:   message,
		Metadata:  userMetadata,
		CreatedAt: time.Now(),
	}
	if err := uow.ChatMessageRepository().Create(ctx, userMessage); err != nil {
		return nil, err
	}

	// Selection mode retrieves around the passage the reader highlighted,
	// not the question about it.
	searchText := message
	topK := constant.TopKFullBook
	if queryMode == constant.QueryModeSelection {
		searchText = selectedText
		topK = constant.TopKSelection
	}

	// Retrieval and history are independent reads; both must finish
	// before generation.
	var (
		chunks      []*entity.RetrievedChunk
		chatHistory []llm.Message
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var searchErr error
		chunks, searchErr = s.searcher.Execute(gctx, s.uowFactory.NewUnitOfWork(gctx), searchText, search.Config{
			TopK:     topK,
			EfSearch: s.efSearch,
		})
		if searchErr != nil {
			return fmt.Errorf("%w: %v", ErrRetrievalUnavailable, searchErr)
		}
		return nil
	})
	g.Go(func() error {
		// Offset 1 skips the user message persisted above.
		var histErr error
		chatHistory, histErr = s.historyLoader.LoadThreadHistory(gctx, user.Id, threadId, constant.PromptHistoryTurns, 1)
		return histErr
	})
	if err := g.Wait(); err != nil {
		s.logger.Error("chat", "Context gathering failed", map[string]interface{}{
			"thread_id": threadId,
			"error":     err.Error(),
		})
		return nil, err
	}

	answer, err := s.generator.Generate(ctx, message, queryMode, selectedText, chunks, chatHistory)
	if err != nil {
		s.logger.Error("chat", "Answer generation failed", map[string]interface{}{
			"thread_id": threadId,
			"error":     err.Error(),
		})
		return nil, err
	}

	chunkIds := make([]string, len(chunks))
	for i, c := range chunks {
		chunkIds[i] = c.Id.String()
	}

	assistantMetadata := map[string]interface{}{
		"query_mode":       queryMode,
		"chunk_ids":        chunkIds,
		"model_used":       s.generator.Model(),
		"response_time_ms": time.Since(started).Milliseconds(),
	}
	if queryMode == constant.QueryModeSelection {
		assistantMetadata["selected_text_context"] = selectedText
	}

	assistantMessage := &entity.ChatMessage{
		Id:        uuid.New(),
		UserId:    user.Id,
		ThreadId:  threadId,
		Role:      constant.ChatMessageRoleAssistant,
		Content:   answer,
		Metadata:  assistantMetadata,
		CreatedAt: time.Now(),
	}
	if err := uow.ChatMessageRepository().Create(ctx, assistantMessage); err != nil {
		return nil, err
	}

	s.publishTurnCompleted(ctx, user.Id, threadId)

	s.logger.Info("chat", "Chat turn completed", map[string]interface{}{
		"thread_id":        threadId,
		"query_mode":       queryMode,
		"chunks":           len(chunks),
		"response_time_ms": time.Since(started).Milliseconds(),
	})

	return &dto.SendMessageResponse{
		UserMessage:      toChatMessageDTO(userMessage),
		AssistantMessage: toChatMessageDTO(assistantMessage),
		ThreadId:         threadId,
	}, nil
}

func (s *chatService) GetHistory(ctx context.Context, user *entity.User, req *dto.GetHistoryRequest) (*dto.GetHistoryResponse, error) {
	if !threadIdPattern.MatchString(req.ThreadId) {
		return nil, NewValidationError("thread_id contains invalid characters")
	}

	limit := req.Limit
	if limit <= 0 {
		limit = 50
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	messages, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.OwnedBy{UserID: user.Id},
		specification.ByThreadID{ThreadID: req.ThreadId},
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: limit, Offset: req.Offset},
	)
	if err != nil {
		return nil, err
	}

	total, err := uow.ChatMessageRepository().Count(ctx,
		specification.OwnedBy{UserID: user.Id},
		specification.ByThreadID{ThreadID: req.ThreadId},
	)
	if err != nil {
		return nil, err
	}

	dtos := make([]*dto.ChatMessageDTO, len(messages))
	for i, m := range messages {
		dtos[i] = toChatMessageDTO(m)
	}

	return &dto.GetHistoryResponse{
		Messages: dtos,
		Total:    total,
		ThreadId: req.ThreadId,
	}, nil
}

func (s *chatService) ListThreads(ctx context.Context, user *entity.User) ([]*dto.ThreadSummaryDTO, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	threads, err := uow.ChatMessageRepository().ListThreads(ctx, user.Id)
	if err != nil {
		return nil, err
	}

	dtos := make([]*dto.ThreadSummaryDTO, len(threads))
	for i, t := range threads {
		dtos[i] = &dto.ThreadSummaryDTO{
			ThreadId:      t.ThreadId,
			LastMessageAt: t.LastMessageAt,
			MessageCount:  t.MessageCount,
		}
	}
	return dtos, nil
}

func (s *chatService) publishTurnCompleted(ctx context.Context, userId uuid.UUID, threadId string) {
	if s.publisherService == nil {
		return
	}
	payload, err := json.Marshal(dto.ChatTurnCompletedMessage{
		UserId:   userId,
		ThreadId: threadId,
	})
	if err != nil {
		return
	}
	if err := s.publisherService.Publish(ctx, payload); err != nil {
		s.logger.Warn("chat", "Failed to publish turn completed message", map[string]interface{}{
			"thread_id": threadId,
			"error":     err.Error(),
		})
	}
}

func toChatMessageDTO(m *entity.ChatMessage) *dto.ChatMessageDTO {
	return &dto.ChatMessageDTO{
		Id:        m.Id,
		ThreadId:  m.ThreadId,
		Role:      m.Role,
		Content:   m.Content,
		Metadata:  m.Metadata,
		CreatedAt: m.CreatedAt,
	}
}
