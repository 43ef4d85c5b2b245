package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"book-chatbot-be/internal/dto"
	"book-chatbot-be/internal/repository/specification"
	"book-chatbot-be/internal/repository/unitofwork"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	pubSub     *gochannel.GoChannel
	topicName  string
	uowFactory unitofwork.RepositoryFactory
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
) IConsumerService {
	return &consumerService{
		pubSub:     pubSub,
		topicName:  topicName,
		uowFactory: uowFactory,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.ChatTurnCompletedMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("[ERROR] Failed to unmarshal message: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: payload.UserId})
	if err != nil {
		log.Printf("[ERROR] Failed to get user %s: %v", payload.UserId, err)
		msg.Nack() // Nack for retriable errors
		return
	}
	if user == nil {
		log.Printf("[ERROR] User not found: %s", payload.UserId)
		msg.Ack() // User deleted? Ack.
		return
	}

	// Counter rolls over at the first turn of a new day.
	now := time.Now()
	if !sameDay(user.ChatDailyUsageLastReset, now) {
		if err := uow.UserRepository().ResetDailyUsage(ctx, user.Id, now); err != nil {
			log.Printf("[ERROR] Failed to reset daily usage for %s: %v", user.Id, err)
			msg.Nack()
			return
		}
	}

	if err := uow.UserRepository().IncrementDailyUsage(ctx, user.Id); err != nil {
		log.Printf("[ERROR] Failed to increment daily usage for %s: %v", user.Id, err)
		msg.Nack()
		return
	}

	msg.Ack()
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
