package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"finassist/config"
	"finassist/internal/apperrors"
	"finassist/internal/dto"
	"finassist/internal/model"
	"finassist/internal/repository"
	"finassist/pkg/logger"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// financialContext frames every assistant prompt so replies stay on topic.
const financialContext = `You are a knowledgeable financial advisor assistant.
Help users with financial queries, investment advice, and financial literacy.
Provide clear, informative responses while noting that this is general advice
and users should consult with professional financial advisors for personalized guidance.`

type ChatService interface {
	History(ctx context.Context, userID uint) ([]model.Chat, error)
	Get(ctx context.Context, userID uint, chatID string) (*model.Chat, error)
	Create(ctx context.Context, userID uint, title string) (*model.Chat, error)
	SendMessage(ctx context.Context, userID uint, chatID, content, exchangeID string) (*dto.SendMessageResponse, error)
	Delete(ctx context.Context, userID uint, chatID string) error
}

type chatService struct {
	cfg      *config.Config
	log      *logger.Logger
	chatRepo repository.ChatRepository
	aiRepo   repository.AIRepository
}

func NewChatService(
	cfg *config.Config,
	log *logger.Logger,
	chatRepo repository.ChatRepository,
	aiRepo repository.AIRepository,
) ChatService {
	return &chatService{cfg: cfg, log: log, chatRepo: chatRepo, aiRepo: aiRepo}
}

func (s *chatService) History(ctx context.Context, userID uint) ([]model.Chat, error) {
	chats, err := s.chatRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if chats == nil {
		chats = []model.Chat{}
	}
	return chats, nil
}

func (s *chatService) Get(ctx context.Context, userID uint, chatID string) (*model.Chat, error) {
	return s.getOwned(ctx, userID, chatID)
}

func (s *chatService) Create(ctx context.Context, userID uint, title string) (*model.Chat, error) {
	chat := &model.Chat{
		ID:            uuid.NewString(),
		UserID:        userID,
		Title:         title,
		Messages:      datatypes.JSONSlice[model.ChatMessage]{},
		Sentiment:     model.SentimentNeutral,
		RelatedStocks: datatypes.JSONSlice[string]{},
	}

	if err := s.chatRepo.Create(ctx, chat); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return chat, nil
}

// SendMessage appends a user message and the model's reply as one atomic
// pair. The exchange id makes the operation idempotent: a client retrying
// the exchange the chat last committed gets the stored transcript back
// without a second model invocation.
func (s *chatService) SendMessage(ctx context.Context, userID uint, chatID, content, exchangeID string) (*dto.SendMessageResponse, error) {
	chat, err := s.getOwned(ctx, userID, chatID)
	if err != nil {
		return nil, err
	}

	if exchangeID == "" {
		exchangeID = uuid.NewString()
	} else if chat.LastExchangeID == exchangeID {
		s.log.InfoContext(ctx, "duplicate exchange, returning stored transcript",
			logger.StringField("chat_id", chatID),
			logger.StringField("exchange_id", exchangeID))
		return &dto.SendMessageResponse{ID: chat.ID, Messages: chat.Messages}, nil
	}

	userMsg := model.ChatMessage{
		Role:      model.RoleUser,
		Content:   content,
		Timestamp: time.Now(),
	}

	prompt := fmt.Sprintf("%s\n\nUser Query: %s", financialContext, content)
	reply, err := s.aiRepo.GenerateText(ctx, prompt)
	if err != nil {
		s.log.ErrorContext(ctx, "generative reply failed",
			logger.StringField("chat_id", chatID),
			logger.ErrorField(err))
		return nil, apperrors.Wrap(apperrors.ErrUpstream, err)
	}

	assistantMsg := model.ChatMessage{
		Role:      model.RoleAssistant,
		Content:   reply,
		Timestamp: time.Now(),
	}

	messages, err := s.chatRepo.AppendExchange(ctx, chatID, userMsg, assistantMsg, exchangeID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return &dto.SendMessageResponse{ID: chatID, Messages: messages}, nil
}

func (s *chatService) Delete(ctx context.Context, userID uint, chatID string) error {
	if _, err := s.getOwned(ctx, userID, chatID); err != nil {
		return err
	}
	if err := s.chatRepo.Delete(ctx, chatID); err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// getOwned loads a chat and checks ownership. A missing chat and a chat
// owned by someone else are distinguishable failures, in that order.
func (s *chatService) getOwned(ctx context.Context, userID uint, chatID string) (*model.Chat, error) {
	chat, err := s.chatRepo.GetByID(ctx, chatID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrChatNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if chat.UserID != userID {
		return nil, apperrors.ErrForbidden
	}
	return chat, nil
}
