package repository

import (
	"context"
	"time"

	"finassist/internal/model"
	"finassist/pkg/utils"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ChatRepository interface {
	ListByUser(ctx context.Context, userID uint) ([]model.Chat, error)
	GetByID(ctx context.Context, chatID string, opts ...utils.DBOption) (*model.Chat, error)
	Create(ctx context.Context, chat *model.Chat) error
	AppendExchange(ctx context.Context, chatID string, userMsg, assistantMsg model.ChatMessage, exchangeID string) ([]model.ChatMessage, error)
	Delete(ctx context.Context, chatID string) error
}

type chatRepository struct {
	db *gorm.DB
}

func NewChatRepository(db *gorm.DB) ChatRepository {
	return &chatRepository{db: db}
}

func (r *chatRepository) ListByUser(ctx context.Context, userID uint) ([]model.Chat, error) {
	var chats []model.Chat
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&chats).Error
	if err != nil {
		return nil, err
	}
	return chats, nil
}

func (r *chatRepository) GetByID(ctx context.Context, chatID string, opts ...utils.DBOption) (*model.Chat, error) {
	var chat model.Chat
	db := utils.ApplyOptions(r.db.WithContext(ctx), opts...)
	if err := db.Where("id = ?", chatID).First(&chat).Error; err != nil {
		return nil, err
	}
	return &chat, nil
}

func (r *chatRepository) Create(ctx context.Context, chat *model.Chat) error {
	return r.db.WithContext(ctx).Create(chat).Error
}

// AppendExchange appends a user/assistant message pair to the transcript in a
// single transaction. The transcript is re-read under a FOR UPDATE row lock so
// concurrent appends serialize on the read; without the lock two writers would
// both read the same transcript and the second commit would drop the first
// pair.
func (r *chatRepository) AppendExchange(ctx context.Context, chatID string, userMsg, assistantMsg model.ChatMessage, exchangeID string) ([]model.ChatMessage, error) {
	var messages datatypes.JSONSlice[model.ChatMessage]

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		chat, err := r.GetByID(ctx, chatID, utils.WithTx(tx), utils.WithLock())
		if err != nil {
			return err
		}

		messages = append(chat.Messages, userMsg, assistantMsg)
		return tx.Model(&model.Chat{}).
			Where("id = ?", chatID).
			Updates(map[string]interface{}{
				"messages":         messages,
				"last_exchange_id": exchangeID,
				"updated_at":       time.Now(),
			}).Error
	})
	if err != nil {
		return nil, err
	}
	return messages, nil
}

func (r *chatRepository) Delete(ctx context.Context, chatID string) error {
	return r.db.WithContext(ctx).Where("id = ?", chatID).Delete(&model.Chat{}).Error
}
