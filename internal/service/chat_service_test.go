package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"finassist/internal/model"
	"finassist/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newChatService(t *testing.T, db *gorm.DB, ai *fakeAIRepo) ChatService {
	t.Helper()
	if ai == nil {
		ai = &fakeAIRepo{reply: "Here is some general advice."}
	}
	return NewChatService(newTestConfig(), newTestLogger(t), repository.NewChatRepository(db), ai)
}

func TestChatService_Create(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	svc := newChatService(t, db, nil)
	user := createTestUser(t, db, "chat@example.com")

	chat, err := svc.Create(ctx, user.ID, "Retirement planning")
	require.NoError(t, err)

	assert.NotEmpty(t, chat.ID)
	assert.Equal(t, "Retirement planning", chat.Title)
	assert.Equal(t, model.SentimentNeutral, chat.Sentiment)
	assert.Empty(t, chat.Messages)
	assert.Empty(t, chat.RelatedStocks)
}

func TestChatService_History(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	svc := newChatService(t, db, nil)
	user := createTestUser(t, db, "history@example.com")

	first, err := svc.Create(ctx, user.ID, "First")
	require.NoError(t, err)
	second, err := svc.Create(ctx, user.ID, "Second")
	require.NoError(t, err)

	// Force distinct creation times so ordering is deterministic.
	require.NoError(t, db.Model(&model.Chat{}).Where("id = ?", first.ID).
		Update("created_at", time.Now().Add(-time.Hour)).Error)

	chats, err := svc.History(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, chats, 2)
	assert.Equal(t, second.ID, chats[0].ID)
	assert.Equal(t, first.ID, chats[1].ID)

	t.Run("empty for user without chats", func(t *testing.T) {
		other := createTestUser(t, db, "nochats@example.com")
		chats, err := svc.History(ctx, other.ID)
		require.NoError(t, err)
		assert.NotNil(t, chats)
		assert.Empty(t, chats)
	})
}

func TestChatService_SendMessage(t *testing.T) {
	ctx := context.Background()

	t.Run("appends the exchange as a pair", func(t *testing.T) {
		db := setupTestDB(t)
		ai := &fakeAIRepo{reply: "Diversify across asset classes."}
		svc := newChatService(t, db, ai)
		user := createTestUser(t, db, "send@example.com")

		chat, err := svc.Create(ctx, user.ID, "Advice")
		require.NoError(t, err)

		resp, err := svc.SendMessage(ctx, user.ID, chat.ID, "How should I invest?", "")
		require.NoError(t, err)

		require.Len(t, resp.Messages, 2)
		assert.Equal(t, model.RoleUser, resp.Messages[0].Role)
		assert.Equal(t, "How should I invest?", resp.Messages[0].Content)
		assert.Equal(t, model.RoleAssistant, resp.Messages[1].Role)
		assert.Equal(t, "Diversify across asset classes.", resp.Messages[1].Content)

		assert.Contains(t, ai.lastPrompt, "User Query: How should I invest?")
		assert.Contains(t, ai.lastPrompt, "financial advisor assistant")
	})

	t.Run("second exchange extends the transcript by exactly one pair", func(t *testing.T) {
		db := setupTestDB(t)
		ai := &fakeAIRepo{reply: "Start with index funds."}
		svc := newChatService(t, db, ai)
		user := createTestUser(t, db, "twoexchanges@example.com")

		chat, err := svc.Create(ctx, user.ID, "Basics")
		require.NoError(t, err)

		_, err = svc.SendMessage(ctx, user.ID, chat.ID, "Where do I start?", "")
		require.NoError(t, err)

		ai.reply = "Keep six months of expenses liquid."
		resp, err := svc.SendMessage(ctx, user.ID, chat.ID, "What about emergencies?", "")
		require.NoError(t, err)

		require.Len(t, resp.Messages, 4)
		assert.Equal(t, model.RoleUser, resp.Messages[0].Role)
		assert.Equal(t, "Where do I start?", resp.Messages[0].Content)
		assert.Equal(t, model.RoleAssistant, resp.Messages[1].Role)
		assert.Equal(t, "Start with index funds.", resp.Messages[1].Content)
		assert.Equal(t, model.RoleUser, resp.Messages[2].Role)
		assert.Equal(t, "What about emergencies?", resp.Messages[2].Content)
		assert.Equal(t, model.RoleAssistant, resp.Messages[3].Role)
		assert.Equal(t, "Keep six months of expenses liquid.", resp.Messages[3].Content)

		stored, err := svc.Get(ctx, user.ID, chat.ID)
		require.NoError(t, err)
		assert.Len(t, stored.Messages, 4)
	})

	t.Run("retried exchange returns stored transcript without a second model call", func(t *testing.T) {
		db := setupTestDB(t)
		ai := &fakeAIRepo{reply: "Buy low, sell high."}
		svc := newChatService(t, db, ai)
		user := createTestUser(t, db, "retry@example.com")

		chat, err := svc.Create(ctx, user.ID, "Retries")
		require.NoError(t, err)

		first, err := svc.SendMessage(ctx, user.ID, chat.ID, "Any tips?", "exchange-1")
		require.NoError(t, err)
		require.Len(t, first.Messages, 2)

		second, err := svc.SendMessage(ctx, user.ID, chat.ID, "Any tips?", "exchange-1")
		require.NoError(t, err)

		assert.Equal(t, 1, ai.callCount())
		assert.Len(t, second.Messages, 2)
		assert.Equal(t, first.Messages[1].Content, second.Messages[1].Content)
	})

	t.Run("model failure leaves the transcript untouched", func(t *testing.T) {
		db := setupTestDB(t)
		ai := &fakeAIRepo{err: errors.New("quota exhausted")}
		svc := newChatService(t, db, ai)
		user := createTestUser(t, db, "fail@example.com")

		chat, err := svc.Create(ctx, user.ID, "Failures")
		require.NoError(t, err)

		_, err = svc.SendMessage(ctx, user.ID, chat.ID, "Hello?", "")
		assertAppCode(t, err, "UPSTREAM_FAILURE")

		stored, err := svc.Get(ctx, user.ID, chat.ID)
		require.NoError(t, err)
		assert.Empty(t, stored.Messages)
	})

	t.Run("unknown chat", func(t *testing.T) {
		db := setupTestDB(t)
		svc := newChatService(t, db, nil)
		user := createTestUser(t, db, "unknownchat@example.com")

		_, err := svc.SendMessage(ctx, user.ID, "no-such-chat", "Hello", "")
		assertAppCode(t, err, "CHAT_NOT_FOUND")
	})

	t.Run("someone else's chat", func(t *testing.T) {
		db := setupTestDB(t)
		svc := newChatService(t, db, nil)
		owner := createTestUser(t, db, "owner@example.com")
		intruder := createTestUser(t, db, "intruder@example.com")

		chat, err := svc.Create(ctx, owner.ID, "Private")
		require.NoError(t, err)

		_, err = svc.SendMessage(ctx, intruder.ID, chat.ID, "Hello", "")
		assertAppCode(t, err, "FORBIDDEN")
	})
}

func TestChatService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("deleted chat is gone", func(t *testing.T) {
		db := setupTestDB(t)
		svc := newChatService(t, db, nil)
		user := createTestUser(t, db, "delete@example.com")

		chat, err := svc.Create(ctx, user.ID, "Ephemeral")
		require.NoError(t, err)

		require.NoError(t, svc.Delete(ctx, user.ID, chat.ID))

		_, err = svc.Get(ctx, user.ID, chat.ID)
		assertAppCode(t, err, "CHAT_NOT_FOUND")
	})

	t.Run("cannot delete someone else's chat", func(t *testing.T) {
		db := setupTestDB(t)
		svc := newChatService(t, db, nil)
		owner := createTestUser(t, db, "delowner@example.com")
		intruder := createTestUser(t, db, "delintruder@example.com")

		chat, err := svc.Create(ctx, owner.ID, "Private")
		require.NoError(t, err)

		err = svc.Delete(ctx, intruder.ID, chat.ID)
		assertAppCode(t, err, "FORBIDDEN")

		_, err = svc.Get(ctx, owner.ID, chat.ID)
		require.NoError(t, err)
	})
}
