package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"finassist/config"
	"finassist/internal/apperrors"
	"finassist/internal/dto"
	"finassist/internal/model"
	"finassist/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormLogger.Default.LogMode(gormLogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.Portfolio{},
		&model.Holding{},
		&model.Chat{},
	))
	return db
}

func newTestLogger(t *testing.T) *logger.Logger {
	t.Helper()

	log, err := logger.New("error", "console")
	require.NoError(t, err)
	return log
}

func newTestConfig() *config.Config {
	return &config.Config{
		Auth: config.Auth{
			JWTSecret:   "test-secret",
			TokenExpiry: time.Hour,
		},
		News: config.News{
			FeedLimit:      10,
			MaxConcurrency: 4,
			Indices:        []string{"SENSEX", "NIFTY50", "BANKNIFTY"},
		},
	}
}

func createTestUser(t *testing.T, db *gorm.DB, email string) *model.User {
	t.Helper()

	user := &model.User{
		Email:        email,
		Password:     "not-a-real-hash",
		Name:         "Test User",
		InvestorType: model.InvestorTypeBeginner,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func assertAppCode(t *testing.T, err error, code string) {
	t.Helper()

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, code, appErr.Code)
}

type fakeAIRepo struct {
	mu         sync.Mutex
	reply      string
	err        error
	calls      int
	lastPrompt string
}

func (f *fakeAIRepo) GenerateText(ctx context.Context, prompt string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.lastPrompt = prompt
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func (f *fakeAIRepo) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeQuoteRepo struct {
	quotes map[string]dto.IndexQuote
}

func (f *fakeQuoteRepo) GlobalQuote(ctx context.Context, symbol string) (*dto.IndexQuote, error) {
	quote, ok := f.quotes[symbol]
	if !ok {
		return nil, fmt.Errorf("no quote data for symbol %s", symbol)
	}
	return &quote, nil
}

type fakeNewsRepo struct {
	articles map[string][]dto.Article
}

func (f *fakeNewsRepo) Search(ctx context.Context, query string) ([]dto.Article, error) {
	articles, ok := f.articles[query]
	if !ok {
		return nil, fmt.Errorf("news lookup failed for %s", query)
	}
	return articles, nil
}
