package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"finassist/internal/dto"
	"finassist/internal/model"
	"finassist/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newNewsService(t *testing.T, db *gorm.DB, news *fakeNewsRepo, quotes *fakeQuoteRepo, ai *fakeAIRepo) NewsService {
	t.Helper()
	if news == nil {
		news = &fakeNewsRepo{}
	}
	if quotes == nil {
		quotes = &fakeQuoteRepo{}
	}
	if ai == nil {
		ai = &fakeAIRepo{reply: "neutral"}
	}
	return NewNewsService(newTestConfig(), newTestLogger(t),
		repository.NewPortfolioRepository(db), news, quotes, ai)
}

func seedHoldings(t *testing.T, db *gorm.DB, userID uint, stocks ...string) {
	t.Helper()
	repo := repository.NewPortfolioRepository(db)
	ctx := context.Background()

	portfolio := &model.Portfolio{UserID: userID}
	require.NoError(t, repo.Create(ctx, portfolio))
	for _, stock := range stocks {
		require.NoError(t, repo.CreateHolding(ctx, &model.Holding{
			PortfolioID: portfolio.ID,
			StockName:   stock,
			Quantity:    1,
		}))
	}
}

func articlesFor(symbol string, n int) []dto.Article {
	articles := make([]dto.Article, n)
	for i := range articles {
		articles[i] = dto.Article{Title: fmt.Sprintf("%s headline %d", symbol, i)}
	}
	return articles
}

func TestNewsService_Feed(t *testing.T) {
	ctx := context.Background()

	t.Run("caps the feed and tags every article", func(t *testing.T) {
		db := setupTestDB(t)
		user := createTestUser(t, db, "feed@example.com")
		seedHoldings(t, db, user.ID, "TCS", "INFY")

		news := &fakeNewsRepo{articles: map[string][]dto.Article{
			"TCS":  articlesFor("TCS", 6),
			"INFY": articlesFor("INFY", 6),
		}}
		ai := &fakeAIRepo{reply: "The tone is broadly positive."}
		svc := newNewsService(t, db, news, nil, ai)

		feed, err := svc.Feed(ctx, user.ID)
		require.NoError(t, err)

		assert.Len(t, feed, 10)
		for _, article := range feed {
			assert.Equal(t, model.SentimentPositive, article.Sentiment)
		}
	})

	t.Run("a failing symbol degrades to fewer articles", func(t *testing.T) {
		db := setupTestDB(t)
		user := createTestUser(t, db, "partial@example.com")
		seedHoldings(t, db, user.ID, "TCS", "BROKEN")

		news := &fakeNewsRepo{articles: map[string][]dto.Article{
			"TCS": articlesFor("TCS", 3),
		}}
		svc := newNewsService(t, db, news, nil, nil)

		feed, err := svc.Feed(ctx, user.ID)
		require.NoError(t, err)
		assert.Len(t, feed, 3)
	})

	t.Run("user without portfolio gets an empty feed", func(t *testing.T) {
		db := setupTestDB(t)
		user := createTestUser(t, db, "nofeed@example.com")
		svc := newNewsService(t, db, nil, nil, nil)

		feed, err := svc.Feed(ctx, user.ID)
		require.NoError(t, err)
		assert.Empty(t, feed)
	})
}

func TestNewsService_MarketOverview(t *testing.T) {
	ctx := context.Background()

	t.Run("omits indices whose quote fails", func(t *testing.T) {
		db := setupTestDB(t)
		quotes := &fakeQuoteRepo{quotes: map[string]dto.IndexQuote{
			"SENSEX":  {Symbol: "SENSEX", Price: 80000, Change: 120, ChangePercent: "0.15%"},
			"NIFTY50": {Symbol: "NIFTY50", Price: 24000, Change: -30, ChangePercent: "-0.12%"},
		}}
		svc := newNewsService(t, db, nil, quotes, nil)

		overview, err := svc.MarketOverview(ctx)
		require.NoError(t, err)

		require.Len(t, overview.Indices, 2)
		assert.Equal(t, "SENSEX", overview.Indices[0].Symbol)
		assert.Equal(t, "NIFTY50", overview.Indices[1].Symbol)
	})
}

func TestNewsService_StockNews(t *testing.T) {
	ctx := context.Background()

	t.Run("combines quote and articles", func(t *testing.T) {
		db := setupTestDB(t)
		quotes := &fakeQuoteRepo{quotes: map[string]dto.IndexQuote{
			"TCS": {Symbol: "TCS", Price: 3550, Change: 50, ChangePercent: "1.43%"},
		}}
		news := &fakeNewsRepo{articles: map[string][]dto.Article{
			"TCS": articlesFor("TCS", 2),
		}}
		svc := newNewsService(t, db, news, quotes, nil)

		resp, err := svc.StockNews(ctx, "TCS")
		require.NoError(t, err)

		assert.Equal(t, float64(3550), resp.Price.Current)
		assert.Equal(t, "1.43%", resp.Price.ChangePercent)
		assert.Len(t, resp.News, 2)
	})

	t.Run("quote failure is an upstream error", func(t *testing.T) {
		db := setupTestDB(t)
		svc := newNewsService(t, db, nil, nil, nil)

		_, err := svc.StockNews(ctx, "UNKNOWN")
		assertAppCode(t, err, "UPSTREAM_FAILURE")
	})
}

func TestNewsService_classifySentiment(t *testing.T) {
	ctx := context.Background()

	cases := []struct {
		name  string
		reply string
		err   error
		want  string
	}{
		{name: "positive anywhere in the answer", reply: "This is POSITIVE news overall", want: model.SentimentPositive},
		{name: "negative answer", reply: "the outlook seems negative", want: model.SentimentNegative},
		{name: "positive wins when both appear", reply: "mixed: positive short term, negative long term", want: model.SentimentPositive},
		{name: "no keyword", reply: "hard to say", want: model.SentimentNeutral},
		{name: "model failure degrades to neutral", err: errors.New("quota exhausted"), want: model.SentimentNeutral},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			db := setupTestDB(t)
			ai := &fakeAIRepo{reply: tc.reply, err: tc.err}
			svc := newNewsService(t, db, nil, nil, ai).(*newsService)

			got := svc.classifySentiment(ctx, "Quarterly results announced")
			assert.Equal(t, tc.want, got)
		})
	}
}
