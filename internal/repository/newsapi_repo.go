package repository

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"finassist/config"
	"finassist/internal/dto"
	"finassist/pkg/httpclient"
	"finassist/pkg/logger"

	"golang.org/x/time/rate"
)

// NewsRepository is the news-search collaborator.
type NewsRepository interface {
	Search(ctx context.Context, query string) ([]dto.Article, error)
}

type newsAPIRepository struct {
	httpClient     httpclient.HTTPClient
	cfg            *config.Config
	logger         *logger.Logger
	requestLimiter *rate.Limiter
}

// NewNewsAPIRepository creates a NewsRepository backed by newsapi.org.
func NewNewsAPIRepository(cfg *config.Config, log *logger.Logger) NewsRepository {
	secondsPerRequest := time.Minute / time.Duration(cfg.NewsAPI.MaxRequestPerMinute)

	return &newsAPIRepository{
		httpClient:     httpclient.New(log, cfg.NewsAPI.BaseURL, cfg.NewsAPI.Timeout, ""),
		cfg:            cfg,
		logger:         log,
		requestLimiter: rate.NewLimiter(rate.Every(secondsPerRequest), 1),
	}
}

func (r *newsAPIRepository) Search(ctx context.Context, query string) ([]dto.Article, error) {
	if err := r.requestLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	queryParams := map[string]string{
		"q":        query,
		"sortBy":   "publishedAt",
		"language": "en",
		"apiKey":   r.cfg.NewsAPI.APIKey,
	}

	var newsResp dto.NewsAPIResponse
	resp, err := r.httpClient.Get(ctx, "/everything", queryParams, nil, &newsResp)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch news for %q: %w", query, err)
	}

	if resp.StatusCode != http.StatusOK {
		r.logger.ErrorContext(ctx, "NewsAPI returned non-OK status",
			logger.IntField("status_code", resp.StatusCode),
			logger.StringField("query", query))
		return nil, fmt.Errorf("newsapi returned status: %d", resp.StatusCode)
	}

	if newsResp.Status != "ok" {
		return nil, fmt.Errorf("newsapi error status: %s", newsResp.Status)
	}

	return newsResp.Articles, nil
}
