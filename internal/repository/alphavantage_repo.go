package repository

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"finassist/config"
	"finassist/internal/dto"
	"finassist/pkg/cache"
	"finassist/pkg/httpclient"
	"finassist/pkg/logger"
)

// QuoteRepository is the stock-quote collaborator.
type QuoteRepository interface {
	GlobalQuote(ctx context.Context, symbol string) (*dto.IndexQuote, error)
}

type alphaVantageRepository struct {
	httpClient httpclient.HTTPClient
	cfg        *config.Config
	logger     *logger.Logger
	cache      cache.Cache
}

// NewAlphaVantageRepository creates a QuoteRepository backed by the Alpha
// Vantage GLOBAL_QUOTE function. Quotes are cached for the configured TTL.
func NewAlphaVantageRepository(cfg *config.Config, inmemoryCache cache.Cache, log *logger.Logger) QuoteRepository {
	return &alphaVantageRepository{
		httpClient: httpclient.New(log, cfg.AlphaVantage.BaseURL, cfg.AlphaVantage.Timeout, ""),
		cfg:        cfg,
		logger:     log,
		cache:      inmemoryCache,
	}
}

func quoteCacheKey(symbol string) string {
	return "quote:" + symbol
}

func (r *alphaVantageRepository) GlobalQuote(ctx context.Context, symbol string) (*dto.IndexQuote, error) {
	if cached, found := cache.Get[dto.IndexQuote](r.cache, quoteCacheKey(symbol)); found {
		return &cached, nil
	}

	queryParams := map[string]string{
		"function": "GLOBAL_QUOTE",
		"symbol":   symbol,
		"apikey":   r.cfg.AlphaVantage.APIKey,
	}

	var quoteResp dto.GlobalQuoteResponse
	resp, err := r.httpClient.Get(ctx, "/query", queryParams, nil, &quoteResp)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch quote for %s: %w", symbol, err)
	}

	if resp.StatusCode != http.StatusOK {
		r.logger.ErrorContext(ctx, "Alpha Vantage returned non-OK status",
			logger.IntField("status_code", resp.StatusCode),
			logger.StringField("symbol", symbol))
		return nil, fmt.Errorf("alpha vantage returned status: %d", resp.StatusCode)
	}

	if quoteResp.GlobalQuote.Price == "" {
		return nil, fmt.Errorf("no quote data returned for symbol: %s", symbol)
	}

	price, err := strconv.ParseFloat(quoteResp.GlobalQuote.Price, 64)
	if err != nil {
		return nil, fmt.Errorf("malformed price %q for symbol %s: %w", quoteResp.GlobalQuote.Price, symbol, err)
	}
	change, err := strconv.ParseFloat(quoteResp.GlobalQuote.Change, 64)
	if err != nil {
		return nil, fmt.Errorf("malformed change %q for symbol %s: %w", quoteResp.GlobalQuote.Change, symbol, err)
	}

	quote := dto.IndexQuote{
		Symbol:        symbol,
		Price:         price,
		Change:        change,
		ChangePercent: quoteResp.GlobalQuote.ChangePercent,
	}

	r.cache.Set(quoteCacheKey(symbol), quote, r.cfg.AlphaVantage.QuoteTTL)
	return &quote, nil
}
