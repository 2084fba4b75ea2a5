package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"finassist/config"
	"finassist/internal/apperrors"
	"finassist/internal/dto"
	"finassist/internal/model"
	"finassist/internal/repository"
	"finassist/pkg/logger"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

type NewsService interface {
	Feed(ctx context.Context, userID uint) ([]dto.AnalyzedArticle, error)
	MarketOverview(ctx context.Context) (*dto.MarketOverviewResponse, error)
	StockNews(ctx context.Context, symbol string) (*dto.StockNewsResponse, error)
}

type newsService struct {
	cfg           *config.Config
	log           *logger.Logger
	portfolioRepo repository.PortfolioRepository
	newsRepo      repository.NewsRepository
	quoteRepo     repository.QuoteRepository
	aiRepo        repository.AIRepository
}

func NewNewsService(
	cfg *config.Config,
	log *logger.Logger,
	portfolioRepo repository.PortfolioRepository,
	newsRepo repository.NewsRepository,
	quoteRepo repository.QuoteRepository,
	aiRepo repository.AIRepository,
) NewsService {
	return &newsService{
		cfg:           cfg,
		log:           log,
		portfolioRepo: portfolioRepo,
		newsRepo:      newsRepo,
		quoteRepo:     quoteRepo,
		aiRepo:        aiRepo,
	}
}

// Feed builds the personalized feed: news for every held stock, capped, each
// article tagged with a model-derived sentiment. Per-symbol and per-article
// failures degrade to an empty slice or a neutral tag, never a request
// failure.
func (s *newsService) Feed(ctx context.Context, userID uint) ([]dto.AnalyzedArticle, error) {
	holdings, err := s.userHoldings(ctx, userID)
	if err != nil {
		return nil, err
	}

	perStock := make([][]dto.Article, len(holdings))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.News.MaxConcurrency)

	for i := range holdings {
		g.Go(func() error {
			articles, err := s.newsRepo.Search(gctx, holdings[i].StockName)
			if err != nil {
				s.log.WarnContext(gctx, "news lookup failed for stock",
					logger.StringField("stock", holdings[i].StockName),
					logger.ErrorField(err))
				return nil
			}
			perStock[i] = articles
			return nil
		})
	}
	_ = g.Wait()

	var allNews []dto.Article
	for _, articles := range perStock {
		allNews = append(allNews, articles...)
	}
	if len(allNews) > s.cfg.News.FeedLimit {
		allNews = allNews[:s.cfg.News.FeedLimit]
	}

	analyzed := make([]dto.AnalyzedArticle, len(allNews))
	g, gctx = errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.News.MaxConcurrency)

	for i := range allNews {
		g.Go(func() error {
			analyzed[i] = dto.AnalyzedArticle{
				Article:   allNews[i],
				Sentiment: s.classifySentiment(gctx, allNews[i].Title),
			}
			return nil
		})
	}
	_ = g.Wait()

	return analyzed, nil
}

// MarketOverview fetches quotes for the configured indices concurrently.
// Indices that fail are omitted from the response.
func (s *newsService) MarketOverview(ctx context.Context) (*dto.MarketOverviewResponse, error) {
	quotes := make([]*dto.IndexQuote, len(s.cfg.News.Indices))

	g, gctx := errgroup.WithContext(ctx)
	for i, symbol := range s.cfg.News.Indices {
		g.Go(func() error {
			quote, err := s.quoteRepo.GlobalQuote(gctx, symbol)
			if err != nil {
				s.log.WarnContext(gctx, "quote lookup failed for index",
					logger.StringField("symbol", symbol),
					logger.ErrorField(err))
				return nil
			}
			quotes[i] = quote
			return nil
		})
	}
	_ = g.Wait()

	indices := make([]dto.IndexQuote, 0, len(quotes))
	for _, quote := range quotes {
		if quote != nil {
			indices = append(indices, *quote)
		}
	}

	return &dto.MarketOverviewResponse{Indices: indices}, nil
}

func (s *newsService) StockNews(ctx context.Context, symbol string) (*dto.StockNewsResponse, error) {
	quote, err := s.quoteRepo.GlobalQuote(ctx, symbol)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrUpstream, err)
	}

	articles, err := s.newsRepo.Search(ctx, symbol)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrUpstream, err)
	}

	return &dto.StockNewsResponse{
		Price: dto.StockPrice{
			Current:       quote.Price,
			Change:        quote.Change,
			ChangePercent: quote.ChangePercent,
		},
		News: articles,
	}, nil
}

// classifySentiment asks the model about an article title and scans the
// free-form answer for the literal words. Positive wins when both appear;
// any collaborator fault degrades to neutral.
func (s *newsService) classifySentiment(ctx context.Context, title string) string {
	prompt := fmt.Sprintf("Analyze the sentiment of this article title: %q", title)

	analysis, err := s.aiRepo.GenerateText(ctx, prompt)
	if err != nil {
		s.log.WarnContext(ctx, "sentiment analysis failed",
			logger.StringField("title", title),
			logger.ErrorField(err))
		return model.SentimentNeutral
	}

	lowered := strings.ToLower(analysis)
	switch {
	case strings.Contains(lowered, model.SentimentPositive):
		return model.SentimentPositive
	case strings.Contains(lowered, model.SentimentNegative):
		return model.SentimentNegative
	default:
		return model.SentimentNeutral
	}
}

func (s *newsService) userHoldings(ctx context.Context, userID uint) ([]model.Holding, error) {
	portfolio, err := s.portfolioRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return portfolio.Holdings, nil
}
