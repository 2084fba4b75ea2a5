package service

import (
	"finassist/config"
	"finassist/internal/repository"
	"finassist/pkg/logger"
)

type Service struct {
	AuthService         AuthService
	PortfolioService    PortfolioService
	ChatService         ChatService
	NewsService         NewsService
	PriceRefreshService *PriceRefreshService
}

func NewService(
	cfg *config.Config,
	log *logger.Logger,
	repo *repository.Repository,
) *Service {
	portfolioService := NewPortfolioService(cfg, log, repo.PortfolioRepo, repo.QuoteRepo)

	return &Service{
		AuthService:         NewAuthService(cfg, log, repo.UserRepo),
		PortfolioService:    portfolioService,
		ChatService:         NewChatService(cfg, log, repo.ChatRepo, repo.AIRepo),
		NewsService:         NewNewsService(cfg, log, repo.PortfolioRepo, repo.NewsRepo, repo.QuoteRepo, repo.AIRepo),
		PriceRefreshService: NewPriceRefreshService(cfg, log, portfolioService),
	}
}
