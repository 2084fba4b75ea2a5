package repository

import (
	"finassist/config"
	"finassist/pkg/cache"
	"finassist/pkg/logger"

	"gorm.io/gorm"
)

type Repository struct {
	UserRepo      UserRepository
	PortfolioRepo PortfolioRepository
	ChatRepo      ChatRepository
	AIRepo        AIRepository
	NewsRepo      NewsRepository
	QuoteRepo     QuoteRepository
}

func NewRepository(cfg *config.Config, inmemoryCache cache.Cache, db *gorm.DB, log *logger.Logger) (*Repository, error) {
	aiRepo, err := NewGeminiAIRepository(cfg, log)
	if err != nil {
		return nil, err
	}

	return &Repository{
		UserRepo:      NewUserRepository(db),
		PortfolioRepo: NewPortfolioRepository(db),
		ChatRepo:      NewChatRepository(db),
		AIRepo:        aiRepo,
		NewsRepo:      NewNewsAPIRepository(cfg, log),
		QuoteRepo:     NewAlphaVantageRepository(cfg, inmemoryCache, log),
	}, nil
}
