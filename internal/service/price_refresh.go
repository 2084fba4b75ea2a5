package service

import (
	"context"
	"time"

	"finassist/config"
	"finassist/pkg/logger"

	"github.com/robfig/cron/v3"
)

// PriceRefreshService periodically pulls fresh quotes for every holding and
// recomputes the derived profit figures. This is the refresh the portfolio
// endpoints defer to.
type PriceRefreshService struct {
	cfg       *config.Config
	log       *logger.Logger
	portfolio PortfolioService
	cron      *cron.Cron
}

func NewPriceRefreshService(cfg *config.Config, log *logger.Logger, portfolio PortfolioService) *PriceRefreshService {
	return &PriceRefreshService{
		cfg:       cfg,
		log:       log,
		portfolio: portfolio,
		cron:      cron.New(),
	}
}

func (s *PriceRefreshService) Start(ctx context.Context) error {
	if !s.cfg.Scheduler.PriceRefreshEnabled {
		s.log.Info("Price refresh scheduler disabled")
		return nil
	}

	_, err := s.cron.AddFunc(s.cfg.Scheduler.PriceRefreshSpec, func() {
		refreshCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
		defer cancel()

		if err := s.portfolio.RefreshPrices(refreshCtx); err != nil {
			s.log.Error("Price refresh run failed", logger.ErrorField(err))
		}
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	s.log.Info("Price refresh scheduler started",
		logger.StringField("spec", s.cfg.Scheduler.PriceRefreshSpec))
	return nil
}

func (s *PriceRefreshService) Stop() {
	stopCtx := s.cron.Stop()
	<-stopCtx.Done()
	s.log.Info("Price refresh scheduler stopped")
}
