package service

import (
	"context"
	"errors"

	"finassist/config"
	"finassist/internal/apperrors"
	"finassist/internal/dto"
	"finassist/internal/model"
	"finassist/internal/repository"
	"finassist/pkg/logger"
	"finassist/pkg/utils"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ProfitLossPolicy decides what happens to the derived profit figures when a
// holding's quantity or average buy price changes. The historical behavior
// is to leave them stale until the next price refresh; recomputing eagerly
// is available behind config.
type ProfitLossPolicy func(h *model.Holding)

func StaleProfitLossPolicy(*model.Holding) {}

func RecomputeProfitLossPolicy(h *model.Holding) { h.Recompute() }

type PortfolioService interface {
	GetHoldings(ctx context.Context, userID uint) ([]model.Holding, error)
	AddHolding(ctx context.Context, userID uint, req dto.AddHoldingRequest) (*model.Holding, error)
	UpdateHolding(ctx context.Context, userID uint, stockName string, req dto.UpdateHoldingRequest) (*model.Holding, error)
	RemoveHolding(ctx context.Context, userID uint, stockName string) error
	UpsertGoals(ctx context.Context, userID uint, req dto.GoalsRequest) (*model.Goals, error)
	RefreshPrices(ctx context.Context) error
}

type portfolioService struct {
	cfg           *config.Config
	log           *logger.Logger
	portfolioRepo repository.PortfolioRepository
	quoteRepo     repository.QuoteRepository
	plPolicy      ProfitLossPolicy
}

func NewPortfolioService(
	cfg *config.Config,
	log *logger.Logger,
	portfolioRepo repository.PortfolioRepository,
	quoteRepo repository.QuoteRepository,
) PortfolioService {
	plPolicy := StaleProfitLossPolicy
	if cfg.Portfolio.RecomputeOnUpdate {
		plPolicy = RecomputeProfitLossPolicy
	}

	return &portfolioService{
		cfg:           cfg,
		log:           log,
		portfolioRepo: portfolioRepo,
		quoteRepo:     quoteRepo,
		plPolicy:      plPolicy,
	}
}

// GetHoldings returns the user's holdings. A user without a portfolio gets
// an empty list, not an error.
func (s *portfolioService) GetHoldings(ctx context.Context, userID uint) ([]model.Holding, error) {
	portfolio, err := s.portfolioRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return []model.Holding{}, nil
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if portfolio.Holdings == nil {
		return []model.Holding{}, nil
	}
	return portfolio.Holdings, nil
}

func (s *portfolioService) AddHolding(ctx context.Context, userID uint, req dto.AddHoldingRequest) (*model.Holding, error) {
	portfolio, err := s.getOrCreatePortfolio(ctx, userID)
	if err != nil {
		return nil, err
	}

	if _, err := s.portfolioRepo.GetHolding(ctx, portfolio.ID, req.StockName); err == nil {
		return nil, apperrors.ErrDuplicateHolding
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	// Current price and profit figures start at zero until the next refresh.
	holding := &model.Holding{
		PortfolioID:     portfolio.ID,
		StockName:       req.StockName,
		Quantity:        req.Quantity,
		AverageBuyPrice: req.AverageBuyPrice,
	}

	if err := s.portfolioRepo.CreateHolding(ctx, holding); err != nil {
		// A concurrent add for the same symbol can slip past the lookup; the
		// unique index is the authority.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrDuplicateHolding
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	s.log.InfoContext(ctx, "holding added",
		logger.IntField("user_id", int(userID)),
		logger.StringField("stock", req.StockName))
	return holding, nil
}

func (s *portfolioService) UpdateHolding(ctx context.Context, userID uint, stockName string, req dto.UpdateHoldingRequest) (*model.Holding, error) {
	portfolio, err := s.portfolioRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrPortfolioNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	holding, err := s.portfolioRepo.GetHolding(ctx, portfolio.ID, stockName)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrHoldingNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	holding.Quantity = req.Quantity
	holding.AverageBuyPrice = req.AverageBuyPrice
	s.plPolicy(holding)

	if err := s.portfolioRepo.UpdateHolding(ctx, holding); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return holding, nil
}

// RemoveHolding deletes all holdings matching the symbol. Removing a symbol
// that is not held succeeds with no change.
func (s *portfolioService) RemoveHolding(ctx context.Context, userID uint, stockName string) error {
	portfolio, err := s.portfolioRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrPortfolioNotFound
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if err := s.portfolioRepo.DeleteHoldings(ctx, portfolio.ID, stockName); err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// UpsertGoals overwrites the goals singleton wholesale, creating the
// portfolio document first if the user has none.
func (s *portfolioService) UpsertGoals(ctx context.Context, userID uint, req dto.GoalsRequest) (*model.Goals, error) {
	goals := model.Goals{
		InvestmentAmount: req.InvestmentAmount,
		TargetReturn:     req.TargetReturn,
		TimePeriod:       req.TimePeriod,
	}

	portfolio, err := s.portfolioRepo.GetByUserID(ctx, userID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		created := &model.Portfolio{
			UserID: userID,
			Goals:  utils.ToPointer(datatypes.NewJSONType(goals)),
		}
		if err := s.portfolioRepo.Create(ctx, created); err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return &goals, nil
	}

	if err := s.portfolioRepo.SetGoals(ctx, portfolio.ID, goals); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &goals, nil
}

// RefreshPrices pulls a fresh quote for every holding and recomputes the
// derived profit figures. Per-holding failures are logged and skipped.
func (s *portfolioService) RefreshPrices(ctx context.Context) error {
	holdings, err := s.portfolioRepo.ListAllHoldings(ctx)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	refreshed := 0
	for i := range holdings {
		holding := &holdings[i]

		quote, err := s.quoteRepo.GlobalQuote(ctx, holding.StockName)
		if err != nil {
			s.log.WarnContext(ctx, "skipping price refresh for holding",
				logger.StringField("stock", holding.StockName),
				logger.ErrorField(err))
			continue
		}

		holding.CurrentPrice = quote.Price
		holding.Recompute()

		if err := s.portfolioRepo.SaveHoldingPrices(ctx, holding); err != nil {
			s.log.ErrorContext(ctx, "failed to persist refreshed prices",
				logger.StringField("stock", holding.StockName),
				logger.ErrorField(err))
			continue
		}
		refreshed++
	}

	s.log.InfoContext(ctx, "price refresh finished",
		logger.IntField("holdings", len(holdings)),
		logger.IntField("refreshed", refreshed))
	return nil
}

func (s *portfolioService) getOrCreatePortfolio(ctx context.Context, userID uint) (*model.Portfolio, error) {
	portfolio, err := s.portfolioRepo.GetByUserID(ctx, userID)
	if err == nil {
		return portfolio, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	created := &model.Portfolio{UserID: userID}
	if err := s.portfolioRepo.Create(ctx, created); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return created, nil
}
