package repository

import (
	"context"
	"time"

	"finassist/internal/model"
	"finassist/pkg/utils"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type PortfolioRepository interface {
	GetByUserID(ctx context.Context, userID uint) (*model.Portfolio, error)
	Create(ctx context.Context, portfolio *model.Portfolio) error
	GetHolding(ctx context.Context, portfolioID uint, stockName string) (*model.Holding, error)
	CreateHolding(ctx context.Context, holding *model.Holding) error
	UpdateHolding(ctx context.Context, holding *model.Holding) error
	DeleteHoldings(ctx context.Context, portfolioID uint, stockName string) error
	SetGoals(ctx context.Context, portfolioID uint, goals model.Goals) error
	ListAllHoldings(ctx context.Context) ([]model.Holding, error)
	SaveHoldingPrices(ctx context.Context, holding *model.Holding) error
}

type portfolioRepository struct {
	db *gorm.DB
}

func NewPortfolioRepository(db *gorm.DB) PortfolioRepository {
	return &portfolioRepository{db: db}
}

func (r *portfolioRepository) GetByUserID(ctx context.Context, userID uint) (*model.Portfolio, error) {
	var portfolio model.Portfolio
	db := utils.ApplyOptions(r.db.WithContext(ctx),
		utils.WithPreload("Holdings", func(db *gorm.DB) *gorm.DB { return db.Order("holdings.id ASC") }))
	err := db.Where("user_id = ?", userID).
		First(&portfolio).Error
	if err != nil {
		return nil, err
	}
	return &portfolio, nil
}

func (r *portfolioRepository) Create(ctx context.Context, portfolio *model.Portfolio) error {
	return r.db.WithContext(ctx).Create(portfolio).Error
}

func (r *portfolioRepository) GetHolding(ctx context.Context, portfolioID uint, stockName string) (*model.Holding, error) {
	var holding model.Holding
	err := r.db.WithContext(ctx).
		Where("portfolio_id = ? AND stock_name = ?", portfolioID, stockName).
		First(&holding).Error
	if err != nil {
		return nil, err
	}
	return &holding, nil
}

func (r *portfolioRepository) CreateHolding(ctx context.Context, holding *model.Holding) error {
	return r.db.WithContext(ctx).Create(holding).Error
}

// UpdateHolding writes the mutable numeric columns of one holding row. A map
// is used so zero values are persisted too.
func (r *portfolioRepository) UpdateHolding(ctx context.Context, holding *model.Holding) error {
	return r.db.WithContext(ctx).
		Model(&model.Holding{}).
		Where("id = ?", holding.ID).
		Updates(map[string]interface{}{
			"quantity":               holding.Quantity,
			"average_buy_price":      holding.AverageBuyPrice,
			"profit_loss":            holding.ProfitLoss,
			"profit_loss_percentage": holding.ProfitLossPercentage,
			"updated_at":             time.Now(),
		}).Error
}

func (r *portfolioRepository) DeleteHoldings(ctx context.Context, portfolioID uint, stockName string) error {
	return r.db.WithContext(ctx).
		Where("portfolio_id = ? AND stock_name = ?", portfolioID, stockName).
		Delete(&model.Holding{}).Error
}

func (r *portfolioRepository) SetGoals(ctx context.Context, portfolioID uint, goals model.Goals) error {
	return r.db.WithContext(ctx).
		Model(&model.Portfolio{}).
		Where("id = ?", portfolioID).
		Updates(map[string]interface{}{
			"goals":      datatypes.NewJSONType(goals),
			"updated_at": time.Now(),
		}).Error
}

func (r *portfolioRepository) ListAllHoldings(ctx context.Context) ([]model.Holding, error) {
	var holdings []model.Holding
	if err := r.db.WithContext(ctx).Find(&holdings).Error; err != nil {
		return nil, err
	}
	return holdings, nil
}

func (r *portfolioRepository) SaveHoldingPrices(ctx context.Context, holding *model.Holding) error {
	return r.db.WithContext(ctx).
		Model(&model.Holding{}).
		Where("id = ?", holding.ID).
		Updates(map[string]interface{}{
			"current_price":          holding.CurrentPrice,
			"profit_loss":            holding.ProfitLoss,
			"profit_loss_percentage": holding.ProfitLossPercentage,
			"updated_at":             time.Now(),
		}).Error
}
