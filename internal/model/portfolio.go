package model

import (
	"time"

	"gorm.io/datatypes"
)

// Goals is the financial-goals singleton embedded in a portfolio. It is
// always upserted as a whole, never field by field.
type Goals struct {
	InvestmentAmount float64 `json:"investmentAmount"`
	TargetReturn     float64 `json:"targetReturn"`
	TimePeriod       int     `json:"timePeriod"` // months
}

type Portfolio struct {
	ID        uint                        `gorm:"primaryKey" json:"id"`
	UserID    uint                        `gorm:"uniqueIndex;not null" json:"userId"`
	Goals     *datatypes.JSONType[Goals]  `json:"goals,omitempty"`
	Holdings  []Holding                   `gorm:"foreignKey:PortfolioID" json:"holdings"`
	User      User                        `gorm:"foreignKey:UserID;references:ID" json:"-"`
	CreatedAt time.Time                   `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time                   `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (Portfolio) TableName() string {
	return "portfolios"
}

// Holding is one stock position. Holdings are rows keyed by
// (portfolio_id, stock_name) so add/update/remove are single-row statements
// instead of whole-array rewrites.
type Holding struct {
	ID                   uint      `gorm:"primaryKey" json:"-"`
	PortfolioID          uint      `gorm:"not null;uniqueIndex:idx_holdings_portfolio_stock" json:"-"`
	StockName            string    `gorm:"not null;uniqueIndex:idx_holdings_portfolio_stock" json:"stockName"`
	Quantity             float64   `gorm:"not null" json:"quantity"`
	AverageBuyPrice      float64   `gorm:"not null" json:"averageBuyPrice"`
	CurrentPrice         float64   `gorm:"not null" json:"currentPrice"`
	ProfitLoss           float64   `gorm:"not null" json:"profitLoss"`
	ProfitLossPercentage float64   `gorm:"not null" json:"profitLossPercentage"`
	CreatedAt            time.Time `gorm:"autoCreateTime" json:"-"`
	UpdatedAt            time.Time `gorm:"autoUpdateTime" json:"-"`
}

func (Holding) TableName() string {
	return "holdings"
}

// Recompute refreshes the derived profit figures from the stored quantity
// and prices.
func (h *Holding) Recompute() {
	h.ProfitLoss = (h.CurrentPrice - h.AverageBuyPrice) * h.Quantity
	if h.AverageBuyPrice > 0 {
		h.ProfitLossPercentage = (h.CurrentPrice - h.AverageBuyPrice) / h.AverageBuyPrice * 100
	} else {
		h.ProfitLossPercentage = 0
	}
}
