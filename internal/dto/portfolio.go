package dto

type AddHoldingRequest struct {
	StockName       string  `json:"stockName" validate:"required"`
	Quantity        float64 `json:"quantity" validate:"gte=0"`
	AverageBuyPrice float64 `json:"averageBuyPrice" validate:"gte=0"`
}

type UpdateHoldingRequest struct {
	Quantity        float64 `json:"quantity" validate:"gte=0"`
	AverageBuyPrice float64 `json:"averageBuyPrice" validate:"gte=0"`
}

type GoalsRequest struct {
	InvestmentAmount float64 `json:"investmentAmount" validate:"gte=0"`
	TargetReturn     float64 `json:"targetReturn" validate:"gte=0"`
	TimePeriod       int     `json:"timePeriod" validate:"gte=0"`
}
