package model

import (
	"time"

	"gorm.io/datatypes"
)

const (
	InvestorTypeBeginner = "Beginner"
	InvestorTypeAmateur  = "Amateur"
)

type User struct {
	ID             uint                        `gorm:"primaryKey" json:"id"`
	Email          string                      `gorm:"uniqueIndex;not null" json:"email"`
	Password       string                      `gorm:"not null" json:"-"`
	Name           string                      `gorm:"not null" json:"name"`
	InvestorType   string                      `gorm:"not null" json:"investorType"`
	SelectedStocks datatypes.JSONSlice[string] `json:"selectedStocks"`
	CreatedAt      time.Time                   `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt      time.Time                   `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (User) TableName() string {
	return "users"
}
