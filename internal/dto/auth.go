package dto

import "finassist/internal/model"

type RegisterRequest struct {
	Email        string `json:"email" validate:"required,email"`
	Password     string `json:"password" validate:"required,min=6"`
	Name         string `json:"name" validate:"required"`
	InvestorType string `json:"investorType" validate:"required,oneof=Beginner Amateur"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UpdateProfileRequest struct {
	Name           *string   `json:"name" validate:"omitempty,min=1"`
	InvestorType   *string   `json:"investorType" validate:"omitempty,oneof=Beginner Amateur"`
	SelectedStocks *[]string `json:"selectedStocks"`
}

type AuthResponse struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}
