package dto

import "finassist/internal/model"

type CreateChatRequest struct {
	Title string `json:"title" validate:"required"`
}

type SendMessageRequest struct {
	Content string `json:"content" validate:"required"`
}

type SendMessageResponse struct {
	ID       string              `json:"id"`
	Messages []model.ChatMessage `json:"messages"`
}
