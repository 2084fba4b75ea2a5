package model

import (
	"time"

	"gorm.io/datatypes"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

const (
	SentimentPositive = "positive"
	SentimentNegative = "negative"
	SentimentNeutral  = "neutral"
)

// ChatMessage is one turn in a chat. Messages are immutable once appended;
// ordering is the array's insertion order.
type ChatMessage struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

type Chat struct {
	ID             string                           `gorm:"primaryKey" json:"id"`
	UserID         uint                             `gorm:"not null;index" json:"userId"`
	Title          string                           `gorm:"not null" json:"title"`
	Messages       datatypes.JSONSlice[ChatMessage] `json:"messages"`
	Sentiment      string                           `gorm:"not null;default:neutral" json:"sentiment"`
	RelatedStocks  datatypes.JSONSlice[string]      `json:"relatedStocks"`
	LastExchangeID string                           `json:"-"`
	User           User                             `gorm:"foreignKey:UserID;references:ID" json:"-"`
	CreatedAt      time.Time                        `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt      time.Time                        `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (Chat) TableName() string {
	return "chats"
}
