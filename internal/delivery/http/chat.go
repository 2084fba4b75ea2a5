package http

import (
	"fmt"
	"net/http"

	"finassist/internal/dto"
	"finassist/pkg/middleware"

	"github.com/labstack/echo/v4"
)

func (h *HttpAPIHandler) SetupChat(base *echo.Group) {
	chat := base.Group("/chat")
	{
		chat.GET("/history", h.ChatHistory)
		chat.GET("/:chatId", h.GetChat)
		chat.POST("/new", h.NewChat)
		chat.POST("/:chatId/message", h.SendMessage)
		chat.DELETE("/:chatId", h.DeleteChat)
	}
}

func (h *HttpAPIHandler) ChatHistory(c echo.Context) error {
	chats, err := h.service.ChatService.History(c.Request().Context(), middleware.UserID(c))
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(http.StatusOK, chats)
}

func (h *HttpAPIHandler) GetChat(c echo.Context) error {
	chat, err := h.service.ChatService.Get(c.Request().Context(), middleware.UserID(c), c.Param("chatId"))
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(http.StatusOK, chat)
}

func (h *HttpAPIHandler) NewChat(c echo.Context) error {
	req := new(dto.CreateChatRequest)
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse("invalid request body"))
	}
	if err := h.validator.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse(err.Error()))
	}

	chat, err := h.service.ChatService.Create(c.Request().Context(), middleware.UserID(c), req.Title)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(http.StatusOK, chat)
}

func (h *HttpAPIHandler) SendMessage(c echo.Context) error {
	userID := middleware.UserID(c)

	limiter := h.chatLimiter.GetLimiter(fmt.Sprintf("chat-message:%d", userID))
	if !limiter.Allow() {
		return c.JSON(http.StatusTooManyRequests,
			dto.NewBaseResponse(http.StatusTooManyRequests, "Too many messages, slow down", nil))
	}

	req := new(dto.SendMessageRequest)
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse("invalid request body"))
	}
	if err := h.validator.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse(err.Error()))
	}

	resp, err := h.service.ChatService.SendMessage(
		c.Request().Context(),
		userID,
		c.Param("chatId"),
		req.Content,
		c.Request().Header.Get("Idempotency-Key"),
	)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *HttpAPIHandler) DeleteChat(c echo.Context) error {
	err := h.service.ChatService.Delete(c.Request().Context(), middleware.UserID(c), c.Param("chatId"))
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Chat deleted successfully"})
}
