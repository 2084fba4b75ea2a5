package http

import (
	"net/http"

	"finassist/pkg/middleware"

	"github.com/labstack/echo/v4"
)

func (h *HttpAPIHandler) SetupNews(base *echo.Group) {
	news := base.Group("/news")
	{
		news.GET("/feed", h.NewsFeed)
		news.GET("/market-overview", h.MarketOverview)
		news.GET("/stock/:symbol", h.StockNews)
	}
}

func (h *HttpAPIHandler) NewsFeed(c echo.Context) error {
	feed, err := h.service.NewsService.Feed(c.Request().Context(), middleware.UserID(c))
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(http.StatusOK, feed)
}

func (h *HttpAPIHandler) MarketOverview(c echo.Context) error {
	overview, err := h.service.NewsService.MarketOverview(c.Request().Context())
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(http.StatusOK, overview)
}

func (h *HttpAPIHandler) StockNews(c echo.Context) error {
	resp, err := h.service.NewsService.StockNews(c.Request().Context(), c.Param("symbol"))
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}
