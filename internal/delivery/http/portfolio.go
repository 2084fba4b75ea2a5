package http

import (
	"net/http"

	"finassist/internal/dto"
	"finassist/pkg/middleware"

	"github.com/labstack/echo/v4"
)

func (h *HttpAPIHandler) SetupPortfolio(base *echo.Group) {
	portfolio := base.Group("/portfolio")
	{
		portfolio.GET("", h.GetPortfolio)
		portfolio.POST("/add", h.AddStock)
		portfolio.PUT("/update/:stockName", h.UpdateStock)
		portfolio.DELETE("/remove/:stockName", h.RemoveStock)
		portfolio.PUT("/goals", h.UpdateGoals)
	}
}

func (h *HttpAPIHandler) GetPortfolio(c echo.Context) error {
	holdings, err := h.service.PortfolioService.GetHoldings(c.Request().Context(), middleware.UserID(c))
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(http.StatusOK, holdings)
}

func (h *HttpAPIHandler) AddStock(c echo.Context) error {
	req := new(dto.AddHoldingRequest)
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse("invalid request body"))
	}
	if err := h.validator.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse(err.Error()))
	}

	holding, err := h.service.PortfolioService.AddHolding(c.Request().Context(), middleware.UserID(c), *req)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(http.StatusOK, holding)
}

func (h *HttpAPIHandler) UpdateStock(c echo.Context) error {
	req := new(dto.UpdateHoldingRequest)
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse("invalid request body"))
	}
	if err := h.validator.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse(err.Error()))
	}

	holding, err := h.service.PortfolioService.UpdateHolding(
		c.Request().Context(), middleware.UserID(c), c.Param("stockName"), *req)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(http.StatusOK, holding)
}

func (h *HttpAPIHandler) RemoveStock(c echo.Context) error {
	err := h.service.PortfolioService.RemoveHolding(c.Request().Context(), middleware.UserID(c), c.Param("stockName"))
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Stock removed successfully"})
}

func (h *HttpAPIHandler) UpdateGoals(c echo.Context) error {
	req := new(dto.GoalsRequest)
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse("invalid request body"))
	}
	if err := h.validator.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse(err.Error()))
	}

	goals, err := h.service.PortfolioService.UpsertGoals(c.Request().Context(), middleware.UserID(c), *req)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(http.StatusOK, goals)
}
