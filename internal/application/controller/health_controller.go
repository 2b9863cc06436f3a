package controller

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"todo-api/internal/domain/usecase/health"
)

type HealthController struct {
	api     *echo.Group
	useCase health.UseCase
}

func NewHealthController(api *echo.Group, useCase health.UseCase) *HealthController {
	return &HealthController{api: api, useCase: useCase}
}

// InitHealthRoutes initializes health check routes
func (controller *HealthController) InitHealthRoutes() {
	controller.api.GET("/health", controller.CheckHealth())
}

// CheckHealth godoc
// @Summary Application health
// @Description Aggregated health of the database and cache components
// @Tags health
// @Produce json
// @Success 200 {object} model.HealthResponse "Component health"
// @Router /health [get]
func (controller *HealthController) CheckHealth() echo.HandlerFunc {
	return func(c echo.Context) error {
		healthResponse := controller.useCase.CheckHealth()

		return c.JSON(http.StatusOK, healthResponse)
	}
}
