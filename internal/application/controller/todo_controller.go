package controller

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"todo-api/internal/domain/model"
	"todo-api/internal/domain/usecase/todo"
	"todo-api/pkg/log"
	"todo-api/pkg/msg"
	"todo-api/pkg/util/numberutils"
)

type TodoController struct {
	api     *echo.Group
	useCase todo.UseCase
}

func NewTodoController(api *echo.Group, useCase todo.UseCase) *TodoController {
	return &TodoController{api: api, useCase: useCase}
}

// InitTodoRoutes initializes todo routes
func (controller *TodoController) InitTodoRoutes() {
	controller.api.POST("/todos", controller.Create)
	controller.api.GET("/todos", controller.FindAll)
	controller.api.GET("/todos/:id", controller.FindByID)
	controller.api.PUT("/todos/:id", controller.Update)
	controller.api.DELETE("/todos/:id", controller.DeleteByID)
}

// Create godoc
// @Summary Create a new todo
// @Description Create a todo from title, optional description and due date
// @Tags todos
// @Accept json
// @Produce json
// @Param todo body model.NewTodoDTO true "Todo creation data"
// @Success 201 {object} entity.Todo "Created todo"
// @Failure 400 {object} model.ErrorResponse "Malformed request body"
// @Failure 422 {object} model.ErrorResponse "Validation failure"
// @Failure 500 {object} model.ErrorResponse "Internal server error"
// @Router /todos [post]
func (controller *TodoController) Create(c echo.Context) error {
	var dto model.NewTodoDTO
	if err := c.Bind(&dto); err != nil {
		return badRequest(c)
	}

	created, err := controller.useCase.Create(dto)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(http.StatusCreated, created)
}

// FindAll godoc
// @Summary List todos
// @Description Retrieve todos ordered by id with pagination and optional completed filter
// @Tags todos
// @Accept json
// @Produce json
// @Param limit query int false "Page size" default(50)
// @Param offset query int false "Rows to skip" default(0)
// @Param completed query bool false "Filter by completion state"
// @Success 200 {array} entity.Todo "List of todos"
// @Failure 500 {object} model.ErrorResponse "Internal server error"
// @Router /todos [get]
func (controller *TodoController) FindAll(c echo.Context) error {
	var query model.ListQuery

	if raw := c.QueryParam("limit"); raw != "" {
		limit := numberutils.ToIntWithDefault(raw, model.ListDefaultLimit)
		query.Limit = &limit
	}
	if raw := c.QueryParam("offset"); raw != "" {
		offset := numberutils.ToIntWithDefault(raw, 0)
		query.Offset = &offset
	}
	if raw := c.QueryParam("completed"); raw != "" {
		if completed, err := strconv.ParseBool(raw); err == nil {
			query.Completed = &completed
		}
	}

	todos, err := controller.useCase.FindAll(query)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(http.StatusOK, todos)
}

// FindByID godoc
// @Summary Get todo by id
// @Description Retrieve a single todo by its id
// @Tags todos
// @Accept json
// @Produce json
// @Param id path int true "Todo id"
// @Success 200 {object} entity.Todo "Todo"
// @Failure 404 {object} model.ErrorResponse "Todo not found"
// @Failure 500 {object} model.ErrorResponse "Internal server error"
// @Router /todos/{id} [get]
func (controller *TodoController) FindByID(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return notFound(c)
	}

	found, err := controller.useCase.FindByID(id)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(http.StatusOK, found)
}

// Update godoc
// @Summary Partially update a todo
// @Description Apply a tri-state partial update: absent keys keep the stored value, null clears a nullable field, a value replaces it
// @Tags todos
// @Accept json
// @Produce json
// @Param id path int true "Todo id"
// @Param todo body model.UpdateTodoDTO true "Fields to update"
// @Success 200 {object} entity.Todo "Updated todo"
// @Failure 400 {object} model.ErrorResponse "Malformed request body"
// @Failure 404 {object} model.ErrorResponse "Todo not found"
// @Failure 422 {object} model.ErrorResponse "Validation failure"
// @Failure 500 {object} model.ErrorResponse "Internal server error"
// @Router /todos/{id} [put]
func (controller *TodoController) Update(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return notFound(c)
	}

	var dto model.UpdateTodoDTO
	if err := c.Bind(&dto); err != nil {
		return badRequest(c)
	}

	updated, err := controller.useCase.Update(id, dto)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(http.StatusOK, updated)
}

// DeleteByID godoc
// @Summary Delete todo by id
// @Description Permanently delete a todo
// @Tags todos
// @Accept json
// @Produce json
// @Param id path int true "Todo id"
// @Success 204 "Todo deleted"
// @Failure 404 {object} model.ErrorResponse "Todo not found"
// @Failure 500 {object} model.ErrorResponse "Internal server error"
// @Router /todos/{id} [delete]
func (controller *TodoController) DeleteByID(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return notFound(c)
	}

	if err := controller.useCase.DeleteByID(id); err != nil {
		return handleError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// parseID accepts only plain digit ids. Anything else behaves like a
// reference to a todo that does not exist.
func parseID(c echo.Context) (int64, error) {
	raw := c.Param("id")
	if !numberutils.IsDigits(raw) {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return numberutils.ToInt64WithError(raw)
}

// handleError maps typed usecase errors onto status codes. Storage details
// never reach the response body.
func handleError(c echo.Context, err error) error {
	var appErr *model.AppError
	message := err.Error()
	if errors.As(err, &appErr) {
		message = appErr.Message
	}

	switch {
	case model.IsValidation(err):
		return c.JSON(http.StatusUnprocessableEntity, model.ErrorResponse{
			Code:    model.CodeValidationFailed,
			Message: message,
		})
	case model.IsNotFound(err):
		return c.JSON(http.StatusNotFound, model.ErrorResponse{
			Code:    model.CodeNotFound,
			Message: message,
		})
	default:
		log.Errorf("request failed: %v", err)
		return c.JSON(http.StatusInternalServerError, model.ErrorResponse{
			Code:    model.CodeInternalError,
			Message: msg.GetMessage("todo.error.internal"),
		})
	}
}

func badRequest(c echo.Context) error {
	return c.JSON(http.StatusBadRequest, model.ErrorResponse{
		Code:    model.CodeBadRequest,
		Message: msg.GetMessage("todo.error.invalid-body"),
	})
}

func notFound(c echo.Context) error {
	return c.JSON(http.StatusNotFound, model.ErrorResponse{
		Code:    model.CodeNotFound,
		Message: msg.GetMessage("todo.error.not-found"),
	})
}
