package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"todopro/internal/adapter/http/helper"
	"todopro/internal/adapter/http/middleware"
	"todopro/internal/adapter/http/validation"
	"todopro/internal/core/domain"
	"todopro/internal/core/model/request"
	"todopro/internal/core/model/response"
	"todopro/internal/core/port"
	"todopro/pkg/logger"
	"todopro/pkg/telemetry"
)

// TodoHandler handles the authenticated REST surface over todos.
type TodoHandler struct {
	svc     port.TodoService
	metrics *telemetry.AppMetrics
	Logger  *logger.AppLogger
}

func NewTodoHandler(svc port.TodoService, metrics *telemetry.AppMetrics, log *logger.AppLogger) *TodoHandler {
	return &TodoHandler{
		svc:     svc,
		metrics: metrics,
		Logger:  log,
	}
}

func (t *TodoHandler) recordOperation(c *gin.Context, operation string) {
	if t.metrics != nil {
		t.metrics.RecordTodoOperation(c.Request.Context(), operation)
	}
}

// CreateTodo accepts a multipart form: title, description, time, is_pro
// and, for pro todos, one or more files under the "images" field.
func (t *TodoHandler) CreateTodo(c *gin.Context) {
	ctx, span := telemetry.CreateChildSpan(c.Request.Context(), "handler.todo.CreateTodo", []attribute.KeyValue{
		attribute.String("handler.method", c.Request.Method),
		attribute.String("handler.path", c.FullPath()),
	})

	defer span.End()

	userID := middleware.CurrentUserID(c)

	var params request.CreateTodoRequest

	if err := c.ShouldBind(&params); err != nil {
		helper.SendBadRequestError(c, "Invalid request parameters")
		return
	}

	if err := validation.Validator.Struct(params); err != nil {
		helper.SendValidationError(c, err)
		return
	}

	in := port.CreateTodoInput{
		Title:       params.Title,
		Description: params.Description,
		Time:        params.Time,
		IsPro:       params.IsPro,
	}

	if form, err := c.MultipartForm(); err == nil && form != nil {
		in.Images = form.File["images"]
	}

	_, err := t.svc.Create(ctx, userID, in)

	if err != nil {
		telemetry.AddSpanError(span, err)

		switch {
		case errors.Is(err, domain.ErrMissingUpload):
			helper.SendBadRequestError(c, "No files uploaded")
		case errors.Is(err, domain.ErrUnsupportedFileType):
			helper.SendBadRequestError(c, "Invalid file type")
		default:
			t.Logger.Error(ctx, "Failed to create todo",
				zap.Error(err),
				zap.Int("user_id", userID),
			)
			helper.SendInternalError(c, "Error creating todo")
		}

		return
	}

	t.recordOperation(c, "create")
	helper.SendMessage(c, http.StatusOK, "Todo created successfully")
}

func (t *TodoHandler) GetTodo(c *gin.Context) {
	userID := middleware.CurrentUserID(c)
	ctx := c.Request.Context()

	id, err := strconv.Atoi(c.Param("id"))

	if err != nil {
		helper.SendNotFoundError(c, "Todo not found")
		return
	}

	todo, err := t.svc.GetByID(ctx, userID, id)

	if err != nil {
		t.sendTodoError(c, err, "Error getting todo")
		return
	}

	t.recordOperation(c, "get")
	c.JSON(http.StatusOK, toTodoResponse(todo))
}

func (t *TodoHandler) UpdateTodo(c *gin.Context) {
	userID := middleware.CurrentUserID(c)
	ctx := c.Request.Context()

	id, err := strconv.Atoi(c.Param("id"))

	if err != nil {
		helper.SendNotFoundError(c, "Todo not found")
		return
	}

	var params request.UpdateTodoRequest

	if err := c.ShouldBindJSON(&params); err != nil {
		helper.SendBadRequestError(c, "Invalid request parameters")
		return
	}

	if err := validation.Validator.Struct(params); err != nil {
		helper.SendValidationError(c, err)
		return
	}

	patch := domain.TodoPatch{
		Title:       params.Title,
		Description: params.Description,
		Time:        params.Time,
	}

	if _, err := t.svc.Update(ctx, userID, id, patch); err != nil {
		t.sendTodoError(c, err, "Error updating todo")
		return
	}

	t.recordOperation(c, "update")
	helper.SendMessage(c, http.StatusOK, "Todo updated successfully")
}

func (t *TodoHandler) DeleteTodo(c *gin.Context) {
	userID := middleware.CurrentUserID(c)
	ctx := c.Request.Context()

	id, err := strconv.Atoi(c.Param("id"))

	if err != nil {
		helper.SendNotFoundError(c, "Todo not found")
		return
	}

	if err := t.svc.Delete(ctx, userID, id); err != nil {
		t.sendTodoError(c, err, "Error deleting todo")
		return
	}

	t.recordOperation(c, "delete")
	helper.SendMessage(c, http.StatusOK, "Todo deleted successfully")
}

// sendTodoError maps the domain taxonomy onto status codes: missing
// row before ownership, ownership before anything else.
func (t *TodoHandler) sendTodoError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, domain.ErrTodoNotFound):
		helper.SendNotFoundError(c, "Todo not found")
	case errors.Is(err, domain.ErrNotOwner):
		helper.SendForbiddenError(c, "Unauthorized")
	default:
		t.Logger.Error(c.Request.Context(), fallback, zap.Error(err))
		helper.SendInternalError(c, fallback)
	}
}

func toTodoResponse(todo domain.Todo) response.TodoResponse {
	return response.TodoResponse{
		ID:          todo.ID,
		Title:       todo.Title,
		Description: todo.Description,
		Time:        todo.Time,
		Images:      todo.Images,
		CreatedAt:   todo.CreatedAt,
		UpdatedAt:   todo.UpdatedAt,
	}
}
