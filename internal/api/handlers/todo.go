package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/devpatel-io/taskflow/internal/api/middleware"
	"github.com/devpatel-io/taskflow/internal/monitoring"
	"github.com/devpatel-io/taskflow/internal/repositories"
	"github.com/devpatel-io/taskflow/internal/utils"
	"github.com/devpatel-io/taskflow/internal/validation"
	"github.com/google/uuid"
)

type TodoHandler struct {
	todos *repositories.TodoRepository
	sink  monitoring.Sink
}

func NewTodoHandler(todos *repositories.TodoRepository, sink monitoring.Sink) *TodoHandler {
	return &TodoHandler{todos: todos, sink: sink}
}

// List godoc
// @Summary List the authenticated user's todos
// @Tags Todos
// @Produce json
// @Security BearerAuth
// @Success 200 {object} utils.Payload
// @Failure 401 {object} utils.Payload
// @Router /api/todos [get]
func (h *TodoHandler) List(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())

	todos, err := h.todos.ForOwner(user.ID).List()
	if err != nil {
		serverError(w, h.sink, err, "todo_list")
		return
	}

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Data:    todos,
	})
}

// Create godoc
// @Summary Create a todo
// @Tags Todos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body object true "Todo title"
// @Success 201 {object} utils.Payload
// @Failure 400 {object} utils.Payload "Empty or overlong title"
// @Failure 401 {object} utils.Payload
// @Router /api/todos [post]
func (h *TodoHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())

	var input struct {
		Title string `json:"title"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		badRequest(w, "Invalid input")
		return
	}

	title, errs := validation.TodoTitle(input.Title)
	if len(errs) > 0 {
		utils.ValidationFailed(w, errs)
		return
	}

	todo, err := h.todos.ForOwner(user.ID).Create(title)
	if err != nil {
		serverError(w, h.sink, err, "todo_create")
		return
	}

	h.sink.IncrCounter(monitoring.CounterTodosCreated, 1)

	utils.JSONResponse(w, http.StatusCreated, utils.Payload{
		Success: true,
		Data:    todo,
	})
}

// Get godoc
// @Summary Get one todo by id
// @Tags Todos
// @Produce json
// @Security BearerAuth
// @Param id path string true "Todo id"
// @Success 200 {object} utils.Payload
// @Failure 404 {object} utils.Payload "Missing or not owned"
// @Failure 401 {object} utils.Payload
// @Router /api/todos/{id} [get]
func (h *TodoHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		notFound(w, "Todo not found")
		return
	}

	todo, err := h.todos.ForOwner(user.ID).Get(id)
	if errors.Is(err, repositories.ErrNotFound) {
		notFound(w, "Todo not found")
		return
	}
	if err != nil {
		serverError(w, h.sink, err, "todo_get")
		return
	}

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Data:    todo,
	})
}

// Update godoc
// @Summary Update a todo's title or completion state
// @Description Only fields present in the payload are applied.
// @Tags Todos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Todo id"
// @Success 200 {object} utils.Payload
// @Failure 400 {object} utils.Payload
// @Failure 404 {object} utils.Payload
// @Router /api/todos/{id} [put]
func (h *TodoHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		notFound(w, "Todo not found")
		return
	}

	var input struct {
		Title     *string `json:"title"`
		Completed *bool   `json:"completed"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		badRequest(w, "Invalid input")
		return
	}

	changes := map[string]any{}
	if input.Title != nil {
		title, errs := validation.TodoTitle(*input.Title)
		if len(errs) > 0 {
			utils.ValidationFailed(w, errs)
			return
		}
		changes["title"] = title
	}
	if input.Completed != nil {
		changes["completed"] = *input.Completed
	}

	scoped := h.todos.ForOwner(user.ID)

	// An empty payload is a no-op read of the current record.
	if len(changes) == 0 {
		todo, err := scoped.Get(id)
		if errors.Is(err, repositories.ErrNotFound) {
			notFound(w, "Todo not found")
			return
		}
		if err != nil {
			serverError(w, h.sink, err, "todo_update")
			return
		}
		utils.JSONResponse(w, http.StatusOK, utils.Payload{Success: true, Data: todo})
		return
	}

	todo, err := scoped.Update(id, changes)
	if errors.Is(err, repositories.ErrNotFound) {
		notFound(w, "Todo not found")
		return
	}
	if err != nil {
		serverError(w, h.sink, err, "todo_update")
		return
	}

	if input.Completed != nil && *input.Completed {
		h.sink.IncrCounter(monitoring.CounterTodosCompleted, 1)
	}

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Data:    todo,
	})
}

// Delete godoc
// @Summary Delete a todo
// @Tags Todos
// @Produce json
// @Security BearerAuth
// @Param id path string true "Todo id"
// @Success 200 {object} utils.Payload
// @Failure 404 {object} utils.Payload
// @Router /api/todos/{id} [delete]
func (h *TodoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		notFound(w, "Todo not found")
		return
	}

	err = h.todos.ForOwner(user.ID).Delete(id)
	if errors.Is(err, repositories.ErrNotFound) {
		notFound(w, "Todo not found")
		return
	}
	if err != nil {
		serverError(w, h.sink, err, "todo_delete")
		return
	}

	h.sink.IncrCounter(monitoring.CounterTodosDeleted, 1)

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Todo deleted successfully",
	})
}
