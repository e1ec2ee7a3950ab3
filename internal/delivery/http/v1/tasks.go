package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/go-goal-tracker/internal/models"
	"github.com/adanyl0v/go-goal-tracker/internal/services"
)

type getTaskResponse struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	Completed   bool      `json:"completed"`
	Priority    int       `json:"priority"`
	DueDate     *string   `json:"due_date"`
	Category    *int64    `json:"category"`
	Goal        *int64    `json:"goal"`
	GoalType    string    `json:"goal_type"`
	User        string    `json:"user"`
	CreatedAt   time.Time `json:"created_at"`
}

func newGetTaskResponse(task *models.Task) getTaskResponse {
	return getTaskResponse{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Completed:   task.Completed,
		Priority:    int(task.Priority),
		DueDate:     formatDate(task.DueDate),
		Category:    task.CategoryID,
		Goal:        task.GoalID,
		GoalType:    string(task.GoalType),
		User:        task.UserID,
		CreatedAt:   task.CreatedAt,
	}
}

type taskRequest struct {
	Title       optional[string] `json:"title" binding:"omitempty,max=200"`
	Description optional[string] `json:"description"`
	Completed   optional[bool]   `json:"completed"`
	Priority    optional[int]    `json:"priority" binding:"omitempty,oneof=1 2 3"`
	DueDate     optional[string] `json:"due_date" binding:"omitempty,datetime=2006-01-02"`
	GoalType    optional[string] `json:"goal_type" binding:"omitempty,oneof=LONG SHORT HABIT"`
	Category    optional[int64]  `json:"category"`
	Goal        optional[int64]  `json:"goal"`
}

func (r taskRequest) fields() services.TaskFields {
	return services.TaskFields{
		Title:       r.Title.field(),
		Description: r.Description.field(),
		Completed:   r.Completed.field(),
		Priority: mapOptional(r.Priority, func(p int) models.Priority {
			return models.Priority(p)
		}),
		DueDate: mapOptional(r.DueDate, parseDate),
		GoalType: mapOptional(r.GoalType, func(t string) models.GoalType {
			return models.GoalType(t)
		}),
		CategoryID: r.Category.field(),
		GoalID:     r.Goal.field(),
	}
}

func (h *handlerImpl) HandleListTasks(c *gin.Context) {
	tasks, err := h.tasks.ListTasks(c, callerID(c))
	if err != nil {
		h.abortWithServiceError(c, err)
		return
	}

	response := make([]getTaskResponse, len(tasks))
	for i, task := range tasks {
		response[i] = newGetTaskResponse(task)
	}
	c.JSON(http.StatusOK, response)
}

func (h *handlerImpl) HandleGetTask(c *gin.Context) {
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	task, err := h.tasks.GetTask(c, callerID(c), id)
	if err != nil {
		h.abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, newGetTaskResponse(task))
}

func (h *handlerImpl) HandleCreateTask(c *gin.Context) {
	var req taskRequest
	if !h.bindJSON(c, &req) {
		return
	}

	task, err := h.tasks.CreateTask(c, services.CreateTaskParams{
		UserID:     callerID(c),
		TaskFields: req.fields(),
	})
	if err != nil {
		h.abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newGetTaskResponse(task))
}

func (h *handlerImpl) HandleUpdateTask(c *gin.Context) {
	h.updateTask(c, false)
}

func (h *handlerImpl) HandlePartialUpdateTask(c *gin.Context) {
	h.updateTask(c, true)
}

func (h *handlerImpl) updateTask(c *gin.Context, partial bool) {
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	var req taskRequest
	if !h.bindJSON(c, &req) {
		return
	}

	task, err := h.tasks.UpdateTask(c, services.UpdateTaskParams{
		ID:         id,
		UserID:     callerID(c),
		Partial:    partial,
		TaskFields: req.fields(),
	})
	if err != nil {
		h.abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, newGetTaskResponse(task))
}

func (h *handlerImpl) HandleDeleteTask(c *gin.Context) {
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	err := h.tasks.DeleteTask(c, callerID(c), id)
	if err != nil {
		h.abortWithServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
