package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/go-goal-tracker/internal/models"
	"github.com/adanyl0v/go-goal-tracker/internal/services"
)

type getGoalResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	StartDate   *string   `json:"start_date"`
	EndDate     *string   `json:"end_date"`
	User        string    `json:"user"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func newGetGoalResponse(goal *models.Goal) getGoalResponse {
	return getGoalResponse{
		ID:          goal.ID,
		Name:        goal.Name,
		Description: goal.Description,
		StartDate:   formatDate(goal.StartDate),
		EndDate:     formatDate(goal.EndDate),
		User:        goal.UserID,
		CreatedAt:   goal.CreatedAt,
		UpdatedAt:   goal.UpdatedAt,
	}
}

type goalRequest struct {
	Name        optional[string] `json:"name" binding:"omitempty,max=200"`
	Description optional[string] `json:"description"`
	StartDate   optional[string] `json:"start_date" binding:"omitempty,datetime=2006-01-02"`
	EndDate     optional[string] `json:"end_date" binding:"omitempty,datetime=2006-01-02"`
}

func (r goalRequest) fields() services.GoalFields {
	return services.GoalFields{
		Name:        r.Name.field(),
		Description: r.Description.field(),
		StartDate:   mapOptional(r.StartDate, parseDate),
		EndDate:     mapOptional(r.EndDate, parseDate),
	}
}

func (h *handlerImpl) HandleListGoals(c *gin.Context) {
	goals, err := h.goals.ListGoals(c, callerID(c))
	if err != nil {
		h.abortWithServiceError(c, err)
		return
	}

	response := make([]getGoalResponse, len(goals))
	for i, goal := range goals {
		response[i] = newGetGoalResponse(goal)
	}
	c.JSON(http.StatusOK, response)
}

func (h *handlerImpl) HandleGetGoal(c *gin.Context) {
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	goal, err := h.goals.GetGoal(c, callerID(c), id)
	if err != nil {
		h.abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, newGetGoalResponse(goal))
}

func (h *handlerImpl) HandleCreateGoal(c *gin.Context) {
	var req goalRequest
	if !h.bindJSON(c, &req) {
		return
	}

	goal, err := h.goals.CreateGoal(c, services.CreateGoalParams{
		UserID:     callerID(c),
		GoalFields: req.fields(),
	})
	if err != nil {
		h.abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newGetGoalResponse(goal))
}

func (h *handlerImpl) HandleUpdateGoal(c *gin.Context) {
	h.updateGoal(c, false)
}

func (h *handlerImpl) HandlePartialUpdateGoal(c *gin.Context) {
	h.updateGoal(c, true)
}

func (h *handlerImpl) updateGoal(c *gin.Context, partial bool) {
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	var req goalRequest
	if !h.bindJSON(c, &req) {
		return
	}

	goal, err := h.goals.UpdateGoal(c, services.UpdateGoalParams{
		ID:         id,
		UserID:     callerID(c),
		Partial:    partial,
		GoalFields: req.fields(),
	})
	if err != nil {
		h.abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, newGetGoalResponse(goal))
}

func (h *handlerImpl) HandleDeleteGoal(c *gin.Context) {
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	err := h.goals.DeleteGoal(c, callerID(c), id)
	if err != nil {
		h.abortWithServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
