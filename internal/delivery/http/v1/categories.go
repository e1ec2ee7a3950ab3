package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/go-goal-tracker/internal/models"
	"github.com/adanyl0v/go-goal-tracker/internal/services"
)

type getCategoryResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	User string `json:"user"`
}

func newGetCategoryResponse(category *models.Category) getCategoryResponse {
	return getCategoryResponse{
		ID:   category.ID,
		Name: category.Name,
		User: category.UserID,
	}
}

// categoryRequest has no owner field: a submitted "user" is dropped
// while decoding.
type categoryRequest struct {
	Name optional[string] `json:"name" binding:"omitempty,max=100"`
}

func (h *handlerImpl) HandleListCategories(c *gin.Context) {
	categories, err := h.categories.ListCategories(c, callerID(c))
	if err != nil {
		h.abortWithServiceError(c, err)
		return
	}

	response := make([]getCategoryResponse, len(categories))
	for i, category := range categories {
		response[i] = newGetCategoryResponse(category)
	}
	c.JSON(http.StatusOK, response)
}

func (h *handlerImpl) HandleGetCategory(c *gin.Context) {
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	category, err := h.categories.GetCategory(c, callerID(c), id)
	if err != nil {
		h.abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, newGetCategoryResponse(category))
}

func (h *handlerImpl) HandleCreateCategory(c *gin.Context) {
	var req categoryRequest
	if !h.bindJSON(c, &req) {
		return
	}

	category, err := h.categories.CreateCategory(c, services.CreateCategoryParams{
		UserID: callerID(c),
		Name:   req.Name.field(),
	})
	if err != nil {
		h.abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newGetCategoryResponse(category))
}

func (h *handlerImpl) HandleUpdateCategory(c *gin.Context) {
	h.updateCategory(c, false)
}

func (h *handlerImpl) HandlePartialUpdateCategory(c *gin.Context) {
	h.updateCategory(c, true)
}

func (h *handlerImpl) updateCategory(c *gin.Context, partial bool) {
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	var req categoryRequest
	if !h.bindJSON(c, &req) {
		return
	}

	category, err := h.categories.UpdateCategory(c, services.UpdateCategoryParams{
		ID:      id,
		UserID:  callerID(c),
		Partial: partial,
		Name:    req.Name.field(),
	})
	if err != nil {
		h.abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, newGetCategoryResponse(category))
}

func (h *handlerImpl) HandleDeleteCategory(c *gin.Context) {
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	err := h.categories.DeleteCategory(c, callerID(c), id)
	if err != nil {
		h.abortWithServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
