package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"audit-service/internal/repository"
	"audit-service/internal/services"
)

// ActionHandler handles HTTP requests for corrective actions
type ActionHandler struct {
	service *services.ActionService
}

// NewActionHandler creates a new ActionHandler
func NewActionHandler(service *services.ActionService) *ActionHandler {
	return &ActionHandler{service: service}
}

func actionErrorStatus(err error) int {
	switch {
	case errors.Is(err, services.ErrActionNotFound),
		errors.Is(err, services.ErrItemNotFound),
		errors.Is(err, services.ErrAssigneeNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrActionClosed),
		errors.Is(err, services.ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, services.ErrVerifierRequired):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// CreateAction creates a corrective action for a non-compliant finding
// @Summary Create corrective action
// @Tags Actions
// @Accept json
// @Produce json
// @Param request body services.CreateActionInput true "Create Action"
// @Success 201 {object} models.CorrectiveAction
// @Router /api/v1/actions [post]
func (h *ActionHandler) CreateAction(c *gin.Context) {
	var input services.CreateActionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	action, err := h.service.CreateAction(c.Request.Context(), input)
	if err != nil {
		c.JSON(actionErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, action)
}

// GetAction retrieves a corrective action
// @Summary Get corrective action
// @Tags Actions
// @Produce json
// @Param id path string true "Action ID"
// @Success 200 {object} models.CorrectiveAction
// @Router /api/v1/actions/{id} [get]
func (h *ActionHandler) GetAction(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid action id"})
		return
	}

	action, err := h.service.GetAction(c.Request.Context(), id)
	if err != nil {
		c.JSON(actionErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, action)
}

// ListActions lists corrective actions with optional filters
// @Summary List corrective actions
// @Tags Actions
// @Produce json
// @Param status query string false "Status filter"
// @Param assigneeId query string false "Assignee filter"
// @Param overdue query bool false "Overdue only"
// @Param limit query int false "Limit" default(20)
// @Param offset query int false "Offset" default(0)
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/actions [get]
func (h *ActionHandler) ListActions(c *gin.Context) {
	var filter repository.ActionFilter
	filter.Status = c.Query("status")
	filter.OverdueOnly = c.Query("overdue") == "true"
	if s := c.Query("assigneeId"); s != "" {
		assigneeID, err := uuid.Parse(s)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid assigneeId"})
			return
		}
		filter.AssigneeID = &assigneeID
	}

	limit, offset := pagination(c)

	actions, total, err := h.service.ListActions(c.Request.Context(), filter, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "An internal error occurred"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":   actions,
		"total":  total,
		"limit":  limit,
		"offset": offset,
	})
}

// UpdateAction applies a partial update to a corrective action
// @Summary Update corrective action
// @Tags Actions
// @Accept json
// @Produce json
// @Param id path string true "Action ID"
// @Param request body services.UpdateActionInput true "Patch"
// @Success 200 {object} models.CorrectiveAction
// @Router /api/v1/actions/{id} [patch]
func (h *ActionHandler) UpdateAction(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid action id"})
		return
	}

	actorID, err := uuid.Parse(c.GetString("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user_id"})
		return
	}

	var input services.UpdateActionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	action, err := h.service.UpdateAction(c.Request.Context(), id, input, actorID)
	if err != nil {
		c.JSON(actionErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, action)
}

// CancelAction cancels an open corrective action
// @Summary Cancel corrective action
// @Tags Actions
// @Produce json
// @Param id path string true "Action ID"
// @Success 200 {object} models.CorrectiveAction
// @Router /api/v1/actions/{id}/cancel [post]
func (h *ActionHandler) CancelAction(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid action id"})
		return
	}

	action, err := h.service.CancelAction(c.Request.Context(), id)
	if err != nil {
		c.JSON(actionErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, action)
}
