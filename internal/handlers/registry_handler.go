package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"audit-service/internal/services"
)

// RegistryHandler handles HTTP requests for sites, users and checklist templates
type RegistryHandler struct {
	service *services.RegistryService
}

// NewRegistryHandler creates a new RegistryHandler
func NewRegistryHandler(service *services.RegistryService) *RegistryHandler {
	return &RegistryHandler{service: service}
}

// CreateSite registers a new site
// @Summary Create site
// @Tags Registry
// @Accept json
// @Produce json
// @Param request body services.CreateSiteInput true "Create Site"
// @Success 201 {object} models.Site
// @Router /api/v1/sites [post]
func (h *RegistryHandler) CreateSite(c *gin.Context) {
	var input services.CreateSiteInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	site, err := h.service.CreateSite(c.Request.Context(), input)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "An internal error occurred"})
		return
	}

	c.JSON(http.StatusCreated, site)
}

// GetSite retrieves a site
// @Summary Get site
// @Tags Registry
// @Produce json
// @Param id path string true "Site ID"
// @Success 200 {object} models.Site
// @Router /api/v1/sites/{id} [get]
func (h *RegistryHandler) GetSite(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid site id"})
		return
	}

	site, err := h.service.GetSite(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrSiteNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "An internal error occurred"})
		return
	}

	c.JSON(http.StatusOK, site)
}

// ListSites lists all registered sites
// @Summary List sites
// @Tags Registry
// @Produce json
// @Success 200 {array} models.Site
// @Router /api/v1/sites [get]
func (h *RegistryHandler) ListSites(c *gin.Context) {
	sites, err := h.service.ListSites(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "An internal error occurred"})
		return
	}

	c.JSON(http.StatusOK, sites)
}

// CreateUser registers a new user
// @Summary Create user
// @Tags Registry
// @Accept json
// @Produce json
// @Param request body services.CreateUserInput true "Create User"
// @Success 201 {object} models.User
// @Router /api/v1/users [post]
func (h *RegistryHandler) CreateUser(c *gin.Context) {
	var input services.CreateUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.service.CreateUser(c.Request.Context(), input)
	if err != nil {
		if errors.Is(err, services.ErrUsernameTaken) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "An internal error occurred"})
		return
	}

	c.JSON(http.StatusCreated, user)
}

// ListUsers lists all users
// @Summary List users
// @Tags Registry
// @Produce json
// @Success 200 {array} models.User
// @Router /api/v1/users [get]
func (h *RegistryHandler) ListUsers(c *gin.Context) {
	users, err := h.service.ListUsers(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "An internal error occurred"})
		return
	}

	c.JSON(http.StatusOK, users)
}

// ListTemplates lists the checklist template library
// @Summary List checklist templates
// @Tags Registry
// @Produce json
// @Success 200 {array} models.ChecklistTemplate
// @Router /api/v1/templates [get]
func (h *RegistryHandler) ListTemplates(c *gin.Context) {
	templates, err := h.service.ListTemplates(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "An internal error occurred"})
		return
	}

	c.JSON(http.StatusOK, templates)
}
