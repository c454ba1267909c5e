package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"audit-service/internal/models"
	"audit-service/internal/report"
	"audit-service/internal/repository"
	"audit-service/internal/services"
)

// AuditHandler handles HTTP requests for audits and audit items
type AuditHandler struct {
	service *services.AuditService
	reports *report.Generator
}

// NewAuditHandler creates a new AuditHandler
func NewAuditHandler(service *services.AuditService, reports *report.Generator) *AuditHandler {
	return &AuditHandler{
		service: service,
		reports: reports,
	}
}

func auditErrorStatus(err error) int {
	switch {
	case errors.Is(err, services.ErrAuditNotFound),
		errors.Is(err, services.ErrSiteNotFound),
		errors.Is(err, services.ErrAuditorNotFound),
		errors.Is(err, services.ErrItemNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrAuditFinalized),
		errors.Is(err, services.ErrNotAwaitingReview),
		errors.Is(err, services.ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, services.ErrInvalidItemStatus):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// CreateAudit creates a new audit with its item snapshot
// @Summary Create audit
// @Tags Audits
// @Accept json
// @Produce json
// @Param request body services.CreateAuditInput true "Create Audit"
// @Success 201 {object} models.Audit
// @Router /api/v1/audits [post]
func (h *AuditHandler) CreateAudit(c *gin.Context) {
	var input services.CreateAuditInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	audit, err := h.service.CreateAudit(c.Request.Context(), input)
	if err != nil {
		c.JSON(auditErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, audit)
}

// GetAudit retrieves an audit with site, auditor, items and actions
// @Summary Get audit
// @Tags Audits
// @Produce json
// @Param id path string true "Audit ID"
// @Success 200 {object} models.Audit
// @Router /api/v1/audits/{id} [get]
func (h *AuditHandler) GetAudit(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid audit id"})
		return
	}

	audit, err := h.service.GetAudit(c.Request.Context(), id)
	if err != nil {
		c.JSON(auditErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, audit)
}

// ListAudits lists audits with optional filters
// @Summary List audits
// @Tags Audits
// @Produce json
// @Param status query string false "Status filter"
// @Param siteId query string false "Site filter"
// @Param auditorId query string false "Auditor filter"
// @Param limit query int false "Limit" default(20)
// @Param offset query int false "Offset" default(0)
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/audits [get]
func (h *AuditHandler) ListAudits(c *gin.Context) {
	var filter repository.AuditFilter
	filter.Status = c.Query("status")
	if s := c.Query("siteId"); s != "" {
		siteID, err := uuid.Parse(s)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid siteId"})
			return
		}
		filter.SiteID = &siteID
	}
	if s := c.Query("auditorId"); s != "" {
		auditorID, err := uuid.Parse(s)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid auditorId"})
			return
		}
		filter.AuditorID = &auditorID
	}

	limit, offset := pagination(c)

	audits, total, err := h.service.ListAudits(c.Request.Context(), filter, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "An internal error occurred"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":   audits,
		"total":  total,
		"limit":  limit,
		"offset": offset,
	})
}

// UpdateAudit applies a partial update to an audit
// @Summary Update audit
// @Tags Audits
// @Accept json
// @Produce json
// @Param id path string true "Audit ID"
// @Param request body services.UpdateAuditInput true "Patch"
// @Success 200 {object} models.Audit
// @Router /api/v1/audits/{id} [patch]
func (h *AuditHandler) UpdateAudit(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid audit id"})
		return
	}

	var input services.UpdateAuditInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	audit, err := h.service.UpdateAudit(c.Request.Context(), id, input)
	if err != nil {
		c.JSON(auditErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, audit)
}

// SaveDraft stores the auto-saved form state for an audit
// @Summary Save audit draft
// @Tags Audits
// @Accept json
// @Produce json
// @Param id path string true "Audit ID"
// @Param request body models.DraftPayload true "Draft payload"
// @Success 200 {object} models.Audit
// @Router /api/v1/audits/{id}/draft [put]
func (h *AuditHandler) SaveDraft(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid audit id"})
		return
	}

	var payload models.DraftPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	audit, err := h.service.SaveDraft(c.Request.Context(), id, payload)
	if err != nil {
		c.JSON(auditErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, audit)
}

// UpdateAuditItem applies a partial update to an audit item
// @Summary Update audit item
// @Tags Audits
// @Accept json
// @Produce json
// @Param id path string true "Item ID"
// @Param request body services.UpdateItemInput true "Patch"
// @Success 200 {object} models.AuditItem
// @Router /api/v1/audit-items/{id} [patch]
func (h *AuditHandler) UpdateAuditItem(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid item id"})
		return
	}

	var input services.UpdateItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item, err := h.service.UpdateAuditItem(c.Request.Context(), id, input)
	if err != nil {
		c.JSON(auditErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, item)
}

// CalculateScore recomputes and caches the audit's compliance score
// @Summary Calculate audit score
// @Tags Audits
// @Produce json
// @Param id path string true "Audit ID"
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/audits/{id}/score [post]
func (h *AuditHandler) CalculateScore(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid audit id"})
		return
	}

	audit, scored, err := h.service.CalculateScore(c.Request.Context(), id)
	if err != nil {
		c.JSON(auditErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"auditId":     audit.ID,
		"score":       audit.Score,
		"scoredItems": scored,
	})
}

// SubmitApproval records a review decision on an audit
// @Summary Submit audit approval
// @Tags Audits
// @Accept json
// @Produce json
// @Param id path string true "Audit ID"
// @Param request body services.SubmitApprovalInput true "Decision"
// @Success 200 {object} models.Audit
// @Router /api/v1/audits/{id}/approval [post]
func (h *AuditHandler) SubmitApproval(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid audit id"})
		return
	}

	reviewerID, err := uuid.Parse(c.GetString("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user_id"})
		return
	}

	var input services.SubmitApprovalInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	audit, err := h.service.SubmitApproval(c.Request.Context(), id, reviewerID, input)
	if err != nil {
		c.JSON(auditErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, audit)
}

// GetApprovalHistory retrieves the review history of an audit
// @Summary Get audit approval history
// @Tags Audits
// @Produce json
// @Param id path string true "Audit ID"
// @Success 200 {array} models.AuditApproval
// @Router /api/v1/audits/{id}/approvals [get]
func (h *AuditHandler) GetApprovalHistory(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid audit id"})
		return
	}

	history, err := h.service.GetApprovalHistory(c.Request.Context(), id)
	if err != nil {
		c.JSON(auditErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, history)
}

// DownloadReport renders the audit with its items and actions as a PDF
// @Summary Download audit report
// @Tags Audits
// @Produce application/pdf
// @Param id path string true "Audit ID"
// @Success 200 {file} binary
// @Router /api/v1/audits/{id}/report [get]
func (h *AuditHandler) DownloadReport(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid audit id"})
		return
	}

	audit, err := h.service.GetAudit(c.Request.Context(), id)
	if err != nil {
		c.JSON(auditErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	pdf, err := h.reports.AuditPDF(audit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate report"})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s.pdf", audit.AuditNumber))
	c.Data(http.StatusOK, "application/pdf", pdf)
}

// pagination parses and clamps the shared limit/offset query params
func pagination(c *gin.Context) (limit, offset int) {
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	if limit < 1 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
