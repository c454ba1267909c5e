package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"audit-service/internal/models"
	"audit-service/internal/repository"
)

// Helper to create a test site
func createTestSite() *models.Site {
	return &models.Site{
		ID:          uuid.New(),
		Name:        "Cape Town Factory",
		Location:    "Cape Town",
		Industry:    "Manufacturing",
		RiskProfile: models.RiskMedium,
	}
}

// Helper to create a test user
func createTestUser(role string) *models.User {
	return &models.User{
		ID:       uuid.New(),
		Username: "jsmith",
		Name:     "J Smith",
		Role:     role,
	}
}

// Helper to create a template catalog of the given size
func createTestTemplates(n int) []models.ChecklistTemplate {
	templates := make([]models.ChecklistTemplate, 0, n)
	for i := 0; i < n; i++ {
		templates = append(templates, models.ChecklistTemplate{
			ID:          uuid.New(),
			Category:    "General",
			Legislation: models.LegislationOHSA,
		})
	}
	return templates
}

// Helper to create a test audit in the given status
func createTestAudit(status string) *models.Audit {
	return &models.Audit{
		ID:          uuid.New(),
		AuditNumber: "AUD-1756339200000-A1B2C3",
		SiteID:      uuid.New(),
		AuditorID:   uuid.New(),
		Date:        time.Now(),
		Type:        models.AuditTypeRoutine,
		Status:      status,
	}
}

func itemsWithStatuses(statuses ...string) []models.AuditItem {
	items := make([]models.AuditItem, 0, len(statuses))
	for _, s := range statuses {
		items = append(items, models.AuditItem{ID: uuid.New(), Status: s})
	}
	return items
}

// ===========================================
// Create Audit Tests
// ===========================================

func TestCreateAudit_SnapshotsTemplateCatalog(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockAuditRepository)
	service := NewAuditService(mockRepo)

	site := createTestSite()
	auditor := createTestUser(models.RoleAuditor)
	templates := createTestTemplates(3)

	mockRepo.On("GetSiteByID", ctx, site.ID).Return(site, nil)
	mockRepo.On("GetUserByID", ctx, auditor.ID).Return(auditor, nil)
	mockRepo.On("CreateAudit", ctx, mock.AnythingOfType("*models.Audit")).Return(nil)
	mockRepo.On("ListTemplates", ctx).Return(templates, nil)
	mockRepo.On("CreateAuditItems", ctx, mock.AnythingOfType("[]models.AuditItem")).Return(nil)

	audit, err := service.CreateAudit(ctx, CreateAuditInput{
		SiteID:    site.ID,
		AuditorID: auditor.ID,
		Type:      models.AuditTypeRoutine,
	})

	assert.NoError(t, err)
	assert.NotNil(t, audit)
	assert.Equal(t, models.AuditStatusDraft, audit.Status)
	assert.True(t, strings.HasPrefix(audit.AuditNumber, "AUD-"))
	assert.Len(t, audit.Items, 3)
	for _, item := range audit.Items {
		assert.Equal(t, models.ItemStatusPending, item.Status)
		assert.Equal(t, audit.ID, item.AuditID)
	}
	mockRepo.AssertExpectations(t)
}

func TestCreateAudit_SiteMissing(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockAuditRepository)
	service := NewAuditService(mockRepo)

	siteID := uuid.New()
	mockRepo.On("GetSiteByID", ctx, siteID).Return(nil, repository.ErrNotFound)

	audit, err := service.CreateAudit(ctx, CreateAuditInput{
		SiteID:    siteID,
		AuditorID: uuid.New(),
		Type:      models.AuditTypeRoutine,
	})

	assert.ErrorIs(t, err, ErrSiteNotFound)
	assert.Nil(t, audit)
	mockRepo.AssertExpectations(t)
}

func TestCreateAudit_ItemInstantiationFailureAbortsAudit(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockAuditRepository)
	service := NewAuditService(mockRepo)

	site := createTestSite()
	auditor := createTestUser(models.RoleAuditor)

	mockRepo.On("GetSiteByID", ctx, site.ID).Return(site, nil)
	mockRepo.On("GetUserByID", ctx, auditor.ID).Return(auditor, nil)
	mockRepo.On("CreateAudit", ctx, mock.AnythingOfType("*models.Audit")).Return(nil)
	mockRepo.On("ListTemplates", ctx).Return(createTestTemplates(2), nil)
	mockRepo.On("CreateAuditItems", ctx, mock.AnythingOfType("[]models.AuditItem")).
		Return(errors.New("insert failed"))

	audit, err := service.CreateAudit(ctx, CreateAuditInput{
		SiteID:    site.ID,
		AuditorID: auditor.ID,
		Type:      models.AuditTypeIncident,
	})

	assert.Error(t, err)
	assert.Nil(t, audit)
	mockRepo.AssertExpectations(t)
}

func TestCreateAudit_EmptyTemplateCatalog(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockAuditRepository)
	service := NewAuditService(mockRepo)

	site := createTestSite()
	auditor := createTestUser(models.RoleAuditor)

	mockRepo.On("GetSiteByID", ctx, site.ID).Return(site, nil)
	mockRepo.On("GetUserByID", ctx, auditor.ID).Return(auditor, nil)
	mockRepo.On("CreateAudit", ctx, mock.AnythingOfType("*models.Audit")).Return(nil)
	mockRepo.On("ListTemplates", ctx).Return([]models.ChecklistTemplate{}, nil)
	mockRepo.On("CreateAuditItems", ctx, mock.AnythingOfType("[]models.AuditItem")).Return(nil)

	audit, err := service.CreateAudit(ctx, CreateAuditInput{
		SiteID:    site.ID,
		AuditorID: auditor.ID,
		Type:      models.AuditTypeRoutine,
	})

	assert.NoError(t, err)
	assert.NotNil(t, audit)
	assert.Empty(t, audit.Items)
	assert.Equal(t, models.AuditStatusDraft, audit.Status)
	mockRepo.AssertExpectations(t)
}

// ===========================================
// Scoring Tests
// ===========================================

func TestComputeScore_ExcludesPendingAndNotApplicable(t *testing.T) {
	items := itemsWithStatuses(
		models.ItemStatusCompliant,
		models.ItemStatusCompliant,
		models.ItemStatusNonCompliant,
		models.ItemStatusPending,
		models.ItemStatusNotApplicable,
	)

	score, scored := ComputeScore(items)

	assert.Equal(t, 3, scored)
	assert.Equal(t, 67, score) // round(100 * 2/3)
}

func TestComputeScore_ObservationCountsAsScoredNotCompliant(t *testing.T) {
	items := itemsWithStatuses(
		models.ItemStatusCompliant, models.ItemStatusCompliant, models.ItemStatusCompliant,
		models.ItemStatusCompliant, models.ItemStatusCompliant, models.ItemStatusCompliant,
		models.ItemStatusObservation,
	)

	score, scored := ComputeScore(items)

	assert.Equal(t, 7, scored)
	assert.Equal(t, 86, score) // round(100 * 6/7)
}

func TestComputeScore_CorrectedOnSiteIsNotCompliant(t *testing.T) {
	items := itemsWithStatuses(
		models.ItemStatusCompliant,
		models.ItemStatusCorrectedOnSite,
	)

	score, scored := ComputeScore(items)

	assert.Equal(t, 2, scored)
	assert.Equal(t, 50, score)
}

func TestComputeScore_NoScoreableItems(t *testing.T) {
	items := itemsWithStatuses(models.ItemStatusPending, models.ItemStatusNotApplicable)

	score, scored := ComputeScore(items)

	assert.Equal(t, 0, scored)
	assert.Equal(t, 0, score)

	score, scored = ComputeScore(nil)
	assert.Equal(t, 0, scored)
	assert.Equal(t, 0, score)
}

func TestComputeScore_NeverRisesWhenComplianceDrops(t *testing.T) {
	items := itemsWithStatuses(
		models.ItemStatusCompliant, models.ItemStatusCompliant, models.ItemStatusCompliant,
		models.ItemStatusCompliant, models.ItemStatusCompliant, models.ItemStatusCompliant,
		models.ItemStatusNonCompliant,
		models.ItemStatusNotApplicable,
	)

	before, scoredBefore := ComputeScore(items)

	items[0].Status = models.ItemStatusNonCompliant
	after, scoredAfter := ComputeScore(items)

	assert.Equal(t, scoredBefore, scoredAfter)
	assert.Equal(t, 86, before) // round(100 * 6/7)
	assert.Equal(t, 71, after)  // round(100 * 5/7)
	assert.LessOrEqual(t, after, before)
}

func TestComputeScore_Idempotent(t *testing.T) {
	items := itemsWithStatuses(
		models.ItemStatusCompliant,
		models.ItemStatusNonCompliant,
		models.ItemStatusObservation,
	)

	first, _ := ComputeScore(items)
	second, _ := ComputeScore(items)

	assert.Equal(t, first, second)
}

// ===========================================
// Update Audit Tests
// ===========================================

func TestUpdateAudit_InvalidTransition(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockAuditRepository)
	service := NewAuditService(mockRepo)

	audit := createTestAudit(models.AuditStatusDraft)
	mockRepo.On("GetAuditByID", ctx, audit.ID).Return(audit, nil)

	completed := models.AuditStatusCompleted
	updated, err := service.UpdateAudit(ctx, audit.ID, UpdateAuditInput{Status: &completed})

	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Nil(t, updated)
	mockRepo.AssertExpectations(t)
}

func TestUpdateAudit_CompletionCachesScore(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockAuditRepository)
	service := NewAuditService(mockRepo)

	audit := createTestAudit(models.AuditStatusInProgress)
	audit.Items = itemsWithStatuses(
		models.ItemStatusCompliant,
		models.ItemStatusCompliant,
		models.ItemStatusNonCompliant,
		models.ItemStatusNotApplicable,
	)

	mockRepo.On("GetAuditByID", ctx, audit.ID).Return(audit, nil)
	mockRepo.On("SaveAudit", ctx, audit).Return(nil)

	completed := models.AuditStatusCompleted
	updated, err := service.UpdateAudit(ctx, audit.ID, UpdateAuditInput{Status: &completed})

	assert.NoError(t, err)
	assert.Equal(t, models.AuditStatusCompleted, updated.Status)
	assert.NotNil(t, updated.Score)
	assert.Equal(t, 67, *updated.Score)
	mockRepo.AssertExpectations(t)
}

func TestUpdateAudit_CompletedAuditIsImmutable(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockAuditRepository)
	service := NewAuditService(mockRepo)

	audit := createTestAudit(models.AuditStatusCompleted)
	mockRepo.On("GetAuditByID", ctx, audit.ID).Return(audit, nil)

	followUp := models.AuditTypeFollowUp
	updated, err := service.UpdateAudit(ctx, audit.ID, UpdateAuditInput{Type: &followUp})

	assert.ErrorIs(t, err, ErrAuditFinalized)
	assert.Nil(t, updated)
	mockRepo.AssertExpectations(t)
}

// ===========================================
// Draft Tests
// ===========================================

func TestSaveDraft_StoresVersionedPayload(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockAuditRepository)
	service := NewAuditService(mockRepo)

	audit := createTestAudit(models.AuditStatusInProgress)
	mockRepo.On("GetAuditByID", ctx, audit.ID).Return(audit, nil)
	mockRepo.On("SaveAudit", ctx, audit).Return(nil)

	payload := models.DraftPayload{
		SchemaVersion: 1,
		Data:          map[string]interface{}{"currentItem": "2.1", "notes": "loose guard"},
	}
	updated, err := service.SaveDraft(ctx, audit.ID, payload)

	assert.NoError(t, err)

	var stored models.DraftPayload
	assert.NoError(t, json.Unmarshal(updated.Draft, &stored))
	assert.Equal(t, 1, stored.SchemaVersion)
	assert.Equal(t, "loose guard", stored.Data["notes"])
	mockRepo.AssertExpectations(t)
}

func TestSaveDraft_RejectedOnCompletedAudit(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockAuditRepository)
	service := NewAuditService(mockRepo)

	audit := createTestAudit(models.AuditStatusCompleted)
	mockRepo.On("GetAuditByID", ctx, audit.ID).Return(audit, nil)

	_, err := service.SaveDraft(ctx, audit.ID, models.DraftPayload{SchemaVersion: 1, Data: map[string]interface{}{}})

	assert.ErrorIs(t, err, ErrAuditFinalized)
	mockRepo.AssertExpectations(t)
}

// ===========================================
// Update Item Tests
// ===========================================

func TestUpdateAuditItem_FirstAnswerAdvancesDraftAudit(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockAuditRepository)
	service := NewAuditService(mockRepo)

	audit := createTestAudit(models.AuditStatusDraft)
	item := &models.AuditItem{ID: uuid.New(), AuditID: audit.ID, Status: models.ItemStatusPending}

	mockRepo.On("GetAuditItemByID", ctx, item.ID).Return(item, nil)
	mockRepo.On("GetAuditByID", ctx, audit.ID).Return(audit, nil)
	mockRepo.On("SaveAuditItem", ctx, item).Return(nil)
	mockRepo.On("SaveAudit", ctx, audit).Return(nil)

	compliant := models.ItemStatusCompliant
	updated, err := service.UpdateAuditItem(ctx, item.ID, UpdateItemInput{Status: &compliant})

	assert.NoError(t, err)
	assert.Equal(t, models.ItemStatusCompliant, updated.Status)
	assert.Equal(t, models.AuditStatusInProgress, audit.Status)
	mockRepo.AssertExpectations(t)
}

func TestUpdateAuditItem_NotesOnlyEditLeavesDraftAudit(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockAuditRepository)
	service := NewAuditService(mockRepo)

	audit := createTestAudit(models.AuditStatusDraft)
	item := &models.AuditItem{ID: uuid.New(), AuditID: audit.ID, Status: models.ItemStatusPending}

	mockRepo.On("GetAuditItemByID", ctx, item.ID).Return(item, nil)
	mockRepo.On("GetAuditByID", ctx, audit.ID).Return(audit, nil)
	mockRepo.On("SaveAuditItem", ctx, item).Return(nil)

	notes := "needs a second look"
	updated, err := service.UpdateAuditItem(ctx, item.ID, UpdateItemInput{Notes: &notes})

	assert.NoError(t, err)
	assert.Equal(t, "needs a second look", updated.Notes)
	assert.Equal(t, models.AuditStatusDraft, audit.Status)
	mockRepo.AssertNotCalled(t, "SaveAudit", ctx, audit)
	mockRepo.AssertExpectations(t)
}

func TestUpdateAuditItem_InvalidStatus(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockAuditRepository)
	service := NewAuditService(mockRepo)

	audit := createTestAudit(models.AuditStatusInProgress)
	item := &models.AuditItem{ID: uuid.New(), AuditID: audit.ID, Status: models.ItemStatusPending}

	mockRepo.On("GetAuditItemByID", ctx, item.ID).Return(item, nil)
	mockRepo.On("GetAuditByID", ctx, audit.ID).Return(audit, nil)

	bogus := "passed"
	_, err := service.UpdateAuditItem(ctx, item.ID, UpdateItemInput{Status: &bogus})

	assert.ErrorIs(t, err, ErrInvalidItemStatus)
	mockRepo.AssertExpectations(t)
}

func TestUpdateAuditItem_RejectedOnCompletedAudit(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockAuditRepository)
	service := NewAuditService(mockRepo)

	audit := createTestAudit(models.AuditStatusCompleted)
	item := &models.AuditItem{ID: uuid.New(), AuditID: audit.ID, Status: models.ItemStatusCompliant}

	mockRepo.On("GetAuditItemByID", ctx, item.ID).Return(item, nil)
	mockRepo.On("GetAuditByID", ctx, audit.ID).Return(audit, nil)

	notes := "late edit"
	_, err := service.UpdateAuditItem(ctx, item.ID, UpdateItemInput{Notes: &notes})

	assert.ErrorIs(t, err, ErrAuditFinalized)
	mockRepo.AssertExpectations(t)
}

// ===========================================
// Calculate Score Tests
// ===========================================

func TestCalculateScore_CachesResult(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockAuditRepository)
	service := NewAuditService(mockRepo)

	audit := createTestAudit(models.AuditStatusInProgress)
	items := itemsWithStatuses(
		models.ItemStatusCompliant, models.ItemStatusCompliant, models.ItemStatusCompliant,
		models.ItemStatusCompliant, models.ItemStatusCompliant, models.ItemStatusCompliant,
		models.ItemStatusObservation,
	)

	mockRepo.On("GetAuditByID", ctx, audit.ID).Return(audit, nil)
	mockRepo.On("ListAuditItems", ctx, audit.ID).Return(items, nil)
	mockRepo.On("SaveAudit", ctx, audit).Return(nil)

	updated, scored, err := service.CalculateScore(ctx, audit.ID)

	assert.NoError(t, err)
	assert.Equal(t, 7, scored)
	assert.NotNil(t, updated.Score)
	assert.Equal(t, 86, *updated.Score)
	mockRepo.AssertExpectations(t)
}

// ===========================================
// Approval Tests
// ===========================================

func TestSubmitApproval_ApprovedCompletesAuditAndCachesScore(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockAuditRepository)
	service := NewAuditService(mockRepo)

	reviewer := createTestUser(models.RoleManager)
	audit := createTestAudit(models.AuditStatusPendingApproval)
	audit.Items = itemsWithStatuses(models.ItemStatusCompliant, models.ItemStatusCompliant)

	mockRepo.On("GetAuditByID", ctx, audit.ID).Return(audit, nil)
	mockRepo.On("GetUserByID", ctx, reviewer.ID).Return(reviewer, nil)
	mockRepo.On("CreateApproval", ctx, mock.AnythingOfType("*models.AuditApproval")).Return(nil)
	mockRepo.On("SaveAudit", ctx, audit).Return(nil)

	updated, err := service.SubmitApproval(ctx, audit.ID, reviewer.ID, SubmitApprovalInput{
		Status:   models.ApprovalStatusApproved,
		Comments: "all findings addressed",
	})

	assert.NoError(t, err)
	assert.Equal(t, models.AuditStatusCompleted, updated.Status)
	assert.NotNil(t, updated.Score)
	assert.Equal(t, 100, *updated.Score)
	assert.Equal(t, &reviewer.ID, updated.ApproverID)
	assert.Equal(t, "all findings addressed", updated.ApprovalNotes)
	mockRepo.AssertExpectations(t)
}

func TestSubmitApproval_RejectedReturnsToInProgress(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockAuditRepository)
	service := NewAuditService(mockRepo)

	reviewer := createTestUser(models.RoleManager)
	audit := createTestAudit(models.AuditStatusPendingApproval)

	mockRepo.On("GetAuditByID", ctx, audit.ID).Return(audit, nil)
	mockRepo.On("GetUserByID", ctx, reviewer.ID).Return(reviewer, nil)
	mockRepo.On("CreateApproval", ctx, mock.AnythingOfType("*models.AuditApproval")).Return(nil)
	mockRepo.On("SaveAudit", ctx, audit).Return(nil)

	updated, err := service.SubmitApproval(ctx, audit.ID, reviewer.ID, SubmitApprovalInput{
		Status:   models.ApprovalStatusRejected,
		Comments: "missing photos for 2.1",
	})

	assert.NoError(t, err)
	assert.Equal(t, models.AuditStatusInProgress, updated.Status)
	assert.Nil(t, updated.Score)
	mockRepo.AssertExpectations(t)
}

func TestSubmitApproval_RequiresPendingApproval(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockAuditRepository)
	service := NewAuditService(mockRepo)

	audit := createTestAudit(models.AuditStatusInProgress)
	mockRepo.On("GetAuditByID", ctx, audit.ID).Return(audit, nil)

	_, err := service.SubmitApproval(ctx, audit.ID, uuid.New(), SubmitApprovalInput{
		Status: models.ApprovalStatusApproved,
	})

	assert.ErrorIs(t, err, ErrNotAwaitingReview)
	mockRepo.AssertExpectations(t)
}

// ===========================================
// Audit Number Tests
// ===========================================

func TestGenerateAuditNumber_Format(t *testing.T) {
	now := time.Date(2026, 8, 28, 9, 0, 0, 0, time.UTC)
	number := generateAuditNumber(now)

	parts := strings.Split(number, "-")
	assert.Len(t, parts, 3)
	assert.Equal(t, "AUD", parts[0])
	assert.Equal(t, "1787907600000", parts[1])
	assert.Len(t, parts[2], 6)
	assert.Equal(t, strings.ToUpper(parts[2]), parts[2])
}

func TestGenerateAuditNumber_DistinctWithinMillisecond(t *testing.T) {
	now := time.Now()
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		n := generateAuditNumber(now)
		assert.False(t, seen[n], "duplicate audit number %s", n)
		seen[n] = true
	}
}
