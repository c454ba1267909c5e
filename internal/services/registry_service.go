package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"audit-service/internal/models"
	"audit-service/internal/repository"
)

var ErrUsernameTaken = errors.New("username is already taken")

// RegistryService manages the read-mostly reference data audits hang off:
// sites, users and the checklist template catalog.
type RegistryService struct {
	repo repository.AuditRepositoryInterface
}

// NewRegistryService creates a new RegistryService
func NewRegistryService(repo repository.AuditRepositoryInterface) *RegistryService {
	return &RegistryService{repo: repo}
}

// CreateSiteInput represents input for registering a site
type CreateSiteInput struct {
	Name        string `json:"name" binding:"required"`
	Location    string `json:"location" binding:"required"`
	Industry    string `json:"industry" binding:"required"`
	RiskProfile string `json:"riskProfile,omitempty" binding:"omitempty,oneof=low medium high"`
}

// CreateSite registers a new site
func (s *RegistryService) CreateSite(ctx context.Context, input CreateSiteInput) (*models.Site, error) {
	site := &models.Site{
		Name:        input.Name,
		Location:    input.Location,
		Industry:    input.Industry,
		RiskProfile: input.RiskProfile,
	}
	if site.RiskProfile == "" {
		site.RiskProfile = models.RiskMedium
	}
	if err := s.repo.CreateSite(ctx, site); err != nil {
		return nil, fmt.Errorf("failed to create site: %w", err)
	}
	return site, nil
}

// GetSite retrieves a site by ID
func (s *RegistryService) GetSite(ctx context.Context, id uuid.UUID) (*models.Site, error) {
	site, err := s.repo.GetSiteByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSiteNotFound
		}
		return nil, err
	}
	return site, nil
}

// ListSites retrieves all sites
func (s *RegistryService) ListSites(ctx context.Context) ([]models.Site, error) {
	return s.repo.ListSites(ctx)
}

// CreateUserInput represents input for registering a user
type CreateUserInput struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email,omitempty" binding:"omitempty,email"`
	Name     string `json:"name,omitempty"`
	Role     string `json:"role,omitempty" binding:"omitempty,oneof=auditor manager admin"`
}

// CreateUser registers a new user
func (s *RegistryService) CreateUser(ctx context.Context, input CreateUserInput) (*models.User, error) {
	if _, err := s.repo.GetUserByUsername(ctx, input.Username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	user := &models.User{
		Username: input.Username,
		Email:    input.Email,
		Name:     input.Name,
		Role:     input.Role,
	}
	if user.Role == "" {
		user.Role = models.RoleAuditor
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// ListUsers retrieves all users
func (s *RegistryService) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.repo.ListUsers(ctx)
}

// ListTemplates retrieves the checklist template catalog in display order
func (s *RegistryService) ListTemplates(ctx context.Context) ([]models.ChecklistTemplate, error) {
	return s.repo.ListTemplates(ctx)
}
