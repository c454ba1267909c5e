package services

import (
	"context"
	"math"
	"time"

	"audit-service/internal/models"
	"audit-service/internal/repository"
)

// StatsService computes the read-only dashboard view. It never mutates rows;
// its cost is one pass over audits and actions per call, so hot-path callers
// should cache the result externally.
type StatsService struct {
	repo repository.AuditRepositoryInterface
}

// NewStatsService creates a new StatsService
func NewStatsService(repo repository.AuditRepositoryInterface) *StatsService {
	return &StatsService{repo: repo}
}

// DashboardStats is the aggregate view across all audits and actions.
// ComplianceRate is 0 both when every completed audit failed and when no
// completed scored audit exists; consumers that need to tell these apart
// must check ScoredAudits.
type DashboardStats struct {
	ComplianceRate int            `json:"complianceRate"`
	ScoredAudits   int            `json:"scoredAudits"`
	OpenActions    int64          `json:"openActions"`
	OverdueActions int64          `json:"overdueActions"`
	TotalAudits    int64          `json:"totalAudits"`
	RecentAudits   []models.Audit `json:"recentAudits"`
}

// Dashboard aggregates compliance and action counts across all audits.
// Overdue counts come from the live predicate, not the cached flag.
func (s *StatsService) Dashboard(ctx context.Context) (*DashboardStats, error) {
	scores, err := s.repo.CompletedAuditScores(ctx)
	if err != nil {
		return nil, err
	}

	rate := 0
	if len(scores) > 0 {
		sum := 0
		for _, score := range scores {
			sum += score
		}
		rate = int(math.Round(float64(sum) / float64(len(scores))))
	}

	openActions, err := s.repo.CountActionsByStatus(ctx, models.ActionStatusPending)
	if err != nil {
		return nil, err
	}
	overdueActions, err := s.repo.CountOverdueActions(ctx, time.Now())
	if err != nil {
		return nil, err
	}
	totalAudits, err := s.repo.CountAudits(ctx)
	if err != nil {
		return nil, err
	}
	recent, err := s.repo.RecentAudits(ctx, 5)
	if err != nil {
		return nil, err
	}

	return &DashboardStats{
		ComplianceRate: rate,
		ScoredAudits:   len(scores),
		OpenActions:    openActions,
		OverdueActions: overdueActions,
		TotalAudits:    totalAudits,
		RecentAudits:   recent,
	}, nil
}
