package nutrition

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mkarvo/coachapp/internal/sqlite"
)

// Service handles the business logic for macro targets and meal plans.
type Service struct {
	repo   *repository
	logger *slog.Logger
}

// NewService creates a new nutrition service.
func NewService(db *sqlite.Database, logger *slog.Logger) *Service {
	return &Service{
		repo:   newRepository(db, logger),
		logger: logger,
	}
}

// Targets computes the current macro targets for a client without persisting
// anything.
func (s *Service) Targets(ctx context.Context, clientID int64) (Targets, error) {
	profile, err := s.repo.clientProfile(ctx, clientID)
	if err != nil {
		return Targets{}, fmt.Errorf("load client profile: %w", err)
	}
	return CalculateMacros(profile), nil
}

// GeneratePlan computes macro targets for a client and persists a fresh
// 28-day meal plan. Earlier plans are kept as history; the newest plan is the
// active one.
func (s *Service) GeneratePlan(ctx context.Context, clientID int64) (Plan, error) {
	profile, err := s.repo.clientProfile(ctx, clientID)
	if err != nil {
		return Plan{}, fmt.Errorf("load client profile: %w", err)
	}

	targets := CalculateMacros(profile)
	plan := Plan{
		ClientID: clientID,
		Targets:  targets,
		Days:     buildPlanDays(targets),
	}

	persisted, err := s.repo.createPlan(ctx, plan)
	if err != nil {
		return Plan{}, fmt.Errorf("persist meal plan: %w", err)
	}

	s.logger.LogAttrs(ctx, slog.LevelInfo, "generated meal plan",
		slog.Int64("clientID", clientID),
		slog.Int64("planID", persisted.ID),
		slog.Int("calories", targets.Calories))

	return persisted, nil
}

// CurrentPlan returns the latest plan for a client with all days and meals.
func (s *Service) CurrentPlan(ctx context.Context, clientID int64) (Plan, error) {
	plan, err := s.repo.latestPlan(ctx, clientID)
	if err != nil {
		return Plan{}, fmt.Errorf("load latest plan: %w", err)
	}
	return plan, nil
}

// ListPlans returns plan headers for a client, newest first.
func (s *Service) ListPlans(ctx context.Context, clientID int64) ([]Plan, error) {
	plans, err := s.repo.listPlans(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}
	return plans, nil
}
