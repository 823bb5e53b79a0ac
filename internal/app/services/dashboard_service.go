package services

import (
	"context"

	"github.com/empatecerca/api/internal/app/models"
	"github.com/rs/zerolog"
)

// DashboardService serves the admin overview
type DashboardService interface {
	Stats(ctx context.Context) (*models.DashboardStats, error)
}

type dashboardServiceImpl struct {
	dashboardRepo dashboardStore
	logger        zerolog.Logger
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(dashboardRepo dashboardStore, logger zerolog.Logger) DashboardService {
	return &dashboardServiceImpl{
		dashboardRepo: dashboardRepo,
		logger:        logger,
	}
}

func (s *dashboardServiceImpl) Stats(ctx context.Context) (*models.DashboardStats, error) {
	stats, err := s.dashboardRepo.Stats(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to compute dashboard stats")
		return nil, err
	}
	return stats, nil
}
