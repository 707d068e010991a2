package services

import (
	"context"

	"github.com/akinalp/sentquote/models"
	"github.com/akinalp/sentquote/repository"
)

const recentEventLimit = 20

// StatsService, dashboard özet sayıları. Sadece okur.
type StatsService interface {
	Dashboard(ctx context.Context, userID string) (*models.DashboardStats, error)
}

type statsService struct {
	quotes repository.QuoteRepository
	events repository.EventRepository
}

// NewStatsService, constructor.
func NewStatsService(quotes repository.QuoteRepository, events repository.EventRepository) StatsService {
	return &statsService{quotes: quotes, events: events}
}

func (s *statsService) Dashboard(ctx context.Context, userID string) (*models.DashboardStats, error) {
	stats, err := s.quotes.Summary(ctx, userID)
	if err != nil {
		return nil, err
	}

	recent, err := s.events.ListRecentByUser(ctx, userID, recentEventLimit)
	if err != nil {
		return nil, err
	}
	stats.RecentEvents = recent

	return stats, nil
}
