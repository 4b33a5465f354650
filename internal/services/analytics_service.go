package services

import (
	"context"

	"trade-journal/internal/metrics"
	"trade-journal/internal/repositories"
)

// AnalyticsService recomputes the metrics summary from the full trade
// history on every request. No cache: at journal scale a recompute is cheap
// and never stale.
type AnalyticsService struct {
	trades *repositories.TradeRepository
}

func NewAnalyticsService(trades *repositories.TradeRepository) *AnalyticsService {
	return &AnalyticsService{trades: trades}
}

// Summary computes the dashboard metrics for the user's trades matching the
// filter. An empty history yields an all-zero summary.
func (s *AnalyticsService) Summary(ctx context.Context, userID uint, filter repositories.TradeFilter) (metrics.Summary, error) {
	trades, err := s.trades.Find(ctx, userID, filter)
	if err != nil {
		return metrics.Summary{}, err
	}
	return metrics.Compute(trades), nil
}
