package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"trade-journal/internal/gamification"
	"trade-journal/internal/models"
	"trade-journal/internal/repositories"
)

// GamificationStore is the persistence surface the evaluator needs. The
// concrete implementation is repositories.GamificationRepository; tests use
// an in-memory fake.
type GamificationStore interface {
	GetOrCreateStats(ctx context.Context, userID uint) (*models.UserStats, error)
	SaveStats(ctx context.Context, stats *models.UserStats) error
	AddPoints(ctx context.Context, userID uint, points int) error
	SeedAchievements(ctx context.Context, userID uint, catalog []models.Achievement) error
	FindAchievements(ctx context.Context, userID uint) ([]models.Achievement, error)
	FindLockedAchievements(ctx context.Context, userID uint) ([]models.Achievement, error)
	Unlock(ctx context.Context, userID uint, code string, at time.Time) (bool, error)
	UpsertDailyProgress(ctx context.Context, progress *models.DailyProgress) error
	FindRecentProgress(ctx context.Context, userID uint, limit int) ([]models.DailyProgress, error)
}

// TradeSource supplies the trade history the conditions are evaluated over.
type TradeSource interface {
	Find(ctx context.Context, userID uint, filter repositories.TradeFilter) ([]models.Trade, error)
}

// GamificationService seeds the per-user achievement catalog, evaluates
// conditions and keeps the XP total. Evaluation is safe to retry: unlocking
// an already-unlocked achievement is a no-op.
type GamificationService struct {
	store  GamificationStore
	trades TradeSource
	logger *zap.Logger
}

func NewGamificationService(store GamificationStore, trades TradeSource, logger *zap.Logger) *GamificationService {
	return &GamificationService{store: store, trades: trades, logger: logger}
}

// GetLevel returns the user's level/progress tuple from their point total.
func (s *GamificationService) GetLevel(ctx context.Context, userID uint) (gamification.LevelInfo, error) {
	stats, err := s.store.GetOrCreateStats(ctx, userID)
	if err != nil {
		return gamification.LevelInfo{}, err
	}
	return gamification.CalculateLevel(stats.CurrentPoints), nil
}

// GetAchievements returns the user's achievement rows, seeding the catalog
// on first use.
func (s *GamificationService) GetAchievements(ctx context.Context, userID uint) ([]models.Achievement, error) {
	if err := s.store.SeedAchievements(ctx, userID, gamification.CatalogModels()); err != nil {
		return nil, err
	}
	return s.store.FindAchievements(ctx, userID)
}

// RecordDailyProgress upserts the discipline flags for one day and updates
// the denormalized day counters.
func (s *GamificationService) RecordDailyProgress(ctx context.Context, progress *models.DailyProgress) error {
	if err := s.store.UpsertDailyProgress(ctx, progress); err != nil {
		return err
	}

	recent, err := s.store.FindRecentProgress(ctx, progress.UserID, 365)
	if err != nil {
		return err
	}
	var profitable, riskControlled int
	for _, p := range recent {
		if p.ProfitTargetMet {
			profitable++
		}
		if p.RiskControlHeld {
			riskControlled++
		}
	}
	// Counters are denormalized and recomputed opportunistically; losing a
	// race here only delays the next recompute.
	stats, err := s.store.GetOrCreateStats(ctx, progress.UserID)
	if err != nil {
		return err
	}
	stats.ProfitableDays = profitable
	stats.RiskControlDays = riskControlled
	return s.store.SaveStats(ctx, stats)
}

// Evaluate checks every still-locked achievement for the user and unlocks
// the ones whose conditions are newly met, crediting their points. A user
// with no trades or progress gets an empty result, not an error.
func (s *GamificationService) Evaluate(ctx context.Context, userID uint) ([]models.Achievement, error) {
	if err := s.store.SeedAchievements(ctx, userID, gamification.CatalogModels()); err != nil {
		return nil, err
	}

	locked, err := s.store.FindLockedAchievements(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(locked) == 0 {
		return nil, nil
	}

	trades, err := s.trades.Find(ctx, userID, repositories.TradeFilter{})
	if err != nil {
		return nil, err
	}
	progress, err := s.store.FindRecentProgress(ctx, userID, 30)
	if err != nil {
		return nil, err
	}

	var unlocked []models.Achievement
	now := time.Now()
	for _, achievement := range locked {
		condition, ok := gamification.ConditionByCode(achievement.Code)
		if !ok {
			s.logger.Warn("achievement row has no catalog condition",
				zap.String("code", achievement.Code))
			continue
		}
		if !condition.Met(trades, progress) {
			continue
		}

		fresh, err := s.store.Unlock(ctx, userID, achievement.Code, now)
		if err != nil {
			return unlocked, err
		}
		if !fresh {
			continue // already unlocked by a concurrent evaluation
		}
		if err := s.store.AddPoints(ctx, userID, achievement.Points); err != nil {
			return unlocked, err
		}

		achievement.Unlocked = true
		achievement.UnlockedAt = &now
		unlocked = append(unlocked, achievement)
		s.logger.Info("achievement unlocked",
			zap.Uint("userID", userID),
			zap.String("code", achievement.Code),
			zap.Int("points", achievement.Points))
	}

	return unlocked, nil
}

// EvaluateQuietly runs Evaluate and only logs failures. Used after trade
// writes so gamification bookkeeping can never fail the primary action.
func (s *GamificationService) EvaluateQuietly(ctx context.Context, userID uint) {
	if _, err := s.Evaluate(ctx, userID); err != nil {
		s.logger.Warn("achievement evaluation failed",
			zap.Uint("userID", userID), zap.Error(err))
	}
}
