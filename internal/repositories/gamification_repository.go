package repositories

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"trade-journal/internal/models"
)

type GamificationRepository struct {
	db *gorm.DB
}

// NewGamificationRepository creates a new instance of GamificationRepository
func NewGamificationRepository(db *gorm.DB) *GamificationRepository {
	return &GamificationRepository{db: db}
}

// GetOrCreateStats returns the user's stats row, creating it on first use.
func (r *GamificationRepository) GetOrCreateStats(ctx context.Context, userID uint) (*models.UserStats, error) {
	var stats models.UserStats
	err := r.db.WithContext(ctx).
		Where(models.UserStats{UserID: userID}).
		FirstOrCreate(&stats).Error
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

// SaveStats persists an updated stats row.
func (r *GamificationRepository) SaveStats(ctx context.Context, stats *models.UserStats) error {
	if stats == nil {
		return errors.New("stats cannot be nil")
	}
	return r.db.WithContext(ctx).Save(stats).Error
}

// AddPoints adds points to the user's cumulative total.
func (r *GamificationRepository) AddPoints(ctx context.Context, userID uint, points int) error {
	if points == 0 {
		return nil
	}
	if _, err := r.GetOrCreateStats(ctx, userID); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Model(&models.UserStats{}).
		Where("user_id = ?", userID).
		Update("current_points", gorm.Expr("current_points + ?", points)).Error
}

// SeedAchievements copies catalog rows the user does not have yet. Existing
// rows, unlocked or not, are left untouched.
func (r *GamificationRepository) SeedAchievements(ctx context.Context, userID uint, catalog []models.Achievement) error {
	if len(catalog) == 0 {
		return nil
	}
	rows := make([]models.Achievement, len(catalog))
	copy(rows, catalog)
	for i := range rows {
		rows[i].ID = 0
		rows[i].UserID = userID
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "code"}},
		DoNothing: true,
	}).Create(&rows).Error
}

// FindAchievements retrieves all of the user's achievement rows.
func (r *GamificationRepository) FindAchievements(ctx context.Context, userID uint) ([]models.Achievement, error) {
	var achievements []models.Achievement
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id asc").
		Find(&achievements).Error
	return achievements, err
}

// FindLockedAchievements retrieves the user's still-locked achievements.
func (r *GamificationRepository) FindLockedAchievements(ctx context.Context, userID uint) ([]models.Achievement, error) {
	var achievements []models.Achievement
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND unlocked = ?", userID, false).
		Find(&achievements).Error
	return achievements, err
}

// Unlock marks an achievement unlocked. Unlocking an already-unlocked row is
// a no-op and reports false, which keeps evaluation retry-safe.
func (r *GamificationRepository) Unlock(ctx context.Context, userID uint, code string, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.Achievement{}).
		Where("user_id = ? AND code = ? AND unlocked = ?", userID, code, false).
		Updates(map[string]any{"unlocked": true, "unlocked_at": at})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// UpsertDailyProgress writes the flags for one user-day, replacing any
// earlier entry for the same date.
func (r *GamificationRepository) UpsertDailyProgress(ctx context.Context, progress *models.DailyProgress) error {
	if progress == nil {
		return errors.New("progress cannot be nil")
	}
	progress.Date = progress.Date.UTC().Truncate(24 * time.Hour)
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"profit_target_met",
			"risk_control_held",
			"no_overtrading",
			"updated_at",
		}),
	}).Create(progress).Error
}

// FindRecentProgress retrieves the user's most recent daily rows, newest
// first, which is the order the streak conditions expect.
func (r *GamificationRepository) FindRecentProgress(ctx context.Context, userID uint, limit int) ([]models.DailyProgress, error) {
	if limit <= 0 {
		limit = 30
	}
	var progress []models.DailyProgress
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("date desc").
		Limit(limit).
		Find(&progress).Error
	return progress, err
}
