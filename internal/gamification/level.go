// Package gamification holds the leveling curve and the achievement
// condition catalog. Like the metrics package it is pure; persistence and
// unlock side effects live in the gamification service.
package gamification

import "math"

// LevelInfo is the level/progress tuple shown on the profile page.
type LevelInfo struct {
	CurrentLevel          int     `json:"currentLevel"`
	CurrentPoints         int     `json:"currentPoints"`
	PointsForCurrentLevel int     `json:"pointsForCurrentLevel"`
	PointsForNextLevel    int     `json:"pointsForNextLevel"`
	ProgressPercentage    float64 `json:"progressPercentage"`
}

// CalculateLevel converts cumulative XP into a level and progress toward the
// next one. Level 1 requires 100 points and each subsequent requirement is
// the previous one times 1.1, floored. The returned level is the greatest
// level whose cumulative threshold is at most points. Negative input is
// clamped to 0.
func CalculateLevel(points int) LevelInfo {
	if points < 0 {
		points = 0
	}

	level := 1
	required := 100
	cumulative := 0
	for points >= cumulative+required {
		cumulative += required
		required = int(math.Floor(float64(required) * 1.1))
		level++
	}

	return LevelInfo{
		CurrentLevel:          level,
		CurrentPoints:         points,
		PointsForCurrentLevel: cumulative,
		PointsForNextLevel:    cumulative + required,
		ProgressPercentage:    float64(points-cumulative) / float64(required) * 100,
	}
}
