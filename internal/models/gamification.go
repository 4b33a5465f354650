package models

import "time"

// UserStats is the single denormalized gamification row per user.
// It is recomputed opportunistically, not transactionally tied to trade writes.
type UserStats struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	UserID          uint      `gorm:"uniqueIndex;not null" json:"userId"`
	CurrentPoints   int       `json:"currentPoints"`
	ProfitableDays  int       `json:"profitableDays"`
	RiskControlDays int       `json:"riskControlDays"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// Achievement is a per-user copy of the fixed catalog row. Once unlocked it
// is never re-locked, even if the underlying trades are later deleted.
type Achievement struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	UserID      uint       `gorm:"index:idx_user_code,unique;not null" json:"userId"`
	Code        string     `gorm:"index:idx_user_code,unique;size:50;not null" json:"code"`
	Title       string     `gorm:"size:100" json:"title"`
	Description string     `gorm:"size:255" json:"description"`
	Points      int        `json:"points"`
	Unlocked    bool       `gorm:"default:false" json:"unlocked"`
	UnlockedAt  *time.Time `json:"unlockedAt"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// DailyProgress captures the three discipline flags for one calendar day.
// Date is stored truncated to midnight UTC; one row per user per day.
type DailyProgress struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	UserID          uint      `gorm:"index:idx_user_date,unique;not null" json:"userId"`
	Date            time.Time `gorm:"index:idx_user_date,unique;not null" json:"date"`
	ProfitTargetMet bool      `json:"profitTargetMet"`
	RiskControlHeld bool      `json:"riskControlHeld"`
	NoOvertrading   bool      `json:"noOvertrading"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}
