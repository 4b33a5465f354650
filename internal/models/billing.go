package models

import "time"

const (
	SubscriptionStatusActive   = "active"
	SubscriptionStatusPastDue  = "past_due"
	SubscriptionStatusCanceled = "canceled"
)

// Subscription mirrors the payment provider's state for one user.
type Subscription struct {
	ID                     uint       `gorm:"primaryKey" json:"id"`
	UserID                 uint       `gorm:"uniqueIndex;not null" json:"userId"`
	Plan                   string     `gorm:"size:50" json:"plan"`
	Status                 string     `gorm:"size:20" json:"status"`
	ProviderSubscriptionID string     `gorm:"size:100;index" json:"-"`
	CurrentPeriodEnd       *time.Time `json:"currentPeriodEnd"`
	CreatedAt              time.Time  `json:"createdAt"`
	UpdatedAt              time.Time  `json:"updatedAt"`
}

// PromoCode is an admin-managed discount code redeemed at checkout.
type PromoCode struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	Code           string     `gorm:"size:50;uniqueIndex;not null" json:"code"`
	PercentOff     int        `json:"percentOff"`
	MaxRedemptions int        `json:"maxRedemptions"`
	Redemptions    int        `json:"redemptions"`
	ExpiresAt      *time.Time `json:"expiresAt"`
	Active         bool       `gorm:"default:true" json:"active"`
	CreatedAt      time.Time  `json:"createdAt"`
}

// Redeemable reports whether the code can still be applied at checkout.
func (p *PromoCode) Redeemable(now time.Time) bool {
	if !p.Active {
		return false
	}
	if p.MaxRedemptions > 0 && p.Redemptions >= p.MaxRedemptions {
		return false
	}
	if p.ExpiresAt != nil && now.After(*p.ExpiresAt) {
		return false
	}
	return true
}
