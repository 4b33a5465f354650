package models

import "time"

const (
	DirectionBuy  = "buy"
	DirectionSell = "sell"
)

// Account groups trades under a single broker account. At most one account
// per user is active at a time; activation flips the others off.
type Account struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	UserID         uint      `gorm:"index;not null" json:"userId"`
	Name           string    `gorm:"size:100;not null" json:"name"`
	Currency       string    `gorm:"size:10;default:USD" json:"currency"`
	InitialBalance float64   `json:"initialBalance"`
	IsActive       bool      `gorm:"default:false" json:"isActive"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// Trade is one executed position as reported by a MetaTrader-style broker.
// Close fields stay null while the position is open; a trade counts as
// closed only when both CloseTime and Profit are set.
type Trade struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	AccountID   uint       `gorm:"index;not null" json:"accountId"`
	Ticket      string     `gorm:"size:50;index" json:"ticket"`
	Symbol      string     `gorm:"size:20;index;not null" json:"symbol"`
	Direction   string     `gorm:"size:10;not null" json:"direction"`
	Lots        float64    `json:"lots"`
	Volume      float64    `json:"volume"`
	OpenPrice   float64    `json:"openPrice"`
	OpenTime    time.Time  `gorm:"index" json:"openTime"`
	ClosePrice  *float64   `json:"closePrice"`
	CloseTime   *time.Time `json:"closeTime"`
	Profit      *float64   `json:"profit"`
	Commission  float64    `json:"commission"`
	Swap        float64    `json:"swap"`
	StopLoss    *float64   `json:"stopLoss"`
	TakeProfit  *float64   `json:"takeProfit"`
	Pips        *float64   `json:"pips"`
	CloseReason string     `gorm:"size:50" json:"closeReason"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// IsClosed reports whether the position has been fully closed out.
func (t *Trade) IsClosed() bool {
	return t.CloseTime != nil && t.Profit != nil
}

func (t *Trade) IsOpen() bool {
	return !t.IsClosed()
}

// NetProfit is profit after commission and swap. Zero for open trades.
func (t *Trade) NetProfit() float64 {
	if t.Profit == nil {
		return 0
	}
	return *t.Profit + t.Commission + t.Swap
}
