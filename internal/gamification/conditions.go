package gamification

import (
	"sort"

	"trade-journal/internal/models"
)

// ConditionKind is the closed set of achievement condition shapes. Adding a
// condition means adding a variant here plus a Catalog entry, which the
// compiler checks, rather than extending a string switch.
type ConditionKind int

const (
	// KindTradeCount unlocks at a total closed-trade count.
	KindTradeCount ConditionKind = iota
	// KindWinRate unlocks at a minimum win rate, gated on a minimum number
	// of closed trades so a single lucky trade does not qualify.
	KindWinRate
	// KindWinningStreak unlocks at N consecutive profitable trades.
	KindWinningStreak
	// KindStopLossDiscipline requires a stop loss on each of the last K trades.
	KindStopLossDiscipline
	// KindTakeProfitDiscipline requires a take profit on each of the last K trades.
	KindTakeProfitDiscipline
	// KindProfitDayStreak unlocks at N consecutive profit-target days.
	KindProfitDayStreak
	// KindRiskControlDayStreak unlocks at N consecutive risk-control days.
	KindRiskControlDayStreak
	// KindProfitableDays unlocks at N profitable days anywhere within the
	// recent window. A count, not a streak: a miss on the newest day does
	// not reset it.
	KindProfitableDays
	// KindPerfectWeek requires all three daily flags for a leading run of days.
	KindPerfectWeek
)

// Condition is one catalog entry. Threshold carries the count/percentage the
// kind compares against; Window is the look-back size for discipline kinds.
type Condition struct {
	Code        string
	Kind        ConditionKind
	Threshold   float64
	MinTrades   int
	Window      int
	Points      int
	Title       string
	Description string
}

// Catalog is the fixed achievement catalog copied per user at first use.
var Catalog = []Condition{
	{Code: "first_trade", Kind: KindTradeCount, Threshold: 1, Points: 10, Title: "First Trade", Description: "Log your first trade"},
	{Code: "trades_count_10", Kind: KindTradeCount, Threshold: 10, Points: 20, Title: "Getting Started", Description: "Log 10 trades"},
	{Code: "trades_count_50", Kind: KindTradeCount, Threshold: 50, Points: 50, Title: "Committed", Description: "Log 50 trades"},
	{Code: "trades_count_100", Kind: KindTradeCount, Threshold: 100, Points: 100, Title: "Century", Description: "Log 100 trades"},
	{Code: "win_rate_60", Kind: KindWinRate, Threshold: 60, MinTrades: 20, Points: 75, Title: "Sharp Shooter", Description: "Reach a 60% win rate over at least 20 trades"},
	{Code: "winning_streak_3", Kind: KindWinningStreak, Threshold: 3, Points: 25, Title: "Hat Trick", Description: "Win 3 trades in a row"},
	{Code: "winning_streak_5", Kind: KindWinningStreak, Threshold: 5, Points: 50, Title: "On Fire", Description: "Win 5 trades in a row"},
	{Code: "winning_streak_10", Kind: KindWinningStreak, Threshold: 10, Points: 150, Title: "Unstoppable", Description: "Win 10 trades in a row"},
	{Code: "stop_loss_discipline", Kind: KindStopLossDiscipline, Window: 10, Points: 40, Title: "Protected", Description: "Set a stop loss on 10 trades in a row"},
	{Code: "take_profit_discipline", Kind: KindTakeProfitDiscipline, Window: 10, Points: 40, Title: "Target Setter", Description: "Set a take profit on 10 trades in a row"},
	{Code: "profitable_streak_5", Kind: KindProfitDayStreak, Threshold: 5, Points: 60, Title: "Green Week", Description: "Hit your profit target 5 days in a row"},
	{Code: "risk_control_10_days", Kind: KindRiskControlDayStreak, Threshold: 10, Points: 80, Title: "Risk Manager", Description: "Hold your risk limits 10 days in a row"},
	{Code: "profitable_days_7", Kind: KindProfitableDays, Threshold: 7, Window: 30, Points: 70, Title: "Consistent", Description: "7 profitable days in the last 30"},
	{Code: "perfect_week", Kind: KindPerfectWeek, Threshold: 5, Points: 120, Title: "Perfect Week", Description: "All three discipline goals for a full trading week"},
}

// CatalogModels returns the catalog as achievement rows ready to seed for a
// user.
func CatalogModels() []models.Achievement {
	rows := make([]models.Achievement, 0, len(Catalog))
	for _, c := range Catalog {
		rows = append(rows, models.Achievement{
			Code:        c.Code,
			Title:       c.Title,
			Description: c.Description,
			Points:      c.Points,
		})
	}
	return rows
}

// ConditionByCode resolves a stored achievement code to its catalog entry.
func ConditionByCode(code string) (Condition, bool) {
	for _, c := range Catalog {
		if c.Code == code {
			return c, true
		}
	}
	return Condition{}, false
}

// Met evaluates the condition against the full trade list and the recent
// daily-progress rows (ordered descending by date). It never panics on empty
// input; with no history nothing is met.
//
// Wins here are raw profit > 0, intentionally stricter than the metrics
// package's net-profit definition: the catalog's point values were tuned
// against the raw definition.
func (c Condition) Met(trades []models.Trade, progress []models.DailyProgress) bool {
	switch c.Kind {
	case KindTradeCount:
		return float64(countClosed(trades)) >= c.Threshold
	case KindWinRate:
		closed := countClosed(trades)
		if closed < c.MinTrades {
			return false
		}
		wins := 0
		for _, t := range trades {
			if t.IsClosed() && *t.Profit > 0 {
				wins++
			}
		}
		return float64(wins)/float64(closed)*100 >= c.Threshold
	case KindWinningStreak:
		return longestWinStreak(trades) >= int(c.Threshold)
	case KindStopLossDiscipline:
		return lastTradesHave(trades, c.Window, func(t models.Trade) bool { return t.StopLoss != nil })
	case KindTakeProfitDiscipline:
		return lastTradesHave(trades, c.Window, func(t models.Trade) bool { return t.TakeProfit != nil })
	case KindProfitDayStreak:
		return leadingDayStreak(progress, func(p models.DailyProgress) bool { return p.ProfitTargetMet }) >= int(c.Threshold)
	case KindRiskControlDayStreak:
		return leadingDayStreak(progress, func(p models.DailyProgress) bool { return p.RiskControlHeld }) >= int(c.Threshold)
	case KindProfitableDays:
		window := c.Window
		if window <= 0 || window > len(progress) {
			window = len(progress)
		}
		count := 0
		for _, p := range progress[:window] {
			if p.ProfitTargetMet {
				count++
			}
		}
		return float64(count) >= c.Threshold
	case KindPerfectWeek:
		return leadingDayStreak(progress, func(p models.DailyProgress) bool {
			return p.ProfitTargetMet && p.RiskControlHeld && p.NoOvertrading
		}) >= int(c.Threshold)
	}
	return false
}

func countClosed(trades []models.Trade) int {
	count := 0
	for _, t := range trades {
		if t.IsClosed() {
			count++
		}
	}
	return count
}

// longestWinStreak scans closed trades in open-time order, resetting on any
// non-positive raw profit.
func longestWinStreak(trades []models.Trade) int {
	closed := make([]models.Trade, 0, len(trades))
	for _, t := range trades {
		if t.IsClosed() {
			closed = append(closed, t)
		}
	}
	sort.SliceStable(closed, func(i, j int) bool {
		return closed[i].OpenTime.Before(closed[j].OpenTime)
	})

	var cur, best int
	for _, t := range closed {
		if *t.Profit > 0 {
			cur++
			if cur > best {
				best = cur
			}
		} else {
			cur = 0
		}
	}
	return best
}

// lastTradesHave requires the most recent window trades (by open time) to
// all satisfy the predicate. Fewer trades than the window does not qualify.
func lastTradesHave(trades []models.Trade, window int, pred func(models.Trade) bool) bool {
	if window <= 0 || len(trades) < window {
		return false
	}
	ordered := make([]models.Trade, len(trades))
	copy(ordered, trades)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].OpenTime.Before(ordered[j].OpenTime)
	})
	for _, t := range ordered[len(ordered)-window:] {
		if !pred(t) {
			return false
		}
	}
	return true
}

// leadingDayStreak counts the run of rows satisfying the predicate from the
// newest row backwards, stopping at the first miss. This is the current
// streak ending today, not the best streak ever.
func leadingDayStreak(progress []models.DailyProgress, pred func(models.DailyProgress) bool) int {
	streak := 0
	for _, p := range progress {
		if !pred(p) {
			break
		}
		streak++
	}
	return streak
}
