package gamification

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trade-journal/internal/models"
)

func mustCondition(t *testing.T, code string) Condition {
	t.Helper()
	c, ok := ConditionByCode(code)
	require.True(t, ok, "missing catalog entry %q", code)
	return c
}

func tradeWithProfit(profit float64, openAt time.Time) models.Trade {
	closeAt := openAt.Add(time.Hour)
	return models.Trade{
		Symbol:    "EURUSD",
		Direction: models.DirectionBuy,
		OpenTime:  openAt,
		CloseTime: &closeAt,
		Profit:    &profit,
	}
}

func tradesFromProfits(profits ...float64) []models.Trade {
	base := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	trades := make([]models.Trade, 0, len(profits))
	for i, p := range profits {
		trades = append(trades, tradeWithProfit(p, base.Add(time.Duration(i)*time.Hour)))
	}
	return trades
}

func progressDays(flags ...[3]bool) []models.DailyProgress {
	// Newest first, matching the repository's descending date order.
	base := time.Date(2024, 5, 20, 0, 0, 0, 0, time.UTC)
	rows := make([]models.DailyProgress, 0, len(flags))
	for i, f := range flags {
		rows = append(rows, models.DailyProgress{
			Date:            base.AddDate(0, 0, -i),
			ProfitTargetMet: f[0],
			RiskControlHeld: f[1],
			NoOvertrading:   f[2],
		})
	}
	return rows
}

func TestCatalogCodesUnique(t *testing.T) {
	seen := make(map[string]bool)
	for _, c := range Catalog {
		assert.False(t, seen[c.Code], "duplicate catalog code %q", c.Code)
		assert.Greater(t, c.Points, 0, "%q awards no points", c.Code)
		seen[c.Code] = true
	}
}

func TestNothingMetWithNoHistory(t *testing.T) {
	for _, c := range Catalog {
		assert.False(t, c.Met(nil, nil), "%q met with no history", c.Code)
	}
}

func TestTradeCountConditions(t *testing.T) {
	first := mustCondition(t, "first_trade")
	ten := mustCondition(t, "trades_count_10")

	assert.True(t, first.Met(tradesFromProfits(-5), nil), "a losing trade still counts")
	assert.False(t, first.Met([]models.Trade{{Symbol: "EURUSD", OpenTime: time.Now()}}, nil), "open trades do not count")

	assert.False(t, ten.Met(tradesFromProfits(1, 2, 3, 4, 5, 6, 7, 8, 9), nil))
	assert.True(t, ten.Met(tradesFromProfits(1, 2, 3, 4, 5, 6, 7, 8, 9, 10), nil))
}

func TestWinRateRequiresMinTrades(t *testing.T) {
	c := mustCondition(t, "win_rate_60")

	// 100% win rate but only 5 trades: below the 20-trade gate.
	assert.False(t, c.Met(tradesFromProfits(1, 1, 1, 1, 1), nil))

	// 20 trades, 13 wins = 65%.
	profits := make([]float64, 20)
	for i := range profits {
		if i < 13 {
			profits[i] = 10
		} else {
			profits[i] = -10
		}
	}
	assert.True(t, c.Met(tradesFromProfits(profits...), nil))

	// 20 trades, 11 wins = 55%.
	profits[12] = -10
	profits[11] = -10
	assert.False(t, c.Met(tradesFromProfits(profits...), nil))
}

func TestWinningStreak(t *testing.T) {
	c := mustCondition(t, "winning_streak_3")

	assert.False(t, c.Met(tradesFromProfits(10, 10, -5, 10, 10), nil))
	assert.True(t, c.Met(tradesFromProfits(-5, 10, 10, 10, -5), nil))

	// Break-even resets the streak.
	assert.False(t, c.Met(tradesFromProfits(10, 10, 0, 10), nil))
}

func TestStopLossDiscipline(t *testing.T) {
	c := mustCondition(t, "stop_loss_discipline")
	sl := 1.05

	trades := tradesFromProfits(1, 2, 3, 4, 5, 6, 7, 8, 9, 10)
	for i := range trades {
		trades[i].StopLoss = &sl
	}
	assert.True(t, c.Met(trades, nil))

	// One naked trade inside the window fails it.
	trades[7].StopLoss = nil
	assert.False(t, c.Met(trades, nil))

	// Nine compliant trades are not enough for a 10-trade window.
	assert.False(t, c.Met(trades[:9], nil))
}

func TestTakeProfitDiscipline(t *testing.T) {
	c := mustCondition(t, "take_profit_discipline")
	tp := 1.10

	trades := tradesFromProfits(1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12)
	for i := range trades {
		trades[i].TakeProfit = &tp
	}
	// Only the last 10 matter; the older two may be naked.
	trades[0].TakeProfit = nil
	trades[1].TakeProfit = nil
	assert.True(t, c.Met(trades, nil))

	trades[11].TakeProfit = nil
	assert.False(t, c.Met(trades, nil))
}

func TestProfitDayStreakStopsAtFirstMiss(t *testing.T) {
	c := mustCondition(t, "profitable_streak_5")

	met := [3]bool{true, true, true}
	missed := [3]bool{false, true, true}

	assert.True(t, c.Met(nil, progressDays(met, met, met, met, met)))

	// A miss on the newest day kills the current streak no matter the history.
	assert.False(t, c.Met(nil, progressDays(missed, met, met, met, met, met, met)))

	// Four newest days met, then a gap: streak is 4.
	assert.False(t, c.Met(nil, progressDays(met, met, met, met, missed, met)))
}

func TestProfitableDaysWithinWindow(t *testing.T) {
	c := mustCondition(t, "profitable_days_7")

	met := [3]bool{true, false, false}
	missed := [3]bool{false, true, true}

	rows := progressDays(met, missed, met, missed, met, met, missed, met, met, met)
	assert.True(t, c.Met(nil, rows))

	assert.False(t, c.Met(nil, rows[:8])) // only 5 profitable days available
}

func TestProfitableDaysIsACountNotAStreak(t *testing.T) {
	c := mustCondition(t, "profitable_days_7")

	met := [3]bool{true, false, false}
	missed := [3]bool{false, true, true}

	// A miss on the newest day does not matter: any 7 true days within the
	// window qualify, unlike the leading-run streak conditions.
	rows := progressDays(missed, met, met, met, met, met, met, met)
	assert.True(t, c.Met(nil, rows))
}

func TestPerfectWeekNeedsAllThreeFlags(t *testing.T) {
	c := mustCondition(t, "perfect_week")

	perfect := [3]bool{true, true, true}
	overtraded := [3]bool{true, true, false}

	assert.True(t, c.Met(nil, progressDays(perfect, perfect, perfect, perfect, perfect)))
	assert.False(t, c.Met(nil, progressDays(perfect, perfect, overtraded, perfect, perfect)))
	assert.False(t, c.Met(nil, progressDays(perfect, perfect, perfect, perfect)))
}

func TestCatalogModelsMirrorsCatalog(t *testing.T) {
	rows := CatalogModels()
	require.Len(t, rows, len(Catalog))
	for i, c := range Catalog {
		assert.Equal(t, c.Code, rows[i].Code)
		assert.Equal(t, c.Points, rows[i].Points)
		assert.False(t, rows[i].Unlocked)
	}
}
