package metrics

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trade-journal/internal/models"
)

func closedTrade(profit float64, openAt time.Time) models.Trade {
	closeAt := openAt.Add(time.Hour)
	return models.Trade{
		Symbol:    "EURUSD",
		Direction: models.DirectionBuy,
		OpenTime:  openAt,
		CloseTime: &closeAt,
		Profit:    &profit,
	}
}

func TestComputeEmpty(t *testing.T) {
	summary := Compute(nil)

	assert.Zero(t, summary.TotalProfit)
	assert.Zero(t, summary.TotalTrades)
	assert.Zero(t, summary.WinRate)
	assert.Zero(t, summary.ProfitFactor)
	assert.Zero(t, summary.MaxDrawdown)
	assert.Zero(t, summary.AvgTradesPerDay)
	assert.NotNil(t, summary.SymbolPerformance)
	assert.Empty(t, summary.SymbolPerformance)
}

func TestComputeOutputsAlwaysFinite(t *testing.T) {
	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	testCases := []struct {
		name    string
		profits []float64
	}{
		{name: "all losing", profits: []float64{-10, -20, -5}},
		{name: "all winning", profits: []float64{10, 20, 5}},
		{name: "single break-even", profits: []float64{0}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var trades []models.Trade
			for i, p := range tc.profits {
				trades = append(trades, closedTrade(p, base.Add(time.Duration(i)*time.Hour)))
			}

			summary := Compute(trades)

			for name, v := range map[string]float64{
				"winRate":         summary.WinRate,
				"avgWin":          summary.AvgWin,
				"avgLoss":         summary.AvgLoss,
				"riskRewardRatio": summary.RiskRewardRatio,
				"profitFactor":    summary.ProfitFactor,
				"maxDrawdown":     summary.MaxDrawdown,
				"avgTradesPerDay": summary.AvgTradesPerDay,
			} {
				assert.False(t, math.IsNaN(v), "%s is NaN", name)
				assert.False(t, math.IsInf(v, 0), "%s is Inf", name)
				assert.GreaterOrEqual(t, v, 0.0, "%s is negative", name)
			}
		})
	}
}

func TestComputeExcludesOpenTrades(t *testing.T) {
	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	profit := 50.0

	trades := []models.Trade{
		closedTrade(100, base),
		{Symbol: "EURUSD", Direction: models.DirectionBuy, OpenTime: base.Add(time.Hour)}, // open: no close time
		{Symbol: "EURUSD", Direction: models.DirectionBuy, OpenTime: base.Add(2 * time.Hour), Profit: &profit}, // open: close time missing
	}

	summary := Compute(trades)

	assert.Equal(t, 3, summary.TotalTrades)
	assert.InDelta(t, 100.0, summary.TotalProfit, 1e-9)
	assert.InDelta(t, 100.0, summary.WinRate, 1e-9)
}

func TestComputeWinRateUsesNetProfit(t *testing.T) {
	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	// Raw profit positive but commission pushes the net negative.
	trade := closedTrade(5, base)
	trade.Commission = -10

	summary := Compute([]models.Trade{trade})

	assert.Zero(t, summary.WinRate)
	assert.InDelta(t, -5.0, summary.TotalProfit, 1e-9)
	// Averages use raw profit, so the trade still counts as a raw winner.
	assert.InDelta(t, 5.0, summary.AvgWin, 1e-9)
}

func TestComputeProfitFactor(t *testing.T) {
	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	trades := []models.Trade{
		closedTrade(100, base),
		closedTrade(-50, base.Add(time.Hour)),
		closedTrade(50, base.Add(2*time.Hour)),
	}

	summary := Compute(trades)

	assert.InDelta(t, 3.0, summary.ProfitFactor, 1e-9)
	assert.InDelta(t, 75.0, summary.AvgWin, 1e-9)
	assert.InDelta(t, 50.0, summary.AvgLoss, 1e-9)
	assert.InDelta(t, 1.5, summary.RiskRewardRatio, 1e-9)
}

func TestMaxDrawdownZeroOnIncreasingSequence(t *testing.T) {
	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	var trades []models.Trade
	for i := 0; i < 5; i++ {
		trades = append(trades, closedTrade(10, base.Add(time.Duration(i)*time.Hour)))
	}

	summary := Compute(trades)

	assert.Zero(t, summary.MaxDrawdown)
}

func TestMaxDrawdownPeakToTrough(t *testing.T) {
	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	profits := []float64{100, -30, -40, 50}
	var trades []models.Trade
	for i, p := range profits {
		trades = append(trades, closedTrade(p, base.Add(time.Duration(i)*time.Hour)))
	}

	summary := Compute(trades)

	// Peak 100, trough 30, drawdown 70.
	assert.InDelta(t, 70.0, summary.MaxDrawdown, 1e-9)
}

func TestConsecutiveStreaks(t *testing.T) {
	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	profits := []float64{10, -5, 10, 10, -5}
	var trades []models.Trade
	for i, p := range profits {
		trades = append(trades, closedTrade(p, base.Add(time.Duration(i)*time.Hour)))
	}

	summary := Compute(trades)

	assert.Equal(t, 2, summary.ConsecutiveWins)
	assert.Equal(t, 1, summary.ConsecutiveLosses)
}

func TestStreaksIgnoreInputOrder(t *testing.T) {
	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	// Chronological profits: +10, -5, +10, +10, -5 but handed over shuffled.
	chron := []float64{10, -5, 10, 10, -5}
	order := []int{3, 0, 4, 1, 2}
	var trades []models.Trade
	for _, i := range order {
		trades = append(trades, closedTrade(chron[i], base.Add(time.Duration(i)*time.Hour)))
	}

	summary := Compute(trades)

	assert.Equal(t, 2, summary.ConsecutiveWins)
	assert.Equal(t, 1, summary.ConsecutiveLosses)
}

func TestTradingDaysAndBreakdowns(t *testing.T) {
	day1 := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	day2 := time.Date(2024, 3, 2, 10, 0, 0, 0, time.UTC)
	april := time.Date(2024, 4, 1, 10, 0, 0, 0, time.UTC)

	gbp := closedTrade(-20, day2)
	gbp.Symbol = "GBPUSD"

	trades := []models.Trade{
		closedTrade(100, day1),
		closedTrade(50, day1.Add(time.Hour)),
		gbp,
		closedTrade(30, april),
	}

	summary := Compute(trades)

	assert.Equal(t, 3, summary.TradingDays)
	assert.InDelta(t, 4.0/3.0, summary.AvgTradesPerDay, 1e-9)

	require.Len(t, summary.SymbolPerformance, 2)
	assert.Equal(t, "EURUSD", summary.SymbolPerformance[0].Symbol)
	assert.Equal(t, 3, summary.SymbolPerformance[0].Trades)
	assert.InDelta(t, 180.0, summary.SymbolPerformance[0].Profit, 1e-9)
	assert.InDelta(t, 100.0, summary.SymbolPerformance[0].WinRate, 1e-9)
	assert.Equal(t, "GBPUSD", summary.SymbolPerformance[1].Symbol)
	assert.Zero(t, summary.SymbolPerformance[1].WinRate)

	require.Len(t, summary.MonthlyPerformance, 2)
	assert.Equal(t, "2024-03", summary.MonthlyPerformance[0].Month)
	assert.Equal(t, 3, summary.MonthlyPerformance[0].Trades)
	assert.Equal(t, "2024-04", summary.MonthlyPerformance[1].Month)

	require.Len(t, summary.DailyPerformance, 3)
	assert.Equal(t, "2024-03-01", summary.DailyPerformance[0].Date)
	assert.InDelta(t, 150.0, summary.DailyPerformance[0].Profit, 1e-9)
}

func TestComputeDoesNotMutateInput(t *testing.T) {
	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	trades := []models.Trade{
		closedTrade(10, base.Add(2*time.Hour)),
		closedTrade(-5, base),
	}

	Compute(trades)

	// Input order untouched: sorting happens on a copy.
	assert.Equal(t, base.Add(2*time.Hour), trades[0].OpenTime)
}
