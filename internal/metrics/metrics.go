// Package metrics computes the dashboard summary statistics over a user's
// trade history. Everything here is pure: no I/O, no errors, and every
// numeric output is finite regardless of the input (an empty list yields an
// all-zero summary).
package metrics

import (
	"sort"

	"trade-journal/internal/models"
)

// SymbolPerformance is the per-symbol breakdown row.
type SymbolPerformance struct {
	Symbol  string  `json:"symbol"`
	Profit  float64 `json:"profit"`
	Trades  int     `json:"trades"`
	WinRate float64 `json:"winRate"`
}

// MonthlyPerformance is the per-month breakdown row (month as "YYYY-MM").
type MonthlyPerformance struct {
	Month  string  `json:"month"`
	Profit float64 `json:"profit"`
	Trades int     `json:"trades"`
}

// DailyPerformance is the per-day breakdown row (date as "YYYY-MM-DD").
type DailyPerformance struct {
	Date   string  `json:"date"`
	Profit float64 `json:"profit"`
	Trades int     `json:"trades"`
}

// Summary is the metrics object consumed by the dashboard and reports.
type Summary struct {
	TotalProfit        float64              `json:"totalProfit"`
	TotalTrades        int                  `json:"totalTrades"`
	WinRate            float64              `json:"winRate"`
	AvgWin             float64              `json:"avgWin"`
	AvgLoss            float64              `json:"avgLoss"`
	RiskRewardRatio    float64              `json:"riskRewardRatio"`
	ProfitFactor       float64              `json:"profitFactor"`
	MaxDrawdown        float64              `json:"maxDrawdown"`
	ConsecutiveWins    int                  `json:"consecutiveWins"`
	ConsecutiveLosses  int                  `json:"consecutiveLosses"`
	TradingDays        int                  `json:"tradingDays"`
	AvgTradesPerDay    float64              `json:"avgTradesPerDay"`
	SymbolPerformance  []SymbolPerformance  `json:"symbolPerformance"`
	MonthlyPerformance []MonthlyPerformance `json:"monthlyPerformance"`
	DailyPerformance   []DailyPerformance   `json:"dailyPerformance"`
}

// Compute aggregates a trade list into a Summary. Open trades (no close time
// or no profit) are excluded from all profit and ratio figures. Wins are
// counted on net profit (profit + commission + swap); the achievement
// evaluator deliberately uses the raw-profit definition instead, see the
// gamification package.
func Compute(trades []models.Trade) Summary {
	summary := Summary{
		TotalTrades:        len(trades),
		SymbolPerformance:  []SymbolPerformance{},
		MonthlyPerformance: []MonthlyPerformance{},
		DailyPerformance:   []DailyPerformance{},
	}

	closed := make([]models.Trade, 0, len(trades))
	for _, t := range trades {
		if t.IsClosed() {
			closed = append(closed, t)
		}
	}
	if len(closed) == 0 {
		return summary
	}

	// Streaks and drawdown depend on chronological order, so sort a copy
	// rather than trusting query order.
	sort.SliceStable(closed, func(i, j int) bool {
		return closed[i].OpenTime.Before(closed[j].OpenTime)
	})

	var (
		wins, winners, losers  int
		grossProfit, grossLoss float64
		sumWin, sumLoss        float64
	)
	days := map[string]struct{}{}

	for _, t := range closed {
		net := t.NetProfit()
		summary.TotalProfit += net
		if net > 0 {
			wins++
		}

		// Averages and the profit factor use raw profit, before
		// commission and swap.
		raw := *t.Profit
		switch {
		case raw > 0:
			grossProfit += raw
			sumWin += raw
			winners++
		case raw < 0:
			grossLoss += -raw
			sumLoss += -raw
			losers++
		}

		days[t.OpenTime.Format("2006-01-02")] = struct{}{}
	}

	summary.WinRate = float64(wins) / float64(len(closed)) * 100
	if winners > 0 {
		summary.AvgWin = sumWin / float64(winners)
	}
	if losers > 0 {
		summary.AvgLoss = sumLoss / float64(losers)
	}
	if summary.AvgLoss > 0 {
		summary.RiskRewardRatio = summary.AvgWin / summary.AvgLoss
	}
	if grossLoss > 0 {
		summary.ProfitFactor = grossProfit / grossLoss
	}

	summary.MaxDrawdown = maxDrawdown(closed)
	summary.ConsecutiveWins, summary.ConsecutiveLosses = streaks(closed)

	summary.TradingDays = len(days)
	if summary.TradingDays > 0 {
		summary.AvgTradesPerDay = float64(summary.TotalTrades) / float64(summary.TradingDays)
	}

	summary.SymbolPerformance = symbolBreakdown(closed)
	summary.MonthlyPerformance = monthlyBreakdown(closed)
	summary.DailyPerformance = dailyBreakdown(closed)

	return summary
}

// maxDrawdown tracks the running net-profit peak and returns the deepest
// peak-to-trough decline, as an absolute currency figure.
func maxDrawdown(closed []models.Trade) float64 {
	var running, peak, maxDD float64
	for _, t := range closed {
		running += t.NetProfit()
		if running > peak {
			peak = running
		}
		if dd := peak - running; dd > maxDD {
			maxDD = dd
		}
	}
	return maxDD
}

// streaks returns the longest winning and losing runs by net profit.
// A break-even trade ends both runs.
func streaks(closed []models.Trade) (maxWins, maxLosses int) {
	var curWins, curLosses int
	for _, t := range closed {
		net := t.NetProfit()
		switch {
		case net > 0:
			curWins++
			curLosses = 0
		case net < 0:
			curLosses++
			curWins = 0
		default:
			curWins = 0
			curLosses = 0
		}
		if curWins > maxWins {
			maxWins = curWins
		}
		if curLosses > maxLosses {
			maxLosses = curLosses
		}
	}
	return maxWins, maxLosses
}

func symbolBreakdown(closed []models.Trade) []SymbolPerformance {
	type agg struct {
		profit float64
		trades int
		wins   int
	}
	bySymbol := map[string]*agg{}
	for _, t := range closed {
		a := bySymbol[t.Symbol]
		if a == nil {
			a = &agg{}
			bySymbol[t.Symbol] = a
		}
		net := t.NetProfit()
		a.profit += net
		a.trades++
		if net > 0 {
			a.wins++
		}
	}

	out := make([]SymbolPerformance, 0, len(bySymbol))
	for symbol, a := range bySymbol {
		row := SymbolPerformance{Symbol: symbol, Profit: a.profit, Trades: a.trades}
		if a.trades > 0 {
			row.WinRate = float64(a.wins) / float64(a.trades) * 100
		}
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Symbol < out[j].Symbol })
	return out
}

func monthlyBreakdown(closed []models.Trade) []MonthlyPerformance {
	byMonth := map[string]*MonthlyPerformance{}
	for _, t := range closed {
		key := t.OpenTime.Format("2006-01")
		row := byMonth[key]
		if row == nil {
			row = &MonthlyPerformance{Month: key}
			byMonth[key] = row
		}
		row.Profit += t.NetProfit()
		row.Trades++
	}
	out := make([]MonthlyPerformance, 0, len(byMonth))
	for _, row := range byMonth {
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}

func dailyBreakdown(closed []models.Trade) []DailyPerformance {
	byDay := map[string]*DailyPerformance{}
	for _, t := range closed {
		key := t.OpenTime.Format("2006-01-02")
		row := byDay[key]
		if row == nil {
			row = &DailyPerformance{Date: key}
			byDay[key] = row
		}
		row.Profit += t.NetProfit()
		row.Trades++
	}
	out := make([]DailyPerformance, 0, len(byDay))
	for _, row := range byDay {
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}
