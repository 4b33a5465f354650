package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"trade-journal/internal/llm"
	"trade-journal/internal/metrics"
	"trade-journal/internal/repositories"
)

const analysisSystemPrompt = "You are an experienced trading coach reviewing a " +
	"retail trader's journal. Be specific and constructive; base every " +
	"observation on the numbers you are given. Plain prose, no preamble."

// ReportService turns aggregated metrics into prompts for the LLM provider
// and assembles the returned text into analysis responses and downloadable
// reports. The LLM call is awaited within the request.
type ReportService struct {
	analytics *AnalyticsService
	generator llm.Generator
	logger    *zap.Logger
}

func NewReportService(analytics *AnalyticsService, generator llm.Generator, logger *zap.Logger) *ReportService {
	return &ReportService{analytics: analytics, generator: generator, logger: logger}
}

// Analyze computes the user's metrics and asks the LLM for a written
// assessment of them.
func (s *ReportService) Analyze(ctx context.Context, userID uint, filter repositories.TradeFilter) (string, error) {
	summary, err := s.analytics.Summary(ctx, userID, filter)
	if err != nil {
		return "", err
	}
	if summary.TotalTrades == 0 {
		return "No trades recorded yet. Import a trade history or log a trade to get an analysis.", nil
	}

	text, err := s.generator.Generate(ctx, analysisSystemPrompt, buildPrompt(summary))
	if err != nil {
		return "", fmt.Errorf("analysis generation failed: %w", err)
	}
	return text, nil
}

// PerformanceReport assembles a markdown document combining the metrics
// table with the LLM narrative, ready to serve as a download.
func (s *ReportService) PerformanceReport(ctx context.Context, userID uint, filter repositories.TradeFilter) (string, error) {
	summary, err := s.analytics.Summary(ctx, userID, filter)
	if err != nil {
		return "", err
	}

	narrative := ""
	if summary.TotalTrades > 0 {
		narrative, err = s.generator.Generate(ctx, analysisSystemPrompt, buildPrompt(summary))
		if err != nil {
			// The report is still useful without the narrative.
			s.logger.Warn("report narrative generation failed", zap.Error(err))
			narrative = "_Narrative unavailable._"
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Performance Report\n\nGenerated %s\n\n", time.Now().Format("2006-01-02 15:04"))
	fmt.Fprintf(&b, "## Overview\n\n")
	fmt.Fprintf(&b, "| Metric | Value |\n|---|---|\n")
	fmt.Fprintf(&b, "| Total trades | %d |\n", summary.TotalTrades)
	fmt.Fprintf(&b, "| Total profit | %.2f |\n", summary.TotalProfit)
	fmt.Fprintf(&b, "| Win rate | %.1f%% |\n", summary.WinRate)
	fmt.Fprintf(&b, "| Profit factor | %.2f |\n", summary.ProfitFactor)
	fmt.Fprintf(&b, "| Max drawdown | %.2f |\n", summary.MaxDrawdown)
	fmt.Fprintf(&b, "| Avg win / avg loss | %.2f / %.2f |\n", summary.AvgWin, summary.AvgLoss)
	fmt.Fprintf(&b, "| Trading days | %d |\n", summary.TradingDays)

	if len(summary.SymbolPerformance) > 0 {
		fmt.Fprintf(&b, "\n## By symbol\n\n| Symbol | Profit | Trades | Win rate |\n|---|---|---|---|\n")
		for _, row := range summary.SymbolPerformance {
			fmt.Fprintf(&b, "| %s | %.2f | %d | %.1f%% |\n", row.Symbol, row.Profit, row.Trades, row.WinRate)
		}
	}
	if len(summary.MonthlyPerformance) > 0 {
		fmt.Fprintf(&b, "\n## By month\n\n| Month | Profit | Trades |\n|---|---|---|\n")
		for _, row := range summary.MonthlyPerformance {
			fmt.Fprintf(&b, "| %s | %.2f | %d |\n", row.Month, row.Profit, row.Trades)
		}
	}

	if narrative != "" {
		fmt.Fprintf(&b, "\n## Coach's notes\n\n%s\n", narrative)
	}

	return b.String(), nil
}

func buildPrompt(summary metrics.Summary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Trading performance summary:\n")
	fmt.Fprintf(&b, "- total trades: %d over %d trading days\n", summary.TotalTrades, summary.TradingDays)
	fmt.Fprintf(&b, "- total net profit: %.2f\n", summary.TotalProfit)
	fmt.Fprintf(&b, "- win rate: %.1f%%, profit factor: %.2f\n", summary.WinRate, summary.ProfitFactor)
	fmt.Fprintf(&b, "- average win %.2f vs average loss %.2f (risk-reward %.2f)\n",
		summary.AvgWin, summary.AvgLoss, summary.RiskRewardRatio)
	fmt.Fprintf(&b, "- max drawdown: %.2f\n", summary.MaxDrawdown)
	fmt.Fprintf(&b, "- longest winning streak %d, losing streak %d\n",
		summary.ConsecutiveWins, summary.ConsecutiveLosses)
	if len(summary.SymbolPerformance) > 0 {
		fmt.Fprintf(&b, "Per-symbol results:\n")
		for _, row := range summary.SymbolPerformance {
			fmt.Fprintf(&b, "- %s: profit %.2f over %d trades, win rate %.1f%%\n",
				row.Symbol, row.Profit, row.Trades, row.WinRate)
		}
	}
	fmt.Fprintf(&b, "\nWrite a concise review of this performance: what is working, "+
		"the biggest weakness, and the single most important change to make next month.")
	return b.String()
}
