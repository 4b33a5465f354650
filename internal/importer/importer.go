// Package importer parses MetaTrader-style CSV trade histories into trade
// rows. Malformed rows are skipped and counted, never fatal: whatever parses
// cleanly is kept.
package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"trade-journal/internal/models"
)

// Report summarizes one import run.
type Report struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors,omitempty"`
}

// Column names as exported by MetaTrader-style brokers. The mapping must be
// preserved verbatim for compatibility with existing exports.
const (
	colTicket     = "Ticket ID"
	colOpenTime   = "Open Time"
	colOpenPrice  = "Open Price"
	colCloseTime  = "Close Time"
	colClosePrice = "Close Price"
	colProfit     = "Profit"
	colLots       = "Lots"
	colCommission = "Commission"
	colSwap       = "Swap"
	colSymbol     = "Symbol"
	colType       = "Type"
	colSL         = "SL"
	colTP         = "TP"
	colPips       = "Pips"
	colReason     = "Reason"
	colVolume     = "Volume"
)

// Broker exports are not consistent about time layouts; try the common ones.
var timeLayouts = []string{
	"2006.01.02 15:04:05",
	"2006.01.02 15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	time.RFC3339,
}

// Parse reads a CSV export and returns the trades that parsed cleanly along
// with a report of what was skipped. Rows missing a close time come back as
// open trades with null close fields.
func Parse(r io.Reader) ([]models.Trade, Report, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, Report{}, fmt.Errorf("failed to read CSV header: %w", err)
	}
	index := map[string]int{}
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}
	for _, required := range []string{colSymbol, colOpenTime, colType} {
		if _, ok := index[required]; !ok {
			return nil, Report{}, fmt.Errorf("missing required column %q", required)
		}
	}

	var (
		trades []models.Trade
		report Report
	)
	line := 1
	for {
		line++
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			report.Skipped++
			report.Errors = append(report.Errors, fmt.Sprintf("line %d: %v", line, err))
			continue
		}

		trade, err := mapRow(index, record)
		if err != nil {
			report.Skipped++
			report.Errors = append(report.Errors, fmt.Sprintf("line %d: %v", line, err))
			continue
		}
		trades = append(trades, trade)
		report.Imported++
	}

	return trades, report, nil
}

func mapRow(index map[string]int, record []string) (models.Trade, error) {
	field := func(name string) string {
		i, ok := index[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	symbol := field(colSymbol)
	if symbol == "" {
		return models.Trade{}, fmt.Errorf("empty symbol")
	}

	direction, err := parseDirection(field(colType))
	if err != nil {
		return models.Trade{}, err
	}

	openTime, err := parseTime(field(colOpenTime))
	if err != nil {
		return models.Trade{}, fmt.Errorf("open time: %w", err)
	}

	trade := models.Trade{
		Ticket:      field(colTicket),
		Symbol:      symbol,
		Direction:   direction,
		OpenTime:    openTime,
		OpenPrice:   parseFloatDefault(field(colOpenPrice), 0),
		Lots:        parseFloatDefault(field(colLots), 0),
		Volume:      parseFloatDefault(field(colVolume), 0),
		Commission:  parseFloatDefault(field(colCommission), 0),
		Swap:        parseFloatDefault(field(colSwap), 0),
		CloseReason: field(colReason),
		StopLoss:    parseFloatPtr(field(colSL)),
		TakeProfit:  parseFloatPtr(field(colTP)),
		Pips:        parseFloatPtr(field(colPips)),
	}

	// A missing close time means the position is still open; close price
	// and profit stay null and the trade is excluded from ratio metrics.
	if raw := field(colCloseTime); raw != "" {
		closeTime, err := parseTime(raw)
		if err != nil {
			return models.Trade{}, fmt.Errorf("close time: %w", err)
		}
		trade.CloseTime = &closeTime
		trade.ClosePrice = parseFloatPtr(field(colClosePrice))
		profit := parseFloatDefault(field(colProfit), 0)
		trade.Profit = &profit
	}

	return trade, nil
}

func parseDirection(raw string) (string, error) {
	switch strings.ToLower(raw) {
	case "buy", "0":
		return models.DirectionBuy, nil
	case "sell", "1":
		return models.DirectionSell, nil
	default:
		return "", fmt.Errorf("unknown trade type %q", raw)
	}
}

func parseTime(raw string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time %q", raw)
}

func parseFloatDefault(raw string, def float64) float64 {
	if raw == "" {
		return def
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", ""), 64)
	if err != nil {
		return def
	}
	return v
}

func parseFloatPtr(raw string) *float64 {
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", ""), 64)
	if err != nil {
		return nil
	}
	return &v
}
