package importer

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trade-journal/internal/models"
)

const sampleHeader = "Ticket ID,Open Time,Open Price,Close Time,Close Price,Profit,Lots,Commission,Swap,Symbol,Type,SL,TP,Pips,Reason,Volume"

func TestParseFullRow(t *testing.T) {
	csvData := sampleHeader + "\n" +
		"1001,2024.03.01 10:30:00,1.08550,2024.03.01 14:45:00,1.09120,57.00,0.5,-3.50,-0.20,EURUSD,buy,1.08000,1.09500,57.0,tp,50000\n"

	trades, report, err := Parse(strings.NewReader(csvData))
	require.NoError(t, err)
	require.Len(t, trades, 1)
	assert.Equal(t, 1, report.Imported)
	assert.Zero(t, report.Skipped)

	trade := trades[0]
	assert.Equal(t, "1001", trade.Ticket)
	assert.Equal(t, "EURUSD", trade.Symbol)
	assert.Equal(t, models.DirectionBuy, trade.Direction)
	assert.Equal(t, time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC), trade.OpenTime)
	assert.InDelta(t, 1.08550, trade.OpenPrice, 1e-9)
	require.NotNil(t, trade.CloseTime)
	assert.Equal(t, time.Date(2024, 3, 1, 14, 45, 0, 0, time.UTC), *trade.CloseTime)
	require.NotNil(t, trade.ClosePrice)
	assert.InDelta(t, 1.09120, *trade.ClosePrice, 1e-9)
	require.NotNil(t, trade.Profit)
	assert.InDelta(t, 57.0, *trade.Profit, 1e-9)
	assert.InDelta(t, 0.5, trade.Lots, 1e-9)
	assert.InDelta(t, -3.5, trade.Commission, 1e-9)
	assert.InDelta(t, -0.2, trade.Swap, 1e-9)
	require.NotNil(t, trade.StopLoss)
	assert.InDelta(t, 1.08, *trade.StopLoss, 1e-9)
	require.NotNil(t, trade.TakeProfit)
	assert.InDelta(t, 1.095, *trade.TakeProfit, 1e-9)
	require.NotNil(t, trade.Pips)
	assert.InDelta(t, 57.0, *trade.Pips, 1e-9)
	assert.Equal(t, "tp", trade.CloseReason)
	assert.InDelta(t, 50000.0, trade.Volume, 1e-9)
	assert.True(t, trade.IsClosed())
}

func TestParseMissingCloseTimeMeansOpenTrade(t *testing.T) {
	csvData := sampleHeader + "\n" +
		"1002,2024.03.02 09:00:00,1.26000,,,,0.1,0,0,GBPUSD,sell,,,,,10000\n"

	trades, report, err := Parse(strings.NewReader(csvData))
	require.NoError(t, err)
	require.Len(t, trades, 1)
	assert.Equal(t, 1, report.Imported)

	trade := trades[0]
	assert.Equal(t, models.DirectionSell, trade.Direction)
	assert.Nil(t, trade.CloseTime)
	assert.Nil(t, trade.ClosePrice)
	assert.Nil(t, trade.Profit)
	assert.Nil(t, trade.StopLoss)
	assert.Nil(t, trade.TakeProfit)
	assert.False(t, trade.IsClosed())
}

func TestParseSkipsBadRowsAndKeepsGoodOnes(t *testing.T) {
	csvData := sampleHeader + "\n" +
		"1,2024.03.01 10:00:00,1.1,2024.03.01 11:00:00,1.2,10,0.1,0,0,EURUSD,buy,,,,,\n" +
		"2,not-a-time,1.1,,,,0.1,0,0,EURUSD,buy,,,,,\n" + // bad open time
		"3,2024.03.01 12:00:00,1.1,,,,0.1,0,0,,buy,,,,,\n" + // empty symbol
		"4,2024.03.01 13:00:00,1.1,,,,0.1,0,0,EURUSD,hold,,,,,\n" + // unknown type
		"5,2024.03.01 14:00:00,1.1,2024.03.01 15:00:00,1.0,-10,0.1,0,0,EURUSD,sell,,,,,\n"

	trades, report, err := Parse(strings.NewReader(csvData))
	require.NoError(t, err)

	assert.Equal(t, 2, report.Imported)
	assert.Equal(t, 3, report.Skipped)
	require.Len(t, report.Errors, 3)
	assert.Contains(t, report.Errors[0], "line 3")
	require.Len(t, trades, 2)
	assert.Equal(t, "1", trades[0].Ticket)
	assert.Equal(t, "5", trades[1].Ticket)
}

func TestParseNumericTypeCodes(t *testing.T) {
	csvData := sampleHeader + "\n" +
		"1,2024-03-01 10:00:00,1.1,,,,0.1,0,0,EURUSD,0,,,,,\n" +
		"2,2024-03-01 11:00:00,1.2,,,,0.1,0,0,EURUSD,1,,,,,\n"

	trades, _, err := Parse(strings.NewReader(csvData))
	require.NoError(t, err)
	require.Len(t, trades, 2)
	assert.Equal(t, models.DirectionBuy, trades[0].Direction)
	assert.Equal(t, models.DirectionSell, trades[1].Direction)
}

func TestParseRejectsMissingRequiredColumn(t *testing.T) {
	csvData := "Ticket ID,Open Time,Type\n1,2024.03.01 10:00:00,buy\n"

	_, _, err := Parse(strings.NewReader(csvData))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Symbol")
}

func TestParseThousandSeparatorsInNumbers(t *testing.T) {
	csvData := sampleHeader + "\n" +
		"1,2024.03.01 10:00:00,1.1,2024.03.01 11:00:00,1.2,\"1,250.50\",0.1,0,0,XAUUSD,buy,,,,,\n"

	trades, _, err := Parse(strings.NewReader(csvData))
	require.NoError(t, err)
	require.Len(t, trades, 1)
	require.NotNil(t, trades[0].Profit)
	assert.InDelta(t, 1250.50, *trades[0].Profit, 1e-9)
}
