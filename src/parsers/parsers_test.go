package parsers

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const holdingsCSV = `ShortName,PortfolioName,CustodianName,SecName,SecurityTypeName,Qty,Price,MV_Base,PL_YTD,PL_MTD,PL_QTD
Garfield,Garfield Global Fund,Northern Trust,Apple Inc,Equity,100,185.50,"18,550.00",500,50,200
Ytum,Ytum Opportunities,State Street,Microsoft Corp,Equity,200,410.25,82050,700,70,280
`

const tradesCSV = `TradeDate,PortfolioName,CustodianName,SecName,TradeTypeName,Counterparty,Quantity,Price,Principal,TotalCash,RealizedPnL
2026-01-10,Ytum Opportunities,State Street,Microsoft Corp,Buy,Goldman Sachs,50,400,20000,-20000,100
not-a-date,Ytum Opportunities,State Street,Microsoft Corp,Sell,Goldman Sachs,50,400,20000,20000,999
2026-07-15,Ytum Opportunities,State Street,Microsoft Corp,Sell,Morgan Stanley,25,395,9875,9875,-30
`

func TestHoldingsParser_Parse(t *testing.T) {
	holdings, err := NewHoldingsParser().Parse(strings.NewReader(holdingsCSV))
	require.NoError(t, err)
	require.Len(t, holdings, 2)

	h := holdings[0]
	assert.Equal(t, "Garfield", h.ShortName)
	assert.Equal(t, "Garfield Global Fund", h.PortfolioName)
	assert.Equal(t, "Equity", h.SecurityTypeName)
	assert.True(t, h.Qty.Equal(decimal.NewFromInt(100)))
	// Quoted thousands separators parse cleanly.
	assert.True(t, h.MVBase.Equal(decimal.RequireFromString("18550.00")))
}

func TestHoldingsParser_ColumnOrderIrrelevant(t *testing.T) {
	csv := `PL_QTD,PL_MTD,PL_YTD,MV_Base,Price,Qty,SecurityTypeName,SecName,CustodianName,PortfolioName,ShortName
200,50,500,1000,10,100,Equity,Apple Inc,Northern Trust,Garfield Global Fund,Garfield
`
	holdings, err := NewHoldingsParser().Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, holdings, 1)
	assert.Equal(t, "Garfield", holdings[0].ShortName)
	assert.True(t, holdings[0].MVBase.Equal(decimal.NewFromInt(1000)))
}

func TestHoldingsParser_MissingColumns(t *testing.T) {
	csv := "ShortName,PortfolioName\nGarfield,Garfield Global Fund\n"
	_, err := NewHoldingsParser().Parse(strings.NewReader(csv))
	require.ErrorIs(t, err, ErrSourceMalformed)
	assert.Contains(t, err.Error(), "MV_Base")
	assert.Contains(t, err.Error(), "PL_YTD")
}

func TestHoldingsParser_BadNumericLoadsAsZero(t *testing.T) {
	csv := `ShortName,PortfolioName,CustodianName,SecName,SecurityTypeName,Qty,Price,MV_Base,PL_YTD,PL_MTD,PL_QTD
Garfield,Garfield Global Fund,Northern Trust,Apple Inc,Equity,n/a,,1000,garbage,50,200
`
	holdings, err := NewHoldingsParser().Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, holdings, 1)
	assert.True(t, holdings[0].Qty.IsZero())
	assert.True(t, holdings[0].Price.IsZero())
	assert.True(t, holdings[0].PLYTD.IsZero())
	assert.True(t, holdings[0].MVBase.Equal(decimal.NewFromInt(1000)))
}

func TestTradesParser_Parse(t *testing.T) {
	trades, err := NewTradesParser().Parse(strings.NewReader(tradesCSV))
	require.NoError(t, err)
	// The row with the invalid date is skipped, not fatal.
	require.Len(t, trades, 2)

	assert.Equal(t, time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC), trades[0].TradeDate)
	assert.Equal(t, "Buy", trades[0].TradeTypeName)
	assert.True(t, trades[0].RealizedPnL.Equal(decimal.NewFromInt(100)))
	assert.True(t, trades[1].RealizedPnL.Equal(decimal.NewFromInt(-30)))
}

func TestTradesParser_MissingColumns(t *testing.T) {
	csv := "TradeDate,PortfolioName\n2026-01-10,Ytum Opportunities\n"
	_, err := NewTradesParser().Parse(strings.NewReader(csv))
	require.ErrorIs(t, err, ErrSourceMalformed)
	assert.Contains(t, err.Error(), "RealizedPnL")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := LoadHoldings("/nonexistent/holdings.csv")
	assert.ErrorIs(t, err, ErrSourceUnavailable)

	_, err = LoadTrades("/nonexistent/trades.csv")
	assert.ErrorIs(t, err, ErrSourceUnavailable)

	_, err = LoadDataset("/nonexistent/holdings.csv", "/nonexistent/trades.csv")
	assert.ErrorIs(t, err, ErrSourceUnavailable)
}

func TestParseDecimal(t *testing.T) {
	assert.True(t, parseDecimal("1,234.56").Equal(decimal.RequireFromString("1234.56")))
	assert.True(t, parseDecimal(" 42 ").Equal(decimal.NewFromInt(42)))
	assert.True(t, parseDecimal("-30").Equal(decimal.NewFromInt(-30)))
	assert.True(t, parseDecimal("").IsZero())
	assert.True(t, parseDecimal("n/a").IsZero())
}
