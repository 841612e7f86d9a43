package chatbot

import (
	"testing"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/username/finbot/src/formatter"
	"github.com/username/finbot/src/models"
)

var testNow = time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)

func d(v string) decimal.Decimal {
	out, err := decimal.NewFromString(v)
	if err != nil {
		panic(err)
	}
	return out
}

// Short names equal portfolio names here so ListFunds renders exactly one
// entry per fund.
func testDataset() *models.Dataset {
	holdings := []models.HoldingRecord{
		{ShortName: "Garfield", PortfolioName: "Garfield", CustodianName: "Northern Trust", SecName: "Apple Inc", SecurityTypeName: "Equity", Qty: d("100"), MVBase: d("1000"), PLYTD: d("500")},
		{ShortName: "Ytum", PortfolioName: "Ytum", CustodianName: "State Street", SecName: "Microsoft Corp", SecurityTypeName: "Equity", Qty: d("200"), MVBase: d("2000"), PLYTD: d("700")},
		{ShortName: "HoldCo 1", PortfolioName: "HoldCo 1", CustodianName: "BNY Mellon", SecName: "GNMA Pool", SecurityTypeName: "Bond", Qty: d("10"), MVBase: d("300"), PLYTD: d("-100")},
	}
	trades := []models.TradeRecord{
		{TradeDate: time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC), PortfolioName: "Ytum", TradeTypeName: "Buy", Counterparty: "Goldman Sachs", RealizedPnL: d("100")},
		{TradeDate: time.Date(2026, 7, 15, 0, 0, 0, 0, time.UTC), PortfolioName: "Ytum", TradeTypeName: "Sell", Counterparty: "Morgan Stanley", RealizedPnL: d("-30")},
		{TradeDate: time.Date(2025, 11, 2, 0, 0, 0, 0, time.UTC), PortfolioName: "Garfield", TradeTypeName: "Sell", Counterparty: "JP Morgan", RealizedPnL: d("999")},
	}
	return models.NewDataset(holdings, trades)
}

func testEngine(answerCache *cache.Cache) *Engine {
	e := NewEngine(testDataset(), answerCache)
	e.now = func() time.Time { return testNow }
	return e
}

func TestAnswer_Scenarios(t *testing.T) {
	e := testEngine(nil)

	tests := []struct {
		name     string
		question string
		want     string
	}{
		{
			"count holdings for fund",
			"Total number of holdings for Garfield",
			"Total number of holdings for Garfield: 1",
		},
		{
			"count holdings all",
			"How many holdings are there?",
			"Total number of holdings across all funds: 3",
		},
		{
			"ytd pnl for fund",
			"YTD P&L for Ytum",
			"YTD P&L for Ytum: $70.00",
		},
		{
			"list funds",
			"List all funds",
			"Available funds/portfolios:\n  - Garfield\n  - HoldCo 1\n  - Ytum",
		},
		{
			"unknown fund",
			"Total number of holdings for Nonexistent Fund",
			"Sorry can not find the answer for fund 'nonexistent fund'",
		},
		{
			"best performing",
			"Which funds performed better?",
			"Best performing funds by YTD P&L:\n  1. Ytum: $700.00\n  2. Garfield: $500.00\n  3. HoldCo 1: $-100.00\n",
		},
		{
			"worst performing",
			"Worst performing funds",
			"Worst performing funds by YTD P&L:\n  1. HoldCo 1: $-100.00\n  2. Garfield: $500.00\n  3. Ytum: $700.00\n",
		},
		{
			"market value",
			"Total market value",
			"Total market value across all funds: $3,300.00",
		},
		{
			"trade types",
			"Trade types summary",
			"Trade Types Summary:\n  - Sell: 2\n  - Buy: 1\n",
		},
		{
			"custodians",
			"What are the custodians?",
			"Custodians:\n  - BNY Mellon\n  - Northern Trust\n  - State Street",
		},
		{
			"securities for fund",
			"What securities does Ytum hold?",
			"Securities held by Ytum:\n  - Microsoft Corp",
		},
		{
			"unknown question",
			"asdkjasd random text",
			formatter.Fallback,
		},
		{
			"empty question",
			"   ",
			formatter.EmptyPrompt,
		},
		{
			"help",
			"help",
			formatter.HelpText,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, e.Answer(tt.question))
		})
	}
}

func TestAnswer_WindowedPnL(t *testing.T) {
	e := testEngine(nil)

	// MTD from 2026-08-28 covers no trades.
	assert.Equal(t, "MTD P&L for Ytum: $0.00", e.Answer("MTD P&L for Ytum"))
	// QTD picks up the July sell only.
	assert.Equal(t, "QTD P&L for Ytum: $-30.00", e.Answer("QTD P&L for Ytum"))
	// The 2025 trade never leaks into the year-to-date sum.
	assert.Equal(t, "YTD P&L for Garfield: $0.00", e.Answer("YTD P&L for Garfield"))
}

// The same question must produce byte-identical answers on every call.
func TestAnswer_Idempotent(t *testing.T) {
	e := testEngine(nil)
	questions := []string{
		"List all funds",
		"Which funds performed better?",
		"Trade types summary",
		"YTD P&L for Ytum",
		"nonsense input here",
	}
	for _, q := range questions {
		first := e.Answer(q)
		for i := 0; i < 20; i++ {
			assert.Equal(t, first, e.Answer(q), "question %q", q)
		}
	}
}

func TestAnswer_CacheReuse(t *testing.T) {
	c := cache.New(time.Minute, time.Minute)
	e := testEngine(c)

	answer := e.Answer("Total market value")
	// Case and surrounding whitespace do not fragment the cache.
	cached, found := c.Get("total market value")
	assert.True(t, found)
	assert.Equal(t, answer, cached)
	assert.Equal(t, answer, e.Answer("  TOTAL MARKET VALUE  "))
}

func TestAnswer_EmptyNotCached(t *testing.T) {
	c := cache.New(time.Minute, time.Minute)
	e := testEngine(c)

	assert.Equal(t, formatter.EmptyPrompt, e.Answer(""))
	_, found := c.Get("")
	assert.False(t, found)
}

func TestAnswer_NeverPanicsOnOddInput(t *testing.T) {
	e := testEngine(nil)
	for _, q := range []string{"???", "for ", "p&l for", strings100()} {
		assert.NotEmpty(t, e.Answer(q))
	}
}

func strings100() string {
	out := make([]byte, 100)
	for i := range out {
		out[i] = 'a'
	}
	return string(out)
}
