package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func testDataset() *Dataset {
	holdings := []HoldingRecord{
		{ShortName: "Garfield", PortfolioName: "Garfield Global Fund", CustodianName: "Northern Trust", SecName: "Apple Inc", SecurityTypeName: "Equity", MVBase: decimal.NewFromInt(1000)},
		{ShortName: "Ytum", PortfolioName: "Ytum Opportunities", CustodianName: "State Street", SecName: "Microsoft Corp", SecurityTypeName: "Equity", MVBase: decimal.NewFromInt(2000)},
		{ShortName: "HoldCo 1", PortfolioName: "HoldCo 1 Master", CustodianName: "BNY Mellon", SecName: "GNMA Pool", SecurityTypeName: "Bond", MVBase: decimal.NewFromInt(300)},
	}
	trades := []TradeRecord{
		{TradeDate: time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC), PortfolioName: "Ytum Opportunities", CustodianName: "State Street", TradeTypeName: "Buy", Counterparty: "Goldman Sachs"},
	}
	return NewDataset(holdings, trades)
}

func TestNewDataset_DistinctSets(t *testing.T) {
	ds := testDataset()

	assert.Equal(t, []string{
		"Garfield", "Garfield Global Fund",
		"HoldCo 1", "HoldCo 1 Master",
		"Ytum", "Ytum Opportunities",
	}, ds.FundNames())
	assert.Equal(t, []string{"BNY Mellon", "Northern Trust", "State Street"}, ds.Custodians())
	assert.Equal(t, []string{"Bond", "Equity"}, ds.SecurityTypes())
}

func TestKnownFund(t *testing.T) {
	ds := testDataset()

	assert.True(t, ds.KnownFund("Garfield"))
	assert.True(t, ds.KnownFund("garfield"))
	assert.True(t, ds.KnownFund("holdco 1"))
	assert.True(t, ds.KnownFund("Ytum Opportunities Fund II")) // contains a known name
	assert.False(t, ds.KnownFund("Nonexistent Fund"))
	assert.False(t, ds.KnownFund(""))
}

func TestMatchFund(t *testing.T) {
	ds := testDataset()

	fund, ok := ds.MatchFund("ytd p&l for ytum")
	assert.True(t, ok)
	assert.Equal(t, "Ytum", fund)

	// Word-level fallback for partial fund names.
	fund, ok = ds.MatchFund("how did opportunities do this year")
	assert.True(t, ok)
	assert.Equal(t, "Ytum Opportunities", fund)

	_, ok = ds.MatchFund("nothing matches here")
	assert.False(t, ok)
}

func TestMatchFund_LongestNameWins(t *testing.T) {
	holdings := []HoldingRecord{
		{ShortName: "HoldCo 1", PortfolioName: "HoldCo 1"},
		{ShortName: "HoldCo 10", PortfolioName: "HoldCo 10"},
	}
	ds := NewDataset(holdings, nil)

	fund, ok := ds.MatchFund("total holdings for holdco 10")
	assert.True(t, ok)
	assert.Equal(t, "HoldCo 10", fund)
}

func TestMatchFund_Deterministic(t *testing.T) {
	ds := testDataset()
	first, _ := ds.MatchFund("compare garfield and ytum")
	for i := 0; i < 50; i++ {
		fund, _ := ds.MatchFund("compare garfield and ytum")
		assert.Equal(t, first, fund)
	}
}

func TestMatchesFund(t *testing.T) {
	h := HoldingRecord{ShortName: "Garfield", PortfolioName: "Garfield Global Fund"}
	assert.True(t, h.MatchesFund("garfield"))
	assert.True(t, h.MatchesFund("global"))
	assert.False(t, h.MatchesFund("ytum"))

	tr := TradeRecord{PortfolioName: "Ytum Opportunities"}
	assert.True(t, tr.MatchesFund("ytum"))
	assert.False(t, tr.MatchesFund("garfield"))
}
