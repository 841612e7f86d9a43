// Package calculator implements the aggregate queries the chatbot can
// answer. Every function is a pure read over the immutable Dataset; monetary
// sums use decimal arithmetic throughout.
package calculator

import (
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/username/finbot/src/models"
)

// ErrNoDataForFund indicates a fund filter matched no fund name present in
// the loaded tables. It is a per-query condition, surfaced to the user as a
// "no data" answer.
var ErrNoDataForFund = errors.New("no data for fund")

// Window identifies a to-date reporting window relative to a reference day.
type Window string

const (
	WindowYTD Window = "YTD"
	WindowMTD Window = "MTD"
	WindowQTD Window = "QTD"
)

// Start returns the first day of the window containing now. The window is
// inclusive of both its start date and now.
func (w Window) Start(now time.Time) time.Time {
	switch w {
	case WindowMTD:
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	case WindowQTD:
		quarterMonth := time.Month((int(now.Month())-1)/3*3 + 1)
		return time.Date(now.Year(), quarterMonth, 1, 0, 0, 0, 0, now.Location())
	default: // YTD
		return time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
	}
}

// Metric selects the ranking measure for fund performance queries.
type Metric string

const (
	MetricPLYTD  Metric = "PL_YTD"
	MetricMVBase Metric = "MV_Base"
)

// FundValue is one entry of a ranked fund list.
type FundValue struct {
	Fund  string
	Value decimal.Decimal
}

// checkFund validates an optional fund filter against the dataset. An empty
// filter is always valid (no filtering).
func checkFund(ds *models.Dataset, fund string) error {
	if fund == "" {
		return nil
	}
	if !ds.KnownFund(fund) {
		return ErrNoDataForFund
	}
	return nil
}

// CountHoldings returns the number of holding rows, optionally narrowed to
// one fund.
func CountHoldings(ds *models.Dataset, fund string) (int, error) {
	if err := checkFund(ds, fund); err != nil {
		return 0, err
	}
	if fund == "" {
		return len(ds.Holdings), nil
	}
	count := 0
	for _, h := range ds.Holdings {
		if h.MatchesFund(fund) {
			count++
		}
	}
	return count, nil
}

// CountTrades returns the number of trade rows, optionally narrowed to one
// fund.
func CountTrades(ds *models.Dataset, fund string) (int, error) {
	if err := checkFund(ds, fund); err != nil {
		return 0, err
	}
	if fund == "" {
		return len(ds.Trades), nil
	}
	count := 0
	for _, t := range ds.Trades {
		if t.MatchesFund(fund) {
			count++
		}
	}
	return count, nil
}

// TotalMarketValue sums the base market value over holdings. A known fund
// with zero-value holdings sums to zero; only an unknown fund is an error.
func TotalMarketValue(ds *models.Dataset, fund string) (decimal.Decimal, error) {
	if err := checkFund(ds, fund); err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, h := range ds.Holdings {
		if fund == "" || h.MatchesFund(fund) {
			total = total.Add(h.MVBase)
		}
	}
	return total, nil
}

// PnLForWindow sums realized P&L of trades dated within the window ending at
// now, inclusive of both the window start and now.
func PnLForWindow(ds *models.Dataset, window Window, now time.Time, fund string) (decimal.Decimal, error) {
	if err := checkFund(ds, fund); err != nil {
		return decimal.Zero, err
	}
	start := window.Start(now)
	end := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	total := decimal.Zero
	for _, t := range ds.Trades {
		if fund != "" && !t.MatchesFund(fund) {
			continue
		}
		day := time.Date(t.TradeDate.Year(), t.TradeDate.Month(), t.TradeDate.Day(), 0, 0, 0, 0, now.Location())
		if day.Before(start) || day.After(end) {
			continue
		}
		total = total.Add(t.RealizedPnL)
	}
	return total, nil
}

// holdingPL selects the holdings P&L column for a window.
func holdingPL(h models.HoldingRecord, window Window) decimal.Decimal {
	switch window {
	case WindowMTD:
		return h.PLMTD
	case WindowQTD:
		return h.PLQTD
	default:
		return h.PLYTD
	}
}

// PnLByFund aggregates the holdings P&L column for the window per fund
// short name, for the "all funds" renderings.
func PnLByFund(ds *models.Dataset, window Window) []FundValue {
	totals := make(map[string]decimal.Decimal)
	for _, h := range ds.Holdings {
		if h.ShortName == "" {
			continue
		}
		totals[h.ShortName] = totals[h.ShortName].Add(holdingPL(h, window))
	}
	return sortedDescending(totals)
}

// metricValue selects the ranking measure from a holding row.
func metricValue(h models.HoldingRecord, metric Metric) decimal.Decimal {
	if metric == MetricMVBase {
		return h.MVBase
	}
	return h.PLYTD
}

func fundTotalsByMetric(ds *models.Dataset, metric Metric) map[string]decimal.Decimal {
	totals := make(map[string]decimal.Decimal)
	for _, h := range ds.Holdings {
		if h.ShortName == "" {
			continue
		}
		totals[h.ShortName] = totals[h.ShortName].Add(metricValue(h, metric))
	}
	return totals
}

// sortedDescending orders fund totals descending by value, ties broken by
// fund name ascending so reruns produce identical lists.
func sortedDescending(totals map[string]decimal.Decimal) []FundValue {
	ranked := make([]FundValue, 0, len(totals))
	for fund, value := range totals {
		ranked = append(ranked, FundValue{Fund: fund, Value: value})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if !ranked[i].Value.Equal(ranked[j].Value) {
			return ranked[i].Value.GreaterThan(ranked[j].Value)
		}
		return ranked[i].Fund < ranked[j].Fund
	})
	return ranked
}

// TopPerformingFunds ranks distinct funds by the chosen metric, descending,
// returning at most n entries.
func TopPerformingFunds(ds *models.Dataset, metric Metric, n int) []FundValue {
	ranked := sortedDescending(fundTotalsByMetric(ds, metric))
	if n > 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// WorstPerformingFunds ranks distinct funds by YTD P&L ascending, returning
// at most n entries. Ties still break by fund name ascending.
func WorstPerformingFunds(ds *models.Dataset, n int) []FundValue {
	totals := fundTotalsByMetric(ds, MetricPLYTD)
	ranked := make([]FundValue, 0, len(totals))
	for fund, value := range totals {
		ranked = append(ranked, FundValue{Fund: fund, Value: value})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if !ranked[i].Value.Equal(ranked[j].Value) {
			return ranked[i].Value.LessThan(ranked[j].Value)
		}
		return ranked[i].Fund < ranked[j].Fund
	})
	if n > 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// PerformanceRanking ranks every distinct fund by YTD P&L descending.
func PerformanceRanking(ds *models.Dataset) []FundValue {
	return sortedDescending(fundTotalsByMetric(ds, MetricPLYTD))
}

// ListFunds returns the distinct fund/portfolio names, sorted.
func ListFunds(ds *models.Dataset) []string { return ds.FundNames() }

// ListCustodians returns the distinct custodian names, sorted.
func ListCustodians(ds *models.Dataset) []string { return ds.Custodians() }

// ListCounterparties returns the distinct counterparty names from trades,
// sorted.
func ListCounterparties(ds *models.Dataset) []string {
	seen := make(map[string]bool)
	var names []string
	for _, t := range ds.Trades {
		if t.Counterparty == "" || seen[t.Counterparty] {
			continue
		}
		seen[t.Counterparty] = true
		names = append(names, t.Counterparty)
	}
	sort.Strings(names)
	return names
}

// TradeTypeSummary counts trades per trade type.
func TradeTypeSummary(ds *models.Dataset) map[string]int {
	summary := make(map[string]int)
	for _, t := range ds.Trades {
		if t.TradeTypeName == "" {
			continue
		}
		summary[t.TradeTypeName]++
	}
	return summary
}

// CountTradesByType counts trades whose type equals the given name,
// case-insensitively.
func CountTradesByType(ds *models.Dataset, tradeType string) int {
	count := 0
	for _, t := range ds.Trades {
		if strings.EqualFold(t.TradeTypeName, tradeType) {
			count++
		}
	}
	return count
}

// SecuritiesForFund lists the distinct securities held by a fund, in table
// order.
func SecuritiesForFund(ds *models.Dataset, fund string) ([]string, error) {
	if fund == "" || !ds.KnownFund(fund) {
		return nil, ErrNoDataForFund
	}
	seen := make(map[string]bool)
	var securities []string
	for _, h := range ds.Holdings {
		if !h.MatchesFund(fund) || h.SecName == "" || seen[h.SecName] {
			continue
		}
		seen[h.SecName] = true
		securities = append(securities, h.SecName)
	}
	return securities, nil
}

// SecurityTypesForFund lists the distinct security types a fund holds, in
// table order.
func SecurityTypesForFund(ds *models.Dataset, fund string) ([]string, error) {
	if fund == "" || !ds.KnownFund(fund) {
		return nil, ErrNoDataForFund
	}
	seen := make(map[string]bool)
	var types []string
	for _, h := range ds.Holdings {
		if !h.MatchesFund(fund) || h.SecurityTypeName == "" || seen[h.SecurityTypeName] {
			continue
		}
		seen[h.SecurityTypeName] = true
		types = append(types, h.SecurityTypeName)
	}
	return types, nil
}

// SecurityTypes returns the distinct security types across all holdings.
func SecurityTypes(ds *models.Dataset) []string { return ds.SecurityTypes() }

// CountHoldingsBySecurityType counts holdings whose security type contains
// the given name, case-insensitively.
func CountHoldingsBySecurityType(ds *models.Dataset, secType string) int {
	count := 0
	for _, h := range ds.Holdings {
		if containsFold(h.SecurityTypeName, secType) {
			count++
		}
	}
	return count
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// TotalQuantityForFund sums the holding quantity for a fund.
func TotalQuantityForFund(ds *models.Dataset, fund string) (decimal.Decimal, error) {
	if fund == "" || !ds.KnownFund(fund) {
		return decimal.Zero, ErrNoDataForFund
	}
	total := decimal.Zero
	for _, h := range ds.Holdings {
		if h.MatchesFund(fund) {
			total = total.Add(h.Qty)
		}
	}
	return total, nil
}
