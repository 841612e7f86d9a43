package models

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// HoldingRecord is a single row of the holdings table. Records are immutable
// once loaded.
type HoldingRecord struct {
	ShortName        string          `json:"short_name"`     // Fund short name
	PortfolioName    string          `json:"portfolio_name"` // Full portfolio name
	CustodianName    string          `json:"custodian_name"`
	SecName          string          `json:"sec_name"` // Security description
	SecurityTypeName string          `json:"security_type_name"`
	Qty              decimal.Decimal `json:"qty"`
	Price            decimal.Decimal `json:"price"`
	MVBase           decimal.Decimal `json:"mv_base"` // Market value in base currency
	PLYTD            decimal.Decimal `json:"pl_ytd"`
	PLMTD            decimal.Decimal `json:"pl_mtd"`
	PLQTD            decimal.Decimal `json:"pl_qtd"`
}

// TradeRecord is a single executed trade. Records are immutable once loaded.
type TradeRecord struct {
	TradeDate     time.Time       `json:"trade_date"`
	PortfolioName string          `json:"portfolio_name"`
	CustodianName string          `json:"custodian_name"`
	SecName       string          `json:"sec_name"`
	TradeTypeName string          `json:"trade_type_name"` // e.g. "Buy", "Sell"
	Counterparty  string          `json:"counterparty"`
	Quantity      decimal.Decimal `json:"quantity"`
	Price         decimal.Decimal `json:"price"`
	Principal     decimal.Decimal `json:"principal"`
	TotalCash     decimal.Decimal `json:"total_cash"`
	RealizedPnL   decimal.Decimal `json:"realized_pnl"`
}

// Dataset holds both tables plus the distinct-name sets derived from them.
// It is built once at startup and read-only afterwards, so concurrent
// requests share it without locking.
type Dataset struct {
	Holdings []HoldingRecord
	Trades   []TradeRecord

	funds         map[string]string // lowercased name -> canonical name
	fundNames     []string          // canonical names, sorted
	matchOrder    []string          // lowercased names, longest first, for deterministic matching
	custodians    []string
	securityTypes []string
}

// NewDataset builds a Dataset from loaded tables, precomputing the distinct
// fund, custodian and security-type sets used for lookups.
func NewDataset(holdings []HoldingRecord, trades []TradeRecord) *Dataset {
	ds := &Dataset{
		Holdings: holdings,
		Trades:   trades,
		funds:    make(map[string]string),
	}

	custodianSet := make(map[string]bool)
	secTypeSet := make(map[string]bool)

	addFund := func(name string) {
		name = strings.TrimSpace(name)
		if name == "" {
			return
		}
		ds.funds[strings.ToLower(name)] = name
	}

	for _, h := range holdings {
		addFund(h.ShortName)
		addFund(h.PortfolioName)
		if c := strings.TrimSpace(h.CustodianName); c != "" {
			custodianSet[c] = true
		}
		if t := strings.TrimSpace(h.SecurityTypeName); t != "" {
			secTypeSet[t] = true
		}
	}
	for _, t := range trades {
		addFund(t.PortfolioName)
		if c := strings.TrimSpace(t.CustodianName); c != "" {
			custodianSet[c] = true
		}
	}

	for lower, name := range ds.funds {
		ds.fundNames = append(ds.fundNames, name)
		ds.matchOrder = append(ds.matchOrder, lower)
	}
	sort.Strings(ds.fundNames)
	// Longest name first so "HoldCo 10" wins over "HoldCo 1" when both are
	// present in the question; ties resolved lexicographically.
	sort.Slice(ds.matchOrder, func(i, j int) bool {
		if len(ds.matchOrder[i]) != len(ds.matchOrder[j]) {
			return len(ds.matchOrder[i]) > len(ds.matchOrder[j])
		}
		return ds.matchOrder[i] < ds.matchOrder[j]
	})
	for c := range custodianSet {
		ds.custodians = append(ds.custodians, c)
	}
	sort.Strings(ds.custodians)
	for t := range secTypeSet {
		ds.securityTypes = append(ds.securityTypes, t)
	}
	sort.Strings(ds.securityTypes)

	return ds
}

// FundNames returns the distinct fund/portfolio names, sorted.
func (ds *Dataset) FundNames() []string { return ds.fundNames }

// Custodians returns the distinct custodian names, sorted.
func (ds *Dataset) Custodians() []string { return ds.custodians }

// SecurityTypes returns the distinct security type names, sorted.
func (ds *Dataset) SecurityTypes() []string { return ds.securityTypes }

// KnownFund reports whether the given fund filter matches any fund name in
// the loaded tables. Matching is case-insensitive substring in either
// direction: the filter may be a fragment of a fund name or contain one.
func (ds *Dataset) KnownFund(filter string) bool {
	filter = strings.ToLower(strings.TrimSpace(filter))
	if filter == "" {
		return false
	}
	for lower := range ds.funds {
		if strings.Contains(lower, filter) || strings.Contains(filter, lower) {
			return true
		}
	}
	return false
}

// genericFundWords are fund-name words too common to identify a fund on
// their own during word-level matching.
var genericFundWords = map[string]bool{
	"fund":       true,
	"funds":      true,
	"portfolio":  true,
	"portfolios": true,
}

// MatchFund returns the canonical fund name contained in the given text, if
// any. When no full name matches, fund-name words longer than three
// characters are tried individually, skipping generic words like "fund".
func (ds *Dataset) MatchFund(text string) (string, bool) {
	lowerText := strings.ToLower(text)
	for _, lower := range ds.matchOrder {
		if strings.Contains(lowerText, lower) {
			return ds.funds[lower], true
		}
	}
	for _, lower := range ds.matchOrder {
		for _, word := range strings.Fields(lower) {
			if len(word) > 3 && !genericFundWords[word] && strings.Contains(lowerText, word) {
				return ds.funds[lower], true
			}
		}
	}
	return "", false
}

// MatchesFund reports whether a holding row belongs to the given fund filter
// (case-insensitive substring over ShortName and PortfolioName).
func (h HoldingRecord) MatchesFund(filter string) bool {
	filter = strings.ToLower(filter)
	return strings.Contains(strings.ToLower(h.ShortName), filter) ||
		strings.Contains(strings.ToLower(h.PortfolioName), filter)
}

// MatchesFund reports whether a trade row belongs to the given fund filter.
func (t TradeRecord) MatchesFund(filter string) bool {
	return strings.Contains(strings.ToLower(t.PortfolioName), strings.ToLower(filter))
}
