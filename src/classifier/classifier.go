// Package classifier maps a free-text question to one of a closed set of
// intents plus extracted parameters. Classification is an ordered list of
// keyword rules checked first-match-wins; specific phrasings sit above the
// generic count/list catch-alls, and rule order is part of the contract.
package classifier

import (
	"strings"

	"github.com/username/finbot/src/calculator"
	"github.com/username/finbot/src/models"
)

// Tag identifies the classified meaning of a question.
type Tag string

const (
	TagEmpty                  Tag = "Empty"
	TagListFunds              Tag = "ListFunds"
	TagCountHoldings          Tag = "CountHoldings"
	TagCountTrades            Tag = "CountTrades"
	TagTopPerformingFunds     Tag = "TopPerformingFunds"
	TagWorstPerformingFunds   Tag = "WorstPerformingFunds"
	TagPerformanceRanking     Tag = "PerformanceRanking"
	TagPnLForWindow           Tag = "PnLForWindow"
	TagSecuritiesForFund      Tag = "SecuritiesForFund"
	TagSecurityTypes          Tag = "SecurityTypes"
	TagTradeTypeSummary       Tag = "TradeTypeSummary"
	TagCountTradesByType      Tag = "CountTradesByType"
	TagTotalMarketValue       Tag = "TotalMarketValue"
	TagListCustodians         Tag = "ListCustodians"
	TagListCounterparties     Tag = "ListCounterparties"
	TagHoldingsBySecurityType Tag = "HoldingsBySecurityType"
	TagQuantityForFund        Tag = "QuantityForFund"
	TagHelp                   Tag = "Help"
	TagUnknown                Tag = "Unknown"
)

// Intent is a classified question: a tag plus the parameters extracted from
// the text. Unset parameters are zero values.
type Intent struct {
	Tag          Tag
	Fund         string
	Window       calculator.Window
	TradeType    string
	SecurityType string
}

// rule is one entry of the ordered classification table.
type rule struct {
	tag     Tag
	match   func(q string) bool
	extract func(ds *models.Dataset, q string, in *Intent)
}

func containsAny(q string, phrases ...string) bool {
	for _, p := range phrases {
		if strings.Contains(q, p) {
			return true
		}
	}
	return false
}

// allFundsPhrases are "for ..." tails that mean no fund filter at all.
var allFundsPhrases = map[string]bool{
	"all funds":      true,
	"each fund":      true,
	"every fund":     true,
	"all portfolios": true,
}

func extractFund(ds *models.Dataset, q string, in *Intent) {
	if fund, ok := ds.MatchFund(q); ok {
		in.Fund = fund
		return
	}
	// The question may still name a fund the tables do not know. Keeping the
	// candidate makes the answer a "no data for that fund" message instead
	// of a silent full-table aggregate.
	if candidate := fundCandidate(q); candidate != "" {
		in.Fund = candidate
	}
}

// extractWindow maps the literal window tokens in the question to a
// reporting window. Questions that talk about P&L without naming a window
// default to year-to-date.
func extractWindow(q string) calculator.Window {
	if containsAny(q, "mtd", "month to date") {
		return calculator.WindowMTD
	}
	if containsAny(q, "qtd", "quarter to date") {
		return calculator.WindowQTD
	}
	return calculator.WindowYTD
}

// fundCandidate returns the text after the last " for " clause, trimmed of
// trailing punctuation, unless it means "all funds".
func fundCandidate(q string) string {
	i := strings.LastIndex(q, " for ")
	if i < 0 {
		return ""
	}
	candidate := strings.TrimSpace(q[i+len(" for "):])
	candidate = strings.TrimRight(candidate, "?.!")
	if candidate == "" || allFundsPhrases[candidate] {
		return ""
	}
	return candidate
}

// rules is evaluated top to bottom; the first matching rule wins. The order
// reproduces the production question routing exactly, so a question
// containing both a specific trigger and a generic one resolves the same
// way on every run.
var rules = []rule{
	{
		tag: TagListFunds,
		match: func(q string) bool {
			return containsAny(q, "list all funds", "list funds", "what funds",
				"which funds are there", "show funds", "available funds")
		},
	},
	{
		tag: TagCountHoldings,
		match: func(q string) bool {
			return strings.Contains(q, "holdings") &&
				containsAny(q, "total", "how many")
		},
		extract: extractFund,
	},
	{
		tag: TagCountTrades,
		match: func(q string) bool {
			return strings.Contains(q, "trades") &&
				containsAny(q, "total", "how many")
		},
		extract: extractFund,
	},
	{
		tag: TagTopPerformingFunds,
		match: func(q string) bool {
			return containsAny(q, "best performing", "top performing",
				"highest profit", "best fund", "top fund", "performed better",
				"which fund performed")
		},
	},
	{
		tag: TagWorstPerformingFunds,
		match: func(q string) bool {
			return containsAny(q, "worst performing", "lowest profit",
				"worst fund", "poor performing", "lowest performing")
		},
	},
	{
		tag: TagPerformanceRanking,
		match: func(q string) bool {
			return containsAny(q, "fund performance", "performance ranking",
				"rank funds", "compare funds")
		},
	},
	{
		tag: TagPnLForWindow,
		match: func(q string) bool {
			return containsAny(q, "ytd", "yearly", "year to date", "annual",
				"profit and loss", "pnl", "p&l", "profit", "loss",
				"mtd", "month to date", "qtd", "quarter to date")
		},
		extract: func(ds *models.Dataset, q string, in *Intent) {
			in.Window = extractWindow(q)
			extractFund(ds, q, in)
		},
	},
	{
		tag: TagSecuritiesForFund,
		match: func(q string) bool {
			return containsAny(q, "securities", "what securities",
				"which securities", "holdings for")
		},
		extract: extractFund,
	},
	{
		tag: TagSecurityTypes,
		match: func(q string) bool {
			return containsAny(q, "security types", "asset types",
				"type of securities", "types of assets")
		},
		extract: extractFund,
	},
	{
		tag: TagTradeTypeSummary,
		match: func(q string) bool {
			return containsAny(q, "trade types", "buy and sell",
				"buys and sells", "trade summary")
		},
	},
	{
		tag: TagCountTradesByType,
		match: func(q string) bool {
			return strings.Contains(q, "buy") &&
				containsAny(q, "how many", "number of", "total")
		},
		extract: func(ds *models.Dataset, q string, in *Intent) {
			in.TradeType = "Buy"
		},
	},
	{
		tag: TagCountTradesByType,
		match: func(q string) bool {
			return strings.Contains(q, "sell") &&
				containsAny(q, "how many", "number of", "total")
		},
		extract: func(ds *models.Dataset, q string, in *Intent) {
			in.TradeType = "Sell"
		},
	},
	{
		tag: TagTotalMarketValue,
		match: func(q string) bool {
			return containsAny(q, "market value", "total value", "mv", "aum")
		},
		extract: extractFund,
	},
	{
		tag:   TagListCustodians,
		match: func(q string) bool { return strings.Contains(q, "custodian") },
	},
	{
		tag:   TagListCounterparties,
		match: func(q string) bool { return strings.Contains(q, "counterpart") },
	},
	{
		tag:   TagHoldingsBySecurityType,
		match: func(q string) bool { return false }, // matched dynamically in Classify
	},
	{
		tag: TagQuantityForFund,
		match: func(q string) bool {
			return containsAny(q, "quantity", "qty")
		},
		extract: extractFund,
	},
	{
		tag: TagHelp,
		match: func(q string) bool {
			return containsAny(q, "help", "what can you", "commands", "examples")
		},
	},
}

// Classify maps question text to an Intent. It never fails: unmatched input
// classifies as Unknown, and empty input as Empty.
func Classify(ds *models.Dataset, question string) Intent {
	q := strings.ToLower(strings.TrimSpace(question))
	if q == "" {
		return Intent{Tag: TagEmpty}
	}

	for _, r := range rules {
		if r.tag == TagHoldingsBySecurityType {
			// This rule triggers on any security type present in the loaded
			// holdings, so it cannot be a static phrase list.
			if secType, ok := matchSecurityType(ds, q); ok {
				return Intent{Tag: TagHoldingsBySecurityType, SecurityType: secType}
			}
			continue
		}
		if r.match(q) {
			in := Intent{Tag: r.tag}
			if r.extract != nil {
				r.extract(ds, q, &in)
			}
			return in
		}
	}

	return Intent{Tag: TagUnknown}
}

// matchSecurityType scans the dataset's security types for one mentioned in
// the question. Types are checked in sorted order for determinism.
func matchSecurityType(ds *models.Dataset, q string) (string, bool) {
	for _, secType := range ds.SecurityTypes() {
		if strings.Contains(q, strings.ToLower(secType)) {
			return secType, true
		}
	}
	return "", false
}
