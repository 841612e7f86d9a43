// Package formatter renders computed results as the answer strings shown to
// the user. Each intent tag has one deterministic template; identical inputs
// always render byte-identical answers.
package formatter

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/username/finbot/src/calculator"
	"github.com/username/finbot/src/classifier"
)

// Fallback is the fixed answer for questions the classifier cannot route.
// The bot only answers from the loaded tables and never fabricates data.
const Fallback = "Sorry can not find the answer. I only answer from the loaded holdings and trades data and will not make anything up. Type 'help' for example questions."

// EmptyPrompt is returned for blank input.
const EmptyPrompt = "Please enter a question."

// InternalError is returned when a computation fails for a reason the user
// cannot act on.
const InternalError = "Sorry, an internal error occurred while answering. Please try again."

// NoDataForFund is the answer when a fund filter matches nothing in the
// loaded tables.
func NoDataForFund(fund string) string {
	return fmt.Sprintf("Sorry can not find the answer for fund '%s'", fund)
}

// Result carries the computed value for one answer. Which field is set
// depends on the intent tag.
type Result struct {
	Count   int
	Value   decimal.Decimal
	Ranked  []calculator.FundValue
	Items   []string
	Summary map[string]int
}

// Format renders the answer string for a classified intent and its computed
// result.
func Format(in classifier.Intent, res Result) string {
	switch in.Tag {
	case classifier.TagEmpty:
		return EmptyPrompt

	case classifier.TagListFunds:
		if len(res.Items) == 0 {
			return Fallback
		}
		return bulletList("Available funds/portfolios:", res.Items)

	case classifier.TagCountHoldings:
		if in.Fund != "" {
			return fmt.Sprintf("Total number of holdings for %s: %d", in.Fund, res.Count)
		}
		return fmt.Sprintf("Total number of holdings across all funds: %d", res.Count)

	case classifier.TagCountTrades:
		if in.Fund != "" {
			return fmt.Sprintf("Total number of trades for %s: %d", in.Fund, res.Count)
		}
		return fmt.Sprintf("Total number of trades across all funds: %d", res.Count)

	case classifier.TagTopPerformingFunds:
		return rankedList("Best performing funds by YTD P&L:", res.Ranked)

	case classifier.TagWorstPerformingFunds:
		return rankedList("Worst performing funds by YTD P&L:", res.Ranked)

	case classifier.TagPerformanceRanking:
		return rankedList("Fund Performance Ranking by YTD P&L:", res.Ranked)

	case classifier.TagPnLForWindow:
		if in.Fund != "" {
			return fmt.Sprintf("%s P&L for %s: %s", in.Window, in.Fund, Money(res.Value))
		}
		if len(res.Ranked) == 0 {
			return Fallback
		}
		var b strings.Builder
		fmt.Fprintf(&b, "%s P&L for all funds:\n", in.Window)
		for _, fv := range res.Ranked {
			fmt.Fprintf(&b, "  - %s: %s\n", fv.Fund, Money(fv.Value))
		}
		return b.String()

	case classifier.TagSecuritiesForFund:
		if in.Fund == "" {
			return "Please specify a fund name."
		}
		if len(res.Items) == 0 {
			return NoDataForFund(in.Fund)
		}
		return bulletList(fmt.Sprintf("Securities held by %s:", in.Fund), res.Items)

	case classifier.TagSecurityTypes:
		if len(res.Items) == 0 {
			return Fallback
		}
		if in.Fund != "" {
			return fmt.Sprintf("Security types for %s: %s", in.Fund, strings.Join(res.Items, ", "))
		}
		return fmt.Sprintf("Available security types: %s", strings.Join(res.Items, ", "))

	case classifier.TagTradeTypeSummary:
		if len(res.Summary) == 0 {
			return Fallback
		}
		var b strings.Builder
		b.WriteString("Trade Types Summary:\n")
		for _, tt := range sortedSummaryKeys(res.Summary) {
			fmt.Fprintf(&b, "  - %s: %d\n", tt, res.Summary[tt])
		}
		return b.String()

	case classifier.TagCountTradesByType:
		if res.Count == 0 {
			return Fallback
		}
		return fmt.Sprintf("Total number of %s trades: %d", in.TradeType, res.Count)

	case classifier.TagTotalMarketValue:
		if in.Fund != "" {
			return fmt.Sprintf("Total market value for %s: %s", in.Fund, Money(res.Value))
		}
		return fmt.Sprintf("Total market value across all funds: %s", Money(res.Value))

	case classifier.TagListCustodians:
		if len(res.Items) == 0 {
			return Fallback
		}
		return bulletList("Custodians:", res.Items)

	case classifier.TagListCounterparties:
		if len(res.Items) == 0 {
			return Fallback
		}
		return bulletList("Counterparties:", res.Items)

	case classifier.TagHoldingsBySecurityType:
		if res.Count == 0 {
			return Fallback
		}
		return fmt.Sprintf("Number of %s holdings: %d", in.SecurityType, res.Count)

	case classifier.TagQuantityForFund:
		if in.Fund == "" {
			return "Please specify a fund name for quantity information."
		}
		return fmt.Sprintf("Total quantity for %s: %s", in.Fund, groupDigits(res.Value.StringFixed(0)))

	case classifier.TagHelp:
		return HelpText

	default:
		return Fallback
	}
}

// Money renders a monetary value as $ with two decimals and thousands
// separators, e.g. $1,234.50 and $-30.00.
func Money(v decimal.Decimal) string {
	return "$" + groupDigits(v.StringFixed(2))
}

// groupDigits inserts comma separators into the integer part of a plain
// decimal string. The sign and fractional part pass through untouched.
func groupDigits(s string) string {
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign = "-"
		s = s[1:]
	}
	intPart := s
	fracPart := ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, fracPart = s[:i], s[i:]
	}
	if len(intPart) > 3 {
		var parts []string
		for len(intPart) > 3 {
			parts = append([]string{intPart[len(intPart)-3:]}, parts...)
			intPart = intPart[:len(intPart)-3]
		}
		parts = append([]string{intPart}, parts...)
		intPart = strings.Join(parts, ",")
	}
	return sign + intPart + fracPart
}

// rankedList renders a ranked fund list with 1-based positions.
func rankedList(title string, ranked []calculator.FundValue) string {
	if len(ranked) == 0 {
		return Fallback
	}
	var b strings.Builder
	b.WriteString(title)
	b.WriteByte('\n')
	for i, fv := range ranked {
		fmt.Fprintf(&b, "  %d. %s: %s\n", i+1, fv.Fund, Money(fv.Value))
	}
	return b.String()
}

func bulletList(title string, items []string) string {
	var b strings.Builder
	b.WriteString(title)
	for _, item := range items {
		b.WriteString("\n  - ")
		b.WriteString(item)
	}
	return b.String()
}

// sortedSummaryKeys orders trade types by count descending, name ascending,
// so the summary renders identically on every run.
func sortedSummaryKeys(summary map[string]int) []string {
	keys := make([]string, 0, len(summary))
	for k := range summary {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if summary[keys[i]] != summary[keys[j]] {
			return summary[keys[i]] > summary[keys[j]]
		}
		return keys[i] < keys[j]
	})
	return keys
}

// HelpText catalogs example questions per topic.
const HelpText = `I can help you with questions about holdings and trades data. Here are some examples:

Holdings Questions:
  - "Total number of holdings for Garfield"
  - "How many holdings are there?"
  - "What securities does Heather hold?"
  - "What are the security types for MNC Inv?"
  - "Number of equity holdings"

Trades Questions:
  - "Total number of trades for HoldCo 1"
  - "How many trades are there?"
  - "Trade types summary"
  - "How many buys?"
  - "How many sells?"

Performance Questions:
  - "Which funds performed better?"
  - "Best performing funds"
  - "Worst performing funds"
  - "YTD P&L for Ytum"
  - "MTD P&L for all funds"
  - "Fund performance ranking"

Value Questions:
  - "Market value for Garfield"
  - "Total market value"

Other Questions:
  - "List all funds"
  - "What are the custodians?"
  - "What are the counterparties?"`
