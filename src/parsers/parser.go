package parsers

import (
	"errors"
	"io"

	"github.com/shopspring/decimal"
	"github.com/username/finbot/src/models"
)

var (
	// ErrSourceUnavailable indicates the CSV source file could not be opened.
	ErrSourceUnavailable = errors.New("data source unavailable")
	// ErrSourceMalformed indicates the CSV is missing required columns or has
	// an unreadable structure.
	ErrSourceMalformed = errors.New("data source malformed")
)

// HoldingsParser parses a holdings table from CSV.
type HoldingsParser interface {
	Parse(file io.Reader) ([]models.HoldingRecord, error)
}

// TradesParser parses a trades table from CSV.
type TradesParser interface {
	Parse(file io.Reader) ([]models.TradeRecord, error)
}

// parseDecimal converts a CSV cell to a decimal. Unparsable or empty cells
// load as zero, matching the coerce-to-NaN-then-drop behavior of the
// upstream data feed.
func parseDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(trimCell(s))
	if err != nil {
		return decimal.Zero
	}
	return d
}

func trimCell(s string) string {
	// Cells in the feed occasionally carry stray whitespace and thousands
	// separators.
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == ' ' || c == '\t' || c == ',' {
			continue
		}
		out = append(out, c)
	}
	return string(out)
}
