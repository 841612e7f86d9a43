package parsers

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/username/finbot/src/models"
)

// holdingsColumns are the columns a holdings CSV must carry. Column order is
// not significant; lookup is by trimmed header name.
var holdingsColumns = []string{
	"ShortName", "PortfolioName", "CustodianName", "SecName",
	"SecurityTypeName", "Qty", "Price", "MV_Base",
	"PL_YTD", "PL_MTD", "PL_QTD",
}

type CSVHoldingsParser struct{}

func NewHoldingsParser() *CSVHoldingsParser {
	return &CSVHoldingsParser{}
}

func (p *CSVHoldingsParser) Parse(file io.Reader) ([]models.HoldingRecord, error) {
	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read CSV header: %v", ErrSourceMalformed, err)
	}

	col, err := indexColumns(header, holdingsColumns)
	if err != nil {
		return nil, err
	}

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read CSV records: %v", ErrSourceMalformed, err)
	}

	holdings := make([]models.HoldingRecord, 0, len(records))
	for _, record := range records {
		cell := func(name string) string {
			i := col[name]
			if i >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[i])
		}

		holdings = append(holdings, models.HoldingRecord{
			ShortName:        cell("ShortName"),
			PortfolioName:    cell("PortfolioName"),
			CustodianName:    cell("CustodianName"),
			SecName:          cell("SecName"),
			SecurityTypeName: cell("SecurityTypeName"),
			Qty:              parseDecimal(cell("Qty")),
			Price:            parseDecimal(cell("Price")),
			MVBase:           parseDecimal(cell("MV_Base")),
			PLYTD:            parseDecimal(cell("PL_YTD")),
			PLMTD:            parseDecimal(cell("PL_MTD")),
			PLQTD:            parseDecimal(cell("PL_QTD")),
		})
	}

	return holdings, nil
}

// LoadHoldings opens and parses the holdings CSV at the given path.
func LoadHoldings(path string) ([]models.HoldingRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrSourceUnavailable, path, err)
	}
	defer f.Close()
	return NewHoldingsParser().Parse(f)
}

// indexColumns maps required column names to their positions in the header,
// failing with ErrSourceMalformed if any are missing. Header cells are
// whitespace-trimmed before comparison.
func indexColumns(header, required []string) (map[string]int, error) {
	positions := make(map[string]int, len(header))
	for i, name := range header {
		positions[strings.TrimSpace(name)] = i
	}

	col := make(map[string]int, len(required))
	var missing []string
	for _, name := range required {
		i, ok := positions[name]
		if !ok {
			missing = append(missing, name)
			continue
		}
		col[name] = i
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing required columns: %s", ErrSourceMalformed, strings.Join(missing, ", "))
	}
	return col, nil
}
