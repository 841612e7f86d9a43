package parsers

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/username/finbot/src/logger"
	"github.com/username/finbot/src/models"
)

const tradeDateFormat = "2006-01-02"

var tradesColumns = []string{
	"TradeDate", "PortfolioName", "CustodianName", "SecName",
	"TradeTypeName", "Counterparty", "Quantity", "Price",
	"Principal", "TotalCash", "RealizedPnL",
}

type CSVTradesParser struct{}

func NewTradesParser() *CSVTradesParser {
	return &CSVTradesParser{}
}

func (p *CSVTradesParser) Parse(file io.Reader) ([]models.TradeRecord, error) {
	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read CSV header: %v", ErrSourceMalformed, err)
	}

	col, err := indexColumns(header, tradesColumns)
	if err != nil {
		return nil, err
	}

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read CSV records: %v", ErrSourceMalformed, err)
	}

	trades := make([]models.TradeRecord, 0, len(records))
	for _, record := range records {
		cell := func(name string) string {
			i := col[name]
			if i >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[i])
		}

		date, err := time.Parse(tradeDateFormat, cell("TradeDate"))
		if err != nil {
			if logger.L != nil {
				logger.L.Warn("Skipping trade row with invalid date", "tradeDate", cell("TradeDate"))
			}
			continue
		}

		trades = append(trades, models.TradeRecord{
			TradeDate:     date,
			PortfolioName: cell("PortfolioName"),
			CustodianName: cell("CustodianName"),
			SecName:       cell("SecName"),
			TradeTypeName: cell("TradeTypeName"),
			Counterparty:  cell("Counterparty"),
			Quantity:      parseDecimal(cell("Quantity")),
			Price:         parseDecimal(cell("Price")),
			Principal:     parseDecimal(cell("Principal")),
			TotalCash:     parseDecimal(cell("TotalCash")),
			RealizedPnL:   parseDecimal(cell("RealizedPnL")),
		})
	}

	return trades, nil
}

// LoadTrades opens and parses the trades CSV at the given path.
func LoadTrades(path string) ([]models.TradeRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrSourceUnavailable, path, err)
	}
	defer f.Close()
	return NewTradesParser().Parse(f)
}

// LoadDataset loads both tables and assembles the immutable Dataset served
// for the lifetime of the process.
func LoadDataset(holdingsPath, tradesPath string) (*models.Dataset, error) {
	holdings, err := LoadHoldings(holdingsPath)
	if err != nil {
		return nil, fmt.Errorf("loading holdings: %w", err)
	}
	trades, err := LoadTrades(tradesPath)
	if err != nil {
		return nil, fmt.Errorf("loading trades: %w", err)
	}
	return models.NewDataset(holdings, trades), nil
}
