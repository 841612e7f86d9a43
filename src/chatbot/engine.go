// Package chatbot wires the classify -> compute -> format pipeline into the
// engine shared by the web and terminal interfaces.
package chatbot

import (
	"errors"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/username/finbot/src/calculator"
	"github.com/username/finbot/src/classifier"
	"github.com/username/finbot/src/formatter"
	"github.com/username/finbot/src/logger"
	"github.com/username/finbot/src/models"
)

// rankingSize caps the best/worst performing fund lists.
const rankingSize = 10

// Engine answers free-text questions over an immutable Dataset. It is safe
// for concurrent use: the dataset is read-only and the answer cache is
// internally synchronized.
type Engine struct {
	ds          *models.Dataset
	answerCache *cache.Cache
	now         func() time.Time
}

// NewEngine creates an Engine. answerCache may be nil to disable caching
// (the CLI does this; a terminal session has no reuse to speak of).
func NewEngine(ds *models.Dataset, answerCache *cache.Cache) *Engine {
	return &Engine{
		ds:          ds,
		answerCache: answerCache,
		now:         time.Now,
	}
}

// Answer classifies the question, computes the requested aggregate and
// renders the reply. It never returns an error: every failure mode maps to a
// user-facing answer string.
func (e *Engine) Answer(question string) string {
	key := strings.ToLower(strings.TrimSpace(question))

	if e.answerCache != nil {
		if cached, found := e.answerCache.Get(key); found {
			if logger.L != nil {
				logger.L.Debug("Answer cache hit", "question", key)
			}
			return cached.(string)
		}
	}

	in := classifier.Classify(e.ds, question)
	answer := e.compute(in)

	if e.answerCache != nil && in.Tag != classifier.TagEmpty {
		e.answerCache.Set(key, answer, cache.DefaultExpiration)
	}

	if logger.L != nil {
		logger.L.Info("Question answered", "intent", string(in.Tag), "fund", in.Fund)
	}
	return answer
}

// compute runs the calculator call selected by the intent tag and formats
// the result. A fund filter matching nothing renders the no-data answer;
// any other computation error renders the internal-error answer.
func (e *Engine) compute(in classifier.Intent) string {
	res, err := e.evaluate(in)
	if err != nil {
		if errors.Is(err, calculator.ErrNoDataForFund) {
			return formatter.NoDataForFund(in.Fund)
		}
		if logger.L != nil {
			logger.L.Error("Failed to compute answer", "intent", string(in.Tag), "error", err)
		}
		return formatter.InternalError
	}
	return formatter.Format(in, res)
}

func (e *Engine) evaluate(in classifier.Intent) (formatter.Result, error) {
	var res formatter.Result
	var err error

	switch in.Tag {
	case classifier.TagListFunds:
		res.Items = calculator.ListFunds(e.ds)

	case classifier.TagCountHoldings:
		res.Count, err = calculator.CountHoldings(e.ds, in.Fund)

	case classifier.TagCountTrades:
		res.Count, err = calculator.CountTrades(e.ds, in.Fund)

	case classifier.TagTopPerformingFunds:
		res.Ranked = calculator.TopPerformingFunds(e.ds, calculator.MetricPLYTD, rankingSize)

	case classifier.TagWorstPerformingFunds:
		res.Ranked = calculator.WorstPerformingFunds(e.ds, rankingSize)

	case classifier.TagPerformanceRanking:
		res.Ranked = calculator.PerformanceRanking(e.ds)

	case classifier.TagPnLForWindow:
		if in.Fund != "" {
			res.Value, err = calculator.PnLForWindow(e.ds, in.Window, e.now(), in.Fund)
		} else {
			res.Ranked = calculator.PnLByFund(e.ds, in.Window)
		}

	case classifier.TagSecuritiesForFund:
		if in.Fund != "" {
			res.Items, err = calculator.SecuritiesForFund(e.ds, in.Fund)
		}

	case classifier.TagSecurityTypes:
		if in.Fund != "" {
			res.Items, err = calculator.SecurityTypesForFund(e.ds, in.Fund)
		} else {
			res.Items = calculator.SecurityTypes(e.ds)
		}

	case classifier.TagTradeTypeSummary:
		res.Summary = calculator.TradeTypeSummary(e.ds)

	case classifier.TagCountTradesByType:
		res.Count = calculator.CountTradesByType(e.ds, in.TradeType)

	case classifier.TagTotalMarketValue:
		res.Value, err = calculator.TotalMarketValue(e.ds, in.Fund)

	case classifier.TagListCustodians:
		res.Items = calculator.ListCustodians(e.ds)

	case classifier.TagListCounterparties:
		res.Items = calculator.ListCounterparties(e.ds)

	case classifier.TagHoldingsBySecurityType:
		res.Count = calculator.CountHoldingsBySecurityType(e.ds, in.SecurityType)

	case classifier.TagQuantityForFund:
		if in.Fund != "" {
			res.Value, err = calculator.TotalQuantityForFund(e.ds, in.Fund)
		}
	}

	return res, err
}
