package collector

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/guregu/null/v6"
	finance "github.com/piquette/finance-go"
	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"

	"FinChart/internal/model"
)

// YahooFetcher implements Fetcher using Yahoo Finance chart data.
type YahooFetcher struct {
	Symbol    string
	Interval  datetime.Interval
	Lookback  time.Duration
	SymbolMap map[string]string // maps internal symbol to Yahoo ticker
	now       func() time.Time
}

// NewYahooFetcher creates a new Yahoo Finance fetcher. An empty interval
// means daily bars.
func NewYahooFetcher(symbol, interval string, lookbackDays int) *YahooFetcher {
	iv := datetime.OneDay
	if interval != "" {
		iv = datetime.Interval(interval)
	}
	return &YahooFetcher{
		Symbol:   symbol,
		Interval: iv,
		Lookback: time.Duration(lookbackDays) * 24 * time.Hour,
		SymbolMap: map[string]string{
			"SPX500": "^GSPC",
			"SPX":    "^GSPC",
			"SP500":  "^GSPC",
			"IBOV":   "^BVSP",
		},
		now: time.Now,
	}
}

func (f *YahooFetcher) Name() string { return "yahoo" }

func (f *YahooFetcher) yahooSymbol() string {
	if mapped, ok := f.SymbolMap[f.Symbol]; ok {
		return mapped
	}
	return f.Symbol
}

// FetchHistory returns the closing prices in the same shape the history
// endpoint serves: keys are epoch milliseconds, zero closes are null.
func (f *YahooFetcher) FetchHistory(ctx context.Context) (*model.PriceSeries, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	end := f.now()
	start := end.Add(-f.Lookback)
	iter := chart.Get(&chart.Params{
		Symbol:   f.yahooSymbol(),
		Start:    datetime.New(&start),
		End:      datetime.New(&end),
		Interval: f.Interval,
	})

	ps := &model.PriceSeries{Close: make([]model.PriceEntry, 0)}
	for iter.Next() {
		ps.Close = append(ps.Close, closeEntry(iter.Bar()))
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("%w: yahoo %s: %v", ErrUnavailable, f.Symbol, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return ps, nil
}

// closeEntry converts a bar into the endpoint's key shape: epoch
// milliseconds, with a zero close reported as null.
func closeEntry(bar *finance.ChartBar) model.PriceEntry {
	e := model.PriceEntry{Key: strconv.FormatInt(int64(bar.Timestamp)*1000, 10)}
	if !bar.Close.IsZero() {
		c, _ := bar.Close.Float64()
		e.Value = null.FloatFrom(c)
	}
	return e
}
