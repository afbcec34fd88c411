package collector

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/guregu/null/v6"

	"FinChart/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Price  float64
	Days   int
	Series *model.PriceSeries
	Err    error
	Calls  int

	mu sync.Mutex
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchHistory(_ context.Context) (*model.PriceSeries, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls++
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Series != nil {
		return m.Series, nil
	}
	return generateMockSeries(m.Price, m.Days), nil
}

// generateMockSeries builds daily closes ending today, with every
// seventh day null like a market holiday.
func generateMockSeries(basePrice float64, count int) *model.PriceSeries {
	ps := &model.PriceSeries{Close: make([]model.PriceEntry, count)}
	now := time.Now()
	for i := 0; i < count; i++ {
		ts := now.AddDate(0, 0, -(count - i)).Unix()
		e := model.PriceEntry{Key: strconv.FormatInt(ts*1000, 10)}
		if i%7 != 6 {
			e.Value = null.FloatFrom(basePrice * (1 + float64(i-count/2)*0.001))
		}
		ps.Close[i] = e
	}
	return ps
}
