package collector

import (
	"context"
	"errors"

	"FinChart/internal/model"
)

// Classes of fetch failure. Fetchers wrap one of these so callers can
// tell a dead upstream from a bad payload.
var (
	ErrUnavailable = errors.New("history unavailable")
	ErrMalformed   = errors.New("malformed history payload")
)

// Fetcher defines the interface for fetching price history.
type Fetcher interface {
	FetchHistory(ctx context.Context) (*model.PriceSeries, error)
	Name() string
}
