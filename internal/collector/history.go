package collector

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/mailru/easyjson"

	"FinChart/internal/model"
)

// HistoryFetcher reads the Close series from a history endpoint. Every
// request bypasses caches.
type HistoryFetcher struct {
	URL    string
	APIKey string
	Client *resty.Client
	now    func() time.Time
}

// NewHistoryFetcher creates a fetcher with optional proxy support.
func NewHistoryFetcher(url, apiKey, proxyURL string, timeout time.Duration) *HistoryFetcher {
	client := resty.New().SetTimeout(timeout)
	if proxyURL != "" {
		client.SetProxy(proxyURL)
	}
	return &HistoryFetcher{
		URL:    url,
		APIKey: apiKey,
		Client: client,
		now:    time.Now,
	}
}

func (f *HistoryFetcher) Name() string { return "history" }

// FetchHistory issues one GET and decodes the body in key order.
func (f *HistoryFetcher) FetchHistory(ctx context.Context) (*model.PriceSeries, error) {
	req := f.Client.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		SetHeader("Cache-Control", "no-cache").
		SetHeader("Pragma", "no-cache").
		SetQueryParam("_", strconv.FormatInt(f.now().UnixMilli(), 10))
	if f.APIKey != "" {
		req.SetHeader("Authorization", "Bearer "+f.APIKey)
	}

	resp, err := req.Get(f.URL)
	if err != nil {
		return nil, fmt.Errorf("%w: get %s: %v", ErrUnavailable, f.URL, err)
	}
	if resp.StatusCode() < http.StatusOK || resp.StatusCode() >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("%w: get %s: status %d, body: %s",
			ErrUnavailable, f.URL, resp.StatusCode(), truncate(resp.String(), 256))
	}

	var ps model.PriceSeries
	if err := easyjson.Unmarshal(resp.Body(), &ps); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", ErrMalformed, f.URL, err)
	}
	return &ps, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
