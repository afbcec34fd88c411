package loader

import (
	"context"
	"time"

	"github.com/go-kit/kit/metrics"
)

// instrumentingMiddleware wraps Service and records load metrics.
type instrumentingMiddleware struct {
	reqCount    metrics.Counter
	reqDuration metrics.Histogram
	points      metrics.Histogram
	svc         Service
}

func (s *instrumentingMiddleware) Initialize(ctx context.Context) (res *Result, err error) {
	defer func(begin time.Time) {
		labels := []string{"method", "Initialize", "outcome", Outcome(err)}
		s.reqCount.With(labels...).Add(1)
		s.reqDuration.With(labels...).Observe(time.Since(begin).Seconds())
		if res != nil {
			s.points.Observe(float64(res.Series.Len()))
		}
	}(time.Now())
	return s.svc.Initialize(ctx)
}

// NewInstrumentingMiddleware ...
func NewInstrumentingMiddleware(reqCount metrics.Counter, reqDuration, points metrics.Histogram, svc Service) Service {
	return &instrumentingMiddleware{
		reqCount:    reqCount,
		reqDuration: reqDuration,
		points:      points,
		svc:         svc,
	}
}
