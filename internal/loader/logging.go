package loader

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
)

// loggingMiddleware wraps Service and logs every load.
type loggingMiddleware struct {
	logger logrus.FieldLogger
	svc    Service
}

func (s *loggingMiddleware) Initialize(ctx context.Context) (res *Result, err error) {
	defer func(begin time.Time) {
		entry := s.logger.WithFields(logrus.Fields{
			"method":  "Initialize",
			"outcome": Outcome(err),
			"elapsed": time.Since(begin),
		})
		if err != nil {
			var le *LoadError
			if errors.As(err, &le) {
				entry = entry.WithField("load_id", le.LoadID)
			}
			entry.WithError(err).Error("chart load failed")
			return
		}
		entry.WithFields(logrus.Fields{
			"load_id": res.LoadID,
			"points":  res.Series.Len(),
			"skipped": res.Series.Skipped.Total(),
		}).Info("chart loaded")
	}(time.Now())
	return s.svc.Initialize(ctx)
}

// NewLoggingMiddleware ...
func NewLoggingMiddleware(logger logrus.FieldLogger, svc Service) Service {
	return &loggingMiddleware{
		logger: logger,
		svc:    svc,
	}
}
