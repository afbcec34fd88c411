package loader

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"FinChart/internal/recorder"
)

// recordingMiddleware wraps Service and persists every load attempt.
type recordingMiddleware struct {
	rec    recorder.Recorder
	source string
	svc    Service
}

func (s *recordingMiddleware) Initialize(ctx context.Context) (*Result, error) {
	begin := time.Now()
	res, err := s.svc.Initialize(ctx)

	evt := &recorder.LoadEvent{
		Source:    s.source,
		StartedAt: begin,
		Duration:  time.Since(begin),
		Outcome:   Outcome(err),
	}
	if res != nil {
		evt.ID = res.LoadID
		evt.Points = res.Series.Len()
		evt.Null = res.Series.Skipped.Null
		evt.BadKey = res.Series.Skipped.BadKey
		evt.BadValue = res.Series.Skipped.BadValue
	}
	if err != nil {
		evt.Error = err.Error()
		var le *LoadError
		if errors.As(err, &le) {
			evt.ID = le.LoadID
		}
	}
	if evt.ID != "" {
		if rerr := s.rec.RecordLoad(evt); rerr != nil {
			logrus.WithError(rerr).WithField("load_id", evt.ID).Error("record chart load")
		}
	}
	return res, err
}

// NewRecordingMiddleware ...
func NewRecordingMiddleware(rec recorder.Recorder, source string, svc Service) Service {
	return &recordingMiddleware{
		rec:    rec,
		source: source,
		svc:    svc,
	}
}
