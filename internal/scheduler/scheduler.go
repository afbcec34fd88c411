package scheduler

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"

	"FinChart/internal/loader"
	"FinChart/internal/notifier"
	"FinChart/internal/recorder"
)

// Alerter delivers alert messages. *notifier.TelegramNotifier satisfies it.
type Alerter interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// Scheduler renders the chart page to a static file on a cron schedule.
type Scheduler struct {
	Cron     *cron.Cron
	Loader   loader.Service
	Source   string
	Path     string
	Timeout  time.Duration
	Alerter  Alerter
	Recorder recorder.Recorder
	Ctx      context.Context
}

// NewScheduler creates a Scheduler that writes exports to path. alerter
// may be nil.
func NewScheduler(ctx context.Context, svc loader.Service, source, path string, alerter Alerter, rec recorder.Recorder) *Scheduler {
	logger := cron.PrintfLogger(log.StandardLogger())
	return &Scheduler{
		Cron: cron.New(
			cron.WithSeconds(),
			cron.WithLogger(logger),
			cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
		),
		Loader:   svc,
		Source:   source,
		Path:     path,
		Timeout:  time.Minute,
		Alerter:  alerter,
		Recorder: rec,
		Ctx:      ctx,
	}
}

// Register schedules the export job.
func (s *Scheduler) Register(schedule string) error {
	if _, err := s.Cron.AddFunc(schedule, func() { _ = s.RunNow() }); err != nil {
		return fmt.Errorf("register export task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Info("scheduler started")
}

// Stop stops the cron scheduler and waits for a running export.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Info("scheduler stopped")
}

// RunNow performs one export. On failure the previous file is left in
// place and an alert is sent.
func (s *Scheduler) RunNow() error {
	_, err := s.export()
	return err
}

func (s *Scheduler) export() (*loader.Result, error) {
	ctx, cancel := context.WithTimeout(s.Ctx, s.Timeout)
	defer cancel()

	res, err := s.Loader.Initialize(ctx)
	if err != nil {
		s.alertFailure(err)
		return nil, err
	}
	if err := writeFileAtomic(s.Path, res.Page); err != nil {
		log.WithField("load_id", res.LoadID).Errorf("write export: %v", err)
		s.alertFailure(&loader.LoadError{Kind: loader.KindRenderFailure, LoadID: res.LoadID, Err: err})
		return nil, err
	}
	log.WithFields(log.Fields{
		"load_id": res.LoadID,
		"path":    s.Path,
		"points":  res.Series.Len(),
	}).Info("chart exported")
	return res, nil
}

// HandleCommand processes a bot command and returns a reply.
func (s *Scheduler) HandleCommand(command string) string {
	switch command {
	case "/export":
		res, err := s.export()
		if err != nil {
			return "Export failed: " + err.Error()
		}
		return notifier.FormatExportDone(s.Path, res.Series.Len(), res.Series.Skipped.Total())
	case "/status":
		events, err := s.Recorder.RecentLoads(10)
		if err != nil {
			return "Could not read load history: " + err.Error()
		}
		return notifier.FormatRecentLoads(events)
	default:
		return "Available commands:\n• /export\n• /status"
	}
}

func (s *Scheduler) alertFailure(err error) {
	if s.Alerter == nil {
		return
	}
	var loadID string
	var le *loader.LoadError
	if errors.As(err, &le) {
		loadID = le.LoadID
	}
	msg := notifier.FormatLoadFailure(s.Source, loader.Outcome(err), loadID, err)
	if err := s.Alerter.SendWithRetry(s.Ctx, msg, 3); err != nil {
		log.Errorf("send alert: %v", err)
	}
}

// writeFileAtomic replaces path with data so readers never see a partial page.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create export dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".finchart-*.html")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return fmt.Errorf("chmod export: %w", err)
	}
	return os.Rename(tmp.Name(), path)
}
