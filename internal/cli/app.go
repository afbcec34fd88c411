package cli

import (
	"fmt"

	"github.com/go-kit/kit/metrics"
	"github.com/go-kit/kit/metrics/discard"
	kitprometheus "github.com/go-kit/kit/metrics/prometheus"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"

	"FinChart/internal/chart"
	"FinChart/internal/collector"
	"FinChart/internal/config"
	"FinChart/internal/loader"
	"FinChart/internal/recorder"
	"FinChart/internal/series"
)

var methodOutcome = []string{"method", "outcome"}

// loadMetrics are the instruments wrapped around the loader.
type loadMetrics struct {
	count    metrics.Counter
	duration metrics.Histogram
	points   metrics.Histogram
}

func discardMetrics() loadMetrics {
	return loadMetrics{
		count:    discard.NewCounter(),
		duration: discard.NewHistogram(),
		points:   discard.NewHistogram(),
	}
}

// prometheusMetrics registers the load instruments with the default
// registry. Call it once per process.
func prometheusMetrics() loadMetrics {
	return loadMetrics{
		count: kitprometheus.NewCounterFrom(prometheus.CounterOpts{
			Namespace: "finchart",
			Subsystem: "loader",
			Name:      "load_count",
			Help:      "Chart loads by outcome.",
		}, methodOutcome),
		duration: kitprometheus.NewSummaryFrom(prometheus.SummaryOpts{
			Namespace: "finchart",
			Subsystem: "loader",
			Name:      "load_duration_seconds",
			Help:      "Chart load duration in seconds.",
		}, methodOutcome),
		points: kitprometheus.NewHistogramFrom(prometheus.HistogramOpts{
			Namespace: "finchart",
			Subsystem: "loader",
			Name:      "load_points",
			Help:      "Chart points per successful load.",
			Buckets:   prometheus.ExponentialBuckets(10, 4, 6),
		}, nil),
	}
}

// app holds the wired components shared by the commands.
type app struct {
	cfg      *config.Config
	loader   *loader.ChartLoader
	svc      loader.Service
	recorder recorder.Recorder
}

func newApp(cfg *config.Config, m loadMetrics) (*app, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	renderer, err := chart.NewRenderer(cfg.Chart.ContainerID, cfg.Chart.LibraryURL, cfg.Chart.TemplatePath)
	if err != nil {
		return nil, fmt.Errorf("init renderer: %w", err)
	}

	fetcher := newFetcher(cfg)
	log.Infof("data source: %s", fetcher.Name())

	l, err := loader.NewChartLoader(fetcher, renderer,
		series.Options{KeySuffixLen: cfg.KeySuffixLen(), Location: loc},
		styleFrom(cfg))
	if err != nil {
		return nil, err
	}

	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Warnf("init sqlite recorder failed, using noop: %v", err)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	var svc loader.Service = l
	svc = loader.NewRecordingMiddleware(rec, fetcher.Name(), svc)
	svc = loader.NewLoggingMiddleware(log.WithField("source", fetcher.Name()), svc)
	svc = loader.NewInstrumentingMiddleware(m.count, m.duration, m.points, svc)

	return &app{cfg: cfg, loader: l, svc: svc, recorder: rec}, nil
}

func (a *app) Close() error {
	return a.recorder.Close()
}

func newFetcher(cfg *config.Config) collector.Fetcher {
	switch cfg.Source.Kind {
	case config.SourceYahoo:
		return collector.NewYahooFetcher(cfg.Source.Symbol, cfg.Source.Interval, cfg.Source.LookbackDays)
	case config.SourceMock:
		return &collector.MockFetcher{Price: 100, Days: cfg.Source.LookbackDays}
	default:
		return collector.NewHistoryFetcher(cfg.History.URL, cfg.History.APIKey, cfg.Proxy, cfg.History.Timeout)
	}
}

func styleFrom(cfg *config.Config) chart.Style {
	style := chart.DefaultStyle()
	style.ContainerID = cfg.Chart.ContainerID
	if cfg.Chart.Title != "" {
		style.Title = cfg.Chart.Title
	}
	if cfg.Chart.SeriesName != "" {
		style.SeriesName = cfg.Chart.SeriesName
	}
	if cfg.Chart.SeriesColor != "" {
		style.SeriesColor = cfg.Chart.SeriesColor
	}
	if cfg.Chart.ResponsiveBreakpoint > 0 {
		style.ResponsiveBreakpoint = cfg.Chart.ResponsiveBreakpoint
	}
	return style
}
