// Package loader implements the chart load: fetch the price history,
// derive the chart series and render the chart page.
package loader

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"FinChart/internal/chart"
	"FinChart/internal/collector"
	"FinChart/internal/model"
	"FinChart/internal/series"
)

// Service runs one chart load per call.
type Service interface {
	Initialize(ctx context.Context) (*Result, error)
}

// Result is the outcome of a successful load.
type Result struct {
	LoadID    string
	Source    string
	StartedAt time.Time
	Duration  time.Duration
	Series    model.ChartSeries
	Chart     *chart.Config
	Page      []byte
}

// ChartLoader fetches, transforms and renders. It holds no per-load
// state, so concurrent Initialize calls are independent.
type ChartLoader struct {
	fetcher  collector.Fetcher
	renderer *chart.Renderer
	opts     series.Options
	style    chart.Style
	newID    func() string
	now      func() time.Time
}

// NewChartLoader wires a loader. The style's container must be the one
// the renderer's page provides.
func NewChartLoader(f collector.Fetcher, r *chart.Renderer, opts series.Options, style chart.Style) (*ChartLoader, error) {
	if style.ContainerID == "" || style.ContainerID != r.ContainerID() {
		return nil, &LoadError{
			Kind: KindRenderTargetMissing,
			Err: fmt.Errorf("%w: chart targets #%s, page provides #%s",
				chart.ErrRenderTargetMissing, style.ContainerID, r.ContainerID()),
		}
	}
	return &ChartLoader{
		fetcher:  f,
		renderer: r,
		opts:     opts,
		style:    style,
		newID:    func() string { return uuid.New().String() },
		now:      time.Now,
	}, nil
}

// Source names the configured fetcher.
func (l *ChartLoader) Source() string { return l.fetcher.Name() }

// Initialize issues one fetch and, if it succeeds, renders the chart.
func (l *ChartLoader) Initialize(ctx context.Context) (*Result, error) {
	id := l.newID()
	started := l.now()

	ps, err := l.fetcher.FetchHistory(ctx)
	if err != nil {
		kind := KindFetchFailure
		if errors.Is(err, collector.ErrMalformed) {
			kind = KindMalformedPayload
		}
		return nil, &LoadError{Kind: kind, LoadID: id, Err: err}
	}

	cs := series.Build(ps, l.opts)
	cfg := chart.NewConfig(cs, l.style)

	var page bytes.Buffer
	if err := l.renderer.Render(&page, cfg, id); err != nil {
		kind := KindRenderFailure
		if errors.Is(err, chart.ErrRenderTargetMissing) {
			kind = KindRenderTargetMissing
		}
		return nil, &LoadError{Kind: kind, LoadID: id, Err: err}
	}

	return &Result{
		LoadID:    id,
		Source:    l.fetcher.Name(),
		StartedAt: started,
		Duration:  l.now().Sub(started),
		Series:    cs,
		Chart:     cfg,
		Page:      page.Bytes(),
	}, nil
}

// RenderFailure writes the page shown in place of the chart when err
// stopped a load.
func (l *ChartLoader) RenderFailure(w io.Writer, err error) error {
	var le *LoadError
	if !errors.As(err, &le) {
		le = &LoadError{Err: err}
	}
	return l.renderer.RenderError(w, l.style.Title, le.Message(), le.LoadID)
}
