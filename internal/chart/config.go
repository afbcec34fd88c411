// Package chart builds the area chart configuration and renders the page
// that hands it to Highcharts.
package chart

import "FinChart/internal/model"

// Legend layouts and alignments understood by Highcharts.
const (
	LayoutVertical   = "vertical"
	LayoutHorizontal = "horizontal"

	AlignRight  = "right"
	AlignCenter = "center"

	VerticalAlignMiddle = "middle"
	VerticalAlignBottom = "bottom"
)

// Defaults for the price chart.
const (
	DefaultContainerID          = "chart_container"
	DefaultTitle                = "Finance Chart"
	DefaultSeriesType           = "area"
	DefaultSeriesColor          = "#85bb65"
	DefaultSeriesName           = "Price"
	DefaultResponsiveBreakpoint = 640
)

// Style holds the configurable, data-independent parts of the chart.
type Style struct {
	ContainerID          string
	Title                string
	SeriesColor          string
	SeriesName           string
	ResponsiveBreakpoint int
}

// DefaultStyle returns the stock price chart look.
func DefaultStyle() Style {
	return Style{
		ContainerID:          DefaultContainerID,
		Title:                DefaultTitle,
		SeriesColor:          DefaultSeriesColor,
		SeriesName:           DefaultSeriesName,
		ResponsiveBreakpoint: DefaultResponsiveBreakpoint,
	}
}

// Config enumerates every option the chart recognizes.
type Config struct {
	ContainerID          string
	Title                string
	YAxisTitle           string
	XCategories          []string
	LegendLayout         string
	LegendAlign          string
	LegendVerticalAlign  string
	SeriesType           string
	SeriesColor          string
	SeriesName           string
	SeriesData           []float64
	ResponsiveBreakpoint int
}

// NewConfig builds the area chart configuration for s.
func NewConfig(s model.ChartSeries, style Style) *Config {
	dates := s.Dates
	if dates == nil {
		dates = []string{}
	}
	prices := s.Prices
	if prices == nil {
		prices = []float64{}
	}
	return &Config{
		ContainerID:          style.ContainerID,
		Title:                style.Title,
		YAxisTitle:           "",
		XCategories:          dates,
		LegendLayout:         LayoutVertical,
		LegendAlign:          AlignRight,
		LegendVerticalAlign:  VerticalAlignMiddle,
		SeriesType:           DefaultSeriesType,
		SeriesColor:          style.SeriesColor,
		SeriesName:           style.SeriesName,
		SeriesData:           prices,
		ResponsiveBreakpoint: style.ResponsiveBreakpoint,
	}
}

// ResolveLegend returns the legend placement Highcharts applies at the
// given viewport width.
func (c *Config) ResolveLegend(width int) LegendOptions {
	if width <= c.ResponsiveBreakpoint {
		return compactLegend()
	}
	return LegendOptions{
		Layout:        c.LegendLayout,
		Align:         c.LegendAlign,
		VerticalAlign: c.LegendVerticalAlign,
	}
}

func compactLegend() LegendOptions {
	return LegendOptions{
		Layout:        LayoutHorizontal,
		Align:         AlignCenter,
		VerticalAlign: VerticalAlignBottom,
	}
}
