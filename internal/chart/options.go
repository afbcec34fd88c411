package chart

// Options is the Highcharts option tree. Field names follow the
// Highcharts API so the struct marshals straight into Highcharts.chart().
type Options struct {
	Title       TextOptions       `json:"title"`
	YAxis       AxisOptions       `json:"yAxis"`
	XAxis       AxisOptions       `json:"xAxis"`
	Legend      LegendOptions     `json:"legend"`
	PlotOptions PlotOptions       `json:"plotOptions"`
	Series      []SeriesOptions   `json:"series"`
	Responsive  ResponsiveOptions `json:"responsive"`
}

type TextOptions struct {
	Text string `json:"text"`
}

type AxisOptions struct {
	Title      *TextOptions `json:"title,omitempty"`
	Categories []string     `json:"categories,omitempty"`
}

type LegendOptions struct {
	Layout        string `json:"layout"`
	Align         string `json:"align"`
	VerticalAlign string `json:"verticalAlign"`
}

type PlotOptions struct {
	Series SeriesPlotOptions `json:"series"`
	Area   struct{}          `json:"area"`
}

type SeriesPlotOptions struct {
	Label SeriesLabelOptions `json:"label"`
}

type SeriesLabelOptions struct {
	ConnectorAllowed bool `json:"connectorAllowed"`
}

type SeriesOptions struct {
	Type  string    `json:"type"`
	Color string    `json:"color"`
	Name  string    `json:"name"`
	Data  []float64 `json:"data"`
}

type ResponsiveOptions struct {
	Rules []ResponsiveRule `json:"rules"`
}

type ResponsiveRule struct {
	Condition    ResponsiveCondition `json:"condition"`
	ChartOptions ResponsiveOverride  `json:"chartOptions"`
}

type ResponsiveCondition struct {
	MaxWidth int `json:"maxWidth"`
}

type ResponsiveOverride struct {
	Legend LegendOptions `json:"legend"`
}

// Options converts the configuration into the Highcharts option tree.
func (c *Config) Options() *Options {
	data := c.SeriesData
	if data == nil {
		data = []float64{}
	}
	return &Options{
		Title: TextOptions{Text: c.Title},
		YAxis: AxisOptions{Title: &TextOptions{Text: c.YAxisTitle}},
		XAxis: AxisOptions{Categories: c.XCategories},
		Legend: LegendOptions{
			Layout:        c.LegendLayout,
			Align:         c.LegendAlign,
			VerticalAlign: c.LegendVerticalAlign,
		},
		PlotOptions: PlotOptions{
			Series: SeriesPlotOptions{Label: SeriesLabelOptions{ConnectorAllowed: false}},
		},
		Series: []SeriesOptions{{
			Type:  c.SeriesType,
			Color: c.SeriesColor,
			Name:  c.SeriesName,
			Data:  data,
		}},
		Responsive: ResponsiveOptions{Rules: []ResponsiveRule{{
			Condition:    ResponsiveCondition{MaxWidth: c.ResponsiveBreakpoint},
			ChartOptions: ResponsiveOverride{Legend: compactLegend()},
		}}},
	}
}
