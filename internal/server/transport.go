package server

import (
	"github.com/mailru/easyjson/jwriter"

	"FinChart/internal/chart"
	"FinChart/internal/model"
)

// seriesResponse is the /series.json body.
type seriesResponse struct {
	LoadID string
	Series model.ChartSeries
	Legend *chart.LegendOptions
}

// MarshalEasyJSON writes {"load_id":..,"series":{..},"legend":{..}}.
func (r *seriesResponse) MarshalEasyJSON(out *jwriter.Writer) {
	out.RawString(`{"load_id":`)
	out.String(r.LoadID)
	out.RawString(`,"series":`)
	r.Series.MarshalEasyJSON(out)
	if r.Legend != nil {
		out.RawString(`,"legend":{"layout":`)
		out.String(r.Legend.Layout)
		out.RawString(`,"align":`)
		out.String(r.Legend.Align)
		out.RawString(`,"verticalAlign":`)
		out.String(r.Legend.VerticalAlign)
		out.RawByte('}')
	}
	out.RawByte('}')
}

// errorResponse is the JSON body of a failed load.
type errorResponse struct {
	Error   string
	Message string
	LoadID  string
}

func (r *errorResponse) MarshalEasyJSON(out *jwriter.Writer) {
	out.RawString(`{"error":`)
	out.String(r.Error)
	out.RawString(`,"message":`)
	out.String(r.Message)
	if r.LoadID != "" {
		out.RawString(`,"load_id":`)
		out.String(r.LoadID)
	}
	out.RawByte('}')
}
