package model

import (
	"time"

	"github.com/mailru/easyjson/jwriter"
)

// SkipCounts tallies Close entries that produced no chart point.
type SkipCounts struct {
	Null     int
	BadKey   int
	BadValue int
}

// Total returns the number of skipped entries.
func (c SkipCounts) Total() int { return c.Null + c.BadKey + c.BadValue }

// ChartSeries is the chart-ready form of a PriceSeries. Dates, Prices and
// Times are parallel: index i of each refers to the same source entry.
type ChartSeries struct {
	Dates   []string
	Prices  []float64
	Times   []time.Time
	Skipped SkipCounts
}

// Len returns the number of chart points.
func (s *ChartSeries) Len() int { return len(s.Prices) }

// Append adds one point to all parallel sequences.
func (s *ChartSeries) Append(t time.Time, date string, price float64) {
	s.Times = append(s.Times, t)
	s.Dates = append(s.Dates, date)
	s.Prices = append(s.Prices, price)
}

// MarshalJSON encodes the series for the /series.json endpoint.
func (s ChartSeries) MarshalJSON() ([]byte, error) {
	w := jwriter.Writer{}
	s.MarshalEasyJSON(&w)
	return w.Buffer.BuildBytes(), w.Error
}

// MarshalEasyJSON writes {"dates":[...],"prices":[...],"skipped":{...}}.
// Times are not serialized.
func (s ChartSeries) MarshalEasyJSON(out *jwriter.Writer) {
	out.RawString(`{"dates":[`)
	for i, d := range s.Dates {
		if i > 0 {
			out.RawByte(',')
		}
		out.String(d)
	}
	out.RawString(`],"prices":[`)
	for i, p := range s.Prices {
		if i > 0 {
			out.RawByte(',')
		}
		out.Float64(p)
	}
	out.RawString(`],"skipped":{"null":`)
	out.Int(s.Skipped.Null)
	out.RawString(`,"bad_key":`)
	out.Int(s.Skipped.BadKey)
	out.RawString(`,"bad_value":`)
	out.Int(s.Skipped.BadValue)
	out.RawString(`}}`)
}
