// Package series turns a decoded history payload into chart-ready
// parallel sequences.
package series

import (
	"fmt"
	"strconv"
	"time"

	"FinChart/internal/model"
)

// DefaultKeySuffixLen is the number of trailing characters the history
// endpoint appends to every epoch-seconds key.
const DefaultKeySuffixLen = 3

// DateLayout renders a timestamp as two-digit month and two-digit year.
const DateLayout = "01/06"

// Options controls how keys are parsed and dates are formatted.
type Options struct {
	KeySuffixLen int
	Location     *time.Location
}

// DefaultOptions strips the standard suffix and formats in UTC.
func DefaultOptions() Options {
	return Options{KeySuffixLen: DefaultKeySuffixLen, Location: time.UTC}
}

// ParseKey removes the trailing suffix from key and parses the rest as
// Unix seconds.
func ParseKey(key string, suffixLen int) (int64, error) {
	if suffixLen < 0 {
		return 0, fmt.Errorf("negative suffix length %d", suffixLen)
	}
	if len(key) <= suffixLen {
		return 0, fmt.Errorf("key %q shorter than suffix length %d", key, suffixLen)
	}
	ts, err := strconv.ParseInt(key[:len(key)-suffixLen], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse key %q: %w", key, err)
	}
	return ts, nil
}

// FormatDate formats Unix seconds as MM/YY in loc. A nil loc means UTC.
func FormatDate(ts int64, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return time.Unix(ts, 0).In(loc).Format(DateLayout)
}

// Build walks ps in payload order and emits one chart point per entry
// with a numeric value and a parseable key. Everything else is counted in
// Skipped and contributes neither a date nor a price.
func Build(ps *model.PriceSeries, opts Options) model.ChartSeries {
	out := model.ChartSeries{
		Dates:  make([]string, 0, len(ps.Close)),
		Prices: make([]float64, 0, len(ps.Close)),
		Times:  make([]time.Time, 0, len(ps.Close)),
	}
	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}

	for _, e := range ps.Close {
		if e.Invalid {
			out.Skipped.BadValue++
			continue
		}
		if !e.Value.Valid {
			out.Skipped.Null++
			continue
		}
		ts, err := ParseKey(e.Key, opts.KeySuffixLen)
		if err != nil {
			out.Skipped.BadKey++
			continue
		}
		t := time.Unix(ts, 0).In(loc)
		out.Append(t, t.Format(DateLayout), e.Value.Float64)
	}
	return out
}
