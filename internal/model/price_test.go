package model

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/mailru/easyjson"
)

func TestPriceSeries_PreservesKeyOrder(t *testing.T) {
	// Keys deliberately not in lexical order.
	data := []byte(`{"Close": {"3000": 3, "1000": 1, "2000": 2}}`)
	var ps PriceSeries
	if err := easyjson.Unmarshal(data, &ps); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	want := []string{"3000", "1000", "2000"}
	if len(ps.Close) != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), len(ps.Close))
	}
	for i, k := range want {
		if ps.Close[i].Key != k {
			t.Errorf("entry %d: expected key %s, got %s", i, k, ps.Close[i].Key)
		}
	}
}

func TestPriceSeries_NullAndInvalidValues(t *testing.T) {
	data := []byte(`{"Open": {"1": 9}, "Close": {"1000": 10.5, "2000": null, "3000": "x", "4000": 11}}`)
	var ps PriceSeries
	if err := json.Unmarshal(data, &ps); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(ps.Close) != 4 {
		t.Fatalf("expected 4 entries, got %d", len(ps.Close))
	}
	if !ps.Close[0].Value.Valid || ps.Close[0].Value.Float64 != 10.5 {
		t.Errorf("entry 0: expected 10.5, got %+v", ps.Close[0].Value)
	}
	if ps.Close[1].Value.Valid || ps.Close[1].Invalid {
		t.Errorf("entry 1: expected plain null, got %+v", ps.Close[1])
	}
	if !ps.Close[2].Invalid {
		t.Errorf("entry 2: expected invalid marker for string value")
	}
	if !ps.Close[3].Value.Valid || ps.Close[3].Value.Float64 != 11 {
		t.Errorf("entry 3: expected 11, got %+v", ps.Close[3].Value)
	}
}

func TestPriceSeries_OutOfRangeValue(t *testing.T) {
	data := []byte(`{"Close": {"1700000000123": 3e400, "1700086400123": 12.5, "1700172800123": {"v": 1}}}`)
	var ps PriceSeries
	if err := easyjson.Unmarshal(data, &ps); err != nil {
		t.Fatalf("a single bad value must not fail the payload: %v", err)
	}
	if len(ps.Close) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(ps.Close))
	}
	if !ps.Close[0].Invalid || ps.Close[0].Value.Valid {
		t.Errorf("entry 0: expected invalid marker, got %+v", ps.Close[0])
	}
	if !ps.Close[1].Value.Valid || ps.Close[1].Value.Float64 != 12.5 {
		t.Errorf("entry 1: expected 12.5, got %+v", ps.Close[1])
	}
	if !ps.Close[2].Invalid {
		t.Errorf("entry 2: expected invalid marker for object value")
	}
}

func TestPriceSeries_EmptyClose(t *testing.T) {
	var ps PriceSeries
	if err := easyjson.Unmarshal([]byte(`{"Close": {}}`), &ps); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if ps.Close == nil || len(ps.Close) != 0 {
		t.Errorf("expected empty non-nil entries, got %#v", ps.Close)
	}
}

func TestPriceSeries_MissingClose(t *testing.T) {
	for _, body := range []string{`{}`, `{"Open": {"1": 2}}`, `{"Close": null}`, `null`} {
		var ps PriceSeries
		err := easyjson.Unmarshal([]byte(body), &ps)
		if !errors.Is(err, ErrMissingClose) {
			t.Errorf("%s: expected ErrMissingClose, got %v", body, err)
		}
	}
}

func TestPriceSeries_Malformed(t *testing.T) {
	for _, body := range []string{`not json`, `{"Close": [1, 2]}`, `{"Close": {"1000": 1`} {
		var ps PriceSeries
		if err := easyjson.Unmarshal([]byte(body), &ps); err == nil {
			t.Errorf("%s: expected decode error", body)
		}
	}
}

func TestChartSeries_MarshalJSON(t *testing.T) {
	var s ChartSeries
	s.Append(time.Unix(0, 0), "01/70", 1.5)
	s.Append(time.Unix(86400*40, 0), "02/70", 2)
	s.Skipped.Null = 1

	out, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	got := string(out)
	want := `{"dates":["01/70","02/70"],"prices":[1.5,2],"skipped":{"null":1,"bad_key":0,"bad_value":0}}`
	if got != want {
		t.Errorf("unexpected json:\n got %s\nwant %s", got, want)
	}
}

func TestChartSeries_MarshalEmpty(t *testing.T) {
	out, err := easyjson.Marshal(ChartSeries{})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.HasPrefix(string(out), `{"dates":[],"prices":[]`) {
		t.Errorf("expected empty arrays, got %s", out)
	}
}
