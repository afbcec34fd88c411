package model

import (
	"errors"
	"strconv"

	"github.com/guregu/null/v6"
	"github.com/mailru/easyjson/jlexer"
)

// ErrMissingClose is reported when a history payload has no Close mapping.
var ErrMissingClose = errors.New("payload has no Close mapping")

// PriceEntry is one key/value pair of the Close mapping, in payload order.
type PriceEntry struct {
	Key   string
	Value null.Float
	// Invalid is set when the value was neither a number nor null.
	Invalid bool
}

// PriceSeries is the decoded history payload. Entries keep the order in
// which the keys appeared in the JSON object.
type PriceSeries struct {
	Close []PriceEntry
}

// UnmarshalJSON decodes a history payload, preserving key order.
func (s *PriceSeries) UnmarshalJSON(data []byte) error {
	r := jlexer.Lexer{Data: data}
	s.UnmarshalEasyJSON(&r)
	return r.Error()
}

// UnmarshalEasyJSON walks the top-level object and the Close mapping token
// by token. Unknown top-level fields are skipped.
func (s *PriceSeries) UnmarshalEasyJSON(in *jlexer.Lexer) {
	isTopLevel := in.IsStart()
	if in.IsNull() {
		if isTopLevel {
			in.Consumed()
		}
		in.Skip()
		in.AddError(ErrMissingClose)
		return
	}

	seenClose := false
	in.Delim('{')
	for !in.IsDelim('}') {
		key := in.String()
		in.WantColon()
		switch key {
		case "Close":
			if in.IsNull() {
				in.Skip()
				break
			}
			seenClose = true
			s.Close = decodeClose(in)
		default:
			in.SkipRecursive()
		}
		in.WantComma()
	}
	in.Delim('}')
	if isTopLevel {
		in.Consumed()
	}
	if in.Ok() && !seenClose {
		in.AddError(ErrMissingClose)
	}
}

func decodeClose(in *jlexer.Lexer) []PriceEntry {
	entries := make([]PriceEntry, 0)
	in.Delim('{')
	for !in.IsDelim('}') {
		e := PriceEntry{Key: in.String()}
		in.WantColon()
		if in.IsNull() {
			in.Skip()
		} else if v, err := strconv.ParseFloat(string(in.Raw()), 64); err == nil {
			e.Value = null.FloatFrom(v)
		} else {
			// Strings, objects and out-of-range numbers.
			e.Invalid = true
		}
		entries = append(entries, e)
		in.WantComma()
	}
	in.Delim('}')
	return entries
}
