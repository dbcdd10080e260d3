package domain

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// The portal is a PHP backend and is loose about scalar types: flags come
// back as true/1/"1", identifiers as strings or numbers, counts and
// amounts as numbers or numeric strings. These types absorb that.

// Flag decodes a JSON value by truthiness: false, 0, "" and null are false.
type Flag bool

func (f *Flag) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*f = false
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		// Any non-empty string is truthy, "0" and "false" included.
		*f = Flag(s != "")
	case bytes.Equal(b, []byte("true")), bytes.Equal(b, []byte("false")):
		var v bool
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*f = Flag(v)
	default:
		var n float64
		if err := json.Unmarshal(b, &n); err != nil {
			return err
		}
		*f = n != 0
	}
	return nil
}

// Text decodes a JSON string or number into its string form.
type Text string

func (t *Text) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*t = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = Text(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*t = Text(n.String())
	return nil
}

func (t Text) String() string { return string(t) }

// Number decodes a JSON number or numeric string. Anything unparsable
// decodes as zero, matching how the dashboard falls back to 0.
type Number float64

func (n *Number) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			v = 0
		}
		*n = Number(v)
		return nil
	}
	if bytes.Equal(b, []byte("null")) {
		*n = 0
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*n = Number(v)
	return nil
}

func (n Number) Float() float64 { return float64(n) }
