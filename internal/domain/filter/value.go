package filter

import (
	"encoding/json"
	"strconv"
)

// Value is a filter attribute value: either a number or a string.
type Value struct {
	text    string
	number  float64
	numeric bool
}

// Number creates a numeric value.
func Number(v float64) Value { return Value{number: v, numeric: true} }

// Text creates a string value.
func Text(s string) Value { return Value{text: s} }

// IsNumeric reports whether the value is a number.
func (v Value) IsNumeric() bool { return v.numeric }

// Float returns the numeric value. Zero for text values.
func (v Value) Float() float64 { return v.number }

// String returns the value as it is sent in a catalog query parameter.
func (v Value) String() string {
	if v.numeric {
		return strconv.FormatFloat(v.number, 'f', -1, 64)
	}
	return v.text
}

// MarshalJSON encodes numbers as JSON numbers and text as JSON strings.
func (v Value) MarshalJSON() ([]byte, error) {
	if v.numeric {
		return []byte(v.String()), nil
	}
	b, err := json.Marshal(v.text)
	if err != nil {
		return nil, err //nolint:wrapcheck // plain string marshal
	}
	return b, nil
}
