package filter

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/kailas-cloud/brewmatch/internal/domain/attribute"
	"github.com/kailas-cloud/brewmatch/internal/domain/jsontext"
)

// Outcome is the result class of parsing model output.
type Outcome string

// Parse outcome constants.
const (
	// Valid means the text was a JSON object; the filter may still be empty.
	Valid     Outcome = "valid"
	Malformed Outcome = "malformed"
)

var errNotObject = errors.New("filter text is not a JSON object")

// Parsed is the outcome of reading untrusted model output as a filter.
type Parsed struct {
	Filter  Filter
	Outcome Outcome
	// Ignored lists keys dropped because they are foreign or carry unusable values.
	Ignored []string
	// Err describes why the text was malformed.
	Err error
}

// IsMalformed reports whether the text could not be read as structured data.
func (p Parsed) IsMalformed() bool { return p.Outcome == Malformed }

// Parse reads model output as a filter. It never fails: malformed text is a distinct outcome.
// Foreign keys and values that are neither numbers nor non-empty strings are dropped.
func Parse(text string) Parsed {
	raw, err := decodeObject(text)
	if err != nil {
		return Parsed{Outcome: Malformed, Err: err}
	}

	values := make(map[attribute.Name]Value, len(raw))
	var ignored []string
	for k, v := range raw {
		if _, ok := attribute.Lookup(k); !ok {
			ignored = append(ignored, k)
			continue
		}
		val, ok := toValue(v)
		if !ok {
			ignored = append(ignored, k)
			continue
		}
		values[attribute.Name(k)] = val
	}
	sort.Strings(ignored)

	return Parsed{
		Filter:  Filter{values: values},
		Outcome: Valid,
		Ignored: ignored,
	}
}

func decodeObject(text string) (map[string]any, error) {
	body := jsontext.StripCodeFence(text)
	if body == "" {
		return nil, errNotObject
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(body)))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("decode filter: %w", err)
	}
	if dec.More() {
		return nil, fmt.Errorf("decode filter: trailing data after object")
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, errNotObject
	}
	return obj, nil
}

func toValue(v any) (Value, bool) {
	switch x := v.(type) {
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return Value{}, false
		}
		return Number(f), true
	case string:
		if strings.TrimSpace(x) == "" {
			return Value{}, false
		}
		return Text(x), true
	default:
		return Value{}, false
	}
}
