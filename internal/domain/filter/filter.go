// Package filter holds the structured beer filter inferred from a free-text request.
package filter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"

	"github.com/kailas-cloud/brewmatch/internal/domain/attribute"
)

// Filter is an immutable mapping from schema attributes to values.
// Keys are always a subset of the attribute schema. The zero Filter is empty.
type Filter struct {
	values map[attribute.Name]Value
}

// New validates and creates a Filter. Foreign keys are rejected.
func New(values map[attribute.Name]Value) (Filter, error) {
	out := make(map[attribute.Name]Value, len(values))
	for k, v := range values {
		if _, ok := attribute.Priority(k); !ok {
			return Filter{}, fmt.Errorf("unknown filter attribute %q", k)
		}
		out[k] = v
	}
	return Filter{values: out}, nil
}

// Len returns the number of attributes in the filter.
func (f Filter) Len() int { return len(f.values) }

// IsEmpty reports whether no preference could be inferred.
func (f Filter) IsEmpty() bool { return len(f.values) == 0 }

// Get returns the value for an attribute.
func (f Filter) Get(name attribute.Name) (Value, bool) {
	v, ok := f.values[name]
	return v, ok
}

// Keys returns the present attributes in removal priority order.
func (f Filter) Keys() []attribute.Name {
	keys := make([]attribute.Name, 0, len(f.values))
	for k := range f.values {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		pi, _ := attribute.Priority(keys[i])
		pj, _ := attribute.Priority(keys[j])
		return pi < pj
	})
	return keys
}

// Without returns a copy of the filter with name removed.
func (f Filter) Without(name attribute.Name) Filter {
	out := make(map[attribute.Name]Value, len(f.values))
	for k, v := range f.values {
		if k != name {
			out[k] = v
		}
	}
	return Filter{values: out}
}

// Relax returns a copy without the highest-priority remaining attribute.
// ok is false when the filter is already empty.
func (f Filter) Relax() (relaxed Filter, removed attribute.Name, ok bool) {
	keys := f.Keys()
	if len(keys) == 0 {
		return f, "", false
	}
	return f.Without(keys[0]), keys[0], true
}

// Params renders the filter as catalog query parameters, one per attribute.
func (f Filter) Params() url.Values {
	params := make(url.Values, len(f.values))
	for k, v := range f.values {
		params.Set(string(k), v.String())
	}
	return params
}

// MarshalJSON encodes the filter as a flat JSON object in priority order.
func (f Filter) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range f.Keys() {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(string(k))
		if err != nil {
			return nil, fmt.Errorf("marshal key %q: %w", k, err)
		}
		val, err := f.values[k].MarshalJSON()
		if err != nil {
			return nil, fmt.Errorf("marshal value of %q: %w", k, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// String returns the JSON form, used in logs.
func (f Filter) String() string {
	b, err := f.MarshalJSON()
	if err != nil {
		return "{}"
	}
	return string(b)
}
