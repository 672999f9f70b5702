// Package beer models catalog records and their projection to the fields the model sees.
package beer

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Record is a raw catalog record. Field values are kept verbatim.
type Record map[string]json.RawMessage

// ProjectionFields is the canonical subset kept by Project, in output order.
var ProjectionFields = []string{
	"name", "tagline", "first_brewed", "description", "image_url",
	"abv", "ibu", "target_fg", "target_og", "ebc",
	"ingredients", "food_pairing",
}

// Field is a single key/value pair of a projected record.
type Field struct {
	Key   string
	Value json.RawMessage
}

// Projected is a record reduced to the projection fields. Immutable.
type Projected struct {
	fields []Field
}

// Project keeps only the projection fields present on r. Absent fields stay absent.
func Project(r Record) Projected {
	fields := make([]Field, 0, len(ProjectionFields))
	for _, k := range ProjectionFields {
		if v, ok := r[k]; ok {
			fields = append(fields, Field{Key: k, Value: v})
		}
	}
	return Projected{fields: fields}
}

// ProjectAll projects every record, preserving order.
func ProjectAll(records []Record) []Projected {
	out := make([]Projected, len(records))
	for i, r := range records {
		out[i] = Project(r)
	}
	return out
}

// Fields returns the kept fields in projection order.
func (p Projected) Fields() []Field {
	out := make([]Field, len(p.fields))
	copy(out, p.fields)
	return out
}

// Keys returns the kept field names in projection order.
func (p Projected) Keys() []string {
	out := make([]string, len(p.fields))
	for i, f := range p.fields {
		out[i] = f.Key
	}
	return out
}

// Raw returns the verbatim value of a kept field.
func (p Projected) Raw(key string) (json.RawMessage, bool) {
	for _, f := range p.fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

// Text returns a kept string field, or "" if absent or not a string.
func (p Projected) Text(key string) string {
	raw, ok := p.Raw(key)
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

// Name returns the beer name.
func (p Projected) Name() string { return p.Text("name") }

// Tagline returns the beer tagline.
func (p Projected) Tagline() string { return p.Text("tagline") }

// MarshalJSON encodes the projected record as a JSON object in projection order.
func (p Projected) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range p.fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.Key)
		if err != nil {
			return nil, fmt.Errorf("marshal key %q: %w", f.Key, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		if len(f.Value) == 0 {
			buf.WriteString("null")
			continue
		}
		buf.Write(f.Value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
