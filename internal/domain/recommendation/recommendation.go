// Package recommendation holds the single-beer answer returned to the caller.
package recommendation

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kailas-cloud/brewmatch/internal/domain/beer"
	"github.com/kailas-cloud/brewmatch/internal/domain/jsontext"
)

// Recommendation is the fixed-schema result of one end-to-end request.
// Title aliases the chosen catalog record's tagline.
type Recommendation struct {
	Name               string          `json:"name"`
	Title              string          `json:"title"`
	FirstBrewed        string          `json:"first_brewed"`
	ABV                json.RawMessage `json:"abv"`
	IBU                json.RawMessage `json:"ibu"`
	EBC                json.RawMessage `json:"ebc"`
	FoodPairing        []string        `json:"food_pairing"`
	ImageURL           string          `json:"image_url"`
	RecommendationText string          `json:"recommendation_text"`
}

// wire tolerates loosely typed model output: numbers as strings, a single food as a string.
type wire struct {
	Name               json.RawMessage `json:"name"`
	Title              json.RawMessage `json:"title"`
	FirstBrewed        json.RawMessage `json:"first_brewed"`
	ABV                json.RawMessage `json:"abv"`
	IBU                json.RawMessage `json:"ibu"`
	EBC                json.RawMessage `json:"ebc"`
	FoodPairing        json.RawMessage `json:"food_pairing"`
	ImageURL           json.RawMessage `json:"image_url"`
	RecommendationText json.RawMessage `json:"recommendation_text"`
}

// Parse reads the model's selection answer. The name is required; everything else is best effort.
func Parse(text string) (Recommendation, error) {
	body := jsontext.StripCodeFence(text)

	var w wire
	dec := json.NewDecoder(bytes.NewReader([]byte(body)))
	dec.UseNumber()
	if err := dec.Decode(&w); err != nil {
		return Recommendation{}, fmt.Errorf("decode recommendation: %w", err)
	}

	r := Recommendation{
		Name:               asString(w.Name),
		Title:              asString(w.Title),
		FirstBrewed:        asString(w.FirstBrewed),
		ABV:                asNumber(w.ABV),
		IBU:                asNumber(w.IBU),
		EBC:                asNumber(w.EBC),
		FoodPairing:        asStrings(w.FoodPairing),
		ImageURL:           asString(w.ImageURL),
		RecommendationText: asString(w.RecommendationText),
	}
	if r.Name == "" {
		return Recommendation{}, fmt.Errorf("recommendation has no name")
	}
	return r, nil
}

// Complete copies the factual fields of the candidate with the same name over
// whatever the model wrote. Only Name and RecommendationText come from the model;
// Title is the candidate tagline. Returns r unchanged if no candidate matches.
func (r Recommendation) Complete(candidates []beer.Projected) Recommendation {
	var chosen *beer.Projected
	for i := range candidates {
		if strings.EqualFold(strings.TrimSpace(candidates[i].Name()), strings.TrimSpace(r.Name)) {
			chosen = &candidates[i]
			break
		}
	}
	if chosen == nil {
		return r
	}

	r.Title = chosen.Tagline()
	r.FirstBrewed = chosen.Text("first_brewed")
	r.ImageURL = chosen.Text("image_url")
	r.ABV = rawOrNull(chosen, "abv")
	r.IBU = rawOrNull(chosen, "ibu")
	r.EBC = rawOrNull(chosen, "ebc")
	r.FoodPairing = nil
	if raw, ok := chosen.Raw("food_pairing"); ok {
		r.FoodPairing = asStrings(raw)
	}
	return r
}

func rawOrNull(p *beer.Projected, key string) json.RawMessage {
	if raw, ok := p.Raw(key); ok {
		return raw
	}
	return nil
}

func isNull(raw json.RawMessage) bool {
	return len(raw) == 0 || string(raw) == "null"
}

func asString(raw json.RawMessage) string {
	if isNull(raw) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	// Numbers and other scalars are kept in their literal form.
	return strings.TrimSpace(string(raw))
}

func asNumber(raw json.RawMessage) json.RawMessage {
	if isNull(raw) {
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		if _, err := n.Float64(); err == nil {
			return json.RawMessage(n.String())
		}
	}
	return nil
}

func asStrings(raw json.RawMessage) []string {
	if isNull(raw) {
		return nil
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return list
	}
	if s := asString(raw); s != "" {
		return []string{s}
	}
	return nil
}

// MarshalJSON writes null for unknown measures and [] for no food pairing.
func (r Recommendation) MarshalJSON() ([]byte, error) {
	type plain Recommendation
	p := plain(r)
	if isNull(p.ABV) {
		p.ABV = json.RawMessage("null")
	}
	if isNull(p.IBU) {
		p.IBU = json.RawMessage("null")
	}
	if isNull(p.EBC) {
		p.EBC = json.RawMessage("null")
	}
	if p.FoodPairing == nil {
		p.FoodPairing = []string{}
	}
	b, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("marshal recommendation: %w", err)
	}
	return b, nil
}
