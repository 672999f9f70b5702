package recommendation

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/kailas-cloud/brewmatch/internal/domain/beer"
)

func candidate(t *testing.T, s string) beer.Projected {
	t.Helper()
	var r beer.Record
	if err := json.Unmarshal([]byte(s), &r); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return beer.Project(r)
}

func TestParse_Full(t *testing.T) {
	r, err := Parse(`{
		"name": "Punk IPA 2007 - 2010",
		"title": "Post Modern Classic. Spiky. Tropical. Hoppy.",
		"first_brewed": "04/2007",
		"abv": 6.0,
		"ibu": 60.0,
		"ebc": 17.0,
		"food_pairing": ["Spicy carne asada with a pico de gallo sauce"],
		"image_url": "https://images.punkapi.com/v2/192.png",
		"recommendation_text": "Strong and hoppy, as asked."
	}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Name != "Punk IPA 2007 - 2010" {
		t.Errorf("Name = %q", r.Name)
	}
	if string(r.ABV) != "6.0" {
		t.Errorf("ABV = %s, want 6.0", r.ABV)
	}
	if len(r.FoodPairing) != 1 {
		t.Errorf("FoodPairing = %v", r.FoodPairing)
	}
	if r.RecommendationText == "" {
		t.Error("expected recommendation text")
	}
}

func TestParse_LooseTypes(t *testing.T) {
	r, err := Parse("```json\n{\"name\": \"Buzz\", \"abv\": \"4.5\", \"ibu\": \"n/a\", \"food_pairing\": \"Curry\"}\n```")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(r.ABV) != "4.5" {
		t.Errorf("ABV = %s, want 4.5", r.ABV)
	}
	if r.IBU != nil {
		t.Errorf("IBU = %s, want nil for non-numeric text", r.IBU)
	}
	if len(r.FoodPairing) != 1 || r.FoodPairing[0] != "Curry" {
		t.Errorf("FoodPairing = %v, want [Curry]", r.FoodPairing)
	}
}

func TestParse_Rejects(t *testing.T) {
	for _, in := range []string{"", "not json", "{}", `{"name": ""}`, `[{"name": "Buzz"}]`} {
		if _, err := Parse(in); err == nil {
			t.Errorf("Parse(%q) expected error", in)
		}
	}
}

func TestComplete_TitleFromTagline(t *testing.T) {
	candidates := []beer.Projected{
		candidate(t, `{"name": "Trashy Blonde", "tagline": "You Know You Shouldn't."}`),
		candidate(t, `{"name": "Buzz", "tagline": "A Real Bitter Experience.", "abv": 4.5, "ibu": 60,
			"ebc": 20, "first_brewed": "09/2007", "image_url": "https://x/1.png", "food_pairing": ["Cheesecake"]}`),
	}

	r := Recommendation{Name: "buzz", RecommendationText: "Bitter."}.Complete(candidates)

	if r.Title != "A Real Bitter Experience." {
		t.Errorf("Title = %q, want tagline", r.Title)
	}
	if r.FirstBrewed != "09/2007" {
		t.Errorf("FirstBrewed = %q", r.FirstBrewed)
	}
	if string(r.ABV) != "4.5" || string(r.IBU) != "60" || string(r.EBC) != "20" {
		t.Errorf("measures = %s/%s/%s", r.ABV, r.IBU, r.EBC)
	}
	if r.ImageURL != "https://x/1.png" {
		t.Errorf("ImageURL = %q", r.ImageURL)
	}
	if len(r.FoodPairing) != 1 || r.FoodPairing[0] != "Cheesecake" {
		t.Errorf("FoodPairing = %v", r.FoodPairing)
	}
}

func TestComplete_OverridesModelFacts(t *testing.T) {
	candidates := []beer.Projected{candidate(t, `{"name": "Buzz", "tagline": "A Real Bitter Experience.", "abv": 4.5}`)}
	model, err := Parse(`{"name": "Buzz", "title": "Invented", "abv": 9.9, "ibu": 120,
		"first_brewed": "01/1999", "image_url": "https://fake/img.png", "food_pairing": ["Sushi"],
		"recommendation_text": "Very bitter."}`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	r := model.Complete(candidates)

	if r.Title != "A Real Bitter Experience." {
		t.Errorf("Title = %q, want candidate tagline", r.Title)
	}
	if string(r.ABV) != "4.5" {
		t.Errorf("ABV = %s, want candidate 4.5", r.ABV)
	}
	if r.IBU != nil || r.EBC != nil {
		t.Errorf("IBU/EBC = %s/%s, want nil when the candidate has none", r.IBU, r.EBC)
	}
	if r.FirstBrewed != "" || r.ImageURL != "" {
		t.Errorf("FirstBrewed/ImageURL = %q/%q, want empty", r.FirstBrewed, r.ImageURL)
	}
	if r.FoodPairing != nil {
		t.Errorf("FoodPairing = %v, want none", r.FoodPairing)
	}
	if r.Name != "Buzz" || r.RecommendationText != "Very bitter." {
		t.Errorf("Name/RecommendationText = %q/%q, want model values", r.Name, r.RecommendationText)
	}

	b, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(b), `"abv":4.5`) || !strings.Contains(string(b), `"ibu":null`) {
		t.Errorf("unexpected measures in %s", b)
	}
}

func TestParse_FenceInfoString(t *testing.T) {
	for _, in := range []string{
		"```JSON\n{\"name\": \"Buzz\"}\n```",
		"```javascript\n{\"name\": \"Buzz\"}\n```",
	} {
		r, err := Parse(in)
		if err != nil {
			t.Errorf("Parse(%q) unexpected error: %v", in, err)
			continue
		}
		if r.Name != "Buzz" {
			t.Errorf("Parse(%q) Name = %q", in, r.Name)
		}
	}
}

func TestComplete_NoMatch(t *testing.T) {
	in := Recommendation{Name: "Unknown"}
	out := in.Complete([]beer.Projected{candidate(t, `{"name": "Buzz", "tagline": "x"}`)})
	if out.Title != "" {
		t.Errorf("Title = %q, want empty when no candidate matches", out.Title)
	}
}

func TestMarshalJSON_FixedSchema(t *testing.T) {
	b, err := json.Marshal(Recommendation{Name: "Buzz"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var m map[string]json.RawMessage
	if err := json.Unmarshal(b, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, k := range []string{
		"name", "title", "first_brewed", "abv", "ibu", "ebc",
		"food_pairing", "image_url", "recommendation_text",
	} {
		if _, ok := m[k]; !ok {
			t.Errorf("missing key %q in %s", k, b)
		}
	}
	if len(m) != 9 {
		t.Errorf("expected 9 keys, got %d", len(m))
	}
	if string(m["abv"]) != "null" {
		t.Errorf("abv = %s, want null", m["abv"])
	}
	if !strings.Contains(string(b), `"food_pairing":[]`) {
		t.Errorf("expected empty food_pairing array, got %s", b)
	}
}
