package beer

import (
	"encoding/json"
	"testing"
)

func decodeRecord(t *testing.T, s string) Record {
	t.Helper()
	var r Record
	if err := json.Unmarshal([]byte(s), &r); err != nil {
		t.Fatalf("decode record: %v", err)
	}
	return r
}

const buzz = `{
	"id": 1,
	"name": "Buzz",
	"tagline": "A Real Bitter Experience.",
	"first_brewed": "09/2007",
	"description": "A light, crisp and bitter IPA.",
	"image_url": "https://images.punkapi.com/v2/keg.png",
	"abv": 4.5,
	"ibu": 60,
	"target_fg": 1010,
	"target_og": 1044,
	"ebc": 20,
	"srm": 10,
	"ph": 4.4,
	"volume": {"value": 20, "unit": "litres"},
	"method": {"mash_temp": []},
	"ingredients": {"malt": [], "hops": [], "yeast": "Wyeast 1056"},
	"food_pairing": ["Spicy chicken tikka masala"],
	"brewers_tips": "The earthy and floral aromas.",
	"contributed_by": "Sam Mason"
}`

func TestProject_KeepsCanonicalSubset(t *testing.T) {
	p := Project(decodeRecord(t, buzz))

	keys := p.Keys()
	if len(keys) != len(ProjectionFields) {
		t.Fatalf("expected %d keys, got %d: %v", len(ProjectionFields), len(keys), keys)
	}
	for i, k := range ProjectionFields {
		if keys[i] != k {
			t.Errorf("key[%d] = %q, want %q", i, keys[i], k)
		}
	}
	if _, ok := p.Raw("srm"); ok {
		t.Error("srm must be dropped")
	}
	if p.Name() != "Buzz" {
		t.Errorf("Name() = %q, want Buzz", p.Name())
	}
	if p.Tagline() != "A Real Bitter Experience." {
		t.Errorf("Tagline() = %q", p.Tagline())
	}
}

func TestProject_NeverIntroducesKeys(t *testing.T) {
	p := Project(decodeRecord(t, `{"name": "Trashy Blonde", "abv": 4.1, "volume": {"value": 20}}`))

	allowed := make(map[string]bool, len(ProjectionFields))
	for _, k := range ProjectionFields {
		allowed[k] = true
	}
	for _, k := range p.Keys() {
		if !allowed[k] {
			t.Errorf("unexpected key %q", k)
		}
	}
	if len(p.Keys()) != 2 {
		t.Errorf("expected only name and abv, got %v", p.Keys())
	}
	if _, ok := p.Raw("ibu"); ok {
		t.Error("absent fields must stay absent")
	}
}

func TestProject_EmptyRecord(t *testing.T) {
	p := Project(Record{})
	if len(p.Keys()) != 0 {
		t.Errorf("expected no keys, got %v", p.Keys())
	}
	b, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != "{}" {
		t.Errorf("marshal = %s, want {}", b)
	}
}

func TestProjected_MarshalJSON_OrderAndVerbatim(t *testing.T) {
	p := Project(decodeRecord(t, `{"ibu": null, "abv": 4.5, "name": "Buzz", "food_pairing": ["a","b"]}`))
	b, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"name":"Buzz","abv":4.5,"ibu":null,"food_pairing":["a","b"]}`
	if string(b) != want {
		t.Errorf("marshal = %s\nwant       %s", b, want)
	}
}

func TestProjectAll_PreservesOrder(t *testing.T) {
	records := []Record{
		decodeRecord(t, `{"name": "A"}`),
		decodeRecord(t, `{"name": "B"}`),
	}
	out := ProjectAll(records)
	if len(out) != 2 || out[0].Name() != "A" || out[1].Name() != "B" {
		t.Errorf("unexpected projection order: %v", out)
	}
}
