// Package attribute defines the closed, ordered set of beer filter attributes.
package attribute

// Kind is the value domain of an attribute.
type Kind string

// Attribute kind constants.
const (
	// Text is a free-form string value such as a hop or food name.
	Text Kind = "text"
	// Date is a month-year string formatted mm-yyyy.
	Date    Kind = "date"
	Numeric Kind = "numeric"
)

// Name is a filter attribute key as understood by the catalog.
type Name string

// Attribute names in removal priority order.
const (
	Food         Name = "food"
	Hops         Name = "hops"
	Malt         Name = "malt"
	Yeast        Name = "yeast"
	BrewedAfter  Name = "brewed_after"
	BrewedBefore Name = "brewed_before"
	EBCGreater   Name = "ebc_gt"
	EBCLess      Name = "ebc_lt"
	IBUGreater   Name = "ibu_gt"
	IBULess      Name = "ibu_lt"
	ABVGreater   Name = "abv_gt"
	ABVLess      Name = "abv_lt"
)

// Range is the documented inclusive domain of a numeric measure.
type Range struct {
	Min float64
	Max float64
}

// Documented measure domains.
var (
	ABVRange = Range{Min: 0.5, Max: 55}
	IBURange = Range{Min: 8, Max: 1157}
	EBCRange = Range{Min: 8, Max: 600}
)

// Attribute is an immutable description of one filter attribute.
type Attribute struct {
	name    Name
	kind    Kind
	measure string
	domain  Range
}

// Name returns the attribute key.
func (a Attribute) Name() Name { return a.name }

// Kind returns the value domain kind.
func (a Attribute) Kind() Kind { return a.kind }

// Measure returns the measure a numeric attribute bounds ("ABV", "IBU", "EBC"), or "".
func (a Attribute) Measure() string { return a.measure }

// Domain returns the documented range of a numeric attribute. Zero for other kinds.
func (a Attribute) Domain() Range { return a.domain }

// schema is ordered least-important-first: food is relaxed first, abv_lt last.
var schema = []Attribute{
	{name: Food, kind: Text},
	{name: Hops, kind: Text},
	{name: Malt, kind: Text},
	{name: Yeast, kind: Text},
	{name: BrewedAfter, kind: Date},
	{name: BrewedBefore, kind: Date},
	{name: EBCGreater, kind: Numeric, measure: "EBC", domain: EBCRange},
	{name: EBCLess, kind: Numeric, measure: "EBC", domain: EBCRange},
	{name: IBUGreater, kind: Numeric, measure: "IBU", domain: IBURange},
	{name: IBULess, kind: Numeric, measure: "IBU", domain: IBURange},
	{name: ABVGreater, kind: Numeric, measure: "ABV", domain: ABVRange},
	{name: ABVLess, kind: Numeric, measure: "ABV", domain: ABVRange},
}

var byName = func() map[Name]int {
	m := make(map[Name]int, len(schema))
	for i, a := range schema {
		m[a.name] = i
	}
	return m
}()

// Schema returns a copy of the ordered attribute schema.
func Schema() []Attribute {
	out := make([]Attribute, len(schema))
	copy(out, schema)
	return out
}

// Names returns attribute names in removal priority order.
func Names() []Name {
	out := make([]Name, len(schema))
	for i, a := range schema {
		out[i] = a.name
	}
	return out
}

// Len is the number of schema attributes.
func Len() int { return len(schema) }

// Lookup returns the attribute with the given key.
func Lookup(name string) (Attribute, bool) {
	i, ok := byName[Name(name)]
	if !ok {
		return Attribute{}, false
	}
	return schema[i], true
}

// Priority returns the removal rank of name (0 is removed first). ok is false for foreign keys.
func Priority(name Name) (int, bool) {
	i, ok := byName[name]
	return i, ok
}
