package destination

import (
	"time"
)

// PropertyKind is the storage type of a destination property.
type PropertyKind string

// Supported property kinds.
const (
	KindTitle       PropertyKind = "title"
	KindRichText    PropertyKind = "rich_text"
	KindDate        PropertyKind = "date"
	KindSelect      PropertyKind = "select"
	KindMultiSelect PropertyKind = "multi_select"
	KindCheckbox    PropertyKind = "checkbox"
	KindURL         PropertyKind = "url"
	KindRelation    PropertyKind = "relation"
)

// Valid reports whether k is a known kind.
func (k PropertyKind) Valid() bool {
	switch k {
	case KindTitle, KindRichText, KindDate, KindSelect, KindMultiSelect, KindCheckbox, KindURL, KindRelation:
		return true
	}
	return false
}

// Property is one typed property value.
//
// Text holds the value of title, rich_text, select and url properties.
// Names holds multi_select options and Relation holds related page ids.
// Date holds the ISO-8601 start of a date property. An empty Text, Date or
// Relation clears the property.
type Property struct {
	Kind     PropertyKind `json:"kind"`
	Text     string       `json:"text,omitempty"`
	Date     string       `json:"date,omitempty"`
	Names    []string     `json:"names,omitempty"`
	Checked  bool         `json:"checked,omitempty"`
	Relation []string     `json:"relation,omitempty"`
}

// Properties maps property names to values.
type Properties map[string]Property

// Page is a stored record.
type Page struct {
	ID         string
	Properties Properties
}

func Title(s string) Property    { return Property{Kind: KindTitle, Text: s} }
func RichText(s string) Property { return Property{Kind: KindRichText, Text: s} }
func Select(s string) Property   { return Property{Kind: KindSelect, Text: s} }
func URL(s string) Property      { return Property{Kind: KindURL, Text: s} }
func Checkbox(b bool) Property   { return Property{Kind: KindCheckbox, Checked: b} }

func MultiSelect(names ...string) Property {
	return Property{Kind: KindMultiSelect, Names: names}
}

func Relation(ids ...string) Property {
	return Property{Kind: KindRelation, Relation: ids}
}

// Date builds a date property. A nil time clears the date.
func Date(t *time.Time) Property {
	if t == nil {
		return Property{Kind: KindDate}
	}
	return Property{Kind: KindDate, Date: t.UTC().Format(time.RFC3339)}
}

// Values returns the textual values of p regardless of its kind.
func (p Property) Values() []string {
	switch p.Kind {
	case KindMultiSelect:
		return p.Names
	case KindRelation:
		return p.Relation
	case KindDate:
		if p.Date == "" {
			return nil
		}
		return []string{p.Date}
	case KindCheckbox:
		if p.Checked {
			return []string{"true"}
		}
		return []string{"false"}
	default:
		if p.Text == "" {
			return nil
		}
		return []string{p.Text}
	}
}

// First returns the first textual value, or "".
func (p Property) First() string {
	if v := p.Values(); len(v) > 0 {
		return v[0]
	}
	return ""
}

// As converts p to another kind. Single-valued kinds keep the first value;
// multi-valued kinds keep all of them.
func (p Property) As(kind PropertyKind) Property {
	if p.Kind == kind || kind == "" {
		return p
	}
	values := p.Values()
	first := p.First()
	switch kind {
	case KindMultiSelect:
		return MultiSelect(values...)
	case KindRelation:
		return Relation(values...)
	case KindDate:
		return Property{Kind: KindDate, Date: first}
	case KindCheckbox:
		return Checkbox(p.Checked || first == "true")
	default:
		return Property{Kind: kind, Text: first}
	}
}

// Equal reports whether two properties hold the same values.
func (p Property) Equal(other Property) bool {
	a, b := p.Values(), other.Values()
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
