package notion

import (
	"strings"
	"time"

	"class-sync/core/destination"

	"github.com/jomei/notionapi"
)

// encodeProperties converts properties to the API's typed values. Empty select
// and url values cannot be expressed by the API client and are left out, so
// the stored value is kept.
func encodeProperties(props destination.Properties) notionapi.Properties {
	out := make(notionapi.Properties, len(props))
	for name, p := range props {
		if v := encodeProperty(p); v != nil {
			out[name] = v
		}
	}
	return out
}

func encodeProperty(p destination.Property) notionapi.Property {
	switch p.Kind {
	case destination.KindTitle:
		return &notionapi.TitleProperty{Title: richText(p.Text)}
	case destination.KindRichText:
		return &notionapi.RichTextProperty{RichText: richText(p.Text)}
	case destination.KindDate:
		start, ok := parseDate(p.Date)
		if !ok {
			return &notionapi.DateProperty{}
		}
		return &notionapi.DateProperty{Date: &notionapi.DateObject{Start: &start}}
	case destination.KindSelect:
		if p.Text == "" {
			return nil
		}
		return &notionapi.SelectProperty{Select: notionapi.Option{Name: p.Text}}
	case destination.KindMultiSelect:
		opts := make([]notionapi.Option, 0, len(p.Names))
		for _, n := range p.Names {
			opts = append(opts, notionapi.Option{Name: n})
		}
		return &notionapi.MultiSelectProperty{MultiSelect: opts}
	case destination.KindCheckbox:
		return &notionapi.CheckboxProperty{Checkbox: p.Checked}
	case destination.KindURL:
		if p.Text == "" {
			return nil
		}
		return &notionapi.URLProperty{URL: p.Text}
	case destination.KindRelation:
		rels := make([]notionapi.Relation, 0, len(p.Relation))
		for _, id := range p.Relation {
			rels = append(rels, notionapi.Relation{ID: notionapi.PageID(id)})
		}
		return &notionapi.RelationProperty{Relation: rels}
	}
	return nil
}

func richText(s string) []notionapi.RichText {
	if s == "" {
		return []notionapi.RichText{}
	}
	return []notionapi.RichText{{Text: &notionapi.Text{Content: s}}}
}

func parseDate(s string) (notionapi.Date, bool) {
	if s == "" {
		return notionapi.Date{}, false
	}
	for _, layout := range []string{time.RFC3339Nano, time.DateOnly} {
		if t, err := time.Parse(layout, s); err == nil {
			return notionapi.Date(t), true
		}
	}
	return notionapi.Date{}, false
}

// decodeProperties converts page properties. Unsupported types are dropped.
func decodeProperties(props notionapi.Properties) destination.Properties {
	out := make(destination.Properties, len(props))
	for name, v := range props {
		if p, ok := decodeProperty(v); ok {
			out[name] = p
		}
	}
	return out
}

func decodeProperty(v notionapi.Property) (destination.Property, bool) {
	switch p := v.(type) {
	case *notionapi.TitleProperty:
		return destination.Title(plainText(p.Title)), true
	case *notionapi.RichTextProperty:
		return destination.RichText(plainText(p.RichText)), true
	case *notionapi.DateProperty:
		if p.Date == nil || p.Date.Start == nil {
			return destination.Property{Kind: destination.KindDate}, true
		}
		start := time.Time(*p.Date.Start)
		return destination.Date(&start), true
	case *notionapi.SelectProperty:
		return destination.Select(p.Select.Name), true
	case *notionapi.MultiSelectProperty:
		names := make([]string, 0, len(p.MultiSelect))
		for _, o := range p.MultiSelect {
			names = append(names, o.Name)
		}
		return destination.MultiSelect(names...), true
	case *notionapi.CheckboxProperty:
		return destination.Checkbox(p.Checkbox), true
	case *notionapi.URLProperty:
		return destination.URL(p.URL), true
	case *notionapi.RelationProperty:
		ids := make([]string, 0, len(p.Relation))
		for _, r := range p.Relation {
			ids = append(ids, r.ID.String())
		}
		return destination.Relation(ids...), true
	}
	return destination.Property{}, false
}

func plainText(parts []notionapi.RichText) string {
	var b strings.Builder
	for _, p := range parts {
		switch {
		case p.PlainText != "":
			b.WriteString(p.PlainText)
		case p.Text != nil:
			b.WriteString(p.Text.Content)
		}
	}
	return b.String()
}

// encodeFilter builds a database query filter, or nil for an unfiltered query.
// Exact matching on an empty value selects pages where the property is empty.
func encodeFilter(f destination.Filter) notionapi.Filter {
	if f.Property == "" {
		return nil
	}
	value, contains := f.Equals, f.Contains != ""
	if contains {
		value = f.Contains
	}
	empty := value == ""

	pf := &notionapi.PropertyFilter{Property: f.Property}
	switch f.Kind {
	case destination.KindCheckbox:
		if f.Equals == "true" {
			pf.Checkbox = &notionapi.CheckboxFilterCondition{Equals: true}
		} else {
			pf.Checkbox = &notionapi.CheckboxFilterCondition{DoesNotEqual: true}
		}
	case destination.KindSelect:
		pf.Select = &notionapi.SelectFilterCondition{Equals: value, IsEmpty: empty}
	case destination.KindMultiSelect:
		pf.MultiSelect = &notionapi.MultiSelectFilterCondition{Contains: value, IsEmpty: empty}
	case destination.KindRelation:
		pf.Relation = &notionapi.RelationFilterCondition{Contains: value, IsEmpty: empty}
	default:
		cond := &notionapi.TextFilterCondition{IsEmpty: empty}
		if contains {
			cond.Contains = value
		} else {
			cond.Equals = value
		}
		pf.RichText = cond
	}
	return pf
}
