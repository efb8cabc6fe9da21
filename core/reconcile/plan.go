package reconcile

import (
	"context"
	"fmt"
	"strings"
	"time"

	"class-sync/core/destination"
)

// ActionType is the write an Action performs.
type ActionType string

const (
	ActionCreate ActionType = "create"
	ActionUpdate ActionType = "update"
)

// Action is a planned write for one record.
type Action struct {
	Type ActionType `json:"type"`
	// PageID is set for updates.
	PageID     string                 `json:"page_id,omitempty"`
	ExternalID string                 `json:"external_id"`
	Properties destination.Properties `json:"properties"`
	// Changed lists the fields whose stored value differs from the target.
	Changed []destination.Field `json:"changed,omitempty"`
}

// recordFields is the write order of the fields a Record carries.
var recordFields = []destination.Field{
	destination.FieldName,
	destination.FieldExternalID,
	destination.FieldType,
	destination.FieldModule,
	destination.FieldCourse,
	destination.FieldDue,
	destination.FieldGrade,
	destination.FieldStatus,
	destination.FieldClosed,
	destination.FieldLink,
	destination.FieldSummary,
}

// trackedFields raise the changed tag when they differ on an unacknowledged record.
var trackedFields = map[destination.Field]bool{
	destination.FieldDue:    true,
	destination.FieldGrade:  true,
	destination.FieldStatus: true,
}

// Plan decides the write that brings existing to target. A nil existing page
// plans a create. Plan has no side effects.
//
// Creates carry every non-empty field, the just-landed tag, an unset
// acknowledgement and the auto-generated flag. Updates carry only the fields
// whose value changed. The tag set grows by the changed tag when a tracked
// field changed and the record is not acknowledged; acknowledged records lose
// both transient tags. Last synced is written on every plan.
func Plan(schema destination.Schema, existing *destination.Page, target Record, now time.Time) Action {
	values := recordValues(target)

	if existing == nil {
		props := destination.Properties{}
		for _, f := range recordFields {
			if v, ok := values[f]; ok {
				schema.Put(props, f, v)
			}
		}
		schema.Put(props, destination.FieldTags, destination.MultiSelect(TagJustLanded))
		schema.Put(props, destination.FieldAcknowledged, destination.Checkbox(false))
		schema.Put(props, destination.FieldAutoGenerated, destination.Checkbox(true))
		schema.Put(props, destination.FieldLastSynced, destination.Date(&now))
		return Action{Type: ActionCreate, ExternalID: target.ExternalID, Properties: props}
	}

	props := destination.Properties{}
	var changed []destination.Field
	trackedChange := false
	for _, f := range recordFields {
		v, ok := values[f]
		if !ok {
			continue
		}
		col, mapped := schema.Column(f)
		if !mapped {
			continue
		}
		want := v.As(col.Kind)
		have, present := existing.Properties[col.Property]
		if present && sameValue(f, have, want) {
			continue
		}
		props[col.Property] = want
		changed = append(changed, f)
		if trackedFields[f] {
			trackedChange = true
		}
	}

	if schema.Has(destination.FieldTags) {
		stored := schema.Values(*existing, destination.FieldTags)
		acknowledged := schema.Checked(*existing, destination.FieldAcknowledged)

		var added []string
		if trackedChange && !acknowledged {
			added = append(added, TagChanged)
		}
		tags := union(stored, added)
		if acknowledged {
			tags = without(tags, TagChanged, TagJustLanded)
		}
		if !sameStrings(tags, stored) {
			schema.Put(props, destination.FieldTags, destination.MultiSelect(tags...))
		}
	}

	schema.Put(props, destination.FieldLastSynced, destination.Date(&now))
	return Action{Type: ActionUpdate, PageID: existing.ID, ExternalID: target.ExternalID, Properties: props, Changed: changed}
}

// Apply performs a planned action and returns the page id.
func Apply(ctx context.Context, store destination.Store, collection string, a Action) (string, error) {
	switch a.Type {
	case ActionCreate:
		return store.Create(ctx, collection, a.Properties)
	case ActionUpdate:
		return a.PageID, store.Update(ctx, a.PageID, a.Properties)
	}
	return "", fmt.Errorf("unknown action type %q", a.Type)
}

// recordValues returns the non-empty fields of r. Empty values mean unknown
// and never clear a stored value.
func recordValues(r Record) map[destination.Field]destination.Property {
	v := map[destination.Field]destination.Property{}
	text := func(f destination.Field, s string, build func(string) destination.Property) {
		if s != "" {
			v[f] = build(s)
		}
	}
	text(destination.FieldName, r.Name, destination.Title)
	text(destination.FieldExternalID, r.ExternalID, destination.RichText)
	text(destination.FieldType, r.Type, destination.Select)
	text(destination.FieldModule, r.Module, destination.Select)
	text(destination.FieldGrade, r.Grade, destination.RichText)
	text(destination.FieldStatus, string(r.Status), destination.Select)
	text(destination.FieldClosed, r.Closed, destination.Select)
	text(destination.FieldLink, r.Link, destination.URL)
	text(destination.FieldSummary, r.Summary, destination.RichText)
	if r.CoursePageID != "" {
		v[destination.FieldCourse] = destination.Relation(r.CoursePageID)
	}
	if r.Due != nil {
		v[destination.FieldDue] = destination.Date(r.Due)
	}
	return v
}

// sameValue compares a stored and a target property. Dates compare as instants,
// since the store may echo a different but equivalent timestamp format.
func sameValue(f destination.Field, have, want destination.Property) bool {
	if f == destination.FieldDue || (have.Kind == destination.KindDate && want.Kind == destination.KindDate) {
		return sameInstant(have.First(), want.First())
	}
	return have.Equal(want)
}

var dateLayouts = []string{time.RFC3339Nano, time.DateOnly}

func sameInstant(a, b string) bool {
	if a == b {
		return true
	}
	ta, okA := parseInstant(a)
	tb, okB := parseInstant(b)
	return okA && okB && ta.Equal(tb)
}

func parseInstant(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// union appends the values of add missing from base, keeping first-seen order
// and dropping duplicates already present in base.
func union(base, add []string) []string {
	seen := make(map[string]struct{}, len(base)+len(add))
	out := make([]string, 0, len(base)+len(add))
	for _, list := range [][]string{base, add} {
		for _, s := range list {
			if _, dup := seen[s]; dup || strings.TrimSpace(s) == "" {
				continue
			}
			seen[s] = struct{}{}
			out = append(out, s)
		}
	}
	return out
}

func without(list []string, drop ...string) []string {
	out := make([]string, 0, len(list))
	for _, s := range list {
		keep := true
		for _, d := range drop {
			if s == d {
				keep = false
				break
			}
		}
		if keep {
			out = append(out, s)
		}
	}
	return out
}

func sameStrings(a, b []string) bool {
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
