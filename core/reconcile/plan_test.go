package reconcile

import (
	"context"
	"testing"
	"time"

	"class-sync/core/classify"
	"class-sync/core/destination"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	planNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	dueAt   = time.Date(2026, 3, 12, 23, 59, 0, 0, time.UTC)
)

func assignmentRecord() Record {
	return Record{
		ExternalID:   "42",
		Name:         "Fractions",
		Type:         "Homework",
		Module:       "Module 3",
		CoursePageID: "course-1",
		Due:          &dueAt,
		Grade:        classify.NotGraded,
		Status:       classify.StatusPending,
		Closed:       "No",
		Link:         "https://lms/courses/1/assignments/42",
	}
}

// storedPage simulates a record created from assignmentRecord, as the store echoes it.
func storedPage(mutate func(destination.Properties)) *destination.Page {
	props := destination.Properties{
		"Name":                 destination.Title("Fractions"),
		"Canvas Assignment ID": destination.RichText("42"),
		"Type":                 destination.Select("Homework"),
		"Module":               destination.Select("Module 3"),
		"Course":               destination.Relation("course-1"),
		"Due":                  {Kind: destination.KindDate, Date: "2026-03-12T23:59:00.000Z"},
		"Grade":                destination.RichText(classify.NotGraded),
		"Submission Status":    destination.MultiSelect(string(classify.StatusPending)),
		"Closed":               destination.Select("No"),
		"Link":                 destination.URL("https://lms/courses/1/assignments/42"),
		"Plot Twist":           destination.MultiSelect(TagJustLanded),
		"Acknowledged":         destination.Checkbox(false),
		"Auto-generated":       destination.Checkbox(true),
		"Last Synced":          {Kind: destination.KindDate, Date: "2026-03-09T12:00:00Z"},
	}
	if mutate != nil {
		mutate(props)
	}
	return &destination.Page{ID: "page-1", Properties: props}
}

func TestPlan_Create(t *testing.T) {
	a := Plan(destination.AssignmentSchema(), nil, assignmentRecord(), planNow)

	assert.Equal(t, ActionCreate, a.Type)
	assert.Equal(t, "42", a.ExternalID)
	assert.Equal(t, destination.Title("Fractions"), a.Properties["Name"])
	assert.Equal(t, destination.RichText("42"), a.Properties["Canvas Assignment ID"])
	assert.Equal(t, destination.Relation("course-1"), a.Properties["Course"])
	assert.Equal(t, destination.MultiSelect(string(classify.StatusPending)), a.Properties["Submission Status"])
	assert.Equal(t, destination.MultiSelect(TagJustLanded), a.Properties["Plot Twist"])
	assert.Equal(t, destination.Checkbox(false), a.Properties["Acknowledged"])
	assert.Equal(t, destination.Checkbox(true), a.Properties["Auto-generated"])
	assert.Equal(t, "2026-03-10T12:00:00Z", a.Properties["Last Synced"].Date)
	assert.Equal(t, "2026-03-12T23:59:00Z", a.Properties["Due"].Date)
}

func TestPlan_CreateOmitsEmptyValues(t *testing.T) {
	r := assignmentRecord()
	r.Due = nil
	r.Link = ""

	a := Plan(destination.AssignmentSchema(), nil, r, planNow)
	assert.NotContains(t, a.Properties, "Due")
	assert.NotContains(t, a.Properties, "Link")
}

func TestPlan_UpdateUnchangedWritesOnlyLastSynced(t *testing.T) {
	a := Plan(destination.AssignmentSchema(), storedPage(nil), assignmentRecord(), planNow)

	assert.Equal(t, ActionUpdate, a.Type)
	assert.Equal(t, "page-1", a.PageID)
	assert.Empty(t, a.Changed)
	require.Len(t, a.Properties, 1)
	assert.Equal(t, "2026-03-10T12:00:00Z", a.Properties["Last Synced"].Date)
}

func TestPlan_UpdateAddsChangedTag(t *testing.T) {
	r := assignmentRecord()
	r.Grade = "85 / 100"
	r.Status = classify.StatusSubmitted

	a := Plan(destination.AssignmentSchema(), storedPage(nil), r, planNow)

	assert.ElementsMatch(t, []destination.Field{destination.FieldGrade, destination.FieldStatus}, a.Changed)
	assert.Equal(t, destination.RichText("85 / 100"), a.Properties["Grade"])
	assert.Equal(t, destination.MultiSelect(string(classify.StatusSubmitted)), a.Properties["Submission Status"])
	assert.Equal(t, destination.MultiSelect(TagJustLanded, TagChanged), a.Properties["Plot Twist"])
	assert.NotContains(t, a.Properties, "Acknowledged")
	assert.NotContains(t, a.Properties, "Auto-generated")
}

func TestPlan_UntrackedChangeLeavesTags(t *testing.T) {
	r := assignmentRecord()
	r.Name = "Fractions (revised)"
	r.Closed = "Yes"

	a := Plan(destination.AssignmentSchema(), storedPage(nil), r, planNow)

	assert.ElementsMatch(t, []destination.Field{destination.FieldName, destination.FieldClosed}, a.Changed)
	assert.NotContains(t, a.Properties, "Plot Twist")
}

func TestPlan_AcknowledgedGate(t *testing.T) {
	page := storedPage(func(p destination.Properties) {
		p["Acknowledged"] = destination.Checkbox(true)
		p["Plot Twist"] = destination.MultiSelect(TagJustLanded, TagChanged, "📌 Pinned")
	})
	r := assignmentRecord()
	later := dueAt.Add(24 * time.Hour)
	r.Due = &later

	a := Plan(destination.AssignmentSchema(), page, r, planNow)

	assert.Contains(t, a.Changed, destination.FieldDue)
	assert.Equal(t, destination.MultiSelect("📌 Pinned"), a.Properties["Plot Twist"])
	assert.NotContains(t, a.Properties, "Acknowledged", "acknowledgement is never written on update")
}

func TestPlan_AcknowledgedWithoutTransientTagsWritesNothing(t *testing.T) {
	page := storedPage(func(p destination.Properties) {
		p["Acknowledged"] = destination.Checkbox(true)
		p["Plot Twist"] = destination.MultiSelect()
	})
	r := assignmentRecord()
	r.Grade = "90 / 100"

	a := Plan(destination.AssignmentSchema(), page, r, planNow)
	assert.NotContains(t, a.Properties, "Plot Twist")
}

func TestPlan_TagsNeverDuplicate(t *testing.T) {
	page := storedPage(func(p destination.Properties) {
		p["Plot Twist"] = destination.MultiSelect(TagChanged, TagJustLanded, TagChanged)
	})
	r := assignmentRecord()
	r.Grade = "1 / 2"

	a := Plan(destination.AssignmentSchema(), page, r, planNow)
	assert.Equal(t, destination.MultiSelect(TagChanged, TagJustLanded), a.Properties["Plot Twist"])
}

func TestPlan_DueComparedAsInstant(t *testing.T) {
	page := storedPage(func(p destination.Properties) {
		p["Due"] = destination.Property{Kind: destination.KindDate, Date: "2026-03-12T16:59:00.000-07:00"}
	})

	a := Plan(destination.AssignmentSchema(), page, assignmentRecord(), planNow)
	assert.NotContains(t, a.Changed, destination.FieldDue)
	assert.NotContains(t, a.Properties, "Plot Twist")
}

func TestPlan_MissingDueNeverClears(t *testing.T) {
	r := assignmentRecord()
	r.Due = nil

	a := Plan(destination.AssignmentSchema(), storedPage(nil), r, planNow)
	assert.NotContains(t, a.Properties, "Due")
	assert.Empty(t, a.Changed)
}

func TestPlan_ResourceHasNoTags(t *testing.T) {
	r := Record{ExternalID: "7", Name: "Slides", Type: "File", Module: "Week 1", Summary: "Intro"}

	create := Plan(destination.ResourceSchema(), nil, r, planNow)
	assert.NotContains(t, create.Properties, "Plot Twist")
	assert.NotContains(t, create.Properties, "Acknowledged")
	assert.Equal(t, destination.RichText("Week 1"), create.Properties["Module"])
	assert.Equal(t, destination.Checkbox(true), create.Properties["Auto-generated"])

	stored := &destination.Page{ID: "p", Properties: create.Properties}
	r.Summary = "Intro v2"
	update := Plan(destination.ResourceSchema(), stored, r, planNow)
	assert.Equal(t, []destination.Field{destination.FieldSummary}, update.Changed)
	assert.Len(t, update.Properties, 2)
}

func TestApply(t *testing.T) {
	store := newMemStore()
	ctx := context.Background()

	id, err := Apply(ctx, store, "assignments", Plan(destination.AssignmentSchema(), nil, assignmentRecord(), planNow))
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	page := store.pages("assignments")[0]
	got, err := Apply(ctx, store, "assignments", Plan(destination.AssignmentSchema(), &page, assignmentRecord(), planNow))
	require.NoError(t, err)
	assert.Equal(t, id, got)

	_, err = Apply(ctx, store, "assignments", Action{Type: "delete"})
	assert.Error(t, err)
}

func TestUnion(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, union([]string{"a", "b", "a"}, []string{"c", "b"}))
	assert.Equal(t, []string{}, union(nil, nil))
	assert.Equal(t, []string{"a"}, union([]string{"", "a"}, []string{"  ", "\t"}))
	assert.Equal(t, []string{"x"}, without([]string{"x", TagChanged}, TagChanged, TagJustLanded))
}
