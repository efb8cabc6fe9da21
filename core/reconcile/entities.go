package reconcile

import (
	"strings"
	"time"

	"class-sync/core/canvas"
	"class-sync/core/classify"
	"class-sync/core/utils"
)

// Name fallbacks for items the LMS returns without a title.
const (
	UntitledAssignment = "Untitled Assignment"
	UntitledResource   = "(Untitled Resource)"
	NoModule           = "(No Module)"
	DefaultItemType    = "Item"
)

// AssignmentEntity prepares an LMS assignment.
func AssignmentEntity(course canvas.Course, a canvas.Assignment) Entity {
	e := Entity{
		ExternalID:     a.ID.String(),
		Name:           a.Name,
		CourseName:     course.Name,
		DueAt:          a.DueAt,
		PointsPossible: a.PointsPossible,
		Closed:         a.ClosedForSubmissions,
		HTMLURL:        a.HTMLURL,
	}
	if s := a.Submission; s != nil {
		e.Submission = &classify.Submission{
			Score:       s.Score,
			Late:        s.Late,
			Missing:     s.Missing,
			SubmittedAt: s.SubmittedAt,
		}
	}
	return e
}

// ResourceEntity prepares an LMS module item.
func ResourceEntity(course canvas.Course, module canvas.Module, item canvas.ModuleItem) Entity {
	return Entity{
		ExternalID:  item.ID.String(),
		Name:        item.Title,
		CourseName:  course.Name,
		ModuleName:  module.Name,
		ItemType:    item.Type,
		HTMLURL:     item.HTMLURL,
		ExternalURL: item.ExternalURL,
		DetailURL:   item.URL,
	}
}

// BuildAssignment derives the assignment record: classified and cleaned name,
// grade, status and closed flag.
func BuildAssignment(e Entity, previous classify.Status, now time.Time) Record {
	name := utils.FirstNonEmpty(strings.TrimSpace(e.Name), UntitledAssignment)
	label := classify.Type(name)
	return Record{
		Name:   classify.CleanDisplayName(name, label),
		Type:   string(label),
		Module: string(classify.Module(name)),
		Due:    e.DueAt,
		Grade:  classify.Grade(e.Submission, e.PointsPossible),
		Status: classify.SubmissionStatus(e.Submission, e.DueAt, previous, now),
		Closed: classify.Closed(e.Closed),
		Link:   e.HTMLURL,
	}
}

// BuildResource derives the module item record. The external link wins over
// the LMS page.
func BuildResource(e Entity, _ classify.Status, _ time.Time) Record {
	return Record{
		Name:   utils.FirstNonEmpty(strings.TrimSpace(e.Name), UntitledResource),
		Type:   utils.FirstNonEmpty(e.ItemType, DefaultItemType),
		Module: utils.FirstNonEmpty(e.ModuleName, NoModule),
		Link:   utils.FirstNonEmpty(e.ExternalURL, e.HTMLURL),
	}
}
