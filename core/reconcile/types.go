package reconcile

import (
	"errors"
	"sync/atomic"
	"time"

	"class-sync/core/classify"
)

// Kind names a sync run.
type Kind string

const (
	// KindAssignments creates and updates assignment records.
	KindAssignments Kind = "assignments"
	// KindResources creates and updates module item records.
	KindResources Kind = "resources"
	// KindDueCheck updates existing assignment records and never creates.
	KindDueCheck Kind = "due-check"
)

// Kinds lists every run kind.
var Kinds = []Kind{KindAssignments, KindResources, KindDueCheck}

// ParseKind maps a CLI or route argument to a Kind.
func ParseKind(s string) (Kind, bool) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, true
		}
	}
	return "", false
}

// Tags written to the tag set of tracked records.
const (
	TagChanged    = "⚡ Deadline Remix"
	TagJustLanded = "✨ Just Landed"
)

var (
	// ErrCourseNotFound means the course has no page in the course planner.
	// Entities of such a course are skipped.
	ErrCourseNotFound = errors.New("course page not found")
	// ErrNotConfigured means the target collection for a run kind is not set.
	ErrNotConfigured = errors.New("collection not configured")
	// ErrMissingExternalID means the LMS item carried no id to match records on.
	ErrMissingExternalID = errors.New("entity has no external id")
)

// Entity is one LMS item prepared for reconciliation.
type Entity struct {
	ExternalID string
	Name       string
	CourseName string
	ModuleName string
	ItemType   string

	DueAt          *time.Time
	PointsPossible *float64
	Submission     *classify.Submission
	Closed         bool

	HTMLURL     string
	ExternalURL string
	// DetailURL is fetched for the content summary when the collection has one.
	DetailURL string
}

// Record is the target state of one destination record.
// Empty values are left untouched on the stored record.
type Record struct {
	ExternalID   string
	Name         string
	Type         string
	Module       string
	CoursePageID string
	Due          *time.Time
	Grade        string
	Status       classify.Status
	Closed       string
	Link         string
	Summary      string
}

// Outcome is the result of reconciling one entity.
type Outcome string

const (
	OutcomeCreated Outcome = "created"
	OutcomeUpdated Outcome = "updated"
	OutcomeSkipped Outcome = "skipped"
	OutcomeFailed  Outcome = "failed"
)

// Options controls a run.
type Options struct {
	// DryRun plans every action and logs it without writing.
	DryRun bool
	// Workers bounds concurrent entity processing within one course.
	// Values below 2 process sequentially.
	Workers int
}

// Summary reports the counts of one run.
type Summary struct {
	RunID      string    `json:"run_id"`
	Kind       Kind      `json:"kind"`
	DryRun     bool      `json:"dry_run"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Created    int       `json:"created"`
	Updated    int       `json:"updated"`
	Skipped    int       `json:"skipped"`
	Failed     int       `json:"failed"`
}

// Duration returns the wall time of the run.
func (s Summary) Duration() time.Duration {
	if s.FinishedAt.IsZero() {
		return 0
	}
	return s.FinishedAt.Sub(s.StartedAt)
}

// tally counts outcomes across goroutines.
type tally struct {
	created, updated, skipped, failed atomic.Int64
}

func (t *tally) add(o Outcome) {
	switch o {
	case OutcomeCreated:
		t.created.Add(1)
	case OutcomeUpdated:
		t.updated.Add(1)
	case OutcomeSkipped:
		t.skipped.Add(1)
	case OutcomeFailed:
		t.failed.Add(1)
	}
}

func (t *tally) into(s *Summary) {
	s.Created = int(t.created.Load())
	s.Updated = int(t.updated.Load())
	s.Skipped = int(t.skipped.Load())
	s.Failed = int(t.failed.Load())
}
