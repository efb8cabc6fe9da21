package canvas

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// ID is an LMS identifier. The API emits numbers, but some proxies stringify
// them, so both forms are accepted and kept as text.
type ID string

// UnmarshalJSON accepts a JSON number, a JSON string or null.
func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*id = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("canvas: invalid id %s: %w", string(b), err)
	}
	*id = ID(n.String())
	return nil
}

// String returns the id as text.
func (id ID) String() string {
	return string(id)
}

// Course is an entry of /api/v1/courses.
type Course struct {
	ID            ID     `json:"id"`
	Name          string `json:"name"`
	WorkflowState string `json:"workflow_state"`
}

// Available reports whether the course is published and identifiable.
func (c Course) Available() bool {
	return c.ID != "" && strings.TrimSpace(c.Name) != "" && c.WorkflowState == "available"
}

// Submission is the caller's own submission, embedded with include[]=submission.
type Submission struct {
	Score       *float64   `json:"score"`
	Late        bool       `json:"late"`
	Missing     bool       `json:"missing"`
	SubmittedAt *time.Time `json:"submitted_at"`
}

// Assignment is an entry of /api/v1/courses/:id/assignments.
type Assignment struct {
	ID                   ID          `json:"id"`
	Name                 string      `json:"name"`
	DueAt                *time.Time  `json:"due_at"`
	PointsPossible       *float64    `json:"points_possible"`
	HTMLURL              string      `json:"html_url"`
	ClosedForSubmissions bool        `json:"closed_for_submissions"`
	Submission           *Submission `json:"submission"`
}

// Module is an entry of /api/v1/courses/:id/modules.
type Module struct {
	ID   ID     `json:"id"`
	Name string `json:"name"`
}

// ModuleItem is an entry of /api/v1/courses/:id/modules/:id/items.
type ModuleItem struct {
	ID          ID     `json:"id"`
	Title       string `json:"title"`
	Type        string `json:"type"`
	URL         string `json:"url"`
	HTMLURL     string `json:"html_url"`
	ExternalURL string `json:"external_url"`
}
