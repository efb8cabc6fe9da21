package classify

import (
	"regexp"
	"strings"
	"time"

	"class-sync/core/utils"
)

// Label is a classification value written to a select property.
type Label string

// Type labels.
const (
	LabelQuiz        Label = "Quiz"
	LabelExam        Label = "Exam"
	LabelDiscussion  Label = "Discussion"
	LabelLecture     Label = "Lecture"
	LabelExtraCredit Label = "Extra Credit"
	LabelReading     Label = "Reading"
	LabelAnimation   Label = "Animation"
	LabelChatGPT     Label = "ChatGPT"
	LabelWorksheet   Label = "Worksheet"
	LabelHomework    Label = "Homework"
)

// LabelUncategorized is the module label when no chapter or module number is found.
const LabelUncategorized Label = "Uncategorized"

type typeRule struct {
	label    Label
	keywords []string
}

// typeRules is evaluated top to bottom and the first match wins.
// Reordering entries changes classification results.
var typeRules = []typeRule{
	{LabelQuiz, []string{"quiz"}},
	{LabelExam, []string{"exam", "test"}},
	{LabelDiscussion, []string{"discussion"}},
	{LabelLecture, []string{"lecture"}},
	{LabelExtraCredit, []string{"extra credit", "extra-credit"}},
	{LabelReading, []string{"reading"}},
	{LabelAnimation, []string{"animation"}},
	{LabelChatGPT, []string{"chatgpt"}},
	{LabelWorksheet, []string{"worksheet"}},
	{LabelHomework, []string{"homework", "assignment"}},
}

var (
	chapterPattern = regexp.MustCompile(`(?i)\bchapter\s*(\d+)`)
	modulePattern  = regexp.MustCompile(`(?i)\bmodule\s*(\d+)`)

	typePrefixPattern    = regexp.MustCompile(`(?i)^\s*(?:quiz|exam|test|discussion|lecture|extra[\s-]credit|reading|animation|chatgpt|worksheet|homework|assignment)\s*:\s*`)
	sectionPrefixPattern = regexp.MustCompile(`(?i)^\s*(?:module|chapter)\s*\d+\s*(?:[:\-\x{2013}\x{2014}|]\s*)?`)
	shortAnswerPattern   = regexp.MustCompile(`(?i)^short[\s-]*answer(?:\s+worksheet)?\s*(?:#|no\.?)?\s*(\d+)\b.*$`)
)

// Type classifies an item by its raw name. Unmatched names are worksheets.
func Type(rawName string) Label {
	name := strings.ToLower(rawName)
	for _, rule := range typeRules {
		for _, kw := range rule.keywords {
			if strings.Contains(name, kw) {
				return rule.label
			}
		}
	}
	return LabelWorksheet
}

// Module derives "Chapter N" or "Module N" from a name. Chapters win over modules.
func Module(rawName string) Label {
	if m := chapterPattern.FindStringSubmatch(rawName); m != nil {
		return Label("Chapter " + m[1])
	}
	if m := modulePattern.FindStringSubmatch(rawName); m != nil {
		return Label("Module " + m[1])
	}
	return LabelUncategorized
}

// CleanDisplayName strips the "<type>: " prefix, then a leading "Module N" or
// "Chapter N", then canonicalises short-answer worksheet titles. Exams and quizzes
// keep their names verbatim apart from trimming.
func CleanDisplayName(rawName string, label Label) string {
	name := strings.TrimSpace(rawName)
	if label == LabelExam || label == LabelQuiz {
		return name
	}

	stripped := typePrefixPattern.ReplaceAllString(name, "")
	stripped = sectionPrefixPattern.ReplaceAllString(stripped, "")
	stripped = strings.TrimSpace(stripped)

	if m := shortAnswerPattern.FindStringSubmatch(stripped); m != nil {
		stripped = "Short Answer Worksheet " + m[1]
	}

	return utils.FirstNonEmpty(stripped, name)
}

// Submission is the subset of an LMS submission the status rules look at.
type Submission struct {
	Score       *float64
	Late        bool
	Missing     bool
	SubmittedAt *time.Time
}

// Status is a submission status label.
type Status string

// Submission statuses, using the option names of the destination collection.
const (
	StatusSubmitted             Status = "✨ Dominated"
	StatusLateOrMissing         Status = "⏰ Delayed AF"
	StatusNeverSubmittedPastDue Status = "💀 Never Gave"
	StatusPending               Status = "🧠 Manifesting Productivity"
)

// SubmissionStatus applies the status precedence rules:
//  1. keep NeverSubmittedPastDue while still unsubmitted, ungraded and past due
//  2. submitted
//  3. late or missing
//  4. pending when there is no submission record
//  5. otherwise the previous label, or pending
func SubmissionStatus(sub *Submission, dueAt *time.Time, previous Status, now time.Time) Status {
	submitted := sub != nil && sub.SubmittedAt != nil
	graded := sub != nil && sub.Score != nil

	if previous == StatusNeverSubmittedPastDue && !submitted && !graded && dueAt != nil && now.After(*dueAt) {
		return previous
	}
	if submitted {
		return StatusSubmitted
	}
	if sub != nil && (sub.Late || sub.Missing) {
		return StatusLateOrMissing
	}
	if sub == nil {
		return StatusPending
	}
	if previous != "" {
		return previous
	}
	return StatusPending
}

// NotGraded is the grade string when no score or no points are known.
const NotGraded = "Not Graded"

// Grade renders "score / points" or NotGraded.
func Grade(sub *Submission, pointsPossible *float64) string {
	if sub == nil || sub.Score == nil || pointsPossible == nil {
		return NotGraded
	}
	return utils.FormatNumber(*sub.Score) + " / " + utils.FormatNumber(*pointsPossible)
}

// Closed renders the closed-for-submission flag as a select option.
func Closed(closed bool) string {
	if closed {
		return "Yes"
	}
	return "No"
}
