// Package task defines the task records taskrank scores and the validator that
// turns loosely-typed input into them.
//
// A [Raw] task is whatever the caller decoded from JSON, YAML or TOML: a mapping
// with optional, untyped fields. [Validate] converts it into a fully-typed [Task],
// repairing every malformed field with a documented default and describing each
// repair in a warning string. Nothing downstream of the validator sees a Raw task.
package task

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// Field names recognised in raw task records.
const (
	FieldID             = "id"
	FieldTitle          = "title"
	FieldDueDate        = "due_date"
	FieldEstimatedHours = "estimated_hours"
	FieldImportance     = "importance"
	FieldDependencies   = "dependencies"
)

// Defaults applied by the validator.
const (
	DefaultTitle          = "Untitled Task"
	DefaultEstimatedHours = 1.0
	DefaultImportance     = 5
	MinImportance         = 1
	MaxImportance         = 10

	// HighEffortHours is the estimate above which the validator advises
	// breaking a task down. It is advisory, not a correction.
	HighEffortHours = 100.0
)

// DateLayout is the ISO-8601 calendar date layout used at the boundary.
const DateLayout = "2006-01-02"

// basicDateLayout is the ISO-8601 basic form, accepted on input only.
const basicDateLayout = "20060102"

const secondsPerDay = 24 * 60 * 60

// Raw is an unvalidated task record as decoded from input.
type Raw map[string]any

// Task is a sanitized task. Every field holds its canonical type and range:
// EstimatedHours > 0, Importance in [1,10], DueDate is a calendar date or nil.
type Task struct {
	// ID is the opaque identifier used for dependency matching. Empty means the
	// input carried no usable id.
	ID string `json:"id,omitempty" yaml:"id,omitempty"`

	Title string `json:"title" yaml:"title"`

	DueDate *Date `json:"due_date" yaml:"due_date"`

	EstimatedHours float64 `json:"estimated_hours" yaml:"estimated_hours"`
	Importance     int     `json:"importance" yaml:"importance"`

	// Dependencies may reference ids that are not part of the batch; those are
	// filtered out by the dependency graph, not here.
	Dependencies []string `json:"dependencies" yaml:"dependencies"`
}

// HasID reports whether the task carries an identifier.
func (t Task) HasID() bool {
	return t.ID != ""
}

// HasDependencies reports whether the task lists any dependency.
func (t Task) HasDependencies() bool {
	return len(t.Dependencies) > 0
}

// DueDateString returns the due date in ISO-8601 form, or "" when absent.
func (t Task) DueDateString() string {
	if t.DueDate == nil {
		return ""
	}
	return t.DueDate.String()
}

// Raw converts the sanitized task back into boundary form. Feeding the result
// through Validate again yields the same task and no corrections.
func (t Task) Raw() Raw {
	deps := make([]any, len(t.Dependencies))
	for i, d := range t.Dependencies {
		deps[i] = d
	}

	raw := Raw{
		FieldTitle:          t.Title,
		FieldEstimatedHours: t.EstimatedHours,
		FieldImportance:     t.Importance,
		FieldDependencies:   deps,
		FieldDueDate:        nil,
	}
	if t.HasID() {
		raw[FieldID] = t.ID
	}
	if t.DueDate != nil {
		raw[FieldDueDate] = t.DueDateString()
	}
	return raw
}

// Date is a calendar date, held as midnight UTC. It serializes as YYYY-MM-DD.
type Date struct {
	time.Time
}

// NewDate returns the calendar date of tm in tm's own location.
func NewDate(tm time.Time) Date {
	y, m, d := tm.Date()
	return Date{time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses an ISO-8601 calendar date in extended (2025-01-15) or
// basic (20250115) form.
func ParseDate(s string) (Date, error) {
	tm, err := time.Parse(DateLayout, s)
	if err != nil {
		basic, basicErr := time.Parse(basicDateLayout, s)
		if basicErr != nil {
			return Date{}, err
		}
		tm = basic
	}
	return Date{tm}, nil
}

// Today returns the current local calendar date.
func Today() Date {
	return NewDate(time.Now())
}

// String returns the date in ISO-8601 form.
func (d Date) String() string {
	return d.Format(DateLayout)
}

// DaysUntil returns the number of whole days from d to other. It is negative
// when other is earlier than d. Both dates are UTC midnights, so the count is
// exact for the whole year 1 to 9999 range, which a time.Duration cannot span.
func (d Date) DaysUntil(other Date) int {
	return int((other.Unix() - d.Unix()) / secondsPerDay)
}

// MarshalText implements encoding.TextMarshaler.
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// MarshalJSON overrides the promoted time.Time encoding.
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// MarshalYAML implements yaml.Marshaler.
func (d Date) MarshalYAML() (any, error) {
	return d.String(), nil
}

// FormatHours renders an hour estimate the way it appears in explanations:
// whole numbers keep one decimal ("3.0"), fractions keep their digits ("0.25").
func FormatHours(h float64) string {
	s := strconv.FormatFloat(h, 'f', -1, 64)
	if strings.ContainsAny(s, ".IN") {
		return s
	}
	return s + ".0"
}
