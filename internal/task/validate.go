package task

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cast"
)

// Validation pairs a sanitized task with the corrections applied to it.
type Validation struct {
	Task     Task
	Warnings []string
}

// Valid reports whether the raw record needed no corrections.
func (v Validation) Valid() bool {
	return len(v.Warnings) == 0
}

// Validate sanitizes one raw record. It never fails: each malformed field is
// replaced with its default and produces exactly one warning. Fields are
// checked independently of each other.
func Validate(raw Raw) (Task, []string) {
	warnings := make([]string, 0)
	warn := func(format string, args ...any) {
		warnings = append(warnings, fmt.Sprintf(format, args...))
	}

	var t Task

	id, ok, bad := validateID(raw)
	if bad {
		warn("Invalid id type - treating as no id")
	} else if ok {
		t.ID = id
	}

	title, ok := validateTitle(raw)
	if !ok {
		warn("Missing title - defaulted to '%s'", DefaultTitle)
	}
	t.Title = title

	t.DueDate = validateDueDate(raw, warn)
	t.EstimatedHours = validateHours(raw, warn)
	t.Importance = validateImportance(raw, warn)
	t.Dependencies = validateDependencies(raw, warn)

	return t, warnings
}

// ValidateBatch validates every record in order.
func ValidateBatch(raws []Raw) []Validation {
	out := make([]Validation, len(raws))
	for i, raw := range raws {
		t, warnings := Validate(raw)
		out[i] = Validation{Task: t, Warnings: warnings}
	}
	return out
}

// validateID returns the canonical id. bad is set when an id was supplied but
// cannot act as an equality key.
func validateID(raw Raw) (id string, ok bool, bad bool) {
	v, present := raw[FieldID]
	if !present || v == nil {
		return "", false, false
	}
	s, ok := ScalarKey(v)
	if !ok {
		return "", false, true
	}
	if s == "" {
		return "", false, false
	}
	return s, true, false
}

func validateTitle(raw Raw) (string, bool) {
	v, present := raw[FieldTitle]
	if !present || v == nil {
		return DefaultTitle, false
	}

	var title string
	switch v := v.(type) {
	case string:
		title = v
	default:
		s, ok := ScalarKey(v)
		if !ok {
			return DefaultTitle, false
		}
		title = s
	}

	title = strings.TrimSpace(title)
	if title == "" {
		return DefaultTitle, false
	}
	return title, true
}

func validateDueDate(raw Raw, warn func(string, ...any)) *Date {
	v := raw[FieldDueDate]
	if isFalsy(v) {
		return nil
	}

	switch v := v.(type) {
	case string:
		d, err := ParseDate(v)
		if err != nil {
			warn("Invalid date format '%s' - treating as no due date", v)
			return nil
		}
		return &d
	case time.Time:
		d := NewDate(v)
		return &d
	case Date:
		d := NewDate(v.Time)
		return &d
	default:
		warn("Invalid due_date type - treating as no due date")
		return nil
	}
}

func validateHours(raw Raw, warn func(string, ...any)) float64 {
	v, present := raw[FieldEstimatedHours]
	if !present {
		return DefaultEstimatedHours
	}

	hours, err := toFloat(v)
	if err != nil {
		warn("Invalid estimated_hours format - defaulted to %s", FormatHours(DefaultEstimatedHours))
		return DefaultEstimatedHours
	}
	if hours <= 0 {
		warn("Invalid estimated_hours (<=0) - defaulted to %s", FormatHours(DefaultEstimatedHours))
		return DefaultEstimatedHours
	}
	if hours > HighEffortHours {
		warn("Very high estimated_hours (%s) - consider breaking down the task", FormatHours(hours))
	}
	return hours
}

// validateImportance clamps silently but warns on unparsable values.
func validateImportance(raw Raw, warn func(string, ...any)) int {
	v, present := raw[FieldImportance]
	if !present {
		return DefaultImportance
	}

	importance, err := toInt(v)
	if err != nil {
		warn("Invalid importance format - defaulted to %d", DefaultImportance)
		return DefaultImportance
	}
	return max(MinImportance, min(MaxImportance, importance))
}

func validateDependencies(raw Raw, warn func(string, ...any)) []string {
	v, present := raw[FieldDependencies]
	if !present {
		return []string{}
	}

	items, ok := toList(v)
	if !ok {
		warn("Invalid dependencies format - defaulted to empty list")
		return []string{}
	}

	deps := make([]string, 0, len(items))
	skipped := 0
	for _, item := range items {
		key, ok := ScalarKey(item)
		if !ok {
			skipped++
			continue
		}
		deps = append(deps, key)
	}
	if skipped > 0 {
		warn("Ignored %d non-scalar dependency entries", skipped)
	}
	return deps
}

// ScalarKey canonicalises a scalar value into the string used for id
// equality. Numbers and booleans are formatted, so 7 and "7" compare equal.
// Lists, maps and nil are not keys.
func ScalarKey(v any) (string, bool) {
	switch v := v.(type) {
	case nil:
		return "", false
	case string:
		return v, true
	case json.Number:
		return v.String(), true
	case bool, int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64, float32, float64:
		s, err := cast.ToStringE(v)
		if err != nil {
			return "", false
		}
		return s, true
	default:
		return "", false
	}
}

func toFloat(v any) (float64, error) {
	if v == nil {
		return 0, fmt.Errorf("nil value")
	}
	if s, ok := v.(string); ok {
		v = strings.TrimSpace(s)
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("non-finite value %v", f)
	}
	return f, nil
}

func toInt(v any) (int, error) {
	if v == nil {
		return 0, fmt.Errorf("nil value")
	}
	// Fractions truncate toward zero rather than failing.
	switch n := v.(type) {
	case string:
		return strconv.Atoi(strings.TrimSpace(n))
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return 0, fmt.Errorf("non-finite value %v", n)
		}
		return int(n), nil
	case float32:
		return toInt(float64(n))
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return int(i), nil
		}
		f, err := n.Float64()
		if err != nil {
			return 0, err
		}
		return toInt(f)
	}
	return cast.ToIntE(v)
}

func toList(v any) ([]any, bool) {
	switch v := v.(type) {
	case nil, string, map[string]any, Raw:
		return nil, false
	case []any:
		return v, true
	case []string:
		out := make([]any, len(v))
		for i, s := range v {
			out[i] = s
		}
		return out, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	items := make([]any, rv.Len())
	for i := range items {
		items[i] = rv.Index(i).Interface()
	}
	return items, true
}

// isFalsy reports values that mean "no due date" without being a mistake.
func isFalsy(v any) bool {
	switch v := v.(type) {
	case nil:
		return true
	case string:
		return v == ""
	case bool:
		return !v
	case int:
		return v == 0
	case int64:
		return v == 0
	case uint64:
		return v == 0
	case float64:
		return v == 0
	case json.Number:
		f, err := v.Float64()
		return err == nil && f == 0
	}
	return false
}
