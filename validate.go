package sheetlive

import (
	"fmt"

	"github.com/spf13/cast"
)

// Severity indicates the severity of a validation issue.
type Severity int

const (
	SeverityError   Severity = iota // Entry will fail on every cycle
	SeverityWarning                 // Entry may not update the way it looks like it should
)

// Issue is a single problem found while checking a plan against a registry.
type Issue struct {
	Severity Severity
	Kind     string
	Cell     CellRef
	Message  string
}

// String formats the issue as "[ERROR] counter B4: message" or "[WARN] ...".
func (i Issue) String() string {
	sev := "ERROR"
	if i.Severity == SeverityWarning {
		sev = "WARN"
	}
	return fmt.Sprintf("[%s] %s %s: %s", sev, i.Kind, i.Cell, i.Message)
}

// Validate checks every entry of the plan without fetching anything:
// kinds must be registered and built-in kinds must get descriptors they can use.
// Issues are advisory; the updater runs regardless.
func Validate(plan *Plan, reg *Registry) []Issue {
	var issues []Issue
	for _, e := range plan.Entries {
		if !reg.Has(e.Kind) {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Kind:     e.Kind,
				Cell:     e.Cell,
				Message:  fmt.Sprintf("no operation registered for kind %q", e.Kind),
			})
			continue
		}
		if msg := checkDescriptor(e.Kind, e.Descriptor); msg != "" {
			issues = append(issues, Issue{
				Severity: SeverityWarning,
				Kind:     e.Kind,
				Cell:     e.Cell,
				Message:  msg,
			})
		}
	}
	return issues
}

// checkDescriptor returns a message when a built-in kind cannot use desc.
// Custom kinds define their own descriptors and are not checked.
func checkDescriptor(kind string, desc any) string {
	switch kind {
	case KindString, KindImage:
		if _, err := elementID(desc); err == nil {
			return ""
		}
		items, ok := asList(desc)
		if !ok {
			return fmt.Sprintf("expected an element id or a list of ids, got %T", desc)
		}
		for _, item := range items {
			if _, err := elementID(item); err != nil {
				return fmt.Sprintf("list contains a non-id value %v", item)
			}
		}
	case KindCounter:
		items, ok := asList(desc)
		if !ok {
			return fmt.Sprintf("expected a list of element ids, got %T", desc)
		}
		if len(items) == 0 {
			return "counter has no elements to show"
		}
	case KindSwitch:
		table, err := cast.ToStringMapStringE(desc)
		if err != nil {
			return fmt.Sprintf("expected a table of value = element id, got %T", desc)
		}
		if len(table) == 0 {
			return "switch has no cases"
		}
	}
	return ""
}
