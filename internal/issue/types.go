package issue

import (
	"strconv"
	"strings"
)

// Type is the category of an issue.
type Type uint8

const (
	TypeBug Type = iota
	TypeFeature
	TypeImprovement
	TypeTask
)

var typeNames = []string{
	TypeBug:         "Bug",
	TypeFeature:     "Feature",
	TypeImprovement: "Improvement",
	TypeTask:        "Task",
}

// Types lists every issue type in declaration order.
func Types() []Type {
	return []Type{TypeBug, TypeFeature, TypeImprovement, TypeTask}
}

// String returns the canonical name, or Type(n) for an unknown value.
func (t Type) String() string {
	if int(t) < len(typeNames) {
		return typeNames[t]
	}
	return "Type(" + strconv.Itoa(int(t)) + ")"
}

// ParseType converts text to a Type. Matching ignores case.
func ParseType(s string) (Type, error) {
	i, ok := lookupName(typeNames, s)
	if !ok {
		return TypeBug, &ParseError{Kind: "type", Text: s}
	}
	return Type(i), nil
}

// MarshalText implements encoding.TextMarshaler. Unknown values fail.
func (t Type) MarshalText() ([]byte, error) {
	if int(t) >= len(typeNames) {
		return nil, &ParseError{Kind: "type", Text: t.String()}
	}
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler using ParseType.
func (t *Type) UnmarshalText(text []byte) error {
	v, err := ParseType(string(text))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// Priority is the urgency of an issue.
type Priority uint8

const (
	PriorityLow Priority = iota
	PriorityMedium
	PriorityHigh
)

var priorityNames = []string{
	PriorityLow:    "Low",
	PriorityMedium: "Medium",
	PriorityHigh:   "High",
}

// Priorities lists every priority from lowest to highest.
func Priorities() []Priority {
	return []Priority{PriorityLow, PriorityMedium, PriorityHigh}
}

// String returns the canonical name, or Priority(n) for an unknown value.
func (p Priority) String() string {
	if int(p) < len(priorityNames) {
		return priorityNames[p]
	}
	return "Priority(" + strconv.Itoa(int(p)) + ")"
}

// ParsePriority converts text to a Priority. Matching ignores case.
func ParsePriority(s string) (Priority, error) {
	i, ok := lookupName(priorityNames, s)
	if !ok {
		return PriorityMedium, &ParseError{Kind: "priority", Text: s}
	}
	return Priority(i), nil
}

// MarshalText implements encoding.TextMarshaler. Unknown values fail.
func (p Priority) MarshalText() ([]byte, error) {
	if int(p) >= len(priorityNames) {
		return nil, &ParseError{Kind: "priority", Text: p.String()}
	}
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler using ParsePriority.
func (p *Priority) UnmarshalText(text []byte) error {
	v, err := ParsePriority(string(text))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// Status is the workflow state of an issue.
type Status uint8

const (
	StatusOpen Status = iota
	StatusClosed
	StatusInProgress
	StatusReview
	StatusRejected
	StatusHalted
)

var statusNames = []string{
	StatusOpen:       "Open",
	StatusClosed:     "Closed",
	StatusInProgress: "InProgress",
	StatusReview:     "Review",
	StatusRejected:   "Rejected",
	StatusHalted:     "Halted",
}

// Statuses lists every status in declaration order.
func Statuses() []Status {
	return []Status{StatusOpen, StatusClosed, StatusInProgress, StatusReview, StatusRejected, StatusHalted}
}

// String returns the canonical name, or Status(n) for an unknown value.
func (s Status) String() string {
	if int(s) < len(statusNames) {
		return statusNames[s]
	}
	return "Status(" + strconv.Itoa(int(s)) + ")"
}

// ParseStatus converts text to a Status. Matching ignores case, and
// "in_progress" / "in-progress" are accepted for InProgress.
func ParseStatus(s string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "in_progress", "in-progress":
		return StatusInProgress, nil
	}
	i, ok := lookupName(statusNames, s)
	if !ok {
		return StatusOpen, &ParseError{Kind: "status", Text: s}
	}
	return Status(i), nil
}

// MarshalText implements encoding.TextMarshaler. Unknown values fail.
func (s Status) MarshalText() ([]byte, error) {
	if int(s) >= len(statusNames) {
		return nil, &ParseError{Kind: "status", Text: s.String()}
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler using ParseStatus.
func (s *Status) UnmarshalText(text []byte) error {
	v, err := ParseStatus(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// lookupName finds s in names ignoring case and surrounding space.
func lookupName(names []string, s string) (int, bool) {
	key := strings.ToLower(strings.TrimSpace(s))
	if key == "" {
		return 0, false
	}
	for i, name := range names {
		if strings.ToLower(name) == key {
			return i, true
		}
	}
	return 0, false
}
