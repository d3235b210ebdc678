// Package issue defines the issue record, its stable hash identity and the
// closed enumerations (type, priority, status) with their text mappings.
package issue

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// MaxProgress is the largest accepted progress value.
const MaxProgress = 100

// Issue is one tracked unit of work. The hash and creation date are fixed
// when the issue is opened; every other field changes through its setter.
// Persisting changes is up to the caller.
type Issue struct {
	hash         Hash
	title        string
	description  *string
	typ          Type
	parent       *Hash
	author       string
	assignedTo   *string
	priority     Priority
	status       Status
	progress     uint8
	creationDate time.Time
	startDate    time.Time
	dueDate      *time.Time
}

// New opens an issue with a fresh hash. Creation and start date are set to
// now; type, priority and status take their defaults (Bug, Medium, Open).
func New(author, title string) *Issue {
	return newAt(author, title, time.Now())
}

func newAt(author, title string, now time.Time) *Issue {
	now = now.Truncate(time.Second)
	return &Issue{
		hash:         NewHash(author, title, now),
		title:        title,
		typ:          TypeBug,
		author:       author,
		priority:     PriorityMedium,
		status:       StatusOpen,
		creationDate: now,
		startDate:    now,
	}
}

// Hash returns the identifier fixed at creation.
func (i *Issue) Hash() Hash { return i.hash }

// Title returns the title.
func (i *Issue) Title() string { return i.title }

// Type returns the issue type.
func (i *Issue) Type() Type { return i.typ }

// Author returns who opened the issue.
func (i *Issue) Author() string { return i.author }

// Priority returns the priority.
func (i *Issue) Priority() Priority { return i.priority }

// Status returns the workflow status.
func (i *Issue) Status() Status { return i.status }

// Progress returns the completion percentage, 0 to 100.
func (i *Issue) Progress() uint8 { return i.progress }

// CreationDate returns when the issue was opened, to the second.
func (i *Issue) CreationDate() time.Time { return i.creationDate }

// StartDate returns when work on the issue starts, to the second.
func (i *Issue) StartDate() time.Time { return i.startDate }

// Description returns the description and whether one is set.
func (i *Issue) Description() (string, bool) {
	if i.description == nil {
		return "", false
	}
	return *i.description, true
}

// Parent returns the parent hash and whether one is set.
func (i *Issue) Parent() (Hash, bool) {
	if i.parent == nil {
		return Hash{}, false
	}
	return *i.parent, true
}

// AssignedTo returns the assignee and whether one is set.
func (i *Issue) AssignedTo() (string, bool) {
	if i.assignedTo == nil {
		return "", false
	}
	return *i.assignedTo, true
}

// DueDate returns the due date and whether one is set.
func (i *Issue) DueDate() (time.Time, bool) {
	if i.dueDate == nil {
		return time.Time{}, false
	}
	return *i.dueDate, true
}

// SetTitle replaces the title. An empty (or blank) title is rejected.
func (i *Issue) SetTitle(title string) error {
	if err := validateTitle(title); err != nil {
		return err
	}
	i.title = title
	return nil
}

// SetDescription sets the description. An empty string is kept as set.
func (i *Issue) SetDescription(description string) { i.description = &description }

// ClearDescription removes the description.
func (i *Issue) ClearDescription() { i.description = nil }

// SetType sets the issue type.
func (i *Issue) SetType(t Type) { i.typ = t }

// SetParent links the issue to a parent. Checking that the parent exists
// is up to the caller, which has the full issue set.
func (i *Issue) SetParent(parent Hash) { i.parent = &parent }

// ClearParent removes the parent link.
func (i *Issue) ClearParent() { i.parent = nil }

// SetAuthor replaces the author.
func (i *Issue) SetAuthor(author string) { i.author = author }

// SetAssignedTo assigns the issue.
func (i *Issue) SetAssignedTo(assignee string) { i.assignedTo = &assignee }

// ClearAssignedTo removes the assignee.
func (i *Issue) ClearAssignedTo() { i.assignedTo = nil }

// SetPriority sets the priority.
func (i *Issue) SetPriority(p Priority) { i.priority = p }

// SetStatus sets the workflow status without touching progress.
func (i *Issue) SetStatus(s Status) { i.status = s }

// SetStartDate sets the start date, truncated to the second.
func (i *Issue) SetStartDate(t time.Time) { i.startDate = t.Truncate(time.Second) }

// SetDueDate sets the due date, truncated to the second.
func (i *Issue) SetDueDate(t time.Time) {
	t = t.Truncate(time.Second)
	i.dueDate = &t
}

// ClearDueDate removes the due date.
func (i *Issue) ClearDueDate() { i.dueDate = nil }

// SetProgress sets the completion percentage. Values above 100 fail with
// ErrOutOfRange and leave the issue unchanged.
func (i *Issue) SetProgress(p uint8) error {
	if p > MaxProgress {
		return fmt.Errorf("progress %d: %w", p, ErrOutOfRange)
	}
	i.progress = p
	return nil
}

// Close marks the issue as closed and complete.
func (i *Issue) Close() {
	i.status = StatusClosed
	i.progress = MaxProgress
}

// Clone returns a deep copy that shares no state with i.
func (i *Issue) Clone() *Issue {
	c := *i
	if i.description != nil {
		d := *i.description
		c.description = &d
	}
	if i.parent != nil {
		p := *i.parent
		c.parent = &p
	}
	if i.assignedTo != nil {
		a := *i.assignedTo
		c.assignedTo = &a
	}
	if i.dueDate != nil {
		d := *i.dueDate
		c.dueDate = &d
	}
	return &c
}

// Validate checks the invariants a persisted issue must hold.
func (i *Issue) Validate() error {
	if i.hash.IsZero() {
		return &ParseError{Kind: "hash", Text: i.hash.String()}
	}
	if err := validateTitle(i.title); err != nil {
		return err
	}
	if i.progress > MaxProgress {
		return fmt.Errorf("progress %d: %w", i.progress, ErrOutOfRange)
	}
	return nil
}

func validateTitle(title string) error {
	for _, r := range title {
		if r != ' ' && r != '\t' && r != '\n' && r != '\r' {
			return nil
		}
	}
	return &ParseError{Kind: "title", Text: title}
}

// record is the on-disk shape of an Issue.
type record struct {
	Hash         Hash       `json:"hash"`
	Title        string     `json:"title"`
	Description  *string    `json:"description,omitempty"`
	Type         Type       `json:"type"`
	Parent       *Hash      `json:"parent,omitempty"`
	Author       string     `json:"author"`
	AssignedTo   *string    `json:"assigned_to,omitempty"`
	Priority     Priority   `json:"priority"`
	Status       Status     `json:"status"`
	Progress     uint8      `json:"progress"`
	CreationDate time.Time  `json:"creation_date"`
	StartDate    time.Time  `json:"start_date"`
	DueDate      *time.Time `json:"due_date,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (i *Issue) MarshalJSON() ([]byte, error) {
	return json.Marshal(record{
		Hash:         i.hash,
		Title:        i.title,
		Description:  i.description,
		Type:         i.typ,
		Parent:       i.parent,
		Author:       i.author,
		AssignedTo:   i.assignedTo,
		Priority:     i.priority,
		Status:       i.status,
		Progress:     i.progress,
		CreationDate: i.creationDate,
		StartDate:    i.startDate,
		DueDate:      i.dueDate,
	})
}

// incoming is record with every field optional, so a missing field can be
// told apart from its zero value.
type incoming struct {
	Hash         *Hash      `json:"hash"`
	Title        *string    `json:"title"`
	Description  *string    `json:"description"`
	Type         *Type      `json:"type"`
	Parent       *Hash      `json:"parent"`
	Author       *string    `json:"author"`
	AssignedTo   *string    `json:"assigned_to"`
	Priority     *Priority  `json:"priority"`
	Status       *Status    `json:"status"`
	Progress     *uint8     `json:"progress"`
	CreationDate *time.Time `json:"creation_date"`
	StartDate    *time.Time `json:"start_date"`
	DueDate      *time.Time `json:"due_date"`
}

var errMissingField = errors.New("missing required field")

// missing names the first required field absent from r.
func (r *incoming) missing() (string, bool) {
	required := []struct {
		name    string
		present bool
	}{
		{"hash", r.Hash != nil},
		{"title", r.Title != nil},
		{"type", r.Type != nil},
		{"author", r.Author != nil},
		{"priority", r.Priority != nil},
		{"status", r.Status != nil},
		{"progress", r.Progress != nil},
		{"creation_date", r.CreationDate != nil},
		{"start_date", r.StartDate != nil},
	}
	for _, f := range required {
		if !f.present {
			return f.name, true
		}
	}
	return "", false
}

// UnmarshalJSON implements json.Unmarshaler. Every required field must be
// present and the decoded issue must pass Validate; i is left untouched on
// error.
func (i *Issue) UnmarshalJSON(data []byte) error {
	var r incoming
	if err := json.Unmarshal(data, &r); err != nil {
		return err
	}
	if name, ok := r.missing(); ok {
		return &ParseError{Kind: "record", Text: name, Err: errMissingField}
	}
	decoded := Issue{
		hash:         *r.Hash,
		title:        *r.Title,
		description:  r.Description,
		typ:          *r.Type,
		parent:       r.Parent,
		author:       *r.Author,
		assignedTo:   r.AssignedTo,
		priority:     *r.Priority,
		status:       *r.Status,
		progress:     *r.Progress,
		creationDate: *r.CreationDate,
		startDate:    *r.StartDate,
		dueDate:      r.DueDate,
	}
	if err := decoded.Validate(); err != nil {
		return err
	}
	*i = decoded
	return nil
}
