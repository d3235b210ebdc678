// Package issuefilter selects issues through a conjunction of optional
// per-field predicates.
package issuefilter

import (
	"fmt"
	"regexp"
	"time"

	"cobweb/internal/issue"
)

// Filter holds one optional predicate per filterable field. Unset slots
// match everything; an issue matches when every set slot matches.
//
// Exact slots: hash, type, parent, priority, status.
// Inclusive ranges: creation, start and due date, progress.
// Regular expressions (unanchored search): author, title, description,
// assigned to. Optional fields that are absent never match a set slot.
type Filter struct {
	hash     *issue.Hash
	typ      *issue.Type
	parent   *issue.Hash
	priority *issue.Priority
	status   *issue.Status

	author      *regexp.Regexp
	title       *regexp.Regexp
	description *regexp.Regexp
	assignedTo  *regexp.Regexp

	creation timeRange
	start    timeRange
	due      timeRange

	progressFrom *uint8
	progressTo   *uint8
}

type timeRange struct {
	from *time.Time
	to   *time.Time
}

func (r timeRange) set() bool {
	return r.from != nil || r.to != nil
}

func (r timeRange) contains(t time.Time) bool {
	if r.from != nil && t.Before(*r.from) {
		return false
	}
	if r.to != nil && t.After(*r.to) {
		return false
	}
	return true
}

// New returns a filter that matches every issue.
func New() *Filter {
	return &Filter{}
}

// SetHashMatch keeps only the issue with hash h.
func (f *Filter) SetHashMatch(h issue.Hash) { f.hash = &h }

// SetTypeMatch keeps issues of type t.
func (f *Filter) SetTypeMatch(t issue.Type) { f.typ = &t }

// SetParentMatch keeps direct children of h.
func (f *Filter) SetParentMatch(h issue.Hash) { f.parent = &h }

// SetPriorityMatch keeps issues with priority p.
func (f *Filter) SetPriorityMatch(p issue.Priority) { f.priority = &p }

// SetStatusMatch keeps issues with status s.
func (f *Filter) SetStatusMatch(s issue.Status) { f.status = &s }

// SetCreationDateFromMatch keeps issues created at or after t.
func (f *Filter) SetCreationDateFromMatch(t time.Time) { f.creation.from = &t }

// SetCreationDateToMatch keeps issues created at or before t.
func (f *Filter) SetCreationDateToMatch(t time.Time) { f.creation.to = &t }

// SetStartDateFromMatch keeps issues starting at or after t.
func (f *Filter) SetStartDateFromMatch(t time.Time) { f.start.from = &t }

// SetStartDateToMatch keeps issues starting at or before t.
func (f *Filter) SetStartDateToMatch(t time.Time) { f.start.to = &t }

// SetDueDateFromMatch keeps issues due at or after t. Issues without a
// due date never match a due bound.
func (f *Filter) SetDueDateFromMatch(t time.Time) { f.due.from = &t }

// SetDueDateToMatch keeps issues due at or before t.
func (f *Filter) SetDueDateToMatch(t time.Time) { f.due.to = &t }

// SetAuthorMatch sets the author pattern. An invalid pattern is reported
// and the filter stays unchanged.
func (f *Filter) SetAuthorMatch(pattern string) error {
	return compileInto(&f.author, pattern)
}

// SetTitleMatch sets the title pattern.
func (f *Filter) SetTitleMatch(pattern string) error {
	return compileInto(&f.title, pattern)
}

// SetDescriptionMatch sets the description pattern.
func (f *Filter) SetDescriptionMatch(pattern string) error {
	return compileInto(&f.description, pattern)
}

// SetAssignedToMatch sets the assignee pattern.
func (f *Filter) SetAssignedToMatch(pattern string) error {
	return compileInto(&f.assignedTo, pattern)
}

func compileInto(slot **regexp.Regexp, pattern string) error {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return &issue.ParseError{Kind: "pattern", Text: pattern, Err: err}
	}
	*slot = re
	return nil
}

// SetProgressFromMatch sets the inclusive lower progress bound.
func (f *Filter) SetProgressFromMatch(p uint8) error {
	if p > issue.MaxProgress {
		return fmt.Errorf("lower progress bound %d: %w", p, issue.ErrOutOfRange)
	}
	f.progressFrom = &p
	return nil
}

// SetProgressToMatch sets the inclusive upper progress bound. A lower bound
// above the upper bound is allowed and simply matches nothing.
func (f *Filter) SetProgressToMatch(p uint8) error {
	if p > issue.MaxProgress {
		return fmt.Errorf("upper progress bound %d: %w", p, issue.ErrOutOfRange)
	}
	f.progressTo = &p
	return nil
}

// Matches reports whether i satisfies every set predicate.
func (f *Filter) Matches(i *issue.Issue) bool {
	if f.hash != nil && i.Hash() != *f.hash {
		return false
	}
	if f.typ != nil && i.Type() != *f.typ {
		return false
	}
	if f.parent != nil {
		parent, ok := i.Parent()
		if !ok || parent != *f.parent {
			return false
		}
	}
	if f.priority != nil && i.Priority() != *f.priority {
		return false
	}
	if f.status != nil && i.Status() != *f.status {
		return false
	}

	if f.author != nil && !f.author.MatchString(i.Author()) {
		return false
	}
	if f.title != nil && !f.title.MatchString(i.Title()) {
		return false
	}
	if f.description != nil {
		d, ok := i.Description()
		if !ok || !f.description.MatchString(d) {
			return false
		}
	}
	if f.assignedTo != nil {
		a, ok := i.AssignedTo()
		if !ok || !f.assignedTo.MatchString(a) {
			return false
		}
	}

	if f.creation.set() && !f.creation.contains(i.CreationDate()) {
		return false
	}
	if f.start.set() && !f.start.contains(i.StartDate()) {
		return false
	}
	if f.due.set() {
		due, ok := i.DueDate()
		if !ok || !f.due.contains(due) {
			return false
		}
	}

	if f.progressFrom != nil && i.Progress() < *f.progressFrom {
		return false
	}
	if f.progressTo != nil && i.Progress() > *f.progressTo {
		return false
	}
	return true
}

// Select returns the issues that match, in the order given.
func (f *Filter) Select(issues []*issue.Issue) []*issue.Issue {
	var out []*issue.Issue
	for _, i := range issues {
		if f.Matches(i) {
			out = append(out, i)
		}
	}
	return out
}
