// Package issueservice holds the in-memory issue set of one invocation and
// the domain logic on top of it: parent validation, dependency closure and
// ordered, filtered listing. Storage backends stay pure record I/O.
package issueservice

import (
	"fmt"
	"sort"

	"cobweb/internal/graph"
	"cobweb/internal/issue"
	"cobweb/internal/issuefilter"
	"cobweb/internal/issuestorage"
	"cobweb/internal/logger"
)

// Handler owns the issues loaded for one process. It is not safe for
// concurrent use.
type Handler struct {
	issues map[issue.Hash]*issue.Issue
	log    logger.Logger
}

// Option configures a Handler.
type Option func(*Handler)

// WithLogger sets the logger used for debug tracing.
func WithLogger(l logger.Logger) Option {
	return func(h *Handler) {
		h.log = l.WithFields("component", "issues")
	}
}

// New creates an empty Handler.
func New(opts ...Option) *Handler {
	h := &Handler{
		issues: make(map[issue.Hash]*issue.Issue),
		log:    logger.NewNop(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// ReadIssues loads every record from store. Either all records load and
// replace the current set, or an error is returned and the current set is
// left as it was.
func (h *Handler) ReadIssues(store issuestorage.Store) error {
	hashes, err := store.Hashes()
	if err != nil {
		return err
	}

	loaded := make(map[issue.Hash]*issue.Issue, len(hashes))
	for _, hash := range hashes {
		i, err := store.ReadIssue(hash)
		if err != nil {
			return fmt.Errorf("loading issues: %w", err)
		}
		loaded[hash] = i
	}

	h.issues = loaded
	h.log.Debug("loaded issues", "count", len(loaded))
	return nil
}

// WriteIssues persists the whole set. The store swaps the new collection in
// at once, so a failure leaves the previous records in place.
func (h *Handler) WriteIssues(store issuestorage.Store) error {
	if err := store.ReplaceAll(h.Issues()); err != nil {
		return fmt.Errorf("writing issues: %w", err)
	}
	h.log.Debug("wrote issues", "count", len(h.issues))
	return nil
}

// Insert adds i, fully replacing any issue with the same hash.
func (h *Handler) Insert(i *issue.Issue) {
	h.issues[i.Hash()] = i
}

// Issue looks up one issue by hash.
func (h *Handler) Issue(hash issue.Hash) (*issue.Issue, bool) {
	i, ok := h.issues[hash]
	return i, ok
}

// Len returns the number of issues held.
func (h *Handler) Len() int {
	return len(h.issues)
}

// Issues returns every issue ordered by creation date, then hash.
func (h *Handler) Issues() []*issue.Issue {
	out := make([]*issue.Issue, 0, len(h.issues))
	for _, i := range h.issues {
		out = append(out, i)
	}
	sort.Slice(out, func(a, b int) bool {
		ca, cb := out[a].CreationDate(), out[b].CreationDate()
		if !ca.Equal(cb) {
			return ca.Before(cb)
		}
		return out[a].Hash().Compare(out[b].Hash()) < 0
	})
	return out
}

// Filtered returns the issues matching f, in the order of Issues.
func (h *Handler) Filtered(f *issuefilter.Filter) []*issue.Issue {
	return f.Select(h.Issues())
}

// FindDependentIssues returns hash followed by every issue that has it as
// an ancestor, each parent before its children.
// Returns issuestorage.ErrNotFound for an unknown hash and graph.ErrCycle
// if the parent relation loops.
func (h *Handler) FindDependentIssues(hash issue.Hash) ([]issue.Hash, error) {
	if _, ok := h.issues[hash]; !ok {
		return nil, fmt.Errorf("issue %s: %w", hash, issuestorage.ErrNotFound)
	}
	return graph.DependentClosure(hash, h.issues)
}

// ValidateParent checks that parent can become the parent of child: it
// must be a known issue and must not be child itself or one of its
// descendants.
func (h *Handler) ValidateParent(child, parent issue.Hash) error {
	if _, ok := h.issues[parent]; !ok {
		return fmt.Errorf("parent %s: %w", parent, issuestorage.ErrNotFound)
	}
	if child == parent {
		return fmt.Errorf("issue %s as its own parent: %w", child, graph.ErrCycle)
	}

	ancestors, err := graph.Ancestors(parent, h.issues)
	if err != nil {
		return err
	}
	for _, a := range ancestors {
		if a == child {
			return fmt.Errorf("parent %s descends from %s: %w", parent, child, graph.ErrCycle)
		}
	}
	return nil
}

// RemoveWithDependents deletes hash and all of its dependents from store
// and from the handler, children first. It stops at the first failure;
// the hashes removed up to then are returned with the error.
func (h *Handler) RemoveWithDependents(store issuestorage.Store, hash issue.Hash) ([]issue.Hash, error) {
	closure, err := h.FindDependentIssues(hash)
	if err != nil {
		return nil, err
	}

	removed := make([]issue.Hash, 0, len(closure))
	for n := len(closure) - 1; n >= 0; n-- {
		target := closure[n]
		if err := store.RemoveIssue(target); err != nil {
			return removed, fmt.Errorf("removing issue %s: %w", target, err)
		}
		delete(h.issues, target)
		removed = append(removed, target)
		h.log.Debug("removed issue", "hash", target)
	}
	return removed, nil
}
