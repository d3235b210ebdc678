// Package issuestorage defines the persistence contract for cobweb issues
// and the layout of the metadata directory.
package issuestorage

import (
	"errors"

	"cobweb/internal/issue"
)

// Sentinel errors returned by Store implementations.
var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
)

// Metadata directory layout.
const (
	// MetaDir marks a repository root and holds all records.
	MetaDir = ".cobweb"
	// IssuesDir holds one record per issue, named <hash>.json.
	IssuesDir = "issues"
	// ConfigFile is the flat YAML configuration file.
	ConfigFile = "config.yaml"
	// RecordExt is the extension of issue records.
	RecordExt = ".json"

	// StagingPrefix and OldPrefix name the directories used while the full
	// collection is swapped in by ReplaceAll.
	StagingPrefix = IssuesDir + ".staging-"
	OldPrefix     = IssuesDir + ".old-"
)

// Store is the persistence contract the issue handler depends on.
// Implementations interpret records only as far as needed to name and
// locate them; they do no filtering or dependency reasoning.
type Store interface {
	// Hashes lists the hashes of every persisted issue in ascending order.
	Hashes() ([]issue.Hash, error)

	// ReadIssue loads one record.
	// Returns ErrNotFound if no record exists for h.
	ReadIssue(h issue.Hash) (*issue.Issue, error)

	// WriteIssue creates or replaces the record of i.
	WriteIssue(i *issue.Issue) error

	// ReplaceAll makes issues the complete persisted collection. The new
	// collection is staged and swapped in, so a failure leaves the previous
	// collection intact.
	ReplaceAll(issues []*issue.Issue) error

	// IssueExists reports whether a record exists for h without loading it.
	IssueExists(h issue.Hash) bool

	// RemoveIssue deletes exactly one record.
	// Returns ErrNotFound if no record exists for h.
	RemoveIssue(h issue.Hash) error
}
