// Package filesystem implements the issuestorage.Store interface using the local filesystem.
// Each issue is stored as a JSON file in .cobweb/issues/<hash>.json.
package filesystem

import (
	"bytes"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"cobweb/internal/config"
	"cobweb/internal/config/yamlstore"
	"cobweb/internal/issue"
	"cobweb/internal/issuestorage"
	"cobweb/internal/logger"

	"github.com/natefinch/atomic"
)

// Storage implements issuestorage.Store on a .cobweb metadata directory.
type Storage struct {
	root   string // directory containing .cobweb
	meta   string // path to .cobweb
	config *yamlstore.YAMLStore
	log    logger.Logger
}

var _ issuestorage.Store = (*Storage)(nil)

// Option configures a Storage instance.
type Option func(*Storage)

// WithLogger sets the logger used for debug tracing of disk operations.
func WithLogger(l logger.Logger) Option {
	return func(s *Storage) {
		s.log = l.WithFields("component", "storage")
	}
}

// FindFromPath walks up from start looking for a .cobweb directory and
// opens the repository that owns it.
// Returns issuestorage.ErrNotFound if the filesystem root is reached first.
func FindFromPath(start string, opts ...Option) (*Storage, error) {
	abs, err := filepath.Abs(start)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", start, err)
	}

	dir := abs
	for {
		info, err := os.Stat(filepath.Join(dir, issuestorage.MetaDir))
		if err == nil && info.IsDir() {
			return open(dir, opts...)
		}
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("searching for %s: %w", issuestorage.MetaDir, err)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, fmt.Errorf("no %s directory found (searched from %s to /): %w",
				issuestorage.MetaDir, abs, issuestorage.ErrNotFound)
		}
		dir = parent
	}
}

// Init creates a fresh .cobweb directory under path with an empty issue
// collection and the default configuration.
// Returns issuestorage.ErrAlreadyExists if path already holds one.
func Init(path string, opts ...Option) (*Storage, error) {
	meta := filepath.Join(path, issuestorage.MetaDir)
	if _, err := os.Lstat(meta); err == nil {
		return nil, fmt.Errorf("%s: %w", meta, issuestorage.ErrAlreadyExists)
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Join(meta, issuestorage.IssuesDir), 0755); err != nil {
		return nil, fmt.Errorf("creating %s: %w", meta, err)
	}

	cfg, err := yamlstore.New(filepath.Join(meta, issuestorage.ConfigFile))
	if err != nil {
		return nil, err
	}
	if err := config.ApplyDefaults(cfg); err != nil {
		return nil, fmt.Errorf("writing default config: %w", err)
	}
	if err := syncDir(meta); err != nil {
		return nil, err
	}

	return open(path, opts...)
}

func open(root string, opts ...Option) (*Storage, error) {
	s := &Storage{
		root: root,
		meta: filepath.Join(root, issuestorage.MetaDir),
		log:  logger.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.recoverStaged(); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(s.issuesDir(), 0755); err != nil {
		return nil, err
	}

	cfg, err := yamlstore.New(filepath.Join(s.meta, issuestorage.ConfigFile))
	if err != nil {
		return nil, err
	}
	config.ApplyEnvOverrides(cfg)
	s.config = cfg

	s.log.Debug("opened repository", "root", root)
	return s, nil
}

// Root returns the directory that contains .cobweb.
func (s *Storage) Root() string {
	return s.root
}

// MetaDir returns the path of the .cobweb directory.
func (s *Storage) MetaDir() string {
	return s.meta
}

// Config returns the repository configuration with environment overrides
// applied.
func (s *Storage) Config() config.Config {
	return config.Load(s.config)
}

// ConfigStore exposes the backing key/value store for config edits.
func (s *Storage) ConfigStore() config.Store {
	return s.config
}

func (s *Storage) issuesDir() string {
	return filepath.Join(s.meta, issuestorage.IssuesDir)
}

func recordName(h issue.Hash) string {
	return h.String() + issuestorage.RecordExt
}

func (s *Storage) issuePath(h issue.Hash) string {
	return filepath.Join(s.issuesDir(), recordName(h))
}

// Hashes lists the hashes of every record in ascending order.
func (s *Storage) Hashes() ([]issue.Hash, error) {
	entries, err := os.ReadDir(s.issuesDir())
	if err != nil {
		return nil, fmt.Errorf("listing issues: %w", err)
	}

	hashes := make([]issue.Hash, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != issuestorage.RecordExt {
			continue
		}
		h, err := issue.ParseHash(strings.TrimSuffix(name, issuestorage.RecordExt))
		if err != nil {
			return nil, fmt.Errorf("record %s: %w", name, err)
		}
		hashes = append(hashes, h)
	}
	sort.Slice(hashes, func(i, j int) bool {
		return hashes[i].Compare(hashes[j]) < 0
	})
	return hashes, nil
}

// ReadIssue loads and validates the record of h.
func (s *Storage) ReadIssue(h issue.Hash) (*issue.Issue, error) {
	path := s.issuePath(h)
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("issue %s: %w", h, issuestorage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("reading issue %s: %w", h, err)
	}

	var i issue.Issue
	if err := json.Unmarshal(data, &i); err != nil {
		if errors.Is(err, issue.ErrParse) {
			return nil, fmt.Errorf("record %s: %w", path, err)
		}
		return nil, &issue.ParseError{Kind: "record", Text: path, Err: err}
	}
	if i.Hash() != h {
		return nil, &issue.ParseError{
			Kind: "record",
			Text: path,
			Err:  fmt.Errorf("holds issue %s", i.Hash()),
		}
	}
	return &i, nil
}

// WriteIssue creates or replaces the record of i.
func (s *Storage) WriteIssue(i *issue.Issue) error {
	if err := writeRecord(s.issuesDir(), i); err != nil {
		return err
	}
	if err := syncDir(s.issuesDir()); err != nil {
		return err
	}
	s.log.Debug("wrote issue", "hash", i.Hash())
	return nil
}

// ReplaceAll writes issues into a staging directory and swaps it in for
// the current collection with two renames. Any failure before the swap
// leaves the current collection untouched; a crash during the swap is
// repaired the next time the repository is opened.
func (s *Storage) ReplaceAll(issues []*issue.Issue) error {
	seen := make(map[issue.Hash]bool, len(issues))
	for _, i := range issues {
		if err := i.Validate(); err != nil {
			return fmt.Errorf("issue %s: %w", i.Hash(), err)
		}
		if seen[i.Hash()] {
			return fmt.Errorf("issue %s: duplicate hash: %w", i.Hash(), issuestorage.ErrAlreadyExists)
		}
		seen[i.Hash()] = true
	}

	suffix, err := randomSuffix()
	if err != nil {
		return err
	}
	staging := filepath.Join(s.meta, issuestorage.StagingPrefix+suffix)
	old := filepath.Join(s.meta, issuestorage.OldPrefix+suffix)

	if err := os.Mkdir(staging, 0755); err != nil {
		return fmt.Errorf("creating staging directory: %w", err)
	}
	for _, i := range issues {
		if err := writeRecord(staging, i); err != nil {
			os.RemoveAll(staging)
			return err
		}
	}
	if err := syncDir(staging); err != nil {
		os.RemoveAll(staging)
		return err
	}

	current := s.issuesDir()
	if err := os.Rename(current, old); err != nil {
		os.RemoveAll(staging)
		return fmt.Errorf("moving current issues aside: %w", err)
	}
	if err := os.Rename(staging, current); err != nil {
		// Put the previous collection back.
		if rbErr := os.Rename(old, current); rbErr != nil {
			return fmt.Errorf("swapping in new issues: %w (rollback failed: %v)", err, rbErr)
		}
		os.RemoveAll(staging)
		return fmt.Errorf("swapping in new issues: %w", err)
	}
	if err := syncDir(s.meta); err != nil {
		return err
	}
	if err := os.RemoveAll(old); err != nil {
		s.log.Warn("could not remove previous issues", "path", old, "error", err)
	}

	s.log.Debug("replaced issue collection", "count", len(issues))
	return nil
}

// IssueExists reports whether a record exists for h.
func (s *Storage) IssueExists(h issue.Hash) bool {
	info, err := os.Stat(s.issuePath(h))
	return err == nil && info.Mode().IsRegular()
}

// RemoveIssue deletes the record of h and flushes the directory entry.
func (s *Storage) RemoveIssue(h issue.Hash) error {
	err := os.Remove(s.issuePath(h))
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("issue %s: %w", h, issuestorage.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("removing issue %s: %w", h, err)
	}
	if err := syncDir(s.issuesDir()); err != nil {
		return err
	}
	s.log.Debug("removed issue", "hash", h)
	return nil
}

// recoverStaged repairs the metadata directory after a ReplaceAll that
// crashed. If the issues directory is missing the swap was cut between its
// two renames: the staged collection was complete by then, so it is moved
// into place (or the previous one when no staging directory survived).
// Leftover staging and old directories are then removed.
func (s *Storage) recoverStaged() error {
	entries, err := os.ReadDir(s.meta)
	if err != nil {
		return fmt.Errorf("reading %s: %w", s.meta, err)
	}

	var staged, olds []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		switch name := entry.Name(); {
		case strings.HasPrefix(name, issuestorage.StagingPrefix):
			staged = append(staged, name)
		case strings.HasPrefix(name, issuestorage.OldPrefix):
			olds = append(olds, name)
		}
	}
	if len(staged) == 0 && len(olds) == 0 {
		return nil
	}

	current := s.issuesDir()
	if _, err := os.Stat(current); errors.Is(err, os.ErrNotExist) {
		for _, o := range olds {
			suffix := strings.TrimPrefix(o, issuestorage.OldPrefix)
			from := filepath.Join(s.meta, o)
			if st := issuestorage.StagingPrefix + suffix; contains(staged, st) {
				from = filepath.Join(s.meta, st)
			}
			if err := os.Rename(from, current); err != nil {
				return fmt.Errorf("recovering issues from %s: %w", from, err)
			}
			s.log.Warn("recovered interrupted issue swap", "from", from)
			break
		}
	}

	for _, name := range append(staged, olds...) {
		path := filepath.Join(s.meta, name)
		if err := os.RemoveAll(path); err != nil {
			return fmt.Errorf("removing %s: %w", path, err)
		}
		s.log.Debug("removed leftover directory", "path", path)
	}
	return syncDir(s.meta)
}

// writeRecord atomically writes i as indented JSON into dir.
func writeRecord(dir string, i *issue.Issue) error {
	if err := i.Validate(); err != nil {
		return fmt.Errorf("issue %s: %w", i.Hash(), err)
	}
	data, err := json.MarshalIndent(i, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding issue %s: %w", i.Hash(), err)
	}
	data = append(data, '\n')

	path := filepath.Join(dir, recordName(i.Hash()))
	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("writing issue %s: %w", i.Hash(), err)
	}
	// atomic.WriteFile leaves the temp file's 0600 mode in place.
	if err := os.Chmod(path, 0644); err != nil {
		return fmt.Errorf("writing issue %s: %w", i.Hash(), err)
	}
	return nil
}

// syncDir flushes directory entries so renames and unlinks survive a crash.
func syncDir(dir string) error {
	d, err := os.Open(dir)
	if err != nil {
		return err
	}
	defer d.Close()
	if err := d.Sync(); err != nil {
		return fmt.Errorf("syncing %s: %w", dir, err)
	}
	return nil
}

func randomSuffix() (string, error) {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generating random suffix: %w", err)
	}
	return hex.EncodeToString(b), nil
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
