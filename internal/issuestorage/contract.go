package issuestorage

import (
	"errors"
	"testing"
	"time"

	"cobweb/internal/issue"

	"github.com/google/go-cmp/cmp"
)

// RunContractTests runs the contract test suite against a Store implementation.
// Each storage engine should call this with its own factory function to ensure
// consistent behavior across all implementations.
func RunContractTests(t *testing.T, factory func() Store) {
	t.Run("WriteRead", func(t *testing.T) { testWriteRead(t, factory()) })
	t.Run("ReadMissing", func(t *testing.T) { testReadMissing(t, factory()) })
	t.Run("Overwrite", func(t *testing.T) { testOverwrite(t, factory()) })
	t.Run("Exists", func(t *testing.T) { testExists(t, factory()) })
	t.Run("Remove", func(t *testing.T) { testRemove(t, factory()) })
	t.Run("Hashes", func(t *testing.T) { testHashes(t, factory()) })
	t.Run("ReplaceAll", func(t *testing.T) { testReplaceAll(t, factory()) })
	t.Run("ReplaceAllInvalid", func(t *testing.T) { testReplaceAllInvalid(t, factory()) })
}

var issueCmp = cmp.AllowUnexported(issue.Issue{})

func fullIssue(title string) *issue.Issue {
	i := issue.New("alice", title)
	i.SetDescription("line one\nline two")
	i.SetType(issue.TypeFeature)
	i.SetAssignedTo("bob")
	i.SetPriority(issue.PriorityHigh)
	i.SetStatus(issue.StatusReview)
	_ = i.SetProgress(70)
	i.SetStartDate(time.Date(2024, 4, 23, 10, 23, 0, 0, time.UTC))
	i.SetDueDate(time.Date(2024, 5, 1, 17, 0, 0, 0, time.UTC))
	return i
}

func mustWrite(t *testing.T, s Store, i *issue.Issue) {
	t.Helper()
	if err := s.WriteIssue(i); err != nil {
		t.Fatalf("WriteIssue %s: %v", i.Hash(), err)
	}
}

func testWriteRead(t *testing.T, s Store) {
	parent := issue.New("carol", "parent")
	mustWrite(t, s, parent)

	want := fullIssue("child")
	want.SetParent(parent.Hash())
	mustWrite(t, s, want)

	got, err := s.ReadIssue(want.Hash())
	if err != nil {
		t.Fatalf("ReadIssue: %v", err)
	}
	if diff := cmp.Diff(want, got, issueCmp); diff != "" {
		t.Errorf("ReadIssue mismatch (-want +got):\n%s", diff)
	}
}

func testReadMissing(t *testing.T, s Store) {
	_, err := s.ReadIssue(issue.New("alice", "never written").Hash())
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("ReadIssue of missing record: got %v, want ErrNotFound", err)
	}
}

func testOverwrite(t *testing.T, s Store) {
	i := issue.New("alice", "first title")
	mustWrite(t, s, i)

	edited := i.Clone()
	if err := edited.SetTitle("second title"); err != nil {
		t.Fatal(err)
	}
	mustWrite(t, s, edited)

	got, err := s.ReadIssue(i.Hash())
	if err != nil {
		t.Fatalf("ReadIssue: %v", err)
	}
	if got.Title() != "second title" {
		t.Errorf("Title = %q, want %q", got.Title(), "second title")
	}
	hashes, err := s.Hashes()
	if err != nil {
		t.Fatalf("Hashes: %v", err)
	}
	if len(hashes) != 1 {
		t.Errorf("Hashes() has %d entries after overwrite, want 1", len(hashes))
	}
}

func testExists(t *testing.T, s Store) {
	i := issue.New("alice", "exists")
	if s.IssueExists(i.Hash()) {
		t.Error("IssueExists before write = true")
	}
	mustWrite(t, s, i)
	if !s.IssueExists(i.Hash()) {
		t.Error("IssueExists after write = false")
	}
}

func testRemove(t *testing.T, s Store) {
	keep := issue.New("alice", "keep")
	drop := issue.New("alice", "drop")
	mustWrite(t, s, keep)
	mustWrite(t, s, drop)

	if err := s.RemoveIssue(drop.Hash()); err != nil {
		t.Fatalf("RemoveIssue: %v", err)
	}
	if s.IssueExists(drop.Hash()) {
		t.Error("removed issue still exists")
	}
	if !s.IssueExists(keep.Hash()) {
		t.Error("RemoveIssue removed the wrong record")
	}
	if err := s.RemoveIssue(drop.Hash()); !errors.Is(err, ErrNotFound) {
		t.Errorf("second RemoveIssue: got %v, want ErrNotFound", err)
	}
}

func testHashes(t *testing.T, s Store) {
	hashes, err := s.Hashes()
	if err != nil {
		t.Fatalf("Hashes on empty store: %v", err)
	}
	if len(hashes) != 0 {
		t.Fatalf("empty store has %d hashes", len(hashes))
	}

	written := make(map[issue.Hash]bool)
	for n := 0; n < 10; n++ {
		i := issue.New("alice", "issue")
		mustWrite(t, s, i)
		written[i.Hash()] = true
	}

	hashes, err = s.Hashes()
	if err != nil {
		t.Fatalf("Hashes: %v", err)
	}
	if len(hashes) != len(written) {
		t.Fatalf("Hashes() returned %d, want %d", len(hashes), len(written))
	}
	for n, h := range hashes {
		if !written[h] {
			t.Errorf("Hashes() returned unknown hash %s", h)
		}
		if n > 0 && hashes[n-1].Compare(h) >= 0 {
			t.Errorf("Hashes() not ascending at %d: %s >= %s", n, hashes[n-1], h)
		}
	}
}

func testReplaceAll(t *testing.T, s Store) {
	old := issue.New("alice", "old")
	kept := issue.New("alice", "kept")
	mustWrite(t, s, old)
	mustWrite(t, s, kept)

	editedKept := kept.Clone()
	editedKept.Close()
	added := fullIssue("added")

	if err := s.ReplaceAll([]*issue.Issue{editedKept, added}); err != nil {
		t.Fatalf("ReplaceAll: %v", err)
	}

	if s.IssueExists(old.Hash()) {
		t.Error("ReplaceAll kept a record missing from the new collection")
	}
	got, err := s.ReadIssue(kept.Hash())
	if err != nil {
		t.Fatalf("ReadIssue kept: %v", err)
	}
	if got.Status() != issue.StatusClosed {
		t.Errorf("kept status = %v, want Closed", got.Status())
	}
	gotAdded, err := s.ReadIssue(added.Hash())
	if err != nil {
		t.Fatalf("ReadIssue added: %v", err)
	}
	if diff := cmp.Diff(added, gotAdded, issueCmp); diff != "" {
		t.Errorf("added mismatch (-want +got):\n%s", diff)
	}

	if err := s.ReplaceAll(nil); err != nil {
		t.Fatalf("ReplaceAll(nil): %v", err)
	}
	hashes, err := s.Hashes()
	if err != nil {
		t.Fatalf("Hashes: %v", err)
	}
	if len(hashes) != 0 {
		t.Errorf("ReplaceAll(nil) left %d records", len(hashes))
	}
}

func testReplaceAllInvalid(t *testing.T, s Store) {
	existing := issue.New("alice", "existing")
	mustWrite(t, s, existing)

	valid := issue.New("alice", "valid")
	invalid := issue.New("alice", "")
	if err := s.ReplaceAll([]*issue.Issue{valid, invalid}); err == nil {
		t.Fatal("ReplaceAll accepted an issue without title")
	}
	if err := s.ReplaceAll([]*issue.Issue{valid, valid}); err == nil {
		t.Fatal("ReplaceAll accepted a duplicate hash")
	}

	if !s.IssueExists(existing.Hash()) {
		t.Error("failed ReplaceAll lost the existing collection")
	}
	if s.IssueExists(valid.Hash()) {
		t.Error("failed ReplaceAll wrote part of the new collection")
	}
}
