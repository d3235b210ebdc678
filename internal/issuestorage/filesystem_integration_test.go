package issuestorage_test

import (
	"testing"

	"cobweb/internal/issuestorage"
	"cobweb/internal/issuestorage/filesystem"
)

// TestFilesystemContract runs the storage contract tests against the filesystem Storage.
func TestFilesystemContract(t *testing.T) {
	factory := func() issuestorage.Store {
		s, err := filesystem.Init(t.TempDir())
		if err != nil {
			t.Fatalf("Init failed: %v", err)
		}
		return s
	}
	issuestorage.RunContractTests(t, factory)
}
