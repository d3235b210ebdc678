package filesystem

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"cobweb/internal/config"
	"cobweb/internal/issue"
	"cobweb/internal/issuestorage"
	"cobweb/internal/logger"

	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()
	s, err := Init(t.TempDir())
	if err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	return s
}

func writeIssues(t *testing.T, s *Storage, titles ...string) []*issue.Issue {
	t.Helper()
	var out []*issue.Issue
	for _, title := range titles {
		i := issue.New("alice", title)
		if err := s.WriteIssue(i); err != nil {
			t.Fatalf("WriteIssue(%q): %v", title, err)
		}
		out = append(out, i)
	}
	return out
}

func TestInitCreatesLayout(t *testing.T) {
	dir := t.TempDir()
	s, err := Init(dir)
	if err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	if s.Root() != dir {
		t.Errorf("Root() = %q, want %q", s.Root(), dir)
	}
	if want := filepath.Join(dir, issuestorage.MetaDir); s.MetaDir() != want {
		t.Errorf("MetaDir() = %q, want %q", s.MetaDir(), want)
	}

	info, err := os.Stat(filepath.Join(dir, issuestorage.MetaDir, issuestorage.IssuesDir))
	if err != nil || !info.IsDir() {
		t.Fatalf("issues directory missing: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, issuestorage.MetaDir, issuestorage.ConfigFile))
	if err != nil {
		t.Fatalf("config file missing: %v", err)
	}
	if !strings.Contains(string(data), config.KeyUser) {
		t.Errorf("default config does not mention %q:\n%s", config.KeyUser, data)
	}

	hashes, err := s.Hashes()
	if err != nil {
		t.Fatalf("Hashes: %v", err)
	}
	if len(hashes) != 0 {
		t.Errorf("fresh repository has %d issues", len(hashes))
	}
}

func TestInitTwice(t *testing.T) {
	dir := t.TempDir()
	if _, err := Init(dir); err != nil {
		t.Fatalf("first Init failed: %v", err)
	}
	_, err := Init(dir)
	if !errors.Is(err, issuestorage.ErrAlreadyExists) {
		t.Errorf("second Init: got %v, want ErrAlreadyExists", err)
	}
}

func TestFindFromPathWalksUp(t *testing.T) {
	dir := t.TempDir()
	if _, err := Init(dir); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	nested := filepath.Join(dir, "src", "pkg", "deep")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}

	s, err := FindFromPath(nested)
	if err != nil {
		t.Fatalf("FindFromPath failed: %v", err)
	}
	// TempDir may sit behind a symlink, compare resolved paths.
	got, _ := filepath.EvalSymlinks(s.Root())
	want, _ := filepath.EvalSymlinks(dir)
	if got != want {
		t.Errorf("Root() = %q, want %q", got, want)
	}
}

func TestFindFromPathNotFound(t *testing.T) {
	_, err := FindFromPath(t.TempDir())
	if !errors.Is(err, issuestorage.ErrNotFound) {
		t.Errorf("FindFromPath outside a repository: got %v, want ErrNotFound", err)
	}
}

func TestFindFromPathIgnoresMarkerFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, issuestorage.MetaDir), nil, 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := FindFromPath(dir); !errors.Is(err, issuestorage.ErrNotFound) {
		t.Errorf("FindFromPath with a plain .cobweb file: got %v, want ErrNotFound", err)
	}
}

func TestRecordFormat(t *testing.T) {
	s := newTestStorage(t)
	i := writeIssues(t, s, "format")[0]

	data, err := os.ReadFile(s.issuePath(i.Hash()))
	if err != nil {
		t.Fatal(err)
	}
	text := string(data)
	if !strings.HasSuffix(text, "}\n") {
		t.Errorf("record is not newline terminated: %q", text)
	}
	for _, field := range []string{`"hash": "` + i.Hash().String() + `"`, `"type": "Bug"`, `"status": "Open"`, `"priority": "Medium"`} {
		if !strings.Contains(text, field) {
			t.Errorf("record missing %s:\n%s", field, text)
		}
	}

	info, err := os.Stat(s.issuePath(i.Hash()))
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0644 {
		t.Errorf("record mode = %o, want 644", perm)
	}
}

func TestHashesSkipsForeignFiles(t *testing.T) {
	s := newTestStorage(t)
	written := writeIssues(t, s, "one", "two")

	os.WriteFile(filepath.Join(s.issuesDir(), "README.md"), []byte("notes"), 0644)
	os.WriteFile(filepath.Join(s.issuesDir(), written[0].Hash().String()+".json123456"), []byte("{"), 0600)
	os.Mkdir(filepath.Join(s.issuesDir(), "sub"), 0755)

	hashes, err := s.Hashes()
	if err != nil {
		t.Fatalf("Hashes: %v", err)
	}
	if len(hashes) != 2 {
		t.Errorf("Hashes() = %v, want 2 entries", hashes)
	}
}

func TestHashesRejectsBadRecordName(t *testing.T) {
	s := newTestStorage(t)
	os.WriteFile(filepath.Join(s.issuesDir(), "not-a-hash.json"), []byte("{}"), 0644)

	_, err := s.Hashes()
	if !errors.Is(err, issue.ErrParse) {
		t.Errorf("Hashes with malformed record name: got %v, want ErrParse", err)
	}
}

func TestReadIssueCorrupt(t *testing.T) {
	s := newTestStorage(t)
	i := writeIssues(t, s, "corrupt")[0]

	tests := []struct {
		name string
		data string
	}{
		{"truncated", `{"hash": "` + i.Hash().String()},
		{"unknown status", strings.Replace(mustRead(t, s.issuePath(i.Hash())), `"Open"`, `"Sleeping"`, 1)},
		{"empty title", strings.Replace(mustRead(t, s.issuePath(i.Hash())), `"corrupt"`, `""`, 1)},
		{"missing priority", strings.Replace(mustRead(t, s.issuePath(i.Hash())), `"priority": "Medium",`, "", 1)},
		{"other hash", strings.Replace(mustRead(t, s.issuePath(i.Hash())), i.Hash().String(), "00000000000000ff", 1)},
	}
	original := mustRead(t, s.issuePath(i.Hash()))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := os.WriteFile(s.issuePath(i.Hash()), []byte(tt.data), 0644); err != nil {
				t.Fatal(err)
			}
			defer os.WriteFile(s.issuePath(i.Hash()), []byte(original), 0644)

			_, err := s.ReadIssue(i.Hash())
			if !errors.Is(err, issue.ErrParse) {
				t.Errorf("ReadIssue: got %v, want ErrParse", err)
			}
			var pe *issue.ParseError
			if !errors.As(err, &pe) {
				t.Errorf("ReadIssue error %T is not a *issue.ParseError", err)
			}
		})
	}
}

func mustRead(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func TestReplaceAllLeavesNoTransientDirs(t *testing.T) {
	s := newTestStorage(t)
	writeIssues(t, s, "a", "b")

	if err := s.ReplaceAll([]*issue.Issue{issue.New("bob", "c")}); err != nil {
		t.Fatalf("ReplaceAll: %v", err)
	}

	entries, err := os.ReadDir(s.MetaDir())
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), issuestorage.StagingPrefix) || strings.HasPrefix(e.Name(), issuestorage.OldPrefix) {
			t.Errorf("transient directory %s left behind", e.Name())
		}
	}
}

// simulateCrash lays out the metadata directory as ReplaceAll leaves it
// when interrupted after moving the current collection aside.
func simulateCrash(t *testing.T, s *Storage, staged []*issue.Issue, keepStaging bool) {
	t.Helper()
	const suffix = "0123456789abcdef"
	staging := filepath.Join(s.MetaDir(), issuestorage.StagingPrefix+suffix)
	if err := os.Mkdir(staging, 0755); err != nil {
		t.Fatal(err)
	}
	for _, i := range staged {
		if err := writeRecord(staging, i); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Rename(s.issuesDir(), filepath.Join(s.MetaDir(), issuestorage.OldPrefix+suffix)); err != nil {
		t.Fatal(err)
	}
	if !keepStaging {
		os.RemoveAll(staging)
	}
}

func TestRecoverRollsForward(t *testing.T) {
	s := newTestStorage(t)
	writeIssues(t, s, "old")
	next := issue.New("alice", "new")
	simulateCrash(t, s, []*issue.Issue{next}, true)

	reopened, err := FindFromPath(s.Root())
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	hashes, err := reopened.Hashes()
	if err != nil {
		t.Fatalf("Hashes: %v", err)
	}
	if len(hashes) != 1 || hashes[0] != next.Hash() {
		t.Errorf("after recovery Hashes() = %v, want [%s]", hashes, next.Hash())
	}
	assertNoTransient(t, reopened)
}

func TestRecoverRestoresPrevious(t *testing.T) {
	s := newTestStorage(t)
	prev := writeIssues(t, s, "old")[0]
	simulateCrash(t, s, nil, false)

	reopened, err := FindFromPath(s.Root())
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	if !reopened.IssueExists(prev.Hash()) {
		t.Error("previous collection was not restored")
	}
	assertNoTransient(t, reopened)
}

func TestRecoverDropsUnfinishedStaging(t *testing.T) {
	s := newTestStorage(t)
	prev := writeIssues(t, s, "old")[0]
	staging := filepath.Join(s.MetaDir(), issuestorage.StagingPrefix+"feedfacefeedface")
	if err := os.Mkdir(staging, 0755); err != nil {
		t.Fatal(err)
	}
	if err := writeRecord(staging, issue.New("alice", "half written")); err != nil {
		t.Fatal(err)
	}

	reopened, err := FindFromPath(s.Root())
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	hashes, err := reopened.Hashes()
	if err != nil {
		t.Fatal(err)
	}
	if len(hashes) != 1 || hashes[0] != prev.Hash() {
		t.Errorf("after recovery Hashes() = %v, want [%s]", hashes, prev.Hash())
	}
	assertNoTransient(t, reopened)
}

func assertNoTransient(t *testing.T, s *Storage) {
	t.Helper()
	entries, err := os.ReadDir(s.MetaDir())
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), issuestorage.StagingPrefix) || strings.HasPrefix(e.Name(), issuestorage.OldPrefix) {
			t.Errorf("transient directory %s survived recovery", e.Name())
		}
	}
}

func TestConfig(t *testing.T) {
	t.Setenv(config.EnvUser, "")
	s := newTestStorage(t)

	if got := s.Config().User; got != "" {
		t.Errorf("default Config().User = %q, want empty (placeholder)", got)
	}

	if err := s.ConfigStore().Set(config.KeyUser, "alice"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	reopened, err := FindFromPath(s.Root())
	if err != nil {
		t.Fatal(err)
	}
	if got := reopened.Config().User; got != "alice" {
		t.Errorf("Config().User after reopen = %q, want %q", got, "alice")
	}
}

func TestConfigEnvOverride(t *testing.T) {
	s := newTestStorage(t)
	if err := s.ConfigStore().Set(config.KeyUser, "alice"); err != nil {
		t.Fatal(err)
	}

	t.Setenv(config.EnvUser, "mallory")
	reopened, err := FindFromPath(s.Root())
	if err != nil {
		t.Fatal(err)
	}
	if got := reopened.Config().User; got != "mallory" {
		t.Errorf("Config().User = %q, want env override %q", got, "mallory")
	}

	data := mustRead(t, filepath.Join(s.MetaDir(), issuestorage.ConfigFile))
	if strings.Contains(data, "mallory") {
		t.Errorf("env override was persisted:\n%s", data)
	}
}

func TestLogsCarryComponent(t *testing.T) {
	dir := t.TempDir()
	if _, err := Init(dir); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	core, logs := observer.New(zapcore.DebugLevel)
	s, err := FindFromPath(dir, WithLogger(logger.NewWithCore(core)))
	if err != nil {
		t.Fatalf("FindFromPath failed: %v", err)
	}
	i := writeIssues(t, s, "logged")[0]

	written := logs.FilterMessage("wrote issue").All()
	if len(written) != 1 {
		t.Fatalf("expected 1 write entry, got %d", len(written))
	}
	fields := written[0].ContextMap()
	if fields["component"] != "storage" {
		t.Errorf("component = %v, want storage", fields["component"])
	}
	if fmt.Sprint(fields["hash"]) != i.Hash().String() {
		t.Errorf("hash = %v, want %s", fields["hash"], i.Hash())
	}
}
