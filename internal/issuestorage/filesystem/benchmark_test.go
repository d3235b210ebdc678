package filesystem

import (
	"fmt"
	"testing"

	"cobweb/internal/issue"
)

func setupBenchmarkStorage(b *testing.B) *Storage {
	b.Helper()
	s, err := Init(b.TempDir())
	if err != nil {
		b.Fatal(err)
	}
	return s
}

func benchmarkIssues(n int) []*issue.Issue {
	issues := make([]*issue.Issue, n)
	for i := range issues {
		issues[i] = issue.New("bench", fmt.Sprintf("Issue %d", i))
		issues[i].SetDescription("A test issue for benchmarking")
	}
	return issues
}

// BenchmarkWriteIssue measures the time to write a single record.
func BenchmarkWriteIssue(b *testing.B) {
	s := setupBenchmarkStorage(b)
	i := benchmarkIssues(1)[0]

	b.ResetTimer()
	for n := 0; n < b.N; n++ {
		if err := s.WriteIssue(i); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkReadIssue measures the time to load a record by hash.
func BenchmarkReadIssue(b *testing.B) {
	s := setupBenchmarkStorage(b)
	i := benchmarkIssues(1)[0]
	if err := s.WriteIssue(i); err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for n := 0; n < b.N; n++ {
		if _, err := s.ReadIssue(i.Hash()); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkReplaceAll1000 measures a staged swap of 1000 records.
func BenchmarkReplaceAll1000(b *testing.B) {
	s := setupBenchmarkStorage(b)
	issues := benchmarkIssues(1000)

	b.ResetTimer()
	for n := 0; n < b.N; n++ {
		if err := s.ReplaceAll(issues); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkHashes1000 measures listing 1000 records.
func BenchmarkHashes1000(b *testing.B) {
	s := setupBenchmarkStorage(b)
	if err := s.ReplaceAll(benchmarkIssues(1000)); err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for n := 0; n < b.N; n++ {
		hashes, err := s.Hashes()
		if err != nil {
			b.Fatal(err)
		}
		if len(hashes) != 1000 {
			b.Fatalf("expected 1000 hashes, got %d", len(hashes))
		}
	}
}
