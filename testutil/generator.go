// Package testutil provides test utilities for cobweb storage testing.
package testutil

import (
	"fmt"
	"math/rand"
	"time"

	"cobweb/internal/issue"
	"cobweb/internal/issuestorage"
)

// IssueGenerator creates test issues with various parent patterns.
type IssueGenerator struct {
	store  issuestorage.Store
	hashes []issue.Hash
	rng    *rand.Rand
}

// NewIssueGenerator creates a new generator writing to the given store.
// Generated field values are reproducible for a given seed.
func NewIssueGenerator(s issuestorage.Store, seed int64) *IssueGenerator {
	return &IssueGenerator{
		store: s,
		rng:   rand.New(rand.NewSource(seed)),
	}
}

// Hashes returns all issue hashes created by this generator, in creation order.
func (g *IssueGenerator) Hashes() []issue.Hash {
	return g.hashes
}

// Cleanup removes all issues created by this generator.
func (g *IssueGenerator) Cleanup() error {
	// Children were created after their parents.
	for i := len(g.hashes) - 1; i >= 0; i-- {
		if err := g.store.RemoveIssue(g.hashes[i]); err != nil {
			return fmt.Errorf("cleanup issue %s: %w", g.hashes[i], err)
		}
	}
	g.hashes = g.hashes[:0]
	return nil
}

func (g *IssueGenerator) write(i *issue.Issue) error {
	if err := g.store.WriteIssue(i); err != nil {
		return err
	}
	g.hashes = append(g.hashes, i.Hash())
	return nil
}

// GenerateTree creates a hierarchy of issues with the specified depth and breadth.
// Each level has 'breadth' children, creating breadth + breadth^2 + ... +
// breadth^depth issues in total.
func (g *IssueGenerator) GenerateTree(depth, breadth int) error {
	return g.generateTreeRecursive(nil, depth, breadth)
}

func (g *IssueGenerator) generateTreeRecursive(parent *issue.Hash, depth, breadth int) error {
	if depth == 0 {
		return nil
	}
	for n := 0; n < breadth; n++ {
		i := issue.New("generator", fmt.Sprintf("Level %d Issue %d", depth, n))
		i.SetType(issue.TypeTask)
		if parent != nil {
			i.SetParent(*parent)
		}
		if err := g.write(i); err != nil {
			return fmt.Errorf("create issue at depth %d: %w", depth, err)
		}

		h := i.Hash()
		if err := g.generateTreeRecursive(&h, depth-1, breadth); err != nil {
			return err
		}
	}
	return nil
}

// GenerateChain creates a linear parent chain: each issue is the child of
// the one before it. Returns the hashes from the top of the chain down.
func (g *IssueGenerator) GenerateChain(length int) ([]issue.Hash, error) {
	if length <= 0 {
		return nil, nil
	}

	hashes := make([]issue.Hash, length)
	for n := 0; n < length; n++ {
		i := issue.New("generator", fmt.Sprintf("Chain %d", n))
		if n > 0 {
			i.SetParent(hashes[n-1])
		}
		if err := g.write(i); err != nil {
			return nil, fmt.Errorf("create chain issue %d: %w", n, err)
		}
		hashes[n] = i.Hash()
	}
	return hashes, nil
}

// GenerateRandom creates count unrelated issues with randomized type,
// priority, status, progress and dates.
func (g *IssueGenerator) GenerateRandom(count int) ([]*issue.Issue, error) {
	types := issue.Types()
	priorities := issue.Priorities()
	statuses := issue.Statuses()
	authors := []string{"alice", "bob", "carol", "dave"}
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	out := make([]*issue.Issue, 0, count)
	for n := 0; n < count; n++ {
		i := issue.New(authors[g.rng.Intn(len(authors))], fmt.Sprintf("Random %d", n))
		i.SetType(types[g.rng.Intn(len(types))])
		i.SetPriority(priorities[g.rng.Intn(len(priorities))])
		i.SetStatus(statuses[g.rng.Intn(len(statuses))])
		if err := i.SetProgress(uint8(g.rng.Intn(issue.MaxProgress + 1))); err != nil {
			return nil, err
		}
		start := base.Add(time.Duration(g.rng.Intn(365*24)) * time.Hour)
		i.SetStartDate(start)
		if g.rng.Intn(2) == 0 {
			i.SetDueDate(start.Add(time.Duration(g.rng.Intn(90*24)) * time.Hour))
		}
		if g.rng.Intn(3) == 0 {
			i.SetAssignedTo(authors[g.rng.Intn(len(authors))])
		}
		if err := g.write(i); err != nil {
			return nil, fmt.Errorf("create random issue %d: %w", n, err)
		}
		out = append(out, i)
	}
	return out, nil
}
