// Package graph provides stateless traversal of the parent relation between issues.
// All functions take the full issue set as a map keyed by hash and keep no state.
// Import chain: issueservice → graph → issue.
package graph

import (
	"errors"
	"fmt"
	"sort"

	"cobweb/internal/issue"
)

// ErrCycle reports a parent chain that loops back on itself. Parents must
// exist before they are referenced, so a cycle means the records are corrupt.
var ErrCycle = errors.New("cycle in parent chain")

// Children indexes the issues by parent hash. Each child list is sorted by
// hash so traversals are deterministic.
func Children(issues map[issue.Hash]*issue.Issue) map[issue.Hash][]issue.Hash {
	children := make(map[issue.Hash][]issue.Hash)
	for h, i := range issues {
		if parent, ok := i.Parent(); ok {
			children[parent] = append(children[parent], h)
		}
	}
	for _, list := range children {
		sort.Slice(list, func(a, b int) bool { return list[a].Compare(list[b]) < 0 })
	}
	return children
}

// DependentClosure returns root followed by every issue that has root as an
// ancestor, breadth first, so each parent precedes all of its children.
// Reversing the result gives a safe deletion order.
// Each issue is visited at most once; reaching one twice returns ErrCycle.
func DependentClosure(root issue.Hash, issues map[issue.Hash]*issue.Issue) ([]issue.Hash, error) {
	children := Children(issues)

	result := []issue.Hash{root}
	visited := map[issue.Hash]bool{root: true}
	for next := 0; next < len(result); next++ {
		for _, child := range children[result[next]] {
			if visited[child] {
				return nil, fmt.Errorf("issue %s under %s: %w", child, result[next], ErrCycle)
			}
			visited[child] = true
			result = append(result, child)
		}
	}
	return result, nil
}

// Ancestors walks the parent chain of h and returns the parents nearest
// first. The walk stops at an issue without parent or at a parent missing
// from issues. A chain that revisits an issue returns ErrCycle.
func Ancestors(h issue.Hash, issues map[issue.Hash]*issue.Issue) ([]issue.Hash, error) {
	var result []issue.Hash
	visited := map[issue.Hash]bool{h: true}
	current := h
	for {
		i, ok := issues[current]
		if !ok {
			return result, nil
		}
		parent, ok := i.Parent()
		if !ok {
			return result, nil
		}
		if visited[parent] {
			return nil, fmt.Errorf("issue %s: %w", parent, ErrCycle)
		}
		visited[parent] = true
		result = append(result, parent)
		current = parent
	}
}
