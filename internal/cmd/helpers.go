package cmd

import (
	"fmt"
	"strings"

	"cobweb/internal/issue"
	"cobweb/internal/issueservice"
	"cobweb/internal/issuestorage"
)

// resolveIssue finds the issue named by text: a full hash, or a prefix
// matching exactly one issue.
func resolveIssue(h *issueservice.Handler, text string) (*issue.Issue, error) {
	text = strings.ToLower(strings.TrimSpace(text))
	if hash, err := issue.ParseHash(text); err == nil {
		i, ok := h.Issue(hash)
		if !ok {
			return nil, fmt.Errorf("issue %s: %w", hash, issuestorage.ErrNotFound)
		}
		return i, nil
	}
	if text == "" || len(text) > issue.HashLen || strings.Trim(text, "0123456789abcdef") != "" {
		return nil, &issue.ParseError{Kind: "hash", Text: text}
	}

	var matches []*issue.Issue
	for _, i := range h.Issues() {
		if strings.HasPrefix(i.Hash().String(), text) {
			matches = append(matches, i)
		}
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("issue %s: %w", text, issuestorage.ErrNotFound)
	case 1:
		return matches[0], nil
	}
	hashes := make([]string, len(matches))
	for n, m := range matches {
		hashes[n] = m.Hash().String()
	}
	return nil, fmt.Errorf("ambiguous prefix %q matches multiple issues: %s", text, strings.Join(hashes, ", "))
}

// resolveHash is resolveIssue for callers that only need the hash.
func resolveHash(h *issueservice.Handler, text string) (issue.Hash, error) {
	i, err := resolveIssue(h, text)
	if err != nil {
		return issue.Hash{}, err
	}
	return i.Hash(), nil
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
