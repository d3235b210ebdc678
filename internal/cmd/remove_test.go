package cmd

import (
	"bytes"
	"strings"
	"testing"

	"cobweb/internal/issue"
	"cobweb/internal/issuestorage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seedTree stores root <- child <- grandchild plus an unrelated issue.
func seedTree(t *testing.T, store issuestorage.Store) (root, child, grandchild, other *issue.Issue) {
	t.Helper()
	issues := seed(t, store, "root", "child", "grandchild", "other")
	root, child, grandchild, other = issues[0], issues[1], issues[2], issues[3]
	child.SetParent(root.Hash())
	grandchild.SetParent(child.Hash())
	require.NoError(t, store.WriteIssue(child))
	require.NoError(t, store.WriteIssue(grandchild))
	return root, child, grandchild, other
}

func remaining(t *testing.T, store issuestorage.Store) []issue.Hash {
	t.Helper()
	hashes, err := store.Hashes()
	require.NoError(t, err)
	return hashes
}

func TestRemoveConfirmed(t *testing.T) {
	app, store := setupTestApp(t)
	root, child, grandchild, other := seedTree(t, store)
	app.In = strings.NewReader("y\n")
	out := app.Out.(*bytes.Buffer)

	require.NoError(t, execute(newRemoveCmd(NewTestProvider(app)), root.Hash().String()))

	text := out.String()
	assert.Contains(t, text, "Following issues are about to be deleted:\n")
	for _, i := range []*issue.Issue{root, child, grandchild} {
		assert.Contains(t, text, "H: "+i.Hash().String())
	}
	assert.NotContains(t, text, other.Hash().String())
	assert.Contains(t, text, confirmPrompt)
	assert.Contains(t, text, "Removed 3 issues\n")

	assert.Equal(t, []issue.Hash{other.Hash()}, remaining(t, store))
}

func TestRemoveListsParentBeforeChildren(t *testing.T) {
	app, store := setupTestApp(t)
	root, child, grandchild, _ := seedTree(t, store)
	out := app.Out.(*bytes.Buffer)

	require.NoError(t, execute(newRemoveCmd(NewTestProvider(app)), root.Hash().String(), "--force"))

	text := out.String()
	r := strings.Index(text, root.Hash().String())
	c := strings.Index(text, child.Hash().String())
	g := strings.Index(text, grandchild.Hash().String())
	assert.True(t, r < c && c < g, "listing order root=%d child=%d grandchild=%d", r, c, g)
	assert.NotContains(t, text, confirmPrompt)
}

func TestRemoveDeclined(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"no", "n\n"},
		{"upper-case no", "N\n"},
		{"empty answer", "\n"},
		{"end of input", ""},
		{"unrecognized then no", "maybe\nn\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, store := setupTestApp(t)
			seedTree(t, store)
			before := remaining(t, store)
			app.In = strings.NewReader(tt.input)
			out := app.Out.(*bytes.Buffer)

			require.NoError(t, execute(newRemoveCmd(NewTestProvider(app)), before[0].String()))
			assert.Contains(t, out.String(), "Aborted\n")
			assert.Equal(t, before, remaining(t, store))
		})
	}
}

func TestRemoveReasksUntilAnswered(t *testing.T) {
	app, store := setupTestApp(t)
	_, _, grandchild, _ := seedTree(t, store)
	app.In = strings.NewReader("sure\nyes please\ny\n")
	out := app.Out.(*bytes.Buffer)

	require.NoError(t, execute(newRemoveCmd(NewTestProvider(app)), grandchild.Hash().String()))
	assert.Equal(t, 3, strings.Count(out.String(), confirmPrompt))
	assert.Contains(t, out.String(), "Following issue is about to be deleted:\n")
	assert.Contains(t, out.String(), "Removed 1 issue\n")
	assert.Len(t, remaining(t, store), 3)
}

func TestRemoveLeafKeepsAncestors(t *testing.T) {
	app, store := setupTestApp(t)
	root, child, grandchild, _ := seedTree(t, store)

	require.NoError(t, execute(newRemoveCmd(NewTestProvider(app)), child.Hash().String(), "-f"))

	left := remaining(t, store)
	assert.Contains(t, left, root.Hash())
	assert.NotContains(t, left, child.Hash())
	assert.NotContains(t, left, grandchild.Hash())
}

func TestRemoveUnknownIssue(t *testing.T) {
	app, store := setupTestApp(t)
	seedTree(t, store)

	err := execute(newRemoveCmd(NewTestProvider(app)), issue.New("x", "y").Hash().String(), "--force")
	assert.ErrorIs(t, err, issuestorage.ErrNotFound)
	assert.Len(t, remaining(t, store), 4)
}

func TestParseAnswer(t *testing.T) {
	tests := []struct {
		answer      string
		ok, decided bool
	}{
		{"y", true, true},
		{" Y ", true, true},
		{"n", false, true},
		{"", false, true},
		{"yes", false, false},
		{"no", false, false},
	}
	for _, tt := range tests {
		ok, decided := parseAnswer(tt.answer)
		assert.Equal(t, tt.ok, ok, "answer %q", tt.answer)
		assert.Equal(t, tt.decided, decided, "answer %q", tt.answer)
	}
}
