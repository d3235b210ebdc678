package cmd

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"cobweb/internal/config"
	"cobweb/internal/issue"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderLongUnsetFields(t *testing.T) {
	i := issue.New("alice", "Fix login bug")
	var buf bytes.Buffer
	renderLong(&buf, palette{}, i)

	lines := strings.Split(buf.String(), "\n")
	require.GreaterOrEqual(t, len(lines), 9)
	assert.Equal(t, ">", lines[0])
	assert.Equal(t, "Title: Fix login bug", lines[1])
	assert.True(t, strings.HasPrefix(lines[2], "Type: Bug "), lines[2])
	assert.Contains(t, lines[2], "Creation date: "+formatDate(i.CreationDate()))
	assert.Contains(t, lines[3], "Hash: "+i.Hash().String())
	assert.True(t, strings.HasSuffix(lines[3], "Parent: -"), lines[3])
	assert.True(t, strings.HasSuffix(lines[4], "Assigned to: -"), lines[4])
	assert.True(t, strings.HasSuffix(lines[5], "Due date: -"), lines[5])
	assert.Contains(t, lines[6], "Priority: Medium")
	assert.True(t, strings.HasSuffix(lines[6], "Progress:   0%"), lines[6])
	assert.Equal(t, "Description:", lines[7])
	assert.Equal(t, "-", lines[8])
	assert.NotContains(t, buf.String(), "\033[")
}

func TestRenderLongSetFields(t *testing.T) {
	parent := issue.New("alice", "parent")
	i := issue.New("alice", "child")
	i.SetParent(parent.Hash())
	i.SetAssignedTo("bob")
	i.SetDueDate(time.Date(2024, 6, 1, 12, 0, 0, 0, time.Local))
	i.SetDescription("first line\nsecond line")
	require.NoError(t, i.SetProgress(7))

	var buf bytes.Buffer
	renderLong(&buf, palette{}, i)
	text := buf.String()

	assert.Contains(t, text, "Parent: "+parent.Hash().String())
	assert.Contains(t, text, "Assigned to: bob")
	assert.Contains(t, text, "Due date: 2024-06-01 12:00")
	assert.Contains(t, text, "Progress:   7%")
	assert.Contains(t, text, "Description:\nfirst line\nsecond line\n")
}

func TestRenderColors(t *testing.T) {
	i := issue.New("alice", "colored")
	i.SetPriority(issue.PriorityHigh)

	var buf bytes.Buffer
	renderShort(&buf, palette{enabled: true}, i)
	assert.Contains(t, buf.String(), ansiYellow+">"+ansiReset)

	assert.True(t, strings.HasPrefix(paintPriority(palette{enabled: true}, issue.PriorityHigh), ansiRed))
	assert.True(t, strings.HasPrefix(paintPriority(palette{enabled: true}, issue.PriorityLow), ansiGreen))
	assert.Equal(t, "Medium          ", paintPriority(palette{}, issue.PriorityMedium))
}

func TestRenderConfig(t *testing.T) {
	var buf bytes.Buffer
	renderConfig(&buf, palette{}, config.Config{Editor: "vim"})
	assert.Equal(t, "User: -\nEditor: vim\n", buf.String())
}
