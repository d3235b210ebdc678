package cmd

import (
	"fmt"
	"io"

	"cobweb/internal/config"
	"cobweb/internal/issue"
)

const none = "-"

// renderShort prints a one-line summary:
//
//	> H: 3f2a9c0d11e4b7a8 T: Fix login bug
func renderShort(w io.Writer, p palette, i *issue.Issue) {
	fmt.Fprintf(w, "%s %s %s %s %s\n",
		p.yellow(">"), p.bold("H:"), i.Hash(), p.bold("T:"), i.Title())
}

// renderLong prints every field of an issue:
//
//	>
//	Title: Fix login bug
//	Type: Bug                        Creation date: 2024-04-23 10:23
//	Hash: 3f2a9c0d11e4b7a8           Parent: -
//	Author: alice                    Assigned to: -
//	Start date: 2024-04-23 10:23     Due date: -
//	Status: Open           Priority: Medium           Progress:   0%
//	Description:
//	-
func renderLong(w io.Writer, p palette, i *issue.Issue) {
	parent := none
	if h, ok := i.Parent(); ok {
		parent = h.String()
	}
	assigned := none
	if a, ok := i.AssignedTo(); ok {
		assigned = a
	}
	due := none
	if d, ok := i.DueDate(); ok {
		due = formatDate(d)
	}
	description := none
	if d, ok := i.Description(); ok {
		description = d
	}

	fmt.Fprintln(w, p.yellow(">"))
	fmt.Fprintf(w, "%s %s\n", p.bold("Title:"), i.Title())
	fmt.Fprintf(w, "%s %-26s %s %s\n", p.bold("Type:"), i.Type(), p.bold("Creation date:"), formatDate(i.CreationDate()))
	fmt.Fprintf(w, "%s %-26s %s %s\n", p.bold("Hash:"), i.Hash(), p.bold("Parent:"), parent)
	fmt.Fprintf(w, "%s %-24s %s %s\n", p.bold("Author:"), i.Author(), p.bold("Assigned to:"), assigned)
	fmt.Fprintf(w, "%s %-20s %s %s\n", p.bold("Start date:"), formatDate(i.StartDate()), p.bold("Due date:"), due)
	fmt.Fprintf(w, "%s %-14s %s %s %s %3d%%\n",
		p.bold("Status:"), i.Status(),
		p.bold("Priority:"), paintPriority(p, i.Priority()),
		p.bold("Progress:"), i.Progress())
	fmt.Fprintln(w, p.bold("Description:"))
	fmt.Fprintln(w, description)
	fmt.Fprintln(w)
}

// paintPriority pads the priority to its column, then colors it.
func paintPriority(p palette, pr issue.Priority) string {
	text := fmt.Sprintf("%-16s", pr)
	switch pr {
	case issue.PriorityLow:
		return p.green(text)
	case issue.PriorityHigh:
		return p.red(text)
	default:
		return p.yellow(text)
	}
}

// renderConfig prints the resolved configuration.
func renderConfig(w io.Writer, p palette, cfg config.Config) {
	user := cfg.User
	if user == "" {
		user = none
	}
	editor := cfg.Editor
	if editor == "" {
		editor = none
	}
	fmt.Fprintf(w, "%s %s\n", p.bold("User:"), user)
	fmt.Fprintf(w, "%s %s\n", p.bold("Editor:"), editor)
}
