package cmd

import (
	"fmt"
	"time"

	"cobweb/internal/issue"
	"cobweb/internal/issuefilter"
	"cobweb/internal/issueservice"

	"github.com/spf13/cobra"
)

// listOptions holds the list filter flags.
type listOptions struct {
	hash         string
	parent       string
	author       string
	title        string
	description  string
	assignedTo   string
	typ          *valueFlag[issue.Type]
	priority     *valueFlag[issue.Priority]
	status       *valueFlag[issue.Status]
	fromCreation *valueFlag[time.Time]
	toCreation   *valueFlag[time.Time]
	fromStart    *valueFlag[time.Time]
	toStart      *valueFlag[time.Time]
	fromDue      *valueFlag[time.Time]
	toDue        *valueFlag[time.Time]
	fromProgress *valueFlag[uint8]
	toProgress   *valueFlag[uint8]
	short        bool
}

// newListCmd creates the list command.
func newListCmd(provider *AppProvider) *cobra.Command {
	opts := &listOptions{
		typ:          newTypeFlag(),
		priority:     newPriorityFlag(),
		status:       newStatusFlag(),
		fromCreation: newDateFlag(),
		toCreation:   newDateFlag(),
		fromStart:    newDateFlag(),
		toStart:      newDateFlag(),
		fromDue:      newDateFlag(),
		toDue:        newDateFlag(),
		fromProgress: newProgressFlag(),
		toProgress:   newProgressFlag(),
	}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Display issues",
		Long: `Display issues, optionally filtered.

All given filters must match. Text filters (author, title, description,
assigned) are regular expressions; date bounds use "YYYY-MM-DD HH:MM" in
local time and are inclusive, as are progress bounds. Issues are listed
oldest first.

Examples:
  cobweb list
  cobweb list --status open --priority high
  cobweb list --title '^Crash' --author alice
  cobweb list --from-due "2024-05-01 00:00" --to-due "2024-05-31 23:59"
  cobweb list --parent 3f2a --short`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := provider.Get()
			if err != nil {
				return err
			}
			handler, err := app.LoadIssues()
			if err != nil {
				return err
			}

			filter, err := opts.filter(handler)
			if err != nil {
				return err
			}
			issues := handler.Filtered(filter)

			p := app.palette()
			fmt.Fprintf(app.Out, "Found %d %s\n", len(issues), plural(len(issues), "issue", "issues"))
			for _, i := range issues {
				if opts.short {
					renderShort(app.Out, p, i)
				} else {
					renderLong(app.Out, p, i)
				}
			}
			return nil
		},
	}

	f := cmd.Flags()
	// -h filters by hash, so help is long-form only.
	f.Bool("help", false, "help for list")
	f.StringVarP(&opts.hash, "hash", "h", "", "Filter by issue hash (or unique prefix)")
	f.VarP(opts.typ, "type", "t", "Filter by type ("+choices(issue.Types())+")")
	f.StringVarP(&opts.parent, "parent", "p", "", "Filter by parent issue hash (or unique prefix)")
	f.StringVarP(&opts.author, "author", "a", "", "Filter by author regex")
	f.VarP(opts.fromCreation, "from-creation", "c", "Filter from creation date")
	f.VarP(opts.toCreation, "to-creation", "C", "Filter to creation date")
	f.StringVarP(&opts.title, "title", "T", "", "Filter by title regex")
	f.StringVarP(&opts.description, "description", "d", "", "Filter by description regex")
	f.VarP(opts.priority, "priority", "i", "Filter by priority ("+choices(issue.Priorities())+")")
	f.VarP(opts.status, "status", "s", "Filter by status ("+choices(issue.Statuses())+")")
	f.StringVarP(&opts.assignedTo, "assigned", "r", "", "Filter by assignee regex")
	f.VarP(opts.fromStart, "from-start", "b", "Filter from start date")
	f.VarP(opts.toStart, "to-start", "B", "Filter to start date")
	f.VarP(opts.fromDue, "from-due", "e", "Filter from due date")
	f.VarP(opts.toDue, "to-due", "E", "Filter to due date")
	f.VarP(opts.fromProgress, "from-progress", "g", "Filter from progress (0-100)")
	f.VarP(opts.toProgress, "to-progress", "G", "Filter to progress (0-100)")
	f.BoolVar(&opts.short, "short", false, "One line per issue")

	return cmd
}

// filter builds the issue filter from the given flags. Hash prefixes are
// resolved against the loaded issues.
func (o *listOptions) filter(h *issueservice.Handler) (*issuefilter.Filter, error) {
	f := issuefilter.New()

	if o.hash != "" {
		hash, err := resolveHash(h, o.hash)
		if err != nil {
			return nil, err
		}
		f.SetHashMatch(hash)
	}
	if o.parent != "" {
		parent, err := resolveHash(h, o.parent)
		if err != nil {
			return nil, fmt.Errorf("parent: %w", err)
		}
		f.SetParentMatch(parent)
	}

	patterns := []struct {
		value string
		set   func(string) error
	}{
		{o.author, f.SetAuthorMatch},
		{o.title, f.SetTitleMatch},
		{o.description, f.SetDescriptionMatch},
		{o.assignedTo, f.SetAssignedToMatch},
	}
	for _, p := range patterns {
		if p.value == "" {
			continue
		}
		if err := p.set(p.value); err != nil {
			return nil, err
		}
	}

	if v, ok := o.typ.get(); ok {
		f.SetTypeMatch(v)
	}
	if v, ok := o.priority.get(); ok {
		f.SetPriorityMatch(v)
	}
	if v, ok := o.status.get(); ok {
		f.SetStatusMatch(v)
	}

	dates := []struct {
		flag *valueFlag[time.Time]
		set  func(time.Time)
	}{
		{o.fromCreation, f.SetCreationDateFromMatch},
		{o.toCreation, f.SetCreationDateToMatch},
		{o.fromStart, f.SetStartDateFromMatch},
		{o.toStart, f.SetStartDateToMatch},
		{o.fromDue, f.SetDueDateFromMatch},
		{o.toDue, f.SetDueDateToMatch},
	}
	for _, d := range dates {
		if v, ok := d.flag.get(); ok {
			d.set(v)
		}
	}

	if v, ok := o.fromProgress.get(); ok {
		if err := f.SetProgressFromMatch(v); err != nil {
			return nil, err
		}
	}
	if v, ok := o.toProgress.get(); ok {
		if err := f.SetProgressToMatch(v); err != nil {
			return nil, err
		}
	}
	return f, nil
}
