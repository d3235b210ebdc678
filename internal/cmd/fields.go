package cmd

import (
	"context"
	"time"

	"cobweb/internal/issue"
	"cobweb/internal/issueservice"

	"github.com/spf13/pflag"
)

// fieldOptions holds the flags open and edit share for setting issue fields.
type fieldOptions struct {
	author          string
	parent          string
	assignedTo      string
	description     string
	descriptionEdit bool
	typ             *valueFlag[issue.Type]
	priority        *valueFlag[issue.Priority]
	status          *valueFlag[issue.Status]
	startDate       *valueFlag[time.Time]
	dueDate         *valueFlag[time.Time]
	progress        *valueFlag[uint8]
}

func newFieldOptions() *fieldOptions {
	return &fieldOptions{
		typ:       newTypeFlag(),
		priority:  newPriorityFlag(),
		status:    newStatusFlag(),
		startDate: newDateFlag(),
		dueDate:   newDateFlag(),
		progress:  newProgressFlag(),
	}
}

func (o *fieldOptions) register(f *pflag.FlagSet) {
	f.VarP(o.typ, "type", "t", "Set issue type ("+choices(issue.Types())+")")
	f.StringVarP(&o.parent, "parent", "p", "", "Set parent issue hash (or unique prefix)")
	f.StringVarP(&o.author, "author", "a", "", "Set issue author")
	f.StringVarP(&o.description, "description", "d", "", "Set issue description")
	f.BoolVarP(&o.descriptionEdit, "description-edit", "D", false, "Edit the description in $VISUAL/$EDITOR")
	f.VarP(o.priority, "priority", "i", "Set priority ("+choices(issue.Priorities())+")")
	f.VarP(o.status, "status", "s", "Set status ("+choices(issue.Statuses())+")")
	f.StringVarP(&o.assignedTo, "assigned", "r", "", "Assign issue to given user")
	f.VarP(o.startDate, "start-date", "b", `Set start date ("YYYY-MM-DD HH:MM")`)
	f.VarP(o.dueDate, "due-date", "e", `Set due date ("YYYY-MM-DD HH:MM")`)
	f.VarP(o.progress, "progress", "g", "Set progress (0-100)")
}

// apply sets every given field on i. The parent is resolved and checked
// against the loaded issues; the description editor runs last so it starts
// from any --description given alongside it.
func (o *fieldOptions) apply(ctx context.Context, app *App, h *issueservice.Handler, i *issue.Issue) error {
	if o.author != "" {
		i.SetAuthor(o.author)
	}
	if v, ok := o.typ.get(); ok {
		i.SetType(v)
	}
	if o.parent != "" {
		parent, err := resolveHash(h, o.parent)
		if err != nil {
			return err
		}
		if err := h.ValidateParent(i.Hash(), parent); err != nil {
			return err
		}
		i.SetParent(parent)
	}
	if v, ok := o.priority.get(); ok {
		i.SetPriority(v)
	}
	if v, ok := o.status.get(); ok {
		i.SetStatus(v)
	}
	if o.assignedTo != "" {
		i.SetAssignedTo(o.assignedTo)
	}
	if v, ok := o.startDate.get(); ok {
		i.SetStartDate(v)
	}
	if v, ok := o.dueDate.get(); ok {
		i.SetDueDate(v)
	}
	if v, ok := o.progress.get(); ok {
		if err := i.SetProgress(v); err != nil {
			return err
		}
	}
	if o.description != "" {
		i.SetDescription(o.description)
	}
	if o.descriptionEdit {
		current, _ := i.Description()
		edited, err := app.editText(ctx, current)
		if err != nil {
			return err
		}
		if edited == "" {
			i.ClearDescription()
		} else {
			i.SetDescription(edited)
		}
	}
	return nil
}
