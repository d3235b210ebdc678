package cmd

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"cobweb/internal/issue"

	"github.com/spf13/pflag"
)

// dateLayout is the input and display format for dates, in local time.
const dateLayout = "2006-01-02 15:04"

// valueFlag is a pflag.Value that parses its text into T when the flag is
// given and remembers whether it was.
type valueFlag[T any] struct {
	value    T
	set      bool
	typeName string
	parse    func(string) (T, error)
	format   func(T) string
}

var _ pflag.Value = (*valueFlag[int])(nil)

func (f *valueFlag[T]) String() string {
	if !f.set {
		return ""
	}
	return f.format(f.value)
}

func (f *valueFlag[T]) Set(s string) error {
	v, err := f.parse(s)
	if err != nil {
		return err
	}
	f.value = v
	f.set = true
	return nil
}

func (f *valueFlag[T]) Type() string {
	return f.typeName
}

// get returns the parsed value and whether the flag was given.
func (f *valueFlag[T]) get() (T, bool) {
	return f.value, f.set
}

func newTypeFlag() *valueFlag[issue.Type] {
	return &valueFlag[issue.Type]{typeName: "type", parse: issue.ParseType, format: issue.Type.String}
}

func newPriorityFlag() *valueFlag[issue.Priority] {
	return &valueFlag[issue.Priority]{typeName: "priority", parse: issue.ParsePriority, format: issue.Priority.String}
}

func newStatusFlag() *valueFlag[issue.Status] {
	return &valueFlag[issue.Status]{typeName: "status", parse: issue.ParseStatus, format: issue.Status.String}
}

func newDateFlag() *valueFlag[time.Time] {
	return &valueFlag[time.Time]{typeName: "date", parse: parseDate, format: formatDate}
}

func newProgressFlag() *valueFlag[uint8] {
	return &valueFlag[uint8]{
		typeName: "percent",
		parse:    parseProgress,
		format:   func(p uint8) string { return strconv.Itoa(int(p)) },
	}
}

// parseDate reads a "YYYY-MM-DD HH:MM" local time.
func parseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(dateLayout, s, time.Local)
	if err != nil {
		return time.Time{}, &issue.ParseError{Kind: "date", Text: s, Err: err}
	}
	return t, nil
}

func formatDate(t time.Time) string {
	return t.In(time.Local).Format(dateLayout)
}

// parseProgress reads a percentage between 0 and 100.
func parseProgress(s string) (uint8, error) {
	n, err := strconv.ParseUint(s, 10, 8)
	if err != nil {
		return 0, &issue.ParseError{Kind: "progress", Text: s, Err: err}
	}
	if n > issue.MaxProgress {
		return 0, fmt.Errorf("progress %d: %w", n, issue.ErrOutOfRange)
	}
	return uint8(n), nil
}

// choices renders the accepted values of an enum for help text.
func choices[T fmt.Stringer](values []T) string {
	names := make([]string, len(values))
	for i, v := range values {
		names[i] = v.String()
	}
	return strings.Join(names, ", ")
}
