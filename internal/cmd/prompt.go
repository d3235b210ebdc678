package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/peterh/liner"
)

const confirmPrompt = "Continue? (y/[n]) "

// confirm asks for a yes/no answer until it gets one. "y" accepts; "n", an
// empty answer, end of input or Ctrl-C decline. Interactive terminals get
// line editing through liner, anything else is read line by line.
func (a *App) confirm() (bool, error) {
	if isTerminal(a.In) && isTerminal(a.Out) {
		return confirmTerminal()
	}
	return confirmReader(a.In, a.Out)
}

func confirmTerminal() (bool, error) {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	for {
		answer, err := line.Prompt(confirmPrompt)
		if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
			return false, nil
		}
		if err != nil {
			return false, fmt.Errorf("reading confirmation: %w", err)
		}
		if ok, decided := parseAnswer(answer); decided {
			return ok, nil
		}
	}
}

func confirmReader(in io.Reader, out io.Writer) (bool, error) {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, confirmPrompt)
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return false, fmt.Errorf("reading confirmation: %w", err)
			}
			fmt.Fprintln(out)
			return false, nil
		}
		if ok, decided := parseAnswer(scanner.Text()); decided {
			return ok, nil
		}
	}
}

func parseAnswer(answer string) (ok, decided bool) {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y":
		return true, true
	case "n", "":
		return false, true
	}
	return false, false
}
