// Package confirm gates destructive actions behind an explicit user decision.
package confirm

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Confirmer asks the user to approve a destructive action.
// Declining must leave state untouched.
type Confirmer interface {
	Confirm(prompt string) bool
}

// Func adapts a plain function to a Confirmer.
type Func func(prompt string) bool

func (f Func) Confirm(prompt string) bool {
	return f(prompt)
}

var (
	// Yes approves every prompt (the --yes flag).
	Yes Confirmer = Func(func(string) bool { return true })
	// No declines every prompt.
	No Confirmer = Func(func(string) bool { return false })
)

// Terminal prompts on out and reads a y/N answer from in.
type Terminal struct {
	in  *bufio.Reader
	out io.Writer
}

// NewTerminal creates a Terminal confirmer.
func NewTerminal(in io.Reader, out io.Writer) *Terminal {
	return &Terminal{in: bufio.NewReader(in), out: out}
}

// Confirm prints prompt and returns true only for an explicit yes.
// EOF or a read error counts as no.
func (t *Terminal) Confirm(prompt string) bool {
	fmt.Fprintf(t.out, "%s [y/N] ", prompt)

	line, err := t.in.ReadString('\n')
	if err != nil && line == "" {
		fmt.Fprintln(t.out)
		return false
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}
