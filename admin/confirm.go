package admin

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Confirmer asks the operator to confirm a destructive action before the
// request goes out. The console plugs in a terminal prompt; tests plug in
// AutoConfirm.
type Confirmer interface {
	Confirm(prompt string) bool
}

// AutoConfirm answers yes to everything.
type AutoConfirm struct{}

func (AutoConfirm) Confirm(string) bool { return true }

// TerminalConfirmer prompts y/N on the console. It shares the scanner with
// the surrounding command loop so input stays in order.
type TerminalConfirmer struct {
	In  *bufio.Scanner
	Out io.Writer
}

func (t *TerminalConfirmer) Confirm(prompt string) bool {
	fmt.Fprintf(t.Out, "%s [y/N]: ", prompt)
	if !t.In.Scan() {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(t.In.Text()))
	return answer == "y" || answer == "yes"
}
