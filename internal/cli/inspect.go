package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/aretw0/canvas/internal/presentation/tui"
	"github.com/aretw0/canvas/pkg/domain"
	"golang.org/x/term"
)

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// terminalWidth returns the width of w, or 0 when unknown.
func terminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok {
		return 0
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return 0
	}
	return width
}

// Inspect writes the markdown summary of a canvas. On a terminal it is
// rendered with glamour; otherwise the raw markdown is written.
func Inspect(w io.Writer, canvasID string, g domain.Graph) error {
	md := tui.Summary(canvasID, g)
	if !IsTerminal(w) {
		_, err := io.WriteString(w, md)
		return err
	}

	render, err := tui.NewRenderer(terminalWidth(w))
	if err != nil {
		return fmt.Errorf("failed to create renderer: %w", err)
	}
	out, err := render(md)
	if err != nil {
		return fmt.Errorf("failed to render summary: %w", err)
	}
	_, err = io.WriteString(w, out)
	return err
}
