package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the canvas banner to w, colored for the terminal profile.
func PrintBanner(w io.Writer) {
	p := termenv.ColorProfile()
	lines := []struct {
		text  string
		color string
	}{
		{`   ___ __ _ _ ____ ____ _ ___`, "#38bdf8"},
		{`  / __/ _' | '_ \ \ / / _' / __|`, "#22d3ee"},
		{` | (_| (_| | | | \ V / (_| \__ \`, "#2dd4bf"},
		{`  \___\__,_|_| |_|\_/ \__,_|___/`, "#34d399"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}
