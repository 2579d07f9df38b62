package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"
)

// PrintBanner writes the calcgame banner and version to w.
func PrintBanner(w io.Writer, version string) {
	p := termenv.ColorProfile()
	lines := []struct {
		text  string
		color string
	}{
		{"            _                            ", "#34d399"},
		{"   ___ __ _| | ___ __ _  __ _ _ __ ___   ", "#2dd4bf"},
		{"  / __/ _` | |/ __/ _` |/ _` | '_ ` _ \\  ", "#22d3ee"},
		{" | (_| (_| | | (_| (_| | (_| | | | | | | ", "#38bdf8"},
		{"  \\___\\__,_|_|\\___\\__, |\\__,_|_| |_| |_| ", "#60a5fa"},
		{"                  |___/                  ", "#818cf8"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	if v := strings.TrimSpace(version); v != "" {
		fmt.Fprintln(w, termenv.String("  v"+v).Faint())
	}
	fmt.Fprintln(w)
}
