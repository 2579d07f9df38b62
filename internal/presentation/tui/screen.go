package tui

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/aretw0/calcgame/pkg/domain"
	"github.com/muesli/termenv"
)

// screenWidth is the inner width of the drawn calculator display.
const screenWidth = 24

// Screen draws calculator views.
type Screen struct {
	out     io.Writer
	profile termenv.Profile
}

// NewScreen draws on w. Colors are used only when color is set.
func NewScreen(w io.Writer, color bool) *Screen {
	profile := termenv.Ascii
	if color {
		profile = termenv.ColorProfile()
	}
	return &Screen{out: w, profile: profile}
}

// Render draws the display box with the screen text right-aligned, then the
// money and the undo state.
func (s *Screen) Render(v domain.View) {
	text := v.Screen
	if n := utf8.RuneCountInString(text); n > screenWidth {
		runes := []rune(text)
		text = "…" + string(runes[n-screenWidth+1:])
	}
	pad := screenWidth - utf8.RuneCountInString(text)

	border := s.profile.String("+" + strings.Repeat("-", screenWidth+2) + "+").Foreground(s.profile.Color("#64748b"))
	display := s.profile.String(strings.Repeat(" ", pad) + text).Bold().Foreground(s.profile.Color("#a3e635"))

	fmt.Fprintln(s.out, border)
	fmt.Fprintf(s.out, "| %s |\n", display)
	fmt.Fprintln(s.out, border)

	money := s.profile.String(v.Money.String()).Foreground(s.profile.Color("#facc15"))
	fmt.Fprintf(s.out, "  money: %s   step %d/%d%s\n", money, v.Cursor+1, v.Entries, undoHints(v))
}

// Error reports a rejected input.
func (s *Screen) Error(err error) {
	fmt.Fprintln(s.out, s.profile.String("  ! "+err.Error()).Foreground(s.profile.Color("#f87171")))
}

func undoHints(v domain.View) string {
	var hints []string
	if v.CanUndo {
		hints = append(hints, "undo")
	}
	if v.CanRedo {
		hints = append(hints, "redo")
	}
	if len(hints) == 0 {
		return ""
	}
	return "   [" + strings.Join(hints, " ") + "]"
}
