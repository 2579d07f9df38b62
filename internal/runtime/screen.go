package runtime

import "strings"

// NormalizeScreen applies the screen display rules: a single leading "0" is
// dropped when more text follows, and "(x+0j)" is shown as "x".
func NormalizeScreen(text string) string {
	if len(text) > 1 && strings.HasPrefix(text, "0") {
		text = text[1:]
	}
	if strings.HasPrefix(text, "(") && strings.HasSuffix(text, "+0j)") {
		text = text[1 : len(text)-len("+0j)")]
	}
	return text
}
