// Package input cleans text typed by players before it reaches a calculator.
package input

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	// DefaultMaxInputSize bounds a single press.
	DefaultMaxInputSize = 256
	// EnvMaxInputSize is the environment variable to override the default.
	EnvMaxInputSize = "CALCGAME_MAX_INPUT_SIZE"
)

var (
	ErrInputTooLarge = errors.New("input exceeds maximum allowed size")
	ErrInvalidUTF8   = errors.New("input contains invalid UTF-8 sequences")
)

// Sanitize enforces the size limit, validates UTF-8 and strips control
// characters. The screen is a single line, so newlines and tabs go too.
func Sanitize(text string) (string, error) {
	limit := maxInputSize()
	if len(text) > limit {
		// Rejected rather than truncated so the screen never shows half a press.
		return "", fmt.Errorf("%w: size=%d limit=%d", ErrInputTooLarge, len(text), limit)
	}

	if !utf8.ValidString(text) {
		return "", ErrInvalidUTF8
	}

	if strings.IndexFunc(text, unicode.IsControl) < 0 {
		return text, nil
	}

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if !unicode.IsControl(r) {
			b.WriteRune(r)
		}
	}
	return b.String(), nil
}

func maxInputSize() int {
	if val := os.Getenv(EnvMaxInputSize); val != "" {
		if size, err := strconv.Atoi(val); err == nil && size > 0 {
			return size
		}
	}
	return DefaultMaxInputSize
}
