package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Number is the numeric value every expression evaluates to.
// It is a complex number; purely real values are the common case.
type Number complex128

// Infinity is the distinguished positive-infinity value.
var Infinity = Number(complex(math.Inf(1), 0))

// Real builds a Number without an imaginary component.
func Real(x float64) Number {
	return Number(complex(x, 0))
}

// Re returns the real component.
func (n Number) Re() float64 { return real(complex128(n)) }

// Im returns the imaginary component.
func (n Number) Im() float64 { return imag(complex128(n)) }

// IsReal reports whether the imaginary component is zero.
func (n Number) IsReal() bool { return n.Im() == 0 }

// IsInfinity reports whether n is exactly the Infinity sentinel.
func (n Number) IsInfinity() bool { return n == Infinity }

// Compare orders numbers by their real part only.
// The imaginary component never takes part in ordering.
func (n Number) Compare(other Number) int {
	a, b := n.Re(), other.Re()
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Less reports whether n sorts before other (real part only).
func (n Number) Less(other Number) bool { return n.Compare(other) < 0 }

// String returns the canonical display form used on the calculator screen.
func (n Number) String() string {
	re, im := n.Re(), n.Im()
	if re == 0 && im == 0 {
		return "0"
	}
	if n.IsInfinity() {
		return "Infinity"
	}
	if im == 0 {
		return formatComponent(re)
	}
	if re == 0 {
		return formatComponent(im) + "j"
	}
	sign := "+"
	if im < 0 {
		sign = "-"
		im = -im
	}
	return fmt.Sprintf("(%s%s%sj)", formatComponent(re), sign, formatComponent(im))
}

func formatComponent(x float64) string {
	switch {
	case math.IsNaN(x):
		return "nan"
	case math.IsInf(x, 1):
		return "inf"
	case math.IsInf(x, -1):
		return "-inf"
	}
	if abs := math.Abs(x); abs >= 1e-4 && abs < 1e16 {
		return strconv.FormatFloat(x, 'f', -1, 64)
	}
	return strconv.FormatFloat(x, 'g', -1, 64)
}

// MarshalJSON encodes the number as a two element array of strings so that
// non-finite components survive the round trip.
func (n Number) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]string{
		strconv.FormatFloat(n.Re(), 'g', -1, 64),
		strconv.FormatFloat(n.Im(), 'g', -1, 64),
	})
}

// UnmarshalJSON accepts the array form written by MarshalJSON and, for
// convenience, a plain JSON number.
func (n *Number) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if !strings.HasPrefix(trimmed, "[") {
		var f float64
		if err := json.Unmarshal(data, &f); err != nil {
			return fmt.Errorf("invalid number: %w", err)
		}
		*n = Real(f)
		return nil
	}

	var parts [2]string
	if err := json.Unmarshal(data, &parts); err != nil {
		return fmt.Errorf("invalid number: %w", err)
	}
	re, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return fmt.Errorf("invalid real component: %w", err)
	}
	im, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return fmt.Errorf("invalid imaginary component: %w", err)
	}
	*n = Number(complex(re, im))
	return nil
}
