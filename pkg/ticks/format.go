package ticks

import (
	"math"
	"strconv"
	"strings"
)

// Thresholds for switching labels to scaled notation.
const (
	// scaleAbove and scaleBelow bound the magnitudes labelled without an exponent.
	scaleAbove = 1e5
	scaleBelow = 1e-3

	// offsetRatio is the magnitude-to-step ratio above which an offset is used.
	offsetRatio = 1e5

	maxDecimals = 15
)

// Formatted holds tick labels and the modifiers needed to read them.
// A label l stands for the value l * 10^Exponent + Offset.
type Formatted struct {
	Labels   []string
	Offset   float64
	Exponent int
}

// Modifier returns the annotation drawn next to an axis whose labels are
// scaled or offset, or "" when labels are literal.
func (f Formatted) Modifier() string {
	var parts []string
	if f.Exponent != 0 {
		parts = append(parts, "×1e"+strconv.Itoa(f.Exponent))
	}
	if f.Offset != 0 {
		sign := "+"
		if f.Offset < 0 {
			sign = "-"
		}
		parts = append(parts, sign+strconv.FormatFloat(math.Abs(f.Offset), 'g', -1, 64))
	}
	return strings.Join(parts, " ")
}

// Format labels values spaced by step using the fewest decimals that keep
// consecutive labels distinct and each label within step/1000 of its value.
// Very large or very small magnitudes are scaled by a power of ten, and
// values crowded far from zero are shown relative to an offset.
func Format(values []float64, step float64) Formatted {
	if len(values) == 0 {
		return Formatted{}
	}
	step = math.Abs(step)

	var f Formatted
	first, last := values[0], values[len(values)-1]
	if len(values) > 1 && step > 0 && maxAbs(values)/step >= offsetRatio {
		mag := math.Pow10(int(math.Ceil(math.Log10(math.Abs(last-first) + step))))
		f.Offset = math.Floor(math.Min(first, last)/mag) * mag
	}

	shifted := make([]float64, len(values))
	for i, v := range values {
		shifted[i] = v - f.Offset
	}
	if m := maxAbs(shifted); m >= scaleAbove || (m > 0 && m < scaleBelow) {
		f.Exponent = int(math.Floor(math.Log10(m)))
		div := math.Pow10(f.Exponent)
		for i := range shifted {
			shifted[i] /= div
		}
		step /= div
	}

	f.Labels = decimals(shifted, step)
	return f
}

// Literal labels values spaced by step with the same decimal rule as
// Format, but never scales or offsets them.
func Literal(values []float64, step float64) []string {
	return decimals(values, math.Abs(step))
}

// Apply labels values spaced by step with the offset and exponent of f, so
// they read against the same modifier.
func (f Formatted) Apply(values []float64, step float64) []string {
	div := math.Pow10(f.Exponent)
	shifted := make([]float64, len(values))
	for i, v := range values {
		shifted[i] = (v - f.Offset) / div
	}
	return decimals(shifted, math.Abs(step)/div)
}

func decimals(values []float64, step float64) []string {
	labels := make([]string, len(values))
	for p := 0; p <= maxDecimals; p++ {
		ok := true
		for i, v := range values {
			labels[i] = formatFixed(v, p)
			if i > 0 && labels[i] == labels[i-1] {
				ok = false
			}
			tol := step / 1000
			if step == 0 {
				tol = 1e-9 * math.Max(1, math.Abs(v))
			}
			if parsed, err := strconv.ParseFloat(labels[i], 64); err != nil || math.Abs(parsed-v) > tol {
				ok = false
			}
		}
		if ok {
			return labels
		}
	}
	return labels
}

func formatFixed(v float64, prec int) string {
	s := strconv.FormatFloat(v, 'f', prec, 64)
	if strings.HasPrefix(s, "-") && strings.Trim(s[1:], "0.") == "" {
		return s[1:]
	}
	return s
}

func maxAbs(values []float64) float64 {
	m := 0.0
	for _, v := range values {
		m = math.Max(m, math.Abs(v))
	}
	return m
}
