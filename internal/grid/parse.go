package grid

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	leadingNumber = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)
	lineBreak     = regexp.MustCompile(`\r?\n`)
)

// parseFloatLoose parses the longest numeric prefix of s after trimming, so
// "8.5 pts" reads as 8.5. It fails on text without a leading number.
func parseFloatLoose(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return v, !math.IsNaN(v) && !math.IsInf(v, 0)
	}
	m := leadingNumber.FindString(s)
	if m == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// NormalizeCell converts typed cell text into a score. Empty text clears the
// cell; anything else is parsed, unreadable text becomes 0 and negatives are
// raised to 0.
func NormalizeCell(text string) *float64 {
	if text == "" {
		return nil
	}
	v, ok := parseFloatLoose(text)
	if !ok {
		v = 0
	}
	v = math.Max(v, 0)
	return &v
}

// ParsePasteLine reads one pasted line. The first comma is taken as the
// decimal separator. ok is false for lines that are not numeric.
func ParsePasteLine(line string) (float64, bool) {
	line = strings.Replace(strings.TrimSpace(line), ",", ".", 1)
	v, ok := parseFloatLoose(line)
	if !ok {
		return 0, false
	}
	return math.Max(v, 0), true
}

// SplitLines splits clipboard text into lines, dropping blank ones.
func SplitLines(text string) []string {
	parts := lineBreak.Split(text, -1)
	out := parts[:0]
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			out = append(out, p)
		}
	}
	return out
}
