package service

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"

	"fit-service/internal/catalog/model"
)

// "114 cm", "99,5cm", "77.0\u00a0cm". A number without the cm marker is not a measurement.
var reCentimeters = regexp.MustCompile(`(\d+[.,]?\d*)[\s\x{00A0}\x{202F}]*cm`)

// ParseMeasurements extracts category→centimeters pairs from a free-text
// listing. Two layouts are accepted, mixed freely:
//
//	busto:            cintura: 112 cm
//	114 cm
//
// A category line consumes at most one following line. Unparseable lines are
// skipped; the result is never nil.
func ParseMeasurements(text string) model.Measurements {
	out := make(model.Measurements)
	pending := ""

	for _, line := range splitLines(text) {
		switch {
		case strings.HasSuffix(line, ":"):
			// a new label replaces one still waiting for its value
			pending = normalizeCategory(strings.TrimSuffix(line, ":"))

		case pending != "":
			if v, ok := findCentimeters(line); ok {
				out[pending] = v
			}
			pending = ""

		case strings.Contains(line, ":"):
			cat, rest, _ := strings.Cut(line, ":")
			cat = normalizeCategory(cat)
			if cat == "" {
				continue
			}
			if v, ok := findCentimeters(rest); ok {
				out[cat] = v
			}
		}
	}
	return out
}

func isLineBreak(r rune) bool {
	switch r {
	case '\n', '\r', '\v', '\f', 0x1c, 0x1d, 0x1e, 0x85, 0x2028, 0x2029:
		return true
	}
	return false
}

// splitLines breaks on every line terminator (lone CR included) and drops blank lines.
func splitLines(text string) []string {
	raw := strings.FieldsFunc(text, isLineBreak)
	lines := make([]string, 0, len(raw))
	for _, l := range raw {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}

// normalizeCategory: trim, lowercase, NFC so "circunferência" has one spelling.
func normalizeCategory(s string) string {
	return norm.NFC.String(strings.ToLower(strings.TrimSpace(s)))
}

func findCentimeters(s string) (float64, bool) {
	m := reCentimeters.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	num := strings.ReplaceAll(m[1], ",", ".")
	num = strings.TrimSuffix(num, ".") // "114, cm"
	v, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
