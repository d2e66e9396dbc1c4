package utils

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// "R$ 1.234,56", "R$99,90", "R$ 1.299"
var rxPriceBRL = regexp.MustCompile(`R\$\s?([\d.,]+)`)

var spaceStripper = strings.NewReplacer(" ", "", "\u00A0", "", "\u202F", "", "\t", "")

// ParseFloatBR parses a user-typed decimal: "99,5", "99.5", " 114 ".
// Anything that is not a plain finite number is rejected.
func ParseFloatBR(s string) (float64, bool) {
	s = spaceStripper.Replace(strings.TrimSpace(s))
	if s == "" {
		return 0, false
	}
	s = strings.ReplaceAll(s, ",", ".")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// ParsePriceBRL finds an "R$" amount in s and returns it in cents.
// Dots are thousands separators and the comma is the decimal separator.
// Amounts that do not fit in int64 cents are rejected.
func ParsePriceBRL(s string) (int64, bool) {
	m := rxPriceBRL.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	num := strings.ReplaceAll(m[1], ".", "")
	num = strings.ReplaceAll(num, ",", ".")
	f, err := strconv.ParseFloat(num, 64)
	if err != nil || f < 0 {
		return 0, false
	}
	cents := math.Round(f * 100)
	if cents >= math.MaxInt64 {
		return 0, false
	}
	return int64(cents), true
}
