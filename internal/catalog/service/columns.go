package service

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var rxNonWord = regexp.MustCompile(`[^\p{L}\p{N}]+`)

// normHeaderKey folds a column name for comparison: lowercase, no accents,
// punctuation collapsed to single spaces. "Preço (R$)" → "preco r".
func normHeaderKey(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if folded, _, err := transform.String(t, s); err == nil {
		s = folded
	}
	s = rxNonWord.ReplaceAllString(s, " ")
	return strings.Join(strings.Fields(s), " ")
}

// Headers this close to a wanted name are taken as typos of it ("Mesurements").
const headerSimilarity = 0.8

// resolveColumn finds the header matching want ("URL|Link" lists alternatives).
// Exact names win, then folded equality, then the longest containment match,
// then the closest spelling above headerSimilarity. Returns "" when nothing fits.
func resolveColumn(header []string, want string) string {
	want = strings.TrimSpace(want)
	if want == "" {
		return ""
	}
	alts := strings.Split(want, "|")
	for i := range alts {
		alts[i] = strings.TrimSpace(alts[i])
	}

	for _, a := range alts {
		for _, h := range header {
			if h == a {
				return h
			}
		}
	}

	folded := make([]string, 0, len(alts))
	for _, a := range alts {
		if n := normHeaderKey(a); n != "" {
			folded = append(folded, n)
		}
	}
	for _, h := range header {
		nh := normHeaderKey(h)
		for _, n := range folded {
			if nh == n {
				return h
			}
		}
	}

	best, bestScore := "", 0
	for _, h := range header {
		nh := normHeaderKey(h)
		if nh == "" {
			continue
		}
		for _, n := range folded {
			if strings.Contains(nh, n) && len(n) > bestScore {
				best, bestScore = h, len(n)
			}
		}
	}
	if best != "" {
		return best
	}

	bestSim := headerSimilarity
	for _, h := range header {
		nh := normHeaderKey(h)
		for _, n := range folded {
			if s := similarity(nh, n); s >= bestSim {
				best, bestSim = h, s
			}
		}
	}
	return best
}
