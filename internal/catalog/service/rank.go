package service

import (
	"math"
	"sort"
	"strings"

	"fit-service/internal/catalog/model"
)

// DefaultTolerance is the per-field closeness threshold in centimeters.
const DefaultTolerance = 5.0

// Rank scores every garment against q.Target and returns the ones with at
// least one field within tolerance: most fields within tolerance first, then
// smallest mean absolute difference, then catalog order.
//
// Garments sharing no category with the target are left out, so an empty
// target yields an empty result. The catalog is not modified.
func Rank(catalog []model.Garment, q model.SearchQuery) ([]model.MatchCandidate, error) {
	if !validTolerance(q.Tolerance) {
		return nil, model.ErrInvalidTolerance
	}
	target := finiteTarget(q.Target)
	gender := normalizeGender(q.Gender)

	cands := make([]model.MatchCandidate, 0, len(catalog))
	for _, g := range catalog {
		if gender != "" && normalizeGender(g.Gender) != gender {
			continue
		}
		if c, ok := score(g, target, q.Tolerance); ok {
			cands = append(cands, c)
		}
	}

	sort.SliceStable(cands, func(i, j int) bool {
		a, b := cands[i], cands[j]
		if a.FieldsWithinTolerance != b.FieldsWithinTolerance {
			return a.FieldsWithinTolerance > b.FieldsWithinTolerance
		}
		return a.MeanAbsDiff < b.MeanAbsDiff
	})

	// sorted descending, so everything after the first zero is zero too
	n := sort.Search(len(cands), func(i int) bool { return cands[i].FieldsWithinTolerance == 0 })
	return cands[:n], nil
}

// RankCandidates is Rank with the query spelled out.
func RankCandidates(catalog []model.Garment, target model.Measurements, tolerance float64, gender string) ([]model.MatchCandidate, error) {
	return Rank(catalog, model.SearchQuery{Target: target, Tolerance: tolerance, Gender: gender})
}

// score compares g against target; ok is false when no category overlaps.
func score(g model.Garment, target []model.MeasurementEntry, tolerance float64) (model.MatchCandidate, bool) {
	have := g.MeasurementMap()
	c := model.MatchCandidate{Garment: g, FieldDiffs: make(map[string]float64)}
	total := 0.0
	for _, t := range target {
		got, ok := have[t.Category]
		if !ok {
			continue
		}
		d := math.Abs(t.Value - got)
		c.FieldsCompared++
		c.FieldDiffs[t.Category] = d
		total += d
		if d <= tolerance {
			c.FieldsWithinTolerance++
		}
	}
	if c.FieldsCompared == 0 {
		return model.MatchCandidate{}, false
	}
	c.MeanAbsDiff = total / float64(c.FieldsCompared)
	return c, true
}

// finiteTarget drops NaN/Inf readings, which can never be compared, and fixes
// the summation order so repeated searches produce bit-identical means.
func finiteTarget(t model.Measurements) []model.MeasurementEntry {
	out := make([]model.MeasurementEntry, 0, len(t))
	for _, e := range t.Entries() {
		if math.IsNaN(e.Value) || math.IsInf(e.Value, 0) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// validTolerance accepts any finite non-negative value; zero means exact match.
func validTolerance(t float64) bool {
	return !math.IsNaN(t) && !math.IsInf(t, 0) && t >= 0
}

func normalizeGender(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
