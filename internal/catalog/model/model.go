package model

import (
	"sort"
	"time"
)

// Measurements maps a normalized category ("busto", "comprimento manga") to centimeters.
type Measurements map[string]float64

type MeasurementEntry struct {
	Category string  `json:"category"`
	Value    float64 `json:"value"`
}

// Entries returns the mapping as entries sorted by category.
func (m Measurements) Entries() []MeasurementEntry {
	out := make([]MeasurementEntry, 0, len(m))
	for c, v := range m {
		out = append(out, MeasurementEntry{Category: c, Value: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out
}

type Garment struct {
	ID              int64              `json:"id"`
	SourceRef       string             `json:"url"`
	PriceCents      int64              `json:"priceCents"`
	RawMeasurements string             `json:"measurementsText"` // verbatim, parse source of truth
	Measurements    []MeasurementEntry `json:"measurements"`     // derived from RawMeasurements
	Gender          string             `json:"gender,omitempty"`
	CreatedAt       time.Time          `json:"createdAt"`
}

// MeasurementMap builds the category→value view; later entries win.
func (g Garment) MeasurementMap() Measurements {
	m := make(Measurements, len(g.Measurements))
	for _, e := range g.Measurements {
		m[e.Category] = e.Value
	}
	return m
}

// GarmentInput holds the raw fields of a manual entry or a spreadsheet row.
type GarmentInput struct {
	SourceRef       string
	PriceText       string
	RawMeasurements string
	Gender          string
}

type SearchQuery struct {
	Target    Measurements
	Tolerance float64 // centimeters, inclusive
	Gender    string  // empty = any
}

type MatchCandidate struct {
	Garment               Garment            `json:"garment"`
	FieldsCompared        int                `json:"fieldsCompared"`
	FieldsWithinTolerance int                `json:"fieldsWithinTolerance"`
	MeanAbsDiff           float64            `json:"meanAbsDiff"`
	FieldDiffs            map[string]float64 `json:"fieldDiffs"`
}

type CategoryAverage struct {
	Category string  `json:"category"`
	Average  float64 `json:"average"`
	Count    int     `json:"count"`
}

// ColumnMapping names the spreadsheet columns; "a|b" lists alternatives.
type ColumnMapping struct {
	SourceKey       string
	MeasurementsKey string
	PriceKey        string
	GenderKey       string // optional
	HeaderRow       int    // 1-based
}

func DefaultColumnMapping() ColumnMapping {
	return ColumnMapping{
		SourceKey:       "URL",
		MeasurementsKey: "Measurements",
		PriceKey:        "Price",
		GenderKey:       "Gender",
		HeaderRow:       1,
	}
}

type SkippedRow struct {
	Row    int    `json:"row"` // 1-based line in the sheet
	Reason string `json:"reason"`
}

type ImportReport struct {
	Imported int          `json:"imported"`
	Skipped  []SkippedRow `json:"skipped"`
}
