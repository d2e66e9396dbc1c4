package service

import (
	"fmt"
	"strings"

	"fit-service/internal/catalog/model"
	"fit-service/internal/fileio"
	"fit-service/internal/utils"
)

// Header spellings tried in addition to the configured column names.
var columnAliases = map[string]string{
	"URL":          "Link|Source",
	"Measurements": "Medidas|Medições",
	"Price":        "Preço",
	"Gender":       "Gênero|Sexo",
}

// GarmentFromInput validates raw fields and builds a garment ready to store.
// URL, price and measurement text are required; the price must be written as
// "R$ 1.234,56". The measurement text is kept verbatim and parsed.
func GarmentFromInput(in model.GarmentInput) (model.Garment, error) {
	src := strings.TrimSpace(in.SourceRef)
	switch {
	case src == "":
		return model.Garment{}, fmt.Errorf("%w: url", model.ErrMissingField)
	case strings.TrimSpace(in.RawMeasurements) == "":
		return model.Garment{}, fmt.Errorf("%w: measurements", model.ErrMissingField)
	case strings.TrimSpace(in.PriceText) == "":
		return model.Garment{}, fmt.Errorf("%w: price", model.ErrMissingField)
	}

	cents, ok := utils.ParsePriceBRL(in.PriceText)
	if !ok {
		return model.Garment{}, fmt.Errorf("%w: %q", model.ErrInvalidPrice, in.PriceText)
	}

	return model.Garment{
		SourceRef:       src,
		PriceCents:      cents,
		RawMeasurements: in.RawMeasurements,
		Measurements:    ParseMeasurements(in.RawMeasurements).Entries(),
		Gender:          normalizeGender(in.Gender),
	}, nil
}

// columns holds the resolved header names of one sheet.
type columns struct {
	source, measurements, price, gender string
}

func resolveColumns(header []string, m model.ColumnMapping) (columns, error) {
	var c columns
	for _, req := range []struct {
		dst  *string
		want string
	}{
		{&c.source, m.SourceKey},
		{&c.measurements, m.MeasurementsKey},
		{&c.price, m.PriceKey},
	} {
		*req.dst = resolveColumn(header, withAliases(req.want))
		if *req.dst == "" {
			return columns{}, fmt.Errorf("%w: %s", model.ErrMissingColumn, req.want)
		}
	}
	c.gender = resolveColumn(header, withAliases(m.GenderKey))
	return c, nil
}

func withAliases(want string) string {
	if a, ok := columnAliases[strings.TrimSpace(want)]; ok {
		return want + "|" + a
	}
	return want
}

// rowInput lifts one spreadsheet record into a GarmentInput.
func (c columns) rowInput(rec fileio.Record) model.GarmentInput {
	in := model.GarmentInput{
		SourceRef:       rec.Values[c.source],
		RawMeasurements: rec.Values[c.measurements],
		PriceText:       rec.Values[c.price],
	}
	if c.gender != "" {
		in.Gender = rec.Values[c.gender]
	}
	return in
}
