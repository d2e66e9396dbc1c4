package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fit-service/internal/catalog/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "garments.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestCreateAndGetGarment(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	g := model.Garment{
		SourceRef:       "https://loja.example/p/1",
		PriceCents:      8990,
		RawMeasurements: "busto:\n114 cm\ncintura: 100 cm",
		Measurements: []model.MeasurementEntry{
			{Category: "busto", Value: 114},
			{Category: "cintura", Value: 100},
		},
		Gender: "feminino",
	}
	require.NoError(t, s.CreateGarment(ctx, &g))
	assert.Positive(t, g.ID)
	assert.False(t, g.CreatedAt.IsZero())

	got, err := s.GetGarment(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, g.SourceRef, got.SourceRef)
	assert.Equal(t, g.PriceCents, got.PriceCents)
	assert.Equal(t, g.RawMeasurements, got.RawMeasurements)
	assert.Equal(t, g.Gender, got.Gender)
	assert.Equal(t, g.Measurements, got.Measurements)
	assert.Equal(t, g.CreatedAt.Unix(), got.CreatedAt.Unix())

	_, err = s.GetGarment(ctx, g.ID+100)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestDuplicateCategoryKeepsLast(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	g := model.Garment{
		SourceRef:       "x",
		RawMeasurements: "-",
		Measurements:    []model.MeasurementEntry{{Category: "busto", Value: 100}, {Category: "busto", Value: 110}},
	}
	require.NoError(t, s.CreateGarment(ctx, &g))

	got, err := s.GetGarment(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, []model.MeasurementEntry{{Category: "busto", Value: 110}}, got.Measurements)
}

func TestListGarments(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	all, err := s.ListGarments(ctx, "")
	require.NoError(t, err)
	assert.NotNil(t, all)
	assert.Empty(t, all)

	for _, g := range []model.Garment{
		{SourceRef: "a", RawMeasurements: "-", Gender: "feminino", Measurements: []model.MeasurementEntry{{Category: "busto", Value: 90}}},
		{SourceRef: "b", RawMeasurements: "-", Gender: "masculino"},
		{SourceRef: "c", RawMeasurements: "-", Gender: "feminino", Measurements: []model.MeasurementEntry{{Category: "cava", Value: 20}, {Category: "aba", Value: 3}}},
	} {
		g := g
		require.NoError(t, s.CreateGarment(ctx, &g))
	}

	all, err = s.ListGarments(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "a", all[0].SourceRef)
	assert.Equal(t, "b", all[1].SourceRef)
	assert.NotNil(t, all[1].Measurements)
	assert.Empty(t, all[1].Measurements)
	assert.Equal(t, []model.MeasurementEntry{{Category: "aba", Value: 3}, {Category: "cava", Value: 20}}, all[2].Measurements)

	fem, err := s.ListGarments(ctx, " Feminino ")
	require.NoError(t, err)
	require.Len(t, fem, 2)
	assert.Equal(t, "a", fem[0].SourceRef)
	assert.Equal(t, "c", fem[1].SourceRef)
}

func TestCategoryAverages(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	for _, ms := range [][]model.MeasurementEntry{
		{{Category: "busto", Value: 100}, {Category: "cintura", Value: 80}},
		{{Category: "busto", Value: 110}},
	} {
		g := model.Garment{SourceRef: "x", RawMeasurements: "-", Measurements: ms}
		require.NoError(t, s.CreateGarment(ctx, &g))
	}

	avgs, err := s.CategoryAverages(ctx)
	require.NoError(t, err)
	assert.Equal(t, []model.CategoryAverage{
		{Category: "busto", Average: 105, Count: 2},
		{Category: "cintura", Average: 80, Count: 1},
	}, avgs)
}

func TestPing(t *testing.T) {
	assert.NoError(t, openTestStore(t).Ping(context.Background()))
}
