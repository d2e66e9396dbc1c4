package service

import (
	"context"
	"errors"
	"math"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fit-service/internal/catalog/model"
	"fit-service/internal/fileio"
)

// memStore is an in-memory Store for service tests.
type memStore struct {
	mu        sync.Mutex
	garments  []model.Garment
	createErr error
}

func (m *memStore) CreateGarment(ctx context.Context, g *model.Garment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	g.ID = int64(len(m.garments) + 1)
	m.garments = append(m.garments, *g)
	return nil
}

func (m *memStore) GetGarment(ctx context.Context, id int64) (model.Garment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, g := range m.garments {
		if g.ID == id {
			return g, nil
		}
	}
	return model.Garment{}, model.ErrNotFound
}

func (m *memStore) ListGarments(ctx context.Context, gender string) ([]model.Garment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []model.Garment{}
	for _, g := range m.garments {
		if gender == "" || strings.EqualFold(g.Gender, gender) {
			out = append(out, g)
		}
	}
	return out, nil
}

func (m *memStore) CategoryAverages(ctx context.Context) ([]model.CategoryAverage, error) {
	return []model.CategoryAverage{}, nil
}

func TestGarmentFromInput(t *testing.T) {
	valid := model.GarmentInput{
		SourceRef:       " https://loja.example/p/1 ",
		PriceText:       "R$ 1.234,56",
		RawMeasurements: "busto:\n114 cm\ncintura: 100 cm",
		Gender:          " Feminino",
	}

	t.Run("valid", func(t *testing.T) {
		g, err := GarmentFromInput(valid)
		require.NoError(t, err)
		assert.Equal(t, "https://loja.example/p/1", g.SourceRef)
		assert.Equal(t, int64(123456), g.PriceCents)
		assert.Equal(t, valid.RawMeasurements, g.RawMeasurements)
		assert.Equal(t, "feminino", g.Gender)
		assert.Equal(t, []model.MeasurementEntry{
			{Category: "busto", Value: 114},
			{Category: "cintura", Value: 100},
		}, g.Measurements)
	})

	t.Run("unparseable measurements still stored", func(t *testing.T) {
		in := valid
		in.RawMeasurements = "tamanho único"
		g, err := GarmentFromInput(in)
		require.NoError(t, err)
		assert.Empty(t, g.Measurements)
	})

	for name, mutate := range map[string]func(*model.GarmentInput){
		"missing url":          func(in *model.GarmentInput) { in.SourceRef = "  " },
		"missing measurements": func(in *model.GarmentInput) { in.RawMeasurements = "" },
		"missing price":        func(in *model.GarmentInput) { in.PriceText = "" },
	} {
		t.Run(name, func(t *testing.T) {
			in := valid
			mutate(&in)
			_, err := GarmentFromInput(in)
			assert.ErrorIs(t, err, model.ErrMissingField)
		})
	}

	t.Run("price too large for cents", func(t *testing.T) {
		in := valid
		in.PriceText = "R$ 99999999999999999999"
		_, err := GarmentFromInput(in)
		assert.ErrorIs(t, err, model.ErrInvalidPrice)
	})

	t.Run("price without currency marker", func(t *testing.T) {
		in := valid
		in.PriceText = "199,90"
		_, err := GarmentFromInput(in)
		assert.ErrorIs(t, err, model.ErrInvalidPrice)
	})
}

func TestResolveColumn(t *testing.T) {
	header := []string{"Link do produto", "Medições", "Preço (R$)", "Sexo", "Obs"}
	tests := []struct {
		want string
		exp  string
	}{
		{"Obs", "Obs"},
		{"medicoes", "Medições"},
		{"Measurements|Medições", "Medições"},
		{"preco", "Preço (R$)"},
		{"Link", "Link do produto"},
		{"Sexo", "Sexo"},
		{"Medicões", "Medições"},
		{"Mediçoes", "Medições"},
		{"Nothing", ""},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.exp, resolveColumn(header, tt.want), "want %q", tt.want)
	}
}

func TestResolveColumnTypo(t *testing.T) {
	assert.Equal(t, "Mesurements", resolveColumn([]string{"URL", "Mesurements", "Price"}, "Measurements"))
}

func newTestCatalog(t *testing.T, store Store) *Catalog {
	t.Helper()
	c, err := NewCatalog(store, DefaultTolerance, zerolog.Nop())
	require.NoError(t, err)
	return c
}

func TestNewCatalogTolerance(t *testing.T) {
	assert.Equal(t, DefaultTolerance, newTestCatalog(t, &memStore{}).Tolerance())

	for _, tol := range []float64{0, 3} {
		c, err := NewCatalog(&memStore{}, tol, zerolog.Nop())
		require.NoError(t, err)
		assert.Equal(t, tol, c.Tolerance())
	}

	for _, tol := range []float64{-3, math.NaN(), math.Inf(1)} {
		_, err := NewCatalog(&memStore{}, tol, zerolog.Nop())
		assert.ErrorIs(t, err, model.ErrInvalidTolerance, "tolerance %v", tol)
	}
}

func TestCatalogZeroToleranceIsExact(t *testing.T) {
	ctx := context.Background()
	svc, err := NewCatalog(&memStore{}, 0, zerolog.Nop())
	require.NoError(t, err)
	a, err := svc.Add(ctx, model.GarmentInput{SourceRef: "a", PriceText: "R$ 50", RawMeasurements: "busto: 114 cm"})
	require.NoError(t, err)
	_, err = svc.Add(ctx, model.GarmentInput{SourceRef: "b", PriceText: "R$ 50", RawMeasurements: "busto: 115 cm"})
	require.NoError(t, err)

	res, err := svc.Search(ctx, model.SearchQuery{Target: model.Measurements{"busto": 114}, Tolerance: svc.Tolerance()})
	require.NoError(t, err)
	assert.Equal(t, []int64{a.ID}, ids(res))
}

func TestCatalogAddAndSearch(t *testing.T) {
	ctx := context.Background()
	store := &memStore{}
	svc := newTestCatalog(t, store)

	a, err := svc.Add(ctx, model.GarmentInput{SourceRef: "a", PriceText: "R$ 50", RawMeasurements: "busto:\n114 cm"})
	require.NoError(t, err)
	b, err := svc.Add(ctx, model.GarmentInput{SourceRef: "b", PriceText: "R$ 60", RawMeasurements: "busto: 120 cm", Gender: "feminino"})
	require.NoError(t, err)

	res, err := svc.Search(ctx, model.SearchQuery{Target: model.Measurements{"busto": 115}, Tolerance: 5})
	require.NoError(t, err)
	assert.Equal(t, []int64{a.ID, b.ID}, ids(res))

	res, err = svc.Search(ctx, model.SearchQuery{Target: model.Measurements{"busto": 115}, Tolerance: 5, Gender: "feminino"})
	require.NoError(t, err)
	assert.Equal(t, []int64{b.ID}, ids(res))

	_, err = svc.Add(ctx, model.GarmentInput{SourceRef: "c", PriceText: "cinquenta", RawMeasurements: "busto: 1 cm"})
	assert.ErrorIs(t, err, model.ErrInvalidPrice)
}

func TestCatalogImport(t *testing.T) {
	ctx := context.Background()
	table := fileio.Table{
		Header: []string{"URL", "Measurements", "Price", "Gender"},
		Records: []fileio.Record{
			{Line: 2, Values: map[string]string{"URL": "a", "Measurements": "busto:\n114 cm", "Price": "R$ 99,90", "Gender": "F"}},
			{Line: 3, Values: map[string]string{"URL": "", "Measurements": "busto: 100 cm", "Price": "R$ 10"}},
			{Line: 4, Values: map[string]string{"URL": "c", "Measurements": "busto: 100 cm", "Price": "99.90"}},
			{Line: 5, Values: map[string]string{"URL": "d", "Measurements": "cintura: 80 cm", "Price": "R$1.299,00"}},
		},
	}

	t.Run("imports valid rows and reports the rest", func(t *testing.T) {
		store := &memStore{}
		rep, err := newTestCatalog(t, store).Import(ctx, table, model.DefaultColumnMapping())
		require.NoError(t, err)
		assert.Equal(t, 2, rep.Imported)
		require.Len(t, rep.Skipped, 2)
		assert.Equal(t, 3, rep.Skipped[0].Row)
		assert.Contains(t, rep.Skipped[0].Reason, "url")
		assert.Equal(t, 4, rep.Skipped[1].Row)

		require.Len(t, store.garments, 2)
		assert.Equal(t, "f", store.garments[0].Gender)
		assert.Equal(t, int64(129900), store.garments[1].PriceCents)
	})

	t.Run("missing required column", func(t *testing.T) {
		bad := fileio.Table{Header: []string{"URL", "Price"}}
		_, err := newTestCatalog(t, &memStore{}).Import(ctx, bad, model.DefaultColumnMapping())
		assert.ErrorIs(t, err, model.ErrMissingColumn)
	})

	t.Run("empty sheet", func(t *testing.T) {
		_, err := newTestCatalog(t, &memStore{}).Import(ctx, fileio.Table{}, model.DefaultColumnMapping())
		assert.ErrorIs(t, err, model.ErrMissingColumn)
	})

	t.Run("store failure stops import", func(t *testing.T) {
		boom := errors.New("disk full")
		rep, err := newTestCatalog(t, &memStore{createErr: boom}).Import(ctx, table, model.DefaultColumnMapping())
		assert.ErrorIs(t, err, boom)
		assert.Zero(t, rep.Imported)
	})
}
