package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"fit-service/internal/catalog/model"
	"fit-service/internal/fileio"
)

// Store is the persistence the catalog needs; internal/store/sqlite implements it.
type Store interface {
	CreateGarment(ctx context.Context, g *model.Garment) error
	GetGarment(ctx context.Context, id int64) (model.Garment, error)
	ListGarments(ctx context.Context, gender string) ([]model.Garment, error)
	CategoryAverages(ctx context.Context) ([]model.CategoryAverage, error)
}

// Catalog wires ingestion and search around a Store.
type Catalog struct {
	store     Store
	tolerance float64
	log       zerolog.Logger
}

// NewCatalog fails with model.ErrInvalidTolerance for a negative or non-finite
// default tolerance. Zero is allowed and means exact match.
func NewCatalog(store Store, tolerance float64, logger zerolog.Logger) (*Catalog, error) {
	if !validTolerance(tolerance) {
		return nil, fmt.Errorf("default tolerance %v: %w", tolerance, model.ErrInvalidTolerance)
	}
	return &Catalog{store: store, tolerance: tolerance, log: logger.With().Str("component", "catalog").Logger()}, nil
}

// Tolerance is the default used when a search does not set its own.
func (c *Catalog) Tolerance() float64 { return c.tolerance }

// Add stores one manually entered garment.
func (c *Catalog) Add(ctx context.Context, in model.GarmentInput) (model.Garment, error) {
	g, err := GarmentFromInput(in)
	if err != nil {
		return model.Garment{}, err
	}
	if err := c.store.CreateGarment(ctx, &g); err != nil {
		return model.Garment{}, fmt.Errorf("store garment: %w", err)
	}
	c.log.Info().Int64("id", g.ID).Int("measurements", len(g.Measurements)).Msg("garment added")
	return g, nil
}

// Import stores every usable row of t. Rows missing a field or carrying an
// unrecognized price are skipped and reported; a missing required column
// rejects the whole table. A storage failure stops the import and returns
// the report so far.
func (c *Catalog) Import(ctx context.Context, t fileio.Table, m model.ColumnMapping) (model.ImportReport, error) {
	rep := model.ImportReport{Skipped: []model.SkippedRow{}}
	cols, err := resolveColumns(t.Header, m)
	if err != nil {
		return rep, err
	}

	start := time.Now()
	for _, rec := range t.Records {
		g, err := GarmentFromInput(cols.rowInput(rec))
		if err != nil {
			rep.Skipped = append(rep.Skipped, model.SkippedRow{Row: rec.Line, Reason: err.Error()})
			continue
		}
		if err := c.store.CreateGarment(ctx, &g); err != nil {
			return rep, fmt.Errorf("store line %d: %w", rec.Line, err)
		}
		rep.Imported++
	}

	c.log.Info().
		Int("imported", rep.Imported).
		Int("skipped", len(rep.Skipped)).
		Dur("elapsed", time.Since(start)).
		Msg("import done")
	return rep, nil
}

// Search loads the (gender-filtered) catalog and ranks it against q.
func (c *Catalog) Search(ctx context.Context, q model.SearchQuery) ([]model.MatchCandidate, error) {
	garments, err := c.store.ListGarments(ctx, q.Gender)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	res, err := Rank(garments, q)
	if err != nil {
		return nil, err
	}
	c.log.Debug().
		Int("catalog", len(garments)).
		Int("fields", len(q.Target)).
		Float64("tolerance", q.Tolerance).
		Int("results", len(res)).
		Msg("search")
	return res, nil
}

func (c *Catalog) Get(ctx context.Context, id int64) (model.Garment, error) {
	return c.store.GetGarment(ctx, id)
}

func (c *Catalog) List(ctx context.Context, gender string) ([]model.Garment, error) {
	return c.store.ListGarments(ctx, gender)
}

func (c *Catalog) Averages(ctx context.Context) ([]model.CategoryAverage, error) {
	return c.store.CategoryAverages(ctx)
}
