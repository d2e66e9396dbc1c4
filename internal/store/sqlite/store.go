package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite" // cgo-free driver

	"fit-service/internal/catalog/model"
)

const schema = `
CREATE TABLE IF NOT EXISTS garments (
	id               INTEGER PRIMARY KEY AUTOINCREMENT,
	source_ref       TEXT    NOT NULL,
	price_cents      INTEGER NOT NULL,
	raw_measurements TEXT    NOT NULL,
	gender           TEXT    NOT NULL DEFAULT '',
	created_at       INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS garments_gender ON garments(gender);

CREATE TABLE IF NOT EXISTS measurement_values (
	garment_id INTEGER NOT NULL REFERENCES garments(id) ON DELETE CASCADE,
	category   TEXT    NOT NULL,
	value      REAL    NOT NULL,
	PRIMARY KEY (garment_id, category)
);
`

type Store struct {
	db   *sql.DB
	path string
}

// Open creates or opens the database at path and applies the schema.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("pragma failed: %w", err)
		}
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("schema failed: %w", err)
	}
	return &Store{db: db, path: path}, nil
}

func (s *Store) Close() error { return s.db.Close() }
func (s *Store) Path() string { return s.path }

// CreateGarment inserts g and its measurement entries in one transaction,
// filling in g.ID and g.CreatedAt.
func (s *Store) CreateGarment(ctx context.Context, g *model.Garment) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if g.CreatedAt.IsZero() {
		g.CreatedAt = time.Now().UTC()
	}
	res, err := tx.ExecContext(ctx,
		`INSERT INTO garments (source_ref, price_cents, raw_measurements, gender, created_at) VALUES (?, ?, ?, ?, ?)`,
		g.SourceRef, g.PriceCents, g.RawMeasurements, g.Gender, g.CreatedAt.Unix())
	if err != nil {
		return fmt.Errorf("insert garment: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}

	// INSERT OR REPLACE keeps one value per category, the last one written
	for _, m := range g.Measurements {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR REPLACE INTO measurement_values (garment_id, category, value) VALUES (?, ?, ?)`,
			id, m.Category, m.Value); err != nil {
			return fmt.Errorf("insert measurement %q: %w", m.Category, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	g.ID = id
	return nil
}

// GetGarment returns model.ErrNotFound when id does not exist.
func (s *Store) GetGarment(ctx context.Context, id int64) (model.Garment, error) {
	gs, err := s.list(ctx, "WHERE g.id = ?", id)
	if err != nil {
		return model.Garment{}, err
	}
	if len(gs) == 0 {
		return model.Garment{}, model.ErrNotFound
	}
	return gs[0], nil
}

// ListGarments returns the catalog in insertion order; a non-empty gender
// restricts it to that tag (case-insensitive).
func (s *Store) ListGarments(ctx context.Context, gender string) ([]model.Garment, error) {
	gender = strings.ToLower(strings.TrimSpace(gender))
	if gender == "" {
		return s.list(ctx, "")
	}
	return s.list(ctx, "WHERE lower(g.gender) = ?", gender)
}

func (s *Store) list(ctx context.Context, where string, args ...any) ([]model.Garment, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT g.id, g.source_ref, g.price_cents, g.raw_measurements, g.gender, g.created_at,
		       m.category, m.value
		FROM garments g
		LEFT JOIN measurement_values m ON m.garment_id = g.id
		`+where+`
		ORDER BY g.id, m.category`, args...)
	if err != nil {
		return nil, fmt.Errorf("query garments: %w", err)
	}
	defer rows.Close()

	out := []model.Garment{}
	for rows.Next() {
		var (
			g        model.Garment
			created  int64
			category sql.NullString
			value    sql.NullFloat64
		)
		if err := rows.Scan(&g.ID, &g.SourceRef, &g.PriceCents, &g.RawMeasurements, &g.Gender, &created,
			&category, &value); err != nil {
			return nil, err
		}
		if n := len(out); n == 0 || out[n-1].ID != g.ID {
			g.CreatedAt = time.Unix(created, 0).UTC()
			g.Measurements = []model.MeasurementEntry{}
			out = append(out, g)
		}
		if category.Valid && value.Valid {
			last := &out[len(out)-1]
			last.Measurements = append(last.Measurements, model.MeasurementEntry{Category: category.String, Value: value.Float64})
		}
	}
	return out, rows.Err()
}

// CategoryAverages averages every category over the whole catalog.
func (s *Store) CategoryAverages(ctx context.Context) ([]model.CategoryAverage, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT category, AVG(value), COUNT(*)
		FROM measurement_values
		GROUP BY category
		ORDER BY category`)
	if err != nil {
		return nil, fmt.Errorf("query averages: %w", err)
	}
	defer rows.Close()

	out := []model.CategoryAverage{}
	for rows.Next() {
		var a model.CategoryAverage
		if err := rows.Scan(&a.Category, &a.Average, &a.Count); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// Ping is used by the health check.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("sqlite unavailable: %w", err)
	}
	return nil
}
