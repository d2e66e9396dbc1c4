// Command import loads a garment spreadsheet straight into the catalog database.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"fit-service/internal/catalog/model"
	catSvc "fit-service/internal/catalog/service"
	"fit-service/internal/config"
	"fit-service/internal/fileio"
	"fit-service/internal/store/sqlite"
)

func main() {
	cfg := config.Load()
	var (
		path      = flag.String("file", "", "Spreadsheet to import (.xlsx, .xls or .csv)")
		dbPath    = flag.String("db", cfg.DBPath, "SQLite database path")
		headerRow = flag.Int("header-row", 1, "1-based header row")
		urlCol    = flag.String("url-col", "", "URL column name (default URL)")
		measCol   = flag.String("measurements-col", "", "Measurements column name (default Measurements)")
		priceCol  = flag.String("price-col", "", "Price column name (default Price)")
		genderCol = flag.String("gender-col", "", "Gender column name (default Gender)")
	)
	flag.Parse()

	logger := config.SetupLogger(cfg).With().Str("component", "import").Logger()
	m := columnMapping(*headerRow, *urlCol, *measCol, *priceCol, *genderCol)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, logger, os.Stdout, *path, *dbPath, m); err != nil {
		logger.Error().Err(err).Msg("import failed")
		os.Exit(1)
	}
}

// columnMapping overrides the default column names with the non-empty flags.
func columnMapping(headerRow int, urlCol, measCol, priceCol, genderCol string) model.ColumnMapping {
	m := model.DefaultColumnMapping()
	m.HeaderRow = headerRow
	if urlCol != "" {
		m.SourceKey = urlCol
	}
	if measCol != "" {
		m.MeasurementsKey = measCol
	}
	if priceCol != "" {
		m.PriceKey = priceCol
	}
	if genderCol != "" {
		m.GenderKey = genderCol
	}
	return m
}

func run(ctx context.Context, logger zerolog.Logger, out io.Writer, path, dbPath string, m model.ColumnMapping) error {
	if path == "" {
		return errors.New("-file is required")
	}
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	table, err := fileio.ReadTable(f, path, m.HeaderRow)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	store, err := sqlite.Open(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	svc, err := catSvc.NewCatalog(store, catSvc.DefaultTolerance, logger)
	if err != nil {
		return err
	}
	rep, err := svc.Import(ctx, table, m)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(rep)
}
