package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"fit-service/internal/catalog/model"
	"fit-service/internal/fileio"
	"fit-service/internal/middleware"
	"fit-service/internal/utils"
)

func requestLogger(logger zerolog.Logger, r *http.Request) zerolog.Logger {
	if rid := middleware.GetRequestID(r); rid != "" {
		return logger.With().Str("rid", rid).Logger()
	}
	return logger
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

// writeError maps domain errors to 4xx; anything else is logged and hidden.
func writeError(w http.ResponseWriter, log zerolog.Logger, err error) {
	var tooBig *http.MaxBytesError
	switch {
	case errors.Is(err, model.ErrMissingField),
		errors.Is(err, model.ErrInvalidPrice),
		errors.Is(err, model.ErrMissingColumn),
		errors.Is(err, model.ErrInvalidTolerance),
		errors.Is(err, fileio.ErrUnsupportedFile):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, model.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.As(err, &tooBig):
		writeJSON(w, http.StatusRequestEntityTooLarge, map[string]string{"error": "request too large"})
	default:
		log.Error().Err(err).Msg("request failed")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal"})
	}
}

func formError(w http.ResponseWriter, err error) {
	var tooBig *http.MaxBytesError
	if errors.As(err, &tooBig) {
		writeJSON(w, http.StatusRequestEntityTooLarge, map[string]string{"error": "request too large"})
		return
	}
	badRequest(w, "bad form: "+err.Error())
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
}

func atoi(s string, def int) int {
	if s == "" {
		return def
	}
	i, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return def
	}
	return i
}

// targetFromForm reads the known measurement inputs; blank and non-numeric
// fields are left out of the target.
func targetFromForm(r *http.Request) model.Measurements {
	target := make(model.Measurements)
	for _, f := range SearchFields {
		raw := r.FormValue(f.Key)
		if strings.TrimSpace(raw) == "" {
			continue
		}
		if v, ok := utils.ParseFloatBR(raw); ok {
			target[f.Category] = v
		}
	}
	return target
}

// mappingFromForm overrides the default spreadsheet columns with *_col fields.
func mappingFromForm(r *http.Request) model.ColumnMapping {
	m := model.DefaultColumnMapping()
	if v := strings.TrimSpace(r.FormValue("url_col")); v != "" {
		m.SourceKey = v
	}
	if v := strings.TrimSpace(r.FormValue("measurements_col")); v != "" {
		m.MeasurementsKey = v
	}
	if v := strings.TrimSpace(r.FormValue("price_col")); v != "" {
		m.PriceKey = v
	}
	if v := strings.TrimSpace(r.FormValue("gender_col")); v != "" {
		m.GenderKey = v
	}
	m.HeaderRow = atoi(r.FormValue("header_row"), 1)
	return m
}
